// Package config loads configuration for the risk service from YAML
// files with environment variable overrides.
package config

import (
	"time"

	"github.com/Arya2160/OncoSense/internal/logger"
)

// Default configuration values.
const (
	defaultServiceName        = "oncosense"
	defaultServiceVersion     = "1.0.0"
	defaultServicePort        = 8766
	defaultModelPath          = "data/leukemia_model.json"
	defaultDownloadTimeoutSec = 30
	defaultHighThreshold      = 0.72
	defaultMediumThreshold    = 0.40
	defaultReadTimeoutSec     = 30
	defaultWriteTimeoutSec    = 60
	defaultIdleTimeoutSec     = 120
	defaultShutdownTimeoutSec = 10
)

// Config holds all configuration for the risk service.
type Config struct {
	Service Service       `yaml:"service"`
	Model   Model         `yaml:"model"`
	Scoring Scoring       `yaml:"scoring"`
	Logging logger.Config `yaml:"logging"`
	CORS    CORS          `yaml:"cors"`
}

// Service holds service-level configuration.
type Service struct {
	Name            string        `yaml:"name"`
	Version         string        `yaml:"version"`
	Port            int           `env:"ONCOSENSE_PORT" yaml:"port"`
	Debug           bool          `env:"APP_DEBUG"      yaml:"debug"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// Model holds classifier artifact configuration. When URL is empty and
// no artifact exists at Path, the service runs on the heuristic path
// for its whole lifetime.
type Model struct {
	Enabled         bool          `env:"MODEL_ENABLED"          yaml:"enabled"`
	Path            string        `env:"MODEL_PATH"             yaml:"path"`
	URL             string        `env:"MODEL_URL"              yaml:"url"`
	DownloadTimeout time.Duration `env:"MODEL_DOWNLOAD_TIMEOUT" yaml:"download_timeout"`
	EagerLoad       bool          `env:"MODEL_EAGER_LOAD"       yaml:"eager_load"`
}

// Scoring holds the classification thresholds. The production threshold
// pair is 0.72/0.40; deployments must not mix it with the legacy
// 0.66/0.33 set.
type Scoring struct {
	HighThreshold   float64 `env:"SCORING_HIGH_THRESHOLD"   yaml:"high_threshold"`
	MediumThreshold float64 `env:"SCORING_MEDIUM_THRESHOLD" yaml:"medium_threshold"`
}

// CORS holds cross-origin settings for the browser front end.
type CORS struct {
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" yaml:"allowed_origins"`
}

// Load loads configuration from the specified path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := loadFile(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	setServiceDefaults(&cfg.Service)
	setModelDefaults(&cfg.Model)
	setScoringDefaults(&cfg.Scoring)
	cfg.Logging.SetDefaults()
	if len(cfg.CORS.AllowedOrigins) == 0 {
		cfg.CORS.AllowedOrigins = []string{"*"}
	}
}

func setServiceDefaults(s *Service) {
	if s.Name == "" {
		s.Name = defaultServiceName
	}
	if s.Version == "" {
		s.Version = defaultServiceVersion
	}
	if s.Port == 0 {
		s.Port = defaultServicePort
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = defaultReadTimeoutSec * time.Second
	}
	if s.WriteTimeout == 0 {
		s.WriteTimeout = defaultWriteTimeoutSec * time.Second
	}
	if s.IdleTimeout == 0 {
		s.IdleTimeout = defaultIdleTimeoutSec * time.Second
	}
	if s.ShutdownTimeout == 0 {
		s.ShutdownTimeout = defaultShutdownTimeoutSec * time.Second
	}
}

func setModelDefaults(m *Model) {
	if m.Path == "" {
		m.Path = defaultModelPath
	}
	if m.DownloadTimeout == 0 {
		m.DownloadTimeout = defaultDownloadTimeoutSec * time.Second
	}
}

func setScoringDefaults(s *Scoring) {
	if s.HighThreshold == 0 {
		s.HighThreshold = defaultHighThreshold
	}
	if s.MediumThreshold == 0 {
		s.MediumThreshold = defaultMediumThreshold
	}
}
