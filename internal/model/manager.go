package model

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/Arya2160/OncoSense/internal/logger"
)

// ErrUnavailable indicates the classifier cannot serve inference and
// callers must fall back to the heuristic path.
var ErrUnavailable = errors.New("classifier unavailable")

// State is the lifecycle state of the model artifact.
type State string

const (
	StateUnloaded State = "unloaded"
	StateLoading  State = "loading"
	StateLoaded   State = "loaded"
	// StateFailed is sticky for the process lifetime. Retrying a load on
	// every request would re-incur the load cost under a permanent
	// environment defect; a restart is the only recovery path.
	StateFailed State = "failed_permanently"
)

// Config holds model acquisition settings.
type Config struct {
	// Enabled gates the classifier path entirely.
	Enabled bool
	// Path is the local artifact location.
	Path string
	// URL is the one-time download source used when Path is absent.
	URL string
	// DownloadTimeout bounds the artifact download.
	DownloadTimeout time.Duration
}

// Fetcher downloads a model artifact from url to the local path dest.
type Fetcher interface {
	Fetch(ctx context.Context, url, dest string) error
}

// Manager owns the ModelState singleton and guards the unloaded→loading
// transition so the load attempt executes at most once even under
// concurrent first requests.
type Manager struct {
	cfg     Config
	fetcher Fetcher
	logger  logger.Logger

	mu         sync.Mutex
	state      State
	classifier *Classifier
	failure    error
}

// NewManager creates a model availability manager. A disabled config
// fails permanently up front so every request takes the heuristic path
// without a doomed load attempt.
func NewManager(cfg Config, fetcher Fetcher, log logger.Logger) *Manager {
	m := &Manager{
		cfg:     cfg,
		fetcher: fetcher,
		logger:  log,
		state:   StateUnloaded,
	}
	if !cfg.Enabled {
		m.state = StateFailed
		m.failure = errors.New("classifier disabled by configuration")
	}
	return m
}

// Classifier returns the loaded classifier, attempting the one-time
// lazy load on first call. All failures surface as ErrUnavailable.
func (m *Manager) Classifier(ctx context.Context) (*Classifier, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch m.state {
	case StateLoaded:
		return m.classifier, nil
	case StateFailed:
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, m.failure)
	default:
	}

	m.state = StateLoading
	classifier, err := m.load(ctx)
	if err != nil {
		m.state = StateFailed
		m.failure = err
		m.logger.Warn("Model load failed permanently, heuristic scoring only",
			logger.String("path", m.cfg.Path),
			logger.Error(err),
		)
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	m.state = StateLoaded
	m.classifier = classifier
	m.logger.Info("Model loaded",
		logger.String("model", classifier.Name()),
		logger.String("version", classifier.Version()),
		logger.String("path", m.cfg.Path),
	)
	return classifier, nil
}

// State returns the current lifecycle state without triggering a load.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// ModelKind reports which scoring path the service is on right now, as
// exposed by GET /health.
func (m *Manager) ModelKind() string {
	if m.State() == StateLoaded {
		return "classifier"
	}
	return "heuristic"
}

// load acquires and parses the artifact. Called with m.mu held; the
// blocking download is the one operation allowed to hold the lock,
// matching the at-most-once acquisition contract.
func (m *Manager) load(ctx context.Context) (*Classifier, error) {
	if _, err := os.Stat(m.cfg.Path); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("stat model artifact: %w", err)
		}
		if m.cfg.URL == "" {
			return nil, errors.New("no local model artifact and no model URL configured")
		}

		m.logger.Info("Downloading model artifact",
			logger.String("url", m.cfg.URL),
			logger.String("path", m.cfg.Path),
		)
		fetchCtx, cancel := context.WithTimeout(ctx, m.cfg.DownloadTimeout)
		defer cancel()
		if err := m.fetcher.Fetch(fetchCtx, m.cfg.URL, m.cfg.Path); err != nil {
			return nil, fmt.Errorf("download model artifact: %w", err)
		}
	}

	data, err := os.ReadFile(m.cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("read model artifact: %w", err)
	}

	return ParseArtifact(data)
}
