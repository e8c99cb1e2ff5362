// Command httpd runs the OncoSense risk-scoring HTTP service.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Arya2160/OncoSense/internal/api"
	"github.com/Arya2160/OncoSense/internal/config"
	"github.com/Arya2160/OncoSense/internal/engine"
	"github.com/Arya2160/OncoSense/internal/logger"
	"github.com/Arya2160/OncoSense/internal/model"
	"github.com/Arya2160/OncoSense/internal/scoring"
	"github.com/Arya2160/OncoSense/internal/telemetry"
)

func main() {
	cfgPath := config.GetConfigPath("config.yml")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.Must(cfg.Logging)
	defer func() { _ = log.Sync() }()

	log.Info("Starting risk service",
		logger.String("service", cfg.Service.Name),
		logger.String("version", cfg.Service.Version),
		logger.Int("port", cfg.Service.Port),
		logger.Bool("model_enabled", cfg.Model.Enabled),
	)

	tel := telemetry.NewProvider()

	fetcher := model.NewHTTPFetcher(&http.Client{Timeout: cfg.Model.DownloadTimeout})
	manager := model.NewManager(model.Config{
		Enabled:         cfg.Model.Enabled,
		Path:            cfg.Model.Path,
		URL:             cfg.Model.URL,
		DownloadTimeout: cfg.Model.DownloadTimeout,
	}, fetcher, log)

	heuristic := scoring.NewHeuristicScorer(log)
	composer := scoring.NewComposer(log, scoring.Thresholds{
		High:   cfg.Scoring.HighThreshold,
		Medium: cfg.Scoring.MediumThreshold,
	})

	eng := engine.New(heuristic, composer, manager, tel, log)

	if cfg.Model.EagerLoad {
		eng.WarmUp(context.Background())
	}

	handler := api.NewHandler(eng, cfg.Service.Name, cfg.Service.Version, log)
	server := api.NewServer(cfg, handler, tel.Handler(), log)

	serverErrors := server.StartAsync()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil {
			log.Error("Server error", logger.Error(err))
			os.Exit(1)
		}
	case sig := <-shutdown:
		log.Info("Shutdown signal received", logger.String("signal", sig.String()))

		if err := server.Shutdown(context.Background()); err != nil {
			log.Error("Graceful shutdown failed", logger.Error(err))
			os.Exit(1)
		}
	}

	log.Info("Risk service stopped")
}
