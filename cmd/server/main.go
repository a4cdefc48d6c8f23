package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	httpadapter "envrisk/internal/adapters/http"
	pg "envrisk/internal/adapters/postgres"
	"envrisk/internal/cache"
	"envrisk/internal/collectors"
	"envrisk/internal/config"
	"envrisk/internal/ports"
	"envrisk/internal/services/assessments"
	"envrisk/internal/thresholds"
	"envrisk/internal/workers/assessrunner"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Warn("configuration incomplete", slog.String("error", err.Error()))
	}
	if cfg.DatabaseURL == "" {
		logger.Error("DATABASE_URL is required for Postgres adapters")
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := pg.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("db connect failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		logger.Error("migration failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	var _ ports.SiteRepository = db
	var _ ports.AssessmentRepository = db
	var _ ports.JobRepository = db

	mem := cache.New()
	defer mem.Close()

	store := thresholds.NewStore(cfg.ThresholdDir, mem, logger)
	collector := collectors.NewOpenMeteo(mem, collectors.WithLogger(logger))
	processor := assessments.NewProcessor(db, db, db, collector, store, cfg.CollectTimeout, logger)
	svc := assessments.NewService(db, db, cfg.DefaultCountry, logger)

	srv := httpadapter.New(svc, db, processor, logger)
	r := chi.NewRouter()
	r.Mount("/", srv.Routes())

	if cfg.AssessWorkers > 0 {
		assessrunner.Run(ctx, db, processor, cfg.AssessWorkers, 500*time.Millisecond, logger)
		logger.Info("assessment workers started", slog.Int("count", cfg.AssessWorkers))
	}

	errCh := make(chan error, 1)
	go func() { errCh <- http.ListenAndServe(cfg.ListenAddr, r) }()
	logger.Info("listening", slog.String("addr", cfg.ListenAddr), slog.String("env", cfg.Env))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		logger.Info("shutting down", slog.String("signal", sig.String()))
		cancel()
		time.Sleep(300 * time.Millisecond)
	case err := <-errCh:
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
