package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/kalaasetu/kalaasetu-backend/api/routes"
	"github.com/kalaasetu/kalaasetu-backend/internal/ai"
	"github.com/kalaasetu/kalaasetu-backend/internal/applications"
	"github.com/kalaasetu/kalaasetu-backend/internal/enhance"
	"github.com/kalaasetu/kalaasetu-backend/internal/hires"
	"github.com/kalaasetu/kalaasetu-backend/internal/requirements"
	"github.com/kalaasetu/kalaasetu-backend/internal/uploads"
	"github.com/kalaasetu/kalaasetu-backend/internal/users"
	"github.com/kalaasetu/kalaasetu-backend/pkg/config"
	"github.com/kalaasetu/kalaasetu-backend/pkg/db"
	"github.com/kalaasetu/kalaasetu-backend/pkg/gemini"
	"github.com/kalaasetu/kalaasetu-backend/pkg/logger"
	"github.com/kalaasetu/kalaasetu-backend/pkg/mailer"
	"github.com/kalaasetu/kalaasetu-backend/pkg/metrics"
	"github.com/kalaasetu/kalaasetu-backend/pkg/migrate"
	"github.com/kalaasetu/kalaasetu-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := multierr.Combine(dbClient.Close(), redisClient.Close()); err != nil {
			logg.Error(context.Background(), "error closing resources", err)
		}
	}()

	uploadStore, err := uploads.NewStore(cfg.Uploads)
	if err != nil {
		logg.Error(context.Background(), "failed to prepare upload store", err)
		os.Exit(1)
	}

	usersRepo := users.NewRepository(dbClient.DB())
	decisionMail := mailer.New(cfg.SMTP)
	if decisionMail == nil {
		logg.Warn(context.Background(), "smtp not configured, decision mail disabled")
	}

	applicationsService, err := applications.NewService(
		dbClient,
		applications.NewRepository(dbClient.DB()),
		usersRepo,
		decisionMail,
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create applications service", err)
		os.Exit(1)
	}

	requirementsService, err := requirements.NewService(requirements.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create requirements service", err)
		os.Exit(1)
	}

	hiresService, err := hires.NewService(hires.NewRepository(dbClient.DB()), usersRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create hires service", err)
		os.Exit(1)
	}

	// A missing API key keeps the routes mounted; calls fail with a
	// dependency error instead of taking the whole API down.
	var geminiClient *gemini.Client
	if cfg.Gemini.APIKey != "" {
		geminiClient, err = gemini.NewClient(
			cfg.Gemini.APIKey,
			gemini.WithModel(cfg.Gemini.Model),
			gemini.WithBaseURL(cfg.Gemini.BaseURL),
			gemini.WithTimeout(cfg.Gemini.Timeout),
		)
		if err != nil {
			logg.Error(context.Background(), "failed to create gemini client", err)
			os.Exit(1)
		}
	} else {
		logg.Warn(context.Background(), "gemini api key not set, ai text endpoints disabled")
	}

	aiService, err := ai.NewService(geminiClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create ai service", err)
		os.Exit(1)
	}

	imagePipeline, err := enhance.NewPipeline(cfg.Enhance, logg)
	if err != nil {
		logg.Warn(context.Background(), "image enhancement disabled: "+err.Error())
		imagePipeline = nil
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			httpMetrics,
			registry,
			uploadStore,
			applicationsService,
			requirementsService,
			hiresService,
			aiService,
			imagePipeline,
		),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-stopCtx.Done():
		logg.Info(ctx, "shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "server shutdown failed", err)
			os.Exit(1)
		}
		logg.Info(ctx, "server stopped")
	}
}
