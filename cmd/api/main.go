package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/ananyakrishnan/safarnama-backend/api/routes"
	"github.com/ananyakrishnan/safarnama-backend/internal/auth"
	"github.com/ananyakrishnan/safarnama-backend/internal/dictation"
	"github.com/ananyakrishnan/safarnama-backend/internal/trips"
	"github.com/ananyakrishnan/safarnama-backend/internal/users"
	"github.com/ananyakrishnan/safarnama-backend/pkg/auth/session"
	"github.com/ananyakrishnan/safarnama-backend/pkg/config"
	"github.com/ananyakrishnan/safarnama-backend/pkg/db"
	"github.com/ananyakrishnan/safarnama-backend/pkg/logger"
	"github.com/ananyakrishnan/safarnama-backend/pkg/metrics"
	"github.com/ananyakrishnan/safarnama-backend/pkg/migrate"
	"github.com/ananyakrishnan/safarnama-backend/pkg/narrative"
	"github.com/ananyakrishnan/safarnama-backend/pkg/redis"
	"github.com/ananyakrishnan/safarnama-backend/pkg/speech"
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
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

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
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	usersRepo := users.NewRepository(dbClient.DB())
	tripsRepo := trips.NewRepository(dbClient.DB())

	authService, err := auth.NewService(auth.ServiceParams{
		Users:    usersRepo,
		Sessions: sessionManager,
		JWT:      cfg.JWT,
		Password: cfg.Password,
		Policy:   cfg.Auth,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	tripService, err := trips.NewService(trips.ServiceParams{Repo: tripsRepo})
	if err != nil {
		logg.Error(context.Background(), "failed to create trip service", err)
		os.Exit(1)
	}

	speechClient, err := speech.NewClient(cfg.Speech.APIKey,
		speech.WithBaseURL(cfg.Speech.BaseURL),
		speech.WithModel(cfg.Speech.Model),
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create speech client", err)
		os.Exit(1)
	}

	narrativeClient, err := narrative.NewClient(cfg.Narrative.APIKey,
		narrative.WithBaseURL(cfg.Narrative.BaseURL),
		narrative.WithModel(cfg.Narrative.Model),
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create narrative client", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())

	dictationService, err := dictation.NewService(dictation.ServiceParams{
		Trips:       tripsRepo,
		Transcriber: speechClient,
		Narrator:    narrativeClient,
		Locks:       redisClient,
		Metrics:     metrics.NewDictationMetrics(registry),
		Config:      cfg.Dictation,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create dictation service", err)
		os.Exit(1)
	}

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
			sessionManager,
			authService,
			usersRepo,
			tripService,
			dictationService,
			registry,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
