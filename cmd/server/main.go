package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"missionmatch/backend/internal/config"
	"missionmatch/backend/internal/database"
	"missionmatch/backend/internal/handler"
	"missionmatch/backend/internal/hub"
	"missionmatch/backend/internal/logger"
	"missionmatch/backend/internal/service"
	"missionmatch/backend/internal/store"
	"missionmatch/backend/internal/store/gormstore"
	"missionmatch/backend/internal/store/memstore"

	// Swagger imports
	_ "missionmatch/backend/docs" // This is important for swag to find the generated docs
)

// @title           MissionMatch API
// @version         1.0
// @description     Profile search and matchmaking for missionaries, churches and supporters.
// @host            localhost:8080
// @BasePath        /api/v1
// @securityDefinitions.apiKey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger.Init(cfg.AppEnv)
	log := logger.Get()

	if cfg.JWTSecret == "" {
		log.Error("JWT_SECRET is required")
		os.Exit(1)
	}

	st, err := openStore(cfg)
	if err != nil {
		log.Error("failed to open store", "error", err)
		os.Exit(1)
	}

	events := hub.New()
	svc := service.New(st, events, service.Config{
		DefaultPageSize: cfg.SearchDefaultPageSize,
		MaxPageSize:     cfg.SearchMaxPageSize,
	})
	router := handler.NewRouter(handler.New(svc, events), handler.RouterConfig{
		JWTSecret: cfg.JWTSecret,
		Users:     st.Users(),
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("server is running", "addr", cfg.ServerAddr,
			"swagger", "http://localhost"+cfg.ServerAddr+"/swagger/index.html")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", "error", err)
	}
}

// openStore uses Postgres when DATABASE_URL is set and the in-memory store
// otherwise.
func openStore(cfg *config.Config) (store.Store, error) {
	if cfg.DatabaseURL == "" {
		logger.Get().Warn("DATABASE_URL not set, using in-memory store")
		return memstore.New(), nil
	}
	db, err := database.Connect(cfg.DatabaseURL, cfg.DBSlowThreshold)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db, cfg.DatabaseURL, cfg.MigrationMode); err != nil {
		return nil, err
	}
	return gormstore.New(db), nil
}
