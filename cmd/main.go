package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"accessibledn/internal/auth"
	"accessibledn/internal/config"
	"accessibledn/internal/handlers"
	"accessibledn/internal/logger"
	"accessibledn/internal/ratelimit"
	"accessibledn/internal/repository"
	"accessibledn/internal/repository/db"
	"accessibledn/internal/server"
	"accessibledn/internal/service"
)

func main() {
	// load config.yml + environment first; the log level comes from it
	cfg, err := config.Load()
	if err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}
	log := logger.Get(cfg.LogLevel)

	// open the user store for the configured backend
	store, err := db.Open(db.Config{
		Backend: db.Backend(cfg.DB.Backend),
		Path:    cfg.DB.Path,
		DSN:     cfg.DB.DSN,
	})
	if err != nil {
		log.Fatalw("failed to init user store", "backend", cfg.DB.Backend, "err", err)
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			log.Errorw("failed to close user store", "err", cerr)
		}
	}()

	// wire dependencies; with authentication disabled the handlers 403
	// every userbase route, so the credential manager is not constructed
	// and no signing secret is needed
	var services *service.Service
	if cfg.Auth.Enabled {
		creds, err := auth.NewManager(cfg.Auth.Secret, cfg.Auth.TokenTTL)
		if err != nil {
			log.Fatalw("failed to init credential manager", "err", err)
		}
		repos := repository.NewRepository(store)
		services = service.NewService(repos, creds)
	}
	limiter := ratelimit.New(cfg.RateLimit.Window, cfg.RateLimit.MaxRequests)
	apiHandler := handlers.NewHandler(services, limiter, cfg.Auth.Enabled, log)

	// start HTTP server
	srv := &server.Server{}
	go func() {
		log.Infow("starting server", "port", cfg.Port, "db_backend", cfg.DB.Backend)
		if err := srv.Run(cfg.Port, apiHandler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()

	waitForShutdown(srv, log)
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// allow in-flight requests to complete
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalw("server forced to shutdown", "err", err)
	}
}
