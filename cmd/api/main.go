package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hsm-gustavo/job-board/internal/api/auth"
	"github.com/hsm-gustavo/job-board/internal/api/job"
	"github.com/hsm-gustavo/job-board/internal/api/routes"
	"github.com/hsm-gustavo/job-board/internal/api/user"
	"github.com/hsm-gustavo/job-board/internal/config"
	"github.com/hsm-gustavo/job-board/internal/db"
	"github.com/hsm-gustavo/job-board/internal/logging"
	"github.com/hsm-gustavo/job-board/internal/storage"
)

// @title Job Board API
// @version 1.0
// @description Job posts, applications and the accounts that manage them
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	logger := logging.New(os.Stdout, cfg.Log.Level, cfg.Log.Format)
	ctx := context.Background()

	database, err := db.Connect(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}
	defer database.Close()

	if cfg.Database.Migrate {
		applied, err := db.RunMigrations(database)
		if err != nil {
			log.Fatalf("Error running migrations: %v", err)
		}
		logger.Info(ctx, "migrations checked", "applied", applied)
	}

	files, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		log.Fatalf("Error initializing storage: %v", err)
	}

	tokens, err := auth.NewTokenService([]byte(cfg.Auth.JWTSecret), cfg.Auth.Issuer, cfg.Auth.TokenTTL)
	if err != nil {
		log.Fatalf("Error initializing tokens: %v", err)
	}
	hasher := auth.NewPasswordHasher(cfg.Auth.BcryptCost, cfg.Auth.HashConcurrency)

	users := user.NewUserService(database)

	// Setup routes here:
	router := routes.SetupRoutes(routes.Deps{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Log:            logger,
		Tokens:         tokens,
		Auth:           auth.NewAuthService(users, tokens, hasher, logger),
		Users:          users,
		Jobs:           job.NewService(database, job.MySQLStores{}, files, logger),
		DB:             database,
	})
	// End routes

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorLog:     logger.StdLogger(),
	}

	// starts server in a goroutine
	go func() {
		logger.Info(ctx, "server running", "port", cfg.Server.Port, "storage", cfg.Storage.Driver)
		err := server.ListenAndServe()

		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("Error starting the server: %v", err)
		}
	}()

	// channel to capture quit signals (e.g. CTRL+C)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info(ctx, "shutting down the server")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Error on server shutdown: %v", err)
	}

	logger.Info(ctx, "server shut down successfully")
}
