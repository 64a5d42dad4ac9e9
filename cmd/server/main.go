package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anonto42/circle/backend/internal/models"
	"github.com/anonto42/circle/backend/internal/router"
	"github.com/anonto42/circle/backend/internal/services"
	"github.com/anonto42/circle/backend/internal/token"
	"github.com/anonto42/circle/backend/pkg/config"
	"github.com/anonto42/circle/backend/pkg/firebase"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}
	log := config.NewLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database connection
	db, err := config.InitDB(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize database")
	}
	defer db.CloseDB()

	if err := models.AutoMigrate(db.Postgres); err != nil {
		log.WithError(err).Fatal("failed to migrate database")
	}
	log.Info("database migrations completed")

	tokens, err := token.NewService(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		log.WithError(err).Fatal("failed to create token service")
	}

	// Initialize Firebase storage when configured
	var objects services.ObjectStore
	if cfg.ImagesEnabled() {
		app, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath, cfg.FirebaseStorageBucket)
		if err != nil {
			log.WithError(err).Fatal("failed to initialize Firebase")
		}
		objects = app.Bucket
	}

	e, err := router.New(router.Deps{
		Config:  cfg,
		Log:     log,
		DB:      db.Postgres,
		Tokens:  tokens,
		Objects: objects,
	})
	if err != nil {
		log.WithError(err).Fatal("failed to build router")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("port", cfg.Port).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
}
