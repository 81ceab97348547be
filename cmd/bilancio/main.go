package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"bilancio/internal/amqp"
	"bilancio/internal/backend"
	"bilancio/internal/config"
	apphttp "bilancio/internal/http"
	applog "bilancio/internal/log"
	"bilancio/internal/services"
	"bilancio/internal/store"
)

func main() {
	// Load .env for local development; missing file is fine.
	_ = godotenv.Load()

	cfg := config.Load()

	logger := applog.New(applog.Config{
		Level:     applog.ParseLevel(cfg.LogLevel),
		Component: applog.ComponentApp,
		JSON:      cfg.LogFormat == "json",
	})
	applog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}

	res, err := backend.Create(cfg)
	if err != nil {
		logger.Error("Failed to initialize backend", applog.FieldError, err)
		os.Exit(1)
	}
	if res.Cleanup != nil {
		defer func() { _ = res.Cleanup() }()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st := store.New(res.Blobs, cfg.DocumentKey)
	st.Load(ctx)

	// Publish a change event after every applied mutation.
	if cfg.AMQPEnabled() {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without change events",
				applog.FieldError, err)
		} else {
			defer amqpClient.Close()
			st.Subscribe(func(snap store.Snapshot) {
				if err := amqpClient.PublishDocumentUpdated(ctx, cfg.DocumentKey, snap.Revision); err != nil {
					logger.Error("Failed to publish document update",
						applog.FieldError, err,
						applog.FieldRevision, snap.Revision)
				}
			})
			logger.Info("AMQP change events enabled",
				"exchange", cfg.AMQPExchange,
				"queue", cfg.AMQPQueue)
		}
	}

	// Materialize recurring expenses in the background.
	recurring := services.NewRecurringProcessor(st)
	go func() {
		if err := recurring.Run(ctx, cfg.RecurringInterval); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Recurring processor stopped", applog.FieldError, err)
		}
	}()

	srv := apphttp.NewServer(":"+cfg.Port, st)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", applog.FieldError, err)
		}
		cancel()
	}()

	logger.Info("Starting bilancio server",
		"port", cfg.Port,
		"backend", cfg.DataBackend,
		applog.FieldDocumentKey, cfg.DocumentKey)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", applog.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
