package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"tallyd/pkg/bus"
	"tallyd/pkg/db"
	gos3 "tallyd/pkg/s3"
	"tallyd/pkg/telemetry"
	"tallyd/services/api"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "tallyd: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, tracingMiddleware, logger, err := telemetry.Init(ctx, "tallyd")
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.Printf("WARN tracing shutdown failed: %v", err)
		}
	}()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		return errors.New("DATABASE_URL is required")
	}

	pool, err := db.Open(ctx, dsn)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	orm, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return fmt.Errorf("open orm: %w", err)
	}

	store := &api.Store{DB: pool, ORM: orm}

	if natsURL := os.Getenv("NATS_URL"); natsURL != "" {
		b, err := bus.New(natsURL)
		if err != nil {
			return fmt.Errorf("connect bus: %w", err)
		}
		defer b.Close()
		store.Bus = b
	} else {
		logger.Printf("WARN NATS_URL not set, events disabled")
	}

	if os.Getenv("S3_ENDPOINT") != "" {
		s3c, err := gos3.NewClientFromEnv()
		if err != nil {
			return fmt.Errorf("configure object storage: %w", err)
		}
		store.S3 = s3c
	} else {
		logger.Printf("WARN S3_ENDPOINT not set, stored exports disabled")
	}

	apiLayer, err := api.New(store, logger, api.Config{})
	if err != nil {
		return err
	}

	routes, err := apiLayer.Routes()
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(r.Context(), pool); err != nil {
			http.Error(w, "database unreachable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", routes)

	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	server := &http.Server{
		Addr:              addr,
		Handler:           tracingMiddleware(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Printf("INFO listening on %s", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Printf("INFO shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
