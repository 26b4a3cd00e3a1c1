package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"tallyd/pkg/bus"
	"tallyd/pkg/db"
	"tallyd/pkg/telemetry"
	"tallyd/services/counter"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "counterd: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, _, logger, err := telemetry.Init(ctx, "counterd")
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
	natsURL := os.Getenv("NATS_URL")
	if natsURL == "" {
		return errors.New("NATS_URL is required")
	}

	pool, err := db.Open(ctx, dsn)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer pool.Close()

	b, err := bus.New(natsURL)
	if err != nil {
		return fmt.Errorf("connect bus: %w", err)
	}
	defer b.Close()

	c := counter.New(pool, b, logger)
	if err := c.Start(ctx); err != nil {
		return err
	}
	defer c.Close()

	logger.Printf("INFO counter running")
	<-ctx.Done()
	logger.Printf("INFO shutting down")
	return nil
}
