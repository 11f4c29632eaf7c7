package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"production/internal/app"
	"production/internal/bus"
	"production/internal/config"
	"production/internal/events"
	"production/internal/httpapi"
)

func main() {
	if err := run(); err != nil {
		slog.Error("service stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := cfg.NewLogger()
	slog.SetDefault(log)
	log.Info("cfg loaded", "backend", cfg.Backend, "http", cfg.HTTPAddr, "subject", cfg.StanSubject)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	kv, closeStore, err := app.OpenStorage(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer func() {
		if err := closeStore(); err != nil {
			log.Warn("close storage", "error", err)
		}
	}()

	var pub events.Publisher = &events.NoopPublisher{}
	if cfg.NATSURL != "" {
		np, err := events.NewNATSPublisher(cfg.NATSURL)
		if err != nil {
			return fmt.Errorf("connect nats: %w", err)
		}
		pub = np
	}
	defer pub.Close()

	application := app.New(kv, pub, log)
	application.Warm(ctx)

	// order-data commands
	if cfg.StanSubject != "" {
		sub, err := bus.NewStan(cfg.StanCluster, cfg.StanClient, cfg.StanURL, log)
		if err != nil {
			return fmt.Errorf("connect stan: %w", err)
		}
		defer sub.Close()
		if err := sub.Start(cfg.StanSubject, application.HandleMsg); err != nil {
			return fmt.Errorf("subscribe %s: %w", cfg.StanSubject, err)
		}
	}

	srv := httpapi.New(application, log)
	errc := make(chan error, 1)
	go func() {
		if err := srv.Listen(cfg.HTTPAddr); err != nil {
			errc <- err
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http shutdown", "error", err)
	}

	select {
	case err := <-errc:
		return fmt.Errorf("http server: %w", err)
	default:
		return nil
	}
}
