package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Simplici0/automation-roi/internal/assumptions"
	"github.com/Simplici0/automation-roi/internal/config"
	"github.com/Simplici0/automation-roi/internal/db"
	"github.com/Simplici0/automation-roi/internal/migrations"
	"github.com/Simplici0/automation-roi/internal/roi"
	"github.com/Simplici0/automation-roi/internal/seed"
	"github.com/Simplici0/automation-roi/internal/share/slack"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := buildLogger(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	database, err := db.Open(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer database.Close()

	if err := migrations.Up(ctx, database); err != nil {
		return fmt.Errorf("run database migrations: %w", err)
	}
	stats, err := seed.Run(ctx, database, roi.DefaultAssumptions())
	if err != nil {
		return fmt.Errorf("seed assumptions: %w", err)
	}
	logger.Info("assumptions seeded", "inserts", stats.Inserts)

	// Loaded once; the set stays fixed until restart.
	a, err := assumptions.Load(ctx, database)
	if err != nil {
		return fmt.Errorf("load assumptions: %w", err)
	}

	var sharer reportSharer
	if cfg.Slack.Enabled() {
		notifier, err := slack.NewNotifier(slack.Config{
			BotToken: cfg.Slack.BotToken,
			Channel:  cfg.Slack.Channel,
			APIURL:   cfg.Slack.APIURL,
		})
		if err != nil {
			return fmt.Errorf("create slack notifier: %w", err)
		}
		sharer = notifier
	} else {
		logger.Info("slack sharing disabled")
	}

	srv, err := newServer(a, sharer, logger)
	if err != nil {
		return err
	}
	srv.devRoutes = cfg.IsDev()

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("listening", "addr", httpServer.Addr, "env", cfg.Env)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("server stopped")
	return nil
}
