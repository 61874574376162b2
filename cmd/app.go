package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
	"nse-option-sentry/internal/database"
	"nse-option-sentry/internal/engine"
	"nse-option-sentry/internal/notifier"
	"nse-option-sentry/internal/provider"
	"nse-option-sentry/internal/scheduler"
	"nse-option-sentry/internal/storage"
	"nse-option-sentry/pkg/types"
)

// App wires the components together and manages their lifecycle.
type App struct {
	config  *types.Config
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	journal *database.Manager
}

func NewApp(config *types.Config) *App {
	ctx, cancel := context.WithCancel(context.Background())
	return &App{
		config: config,
		ctx:    ctx,
		cancel: cancel,
	}
}

func (app *App) Start() {
	zap.L().Info("NSE Option Sentry starting")

	stateManager := storage.NewStateManager(app.config.Redis)

	barProvider := provider.NewCachedBarProvider(
		provider.NewYahooBarProvider(app.config.Network),
		stateManager,
		3*app.config.Scan.Interval,
	)
	chainClient := provider.NewNSEChainClient(app.config.Network)

	providers := provider.Set{
		Bars:     barProvider,
		OI:       chainClient,
		Premiums: chainClient,
	}

	evaluator := engine.NewEvaluator(providers, app.config.Markets, app.config.Engine)
	notifyService := notifier.NewTelegramNotifier(app.config.Telegram)

	// The journal is optional: without a configured host the scans
	// still run, they just are not persisted.
	if app.config.Database.MySQL.Host != "" {
		journal, err := database.NewManager(app.config.Database.MySQL)
		if err != nil {
			zap.L().Warn("signal journal unavailable", zap.Error(err))
		} else {
			app.journal = journal
		}
	} else {
		zap.L().Info("signal journal not configured")
	}

	taskScheduler := scheduler.NewScheduler(
		evaluator, notifyService, app.journal, stateManager,
		app.config.Scan, app.config.Watchlist)

	app.wg.Add(1)
	go func() {
		defer app.wg.Done()
		taskScheduler.Start(app.ctx)
	}()

	zap.L().Info("NSE Option Sentry started",
		zap.Int("watchlist", len(app.config.Watchlist)),
		zap.Int("markets", len(app.config.Markets)))
}

func (app *App) Stop() {
	zap.L().Info("shutdown signal received, stopping")
	app.cancel()

	done := make(chan struct{})
	go func() {
		app.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		zap.L().Info("NSE Option Sentry stopped cleanly")
	case <-time.After(30 * time.Second):
		zap.L().Warn("shutdown timed out")
	}

	if app.journal != nil {
		if err := app.journal.Close(); err != nil {
			zap.L().Warn("journal close failed", zap.Error(err))
		}
	}
}

func (app *App) WaitForShutdown() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
}
