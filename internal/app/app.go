package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/edgar/internal/common"
	"github.com/ternarybob/edgar/internal/handlers"
	"github.com/ternarybob/edgar/internal/impact"
	"github.com/ternarybob/edgar/internal/interfaces"
	"github.com/ternarybob/edgar/internal/market"
	"github.com/ternarybob/edgar/internal/monitor"
	"github.com/ternarybob/edgar/internal/scheduler"
	"github.com/ternarybob/edgar/internal/sources"
	badgerstorage "github.com/ternarybob/edgar/internal/storage/badger"
	"github.com/ternarybob/edgar/internal/tickers"
)

// App holds all application components and dependencies
type App struct {
	Config         *common.Config
	Logger         arbor.ILogger
	ctx            context.Context
	cancelCtx      context.CancelFunc
	StorageManager interfaces.StorageManager

	// Ingestion
	Source         interfaces.Source
	MonitorService *monitor.Service
	Scheduler      *scheduler.Scheduler

	// Enrichment
	TickerMap      *tickers.Map
	MarketClient   *market.Client
	MarketProvider interfaces.SnapshotProvider
	ImpactScorer   *impact.Scorer

	// HTTP handlers
	APIHandler     *handlers.APIHandler
	FilingsHandler *handlers.FilingsHandler
	StatusHandler  *handlers.StatusHandler
	MonitorHandler *handlers.MonitorHandler
}

// New creates the application, wiring all services together.
func New(config *common.Config, logger arbor.ILogger) (*App, error) {
	ctx, cancel := context.WithCancel(context.Background())

	a := &App{
		Config:    config,
		Logger:    logger,
		ctx:       ctx,
		cancelCtx: cancel,
	}

	storageManager, err := badgerstorage.NewManager(logger, &config.Storage.Badger)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	a.StorageManager = storageManager

	// CIK to ticker mapping. A missing mapping file is not fatal: every
	// lookup resolves to the no-ticker sentinel until a file is loaded.
	a.TickerMap = tickers.NewMap(logger)
	if err := a.TickerMap.Load(config.Tickers.Path); err != nil {
		logger.Warn().
			Err(err).
			Str("path", config.Tickers.Path).
			Msg("Ticker mapping unavailable, filings will be unmapped")
	} else {
		logger.Info().
			Int("tickers", a.TickerMap.Size()).
			Msg("Ticker mapping loaded")
	}

	a.MarketClient = market.NewClient(
		market.WithBaseURL(config.Market.BaseURL),
		market.WithHTTPClient(&http.Client{Timeout: config.Market.RequestTimeoutDuration()}),
		market.WithRateLimit(config.Market.RateLimit),
		market.WithMaxHeadlines(config.Market.MaxHeadlines),
		market.WithLogger(logger),
	)
	a.MarketProvider = market.NewProvider(a.MarketClient, logger)

	a.ImpactScorer = impact.NewScorer(impact.NewVADERAnalyzer())

	a.Source, err = buildSource(config, logger)
	if err != nil {
		storageManager.Close()
		cancel()
		return nil, err
	}

	a.MonitorService, err = monitor.NewService(a.Source, storageManager.FilingStorage(), config.Monitor.WindowDuration(), logger)
	if err != nil {
		storageManager.Close()
		cancel()
		return nil, fmt.Errorf("failed to initialize monitor: %w", err)
	}

	a.Scheduler = scheduler.NewScheduler(a.MonitorService, logger)

	a.APIHandler = handlers.NewAPIHandler()
	a.FilingsHandler = handlers.NewFilingsHandler(storageManager.FilingStorage(), a.TickerMap, a.MarketProvider, a.ImpactScorer, logger)
	a.StatusHandler = handlers.NewStatusHandler(a.MonitorService, storageManager.FilingStorage(), a.TickerMap, config, logger)
	a.MonitorHandler = handlers.NewMonitorHandler(a.MonitorService, a.Scheduler, logger)

	logger.Info().
		Str("source", a.Source.Name()).
		Str("window", config.Monitor.Window).
		Msg("Application initialized")

	return a, nil
}

// buildSource selects the ingestion strategy from configuration.
func buildSource(config *common.Config, logger arbor.ILogger) (interfaces.Source, error) {
	timeout := config.Monitor.RequestTimeoutDuration()

	switch config.Monitor.Source {
	case "feed":
		return sources.NewFeedSource(config.Monitor.FeedURL, config.Monitor.UserAgent, timeout, logger), nil
	case "scrape":
		return sources.NewScrapeSource(config.Monitor.ScrapeURL, config.Monitor.UserAgent, timeout, logger), nil
	default:
		return nil, fmt.Errorf("unknown monitor source %q", config.Monitor.Source)
	}
}

// Start begins scheduled monitoring.
func (a *App) Start() error {
	return a.Scheduler.Start(a.Config.Monitor.Schedule)
}

// Shutdown stops the scheduler and closes storage.
func (a *App) Shutdown(ctx context.Context) error {
	a.Logger.Info().Msg("Shutting down application...")

	a.Scheduler.Stop()
	a.cancelCtx()

	// Give an in-flight cycle a moment to release the store.
	select {
	case <-ctx.Done():
	case <-time.After(100 * time.Millisecond):
	}

	if err := a.StorageManager.Close(); err != nil {
		return fmt.Errorf("failed to close storage: %w", err)
	}

	a.Logger.Info().Msg("Application stopped")
	return nil
}
