package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/davorg/films/internal/catalog"
	"github.com/davorg/films/internal/config"
	"github.com/davorg/films/internal/infrastructure/metadata"
	"github.com/davorg/films/internal/infrastructure/scheduler"
	"github.com/davorg/films/internal/infrastructure/site"
	"github.com/davorg/films/internal/infrastructure/telegram"
	"github.com/davorg/films/internal/infrastructure/watchlist"
	"github.com/davorg/films/internal/logging"
	"github.com/davorg/films/internal/ports"
	"github.com/davorg/films/internal/releases"
	"github.com/davorg/films/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg      config.Config
	logger   *slog.Logger
	pipeline *usecase.Pipeline
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) *Application {
	if baseLogger == nil {
		baseLogger = logging.New(logging.Options{
			Level:      cfg.Logging.Level,
			File:       cfg.Logging.File,
			MaxSizeMB:  cfg.Logging.MaxSizeMB,
			MaxBackups: cfg.Logging.MaxBackups,
		})
	}

	registry := catalog.NewRegistry()
	registry.Register(metadata.NewTMDBCatalog(nil, cfg.Catalog))

	source := metadata.NewRegistrySource(registry, cfg.Catalog.Name, baseLogger.With("component", "metadata"))
	watchlists := watchlist.NewLoader(nil, cfg.Paths.WatchlistsDir, baseLogger.With("component", "watchlists"))
	writer := site.NewWriter(nil, cfg.Paths.OutputDir, baseLogger.With("component", "site"))

	var notifier ports.Notifier
	if cfg.Notifications.Telegram.BotToken != "" && cfg.Notifications.Telegram.ChatID != "" {
		notifier = telegram.NewNotifier(cfg.Notifications.Telegram.BotToken, cfg.Notifications.Telegram.ChatID)
	}

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Source:     source,
		Watchlists: watchlists,
		Writer:     writer,
		Notifier:   notifier,
		Selector:   releases.NewSelector(releases.DefaultRegion, baseLogger.With("component", "selector")),
		Logger:     baseLogger.With("component", "pipeline"),
	})
	return &Application{cfg: cfg, logger: baseLogger, pipeline: pipeline}
}

// Run validates the configuration and executes a single refresh. When a
// scheduler interval is configured it keeps refreshing until the context is
// cancelled.
func (a *Application) Run(ctx context.Context) error {
	if err := a.cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if a.cfg.Scheduler.IntervalMinutes > 0 {
		driver := scheduler.NewIntervalScheduler(a.cfg.Scheduler.Interval())
		refresh := usecase.NewRefresh(driver, a.pipeline, a.logger)
		if err := refresh.Start(ctx); err != nil {
			return fmt.Errorf("start scheduler: %w", err)
		}
		defer func() {
			if err := refresh.Stop(context.Background()); err != nil {
				a.logger.Warn("scheduler stop failed", "error", err)
			}
		}()

		<-ctx.Done()
		return nil
	}

	return a.pipeline.Run(ctx, time.Now())
}
