package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/davorg/films/internal/ports"
)

// Refresh wires the interval driver with the pipeline use case.
type Refresh struct {
	driver   ports.Scheduler
	pipeline *Pipeline
	logger   *slog.Logger
}

// NewRefresh returns a helper to start/stop recurring refresh runs.
func NewRefresh(driver ports.Scheduler, pipeline *Pipeline, logger *slog.Logger) *Refresh {
	return &Refresh{driver: driver, pipeline: pipeline, logger: logger}
}

// Start registers the pipeline with the provided scheduler.
func (r *Refresh) Start(ctx context.Context) error {
	if r.driver == nil || r.pipeline == nil {
		return nil
	}

	job := func(trigger time.Time) {
		if err := r.pipeline.Run(ctx, trigger); err != nil && r.logger != nil {
			r.logger.Error("scheduled refresh failed", "error", err)
		}
	}

	return r.driver.Start(ctx, job)
}

// Stop gracefully tears down the underlying scheduler.
func (r *Refresh) Stop(ctx context.Context) error {
	if r.driver == nil {
		return nil
	}

	return r.driver.Stop(ctx)
}
