package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/davorg/films/internal/ports"
)

const defaultInterval = 24 * time.Hour

// IntervalScheduler triggers refresh runs on a fixed interval using
// time.Ticker. The first run fires immediately on Start.
type IntervalScheduler struct {
	interval time.Duration

	mu   sync.Mutex
	stop chan struct{}
}

var _ ports.Scheduler = (*IntervalScheduler)(nil)

// NewIntervalScheduler builds a scheduler firing every interval. Non-positive
// intervals fall back to one run per day.
func NewIntervalScheduler(interval time.Duration) *IntervalScheduler {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &IntervalScheduler{interval: interval}
}

// Start begins ticking until the context is cancelled or Stop is called.
// Calling Start while the ticker is running is a no-op. The goroutine only
// ever sees its own stop channel, never the field.
func (s *IntervalScheduler) Start(ctx context.Context, job func(time.Time)) error {
	if job == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stop != nil {
		return nil
	}

	stop := make(chan struct{})
	s.stop = stop
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		job(time.Now())
		for {
			select {
			case t := <-ticker.C:
				job(t)
			case <-ctx.Done():
				return
			case <-stop:
				return
			}
		}
	}()

	return nil
}

// Stop halts the ticker goroutine. Safe to call repeatedly; a later Start
// begins a fresh ticker.
func (s *IntervalScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stop == nil {
		return nil
	}
	close(s.stop)
	s.stop = nil
	return nil
}
