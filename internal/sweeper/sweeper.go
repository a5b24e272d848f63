// Package sweeper periodically removes old uploaded images.
package sweeper

import (
	"context"
	"time"

	"nutrilens/internal/applog"
	"nutrilens/internal/storage"
)

// Sweeper deletes uploads older than MaxAge every Interval.
type Sweeper struct {
	store    storage.Storage
	interval time.Duration
	maxAge   time.Duration
	log      *applog.Logger
}

func New(store storage.Storage, interval, maxAge time.Duration, log *applog.Logger) *Sweeper {
	if log == nil {
		log = applog.Default()
	}
	return &Sweeper{store: store, interval: interval, maxAge: maxAge, log: log}
}

// Run sweeps once immediately and then on every tick until ctx is done.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.sweep(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	start := time.Now()
	n, err := s.store.Sweep(ctx, s.maxAge)
	fields := map[string]any{
		"deleted":     n,
		"max_age":     s.maxAge.String(),
		"duration_ms": time.Since(start).Milliseconds(),
	}
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		s.log.Error("sweeper", "upload_sweep_failed", err, fields)
		return
	}
	if n > 0 {
		s.log.Info("sweeper", "upload_sweep", fields)
	}
}
