// Package sessions runs background maintenance for logged-out tokens.
package sessions

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"musiccatalog/internal/metrics"
)

// Store is the persistence the sweeper needs.
type Store interface {
	PurgeExpiredTokens(ctx context.Context) (int64, error)
}

// Sweeper periodically deletes blacklist rows whose tokens have expired.
// Reads already ignore expired rows, so a late sweep only costs disk space.
type Sweeper struct {
	store    Store
	interval time.Duration
}

// NewSweeper builds a Sweeper running every interval.
func NewSweeper(store Store, interval time.Duration) *Sweeper {
	return &Sweeper{store: store, interval: interval}
}

// Run sweeps until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.SweepOnce(ctx)
		}
	}
}

// SweepOnce performs a single purge and reports how many rows went.
func (s *Sweeper) SweepOnce(ctx context.Context) int64 {
	n, err := s.store.PurgeExpiredTokens(ctx)
	metrics.RecordSweep(n, err)
	if err != nil {
		if ctx.Err() == nil {
			log.Error().Err(err).Msg("blacklist sweep failed")
		}
		return 0
	}
	if n > 0 {
		log.Debug().Int64("purged", n).Msg("blacklist sweep")
	}
	return n
}
