package service

import (
	"context"

	"github.com/maxviazov/football-stats-service/internal/metrics"
	"github.com/maxviazov/football-stats-service/internal/model"
	"github.com/maxviazov/football-stats-service/internal/storage"
	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc/pool"
)

const maxCleanupWorkers = 4

// photoCleaner removes photo files once the rows referencing them are gone.
// Failures are logged and counted, never returned.
type photoCleaner struct {
	remover storage.PhotoRemover
	metrics metrics.Metrics
	log     zerolog.Logger
}

func newPhotoCleaner(remover storage.PhotoRemover, m metrics.Metrics, log zerolog.Logger) photoCleaner {
	return photoCleaner{remover: remover, metrics: m, log: log}
}

// remove must only be called after the owning transaction committed.
func (c photoCleaner) remove(ctx context.Context, filenames ...string) {
	if c.remover == nil || len(filenames) == 0 {
		return
	}
	// The data is already gone; a client hanging up must not leave files behind.
	ctx = context.WithoutCancel(ctx)

	p := pool.New().WithMaxGoroutines(maxCleanupWorkers)
	for _, name := range filenames {
		if name == "" {
			continue
		}
		p.Go(func() {
			if err := c.remover.Remove(ctx, name); err != nil {
				c.metrics.IncPhotoCleanupFailures()
				c.log.Warn().Err(err).Str("photo", name).Msg("photo cleanup failed")
			}
		})
	}
	p.Wait()
}

func photosOf(players ...model.Player) []string {
	out := make([]string, 0, len(players))
	for _, p := range players {
		if p.Photo != nil && *p.Photo != "" {
			out = append(out, *p.Photo)
		}
	}
	return out
}
