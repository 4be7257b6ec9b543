// Package history maintains the search history table.
package history

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/niche-finder/internal/storage"
	"github.com/niche-finder/pkg/logger"
)

// DefaultRetention keeps thirty days of search records
const DefaultRetention = 720 * time.Hour

// Pruner deletes search records older than the retention window
type Pruner struct {
	repository storage.Repository
	retention  time.Duration
	maxElapsed time.Duration
	now        func() time.Time
	log        *logger.Logger
}

// NewPruner creates a pruner. A non-positive retention uses DefaultRetention.
func NewPruner(repository storage.Repository, retention time.Duration, log *logger.Logger) *Pruner {
	if retention <= 0 {
		retention = DefaultRetention
	}
	return &Pruner{
		repository: repository,
		retention:  retention,
		maxElapsed: 2 * time.Minute,
		now:        time.Now,
		log:        log.WithComponent("history"),
	}
}

// Run deletes expired records, retrying transient failures with
// exponential backoff, and returns how many rows were removed.
func (p *Pruner) Run(ctx context.Context) (int64, error) {
	cutoff := p.now().Add(-p.retention)

	var deleted int64
	operation := func() error {
		n, err := p.repository.DeleteSearchesBefore(ctx, cutoff)
		if err != nil {
			return err
		}
		deleted = n
		return nil
	}

	backoffStrategy := backoff.NewExponentialBackOff()
	backoffStrategy.MaxElapsedTime = p.maxElapsed

	notify := func(err error, wait time.Duration) {
		p.log.Warn().Err(err).Dur("retry_in", wait).Msg("History prune failed, retrying")
	}

	if err := backoff.RetryNotify(operation, backoff.WithContext(backoffStrategy, ctx), notify); err != nil {
		return 0, fmt.Errorf("failed to prune search history: %w", err)
	}

	p.log.Info().
		Int64("deleted", deleted).
		Time("cutoff", cutoff).
		Msg("Pruned search history")

	return deleted, nil
}
