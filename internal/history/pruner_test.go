package history

import (
	"context"
	"errors"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/niche-finder/internal/models"
	"github.com/niche-finder/internal/storage"
	"github.com/niche-finder/internal/storage/sqlite"
	"github.com/niche-finder/pkg/logger"
)

// flakyRepo fails DeleteSearchesBefore a fixed number of times
type flakyRepo struct {
	storage.Repository
	failures int32
	calls    atomic.Int32
	cutoff   time.Time
}

func (f *flakyRepo) DeleteSearchesBefore(ctx context.Context, before time.Time) (int64, error) {
	n := f.calls.Add(1)
	f.cutoff = before
	if n <= f.failures {
		return 0, errors.New("database is locked")
	}
	return 3, nil
}

func TestPruner_RetriesTransientFailure(t *testing.T) {
	repo := &flakyRepo{failures: 2}
	p := NewPruner(repo, 24*time.Hour, logger.Nop())
	fixed := time.Date(2025, 3, 10, 3, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return fixed }

	deleted, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)
	assert.Equal(t, int32(3), repo.calls.Load())
	assert.Equal(t, fixed.Add(-24*time.Hour), repo.cutoff)
}

func TestPruner_GivesUp(t *testing.T) {
	repo := &flakyRepo{failures: 1 << 20}
	p := NewPruner(repo, time.Hour, logger.Nop())
	p.maxElapsed = 50 * time.Millisecond

	_, err := p.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database is locked")
}

func TestPruner_ContextCancelled(t *testing.T) {
	repo := &flakyRepo{failures: 1 << 20}
	p := NewPruner(repo, time.Hour, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Run(ctx)
	require.Error(t, err)
	assert.LessOrEqual(t, repo.calls.Load(), int32(1))
}

func TestPruner_DefaultRetention(t *testing.T) {
	p := NewPruner(&flakyRepo{}, 0, logger.Nop())
	assert.Equal(t, DefaultRetention, p.retention)
}

func TestPruner_SQLite(t *testing.T) {
	repo, err := sqlite.New(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	require.NoError(t, repo.Migrate())
	t.Cleanup(func() { _ = repo.Close() })

	ctx := context.Background()
	require.NoError(t, repo.SaveSearch(ctx, &models.SearchRecord{
		Kind: models.SearchKindTrending, Status: models.SearchStatusOK, CreatedAt: time.Now().Add(-48 * time.Hour),
	}))
	require.NoError(t, repo.SaveSearch(ctx, &models.SearchRecord{
		Kind: models.SearchKindTrending, Status: models.SearchStatusOK,
	}))

	deleted, err := NewPruner(repo, 24*time.Hour, logger.Nop()).Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	count, err := repo.CountSearches(ctx, storage.SearchFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
