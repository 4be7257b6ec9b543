package storage

import (
	"context"
	"time"

	"github.com/niche-finder/internal/models"
)

const (
	// DefaultHistoryLimit is used when a filter does not set a limit
	DefaultHistoryLimit = 20
	// MaxHistoryLimit caps a single history listing
	MaxHistoryLimit = 100
)

// Repository defines the interface for search history persistence
type Repository interface {
	// Search history operations
	SaveSearch(ctx context.Context, record *models.SearchRecord) error
	ListSearches(ctx context.Context, filter SearchFilter) ([]*models.SearchRecord, error)
	CountSearches(ctx context.Context, filter SearchFilter) (int64, error)
	DeleteSearchesBefore(ctx context.Context, before time.Time) (int64, error)

	// Maintenance
	Close() error
	Migrate() error
}

// SearchFilter defines filtering options for search records
type SearchFilter struct {
	Kind   *models.SearchKind
	Status *models.SearchStatus
	Since  *time.Time
	Limit  int
	Offset int
}

// DefaultSearchFilter returns a filter with sensible defaults
func DefaultSearchFilter() SearchFilter {
	return SearchFilter{
		Limit: DefaultHistoryLimit,
	}
}

// ClampLimit bounds a caller-supplied limit to (0, MaxHistoryLimit]
func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultHistoryLimit
	case limit > MaxHistoryLimit:
		return MaxHistoryLimit
	default:
		return limit
	}
}
