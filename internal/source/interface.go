package source

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/niche-finder/internal/models"
)

// HeadlineSource defines the interface for trend signal sources
type HeadlineSource interface {
	// Name returns the unique name of this source
	Name() string

	// Type returns the source type (rss, custom)
	Type() string

	// Fetch retrieves headlines from the source
	Fetch(ctx context.Context) ([]*models.Headline, error)
}

// Manager manages multiple headline sources
type Manager struct {
	sources []HeadlineSource
}

// NewManager creates a new source manager
func NewManager() *Manager {
	return &Manager{
		sources: make([]HeadlineSource, 0),
	}
}

// Register adds a source to the manager
func (m *Manager) Register(source HeadlineSource) {
	m.sources = append(m.sources, source)
}

// GetSources returns all registered sources
func (m *Manager) GetSources() []HeadlineSource {
	return m.sources
}

// Empty reports whether no sources are registered
func (m *Manager) Empty() bool {
	return m == nil || len(m.sources) == 0
}

// FetchAll fetches headlines from all sources concurrently. It stops
// waiting when ctx ends and reports what arrived so far.
func (m *Manager) FetchAll(ctx context.Context) ([]*models.Headline, []error) {
	type result struct {
		headlines []*models.Headline
		err       error
	}

	results := make(chan result, len(m.sources))

	for _, source := range m.sources {
		go func(s HeadlineSource) {
			headlines, err := s.Fetch(ctx)
			results <- result{headlines: headlines, err: err}
		}(source)
	}

	var all []*models.Headline
	var errors []error

	for range m.sources {
		select {
		case r := <-results:
			if r.err != nil {
				errors = append(errors, r.err)
			} else {
				all = append(all, r.headlines...)
			}
		case <-ctx.Done():
			// Stragglers write into the buffered channel and exit
			errors = append(errors, fmt.Errorf("headline sources: %w", ctx.Err()))
			return all, errors
		}
	}

	return all, errors
}

// Latest returns up to limit distinct headline titles, newest first
func (m *Manager) Latest(ctx context.Context, limit int) ([]string, []error) {
	if m.Empty() || limit <= 0 {
		return nil, nil
	}

	headlines, errs := m.FetchAll(ctx)
	sort.SliceStable(headlines, func(i, j int) bool {
		return headlines[i].PublishedAt.After(headlines[j].PublishedAt)
	})

	seen := make(map[string]bool)
	titles := make([]string, 0, limit)
	for _, h := range headlines {
		key := strings.ToLower(strings.TrimSpace(h.Title))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		titles = append(titles, strings.TrimSpace(h.Title))
		if len(titles) == limit {
			break
		}
	}

	return titles, errs
}
