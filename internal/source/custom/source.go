package custom

import (
	"context"
	"time"

	"github.com/niche-finder/internal/config"
	"github.com/niche-finder/internal/models"
	"github.com/niche-finder/internal/source"
	"github.com/niche-finder/pkg/logger"
)

// Source implements HeadlineSource for hand-picked seed themes
type Source struct {
	themes []string
	log    *logger.Logger
}

// New creates a new custom source
func New(cfg config.CustomConfig, log *logger.Logger) *Source {
	return &Source{
		themes: cfg.Themes,
		log:    log.WithSource("custom", "themes"),
	}
}

// Name returns the source name
func (s *Source) Name() string {
	return "custom-themes"
}

// Type returns "custom"
func (s *Source) Type() string {
	return "custom"
}

// Fetch returns the configured themes as headlines
func (s *Source) Fetch(ctx context.Context) ([]*models.Headline, error) {
	headlines := make([]*models.Headline, 0, len(s.themes))
	now := time.Now()

	for _, theme := range s.themes {
		headlines = append(headlines, &models.Headline{
			Title:       theme,
			SourceType:  "custom",
			SourceName:  "themes",
			PublishedAt: now,
		})
	}

	s.log.Debug().
		Int("count", len(headlines)).
		Msg("Returned custom theme headlines")

	return headlines, nil
}

// Ensure Source implements source.HeadlineSource
var _ source.HeadlineSource = (*Source)(nil)
