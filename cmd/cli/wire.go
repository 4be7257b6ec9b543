package main

import (
	"fmt"

	"github.com/niche-finder/internal/agent/discovery"
	"github.com/niche-finder/internal/ai"
	"github.com/niche-finder/internal/metrics"
	"github.com/niche-finder/internal/session"
	"github.com/niche-finder/internal/source"
	"github.com/niche-finder/internal/source/custom"
	"github.com/niche-finder/internal/source/rss"
	"github.com/niche-finder/internal/storage"
	"github.com/niche-finder/internal/storage/sqlite"
	"github.com/niche-finder/pkg/ratelimit"
)

// openRepository returns nil when history storage is disabled
func openRepository() (storage.Repository, error) {
	if !cfg.Database.Enabled {
		log.Info().Msg("Search history disabled")
		return nil, nil
	}

	log.Debug().Str("dsn", cfg.Database.DSN).Msg("Using SQLite for search history")
	repo, err := sqlite.New(cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := repo.Migrate(); err != nil {
		repo.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return repo, nil
}

// buildAgent wires the completion client, headline sources and history
func buildAgent(repo storage.Repository, reg *metrics.Registry) *discovery.Agent {
	// Initialize rate limiter
	limiter := ratelimit.NewDefaultLimiter()
	limiter.SetPerMinute(ratelimit.LimiterGroq, float64(cfg.RateLimit.GroqRequestsPerMinute), cfg.RateLimit.GroqBurst)

	// Initialize AI client
	aiClient := ai.NewClient(cfg.Groq.APIKey, limiter, log)

	// Initialize source manager
	sourceManager := source.NewManager()
	if cfg.Sources.RSS.Enabled {
		for _, src := range rss.NewMultiple(cfg.Sources.RSS, limiter, log) {
			sourceManager.Register(src)
		}
	}
	if cfg.Sources.Custom.Enabled {
		sourceManager.Register(custom.New(cfg.Sources.Custom, log))
	}

	return discovery.NewAgent(aiClient, sourceManager, repo, reg, cfg.Groq.RequestTimeout, log)
}

// newBackend returns the API client when serverURL is set, otherwise an
// in-process agent. cleanup releases whatever was opened.
func newBackend(serverURL string) (session.Backend, func(), error) {
	if serverURL != "" {
		return session.NewAPIClient(serverURL, cfg.Client.Timeout, log), func() {}, nil
	}

	repo, err := openRepository()
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {}
	if repo != nil {
		cleanup = func() { repo.Close() }
	}
	return buildAgent(repo, nil), cleanup, nil
}
