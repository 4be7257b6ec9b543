package discovery

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/niche-finder/internal/ai"
	"github.com/niche-finder/internal/metrics"
	"github.com/niche-finder/internal/models"
	"github.com/niche-finder/internal/source"
	"github.com/niche-finder/internal/storage"
	"github.com/niche-finder/pkg/logger"
)

// DefaultTimeout bounds a single pipeline run when none is configured
const DefaultTimeout = 60 * time.Second

// maxHeadlineWait caps how long trending waits on headline sources
const maxHeadlineWait = 5 * time.Second

// Completer sends one system + user message pair to a completion model.
// *ai.Client implements it.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userMessage string, opts ai.CompletionOptions) (string, error)
}

// Agent runs the discover and trending pipelines:
// compose message, complete, decode, normalize, assign gradients.
type Agent struct {
	completer  Completer
	sources    *source.Manager
	repository storage.Repository
	metrics    *metrics.Registry
	timeout    time.Duration
	log        *logger.Logger
}

// NewAgent creates a new discovery agent. sources, repository and
// metrics may be nil.
func NewAgent(
	completer Completer,
	sources *source.Manager,
	repository storage.Repository,
	metrics *metrics.Registry,
	timeout time.Duration,
	log *logger.Logger,
) *Agent {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Agent{
		completer:  completer,
		sources:    sources,
		repository: repository,
		metrics:    metrics,
		timeout:    timeout,
		log:        log.WithComponent("discovery"),
	}
}

// Discover returns 1-8 niches for query. The completion is never called
// when the query is blank or the platform is unknown.
func (a *Agent) Discover(ctx context.Context, query string, platform models.Platform) ([]models.Niche, error) {
	startTime := time.Now()
	query = strings.TrimSpace(query)
	if platform == "" {
		platform = models.PlatformAll
	}

	record := &models.SearchRecord{
		Kind:     models.SearchKindDiscover,
		Query:    query,
		Platform: platform,
	}

	if query == "" {
		return nil, NewValidationError(ErrQueryRequired)
	}
	if !platform.Valid() {
		return nil, NewValidationError(ErrInvalidPlatform)
	}

	log := logger.FromContext(ctx, a.log)
	log.Info().
		Str("query", query).
		Str("platform", string(platform)).
		Msg("Starting niche discovery")

	runCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	niches, err := a.run(runCtx, ai.DiscoverSystemPrompt, discoverMessage(query, platform), ai.DiscoverOptions, MaxDiscoverResults)
	a.finish(ctx, record, niches, err, startTime)
	if err != nil {
		return nil, err
	}
	return niches, nil
}

// Trending returns up to six niches trending right now. Headlines from
// configured sources are added as context; source failures are ignored.
func (a *Agent) Trending(ctx context.Context) ([]models.Niche, error) {
	startTime := time.Now()
	record := &models.SearchRecord{Kind: models.SearchKindTrending}

	log := logger.FromContext(ctx, a.log)
	log.Info().Msg("Fetching trending niches")

	// Headline fetching and the completion share one deadline
	runCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	headlines := a.headlines(runCtx)

	niches, err := a.run(runCtx, ai.TrendingSystemPrompt, trendingMessage(headlines), ai.TrendingOptions, MaxTrendingResults)
	a.finish(ctx, record, niches, err, startTime)
	if err != nil {
		return nil, err
	}
	return niches, nil
}

// run is the shared pipeline after message composition. ctx carries the
// pipeline deadline.
func (a *Agent) run(ctx context.Context, system, user string, opts ai.CompletionOptions, limit int) ([]models.Niche, error) {
	text, err := a.completer.Complete(ctx, system, user, opts)
	if err != nil {
		return nil, err
	}

	decoded, err := ai.DecodeNiches(text)
	if err != nil {
		return nil, err
	}

	niches, dropped := normalize(decoded, limit)
	if dropped > 0 {
		logger.FromContext(ctx, a.log).Warn().
			Int("dropped", dropped).
			Int("kept", len(niches)).
			Msg("Dropped unusable niches from completion")
	}
	if len(niches) == 0 {
		return nil, ai.NewDecodeError(errors.New("completion contained no usable niches"))
	}

	AssignGradients(niches)
	return niches, nil
}

// headlines collects trend context from the configured sources. Sources
// get a fraction of the pipeline budget so a stalled feed is skipped and
// the completion still has time to run.
func (a *Agent) headlines(ctx context.Context) []string {
	if a.sources.Empty() {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, a.headlineTimeout())
	defer cancel()

	log := logger.FromContext(ctx, a.log)
	titles, errs := a.sources.Latest(ctx, maxHeadlines)
	for _, err := range errs {
		log.Warn().Err(err).Msg("Headline source failed")
	}
	log.Debug().Int("headlines", len(titles)).Msg("Collected trend headlines")
	return titles
}

// headlineTimeout is a quarter of the pipeline timeout, capped at maxHeadlineWait
func (a *Agent) headlineTimeout() time.Duration {
	d := a.timeout / 4
	if d > maxHeadlineWait {
		d = maxHeadlineWait
	}
	return d
}

// finish logs, records metrics and writes the history row
func (a *Agent) finish(ctx context.Context, record *models.SearchRecord, niches []models.Niche, err error, startTime time.Time) {
	duration := time.Since(startTime)
	record.DurationMs = duration.Milliseconds()
	record.NicheCount = len(niches)

	log := logger.FromContext(ctx, a.log)
	outcome := "ok"
	if err != nil {
		outcome = ErrorKind(err)
		record.Status = models.SearchStatusFailed
		record.ErrorKind = outcome
		log.Error().
			Err(err).
			Str("kind", string(record.Kind)).
			Str("error_kind", outcome).
			Dur("duration", duration).
			Msg("Search failed")
	} else {
		record.Status = models.SearchStatusOK
		log.Info().
			Str("kind", string(record.Kind)).
			Int("niches", len(niches)).
			Dur("duration", duration).
			Msg("Search completed")
	}

	a.metrics.ObserveSearch(string(record.Kind), outcome, len(niches), duration)

	if a.repository == nil {
		return
	}
	// History is written even when the caller has gone away
	if saveErr := a.repository.SaveSearch(context.WithoutCancel(ctx), record); saveErr != nil {
		log.Warn().Err(saveErr).Msg("Failed to save search history")
	}
}
