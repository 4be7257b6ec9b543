package discovery

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/niche-finder/internal/ai"
	"github.com/niche-finder/internal/models"
	"github.com/niche-finder/internal/source"
	"github.com/niche-finder/internal/storage"
	"github.com/niche-finder/pkg/logger"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type completeCall struct {
	system string
	user   string
	opts   ai.CompletionOptions
}

type fakeCompleter struct {
	mu    sync.Mutex
	text  string
	err   error
	calls []completeCall
}

func (f *fakeCompleter) Complete(ctx context.Context, system, user string, opts ai.CompletionOptions) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, completeCall{system: system, user: user, opts: opts})
	return f.text, f.err
}

func (f *fakeCompleter) lastCall(t *testing.T) completeCall {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.calls, "completer was not called")
	return f.calls[len(f.calls)-1]
}

func (f *fakeCompleter) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type memoryRepo struct {
	mu      sync.Mutex
	records []*models.SearchRecord
	saveErr error
}

func (r *memoryRepo) SaveSearch(ctx context.Context, record *models.SearchRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	r.records = append(r.records, record)
	return nil
}

func (r *memoryRepo) ListSearches(ctx context.Context, filter storage.SearchFilter) ([]*models.SearchRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*models.SearchRecord(nil), r.records...), nil
}

func (r *memoryRepo) CountSearches(ctx context.Context, filter storage.SearchFilter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.records)), nil
}

func (r *memoryRepo) DeleteSearchesBefore(ctx context.Context, before time.Time) (int64, error) {
	return 0, nil
}

func (r *memoryRepo) Close() error   { return nil }
func (r *memoryRepo) Migrate() error { return nil }

type staticSource struct {
	titles []string
	err    error
}

func (s *staticSource) Name() string { return "static" }
func (s *staticSource) Type() string { return "custom" }
func (s *staticSource) Fetch(ctx context.Context) ([]*models.Headline, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([]*models.Headline, 0, len(s.titles))
	for i, title := range s.titles {
		out = append(out, &models.Headline{Title: title, PublishedAt: time.Now().Add(-time.Duration(i) * time.Minute)})
	}
	return out, nil
}

// nichesJSON renders n well-formed niches with ids "1".."n"
func nichesJSON(n int) string {
	parts := make([]string, 0, n)
	sats := []string{"open", "busy", "crowded"}
	for i := 1; i <= n; i++ {
		parts = append(parts, fmt.Sprintf(
			`{"id":"%d","name":"Niche %d","saturation":"%s","saturationLabel":"Label","why":"Because.","twists":["a","b","c","d"]}`,
			i, i, sats[i%3]))
	}
	return `{"niches":[` + strings.Join(parts, ",") + `]}`
}

func newTestAgent(c Completer, sources *source.Manager, repo storage.Repository) *Agent {
	return NewAgent(c, sources, repo, nil, time.Second, logger.Nop())
}

func TestDiscover_ReturnsNichesWithGradients(t *testing.T) {
	for _, n := range []int{6, 7, 8, 11} {
		t.Run(fmt.Sprintf("%d_from_model", n), func(t *testing.T) {
			fc := &fakeCompleter{text: nichesJSON(n)}
			a := newTestAgent(fc, nil, nil)

			niches, err := a.Discover(context.Background(), "street food", models.PlatformAll)
			require.NoError(t, err)

			assert.GreaterOrEqual(t, len(niches), 6)
			assert.LessOrEqual(t, len(niches), MaxDiscoverResults)

			ids := make(map[string]bool)
			for i, niche := range niches {
				assert.False(t, ids[niche.ID], "duplicate id %s", niche.ID)
				ids[niche.ID] = true
				assert.Equal(t, CardGradients[i%6], niche.CardGradient)
			}
		})
	}
}

func TestDiscover_BlankQueryNeverCallsCompleter(t *testing.T) {
	for _, q := range []string{"", "   ", "\n\t"} {
		fc := &fakeCompleter{text: nichesJSON(6)}
		repo := &memoryRepo{}
		a := newTestAgent(fc, nil, repo)

		_, err := a.Discover(context.Background(), q, models.PlatformAll)
		require.Error(t, err)
		assert.True(t, IsValidation(err))
		assert.Equal(t, "Query is required", err.Error())
		assert.Zero(t, fc.callCount())
		assert.Empty(t, repo.records)
	}
}

func TestDiscover_InvalidPlatform(t *testing.T) {
	fc := &fakeCompleter{text: nichesJSON(6)}
	a := newTestAgent(fc, nil, nil)

	_, err := a.Discover(context.Background(), "cooking", models.Platform("myspace"))
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Zero(t, fc.callCount())
}

func TestDiscover_ComposesPlatformMessage(t *testing.T) {
	fc := &fakeCompleter{text: nichesJSON(6)}
	a := newTestAgent(fc, nil, nil)

	_, err := a.Discover(context.Background(), "cooking tutorials", models.PlatformTikTok)
	require.NoError(t, err)

	call := fc.lastCall(t)
	assert.Equal(t, ai.DiscoverSystemPrompt, call.system)
	assert.Contains(t, call.user, "Focus specifically on tiktok opportunities.")
	assert.Contains(t, call.user, "cooking tutorials")
	assert.Equal(t, float32(0.7), call.opts.Temperature)
	assert.Equal(t, ai.MaxTokens, call.opts.MaxTokens)
}

func TestDiscover_EmptyPlatformMeansAll(t *testing.T) {
	fc := &fakeCompleter{text: nichesJSON(6)}
	a := newTestAgent(fc, nil, nil)

	_, err := a.Discover(context.Background(), "fitness", "")
	require.NoError(t, err)

	want := "Analyze this content idea for Nigerian creators: \"fitness\"\n\n" +
		"Consider all platforms: TikTok, YouTube, and Instagram.\n\n" +
		"Return JSON with 6-8 niche suggestions."
	assert.Equal(t, want, fc.lastCall(t).user)
}

func TestDiscover_FencedCompletion(t *testing.T) {
	fc := &fakeCompleter{text: "```json\n" + nichesJSON(6) + "\n```"}
	a := newTestAgent(fc, nil, nil)

	niches, err := a.Discover(context.Background(), "music", models.PlatformYouTube)
	require.NoError(t, err)
	assert.Len(t, niches, 6)
}

func TestDiscover_Errors(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		err      error
		wantKind string
	}{
		{"malformed", "Sorry, I cannot help with that.", nil, KindDecode},
		{"no niches field", `{"ideas":[]}`, nil, KindDecode},
		{"niches not array", `{"niches":"lots"}`, nil, KindDecode},
		{"all entries unusable", `{"niches":[{"id":"1","name":"","saturation":"open"},{"id":"2","name":"x","saturation":"meh"}]}`, nil, KindDecode},
		{"missing key", "", ai.NewConfigError(ai.ErrMissingAPIKey), KindConfig},
		{"provider down", "", ai.NewUpstreamError(errors.New("502")), KindUpstream},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &memoryRepo{}
			a := newTestAgent(&fakeCompleter{text: tt.text, err: tt.err}, nil, repo)

			_, err := a.Discover(context.Background(), "comedy", models.PlatformAll)
			require.Error(t, err)
			assert.Equal(t, tt.wantKind, ErrorKind(err))

			require.Len(t, repo.records, 1)
			assert.Equal(t, models.SearchStatusFailed, repo.records[0].Status)
			assert.Equal(t, tt.wantKind, repo.records[0].ErrorKind)
		})
	}
}

func TestDiscover_RecordsHistory(t *testing.T) {
	repo := &memoryRepo{}
	a := newTestAgent(&fakeCompleter{text: nichesJSON(7)}, nil, repo)

	_, err := a.Discover(context.Background(), "  tech reviews  ", models.PlatformInstagram)
	require.NoError(t, err)

	require.Len(t, repo.records, 1)
	rec := repo.records[0]
	assert.Equal(t, models.SearchKindDiscover, rec.Kind)
	assert.Equal(t, "tech reviews", rec.Query)
	assert.Equal(t, models.PlatformInstagram, rec.Platform)
	assert.Equal(t, models.SearchStatusOK, rec.Status)
	assert.Equal(t, 7, rec.NicheCount)
	assert.Empty(t, rec.ErrorKind)
}

func TestDiscover_HistoryFailureDoesNotFailSearch(t *testing.T) {
	repo := &memoryRepo{saveErr: errors.New("disk full")}
	a := newTestAgent(&fakeCompleter{text: nichesJSON(6)}, nil, repo)

	niches, err := a.Discover(context.Background(), "beauty", models.PlatformAll)
	require.NoError(t, err)
	assert.Len(t, niches, 6)
}

func TestTrending_ReturnsSix(t *testing.T) {
	fc := &fakeCompleter{text: nichesJSON(6)}
	repo := &memoryRepo{}
	a := newTestAgent(fc, nil, repo)

	niches, err := a.Trending(context.Background())
	require.NoError(t, err)
	require.Len(t, niches, 6)

	call := fc.lastCall(t)
	assert.Equal(t, ai.TrendingSystemPrompt, call.system)
	assert.Equal(t, ai.TrendingUserPrompt, call.user)
	assert.Equal(t, float32(0.8), call.opts.Temperature)

	require.Len(t, repo.records, 1)
	assert.Equal(t, models.SearchKindTrending, repo.records[0].Kind)
}

func TestTrending_TruncatesToSix(t *testing.T) {
	a := newTestAgent(&fakeCompleter{text: nichesJSON(9)}, nil, nil)

	niches, err := a.Trending(context.Background())
	require.NoError(t, err)
	assert.Len(t, niches, MaxTrendingResults)
}

func TestTrending_AppendsHeadlines(t *testing.T) {
	sources := source.NewManager()
	sources.Register(&staticSource{titles: []string{"Detty December begins", "New naira notes"}})
	sources.Register(&staticSource{err: errors.New("feed down")})

	fc := &fakeCompleter{text: nichesJSON(6)}
	a := newTestAgent(fc, sources, nil)

	_, err := a.Trending(context.Background())
	require.NoError(t, err)

	want := ai.TrendingUserPrompt +
		"\n\nRecent headlines for context:\n- Detty December begins\n- New naira notes"
	assert.Equal(t, want, fc.lastCall(t).user)
}

func TestTrending_ConfigError(t *testing.T) {
	a := newTestAgent(&fakeCompleter{err: ai.NewConfigError(ai.ErrMissingAPIKey)}, nil, nil)

	_, err := a.Trending(context.Background())
	require.Error(t, err)
	assert.True(t, ai.IsConfig(err))
	assert.Equal(t, "GROQ_API_KEY is not defined", err.Error())
}

// blockingCompleter waits for its context to end
type blockingCompleter struct{}

func (blockingCompleter) Complete(ctx context.Context, system, user string, opts ai.CompletionOptions) (string, error) {
	<-ctx.Done()
	return "", ai.NewUpstreamError(fmt.Errorf("completion API error: %w", ctx.Err()))
}

// stalledSource never answers before its context ends
type stalledSource struct{}

func (stalledSource) Name() string { return "stalled" }
func (stalledSource) Type() string { return "rss" }
func (stalledSource) Fetch(ctx context.Context) ([]*models.Headline, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestDiscover_TimesOut(t *testing.T) {
	repo := &memoryRepo{}
	a := NewAgent(blockingCompleter{}, nil, repo, nil, 100*time.Millisecond, logger.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	start := time.Now()
	_, err := a.Discover(ctx, "cooking", models.PlatformAll)
	elapsed := time.Since(start)

	require.Error(t, err)
	assert.True(t, ai.IsUpstream(err))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, elapsed, time.Second)

	require.Len(t, repo.records, 1)
	assert.Equal(t, KindUpstream, repo.records[0].ErrorKind)
}

func TestTrending_TimesOut(t *testing.T) {
	a := NewAgent(blockingCompleter{}, nil, nil, nil, 100*time.Millisecond, logger.Nop())

	start := time.Now()
	_, err := a.Trending(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
}

func TestTrending_StalledHeadlineSourceIsSkipped(t *testing.T) {
	sources := source.NewManager()
	sources.Register(stalledSource{})
	sources.Register(&staticSource{titles: []string{"Fuel price rises"}})

	fc := &fakeCompleter{text: nichesJSON(6)}
	a := NewAgent(fc, sources, nil, nil, 400*time.Millisecond, logger.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	start := time.Now()
	niches, err := a.Trending(ctx)
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.Len(t, niches, 6)
	assert.Less(t, elapsed, time.Second, "trending must not wait on a stalled source")
	assert.Equal(t, ai.TrendingUserPrompt+"\n\nRecent headlines for context:\n- Fuel price rises", fc.lastCall(t).user)
}

func TestHeadlineTimeout(t *testing.T) {
	a := NewAgent(&fakeCompleter{}, nil, nil, nil, 400*time.Millisecond, logger.Nop())
	assert.Equal(t, 100*time.Millisecond, a.headlineTimeout())

	a = NewAgent(&fakeCompleter{}, nil, nil, nil, time.Minute, logger.Nop())
	assert.Equal(t, maxHeadlineWait, a.headlineTimeout())
}

func TestTrending_SourceFailureLoggedWithRequestID(t *testing.T) {
	sources := source.NewManager()
	sources.Register(&staticSource{err: errors.New("feed down")})

	var buf bytes.Buffer
	reqLog := &logger.Logger{Logger: zerolog.New(&buf)}
	ctx := reqLog.WithRequestID("req-42").Into(context.Background())

	a := newTestAgent(&fakeCompleter{text: nichesJSON(6)}, sources, nil)
	_, err := a.Trending(ctx)
	require.NoError(t, err)

	var found bool
	for _, line := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
		if bytes.Contains(line, []byte("Headline source failed")) {
			found = true
			assert.Contains(t, string(line), `"request_id":"req-42"`)
			assert.Contains(t, string(line), "feed down")
		}
	}
	assert.True(t, found, "source failure was not logged on the request logger:\n%s", buf.String())
}
