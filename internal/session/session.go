// Package session is the client side of niche discovery: a state machine
// over the HTTP API with the sample-data fallback.
package session

import (
	"context"
	"strings"
	"sync"

	"github.com/niche-finder/internal/mockdata"
	"github.com/niche-finder/internal/models"
	"github.com/niche-finder/pkg/logger"
)

// AdvisoryFallback is shown when results come from the sample pool
const AdvisoryFallback = "Using sample data - AI service temporarily unavailable"

// TrendingStripSize is how many trending niches the home view shows
const TrendingStripSize = 3

// State is the view the session is in
type State string

const (
	StateHome      State = "home"
	StateSearching State = "searching"
	StateResults   State = "results"
)

// Backend is what the session calls. *APIClient implements it.
type Backend interface {
	Discover(ctx context.Context, query string, platform models.Platform) ([]models.Niche, error)
	Trending(ctx context.Context) ([]models.Niche, error)
}

// View is a point-in-time copy of the session
type View struct {
	State           State
	Query           string
	Platform        models.Platform
	Results         []models.Niche
	Advisory        string
	Trending        []models.Niche
	TrendingLoading bool
	Selected        *models.Niche
}

// OpenLanes counts results with open saturation
func (v View) OpenLanes() int {
	n := 0
	for _, r := range v.Results {
		if r.Saturation == models.SaturationOpen {
			n++
		}
	}
	return n
}

// Session holds one user's discovery state. Safe for concurrent use.
type Session struct {
	backend Backend
	sampler *mockdata.Sampler
	log     *logger.Logger

	mu              sync.Mutex
	state           State
	platform        models.Platform
	query           string
	results         []models.Niche
	advisory        string
	trending        []models.Niche
	trendingLoading bool
	selected        *models.Niche
}

// New creates a session in the home state with the all-platforms filter
func New(backend Backend, sampler *mockdata.Sampler, log *logger.Logger) *Session {
	if sampler == nil {
		sampler = mockdata.NewSampler(nil)
	}
	return &Session{
		backend:         backend,
		sampler:         sampler,
		log:             log.WithComponent("session"),
		state:           StateHome,
		platform:        models.PlatformAll,
		trendingLoading: true,
	}
}

// LoadTrending fetches the trending strip. Any failure leaves it empty.
func (s *Session) LoadTrending(ctx context.Context) {
	s.mu.Lock()
	s.trendingLoading = true
	s.mu.Unlock()

	niches, err := s.backend.Trending(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("Error fetching trending")
		niches = nil
	}

	s.mu.Lock()
	s.trending = niches
	s.trendingLoading = false
	s.mu.Unlock()
}

// SetPlatform changes the filter used by the next search
func (s *Session) SetPlatform(p models.Platform) {
	if !p.Valid() {
		return
	}
	s.mu.Lock()
	s.platform = p
	s.mu.Unlock()
}

// Search runs a discovery for query and reports whether it started.
// Blank input and searches while one is in flight are ignored. On any
// failure the session shows sample results with an advisory.
func (s *Session) Search(ctx context.Context, query string) bool {
	query = strings.TrimSpace(query)
	if query == "" {
		return false
	}

	s.mu.Lock()
	if s.state == StateSearching {
		s.mu.Unlock()
		return false
	}
	s.query = query
	s.state = StateSearching
	s.advisory = ""
	platform := s.platform
	s.mu.Unlock()

	niches, err := s.backend.Discover(ctx, query, platform)

	advisory := ""
	if err != nil {
		s.log.Warn().Err(err).Str("query", query).Msg("Search error, using sample data")
		niches = s.sampler.Results(query)
		advisory = AdvisoryFallback
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// NewSearch during the call abandons its result
	if s.state != StateSearching || s.query != query {
		return true
	}
	s.results = niches
	s.advisory = advisory
	s.state = StateResults
	return true
}

// NewSearch returns to the home view and clears the last search
func (s *Session) NewSearch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateHome
	s.results = nil
	s.query = ""
	s.advisory = ""
}

// Open selects a niche from the results or the trending strip
func (s *Session) Open(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, list := range [][]models.Niche{s.results, s.stripLocked()} {
		for _, n := range list {
			if n.ID == id {
				c := n.Clone()
				s.selected = &c
				return true
			}
		}
	}
	return false
}

// Close clears the selected niche
func (s *Session) Close() {
	s.mu.Lock()
	s.selected = nil
	s.mu.Unlock()
}

// TrendingStrip returns at most the first three trending niches
func (s *Session) TrendingStrip() []models.Niche {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneAll(s.stripLocked())
}

func (s *Session) stripLocked() []models.Niche {
	if len(s.trending) > TrendingStripSize {
		return s.trending[:TrendingStripSize]
	}
	return s.trending
}

// Snapshot returns a copy of the current state
func (s *Session) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := View{
		State:           s.state,
		Query:           s.query,
		Platform:        s.platform,
		Results:         cloneAll(s.results),
		Advisory:        s.advisory,
		Trending:        cloneAll(s.stripLocked()),
		TrendingLoading: s.trendingLoading,
	}
	if s.selected != nil {
		c := s.selected.Clone()
		v.Selected = &c
	}
	return v
}

func cloneAll(in []models.Niche) []models.Niche {
	if in == nil {
		return nil
	}
	out := make([]models.Niche, len(in))
	for i, n := range in {
		out[i] = n.Clone()
	}
	return out
}
