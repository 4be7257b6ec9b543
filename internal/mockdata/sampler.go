package mockdata

import (
	"math/rand"
	"sync"
	"time"

	"github.com/niche-finder/internal/models"
)

const (
	// MinResults is the shortest sample Results returns
	MinResults = 6
	// MaxResults is the longest sample Results returns
	MaxResults = 8
)

// Sampler picks a random prefix of the shuffled pool
type Sampler struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSampler creates a sampler driven by src. A nil src seeds from the clock.
func NewSampler(src rand.Source) *Sampler {
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}
	return &Sampler{rng: rand.New(src)}
}

// Results returns between MinResults and MaxResults niches from the pool.
// The query does not influence the selection.
func (s *Sampler) Results(query string) []models.Niche {
	s.mu.Lock()
	order := make([]int, len(Pool))
	for i := range order {
		order[i] = i
	}
	// Fisher-Yates
	for i := len(order) - 1; i > 0; i-- {
		j := s.rng.Intn(i + 1)
		order[i], order[j] = order[j], order[i]
	}
	n := MinResults + s.rng.Intn(MaxResults-MinResults+1)
	s.mu.Unlock()

	if n > len(order) {
		n = len(order)
	}

	out := make([]models.Niche, 0, n)
	for _, idx := range order[:n] {
		out = append(out, Pool[idx].Clone())
	}
	return out
}
