package mockdata

import (
	"math/rand"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/niche-finder/internal/models"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestPool(t *testing.T) {
	require.Len(t, Pool, 8)

	ids := make(map[string]bool)
	for _, n := range Pool {
		assert.False(t, ids[n.ID], "duplicate id %s", n.ID)
		ids[n.ID] = true
		assert.NotEmpty(t, n.Name)
		assert.Len(t, n.Twists, 4)
		_, ok := models.ParseSaturation(string(n.Saturation))
		assert.True(t, ok, "saturation %q", n.Saturation)
	}
}

func TestSampler_ResultsShape(t *testing.T) {
	s := NewSampler(rand.NewSource(42))

	poolIDs := make(map[string]bool)
	for _, n := range Pool {
		poolIDs[n.ID] = true
	}

	lengths := make(map[int]int)
	for i := 0; i < 1000; i++ {
		results := s.Results("anything")
		lengths[len(results)]++

		require.GreaterOrEqual(t, len(results), MinResults)
		require.LessOrEqual(t, len(results), MaxResults)

		seen := make(map[string]bool)
		for _, n := range results {
			require.True(t, poolIDs[n.ID], "id %s not in pool", n.ID)
			require.False(t, seen[n.ID], "id %s repeated", n.ID)
			seen[n.ID] = true
		}
	}

	for _, n := range []int{6, 7, 8} {
		assert.Positive(t, lengths[n], "length %d never produced", n)
	}
}

func TestSampler_Deterministic(t *testing.T) {
	a := NewSampler(rand.NewSource(7))
	b := NewSampler(rand.NewSource(7))

	for i := 0; i < 20; i++ {
		if diff := cmp.Diff(a.Results("x"), b.Results("y")); diff != "" {
			t.Fatalf("same seed produced different samples (-a +b):\n%s", diff)
		}
	}
}

func TestSampler_ReturnsCopies(t *testing.T) {
	s := NewSampler(rand.NewSource(1))
	results := s.Results("food")
	results[0].Twists[0] = "mutated"
	results[0].Name = "mutated"

	for _, n := range Pool {
		assert.NotEqual(t, "mutated", n.Name)
		assert.NotEqual(t, "mutated", n.Twists[0])
	}
}

func TestSampler_Concurrent(t *testing.T) {
	s := NewSampler(nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_ = s.Results("q")
			}
		}()
	}
	wg.Wait()
}
