package discovery

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/niche-finder/internal/models"
)

const (
	// MaxDiscoverResults caps a discover response
	MaxDiscoverResults = 8
	// MaxTrendingResults caps a trending response
	MaxTrendingResults = 6
)

// defaultLabels fill in a missing saturationLabel
var defaultLabels = map[models.Saturation]string{
	models.SaturationOpen:    "Open lane",
	models.SaturationBusy:    "Getting busy",
	models.SaturationCrowded: "Very crowded",
}

// normalize drops unusable entries, truncates to limit and makes ids unique.
// It returns the kept niches and how many were dropped.
func normalize(niches []models.Niche, limit int) ([]models.Niche, int) {
	out := make([]models.Niche, 0, len(niches))
	dropped := 0

	for _, n := range niches {
		sat, ok := models.ParseSaturation(string(n.Saturation))
		name := strings.TrimSpace(n.Name)
		if !ok || name == "" {
			dropped++
			continue
		}

		n = n.Clone()
		n.Name = name
		n.Saturation = sat
		n.SaturationLabel = strings.TrimSpace(n.SaturationLabel)
		if n.SaturationLabel == "" {
			n.SaturationLabel = defaultLabels[sat]
		}
		if n.Twists == nil {
			n.Twists = []string{}
		}
		out = append(out, n)
	}

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}

	seen := make(map[string]bool, len(out))
	for i := range out {
		id := strings.TrimSpace(out[i].ID)
		if id == "" || seen[id] {
			id = strconv.Itoa(i + 1)
			for k := 1; seen[id]; k++ {
				id = fmt.Sprintf("%d-%d", i+1, k)
			}
		}
		seen[id] = true
		out[i].ID = id
	}

	return out, dropped
}
