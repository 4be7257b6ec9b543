package discovery

import "github.com/niche-finder/internal/models"

// CardGradients are the style tokens cycled over result positions
var CardGradients = [...]string{
	"card-gradient-1",
	"card-gradient-2",
	"card-gradient-3",
	"card-gradient-4",
	"card-gradient-5",
	"card-gradient-6",
}

// GradientFor returns the token for position i (0-based)
func GradientFor(i int) string {
	return CardGradients[i%len(CardGradients)]
}

// AssignGradients overwrites every niche's gradient by its position
func AssignGradients(niches []models.Niche) {
	for i := range niches {
		niches[i].CardGradient = GradientFor(i)
	}
}
