package discovery

import (
	"fmt"
	"strings"

	"github.com/niche-finder/internal/ai"
	"github.com/niche-finder/internal/models"
)

// maxHeadlines bounds the context appended to the trending message
const maxHeadlines = 10

// platformContext returns the platform sentence of the discover message.
// An empty platform means all platforms.
func platformContext(platform models.Platform) string {
	if platform == "" || platform == models.PlatformAll {
		return ai.AllPlatformsContext
	}
	return fmt.Sprintf(ai.PlatformFocusContext, platform)
}

// discoverMessage builds the user message for a discover call
func discoverMessage(query string, platform models.Platform) string {
	return fmt.Sprintf(ai.DiscoverUserPrompt, query, platformContext(platform))
}

// trendingMessage builds the user message for a trending call.
// Without headlines it is exactly the fixed trending prompt.
func trendingMessage(headlines []string) string {
	if len(headlines) == 0 {
		return ai.TrendingUserPrompt
	}
	if len(headlines) > maxHeadlines {
		headlines = headlines[:maxHeadlines]
	}

	lines := make([]string, 0, len(headlines))
	for _, h := range headlines {
		lines = append(lines, "- "+h)
	}
	return ai.TrendingUserPrompt + fmt.Sprintf(ai.TrendingHeadlinesPrompt, strings.Join(lines, "\n"))
}
