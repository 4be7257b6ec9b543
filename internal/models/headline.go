package models

import "time"

// Headline is a trend signal fed into the trending prompt
type Headline struct {
	Title       string
	SourceType  string
	SourceName  string
	URL         string
	PublishedAt time.Time
}
