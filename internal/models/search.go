package models

import "time"

// SearchKind identifies which pipeline produced a search record
type SearchKind string

const (
	SearchKindDiscover SearchKind = "discover"
	SearchKindTrending SearchKind = "trending"
)

// SearchStatus is the outcome of a search
type SearchStatus string

const (
	SearchStatusOK     SearchStatus = "ok"
	SearchStatusFailed SearchStatus = "failed"
)

// SearchRecord is an audit row for one discovery call.
// Niches themselves are never stored.
type SearchRecord struct {
	ID         uint         `gorm:"primaryKey" json:"id"`
	Kind       SearchKind   `gorm:"index;not null" json:"kind"`
	Query      string       `json:"query"`
	Platform   Platform     `json:"platform"`
	Status     SearchStatus `gorm:"index;not null" json:"status"`
	ErrorKind  string       `json:"error_kind,omitempty"`
	NicheCount int          `json:"niche_count"`
	DurationMs int64        `json:"duration_ms"`
	CreatedAt  time.Time    `gorm:"autoCreateTime;index" json:"created_at"`
}

// Failed returns true if the search did not produce niches
func (r *SearchRecord) Failed() bool {
	return r.Status == SearchStatusFailed
}
