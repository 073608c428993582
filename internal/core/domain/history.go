package domain

import "time"

// SearchRecord is one entry in the search history.
type SearchRecord struct {
	ID          int64
	Query       string
	SourceCount int
	ResultCount int
	Duration    time.Duration
	CreatedAt   time.Time
}
