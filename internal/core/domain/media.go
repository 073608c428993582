package domain

// MediaCandidate is one item returned by a source for a query.
// It is immutable once constructed and carries only the source's id and
// name, never a reference to the source object itself.
type MediaCandidate struct {
	// ExternalID is the provider-assigned item id.
	ExternalID string

	// Title is the provider's title for the item.
	Title string

	// PosterURL is an optional cover image.
	PosterURL string

	// Remarks is free-text provider metadata ("更新至20集", "HD", ...).
	Remarks string

	// Year is the declared release year as a 4-digit string, if any.
	Year string

	// TypeLabel is the provider's free-text content category.
	TypeLabel string

	// RawPlayURLBlob is the provider's encoded per-episode playback URLs,
	// decoded elsewhere.
	RawPlayURLBlob string

	// SourceID and SourceName identify the originating source by value.
	SourceID   string
	SourceName string
}

// DedupKey identifies a candidate across pages and retries within one
// aggregation run. First occurrence wins.
func (c *MediaCandidate) DedupKey() string {
	return c.SourceID + "::" + c.ExternalID
}

// Pagination describes a source's paging state for one query.
type Pagination struct {
	Page         int
	TotalPages   int
	TotalResults int
}

// HasMore reports whether the source has further pages for the query.
func (p *Pagination) HasMore() bool {
	return p != nil && p.Page < p.TotalPages
}

// SearchPage is the outcome of one (source, page) request.
type SearchPage struct {
	// Success is false for ordinary HTTP or application failures; the
	// failure reason is in Error. Clients never return a Go error for
	// these, only for cancellation.
	Success bool

	// Items are the candidates on this page.
	Items []MediaCandidate

	// Pagination is present when the provider reports paging metadata.
	Pagination *Pagination

	// Error describes the failure when Success is false.
	Error string
}
