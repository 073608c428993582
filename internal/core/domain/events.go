package domain

import "time"

// Event type keys for aggregation lifecycle events.
// Per run: Start precedes everything, each source settles with exactly one
// Progress (after its Result, if any), and Complete or Abort is terminal.
const (
	EventSearchStart    = "search:start"
	EventSearchProgress = "search:progress"
	EventSearchResult   = "search:result"
	EventSearchComplete = "search:complete"
	EventSearchError    = "search:error"
	EventSearchAbort    = "search:abort"
)

// StartEvent is published once when an aggregation run begins.
type StartEvent struct {
	Query   string
	Sources []Source
	At      time.Time
}

// EventType implements eventbus.Event.
func (StartEvent) EventType() string { return EventSearchStart }

// ProgressEvent is published exactly once per source when it settles,
// whether it succeeded or failed.
type ProgressEvent struct {
	Source    Source
	Completed int
	Total     int
}

// EventType implements eventbus.Event.
func (ProgressEvent) EventType() string { return EventSearchProgress }

// ResultEvent carries one source's new unique candidates. It is published
// even when Items is empty so pagination metadata still propagates.
type ResultEvent struct {
	Source     Source
	Items      []MediaCandidate
	Pagination *Pagination
}

// EventType implements eventbus.Event.
func (ResultEvent) EventType() string { return EventSearchResult }

// CompleteEvent is the terminal event of an uncancelled run.
type CompleteEvent struct {
	Query      string
	TotalItems int
	Duration   time.Duration
}

// EventType implements eventbus.Event.
func (CompleteEvent) EventType() string { return EventSearchComplete }

// ErrorEvent reports a per-source failure. Source is nil for run-level
// errors.
type ErrorEvent struct {
	Source *Source
	Err    error
}

// EventType implements eventbus.Event.
func (ErrorEvent) EventType() string { return EventSearchError }

// AbortEvent is the terminal event of a cancelled run.
type AbortEvent struct {
	Query string
}

// EventType implements eventbus.Event.
func (AbortEvent) EventType() string { return EventSearchAbort }
