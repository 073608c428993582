package domain

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Default per-source transport settings, applied when a descriptor leaves
// them unset.
const (
	DefaultSourceTimeout = 8 * time.Second
	DefaultRetryCount    = 1
)

// Source describes one independently-operated content provider.
// A descriptor is immutable for the duration of a search run; the search
// core only reads it.
type Source struct {
	// ID is the unique identifier for the source.
	ID string

	// Name is the human-readable provider name.
	Name string

	// BaseURL is the provider's search endpoint.
	BaseURL string

	// DetailURL optionally overrides BaseURL for detail lookups.
	DetailURL string

	// Timeout bounds a single request to this source.
	Timeout time.Duration

	// RetryCount is the number of retries after a failed request.
	RetryCount int

	// Enabled marks whether the source participates in searches.
	Enabled bool

	// CreatedAt is when the source was added.
	CreatedAt time.Time

	// UpdatedAt is when the source was last modified.
	UpdatedAt time.Time
}

// Validate checks that the descriptor can be used for searching.
func (s *Source) Validate() error {
	if strings.TrimSpace(s.ID) == "" {
		return fmt.Errorf("%w: source id is empty", ErrInvalidInput)
	}
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("%w: source name is empty", ErrInvalidInput)
	}
	u, err := url.Parse(s.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: base url %q is not an absolute http(s) url", ErrInvalidInput, s.BaseURL)
	}
	if s.RetryCount < 0 {
		return fmt.Errorf("%w: retry count is negative", ErrInvalidInput)
	}
	return nil
}

// EffectiveTimeout returns the request timeout, falling back to the default.
func (s *Source) EffectiveTimeout() time.Duration {
	if s.Timeout <= 0 {
		return DefaultSourceTimeout
	}
	return s.Timeout
}

// EnabledSources filters a descriptor list down to the enabled ones.
func EnabledSources(sources []Source) []Source {
	out := make([]Source, 0, len(sources))
	for _, s := range sources {
		if s.Enabled {
			out = append(out, s)
		}
	}
	return out
}
