// Package sourceclient implements the HTTP adapter for querying content
// providers. Providers speak a common JSON protocol:
//
//	GET {baseURL}?wd={query}&pg={page}
//	-> {"code":1, "list":[...], "page":N, "pagecount":N, "total":N}
//
// The client owns per-source timeout and retry; ordinary failures are
// reported in the SearchPage, never as a Go error.
package sourceclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/streamlens/streamlens/internal/core/domain"
	"github.com/streamlens/streamlens/internal/core/ports/driven"
	"github.com/streamlens/streamlens/internal/logger"
)

// Ensure Client implements the interface.
var _ driven.SourceClient = (*Client)(nil)

const (
	// maxResponseSize caps provider responses; these APIs return at most
	// a few hundred KB per page.
	maxResponseSize = 4 << 20

	retryBaseDelay = 250 * time.Millisecond

	userAgent = "streamlens/1.0"
)

// Client queries provider search endpoints over HTTP.
type Client struct {
	http     *http.Client
	limiters *hostLimiters
}

// New creates a client with a default transport. Per-request timeouts come
// from each source descriptor, so the underlying client has none.
func New() *Client {
	return NewWithHTTPClient(&http.Client{})
}

// NewWithHTTPClient creates a client around a caller-supplied http.Client.
// Useful for testing.
func NewWithHTTPClient(hc *http.Client) *Client {
	return &Client{
		http:     hc,
		limiters: newHostLimiters(),
	}
}

// Search implements driven.SourceClient.
func (c *Client) Search(
	ctx context.Context, query string, source domain.Source, page int,
) (domain.SearchPage, error) {
	endpoint, err := searchURL(source.BaseURL, query, page)
	if err != nil {
		return failPage(fmt.Sprintf("bad base url: %v", err)), nil
	}

	// Stored descriptors are validated, but a hand-built one may carry a
	// negative retry count; always make at least one attempt.
	attempts := source.RetryCount + 1
	if attempts < 1 {
		attempts = 1
	}
	var lastErr error

	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			delay := retryBaseDelay << (attempt - 1)
			logger.Debug("Source %s: retry %d/%d after %s", source.ID, attempt, source.RetryCount, delay)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return domain.SearchPage{}, ctx.Err()
			}
		}

		res, err := c.fetch(ctx, endpoint, source)
		if err == nil {
			return res, nil
		}
		// Cancellation of the parent context is the only condition
		// surfaced as an error; a timed-out attempt is retryable.
		if cause := ctx.Err(); cause != nil {
			return domain.SearchPage{}, cause
		}
		lastErr = err
	}

	return failPage(lastErr.Error()), nil
}

// fetch performs one rate-limited request attempt.
func (c *Client) fetch(ctx context.Context, endpoint *url.URL, source domain.Source) (domain.SearchPage, error) {
	if err := c.limiters.wait(ctx, endpoint.Host); err != nil {
		return domain.SearchPage{}, err
	}

	reqCtx, cancel := context.WithTimeout(ctx, source.EffectiveTimeout())
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return domain.SearchPage{}, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		// Unwrap the deadline back onto the parent: a per-attempt
		// timeout is retryable, a cancelled parent is not.
		if ctx.Err() != nil {
			return domain.SearchPage{}, ctx.Err()
		}
		return domain.SearchPage{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.SearchPage{}, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		if ctx.Err() != nil {
			return domain.SearchPage{}, ctx.Err()
		}
		return domain.SearchPage{}, err
	}

	return parsePage(body, source)
}

// searchURL builds the provider search endpoint, preserving any query
// parameters already present on the base URL.
func searchURL(baseURL, query string, page int) (*url.URL, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("wd", query)
	if page > 1 {
		q.Set("pg", strconv.Itoa(page))
	}
	u.RawQuery = q.Encode()
	return u, nil
}

// providerResponse mirrors the common provider JSON envelope. Numeric
// fields arrive as numbers or strings depending on the provider.
type providerResponse struct {
	Code      int            `json:"code"`
	Msg       string         `json:"msg"`
	Page      flexInt        `json:"page"`
	PageCount flexInt        `json:"pagecount"`
	Total     flexInt        `json:"total"`
	List      []providerItem `json:"list"`
}

type providerItem struct {
	VodID      flexInt `json:"vod_id"`
	VodName    string  `json:"vod_name"`
	VodPic     string  `json:"vod_pic"`
	VodRemarks string  `json:"vod_remarks"`
	VodYear    string  `json:"vod_year"`
	TypeName   string  `json:"type_name"`
	VodPlayURL string  `json:"vod_play_url"`
}

// flexInt decodes JSON numbers that some providers serialise as strings.
type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("flexInt: %w", err)
	}
	*f = flexInt(n)
	return nil
}

func parsePage(body []byte, source domain.Source) (domain.SearchPage, error) {
	var pr providerResponse
	if err := json.Unmarshal(body, &pr); err != nil {
		return domain.SearchPage{}, fmt.Errorf("decode response: %w", err)
	}
	if pr.Code != 1 {
		return failPage(fmt.Sprintf("provider code %d: %s", pr.Code, pr.Msg)), nil
	}

	items := make([]domain.MediaCandidate, 0, len(pr.List))
	for _, it := range pr.List {
		if it.VodName == "" {
			continue
		}
		items = append(items, domain.MediaCandidate{
			ExternalID:     strconv.Itoa(int(it.VodID)),
			Title:          it.VodName,
			PosterURL:      it.VodPic,
			Remarks:        it.VodRemarks,
			Year:           it.VodYear,
			TypeLabel:      it.TypeName,
			RawPlayURLBlob: it.VodPlayURL,
			SourceID:       source.ID,
			SourceName:     source.Name,
		})
	}

	page := domain.SearchPage{Success: true, Items: items}
	if pr.PageCount > 0 {
		page.Pagination = &domain.Pagination{
			Page:         int(pr.Page),
			TotalPages:   int(pr.PageCount),
			TotalResults: int(pr.Total),
		}
	}
	return page, nil
}

func failPage(reason string) domain.SearchPage {
	return domain.SearchPage{Success: false, Error: reason}
}
