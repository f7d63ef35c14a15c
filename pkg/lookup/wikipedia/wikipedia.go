// Package wikipedia provides a lookup.Source backed by the Wikipedia REST
// summary API.
//
// Lookup first tries the summary endpoint with the term as the page title.
// When that misses (redirect-free titles are case-sensitive and transcripts
// rarely match them exactly), it falls back to the MediaWiki search API, takes
// the top hit, and fetches that page's summary instead.
package wikipedia

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fwehrmann/voxnote/pkg/lookup"
)

const (
	defaultBaseURL   = "https://en.wikipedia.org"
	defaultUserAgent = "voxnote/1.0"
	defaultTimeout   = 10 * time.Second

	// maxSentences caps the passage length taken from a page extract.
	maxSentences = 4
)

// Source implements lookup.Source against Wikipedia.
type Source struct {
	baseURL   string
	userAgent string
	client    *http.Client
}

// Ensure Source implements lookup.Source at compile time.
var _ lookup.Source = (*Source)(nil)

// Option is a functional option for Source.
type Option func(*Source)

// WithBaseURL overrides the Wikipedia base URL. Useful for tests and
// language editions.
func WithBaseURL(url string) Option {
	return func(s *Source) {
		s.baseURL = strings.TrimRight(url, "/")
	}
}

// WithUserAgent overrides the User-Agent header. Wikipedia requires a
// descriptive agent on API traffic.
func WithUserAgent(ua string) Option {
	return func(s *Source) {
		s.userAgent = ua
	}
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Source) {
		s.client = c
	}
}

// New constructs a Wikipedia Source.
func New(opts ...Option) *Source {
	s := &Source{
		baseURL:   defaultBaseURL,
		userAgent: defaultUserAgent,
		client:    &http.Client{Timeout: defaultTimeout},
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Name implements lookup.Source.
func (s *Source) Name() string { return "wikipedia" }

// summaryResponse is the subset of the REST page-summary shape we consume.
// A response without an extract is treated as no data.
type summaryResponse struct {
	Title   string `json:"title"`
	Extract string `json:"extract"`
}

// searchResponse is the subset of the MediaWiki search API shape we consume.
type searchResponse struct {
	Query struct {
		Search []struct {
			Title string `json:"title"`
		} `json:"search"`
	} `json:"query"`
}

// Lookup implements lookup.Source.
func (s *Source) Lookup(ctx context.Context, term string) (string, error) {
	if passage, err := s.summary(ctx, term); err == nil {
		return passage, nil
	} else if ctx.Err() != nil {
		return "", err
	}

	title, err := s.search(ctx, term)
	if err != nil {
		return "", err
	}
	return s.summary(ctx, title)
}

// summary fetches the page summary for a title and formats the passage.
func (s *Source) summary(ctx context.Context, title string) (string, error) {
	u := s.baseURL + "/api/rest_v1/page/summary/" + url.PathEscape(title)
	raw, err := s.get(ctx, u)
	if err != nil {
		return "", err
	}

	var parsed summaryResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("wikipedia: decode summary: %w", err)
	}
	if parsed.Extract == "" {
		return "", lookup.ErrNoResult
	}

	resolved := parsed.Title
	if resolved == "" {
		resolved = title
	}
	return resolved + ": " + firstSentences(parsed.Extract, maxSentences), nil
}

// search resolves a free-form term to the title of the top search hit.
func (s *Source) search(ctx context.Context, term string) (string, error) {
	q := url.Values{}
	q.Set("action", "query")
	q.Set("list", "search")
	q.Set("srsearch", term)
	q.Set("format", "json")
	q.Set("srlimit", "1")

	raw, err := s.get(ctx, s.baseURL+"/w/api.php?"+q.Encode())
	if err != nil {
		return "", err
	}

	var parsed searchResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("wikipedia: decode search: %w", err)
	}
	if len(parsed.Query.Search) == 0 {
		return "", lookup.ErrNoResult
	}
	return parsed.Query.Search[0].Title, nil
}

// get performs one GET and returns the body for 200 responses. Non-200 maps to
// ErrNoResult for 404 (missing page) and a transport-style error otherwise.
func (s *Source) get(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("wikipedia: create request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("wikipedia: request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound:
		io.Copy(io.Discard, resp.Body)
		return nil, lookup.ErrNoResult
	default:
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("wikipedia: unexpected status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("wikipedia: read response: %w", err)
	}
	return raw, nil
}

// firstSentences truncates text to at most n period-separated sentences,
// keeping the terminal period.
func firstSentences(text string, n int) string {
	parts := strings.SplitN(text, ". ", n+1)
	if len(parts) <= n {
		return strings.TrimSpace(text)
	}
	return strings.Join(parts[:n], ". ") + "."
}
