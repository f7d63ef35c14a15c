// Package duckduckgo provides a lookup.Source backed by the DuckDuckGo
// Instant Answer API.
//
// Instant answers are shallower than encyclopedia summaries, so this source
// serves as the fallback in the research chain and caps its passage at two
// sentences.
package duckduckgo

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
	defaultBaseURL = "https://api.duckduckgo.com"
	defaultTimeout = 10 * time.Second

	// maxSentences caps the passage length taken from an abstract.
	maxSentences = 2
)

// Source implements lookup.Source against the DuckDuckGo Instant Answer API.
type Source struct {
	baseURL string
	client  *http.Client
}

// Ensure Source implements lookup.Source at compile time.
var _ lookup.Source = (*Source)(nil)

// Option is a functional option for Source.
type Option func(*Source)

// WithBaseURL overrides the API base URL. Useful for tests.
func WithBaseURL(url string) Option {
	return func(s *Source) {
		s.baseURL = strings.TrimRight(url, "/")
	}
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Source) {
		s.client = c
	}
}

// New constructs a DuckDuckGo Source.
func New(opts ...Option) *Source {
	s := &Source{
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: defaultTimeout},
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Name implements lookup.Source.
func (s *Source) Name() string { return "duckduckgo" }

// instantAnswer is the subset of the Instant Answer shape we consume.
// Responses without an abstract are treated as no data.
type instantAnswer struct {
	Abstract     string `json:"Abstract"`
	AbstractText string `json:"AbstractText"`
}

// Lookup implements lookup.Source.
func (s *Source) Lookup(ctx context.Context, term string) (string, error) {
	q := url.Values{}
	q.Set("q", term)
	q.Set("format", "json")
	q.Set("no_html", "1")
	q.Set("skip_disambig", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/?"+q.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("duckduckgo: create request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("duckduckgo: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("duckduckgo: unexpected status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("duckduckgo: read response: %w", err)
	}

	var parsed instantAnswer
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("duckduckgo: decode response: %w", err)
	}

	abstract := parsed.AbstractText
	if abstract == "" {
		abstract = parsed.Abstract
	}
	if abstract == "" {
		return "", lookup.ErrNoResult
	}

	return term + ": " + firstSentences(abstract, maxSentences), nil
}

// firstSentences truncates text to at most n period-separated sentences.
func firstSentences(text string, n int) string {
	parts := strings.SplitN(text, ". ", n+1)
	if len(parts) <= n {
		return strings.TrimSpace(text)
	}
	return strings.Join(parts[:n], ". ")
}
