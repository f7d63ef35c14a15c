// Package mock provides a test double for the lookup.Source interface.
package mock

import (
	"context"
	"sync"

	"github.com/fwehrmann/voxnote/pkg/lookup"
)

// Source is a mock implementation of lookup.Source.
//
// Passages maps terms to canned results. Terms not in the map return
// lookup.ErrNoResult unless Err is set, which takes precedence for all terms.
type Source struct {
	mu sync.Mutex

	// SourceName is returned by Name. Defaults to "mock".
	SourceName string

	// Passages maps term -> passage for successful lookups.
	Passages map[string]string

	// Err, if non-nil, is returned for every Lookup call.
	Err error

	// LookupFunc, if non-nil, is called instead of the map. The call is still
	// recorded.
	LookupFunc func(ctx context.Context, term string) (string, error)

	// LookupCalls records every term passed to Lookup in order.
	LookupCalls []string
}

// Lookup records the call and resolves the term via LookupFunc, Err, or
// Passages, in that order of precedence.
func (s *Source) Lookup(ctx context.Context, term string) (string, error) {
	s.mu.Lock()
	s.LookupCalls = append(s.LookupCalls, term)
	fn := s.LookupFunc
	err := s.Err
	passage, ok := s.Passages[term]
	s.mu.Unlock()

	if fn != nil {
		return fn(ctx, term)
	}
	if err != nil {
		return "", err
	}
	if !ok {
		return "", lookup.ErrNoResult
	}
	return passage, nil
}

// Name returns SourceName (default "mock").
func (s *Source) Name() string {
	if s.SourceName == "" {
		return "mock"
	}
	return s.SourceName
}

// Reset clears all recorded calls. Thread-safe.
func (s *Source) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.LookupCalls = nil
}

// Ensure Source implements lookup.Source at compile time.
var _ lookup.Source = (*Source)(nil)
