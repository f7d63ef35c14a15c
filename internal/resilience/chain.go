package resilience

import (
	"errors"
	"fmt"
)

// ErrAllFailed is returned when every entry in a [Chain] fails or has an open
// circuit breaker.
var ErrAllFailed = errors.New("all sources failed")

// ChainConfig configures the per-entry circuit breaker created for each
// source in a [Chain].
type ChainConfig struct {
	CircuitBreaker CircuitBreakerConfig
}

// chainEntry pairs a source value with its dedicated circuit breaker.
type chainEntry[T any] struct {
	name    string
	value   T
	breaker *CircuitBreaker
}

// Chain wraps a primary and zero or more fallback instances of the same
// source type. When the primary fails (or its circuit breaker is open), the
// next healthy entry is tried in registration order.
//
// Chain is safe for concurrent use.
type Chain[T any] struct {
	entries []chainEntry[T]
	cfg     ChainConfig
}

// NewChain creates a [Chain] with primary as the first entry. Additional
// fallbacks are registered via [Chain.Add].
func NewChain[T any](primary T, primaryName string, cfg ChainConfig) *Chain[T] {
	c := &Chain[T]{cfg: cfg}
	c.Add(primaryName, primary)
	return c
}

// Add appends a fallback source. Fallbacks are tried in the order they are
// added, after the primary.
func (c *Chain[T]) Add(name string, fallback T) {
	cbCfg := c.cfg.CircuitBreaker
	cbCfg.Name = name
	c.entries = append(c.entries, chainEntry[T]{
		name:    name,
		value:   fallback,
		breaker: NewCircuitBreaker(cbCfg),
	})
}

// BreakerState reports the circuit state of the named entry, for health
// reporting. ok is false when no entry has that name.
func (c *Chain[T]) BreakerState(name string) (State, bool) {
	for i := range c.entries {
		if c.entries[i].name == name {
			return c.entries[i].breaker.State(), true
		}
	}
	return StateClosed, false
}

// Run tries fn against each entry in the chain until one succeeds, returning
// the result and the name of the entry that served it. Circuit-breaker-open
// entries are skipped; per-attempt errors are reported through observe when
// set. Returns [ErrAllFailed] wrapped with the last error if every entry
// fails. This is a package-level function because Go does not support
// method-level type parameters.
func Run[T any, R any](c *Chain[T], observe func(name string, err error), fn func(name string, v T) (R, error)) (R, string, error) {
	var (
		lastErr error
		zero    R
	)
	for i := range c.entries {
		entry := &c.entries[i]
		var result R
		err := entry.breaker.Execute(func() error {
			var innerErr error
			result, innerErr = fn(entry.name, entry.value)
			return innerErr
		})
		if observe != nil {
			observe(entry.name, err)
		}
		if err == nil {
			return result, entry.name, nil
		}
		lastErr = err
	}
	return zero, "", fmt.Errorf("%w: %w", ErrAllFailed, lastErr)
}
