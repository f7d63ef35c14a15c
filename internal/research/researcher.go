// Package research gathers short web passages for transcript search terms.
//
// A Researcher fans one lookup out per term, each running the configured
// source chain (encyclopedia first, instant answers second) under its own
// timeout. Failures are absorbed into the per-term results: research can only
// ever degrade a rewrite, never fail it.
package research

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/fwehrmann/voxnote/internal/enhance"
	"github.com/fwehrmann/voxnote/internal/observe"
	"github.com/fwehrmann/voxnote/internal/resilience"
	"github.com/fwehrmann/voxnote/pkg/lookup"
)

const (
	// defaultLookupTimeout bounds one term's trip through the source chain.
	defaultLookupTimeout = 5 * time.Second

	// defaultConcurrency bounds parallel lookups per request, keeping a
	// transcript full of entities from bursting against public APIs.
	defaultConcurrency = 4
)

// Researcher resolves search terms through a chain of lookup sources. Safe
// for concurrent use.
type Researcher struct {
	chain       *resilience.Chain[lookup.Source]
	timeout     time.Duration
	concurrency int
	logger      *slog.Logger
	metrics     *observe.Metrics
}

// Ensure Researcher satisfies the pipeline's contract at compile time.
var _ enhance.Researcher = (*Researcher)(nil)

// Option is a functional option for Researcher.
type Option func(*Researcher)

// WithFallback appends a fallback source, tried when all earlier sources
// fail or miss for a term.
func WithFallback(src lookup.Source) Option {
	return func(r *Researcher) {
		r.chain.Add(src.Name(), src)
	}
}

// WithTimeout bounds each term's lookup. Default: 5s.
func WithTimeout(d time.Duration) Option {
	return func(r *Researcher) {
		r.timeout = d
	}
}

// WithConcurrency caps parallel lookups per Research call. Default: 4.
func WithConcurrency(n int) Option {
	return func(r *Researcher) {
		r.concurrency = n
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(r *Researcher) {
		r.logger = l
	}
}

// WithMetrics sets the metrics sink. Defaults to observe.DefaultMetrics().
func WithMetrics(m *observe.Metrics) Option {
	return func(r *Researcher) {
		r.metrics = m
	}
}

// New constructs a Researcher with primary as the first source in the chain.
// A miss (lookup.ErrNoResult) moves to the next source without counting
// against the source's circuit breaker; transport errors count.
func New(primary lookup.Source, opts ...Option) *Researcher {
	r := &Researcher{
		chain: resilience.NewChain(primary, primary.Name(), resilience.ChainConfig{
			CircuitBreaker: resilience.CircuitBreakerConfig{
				TripOn: func(err error) bool {
					return !errors.Is(err, lookup.ErrNoResult) &&
						!errors.Is(err, context.Canceled)
				},
			},
		}),
		timeout:     defaultLookupTimeout,
		concurrency: defaultConcurrency,
	}
	for _, o := range opts {
		o(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	if r.metrics == nil {
		r.metrics = observe.DefaultMetrics()
	}
	return r
}

// Research implements enhance.Researcher. One TermResult is returned per
// term, in input order; failed terms carry their error instead of a passage.
func (r *Researcher) Research(ctx context.Context, terms []string) []enhance.TermResult {
	results := make([]enhance.TermResult, len(terms))

	var g errgroup.Group
	g.SetLimit(r.concurrency)
	for i, term := range terms {
		g.Go(func() error {
			passage, source, err := r.lookupTerm(ctx, term)
			results[i] = enhance.TermResult{Term: term, Passage: passage, Err: err}
			if err == nil {
				r.logger.Debug("research hit", "term", term, "source", source)
			}
			return nil
		})
	}
	g.Wait()

	return results
}

// lookupTerm runs one term through the source chain under the per-lookup
// timeout, returning the passage and the name of the source that served it.
func (r *Researcher) lookupTerm(ctx context.Context, term string) (string, string, error) {
	lctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	observeAttempt := func(source string, err error) {
		switch {
		case err == nil:
			r.metrics.RecordLookup(ctx, source, "hit")
		case errors.Is(err, lookup.ErrNoResult):
			r.metrics.RecordLookup(ctx, source, "miss")
		case errors.Is(err, resilience.ErrCircuitOpen):
			// Skipped, not attempted.
		default:
			r.metrics.RecordLookup(ctx, source, "error")
		}
	}

	return resilience.Run(r.chain, observeAttempt,
		func(_ string, src lookup.Source) (string, error) {
			return src.Lookup(lctx, term)
		})
}
