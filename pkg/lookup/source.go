// Package lookup defines the Source interface for short-passage web lookups.
//
// A lookup source resolves a single search term (an organisation, program, or
// competition name pulled out of a transcript) to a short factual passage that
// the enhancement pipeline can feed into its prompt. Sources are best-effort:
// the pipeline absorbs failures and composes without context rather than
// failing the request.
package lookup

import (
	"context"
	"errors"
)

// ErrNoResult indicates the source answered but had nothing useful for the
// term. It is distinct from transport or decoding errors: the source worked,
// the term just is not covered.
var ErrNoResult = errors.New("lookup: no result")

// Source resolves a term to a short factual passage.
//
// Implementations must be safe for concurrent use and must honor ctx
// cancellation. A successful lookup returns a non-empty passage; an empty or
// missing answer returns ErrNoResult.
type Source interface {
	// Lookup resolves term to a passage of at most a few sentences.
	Lookup(ctx context.Context, term string) (string, error)

	// Name identifies the source for logging and metrics (e.g., "wikipedia").
	Name() string
}
