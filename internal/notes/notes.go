// Package notes defines persistent storage for enhanced voice notes.
//
// A [Note] pairs the raw transcript with its rewritten text and the metadata
// of the enhancement run. [Store] is the storage abstraction; the PostgreSQL
// implementation in this package supports semantic search over note content
// via pgvector when an embedding provider is configured, falling back to
// full-text search otherwise. An in-memory implementation is provided for
// tests and for running without a database.
//
// Every implementation must be safe for concurrent use.
package notes

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when the requested note does not exist.
var ErrNotFound = errors.New("notes: not found")

// Note is one stored voice note after enhancement.
type Note struct {
	// ID is the unique identifier. Zero on input means the store assigns one.
	ID uuid.UUID `json:"id"`

	// Transcript is the raw speech-to-text output, verbatim.
	Transcript string `json:"transcript"`

	// Enhanced is the rewritten text.
	Enhanced string `json:"enhanced"`

	// Tone is the tone the note was rewritten in.
	Tone string `json:"tone"`

	// Intent is the detected intent label.
	Intent string `json:"intent"`

	// AudioDuration is the length of the source recording. Zero for notes
	// created from text input.
	AudioDuration time.Duration `json:"audioDuration"`

	// CreatedAt is when the note was stored. Assigned by the store.
	CreatedAt time.Time `json:"createdAt"`
}

// SearchResult pairs a retrieved note with its relevance to the query. Lower
// Distance means more relevant; the scale depends on the retrieval path
// (cosine distance for semantic search, inverted rank for full-text).
type SearchResult struct {
	Note     Note    `json:"note"`
	Distance float64 `json:"distance"`
}

// ListOpts configures a List call. The zero value lists the most recent
// notes with the store's default limit.
type ListOpts struct {
	// Limit caps the number of results. 0 means the store default.
	Limit int

	// Offset skips that many notes, newest first.
	Offset int
}

// Store persists enhanced notes.
type Store interface {
	// Save stores a note and returns it with ID and CreatedAt populated.
	Save(ctx context.Context, note Note) (*Note, error)

	// Get retrieves a note by ID. Returns ErrNotFound when it does not exist.
	Get(ctx context.Context, id uuid.UUID) (*Note, error)

	// Delete removes a note. Deleting a non-existent note is not an error.
	Delete(ctx context.Context, id uuid.UUID) error

	// List returns stored notes, newest first.
	List(ctx context.Context, opts ListOpts) ([]Note, error)

	// Search finds the notes most relevant to query, best match first.
	// Returns an empty (non-nil) slice when nothing matches.
	Search(ctx context.Context, query string, limit int) ([]SearchResult, error)
}
