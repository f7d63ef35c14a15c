package notes

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"
	pgxvec "github.com/pgvector/pgvector-go/pgx"

	"github.com/fwehrmann/voxnote/pkg/provider/embeddings"
)

var _ Store = (*PostgresStore)(nil)

// defaultListLimit applies when ListOpts.Limit is 0.
const defaultListLimit = 50

// PostgresStore persists notes in PostgreSQL. When constructed with an
// embedding provider, Save embeds the enhanced text and Search runs a
// pgvector cosine-distance query; without one, Search falls back to
// PostgreSQL full-text search over the enhanced text.
//
// All methods are safe for concurrent use.
type PostgresStore struct {
	pool     *pgxpool.Pool
	embedder embeddings.Provider
}

// NewPostgresStore connects to the database at dsn, registers pgvector types
// on every connection, and runs the idempotent schema migration.
//
// embedder may be nil; semantic search is then unavailable and Search uses
// full-text search instead. The vector column dimension is taken from the
// embedder at first migration and cannot be changed without a manual schema
// update.
func NewPostgresStore(ctx context.Context, dsn string, embedder embeddings.Provider) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("notes: parse dsn: %w", err)
	}

	cfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return pgxvec.RegisterTypes(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("notes: create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("notes: ping: %w", err)
	}

	dims := 0
	if embedder != nil {
		dims = embedder.Dimensions()
	}
	if err := Migrate(ctx, pool, dims); err != nil {
		pool.Close()
		return nil, fmt.Errorf("notes: migrate: %w", err)
	}

	return &PostgresStore{pool: pool, embedder: embedder}, nil
}

// Close releases all connections held by the underlying pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// Ping verifies database connectivity, for readiness probes.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// ddlNotes returns the notes DDL. A zero embeddingDimensions skips the vector
// column and its index, keeping the schema usable without pgvector.
func ddlNotes(embeddingDimensions int) []string {
	stmts := []string{`
CREATE TABLE IF NOT EXISTS notes (
    id                UUID         PRIMARY KEY,
    transcript        TEXT         NOT NULL,
    enhanced          TEXT         NOT NULL,
    tone              TEXT         NOT NULL DEFAULT '',
    intent            TEXT         NOT NULL DEFAULT '',
    audio_duration_ns BIGINT       NOT NULL DEFAULT 0,
    created_at        TIMESTAMPTZ  NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_notes_created_at
    ON notes (created_at DESC);

CREATE INDEX IF NOT EXISTS idx_notes_fts
    ON notes USING GIN (to_tsvector('english', enhanced));
`}

	if embeddingDimensions > 0 {
		stmts = append(stmts, fmt.Sprintf(`
CREATE EXTENSION IF NOT EXISTS vector;

ALTER TABLE notes ADD COLUMN IF NOT EXISTS embedding vector(%d);

CREATE INDEX IF NOT EXISTS idx_notes_embedding
    ON notes USING hnsw (embedding vector_cosine_ops);
`, embeddingDimensions))
	}
	return stmts
}

// Migrate creates or ensures the notes table and its indexes exist. It is
// idempotent and safe to call on every application start.
func Migrate(ctx context.Context, pool *pgxpool.Pool, embeddingDimensions int) error {
	for _, stmt := range ddlNotes(embeddingDimensions) {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("notes migrate: %w", err)
		}
	}
	return nil
}

// Save implements [Store]. A zero note.ID is replaced with a fresh UUID.
// Embedding failures are not fatal: the note is stored without a vector and
// remains reachable through full-text search.
func (s *PostgresStore) Save(ctx context.Context, note Note) (*Note, error) {
	if note.ID == uuid.Nil {
		note.ID = uuid.New()
	}
	note.CreatedAt = time.Now().UTC()

	args := []any{
		note.ID,
		note.Transcript,
		note.Enhanced,
		note.Tone,
		note.Intent,
		note.AudioDuration.Nanoseconds(),
		note.CreatedAt,
	}
	if s.embedder != nil {
		var embedding *pgvector.Vector
		if vec, err := s.embedder.Embed(ctx, note.Enhanced); err == nil {
			v := pgvector.NewVector(vec)
			embedding = &v
		}
		args = append(args, embedding)
	}

	_, err := s.pool.Exec(ctx, insertNoteSQL(s.embedder != nil), args...)
	if err != nil {
		return nil, fmt.Errorf("notes: save: %w", err)
	}
	return &note, nil
}

// insertNoteSQL returns the INSERT for Save. The embedding column only
// exists when the schema was migrated with an embedder, so the FTS-only
// variant must not name it.
func insertNoteSQL(withEmbedding bool) string {
	if withEmbedding {
		return `
			INSERT INTO notes
			    (id, transcript, enhanced, tone, intent, audio_duration_ns, created_at, embedding)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	}
	return `
		INSERT INTO notes
		    (id, transcript, enhanced, tone, intent, audio_duration_ns, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
}

// Get implements [Store].
func (s *PostgresStore) Get(ctx context.Context, id uuid.UUID) (*Note, error) {
	const q = `
		SELECT id, transcript, enhanced, tone, intent, audio_duration_ns, created_at
		FROM   notes
		WHERE  id = $1`

	note, err := scanNote(s.pool.QueryRow(ctx, q, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("notes: get: %w", err)
	}
	return note, nil
}

// Delete implements [Store]. Deleting a non-existent note is not an error.
func (s *PostgresStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM notes WHERE id = $1`, id); err != nil {
		return fmt.Errorf("notes: delete: %w", err)
	}
	return nil
}

// List implements [Store]. Notes are returned newest first.
func (s *PostgresStore) List(ctx context.Context, opts ListOpts) ([]Note, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	const q = `
		SELECT id, transcript, enhanced, tone, intent, audio_duration_ns, created_at
		FROM   notes
		ORDER  BY created_at DESC
		LIMIT  $1 OFFSET $2`

	rows, err := s.pool.Query(ctx, q, limit, opts.Offset)
	if err != nil {
		return nil, fmt.Errorf("notes: list: %w", err)
	}
	return collectNotes(rows)
}

// Search implements [Store]. With an embedder configured it runs a pgvector
// cosine-distance query against the stored embeddings; otherwise it falls
// back to full-text search ranked by ts_rank.
func (s *PostgresStore) Search(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if s.embedder != nil {
		return s.searchSemantic(ctx, query, limit)
	}
	return s.searchFTS(ctx, query, limit)
}

func (s *PostgresStore) searchSemantic(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	vec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("notes: embed query: %w", err)
	}

	const q = `
		SELECT id, transcript, enhanced, tone, intent, audio_duration_ns, created_at,
		       embedding <=> $1 AS distance
		FROM   notes
		WHERE  embedding IS NOT NULL
		ORDER  BY distance
		LIMIT  $2`

	rows, err := s.pool.Query(ctx, q, pgvector.NewVector(vec), limit)
	if err != nil {
		return nil, fmt.Errorf("notes: semantic search: %w", err)
	}
	return collectResults(rows)
}

func (s *PostgresStore) searchFTS(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	// ts_rank grows with relevance; invert it so Distance keeps its
	// lower-is-better meaning across both search paths.
	const q = `
		SELECT id, transcript, enhanced, tone, intent, audio_duration_ns, created_at,
		       1.0 / (1.0 + ts_rank(to_tsvector('english', enhanced),
		                            plainto_tsquery('english', $1))) AS distance
		FROM   notes
		WHERE  to_tsvector('english', enhanced) @@ plainto_tsquery('english', $1)
		ORDER  BY distance
		LIMIT  $2`

	rows, err := s.pool.Query(ctx, q, query, limit)
	if err != nil {
		return nil, fmt.Errorf("notes: full-text search: %w", err)
	}
	return collectResults(rows)
}

func scanNote(row pgx.Row) (*Note, error) {
	var (
		n          Note
		durationNS int64
	)
	if err := row.Scan(
		&n.ID,
		&n.Transcript,
		&n.Enhanced,
		&n.Tone,
		&n.Intent,
		&durationNS,
		&n.CreatedAt,
	); err != nil {
		return nil, err
	}
	n.AudioDuration = time.Duration(durationNS)
	return &n, nil
}

func collectNotes(rows pgx.Rows) ([]Note, error) {
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Note, error) {
		n, err := scanNote(row)
		if err != nil {
			return Note{}, err
		}
		return *n, nil
	})
	if err != nil {
		return nil, fmt.Errorf("notes: scan rows: %w", err)
	}
	if out == nil {
		out = []Note{}
	}
	return out, nil
}

func collectResults(rows pgx.Rows) ([]SearchResult, error) {
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (SearchResult, error) {
		var (
			r          SearchResult
			durationNS int64
		)
		if err := row.Scan(
			&r.Note.ID,
			&r.Note.Transcript,
			&r.Note.Enhanced,
			&r.Note.Tone,
			&r.Note.Intent,
			&durationNS,
			&r.Note.CreatedAt,
			&r.Distance,
		); err != nil {
			return SearchResult{}, err
		}
		r.Note.AudioDuration = time.Duration(durationNS)
		return r, nil
	})
	if err != nil {
		return nil, fmt.Errorf("notes: scan rows: %w", err)
	}
	if out == nil {
		out = []SearchResult{}
	}
	return out, nil
}
