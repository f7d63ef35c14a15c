package notes

import (
	"context"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fwehrmann/voxnote/pkg/provider/embeddings"
)

var _ Store = (*MemoryStore)(nil)

// MemoryStore is an in-memory [Store] for tests and for running without a
// database. Notes do not survive a restart.
//
// With an embedding provider configured, Search ranks by cosine distance over
// embedded note text; without one it falls back to substring matching.
//
// Safe for concurrent use.
type MemoryStore struct {
	mu       sync.RWMutex
	notes    map[uuid.UUID]memoryEntry
	seq      int
	embedder embeddings.Provider
}

type memoryEntry struct {
	note      Note
	embedding []float32
	seq       int
}

// MemoryOption configures a MemoryStore.
type MemoryOption func(*MemoryStore)

// WithEmbedder enables semantic search over stored notes.
func WithEmbedder(e embeddings.Provider) MemoryOption {
	return func(s *MemoryStore) {
		s.embedder = e
	}
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{notes: make(map[uuid.UUID]memoryEntry)}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Save implements [Store].
func (s *MemoryStore) Save(ctx context.Context, note Note) (*Note, error) {
	if note.ID == uuid.Nil {
		note.ID = uuid.New()
	}
	note.CreatedAt = time.Now().UTC()

	var embedding []float32
	if s.embedder != nil {
		if vec, err := s.embedder.Embed(ctx, note.Enhanced); err == nil {
			embedding = vec
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.notes[note.ID] = memoryEntry{note: note, embedding: embedding, seq: s.seq}
	return &note, nil
}

// Get implements [Store].
func (s *MemoryStore) Get(_ context.Context, id uuid.UUID) (*Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.notes[id]
	if !ok {
		return nil, ErrNotFound
	}
	note := entry.note
	return &note, nil
}

// Delete implements [Store].
func (s *MemoryStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.notes, id)
	return nil
}

// List implements [Store]. Notes are returned newest first.
func (s *MemoryStore) List(_ context.Context, opts ListOpts) ([]Note, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	s.mu.RLock()
	entries := make([]memoryEntry, 0, len(s.notes))
	for _, e := range s.notes {
		entries = append(entries, e)
	}
	s.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].seq > entries[j].seq
	})

	out := []Note{}
	for i, e := range entries {
		if i < opts.Offset {
			continue
		}
		if len(out) >= limit {
			break
		}
		out = append(out, e.note)
	}
	return out, nil
}

// Search implements [Store].
func (s *MemoryStore) Search(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if s.embedder != nil {
		return s.searchSemantic(ctx, query, limit)
	}
	return s.searchSubstring(query, limit), nil
}

func (s *MemoryStore) searchSemantic(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	queryVec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	results := []SearchResult{}
	for _, e := range s.notes {
		if e.embedding == nil {
			continue
		}
		results = append(results, SearchResult{
			Note:     e.note,
			Distance: cosineDistance(queryVec, e.embedding),
		})
	}
	s.mu.RUnlock()

	sort.Slice(results, func(i, j int) bool {
		return results[i].Distance < results[j].Distance
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func (s *MemoryStore) searchSubstring(query string, limit int) []SearchResult {
	lower := strings.ToLower(query)

	s.mu.RLock()
	results := []SearchResult{}
	for _, e := range s.notes {
		hits := strings.Count(strings.ToLower(e.note.Enhanced), lower) +
			strings.Count(strings.ToLower(e.note.Transcript), lower)
		if hits == 0 {
			continue
		}
		results = append(results, SearchResult{
			Note:     e.note,
			Distance: 1.0 / (1.0 + float64(hits)),
		})
	}
	s.mu.RUnlock()

	sort.Slice(results, func(i, j int) bool {
		return results[i].Distance < results[j].Distance
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

// cosineDistance is 1 minus the cosine similarity of a and b. Mismatched or
// zero-length vectors are maximally distant.
func cosineDistance(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 1
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 1
	}
	return 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
}
