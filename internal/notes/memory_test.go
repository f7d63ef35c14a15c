package notes

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

// vecEmbedder maps known texts to fixed vectors so distance ordering is
// predictable in tests.
type vecEmbedder struct {
	vectors map[string][]float32
}

func (e *vecEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if v, ok := e.vectors[text]; ok {
		return v, nil
	}
	return []float32{0, 0}, nil
}

func (e *vecEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i], _ = e.Embed(ctx, t)
	}
	return out, nil
}

func (e *vecEmbedder) Dimensions() int { return 2 }
func (e *vecEmbedder) ModelID() string { return "vec-test" }

func TestMemoryStoreSaveAssignsIDAndTimestamp(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	saved, err := store.Save(context.Background(), Note{Transcript: "raw", Enhanced: "clean"})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if saved.ID == uuid.Nil {
		t.Error("ID not assigned")
	}
	if saved.CreatedAt.IsZero() {
		t.Error("CreatedAt not assigned")
	}

	got, err := store.Get(context.Background(), saved.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Enhanced != "clean" || got.Transcript != "raw" {
		t.Errorf("Get = %+v", got)
	}
}

func TestMemoryStoreGetNotFound(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	if _, err := store.Get(context.Background(), uuid.New()); err != ErrNotFound {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestMemoryStoreDeleteIdempotent(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	ctx := context.Background()

	saved, err := store.Save(ctx, Note{Enhanced: "gone soon"})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Delete(ctx, saved.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Get(ctx, saved.ID); err != ErrNotFound {
		t.Errorf("Get after delete: err = %v, want ErrNotFound", err)
	}
	// Deleting again must not error.
	if err := store.Delete(ctx, saved.ID); err != nil {
		t.Errorf("second Delete: %v", err)
	}
}

func TestMemoryStoreListNewestFirst(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	ctx := context.Background()
	for _, text := range []string{"first", "second", "third"} {
		if _, err := store.Save(ctx, Note{Enhanced: text}); err != nil {
			t.Fatalf("Save %q: %v", text, err)
		}
	}

	got, err := store.List(ctx, ListOpts{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	if got[0].Enhanced != "third" || got[2].Enhanced != "first" {
		t.Errorf("order = [%s %s %s], want newest first", got[0].Enhanced, got[1].Enhanced, got[2].Enhanced)
	}

	page, err := store.List(ctx, ListOpts{Limit: 1, Offset: 1})
	if err != nil {
		t.Fatalf("List page: %v", err)
	}
	if len(page) != 1 || page[0].Enhanced != "second" {
		t.Errorf("page = %+v, want just the middle note", page)
	}
}

func TestMemoryStoreSubstringSearch(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	ctx := context.Background()
	if _, err := store.Save(ctx, Note{Enhanced: "Grocery run: milk, eggs, milk again"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := store.Save(ctx, Note{Enhanced: "Buy milk on the way home"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := store.Save(ctx, Note{Enhanced: "Schedule dentist appointment"}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.Search(ctx, "milk", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	// The double mention ranks first.
	if got[0].Note.Enhanced != "Grocery run: milk, eggs, milk again" {
		t.Errorf("got[0] = %q, want the note with more hits first", got[0].Note.Enhanced)
	}

	none, err := store.Search(ctx, "unicorn", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if none == nil || len(none) != 0 {
		t.Errorf("no-match search = %v, want empty non-nil slice", none)
	}
}

func TestMemoryStoreSemanticSearch(t *testing.T) {
	t.Parallel()

	embedder := &vecEmbedder{vectors: map[string][]float32{
		"groceries and cooking":   {1, 0},
		"quarterly tax filing":    {0, 1},
		"meal planning for week":  {0.9, 0.1},
		"what should I eat today": {1, 0},
	}}
	store := NewMemoryStore(WithEmbedder(embedder))
	ctx := context.Background()

	for _, text := range []string{"groceries and cooking", "quarterly tax filing", "meal planning for week"} {
		if _, err := store.Save(ctx, Note{Enhanced: text}); err != nil {
			t.Fatalf("Save %q: %v", text, err)
		}
	}

	got, err := store.Search(ctx, "what should I eat today", 2)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want limit respected", len(got))
	}
	if got[0].Note.Enhanced != "groceries and cooking" {
		t.Errorf("got[0] = %q, want the exact-direction match first", got[0].Note.Enhanced)
	}
	if got[1].Note.Enhanced != "meal planning for week" {
		t.Errorf("got[1] = %q, want the near match second", got[1].Note.Enhanced)
	}
	if got[0].Distance >= got[1].Distance {
		t.Errorf("distances not ascending: %v >= %v", got[0].Distance, got[1].Distance)
	}
}

func TestCosineDistance(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 2}, []float32{1, 2}, 0},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 1},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, 2},
		{"mismatched lengths", []float32{1}, []float32{1, 0}, 1},
		{"zero vector", []float32{0, 0}, []float32{1, 0}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := cosineDistance(tt.a, tt.b)
			if diff := got - tt.want; diff > 1e-6 || diff < -1e-6 {
				t.Errorf("cosineDistance = %v, want %v", got, tt.want)
			}
		})
	}
}
