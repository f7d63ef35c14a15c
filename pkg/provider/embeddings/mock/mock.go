// Package mock provides a test double for the embeddings.Provider interface.
package mock

import (
	"context"
	"sync"

	"github.com/fwehrmann/voxnote/pkg/provider/embeddings"
)

// Provider is a mock implementation of embeddings.Provider.
//
// Unless overridden via EmbedResponse, Embed returns a deterministic vector of
// Dims length derived from the input text so distinct texts produce distinct
// vectors in tests.
type Provider struct {
	mu sync.Mutex

	// Dims is the dimensionality reported by Dimensions. Defaults to 4 when
	// zero, keeping test fixtures small.
	Dims int

	// Model is returned by ModelID. Defaults to "mock-embedder".
	Model string

	// EmbedResponse, if non-nil, is returned by Embed for every call.
	EmbedResponse []float32

	// EmbedErr, if non-nil, is returned as the error from Embed and EmbedBatch.
	EmbedErr error

	// EmbedCalls records every text passed to Embed in order.
	EmbedCalls []string

	// EmbedBatchCalls records every slice passed to EmbedBatch in order.
	EmbedBatchCalls [][]string
}

// Embed records the call and returns EmbedResponse or a derived vector.
func (p *Provider) Embed(ctx context.Context, text string) ([]float32, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.EmbedCalls = append(p.EmbedCalls, text)
	if p.EmbedErr != nil {
		return nil, p.EmbedErr
	}
	if p.EmbedResponse != nil {
		return p.EmbedResponse, nil
	}
	return p.derive(text), nil
}

// EmbedBatch records the call and embeds each text via the same rules as Embed.
func (p *Provider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	recorded := make([]string, len(texts))
	copy(recorded, texts)
	p.EmbedBatchCalls = append(p.EmbedBatchCalls, recorded)
	if p.EmbedErr != nil {
		return nil, p.EmbedErr
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		if p.EmbedResponse != nil {
			out[i] = p.EmbedResponse
		} else {
			out[i] = p.derive(t)
		}
	}
	return out, nil
}

// Dimensions returns Dims (default 4).
func (p *Provider) Dimensions() int {
	if p.Dims == 0 {
		return 4
	}
	return p.Dims
}

// ModelID returns Model (default "mock-embedder").
func (p *Provider) ModelID() string {
	if p.Model == "" {
		return "mock-embedder"
	}
	return p.Model
}

// derive builds a stable pseudo-vector from the text bytes.
func (p *Provider) derive(text string) []float32 {
	dims := p.Dims
	if dims == 0 {
		dims = 4
	}
	vec := make([]float32, dims)
	for i, b := range []byte(text) {
		vec[i%dims] += float32(b) / 255
	}
	return vec
}

// Reset clears all recorded calls. Thread-safe.
func (p *Provider) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.EmbedCalls = nil
	p.EmbedBatchCalls = nil
}

// Ensure Provider implements embeddings.Provider at compile time.
var _ embeddings.Provider = (*Provider)(nil)
