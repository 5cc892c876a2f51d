package embeddings

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"strings"
)

const defaultHashDimension = 256

// HashEmbedder produces deterministic embeddings from token hashes. It has no
// semantic understanding and exists so the retrieval path can run in tests
// and offline development without API access.
type HashEmbedder struct {
	dimension int
}

// NewHashEmbedder creates a hash embedder. A non-positive dimension falls
// back to 256.
func NewHashEmbedder(dimension int) *HashEmbedder {
	if dimension <= 0 {
		dimension = defaultHashDimension
	}
	return &HashEmbedder{dimension: dimension}
}

// EmbedQuery generates a deterministic embedding for a single text.
func (e *HashEmbedder) EmbedQuery(_ context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, fmt.Errorf("%w: text cannot be empty", ErrEmptyInput)
	}
	return e.embed(text), nil
}

// EmbedDocuments generates deterministic embeddings for multiple texts.
func (e *HashEmbedder) EmbedDocuments(_ context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("%w: texts cannot be empty", ErrEmptyInput)
	}
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vectors[i] = e.embed(text)
	}
	return vectors, nil
}

// Dimension returns the embedding dimension.
func (e *HashEmbedder) Dimension() int {
	return e.dimension
}

// embed buckets lowercased whitespace tokens by FNV hash and L2-normalizes
// the resulting counts, so texts sharing tokens have nonzero cosine
// similarity.
func (e *HashEmbedder) embed(text string) []float32 {
	vec := make([]float32, e.dimension)
	for _, token := range strings.Fields(strings.ToLower(text)) {
		h := fnv.New32a()
		h.Write([]byte(token))
		vec[int(h.Sum32())%e.dimension]++
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm == 0 {
		vec[0] = 1
		return vec
	}
	scale := float32(1 / math.Sqrt(norm))
	for i := range vec {
		vec[i] *= scale
	}
	return vec
}
