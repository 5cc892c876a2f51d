package embeddings

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput indicates empty or nil input texts.
	ErrEmptyInput = errors.New("empty or nil input texts")

	// ErrInvalidConfig indicates invalid configuration.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrEmbeddingFailed indicates embedding generation failure.
	ErrEmbeddingFailed = errors.New("embedding generation failed")
)

// Embedder generates vector embeddings for queries and documents.
type Embedder interface {
	// EmbedQuery generates an embedding for a single query.
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
	// EmbedDocuments generates embeddings for multiple texts, one per input.
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
	// Dimension returns the embedding dimension for the current model.
	Dimension() int
}

// ProviderConfig holds configuration for creating an embedder.
type ProviderConfig struct {
	// Provider is the provider type: "openai" or "hash"
	Provider string
	// Model is the embedding model name (only used for OpenAI)
	Model string
	// APIKey is the OpenAI API key (only used for OpenAI)
	APIKey string
}

// NewEmbedder creates an embedder based on the configuration.
func NewEmbedder(cfg ProviderConfig) (Embedder, error) {
	switch cfg.Provider {
	case "openai", "":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("%w: openai provider requires an API key", ErrInvalidConfig)
		}
		return NewOpenAIEmbedder(cfg.APIKey, cfg.Model), nil
	case "hash":
		return NewHashEmbedder(0), nil
	default:
		return nil, fmt.Errorf("%w: unknown provider %q", ErrInvalidConfig, cfg.Provider)
	}
}

// detectDimensionFromModel returns the embedding dimension for a model name.
// Falls back to 1536 if the model is unknown.
func detectDimensionFromModel(model string) int {
	switch model {
	case "text-embedding-3-large":
		return 3072
	case "text-embedding-3-small", "text-embedding-ada-002":
		return 1536
	default:
		return 1536
	}
}
