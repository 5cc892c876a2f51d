package vectorstore

import "errors"

var (
	// ErrInvalidConfig indicates invalid store configuration.
	ErrInvalidConfig = errors.New("invalid vectorstore configuration")

	// ErrEmptyChunks indicates an add call with no chunks.
	ErrEmptyChunks = errors.New("no chunks to add")

	// ErrMissingWorkspace indicates a chunk or query without a workspace ID.
	ErrMissingWorkspace = errors.New("workspace ID is required")

	// ErrEmbeddingFailed indicates embedding generation failure during add.
	ErrEmbeddingFailed = errors.New("embedding generation failed")
)
