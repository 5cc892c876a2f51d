package vectorstore

import "context"

// Chunk is one embeddable slice of an uploaded document.
type Chunk struct {
	// ID uniquely identifies the chunk across the store.
	ID string
	// WorkspaceID scopes the chunk to a workspace. Required.
	WorkspaceID string
	// DocumentID identifies the source document. Required.
	DocumentID string
	// Ordinal is the chunk's position within the document, starting at 0.
	Ordinal int
	// Content is the chunk text that gets embedded.
	Content string
}

// SearchResult is a scored chunk returned from similarity search.
type SearchResult struct {
	ID         string  `json:"id"`
	DocumentID string  `json:"document_id"`
	Ordinal    int     `json:"ordinal"`
	Content    string  `json:"content"`
	Score      float32 `json:"score"`
}

// Store is the interface for workspace-scoped chunk storage and retrieval.
type Store interface {
	// AddChunks embeds and stores chunks. All chunks must carry the same
	// workspace ID.
	AddChunks(ctx context.Context, chunks []Chunk) error

	// Search returns up to k chunks from the workspace ranked by similarity
	// to the query. An empty workspace returns no results.
	Search(ctx context.Context, workspaceID, query string, k int) ([]SearchResult, error)

	// DeleteDocument removes all chunks belonging to a document.
	DeleteDocument(ctx context.Context, workspaceID, documentID string) error

	// DeleteWorkspace removes all chunks belonging to a workspace.
	DeleteWorkspace(ctx context.Context, workspaceID string) error
}
