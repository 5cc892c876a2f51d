package vectorstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	chromem "github.com/philippgille/chromem-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/boardroomlabs/boardroomd/internal/embeddings"
)

var chromemTracer = otel.Tracer("boardroomd.vectorstore.chromem")

const (
	metaWorkspaceID = "workspace_id"
	metaDocumentID  = "document_id"
	metaOrdinal     = "ordinal"
)

// ChromemConfig holds configuration for the chromem-go backed store.
type ChromemConfig struct {
	// Path is the directory for persistent storage.
	// Default: "~/.local/share/boardroomd/vectorstore"
	Path string

	// Compress enables gzip compression for stored data.
	Compress bool

	// Collection is the collection name holding all chunks.
	// Default: "boardroom_chunks"
	Collection string
}

// ApplyDefaults sets default values for unset fields.
func (c *ChromemConfig) ApplyDefaults() {
	if c.Path == "" {
		c.Path = "~/.local/share/boardroomd/vectorstore"
	}
	if c.Collection == "" {
		c.Collection = "boardroom_chunks"
	}
}

// ChromemStore implements Store using chromem-go. A single collection holds
// every workspace's chunks; the workspace_id metadata field enforces
// isolation on every query and delete.
type ChromemStore struct {
	db         *chromem.DB
	collection *chromem.Collection
	embedder   embeddings.Embedder
	config     ChromemConfig
	logger     *zap.Logger
}

// NewChromemStore opens (or creates) the persistent store at the configured
// path.
func NewChromemStore(config ChromemConfig, embedder embeddings.Embedder, logger *zap.Logger) (*ChromemStore, error) {
	if embedder == nil {
		return nil, fmt.Errorf("%w: embedder is required", ErrInvalidConfig)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	config.ApplyDefaults()

	path, err := expandPath(config.Path)
	if err != nil {
		return nil, fmt.Errorf("expanding path: %w", err)
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("creating directory %s: %w", path, err)
	}

	db, err := chromem.NewPersistentDB(path, config.Compress)
	if err != nil {
		return nil, fmt.Errorf("creating chromem DB: %w", err)
	}

	embedFunc := func(ctx context.Context, text string) ([]float32, error) {
		return embedder.EmbedQuery(ctx, text)
	}
	collection, err := db.GetOrCreateCollection(config.Collection, nil, embedFunc)
	if err != nil {
		return nil, fmt.Errorf("creating collection %s: %w", config.Collection, err)
	}

	logger.Info("vector store initialized",
		zap.String("path", path),
		zap.Bool("compress", config.Compress),
		zap.String("collection", config.Collection),
	)

	return &ChromemStore{
		db:         db,
		collection: collection,
		embedder:   embedder,
		config:     config,
		logger:     logger,
	}, nil
}

func expandPath(path string) (string, error) {
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, path[1:]), nil
	}
	return path, nil
}

// AddChunks embeds and stores chunks in a single batch.
func (s *ChromemStore) AddChunks(ctx context.Context, chunks []Chunk) error {
	ctx, span := chromemTracer.Start(ctx, "ChromemStore.AddChunks")
	defer span.End()

	span.SetAttributes(attribute.Int("chunk_count", len(chunks)))

	if len(chunks) == 0 {
		return ErrEmptyChunks
	}

	workspaceID := chunks[0].WorkspaceID
	if workspaceID == "" {
		return ErrMissingWorkspace
	}
	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		if chunk.WorkspaceID != workspaceID {
			return fmt.Errorf("chunk %d targets workspace %q but batch targets %q", i, chunk.WorkspaceID, workspaceID)
		}
		if chunk.DocumentID == "" {
			return fmt.Errorf("chunk %d has no document ID", i)
		}
		texts[i] = chunk.Content
	}

	span.SetAttributes(attribute.String("workspace_id", workspaceID))

	vectors, err := s.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("%w: %v", ErrEmbeddingFailed, err)
	}

	docs := make([]chromem.Document, len(chunks))
	for i, chunk := range chunks {
		id := chunk.ID
		if id == "" {
			id = fmt.Sprintf("%s_%d", chunk.DocumentID, chunk.Ordinal)
		}
		docs[i] = chromem.Document{
			ID:      id,
			Content: chunk.Content,
			Metadata: map[string]string{
				metaWorkspaceID: chunk.WorkspaceID,
				metaDocumentID:  chunk.DocumentID,
				metaOrdinal:     strconv.Itoa(chunk.Ordinal),
			},
			Embedding: vectors[i],
		}
	}

	// Concurrency of 1 since embeddings were generated above.
	if err := s.collection.AddDocuments(ctx, docs, 1); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("adding chunks: %w", err)
	}

	span.SetStatus(codes.Ok, "success")
	s.logger.Debug("added chunks",
		zap.String("workspace_id", workspaceID),
		zap.Int("count", len(chunks)),
	)
	return nil
}

// Search returns up to k chunks from the workspace ranked by similarity.
func (s *ChromemStore) Search(ctx context.Context, workspaceID, query string, k int) ([]SearchResult, error) {
	ctx, span := chromemTracer.Start(ctx, "ChromemStore.Search")
	defer span.End()

	span.SetAttributes(
		attribute.String("workspace_id", workspaceID),
		attribute.Int("k", k),
	)

	if workspaceID == "" {
		return nil, ErrMissingWorkspace
	}
	if k <= 0 {
		return nil, fmt.Errorf("k must be positive, got %d", k)
	}
	if query == "" {
		return nil, fmt.Errorf("query cannot be empty")
	}

	// chromem requires nResults <= document count.
	count := s.collection.Count()
	if count == 0 {
		return []SearchResult{}, nil
	}
	if k > count {
		k = count
	}

	where := map[string]string{metaWorkspaceID: workspaceID}
	results, err := s.collection.Query(ctx, query, k, where, nil)
	if err != nil {
		// Treat the too-few-documents error as an empty result set.
		if strings.Contains(err.Error(), "nResults must be <= the number of documents") {
			return []SearchResult{}, nil
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("querying collection: %w", err)
	}

	out := make([]SearchResult, len(results))
	for i, r := range results {
		ordinal, _ := strconv.Atoi(r.Metadata[metaOrdinal])
		out[i] = SearchResult{
			ID:         r.ID,
			DocumentID: r.Metadata[metaDocumentID],
			Ordinal:    ordinal,
			Content:    r.Content,
			Score:      r.Similarity,
		}
	}

	span.SetAttributes(attribute.Int("results_count", len(out)))
	span.SetStatus(codes.Ok, "success")
	return out, nil
}

// DeleteDocument removes all chunks belonging to a document.
func (s *ChromemStore) DeleteDocument(ctx context.Context, workspaceID, documentID string) error {
	ctx, span := chromemTracer.Start(ctx, "ChromemStore.DeleteDocument")
	defer span.End()

	span.SetAttributes(
		attribute.String("workspace_id", workspaceID),
		attribute.String("document_id", documentID),
	)

	if workspaceID == "" {
		return ErrMissingWorkspace
	}
	if documentID == "" {
		return fmt.Errorf("document ID is required")
	}

	where := map[string]string{
		metaWorkspaceID: workspaceID,
		metaDocumentID:  documentID,
	}
	if err := s.collection.Delete(ctx, where, nil); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("deleting document chunks: %w", err)
	}

	span.SetStatus(codes.Ok, "success")
	s.logger.Debug("deleted document chunks",
		zap.String("workspace_id", workspaceID),
		zap.String("document_id", documentID),
	)
	return nil
}

// DeleteWorkspace removes all chunks belonging to a workspace.
func (s *ChromemStore) DeleteWorkspace(ctx context.Context, workspaceID string) error {
	ctx, span := chromemTracer.Start(ctx, "ChromemStore.DeleteWorkspace")
	defer span.End()

	span.SetAttributes(attribute.String("workspace_id", workspaceID))

	if workspaceID == "" {
		return ErrMissingWorkspace
	}

	where := map[string]string{metaWorkspaceID: workspaceID}
	if err := s.collection.Delete(ctx, where, nil); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("deleting workspace chunks: %w", err)
	}

	span.SetStatus(codes.Ok, "success")
	return nil
}
