package document

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/boardroomlabs/boardroomd/internal/chunking"
	"github.com/boardroomlabs/boardroomd/internal/logging"
	"github.com/boardroomlabs/boardroomd/internal/store"
	"github.com/boardroomlabs/boardroomd/internal/vectorstore"
)

var tracer = otel.Tracer("boardroomd.document")

// textContentTypes are the accepted upload content types, ignoring any
// parameters such as charset.
var textContentTypes = map[string]bool{
	"text/plain":       true,
	"text/markdown":    true,
	"text/csv":         true,
	"application/json": true,
}

// textExtensions map file extensions to content types for uploads that
// arrive without one.
var textExtensions = map[string]string{
	".txt":  "text/plain",
	".md":   "text/markdown",
	".csv":  "text/csv",
	".json": "application/json",
}

// Service ingests, searches, and deletes workspace documents.
type Service struct {
	store    *store.Store
	vectors  vectorstore.Store
	splitter *chunking.Splitter
	maxBytes int64
	logger   *logging.Logger
}

// Config holds ingestion limits.
type Config struct {
	// ChunkTokens is the target token size per chunk.
	ChunkTokens int
	// OverlapTokens is the token overlap carried between adjacent chunks.
	OverlapTokens int
	// MaxUploadBytes caps the accepted document size.
	MaxUploadBytes int64
}

// NewService creates the document service.
func NewService(cfg Config, st *store.Store, vectors vectorstore.Store, est chunking.Estimator, logger *logging.Logger) (*Service, error) {
	splitter, err := chunking.NewSplitter(est, cfg.ChunkTokens, cfg.OverlapTokens)
	if err != nil {
		return nil, fmt.Errorf("creating splitter: %w", err)
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Service{
		store:    st,
		vectors:  vectors,
		splitter: splitter,
		maxBytes: cfg.MaxUploadBytes,
		logger:   logger,
	}, nil
}

// Ingest validates, chunks, embeds, and stores an uploaded document.
func (s *Service) Ingest(ctx context.Context, workspaceID, name, contentType string, data []byte) (*store.Document, error) {
	ctx, span := tracer.Start(ctx, "document.Ingest")
	defer span.End()
	span.SetAttributes(
		attribute.String("workspace_id", workspaceID),
		attribute.String("name", name),
		attribute.Int("size_bytes", len(data)),
	)

	if s.maxBytes > 0 && int64(len(data)) > s.maxBytes {
		return nil, fmt.Errorf("%w: %d bytes (limit %d)", ErrTooLarge, len(data), s.maxBytes)
	}

	resolvedType, err := resolveContentType(name, contentType)
	if err != nil {
		return nil, err
	}
	if !utf8.Valid(data) || bytes.ContainsRune(data, 0) {
		return nil, fmt.Errorf("%w: content is not valid text", ErrUnsupportedType)
	}

	text := strings.TrimSpace(string(data))
	if text == "" {
		return nil, ErrEmptyDocument
	}

	chunks := s.splitter.Split(text)
	if len(chunks) == 0 {
		return nil, ErrEmptyDocument
	}

	doc, err := s.store.CreateDocument(ctx, workspaceID, name, resolvedType, int64(len(data)), len(chunks))
	if err != nil {
		return nil, fmt.Errorf("recording document: %w", err)
	}

	vsChunks := make([]vectorstore.Chunk, len(chunks))
	for i, content := range chunks {
		vsChunks[i] = vectorstore.Chunk{
			ID:          fmt.Sprintf("%s_%d", doc.ID, i),
			WorkspaceID: workspaceID,
			DocumentID:  doc.ID,
			Ordinal:     i,
			Content:     content,
		}
	}
	if err := s.vectors.AddChunks(ctx, vsChunks); err != nil {
		// Keep the store consistent: remove the record if indexing failed.
		if delErr := s.store.DeleteDocument(ctx, workspaceID, doc.ID); delErr != nil {
			s.logger.Warn(ctx, "failed to roll back document record",
				zap.String("document_id", doc.ID), zap.Error(delErr))
		}
		return nil, fmt.Errorf("indexing document: %w", err)
	}

	s.logger.Info(ctx, "document ingested",
		zap.String("document_id", doc.ID),
		zap.String("name", name),
		zap.Int("chunks", len(chunks)),
	)
	return doc, nil
}

// Search returns the workspace's most relevant chunks for the query.
func (s *Service) Search(ctx context.Context, workspaceID, query string, k int) ([]vectorstore.SearchResult, error) {
	ctx, span := tracer.Start(ctx, "document.Search")
	defer span.End()
	return s.vectors.Search(ctx, workspaceID, query, k)
}

// List returns the workspace's document records, newest first.
func (s *Service) List(ctx context.Context, workspaceID string) ([]store.Document, error) {
	return s.store.ListDocuments(ctx, workspaceID)
}

// Get returns one document record.
func (s *Service) Get(ctx context.Context, workspaceID, id string) (*store.Document, error) {
	return s.store.GetDocument(ctx, workspaceID, id)
}

// Delete removes a document's record and its indexed chunks.
func (s *Service) Delete(ctx context.Context, workspaceID, id string) error {
	ctx, span := tracer.Start(ctx, "document.Delete")
	defer span.End()

	if err := s.store.DeleteDocument(ctx, workspaceID, id); err != nil {
		return err
	}
	if err := s.vectors.DeleteDocument(ctx, workspaceID, id); err != nil {
		return fmt.Errorf("deleting document chunks: %w", err)
	}
	return nil
}

// DeleteWorkspaceChunks removes every indexed chunk for a workspace. Called
// when the workspace itself is deleted.
func (s *Service) DeleteWorkspaceChunks(ctx context.Context, workspaceID string) error {
	return s.vectors.DeleteWorkspace(ctx, workspaceID)
}

// resolveContentType normalizes the declared content type, falling back to
// the filename extension when none is given.
func resolveContentType(name, contentType string) (string, error) {
	base := contentType
	if i := strings.Index(base, ";"); i >= 0 {
		base = base[:i]
	}
	base = strings.TrimSpace(strings.ToLower(base))

	if base == "" || base == "application/octet-stream" {
		if byExt, ok := textExtensions[strings.ToLower(filepath.Ext(name))]; ok {
			return byExt, nil
		}
		return "", fmt.Errorf("%w: %q", ErrUnsupportedType, contentType)
	}
	if !textContentTypes[base] {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedType, base)
	}
	return base, nil
}
