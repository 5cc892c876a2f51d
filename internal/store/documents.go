package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CreateDocument records an uploaded document.
func (s *Store) CreateDocument(ctx context.Context, workspaceID, name, contentType string, sizeBytes int64, chunkCount int) (*Document, error) {
	doc := &Document{
		ID:          uuid.NewString(),
		WorkspaceID: workspaceID,
		Name:        name,
		ContentType: contentType,
		SizeBytes:   sizeBytes,
		ChunkCount:  chunkCount,
		CreatedAt:   time.Now().UTC(),
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (id, workspace_id, name, content_type, size_bytes, chunk_count, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		doc.ID, doc.WorkspaceID, doc.Name, doc.ContentType, doc.SizeBytes, doc.ChunkCount, doc.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting document: %w", err)
	}
	return doc, nil
}

// GetDocument returns the document if it exists in the workspace.
func (s *Store) GetDocument(ctx context.Context, workspaceID, id string) (*Document, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, workspace_id, name, content_type, size_bytes, chunk_count, created_at
		 FROM documents WHERE id = ? AND workspace_id = ?`, id, workspaceID)

	var d Document
	err := row.Scan(&d.ID, &d.WorkspaceID, &d.Name, &d.ContentType, &d.SizeBytes, &d.ChunkCount, &d.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning document: %w", err)
	}
	return &d, nil
}

// ListDocuments returns all documents in the workspace, newest first.
func (s *Store) ListDocuments(ctx context.Context, workspaceID string) ([]Document, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, workspace_id, name, content_type, size_bytes, chunk_count, created_at
		 FROM documents WHERE workspace_id = ? ORDER BY created_at DESC`, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		var d Document
		if err := rows.Scan(&d.ID, &d.WorkspaceID, &d.Name, &d.ContentType, &d.SizeBytes, &d.ChunkCount, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// DeleteDocument removes a document record.
func (s *Store) DeleteDocument(ctx context.Context, workspaceID, id string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM documents WHERE id = ? AND workspace_id = ?`, id, workspaceID)
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
