package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CreateSummary records a generated strategy summary.
func (s *Store) CreateSummary(ctx context.Context, workspaceID, content, model string, nodeCount, batchCount int) (*Summary, error) {
	sum := &Summary{
		ID:          uuid.NewString(),
		WorkspaceID: workspaceID,
		Content:     content,
		Model:       model,
		NodeCount:   nodeCount,
		BatchCount:  batchCount,
		CreatedAt:   time.Now().UTC(),
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO summaries (id, workspace_id, content, model, node_count, batch_count, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sum.ID, sum.WorkspaceID, sum.Content, sum.Model, sum.NodeCount, sum.BatchCount, sum.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting summary: %w", err)
	}
	return sum, nil
}

// GetSummary returns the summary if it exists in the workspace.
func (s *Store) GetSummary(ctx context.Context, workspaceID, id string) (*Summary, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, workspace_id, content, model, node_count, batch_count, created_at
		 FROM summaries WHERE id = ? AND workspace_id = ?`, id, workspaceID)

	var sum Summary
	err := row.Scan(&sum.ID, &sum.WorkspaceID, &sum.Content, &sum.Model, &sum.NodeCount, &sum.BatchCount, &sum.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning summary: %w", err)
	}
	return &sum, nil
}

// ListSummaries returns all summaries in the workspace, newest first.
func (s *Store) ListSummaries(ctx context.Context, workspaceID string) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, workspace_id, content, model, node_count, batch_count, created_at
		 FROM summaries WHERE workspace_id = ? ORDER BY created_at DESC`, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("listing summaries: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var sum Summary
		if err := rows.Scan(&sum.ID, &sum.WorkspaceID, &sum.Content, &sum.Model, &sum.NodeCount, &sum.BatchCount, &sum.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning summary: %w", err)
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}
