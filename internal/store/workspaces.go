package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CreateWorkspace inserts a new workspace for the owner.
func (s *Store) CreateWorkspace(ctx context.Context, ownerID, name, description string) (*Workspace, error) {
	now := time.Now().UTC()
	ws := &Workspace{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO workspaces (id, owner_id, name, description, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		ws.ID, ws.OwnerID, ws.Name, ws.Description, ws.CreatedAt, ws.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting workspace: %w", err)
	}
	return ws, nil
}

// GetWorkspace returns the workspace if it exists and belongs to ownerID.
func (s *Store) GetWorkspace(ctx context.Context, id, ownerID string) (*Workspace, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, owner_id, name, description, created_at, updated_at
		 FROM workspaces WHERE id = ? AND owner_id = ?`, id, ownerID)

	var ws Workspace
	err := row.Scan(&ws.ID, &ws.OwnerID, &ws.Name, &ws.Description, &ws.CreatedAt, &ws.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning workspace: %w", err)
	}
	return &ws, nil
}

// ListWorkspaces returns all workspaces owned by ownerID, newest first.
func (s *Store) ListWorkspaces(ctx context.Context, ownerID string) ([]Workspace, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, owner_id, name, description, created_at, updated_at
		 FROM workspaces WHERE owner_id = ? ORDER BY created_at DESC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing workspaces: %w", err)
	}
	defer rows.Close()

	var out []Workspace
	for rows.Next() {
		var ws Workspace
		if err := rows.Scan(&ws.ID, &ws.OwnerID, &ws.Name, &ws.Description, &ws.CreatedAt, &ws.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning workspace: %w", err)
		}
		out = append(out, ws)
	}
	return out, rows.Err()
}

// UpdateWorkspace updates name and description.
func (s *Store) UpdateWorkspace(ctx context.Context, id, ownerID, name, description string) (*Workspace, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE workspaces SET name = ?, description = ?, updated_at = ?
		 WHERE id = ? AND owner_id = ?`,
		name, description, time.Now().UTC(), id, ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("updating workspace: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return s.GetWorkspace(ctx, id, ownerID)
}

// DeleteWorkspace removes a workspace and, through cascading foreign keys,
// all of its nodes, edges, conversations, documents, and summaries.
func (s *Store) DeleteWorkspace(ctx context.Context, id, ownerID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM workspaces WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return fmt.Errorf("deleting workspace: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// TouchWorkspace bumps the workspace's updated_at timestamp.
func (s *Store) TouchWorkspace(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE workspaces SET updated_at = ? WHERE id = ?`, time.Now().UTC(), id)
	return err
}
