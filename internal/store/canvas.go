package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CreateNode inserts a new canvas node.
func (s *Store) CreateNode(ctx context.Context, workspaceID, kind, title, content string, posX, posY float64) (*Node, error) {
	now := time.Now().UTC()
	node := &Node{
		ID:          uuid.NewString(),
		WorkspaceID: workspaceID,
		Kind:        kind,
		Title:       title,
		Content:     content,
		PosX:        posX,
		PosY:        posY,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO nodes (id, workspace_id, kind, title, content, pos_x, pos_y, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		node.ID, node.WorkspaceID, node.Kind, node.Title, node.Content,
		node.PosX, node.PosY, node.CreatedAt, node.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting node: %w", err)
	}
	return node, nil
}

// GetNode returns the node if it exists in the workspace.
func (s *Store) GetNode(ctx context.Context, workspaceID, id string) (*Node, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, workspace_id, kind, title, content, pos_x, pos_y, created_at, updated_at
		 FROM nodes WHERE id = ? AND workspace_id = ?`, id, workspaceID)
	return scanNode(row)
}

// ListNodes returns all nodes in the workspace ordered by creation time.
func (s *Store) ListNodes(ctx context.Context, workspaceID string) ([]Node, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, workspace_id, kind, title, content, pos_x, pos_y, created_at, updated_at
		 FROM nodes WHERE workspace_id = ? ORDER BY created_at ASC, id ASC`, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("listing nodes: %w", err)
	}
	defer rows.Close()

	var out []Node
	for rows.Next() {
		var n Node
		if err := rows.Scan(&n.ID, &n.WorkspaceID, &n.Kind, &n.Title, &n.Content,
			&n.PosX, &n.PosY, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning node: %w", err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// UpdateNode updates a node's kind, title, content, and position.
func (s *Store) UpdateNode(ctx context.Context, workspaceID, id, kind, title, content string, posX, posY float64) (*Node, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE nodes SET kind = ?, title = ?, content = ?, pos_x = ?, pos_y = ?, updated_at = ?
		 WHERE id = ? AND workspace_id = ?`,
		kind, title, content, posX, posY, time.Now().UTC(), id, workspaceID,
	)
	if err != nil {
		return nil, fmt.Errorf("updating node: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return s.GetNode(ctx, workspaceID, id)
}

// DeleteNode removes a node and, through cascading foreign keys, every edge
// touching it.
func (s *Store) DeleteNode(ctx context.Context, workspaceID, id string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM nodes WHERE id = ? AND workspace_id = ?`, id, workspaceID)
	if err != nil {
		return fmt.Errorf("deleting node: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateEdge inserts a typed edge between two nodes. Both endpoints must
// exist in the workspace, an edge may not connect a node to itself, and the
// (source, target, kind) triple must be unique within the workspace.
func (s *Store) CreateEdge(ctx context.Context, workspaceID, sourceID, targetID, kind string) (*Edge, error) {
	if sourceID == targetID {
		return nil, ErrSelfLoop
	}

	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM nodes WHERE workspace_id = ? AND id IN (?, ?)`,
		workspaceID, sourceID, targetID).Scan(&count)
	if err != nil {
		return nil, fmt.Errorf("checking edge endpoints: %w", err)
	}
	if count != 2 {
		return nil, ErrCrossWorkspace
	}

	edge := &Edge{
		ID:          uuid.NewString(),
		WorkspaceID: workspaceID,
		SourceID:    sourceID,
		TargetID:    targetID,
		Kind:        kind,
		CreatedAt:   time.Now().UTC(),
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO edges (id, workspace_id, source_id, target_id, kind, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		edge.ID, edge.WorkspaceID, edge.SourceID, edge.TargetID, edge.Kind, edge.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "edges.") {
			return nil, ErrDuplicateEdge
		}
		return nil, fmt.Errorf("inserting edge: %w", err)
	}
	return edge, nil
}

// ListEdges returns all edges in the workspace ordered by creation time.
func (s *Store) ListEdges(ctx context.Context, workspaceID string) ([]Edge, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, workspace_id, source_id, target_id, kind, created_at
		 FROM edges WHERE workspace_id = ? ORDER BY created_at ASC, id ASC`, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("listing edges: %w", err)
	}
	defer rows.Close()

	var out []Edge
	for rows.Next() {
		var e Edge
		if err := rows.Scan(&e.ID, &e.WorkspaceID, &e.SourceID, &e.TargetID, &e.Kind, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning edge: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// DeleteEdge removes an edge from the workspace.
func (s *Store) DeleteEdge(ctx context.Context, workspaceID, id string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM edges WHERE id = ? AND workspace_id = ?`, id, workspaceID)
	if err != nil {
		return fmt.Errorf("deleting edge: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanNode(row *sql.Row) (*Node, error) {
	var n Node
	err := row.Scan(&n.ID, &n.WorkspaceID, &n.Kind, &n.Title, &n.Content,
		&n.PosX, &n.PosY, &n.CreatedAt, &n.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning node: %w", err)
	}
	return &n, nil
}
