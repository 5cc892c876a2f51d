package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CreateConversation inserts a new chat thread.
func (s *Store) CreateConversation(ctx context.Context, workspaceID, title, provider, model string) (*Conversation, error) {
	now := time.Now().UTC()
	conv := &Conversation{
		ID:          uuid.NewString(),
		WorkspaceID: workspaceID,
		Title:       title,
		Provider:    provider,
		Model:       model,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO conversations (id, workspace_id, title, provider, model, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		conv.ID, conv.WorkspaceID, conv.Title, conv.Provider, conv.Model, conv.CreatedAt, conv.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting conversation: %w", err)
	}
	return conv, nil
}

// GetConversation returns the conversation if it exists in the workspace.
func (s *Store) GetConversation(ctx context.Context, workspaceID, id string) (*Conversation, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, workspace_id, title, provider, model, created_at, updated_at
		 FROM conversations WHERE id = ? AND workspace_id = ?`, id, workspaceID)

	var c Conversation
	err := row.Scan(&c.ID, &c.WorkspaceID, &c.Title, &c.Provider, &c.Model, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning conversation: %w", err)
	}
	return &c, nil
}

// ListConversations returns all conversations in the workspace, most
// recently active first.
func (s *Store) ListConversations(ctx context.Context, workspaceID string) ([]Conversation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, workspace_id, title, provider, model, created_at, updated_at
		 FROM conversations WHERE workspace_id = ? ORDER BY updated_at DESC`, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("listing conversations: %w", err)
	}
	defer rows.Close()

	var out []Conversation
	for rows.Next() {
		var c Conversation
		if err := rows.Scan(&c.ID, &c.WorkspaceID, &c.Title, &c.Provider, &c.Model, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning conversation: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// DeleteConversation removes a conversation and its messages.
func (s *Store) DeleteConversation(ctx context.Context, workspaceID, id string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM conversations WHERE id = ? AND workspace_id = ?`, id, workspaceID)
	if err != nil {
		return fmt.Errorf("deleting conversation: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// AppendMessage inserts a message and bumps the conversation's updated_at.
func (s *Store) AppendMessage(ctx context.Context, conversationID, role, content string, promptTokens, completionTokens int) (*Message, error) {
	msg := &Message{
		ID:               uuid.NewString(),
		ConversationID:   conversationID,
		Role:             role,
		Content:          content,
		PromptTokens:     promptTokens,
		CompletionTokens: completionTokens,
		CreatedAt:        time.Now().UTC(),
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO messages (id, conversation_id, role, content, prompt_tokens, completion_tokens, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		msg.ID, msg.ConversationID, msg.Role, msg.Content, msg.PromptTokens, msg.CompletionTokens, msg.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting message: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE conversations SET updated_at = ? WHERE id = ?`, msg.CreatedAt, conversationID)
	if err != nil {
		return nil, fmt.Errorf("touching conversation: %w", err)
	}
	return msg, nil
}

// ListMessages returns the conversation's messages in chronological order.
func (s *Store) ListMessages(ctx context.Context, conversationID string) ([]Message, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, conversation_id, role, content, prompt_tokens, completion_tokens, created_at
		 FROM messages WHERE conversation_id = ? ORDER BY created_at ASC, id ASC`, conversationID)
	if err != nil {
		return nil, fmt.Errorf("listing messages: %w", err)
	}
	defer rows.Close()

	var out []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.Role, &m.Content,
			&m.PromptTokens, &m.CompletionTokens, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning message: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
