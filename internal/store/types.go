package store

import "time"

// User is a registered account.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Workspace is a named strategy canvas owned by a single user.
type Workspace struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Node kinds.
const (
	NodeKindIdea     = "idea"
	NodeKindQuestion = "question"
	NodeKindInsight  = "insight"
	NodeKindDecision = "decision"
	NodeKindRisk     = "risk"
)

// Node is a card on the workspace canvas.
type Node struct {
	ID          string    `json:"id"`
	WorkspaceID string    `json:"workspace_id"`
	Kind        string    `json:"kind"`
	Title       string    `json:"title"`
	Content     string    `json:"content,omitempty"`
	PosX        float64   `json:"pos_x"`
	PosY        float64   `json:"pos_y"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Edge kinds.
const (
	EdgeKindRelates     = "relates"
	EdgeKindSupports    = "supports"
	EdgeKindContradicts = "contradicts"
	EdgeKindDepends     = "depends"
)

// Edge is a typed connection between two nodes in the same workspace.
type Edge struct {
	ID          string    `json:"id"`
	WorkspaceID string    `json:"workspace_id"`
	SourceID    string    `json:"source_id"`
	TargetID    string    `json:"target_id"`
	Kind        string    `json:"kind"`
	CreatedAt   time.Time `json:"created_at"`
}

// Conversation is a chat thread with an AI agent inside a workspace.
type Conversation struct {
	ID          string    `json:"id"`
	WorkspaceID string    `json:"workspace_id"`
	Title       string    `json:"title"`
	Provider    string    `json:"provider"`
	Model       string    `json:"model"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Message is one turn of a conversation.
type Message struct {
	ID               string    `json:"id"`
	ConversationID   string    `json:"conversation_id"`
	Role             string    `json:"role"`
	Content          string    `json:"content"`
	PromptTokens     int       `json:"prompt_tokens,omitempty"`
	CompletionTokens int       `json:"completion_tokens,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// Document records an uploaded context document. The raw text lives in the
// vector store as chunks; this row tracks provenance and lifecycle.
type Document struct {
	ID          string    `json:"id"`
	WorkspaceID string    `json:"workspace_id"`
	Name        string    `json:"name"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	ChunkCount  int       `json:"chunk_count"`
	CreatedAt   time.Time `json:"created_at"`
}

// Summary is a generated strategic summary of a workspace canvas.
type Summary struct {
	ID          string    `json:"id"`
	WorkspaceID string    `json:"workspace_id"`
	Content     string    `json:"content"`
	Model       string    `json:"model"`
	NodeCount   int       `json:"node_count"`
	BatchCount  int       `json:"batch_count"`
	CreatedAt   time.Time `json:"created_at"`
}

// ValidNodeKind reports whether kind is a recognized node kind.
func ValidNodeKind(kind string) bool {
	switch kind {
	case NodeKindIdea, NodeKindQuestion, NodeKindInsight, NodeKindDecision, NodeKindRisk:
		return true
	}
	return false
}

// ValidEdgeKind reports whether kind is a recognized edge kind.
func ValidEdgeKind(kind string) bool {
	switch kind {
	case EdgeKindRelates, EdgeKindSupports, EdgeKindContradicts, EdgeKindDepends:
		return true
	}
	return false
}
