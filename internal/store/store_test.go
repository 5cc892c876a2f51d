package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func newTestUser(t *testing.T, s *Store, email string) *User {
	t.Helper()
	user, err := s.CreateUser(context.Background(), email, "Test User", "bcrypt-hash")
	require.NoError(t, err)
	return user
}

func newTestWorkspace(t *testing.T, s *Store, ownerID string) *Workspace {
	t.Helper()
	ws, err := s.CreateWorkspace(context.Background(), ownerID, "Q3 Strategy", "quarterly planning")
	require.NoError(t, err)
	return ws
}

func TestUsers_CreateAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user := newTestUser(t, s, "alice@example.com")
	assert.NotEmpty(t, user.ID)
	assert.False(t, user.CreatedAt.IsZero())

	got, err := s.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, got.Email)
	assert.Equal(t, "bcrypt-hash", got.PasswordHash)

	byEmail, err := s.GetUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)
}

func TestUsers_DuplicateEmail(t *testing.T) {
	s := newTestStore(t)
	newTestUser(t, s, "alice@example.com")

	_, err := s.CreateUser(context.Background(), "alice@example.com", "Other", "hash")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestUsers_EmailCaseInsensitive(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user, err := s.CreateUser(ctx, "Alice@Example.COM", "Alice", "hash")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)

	// A case variant of a taken email is still taken.
	_, err = s.CreateUser(ctx, "alice@example.com", "Other", "hash")
	assert.ErrorIs(t, err, ErrEmailTaken)

	// Lookup matches regardless of case.
	got, err := s.GetUserByEmail(ctx, "ALICE@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
}

func TestUsers_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetUser(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.GetUserByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWorkspaces_CRUD(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	user := newTestUser(t, s, "alice@example.com")

	ws := newTestWorkspace(t, s, user.ID)

	got, err := s.GetWorkspace(ctx, ws.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Q3 Strategy", got.Name)

	updated, err := s.UpdateWorkspace(ctx, ws.ID, user.ID, "Q4 Strategy", "revised")
	require.NoError(t, err)
	assert.Equal(t, "Q4 Strategy", updated.Name)
	assert.Equal(t, "revised", updated.Description)

	list, err := s.ListWorkspaces(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, s.DeleteWorkspace(ctx, ws.ID, user.ID))
	_, err = s.GetWorkspace(ctx, ws.ID, user.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWorkspaces_OwnershipEnforced(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := newTestUser(t, s, "alice@example.com")
	bob := newTestUser(t, s, "bob@example.com")

	ws := newTestWorkspace(t, s, alice.ID)

	_, err := s.GetWorkspace(ctx, ws.ID, bob.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	err = s.DeleteWorkspace(ctx, ws.ID, bob.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	list, err := s.ListWorkspaces(ctx, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestNodes_CRUD(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	user := newTestUser(t, s, "alice@example.com")
	ws := newTestWorkspace(t, s, user.ID)

	node, err := s.CreateNode(ctx, ws.ID, NodeKindIdea, "Expand to EMEA", "open a regional office", 10, 20)
	require.NoError(t, err)
	assert.Equal(t, NodeKindIdea, node.Kind)

	got, err := s.GetNode(ctx, ws.ID, node.ID)
	require.NoError(t, err)
	assert.Equal(t, "Expand to EMEA", got.Title)
	assert.Equal(t, 10.0, got.PosX)

	updated, err := s.UpdateNode(ctx, ws.ID, node.ID, NodeKindDecision, "Expand to EMEA", "approved", 30, 40)
	require.NoError(t, err)
	assert.Equal(t, NodeKindDecision, updated.Kind)
	assert.Equal(t, 30.0, updated.PosX)

	nodes, err := s.ListNodes(ctx, ws.ID)
	require.NoError(t, err)
	require.Len(t, nodes, 1)

	require.NoError(t, s.DeleteNode(ctx, ws.ID, node.ID))
	_, err = s.GetNode(ctx, ws.ID, node.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEdges_Constraints(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	user := newTestUser(t, s, "alice@example.com")
	ws := newTestWorkspace(t, s, user.ID)
	other := newTestWorkspace(t, s, user.ID)

	a, err := s.CreateNode(ctx, ws.ID, NodeKindIdea, "A", "", 0, 0)
	require.NoError(t, err)
	b, err := s.CreateNode(ctx, ws.ID, NodeKindRisk, "B", "", 0, 0)
	require.NoError(t, err)
	foreign, err := s.CreateNode(ctx, other.ID, NodeKindIdea, "C", "", 0, 0)
	require.NoError(t, err)

	edge, err := s.CreateEdge(ctx, ws.ID, a.ID, b.ID, EdgeKindSupports)
	require.NoError(t, err)
	assert.NotEmpty(t, edge.ID)

	// Same triple again.
	_, err = s.CreateEdge(ctx, ws.ID, a.ID, b.ID, EdgeKindSupports)
	assert.ErrorIs(t, err, ErrDuplicateEdge)

	// Different kind between the same nodes is allowed.
	_, err = s.CreateEdge(ctx, ws.ID, a.ID, b.ID, EdgeKindContradicts)
	require.NoError(t, err)

	_, err = s.CreateEdge(ctx, ws.ID, a.ID, a.ID, EdgeKindRelates)
	assert.ErrorIs(t, err, ErrSelfLoop)

	_, err = s.CreateEdge(ctx, ws.ID, a.ID, foreign.ID, EdgeKindRelates)
	assert.ErrorIs(t, err, ErrCrossWorkspace)

	edges, err := s.ListEdges(ctx, ws.ID)
	require.NoError(t, err)
	assert.Len(t, edges, 2)
}

func TestEdges_DeletedWithNode(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	user := newTestUser(t, s, "alice@example.com")
	ws := newTestWorkspace(t, s, user.ID)

	a, err := s.CreateNode(ctx, ws.ID, NodeKindIdea, "A", "", 0, 0)
	require.NoError(t, err)
	b, err := s.CreateNode(ctx, ws.ID, NodeKindIdea, "B", "", 0, 0)
	require.NoError(t, err)
	_, err = s.CreateEdge(ctx, ws.ID, a.ID, b.ID, EdgeKindRelates)
	require.NoError(t, err)

	require.NoError(t, s.DeleteNode(ctx, ws.ID, a.ID))

	edges, err := s.ListEdges(ctx, ws.ID)
	require.NoError(t, err)
	assert.Empty(t, edges)
}

func TestChat_ConversationsAndMessages(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	user := newTestUser(t, s, "alice@example.com")
	ws := newTestWorkspace(t, s, user.ID)

	conv, err := s.CreateConversation(ctx, ws.ID, "Pricing discussion", "openai", "gpt-4o-mini")
	require.NoError(t, err)

	_, err = s.AppendMessage(ctx, conv.ID, "user", "What pricing model fits?", 0, 0)
	require.NoError(t, err)
	_, err = s.AppendMessage(ctx, conv.ID, "assistant", "Consider usage-based tiers.", 42, 12)
	require.NoError(t, err)

	messages, err := s.ListMessages(ctx, conv.ID)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "user", messages[0].Role)
	assert.Equal(t, "assistant", messages[1].Role)
	assert.Equal(t, 42, messages[1].PromptTokens)

	convs, err := s.ListConversations(ctx, ws.ID)
	require.NoError(t, err)
	require.Len(t, convs, 1)

	require.NoError(t, s.DeleteConversation(ctx, ws.ID, conv.ID))
	messages, err = s.ListMessages(ctx, conv.ID)
	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestDocuments_CRUD(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	user := newTestUser(t, s, "alice@example.com")
	ws := newTestWorkspace(t, s, user.ID)

	doc, err := s.CreateDocument(ctx, ws.ID, "market-report.md", "text/markdown", 2048, 7)
	require.NoError(t, err)

	got, err := s.GetDocument(ctx, ws.ID, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "market-report.md", got.Name)
	assert.Equal(t, 7, got.ChunkCount)

	docs, err := s.ListDocuments(ctx, ws.ID)
	require.NoError(t, err)
	require.Len(t, docs, 1)

	require.NoError(t, s.DeleteDocument(ctx, ws.ID, doc.ID))
	_, err = s.GetDocument(ctx, ws.ID, doc.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSummaries_CreateAndList(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	user := newTestUser(t, s, "alice@example.com")
	ws := newTestWorkspace(t, s, user.ID)

	sum, err := s.CreateSummary(ctx, ws.ID, "Themes: growth, risk.", "gpt-4o-mini", 12, 2)
	require.NoError(t, err)

	got, err := s.GetSummary(ctx, ws.ID, sum.ID)
	require.NoError(t, err)
	assert.Equal(t, 12, got.NodeCount)
	assert.Equal(t, 2, got.BatchCount)

	list, err := s.ListSummaries(ctx, ws.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestWorkspaceDelete_Cascades(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	user := newTestUser(t, s, "alice@example.com")
	ws := newTestWorkspace(t, s, user.ID)

	node, err := s.CreateNode(ctx, ws.ID, NodeKindIdea, "A", "", 0, 0)
	require.NoError(t, err)
	conv, err := s.CreateConversation(ctx, ws.ID, "chat", "openai", "gpt-4o-mini")
	require.NoError(t, err)
	_, err = s.AppendMessage(ctx, conv.ID, "user", "hi", 0, 0)
	require.NoError(t, err)
	_, err = s.CreateDocument(ctx, ws.ID, "doc.txt", "text/plain", 10, 1)
	require.NoError(t, err)

	require.NoError(t, s.DeleteWorkspace(ctx, ws.ID, user.ID))

	_, err = s.GetNode(ctx, ws.ID, node.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	messages, err := s.ListMessages(ctx, conv.ID)
	require.NoError(t, err)
	assert.Empty(t, messages)
	docs, err := s.ListDocuments(ctx, ws.ID)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestValidKinds(t *testing.T) {
	assert.True(t, ValidNodeKind(NodeKindIdea))
	assert.True(t, ValidNodeKind(NodeKindRisk))
	assert.False(t, ValidNodeKind("note"))

	assert.True(t, ValidEdgeKind(EdgeKindDepends))
	assert.False(t, ValidEdgeKind("blocks"))
}
