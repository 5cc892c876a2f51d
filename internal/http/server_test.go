package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/boardroomlabs/boardroomd/internal/auth"
	"github.com/boardroomlabs/boardroomd/internal/chat"
	"github.com/boardroomlabs/boardroomd/internal/chunking"
	"github.com/boardroomlabs/boardroomd/internal/document"
	"github.com/boardroomlabs/boardroomd/internal/embeddings"
	"github.com/boardroomlabs/boardroomd/internal/llm"
	"github.com/boardroomlabs/boardroomd/internal/logging"
	"github.com/boardroomlabs/boardroomd/internal/store"
	"github.com/boardroomlabs/boardroomd/internal/strategy"
	"github.com/boardroomlabs/boardroomd/internal/vectorstore"
)

// testLLM answers strategy analysis calls with canned JSON, synthesis calls
// with a summary, and everything else with a chat reply.
type testLLM struct{}

func (testLLM) Complete(_ context.Context, req llm.Request) (llm.Response, error) {
	text := "This is the advisor's reply."
	if strings.Contains(req.System, "strategy analyst") {
		if len(req.Messages) > 0 && strings.Contains(req.Messages[0].Content, "Canvas cards") {
			text = `{"themes": ["growth focus"], "relationships": []}`
		} else {
			text = "The canvas centers on growth."
		}
	}
	return llm.Response{
		Text:  text,
		Model: req.Model,
		Usage: llm.Usage{PromptTokens: 50, CompletionTokens: 10},
	}, nil
}

type testServer struct {
	server *httptest.Server
	token  string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	vectors, err := vectorstore.NewChromemStore(vectorstore.ChromemConfig{
		Path: t.TempDir(),
	}, embeddings.NewHashEmbedder(64), zap.NewNop())
	require.NoError(t, err)

	docs, err := document.NewService(document.Config{
		ChunkTokens:    200,
		OverlapTokens:  20,
		MaxUploadBytes: 64 * 1024,
	}, st, vectors, chunking.HeuristicEstimator{}, nil)
	require.NoError(t, err)

	client := testLLM{}
	chatSvc, err := chat.NewService(chat.Config{
		ContextBudget:   2000,
		DefaultProvider: llm.ProviderOpenAI,
		DefaultModel:    "gpt-4o-mini",
	}, st, docs, client, chunking.HeuristicEstimator{}, nil)
	require.NoError(t, err)

	stratSvc, err := strategy.NewService(strategy.Config{
		BatchBudget: 4000,
		Provider:    llm.ProviderOpenAI,
		Model:       "gpt-4o-mini",
	}, st, client, chunking.HeuristicEstimator{}, nil)
	require.NoError(t, err)

	tokens, err := auth.NewTokenManager([]byte("0123456789abcdef0123456789abcdef"), time.Hour)
	require.NoError(t, err)

	srv, err := NewServer(&Config{}, Deps{
		Store:     st,
		Tokens:    tokens,
		Chat:      chatSvc,
		Documents: docs,
		Strategy:  stratSvc,
	}, logging.NewNop())
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return &testServer{server: ts}
}

func (ts *testServer) do(t *testing.T, method, path string, body interface{}) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, ts.server.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if ts.token != "" {
		req.Header.Set("Authorization", "Bearer "+ts.token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	return resp, data
}

func (ts *testServer) register(t *testing.T, email string) {
	t.Helper()
	resp, body := ts.do(t, http.MethodPost, "/api/v1/auth/register", map[string]string{
		"email":    email,
		"name":     "Test User",
		"password": "long enough password",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	var tr TokenResponse
	require.NoError(t, json.Unmarshal(body, &tr))
	ts.token = tr.Token
}

func (ts *testServer) createWorkspace(t *testing.T, name string) string {
	t.Helper()
	resp, body := ts.do(t, http.MethodPost, "/api/v1/workspaces", map[string]string{"name": name})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var ws store.Workspace
	require.NoError(t, json.Unmarshal(body, &ws))
	return ws.ID
}

func (ts *testServer) createNode(t *testing.T, wsID, kind, title string) string {
	t.Helper()
	resp, body := ts.do(t, http.MethodPost, "/api/v1/workspaces/"+wsID+"/nodes",
		map[string]interface{}{"kind": kind, "title": title})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var node store.Node
	require.NoError(t, json.Unmarshal(body, &node))
	return node.ID
}

func TestHealthAndMetrics(t *testing.T) {
	ts := newTestServer(t)

	resp, body := ts.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status": "ok"}`, string(body))

	resp, _ = ts.do(t, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestResponseStatus(t *testing.T) {
	e := echo.New()

	newCtx := func() echo.Context {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		return e.NewContext(req, httptest.NewRecorder())
	}

	// Handler errors are not written yet when middleware observes them.
	assert.Equal(t, http.StatusNotFound, responseStatus(newCtx(), echo.NewHTTPError(http.StatusNotFound, "gone")))
	assert.Equal(t, http.StatusInternalServerError, responseStatus(newCtx(), errors.New("boom")))

	// Successful handlers have already written the status.
	c := newCtx()
	require.NoError(t, c.NoContent(http.StatusNoContent))
	assert.Equal(t, http.StatusNoContent, responseStatus(c, nil))
}

func TestAuthFlow(t *testing.T) {
	ts := newTestServer(t)

	// Protected route without a token.
	resp, _ := ts.do(t, http.MethodGet, "/api/v1/workspaces", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	ts.register(t, "alice@example.com")

	resp, body := ts.do(t, http.MethodGet, "/api/v1/me", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var user store.User
	require.NoError(t, json.Unmarshal(body, &user))
	assert.Equal(t, "alice@example.com", user.Email)

	// Duplicate registration.
	resp, _ = ts.do(t, http.MethodPost, "/api/v1/auth/register", map[string]string{
		"email": "alice@example.com", "name": "Dup", "password": "long enough password",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// Login.
	resp, body = ts.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email": "alice@example.com", "password": "long enough password",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var tr TokenResponse
	require.NoError(t, json.Unmarshal(body, &tr))
	assert.NotEmpty(t, tr.Token)

	// Wrong password.
	resp, _ = ts.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email": "alice@example.com", "password": "wrong password!!",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRegisterValidation(t *testing.T) {
	ts := newTestServer(t)

	resp, _ := ts.do(t, http.MethodPost, "/api/v1/auth/register", map[string]string{
		"email": "not-an-email", "name": "X", "password": "long enough password",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = ts.do(t, http.MethodPost, "/api/v1/auth/register", map[string]string{
		"email": "bob@example.com", "name": "Bob", "password": "short",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestWorkspaceCRUD(t *testing.T) {
	ts := newTestServer(t)
	ts.register(t, "alice@example.com")

	wsID := ts.createWorkspace(t, "Q3 Strategy")

	resp, body := ts.do(t, http.MethodGet, "/api/v1/workspaces/"+wsID, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var ws store.Workspace
	require.NoError(t, json.Unmarshal(body, &ws))
	assert.Equal(t, "Q3 Strategy", ws.Name)

	resp, _ = ts.do(t, http.MethodPut, "/api/v1/workspaces/"+wsID,
		map[string]string{"name": "Q4 Strategy", "description": "revised"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = ts.do(t, http.MethodGet, "/api/v1/workspaces", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var list []store.Workspace
	require.NoError(t, json.Unmarshal(body, &list))
	require.Len(t, list, 1)
	assert.Equal(t, "Q4 Strategy", list[0].Name)

	resp, _ = ts.do(t, http.MethodDelete, "/api/v1/workspaces/"+wsID, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = ts.do(t, http.MethodGet, "/api/v1/workspaces/"+wsID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestWorkspaceNameValidation(t *testing.T) {
	ts := newTestServer(t)
	ts.register(t, "alice@example.com")

	resp, _ := ts.do(t, http.MethodPost, "/api/v1/workspaces", map[string]string{"name": ""})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = ts.do(t, http.MethodPost, "/api/v1/workspaces",
		map[string]string{"name": strings.Repeat("x", maxWorkspaceNameLen+1)})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	wsID := ts.createWorkspace(t, strings.Repeat("x", maxWorkspaceNameLen))

	resp, _ = ts.do(t, http.MethodPut, "/api/v1/workspaces/"+wsID,
		map[string]string{"name": strings.Repeat("x", maxWorkspaceNameLen+1)})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestWorkspaceOwnership(t *testing.T) {
	ts := newTestServer(t)
	ts.register(t, "alice@example.com")
	wsID := ts.createWorkspace(t, "Private")

	// A different user must not see it.
	ts.register(t, "bob@example.com")
	resp, _ := ts.do(t, http.MethodGet, "/api/v1/workspaces/"+wsID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCanvasNodesAndEdges(t *testing.T) {
	ts := newTestServer(t)
	ts.register(t, "alice@example.com")
	wsID := ts.createWorkspace(t, "Canvas")

	// Invalid kind.
	resp, _ := ts.do(t, http.MethodPost, "/api/v1/workspaces/"+wsID+"/nodes",
		map[string]string{"kind": "note", "title": "X"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	a := ts.createNode(t, wsID, "idea", "Expand to EMEA")
	b := ts.createNode(t, wsID, "risk", "Churn in self-serve")

	resp, body := ts.do(t, http.MethodPost, "/api/v1/workspaces/"+wsID+"/edges",
		map[string]string{"source_id": a, "target_id": b, "kind": "relates"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	// Duplicate edge.
	resp, _ = ts.do(t, http.MethodPost, "/api/v1/workspaces/"+wsID+"/edges",
		map[string]string{"source_id": a, "target_id": b, "kind": "relates"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// Self-loop.
	resp, _ = ts.do(t, http.MethodPost, "/api/v1/workspaces/"+wsID+"/edges",
		map[string]string{"source_id": a, "target_id": a, "kind": "relates"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = ts.do(t, http.MethodGet, "/api/v1/workspaces/"+wsID+"/edges", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var edges []store.Edge
	require.NoError(t, json.Unmarshal(body, &edges))
	assert.Len(t, edges, 1)

	// Full canvas in one fetch.
	resp, body = ts.do(t, http.MethodGet, "/api/v1/workspaces/"+wsID+"/canvas", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var canvas CanvasResponse
	require.NoError(t, json.Unmarshal(body, &canvas))
	assert.Len(t, canvas.Nodes, 2)
	assert.Len(t, canvas.Edges, 1)

	// Deleting a node removes its edges.
	resp, _ = ts.do(t, http.MethodDelete, "/api/v1/workspaces/"+wsID+"/nodes/"+a, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp, body = ts.do(t, http.MethodGet, "/api/v1/workspaces/"+wsID+"/edges", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &edges))
	assert.Empty(t, edges)
}

func TestChatFlow(t *testing.T) {
	ts := newTestServer(t)
	ts.register(t, "alice@example.com")
	wsID := ts.createWorkspace(t, "Chat")

	// Unknown provider is a client error, not a server failure.
	resp, body := ts.do(t, http.MethodPost, "/api/v1/workspaces/"+wsID+"/conversations",
		map[string]string{"title": "Pricing", "provider": "cohere"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), "unsupported LLM provider")

	resp, body = ts.do(t, http.MethodPost, "/api/v1/workspaces/"+wsID+"/conversations",
		map[string]string{"title": "Pricing"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var conv store.Conversation
	require.NoError(t, json.Unmarshal(body, &conv))
	assert.Equal(t, "gpt-4o-mini", conv.Model)

	resp, body = ts.do(t, http.MethodPost,
		"/api/v1/workspaces/"+wsID+"/conversations/"+conv.ID+"/messages",
		map[string]string{"content": "What should we do?"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var reply store.Message
	require.NoError(t, json.Unmarshal(body, &reply))
	assert.Equal(t, "assistant", reply.Role)
	assert.Equal(t, "This is the advisor's reply.", reply.Content)

	resp, body = ts.do(t, http.MethodGet,
		"/api/v1/workspaces/"+wsID+"/conversations/"+conv.ID+"/messages", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var messages []store.Message
	require.NoError(t, json.Unmarshal(body, &messages))
	assert.Len(t, messages, 2)

	// Empty content.
	resp, _ = ts.do(t, http.MethodPost,
		"/api/v1/workspaces/"+wsID+"/conversations/"+conv.ID+"/messages",
		map[string]string{"content": "  "})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func (ts *testServer) upload(t *testing.T, wsID, filename, contentType, content string) (*http.Response, []byte) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreatePart(textprotoHeader(filename, contentType))
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req, err := http.NewRequest(http.MethodPost, ts.server.URL+"/api/v1/workspaces/"+wsID+"/documents", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+ts.token)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	return resp, data
}

func TestDocumentFlow(t *testing.T) {
	ts := newTestServer(t)
	ts.register(t, "alice@example.com")
	wsID := ts.createWorkspace(t, "Docs")

	resp, body := ts.upload(t, wsID, "notes.txt", "text/plain",
		"Usage-based pricing aligns revenue with customer value.")
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var doc store.Document
	require.NoError(t, json.Unmarshal(body, &doc))
	assert.Positive(t, doc.ChunkCount)

	// Binary upload.
	resp, _ = ts.upload(t, wsID, "image.png", "image/png", "\x89PNG")
	assert.Equal(t, http.StatusUnsupportedMediaType, resp.StatusCode)

	// Search.
	resp, body = ts.do(t, http.MethodGet,
		"/api/v1/workspaces/"+wsID+"/documents/search?q=pricing+revenue", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var results []vectorstore.SearchResult
	require.NoError(t, json.Unmarshal(body, &results))
	require.NotEmpty(t, results)
	assert.Equal(t, doc.ID, results[0].DocumentID)

	// Missing query.
	resp, _ = ts.do(t, http.MethodGet, "/api/v1/workspaces/"+wsID+"/documents/search", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Delete.
	resp, _ = ts.do(t, http.MethodDelete, "/api/v1/workspaces/"+wsID+"/documents/"+doc.ID, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, body = ts.do(t, http.MethodGet, "/api/v1/workspaces/"+wsID+"/documents", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var docs []store.Document
	require.NoError(t, json.Unmarshal(body, &docs))
	assert.Empty(t, docs)
}

func TestSummaryFlow(t *testing.T) {
	ts := newTestServer(t)
	ts.register(t, "alice@example.com")
	wsID := ts.createWorkspace(t, "Summary")

	// Empty canvas.
	resp, _ := ts.do(t, http.MethodPost, "/api/v1/workspaces/"+wsID+"/summaries", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	ts.createNode(t, wsID, "idea", "Expand to EMEA")
	ts.createNode(t, wsID, "risk", "Churn in self-serve")

	resp, body := ts.do(t, http.MethodPost, "/api/v1/workspaces/"+wsID+"/summaries", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var result strategy.Result
	require.NoError(t, json.Unmarshal(body, &result))
	assert.Contains(t, result.Summary.Content, "growth")
	assert.Equal(t, 2, result.Summary.NodeCount)

	resp, body = ts.do(t, http.MethodGet, "/api/v1/workspaces/"+wsID+"/summaries", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var list []store.Summary
	require.NoError(t, json.Unmarshal(body, &list))
	require.Len(t, list, 1)

	resp, _ = ts.do(t, http.MethodGet,
		"/api/v1/workspaces/"+wsID+"/summaries/"+list[0].ID, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func textprotoHeader(filename, contentType string) textproto.MIMEHeader {
	return textproto.MIMEHeader{
		"Content-Disposition": {fmt.Sprintf(`form-data; name="file"; filename=%q`, filename)},
		"Content-Type":        {contentType},
	}
}
