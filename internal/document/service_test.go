package document

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/boardroomlabs/boardroomd/internal/chunking"
	"github.com/boardroomlabs/boardroomd/internal/embeddings"
	"github.com/boardroomlabs/boardroomd/internal/store"
	"github.com/boardroomlabs/boardroomd/internal/vectorstore"
)

func newTestService(t *testing.T) (*Service, *store.Store, string) {
	t.Helper()

	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	vectors, err := vectorstore.NewChromemStore(vectorstore.ChromemConfig{
		Path: t.TempDir(),
	}, embeddings.NewHashEmbedder(64), zap.NewNop())
	require.NoError(t, err)

	svc, err := NewService(Config{
		ChunkTokens:    100,
		OverlapTokens:  10,
		MaxUploadBytes: 64 * 1024,
	}, st, vectors, chunking.HeuristicEstimator{}, nil)
	require.NoError(t, err)

	ctx := context.Background()
	user, err := st.CreateUser(ctx, "alice@example.com", "Alice", "hash")
	require.NoError(t, err)
	ws, err := st.CreateWorkspace(ctx, user.ID, "Strategy", "")
	require.NoError(t, err)

	return svc, st, ws.ID
}

func TestIngest_TextDocument(t *testing.T) {
	svc, st, wsID := newTestService(t)
	ctx := context.Background()

	text := "The market is shifting toward usage-based pricing. " +
		"Competitors have already moved. We should evaluate our tiers this quarter."
	doc, err := svc.Ingest(ctx, wsID, "notes.txt", "text/plain", []byte(text))
	require.NoError(t, err)

	assert.Equal(t, "text/plain", doc.ContentType)
	assert.Equal(t, int64(len(text)), doc.SizeBytes)
	assert.Positive(t, doc.ChunkCount)

	stored, err := st.GetDocument(ctx, wsID, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "notes.txt", stored.Name)
}

func TestIngest_ResolvesTypeFromExtension(t *testing.T) {
	svc, _, wsID := newTestService(t)

	doc, err := svc.Ingest(context.Background(), wsID, "report.md", "", []byte("# Report\n\nSome findings."))
	require.NoError(t, err)
	assert.Equal(t, "text/markdown", doc.ContentType)
}

func TestIngest_StripsCharsetParameter(t *testing.T) {
	svc, _, wsID := newTestService(t)

	doc, err := svc.Ingest(context.Background(), wsID, "data.csv", "text/csv; charset=utf-8", []byte("a,b\n1,2"))
	require.NoError(t, err)
	assert.Equal(t, "text/csv", doc.ContentType)
}

func TestIngest_RejectsBinary(t *testing.T) {
	svc, _, wsID := newTestService(t)
	ctx := context.Background()

	_, err := svc.Ingest(ctx, wsID, "image.png", "image/png", []byte{0x89, 0x50, 0x4e, 0x47})
	assert.ErrorIs(t, err, ErrUnsupportedType)

	// Declared text but contains NUL bytes.
	_, err = svc.Ingest(ctx, wsID, "weird.txt", "text/plain", []byte("abc\x00def"))
	assert.ErrorIs(t, err, ErrUnsupportedType)

	// Declared text but invalid UTF-8.
	_, err = svc.Ingest(ctx, wsID, "weird.txt", "text/plain", []byte{0xff, 0xfe, 0x41})
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestIngest_RejectsUnknownExtensionWithoutType(t *testing.T) {
	svc, _, wsID := newTestService(t)

	_, err := svc.Ingest(context.Background(), wsID, "binary.bin", "", []byte("looks like text"))
	assert.ErrorIs(t, err, ErrUnsupportedType)

	_, err = svc.Ingest(context.Background(), wsID, "file.dat", "application/octet-stream", []byte("text"))
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestIngest_RejectsEmpty(t *testing.T) {
	svc, _, wsID := newTestService(t)

	_, err := svc.Ingest(context.Background(), wsID, "empty.txt", "text/plain", []byte("   \n\t  "))
	assert.ErrorIs(t, err, ErrEmptyDocument)
}

func TestIngest_RejectsOversized(t *testing.T) {
	svc, _, wsID := newTestService(t)

	big := strings.Repeat("a", 65*1024)
	_, err := svc.Ingest(context.Background(), wsID, "big.txt", "text/plain", []byte(big))
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestSearch_FindsIngestedContent(t *testing.T) {
	svc, _, wsID := newTestService(t)
	ctx := context.Background()

	_, err := svc.Ingest(ctx, wsID, "pricing.txt", "text/plain",
		[]byte("Usage-based pricing aligns revenue with customer value."))
	require.NoError(t, err)
	_, err = svc.Ingest(ctx, wsID, "hiring.txt", "text/plain",
		[]byte("The hiring plan adds four engineers in the fall."))
	require.NoError(t, err)

	results, err := svc.Search(ctx, wsID, "pricing revenue customer", 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Contains(t, results[0].Content, "pricing")
}

func TestDelete_RemovesRecordAndChunks(t *testing.T) {
	svc, st, wsID := newTestService(t)
	ctx := context.Background()

	doc, err := svc.Ingest(ctx, wsID, "notes.txt", "text/plain",
		[]byte("Churn is concentrated in the self-serve segment."))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, wsID, doc.ID))

	_, err = st.GetDocument(ctx, wsID, doc.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	results, err := svc.Search(ctx, wsID, "churn self-serve", 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestDelete_UnknownDocument(t *testing.T) {
	svc, _, wsID := newTestService(t)
	err := svc.Delete(context.Background(), wsID, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}
