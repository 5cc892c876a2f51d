package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger_Defaults(t *testing.T) {
	logger, err := NewLogger(NewDefaultConfig())
	require.NoError(t, err)
	require.NotNil(t, logger)

	assert.True(t, logger.Enabled(zapcore.InfoLevel))
	assert.False(t, logger.Enabled(zapcore.DebugLevel))
}

func TestNewLogger_InvalidFormat(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Format = "xml"

	_, err := NewLogger(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "format")
}

func TestConfig_Validate_EmptyFieldValue(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Fields = map[string]string{"env": ""}

	require.Error(t, cfg.Validate())
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, ParseLevel("warn"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("bogus"), "unknown levels default to info")
}

func TestContextFields_Correlation(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, ContextFields(ctx))

	ctx = WithRequestID(ctx, "req-1")
	ctx = WithUserID(ctx, "user-1")
	ctx = WithWorkspaceID(ctx, "ws-1")

	fields := ContextFields(ctx)
	require.Len(t, fields, 3)

	assert.Equal(t, "req-1", RequestIDFromContext(ctx))
	assert.Equal(t, "user-1", UserIDFromContext(ctx))
	assert.Equal(t, "ws-1", WorkspaceIDFromContext(ctx))
}

func TestFromContext_NopFallback(t *testing.T) {
	logger := FromContext(context.Background())
	require.NotNil(t, logger)

	// Round trip through context.
	ctx := WithLogger(context.Background(), logger)
	assert.Same(t, logger, FromContext(ctx))
}

func TestLogger_WithAndNamed(t *testing.T) {
	logger := NewNop()
	child := logger.With()
	require.NotNil(t, child)
	require.NotNil(t, logger.Named("store"))
	require.NotNil(t, logger.Underlying())
	require.NoError(t, logger.Sync())
}
