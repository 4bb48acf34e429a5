package context_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appctx "github.com/Roma7-7-7/story-learning/internal/context"
)

func TestRequestIDFromContext(t *testing.T) {
	_, ok := appctx.RequestIDFromContext(context.Background())
	assert.False(t, ok)

	_, ok = appctx.RequestIDFromContext(appctx.WithRequestID(context.Background(), ""))
	assert.False(t, ok)

	id, ok := appctx.RequestIDFromContext(appctx.WithRequestID(context.Background(), "abc"))
	require.True(t, ok)
	assert.Equal(t, "abc", id)
}

func TestLogHandler(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(appctx.NewLogHandler(slog.NewTextHandler(&buf, nil))).With("component", "test")

	log.InfoContext(appctx.WithRequestID(context.Background(), "req-1"), "with id")
	assert.Contains(t, buf.String(), "request_id=req-1")
	assert.Contains(t, buf.String(), "component=test")

	buf.Reset()
	log.InfoContext(context.Background(), "without id")
	assert.NotContains(t, buf.String(), "request_id")
}
