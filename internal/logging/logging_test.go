// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendCtx(t *testing.T) {
	ctx := AppendCtx(context.TODO(), slog.String("key1", "value1"))

	attrs, ok := ctx.Value(slogFields).([]slog.Attr)
	require.True(t, ok, "expected slog attributes in context")
	require.Len(t, attrs, 1)
	assert.Equal(t, "key1", attrs[0].Key)
	assert.Equal(t, "value1", attrs[0].Value.String())
}

func TestAppendCtx_WithParent(t *testing.T) {
	parent := AppendCtx(context.Background(), slog.String("parent_key", "parent_value"))
	child := AppendCtx(parent, slog.String("child_key", "child_value"))

	attrs, ok := child.Value(slogFields).([]slog.Attr)
	require.True(t, ok)
	require.Len(t, attrs, 2)
	assert.Equal(t, "parent_key", attrs[0].Key)
	assert.Equal(t, "child_key", attrs[1].Key)

	parentAttrs := parent.Value(slogFields).([]slog.Attr)
	assert.Len(t, parentAttrs, 1, "parent context must not see child attributes")
}

func TestAppendCtx_SiblingsDoNotShareAttributes(t *testing.T) {
	parent := AppendCtx(context.Background(), slog.String("request_id", "abc"))
	parent = AppendCtx(parent, slog.String("path", "/api/webhook"))

	first := AppendCtx(parent, slog.String("event_type", "call.session_started"))
	second := AppendCtx(parent, slog.String("event_type", "message.new"))

	firstAttrs := first.Value(slogFields).([]slog.Attr)
	secondAttrs := second.Value(slogFields).([]slog.Attr)
	assert.Equal(t, "call.session_started", firstAttrs[2].Value.String())
	assert.Equal(t, "message.new", secondAttrs[2].Value.String())
}

func TestContextHandler_Handle(t *testing.T) {
	var captured slog.Record
	handler := contextHandler{Handler: &testSlogHandler{
		handleFunc: func(_ context.Context, r slog.Record) error {
			captured = r
			return nil
		},
	}}

	ctx := AppendCtx(context.Background(), slog.String("ctx_key", "ctx_value"))
	record := slog.NewRecord(time.Now(), slog.LevelInfo, "test message", 0)
	record.AddAttrs(slog.String("record_key", "record_value"))

	require.NoError(t, handler.Handle(ctx, record))

	found := map[string]string{}
	captured.Attrs(func(a slog.Attr) bool {
		found[a.Key] = a.Value.String()
		return true
	})
	assert.Equal(t, "record_value", found["record_key"])
	assert.Equal(t, "ctx_value", found["ctx_key"])
}

func TestNewHandler_WritesContextAttributes(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	ctx := AppendCtx(context.Background(), slog.String("meeting_id", "m-1"))
	logger.With("component", "test").InfoContext(ctx, "hello", ErrKey, "boom")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "hello", line["msg"])
	assert.Equal(t, "m-1", line["meeting_id"])
	assert.Equal(t, "test", line["component"])
	assert.Equal(t, "boom", line["error"])
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		value    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"unknown", logLevelDefault},
		{"", logLevelDefault},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLevel(tt.value))
		})
	}
}

func TestInitStructureLogConfig(t *testing.T) {
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("LOG_ADD_SOURCE", "true")

	handler := InitStructureLogConfig()
	require.NotNil(t, handler)
	assert.False(t, handler.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, handler.Enabled(context.Background(), slog.LevelWarn))
}

func TestPriorityCritical(t *testing.T) {
	attr := PriorityCritical()
	assert.Equal(t, "priority", attr.Key)
	assert.Equal(t, "critical", attr.Value.String())
}

// testSlogHandler is a helper for testing
type testSlogHandler struct {
	handleFunc func(context.Context, slog.Record) error
}

func (h *testSlogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return true
}

func (h *testSlogHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.handleFunc != nil {
		return h.handleFunc(ctx, r)
	}
	return nil
}

func (h *testSlogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return h
}

func (h *testSlogHandler) WithGroup(name string) slog.Handler {
	return h
}
