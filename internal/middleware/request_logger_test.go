// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linuxfoundation/lfx-v2-meeting-assistant/internal/logging"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	previous := slog.Default()
	slog.SetDefault(slog.New(logging.NewHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(previous) })
	return buf
}

func TestRequestLoggerMiddleware(t *testing.T) {
	t.Run("logs request and response with status", func(t *testing.T) {
		buf := captureLogs(t)
		handler := RequestLoggerMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))

		req := httptest.NewRequest(http.MethodPost, "/api/webhook?x=1", nil)
		handler.ServeHTTP(httptest.NewRecorder(), req)

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		require.Len(t, lines, 2)

		var response map[string]any
		require.NoError(t, json.Unmarshal([]byte(lines[1]), &response))
		assert.Equal(t, "HTTP response", response["msg"])
		assert.Equal(t, float64(http.StatusNotFound), response["status"])
		assert.Equal(t, "/api/webhook", response["path"])
		assert.Equal(t, "x=1", response["query"])
		assert.Equal(t, http.MethodPost, response["method"])
	})

	t.Run("status defaults to 200 when handler only writes body", func(t *testing.T) {
		buf := captureLogs(t)
		handler := RequestLoggerMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("ok"))
		}))

		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/metrics", nil))

		assert.Contains(t, buf.String(), `"status":200`)
	})

	t.Run("health checks are not logged", func(t *testing.T) {
		for _, path := range []string{"/livez", "/readyz"} {
			buf := captureLogs(t)
			handler := RequestLoggerMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

			handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))

			assert.Empty(t, buf.String(), path)
		}
	})
}

func TestRequestLoggerMiddleware_ResponseLevel(t *testing.T) {
	tests := []struct {
		status int
		level  string
	}{
		{status: http.StatusOK, level: "INFO"},
		{status: http.StatusUnauthorized, level: "WARN"},
		{status: http.StatusServiceUnavailable, level: "ERROR"},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			buf := captureLogs(t)
			handler := RequestLoggerMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte("body"))
			}))

			handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/webhook", nil))

			lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
			var response map[string]any
			require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &response))
			assert.Equal(t, tt.level, response["level"])
			assert.Equal(t, float64(4), response["bytes"])
		})
	}
}
