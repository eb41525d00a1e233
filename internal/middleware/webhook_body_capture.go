// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/linuxfoundation/lfx-v2-meeting-assistant/internal/domain"
	"github.com/linuxfoundation/lfx-v2-meeting-assistant/internal/logging"
	"github.com/linuxfoundation/lfx-v2-meeting-assistant/pkg/constants"
)

// maxWebhookBodyBytes bounds the webhook payload held in memory.
const maxWebhookBodyBytes = 1 << 20

// WebhookBodyContextKey is the context key for storing raw webhook body
type WebhookBodyContextKey struct{}

// WebhookBodyCaptureMiddleware buffers webhook deliveries so the signature can be checked
// against the exact bytes that were sent. Other paths and methods pass through untouched,
// as do deliveries without signature headers so the handler rejects those first.
// A body over the size limit cannot be verified and is answered as an invalid payload.
func WebhookBodyCaptureMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost || r.URL.Path != constants.WebhookPath ||
				r.Header.Get(constants.SignatureHeader) == "" || r.Header.Get(constants.APIKeyHeader) == "" {
				next.ServeHTTP(w, r)
				return
			}

			body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBodyBytes))
			_ = r.Body.Close()
			if err != nil {
				slog.WarnContext(r.Context(), "unable to read webhook body",
					logging.ErrKey, err, "limit_bytes", maxWebhookBodyBytes)
				w.Header().Set(constants.ContentTypeHeader, "application/json")
				w.WriteHeader(http.StatusBadRequest)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": domain.MsgInvalidJSON})
				return
			}

			r.Body = io.NopCloser(bytes.NewReader(body))
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), WebhookBodyContextKey{}, body)))
		})
	}
}

// GetRawBodyFromContext extracts the raw body from the context
func GetRawBodyFromContext(ctx context.Context) ([]byte, bool) {
	body, ok := ctx.Value(WebhookBodyContextKey{}).([]byte)
	return body, ok
}
