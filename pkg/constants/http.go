// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package constants

// Constants for the HTTP request headers
const (
	// RequestIDHeader is the header name for the request ID
	RequestIDHeader string = "X-REQUEST-ID"

	// SignatureHeader is the header carrying the platform's HMAC signature of the raw body
	SignatureHeader string = "x-signature"

	// APIKeyHeader is the header carrying the platform API key
	APIKeyHeader string = "x-api-key"

	// ContentTypeHeader is the header name for the content type
	ContentTypeHeader string = "Content-Type"

	// ContentTypeJSON is the JSON media type
	ContentTypeJSON string = "application/json"
)

// HTTP routes served by the meeting assistant.
const (
	// WebhookPath is the route the video and chat platform delivers events to
	WebhookPath = "/api/webhook"

	// LivezPath is the liveness probe route
	LivezPath = "/livez"

	// ReadyzPath is the readiness probe route
	ReadyzPath = "/readyz"

	// MetricsPath is the Prometheus scrape route
	MetricsPath = "/metrics"
)

// contextRequestID is the type for the request ID context key
type contextRequestID string

// RequestIDContextID is the context ID for the request ID
const RequestIDContextID contextRequestID = "X-REQUEST-ID"

// IsHealthCheckPath reports whether the path is one of the probe routes.
func IsHealthCheckPath(path string) bool {
	return path == LivezPath || path == ReadyzPath
}
