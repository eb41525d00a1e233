// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/linuxfoundation/lfx-v2-meeting-assistant/internal/metrics"
)

func TestMetricsMiddleware(t *testing.T) {
	handler := MetricsMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	counter := metrics.HTTPRequestsTotal.WithLabelValues(http.MethodPost, "/api/webhook", "401")
	before := testutil.ToFloat64(counter)

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/webhook", nil))

	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}

func TestNormalizePath(t *testing.T) {
	tests := map[string]string{
		"/api/webhook":     "/api/webhook",
		"/livez":           "/livez",
		"/readyz":          "/readyz",
		"/metrics":         "/metrics",
		"/api/webhook/123": "other",
		"/":                "other",
	}
	for path, expected := range tests {
		assert.Equal(t, expected, normalizePath(path), path)
	}
}
