// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/linuxfoundation/lfx-v2-meeting-assistant/internal/metrics"
	"github.com/linuxfoundation/lfx-v2-meeting-assistant/pkg/constants"
)

// MetricsMiddleware records request counts and latency per route.
func MetricsMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ww := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(ww, r)

			path := normalizePath(r.URL.Path)
			metrics.HTTPRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(ww.statusCode)).Inc()
			metrics.HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
		})
	}
}

// normalizePath collapses unknown paths to keep label cardinality bounded.
func normalizePath(path string) string {
	switch path {
	case constants.WebhookPath, constants.LivezPath, constants.ReadyzPath, constants.MetricsPath:
		return path
	default:
		return "other"
	}
}
