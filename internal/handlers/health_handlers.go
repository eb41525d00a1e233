// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package handlers

import (
	"net/http"

	"github.com/linuxfoundation/lfx-v2-meeting-assistant/internal/domain"
)

// ReadinessChecker reports whether a component can take inbound requests.
type ReadinessChecker interface {
	ServiceReady() bool
}

// HealthHandler serves the liveness and readiness probes.
type HealthHandler struct {
	checkers []ReadinessChecker
}

// NewHealthHandler creates a HealthHandler that is ready when every checker is.
func NewHealthHandler(checkers ...ReadinessChecker) *HealthHandler {
	return &HealthHandler{checkers: checkers}
}

// Livez always returns OK while the process is running. As this endpoint is
// expected to be used as a Kubernetes liveness check, the service must
// self-terminate on non-recoverable errors.
func (h *HealthHandler) Livez(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write([]byte("OK\n"))
}

// Readyz checks if the service is able to take inbound requests.
func (h *HealthHandler) Readyz(w http.ResponseWriter, _ *http.Request) {
	for _, checker := range h.checkers {
		if !checker.ServiceReady() {
			writeError(w, domain.NewUnavailableError(domain.MsgServiceUnavailable))
			return
		}
	}
	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write([]byte("OK\n"))
}
