// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package handlers contains the HTTP handlers of the meeting assistant.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/linuxfoundation/lfx-v2-meeting-assistant/internal/domain"
	"github.com/linuxfoundation/lfx-v2-meeting-assistant/internal/logging"
)

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse is the body of a successful webhook response.
type StatusResponse struct {
	Status string `json:"status"`
}

// statusCodeForError maps a domain error type to its HTTP status code.
func statusCodeForError(err error) int {
	switch domain.GetErrorType(err) {
	case domain.ErrorTypeValidation:
		return http.StatusBadRequest
	case domain.ErrorTypeUnauthorized:
		return http.StatusUnauthorized
	case domain.ErrorTypeNotFound:
		return http.StatusNotFound
	case domain.ErrorTypeConflict:
		return http.StatusConflict
	case domain.ErrorTypeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeJSON sends a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to write response body", logging.ErrKey, err)
	}
}

// writeError sends the client-facing message of err with its mapped status code.
func writeError(w http.ResponseWriter, err error) int {
	status := statusCodeForError(err)
	writeJSON(w, status, ErrorResponse{Error: domain.GetErrorMessage(err)})
	return status
}
