// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainErrorConstructors(t *testing.T) {
	cause := errors.New("boom")

	tests := []struct {
		name         string
		err          *DomainError
		expectedType ErrorType
	}{
		{"validation", NewValidationError(MsgInvalidJSON, cause), ErrorTypeValidation},
		{"unauthorized", NewUnauthorizedError(MsgInvalidSignature), ErrorTypeUnauthorized},
		{"not found", NewNotFoundError(MsgMeetingNotFound), ErrorTypeNotFound},
		{"conflict", NewConflictError("meeting has been modified", cause), ErrorTypeConflict},
		{"internal", NewInternalError(MsgNoModelResponse), ErrorTypeInternal},
		{"unavailable", NewUnavailableError("store is not available"), ErrorTypeUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expectedType, GetErrorType(tt.err))
			assert.Equal(t, tt.err.Message, GetErrorMessage(tt.err))
		})
	}
}

func TestDomainError_ErrorAndUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewInternalError("failed to update meeting", cause)

	assert.Equal(t, "failed to update meeting: connection refused", err.Error())
	assert.ErrorIs(t, err, cause)

	bare := NewNotFoundError(MsgAgentNotFound)
	assert.Equal(t, MsgAgentNotFound, bare.Error())
	assert.Nil(t, bare.Unwrap())
}

func TestGetErrorType_Wrapped(t *testing.T) {
	wrapped := fmt.Errorf("handling event: %w", NewNotFoundError(MsgMeetingNotFound))

	assert.Equal(t, ErrorTypeNotFound, GetErrorType(wrapped))
	assert.Equal(t, MsgMeetingNotFound, GetErrorMessage(wrapped))
}

func TestGetErrorType_PlainError(t *testing.T) {
	err := errors.New("plain")

	assert.Equal(t, ErrorTypeInternal, GetErrorType(err))
	assert.Equal(t, MsgInternal, GetErrorMessage(err))
}
