// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/linuxfoundation/lfx-v2-meeting-assistant/internal/domain/models"
)

// MockJobDispatcher implements JobDispatcher for testing
type MockJobDispatcher struct {
	mock.Mock
}

func (m *MockJobDispatcher) DispatchMeetingProcessing(ctx context.Context, data models.MeetingProcessingData) error {
	args := m.Called(ctx, data)
	return args.Error(0)
}

func (m *MockJobDispatcher) IsReady() bool {
	args := m.Called()
	return args.Bool(0)
}
