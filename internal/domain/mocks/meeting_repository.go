// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/linuxfoundation/lfx-v2-meeting-assistant/internal/domain/models"
)

// MockMeetingRepository implements MeetingRepository for testing
type MockMeetingRepository struct {
	mock.Mock
}

func (m *MockMeetingRepository) CreateMeeting(ctx context.Context, meeting *models.Meeting) error {
	args := m.Called(ctx, meeting)
	return args.Error(0)
}

func (m *MockMeetingRepository) GetMeeting(ctx context.Context, meetingID string) (*models.Meeting, error) {
	args := m.Called(ctx, meetingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Meeting), args.Error(1)
}

func (m *MockMeetingRepository) GetMeetingInStatus(ctx context.Context, meetingID string, status models.MeetingStatus) (*models.Meeting, error) {
	args := m.Called(ctx, meetingID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Meeting), args.Error(1)
}

func (m *MockMeetingRepository) StartMeeting(ctx context.Context, meetingID string, startedAt time.Time) (*models.Meeting, error) {
	args := m.Called(ctx, meetingID, startedAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Meeting), args.Error(1)
}

func (m *MockMeetingRepository) EndMeeting(ctx context.Context, meetingID string, endedAt time.Time) (bool, error) {
	args := m.Called(ctx, meetingID, endedAt)
	return args.Bool(0), args.Error(1)
}

func (m *MockMeetingRepository) SetTranscriptURL(ctx context.Context, meetingID, transcriptURL string) (*models.Meeting, error) {
	args := m.Called(ctx, meetingID, transcriptURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Meeting), args.Error(1)
}

func (m *MockMeetingRepository) SetRecordingURL(ctx context.Context, meetingID, recordingURL string) error {
	args := m.Called(ctx, meetingID, recordingURL)
	return args.Error(0)
}

func (m *MockMeetingRepository) IsReady() bool {
	args := m.Called()
	return args.Bool(0)
}
