// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package domain

import (
	"context"
	"time"

	"github.com/linuxfoundation/lfx-v2-meeting-assistant/internal/domain/models"
)

// MeetingRepository defines the interface for meeting storage operations.
// This interface can be implemented by different storage backends (PostgreSQL, SQLite, NATS KV).
// Every status transition is a guarded write: the precondition and the update are applied
// atomically, so duplicate or concurrent webhook deliveries cannot apply a transition twice.
type MeetingRepository interface {
	CreateMeeting(ctx context.Context, meeting *models.Meeting) error
	GetMeeting(ctx context.Context, meetingID string) (*models.Meeting, error)

	// GetMeetingInStatus returns the meeting only when it is currently in status,
	// otherwise a NotFound error.
	GetMeetingInStatus(ctx context.Context, meetingID string, status models.MeetingStatus) (*models.Meeting, error)

	// StartMeeting moves a startable meeting to active and records startedAt.
	// It returns a NotFound error when the meeting is missing or not startable.
	StartMeeting(ctx context.Context, meetingID string, startedAt time.Time) (*models.Meeting, error)

	// EndMeeting moves an active meeting to processing and records endedAt.
	// It reports whether the transition was applied; any other status is left untouched.
	EndMeeting(ctx context.Context, meetingID string, endedAt time.Time) (bool, error)

	// SetTranscriptURL records the transcript location, returning a NotFound error
	// when the meeting does not exist.
	SetTranscriptURL(ctx context.Context, meetingID, transcriptURL string) (*models.Meeting, error)

	// SetRecordingURL records the recording location. A missing meeting is not an error.
	SetRecordingURL(ctx context.Context, meetingID, recordingURL string) error

	IsReady() bool
}

// AgentRepository defines the interface for agent storage operations.
type AgentRepository interface {
	CreateAgent(ctx context.Context, agent *models.Agent) error
	GetAgent(ctx context.Context, agentID string) (*models.Agent, error)
	IsReady() bool
}
