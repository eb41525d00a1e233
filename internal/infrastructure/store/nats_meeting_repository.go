// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"errors"
	"time"

	"github.com/linuxfoundation/lfx-v2-meeting-assistant/internal/domain"
	"github.com/linuxfoundation/lfx-v2-meeting-assistant/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-meeting-assistant/pkg/utils"
)

// errTransitionSkipped marks a guarded mutation whose precondition did not hold.
var errTransitionSkipped = errors.New("meeting transition skipped")

// NatsMeetingRepository is the NATS KV store repository for meetings.
type NatsMeetingRepository struct {
	*NatsBaseRepository[models.Meeting]
	keyBuilder *KeyBuilder
	now        func() time.Time
}

// NewNatsMeetingRepository creates a new NATS KV store repository for meetings.
func NewNatsMeetingRepository(kvStore INatsKeyValue) *NatsMeetingRepository {
	return &NatsMeetingRepository{
		NatsBaseRepository: NewNatsBaseRepository[models.Meeting](kvStore, "meeting"),
		keyBuilder:         NewKeyBuilder(""),
		now:                func() time.Time { return time.Now().UTC() },
	}
}

func (r *NatsMeetingRepository) key(meetingID string) string {
	return r.keyBuilder.EntityKeyEncoded(KeyPrefixMeeting, meetingID)
}

// CreateMeeting stores a new meeting.
func (r *NatsMeetingRepository) CreateMeeting(ctx context.Context, meeting *models.Meeting) error {
	if meeting == nil || meeting.ID == "" {
		return domain.NewValidationError("meeting id is required")
	}
	now := r.now()
	if meeting.Status == "" {
		meeting.Status = models.MeetingStatusUpcoming
	}
	if meeting.CreatedAt == nil {
		meeting.CreatedAt = utils.TimePtr(now)
	}
	meeting.UpdatedAt = utils.TimePtr(now)
	return r.Create(ctx, r.key(meeting.ID), meeting)
}

// GetMeeting returns the meeting by id.
func (r *NatsMeetingRepository) GetMeeting(ctx context.Context, meetingID string) (*models.Meeting, error) {
	return r.Get(ctx, r.key(meetingID))
}

// GetMeetingInStatus returns the meeting only when it is in status.
func (r *NatsMeetingRepository) GetMeetingInStatus(ctx context.Context, meetingID string, status models.MeetingStatus) (*models.Meeting, error) {
	meeting, err := r.GetMeeting(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	if meeting.Status != status {
		return nil, domain.NewNotFoundError("meeting not in status " + string(status))
	}
	return meeting, nil
}

// StartMeeting moves a startable meeting to active.
func (r *NatsMeetingRepository) StartMeeting(ctx context.Context, meetingID string, startedAt time.Time) (*models.Meeting, error) {
	meeting, err := r.Mutate(ctx, r.key(meetingID), func(m *models.Meeting) error {
		if !m.Status.IsStartable() {
			return errTransitionSkipped
		}
		m.Status = models.MeetingStatusActive
		m.StartedAt = utils.TimePtr(startedAt)
		m.UpdatedAt = utils.TimePtr(r.now())
		return nil
	})
	if errors.Is(err, errTransitionSkipped) {
		return nil, domain.NewNotFoundError("meeting not found or not startable", err)
	}
	return meeting, err
}

// EndMeeting moves an active meeting to processing.
func (r *NatsMeetingRepository) EndMeeting(ctx context.Context, meetingID string, endedAt time.Time) (bool, error) {
	_, err := r.Mutate(ctx, r.key(meetingID), func(m *models.Meeting) error {
		if m.Status != models.MeetingStatusActive {
			return errTransitionSkipped
		}
		m.Status = models.MeetingStatusProcessing
		m.EndedAt = utils.TimePtr(endedAt)
		m.UpdatedAt = utils.TimePtr(r.now())
		return nil
	})
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, errTransitionSkipped), domain.GetErrorType(err) == domain.ErrorTypeNotFound:
		return false, nil
	default:
		return false, err
	}
}

// SetTranscriptURL records the transcript location.
func (r *NatsMeetingRepository) SetTranscriptURL(ctx context.Context, meetingID, transcriptURL string) (*models.Meeting, error) {
	return r.Mutate(ctx, r.key(meetingID), func(m *models.Meeting) error {
		m.TranscriptURL = utils.StringPtr(transcriptURL)
		m.UpdatedAt = utils.TimePtr(r.now())
		return nil
	})
}

// SetRecordingURL records the recording location; unknown meetings are ignored.
func (r *NatsMeetingRepository) SetRecordingURL(ctx context.Context, meetingID, recordingURL string) error {
	_, err := r.Mutate(ctx, r.key(meetingID), func(m *models.Meeting) error {
		m.RecordingURL = utils.StringPtr(recordingURL)
		m.UpdatedAt = utils.TimePtr(r.now())
		return nil
	})
	if err != nil && domain.GetErrorType(err) == domain.ErrorTypeNotFound {
		return nil
	}
	return err
}
