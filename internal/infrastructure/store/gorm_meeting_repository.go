// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/gorm"

	"github.com/linuxfoundation/lfx-v2-meeting-assistant/internal/domain"
	"github.com/linuxfoundation/lfx-v2-meeting-assistant/internal/domain/models"
)

// GormMeetingRepository stores meetings in a relational database. Status transitions are
// single UPDATE statements whose WHERE clause carries the precondition.
type GormMeetingRepository struct {
	gormBase
	now func() time.Time
}

// NewGormMeetingRepository creates a meeting repository on db.
func NewGormMeetingRepository(db *gorm.DB) *GormMeetingRepository {
	return &GormMeetingRepository{
		gormBase: gormBase{db: db, entityName: "meeting", table: meetingRow{}.TableName()},
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// CreateMeeting stores a new meeting.
func (r *GormMeetingRepository) CreateMeeting(ctx context.Context, meeting *models.Meeting) error {
	if meeting == nil || meeting.ID == "" {
		return domain.NewValidationError("meeting id is required")
	}
	ctx, span := r.startSpan(ctx, "insert")
	defer span.End()

	now := r.now()
	if meeting.Status == "" {
		meeting.Status = models.MeetingStatusUpcoming
	}
	if meeting.CreatedAt == nil {
		meeting.CreatedAt = &now
	}
	meeting.UpdatedAt = &now

	row := meetingRowFromModel(meeting)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return r.translate(span, err, "create")
	}
	span.SetStatus(codes.Ok, "")
	return nil
}

// GetMeeting returns the meeting by id.
func (r *GormMeetingRepository) GetMeeting(ctx context.Context, meetingID string) (*models.Meeting, error) {
	ctx, span := r.startSpan(ctx, "select")
	defer span.End()

	var row meetingRow
	if err := r.db.WithContext(ctx).Where("id = ?", meetingID).Take(&row).Error; err != nil {
		return nil, r.translate(span, err, "get")
	}
	span.SetStatus(codes.Ok, "")
	return row.toModel(), nil
}

// GetMeetingInStatus returns the meeting only when it is in status.
func (r *GormMeetingRepository) GetMeetingInStatus(ctx context.Context, meetingID string, status models.MeetingStatus) (*models.Meeting, error) {
	ctx, span := r.startSpan(ctx, "select")
	defer span.End()

	var row meetingRow
	err := r.db.WithContext(ctx).
		Where("id = ? AND status = ?", meetingID, string(status)).
		Take(&row).Error
	if err != nil {
		return nil, r.translate(span, err, "get")
	}
	span.SetStatus(codes.Ok, "")
	return row.toModel(), nil
}

// guardedUpdate applies updates to the meeting when where holds and reports whether a row changed.
func (r *GormMeetingRepository) guardedUpdate(ctx context.Context, meetingID string, updates map[string]any, where string, args ...any) (bool, error) {
	ctx, span := r.startSpan(ctx, "update")
	defer span.End()

	updates["updated_at"] = r.now()
	query := r.db.WithContext(ctx).Model(&meetingRow{}).Where("id = ?", meetingID)
	if where != "" {
		query = query.Where(where, args...)
	}
	res := query.Updates(updates)
	if res.Error != nil {
		return false, r.translate(span, res.Error, "update")
	}

	span.SetAttributes(attribute.Int64("db.rows_affected", res.RowsAffected))
	span.SetStatus(codes.Ok, "")
	return res.RowsAffected > 0, nil
}

// StartMeeting moves a startable meeting to active.
func (r *GormMeetingRepository) StartMeeting(ctx context.Context, meetingID string, startedAt time.Time) (*models.Meeting, error) {
	blocked := make([]string, 0, len(models.NonStartableStatuses))
	for _, status := range models.NonStartableStatuses {
		blocked = append(blocked, string(status))
	}

	applied, err := r.guardedUpdate(ctx, meetingID, map[string]any{
		"status":     string(models.MeetingStatusActive),
		"started_at": startedAt,
	}, "status NOT IN ?", blocked)
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, domain.NewNotFoundError("meeting not found or not startable")
	}
	return r.GetMeeting(ctx, meetingID)
}

// EndMeeting moves an active meeting to processing.
func (r *GormMeetingRepository) EndMeeting(ctx context.Context, meetingID string, endedAt time.Time) (bool, error) {
	return r.guardedUpdate(ctx, meetingID, map[string]any{
		"status":   string(models.MeetingStatusProcessing),
		"ended_at": endedAt,
	}, "status = ?", string(models.MeetingStatusActive))
}

// SetTranscriptURL records the transcript location.
func (r *GormMeetingRepository) SetTranscriptURL(ctx context.Context, meetingID, transcriptURL string) (*models.Meeting, error) {
	applied, err := r.guardedUpdate(ctx, meetingID, map[string]any{"transcript_url": transcriptURL}, "")
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, domain.NewNotFoundError("meeting not found")
	}
	return r.GetMeeting(ctx, meetingID)
}

// SetRecordingURL records the recording location; unknown meetings are ignored.
func (r *GormMeetingRepository) SetRecordingURL(ctx context.Context, meetingID, recordingURL string) error {
	_, err := r.guardedUpdate(ctx, meetingID, map[string]any{"recording_url": recordingURL}, "")
	return err
}
