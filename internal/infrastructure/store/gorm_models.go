// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package store

import (
	"time"

	"github.com/linuxfoundation/lfx-v2-meeting-assistant/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-meeting-assistant/pkg/utils"
)

type meetingRow struct {
	ID            string `gorm:"primaryKey;size:191"`
	Name          string `gorm:"not null"`
	UserID        string `gorm:"size:191;not null;index"`
	AgentID       string `gorm:"size:191;not null;index"`
	Status        string `gorm:"size:32;not null;default:upcoming;index"`
	StartedAt     *time.Time
	EndedAt       *time.Time
	TranscriptURL *string
	RecordingURL  *string
	Summary       *string
	CreatedAt     time.Time `gorm:"not null"`
	UpdatedAt     time.Time `gorm:"not null"`
}

func (meetingRow) TableName() string {
	return "meetings"
}

func (r meetingRow) toModel() *models.Meeting {
	return &models.Meeting{
		ID:            r.ID,
		Name:          r.Name,
		UserID:        r.UserID,
		AgentID:       r.AgentID,
		Status:        models.MeetingStatus(r.Status),
		StartedAt:     r.StartedAt,
		EndedAt:       r.EndedAt,
		TranscriptURL: r.TranscriptURL,
		RecordingURL:  r.RecordingURL,
		Summary:       r.Summary,
		CreatedAt:     utils.TimePtr(r.CreatedAt),
		UpdatedAt:     utils.TimePtr(r.UpdatedAt),
	}
}

func meetingRowFromModel(m *models.Meeting) meetingRow {
	return meetingRow{
		ID:            m.ID,
		Name:          m.Name,
		UserID:        m.UserID,
		AgentID:       m.AgentID,
		Status:        string(m.Status),
		StartedAt:     m.StartedAt,
		EndedAt:       m.EndedAt,
		TranscriptURL: m.TranscriptURL,
		RecordingURL:  m.RecordingURL,
		Summary:       m.Summary,
		CreatedAt:     utils.TimeValue(m.CreatedAt),
		UpdatedAt:     utils.TimeValue(m.UpdatedAt),
	}
}

type agentRow struct {
	ID           string    `gorm:"primaryKey;size:191"`
	Name         string    `gorm:"not null"`
	UserID       string    `gorm:"size:191;not null;index"`
	Instructions string    `gorm:"type:text;not null"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

func (agentRow) TableName() string {
	return "agents"
}

func (r agentRow) toModel() *models.Agent {
	return &models.Agent{
		ID:           r.ID,
		Name:         r.Name,
		UserID:       r.UserID,
		Instructions: r.Instructions,
		CreatedAt:    utils.TimePtr(r.CreatedAt),
		UpdatedAt:    utils.TimePtr(r.UpdatedAt),
	}
}

func agentRowFromModel(a *models.Agent) agentRow {
	return agentRow{
		ID:           a.ID,
		Name:         a.Name,
		UserID:       a.UserID,
		Instructions: a.Instructions,
		CreatedAt:    utils.TimeValue(a.CreatedAt),
		UpdatedAt:    utils.TimeValue(a.UpdatedAt),
	}
}
