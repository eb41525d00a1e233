// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package models

import (
	"time"
)

// MeetingStatus is the lifecycle state of a meeting.
type MeetingStatus string

// Meeting statuses. Transitions only move forward:
// upcoming -> active -> processing -> completed, with cancelled reachable from upcoming or active.
const (
	MeetingStatusUpcoming   MeetingStatus = "upcoming"
	MeetingStatusActive     MeetingStatus = "active"
	MeetingStatusProcessing MeetingStatus = "processing"
	MeetingStatusCompleted  MeetingStatus = "completed"
	MeetingStatusCancelled  MeetingStatus = "cancelled"
)

// NonStartableStatuses are the statuses from which a session start must not reactivate a meeting.
var NonStartableStatuses = []MeetingStatus{
	MeetingStatusCompleted,
	MeetingStatusActive,
	MeetingStatusCancelled,
	MeetingStatusProcessing,
}

// IsStartable reports whether a meeting in this status may transition to active.
func (s MeetingStatus) IsStartable() bool {
	for _, blocked := range NonStartableStatuses {
		if s == blocked {
			return false
		}
	}
	return true
}

// IsTerminal reports whether no further transition is possible from this status.
func (s MeetingStatus) IsTerminal() bool {
	return s == MeetingStatusCompleted || s == MeetingStatusCancelled
}

// Meeting is a scheduled session between a user and an agent. Its ID doubles as the
// video call ID and the chat channel ID on the external platform.
type Meeting struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	UserID        string        `json:"user_id"`
	AgentID       string        `json:"agent_id"`
	Status        MeetingStatus `json:"status"`
	StartedAt     *time.Time    `json:"started_at,omitempty"`
	EndedAt       *time.Time    `json:"ended_at,omitempty"`
	TranscriptURL *string       `json:"transcript_url,omitempty"`
	RecordingURL  *string       `json:"recording_url,omitempty"`
	Summary       *string       `json:"summary,omitempty"`
	CreatedAt     *time.Time    `json:"created_at,omitempty"`
	UpdatedAt     *time.Time    `json:"updated_at,omitempty"`
}
