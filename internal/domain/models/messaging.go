// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package models

import (
	"encoding/json"
	"time"
)

// Background job event names.
const (
	// MeetingsProcessingEvent asks the summarization pipeline to process a finished meeting transcript.
	MeetingsProcessingEvent = "meetings/processing"
)

// NATS subjects that the meeting assistant publishes jobs to.
const (
	// MeetingsProcessingSubject is the subject for transcript processing jobs.
	// The subject is of the form: lfx.meeting_assistant.meetings.processing
	MeetingsProcessingSubject = "lfx.meeting_assistant.meetings.processing"
)

// MeetingProcessingData is the payload of a meetings/processing job.
type MeetingProcessingData struct {
	MeetingID     string `json:"meetingId"`
	TranscriptURL string `json:"transcriptUrl"`
}

// JobEvent is the envelope every background job is sent in.
type JobEvent struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"ts"`
}

// NewJobEvent builds a job envelope with the given id, name and payload.
func NewJobEvent(id, name string, data any, ts time.Time) (JobEvent, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return JobEvent{}, err
	}
	return JobEvent{ID: id, Name: name, Data: raw, Timestamp: ts}, nil
}
