// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// WebhookEventType is the `type` discriminator of a platform webhook delivery.
type WebhookEventType string

// Webhook event types handled by the meeting assistant.
const (
	EventCallSessionStarted         WebhookEventType = "call.session_started"
	EventCallSessionParticipantLeft WebhookEventType = "call.session_participant_left"
	EventCallSessionEnded           WebhookEventType = "call.session_ended"
	EventCallTranscriptionReady     WebhookEventType = "call.transcription_ready"
	EventCallRecordingReady         WebhookEventType = "call.recording_ready"
	EventMessageNew                 WebhookEventType = "message.new"
)

// WebhookEvent is a parsed webhook delivery. Concrete types are the *Event structs
// in this file; anything with an unrecognized type parses to UnknownEvent.
type WebhookEvent interface {
	EventType() WebhookEventType
}

// CallCustomData is the custom data attached to a call when it was created.
type CallCustomData struct {
	MeetingID string `json:"meetingId"`
}

// CallInfo is the call object embedded in session events.
type CallInfo struct {
	CID    string         `json:"cid"`
	ID     string         `json:"id"`
	Type   string         `json:"type"`
	Custom CallCustomData `json:"custom"`
}

// CallArtifact is a transcription or recording produced for a call.
type CallArtifact struct {
	URL       string `json:"url"`
	Filename  string `json:"filename,omitempty"`
	StartTime string `json:"start_time,omitempty"`
	EndTime   string `json:"end_time,omitempty"`
}

// EventUser is a platform user reference.
type EventUser struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// EventMessage is the chat message carried by message.new.
type EventMessage struct {
	ID   string    `json:"id"`
	Text string    `json:"text"`
	User EventUser `json:"user"`
}

// CallSessionStartedEvent is delivered when the first participant joins a call.
type CallSessionStartedEvent struct {
	CallCID   string   `json:"call_cid"`
	SessionID string   `json:"session_id"`
	Call      CallInfo `json:"call"`
}

// EventType implements WebhookEvent.
func (CallSessionStartedEvent) EventType() WebhookEventType { return EventCallSessionStarted }

// MeetingID returns the meeting id stored in the call's custom data.
func (e CallSessionStartedEvent) MeetingID() string { return e.Call.Custom.MeetingID }

// CallSessionParticipantLeftEvent is delivered when a participant leaves a call.
type CallSessionParticipantLeftEvent struct {
	CallCID     string    `json:"call_cid"`
	SessionID   string    `json:"session_id"`
	Participant EventUser `json:"participant"`
}

// EventType implements WebhookEvent.
func (CallSessionParticipantLeftEvent) EventType() WebhookEventType {
	return EventCallSessionParticipantLeft
}

// MeetingID returns the call id portion of the call cid.
func (e CallSessionParticipantLeftEvent) MeetingID() string { return MeetingIDFromCallCID(e.CallCID) }

// CallSessionEndedEvent is delivered when a call session ends.
type CallSessionEndedEvent struct {
	CallCID   string   `json:"call_cid"`
	SessionID string   `json:"session_id"`
	Call      CallInfo `json:"call"`
}

// EventType implements WebhookEvent.
func (CallSessionEndedEvent) EventType() WebhookEventType { return EventCallSessionEnded }

// MeetingID returns the meeting id stored in the call's custom data.
func (e CallSessionEndedEvent) MeetingID() string { return e.Call.Custom.MeetingID }

// CallTranscriptionReadyEvent is delivered when the call transcript file is available.
type CallTranscriptionReadyEvent struct {
	CallCID           string       `json:"call_cid"`
	CallTranscription CallArtifact `json:"call_transcription"`
}

// EventType implements WebhookEvent.
func (CallTranscriptionReadyEvent) EventType() WebhookEventType { return EventCallTranscriptionReady }

// MeetingID returns the call id portion of the call cid.
func (e CallTranscriptionReadyEvent) MeetingID() string { return MeetingIDFromCallCID(e.CallCID) }

// CallRecordingReadyEvent is delivered when the call recording file is available.
type CallRecordingReadyEvent struct {
	CallCID       string       `json:"call_cid"`
	CallRecording CallArtifact `json:"call_recording"`
}

// EventType implements WebhookEvent.
func (CallRecordingReadyEvent) EventType() WebhookEventType { return EventCallRecordingReady }

// MeetingID returns the call id portion of the call cid.
func (e CallRecordingReadyEvent) MeetingID() string { return MeetingIDFromCallCID(e.CallCID) }

// MessageNewEvent is delivered for every new chat message.
type MessageNewEvent struct {
	CID         string       `json:"cid"`
	ChannelID   string       `json:"channel_id"`
	ChannelType string       `json:"channel_type"`
	Message     EventMessage `json:"message"`
	User        EventUser    `json:"user"`
}

// EventType implements WebhookEvent.
func (MessageNewEvent) EventType() WebhookEventType { return EventMessageNew }

// UserID returns the sender of the message.
func (e MessageNewEvent) UserID() string { return e.User.ID }

// Text returns the message body.
func (e MessageNewEvent) Text() string { return e.Message.Text }

// UnknownEvent is any delivery whose type is not handled.
type UnknownEvent struct {
	Type WebhookEventType
}

// EventType implements WebhookEvent.
func (e UnknownEvent) EventType() WebhookEventType { return e.Type }

// MeetingIDFromCallCID extracts the call id from a "<type>:<id>" call cid.
// It returns an empty string when the cid has no second segment.
func MeetingIDFromCallCID(cid string) string {
	parts := strings.Split(cid, ":")
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}

// ParseWebhookEvent decodes a raw webhook body into its typed event.
func ParseWebhookEvent(body []byte) (WebhookEvent, error) {
	var envelope struct {
		Type WebhookEventType `json:"type"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode webhook envelope: %w", err)
	}

	var event WebhookEvent
	var err error
	switch envelope.Type {
	case EventCallSessionStarted:
		event, err = decodeEvent[CallSessionStartedEvent](body)
	case EventCallSessionParticipantLeft:
		event, err = decodeEvent[CallSessionParticipantLeftEvent](body)
	case EventCallSessionEnded:
		event, err = decodeEvent[CallSessionEndedEvent](body)
	case EventCallTranscriptionReady:
		event, err = decodeEvent[CallTranscriptionReadyEvent](body)
	case EventCallRecordingReady:
		event, err = decodeEvent[CallRecordingReadyEvent](body)
	case EventMessageNew:
		event, err = decodeEvent[MessageNewEvent](body)
	default:
		return UnknownEvent{Type: envelope.Type}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s event: %w", envelope.Type, err)
	}
	return event, nil
}

func decodeEvent[T WebhookEvent](body []byte) (WebhookEvent, error) {
	var event T
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, err
	}
	return event, nil
}
