// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package messaging dispatches background jobs to the summarization workers.
package messaging

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/linuxfoundation/lfx-v2-meeting-assistant/internal/domain"
	"github.com/linuxfoundation/lfx-v2-meeting-assistant/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-meeting-assistant/internal/logging"
	"github.com/linuxfoundation/lfx-v2-meeting-assistant/internal/metrics"
)

// Job backend names reported in metrics.
const (
	BackendNATS  = "nats"
	BackendRedis = "redis"
)

// INatsConn is a NATS connection interface needed for the [MessageBuilder].
type INatsConn interface {
	IsConnected() bool
	Publish(subj string, data []byte) error
}

// MessageBuilder is the builder for job messages and sends them to the NATS server.
type MessageBuilder struct {
	NatsConn INatsConn
	now      func() time.Time
	newID    func() string
}

var _ domain.JobDispatcher = (*MessageBuilder)(nil)

// NewMessageBuilder creates a new MessageBuilder.
func NewMessageBuilder(natsConn INatsConn) *MessageBuilder {
	return &MessageBuilder{
		NatsConn: natsConn,
		now:      func() time.Time { return time.Now().UTC() },
		newID:    uuid.NewString,
	}
}

// IsReady reports whether the NATS connection is up.
func (m *MessageBuilder) IsReady() bool {
	return m.NatsConn != nil && m.NatsConn.IsConnected()
}

// sendMessage sends the message to the NATS server.
func (m *MessageBuilder) sendMessage(ctx context.Context, subject string, data []byte) error {
	err := m.NatsConn.Publish(subject, data)
	if err != nil {
		slog.ErrorContext(ctx, "error sending message to NATS", logging.ErrKey, err, "subject", subject)
		return err
	}
	slog.DebugContext(ctx, "sent message to NATS", "subject", subject)
	return nil
}

// DispatchMeetingProcessing publishes a meetings/processing job.
func (m *MessageBuilder) DispatchMeetingProcessing(ctx context.Context, data models.MeetingProcessingData) error {
	payload, err := encodeJob(m.newID(), models.MeetingsProcessingEvent, data, m.now())
	if err != nil {
		slog.ErrorContext(ctx, "error encoding job", logging.ErrKey, err, "job", models.MeetingsProcessingEvent)
		return err
	}

	err = m.sendMessage(ctx, models.MeetingsProcessingSubject, payload)
	metrics.JobsDispatchedTotal.WithLabelValues(models.MeetingsProcessingEvent, BackendNATS, metrics.StatusLabel(err)).Inc()
	return err
}

func encodeJob(id, name string, data any, ts time.Time) ([]byte, error) {
	event, err := models.NewJobEvent(id, name, data, ts)
	if err != nil {
		return nil, err
	}
	return json.Marshal(event)
}
