// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log/slog"

	"github.com/linuxfoundation/lfx-v2-meeting-assistant/internal/domain"
	"github.com/linuxfoundation/lfx-v2-meeting-assistant/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-meeting-assistant/internal/logging"
)

// WebhookRequest represents the webhook processing request
type WebhookRequest struct {
	Signature string
	APIKey    string
	RawBody   []byte
}

// WebhookService authenticates, classifies and dispatches platform webhook deliveries.
type WebhookService struct {
	webhookValidator domain.WebhookValidator
	lifecycle        *MeetingLifecycleService
	chatResponder    *ChatResponderService
}

// NewWebhookService creates a new WebhookService
func NewWebhookService(
	webhookValidator domain.WebhookValidator,
	lifecycle *MeetingLifecycleService,
	chatResponder *ChatResponderService,
) *WebhookService {
	return &WebhookService{
		webhookValidator: webhookValidator,
		lifecycle:        lifecycle,
		chatResponder:    chatResponder,
	}
}

// ServiceReady checks if the service is ready to process requests
func (s *WebhookService) ServiceReady() bool {
	return s.webhookValidator != nil &&
		s.lifecycle != nil && s.lifecycle.ServiceReady() &&
		s.chatResponder != nil && s.chatResponder.ServiceReady()
}

// ProcessWebhookEvent verifies the delivery and runs the handler for its event type.
// It returns the parsed event type (empty when parsing did not happen) for observability.
func (s *WebhookService) ProcessWebhookEvent(ctx context.Context, req WebhookRequest) (models.WebhookEventType, error) {
	logger := slog.With("component", "webhook_service", "method", "ProcessWebhookEvent")

	if req.Signature == "" || req.APIKey == "" {
		logger.WarnContext(ctx, "webhook missing signature or api key")
		return "", domain.NewValidationError(domain.MsgMissingSignature)
	}

	if err := s.webhookValidator.ValidateSignature(req.RawBody, req.Signature); err != nil {
		logger.WarnContext(ctx, "webhook signature rejected", logging.ErrKey, err)
		return "", domain.NewUnauthorizedError(domain.MsgInvalidSignature, err)
	}

	event, err := models.ParseWebhookEvent(req.RawBody)
	if err != nil {
		logger.WarnContext(ctx, "webhook payload is not valid JSON", logging.ErrKey, err)
		return "", domain.NewValidationError(domain.MsgInvalidJSON, err)
	}

	eventType := event.EventType()
	ctx = logging.AppendCtx(ctx, slog.String("event_type", string(eventType)))
	logger.DebugContext(ctx, "dispatching webhook event")

	return eventType, s.dispatch(ctx, event)
}

func (s *WebhookService) dispatch(ctx context.Context, event models.WebhookEvent) error {
	switch e := event.(type) {
	case models.CallSessionStartedEvent:
		return s.lifecycle.StartSession(ctx, e)
	case models.CallSessionParticipantLeftEvent:
		return s.lifecycle.EndCallOnParticipantLeft(ctx, e)
	case models.CallSessionEndedEvent:
		return s.lifecycle.EndSession(ctx, e)
	case models.CallTranscriptionReadyEvent:
		return s.lifecycle.RecordTranscript(ctx, e)
	case models.CallRecordingReadyEvent:
		return s.lifecycle.RecordRecording(ctx, e)
	case models.MessageNewEvent:
		return s.chatResponder.RespondToMessage(ctx, e)
	default:
		slog.DebugContext(ctx, "ignoring unhandled webhook event type")
		return nil
	}
}
