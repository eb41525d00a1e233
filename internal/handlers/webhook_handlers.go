// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package handlers

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/linuxfoundation/lfx-v2-meeting-assistant/internal/domain"
	"github.com/linuxfoundation/lfx-v2-meeting-assistant/internal/logging"
	"github.com/linuxfoundation/lfx-v2-meeting-assistant/internal/metrics"
	"github.com/linuxfoundation/lfx-v2-meeting-assistant/internal/middleware"
	"github.com/linuxfoundation/lfx-v2-meeting-assistant/internal/service"
	"github.com/linuxfoundation/lfx-v2-meeting-assistant/pkg/constants"
)

// unparsedEventType labels webhook metrics for deliveries rejected before parsing.
const unparsedEventType = "unparsed"

// WebhookHandler handles platform webhook deliveries.
type WebhookHandler struct {
	webhookService *service.WebhookService
}

// NewWebhookHandler creates a new WebhookHandler
func NewWebhookHandler(webhookService *service.WebhookService) *WebhookHandler {
	return &WebhookHandler{webhookService: webhookService}
}

// HandleWebhook authenticates and processes a single delivery.
func (h *WebhookHandler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	signature := r.Header.Get(constants.SignatureHeader)
	apiKey := r.Header.Get(constants.APIKeyHeader)

	// Unsigned deliveries are rejected without reading the body.
	body, ok := middleware.GetRawBodyFromContext(ctx)
	if !ok && signature != "" && apiKey != "" {
		var err error
		body, err = io.ReadAll(r.Body)
		if err != nil {
			slog.ErrorContext(ctx, "failed to read webhook body", logging.ErrKey, err)
			writeError(w, domain.NewValidationError(domain.MsgInvalidJSON, err))
			metrics.WebhookEventsTotal.WithLabelValues(unparsedEventType, metrics.OutcomeRejected).Inc()
			return
		}
	}

	eventType, err := h.webhookService.ProcessWebhookEvent(ctx, service.WebhookRequest{
		Signature: signature,
		APIKey:    apiKey,
		RawBody:   body,
	})

	label := string(eventType)
	if label == "" {
		label = unparsedEventType
	}

	if err != nil {
		status := writeError(w, err)
		outcome := metrics.OutcomeRejected
		if status >= http.StatusInternalServerError {
			outcome = metrics.OutcomeError
			slog.ErrorContext(ctx, "webhook processing failed",
				"event_type", label,
				"status", status,
				logging.ErrKey, err)
		} else {
			slog.WarnContext(ctx, "webhook rejected",
				"event_type", label,
				"status", status,
				logging.ErrKey, err)
		}
		metrics.WebhookEventsTotal.WithLabelValues(label, outcome).Inc()
		return
	}

	metrics.WebhookEventsTotal.WithLabelValues(label, metrics.OutcomeOK).Inc()
	writeJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}
