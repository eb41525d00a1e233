// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package handlers

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/linuxfoundation/lfx-v2-meeting-assistant/internal/domain"
	"github.com/linuxfoundation/lfx-v2-meeting-assistant/internal/domain/mocks"
	"github.com/linuxfoundation/lfx-v2-meeting-assistant/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-meeting-assistant/internal/infrastructure/stream"
	"github.com/linuxfoundation/lfx-v2-meeting-assistant/internal/middleware"
	"github.com/linuxfoundation/lfx-v2-meeting-assistant/internal/service"
	"github.com/linuxfoundation/lfx-v2-meeting-assistant/pkg/constants"
)

const testSecret = "webhook-secret"

type handlerMocks struct {
	meetings *mocks.MockMeetingRepository
	agents   *mocks.MockAgentRepository
	video    *mocks.MockVideoPlatform
	chat     *mocks.MockChatPlatform
	model    *mocks.MockLanguageModel
	avatars  *mocks.MockAvatarGenerator
	jobs     *mocks.MockJobDispatcher
}

// setupWebhookHandlerForTesting wires the real services and signature validator over mock ports.
func setupWebhookHandlerForTesting() (http.Handler, handlerMocks) {
	m := handlerMocks{
		meetings: new(mocks.MockMeetingRepository),
		agents:   new(mocks.MockAgentRepository),
		video:    new(mocks.MockVideoPlatform),
		chat:     new(mocks.MockChatPlatform),
		model:    new(mocks.MockLanguageModel),
		avatars:  new(mocks.MockAvatarGenerator),
		jobs:     new(mocks.MockJobDispatcher),
	}
	lifecycle := service.NewMeetingLifecycleService(m.meetings, m.agents, m.video, m.jobs, service.ServiceConfig{})
	chat := service.NewChatResponderService(m.meetings, m.agents, m.chat, m.model, m.avatars, service.ServiceConfig{})
	webhooks := service.NewWebhookService(stream.NewWebhookValidator(testSecret), lifecycle, chat)

	handler := http.HandlerFunc(NewWebhookHandler(webhooks).HandleWebhook)
	return middleware.WebhookBodyCaptureMiddleware()(handler), m
}

func signBody(body []byte) string {
	h := hmac.New(sha256.New, []byte(testSecret))
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}

func newWebhookRequest(body []byte, signature, apiKey string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, constants.WebhookPath, bytes.NewReader(body))
	if signature != "" {
		req.Header.Set(constants.SignatureHeader, signature)
	}
	if apiKey != "" {
		req.Header.Set(constants.APIKeyHeader, apiKey)
	}
	return req
}

func signedRequest(body string) *http.Request {
	return newWebhookRequest([]byte(body), signBody([]byte(body)), "api-key")
}

func TestWebhookHandler_Authentication(t *testing.T) {
	body := []byte(`{"type":"call.session_ended","call":{"custom":{"meetingId":"m-1"}}}`)
	oversized := bytes.Repeat([]byte("x"), 2<<20)

	tests := []struct {
		name           string
		req            *http.Request
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "missing signature",
			req:            newWebhookRequest(body, "", "api-key"),
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"Missing signature or API key"}`,
		},
		{
			name:           "missing api key",
			req:            newWebhookRequest(body, signBody(body), ""),
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"Missing signature or API key"}`,
		},
		{
			name:           "invalid signature",
			req:            newWebhookRequest(body, "deadbeef", "api-key"),
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"error":"Invalid signature"}`,
		},
		{
			name:           "invalid json",
			req:            signedRequest(`{"type":`),
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"Invalid JSON payload"}`,
		},
		{
			name:           "oversized body without signature reports missing headers",
			req:            newWebhookRequest(oversized, "", "api-key"),
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"Missing signature or API key"}`,
		},
		{
			name:           "oversized signed body",
			req:            newWebhookRequest(oversized, "deadbeef", "api-key"),
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"Invalid JSON payload"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, m := setupWebhookHandlerForTesting()
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, tt.req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.JSONEq(t, tt.expectedBody, rec.Body.String())
			m.meetings.AssertNotCalled(t, "EndMeeting", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestWebhookHandler_Events(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setupMocks     func(handlerMocks)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "unknown event type",
			body:           `{"type":"call.created","call_cid":"default:m-1"}`,
			setupMocks:     func(handlerMocks) {},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"ok"}`,
		},
		{
			name:           "payload without type",
			body:           `{}`,
			setupMocks:     func(handlerMocks) {},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"ok"}`,
		},
		{
			name: "session ended moves meeting to processing",
			body: `{"type":"call.session_ended","call":{"custom":{"meetingId":"m-1"}}}`,
			setupMocks: func(m handlerMocks) {
				m.meetings.On("EndMeeting", mock.Anything, "m-1", mock.Anything).Return(true, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"ok"}`,
		},
		{
			name:           "session ended without meeting id",
			body:           `{"type":"call.session_ended","call":{}}`,
			setupMocks:     func(handlerMocks) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"Missing meetingId in call ended event"}`,
		},
		{
			name: "session started for unknown meeting",
			body: `{"type":"call.session_started","call":{"custom":{"meetingId":"m-1"}}}`,
			setupMocks: func(m handlerMocks) {
				m.meetings.On("StartMeeting", mock.Anything, "m-1", mock.Anything).
					Return(nil, domain.NewNotFoundError("meeting not startable"))
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"error":"Meeting not found"}`,
		},
		{
			name: "transcription ready dispatches processing",
			body: `{"type":"call.transcription_ready","call_cid":"default:m-1","call_transcription":{"url":"https://cdn/t.jsonl"}}`,
			setupMocks: func(m handlerMocks) {
				m.meetings.On("SetTranscriptURL", mock.Anything, "m-1", "https://cdn/t.jsonl").
					Return(&models.Meeting{ID: "m-1", Status: models.MeetingStatusProcessing}, nil)
				m.jobs.On("DispatchMeetingProcessing", mock.Anything, models.MeetingProcessingData{
					MeetingID: "m-1", TranscriptURL: "https://cdn/t.jsonl",
				}).Return(nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"ok"}`,
		},
		{
			name: "store failure is reported generically",
			body: `{"type":"call.session_ended","call":{"custom":{"meetingId":"m-1"}}}`,
			setupMocks: func(m handlerMocks) {
				m.meetings.On("EndMeeting", mock.Anything, "m-1", mock.Anything).
					Return(false, errors.New("connection refused"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"error":"Internal server error"}`,
		},
		{
			name: "empty model reply",
			body: `{"type":"message.new","channel_id":"m-1","user":{"id":"u-1"},"message":{"text":"hi","user":{"id":"u-1"}}}`,
			setupMocks: func(m handlerMocks) {
				m.meetings.On("GetMeetingInStatus", mock.Anything, "m-1", models.MeetingStatusCompleted).
					Return(&models.Meeting{ID: "m-1", AgentID: "a-1", Status: models.MeetingStatusCompleted}, nil)
				m.agents.On("GetAgent", mock.Anything, "a-1").Return(&models.Agent{ID: "a-1", Name: "Ada"}, nil)
				m.chat.On("ChannelMessages", mock.Anything, "m-1", 5).Return([]models.ChatMessage{}, nil)
				m.model.On("Complete", mock.Anything, mock.Anything).Return("", nil)
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"error":"No response from GPT"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, m := setupWebhookHandlerForTesting()
			tt.setupMocks(m)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, signedRequest(tt.body))

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.JSONEq(t, tt.expectedBody, rec.Body.String())
			m.meetings.AssertExpectations(t)
			m.jobs.AssertExpectations(t)
			m.model.AssertExpectations(t)
		})
	}
}

func TestWebhookHandler_WithoutBodyCapture(t *testing.T) {
	m := new(mocks.MockMeetingRepository)
	lifecycle := service.NewMeetingLifecycleService(m, new(mocks.MockAgentRepository),
		new(mocks.MockVideoPlatform), new(mocks.MockJobDispatcher), service.ServiceConfig{})
	webhooks := service.NewWebhookService(stream.NewWebhookValidator(testSecret), lifecycle, nil)
	rec := httptest.NewRecorder()

	NewWebhookHandler(webhooks).HandleWebhook(rec, signedRequest(`{"type":"call.created"}`))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestStatusCodeForError(t *testing.T) {
	tests := []struct {
		err      error
		expected int
	}{
		{domain.NewValidationError("x"), http.StatusBadRequest},
		{domain.NewUnauthorizedError("x"), http.StatusUnauthorized},
		{domain.NewNotFoundError("x"), http.StatusNotFound},
		{domain.NewConflictError("x"), http.StatusConflict},
		{domain.NewInternalError("x"), http.StatusInternalServerError},
		{domain.NewUnavailableError("x"), http.StatusServiceUnavailable},
		{errors.New("plain"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, statusCodeForError(tt.err), tt.err.Error())
	}
}
