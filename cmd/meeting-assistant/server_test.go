// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/linuxfoundation/lfx-v2-meeting-assistant/internal/domain/mocks"
	"github.com/linuxfoundation/lfx-v2-meeting-assistant/internal/handlers"
	"github.com/linuxfoundation/lfx-v2-meeting-assistant/internal/infrastructure/stream"
	"github.com/linuxfoundation/lfx-v2-meeting-assistant/internal/service"
	"github.com/linuxfoundation/lfx-v2-meeting-assistant/pkg/constants"
)

func newTestRouter() http.Handler {
	meetings := new(mocks.MockMeetingRepository)
	meetings.On("IsReady").Return(false)
	agents := new(mocks.MockAgentRepository)
	agents.On("IsReady").Return(true)
	video := new(mocks.MockVideoPlatform)
	video.On("IsReady").Return(true)
	jobs := new(mocks.MockJobDispatcher)
	jobs.On("IsReady").Return(true)

	lifecycle := service.NewMeetingLifecycleService(meetings, agents, video, jobs, service.ServiceConfig{})
	chat := service.NewChatResponderService(meetings, agents, new(mocks.MockChatPlatform),
		new(mocks.MockLanguageModel), new(mocks.MockAvatarGenerator), service.ServiceConfig{})
	webhooks := service.NewWebhookService(stream.NewWebhookValidator("secret"), lifecycle, chat)

	return newRouter(handlers.NewWebhookHandler(webhooks), handlers.NewHealthHandler(webhooks))
}

func TestRouter(t *testing.T) {
	router := newTestRouter()

	tests := []struct {
		name           string
		method         string
		path           string
		body           string
		expectedStatus int
		expectedBody   string
	}{
		{name: "liveness", method: http.MethodGet, path: constants.LivezPath, expectedStatus: http.StatusOK, expectedBody: "OK\n"},
		{name: "readiness reflects store", method: http.MethodGet, path: constants.ReadyzPath, expectedStatus: http.StatusServiceUnavailable},
		{name: "metrics", method: http.MethodGet, path: constants.MetricsPath, expectedStatus: http.StatusOK},
		{
			name:           "unsigned webhook",
			method:         http.MethodPost,
			path:           constants.WebhookPath,
			body:           `{"type":"call.session_started"}`,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"Missing signature or API key"}` + "\n",
		},
		{name: "webhook requires POST", method: http.MethodGet, path: constants.WebhookPath, expectedStatus: http.StatusMethodNotAllowed},
		{name: "unknown route", method: http.MethodGet, path: "/nope", expectedStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.NotEmpty(t, rec.Header().Get(constants.RequestIDHeader))
			if tt.expectedBody != "" {
				assert.Equal(t, tt.expectedBody, rec.Body.String())
			}
		})
	}
}

func TestRouter_PropagatesRequestID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, constants.LivezPath, nil)
	req.Header.Set(constants.RequestIDHeader, "req-123")
	rec := httptest.NewRecorder()

	newTestRouter().ServeHTTP(rec, req)

	assert.Equal(t, "req-123", rec.Header().Get(constants.RequestIDHeader))
}
