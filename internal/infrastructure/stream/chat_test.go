// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package stream

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linuxfoundation/lfx-v2-meeting-assistant/internal/domain/models"
)

func TestClient_ChannelMessages(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/channels/messaging/meeting-1/query", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"state":true,"messages":{"limit":5}}`, string(body))

		_, _ = w.Write([]byte(`{"messages":[
			{"text":"When do we ship?","user":{"id":"user-1"}},
			{"text":"Friday.","user_id":"agent-1"}
		]}`))
	}))
	defer server.Close()

	messages, err := newTestClient(server.URL).ChannelMessages(context.Background(), "meeting-1", 5)

	require.NoError(t, err)
	assert.Equal(t, []models.ChatMessage{
		{UserID: "user-1", Text: "When do we ship?"},
		{UserID: "agent-1", Text: "Friday."},
	}, messages)
}

func TestClient_ChannelMessages_Error(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).ChannelMessages(context.Background(), "missing", 5)
	assert.ErrorContains(t, err, "failed to query channel missing")
}

func TestClient_UpsertUser(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"users":{"agent-1":{"id":"agent-1","name":"Ada","image":"https://img/ada.svg"}}}`, string(body))
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	err := newTestClient(server.URL).UpsertUser(context.Background(), models.ChatUser{
		ID: "agent-1", Name: "Ada", Image: "https://img/ada.svg",
	})
	require.NoError(t, err)
}

func TestClient_SendMessage(t *testing.T) {
	t.Run("posts the reply with a client message id", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/channels/messaging/meeting-1/message", r.URL.Path)
			body, _ := io.ReadAll(r.Body)
			assert.JSONEq(t, `{"message":{
				"id":"reply-1",
				"text":"Grace owns the release.",
				"user_id":"agent-1",
				"user":{"id":"agent-1","name":"Ada"}
			}}`, string(body))
			_, _ = w.Write([]byte(`{"message":{"id":"reply-1"}}`))
		}))
		defer server.Close()

		client := newTestClient(server.URL)
		client.newID = func() string { return "reply-1" }

		err := client.SendMessage(context.Background(), "meeting-1",
			models.ChatUser{ID: "agent-1", Name: "Ada"}, "Grace owns the release.")
		require.NoError(t, err)
	})

	t.Run("server error is not retried", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte(`{"code":-1,"message":"upstream timeout"}`))
		}))
		defer server.Close()

		err := newTestClient(server.URL).SendMessage(context.Background(), "meeting-1",
			models.ChatUser{ID: "agent-1"}, "hello")

		require.Error(t, err)
		assert.Equal(t, int32(1), calls.Load())
	})
}
