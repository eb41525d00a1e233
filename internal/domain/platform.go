// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package domain

import (
	"context"

	"github.com/linuxfoundation/lfx-v2-meeting-assistant/internal/domain/models"
)

// VideoPlatform defines the operations on the external video call platform.
type VideoPlatform interface {
	// ConnectAgent joins the agent to the meeting's call through a realtime AI
	// session seeded with the agent's instructions.
	ConnectAgent(ctx context.Context, meetingID string, agent *models.Agent) error

	// EndCall ends the meeting's call for every participant.
	EndCall(ctx context.Context, meetingID string) error

	IsReady() bool
}

// ChatPlatform defines the operations on the external chat platform.
type ChatPlatform interface {
	// ChannelMessages returns up to limit of the most recent messages in the
	// meeting's channel, oldest first.
	ChannelMessages(ctx context.Context, channelID string, limit int) ([]models.ChatMessage, error)

	// UpsertUser creates or replaces a chat user profile.
	UpsertUser(ctx context.Context, user models.ChatUser) error

	// SendMessage posts text to the meeting's channel as user.
	SendMessage(ctx context.Context, channelID string, user models.ChatUser, text string) error

	IsReady() bool
}

// LanguageModel produces chat completions.
type LanguageModel interface {
	// Complete returns the model's reply to messages. An empty reply is returned
	// as an empty string, not an error.
	Complete(ctx context.Context, messages []models.CompletionMessage) (string, error)
}

// AvatarGenerator builds deterministic avatar image URIs.
type AvatarGenerator interface {
	AvatarURI(seed, variant string) string
}

// WebhookValidator verifies that a webhook body was signed by the platform.
type WebhookValidator interface {
	ValidateSignature(body []byte, signature string) error
}
