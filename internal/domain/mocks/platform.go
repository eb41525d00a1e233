// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/linuxfoundation/lfx-v2-meeting-assistant/internal/domain/models"
)

// MockVideoPlatform implements VideoPlatform for testing
type MockVideoPlatform struct {
	mock.Mock
}

func (m *MockVideoPlatform) ConnectAgent(ctx context.Context, meetingID string, agent *models.Agent) error {
	args := m.Called(ctx, meetingID, agent)
	return args.Error(0)
}

func (m *MockVideoPlatform) EndCall(ctx context.Context, meetingID string) error {
	args := m.Called(ctx, meetingID)
	return args.Error(0)
}

func (m *MockVideoPlatform) IsReady() bool {
	args := m.Called()
	return args.Bool(0)
}

// MockChatPlatform implements ChatPlatform for testing
type MockChatPlatform struct {
	mock.Mock
}

func (m *MockChatPlatform) ChannelMessages(ctx context.Context, channelID string, limit int) ([]models.ChatMessage, error) {
	args := m.Called(ctx, channelID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ChatMessage), args.Error(1)
}

func (m *MockChatPlatform) UpsertUser(ctx context.Context, user models.ChatUser) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockChatPlatform) SendMessage(ctx context.Context, channelID string, user models.ChatUser, text string) error {
	args := m.Called(ctx, channelID, user, text)
	return args.Error(0)
}

func (m *MockChatPlatform) IsReady() bool {
	args := m.Called()
	return args.Bool(0)
}

// MockLanguageModel implements LanguageModel for testing
type MockLanguageModel struct {
	mock.Mock
}

func (m *MockLanguageModel) Complete(ctx context.Context, messages []models.CompletionMessage) (string, error) {
	args := m.Called(ctx, messages)
	return args.String(0), args.Error(1)
}

// MockAvatarGenerator implements AvatarGenerator for testing
type MockAvatarGenerator struct {
	mock.Mock
}

func (m *MockAvatarGenerator) AvatarURI(seed, variant string) string {
	args := m.Called(seed, variant)
	return args.String(0)
}

// MockWebhookValidator implements WebhookValidator for testing
type MockWebhookValidator struct {
	mock.Mock
}

func (m *MockWebhookValidator) ValidateSignature(body []byte, signature string) error {
	args := m.Called(body, signature)
	return args.Error(0)
}
