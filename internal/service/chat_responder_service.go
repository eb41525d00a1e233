// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log/slog"

	"github.com/linuxfoundation/lfx-v2-meeting-assistant/internal/domain"
	"github.com/linuxfoundation/lfx-v2-meeting-assistant/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-meeting-assistant/internal/logging"
	"github.com/linuxfoundation/lfx-v2-meeting-assistant/pkg/constants"
)

// ChatResponderService answers chat questions about completed meetings as the meeting's agent.
type ChatResponderService struct {
	meetingRepository domain.MeetingRepository
	agentRepository   domain.AgentRepository
	chatPlatform      domain.ChatPlatform
	languageModel     domain.LanguageModel
	avatarGenerator   domain.AvatarGenerator
	config            ServiceConfig
}

// NewChatResponderService creates a new ChatResponderService.
func NewChatResponderService(
	meetingRepository domain.MeetingRepository,
	agentRepository domain.AgentRepository,
	chatPlatform domain.ChatPlatform,
	languageModel domain.LanguageModel,
	avatarGenerator domain.AvatarGenerator,
	config ServiceConfig,
) *ChatResponderService {
	return &ChatResponderService{
		meetingRepository: meetingRepository,
		agentRepository:   agentRepository,
		chatPlatform:      chatPlatform,
		languageModel:     languageModel,
		avatarGenerator:   avatarGenerator,
		config:            config.withDefaults(),
	}
}

// ServiceReady checks if the service is ready to process events
func (s *ChatResponderService) ServiceReady() bool {
	return s.meetingRepository != nil && s.meetingRepository.IsReady() &&
		s.agentRepository != nil && s.agentRepository.IsReady() &&
		s.chatPlatform != nil && s.chatPlatform.IsReady() &&
		s.languageModel != nil &&
		s.avatarGenerator != nil
}

// RespondToMessage replies in the meeting channel to a user's message. Messages sent by
// the agent itself are acknowledged without a reply.
func (s *ChatResponderService) RespondToMessage(ctx context.Context, event models.MessageNewEvent) error {
	logger := slog.With("component", "chat_responder_service", "method", "RespondToMessage")

	userID, channelID, text := event.UserID(), event.ChannelID, event.Text()
	if userID == "" || channelID == "" || text == "" {
		logger.WarnContext(ctx, "message event is missing required fields",
			"has_user_id", userID != "",
			"has_channel_id", channelID != "",
			"has_text", text != "",
		)
		return domain.NewValidationError(domain.MsgMissingMessageFields)
	}
	ctx = logging.AppendCtx(ctx, slog.String("meeting_id", channelID))

	meeting, err := s.meetingRepository.GetMeetingInStatus(ctx, channelID, models.MeetingStatusCompleted)
	if err != nil {
		if domain.GetErrorType(err) == domain.ErrorTypeNotFound {
			logger.InfoContext(ctx, "completed meeting not found for channel")
			return domain.NewNotFoundError(domain.MsgMeetingNotFound, err)
		}
		logger.ErrorContext(ctx, "error getting meeting", logging.ErrKey, err)
		return internalError(err)
	}

	agent, err := s.agentRepository.GetAgent(ctx, meeting.AgentID)
	if err != nil {
		if domain.GetErrorType(err) == domain.ErrorTypeNotFound {
			logger.WarnContext(ctx, "agent for meeting not found", "agent_id", meeting.AgentID)
			return domain.NewNotFoundError(domain.MsgAgentNotFound, err)
		}
		logger.ErrorContext(ctx, "error getting agent", logging.ErrKey, err, "agent_id", meeting.AgentID)
		return internalError(err)
	}

	if userID == agent.ID {
		logger.DebugContext(ctx, "ignoring message sent by the agent")
		return nil
	}

	recent, err := s.chatPlatform.ChannelMessages(ctx, channelID, s.config.ChatHistoryLimit)
	if err != nil {
		logger.ErrorContext(ctx, "error reading channel history", logging.ErrKey, err)
		return internalError(err)
	}

	messages := []models.CompletionMessage{
		{Role: models.ChatRoleSystem, Content: BuildChatSystemPrompt(meeting, agent)},
	}
	messages = append(messages, BuildChatHistory(recent, agent.ID, s.config.ChatHistoryLimit)...)
	messages = append(messages, models.CompletionMessage{Role: models.ChatRoleUser, Content: text})

	reply, err := s.languageModel.Complete(ctx, messages)
	if err != nil {
		logger.ErrorContext(ctx, "error requesting chat completion", logging.ErrKey, err)
		return internalError(err)
	}
	if reply == "" {
		logger.ErrorContext(ctx, "language model returned no content")
		return domain.NewInternalError(domain.MsgNoModelResponse)
	}

	agentUser := models.ChatUser{
		ID:    agent.ID,
		Name:  agent.Name,
		Image: s.avatarGenerator.AvatarURI(agent.Name, constants.AgentAvatarVariant),
	}
	if err := s.chatPlatform.UpsertUser(ctx, agentUser); err != nil {
		logger.ErrorContext(ctx, "error upserting agent chat user", logging.ErrKey, err)
		return internalError(err)
	}
	if err := s.chatPlatform.SendMessage(ctx, channelID, agentUser, reply); err != nil {
		logger.ErrorContext(ctx, "error sending agent reply", logging.ErrKey, err)
		return internalError(err)
	}

	logger.InfoContext(ctx, "agent replied to chat message", "history_turns", len(messages)-2)
	return nil
}
