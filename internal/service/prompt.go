// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"fmt"
	"strings"

	"github.com/linuxfoundation/lfx-v2-meeting-assistant/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-meeting-assistant/pkg/utils"
)

const chatSystemPromptTemplate = `You are an AI assistant helping the user revisit a recently completed meeting.
Below is a summary of the meeting, generated from the transcript:

%s

The following are your original instructions from the live meeting assistant. Please continue to follow these behavioral guidelines as you assist the user:

%s

The user may ask questions about the meeting, request clarifications, or ask for follow-up actions.
Always base your responses on the meeting summary above.

You also have access to the recent conversation history between you and the user. Use the context of previous messages to provide relevant,
coherent, and helpful responses. If the user's question refers to something discussed earlier,
make sure to take that into account and maintain continuity in the conversation.

If the summary does not contain enough information to answer a question, politely let the user know.

Be concise, helpful, and focus on providing accurate information from the meeting and the ongoing conversation.
`

// BuildChatSystemPrompt renders the system prompt for a post-meeting conversation
// from the meeting's stored summary and the agent's instructions.
func BuildChatSystemPrompt(meeting *models.Meeting, agent *models.Agent) string {
	return fmt.Sprintf(chatSystemPromptTemplate, utils.StringValue(meeting.Summary), agent.Instructions)
}

// BuildChatHistory converts the tail of a channel into language model turns.
// Only the last limit messages are considered; empty ones are then dropped, so
// fewer than limit turns may be returned.
func BuildChatHistory(messages []models.ChatMessage, agentID string, limit int) []models.CompletionMessage {
	if limit >= 0 && len(messages) > limit {
		messages = messages[len(messages)-limit:]
	}

	history := make([]models.CompletionMessage, 0, len(messages))
	for _, msg := range messages {
		if strings.TrimSpace(msg.Text) == "" {
			continue
		}
		role := models.ChatRoleUser
		if msg.UserID == agentID {
			role = models.ChatRoleAssistant
		}
		history = append(history, models.CompletionMessage{Role: role, Content: msg.Text})
	}
	return history
}
