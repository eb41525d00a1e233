// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package models

// ChatRole is the speaker role of a language model message.
type ChatRole string

// Language model roles.
const (
	ChatRoleSystem    ChatRole = "system"
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
)

// ChatMessage is a message read from a chat channel.
type ChatMessage struct {
	UserID string `json:"user_id"`
	Text   string `json:"text"`
}

// ChatUser is a chat platform user profile.
type ChatUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}

// CompletionMessage is one turn of a language model conversation.
type CompletionMessage struct {
	Role    ChatRole `json:"role"`
	Content string   `json:"content"`
}
