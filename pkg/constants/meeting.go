// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package constants

// Video and chat platform defaults
const (
	// DefaultCallType is the call type used for every meeting call
	DefaultCallType = "default"

	// MessagingChannelType is the chat channel type used for post-meeting conversations
	MessagingChannelType = "messaging"

	// ChatHistoryLimit is the number of recent channel messages replayed to the language model
	ChatHistoryLimit = 5

	// DefaultChatModel is the language model used for post-meeting chat responses
	DefaultChatModel = "gpt-4o"

	// AgentAvatarVariant is the avatar style used for agent chat users
	AgentAvatarVariant = "botttsNeutral"
)
