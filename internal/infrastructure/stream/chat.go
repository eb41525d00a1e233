// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package stream

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/linuxfoundation/lfx-v2-meeting-assistant/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-meeting-assistant/pkg/constants"
)

type chatUser struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Image string `json:"image,omitempty"`
}

type chatMessage struct {
	ID     string    `json:"id,omitempty"`
	Text   string    `json:"text"`
	UserID string    `json:"user_id,omitempty"`
	User   *chatUser `json:"user,omitempty"`
}

type channelQueryRequest struct {
	State    bool `json:"state"`
	Messages struct {
		Limit int `json:"limit"`
	} `json:"messages"`
}

type channelQueryResponse struct {
	Messages []chatMessage `json:"messages"`
}

type upsertUsersRequest struct {
	Users map[string]chatUser `json:"users"`
}

type sendMessageRequest struct {
	Message chatMessage `json:"message"`
}

func channelPath(channelID string) string {
	return fmt.Sprintf("/channels/%s/%s", constants.MessagingChannelType, url.PathEscape(channelID))
}

// ChannelMessages returns up to limit of the latest messages in the channel, oldest first.
func (c *Client) ChannelMessages(ctx context.Context, channelID string, limit int) ([]models.ChatMessage, error) {
	req := channelQueryRequest{State: true}
	req.Messages.Limit = limit

	var resp channelQueryResponse
	if err := c.do(ctx, c.config.ChatBaseURL, http.MethodPost, channelPath(channelID)+"/query", req, &resp); err != nil {
		return nil, fmt.Errorf("failed to query channel %s: %w", channelID, err)
	}

	messages := make([]models.ChatMessage, 0, len(resp.Messages))
	for _, m := range resp.Messages {
		userID := m.UserID
		if m.User != nil {
			userID = m.User.ID
		}
		messages = append(messages, models.ChatMessage{UserID: userID, Text: m.Text})
	}
	return messages, nil
}

// UpsertUser creates or replaces the chat user profile.
func (c *Client) UpsertUser(ctx context.Context, user models.ChatUser) error {
	req := upsertUsersRequest{Users: map[string]chatUser{user.ID: toChatUser(user)}}
	if err := c.do(ctx, c.config.ChatBaseURL, http.MethodPost, "/users", req, nil); err != nil {
		return fmt.Errorf("failed to upsert user %s: %w", user.ID, err)
	}
	return nil
}

// SendMessage posts text to the channel as user. The message carries a client-generated id
// and is sent once; a failed send is reported rather than risking a duplicate reply.
func (c *Client) SendMessage(ctx context.Context, channelID string, user models.ChatUser, text string) error {
	sender := toChatUser(user)
	req := sendMessageRequest{Message: chatMessage{ID: c.newID(), Text: text, UserID: user.ID, User: &sender}}
	if err := c.doOnce(ctx, c.config.ChatBaseURL, http.MethodPost, channelPath(channelID)+"/message", req, nil); err != nil {
		return fmt.Errorf("failed to send message to channel %s: %w", channelID, err)
	}
	return nil
}

func toChatUser(user models.ChatUser) chatUser {
	return chatUser{ID: user.ID, Name: user.Name, Image: user.Image}
}
