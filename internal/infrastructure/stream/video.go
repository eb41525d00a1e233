// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package stream

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/linuxfoundation/lfx-v2-meeting-assistant/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-meeting-assistant/pkg/constants"
)

func callPath(callType, callID string) string {
	return fmt.Sprintf("/video/call/%s/%s", url.PathEscape(callType), url.PathEscape(callID))
}

// EndCall marks the meeting's call as ended for every participant and closes the
// agent session attached to it.
func (c *Client) EndCall(ctx context.Context, meetingID string) error {
	path := callPath(constants.DefaultCallType, meetingID) + "/mark_ended"
	if err := c.do(ctx, c.config.VideoBaseURL, http.MethodPost, path, struct{}{}, nil); err != nil {
		return fmt.Errorf("failed to end call %s: %w", meetingID, err)
	}

	if c.sessions.Close(meetingID) {
		slog.DebugContext(ctx, "closed realtime session for ended call", "meeting_id", meetingID)
	}
	return nil
}

// ConnectAgent joins agent to the meeting's call through a realtime AI session.
func (c *Client) ConnectAgent(ctx context.Context, meetingID string, agent *models.Agent) error {
	if agent == nil {
		return fmt.Errorf("agent is required")
	}

	if _, err := c.sessions.Open(ctx, constants.DefaultCallType, meetingID, agent); err != nil {
		return fmt.Errorf("failed to connect agent %s to call %s: %w", agent.ID, meetingID, err)
	}
	return nil
}
