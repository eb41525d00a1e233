// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package service contains the meeting lifecycle and conversational business logic
// driven by platform webhook events.
package service

import (
	"time"

	"github.com/linuxfoundation/lfx-v2-meeting-assistant/internal/domain"
	"github.com/linuxfoundation/lfx-v2-meeting-assistant/pkg/constants"
)

type Service interface {
	ServiceReady() bool
}

// ServiceConfig is the configuration for the Services.
type ServiceConfig struct {
	// ChatHistoryLimit is the number of recent channel messages replayed to the language model.
	ChatHistoryLimit int
	// Clock returns the current time; defaults to time.Now in UTC.
	Clock func() time.Time
}

func (c ServiceConfig) withDefaults() ServiceConfig {
	if c.ChatHistoryLimit <= 0 {
		c.ChatHistoryLimit = constants.ChatHistoryLimit
	}
	if c.Clock == nil {
		c.Clock = func() time.Time { return time.Now().UTC() }
	}
	return c
}

// internalError hides infrastructure details behind the generic client message while
// keeping the cause for logs.
func internalError(err error) error {
	return domain.NewInternalError(domain.MsgInternal, err)
}
