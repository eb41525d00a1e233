// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package domain

import (
	"context"

	"github.com/linuxfoundation/lfx-v2-meeting-assistant/internal/domain/models"
)

// JobDispatcher enqueues background jobs for asynchronous workers.
// Dispatch is fire-and-forget: a nil error means the job was accepted by the broker.
type JobDispatcher interface {
	DispatchMeetingProcessing(ctx context.Context, data models.MeetingProcessingData) error
	IsReady() bool
}
