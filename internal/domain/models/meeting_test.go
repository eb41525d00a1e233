// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMeetingStatus_IsStartable(t *testing.T) {
	tests := []struct {
		status   MeetingStatus
		expected bool
	}{
		{MeetingStatusUpcoming, true},
		{MeetingStatusActive, false},
		{MeetingStatusProcessing, false},
		{MeetingStatusCompleted, false},
		{MeetingStatusCancelled, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.status.IsStartable())
		})
	}
}

func TestMeetingStatus_IsTerminal(t *testing.T) {
	assert.True(t, MeetingStatusCompleted.IsTerminal())
	assert.True(t, MeetingStatusCancelled.IsTerminal())
	assert.False(t, MeetingStatusUpcoming.IsTerminal())
	assert.False(t, MeetingStatusActive.IsTerminal())
	assert.False(t, MeetingStatusProcessing.IsTerminal())
}
