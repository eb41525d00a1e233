// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log/slog"

	"github.com/linuxfoundation/lfx-v2-meeting-assistant/internal/domain"
	"github.com/linuxfoundation/lfx-v2-meeting-assistant/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-meeting-assistant/internal/logging"
)

// MeetingLifecycleService drives a meeting through its statuses in response to
// video platform events.
type MeetingLifecycleService struct {
	meetingRepository domain.MeetingRepository
	agentRepository   domain.AgentRepository
	videoPlatform     domain.VideoPlatform
	jobDispatcher     domain.JobDispatcher
	config            ServiceConfig
}

// NewMeetingLifecycleService creates a new MeetingLifecycleService.
func NewMeetingLifecycleService(
	meetingRepository domain.MeetingRepository,
	agentRepository domain.AgentRepository,
	videoPlatform domain.VideoPlatform,
	jobDispatcher domain.JobDispatcher,
	config ServiceConfig,
) *MeetingLifecycleService {
	return &MeetingLifecycleService{
		meetingRepository: meetingRepository,
		agentRepository:   agentRepository,
		videoPlatform:     videoPlatform,
		jobDispatcher:     jobDispatcher,
		config:            config.withDefaults(),
	}
}

// ServiceReady checks if the service is ready to process events
func (s *MeetingLifecycleService) ServiceReady() bool {
	return s.meetingRepository != nil && s.meetingRepository.IsReady() &&
		s.agentRepository != nil && s.agentRepository.IsReady() &&
		s.videoPlatform != nil && s.videoPlatform.IsReady() &&
		s.jobDispatcher != nil && s.jobDispatcher.IsReady()
}

// StartSession activates the meeting and brings its agent into the call.
func (s *MeetingLifecycleService) StartSession(ctx context.Context, event models.CallSessionStartedEvent) error {
	logger := slog.With("component", "meeting_lifecycle_service", "method", "StartSession")

	meetingID := event.MeetingID()
	if meetingID == "" {
		logger.WarnContext(ctx, "session started event has no meeting id", "call_cid", event.CallCID)
		return domain.NewValidationError(domain.MsgMissingSessionStartedID)
	}
	ctx = logging.AppendCtx(ctx, slog.String("meeting_id", meetingID))

	meeting, err := s.meetingRepository.StartMeeting(ctx, meetingID, s.config.Clock())
	if err != nil {
		if domain.GetErrorType(err) == domain.ErrorTypeNotFound {
			logger.InfoContext(ctx, "meeting not found or not startable")
			return domain.NewNotFoundError(domain.MsgMeetingNotFound, err)
		}
		logger.ErrorContext(ctx, "error activating meeting", logging.ErrKey, err)
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

	if err := s.videoPlatform.ConnectAgent(ctx, meetingID, agent); err != nil {
		logger.ErrorContext(ctx, "error connecting agent to call", logging.ErrKey, err, "agent_id", agent.ID)
		return internalError(err)
	}

	logger.InfoContext(ctx, "meeting activated and agent connected", "agent_id", agent.ID)
	return nil
}

// EndCallOnParticipantLeft ends the meeting's call when a participant leaves.
func (s *MeetingLifecycleService) EndCallOnParticipantLeft(ctx context.Context, event models.CallSessionParticipantLeftEvent) error {
	logger := slog.With("component", "meeting_lifecycle_service", "method", "EndCallOnParticipantLeft")

	meetingID := event.MeetingID()
	if meetingID == "" {
		logger.WarnContext(ctx, "participant left event has no meeting id", "call_cid", event.CallCID)
		return domain.NewValidationError(domain.MsgMissingParticipantID)
	}
	ctx = logging.AppendCtx(ctx, slog.String("meeting_id", meetingID))

	if err := s.videoPlatform.EndCall(ctx, meetingID); err != nil {
		logger.ErrorContext(ctx, "error ending call", logging.ErrKey, err)
		return internalError(err)
	}

	logger.InfoContext(ctx, "call ended after participant left", "participant_id", event.Participant.ID)
	return nil
}

// EndSession moves an active meeting to processing. Deliveries for meetings that are
// not active are acknowledged without changes.
func (s *MeetingLifecycleService) EndSession(ctx context.Context, event models.CallSessionEndedEvent) error {
	logger := slog.With("component", "meeting_lifecycle_service", "method", "EndSession")

	meetingID := event.MeetingID()
	if meetingID == "" {
		logger.WarnContext(ctx, "session ended event has no meeting id", "call_cid", event.CallCID)
		return domain.NewValidationError(domain.MsgMissingSessionEndedID)
	}
	ctx = logging.AppendCtx(ctx, slog.String("meeting_id", meetingID))

	ended, err := s.meetingRepository.EndMeeting(ctx, meetingID, s.config.Clock())
	if err != nil {
		logger.ErrorContext(ctx, "error ending meeting", logging.ErrKey, err)
		return internalError(err)
	}
	if !ended {
		logger.DebugContext(ctx, "meeting not active, session end ignored")
		return nil
	}

	logger.InfoContext(ctx, "meeting moved to processing")
	return nil
}

// RecordTranscript stores the transcript location and queues the meeting for summarization.
func (s *MeetingLifecycleService) RecordTranscript(ctx context.Context, event models.CallTranscriptionReadyEvent) error {
	logger := slog.With("component", "meeting_lifecycle_service", "method", "RecordTranscript")

	meetingID := event.MeetingID()
	ctx = logging.AppendCtx(ctx, slog.String("meeting_id", meetingID))
	transcriptURL := event.CallTranscription.URL

	meeting, err := s.meetingRepository.SetTranscriptURL(ctx, meetingID, transcriptURL)
	if err != nil {
		if domain.GetErrorType(err) == domain.ErrorTypeNotFound {
			logger.InfoContext(ctx, "meeting not found for transcript")
			return domain.NewNotFoundError(domain.MsgMeetingNotFound, err)
		}
		logger.ErrorContext(ctx, "error storing transcript url", logging.ErrKey, err)
		return internalError(err)
	}

	err = s.jobDispatcher.DispatchMeetingProcessing(ctx, models.MeetingProcessingData{
		MeetingID:     meeting.ID,
		TranscriptURL: transcriptURL,
	})
	if err != nil {
		logger.ErrorContext(ctx, "error dispatching meeting processing job", logging.ErrKey, err)
		return internalError(err)
	}

	logger.InfoContext(ctx, "transcript recorded and processing job dispatched")
	return nil
}

// RecordRecording stores the recording location. Unknown meetings are ignored.
func (s *MeetingLifecycleService) RecordRecording(ctx context.Context, event models.CallRecordingReadyEvent) error {
	logger := slog.With("component", "meeting_lifecycle_service", "method", "RecordRecording")

	meetingID := event.MeetingID()
	ctx = logging.AppendCtx(ctx, slog.String("meeting_id", meetingID))

	if err := s.meetingRepository.SetRecordingURL(ctx, meetingID, event.CallRecording.URL); err != nil {
		logger.ErrorContext(ctx, "error storing recording url", logging.ErrKey, err)
		return internalError(err)
	}

	logger.InfoContext(ctx, "recording recorded")
	return nil
}
