// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package stream

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/linuxfoundation/lfx-v2-meeting-assistant/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-meeting-assistant/internal/logging"
	"github.com/linuxfoundation/lfx-v2-meeting-assistant/internal/metrics"
	"github.com/linuxfoundation/lfx-v2-meeting-assistant/pkg/concurrent"
)

const (
	realtimeIOTimeout = 10 * time.Second
	// closeWorkers bounds how many sessions are closed in parallel at shutdown.
	closeWorkers = 8

	sessionUpdateType = "session.update"
)

type sessionUpdate struct {
	Type    string        `json:"type"`
	Session sessionConfig `json:"session"`
}

type sessionConfig struct {
	Instructions string `json:"instructions"`
}

// RealtimeSession is a live AI agent connection bridged into a call.
type RealtimeSession struct {
	CallID  string
	AgentID string

	conn      *websocket.Conn
	writeMu   sync.Mutex
	closeOnce sync.Once
	done      chan struct{}
}

// UpdateSession replaces the session instructions.
func (s *RealtimeSession) UpdateSession(ctx context.Context, instructions string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	deadline := time.Now().Add(realtimeIOTimeout)
	if dl, ok := ctx.Deadline(); ok && dl.Before(deadline) {
		deadline = dl
	}
	if err := s.conn.SetWriteDeadline(deadline); err != nil {
		return fmt.Errorf("set write deadline: %w", err)
	}

	msg := sessionUpdate{Type: sessionUpdateType, Session: sessionConfig{Instructions: instructions}}
	if err := s.conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("write session update: %w", err)
	}
	return nil
}

// Done is closed once the session has been closed by either side.
func (s *RealtimeSession) Done() <-chan struct{} {
	return s.done
}

// Close sends a close frame and releases the connection. It is safe to call more than once.
func (s *RealtimeSession) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.writeMu.Lock()
		_ = s.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(500*time.Millisecond))
		s.writeMu.Unlock()
		err = s.conn.Close()
		close(s.done)
	})
	return err
}

// SessionRegistry owns the realtime sessions of this process, at most one per call.
type SessionRegistry struct {
	realtimeURL  string
	openAIAPIKey string
	tokens       *TokenIssuer
	dialer       *websocket.Dialer

	mu       sync.Mutex
	sessions map[string]*RealtimeSession
}

// NewSessionRegistry creates a registry dialing realtimeURL.
func NewSessionRegistry(realtimeURL, openAIAPIKey string, tokens *TokenIssuer) *SessionRegistry {
	return &SessionRegistry{
		realtimeURL:  realtimeURL,
		openAIAPIKey: openAIAPIKey,
		tokens:       tokens,
		dialer:       &websocket.Dialer{HandshakeTimeout: realtimeIOTimeout},
		sessions:     make(map[string]*RealtimeSession),
	}
}

// Open connects agent to the call and seeds the session with the agent's instructions.
// A session already open for the call is replaced.
func (r *SessionRegistry) Open(ctx context.Context, callType, callID string, agent *models.Agent) (*RealtimeSession, error) {
	token, err := r.tokens.UserToken(agent.ID)
	if err != nil {
		return nil, err
	}

	endpoint, err := url.Parse(r.realtimeURL)
	if err != nil {
		return nil, fmt.Errorf("invalid realtime url: %w", err)
	}
	q := endpoint.Query()
	q.Set("call_type", callType)
	q.Set("call_id", callID)
	q.Set("agent_user_id", agent.ID)
	endpoint.RawQuery = q.Encode()

	header := http.Header{}
	header.Set("Authorization", token)
	header.Set("Stream-Auth-Type", "jwt")
	header.Set("X-OpenAI-Api-Key", r.openAIAPIKey)

	conn, _, err := r.dialer.DialContext(ctx, endpoint.String(), header)
	if err != nil {
		return nil, fmt.Errorf("dial realtime websocket: %w", err)
	}

	session := &RealtimeSession{
		CallID:  callID,
		AgentID: agent.ID,
		conn:    conn,
		done:    make(chan struct{}),
	}

	if err := session.UpdateSession(ctx, agent.Instructions); err != nil {
		_ = session.Close()
		return nil, err
	}

	r.mu.Lock()
	previous := r.sessions[callID]
	r.sessions[callID] = session
	metrics.RealtimeSessionsActive.Set(float64(len(r.sessions)))
	r.mu.Unlock()

	if previous != nil {
		_ = previous.Close()
	}

	go r.watch(session)

	slog.InfoContext(ctx, "realtime agent session opened", "call_id", callID, "agent_id", agent.ID)
	return session, nil
}

// watch drains inbound frames until the remote side goes away, then unregisters the session.
func (r *SessionRegistry) watch(session *RealtimeSession) {
	for {
		if _, _, err := session.conn.ReadMessage(); err != nil {
			select {
			case <-session.done:
			default:
				slog.Info("realtime agent session closed by remote",
					"call_id", session.CallID, logging.ErrKey, err)
			}
			break
		}
	}
	_ = session.Close()
	r.remove(session)
}

func (r *SessionRegistry) remove(session *RealtimeSession) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sessions[session.CallID] == session {
		delete(r.sessions, session.CallID)
		metrics.RealtimeSessionsActive.Set(float64(len(r.sessions)))
	}
}

// Get returns the open session for the call, if any.
func (r *SessionRegistry) Get(callID string) (*RealtimeSession, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.sessions[callID]
	return session, ok
}

// Len returns the number of open sessions.
func (r *SessionRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Close closes the session for the call. It reports whether one was open.
func (r *SessionRegistry) Close(callID string) bool {
	r.mu.Lock()
	session, ok := r.sessions[callID]
	if ok {
		delete(r.sessions, callID)
		metrics.RealtimeSessionsActive.Set(float64(len(r.sessions)))
	}
	r.mu.Unlock()

	if ok {
		_ = session.Close()
	}
	return ok
}

// CloseAll closes every open session.
func (r *SessionRegistry) CloseAll(ctx context.Context) error {
	r.mu.Lock()
	sessions := make([]*RealtimeSession, 0, len(r.sessions))
	for _, session := range r.sessions {
		sessions = append(sessions, session)
	}
	clear(r.sessions)
	metrics.RealtimeSessionsActive.Set(0)
	r.mu.Unlock()

	closers := make([]func() error, 0, len(sessions))
	for _, session := range sessions {
		closers = append(closers, session.Close)
	}

	errs := concurrent.NewWorkerPool(closeWorkers).RunAll(ctx, closers...)
	return errors.Join(errs...)
}
