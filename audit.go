package sessauth

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"
)

// AuditEvent records one protocol decision. Events carry the offending
// login/identifier on rejection paths and never carry secret material:
// no password hashes, no challenge values, no replies.
type AuditEvent struct {
	Timestamp   time.Time `json:"timestamp"`
	EventType   string    `json:"event_type"`
	Login       string    `json:"login,omitempty"`
	UserID      string    `json:"user_id,omitempty"`
	Origin      string    `json:"origin,omitempty"`
	ChallengeID string    `json:"challenge_id,omitempty"`
	Success     bool      `json:"success"`
	Error       string    `json:"error,omitempty"`
}

// Audit event types emitted by the engine.
const (
	AuditConnectOk      = "connect_ok"
	AuditConnectNeeded  = "connect_auth_needed"
	AuditSessionExpired = "connect_session_expired"
	AuditLoginSuccess   = "login_success"
	AuditLoginFailure   = "login_failure"
	AuditForeignSuccess = "foreign_login_success"
	AuditForeignFailure = "foreign_login_failure"
	AuditLogout         = "logout"
	AuditLogoutRejected = "logout_rejected"
)

// AuditSink receives engine audit events. The default is [NoOpSink].
type AuditSink interface {
	Emit(ctx context.Context, event AuditEvent)
}

// NoOpSink discards every event.
type NoOpSink struct{}

// Emit implements [AuditSink].
func (NoOpSink) Emit(context.Context, AuditEvent) {}

// ChannelSink forwards events to a buffered channel for external draining.
type ChannelSink struct {
	events chan AuditEvent
}

// NewChannelSink returns a [ChannelSink] with the given buffer.
func NewChannelSink(buffer int) *ChannelSink {
	if buffer <= 0 {
		buffer = 1
	}
	return &ChannelSink{events: make(chan AuditEvent, buffer)}
}

// Emit implements [AuditSink].
func (s *ChannelSink) Emit(ctx context.Context, event AuditEvent) {
	select {
	case s.events <- event:
	case <-ctx.Done():
	}
}

// Events exposes the drained channel.
func (s *ChannelSink) Events() <-chan AuditEvent {
	return s.events
}

// JSONWriterSink writes one JSON object per event to a writer.
type JSONWriterSink struct {
	writer io.Writer
	mu     sync.Mutex
}

// NewJSONWriterSink returns a [JSONWriterSink] over w.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return &JSONWriterSink{writer: w}
}

// Emit implements [AuditSink]. Marshal or write failures are dropped; audit
// must never fail a request.
func (s *JSONWriterSink) Emit(_ context.Context, event AuditEvent) {
	if s == nil || s.writer == nil {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	data = append(data, '\n')

	s.mu.Lock()
	defer s.mu.Unlock()
	_, _ = s.writer.Write(data)
}
