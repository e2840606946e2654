package sessauth

import (
	"context"
	"testing"
	"time"
)

func newAuditedEngine(t *testing.T, verbosity AuditVerbosity) (*Engine, *ChannelSink) {
	t.Helper()

	sink := NewChannelSink(16)
	cfg := DefaultConfig()
	cfg.Audit.Verbosity = verbosity

	engine, err := New().
		WithConfig(cfg).
		WithUserDirectory(testDirectory(t)).
		WithAuditSink(sink).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)
	return engine, sink
}

func nextEvent(t *testing.T, sink *ChannelSink) AuditEvent {
	t.Helper()
	select {
	case event := <-sink.Events():
		return event
	case <-time.After(2 * time.Second):
		t.Fatal("no audit event arrived")
		return AuditEvent{}
	}
}

func TestAuditRejectionCarriesLogin(t *testing.T) {
	engine, sink := newAuditedEngine(t, AuditRejections)

	out, err := engine.Login(context.Background(), LoginRequest{Local: &LocalLogin{
		Login: "nobody", ChallengeID: "cid", Reply: "x",
	}})
	if err != nil || out.Kind != ResultError {
		t.Fatalf("expected rejection, got %+v (%v)", out, err)
	}

	event := nextEvent(t, sink)
	if event.EventType != AuditLoginFailure {
		t.Fatalf("event type = %q, want %q", event.EventType, AuditLoginFailure)
	}
	if event.Login != "nobody" {
		t.Fatalf("event login = %q, want the offending login", event.Login)
	}
	if event.Success {
		t.Fatal("rejection event marked successful")
	}
}

func TestAuditVerbosityGatesSuccesses(t *testing.T) {
	engine, sink := newAuditedEngine(t, AuditRejections)
	ctx := context.Background()

	// A success (challenge issuance path) followed by a rejection: only the
	// rejection may reach the sink at AuditRejections.
	if _, err := engine.Connect(ctx, testScheme, fakeRequest{}); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	if _, err := engine.Logout(ctx, testScheme, fakeRequest{}); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}

	event := nextEvent(t, sink)
	if event.EventType != AuditLogoutRejected {
		t.Fatalf("event type = %q, want %q (successes must be gated)", event.EventType, AuditLogoutRejected)
	}
}

func TestAuditOffIsNoOp(t *testing.T) {
	engine, sink := newAuditedEngine(t, AuditOff)

	if _, err := engine.Logout(context.Background(), testScheme, fakeRequest{}); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	select {
	case event := <-sink.Events():
		t.Fatalf("unexpected audit event %+v with auditing off", event)
	case <-time.After(50 * time.Millisecond):
	}
	if engine.AuditDropped() != 0 {
		t.Fatalf("AuditDropped = %d, want 0", engine.AuditDropped())
	}
}
