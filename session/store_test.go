package session

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryCreateAndGet(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	sess, err := store.CreateSession(ctx, "alice", "user-1")
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if sess.Token == "" || sess.Login != "alice" || sess.UserID != "user-1" {
		t.Fatalf("unexpected session: %+v", sess)
	}

	got, err := store.GetSession(ctx, sess.Token)
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if got.Login != "alice" || got.UserID != "user-1" {
		t.Fatalf("unexpected session: %+v", got)
	}
}

func TestMemoryGetRefreshesLastAccess(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	current := base
	store.now = func() time.Time { return current }

	sess, err := store.CreateSession(ctx, "alice", "user-1")
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	current = base.Add(time.Minute)
	got, err := store.GetSession(ctx, sess.Token)
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if !got.LastAccess.Equal(current) {
		t.Fatalf("LastAccess = %v, want refreshed to %v", got.LastAccess, current)
	}
}

func TestMemoryRemoveChecksOwner(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	sess, err := store.CreateSession(ctx, "alice", "user-1")
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	// Wrong owner: silent no-op, session stays retrievable.
	if err := store.RemoveSession(ctx, "user-2", sess.Token); err != nil {
		t.Fatalf("RemoveSession failed: %v", err)
	}
	if _, err := store.GetSession(ctx, sess.Token); err != nil {
		t.Fatalf("session vanished after mismatched remove: %v", err)
	}

	if err := store.RemoveSession(ctx, "user-1", sess.Token); err != nil {
		t.Fatalf("RemoveSession failed: %v", err)
	}
	if _, err := store.GetSession(ctx, sess.Token); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("err = %v, want ErrSessionNotFound", err)
	}

	// Removing an absent token is also a no-op.
	if err := store.RemoveSession(ctx, "user-1", sess.Token); err != nil {
		t.Fatalf("RemoveSession of absent token failed: %v", err)
	}
}

func TestMemoryAddSessionVerbatimToken(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.AddSession(ctx, "provider-token", "user-9"); err != nil {
		t.Fatalf("AddSession failed: %v", err)
	}
	got, err := store.GetSession(ctx, "provider-token")
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if got.Login != "" {
		t.Fatalf("attached session must carry no login, got %q", got.Login)
	}
	if got.UserID != "user-9" {
		t.Fatalf("UserID = %q, want user-9", got.UserID)
	}
}

func TestMemorySetVariable(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	sess, _ := store.CreateSession(ctx, "alice", "user-1")
	if err := store.SetVariable(ctx, sess.Token, "theme", "dark"); err != nil {
		t.Fatalf("SetVariable failed: %v", err)
	}

	got, _ := store.GetSession(ctx, sess.Token)
	if got.Variables["theme"] != "dark" {
		t.Fatalf("variables = %v", got.Variables)
	}

	if err := store.SetVariable(ctx, "no-such-token", "k", "v"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("err = %v, want ErrSessionNotFound", err)
	}
}

func TestMemorySessionsAreCopies(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	sess, _ := store.CreateSession(ctx, "alice", "user-1")
	sess.Variables["stray"] = "write"

	got, _ := store.GetSession(ctx, sess.Token)
	if _, ok := got.Variables["stray"]; ok {
		t.Fatal("caller mutation leaked into store state")
	}
}
