package sessauth

import (
	"context"
	"errors"
	"testing"
)

func TestLogoutWithoutToken(t *testing.T) {
	engine := newTestEngine(t, testDirectory(t))

	out, err := engine.Logout(context.Background(), testScheme, fakeRequest{})
	if err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if out.Kind != ResultError || !errors.Is(out.Err, ErrInvalidSession) {
		t.Fatalf("expected Invalid_session, got %+v", out)
	}
	if out.Status != 401 {
		t.Fatalf("status = %d, want 401", out.Status)
	}
}

func TestLogoutUnknownToken(t *testing.T) {
	engine := newTestEngine(t, testDirectory(t))

	out, err := engine.Logout(context.Background(), testScheme, tokenRequest("stale"))
	if err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if out.Kind != ResultError || !errors.Is(out.Err, ErrInvalidSession) {
		t.Fatalf("expected Invalid_session, got %+v", out)
	}
}

func TestLogoutIssuesChallenge(t *testing.T) {
	directory := testDirectory(t)
	if _, err := directory.AddLocalUser("alice", "", "correct-horse-battery", nil); err != nil {
		t.Fatalf("AddLocalUser failed: %v", err)
	}
	engine := newTestEngine(t, directory)
	ctx := context.Background()

	first, _ := engine.Connect(ctx, testScheme, fakeRequest{})
	login, err := engine.Login(ctx, LoginRequest{Local: &LocalLogin{
		Login:       "alice",
		ChallengeID: first.Challenge.ID,
		Reply:       localReply(t, first.Challenge.Value, "alice", "correct-horse-battery"),
	}})
	if err != nil || login.Kind != ResultAuthOk {
		t.Fatalf("login failed: %+v (%v)", login, err)
	}

	out, err := engine.Logout(ctx, testScheme, tokenRequest(login.Result.Token))
	if err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if out.Kind != ResultAuthNeeded || out.Challenge == nil {
		t.Fatalf("expected AuthNeeded, got %+v", out)
	}
	if out.Token != "" {
		t.Fatalf("logout must bind no token, got %q", out.Token)
	}

	// Double logout with the same token is rejected: the session is gone.
	again, err := engine.Logout(ctx, testScheme, tokenRequest(login.Result.Token))
	if err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if again.Kind != ResultError || !errors.Is(again.Err, ErrInvalidSession) {
		t.Fatalf("expected Invalid_session on second logout, got %+v", again)
	}
}
