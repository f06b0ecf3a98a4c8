package session

import (
	"context"
	"io"
	"log"
	"testing"
)

type stubReconciler struct {
	logins  []string
	logouts int
	retries int
}

func (s *stubReconciler) Login(ctx context.Context, userID, role, token string) error {
	s.logins = append(s.logins, userID)
	return nil
}

func (s *stubReconciler) Logout() {
	s.logouts++
}

func (s *stubReconciler) RetryPendingMerge(ctx context.Context) error {
	s.retries++
	return nil
}

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func loginEvent(userID string) Event {
	return Event{Kind: EventLogin, UserID: userID, Role: "customer", Token: "tok-" + userID}
}

func TestNotify_DeduplicatesRepeatedLogin(t *testing.T) {
	rec := &stubReconciler{}
	bridge := New(rec, testLogger())
	ctx := context.Background()

	bridge.Notify(ctx, loginEvent("u1"))
	bridge.Notify(ctx, loginEvent("u1"))
	bridge.Notify(ctx, loginEvent("u1"))

	if len(rec.logins) != 1 {
		t.Fatalf("expected one login transition, got %d", len(rec.logins))
	}
	if rec.logouts != 0 {
		t.Fatalf("unexpected logout count %d", rec.logouts)
	}
}

func TestNotify_DeduplicatesRepeatedLogout(t *testing.T) {
	rec := &stubReconciler{}
	bridge := New(rec, testLogger())
	ctx := context.Background()

	bridge.Notify(ctx, Event{Kind: EventLogout})
	if rec.logouts != 0 {
		t.Fatalf("logout while anonymous must be ignored")
	}

	bridge.Notify(ctx, loginEvent("u1"))
	bridge.Notify(ctx, Event{Kind: EventLogout})
	bridge.Notify(ctx, Event{Kind: EventLogout})

	if rec.logouts != 1 {
		t.Fatalf("expected one logout transition, got %d", rec.logouts)
	}
}

func TestNotify_UserSwitchLogsOutFirst(t *testing.T) {
	rec := &stubReconciler{}
	bridge := New(rec, testLogger())
	ctx := context.Background()

	bridge.Notify(ctx, loginEvent("u1"))
	bridge.Notify(ctx, loginEvent("u2"))

	if rec.logouts != 1 {
		t.Fatalf("switching users must log the first one out, got %d logouts", rec.logouts)
	}
	if len(rec.logins) != 2 || rec.logins[1] != "u2" {
		t.Fatalf("unexpected login sequence %v", rec.logins)
	}
}

func TestNotify_IgnoresLoginWithoutUserID(t *testing.T) {
	rec := &stubReconciler{}
	bridge := New(rec, testLogger())

	bridge.Notify(context.Background(), Event{Kind: EventLogin})

	if len(rec.logins) != 0 {
		t.Fatalf("login without a user id must be dropped")
	}
}

func TestResume_RunsPendingMergeSweep(t *testing.T) {
	rec := &stubReconciler{}
	bridge := New(rec, testLogger())
	ctx := context.Background()

	bridge.Resume(ctx, "u1")

	if rec.retries != 1 {
		t.Fatalf("expected one merge retry, got %d", rec.retries)
	}

	// The resumed user is already known; re-announcing it must not re-login.
	bridge.Notify(ctx, loginEvent("u1"))
	if len(rec.logins) != 0 {
		t.Fatalf("resumed user re-announced must not trigger a login, got %v", rec.logins)
	}
}

func TestRun_ConsumesUntilChannelCloses(t *testing.T) {
	rec := &stubReconciler{}
	bridge := New(rec, testLogger())

	events := make(chan Event, 3)
	events <- loginEvent("u1")
	events <- Event{Kind: EventLogout}
	events <- loginEvent("u2")
	close(events)

	bridge.Run(context.Background(), events)

	if len(rec.logins) != 2 {
		t.Fatalf("expected two logins, got %v", rec.logins)
	}
	if rec.logouts != 1 {
		t.Fatalf("expected one logout, got %d", rec.logouts)
	}
}
