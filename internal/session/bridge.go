package session

import (
	"context"
	"log"
	"sync"
)

// Reconciler is the cart engine the bridge drives on auth transitions.
type Reconciler interface {
	Login(ctx context.Context, userID, role, token string) error
	Logout()
	RetryPendingMerge(ctx context.Context) error
}

// EventKind distinguishes the two auth-state transitions.
type EventKind int

const (
	EventLogin EventKind = iota
	EventLogout
)

// Event is one observed auth-state notification. The same state may be
// reported repeatedly by the UI; the bridge deduplicates.
type Event struct {
	Kind   EventKind
	UserID string
	Role   string
	Token  string
}

// Bridge observes the authentication signal and invokes the reconciler's
// Login/Logout exactly once per real transition, no matter how many times
// the same state is re-announced.
type Bridge struct {
	rec    Reconciler
	logger *log.Logger

	mu         sync.Mutex
	authedUser string
}

func New(rec Reconciler, logger *log.Logger) *Bridge {
	return &Bridge{rec: rec, logger: logger}
}

// Notify feeds one auth observation into the bridge. Duplicate notifications
// for the current state are dropped; a login for a different user is treated
// as logout followed by login.
func (b *Bridge) Notify(ctx context.Context, ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch ev.Kind {
	case EventLogin:
		if ev.UserID == "" {
			b.logger.Printf("session: ignoring login event without user id")
			return
		}
		if b.authedUser == ev.UserID {
			return
		}
		if b.authedUser != "" {
			b.rec.Logout()
		}
		b.authedUser = ev.UserID
		if err := b.rec.Login(ctx, ev.UserID, ev.Role, ev.Token); err != nil {
			b.logger.Printf("session: login transition: %v", err)
		}
	case EventLogout:
		if b.authedUser == "" {
			return
		}
		b.authedUser = ""
		b.rec.Logout()
	}
}

// Resume runs the startup sweep: if the process came back up authenticated
// with guest lines still pending, the merge is attempted immediately.
func (b *Bridge) Resume(ctx context.Context, userID string) {
	b.mu.Lock()
	b.authedUser = userID
	b.mu.Unlock()
	if err := b.rec.RetryPendingMerge(ctx); err != nil {
		b.logger.Printf("session: pending merge retry: %v", err)
	}
}

// Run consumes auth events until the stream closes or the context ends.
func (b *Bridge) Run(ctx context.Context, events <-chan Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			b.Notify(ctx, ev)
		}
	}
}
