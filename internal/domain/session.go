package domain

// Session is the visitor identity the cart engine routes on. Exactly two
// implementations exist; consumers type-switch rather than probing fields.
type Session interface {
	sessionKind() string
}

// AnonymousSession identifies a not-yet-authenticated visitor. AnonymousID is
// generated once per device profile and never reused across visitors.
type AnonymousSession struct {
	AnonymousID string
}

// AuthenticatedSession identifies a logged-in user.
type AuthenticatedSession struct {
	UserID string
	Role   string
}

func (AnonymousSession) sessionKind() string     { return "anonymous" }
func (AuthenticatedSession) sessionKind() string { return "authenticated" }
