package guestcart

import (
	"encoding/json"

	"storefront-cart/internal/domain"
)

type storedSession struct {
	UserID string `json:"userId"`
	Role   string `json:"role,omitempty"`
	Token  string `json:"token"`
}

// SaveSession persists the authenticated session alongside the cart so a new
// process resumes as the same user. Returns false on storage failure.
func (s *Store) SaveSession(userID, role, token string) bool {
	raw, err := json.Marshal(storedSession{UserID: userID, Role: role, Token: token})
	if err != nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.put(keySession, string(raw))
}

// LoadSession returns the persisted session and bearer token, or an
// AnonymousSession when none is stored or the payload is unreadable.
func (s *Store) LoadSession() (domain.Session, string) {
	s.mu.Lock()
	raw, ok := s.get(keySession)
	s.mu.Unlock()
	if !ok {
		return domain.AnonymousSession{AnonymousID: s.ID()}, ""
	}
	var stored storedSession
	if err := json.Unmarshal([]byte(raw), &stored); err != nil || stored.UserID == "" {
		return domain.AnonymousSession{AnonymousID: s.ID()}, ""
	}
	return domain.AuthenticatedSession{UserID: stored.UserID, Role: stored.Role}, stored.Token
}

// ClearSession drops the persisted session on logout.
func (s *Store) ClearSession() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.db.Exec(`DELETE FROM kv WHERE key = ?`, keySession); err != nil {
		s.logger.Printf("guestcart: clear session: %v", err)
	}
}
