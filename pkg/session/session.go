package session

import (
	"context"
	"net/http"
	"time"
)

// Data is the denormalized user snapshot taken at login. It is not re-synced
// with the user row until the next login.
type Data struct {
	UserID    uint              `json:"user_id,omitempty"`
	Username  string            `json:"username,omitempty"`
	Role      string            `json:"role,omitempty"`
	FirstName string            `json:"first_name,omitempty"`
	LastName  string            `json:"last_name,omitempty"`
	Email     string            `json:"email,omitempty"`
	CreatedAt time.Time         `json:"created_at,omitempty"`
	Flash     map[string]string `json:"flash,omitempty"`
}

// Session binds a snapshot to its server-side id. A session with an empty
// UserID is anonymous.
type Session struct {
	ID    string
	Data  Data
	store *Store
}

// Authenticated reports whether the session carries a logged-in user
func (s *Session) Authenticated() bool {
	return s.Data.UserID != 0
}

// Save persists the snapshot through the owning store
func (s *Session) Save(ctx context.Context, w http.ResponseWriter) error {
	return s.store.Save(ctx, w, s)
}

// Destroy removes the snapshot and expires the cookie
func (s *Session) Destroy(ctx context.Context, w http.ResponseWriter) error {
	return s.store.Destroy(ctx, w, s)
}

// Clear drops every value from the session, keeping the id
func (s *Session) Clear() {
	s.Data = Data{}
}

// SetFlash stores a one-shot message under key, shown on the next render
func (s *Session) SetFlash(key, message string) {
	if s.Data.Flash == nil {
		s.Data.Flash = make(map[string]string)
	}
	s.Data.Flash[key] = message
}

// PopFlash returns the message under key and removes it. The caller must
// save the session afterwards for the removal to stick.
func (s *Session) PopFlash(key string) string {
	if s.Data.Flash == nil {
		return ""
	}
	message := s.Data.Flash[key]
	delete(s.Data.Flash, key)
	return message
}

// PopAllFlashes drains every pending flash message
func (s *Session) PopAllFlashes() map[string]string {
	flashes := s.Data.Flash
	s.Data.Flash = nil
	return flashes
}
