// Package identity tracks the signed-in agent for the lifetime of a session.
package identity

import (
	"sync"

	"groundops-service/pkg/eventbus"
)

// Session holds the current user id and announces changes
type Session struct {
	mu      sync.RWMutex
	userID  string
	changes *eventbus.Bus[string]
}

// NewSession starts a session, signed in as userID when it is not empty
func NewSession(userID string) *Session {
	return &Session{userID: userID, changes: eventbus.New[string]()}
}

// CurrentUserID returns the signed-in user, if any
func (s *Session) CurrentUserID() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userID, s.userID != ""
}

// SignIn switches the session to userID
func (s *Session) SignIn(userID string) {
	s.set(userID)
}

// SignOut returns the session to the shared public scope
func (s *Session) SignOut() {
	s.set("")
}

// OnChange registers fn to run with the new user id after every switch
func (s *Session) OnChange(fn func(userID string)) eventbus.Unsubscribe {
	return s.changes.Subscribe(fn)
}

func (s *Session) set(userID string) {
	s.mu.Lock()
	changed := s.userID != userID
	s.userID = userID
	s.mu.Unlock()

	if changed {
		s.changes.Emit(userID)
	}
}
