// Package session keeps the backend bearer token in persistent preferences.
package session

import "sync"

// TokenKey is the preference key holding the bearer token
const TokenKey = "token"

// Preferences is the subset of fyne.Preferences the session needs
type Preferences interface {
	String(key string) string
	SetString(key string, value string)
	RemoveValue(key string)
}

// Session gates access to the dashboard on the presence of a token
type Session struct {
	mu    sync.RWMutex
	prefs Preferences
}

// New creates a session backed by prefs
func New(prefs Preferences) *Session {
	return &Session{prefs: prefs}
}

// Token returns the stored token or ""
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prefs.String(TokenKey)
}

// Authenticated reports whether a token is stored
func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

// Save stores a token after a successful login
func (s *Session) Save(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs.SetString(TokenKey, token)
}

// Clear forgets the token (logout)
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs.RemoveValue(TokenKey)
}
