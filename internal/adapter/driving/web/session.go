package web

import (
	"net/http"
	"sync"
	"time"
)

const sessionCookieName = "opticatalog_session"

// SessionStore tracks logged-in admin browsers. Sessions live in memory and
// are lost on restart; the admin simply logs in again.
type SessionStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	sessions map[string]time.Time // token -> expiry
}

// NewSessionStore creates a SessionStore whose sessions expire after ttl.
func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]time.Time),
	}
}

// Create starts a session and returns its token.
func (s *SessionStore) Create() string {
	token := generateToken()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked()
	s.sessions[token] = s.now().Add(s.ttl)
	return token
}

// Valid reports whether token names a live session.
func (s *SessionStore) Valid(token string) bool {
	if token == "" {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	expiry, ok := s.sessions[token]
	if !ok {
		return false
	}
	if !s.now().Before(expiry) {
		delete(s.sessions, token)
		return false
	}
	return true
}

// Delete ends the session named by token.
func (s *SessionStore) Delete(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
}

// DeleteAll ends every session, used after a password change.
func (s *SessionStore) DeleteAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.sessions)
}

func (s *SessionStore) pruneLocked() {
	now := s.now()
	for token, expiry := range s.sessions {
		if !now.Before(expiry) {
			delete(s.sessions, token)
		}
	}
}

// loggedIn reports whether the request carries a live session cookie.
func (s *SessionStore) loggedIn(r *http.Request) bool {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return false
	}
	return s.Valid(cookie.Value)
}

func (s *SessionStore) setCookie(w http.ResponseWriter, r *http.Request, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   r.TLS != nil,
	})
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}
