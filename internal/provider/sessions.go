package provider

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// challengeSession is the ephemeral provider-side state for one in-flight
// challenge round. It never reaches the record store; continuity across
// requests rides entirely on the opaque session token.
type challengeSession struct {
	Email         string
	ChallengeName string
	Private       map[string]string
	Attempts      int
	ExpiresAt     time.Time
}

type sessionStore struct {
	mu       sync.Mutex
	sessions map[string]challengeSession
	ttl      time.Duration
}

func newSessionStore(ttl time.Duration) *sessionStore {
	return &sessionStore{sessions: make(map[string]challengeSession), ttl: ttl}
}

func (s *sessionStore) create(email, name string, private map[string]string) string {
	token := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.purgeExpiredLocked()
	s.sessions[token] = challengeSession{
		Email:         email,
		ChallengeName: name,
		Private:       private,
		ExpiresAt:     time.Now().Add(s.ttl),
	}
	return token
}

func (s *sessionStore) get(token string) (challengeSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[token]
	if !ok {
		return challengeSession{}, false
	}
	if time.Now().After(sess.ExpiresAt) {
		delete(s.sessions, token)
		return challengeSession{}, false
	}
	return sess, true
}

// advance moves an existing session to the next round, keeping the token
// and resetting nothing but the round payload. Attempts carry over so a
// client cannot refresh its budget by passing a round.
func (s *sessionStore) advance(token, name string, private map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[token]
	if !ok {
		return
	}
	sess.ChallengeName = name
	sess.Private = private
	s.sessions[token] = sess
}

// fail counts a wrong answer and reports whether the attempt budget is now
// exhausted, deleting the session when it is.
func (s *sessionStore) fail(token string, maxAttempts int) (exhausted bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[token]
	if !ok {
		return true
	}
	sess.Attempts++
	if sess.Attempts >= maxAttempts {
		delete(s.sessions, token)
		return true
	}
	s.sessions[token] = sess
	return false
}

func (s *sessionStore) delete(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
}

// purgeExpiredLocked drops dead sessions so abandoned logins cannot grow
// the map without bound. Caller holds the lock.
func (s *sessionStore) purgeExpiredLocked() {
	now := time.Now()
	for token, sess := range s.sessions {
		if now.After(sess.ExpiresAt) {
			delete(s.sessions, token)
		}
	}
}
