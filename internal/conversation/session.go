package conversation

import (
	"sync"

	"github.com/edventure/tutorbot/internal/model/convo"
)

// Session is the ephemeral per-user interaction state. It is never
// persisted; a process restart logs everyone out.
type Session struct {
	mu sync.Mutex

	Authenticated bool
	State         convo.State
	TutorSubject  string
	Chat          ChatHandle
}

// EndFlow discards in-progress flow state and returns the session to idle.
// Authentication survives.
func (s *Session) EndFlow() {
	s.State = convo.StateIdle
	s.TutorSubject = ""
	s.Chat = nil
}

// Reset clears the session entirely, including the authenticated flag.
func (s *Session) Reset() {
	s.Authenticated = false
	s.EndFlow()
}

// Release unlocks the session after event handling.
func (s *Session) Release() {
	s.mu.Unlock()
}

// Sessions manages one Session per user, created lazily on first event.
// Acquire returns the session locked, which serializes events for one user
// while leaving distinct users free to proceed in parallel.
type Sessions struct {
	mu     sync.RWMutex
	byUser map[string]*Session
}

// NewSessions returns an empty session registry.
func NewSessions() *Sessions {
	return &Sessions{byUser: make(map[string]*Session)}
}

// Acquire returns the user's session with its lock held. Callers must
// Release it when done.
func (m *Sessions) Acquire(userID string) *Session {
	m.mu.RLock()
	sess, ok := m.byUser[userID]
	m.mu.RUnlock()

	if !ok {
		m.mu.Lock()
		sess, ok = m.byUser[userID]
		if !ok {
			sess = &Session{State: convo.StateIdle}
			m.byUser[userID] = sess
		}
		m.mu.Unlock()
	}

	sess.mu.Lock()
	return sess
}

// SessionView is a read-only snapshot of one session's state.
type SessionView struct {
	Authenticated bool
	State         convo.State
	TutorSubject  string
	Chat          ChatHandle
}

// Peek returns a snapshot of the user's session state without creating one.
// Intended for tests and diagnostics.
func (m *Sessions) Peek(userID string) (SessionView, bool) {
	m.mu.RLock()
	sess, ok := m.byUser[userID]
	m.mu.RUnlock()
	if !ok {
		return SessionView{}, false
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return SessionView{
		Authenticated: sess.Authenticated,
		State:         sess.State,
		TutorSubject:  sess.TutorSubject,
		Chat:          sess.Chat,
	}, true
}
