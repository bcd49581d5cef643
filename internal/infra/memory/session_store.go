package memory

import (
	"sync"

	"interest-quiz-service/internal/app"
)

// SessionStore is an in-memory implementation of app.SessionRepository.
// Each GetOrCreate attaches a holder; the session is dropped when the last holder releases it.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*storedSession
}

type storedSession struct {
	session *app.Session
	holders int
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*storedSession),
	}
}

func (s *SessionStore) GetOrCreate(sessionID string, init func() *app.Progress) *app.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry, ok := s.sessions[sessionID]; ok {
		entry.holders++
		return entry.session
	}
	session := app.NewSession(sessionID, init())
	s.sessions[sessionID] = &storedSession{session: session, holders: 1}
	return session
}

func (s *SessionStore) Get(sessionID string) (*app.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.sessions[sessionID]
	if !ok {
		return nil, false
	}
	return entry.session, true
}

// Release detaches one holder and reports whether the session was dropped.
func (s *SessionStore) Release(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.sessions[sessionID]
	if !ok {
		return false
	}
	entry.holders--
	if entry.holders > 0 {
		return false
	}
	delete(s.sessions, sessionID)
	return true
}

// Len returns the number of live sessions.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
