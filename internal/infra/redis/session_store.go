package redis

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"interest-quiz-service/internal/app"
)

// SessionStore is a Redis-aware implementation of SessionRepository.
// Notes:
//   - Progress stays in process; test takers keep their own copy through saved
//     progress files.
//   - Redis only carries a liveness marker per session so operators can count
//     open sessions across instances (SCAN quiz:session:*). The marker is
//     refreshed on every lookup.
//   - A session shared by several connections is dropped when the last one releases it.
type SessionStore struct {
	client   *redis.Client
	ttl      time.Duration
	mu       sync.RWMutex
	sessions map[string]*storedSession
}

type storedSession struct {
	session *app.Session
	holders int
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client:   client,
		ttl:      ttl,
		sessions: make(map[string]*storedSession),
	}
}

func (s *SessionStore) GetOrCreate(sessionID string, init func() *app.Progress) *app.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.touch(sessionID)
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
	entry, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	s.touch(sessionID)
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
	_ = s.client.Del(context.Background(), s.key(sessionID)).Err()
	return true
}

// best-effort liveness marker
func (s *SessionStore) touch(sessionID string) {
	_ = s.client.Set(context.Background(), s.key(sessionID), "1", s.ttl).Err()
}

func (s *SessionStore) key(sessionID string) string {
	return "quiz:session:" + sessionID
}
