package redis

import (
	"context"
	"sync"
	"time"

	"trivia-quiz-service/internal/app"

	"github.com/redis/go-redis/v9"
)

// SessionStore is a Redis-aware implementation of app.SessionRepository.
// Notes:
//   - Sessions own a live timer, so the session itself stays in a local map.
//   - Redis marks session liveness, letting other instances (and operators)
//     see which quiz attempts are running where.
type SessionStore struct {
	client   *redis.Client
	ttl      time.Duration
	mu       sync.RWMutex
	sessions map[string]*app.Session
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client:   client,
		ttl:      ttl,
		sessions: make(map[string]*app.Session),
	}
}

func (s *SessionStore) Put(session *app.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.sessions[session.ID()]; ok && old != session {
		old.Close()
	}
	s.sessions[session.ID()] = session
	// best-effort liveness marker
	_ = s.client.Set(context.Background(), s.key(session.ID()), string(session.Status()), s.ttl).Err()
}

func (s *SessionStore) Get(sessionID string) (*app.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[sessionID]
	return session, ok
}

func (s *SessionStore) Delete(sessionID string) {
	s.mu.Lock()
	session, ok := s.sessions[sessionID]
	delete(s.sessions, sessionID)
	s.mu.Unlock()

	_ = s.client.Del(context.Background(), s.key(sessionID)).Err()
	if ok {
		session.Close()
	}
}

// Sweep closes and drops sessions idle for longer than ttl and refreshes the
// liveness marker of the rest.
func (s *SessionStore) Sweep(now time.Time, ttl time.Duration) int {
	ctx := context.Background()

	s.mu.Lock()
	var stale []*app.Session
	pipe := s.client.Pipeline()
	for id, session := range s.sessions {
		if now.Sub(session.LastActivity()) > ttl {
			stale = append(stale, session)
			delete(s.sessions, id)
			pipe.Del(ctx, s.key(id))
			continue
		}
		pipe.Set(ctx, s.key(id), string(session.Status()), s.ttl)
	}
	s.mu.Unlock()
	_, _ = pipe.Exec(ctx)

	for _, session := range stale {
		session.Close()
	}
	return len(stale)
}

func (s *SessionStore) key(sessionID string) string {
	return "quiz:session:" + sessionID
}
