package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is the redis-less fallback for local development. Sessions are
// lost on restart and cannot be shared across instances.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]memorySession
	now      func() time.Time
}

type memorySession struct {
	userID    int64
	expiresAt time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]memorySession),
		now:      time.Now,
	}
}

func (s *MemoryStore) Create(ctx context.Context, userID int64) (string, error) {
	id := uuid.NewString()
	s.mu.Lock()
	s.sessions[id] = memorySession{userID: userID, expiresAt: s.now().Add(TTL)}
	s.mu.Unlock()
	return id, nil
}

func (s *MemoryStore) Resolve(ctx context.Context, sessionID string) (int64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return 0, false, nil
	}
	if s.now().After(sess.expiresAt) {
		delete(s.sessions, sessionID)
		return 0, false, nil
	}
	return sess.userID, true, nil
}
