package memory

import (
	"context"
	"sync"
	"time"
)

// Sessions is an in-process SessionRepository for single-instance deployments.
type Sessions struct {
	mu   sync.RWMutex
	data map[string]*record
	now  func() time.Time
}

type record struct {
	values    map[string]string
	expiresAt time.Time
}

func NewSessions() *Sessions {
	return &Sessions{data: map[string]*record{}, now: time.Now}
}

func (s *Sessions) Get(_ context.Context, sessionID, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.data[sessionID]
	if !ok || !s.now().Before(r.expiresAt) {
		return "", false, nil
	}
	v, ok := r.values[key]
	return v, ok, nil
}

func (s *Sessions) SetMany(_ context.Context, sessionID string, values map[string]string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.data[sessionID]
	if !ok || !s.now().Before(r.expiresAt) {
		r = &record{values: map[string]string{}}
		s.data[sessionID] = r
	}
	for k, v := range values {
		r.values[k] = v
	}
	r.expiresAt = s.now().Add(ttl)
	return nil
}

func (s *Sessions) PruneExpired(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, r := range s.data {
		if !now.Before(r.expiresAt) {
			delete(s.data, id)
			n++
		}
	}
	return n, nil
}
