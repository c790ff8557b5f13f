package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memoryEntry struct {
	user    string
	expires time.Time
}

// Memory is an in-process Store. Sessions do not survive a restart, which
// is acceptable for a single-node deployment: the manager logs in again.
type Memory struct {
	ttl time.Duration
	now func() time.Time

	mu       sync.Mutex
	sessions map[string]memoryEntry
}

// NewMemory returns an in-memory session store. A non-positive ttl falls
// back to DefaultTTL.
func NewMemory(ttl time.Duration) *Memory {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Memory{
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]memoryEntry),
	}
}

func (m *Memory) Create(_ context.Context, user string) (string, error) {
	token := uuid.NewString()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[token] = memoryEntry{user: user, expires: m.now().Add(m.ttl)}
	return token, nil
}

func (m *Memory) User(_ context.Context, token string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.sessions[token]
	if !ok {
		return "", ErrNoSession
	}
	if m.now().After(e.expires) {
		delete(m.sessions, token)
		return "", ErrNoSession
	}
	return e.user, nil
}

func (m *Memory) Destroy(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
	return nil
}
