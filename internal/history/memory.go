package history

import (
	"context"
	"sync"
)

// Memory is an in-memory Repository. It backs tests and deployments that
// have not configured a durable history path.
type Memory struct {
	mu   sync.Mutex
	recs []Record
}

// NewMemory returns an empty in-memory history log.
func NewMemory() *Memory { return &Memory{} }

func (m *Memory) Append(_ context.Context, rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	// Front-insert so List is most-recent-first without sorting.
	m.recs = append([]Record{rec}, m.recs...)
	return nil
}

func (m *Memory) List(_ context.Context) ([]Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Record, len(m.recs))
	copy(out, m.recs)
	return out, nil
}
