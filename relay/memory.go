package relay

import (
	"context"
	"sync"
)

// MemoryRelay keeps comments in process, one FIFO per match.
type MemoryRelay struct {
	mu      sync.Mutex
	entries map[string][]Entry
}

func NewMemoryRelay() *MemoryRelay {
	return &MemoryRelay{entries: make(map[string][]Entry)}
}

func (m *MemoryRelay) Enqueue(ctx context.Context, e Entry) error {
	if !Relayable(e.Comment) {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[e.MatchID] = append(m.entries[e.MatchID], e)
	return nil
}

// DrainAll returns every pending entry of the match in arrival order.
// Entries of other matches stay queued.
func (m *MemoryRelay) DrainAll(ctx context.Context, matchID string) ([]Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entries := m.entries[matchID]
	delete(m.entries, matchID)
	if entries == nil {
		entries = []Entry{}
	}
	return entries, nil
}

func (m *MemoryRelay) Clear(ctx context.Context, matchID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, matchID)
	return nil
}
