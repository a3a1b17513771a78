package library

import "sync"

// RecentsProvider supplies the cross-page recently-viewed list. The
// library only reads and appends through this interface; persistence
// belongs to the caller.
type RecentsProvider interface {
	// Recent returns resource ids, most recent first.
	Recent() []string
	// Touch records that a resource was just opened.
	Touch(id string)
}

// MemoryRecents is an in-process RecentsProvider with a fixed capacity.
type MemoryRecents struct {
	mu  sync.Mutex
	ids []string
	cap int
}

func NewMemoryRecents(capacity int) *MemoryRecents {
	if capacity <= 0 {
		capacity = 20
	}
	return &MemoryRecents{cap: capacity}
}

func (m *MemoryRecents) Recent() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.ids))
	copy(out, m.ids)
	return out
}

func (m *MemoryRecents) Touch(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	// Re-touching moves the id to the front.
	for i, existing := range m.ids {
		if existing == id {
			m.ids = append(m.ids[:i], m.ids[i+1:]...)
			break
		}
	}
	m.ids = append([]string{id}, m.ids...)
	if len(m.ids) > m.cap {
		m.ids = m.ids[:m.cap]
	}
}
