package catalog

import (
	"sync"

	"github.com/yourorg/trading-dashboard/internal/model"
)

const defaultMemoCapacity = 256

type memoKey struct {
	catalogID string
	category  string
	term      string
}

// Memo caches Filter results keyed on (catalog identity, category, term).
// Oldest entries are evicted once capacity is reached.
type Memo struct {
	mu       sync.Mutex
	capacity int
	entries  map[memoKey][]model.ConceptRecord
	order    []memoKey
	filter   FilterFunc
	hits     uint64
	misses   uint64
}

// NewMemo creates a memoizing filter holding at most capacity results
func NewMemo(capacity int) *Memo {
	if capacity <= 0 {
		capacity = defaultMemoCapacity
	}
	return &Memo{
		capacity: capacity,
		entries:  make(map[memoKey][]model.ConceptRecord, capacity),
		filter:   Filter,
	}
}

// Filter returns the memoized result of Filter(c, category, term).
// The returned slice is shared and must not be modified.
func (m *Memo) Filter(c *Catalog, category, term string) []model.ConceptRecord {
	key := memoKey{catalogID: c.ID(), category: category, term: term}

	m.mu.Lock()
	if result, ok := m.entries[key]; ok {
		m.hits++
		m.mu.Unlock()
		return result
	}
	m.misses++
	m.mu.Unlock()

	result := m.filter(c, category, term)

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[key]; !ok {
		if len(m.order) >= m.capacity {
			oldest := m.order[0]
			m.order = m.order[1:]
			delete(m.entries, oldest)
		}
		m.order = append(m.order, key)
	}
	m.entries[key] = result
	return result
}

// Stats returns the number of cache hits and misses so far
func (m *Memo) Stats() (hits, misses uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hits, m.misses
}

// Len returns the number of cached results
func (m *Memo) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
