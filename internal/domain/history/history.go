// Package history keeps recently completed predictions so they can be
// fetched again by id.
package history

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/okian/scorecast/internal/domain/types"
)

const defaultMaxSize = 10_000

// Store records completed predictions.
type Store interface {
	// Record stores p under p.ID. It returns true if the id was already
	// present, in which case the stored prediction is left untouched.
	Record(ctx context.Context, p types.Prediction) bool

	// Get returns the prediction stored under id.
	Get(ctx context.Context, id string) (types.Prediction, bool)

	Size() int64
}

// node is an entry in the insertion-ordered list, oldest first.
type node struct {
	id   string
	next *node
}

func (n *node) reset() {
	n.id = ""
	n.next = nil
}

// inMemoryStore implements Store with a map and an insertion-ordered list.
// Bounded mode (maxSize > 0) evicts the oldest entry when full; unbounded
// mode (maxSize <= 0) keeps everything.
type inMemoryStore struct {
	mu       sync.RWMutex
	entries  map[string]types.Prediction
	oldest   *node
	newest   *node
	maxSize  int
	size     atomic.Int64
	nodePool sync.Pool
}

// NewInMemoryStore creates a store with configuration options.
func NewInMemoryStore(opts ...Option) Store {
	s := &inMemoryStore{
		maxSize: defaultMaxSize,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.entries = make(map[string]types.Prediction)
	s.nodePool = sync.Pool{
		New: func() any {
			return &node{}
		},
	}
	return s
}

func (s *inMemoryStore) Record(_ context.Context, p types.Prediction) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[p.ID]; exists {
		return true
	}

	if s.maxSize > 0 {
		if len(s.entries) >= s.maxSize {
			s.evictOldest()
		}
		n := s.nodePool.Get().(*node)
		n.id = p.ID
		if s.newest == nil {
			s.oldest = n
		} else {
			s.newest.next = n
		}
		s.newest = n
	}
	s.entries[p.ID] = p
	s.size.Add(1)
	return false
}

func (s *inMemoryStore) Get(_ context.Context, id string) (types.Prediction, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.entries[id]
	return p, ok
}

// evictOldest drops the head of the list. Must be called with s.mu held.
func (s *inMemoryStore) evictOldest() {
	n := s.oldest
	if n == nil {
		return
	}
	s.oldest = n.next
	if s.oldest == nil {
		s.newest = nil
	}
	delete(s.entries, n.id)
	n.reset()
	s.nodePool.Put(n)
	s.size.Add(-1)
}

func (s *inMemoryStore) Size() int64 {
	return s.size.Load()
}
