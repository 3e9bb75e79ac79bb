package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

const defaultCleanupInterval = 30 * time.Second

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

func (e *memoryEntry) isExpired(now time.Time) bool {
	return now.After(e.expiresAt)
}

// InMemoryStore implements Store in process memory.
// It does not share state across instances.
type InMemoryStore struct {
	entries sync.Map // map[string]*memoryEntry
	now     func() time.Time
	stopCh  chan struct{}
	stopped int32

	hits   int64
	misses int64
}

// InMemoryStoreOption is a functional option for configuring the store
type InMemoryStoreOption func(*inMemoryOptions)

type inMemoryOptions struct {
	cleanupInterval time.Duration
	now             func() time.Time
}

// WithCleanupInterval sets how often expired entries are purged
func WithCleanupInterval(d time.Duration) InMemoryStoreOption {
	return func(o *inMemoryOptions) {
		o.cleanupInterval = d
	}
}

// WithClock overrides the time source
func WithClock(now func() time.Time) InMemoryStoreOption {
	return func(o *inMemoryOptions) {
		o.now = now
	}
}

// NewInMemoryStore creates a store and starts its background cleanup
func NewInMemoryStore(opts ...InMemoryStoreOption) *InMemoryStore {
	o := inMemoryOptions{cleanupInterval: defaultCleanupInterval, now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	s := &InMemoryStore{
		now:    o.now,
		stopCh: make(chan struct{}),
	}
	go s.cleanupLoop(o.cleanupInterval)
	return s
}

// Get implements Store
func (s *InMemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	if value, ok := s.entries.Load(key); ok {
		entry := value.(*memoryEntry)
		if !entry.isExpired(s.now()) {
			atomic.AddInt64(&s.hits, 1)
			return entry.value, true, nil
		}
		s.entries.Delete(key)
	}
	atomic.AddInt64(&s.misses, 1)
	return nil, false, nil
}

// Set implements Store. A non-positive ttl stores nothing.
func (s *InMemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	s.entries.Store(key, &memoryEntry{value: value, expiresAt: s.now().Add(ttl)})
	return nil
}

// Stats returns hit and miss counts
func (s *InMemoryStore) Stats() (hits, misses int64) {
	return atomic.LoadInt64(&s.hits), atomic.LoadInt64(&s.misses)
}

// Close stops the cleanup goroutine; it is safe to call more than once
func (s *InMemoryStore) Close() error {
	if atomic.CompareAndSwapInt32(&s.stopped, 0, 1) {
		close(s.stopCh)
	}
	return nil
}

func (s *InMemoryStore) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.purgeExpired()
		case <-s.stopCh:
			return
		}
	}
}

func (s *InMemoryStore) purgeExpired() {
	now := s.now()
	s.entries.Range(func(key, value any) bool {
		if value.(*memoryEntry).isExpired(now) {
			s.entries.Delete(key)
		}
		return true
	})
}
