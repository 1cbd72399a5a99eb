package cache

import (
	"context"
	"sync"
	"time"

	"github.com/edusaas/backend/internal/domain/shared"
)

const sweepInterval = 5 * time.Minute

// InMemoryIdempotencyStore keeps handled webhook event IDs in a map with
// per-entry expiry. State is per process, so it only suits a single replica
// or local development; see RedisIdempotencyStore otherwise.
type InMemoryIdempotencyStore struct {
	mu      sync.Mutex
	expires map[string]time.Time
	now     func() time.Time

	stop context.CancelFunc
	done chan struct{}
}

// NewInMemoryIdempotencyStore creates a store and starts its expiry sweeper
func NewInMemoryIdempotencyStore() *InMemoryIdempotencyStore {
	return newInMemoryIdempotencyStore(sweepInterval, time.Now)
}

func newInMemoryIdempotencyStore(interval time.Duration, now func() time.Time) *InMemoryIdempotencyStore {
	ctx, cancel := context.WithCancel(context.Background())
	s := &InMemoryIdempotencyStore{
		expires: make(map[string]time.Time),
		now:     now,
		stop:    cancel,
		done:    make(chan struct{}),
	}
	go s.sweepEvery(ctx, interval)
	return s
}

// MarkProcessed records eventID until now+ttl. An ID whose earlier record
// has expired counts as new again.
func (s *InMemoryIdempotencyStore) MarkProcessed(_ context.Context, eventID string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if s.liveLocked(eventID, now) {
		return false, nil
	}
	s.expires[eventID] = now.Add(ttl)
	return true, nil
}

// IsProcessed reports whether eventID has an unexpired record
func (s *InMemoryIdempotencyStore) IsProcessed(_ context.Context, eventID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.liveLocked(eventID, s.now()), nil
}

// Forget removes eventID's record
func (s *InMemoryIdempotencyStore) Forget(_ context.Context, eventID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.expires, eventID)
	return nil
}

func (s *InMemoryIdempotencyStore) liveLocked(eventID string, now time.Time) bool {
	exp, ok := s.expires[eventID]
	return ok && now.Before(exp)
}

// Close stops the sweeper and waits for it. Later calls return immediately.
func (s *InMemoryIdempotencyStore) Close() error {
	s.stop()
	<-s.done
	return nil
}

func (s *InMemoryIdempotencyStore) sweepEvery(ctx context.Context, interval time.Duration) {
	defer close(s.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

// sweep drops expired records
func (s *InMemoryIdempotencyStore) sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for id := range s.expires {
		if !s.liveLocked(id, now) {
			delete(s.expires, id)
		}
	}
}

// Size counts stored records, including expired ones not yet swept
func (s *InMemoryIdempotencyStore) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.expires)
}

var _ shared.IdempotencyStore = (*InMemoryIdempotencyStore)(nil)
