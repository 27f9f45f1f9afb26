package memory

import (
	"context"
	"sync"
	"time"

	"loftcal/internal/app/middleware"
)

// IdempotencyStore keeps replayable export results keyed by
// "<command>:<Idempotency-Key>". Records older than ttl are pruned on every
// save, mirroring the TTL index of the Mongo store; a zero ttl keeps them for
// the process lifetime.
type IdempotencyStore struct {
	mu      sync.RWMutex
	ttl     time.Duration
	now     func() time.Time
	records map[string]middleware.IdempotencyRecord
}

func NewIdempotencyStore(ttl time.Duration) *IdempotencyStore {
	return &IdempotencyStore{
		ttl:     ttl,
		now:     time.Now,
		records: make(map[string]middleware.IdempotencyRecord),
	}
}

func (s *IdempotencyStore) Get(ctx context.Context, key string) (middleware.IdempotencyRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[key]
	if !ok || s.expired(rec) {
		return middleware.IdempotencyRecord{}, false, nil
	}
	return rec, true, nil
}

func (s *IdempotencyStore) Save(ctx context.Context, rec middleware.IdempotencyRecord) error {
	if rec.OccurredAt.IsZero() {
		rec.OccurredAt = s.now().UTC()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, old := range s.records {
		if s.expired(old) {
			delete(s.records, key)
		}
	}
	s.records[rec.Key] = rec
	return nil
}

// Len reports how many records are held, expired ones included until the next save.
func (s *IdempotencyStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

func (s *IdempotencyStore) expired(rec middleware.IdempotencyRecord) bool {
	return s.ttl > 0 && s.now().Sub(rec.OccurredAt) >= s.ttl
}

var _ middleware.IdempotencyStore = (*IdempotencyStore)(nil)
