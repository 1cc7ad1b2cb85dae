package cache

import (
	"sync"
	"time"

	"valutatrade-hub/internal/domain/model"
	"valutatrade-hub/pkg/logger"
)

// MemoryStore keeps every known rate in one map guarded by a RWMutex.
// Merges build a fresh map and swap it in, so readers only ever see the
// state before or after a whole cycle, never a half-applied one.
type MemoryStore struct {
	mu          sync.RWMutex
	pairs       map[string]model.RateQuote
	lastRefresh time.Time
	log         *logger.Logger
}

func NewMemoryStore(log *logger.Logger) *MemoryStore {
	return &MemoryStore{
		pairs: make(map[string]model.RateQuote),
		log:   log,
	}
}

func (s *MemoryStore) Get(base, quote model.Currency) (model.RateQuote, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q, ok := s.pairs[model.PairKey(base, quote)]
	return q, ok
}

// Merge applies quotes latest-wins per ordered pair and returns how
// many were kept. Invalid quotes are dropped; an incoming quote loses
// only to a strictly newer stored one. Existing pairs are never
// deleted.
func (s *MemoryStore) Merge(quotes []model.RateQuote) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make(map[string]model.RateQuote, len(s.pairs)+len(quotes))
	for k, q := range s.pairs {
		next[k] = q
	}

	applied := 0
	for _, q := range quotes {
		if err := q.Validate(); err != nil {
			s.log.Debug("Rejecting quote", "pair", q.PairKey(), "error", err)
			continue
		}

		key := q.PairKey()
		if existing, ok := next[key]; ok && q.ObservedAt.Before(existing.ObservedAt) {
			continue
		}

		next[key] = q
		applied++
	}

	s.pairs = next
	s.lastRefresh = time.Now()
	return applied
}

func (s *MemoryStore) Snapshot() model.RateSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pairs := make(map[string]model.RateQuote, len(s.pairs))
	for k, q := range s.pairs {
		pairs[k] = q
	}

	return model.RateSnapshot{
		Pairs:       pairs,
		LastRefresh: s.lastRefresh,
	}
}

// Hydrate replaces the store contents wholesale, typically from a
// persisted snapshot at startup. Unusable entries are skipped.
func (s *MemoryStore) Hydrate(snap model.RateSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make(map[string]model.RateQuote, len(snap.Pairs))
	for _, q := range snap.Pairs {
		if err := q.Validate(); err != nil {
			s.log.Debug("Skipping snapshot entry", "pair", q.PairKey(), "error", err)
			continue
		}
		next[q.PairKey()] = q
	}

	s.pairs = next
	s.lastRefresh = snap.LastRefresh
}

func (s *MemoryStore) LastRefresh() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastRefresh
}

func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.pairs)
}
