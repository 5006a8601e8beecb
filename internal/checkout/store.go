package checkout

import (
	"context"
	"errors"
	"sync"
	"time"

	"sortmyscene/pkg/cache"
)

var ErrCheckoutNotFound = errors.New("checkout not found")

const storeKeyPrefix = "sortmyscene:checkout:"

// Store holds in-flight checkouts under a TTL. Expiry is the only way a
// checkout ends besides explicit deletion; there is no persistence beyond it.
type Store interface {
	Get(ctx context.Context, id string) (*Checkout, error)
	Save(ctx context.Context, chk *Checkout) error
	Delete(ctx context.Context, id string) error
}

// redisStore keeps checkouts in Redis so they survive server restarts within
// the TTL and are shared across instances.
type redisStore struct {
	cache cache.Service
	ttl   time.Duration
}

func NewRedisStore(cacheService cache.Service, ttl time.Duration) Store {
	return &redisStore{cache: cacheService, ttl: ttl}
}

func (s *redisStore) Get(ctx context.Context, id string) (*Checkout, error) {
	var chk Checkout
	if err := s.cache.Get(ctx, storeKeyPrefix+id, &chk); err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return nil, ErrCheckoutNotFound
		}
		return nil, err
	}
	return &chk, nil
}

func (s *redisStore) Save(ctx context.Context, chk *Checkout) error {
	// Every write refreshes the TTL; an active checkout stays alive.
	return s.cache.Set(ctx, storeKeyPrefix+chk.ID, chk, s.ttl)
}

func (s *redisStore) Delete(ctx context.Context, id string) error {
	return s.cache.Delete(ctx, storeKeyPrefix+id)
}

// memoryStore is the fallback when Redis is not configured.
type memoryStore struct {
	mu       sync.RWMutex
	ttl      time.Duration
	entries  map[string]memoryEntry
	lastScan time.Time
}

type memoryEntry struct {
	checkout  Checkout
	expiresAt time.Time
}

func NewMemoryStore(ttl time.Duration) Store {
	return &memoryStore{
		ttl:      ttl,
		entries:  make(map[string]memoryEntry),
		lastScan: time.Now(),
	}
}

func (s *memoryStore) Get(ctx context.Context, id string) (*Checkout, error) {
	s.mu.RLock()
	entry, ok := s.entries[id]
	s.mu.RUnlock()

	if !ok || time.Now().After(entry.expiresAt) {
		if ok {
			s.mu.Lock()
			delete(s.entries, id)
			s.mu.Unlock()
		}
		return nil, ErrCheckoutNotFound
	}

	return entry.checkout.clone(), nil
}

func (s *memoryStore) Save(ctx context.Context, chk *Checkout) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Both Get and Save deep-copy so no caller shares the stored maps.
	s.entries[chk.ID] = memoryEntry{
		checkout:  *chk.clone(),
		expiresAt: time.Now().Add(s.ttl),
	}
	s.sweepLocked()
	return nil
}

func (s *memoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	delete(s.entries, id)
	s.mu.Unlock()
	return nil
}

// sweepLocked drops expired entries at most once per TTL window.
func (s *memoryStore) sweepLocked() {
	now := time.Now()
	if now.Sub(s.lastScan) < s.ttl {
		return
	}
	s.lastScan = now
	for id, entry := range s.entries {
		if now.After(entry.expiresAt) {
			delete(s.entries, id)
		}
	}
}
