// Package cache provides a TTL-bounded result cache shared by the scraper
// and the market research engine. Entries are immutable once set and keyed by
// deterministic fingerprints, so concurrent readers and writers are safe
// without record-level locking.
package cache

import (
	"context"
	"sync"
	"time"
)

// Default TTLs for the two enrichment caches.
const (
	BrandTTL  = time.Hour
	MarketTTL = 30 * time.Minute
)

// Store is the only contract components see; the backing implementation
// (in-process map, Redis) is swappable.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte)
	Has(ctx context.Context, key string) bool
}

type entry struct {
	value     []byte
	expiresAt time.Time
}

// Memory is an in-process Store with lazy expiry plus a periodic sweep.
type Memory struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]entry
	done    chan struct{}
	once    sync.Once
}

// NewMemory creates an in-process store. A background sweeper evicts expired
// entries every ttl/4 (minimum 1 minute) until Close is called.
func NewMemory(ttl time.Duration) *Memory {
	m := &Memory{
		ttl:     ttl,
		entries: make(map[string]entry),
		done:    make(chan struct{}),
	}
	interval := ttl / 4
	if interval < time.Minute {
		interval = time.Minute
	}
	go m.sweep(interval)
	return m
}

// Get returns the cached value if present and unexpired.
func (m *Memory) Get(_ context.Context, key string) ([]byte, bool) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok || time.Now().After(e.expiresAt) {
		return nil, false
	}
	return e.value, true
}

// Set stores a fully-built value under key with the store's TTL.
func (m *Memory) Set(_ context.Context, key string, value []byte) {
	m.mu.Lock()
	m.entries[key] = entry{value: value, expiresAt: time.Now().Add(m.ttl)}
	m.mu.Unlock()
}

// Has reports whether an unexpired entry exists for key.
func (m *Memory) Has(ctx context.Context, key string) bool {
	_, ok := m.Get(ctx, key)
	return ok
}

// Close stops the background sweeper.
func (m *Memory) Close() {
	m.once.Do(func() { close(m.done) })
}

func (m *Memory) sweep(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-m.done:
			return
		case now := <-ticker.C:
			m.mu.Lock()
			for k, e := range m.entries {
				if now.After(e.expiresAt) {
					delete(m.entries, k)
				}
			}
			m.mu.Unlock()
		}
	}
}
