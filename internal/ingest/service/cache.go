package service

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rupeehub/ledgerline/internal/ingest/repository"
)

// TransactionCache is an explicit, caller-owned cache of per-user
// transaction lists with a TTL. The pipeline never touches it on its own;
// callers pass it in, read through it, and invalidate after an import or a
// reclassification.
type TransactionCache struct {
	ttl     time.Duration
	mu      sync.RWMutex
	entries map[uuid.UUID]cacheEntry
	now     func() time.Time
}

type cacheEntry struct {
	txs     []repository.Transaction
	expires time.Time
}

// NewTransactionCache builds a cache with the given TTL.
func NewTransactionCache(ttl time.Duration) *TransactionCache {
	return &TransactionCache{
		ttl:     ttl,
		entries: make(map[uuid.UUID]cacheEntry),
		now:     time.Now,
	}
}

// Get returns the cached list if present and not expired.
func (c *TransactionCache) Get(userID uuid.UUID) ([]repository.Transaction, bool) {
	c.mu.RLock()
	entry, ok := c.entries[userID]
	c.mu.RUnlock()
	if !ok || c.now().After(entry.expires) {
		return nil, false
	}
	return entry.txs, true
}

// Put stores a list, restarting its TTL.
func (c *TransactionCache) Put(userID uuid.UUID, txs []repository.Transaction) {
	c.mu.Lock()
	c.entries[userID] = cacheEntry{txs: txs, expires: c.now().Add(c.ttl)}
	c.mu.Unlock()
}

// Invalidate drops one user's entry.
func (c *TransactionCache) Invalidate(userID uuid.UUID) {
	c.mu.Lock()
	delete(c.entries, userID)
	c.mu.Unlock()
}

// Sweep drops every expired entry and reports how many were removed.
// The cron scheduler calls this periodically.
func (c *TransactionCache) Sweep() int {
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for id, entry := range c.entries {
		if now.After(entry.expires) {
			delete(c.entries, id)
			removed++
		}
	}
	return removed
}

// Len reports the live entry count.
func (c *TransactionCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
