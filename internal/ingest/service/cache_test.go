package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rupeehub/ledgerline/internal/ingest/repository"
)

func TestTransactionCache(t *testing.T) {
	userID := uuid.New()
	txs := []repository.Transaction{{ID: uuid.New()}}

	t.Run("get within TTL", func(t *testing.T) {
		c := NewTransactionCache(time.Minute)
		c.Put(userID, txs)

		got, ok := c.Get(userID)
		require.True(t, ok)
		assert.Len(t, got, 1)
	})

	t.Run("expired entry misses", func(t *testing.T) {
		c := NewTransactionCache(time.Minute)
		now := time.Now()
		c.now = func() time.Time { return now }
		c.Put(userID, txs)

		c.now = func() time.Time { return now.Add(2 * time.Minute) }
		_, ok := c.Get(userID)
		assert.False(t, ok)
	})

	t.Run("invalidate drops the entry", func(t *testing.T) {
		c := NewTransactionCache(time.Minute)
		c.Put(userID, txs)
		c.Invalidate(userID)

		_, ok := c.Get(userID)
		assert.False(t, ok)
	})

	t.Run("sweep removes only expired entries", func(t *testing.T) {
		c := NewTransactionCache(time.Minute)
		now := time.Now()
		c.now = func() time.Time { return now }

		oldUser := uuid.New()
		c.Put(oldUser, txs)

		c.now = func() time.Time { return now.Add(30 * time.Second) }
		freshUser := uuid.New()
		c.Put(freshUser, txs)

		c.now = func() time.Time { return now.Add(70 * time.Second) }
		removed := c.Sweep()

		assert.Equal(t, 1, removed)
		assert.Equal(t, 1, c.Len())
		_, ok := c.Get(freshUser)
		assert.True(t, ok)
	})
}
