package store

import (
	"sync"
	"time"

	"github.com/lunalabs/lunamem/internal/model"
)

// pinnedCache holds the full pinned set between writes. Pinned facts are
// read once per conversation turn and written rarely, so a short TTL
// bounds storage load without risking stale reads past a write: every
// write path calls invalidate before releasing the store's write lock.
type pinnedCache struct {
	mu          sync.Mutex
	ttl         time.Duration
	rows        []model.Memory
	refreshedAt time.Time
	valid       bool
}

func newPinnedCache(ttl time.Duration) *pinnedCache {
	return &pinnedCache{ttl: ttl}
}

// get returns the cached pinned set if it is still within the TTL.
func (c *pinnedCache) get() ([]model.Memory, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.valid || time.Since(c.refreshedAt) > c.ttl {
		return nil, false
	}
	return c.rows, true
}

func (c *pinnedCache) set(rows []model.Memory) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rows = rows
	c.refreshedAt = time.Now()
	c.valid = true
}

func (c *pinnedCache) invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rows = nil
	c.valid = false
}
