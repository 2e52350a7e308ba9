package sheets

import (
	"sync"
	"time"

	"github.com/ai-tools-poll/pollserver/internal/model"
)

// rowCache is a single-entry TTL cache over the full row set. It is shared
// process-wide: one writer's invalidation refreshes reads for everyone.
type rowCache struct {
	mu     sync.Mutex
	ttl    time.Duration
	rows   []model.Response
	expiry time.Time
	valid  bool
}

func newRowCache(ttl time.Duration) *rowCache {
	return &rowCache{ttl: ttl}
}

// get returns the cached rows if the entry is still fresh at now.
func (c *rowCache) get(now time.Time) ([]model.Response, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.valid || now.After(c.expiry) {
		return nil, false
	}
	return c.rows, true
}

// put replaces the cached rows and restarts the TTL clock.
func (c *rowCache) put(rows []model.Response, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.rows = rows
	c.expiry = now.Add(c.ttl)
	c.valid = true
}

// invalidate clears the entry so the next read hits the backing store.
func (c *rowCache) invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.rows = nil
	c.valid = false
}
