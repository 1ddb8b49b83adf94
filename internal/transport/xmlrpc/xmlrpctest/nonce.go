package xmlrpctest

import (
	"container/list"
	"sync"
	"time"
)

// NonceCache remembers recently seen nonces, bounded by capacity and TTL,
// evicting the least recently used entry first.
type NonceCache struct {
	mu       sync.Mutex
	items    map[string]*list.Element
	order    *list.List
	capacity int
	ttl      time.Duration
	now      func() time.Time
}

type seenNonce struct {
	nonce  string
	seenAt time.Time
}

// NewNonceCache creates a cache holding at most capacity nonces for ttl.
func NewNonceCache(capacity int, ttl time.Duration) *NonceCache {
	if capacity < 1 {
		capacity = 1
	}
	return &NonceCache{
		items:    make(map[string]*list.Element),
		order:    list.New(),
		capacity: capacity,
		ttl:      ttl,
		now:      time.Now,
	}
}

// AddIfAbsent records nonce and reports true, or reports false when the
// nonce is already present and unexpired.
func (c *NonceCache) AddIfAbsent(nonce string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if elem, ok := c.items[nonce]; ok {
		if now.Sub(elem.Value.(*seenNonce).seenAt) < c.ttl {
			c.order.MoveToFront(elem)
			return false
		}
		c.order.Remove(elem)
		delete(c.items, nonce)
	}

	c.expireLocked(now)
	for c.order.Len() >= c.capacity {
		oldest := c.order.Back()
		delete(c.items, oldest.Value.(*seenNonce).nonce)
		c.order.Remove(oldest)
	}

	c.items[nonce] = c.order.PushFront(&seenNonce{nonce: nonce, seenAt: now})
	return true
}

// expireLocked drops expired entries from the oldest end.
func (c *NonceCache) expireLocked(now time.Time) {
	for elem := c.order.Back(); elem != nil; {
		entry := elem.Value.(*seenNonce)
		if now.Sub(entry.seenAt) < c.ttl {
			return
		}
		prev := elem.Prev()
		delete(c.items, entry.nonce)
		c.order.Remove(elem)
		elem = prev
	}
}

// Len returns the number of remembered nonces.
func (c *NonceCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}
