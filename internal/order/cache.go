package order

import (
	"fmt"
	"reflect"
	"sync"
	"time"
)

// Change describes what a refresh did to the cache.
type Change struct {
	Added   []string
	Updated []string
	Removed []string
}

func (c Change) Empty() bool {
	return len(c.Added) == 0 && len(c.Updated) == 0 && len(c.Removed) == 0
}

// Cache holds the last known orders keyed by Cart.Key. Each refresh is
// diffed against what is already there instead of replacing it blindly.
type Cache struct {
	mu          sync.RWMutex
	keys        []string
	carts       map[string]Cart
	positional  map[string]bool
	version     uint64
	refreshedAt time.Time
}

func NewCache() *Cache {
	return &Cache{carts: make(map[string]Cart)}
}

// Apply stores the fetched carts and reports the difference. Entries that
// did not change are kept untouched.
func (c *Cache) Apply(carts []Cart) Change {
	fresh := make(map[string]Cart, len(carts))
	keys := make([]string, 0, len(carts))
	// Keys derived from the cart's place in the fetch may name another cart
	// after the next refresh.
	positional := make(map[string]bool)
	for i, cart := range carts {
		key := cart.Key()
		if key == "" {
			key = fmt.Sprintf("#%d", i)
			positional[key] = true
		}
		if _, dup := fresh[key]; dup {
			positional[key] = true
			key = fmt.Sprintf("%s#%d", key, i)
			positional[key] = true
		}
		fresh[key] = cart
		keys = append(keys, key)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	var change Change
	for _, key := range keys {
		old, ok := c.carts[key]
		switch {
		case !ok:
			change.Added = append(change.Added, key)
			c.carts[key] = fresh[key]
		case !reflect.DeepEqual(old, fresh[key]):
			change.Updated = append(change.Updated, key)
			c.carts[key] = fresh[key]
		}
	}
	for _, key := range c.keys {
		if _, ok := fresh[key]; !ok {
			change.Removed = append(change.Removed, key)
			delete(c.carts, key)
		}
	}

	c.keys = keys
	c.positional = positional
	c.refreshedAt = time.Now()
	if !change.Empty() {
		c.version++
	}

	return change
}

// Snapshot returns the cached carts in the order of the latest fetch.
func (c *Cache) Snapshot() []Cart {
	c.mu.RLock()
	defer c.mu.RUnlock()

	carts := make([]Cart, 0, len(c.keys))
	for _, key := range c.keys {
		carts = append(carts, c.carts[key])
	}
	return carts
}

func (c *Cache) Get(key string) (Cart, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	cart, ok := c.carts[key]
	return cart, ok
}

// Resolve returns the cart an action may safely target. A key that only
// identifies the cart by its position in the latest fetch is refused.
func (c *Cache) Resolve(key string) (Cart, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	cart, ok := c.carts[key]
	if !ok {
		return Cart{}, ErrNotFound
	}
	if c.positional[key] {
		return Cart{}, ErrAmbiguousOrder
	}
	return cart, nil
}

// Version increases every time a refresh changes something.
func (c *Cache) Version() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.version
}

func (c *Cache) RefreshedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.refreshedAt
}
