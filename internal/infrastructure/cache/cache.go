package cache

import (
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Cache is a TTL cache that tracks the active keys of each namespace so a
// whole namespace can be dropped at once. Wildcard eviction is deliberately
// not supported; writers forget the namespace they touched.
type Cache struct {
	store *gocache.Cache

	mu   sync.Mutex
	keys map[string]map[string]struct{}
}

func CreateNewCache(expiry time.Duration) *Cache {
	return &Cache{
		store: gocache.New(expiry, 2*expiry),
		keys:  map[string]map[string]struct{}{},
	}
}

// Remember returns the cached value under (namespace, key), computing and
// storing it with the default expiry on a miss. A failed compute is not cached.
func (c *Cache) Remember(namespace string, key string, fn func() (interface{}, error)) (interface{}, error) {
	if value, found := c.store.Get(namespace + ":" + key); found {
		return value, nil
	}

	value, err := fn()
	if err != nil {
		return nil, err
	}

	c.store.Set(namespace+":"+key, value, gocache.DefaultExpiration)

	c.mu.Lock()
	if c.keys[namespace] == nil {
		c.keys[namespace] = map[string]struct{}{}
	}
	c.keys[namespace][key] = struct{}{}
	c.mu.Unlock()

	return value, nil
}

// Forget drops every entry recorded under the namespace.
func (c *Cache) Forget(namespace string) {
	c.mu.Lock()
	keys := c.keys[namespace]
	delete(c.keys, namespace)
	c.mu.Unlock()

	for key := range keys {
		c.store.Delete(namespace + ":" + key)
	}
}
