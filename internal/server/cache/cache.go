// Package cache holds generated narratives per snapshot so repeated requests
// do not call the model again.
package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Cache is a TTL cache of narratives keyed by snapshot ID.
type Cache struct {
	store *gocache.Cache
}

// New creates a cache whose entries expire after ttl. A non-positive ttl
// keeps entries for the process lifetime.
func New(ttl time.Duration) *Cache {
	if ttl <= 0 {
		return &Cache{store: gocache.New(gocache.NoExpiration, 0)}
	}
	return &Cache{store: gocache.New(ttl, 2*ttl)}
}

// Narrative returns the cached narrative of a snapshot.
func (c *Cache) Narrative(snapshotID string) (string, bool) {
	v, ok := c.store.Get(snapshotID)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// SetNarrative stores the narrative of a snapshot.
func (c *Cache) SetNarrative(snapshotID, text string) {
	c.store.SetDefault(snapshotID, text)
}

// Forget drops the cached narrative of a snapshot.
func (c *Cache) Forget(snapshotID string) {
	c.store.Delete(snapshotID)
}

// ItemCount returns the number of cached narratives.
func (c *Cache) ItemCount() int {
	return c.store.ItemCount()
}
