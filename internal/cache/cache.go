package cache

import (
	"log/slog"
	"unsafe"

	"github.com/coocood/freecache"
)

// Cache is a bounded byte cache
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte)
}

// FreeCache implements Cache on a fixed-size freecache arena
type FreeCache struct {
	cache *freecache.Cache
	ttl   int
}

// New creates a cache of sizeMB megabytes. Entries expire after ttlSeconds; 0 keeps them until evicted.
// A non-positive size returns a cache that stores nothing.
func New(sizeMB, ttlSeconds int, logger *slog.Logger) Cache {
	if sizeMB <= 0 {
		logger.Info("cache disabled")
		return Noop{}
	}

	logger.Info("cache initialized", slog.Int("size_mb", sizeMB), slog.Int("ttl_seconds", ttlSeconds))
	return &FreeCache{
		cache: freecache.NewCache(sizeMB * 1024 * 1024),
		ttl:   ttlSeconds,
	}
}

// keyBytes views s as bytes without copying; freecache copies keys internally
func keyBytes(s string) []byte {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice(unsafe.StringData(s), len(s))
}

func (c *FreeCache) Get(key string) ([]byte, bool) {
	val, err := c.cache.Get(keyBytes(key))
	if err != nil {
		return nil, false
	}
	return val, true
}

func (c *FreeCache) Set(key string, value []byte) {
	_ = c.cache.Set(keyBytes(key), value, c.ttl)
}

// Noop never stores anything
type Noop struct{}

func (Noop) Get(_ string) ([]byte, bool) { return nil, false }
func (Noop) Set(_ string, _ []byte)      {}
