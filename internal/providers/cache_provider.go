package providers

import (
	"github.com/coocood/freecache"
	"pilot/internal/structures"
	"unsafe"
)

type CacheProviderInterface interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte) error
	Del(key string)
	Clear()
}

// CacheProvider holds decoded collection bytes. Entries never expire on their own;
// the record store overwrites or deletes them on every write.
type CacheProvider struct {
	cache *freecache.Cache
}

func NewCacheProvider(conf *structures.Config, logger Logger) CacheProviderInterface {
	if !conf.Cache.Enabled || conf.Cache.Size <= 0 {
		logger.Infof(TypeApp, "Cache disabled")
		return &noopCache{}
	}

	sizeBytes := conf.Cache.Size * 1024 * 1024
	logger.Infof(TypeApp, "Cache initialized: %dMB", conf.Cache.Size)

	return &CacheProvider{
		cache: freecache.NewCache(sizeBytes),
	}
}

// unsafeStringToBytes converts string to []byte without allocation.
// Safe when the result is only read (not modified), which is the case
// for freecache, which copies keys internally.
func unsafeStringToBytes(s string) []byte {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice(unsafe.StringData(s), len(s))
}

func (c *CacheProvider) Get(key string) ([]byte, bool) {
	val, err := c.cache.Get(unsafeStringToBytes(key))
	if err != nil {
		return nil, false
	}
	return val, true
}

// Set stores value under key. When freecache rejects the value (larger than
// 1/1024 of the cache) any older value for key is dropped so readers never
// see stale bytes.
func (c *CacheProvider) Set(key string, value []byte) error {
	if err := c.cache.Set(unsafeStringToBytes(key), value, 0); err != nil {
		c.cache.Del(unsafeStringToBytes(key))
		return err
	}
	return nil
}

func (c *CacheProvider) Del(key string) {
	c.cache.Del(unsafeStringToBytes(key))
}

func (c *CacheProvider) Clear() {
	c.cache.Clear()
}

type noopCache struct{}

func (n *noopCache) Get(_ string) ([]byte, bool)   { return nil, false }
func (n *noopCache) Set(_ string, _ []byte) error { return nil }
func (n *noopCache) Del(_ string)                  {}
func (n *noopCache) Clear()                        {}
