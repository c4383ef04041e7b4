package providers

import (
	"math"
	"pbcheck/internal/structures"

	"github.com/coocood/freecache"
)

// CacheProviderInterface memoizes derived values under a 64-bit content hash.
type CacheProviderInterface interface {
	Get(key uint64) ([]byte, bool)
	Set(key uint64, value []byte)
}

type CacheProvider struct {
	cache  *freecache.Cache
	ttl    int
	logger Logger
}

func NewCacheProvider(conf *structures.Config, logger Logger) CacheProviderInterface {
	if !conf.Cache.Enabled || conf.Cache.Size <= 0 {
		logger.Infof(TypeApp, "Parse cache disabled")
		return &noopCache{}
	}

	// 0 disables expiry in freecache; sub-second TTLs round up
	ttl := 0
	if conf.Cache.TTL > 0 {
		ttl = int(math.Ceil(conf.Cache.TTL.Seconds()))
	}

	logger.Infof(TypeApp, "Parse cache initialized: %dMB, ttl=%ds", conf.Cache.Size, ttl)

	return &CacheProvider{
		cache:  freecache.NewCache(conf.Cache.Size << 20),
		ttl:    ttl,
		logger: logger,
	}
}

func (c *CacheProvider) Get(key uint64) ([]byte, bool) {
	val, err := c.cache.GetInt(int64(key))
	if err != nil {
		return nil, false
	}
	return val, true
}

func (c *CacheProvider) Set(key uint64, value []byte) {
	if err := c.cache.SetInt(int64(key), value, c.ttl); err != nil {
		c.logger.Debugf(TypeApp, "Parse cache rejected %d bytes: %s", len(value), err)
	}
}

type noopCache struct{}

func (n *noopCache) Get(_ uint64) ([]byte, bool) { return nil, false }
func (n *noopCache) Set(_ uint64, _ []byte)      {}
