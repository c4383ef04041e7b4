package parser

import (
	"pbcheck/internal/models"
	"pbcheck/internal/providers"

	"github.com/cespare/xxhash/v2"
	json "github.com/goccy/go-json"
)

// CachedParser memoizes successful parses by payload hash, so polling a source that has not
// published a new drawing skips the markup scan.
type CachedParser struct {
	inner Parser
	cache providers.CacheProviderInterface
}

func NewCachedParser(inner Parser, cache providers.CacheProviderInterface) *CachedParser {
	return &CachedParser{inner: inner, cache: cache}
}

// NewParser is the production parser: shape detection behind the payload cache.
func NewParser(cache providers.CacheProviderInterface, logger providers.Logger, metrics providers.MetricsProviderInterface) Parser {
	return NewCachedParser(NewAutoParser(logger, metrics), cache)
}

func cacheKey(raw []byte) uint64 {
	return xxhash.Sum64(raw)
}

func (p *CachedParser) Parse(raw []byte) (models.Drawing, error) {
	key := cacheKey(raw)
	if data, ok := p.cache.Get(key); ok {
		var d models.Drawing
		if err := json.Unmarshal(data, &d); err == nil {
			return d, nil
		}
	}

	d, err := p.inner.Parse(raw)
	if err != nil {
		return models.Drawing{}, err
	}

	if data, err := json.Marshal(d); err == nil {
		p.cache.Set(key, data)
	}
	return d, nil
}
