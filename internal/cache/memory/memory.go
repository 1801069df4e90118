package memory

import (
	"context"
	"sync"

	"github.com/DMarby/cdnstyle/internal/cache"
)

// Provider implements a simple in-memory cache
type Provider struct {
	cache      map[string][]byte
	maxEntries int
	mutex      sync.RWMutex
}

// New returns a new Provider instance
// When maxEntries is reached an arbitrary entry is evicted for each new one, zero means unbounded
func New(maxEntries int) *Provider {
	return &Provider{
		cache:      make(map[string][]byte),
		maxEntries: maxEntries,
	}
}

// Get returns an object from the cache if it exists
func (p *Provider) Get(ctx context.Context, key string) (data []byte, err error) {
	p.mutex.RLock()
	data, exists := p.cache[key]
	p.mutex.RUnlock()

	if !exists {
		return nil, cache.ErrNotFound
	}

	return data, nil
}

// Set adds an object to the cache
func (p *Provider) Set(ctx context.Context, key string, data []byte) (err error) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if _, exists := p.cache[key]; !exists && p.maxEntries > 0 && len(p.cache) >= p.maxEntries {
		for k := range p.cache {
			delete(p.cache, k)
			break
		}
	}

	p.cache[key] = data
	return nil
}

// Len returns the number of cached objects
func (p *Provider) Len() int {
	p.mutex.RLock()
	defer p.mutex.RUnlock()

	return len(p.cache)
}

// Shutdown shuts down the cache
func (p *Provider) Shutdown() {}
