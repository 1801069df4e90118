package mock

import (
	"context"
	"fmt"

	"github.com/DMarby/cdnstyle/internal/cache"
)

// Keys with special behaviour in the mock cache
const (
	KeyMissing     = "attachment:missing"
	KeyLoadError   = "attachment:loaderror"
	KeySetError    = "attachment:seterror"
	KeyHealthCheck = "healthcheck"
	KeyGetError    = "attachment:geterror"
)

// Provider is a mock cache
// Every key except the ones above returns the key itself as data
type Provider struct {
	// Broken makes every Get fail
	Broken bool
}

// Get returns an object from the cache if it exists
func (p *Provider) Get(ctx context.Context, key string) (data []byte, err error) {
	if p.Broken || key == KeyGetError {
		return nil, fmt.Errorf("get error")
	}

	switch key {
	case KeyMissing, KeyLoadError, KeySetError, KeyHealthCheck:
		return nil, cache.ErrNotFound
	}

	return []byte(key), nil
}

// Set adds an object to the cache
func (p *Provider) Set(ctx context.Context, key string, data []byte) (err error) {
	if key == KeySetError {
		return fmt.Errorf("set error")
	}

	return nil
}

// Shutdown shuts down the cache
func (p *Provider) Shutdown() {}
