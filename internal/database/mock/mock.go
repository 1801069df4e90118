package mock

import (
	"context"
	"fmt"

	"github.com/DMarby/cdnstyle/internal/database"
)

// Provider implements a mock metadata store
type Provider struct {
}

// Get returns an error for any attachment id except "notfound", which returns database.ErrNotFound
func (p *Provider) Get(ctx context.Context, id string) (a *database.Attachment, err error) {
	if id == "notfound" {
		return nil, database.ErrNotFound
	}

	return nil, fmt.Errorf("get error")
}

// Wait blocks until the store is ready
func (p *Provider) Wait(ctx context.Context) error {
	return fmt.Errorf("wait error")
}

// Shutdown shuts down the store
func (p *Provider) Shutdown() {}
