package file

import (
	"context"
	"encoding/json"
	"os"

	"github.com/DMarby/cdnstyle/internal/database"
)

// Provider implements a file-based metadata store
type Provider struct {
	path        string
	attachments map[string]database.Attachment
}

// New returns a new Provider instance
func New(path string) (*Provider, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	attachments, err := Decode(data)
	if err != nil {
		return nil, err
	}

	return &Provider{
		path:        path,
		attachments: attachments,
	}, nil
}

// Decode decodes a JSON list of attachments, indexed by attachment id
func Decode(data []byte) (map[string]database.Attachment, error) {
	var list []database.Attachment
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, err
	}

	attachments := make(map[string]database.Attachment, len(list))
	for _, attachment := range list {
		attachments[attachment.ID] = attachment
	}

	return attachments, nil
}

// Get returns the metadata for an attachment id
func (p *Provider) Get(ctx context.Context, id string) (a *database.Attachment, err error) {
	attachment, ok := p.attachments[id]
	if !ok {
		return nil, database.ErrNotFound
	}

	return &attachment, nil
}

// Wait blocks until the store is ready
func (p *Provider) Wait(ctx context.Context) error {
	return nil
}

// Shutdown shuts down the store
func (p *Provider) Shutdown() {}
