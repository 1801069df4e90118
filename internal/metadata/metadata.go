package metadata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/DMarby/cdnstyle/internal/asset"
	"github.com/DMarby/cdnstyle/internal/cache"
	"github.com/DMarby/cdnstyle/internal/database"
	"github.com/DMarby/cdnstyle/internal/tracing"
	"github.com/DMarby/cdnstyle/internal/transform"
)

const keyPrefix = "attachment:"

// Cache is a metadata cache that loads missing attachments from the database
type Cache struct {
	auto   *cache.Auto
	tracer *tracing.Tracer
}

// NewCache instantiates a new cache
func NewCache(tracer *tracing.Tracer, cacheProvider cache.Provider, databaseProvider database.Provider) *Cache {
	return &Cache{
		tracer: tracer,
		auto: &cache.Auto{
			Tracer:   tracer,
			Provider: cacheProvider,
			Loader: func(ctx context.Context, key string) (data []byte, err error) {
				ctx, span := tracer.Start(ctx, "metadata.Cache.Loader")
				defer span.End()

				attachment, err := databaseProvider.Get(ctx, strings.TrimPrefix(key, keyPrefix))
				if err != nil {
					return nil, err
				}

				return json.Marshal(attachment)
			},
		},
	}
}

// Key returns the cache key for an attachment id
func Key(attachmentID string) string {
	return keyPrefix + attachmentID
}

// Get returns the metadata for an attachment id
func (c *Cache) Get(ctx context.Context, attachmentID string) (*database.Attachment, error) {
	data, err := c.auto.Get(ctx, Key(attachmentID))
	if err != nil {
		return nil, err
	}

	var attachment database.Attachment
	if err := json.Unmarshal(data, &attachment); err != nil {
		return nil, fmt.Errorf("decoding cached metadata for %s: %w", attachmentID, err)
	}

	return &attachment, nil
}

// Load implements transform.Loader for Brandfolder asset uris
func (c *Cache) Load(ctx context.Context, ref string) (*transform.Descriptor, error) {
	ctx, span := c.tracer.Start(ctx, "metadata.Cache.Load")
	defer span.End()

	uri, err := asset.Parse(ref)
	if err != nil {
		return nil, &transform.NotFoundError{Ref: ref, Err: err}
	}

	attachment, err := c.Get(ctx, uri.AttachmentID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, &transform.NotFoundError{Ref: ref, Err: err}
		}

		return nil, err
	}

	return &transform.Descriptor{
		Width:     attachment.Width,
		Height:    attachment.Height,
		MimeType:  attachment.MimeType,
		SourceRef: ref,
	}, nil
}
