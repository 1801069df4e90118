package metadata_test

import (
	"context"
	"errors"
	"testing"

	"github.com/DMarby/cdnstyle/internal/cache/memory"
	"github.com/DMarby/cdnstyle/internal/database"
	"github.com/DMarby/cdnstyle/internal/database/file"
	"github.com/DMarby/cdnstyle/internal/database/mock"
	"github.com/DMarby/cdnstyle/internal/logger"
	"github.com/DMarby/cdnstyle/internal/metadata"
	"github.com/DMarby/cdnstyle/internal/tracing/test"
	"github.com/DMarby/cdnstyle/internal/transform"
	"go.uber.org/zap"
)

func TestLoad(t *testing.T) {
	log := logger.New(zap.FatalLevel)
	defer log.Sync()
	tracer := test.Tracer(log)

	db, err := file.New("../../test/fixtures/file/metadata.json")
	if err != nil {
		t.Fatal(err)
	}

	cacheProvider := memory.New(0)
	cache := metadata.NewCache(tracer, cacheProvider, db)
	ctx := context.Background()

	t.Run("loads a descriptor", func(t *testing.T) {
		ref := "bf://SH123/at/abc123/photo.jpg"
		d, err := cache.Load(ctx, ref)
		if err != nil {
			t.Fatal(err)
		}

		want := transform.Descriptor{Width: 1200, Height: 800, MimeType: "image/jpeg", SourceRef: ref}
		if *d != want {
			t.Errorf("got %+v, want %+v", *d, want)
		}

		if _, err := cacheProvider.Get(ctx, metadata.Key("abc123")); err != nil {
			t.Errorf("attachment was not cached: %s", err)
		}
	})

	t.Run("loads a styled uri", func(t *testing.T) {
		d, err := cache.Load(ctx, "bf://styles/thumbnail/bf/SH123/at/def456/animation.gif")
		if err != nil {
			t.Fatal(err)
		}

		if d.Width != 400 || d.Height != 300 || d.MimeType != "image/gif" {
			t.Errorf("wrong descriptor %+v", *d)
		}
	})

	t.Run("missing attachment", func(t *testing.T) {
		_, err := cache.Load(ctx, "bf://SH123/at/missing/photo.jpg")
		if !errors.Is(err, transform.ErrNotFound) {
			t.Errorf("expected not found, got %v", err)
		}

		if !errors.Is(err, database.ErrNotFound) {
			t.Errorf("expected the database error to be wrapped, got %v", err)
		}
	})

	t.Run("invalid uri", func(t *testing.T) {
		_, err := cache.Load(ctx, "https://example.com/photo.jpg")
		if !errors.Is(err, transform.ErrNotFound) {
			t.Errorf("expected not found, got %v", err)
		}
	})

	t.Run("drives a transform", func(t *testing.T) {
		image := transform.New("bf://SH123/at/abc123/photo.jpg", cache)
		if err := image.Apply(ctx, transform.Resize{Width: 600, Height: 400}); err != nil {
			t.Fatal(err)
		}

		original, err := image.OriginalDimension(ctx, transform.DimensionWidth)
		if err != nil {
			t.Fatal(err)
		}

		if original != 1200 {
			t.Errorf("wrong original width %d", original)
		}
	})
}

func TestLoadError(t *testing.T) {
	log := logger.New(zap.FatalLevel)
	defer log.Sync()
	tracer := test.Tracer(log)

	cache := metadata.NewCache(tracer, memory.New(0), &mock.Provider{})
	ctx := context.Background()

	_, err := cache.Load(ctx, "bf://SH123/at/broken/photo.jpg")
	if err == nil || errors.Is(err, transform.ErrNotFound) {
		t.Errorf("expected a load error, got %v", err)
	}

	_, err = cache.Load(ctx, "bf://SH123/at/notfound/photo.jpg")
	if !errors.Is(err, transform.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}
