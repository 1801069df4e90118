package file_test

import (
	"context"
	"reflect"

	"github.com/DMarby/cdnstyle/internal/database"
	"github.com/DMarby/cdnstyle/internal/database/file"

	"testing"
)

var attachment = database.Attachment{
	ID:       "abc123",
	URI:      "bf://SH123/at/abc123/photo.jpg",
	Width:    1200,
	Height:   800,
	MimeType: "image/jpeg",
	Filesize: 52000,
}

func TestFile(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	provider, err := file.New("../../../test/fixtures/file/metadata.json")
	if err != nil {
		t.Fatal(err)
	}
	defer provider.Shutdown()

	t.Run("Get an attachment by id", func(t *testing.T) {
		a, err := provider.Get(ctx, "abc123")
		if err != nil {
			t.Fatal(err)
		}

		if !reflect.DeepEqual(a, &attachment) {
			t.Error("attachment data doesn't match")
		}
	})

	t.Run("Returns error on a nonexistant attachment", func(t *testing.T) {
		_, err := provider.Get(ctx, "nonexistant")
		if err != database.ErrNotFound {
			t.FailNow()
		}
	})

	t.Run("Is ready immediately", func(t *testing.T) {
		if err := provider.Wait(ctx); err != nil {
			t.Fatal(err)
		}
	})
}

func TestMissingMetadata(t *testing.T) {
	_, err := file.New("")
	if err == nil {
		t.FailNow()
	}
}

func TestInvalidJson(t *testing.T) {
	_, err := file.New("../../../test/fixtures/file/invalid_metadata.json")
	if err == nil {
		t.FailNow()
	}
}
