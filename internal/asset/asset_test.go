package asset_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/DMarby/cdnstyle/internal/asset"
)

func TestParse(t *testing.T) {
	tests := []struct {
		Name     string
		URI      string
		Expected asset.URI
		Path     string
	}{
		{
			"plain uri",
			"bf://SH123456/at/abc123-echvmo-7qf0za/my_image.jpg",
			asset.URI{Brandfolder: "SH123456", AttachmentID: "abc123-echvmo-7qf0za", Filename: "my_image.jpg"},
			"SH123456/at/abc123-echvmo-7qf0za/my_image.jpg",
		},
		{
			"styled uri",
			"bf://styles/thumbnail/bf/SH123456/at/abc123/my_image.png",
			asset.URI{Style: "thumbnail", Brandfolder: "SH123456", AttachmentID: "abc123", Filename: "my_image.png"},
			"SH123456/at/abc123/my_image.png",
		},
		{
			"query",
			"bf://SH123456/at/abc123/my_image.png?v=2",
			asset.URI{Brandfolder: "SH123456", AttachmentID: "abc123", Filename: "my_image.png", RawQuery: "v=2"},
			"SH123456/at/abc123/my_image.png?v=2",
		},
		{
			"escaped filename",
			"bf://SH123456/at/abc123/my%20image.png",
			asset.URI{Brandfolder: "SH123456", AttachmentID: "abc123", Filename: "my image.png"},
			"SH123456/at/abc123/my%20image.png",
		},
	}

	for _, test := range tests {
		uri, err := asset.Parse(test.URI)
		if err != nil {
			t.Errorf("%s: %s", test.Name, err)
			continue
		}

		if !reflect.DeepEqual(*uri, test.Expected) {
			t.Errorf("%s: wrong uri %+v", test.Name, uri)
		}

		if p := uri.Path(); p != test.Path {
			t.Errorf("%s: wrong path %s", test.Name, p)
		}

		if s := uri.String(); s != test.URI {
			t.Errorf("%s: wrong string %s", test.Name, s)
		}
	}
}

func TestParseErrors(t *testing.T) {
	for _, uri := range []string{
		"",
		"public://image.jpg",
		"bf://SH123456/image.jpg",
		"bf://SH123456/at/abc123",
		"bf://SH123456/at/abc123/",
		"bf://styles/thumbnail/public/image.jpg",
		"bf://styles/thumbnail",
		"bf:// bad",
	} {
		if _, err := asset.Parse(uri); !errors.Is(err, asset.ErrInvalidURI) {
			t.Errorf("%q: wrong error %v", uri, err)
		}
	}
}

func TestStyle(t *testing.T) {
	uri, err := asset.Parse("bf://SH123456/at/abc123/my_image.JPG")
	if err != nil {
		t.Fatal(err)
	}

	styled := uri.WithStyle("large")
	if styled.String() != "bf://styles/large/bf/SH123456/at/abc123/my_image.JPG" {
		t.Errorf("wrong styled uri %s", styled)
	}

	if uri.Style != "" {
		t.Error("original uri modified")
	}

	if unstyled := styled.Unstyled(); unstyled.String() != uri.String() {
		t.Errorf("wrong unstyled uri %s", unstyled)
	}

	if ext := uri.Extension(); ext != "jpg" {
		t.Errorf("wrong extension %s", ext)
	}
}
