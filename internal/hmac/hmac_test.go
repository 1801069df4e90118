package hmac_test

import (
	"testing"

	"github.com/DMarby/cdnstyle/internal/hmac"
)

func TestHMAC(t *testing.T) {
	h := &hmac.HMAC{
		Key: []byte("foobar"),
	}

	mac, err := h.Create("thumbnail:bf://SH123/at/abc123/photo.jpg")
	if err != nil {
		t.Fatal(err)
	}

	matches, err := h.Validate("thumbnail:bf://SH123/at/abc123/photo.jpg", mac)
	if err != nil {
		t.Fatal(err)
	}

	if !matches {
		t.Error("hmac does not match")
	}

	matches, err = h.Validate("large:bf://SH123/at/abc123/photo.jpg", mac)
	if err != nil {
		t.Fatal(err)
	}

	if matches {
		t.Error("hmac matches when it should not")
	}
}

func TestEnabled(t *testing.T) {
	var nilHMAC *hmac.HMAC

	tests := []struct {
		Name     string
		HMAC     *hmac.HMAC
		Expected bool
	}{
		{"nil", nilHMAC, false},
		{"empty key", &hmac.HMAC{}, false},
		{"key", &hmac.HMAC{Key: []byte("foobar")}, true},
	}

	for _, test := range tests {
		if enabled := test.HMAC.Enabled(); enabled != test.Expected {
			t.Errorf("%s: wrong result %t", test.Name, enabled)
		}
	}
}
