package hmac

import (
	cryptoHMAC "crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
)

// HMAC is a utility for creating and verifying derivative tokens
type HMAC struct {
	Key []byte
}

// Enabled returns whether a key is configured
func (h *HMAC) Enabled() bool {
	return h != nil && len(h.Key) > 0
}

// Create creates a HMAC of the message, encoded as urlsafe base64
func (h *HMAC) Create(message string) (string, error) {
	mac := cryptoHMAC.New(sha256.New, h.Key)

	if _, err := mac.Write([]byte(message)); err != nil {
		return "", err
	}

	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil)), nil
}

// Validate validates that the message matches a given HMAC
func (h *HMAC) Validate(message, mac string) (bool, error) {
	expectedMAC, err := h.Create(message)
	if err != nil {
		return false, err
	}

	return cryptoHMAC.Equal([]byte(mac), []byte(expectedMAC)), nil
}
