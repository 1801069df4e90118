package database

import (
	"context"
	"errors"
)

// Attachment contains metadata about a Brandfolder attachment
type Attachment struct {
	ID       string `json:"id" db:"bf_attachment_id"`
	URI      string `json:"uri" db:"uri"`
	Width    int    `json:"width" db:"width"`
	Height   int    `json:"height" db:"height"`
	MimeType string `json:"mime_type" db:"mime_type"`
	Filesize int64  `json:"filesize" db:"filesize"`
}

// Provider is an interface for retrieving attachment metadata
type Provider interface {
	Get(ctx context.Context, id string) (a *Attachment, err error)

	Wait(ctx context.Context) error
	Shutdown()
}

// Errors
var (
	ErrNotFound = errors.New("Attachment does not exist")
)
