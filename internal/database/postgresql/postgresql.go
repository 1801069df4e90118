package postgresql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/DMarby/cdnstyle/internal/database"

	// Registers the postgres driver
	_ "github.com/lib/pq"
)

const waitInterval = time.Second

const getAttachment = `select bf_attachment_id, uri, width, height, mime_type, filesize
from brandfolder_file
where bf_attachment_id = $1`

// Provider implements a postgresql based metadata store
type Provider struct {
	db *sql.DB
}

// New returns a new Provider instance
func New(address string, maxConns int) (*Provider, error) {
	db, err := sql.Open("postgres", address)
	if err != nil {
		return nil, fmt.Errorf("open postgres connection: %w", err)
	}

	if maxConns > 0 {
		db.SetMaxOpenConns(maxConns)
	}

	return &Provider{
		db: db,
	}, nil
}

// Get returns the metadata for an attachment id
func (p *Provider) Get(ctx context.Context, id string) (a *database.Attachment, err error) {
	var (
		uri      sql.NullString
		mimeType sql.NullString
		filesize sql.NullInt64
	)

	a = &database.Attachment{}
	err = p.db.QueryRowContext(ctx, getAttachment, id).Scan(&a.ID, &uri, &a.Width, &a.Height, &mimeType, &filesize)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, database.ErrNotFound
		}

		return nil, err
	}

	a.URI = uri.String
	a.MimeType = mimeType.String
	a.Filesize = filesize.Int64

	return a, nil
}

// Wait blocks until a database connection is ready
// You can use the given context to specify a timeout
func (p *Provider) Wait(ctx context.Context) error {
	ticker := time.NewTicker(waitInterval)
	defer ticker.Stop()

	for {
		if err := p.db.PingContext(ctx); err == nil {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Shutdown shuts down the database client
func (p *Provider) Shutdown() {
	p.db.Close()
}
