package spaces

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/DMarby/cdnstyle/internal/database"
	"github.com/DMarby/cdnstyle/internal/database/file"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

// Provider implements a metadata store backed by a JSON manifest in a digitalocean space, or any S3 compatible bucket
type Provider struct {
	spaces   *s3.S3
	space    string
	manifest string

	mu          sync.RWMutex
	attachments map[string]database.Attachment
}

// New returns a new Provider instance and loads the manifest
func New(ctx context.Context, space, endpoint, accessKey, secretKey, manifest string, forcePathStyle bool) (*Provider, error) {
	spacesSession, err := session.NewSession(&aws.Config{
		Credentials:      credentials.NewStaticCredentials(accessKey, secretKey, ""),
		Endpoint:         aws.String(endpoint),
		Region:           aws.String("us-east-1"), // Needs to be us-east-1 for Spaces, or it'll fail
		S3ForcePathStyle: aws.Bool(forcePathStyle),
	})
	if err != nil {
		return nil, err
	}

	p := &Provider{
		spaces:   s3.New(spacesSession),
		space:    space,
		manifest: manifest,
	}

	if err := p.Reload(ctx); err != nil {
		return nil, err
	}

	return p, nil
}

// Reload fetches the manifest from the space and replaces the loaded metadata
func (p *Provider) Reload(ctx context.Context) error {
	object := s3.GetObjectInput{
		Bucket: aws.String(p.space),
		Key:    aws.String(p.manifest),
	}

	output, err := p.spaces.GetObjectWithContext(ctx, &object)
	if err != nil {
		if aerr, ok := err.(awserr.Error); ok && aerr.Code() == s3.ErrCodeNoSuchKey {
			return fmt.Errorf("manifest %s does not exist in %s", p.manifest, p.space)
		}

		return err
	}
	defer output.Body.Close()

	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, output.Body); err != nil {
		return err
	}

	attachments, err := file.Decode(buf.Bytes())
	if err != nil {
		return fmt.Errorf("decoding manifest: %w", err)
	}

	p.mu.Lock()
	p.attachments = attachments
	p.mu.Unlock()

	return nil
}

// Get returns the metadata for an attachment id
func (p *Provider) Get(ctx context.Context, id string) (a *database.Attachment, err error) {
	p.mu.RLock()
	attachment, ok := p.attachments[id]
	p.mu.RUnlock()

	if !ok {
		return nil, database.ErrNotFound
	}

	return &attachment, nil
}

// Wait checks that the manifest is still reachable
func (p *Provider) Wait(ctx context.Context) error {
	_, err := p.spaces.HeadObjectWithContext(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(p.space),
		Key:    aws.String(p.manifest),
	})

	return err
}

// Shutdown shuts down the store
func (p *Provider) Shutdown() {}
