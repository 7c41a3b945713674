package storage

import (
	"context"
	"io"
)

// ObjectStore reads and replaces whole documents.
type ObjectStore interface {
	// Get returns a reader for the given URI (s3://bucket/key or file://path).
	Get(ctx context.Context, uri string) (io.ReadCloser, error)
	// Put replaces the content at uri with body, tagged with contentType.
	Put(ctx context.Context, uri string, body io.Reader, contentType string) error
}
