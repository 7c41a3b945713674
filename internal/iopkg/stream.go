package iopkg

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/yourorg/miniapp-config/internal/storage"
)

// Opener reads documents by URI: http(s):// over HTTP, s3:// and file:// through the object store.
type Opener struct {
	HTTP  *http.Client
	Store storage.ObjectStore
}

// New returns an Opener using client for HTTP URIs; nil means http.DefaultClient,
// which has no timeout.
func New(client *http.Client, store storage.ObjectStore) *Opener {
	if client == nil {
		client = http.DefaultClient
	}
	return &Opener{HTTP: client, Store: store}
}

// StatusError reports a non-2xx HTTP response.
type StatusError struct {
	URL    string
	Status string
	Code   int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: %s", e.URL, e.Status)
}

// Open returns a reader for the document at uri. The caller closes it.
func (o *Opener) Open(ctx context.Context, uri string) (io.ReadCloser, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, err
	}
	switch u.Scheme {
	case "http", "https":
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
		if err != nil {
			return nil, err
		}
		resp, err := o.HTTP.Do(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			resp.Body.Close()
			return nil, &StatusError{URL: uri, Status: resp.Status, Code: resp.StatusCode}
		}
		return resp.Body, nil
	case "s3", "file":
		if o.Store == nil {
			return nil, fmt.Errorf("no object store configured for %s", uri)
		}
		return o.Store.Get(ctx, uri)
	default:
		return nil, fmt.Errorf("unsupported scheme: %q", u.Scheme)
	}
}
