package policies

import (
	"context"
	"io"
)

// ObjectStore persists exported documents and returns where they can be fetched.
type ObjectStore interface {
	Upload(ctx context.Context, key string, reader io.Reader, contentType string) (link string, err error)
}
