// Package storage abstracts the blob backend holding uploaded images.
package storage

import (
	"context"
	"io"
)

// BlobStore stores image blobs by key.
//
// Put must set the object's content type so browsers render images served
// from the public URL directly. Delete of a missing key is not an error.
type BlobStore interface {
	Put(ctx context.Context, key, contentType string, body io.Reader) error
	Delete(ctx context.Context, key string) error
	PublicURL(key string) string
}
