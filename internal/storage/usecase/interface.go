// Package usecase contains the object storage business logic.
package usecase

import (
	"context"
	"io"

	"github.com/edgegate/edgegate/internal/storage"
)

// UploadObjectInput carries the data for storing an object. ContentMD5, when
// set, is the hex md5 the client computed over the body; the stored object is
// rejected if the received bytes do not match.
type UploadObjectInput struct {
	Scope       string
	Key         string
	Body        io.Reader
	Size        int64
	ContentType string
	ContentMD5  string
}

// DownloadObjectInput carries the coordinates for reading an object,
// optionally restricted to a byte range.
type DownloadObjectInput struct {
	Scope string
	Key   string
	Range *storage.ByteRange
}

// CopyObjectInput carries the source and destination for a server-side copy.
type CopyObjectInput struct {
	SourceScope      string
	SourceKey        string
	DestinationScope string
	DestinationKey   string
}

// ListObjectsInput carries the filters for a paginated listing.
type ListObjectsInput struct {
	Scope  string
	Prefix string
	Cursor string
	Limit  int
}

// ObjectUseCase defines the object storage operations.
type ObjectUseCase interface {
	// Upload stores an object, verifying the client md5 when provided.
	Upload(ctx context.Context, input UploadObjectInput) (*storage.PutResult, error)
	// Download opens an object for reading. The caller owns the returned
	// reader and must close it.
	Download(ctx context.Context, input DownloadObjectInput) (io.ReadCloser, *storage.ObjectInfo, error)
	// Stat returns object metadata without reading the body.
	Stat(ctx context.Context, scope, key string) (*storage.ObjectInfo, error)
	// Delete removes an object. Deleting a missing object succeeds.
	Delete(ctx context.Context, scope, key string) error
	// Copy duplicates an object server-side.
	Copy(ctx context.Context, input CopyObjectInput) (*storage.ObjectInfo, error)
	// List returns a page of objects under a prefix.
	List(ctx context.Context, input ListObjectsInput) (*storage.ListPage, error)
}
