// Package storage provides object storage access behind the ObjectBackend
// interface, with a MinIO-backed implementation for production and an
// in-memory implementation for tests and local development.
package storage

import (
	"context"
	"io"
	"time"
)

// ObjectInfo describes a stored object.
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
}

// PutResult is returned by a successful single-shot upload.
type PutResult struct {
	Key  string
	Size int64
	ETag string
}

// ByteRange selects a half-open byte window of an object for ranged reads.
// End is inclusive, matching HTTP Range semantics. A nil ByteRange reads the
// whole object.
type ByteRange struct {
	Start int64
	End   int64
}

// ListPage is one page of an object listing. Cursor is the key to resume
// from; empty when the listing is exhausted.
type ListPage struct {
	Objects []ObjectInfo
	Cursor  string
}

// CompletedPart identifies an uploaded part when assembling a multipart upload.
type CompletedPart struct {
	PartNumber int
	ETag       string
}

// ObjectBackend abstracts the object store. Implementations must be safe for
// concurrent use; all methods honor context cancellation.
type ObjectBackend interface {
	// Put stores an object, replacing any existing object under the key.
	Put(ctx context.Context, scope, key string, reader io.Reader, size int64, contentType string) (*PutResult, error)

	// Get opens an object for reading, optionally restricted to a byte range.
	// The caller must close the returned reader. Returns ErrNotFound if the
	// object does not exist.
	Get(ctx context.Context, scope, key string, byteRange *ByteRange) (io.ReadCloser, *ObjectInfo, error)

	// Stat returns object metadata without reading the body.
	Stat(ctx context.Context, scope, key string) (*ObjectInfo, error)

	// Delete removes an object. Deleting a missing object is not an error.
	Delete(ctx context.Context, scope, key string) error

	// Copy duplicates an object within or across scopes, replacing the
	// destination if it exists. Returns ErrNotFound if the source is missing.
	Copy(ctx context.Context, srcScope, srcKey, dstScope, dstKey string) (*ObjectInfo, error)

	// List returns a page of objects under the prefix, starting after the
	// cursor. Limit caps the page size.
	List(ctx context.Context, scope, prefix, cursor string, limit int) (*ListPage, error)

	// CreateMultipart starts a multipart upload and returns the backend upload ID.
	CreateMultipart(ctx context.Context, scope, key, contentType string) (string, error)

	// PutPart uploads one part of a multipart upload and returns its ETag.
	PutPart(ctx context.Context, scope, key, uploadID string, partNumber int, reader io.Reader, size int64) (string, error)

	// CompleteMultipart assembles previously uploaded parts into the final
	// object. Parts must be supplied in ascending part number order.
	CompleteMultipart(ctx context.Context, scope, key, uploadID string, parts []CompletedPart) (*ObjectInfo, error)

	// AbortMultipart discards an in-progress multipart upload and its parts.
	AbortMultipart(ctx context.Context, scope, key, uploadID string) error
}
