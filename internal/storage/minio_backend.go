package storage

import (
	"context"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	apperrors "github.com/edgegate/edgegate/internal/errors"
)

// MinioBackend implements ObjectBackend against any S3-compatible store using
// the MinIO client. Scopes map to buckets. The low-level Core client is used
// for multipart primitives; everything else goes through the high-level API.
type MinioBackend struct {
	core *minio.Core
}

// MinioConfig holds the connection settings for an S3-compatible endpoint.
type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
}

// NewMinioBackend creates a MinioBackend for the given endpoint.
func NewMinioBackend(cfg MinioConfig) (*MinioBackend, error) {
	core, err := minio.NewCore(cfg.Endpoint, &minio.Options{
		Creds:        credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:       cfg.UseSSL,
		BucketLookup: minio.BucketLookupPath,
	})
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to create minio client")
	}

	return &MinioBackend{core: core}, nil
}

// translateError maps S3 error codes onto domain errors. Unknown failures are
// wrapped as backend errors so the raw cause never reaches API clients.
func translateError(err error, message string) error {
	if err == nil {
		return nil
	}

	resp := minio.ToErrorResponse(err)
	switch resp.Code {
	case "NoSuchKey", "NoSuchBucket":
		return apperrors.Wrap(apperrors.ErrNotFound, message)
	case "NoSuchUpload":
		return apperrors.Wrap(apperrors.ErrNotFound, message)
	case "EntityTooSmall", "InvalidPart", "InvalidPartOrder":
		return apperrors.Wrap(apperrors.ErrInvalidPart, message)
	}

	return apperrors.Wrapf(apperrors.ErrBackend, "%s: %v", message, err)
}

// Put stores an object, replacing any existing object under the key.
func (b *MinioBackend) Put(
	ctx context.Context,
	scope, key string,
	reader io.Reader,
	size int64,
	contentType string,
) (*PutResult, error) {
	info, err := b.core.Client.PutObject(ctx, scope, key, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return nil, translateError(err, "failed to put object")
	}

	return &PutResult{
		Key:  key,
		Size: info.Size,
		ETag: info.ETag,
	}, nil
}

// Get opens an object for reading, optionally restricted to a byte range.
func (b *MinioBackend) Get(
	ctx context.Context,
	scope, key string,
	byteRange *ByteRange,
) (io.ReadCloser, *ObjectInfo, error) {
	opts := minio.GetObjectOptions{}
	if byteRange != nil {
		if err := opts.SetRange(byteRange.Start, byteRange.End); err != nil {
			return nil, nil, apperrors.Wrap(apperrors.ErrInvalidInput, "invalid byte range")
		}
	}

	object, err := b.core.Client.GetObject(ctx, scope, key, opts)
	if err != nil {
		return nil, nil, translateError(err, "failed to get object")
	}

	// GetObject is lazy; Stat forces the first request and surfaces NoSuchKey.
	stat, err := object.Stat()
	if err != nil {
		_ = object.Close()
		return nil, nil, translateError(err, "failed to get object")
	}

	return object, objectInfoFrom(stat), nil
}

// Stat returns object metadata without reading the body.
func (b *MinioBackend) Stat(ctx context.Context, scope, key string) (*ObjectInfo, error) {
	stat, err := b.core.Client.StatObject(ctx, scope, key, minio.StatObjectOptions{})
	if err != nil {
		return nil, translateError(err, "failed to stat object")
	}
	return objectInfoFrom(stat), nil
}

// Delete removes an object. S3 delete is idempotent, so deleting a missing
// object succeeds.
func (b *MinioBackend) Delete(ctx context.Context, scope, key string) error {
	err := b.core.Client.RemoveObject(ctx, scope, key, minio.RemoveObjectOptions{})
	if err != nil {
		return translateError(err, "failed to delete object")
	}
	return nil
}

// Copy duplicates an object within or across scopes.
func (b *MinioBackend) Copy(
	ctx context.Context,
	srcScope, srcKey, dstScope, dstKey string,
) (*ObjectInfo, error) {
	info, err := b.core.Client.CopyObject(ctx,
		minio.CopyDestOptions{Bucket: dstScope, Object: dstKey},
		minio.CopySrcOptions{Bucket: srcScope, Object: srcKey},
	)
	if err != nil {
		return nil, translateError(err, "failed to copy object")
	}

	return &ObjectInfo{
		Key:          dstKey,
		Size:         info.Size,
		ETag:         info.ETag,
		LastModified: info.LastModified,
	}, nil
}

// List returns a page of objects under the prefix, resuming after the cursor.
func (b *MinioBackend) List(
	ctx context.Context,
	scope, prefix, cursor string,
	limit int,
) (*ListPage, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	objects := b.core.Client.ListObjects(ctx, scope, minio.ListObjectsOptions{
		Prefix:     prefix,
		Recursive:  true,
		StartAfter: cursor,
	})

	page := &ListPage{Objects: make([]ObjectInfo, 0, limit)}
	for object := range objects {
		if object.Err != nil {
			return nil, translateError(object.Err, "failed to list objects")
		}

		page.Objects = append(page.Objects, ObjectInfo{
			Key:          object.Key,
			Size:         object.Size,
			ETag:         object.ETag,
			ContentType:  object.ContentType,
			LastModified: object.LastModified,
		})

		if len(page.Objects) == limit {
			page.Cursor = object.Key
			break
		}
	}

	return page, nil
}

// CreateMultipart starts a multipart upload and returns the backend upload ID.
func (b *MinioBackend) CreateMultipart(
	ctx context.Context,
	scope, key, contentType string,
) (string, error) {
	uploadID, err := b.core.NewMultipartUpload(ctx, scope, key, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", translateError(err, "failed to create multipart upload")
	}
	return uploadID, nil
}

// PutPart uploads one part of a multipart upload and returns its ETag.
func (b *MinioBackend) PutPart(
	ctx context.Context,
	scope, key, uploadID string,
	partNumber int,
	reader io.Reader,
	size int64,
) (string, error) {
	part, err := b.core.PutObjectPart(
		ctx, scope, key, uploadID, partNumber, reader, size,
		minio.PutObjectPartOptions{},
	)
	if err != nil {
		return "", translateError(err, "failed to upload part")
	}
	return part.ETag, nil
}

// CompleteMultipart assembles previously uploaded parts into the final object.
func (b *MinioBackend) CompleteMultipart(
	ctx context.Context,
	scope, key, uploadID string,
	parts []CompletedPart,
) (*ObjectInfo, error) {
	completeParts := make([]minio.CompletePart, 0, len(parts))
	for _, part := range parts {
		completeParts = append(completeParts, minio.CompletePart{
			PartNumber: part.PartNumber,
			ETag:       part.ETag,
		})
	}

	info, err := b.core.CompleteMultipartUpload(
		ctx, scope, key, uploadID, completeParts,
		minio.PutObjectOptions{},
	)
	if err != nil {
		return nil, translateError(err, "failed to complete multipart upload")
	}

	return &ObjectInfo{
		Key:          key,
		Size:         info.Size,
		ETag:         info.ETag,
		LastModified: info.LastModified,
	}, nil
}

// AbortMultipart discards an in-progress multipart upload and its parts.
func (b *MinioBackend) AbortMultipart(ctx context.Context, scope, key, uploadID string) error {
	if err := b.core.AbortMultipartUpload(ctx, scope, key, uploadID); err != nil {
		return translateError(err, "failed to abort multipart upload")
	}
	return nil
}

// objectInfoFrom converts a minio ObjectInfo into the backend-neutral form.
func objectInfoFrom(info minio.ObjectInfo) *ObjectInfo {
	return &ObjectInfo{
		Key:          info.Key,
		Size:         info.Size,
		ETag:         info.ETag,
		ContentType:  info.ContentType,
		LastModified: info.LastModified,
	}
}
