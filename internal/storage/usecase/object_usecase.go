package usecase

import (
	"context"
	"crypto/md5" //nolint:gosec // content integrity check, not a security boundary
	"encoding/hex"
	"io"
	"strings"

	apperrors "github.com/edgegate/edgegate/internal/errors"
	"github.com/edgegate/edgegate/internal/storage"
)

const (
	defaultListLimit = 100
	maxListLimit     = 1000

	defaultContentType = "application/octet-stream"
)

type objectUseCase struct {
	backend storage.ObjectBackend
}

// NewObjectUseCase creates an ObjectUseCase backed by the given object store.
func NewObjectUseCase(backend storage.ObjectBackend) ObjectUseCase {
	return &objectUseCase{backend: backend}
}

// Upload stores an object. When the client supplies a content md5 the body is
// hashed while streaming; on mismatch the stored object is removed again so a
// corrupted transfer never becomes visible.
func (u *objectUseCase) Upload(ctx context.Context, input UploadObjectInput) (*storage.PutResult, error) {
	contentType := input.ContentType
	if contentType == "" {
		contentType = defaultContentType
	}

	expectedMD5 := strings.ToLower(input.ContentMD5)
	if expectedMD5 != "" {
		if _, err := hex.DecodeString(expectedMD5); err != nil || len(expectedMD5) != md5.Size*2 {
			return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "content md5 must be a 32-character hex string")
		}
	}

	hasher := md5.New() //nolint:gosec // content integrity check, not a security boundary
	body := io.TeeReader(input.Body, hasher)

	result, err := u.backend.Put(ctx, input.Scope, input.Key, body, input.Size, contentType)
	if err != nil {
		return nil, err
	}

	if expectedMD5 != "" {
		actualMD5 := hex.EncodeToString(hasher.Sum(nil))
		if actualMD5 != expectedMD5 {
			if deleteErr := u.backend.Delete(ctx, input.Scope, input.Key); deleteErr != nil {
				return nil, apperrors.Wrap(deleteErr, "failed to remove object after md5 mismatch")
			}
			return nil, apperrors.Wrapf(
				apperrors.ErrInvalidInput,
				"content md5 mismatch: expected %s, got %s", expectedMD5, actualMD5,
			)
		}
	}

	return result, nil
}

func (u *objectUseCase) Download(
	ctx context.Context,
	input DownloadObjectInput,
) (io.ReadCloser, *storage.ObjectInfo, error) {
	if input.Range != nil && (input.Range.Start < 0 || input.Range.End < input.Range.Start) {
		return nil, nil, apperrors.Wrap(apperrors.ErrInvalidInput, "invalid byte range")
	}
	return u.backend.Get(ctx, input.Scope, input.Key, input.Range)
}

func (u *objectUseCase) Stat(ctx context.Context, scope, key string) (*storage.ObjectInfo, error) {
	return u.backend.Stat(ctx, scope, key)
}

func (u *objectUseCase) Delete(ctx context.Context, scope, key string) error {
	return u.backend.Delete(ctx, scope, key)
}

func (u *objectUseCase) Copy(ctx context.Context, input CopyObjectInput) (*storage.ObjectInfo, error) {
	if input.SourceScope == input.DestinationScope && input.SourceKey == input.DestinationKey {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "source and destination are the same object")
	}
	return u.backend.Copy(ctx, input.SourceScope, input.SourceKey, input.DestinationScope, input.DestinationKey)
}

func (u *objectUseCase) List(ctx context.Context, input ListObjectsInput) (*storage.ListPage, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	return u.backend.List(ctx, input.Scope, input.Prefix, input.Cursor, limit)
}
