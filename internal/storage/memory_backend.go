package storage

import (
	"bytes"
	"context"
	"crypto/md5" //nolint:gosec // etag computation, not a security boundary
	"encoding/hex"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/edgegate/edgegate/internal/errors"
)

// MemoryBackend is an in-memory ObjectBackend for tests and local
// development. ETags follow S3 conventions: md5 of the content for single
// uploads, "md5(concatenated part md5s)-N" for multipart objects.
type MemoryBackend struct {
	mu      sync.RWMutex
	objects map[string]*memoryObject
	uploads map[string]*memoryUpload
}

type memoryObject struct {
	data        []byte
	etag        string
	contentType string
	modified    time.Time
}

type memoryUpload struct {
	scope       string
	key         string
	contentType string
	parts       map[int]memoryPart
}

type memoryPart struct {
	data []byte
	etag string
}

// NewMemoryBackend creates an empty MemoryBackend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		objects: make(map[string]*memoryObject),
		uploads: make(map[string]*memoryUpload),
	}
}

func objectKey(scope, key string) string {
	return scope + "/" + key
}

func md5Hex(data []byte) string {
	sum := md5.Sum(data) //nolint:gosec // etag computation, not a security boundary
	return hex.EncodeToString(sum[:])
}

// Put stores an object, replacing any existing object under the key.
func (b *MemoryBackend) Put(
	ctx context.Context,
	scope, key string,
	reader io.Reader,
	size int64,
	contentType string,
) (*PutResult, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to read object body")
	}

	object := &memoryObject{
		data:        data,
		etag:        md5Hex(data),
		contentType: contentType,
		modified:    time.Now().UTC(),
	}

	b.mu.Lock()
	b.objects[objectKey(scope, key)] = object
	b.mu.Unlock()

	return &PutResult{
		Key:  key,
		Size: int64(len(data)),
		ETag: object.etag,
	}, nil
}

// Get opens an object for reading, optionally restricted to a byte range.
func (b *MemoryBackend) Get(
	ctx context.Context,
	scope, key string,
	byteRange *ByteRange,
) (io.ReadCloser, *ObjectInfo, error) {
	b.mu.RLock()
	object, ok := b.objects[objectKey(scope, key)]
	b.mu.RUnlock()
	if !ok {
		return nil, nil, apperrors.Wrap(apperrors.ErrNotFound, "object not found")
	}

	data := object.data
	if byteRange != nil {
		if byteRange.Start < 0 || byteRange.Start >= int64(len(data)) || byteRange.End < byteRange.Start {
			return nil, nil, apperrors.Wrap(apperrors.ErrInvalidInput, "invalid byte range")
		}
		end := byteRange.End + 1
		if end > int64(len(data)) {
			end = int64(len(data))
		}
		data = data[byteRange.Start:end]
	}

	info := &ObjectInfo{
		Key:          key,
		Size:         int64(len(object.data)),
		ETag:         object.etag,
		ContentType:  object.contentType,
		LastModified: object.modified,
	}

	return io.NopCloser(bytes.NewReader(data)), info, nil
}

// Stat returns object metadata without reading the body.
func (b *MemoryBackend) Stat(ctx context.Context, scope, key string) (*ObjectInfo, error) {
	b.mu.RLock()
	object, ok := b.objects[objectKey(scope, key)]
	b.mu.RUnlock()
	if !ok {
		return nil, apperrors.Wrap(apperrors.ErrNotFound, "object not found")
	}

	return &ObjectInfo{
		Key:          key,
		Size:         int64(len(object.data)),
		ETag:         object.etag,
		ContentType:  object.contentType,
		LastModified: object.modified,
	}, nil
}

// Delete removes an object. Deleting a missing object is not an error.
func (b *MemoryBackend) Delete(ctx context.Context, scope, key string) error {
	b.mu.Lock()
	delete(b.objects, objectKey(scope, key))
	b.mu.Unlock()
	return nil
}

// Copy duplicates an object within or across scopes.
func (b *MemoryBackend) Copy(
	ctx context.Context,
	srcScope, srcKey, dstScope, dstKey string,
) (*ObjectInfo, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	src, ok := b.objects[objectKey(srcScope, srcKey)]
	if !ok {
		return nil, apperrors.Wrap(apperrors.ErrNotFound, "source object not found")
	}

	dst := &memoryObject{
		data:        append([]byte(nil), src.data...),
		etag:        src.etag,
		contentType: src.contentType,
		modified:    time.Now().UTC(),
	}
	b.objects[objectKey(dstScope, dstKey)] = dst

	return &ObjectInfo{
		Key:          dstKey,
		Size:         int64(len(dst.data)),
		ETag:         dst.etag,
		ContentType:  dst.contentType,
		LastModified: dst.modified,
	}, nil
}

// List returns a page of objects under the prefix in lexicographic key order,
// starting after the cursor.
func (b *MemoryBackend) List(
	ctx context.Context,
	scope, prefix, cursor string,
	limit int,
) (*ListPage, error) {
	b.mu.RLock()
	scopePrefix := scope + "/"
	keys := make([]string, 0)
	for fullKey := range b.objects {
		if !strings.HasPrefix(fullKey, scopePrefix) {
			continue
		}
		key := strings.TrimPrefix(fullKey, scopePrefix)
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		if cursor != "" && key <= cursor {
			continue
		}
		keys = append(keys, key)
	}
	b.mu.RUnlock()

	sort.Strings(keys)

	page := &ListPage{Objects: make([]ObjectInfo, 0, limit)}
	for _, key := range keys {
		if len(page.Objects) == limit {
			page.Cursor = page.Objects[len(page.Objects)-1].Key
			break
		}

		info, err := b.Stat(ctx, scope, key)
		if err != nil {
			continue // deleted between snapshot and stat
		}
		page.Objects = append(page.Objects, *info)
	}

	return page, nil
}

// CreateMultipart starts a multipart upload and returns the backend upload ID.
func (b *MemoryBackend) CreateMultipart(
	ctx context.Context,
	scope, key, contentType string,
) (string, error) {
	uploadID := uuid.NewString()

	b.mu.Lock()
	b.uploads[uploadID] = &memoryUpload{
		scope:       scope,
		key:         key,
		contentType: contentType,
		parts:       make(map[int]memoryPart),
	}
	b.mu.Unlock()

	return uploadID, nil
}

// PutPart uploads one part of a multipart upload and returns its ETag.
func (b *MemoryBackend) PutPart(
	ctx context.Context,
	scope, key, uploadID string,
	partNumber int,
	reader io.Reader,
	size int64,
) (string, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to read part body")
	}

	etag := md5Hex(data)

	b.mu.Lock()
	defer b.mu.Unlock()

	upload, ok := b.uploads[uploadID]
	if !ok {
		return "", apperrors.Wrap(apperrors.ErrNotFound, "upload not found")
	}
	upload.parts[partNumber] = memoryPart{data: data, etag: etag}

	return etag, nil
}

// CompleteMultipart assembles previously uploaded parts into the final object.
// The resulting ETag is the S3-style composite "md5(part md5s)-N".
func (b *MemoryBackend) CompleteMultipart(
	ctx context.Context,
	scope, key, uploadID string,
	parts []CompletedPart,
) (*ObjectInfo, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	upload, ok := b.uploads[uploadID]
	if !ok {
		return nil, apperrors.Wrap(apperrors.ErrNotFound, "upload not found")
	}

	var body []byte
	var etagConcat []byte
	for _, part := range parts {
		stored, ok := upload.parts[part.PartNumber]
		if !ok {
			return nil, apperrors.Wrapf(apperrors.ErrInvalidPart, "part %d not uploaded", part.PartNumber)
		}
		if stored.etag != part.ETag {
			return nil, apperrors.Wrapf(apperrors.ErrInvalidPart, "part %d etag mismatch", part.PartNumber)
		}

		body = append(body, stored.data...)
		sum, err := hex.DecodeString(stored.etag)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to decode part etag")
		}
		etagConcat = append(etagConcat, sum...)
	}

	object := &memoryObject{
		data:        body,
		etag:        fmt.Sprintf("%s-%d", md5Hex(etagConcat), len(parts)),
		contentType: upload.contentType,
		modified:    time.Now().UTC(),
	}
	b.objects[objectKey(upload.scope, upload.key)] = object
	delete(b.uploads, uploadID)

	return &ObjectInfo{
		Key:          upload.key,
		Size:         int64(len(body)),
		ETag:         object.etag,
		ContentType:  object.contentType,
		LastModified: object.modified,
	}, nil
}

// AbortMultipart discards an in-progress multipart upload and its parts.
// Aborting an unknown upload is not an error, matching S3 cleanup semantics.
func (b *MemoryBackend) AbortMultipart(ctx context.Context, scope, key, uploadID string) error {
	b.mu.Lock()
	delete(b.uploads, uploadID)
	b.mu.Unlock()
	return nil
}
