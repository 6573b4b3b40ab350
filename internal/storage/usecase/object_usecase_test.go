package usecase

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/edgegate/edgegate/internal/errors"
	"github.com/edgegate/edgegate/internal/storage"
)

func newTestUseCase() (ObjectUseCase, *storage.MemoryBackend) {
	backend := storage.NewMemoryBackend()
	return NewObjectUseCase(backend), backend
}

func md5hex(data string) string {
	sum := md5.Sum([]byte(data))
	return hex.EncodeToString(sum[:])
}

func TestObjectUseCase_Upload(t *testing.T) {
	ctx := context.Background()
	useCase, _ := newTestUseCase()

	result, err := useCase.Upload(ctx, UploadObjectInput{
		Scope: "media",
		Key:   "hello.txt",
		Body:  strings.NewReader("hello"),
		Size:  5,
	})
	require.NoError(t, err)
	assert.Equal(t, "hello.txt", result.Key)
	assert.Equal(t, int64(5), result.Size)
	assert.Equal(t, md5hex("hello"), result.ETag)

	info, err := useCase.Stat(ctx, "media", "hello.txt")
	require.NoError(t, err)
	assert.Equal(t, "application/octet-stream", info.ContentType, "content type defaults when omitted")
}

func TestObjectUseCase_UploadWithMD5(t *testing.T) {
	ctx := context.Background()
	useCase, _ := newTestUseCase()

	result, err := useCase.Upload(ctx, UploadObjectInput{
		Scope:      "media",
		Key:        "verified.txt",
		Body:       strings.NewReader("payload"),
		Size:       7,
		ContentMD5: md5hex("payload"),
	})
	require.NoError(t, err)
	assert.Equal(t, md5hex("payload"), result.ETag)

	// Uppercase hex is accepted
	_, err = useCase.Upload(ctx, UploadObjectInput{
		Scope:      "media",
		Key:        "verified-upper.txt",
		Body:       strings.NewReader("payload"),
		Size:       7,
		ContentMD5: strings.ToUpper(md5hex("payload")),
	})
	require.NoError(t, err)
}

func TestObjectUseCase_UploadMD5Mismatch(t *testing.T) {
	ctx := context.Background()
	useCase, _ := newTestUseCase()

	_, err := useCase.Upload(ctx, UploadObjectInput{
		Scope:      "media",
		Key:        "corrupt.txt",
		Body:       strings.NewReader("actual body"),
		Size:       11,
		ContentMD5: md5hex("expected body"),
	})
	require.ErrorIs(t, err, apperrors.ErrInvalidInput)

	// The mismatched object must not remain visible
	_, err = useCase.Stat(ctx, "media", "corrupt.txt")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestObjectUseCase_UploadMalformedMD5(t *testing.T) {
	ctx := context.Background()
	useCase, _ := newTestUseCase()

	for _, contentMD5 := range []string{"not-hex", "abcd", md5hex("x") + "00"} {
		_, err := useCase.Upload(ctx, UploadObjectInput{
			Scope:      "media",
			Key:        "bad.txt",
			Body:       strings.NewReader("x"),
			Size:       1,
			ContentMD5: contentMD5,
		})
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput, "md5 %q", contentMD5)
	}
}

func TestObjectUseCase_Download(t *testing.T) {
	ctx := context.Background()
	useCase, _ := newTestUseCase()

	_, err := useCase.Upload(ctx, UploadObjectInput{
		Scope:       "media",
		Key:         "digits",
		Body:        strings.NewReader("0123456789"),
		Size:        10,
		ContentType: "text/plain",
	})
	require.NoError(t, err)

	reader, info, err := useCase.Download(ctx, DownloadObjectInput{Scope: "media", Key: "digits"})
	require.NoError(t, err)
	defer reader.Close()
	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, "0123456789", string(data))
	assert.Equal(t, "text/plain", info.ContentType)

	reader, _, err = useCase.Download(ctx, DownloadObjectInput{
		Scope: "media",
		Key:   "digits",
		Range: &storage.ByteRange{Start: 3, End: 6},
	})
	require.NoError(t, err)
	defer reader.Close()
	data, err = io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, "3456", string(data))

	_, _, err = useCase.Download(ctx, DownloadObjectInput{
		Scope: "media",
		Key:   "digits",
		Range: &storage.ByteRange{Start: 6, End: 3},
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	_, _, err = useCase.Download(ctx, DownloadObjectInput{Scope: "media", Key: "missing"})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestObjectUseCase_Delete(t *testing.T) {
	ctx := context.Background()
	useCase, _ := newTestUseCase()

	_, err := useCase.Upload(ctx, UploadObjectInput{
		Scope: "media", Key: "doomed", Body: strings.NewReader("x"), Size: 1,
	})
	require.NoError(t, err)

	require.NoError(t, useCase.Delete(ctx, "media", "doomed"))
	_, err = useCase.Stat(ctx, "media", "doomed")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	assert.NoError(t, useCase.Delete(ctx, "media", "doomed"), "delete is idempotent")
}

func TestObjectUseCase_Copy(t *testing.T) {
	ctx := context.Background()
	useCase, _ := newTestUseCase()

	_, err := useCase.Upload(ctx, UploadObjectInput{
		Scope: "media", Key: "src", Body: strings.NewReader("content"), Size: 7,
	})
	require.NoError(t, err)

	info, err := useCase.Copy(ctx, CopyObjectInput{
		SourceScope:      "media",
		SourceKey:        "src",
		DestinationScope: "backups",
		DestinationKey:   "dst",
	})
	require.NoError(t, err)
	assert.Equal(t, "dst", info.Key)

	_, err = useCase.Copy(ctx, CopyObjectInput{
		SourceScope:      "media",
		SourceKey:        "src",
		DestinationScope: "media",
		DestinationKey:   "src",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput, "copy onto itself is rejected")
}

func TestObjectUseCase_List(t *testing.T) {
	ctx := context.Background()
	useCase, _ := newTestUseCase()

	for _, key := range []string{"a.txt", "b.txt", "c.txt"} {
		_, err := useCase.Upload(ctx, UploadObjectInput{
			Scope: "media", Key: key, Body: strings.NewReader("x"), Size: 1,
		})
		require.NoError(t, err)
	}

	page, err := useCase.List(ctx, ListObjectsInput{Scope: "media"})
	require.NoError(t, err)
	assert.Len(t, page.Objects, 3, "limit defaults when omitted")

	page, err = useCase.List(ctx, ListObjectsInput{Scope: "media", Limit: 2})
	require.NoError(t, err)
	assert.Len(t, page.Objects, 2)
	assert.Equal(t, "b.txt", page.Cursor)

	page, err = useCase.List(ctx, ListObjectsInput{Scope: "media", Cursor: page.Cursor, Limit: 2})
	require.NoError(t, err)
	require.Len(t, page.Objects, 1)
	assert.Equal(t, "c.txt", page.Objects[0].Key)
}

type listCapturingBackend struct {
	*storage.MemoryBackend
	lastLimit int
}

func (b *listCapturingBackend) List(
	ctx context.Context,
	scope, prefix, cursor string,
	limit int,
) (*storage.ListPage, error) {
	b.lastLimit = limit
	return b.MemoryBackend.List(ctx, scope, prefix, cursor, limit)
}

func TestObjectUseCase_ListLimitCap(t *testing.T) {
	backend := &listCapturingBackend{MemoryBackend: storage.NewMemoryBackend()}
	useCase := NewObjectUseCase(backend)

	_, err := useCase.List(context.Background(), ListObjectsInput{Scope: "media", Limit: 50000})
	require.NoError(t, err)
	assert.Equal(t, 1000, backend.lastLimit)

	_, err = useCase.List(context.Background(), ListObjectsInput{Scope: "media", Limit: -3})
	require.NoError(t, err)
	assert.Equal(t, 100, backend.lastLimit)
}
