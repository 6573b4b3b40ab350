package dto

import (
	"time"

	"github.com/edgegate/edgegate/internal/storage"
)

// ObjectResponse represents object metadata in API responses.
type ObjectResponse struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	ETag         string    `json:"etag"`
	ContentType  string    `json:"content_type,omitempty"`
	LastModified time.Time `json:"last_modified"`
}

// PutObjectResponse describes a stored object.
type PutObjectResponse struct {
	Key  string `json:"key"`
	Size int64  `json:"size"`
	ETag string `json:"etag"`
}

// ListObjectsResponse wraps a page of objects. Cursor is empty on the last
// page.
type ListObjectsResponse struct {
	Objects []ObjectResponse `json:"objects"`
	Cursor  string           `json:"cursor,omitempty"`
}

// MapObjectToResponse converts backend object info to its response form.
func MapObjectToResponse(info *storage.ObjectInfo) ObjectResponse {
	return ObjectResponse{
		Key:          info.Key,
		Size:         info.Size,
		ETag:         info.ETag,
		ContentType:  info.ContentType,
		LastModified: info.LastModified,
	}
}

// MapListPageToResponse converts a backend listing page.
func MapListPageToResponse(page *storage.ListPage) ListObjectsResponse {
	response := ListObjectsResponse{
		Objects: make([]ObjectResponse, 0, len(page.Objects)),
		Cursor:  page.Cursor,
	}
	for i := range page.Objects {
		response.Objects = append(response.Objects, MapObjectToResponse(&page.Objects[i]))
	}
	return response
}
