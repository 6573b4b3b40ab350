package dto

import (
	"sort"
	"time"

	uploadDomain "github.com/edgegate/edgegate/internal/upload/domain"
)

// PartResponse represents an uploaded part in API responses.
type PartResponse struct {
	PartNumber int       `json:"part_number"`
	ETag       string    `json:"etag"`
	Size       int64     `json:"size"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// SessionResponse represents a multipart session in API responses. Parts are
// listed in ascending part number order.
type SessionResponse struct {
	ID          string         `json:"id"`
	Scope       string         `json:"scope"`
	Key         string         `json:"key"`
	ContentType string         `json:"content_type,omitempty"`
	Status      string         `json:"status"`
	PartCount   int            `json:"part_count"`
	TotalSize   int64          `json:"total_size"`
	Parts       []PartResponse `json:"parts"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// MapSessionToResponse converts a domain session to its response form.
func MapSessionToResponse(session *uploadDomain.MultipartSession) SessionResponse {
	parts := make([]PartResponse, 0, len(session.Parts))
	for _, part := range session.Parts {
		parts = append(parts, PartResponse{
			PartNumber: part.Number,
			ETag:       part.ETag,
			Size:       part.Size,
			UploadedAt: part.UploadedAt,
		})
	}
	sort.Slice(parts, func(i, j int) bool { return parts[i].PartNumber < parts[j].PartNumber })

	return SessionResponse{
		ID:          session.ID.String(),
		Scope:       session.Scope,
		Key:         session.Key,
		ContentType: session.ContentType,
		Status:      string(session.Status),
		PartCount:   session.PartCount(),
		TotalSize:   session.TotalSize(),
		Parts:       parts,
		CreatedAt:   session.CreatedAt,
		UpdatedAt:   session.UpdatedAt,
	}
}
