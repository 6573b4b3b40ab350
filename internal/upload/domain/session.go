// Package domain defines the multipart upload session model and its state
// machine.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Part number bounds for multipart uploads.
const (
	MinPartNumber = 1
	MaxPartNumber = 10000
)

// SessionStatus is the lifecycle state of a multipart upload session.
//
// Transitions: Open -> Completing -> Completed, Open -> Aborted and
// Completing -> Aborted. A failed completion returns the session to Open so
// the client can retry. Completed and Aborted are terminal; abort is the only
// operation admitted while Completing, which keeps completion exactly-once
// under concurrent requests.
type SessionStatus string

const (
	StatusOpen       SessionStatus = "open"
	StatusCompleting SessionStatus = "completing"
	StatusCompleted  SessionStatus = "completed"
	StatusAborted    SessionStatus = "aborted"
)

// Terminal reports whether the status admits no further transitions.
func (s SessionStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusAborted
}

// Part records one uploaded part of a multipart session. Re-uploading a part
// number replaces the previous record (last write wins).
type Part struct {
	Number     int       `json:"number"`
	ETag       string    `json:"etag"`
	Size       int64     `json:"size"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// ValidPartNumber reports whether n is within the allowed part number range.
func ValidPartNumber(n int) bool {
	return n >= MinPartNumber && n <= MaxPartNumber
}

// PartReference identifies one uploaded part in a completion request. The
// client must reference every uploaded part in ascending part number order,
// each with the etag its upload returned.
type PartReference struct {
	Number int
	ETag   string
}

// MultipartSession tracks one multipart upload from creation to completion or
// abort. Parts is keyed by part number; part numbers may arrive in any order
// and with gaps.
type MultipartSession struct {
	ID          uuid.UUID
	Scope       string
	Key         string
	UploadID    string // backend-assigned multipart upload identifier
	ContentType string
	Status      SessionStatus
	Parts       map[int]Part
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// PartCount returns the number of distinct parts uploaded so far.
func (s *MultipartSession) PartCount() int {
	return len(s.Parts)
}

// TotalSize returns the combined size of all recorded parts.
func (s *MultipartSession) TotalSize() int64 {
	var total int64
	for _, part := range s.Parts {
		total += part.Size
	}
	return total
}

// HighestPartNumber returns the largest part number recorded, or 0 when no
// parts have been uploaded.
func (s *MultipartSession) HighestPartNumber() int {
	highest := 0
	for number := range s.Parts {
		if number > highest {
			highest = number
		}
	}
	return highest
}

// Clone returns a deep copy of the session safe to hand out after the
// tracker's lock is released.
func (s *MultipartSession) Clone() *MultipartSession {
	parts := make(map[int]Part, len(s.Parts))
	for number, part := range s.Parts {
		parts[number] = part
	}

	clone := *s
	clone.Parts = parts
	return &clone
}
