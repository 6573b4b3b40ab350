// Package usecase implements multipart upload session tracking. Sessions live
// in process memory; the authoritative part data lives in the object backend,
// the tracker owns the lifecycle state machine.
package usecase

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/edgegate/edgegate/internal/errors"
	"github.com/edgegate/edgegate/internal/storage"
	uploadDomain "github.com/edgegate/edgegate/internal/upload/domain"
)

// Tracker coordinates multipart upload sessions. Each session carries its own
// mutex so operations on different sessions never contend; the tracker-level
// lock only guards the session map itself. No lock is held across backend I/O:
// state is checked before the call and re-checked after.
type Tracker struct {
	backend     storage.ObjectBackend
	minPartSize int64
	sessionTTL  time.Duration
	logger      *slog.Logger

	mu       sync.RWMutex
	sessions map[uuid.UUID]*sessionEntry
}

// sessionEntry pairs a session with its per-session lock.
type sessionEntry struct {
	mu      sync.Mutex
	session *uploadDomain.MultipartSession
}

// NewTracker creates a Tracker. minPartSize is the smallest size accepted for
// every part except the highest-numbered one; sessionTTL bounds how long an
// inactive session survives before the sweeper reclaims it.
func NewTracker(
	backend storage.ObjectBackend,
	minPartSize int64,
	sessionTTL time.Duration,
	logger *slog.Logger,
) *Tracker {
	return &Tracker{
		backend:     backend,
		minPartSize: minPartSize,
		sessionTTL:  sessionTTL,
		logger:      logger,
		sessions:    make(map[uuid.UUID]*sessionEntry),
	}
}

// Create starts a multipart upload in the backend and registers a new open
// session for it.
func (t *Tracker) Create(
	ctx context.Context,
	scope, key, contentType string,
) (*uploadDomain.MultipartSession, error) {
	if scope == "" || key == "" {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "scope and key are required")
	}

	uploadID, err := t.backend.CreateMultipart(ctx, scope, key, contentType)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to create multipart upload")
	}

	now := time.Now().UTC()
	session := &uploadDomain.MultipartSession{
		ID:          uuid.Must(uuid.NewV7()),
		Scope:       scope,
		Key:         key,
		UploadID:    uploadID,
		ContentType: contentType,
		Status:      uploadDomain.StatusOpen,
		Parts:       make(map[int]uploadDomain.Part),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	t.mu.Lock()
	t.sessions[session.ID] = &sessionEntry{session: session}
	t.mu.Unlock()

	t.logger.InfoContext(ctx, "multipart session created",
		slog.String("session_id", session.ID.String()),
		slog.String("scope", scope),
		slog.String("key", key),
	)

	return session.Clone(), nil
}

// entry looks up the session entry for an ID.
func (t *Tracker) entry(sessionID uuid.UUID) (*sessionEntry, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	entry, ok := t.sessions[sessionID]
	if !ok {
		return nil, uploadDomain.ErrSessionNotFound
	}
	return entry, nil
}

// UploadPart uploads one part to the backend and records it in the session.
// Re-uploading an existing part number while the session is open replaces the
// previous part record. Part numbers outside [1, 10000] are rejected without
// touching the session.
func (t *Tracker) UploadPart(
	ctx context.Context,
	sessionID uuid.UUID,
	partNumber int,
	reader io.Reader,
	size int64,
) (*uploadDomain.Part, error) {
	if !uploadDomain.ValidPartNumber(partNumber) {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidPart,
			"part number %d out of range [%d, %d]",
			partNumber, uploadDomain.MinPartNumber, uploadDomain.MaxPartNumber)
	}
	if size < 0 {
		return nil, apperrors.Wrap(apperrors.ErrInvalidPart, "part size must be non-negative")
	}

	entry, err := t.entry(sessionID)
	if err != nil {
		return nil, err
	}

	// Snapshot the upload coordinates under the lock; the backend call happens
	// without it so slow uploads don't serialize the session.
	entry.mu.Lock()
	if entry.session.Status != uploadDomain.StatusOpen {
		entry.mu.Unlock()
		return nil, apperrors.Wrapf(apperrors.ErrSessionTerminal,
			"session is %s", entry.session.Status)
	}
	scope := entry.session.Scope
	key := entry.session.Key
	uploadID := entry.session.UploadID
	entry.mu.Unlock()

	etag, err := t.backend.PutPart(ctx, scope, key, uploadID, partNumber, reader, size)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to upload part")
	}

	part := uploadDomain.Part{
		Number:     partNumber,
		ETag:       etag,
		Size:       size,
		UploadedAt: time.Now().UTC(),
	}

	// Re-check state: the session may have completed or aborted while the part
	// was in flight. The part bytes are already in the backend; recording it
	// against a terminal session would corrupt the state machine, so refuse.
	entry.mu.Lock()
	if entry.session.Status != uploadDomain.StatusOpen {
		status := entry.session.Status
		entry.mu.Unlock()
		return nil, apperrors.Wrapf(apperrors.ErrSessionTerminal, "session is %s", status)
	}
	entry.session.Parts[partNumber] = part
	entry.session.UpdatedAt = part.UploadedAt
	entry.mu.Unlock()

	return &part, nil
}

// Complete validates the client's parts list against the recorded parts and
// assembles them into the final object. The list must reference every uploaded
// part in ascending order with matching etags; any deviation fails with
// ErrInvalidPart and the session stays open. The transition Open -> Completing
// happens atomically under the session lock, so exactly one of any concurrent
// Complete calls proceeds to the backend; the rest observe a non-open session.
// If the backend assembly fails the session returns to Open and the client may
// retry, unless an abort arrived in the meantime.
func (t *Tracker) Complete(
	ctx context.Context,
	sessionID uuid.UUID,
	parts []uploadDomain.PartReference,
) (*storage.ObjectInfo, error) {
	entry, err := t.entry(sessionID)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	if entry.session.Status != uploadDomain.StatusOpen {
		status := entry.session.Status
		entry.mu.Unlock()
		return nil, apperrors.Wrapf(apperrors.ErrSessionTerminal, "session is %s", status)
	}

	if len(entry.session.Parts) == 0 {
		entry.mu.Unlock()
		return nil, apperrors.Wrap(apperrors.ErrInvalidPart, "no parts uploaded")
	}

	if err := matchPartsList(entry.session, parts); err != nil {
		entry.mu.Unlock()
		return nil, err
	}

	// Every part except the highest-numbered one must meet the minimum size.
	// Which part is final is only knowable here, once the part set is fixed.
	highest := entry.session.HighestPartNumber()
	for number, part := range entry.session.Parts {
		if number != highest && part.Size < t.minPartSize {
			entry.mu.Unlock()
			return nil, apperrors.Wrapf(apperrors.ErrInvalidPart,
				"part %d is %d bytes, below the %d byte minimum", number, part.Size, t.minPartSize)
		}
	}

	entry.session.Status = uploadDomain.StatusCompleting
	scope := entry.session.Scope
	key := entry.session.Key
	uploadID := entry.session.UploadID
	entry.mu.Unlock()

	completed := make([]storage.CompletedPart, 0, len(parts))
	for _, ref := range parts {
		completed = append(completed, storage.CompletedPart{
			PartNumber: ref.Number,
			ETag:       ref.ETag,
		})
	}

	info, err := t.backend.CompleteMultipart(ctx, scope, key, uploadID, completed)

	entry.mu.Lock()
	defer entry.mu.Unlock()

	// An abort may have landed while the backend call was in flight. The abort
	// wins: the session stays aborted whatever the backend returned.
	if entry.session.Status != uploadDomain.StatusCompleting {
		return nil, apperrors.Wrapf(apperrors.ErrSessionTerminal,
			"session is %s", entry.session.Status)
	}

	if err != nil {
		// Return to Open so the client can retry or abort.
		entry.session.Status = uploadDomain.StatusOpen
		entry.session.UpdatedAt = time.Now().UTC()
		return nil, apperrors.Wrap(err, "failed to complete multipart upload")
	}

	entry.session.Status = uploadDomain.StatusCompleted
	entry.session.UpdatedAt = time.Now().UTC()

	t.logger.InfoContext(ctx, "multipart session completed",
		slog.String("session_id", sessionID.String()),
		slog.String("scope", scope),
		slog.String("key", key),
		slog.Int("parts", len(completed)),
	)

	return info, nil
}

// Abort discards a session and its uploaded parts. Open and Completing
// sessions may both be aborted; an in-flight completion observes the aborted
// status when it re-acquires the session lock and reports SessionTerminal.
// The transition to Aborted happens before the backend call so concurrent
// operations fail fast; a backend cleanup failure is reported but does not
// resurrect the session.
func (t *Tracker) Abort(ctx context.Context, sessionID uuid.UUID) error {
	entry, err := t.entry(sessionID)
	if err != nil {
		return err
	}

	entry.mu.Lock()
	if entry.session.Status.Terminal() {
		status := entry.session.Status
		entry.mu.Unlock()
		return apperrors.Wrapf(apperrors.ErrSessionTerminal, "session is %s", status)
	}
	entry.session.Status = uploadDomain.StatusAborted
	entry.session.UpdatedAt = time.Now().UTC()
	scope := entry.session.Scope
	key := entry.session.Key
	uploadID := entry.session.UploadID
	entry.mu.Unlock()

	if err := t.backend.AbortMultipart(ctx, scope, key, uploadID); err != nil {
		t.logger.ErrorContext(ctx, "failed to abort multipart upload in backend",
			slog.String("session_id", sessionID.String()),
			slog.String("error", err.Error()),
		)
		return apperrors.Wrap(err, "failed to abort multipart upload")
	}

	t.logger.InfoContext(ctx, "multipart session aborted",
		slog.String("session_id", sessionID.String()),
		slog.String("scope", scope),
		slog.String("key", key),
	)

	return nil
}

// Get returns a snapshot of the session.
func (t *Tracker) Get(ctx context.Context, sessionID uuid.UUID) (*uploadDomain.MultipartSession, error) {
	entry, err := t.entry(sessionID)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return entry.session.Clone(), nil
}

// Sweep reclaims sessions whose last activity is older than the session TTL.
// Open and stuck Completing sessions are aborted in the backend to release
// their parts; terminal sessions are simply dropped from the map. Returns the
// number of sessions removed.
func (t *Tracker) Sweep(ctx context.Context) int {
	cutoff := time.Now().UTC().Add(-t.sessionTTL)

	t.mu.RLock()
	candidates := make([]uuid.UUID, 0)
	for id, entry := range t.sessions {
		entry.mu.Lock()
		if entry.session.UpdatedAt.Before(cutoff) {
			candidates = append(candidates, id)
		}
		entry.mu.Unlock()
	}
	t.mu.RUnlock()

	swept := 0
	for _, id := range candidates {
		entry, err := t.entry(id)
		if err != nil {
			continue
		}

		entry.mu.Lock()
		if !entry.session.UpdatedAt.Before(cutoff) {
			entry.mu.Unlock()
			continue
		}
		wasLive := !entry.session.Status.Terminal()
		entry.session.Status = uploadDomain.StatusAborted
		scope := entry.session.Scope
		key := entry.session.Key
		uploadID := entry.session.UploadID
		entry.mu.Unlock()

		if wasLive {
			if err := t.backend.AbortMultipart(ctx, scope, key, uploadID); err != nil {
				t.logger.ErrorContext(ctx, "sweeper failed to abort stale upload",
					slog.String("session_id", id.String()),
					slog.String("error", err.Error()),
				)
			}
		}

		t.mu.Lock()
		delete(t.sessions, id)
		t.mu.Unlock()
		swept++
	}

	if swept > 0 {
		t.logger.InfoContext(ctx, "swept stale upload sessions", slog.Int("count", swept))
	}

	return swept
}

// StartSweeper runs Sweep on the given interval until the context is
// canceled. Call in a goroutine at startup.
func (t *Tracker) StartSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.Sweep(ctx)
		}
	}
}

// matchPartsList checks the client-supplied parts list against the session's
// recorded parts: strictly ascending part numbers, every uploaded part
// referenced exactly once, and every etag equal to the one the part upload
// returned. Caller must hold the session lock.
func matchPartsList(session *uploadDomain.MultipartSession, parts []uploadDomain.PartReference) error {
	if len(parts) == 0 {
		return apperrors.Wrap(apperrors.ErrInvalidPart, "parts list is required")
	}

	for i, ref := range parts {
		if i > 0 && ref.Number <= parts[i-1].Number {
			return apperrors.Wrapf(apperrors.ErrInvalidPart,
				"parts list must be in ascending part number order (part %d after part %d)",
				ref.Number, parts[i-1].Number)
		}

		recorded, ok := session.Parts[ref.Number]
		if !ok {
			return apperrors.Wrapf(apperrors.ErrInvalidPart, "part %d was not uploaded", ref.Number)
		}
		if recorded.ETag != ref.ETag {
			return apperrors.Wrapf(apperrors.ErrInvalidPart,
				"part %d etag does not match the uploaded part", ref.Number)
		}
	}

	// Ascending order rules out duplicates, so equal lengths plus the per-entry
	// lookups above mean the list covers every uploaded part.
	if len(parts) != len(session.Parts) {
		return apperrors.Wrapf(apperrors.ErrInvalidPart,
			"parts list references %d of %d uploaded parts", len(parts), len(session.Parts))
	}

	return nil
}
