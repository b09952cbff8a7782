// Package clipservice coordinates the photo source, association store, and
// blob repository for the API and MCP layers.
package clipservice

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gregelin/photospeak/internal/apperr"
	"github.com/gregelin/photospeak/internal/blob"
	"github.com/gregelin/photospeak/internal/checksum"
	"github.com/gregelin/photospeak/internal/clipstore"
	"github.com/gregelin/photospeak/internal/models"
	"github.com/gregelin/photospeak/internal/photos"
)

// AttachResult describes a stored clip plus the checksum of its bytes,
// returned to upload callers for verification.
type AttachResult struct {
	Clip     models.AudioClip `json:"clip"`
	Checksum string           `json:"checksum"`
	Size     int64            `json:"size"`
}

// Service is the application-facing facade over the core components.
type Service struct {
	source photos.Source
	store  *clipstore.Store
	blobs  *blob.Repo
	logger *slog.Logger
}

// NewService creates a new clip service.
func NewService(source photos.Source, store *clipstore.Store, blobs *blob.Repo, logger *slog.Logger) *Service {
	return &Service{source: source, store: store, blobs: blobs, logger: logger}
}

// Albums lists all albums from the photo source.
func (s *Service) Albums(ctx context.Context) ([]photos.Album, error) {
	return s.source.ListAlbums(ctx)
}

// Photos lists photos, scoped to albumID when non-empty.
func (s *Service) Photos(ctx context.Context, albumID string) ([]photos.Photo, error) {
	return s.source.ListPhotos(ctx, albumID)
}

// Photo returns a single photo with full image data.
func (s *Service) Photo(ctx context.Context, photoID string) (*photos.PhotoDetail, error) {
	return s.source.GetPhoto(ctx, photoID)
}

// Thumbnail returns raw encoded thumbnail bytes for a photo.
func (s *Service) Thumbnail(ctx context.Context, photoID string) ([]byte, error) {
	return s.source.GetThumbnail(ctx, photoID)
}

// Clips returns the ordered clip list for a photo, empty if none.
func (s *Service) Clips(_ context.Context, photoID string) []models.AudioClip {
	return s.store.ClipsFor(photoID)
}

// AttachUpload spools an uploaded audio file to disk and attaches it to
// photoID, preserving the upload's extension in the stored blob name.
func (s *Service) AttachUpload(_ context.Context, photoID, filename string, r io.Reader) (*AttachResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("clipservice: read upload: %w", err)
	}

	tmp, err := os.CreateTemp("", "photospeak-upload-*"+filepath.Ext(filename))
	if err != nil {
		return nil, fmt.Errorf("clipservice: spool upload: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("clipservice: spool upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("clipservice: spool upload: %w", err)
	}

	clip, err := s.store.AttachExisting(photoID, tmpName)
	if err != nil {
		return nil, err
	}
	return &AttachResult{
		Clip:     *clip,
		Checksum: checksum.Sum(data),
		Size:     int64(len(data)),
	}, nil
}

// SaveRecording persists finished recording bytes as a clip for photoID.
func (s *Service) SaveRecording(_ context.Context, photoID string, raw []byte, durationSeconds float64) (*AttachResult, error) {
	clip, err := s.store.SaveRecording(photoID, raw, durationSeconds)
	if err != nil {
		return nil, err
	}
	return &AttachResult{
		Clip:     *clip,
		Checksum: checksum.Sum(raw),
		Size:     int64(len(raw)),
	}, nil
}

// RemoveClip deletes a clip association. Unknown ids are a no-op.
func (s *Service) RemoveClip(_ context.Context, photoID, clipID string) error {
	return s.store.RemoveClip(photoID, clipID)
}

// ClipAudio returns a playback reference for a clip's audio. A missing or
// unreadable blob degrades to ErrNotFound ("no audio available") rather
// than failing hard: the rest of the UI keeps working.
func (s *Service) ClipAudio(_ context.Context, photoID, clipID string) (*models.DataRef, error) {
	clip, ok := s.store.FindClip(photoID, clipID)
	if !ok {
		return nil, apperr.ErrNotFound
	}
	ref := s.blobs.ReadDataRef(clip.AudioPath)
	if ref == nil {
		s.logger.Warn("clipservice: audio blob unreadable",
			slog.String("photo_id", photoID),
			slog.String("clip_id", clipID),
			slog.String("path", clip.AudioPath))
		return nil, apperr.ErrNotFound
	}
	return ref, nil
}
