// Package testutil provides shared test helpers for setting up blob
// repositories, state slots, and clip stores.
package testutil

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/gregelin/photospeak/internal/apperr"
	"github.com/gregelin/photospeak/internal/blob"
	"github.com/gregelin/photospeak/internal/clipstore"
	"github.com/gregelin/photospeak/internal/photos"
	"github.com/gregelin/photospeak/internal/state"
)

// Logger returns a logger that discards all output.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestRepo creates a blob repository in a temp directory.
func TestRepo(t *testing.T) *blob.Repo {
	t.Helper()
	repo, err := blob.NewRepo(t.TempDir())
	if err != nil {
		t.Fatalf("NewRepo: %v", err)
	}
	if err := repo.EnsureRoot(); err != nil {
		t.Fatalf("EnsureRoot: %v", err)
	}
	return repo
}

// TestSlot creates a file-backed slot in a temp directory.
func TestSlot(t *testing.T) *state.FileSlot {
	t.Helper()
	slot, err := state.NewFileSlot(t.TempDir() + "/associations.json")
	if err != nil {
		t.Fatalf("NewFileSlot: %v", err)
	}
	return slot
}

// TestStore creates a loaded clip store over temp storage.
func TestStore(t *testing.T) *clipstore.Store {
	t.Helper()
	s := clipstore.New(TestSlot(t), TestRepo(t), Logger())
	if err := s.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return s
}

// FakeSource is an in-memory photos.Source for tests.
type FakeSource struct {
	AlbumList  []photos.Album
	PhotoList  []photos.Photo
	Details    map[string]*photos.PhotoDetail
	Thumbnails map[string][]byte
	Err        error
}

var _ photos.Source = (*FakeSource)(nil)

func (f *FakeSource) ListAlbums(context.Context) ([]photos.Album, error) {
	return f.AlbumList, f.Err
}

func (f *FakeSource) ListPhotos(_ context.Context, albumID string) ([]photos.Photo, error) {
	return f.PhotoList, f.Err
}

func (f *FakeSource) GetPhoto(_ context.Context, photoID string) (*photos.PhotoDetail, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	if d, ok := f.Details[photoID]; ok {
		return d, nil
	}
	return nil, apperr.ErrNotFound
}

func (f *FakeSource) GetThumbnail(_ context.Context, photoID string) ([]byte, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	if d, ok := f.Thumbnails[photoID]; ok {
		return d, nil
	}
	return nil, apperr.ErrNotFound
}
