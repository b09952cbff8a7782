package photos

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gregelin/photospeak/internal/apperr"
)

// fakeHelper writes a shell script that mimics the platform helper binary.
func fakeHelper(t *testing.T, script string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "photos-helper")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestListAlbums(t *testing.T) {
	helper := fakeHelper(t, `echo '[{"id":"a1","title":"Vacation","count":12}]'`)
	src := NewCLISource(helper, time.Second)

	albums, err := src.ListAlbums(context.Background())
	if err != nil {
		t.Fatalf("ListAlbums: %v", err)
	}
	if len(albums) != 1 || albums[0].ID != "a1" || albums[0].Count != 12 {
		t.Errorf("albums = %+v", albums)
	}
}

func TestListPhotosScopedToAlbum(t *testing.T) {
	helper := fakeHelper(t, `
if [ "$1" = "list-photos" ] && [ "$2" = "a1" ]; then
  echo '[{"id":"p1","filename":"img.jpg","creationDate":"2024-01-01","width":100,"height":50}]'
else
  echo '[]'
fi`)
	src := NewCLISource(helper, time.Second)

	photos, err := src.ListPhotos(context.Background(), "a1")
	if err != nil {
		t.Fatalf("ListPhotos: %v", err)
	}
	if len(photos) != 1 || photos[0].Filename != "img.jpg" {
		t.Errorf("photos = %+v", photos)
	}

	all, err := src.ListPhotos(context.Background(), "")
	if err != nil {
		t.Fatalf("ListPhotos all: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("expected empty list, got %+v", all)
	}
}

func TestGetPhoto(t *testing.T) {
	helper := fakeHelper(t, `echo '{"id":"p1","filename":"img.jpg","creationDate":"2024-01-01","width":100,"height":50,"imageData":"aGVsbG8="}'`)
	src := NewCLISource(helper, time.Second)

	detail, err := src.GetPhoto(context.Background(), "p1")
	if err != nil {
		t.Fatalf("GetPhoto: %v", err)
	}
	if string(detail.ImageData) != "hello" {
		t.Errorf("imageData = %q", detail.ImageData)
	}
}

func TestGetThumbnailRawBytes(t *testing.T) {
	helper := fakeHelper(t, `printf 'raw-jpeg-bytes'`)
	src := NewCLISource(helper, time.Second)

	data, err := src.GetThumbnail(context.Background(), "p1")
	if err != nil {
		t.Fatalf("GetThumbnail: %v", err)
	}
	if string(data) != "raw-jpeg-bytes" {
		t.Errorf("data = %q", data)
	}
}

func TestAuthorizationErrorMapping(t *testing.T) {
	helper := fakeHelper(t, `echo '{"error":"photo library access not authorized"}'; exit 1`)
	src := NewCLISource(helper, time.Second)

	_, err := src.ListAlbums(context.Background())
	if !errors.Is(err, apperr.ErrUnauthorized) {
		t.Errorf("err = %v, want ErrUnauthorized", err)
	}
}

func TestNotFoundErrorMapping(t *testing.T) {
	helper := fakeHelper(t, `echo '{"error":"photo not found: p404"}'; exit 1`)
	src := NewCLISource(helper, time.Second)

	_, err := src.GetPhoto(context.Background(), "p404")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestGenericHelperError(t *testing.T) {
	helper := fakeHelper(t, `echo '{"error":"disk on fire"}'; exit 1`)
	src := NewCLISource(helper, time.Second)

	_, err := src.ListAlbums(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, apperr.ErrUnauthorized) || errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("generic error misclassified: %v", err)
	}
}

func TestHelperErrorOnStderr(t *testing.T) {
	helper := fakeHelper(t, `echo '{"error":"unknown album"}' >&2; exit 1`)
	src := NewCLISource(helper, time.Second)

	_, err := src.ListPhotos(context.Background(), "a404")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestMissingHelperBinary(t *testing.T) {
	src := NewCLISource(filepath.Join(t.TempDir(), "does-not-exist"), time.Second)
	if _, err := src.ListAlbums(context.Background()); err == nil {
		t.Error("expected error for missing helper")
	}
}
