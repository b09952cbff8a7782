package clipservice

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/gregelin/photospeak/internal/apperr"
	"github.com/gregelin/photospeak/internal/blob"
	"github.com/gregelin/photospeak/internal/clipstore"
	"github.com/gregelin/photospeak/internal/photos"
	"github.com/gregelin/photospeak/internal/testutil"
)

func testService(t *testing.T) (*Service, *clipstore.Store, *blob.Repo) {
	t.Helper()
	repo := testutil.TestRepo(t)
	store := clipstore.New(testutil.TestSlot(t), repo, testutil.Logger())
	if err := store.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	svc := NewService(&testutil.FakeSource{}, store, repo, testutil.Logger())
	return svc, store, repo
}

func TestAttachUpload(t *testing.T) {
	svc, store, _ := testService(t)

	res, err := svc.AttachUpload(context.Background(), "p1", "voice.mp3", bytes.NewReader([]byte("uploaded")))
	if err != nil {
		t.Fatalf("AttachUpload: %v", err)
	}
	if res.Size != int64(len("uploaded")) {
		t.Errorf("size = %d", res.Size)
	}
	if res.Checksum == "" {
		t.Error("expected checksum")
	}
	if filepath.Ext(res.Clip.AudioPath) != ".mp3" {
		t.Errorf("extension = %q, want .mp3", filepath.Ext(res.Clip.AudioPath))
	}
	if got, _ := os.ReadFile(res.Clip.AudioPath); string(got) != "uploaded" {
		t.Errorf("stored bytes = %q", got)
	}
	if clips := store.ClipsFor("p1"); len(clips) != 1 {
		t.Errorf("clips = %d, want 1", len(clips))
	}
}

func TestSaveRecording(t *testing.T) {
	svc, store, _ := testService(t)

	res, err := svc.SaveRecording(context.Background(), "p1", []byte("rec"), 4.5)
	if err != nil {
		t.Fatalf("SaveRecording: %v", err)
	}
	if d, ok := res.Clip.DurationSeconds(); !ok || d != 4.5 {
		t.Errorf("duration = %v %v", d, ok)
	}
	if clips := store.ClipsFor("p1"); len(clips) != 1 {
		t.Errorf("clips = %d, want 1", len(clips))
	}
}

func TestClipAudio(t *testing.T) {
	svc, _, _ := testService(t)

	res, err := svc.SaveRecording(context.Background(), "p1", []byte("rec"), 1)
	if err != nil {
		t.Fatal(err)
	}

	ref, err := svc.ClipAudio(context.Background(), "p1", res.Clip.ID)
	if err != nil {
		t.Fatalf("ClipAudio: %v", err)
	}
	if ref.MIME != "audio/mp4" {
		t.Errorf("mime = %q", ref.MIME)
	}
}

func TestClipAudioUnknownClip(t *testing.T) {
	svc, _, _ := testService(t)
	if _, err := svc.ClipAudio(context.Background(), "p1", "nope"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestClipAudioMissingBlobDegrades(t *testing.T) {
	svc, _, _ := testService(t)

	res, err := svc.SaveRecording(context.Background(), "p1", []byte("rec"), 1)
	if err != nil {
		t.Fatal(err)
	}
	// Delete the blob behind the store's back.
	if err := os.Remove(res.Clip.AudioPath); err != nil {
		t.Fatal(err)
	}

	if _, err := svc.ClipAudio(context.Background(), "p1", res.Clip.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound (degraded)", err)
	}
}

func TestAlbumsPassthrough(t *testing.T) {
	repo := testutil.TestRepo(t)
	store := clipstore.New(testutil.TestSlot(t), repo, testutil.Logger())
	if err := store.Load(); err != nil {
		t.Fatal(err)
	}
	src := &testutil.FakeSource{
		AlbumList: []photos.Album{{ID: "a1", Title: "Trip", Count: 3}},
	}
	svc := NewService(src, store, repo, testutil.Logger())

	albums, err := svc.Albums(context.Background())
	if err != nil {
		t.Fatalf("Albums: %v", err)
	}
	if len(albums) != 1 || albums[0].Title != "Trip" {
		t.Errorf("albums = %+v", albums)
	}
}
