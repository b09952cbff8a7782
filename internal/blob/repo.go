// Package blob stores audio bytes durably on disk, addressed by photo and
// clip id.
package blob

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gregelin/photospeak/internal/models"
)

// RecordingExt is the extension used for recordings saved from raw bytes.
const RecordingExt = ".m4a"

var mimeByExt = map[string]string{
	".m4a":  "audio/mp4",
	".mp4":  "audio/mp4",
	".aac":  "audio/aac",
	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
	".ogg":  "audio/ogg",
	".oga":  "audio/ogg",
	".flac": "audio/flac",
}

// Repo is a filesystem blob repository rooted at a single directory.
// Destination names combine a sanitized photo id and the clip id, so the
// globally unique clip id rules out collisions between distinct clips.
type Repo struct {
	root string
}

// NewRepo creates a repository rooted at root. Call EnsureRoot before the
// first store operation.
func NewRepo(root string) (*Repo, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("blob: resolve root: %w", err)
	}
	return &Repo{root: abs}, nil
}

// Root returns the absolute storage root.
func (r *Repo) Root() string { return r.root }

// EnsureRoot creates the storage directory (including parents) if missing.
// Idempotent.
func (r *Repo) EnsureRoot() error {
	if err := os.MkdirAll(r.root, 0o755); err != nil {
		return fmt.Errorf("blob: create root: %w", err)
	}
	return nil
}

// StoreFromPath copies the file at sourcePath into the repository under the
// photo/clip naming scheme, preserving the source extension. An existing
// file of the same derived name is overwritten: the same clip id means the
// same logical clip. Returns the destination path.
func (r *Repo) StoreFromPath(sourcePath, photoID, clipID string) (string, error) {
	src, err := os.Open(sourcePath)
	if err != nil {
		return "", fmt.Errorf("blob: open source: %w", err)
	}
	defer src.Close()

	dest := r.destPath(photoID, clipID, filepath.Ext(sourcePath))
	if err := r.writeFile(dest, src); err != nil {
		return "", err
	}
	return dest, nil
}

// StoreFromBytes writes raw recording bytes under the photo/clip naming
// scheme with the fixed recording extension. Returns the destination path.
func (r *Repo) StoreFromBytes(photoID, clipID string, raw []byte) (string, error) {
	dest := r.destPath(photoID, clipID, RecordingExt)
	if err := r.writeFile(dest, bytes.NewReader(raw)); err != nil {
		return "", err
	}
	return dest, nil
}

// ReadDataRef reads the file at path and returns a self-describing
// reference for playback. Returns nil (no error) when the file is missing
// or unreadable; the caller logs and degrades to "no audio available".
func (r *Repo) ReadDataRef(path string) *models.DataRef {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	mime, ok := mimeByExt[strings.ToLower(filepath.Ext(path))]
	if !ok {
		mime = "application/octet-stream"
	}
	return &models.DataRef{
		MIME: mime,
		Data: base64.StdEncoding.EncodeToString(data),
	}
}

// destPath derives the destination path for a clip. The photo id is
// sanitized so identifiers containing separators cannot escape the root or
// create nested directories.
func (r *Repo) destPath(photoID, clipID, ext string) string {
	return filepath.Join(r.root, sanitize(photoID)+"_"+clipID+ext)
}

// sanitize replaces path separator characters and traversal sequences in a
// photo id with '-'. Collisions are not a concern: uniqueness comes from
// the clip id.
func sanitize(photoID string) string {
	s := strings.NewReplacer("/", "-", "\\", "-", "..", "-").Replace(photoID)
	if s == "" {
		s = "photo"
	}
	return s
}

func (r *Repo) writeFile(dest string, src io.Reader) error {
	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("blob: create %s: %w", dest, err)
	}
	if _, err := io.Copy(f, src); err != nil {
		f.Close()
		_ = os.Remove(dest)
		return fmt.Errorf("blob: write %s: %w", dest, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("blob: close %s: %w", dest, err)
	}
	return nil
}
