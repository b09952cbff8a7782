package photos

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/gregelin/photospeak/internal/apperr"
)

// CLISource queries the photo library by invoking a platform helper binary
// (list-albums, list-photos, get-photo, get-thumbnail). The helper prints
// JSON on stdout and exits 1 with a JSON {"error": ...} body on failure.
type CLISource struct {
	helper  string
	timeout time.Duration
}

var _ Source = (*CLISource)(nil)

// NewCLISource creates a source backed by the helper binary at path.
func NewCLISource(helper string, timeout time.Duration) *CLISource {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &CLISource{helper: helper, timeout: timeout}
}

// ListAlbums returns all albums in the library.
func (s *CLISource) ListAlbums(ctx context.Context) ([]Album, error) {
	out, err := s.run(ctx, "list-albums")
	if err != nil {
		return nil, err
	}
	var albums []Album
	if err := json.Unmarshal(out, &albums); err != nil {
		return nil, fmt.Errorf("photos: decode albums: %w", err)
	}
	return albums, nil
}

// ListPhotos returns photos, scoped to albumID when non-empty.
func (s *CLISource) ListPhotos(ctx context.Context, albumID string) ([]Photo, error) {
	args := []string{"list-photos"}
	if albumID != "" {
		args = append(args, albumID)
	}
	out, err := s.run(ctx, args...)
	if err != nil {
		return nil, err
	}
	var photos []Photo
	if err := json.Unmarshal(out, &photos); err != nil {
		return nil, fmt.Errorf("photos: decode photos: %w", err)
	}
	return photos, nil
}

// GetPhoto returns a single photo with full image data.
func (s *CLISource) GetPhoto(ctx context.Context, photoID string) (*PhotoDetail, error) {
	out, err := s.run(ctx, "get-photo", photoID)
	if err != nil {
		return nil, err
	}
	var detail PhotoDetail
	if err := json.Unmarshal(out, &detail); err != nil {
		return nil, fmt.Errorf("photos: decode photo: %w", err)
	}
	return &detail, nil
}

// GetThumbnail returns raw encoded thumbnail bytes.
func (s *CLISource) GetThumbnail(ctx context.Context, photoID string) ([]byte, error) {
	return s.run(ctx, "get-thumbnail", photoID)
}

// run executes one helper command and returns its stdout. A non-zero exit
// is translated into the application error taxonomy from the helper's JSON
// error body.
func (s *CLISource) run(ctx context.Context, args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, s.helper, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, mapHelperError(stdout.Bytes(), stderr.Bytes())
		}
		return nil, fmt.Errorf("photos: run helper: %w", err)
	}
	return stdout.Bytes(), nil
}

type helperError struct {
	Error string `json:"error"`
}

// mapHelperError classifies the helper's JSON error body. The helper
// writes the body to stdout; stderr is a fallback for older builds.
func mapHelperError(stdout, stderr []byte) error {
	body := stdout
	if len(bytes.TrimSpace(body)) == 0 {
		body = stderr
	}

	var he helperError
	if err := json.Unmarshal(bytes.TrimSpace(body), &he); err != nil || he.Error == "" {
		return fmt.Errorf("photos: helper failed: %s", strings.TrimSpace(string(body)))
	}

	msg := strings.ToLower(he.Error)
	switch {
	case strings.Contains(msg, "not authorized"),
		strings.Contains(msg, "authorization"),
		strings.Contains(msg, "access") && strings.Contains(msg, "denied"),
		strings.Contains(msg, "permission"):
		return fmt.Errorf("photos: %s: %w", he.Error, apperr.ErrUnauthorized)
	case strings.Contains(msg, "not found"), strings.Contains(msg, "unknown"):
		return fmt.Errorf("photos: %s: %w", he.Error, apperr.ErrNotFound)
	default:
		return fmt.Errorf("photos: helper error: %s", he.Error)
	}
}
