// Package photos provides access to the platform photo library through a
// helper subprocess.
package photos

import "context"

// Album is a photo collection exposed by the photo source.
type Album struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Count int    `json:"count"`
}

// Photo is a library photo summary, optionally carrying thumbnail bytes.
type Photo struct {
	ID            string `json:"id"`
	Filename      string `json:"filename"`
	CreationDate  string `json:"creationDate"`
	Width         int    `json:"width"`
	Height        int    `json:"height"`
	ThumbnailData []byte `json:"thumbnailData,omitempty"`
}

// PhotoDetail is a full photo record including image bytes.
type PhotoDetail struct {
	ID           string `json:"id"`
	Filename     string `json:"filename"`
	CreationDate string `json:"creationDate"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	ImageData    []byte `json:"imageData"`
}

// Source is the interface to the external photo store. Calls may fail with
// apperr.ErrUnauthorized (library permission not granted) or
// apperr.ErrNotFound (unknown id).
type Source interface {
	// ListAlbums returns all albums.
	ListAlbums(ctx context.Context) ([]Album, error)
	// ListPhotos returns photos, optionally scoped to an album.
	ListPhotos(ctx context.Context, albumID string) ([]Photo, error)
	// GetPhoto returns a single photo with full image data.
	GetPhoto(ctx context.Context, photoID string) (*PhotoDetail, error)
	// GetThumbnail returns raw encoded thumbnail bytes for a photo.
	GetThumbnail(ctx context.Context, photoID string) ([]byte, error)
}
