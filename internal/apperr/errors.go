// Package apperr defines sentinel errors shared across the application.
package apperr

import "errors"

var (
	// ErrNotFound indicates an unknown album, photo, or clip id.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized indicates the photo source denied access; the user
	// must grant library permission before retrying.
	ErrUnauthorized = errors.New("photo library access not granted")
	// ErrCorruptState indicates the persisted association document could
	// not be parsed. Recovered locally by resetting to an empty index.
	ErrCorruptState = errors.New("corrupt association state")
)
