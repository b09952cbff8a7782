// Package models defines the domain types for PhotoSpeak.
package models

// AudioClip is one voice recording or imported audio file attached to a photo.
//
// Field order is significant: the association document is re-serialized on
// every mutation and must round-trip byte-identically, so fields are never
// reordered.
type AudioClip struct {
	ID        string   `json:"id"`
	PhotoID   string   `json:"photoId"`
	AudioPath string   `json:"audioPath"`
	CreatedAt int64    `json:"createdAt"` // milliseconds since epoch
	Duration  *float64 `json:"duration,omitempty"`
}

// DurationSeconds returns the clip duration, or ok=false for imported files
// whose duration has not been discovered yet.
func (c AudioClip) DurationSeconds() (float64, bool) {
	if c.Duration == nil {
		return 0, false
	}
	return *c.Duration, true
}

// DataRef is a self-describing audio reference handed to the rendering
// surface in place of a raw filesystem path.
type DataRef struct {
	MIME string `json:"mime"`
	Data string `json:"data"` // base64-encoded audio bytes
}
