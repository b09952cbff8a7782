package api

import (
	"github.com/gregelin/photospeak/internal/clipservice"
	"github.com/gregelin/photospeak/internal/models"
	"github.com/gregelin/photospeak/internal/photos"
)

// SaveRecordingRequest is the request body for finalizing a recording.
// Audio carries the encoded recording bytes as base64.
type SaveRecordingRequest struct {
	Audio    []byte  `json:"audio" validate:"required"`
	Duration float64 `json:"duration" example:"5.2" validate:"required"`
}

// AttachResult is returned after a clip is stored (aliased from the domain layer).
type AttachResult = clipservice.AttachResult

// ClipListResponse wraps a photo's clip list.
type ClipListResponse struct {
	PhotoID string             `json:"photoId" example:"ph-42" validate:"required"`
	Clips   []models.AudioClip `json:"clips" validate:"required"`
}

// AlbumListResponse wraps the album listing.
type AlbumListResponse struct {
	Albums []photos.Album `json:"albums" validate:"required"`
}

// PhotoListResponse wraps a photo listing.
type PhotoListResponse struct {
	Photos []photos.Photo `json:"photos" validate:"required"`
}
