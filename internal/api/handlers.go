package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gregelin/photospeak/internal/apperr"
	"github.com/gregelin/photospeak/internal/clipservice"
	"github.com/gregelin/photospeak/internal/models"
	"github.com/gregelin/photospeak/internal/photos"
)

const maxUploadBytes = 50 << 20 // 50 MB

// Handler holds API route handlers.
type Handler struct {
	svc *clipservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *clipservice.Service) *Handler {
	return &Handler{svc: svc}
}

// writeSourceError maps photo-source failures to HTTP responses, keeping
// the "grant access" flow distinguishable from generic failures.
func writeSourceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, apperr.ErrUnauthorized):
		writeJSON(w, http.StatusForbidden, errorBody("photo library access not granted; grant access in system settings and retry"))
	case errors.Is(err, apperr.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
	default:
		slog.Error(op+" failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
	}
}

// ListAlbums handles GET /api/albums.
//
//	@Summary		List photo albums
//	@Tags			photos
//	@Produce		json
//	@Success		200	{object}	AlbumListResponse
//	@Failure		403	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/albums [get]
func (h *Handler) ListAlbums(w http.ResponseWriter, r *http.Request) {
	albums, err := h.svc.Albums(r.Context())
	if err != nil {
		writeSourceError(w, "list albums", err)
		return
	}
	if albums == nil {
		albums = []photos.Album{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"albums": albums})
}

// ListPhotos handles GET /api/photos.
//
//	@Summary		List photos, optionally scoped to an album
//	@Tags			photos
//	@Produce		json
//	@Param			album	query		string	false	"Album id"
//	@Success		200		{object}	PhotoListResponse
//	@Failure		403		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/photos [get]
func (h *Handler) ListPhotos(w http.ResponseWriter, r *http.Request) {
	albumID := r.URL.Query().Get("album")
	items, err := h.svc.Photos(r.Context(), albumID)
	if err != nil {
		writeSourceError(w, "list photos", err)
		return
	}
	if items == nil {
		items = []photos.Photo{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"photos": items})
}

// GetPhoto handles GET /api/photos/{photoID}.
func (h *Handler) GetPhoto(w http.ResponseWriter, r *http.Request) {
	photoID := chi.URLParam(r, "photoID")
	detail, err := h.svc.Photo(r.Context(), photoID)
	if err != nil {
		writeSourceError(w, "get photo", err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// GetThumbnail handles GET /api/photos/{photoID}/thumbnail, serving raw
// encoded image bytes.
func (h *Handler) GetThumbnail(w http.ResponseWriter, r *http.Request) {
	photoID := chi.URLParam(r, "photoID")
	data, err := h.svc.Thumbnail(r.Context(), photoID)
	if err != nil {
		writeSourceError(w, "get thumbnail", err)
		return
	}
	w.Header().Set("Content-Type", "image/jpeg")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// ListClips handles GET /api/photos/{photoID}/clips.
//
//	@Summary		List audio clips attached to a photo
//	@Tags			clips
//	@Produce		json
//	@Success		200	{object}	ClipListResponse
//	@Security		BearerAuth
//	@Router			/photos/{photoID}/clips [get]
func (h *Handler) ListClips(w http.ResponseWriter, r *http.Request) {
	photoID := chi.URLParam(r, "photoID")
	clips := h.svc.Clips(r.Context(), photoID)
	if clips == nil {
		clips = []models.AudioClip{}
	}
	writeJSON(w, http.StatusOK, ClipListResponse{PhotoID: photoID, Clips: clips})
}

// AttachClip handles POST /api/photos/{photoID}/clips
// (multipart/form-data, field "file").
//
//	@Summary		Attach an existing audio file to a photo
//	@Tags			clips
//	@Accept			mpfd
//	@Produce		json
//	@Success		201	{object}	AttachResult
//	@Failure		400	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/photos/{photoID}/clips [post]
func (h *Handler) AttachClip(w http.ResponseWriter, r *http.Request) {
	photoID := chi.URLParam(r, "photoID")
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("file too large or invalid multipart"))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("missing 'file' field in multipart form"))
		return
	}
	defer file.Close()

	res, err := h.svc.AttachUpload(r.Context(), photoID, header.Filename, file)
	if err != nil {
		slog.Error("attach clip failed", slog.String("photo_id", photoID), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// SaveRecording handles POST /api/photos/{photoID}/recordings.
//
//	@Summary		Persist a finished voice recording for a photo
//	@Tags			clips
//	@Accept			json
//	@Produce		json
//	@Param			body	body		SaveRecordingRequest	true	"Base64 audio and duration"
//	@Success		201		{object}	AttachResult
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/photos/{photoID}/recordings [post]
func (h *Handler) SaveRecording(w http.ResponseWriter, r *http.Request) {
	photoID := chi.URLParam(r, "photoID")
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	var req SaveRecordingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if len(req.Audio) == 0 {
		writeJSON(w, http.StatusBadRequest, errorBody("audio is required"))
		return
	}

	res, err := h.svc.SaveRecording(r.Context(), photoID, req.Audio, req.Duration)
	if err != nil {
		slog.Error("save recording failed", slog.String("photo_id", photoID), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// RemoveClip handles DELETE /api/photos/{photoID}/clips/{clipID}.
// Removing an unknown clip is a no-op and still returns 204.
func (h *Handler) RemoveClip(w http.ResponseWriter, r *http.Request) {
	photoID := chi.URLParam(r, "photoID")
	clipID := chi.URLParam(r, "clipID")
	if err := h.svc.RemoveClip(r.Context(), photoID, clipID); err != nil {
		slog.Error("remove clip failed",
			slog.String("photo_id", photoID),
			slog.String("clip_id", clipID),
			slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ClipAudio handles GET /api/photos/{photoID}/clips/{clipID}/audio.
// A missing blob degrades to 404 rather than an error page.
func (h *Handler) ClipAudio(w http.ResponseWriter, r *http.Request) {
	photoID := chi.URLParam(r, "photoID")
	clipID := chi.URLParam(r, "clipID")

	ref, err := h.svc.ClipAudio(r.Context(), photoID, clipID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("no audio available"))
			return
		}
		slog.Error("clip audio failed", slog.String("clip_id", clipID), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, ref)
}
