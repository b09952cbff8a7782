package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gregelin/photospeak/internal/clipservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *clipservice.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Photo library (read-only, backed by the helper subprocess).
	r.Get("/albums", h.ListAlbums)
	r.Get("/photos", h.ListPhotos)
	r.Get("/photos/{photoID}", h.GetPhoto)
	r.Get("/photos/{photoID}/thumbnail", h.GetThumbnail)

	// Clip associations.
	r.Get("/photos/{photoID}/clips", h.ListClips)
	r.Post("/photos/{photoID}/clips", h.AttachClip)
	r.Post("/photos/{photoID}/recordings", h.SaveRecording)
	r.Delete("/photos/{photoID}/clips/{clipID}", h.RemoveClip)
	r.Get("/photos/{photoID}/clips/{clipID}/audio", h.ClipAudio)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
