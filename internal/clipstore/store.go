// Package clipstore owns the association index mapping photos to their
// ordered audio clip lists and is the single writer of durable association
// state.
package clipstore

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gregelin/photospeak/internal/blob"
	"github.com/gregelin/photospeak/internal/clipid"
	"github.com/gregelin/photospeak/internal/models"
	"github.com/gregelin/photospeak/internal/state"
)

// EventCallback is called after a successful mutation.
// kind is "added" or "removed".
type EventCallback func(kind, photoID, clipID string)

// Store holds the association index in memory and re-serializes the whole
// document to the durable slot after every mutation. A mutex makes the
// single-writer assumption explicit, so the index invariants hold even if
// callers ever trigger two mutations concurrently.
//
// Invariants maintained across all operations:
//   - every clip's PhotoID equals the key its list is stored under
//   - clip ids are unique across the entire index
//   - no key maps to an empty list (the key is removed with its last clip)
type Store struct {
	mu     sync.Mutex
	slot   state.Slot
	blobs  *blob.Repo
	logger *slog.Logger

	index map[string][]models.AudioClip
	order []string // photo key insertion order, for deterministic serialization

	onChange EventCallback
}

// New creates an empty store. Call Load to hydrate from durable storage.
func New(slot state.Slot, blobs *blob.Repo, logger *slog.Logger) *Store {
	return &Store{
		slot:   slot,
		blobs:  blobs,
		logger: logger,
		index:  make(map[string][]models.AudioClip),
	}
}

// OnChange registers a callback invoked after each successful mutation.
// Set it before serving traffic; it is not safe to change concurrently
// with operations.
func (s *Store) OnChange(cb EventCallback) { s.onChange = cb }

// Load hydrates the index from the durable slot, migrating the legacy
// one-clip-per-photo schema if detected. A corrupt or unreadable document
// resets to an empty index: the association cache is best-effort and never
// fatal.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok, err := s.slot.Read()
	if err != nil {
		s.logger.Warn("clipstore: read failed, starting empty",
			slog.String("error", err.Error()))
		s.reset()
		return nil
	}
	if !ok {
		s.reset()
		return nil
	}

	entries, migrated, err := decodeDocument(data)
	if err != nil {
		s.logger.Warn("clipstore: corrupt association document, resetting",
			slog.String("error", err.Error()))
		s.reset()
		return nil
	}

	s.reset()
	for _, e := range entries {
		if len(e.Clips) == 0 {
			continue
		}
		s.index[e.PhotoID] = e.Clips
		s.order = append(s.order, e.PhotoID)
	}

	if migrated {
		// Persist immediately so subsequent loads see only the new shape
		// and synthesized ids stay stable.
		if err := s.persistLocked(); err != nil {
			return fmt.Errorf("clipstore: persist migrated index: %w", err)
		}
		s.logger.Info("clipstore: migrated legacy associations",
			slog.Int("photos", len(s.order)))
	}
	return nil
}

// AttachExisting stores the audio file at sourcePath as a new clip for
// photoID and returns the clip. An empty sourcePath means the user
// cancelled the picker; it returns (nil, nil).
func (s *Store) AttachExisting(photoID, sourcePath string) (*models.AudioClip, error) {
	if sourcePath == "" {
		return nil, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := clipid.New()
	dest, err := s.blobs.StoreFromPath(sourcePath, photoID, id)
	if err != nil {
		return nil, err
	}
	clip := models.AudioClip{
		ID:        id,
		PhotoID:   photoID,
		AudioPath: dest,
		CreatedAt: time.Now().UnixMilli(),
	}
	if err := s.appendLocked(clip); err != nil {
		return nil, err
	}
	s.notify("added", photoID, clip.ID)
	return &clip, nil
}

// SaveRecording stores raw recording bytes as a new clip for photoID with
// the measured duration and returns the clip.
func (s *Store) SaveRecording(photoID string, raw []byte, durationSeconds float64) (*models.AudioClip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := clipid.New()
	dest, err := s.blobs.StoreFromBytes(photoID, id, raw)
	if err != nil {
		return nil, err
	}
	d := durationSeconds
	clip := models.AudioClip{
		ID:        id,
		PhotoID:   photoID,
		AudioPath: dest,
		CreatedAt: time.Now().UnixMilli(),
		Duration:  &d,
	}
	if err := s.appendLocked(clip); err != nil {
		return nil, err
	}
	s.notify("added", photoID, clip.ID)
	return &clip, nil
}

// RemoveClip removes the matching clip from photoID's list, dropping the
// key entirely when its last clip goes. Unknown photo or clip ids are a
// no-op, not an error.
func (s *Store) RemoveClip(photoID, clipID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clips, ok := s.index[photoID]
	if !ok {
		return nil
	}
	at := -1
	for i, c := range clips {
		if c.ID == clipID {
			at = i
			break
		}
	}
	if at < 0 {
		return nil
	}

	clips = append(clips[:at:at], clips[at+1:]...)
	if len(clips) == 0 {
		delete(s.index, photoID)
		s.dropKeyLocked(photoID)
	} else {
		s.index[photoID] = clips
	}

	if err := s.persistLocked(); err != nil {
		return err
	}
	s.notify("removed", photoID, clipID)
	return nil
}

// ClipsFor returns the ordered clip list for photoID, empty if absent.
// The returned slice is a copy; mutating it does not affect the index.
func (s *Store) ClipsFor(photoID string) []models.AudioClip {
	s.mu.Lock()
	defer s.mu.Unlock()

	clips := s.index[photoID]
	out := make([]models.AudioClip, len(clips))
	copy(out, clips)
	return out
}

// FindClip returns the clip with the given ids, or ok=false.
func (s *Store) FindClip(photoID, clipID string) (models.AudioClip, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.index[photoID] {
		if c.ID == clipID {
			return c, true
		}
	}
	return models.AudioClip{}, false
}

// Referenced returns the clip whose stored audio path matches path, or
// ok=false. Used by the media watcher to attribute externally removed
// files.
func (s *Store) Referenced(path string) (models.AudioClip, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, photoID := range s.order {
		for _, c := range s.index[photoID] {
			if c.AudioPath == path {
				return c, true
			}
		}
	}
	return models.AudioClip{}, false
}

// appendLocked adds clip to its photo's list (creating the list if absent)
// and persists. Caller holds s.mu.
func (s *Store) appendLocked(clip models.AudioClip) error {
	if _, ok := s.index[clip.PhotoID]; !ok {
		s.order = append(s.order, clip.PhotoID)
	}
	s.index[clip.PhotoID] = append(s.index[clip.PhotoID], clip)
	return s.persistLocked()
}

// persistLocked re-serializes the whole index in key insertion order and
// writes it to the durable slot. Caller holds s.mu.
func (s *Store) persistLocked() error {
	entries := make([]documentEntry, 0, len(s.order))
	for _, photoID := range s.order {
		entries = append(entries, documentEntry{PhotoID: photoID, Clips: s.index[photoID]})
	}
	data, err := encodeDocument(entries)
	if err != nil {
		return err
	}
	return s.slot.Write(data)
}

func (s *Store) reset() {
	s.index = make(map[string][]models.AudioClip)
	s.order = nil
}

func (s *Store) dropKeyLocked(photoID string) {
	for i, k := range s.order {
		if k == photoID {
			s.order = append(s.order[:i:i], s.order[i+1:]...)
			return
		}
	}
}

func (s *Store) notify(kind, photoID, clipID string) {
	if s.onChange != nil {
		s.onChange(kind, photoID, clipID)
	}
}
