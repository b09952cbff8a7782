package clipstore

import (
	"encoding/json"
	"fmt"

	"github.com/gregelin/photospeak/internal/apperr"
	"github.com/gregelin/photospeak/internal/clipid"
	"github.com/gregelin/photospeak/internal/models"
)

// documentEntry is one (photoId, clips) pair in the persisted association
// document. It serializes as a two-element JSON array so the document stays
// an ordered list of pairs rather than an object with unstable key order.
type documentEntry struct {
	PhotoID string
	Clips   []models.AudioClip
}

// MarshalJSON encodes the entry as ["photoId", [clip, ...]].
func (e documentEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{e.PhotoID, e.Clips})
}

// encodeDocument serializes the full association document.
func encodeDocument(entries []documentEntry) ([]byte, error) {
	if entries == nil {
		entries = []documentEntry{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return nil, fmt.Errorf("clipstore: encode document: %w", err)
	}
	return data, nil
}

// decodeDocument parses a persisted association document, accepting both
// the current schema (photoId → clip list) and the legacy one (photoId →
// single clip object without an id). Legacy values are wrapped in
// one-element lists with a synthesized id; migrated reports whether any
// entry needed that treatment so the caller can persist the upgraded
// document immediately.
func decodeDocument(data []byte) ([]documentEntry, bool, error) {
	entries, migrated, err := parseDocument(data)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", apperr.ErrCorruptState, err)
	}
	return entries, migrated, nil
}

func parseDocument(data []byte) (entries []documentEntry, migrated bool, err error) {
	var rawEntries []json.RawMessage
	if err := json.Unmarshal(data, &rawEntries); err != nil {
		return nil, false, fmt.Errorf("clipstore: decode document: %w", err)
	}

	entries = make([]documentEntry, 0, len(rawEntries))
	for i, rawEntry := range rawEntries {
		var pair []json.RawMessage
		if err := json.Unmarshal(rawEntry, &pair); err != nil {
			return nil, false, fmt.Errorf("clipstore: decode entry %d: %w", i, err)
		}
		if len(pair) != 2 {
			return nil, false, fmt.Errorf("clipstore: entry %d: expected [photoId, value] pair, got %d elements", i, len(pair))
		}

		var photoID string
		if err := json.Unmarshal(pair[0], &photoID); err != nil {
			return nil, false, fmt.Errorf("clipstore: entry %d: decode photo id: %w", i, err)
		}

		clips, entryMigrated, err := decodeValue(photoID, pair[1])
		if err != nil {
			return nil, false, fmt.Errorf("clipstore: entry %d (%s): %w", i, photoID, err)
		}
		migrated = migrated || entryMigrated

		entries = append(entries, documentEntry{PhotoID: photoID, Clips: clips})
	}
	return entries, migrated, nil
}

// decodeValue resolves the stored value shape: a clip list (current schema)
// or a single clip object (legacy schema).
func decodeValue(photoID string, raw json.RawMessage) ([]models.AudioClip, bool, error) {
	var clips []models.AudioClip
	if err := json.Unmarshal(raw, &clips); err == nil {
		return clips, false, nil
	}

	var legacy models.AudioClip
	if err := json.Unmarshal(raw, &legacy); err != nil {
		return nil, false, fmt.Errorf("decode value: %w", err)
	}
	if legacy.ID == "" {
		legacy.ID = clipid.NewMigrated()
	}
	if legacy.PhotoID == "" {
		legacy.PhotoID = photoID
	}
	return []models.AudioClip{legacy}, true, nil
}
