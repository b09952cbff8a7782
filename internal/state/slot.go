// Package state provides the durable slot the association document is
// persisted to. The slot holds a single opaque document that is rewritten
// whole on every mutation.
package state

// Slot is the interface for durable single-document storage.
type Slot interface {
	// Read returns the stored document. ok is false when nothing has been
	// written yet; that is not an error.
	Read() (data []byte, ok bool, err error)
	// Write replaces the stored document.
	Write(data []byte) error
	// Close releases any underlying resources.
	Close() error
}
