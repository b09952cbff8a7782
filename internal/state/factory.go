package state

import "fmt"

// Supported slot backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Open creates a Slot for the given backend name and path.
func Open(backend, path string) (Slot, error) {
	switch backend {
	case BackendFile:
		return NewFileSlot(path)
	case BackendSQLite:
		return OpenSQLite(path)
	default:
		return nil, fmt.Errorf("state: unknown backend %q", backend)
	}
}
