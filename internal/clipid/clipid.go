// Package clipid generates unique clip identifiers.
package clipid

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MigratedPrefix marks identifiers synthesized during legacy-schema
// migration, distinguishing them from ids minted at creation time.
const MigratedPrefix = "migrated-"

// New returns a fresh clip id: a millisecond timestamp plus a random
// suffix. The timestamp keeps ids roughly time-sortable; the UUID suffix
// makes collisions under rapid successive calls impossible in practice.
func New() string {
	return fmt.Sprintf("clip-%d-%s", time.Now().UnixMilli(), suffix())
}

// NewMigrated returns an id for a legacy record that was persisted
// without one.
func NewMigrated() string {
	return fmt.Sprintf("%s%d-%s", MigratedPrefix, time.Now().UnixMilli(), suffix())
}

// IsMigrated reports whether id was synthesized during migration.
func IsMigrated(id string) bool {
	return strings.HasPrefix(id, MigratedPrefix)
}

func suffix() string {
	u := uuid.New().String()
	return u[:8]
}
