package storage

import (
	"errors"
	"time"
)

var ErrDisabled = errors.New("storage disabled")

// Config configures the snapshot store.
//
// Driver values:
//   - "file": single JSON file, written atomically
//   - "sqlite": SQLite database file (optional build tag)
//
// If Driver is empty or "none", storage is disabled and every run sees an
// empty prior snapshot.
type Config struct {
	Driver string
	Path   string
	// SnapshotLimit bounds how many records a save keeps (0 means default).
	SnapshotLimit int
	BusyTimeout   time.Duration // sqlite only; 0 means default
}

// DefaultSnapshotLimit bounds the snapshot when the config doesn't.
const DefaultSnapshotLimit = 50
