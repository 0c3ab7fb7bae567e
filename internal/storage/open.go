package storage

import (
	"context"
	"errors"
	"strings"

	"recallbot/internal/recall"
	logx "recallbot/pkg/logx"
)

// Store is the snapshot persistence API.
//
// LoadSnapshot recovers a missing or corrupt snapshot as an empty slice
// with a nil error; a failed load must never abort a run.
type Store interface {
	LoadSnapshot(ctx context.Context) ([]recall.Record, error)
	SaveSnapshot(ctx context.Context, records []recall.Record) error
	Close() error
}

// Open initializes the configured store.
// It returns (nil, nil) if storage is disabled.
func Open(cfg Config, log logx.Logger) (Store, error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))
	if driver == "" || driver == "none" {
		return nil, nil
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	if cfg.SnapshotLimit <= 0 {
		cfg.SnapshotLimit = DefaultSnapshotLimit
	}

	switch driver {
	case "file":
		return openFile(cfg, log)
	case "sqlite", "sqlite3":
		return openSQLite(cfg, log)
	default:
		return nil, errors.New("unknown storage driver: " + driver)
	}
}

func capSnapshot(records []recall.Record, limit int) []recall.Record {
	if limit > 0 && len(records) > limit {
		return records[:limit]
	}
	return records
}
