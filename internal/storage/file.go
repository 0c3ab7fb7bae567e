package storage

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"recallbot/internal/recall"
	logx "recallbot/pkg/logx"
)

// fileStore is a dependency-free persistence backend: one JSON file
// holding the latest snapshot, replaced atomically via tmp + rename so a
// crash mid-write leaves the previous snapshot intact.
type fileStore struct {
	log logx.Logger

	mu    sync.Mutex
	path  string
	limit int
}

type snapshotFile struct {
	SavedAtUnix int64           `json:"saved_at"`
	Records     []recall.Record `json:"records"`
}

func openFile(cfg Config, log logx.Logger) (Store, error) {
	path := strings.TrimSpace(cfg.Path)
	if path == "" {
		return nil, errors.New("storage.path is required for file driver")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	if filepath.Ext(path) == "" {
		path += ".snapshot.json"
	}
	return &fileStore{log: log, path: path, limit: cfg.SnapshotLimit}, nil
}

func (s *fileStore) Close() error { return nil }

func (s *fileStore) LoadSnapshot(ctx context.Context) ([]recall.Record, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := os.ReadFile(s.path)
	if err != nil {
		// Missing snapshot is the normal first-run state.
		if !os.IsNotExist(err) {
			s.log.Warn("snapshot unreadable; starting empty", logx.Err(err), logx.String("path", s.path))
		}
		return nil, nil
	}

	var snap snapshotFile
	if err := json.Unmarshal(b, &snap); err != nil {
		s.log.Warn("snapshot corrupt; starting empty", logx.Err(err), logx.String("path", s.path))
		return nil, nil
	}
	return snap.Records, nil
}

func (s *fileStore) SaveSnapshot(ctx context.Context, records []recall.Record) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := snapshotFile{
		SavedAtUnix: time.Now().Unix(),
		Records:     capSnapshot(records, s.limit),
	}
	b, err := json.Marshal(snap)
	if err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
