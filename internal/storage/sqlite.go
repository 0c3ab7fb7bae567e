//go:build sqlite
// +build sqlite

package storage

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"recallbot/internal/recall"
	logx "recallbot/pkg/logx"
)

//go:embed migrations.sql
var migrationsFS embed.FS

type sqliteStore struct {
	db    *sql.DB
	log   logx.Logger
	limit int
}

func openSQLite(cfg Config, log logx.Logger) (Store, error) {
	if strings.TrimSpace(cfg.Path) == "" {
		return nil, errors.New("sqlite path is required")
	}
	path := cfg.Path
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// SQLite prefers a small number of concurrent writers.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	st := &sqliteStore{db: db, log: log, limit: cfg.SnapshotLimit}

	// Basic pragmas.
	if cfg.BusyTimeout > 0 {
		ms := cfg.BusyTimeout.Milliseconds()
		_, _ = db.Exec(fmt.Sprintf("PRAGMA busy_timeout = %d", ms))
	}
	_, _ = db.Exec("PRAGMA journal_mode = WAL")
	_, _ = db.Exec("PRAGMA synchronous = NORMAL")

	if err := st.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return st, nil
}

func (s *sqliteStore) migrate(ctx context.Context) error {
	b, err := migrationsFS.ReadFile("migrations.sql")
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, string(b))
	return err
}

func (s *sqliteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *sqliteStore) LoadSnapshot(ctx context.Context) ([]recall.Record, error) {
	if s == nil || s.db == nil {
		return nil, ErrDisabled
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT record FROM snapshot ORDER BY pos ASC`)
	if err != nil {
		s.log.Warn("snapshot query failed; starting empty", logx.Err(err))
		return nil, nil
	}
	defer rows.Close()

	var out []recall.Record
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			s.log.Warn("snapshot row unreadable; starting empty", logx.Err(err))
			return nil, nil
		}
		var r recall.Record
		if err := json.Unmarshal([]byte(raw), &r); err != nil {
			s.log.Warn("snapshot record corrupt; starting empty", logx.Err(err))
			return nil, nil
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		s.log.Warn("snapshot read failed; starting empty", logx.Err(err))
		return nil, nil
	}
	return out, nil
}

func (s *sqliteStore) SaveSnapshot(ctx context.Context, records []recall.Record) error {
	if s == nil || s.db == nil {
		return ErrDisabled
	}
	records = capSnapshot(records, s.limit)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM snapshot`); err != nil {
		return err
	}
	now := time.Now().Format(time.RFC3339)
	for i, r := range records {
		b, err := json.Marshal(r)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO snapshot(pos, record, saved_at) VALUES(?,?,?)`,
			i, string(b), now,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}
