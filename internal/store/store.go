// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"

	"github.com/verte-zerg/lapwatch/internal/laps"
	"github.com/verte-zerg/lapwatch/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Setting keys.
const (
	KeyTheme = "theme"
)

// Store wraps SQLite access for the lap ledger and UI settings.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "failed to create data dir")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database")
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS laps (
			number INTEGER PRIMARY KEY,
			split_ms INTEGER NOT NULL,
			cumulative_ms INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return errors.Wrap(err, "failed to migrate database")
		}
	}
	return nil
}

// LoadLaps returns the persisted ledger in lap order. Stored rows that do not
// form a valid ledger yield an error wrapping laps.ErrCorruptLedger.
func (s *Store) LoadLaps(ctx context.Context) ([]model.LapRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT number, split_ms, cumulative_ms FROM laps ORDER BY number ASC`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query laps")
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var records []model.LapRecord
	for rows.Next() {
		var r model.LapRecord
		if err := rows.Scan(&r.Number, &r.SplitMs, &r.CumulativeMs); err != nil {
			return nil, errors.Wrap(err, "failed to scan lap")
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read laps")
	}
	ledger, err := laps.Restore(records)
	if err != nil {
		return nil, err
	}
	return ledger.All(), nil
}

// SaveLaps replaces the persisted ledger with records.
func (s *Store) SaveLaps(ctx context.Context, records []model.LapRecord) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM laps`); err != nil {
		return errors.Wrap(err, "failed to clear laps")
	}
	if len(records) > 0 {
		stmt, perr := tx.PrepareContext(ctx,
			`INSERT INTO laps (number, split_ms, cumulative_ms) VALUES (?, ?, ?)`)
		if perr != nil {
			err = perr
			return errors.Wrap(err, "failed to prepare lap insert")
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for _, r := range records {
			if _, err = stmt.ExecContext(ctx, r.Number, r.SplitMs, r.CumulativeMs); err != nil {
				return errors.Wrapf(err, "failed to insert lap %d", r.Number)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit laps")
	}
	return nil
}

// ClearLaps removes every persisted lap.
func (s *Store) ClearLaps(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM laps`); err != nil {
		return errors.Wrap(err, "failed to clear laps")
	}
	return nil
}

// GetSetting returns a stored setting and whether it exists.
func (s *Store) GetSetting(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrapf(err, "failed to read setting %q", key)
	}
	return value, true, nil
}

// PutSetting stores a setting, replacing any previous value.
func (s *Store) PutSetting(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return errors.Wrapf(err, "failed to write setting %q", key)
	}
	return nil
}

// Theme returns the stored theme name, or an empty string when unset.
func (s *Store) Theme(ctx context.Context) (string, error) {
	v, _, err := s.GetSetting(ctx, KeyTheme)
	return v, err
}

// SaveTheme stores the theme name.
func (s *Store) SaveTheme(ctx context.Context, theme string) error {
	return s.PutSetting(ctx, KeyTheme, theme)
}
