// Package history persists accepted commands and per-model usage counters in
// a local SQLite database.
//
// The store must tolerate concurrent CLI invocations racing against the same
// file: WAL journaling plus a busy timeout make single-statement writes safe,
// and multi-statement operations run inside transactions.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/doeshing/chatcmd-go/internal/domain"
	"github.com/doeshing/chatcmd-go/internal/pkg/filesystem"
	"github.com/doeshing/chatcmd-go/internal/ports"
)

// schemaVersion is the current on-disk schema. Version 1 predates model
// provenance; version 2 adds model_id/provider_family columns and the
// usage_stats table.
const schemaVersion = 2

// SQLiteStore implements ports.HistoryRepository and ports.UsageRepository.
type SQLiteStore struct {
	db   *sql.DB
	path string
	mu   sync.Mutex
}

// DefaultPath returns ~/.chatcmd/history.db.
func DefaultPath() string {
	return filepath.Join(filesystem.UserHomeDir(), ".chatcmd", "history.db")
}

// NewSQLiteStore opens (or creates) the database at path and brings the
// schema up to date.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("%w: mkdir: %v", domain.ErrStorage, err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: open: %v", domain.ErrStorage, err)
	}

	store := &SQLiteStore{db: db, path: path}
	if err := store.init(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) init() error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA synchronous=NORMAL;",
	}
	for _, pragma := range pragmas {
		if _, err := s.db.Exec(pragma); err != nil {
			return fmt.Errorf("%w: pragma: %v", domain.ErrStorage, err)
		}
	}
	return s.migrate()
}

// migrate detects the on-disk schema version and applies additive upgrades.
// Existing command and timestamp data is never rewritten.
func (s *SQLiteStore) migrate() error {
	version, err := s.currentVersion()
	if err != nil {
		return err
	}

	if version == 0 {
		// Fresh database: create the latest schema directly.
		if _, err := s.db.Exec(`
			CREATE TABLE IF NOT EXISTS history (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				command TEXT NOT NULL,
				model_id TEXT NOT NULL DEFAULT '',
				provider_family TEXT NOT NULL DEFAULT '',
				created_at INTEGER NOT NULL
			);
			CREATE TABLE IF NOT EXISTS usage_stats (
				model_id TEXT PRIMARY KEY,
				invocation_count INTEGER NOT NULL DEFAULT 0,
				success_count INTEGER NOT NULL DEFAULT 0,
				cumulative_latency_ms INTEGER NOT NULL DEFAULT 0
			);
		`); err != nil {
			return fmt.Errorf("%w: create schema: %v", domain.ErrStorage, err)
		}
		return s.setVersion(schemaVersion)
	}

	if version == 1 {
		// Additive upgrade: provenance columns with backfilled defaults plus
		// the usage table. Older rows keep their command text and timestamps.
		stmts := []string{
			`ALTER TABLE history ADD COLUMN model_id TEXT NOT NULL DEFAULT ''`,
			`ALTER TABLE history ADD COLUMN provider_family TEXT NOT NULL DEFAULT ''`,
			`CREATE TABLE IF NOT EXISTS usage_stats (
				model_id TEXT PRIMARY KEY,
				invocation_count INTEGER NOT NULL DEFAULT 0,
				success_count INTEGER NOT NULL DEFAULT 0,
				cumulative_latency_ms INTEGER NOT NULL DEFAULT 0
			)`,
		}
		for _, stmt := range stmts {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("%w: migrate v1->v2: %v", domain.ErrStorage, err)
			}
		}
		return s.setVersion(schemaVersion)
	}

	if version > schemaVersion {
		return fmt.Errorf("%w: database schema v%d is newer than this build", domain.ErrStorage, version)
	}
	return nil
}

// currentVersion reports the stored schema version: 0 for a fresh database,
// 1 for a legacy database predating the schema_version table.
func (s *SQLiteStore) currentVersion() (int, error) {
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		version INTEGER NOT NULL
	)`); err != nil {
		return 0, fmt.Errorf("%w: schema_version: %v", domain.ErrStorage, err)
	}

	var version int
	err := s.db.QueryRow(`SELECT version FROM schema_version WHERE id = 1`).Scan(&version)
	if err == nil {
		return version, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%w: read version: %v", domain.ErrStorage, err)
	}

	var name string
	err = s.db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name='history'`).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("%w: inspect schema: %v", domain.ErrStorage, err)
	}
	return 1, nil
}

func (s *SQLiteStore) setVersion(version int) error {
	if _, err := s.db.Exec(`INSERT INTO schema_version (id, version) VALUES (1, ?)
		ON CONFLICT(id) DO UPDATE SET version=excluded.version`, version); err != nil {
		return fmt.Errorf("%w: set version: %v", domain.ErrStorage, err)
	}
	return nil
}

// Append inserts one accepted command and returns its assigned id.
// AUTOINCREMENT guarantees ids are never reused, even after deletion.
func (s *SQLiteStore) Append(ctx context.Context, entry domain.HistoryEntry) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO history (command, model_id, provider_family, created_at) VALUES (?, ?, ?, ?)`,
		entry.Command, entry.ModelID, string(entry.Family), createdAt.Unix())
	if err != nil {
		return 0, fmt.Errorf("%w: append: %v", domain.ErrStorage, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%w: append id: %v", domain.ErrStorage, err)
	}
	return id, nil
}

// MostRecent returns up to n entries, newest first.
func (s *SQLiteStore) MostRecent(ctx context.Context, n int) ([]domain.HistoryEntry, error) {
	if n <= 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, command, model_id, provider_family, created_at
		 FROM history ORDER BY id DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("%w: most recent: %v", domain.ErrStorage, err)
	}
	defer rows.Close()

	var entries []domain.HistoryEntry
	for rows.Next() {
		var entry domain.HistoryEntry
		var family string
		var createdAt int64
		if err := rows.Scan(&entry.ID, &entry.Command, &entry.ModelID, &family, &createdAt); err != nil {
			return nil, fmt.Errorf("%w: scan: %v", domain.ErrStorage, err)
		}
		entry.Family = domain.ProviderFamily(family)
		entry.CreatedAt = time.Unix(createdAt, 0)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: rows: %v", domain.ErrStorage, err)
	}
	return entries, nil
}

// DeleteMostRecent removes up to n newest entries and returns the count
// actually deleted. Runs in one transaction so a concurrent Append cannot
// land between selection and deletion.
func (s *SQLiteStore) DeleteMostRecent(ctx context.Context, n int) (int64, error) {
	if n <= 0 {
		return 0, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: begin: %v", domain.ErrStorage, err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`DELETE FROM history WHERE id IN (SELECT id FROM history ORDER BY id DESC LIMIT ?)`, n)
	if err != nil {
		return 0, fmt.Errorf("%w: delete recent: %v", domain.ErrStorage, err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: rows affected: %v", domain.ErrStorage, err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%w: commit: %v", domain.ErrStorage, err)
	}
	return deleted, nil
}

// Count returns the number of stored entries.
func (s *SQLiteStore) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM history`).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: count: %v", domain.ErrStorage, err)
	}
	return count, nil
}

// Clear irreversibly deletes all history entries. Usage counters are kept.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.db.ExecContext(ctx, `DELETE FROM history`); err != nil {
		return fmt.Errorf("%w: clear: %v", domain.ErrStorage, err)
	}
	return nil
}

// SizeBytes reports the on-disk footprint including the WAL sidecar.
func (s *SQLiteStore) SizeBytes() (int64, error) {
	var total int64
	for _, path := range []string{s.path, s.path + "-wal"} {
		info, err := os.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return 0, fmt.Errorf("%w: stat: %v", domain.ErrStorage, err)
		}
		total += info.Size()
	}
	return total, nil
}

// RecordUsage upserts the per-model counters. The single statement is atomic
// under SQLite's locking, so concurrent invocations cannot lose updates.
func (s *SQLiteStore) RecordUsage(ctx context.Context, modelID string, success bool, latencyMS int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	successInc := int64(0)
	if success {
		successInc = 1
	}
	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO usage_stats (model_id, invocation_count, success_count, cumulative_latency_ms)
		VALUES (?, 1, ?, ?)
		ON CONFLICT(model_id) DO UPDATE SET
			invocation_count = invocation_count + 1,
			success_count = success_count + excluded.success_count,
			cumulative_latency_ms = cumulative_latency_ms + excluded.cumulative_latency_ms`,
		modelID, successInc, latencyMS); err != nil {
		return fmt.Errorf("%w: record usage: %v", domain.ErrStorage, err)
	}
	return nil
}

// UsageStats returns a point-in-time snapshot ordered by model id.
func (s *SQLiteStore) UsageStats(ctx context.Context) ([]domain.UsageStat, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT model_id, invocation_count, success_count, cumulative_latency_ms
		 FROM usage_stats ORDER BY model_id`)
	if err != nil {
		return nil, fmt.Errorf("%w: usage stats: %v", domain.ErrStorage, err)
	}
	defer rows.Close()

	var stats []domain.UsageStat
	for rows.Next() {
		var stat domain.UsageStat
		if err := rows.Scan(&stat.ModelID, &stat.Invocations, &stat.Successes, &stat.CumulativeLatencyMS); err != nil {
			return nil, fmt.Errorf("%w: scan: %v", domain.ErrStorage, err)
		}
		stats = append(stats, stat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: rows: %v", domain.ErrStorage, err)
	}
	return stats, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Path returns the database file location.
func (s *SQLiteStore) Path() string {
	return s.path
}

var (
	_ ports.HistoryRepository = (*SQLiteStore)(nil)
	_ ports.UsageRepository   = (*SQLiteStore)(nil)
)
