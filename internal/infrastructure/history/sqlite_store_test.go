package history

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/doeshing/chatcmd-go/internal/domain"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func appendN(t *testing.T, store *SQLiteStore, commands ...string) []int64 {
	t.Helper()
	ids := make([]int64, 0, len(commands))
	for _, command := range commands {
		id, err := store.Append(context.Background(), domain.HistoryEntry{
			Command: command,
			ModelID: "gpt-3.5-turbo",
			Family:  domain.FamilyOpenAI,
		})
		if err != nil {
			t.Fatalf("Append(%q) error = %v", command, err)
		}
		ids = append(ids, id)
	}
	return ids
}

func TestAppendAssignsIncreasingIDs(t *testing.T) {
	store := newTestStore(t)
	ids := appendN(t, store, "ls", "pwd", "df -h")
	for i := 1; i < len(ids); i++ {
		if ids[i] <= ids[i-1] {
			t.Fatalf("ids not strictly increasing: %v", ids)
		}
	}
}

func TestIDsNeverReusedAfterDeletion(t *testing.T) {
	store := newTestStore(t)
	ids := appendN(t, store, "ls", "pwd")
	if _, err := store.DeleteMostRecent(context.Background(), 2); err != nil {
		t.Fatalf("DeleteMostRecent() error = %v", err)
	}
	next := appendN(t, store, "uptime")
	if next[0] <= ids[1] {
		t.Fatalf("id %d reused after deletion of %v", next[0], ids)
	}
}

func TestMostRecentNewestFirst(t *testing.T) {
	store := newTestStore(t)
	appendN(t, store, "first", "second", "third")

	entries, err := store.MostRecent(context.Background(), 2)
	if err != nil {
		t.Fatalf("MostRecent() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("MostRecent(2) returned %d entries", len(entries))
	}
	if entries[0].Command != "third" || entries[1].Command != "second" {
		t.Errorf("MostRecent order = [%q, %q], want newest first", entries[0].Command, entries[1].Command)
	}
	if entries[0].ModelID != "gpt-3.5-turbo" || entries[0].Family != domain.FamilyOpenAI {
		t.Errorf("provenance not round-tripped: %+v", entries[0])
	}
}

func TestDeleteMostRecentMoreThanAvailable(t *testing.T) {
	store := newTestStore(t)
	appendN(t, store, "a", "b", "c")

	deleted, err := store.DeleteMostRecent(context.Background(), 10)
	if err != nil {
		t.Fatalf("DeleteMostRecent(10) error = %v", err)
	}
	if deleted != 3 {
		t.Errorf("DeleteMostRecent(10) = %d, want 3", deleted)
	}
	count, err := store.Count(context.Background())
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 0 {
		t.Errorf("Count() = %d after full delete, want 0", count)
	}
}

func TestDeleteMostRecentEmptyStore(t *testing.T) {
	store := newTestStore(t)
	deleted, err := store.DeleteMostRecent(context.Background(), 5)
	if err != nil {
		t.Fatalf("DeleteMostRecent() on empty store error = %v", err)
	}
	if deleted != 0 {
		t.Errorf("DeleteMostRecent() = %d on empty store, want 0", deleted)
	}
}

func TestClearAndCount(t *testing.T) {
	store := newTestStore(t)
	appendN(t, store, "x", "y")
	if err := store.Clear(context.Background()); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	count, err := store.Count(context.Background())
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 0 {
		t.Errorf("Count() = %d after Clear, want 0", count)
	}
}

func TestSizeBytesNonZero(t *testing.T) {
	store := newTestStore(t)
	appendN(t, store, "ls -la")
	size, err := store.SizeBytes()
	if err != nil {
		t.Fatalf("SizeBytes() error = %v", err)
	}
	if size <= 0 {
		t.Errorf("SizeBytes() = %d, want > 0", size)
	}
}

func TestUsageCountersMonotonic(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	outcomes := []bool{true, false, true, false, false}
	for _, success := range outcomes {
		if err := store.RecordUsage(ctx, "claude-3-haiku", success, 120); err != nil {
			t.Fatalf("RecordUsage() error = %v", err)
		}
		stats, err := store.UsageStats(ctx)
		if err != nil {
			t.Fatalf("UsageStats() error = %v", err)
		}
		for _, stat := range stats {
			if stat.Successes > stat.Invocations {
				t.Fatalf("success_count %d exceeds invocation_count %d", stat.Successes, stat.Invocations)
			}
		}
	}

	stats, err := store.UsageStats(ctx)
	if err != nil {
		t.Fatalf("UsageStats() error = %v", err)
	}
	if len(stats) != 1 {
		t.Fatalf("UsageStats() returned %d rows, want 1", len(stats))
	}
	stat := stats[0]
	if stat.Invocations != 5 || stat.Successes != 2 {
		t.Errorf("counters = %d/%d, want 5/2", stat.Invocations, stat.Successes)
	}
	if stat.CumulativeLatencyMS != 600 {
		t.Errorf("cumulative latency = %d, want 600", stat.CumulativeLatencyMS)
	}
}

func TestMigratesLegacySchemaAdditively(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	// Build a v1 database by hand: no schema_version table, no provenance
	// columns, no usage_stats.
	legacy, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open legacy db: %v", err)
	}
	if _, err := legacy.Exec(`CREATE TABLE history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		command TEXT NOT NULL,
		created_at INTEGER NOT NULL
	)`); err != nil {
		t.Fatalf("create legacy schema: %v", err)
	}
	if _, err := legacy.Exec(`INSERT INTO history (command, created_at) VALUES ('ls -la', 1700000000)`); err != nil {
		t.Fatalf("seed legacy row: %v", err)
	}
	legacy.Close()

	store, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("NewSQLiteStore() on legacy db error = %v", err)
	}
	defer store.Close()

	entries, err := store.MostRecent(context.Background(), 10)
	if err != nil {
		t.Fatalf("MostRecent() error = %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("legacy row lost in migration: %d entries", len(entries))
	}
	if entries[0].Command != "ls -la" {
		t.Errorf("legacy command rewritten: %q", entries[0].Command)
	}
	if entries[0].CreatedAt.Unix() != 1700000000 {
		t.Errorf("legacy timestamp rewritten: %d", entries[0].CreatedAt.Unix())
	}
	if entries[0].ModelID != "" || entries[0].Family != "" {
		t.Errorf("backfilled defaults wrong: %+v", entries[0])
	}

	// The upgraded database accepts usage writes.
	if err := store.RecordUsage(context.Background(), "gpt-4", true, 50); err != nil {
		t.Fatalf("RecordUsage() after migration error = %v", err)
	}
}
