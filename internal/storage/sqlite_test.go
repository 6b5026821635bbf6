package storage

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

func openTestSQLite(t *testing.T) (*SQLiteStorage, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "nested", "history.db")
	store, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store, path
}

func TestSQLiteStorage_RecordAndGet(t *testing.T) {
	store, _ := openTestSQLite(t)
	ctx := context.Background()

	want := sampleEntry(19)
	recorded, err := store.Record(ctx, want)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if recorded.ID != 1 {
		t.Fatalf("expected id 1, got %d", recorded.ID)
	}

	got, err := store.Get(ctx, recorded.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Problem != want.Problem || got.Solution != want.Solution || got.Strategy != want.Strategy {
		t.Fatalf("text mismatch: %+v", got)
	}
	if got.Value != 19 || got.ItemCount != 4 || got.Duration != want.Duration {
		t.Fatalf("field mismatch: %+v", got)
	}
	if !got.CreatedAt.Equal(want.CreatedAt) {
		t.Fatalf("expected created_at %s, got %s", want.CreatedAt, got.CreatedAt)
	}
}

func TestSQLiteStorage_ProblemIsCompressed(t *testing.T) {
	store, path := openTestSQLite(t)
	if _, err := store.Record(context.Background(), sampleEntry(19)); err != nil {
		t.Fatalf("Record: %v", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	defer db.Close()

	var blob []byte
	if err := db.QueryRow(`SELECT problem_zst FROM solves WHERE id=1`).Scan(&blob); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if string(blob) == sampleEntry(19).Problem {
		t.Fatalf("expected compressed problem text")
	}
	// zstd frame magic number
	if len(blob) < 4 || blob[0] != 0x28 || blob[1] != 0xb5 || blob[2] != 0x2f || blob[3] != 0xfd {
		t.Fatalf("expected zstd frame, got % x", blob[:min(4, len(blob))])
	}
}

func TestSQLiteStorage_ListAndMissing(t *testing.T) {
	store, _ := openTestSQLite(t)
	ctx := context.Background()

	for i := 1; i <= 4; i++ {
		if _, err := store.Record(ctx, sampleEntry(uint64(i))); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	got, err := store.List(ctx, 2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 || got[0].ID != 4 || got[1].ID != 3 {
		t.Fatalf("unexpected list: %+v", got)
	}

	all, err := store.List(ctx, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(all))
	}

	if _, err := store.Get(ctx, 99); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSQLiteStorage_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	store, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	if _, err := store.Record(context.Background(), sampleEntry(7)); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.Get(context.Background(), 1)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Value != 7 {
		t.Fatalf("expected value 7, got %d", got.Value)
	}
}
