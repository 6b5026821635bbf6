package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zstd"
	_ "modernc.org/sqlite"
)

// SQLiteStorage persists solves in SQLite. Problem text is stored zstd-compressed.
type SQLiteStorage struct {
	db  *sql.DB
	enc *zstd.Encoder
	dec *zstd.Decoder
}

// OpenSQLite opens (creating if needed) the database at path.
func OpenSQLite(path string) (*SQLiteStorage, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		_ = enc.Close()
		_ = db.Close()
		return nil, err
	}

	return &SQLiteStorage{db: db, enc: enc, dec: dec}, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS solves (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			strategy TEXT NOT NULL,
			problem_zst BLOB NOT NULL,
			solution TEXT NOT NULL,
			value INTEGER NOT NULL,
			item_count INTEGER NOT NULL,
			duration_us INTEGER NOT NULL,
			created_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS solves_created_at ON solves(created_at);`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}

// Record inserts entry and returns it with the row id assigned.
func (s *SQLiteStorage) Record(ctx context.Context, entry Entry) (Entry, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO solves(strategy, problem_zst, solution, value, item_count, duration_us, created_at)
		 VALUES(?, ?, ?, ?, ?, ?, ?)`,
		entry.Strategy,
		s.enc.EncodeAll([]byte(entry.Problem), nil),
		entry.Solution,
		int64(entry.Value),
		entry.ItemCount,
		entry.Duration.Microseconds(),
		entry.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return Entry{}, fmt.Errorf("insert solve: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Entry{}, fmt.Errorf("insert solve: %w", err)
	}
	entry.ID = id
	return entry, nil
}

// Get loads one entry by id.
func (s *SQLiteStorage) Get(ctx context.Context, id int64) (Entry, error) {
	row := s.db.QueryRowContext(ctx, selectSolves+` WHERE id = ?`, id)
	entry, err := s.scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, ErrNotFound
	}
	return entry, err
}

// List returns the newest entries first.
func (s *SQLiteStorage) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, selectSolves+` ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list solves: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		entry, err := s.scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, entry)
	}
	return out, rows.Err()
}

// Close releases the database and codec resources.
func (s *SQLiteStorage) Close() error {
	s.dec.Close()
	encErr := s.enc.Close()
	return errors.Join(s.db.Close(), encErr)
}

const selectSolves = `SELECT id, strategy, problem_zst, solution, value, item_count, duration_us, created_at FROM solves`

type scanner interface {
	Scan(dest ...any) error
}

func (s *SQLiteStorage) scan(row scanner) (Entry, error) {
	var (
		entry      Entry
		compressed []byte
		value      int64
		durationUS int64
		createdAt  string
	)
	if err := row.Scan(&entry.ID, &entry.Strategy, &compressed, &entry.Solution, &value, &entry.ItemCount, &durationUS, &createdAt); err != nil {
		return Entry{}, err
	}

	problem, err := s.dec.DecodeAll(compressed, nil)
	if err != nil {
		return Entry{}, fmt.Errorf("decompress problem %d: %w", entry.ID, err)
	}
	ts, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return Entry{}, fmt.Errorf("parse created_at %d: %w", entry.ID, err)
	}

	entry.Problem = string(problem)
	entry.Value = uint64(value)
	entry.Duration = time.Duration(durationUS) * time.Microsecond
	entry.CreatedAt = ts
	return entry, nil
}
