package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// DriverMemory keeps history in process memory.
	DriverMemory = "memory"
	// DriverSQLite keeps history in a SQLite database file.
	DriverSQLite = "sqlite"
)

var (
	// ErrNotFound indicates that no entry exists for the requested id.
	ErrNotFound = errors.New("solve not found")
	// ErrUnknownDriver indicates an unsupported storage driver name.
	ErrUnknownDriver = errors.New("unknown storage driver")
)

// Entry is one recorded solve.
type Entry struct {
	ID        int64
	Strategy  string
	Problem   string
	Solution  string
	Value     uint64
	ItemCount int
	Duration  time.Duration
	CreatedAt time.Time
}

// Storage records solves and serves them back, newest first.
type Storage interface {
	// Record stores entry and returns it with its assigned ID.
	Record(ctx context.Context, entry Entry) (Entry, error)
	Get(ctx context.Context, id int64) (Entry, error)
	// List returns at most limit entries, newest first. A non-positive limit returns all.
	List(ctx context.Context, limit int) ([]Entry, error)
	Close() error
}

// Drivers lists the supported driver names.
func Drivers() []string {
	return []string{DriverMemory, DriverSQLite}
}

// Open constructs the Storage for driver. path is only used by DriverSQLite.
func Open(driver, path string) (Storage, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", DriverMemory:
		return NewMemoryStorage(), nil
	case DriverSQLite:
		store, err := OpenSQLite(path)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
}
