package application

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/n8henrie/knapsack/internal/config"
	"github.com/n8henrie/knapsack/internal/knapsack"
	"github.com/n8henrie/knapsack/internal/storage"
)

func TestNewInitializesDependencies(t *testing.T) {
	cfg := baseTestConfig(":8085")
	logger := zaptest.NewLogger(t)

	app, err := New(cfg, logger)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	t.Cleanup(func() { _ = app.Close() })

	if _, ok := app.storage.(*storage.MemoryStorage); !ok {
		t.Fatalf("expected memory storage, got %T", app.storage)
	}
	if app.server == nil || app.router == nil || app.handler == nil {
		t.Fatalf("expected server, router, and handler to be initialized")
	}
	if app.Server() != app.server {
		t.Fatalf("Server accessor did not return underlying instance")
	}
	if app.server.Addr != ":8085" {
		t.Fatalf("expected address :8085, got %s", app.server.Addr)
	}
}

func TestNewWiresSQLiteStorage(t *testing.T) {
	cfg := baseTestConfig(":0")
	cfg.StorageDriver = storage.DriverSQLite
	cfg.StoragePath = filepath.Join(t.TempDir(), "history", "solves.db")

	app, err := New(cfg, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/solve", strings.NewReader("4 11\n8 4\n10 5\n15 8\n4 3"))
	rec := httptest.NewRecorder()
	app.server.Handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	entries, err := app.storage.List(context.Background(), 0)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(entries) != 1 || entries[0].Value != 19 {
		t.Fatalf("expected one recorded solve with value 19, got %+v", entries)
	}
	if err := app.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
}

func TestNewAppliesSolverConfig(t *testing.T) {
	cfg := baseTestConfig(":0")
	cfg.Strategy = knapsack.StrategySubset
	cfg.SubsetMaxItems = 2

	app, err := New(cfg, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	t.Cleanup(func() { _ = app.Close() })

	req := httptest.NewRequest(http.MethodPost, "/api/solve", strings.NewReader("3 10\n1 1\n1 1\n1 1"))
	rec := httptest.NewRecorder()
	app.server.Handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected max items to reject the problem, got %d", rec.Code)
	}
}

func TestDefaultConfigLeavesSubsetAsFallback(t *testing.T) {
	for _, key := range []string{
		"PORT", "KNAPSACK_STRATEGY", "KNAPSACK_MAX_ITEMS", "KNAPSACK_SUBSET_MAX_ITEMS",
		"STORAGE_DRIVER", "STORAGE_PATH", "LOG_LEVEL", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST",
	} {
		t.Setenv(key, "")
	}
	cfg, err := config.Load(nil)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	app, err := New(cfg, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	t.Cleanup(func() { _ = app.Close() })

	var problem strings.Builder
	problem.WriteString("11 11")
	for range 11 {
		problem.WriteString("\n1 1")
	}

	rec := httptest.NewRecorder()
	app.server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/solve", strings.NewReader(problem.String())))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected permutation strategy to reject 11 items, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "strategy=subset") {
		t.Fatalf("expected suggestion to retry with the subset strategy, got %s", rec.Body.String())
	}

	rec = httptest.NewRecorder()
	app.server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/solve?strategy=subset", strings.NewReader(problem.String())))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected subset strategy to accept 11 items, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Body.String(); got != "11 1\n1 1 1 1 1 1 1 1 1 1 1" {
		t.Fatalf("unexpected solution %q", got)
	}
}

func TestNewReturnsErrorForUnknownStorage(t *testing.T) {
	cfg := baseTestConfig(":0")
	cfg.StorageDriver = "postgres"

	if _, err := New(cfg, zaptest.NewLogger(t)); err == nil {
		t.Fatalf("expected error for unknown storage driver")
	}
}

func TestNewServerAppliesConfig(t *testing.T) {
	cfg := baseTestConfig("9090")
	handler := http.NewServeMux()

	server := NewServer(cfg, handler)
	if server.Addr != ":9090" {
		t.Fatalf("expected address :9090, got %s", server.Addr)
	}
	if server.Handler != handler {
		t.Fatalf("expected handler to be applied")
	}
	if server.ReadHeaderTimeout != cfg.ReadHeaderTimeout ||
		server.WriteTimeout != cfg.WriteTimeout ||
		server.IdleTimeout != cfg.IdleTimeout {
		t.Fatalf("server timeouts do not match configuration")
	}
}

func baseTestConfig(port string) config.Config {
	return config.Config{
		Port:                 port,
		Strategy:             knapsack.StrategyPermutation,
		MaxItems:             10,
		SubsetMaxItems:       20,
		StorageDriver:        storage.DriverMemory,
		ShutdownGracePeriod:  50 * time.Millisecond,
		ReadHeaderTimeout:    20 * time.Millisecond,
		WriteTimeout:         30 * time.Millisecond,
		IdleTimeout:          40 * time.Millisecond,
		EnableRequestLogging: false,
		RateLimitRPS:         0,
		RateLimitBurst:       0,
	}
}
