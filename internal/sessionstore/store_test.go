package sessionstore_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/redis/go-redis/v9"

	"dupereview/internal/config"
	"dupereview/internal/services"
	"dupereview/internal/sessionstore"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	base := t.TempDir()
	cfg.Paths.StateDir = filepath.Join(base, "state")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.ExportDir = filepath.Join(base, "exports")
	return &cfg
}

func exerciseBackend(t *testing.T, backend sessionstore.Backend) {
	t.Helper()
	ctx := context.Background()

	if err := backend.Ping(ctx); err != nil {
		t.Fatalf("Ping failed: %v", err)
	}
	if _, err := backend.Get(ctx, "scenes-compare"); !errors.Is(err, sessionstore.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing key, got %v", err)
	}
	if !errors.Is(sessionstore.ErrNotFound, services.ErrNotFound) {
		t.Fatal("ErrNotFound should carry the services marker")
	}

	if err := backend.Put(ctx, "scenes-compare", []byte(`{"version":1}`)); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := backend.Put(ctx, "scenes-compare", []byte(`{"version":2}`)); err != nil {
		t.Fatalf("second Put failed: %v", err)
	}
	got, err := backend.Get(ctx, "scenes-compare")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != `{"version":2}` {
		t.Fatalf("expected last write to win, got %s", got)
	}

	if err := backend.Delete(ctx, "scenes-compare"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := backend.Get(ctx, "scenes-compare"); !errors.Is(err, sessionstore.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := backend.Delete(ctx, "scenes-compare"); err != nil {
		t.Fatalf("Delete of missing key should succeed: %v", err)
	}
}

func TestSQLiteBackend(t *testing.T) {
	cfg := testConfig(t)
	backend, err := sessionstore.Open(cfg)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { backend.Close() })

	if _, ok := backend.(*sessionstore.SQLite); !ok {
		t.Fatalf("expected SQLite backend by default, got %T", backend)
	}
	exerciseBackend(t, backend)
}

func TestSQLitePersistsAcrossReopen(t *testing.T) {
	cfg := testConfig(t)
	ctx := context.Background()

	first, err := sessionstore.OpenSQLite(cfg)
	if err != nil {
		t.Fatalf("OpenSQLite failed: %v", err)
	}
	if err := first.Put(ctx, "k", []byte("persisted")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	second, err := sessionstore.OpenSQLite(cfg)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	t.Cleanup(func() { second.Close() })
	got, err := second.Get(ctx, "k")
	if err != nil || string(got) != "persisted" {
		t.Fatalf("expected persisted value, got %q, %v", got, err)
	}
	if second.Path() != cfg.SessionDBPath() {
		t.Fatalf("unexpected db path %q", second.Path())
	}
}

func TestMemoryBackend(t *testing.T) {
	exerciseBackend(t, sessionstore.NewMemory())
}

func TestMemoryFailPut(t *testing.T) {
	mem := sessionstore.NewMemory()
	mem.FailPut = errors.New("disk full")
	if err := mem.Put(context.Background(), "k", []byte("v")); err == nil {
		t.Fatal("expected FailPut error")
	}
	if _, err := mem.Get(context.Background(), "k"); !errors.Is(err, sessionstore.ErrNotFound) {
		t.Fatalf("failed Put must not store a value, got %v", err)
	}
}

func TestRedisBackend(t *testing.T) {
	addr := os.Getenv("DUPEREVIEW_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("DUPEREVIEW_TEST_REDIS_ADDR not set")
	}
	cfg := testConfig(t)
	cfg.Session.Backend = config.BackendRedis
	cfg.Session.RedisAddr = addr
	backend, err := sessionstore.Open(cfg)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { backend.Close() })
	exerciseBackend(t, backend)
}

func TestRedisUnreachable(t *testing.T) {
	backend := sessionstore.NewRedis(redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1}))
	t.Cleanup(func() { backend.Close() })

	if err := backend.Ping(context.Background()); err == nil {
		t.Fatal("expected ping error for unreachable server")
	}
	_, err := backend.Get(context.Background(), "k")
	if err == nil || errors.Is(err, sessionstore.ErrNotFound) {
		t.Fatalf("expected connection error distinct from not found, got %v", err)
	}
}

func TestOpenRejectsUnknownBackend(t *testing.T) {
	cfg := testConfig(t)
	cfg.Session.Backend = "etcd"
	if _, err := sessionstore.Open(cfg); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestLockIsExclusive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "dupereview.lock")
	first, err := sessionstore.AcquireLock(path)
	if err != nil {
		t.Fatalf("AcquireLock failed: %v", err)
	}

	if _, err := sessionstore.AcquireLock(path); !errors.Is(err, sessionstore.ErrLocked) {
		t.Fatalf("expected ErrLocked while held, got %v", err)
	}

	if err := first.Release(); err != nil {
		t.Fatalf("Release failed: %v", err)
	}
	second, err := sessionstore.AcquireLock(path)
	if err != nil {
		t.Fatalf("expected lock to be free after release: %v", err)
	}
	_ = second.Release()

	var none *sessionstore.Lock
	if err := none.Release(); err != nil {
		t.Fatalf("nil Release should be a no-op: %v", err)
	}
}
