package preflight

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"dupereview/internal/sessionstore"
	"dupereview/internal/testsupport"
)

func catalogServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("ApiKey") != "test" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckCatalog_OK(t *testing.T) {
	srv := catalogServer(t, http.StatusOK, `{"data":{"me":{"id":"u1","name":"reviewer"}}}`)
	cfg := testsupport.NewConfig(t, testsupport.WithCatalogURL(srv.URL))

	result := CheckCatalog(context.Background(), cfg)
	if !result.Passed {
		t.Fatalf("expected pass, got: %s", result.Detail)
	}
	if !strings.Contains(result.Detail, "reviewer") {
		t.Fatalf("expected identity in detail, got %q", result.Detail)
	}
}

func TestCheckCatalog_BadKey(t *testing.T) {
	srv := catalogServer(t, http.StatusOK, `{}`)
	cfg := testsupport.NewConfig(t, testsupport.WithCatalogURL(srv.URL), testsupport.WithCatalogKey("wrong"))

	result := CheckCatalog(context.Background(), cfg)
	if result.Passed {
		t.Fatal("expected failure for bad key")
	}
	if !strings.Contains(result.Detail, "invalid api key") {
		t.Fatalf("unexpected detail %q", result.Detail)
	}
}

func TestCheckCatalog_MissingKey(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithCatalogKey(""))
	result := CheckCatalog(context.Background(), cfg)
	if result.Passed {
		t.Fatal("expected failure for missing key")
	}
}

func TestCheckSessionStore_SQLite(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	result := CheckSessionStore(context.Background(), cfg)
	if !result.Passed {
		t.Fatalf("expected pass, got: %s", result.Detail)
	}
	if !strings.HasSuffix(result.Detail, "(empty)") {
		t.Fatalf("expected empty store, got %q", result.Detail)
	}
}

func TestCheckSessionStore_ReportsStoredSession(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	if err := store.Put(context.Background(), cfg.Session.Key, []byte(`{"version":1}`)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	result := CheckSessionStore(context.Background(), cfg)
	if !result.Passed || !strings.HasSuffix(result.Detail, "(session stored)") {
		t.Fatalf("expected stored session, got %+v", result)
	}
}

func TestCheckSessionStore_RedisUnreachable(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithRedis("127.0.0.1:1"))
	result := CheckSessionStore(context.Background(), cfg)
	if result.Passed {
		t.Fatalf("expected failure for unreachable redis, got %+v", result)
	}
	if !strings.Contains(result.Name, "redis") {
		t.Fatalf("expected backend in check name, got %q", result.Name)
	}
}

func TestCheckSessionStore_UnknownBackend(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Session.Backend = "etcd"
	if result := CheckSessionStore(context.Background(), cfg); result.Passed {
		t.Fatal("expected failure for unknown backend")
	}
}

func TestCheckLock(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if result := CheckLock(cfg.LockPath()); !result.Passed {
		t.Fatalf("expected free lock, got: %s", result.Detail)
	}

	held, err := sessionstore.AcquireLock(cfg.LockPath())
	if err != nil {
		t.Fatalf("AcquireLock: %v", err)
	}
	defer held.Release()
	if result := CheckLock(cfg.LockPath()); result.Passed {
		t.Fatal("expected failure while another holder has the lock")
	}
}

func TestRunAll_NilConfig(t *testing.T) {
	results := RunAll(context.Background(), nil)
	if results != nil {
		t.Fatal("expected nil results for nil config")
	}
}

func TestRunAll_AllPass(t *testing.T) {
	srv := catalogServer(t, http.StatusOK, `{"data":{"me":{"id":"u1","name":"reviewer"}}}`)
	cfg := testsupport.NewConfig(t, testsupport.WithCatalogURL(srv.URL))

	results := RunAll(context.Background(), cfg)
	if len(results) != 6 {
		t.Fatalf("expected 6 results, got %d", len(results))
	}
	for _, r := range results {
		if !r.Passed {
			t.Errorf("check %q failed: %s", r.Name, r.Detail)
		}
	}
	if Failed(results) {
		t.Fatal("Failed reported a failure")
	}
}

func TestRunAll_ReportsMissingDirectory(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithCatalogKey(""))
	cfg.Paths.ExportDir = filepath.Join(testsupport.BaseDir(cfg), "missing")
	results := RunAll(context.Background(), cfg)
	if !Failed(results) {
		t.Fatal("expected a failing check")
	}
}
