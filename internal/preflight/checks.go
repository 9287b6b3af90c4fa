package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"golang.org/x/sys/unix"

	"dupereview/internal/catalog"
	"dupereview/internal/config"
	"dupereview/internal/sessionstore"
)

// CheckCatalog verifies that the catalog is reachable and accepts the API key.
// It uses a 15-second timeout and a single attempt.
func CheckCatalog(ctx context.Context, cfg *config.Config) Result {
	const name = "Catalog"

	if err := cfg.RequireCatalogKey(); err != nil {
		return Result{Name: name, Detail: "API key missing (set catalog.api_key or STASHBOX_API_KEY)"}
	}
	client, err := catalog.NewFromConfig(cfg, nil)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}

	checkCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	me, err := client.Me(checkCtx)
	if err != nil {
		return Result{Name: name, Detail: summarizeCatalogError(err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (authenticated as %s)", cfg.GraphQLEndpoint(), me.Name)}
}

// CheckSessionStore opens the configured backend and pings it.
func CheckSessionStore(ctx context.Context, cfg *config.Config) Result {
	name := "Session store (" + cfg.Session.Backend + ")"

	store, err := sessionstore.Open(cfg)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	defer store.Close()

	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := store.Ping(checkCtx); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("unreachable (%v)", err)}
	}

	detail := cfg.SessionDBPath()
	if cfg.Session.Backend == config.BackendRedis {
		detail = cfg.Session.RedisAddr
	}
	_, err = store.Get(checkCtx, cfg.Session.Key)
	switch {
	case err == nil:
		detail += " (session stored)"
	case errors.Is(err, sessionstore.ErrNotFound):
		detail += " (empty)"
	default:
		return Result{Name: name, Detail: fmt.Sprintf("read failed (%v)", err)}
	}
	return Result{Name: name, Passed: true, Detail: detail}
}

// CheckLock reports whether another process holds the session lock.
func CheckLock(path string) Result {
	const name = "Session lock"

	lock, err := sessionstore.AcquireLock(path)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	if err := lock.Release(); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("release failed (%v)", err)}
	}
	return Result{Name: name, Passed: true, Detail: path + " (free)"}
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// summarizeCatalogError produces a readable summary for catalog probe failures.
func summarizeCatalogError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "probe timed out (catalog unresponsive)"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "probe timed out (catalog unreachable)"
	}
	var statusErr *catalog.StatusError
	if errors.As(err, &statusErr) {
		switch statusErr.StatusCode {
		case 401, 403:
			return "auth failed (invalid api key)"
		default:
			return fmt.Sprintf("probe failed (%d)", statusErr.StatusCode)
		}
	}
	return err.Error()
}
