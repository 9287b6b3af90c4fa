package sessionstore

import (
	"context"
	"fmt"
	"io"

	"dupereview/internal/config"
	"dupereview/internal/services"
)

// ErrNotFound is returned by Get when no value is stored under a key.
var ErrNotFound = fmt.Errorf("%w: no stored session", services.ErrNotFound)

// Backend is a byte-oriented key/value store.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	io.Closer
}

// Open returns the backend selected by cfg.Session.Backend.
func Open(cfg *config.Config) (Backend, error) {
	if cfg == nil {
		return nil, fmt.Errorf("open session store: config is nil")
	}
	switch cfg.Session.Backend {
	case config.BackendSQLite, "":
		return OpenSQLite(cfg)
	case config.BackendRedis:
		return OpenRedis(cfg), nil
	default:
		return nil, services.Wrap(services.ErrConfiguration, "sessionstore", "open",
			fmt.Sprintf("unsupported backend %q", cfg.Session.Backend), nil)
	}
}

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}
