package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"dupereview/internal/catalog"
	"dupereview/internal/config"
	"dupereview/internal/logging"
	"dupereview/internal/review"
	"dupereview/internal/services"
	"dupereview/internal/session"
	"dupereview/internal/sessionstore"
)

type commandContext struct {
	configFlag *string
	verbose    *bool

	configOnce sync.Once
	config     *config.Config
	configPath string
	configSeen bool
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger

	// newCatalog builds the catalog client; tests replace it.
	newCatalog func(cfg *config.Config, logger *slog.Logger) (catalogClient, error)
}

// catalogClient is what commands need from the catalog.
type catalogClient interface {
	catalog.Catalog
	Me(ctx context.Context) (*catalog.Identity, error)
}

func newCommandContext(configFlag *string, verbose *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		verbose:    verbose,
		newCatalog: func(cfg *config.Config, logger *slog.Logger) (catalogClient, error) {
			return catalog.NewFromConfig(cfg, logger)
		},
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, exists, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
		c.configSeen = exists
	})
	return c.config, c.configErr
}

// commandLogger returns the file logger, mirrored to stderr with --verbose.
func (c *commandContext) commandLogger() *slog.Logger {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.logger = logging.NewNop()
			return
		}
		var logger *slog.Logger
		if c.verbose != nil && *c.verbose {
			logger, err = logging.NewFromConfig(cfg)
		} else {
			logger, err = logging.NewFileOnly(cfg)
		}
		if err != nil {
			c.logger = logging.NewNop()
			return
		}
		c.logger = logger
	})
	return c.logger
}

// sessionEnv is everything a command needs to work on the stored session.
type sessionEnv struct {
	cfg     *config.Config
	logger  *slog.Logger
	store   sessionstore.Backend
	manager *session.Manager
	lock    *sessionstore.Lock
}

func (e *sessionEnv) close() {
	if e.store != nil {
		_ = e.store.Close()
	}
	_ = e.lock.Release()
}

// current returns the restored session or a friendly error when none exists.
func (e *sessionEnv) current() (*session.Session, error) {
	s := e.manager.Current()
	if s == nil {
		return nil, services.Wrap(services.ErrPrecondition, "cli", "session",
			"no session loaded; run `dupereview load <file.csv>` first", nil)
	}
	return s, nil
}

// openSession opens the store for the configured session key without reading
// it. Mutating commands hold the session lock until env.close.
func (c *commandContext) openSession(mutate bool) (*sessionEnv, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	env := &sessionEnv{cfg: cfg, logger: c.commandLogger()}
	if mutate {
		lock, err := sessionstore.AcquireLock(cfg.LockPath())
		if err != nil {
			return nil, err
		}
		env.lock = lock
	}
	store, err := sessionstore.Open(cfg)
	if err != nil {
		env.close()
		return nil, err
	}
	env.store = store
	env.manager = session.NewManager(store, cfg.Session.Key, session.WithLogger(env.logger))
	return env, nil
}

// withSession opens the store, restores the session and runs fn.
func (c *commandContext) withSession(cmd *cobra.Command, mutate bool, fn func(ctx context.Context, env *sessionEnv) error) error {
	env, err := c.openSession(mutate)
	if err != nil {
		return err
	}
	defer env.close()

	ctx := commandCtx(cmd)
	if _, err := env.manager.Restore(ctx); err != nil {
		return fmt.Errorf("restore session (run `dupereview clear` to discard it): %w", err)
	}
	if s := env.manager.Current(); s != nil {
		ctx = services.WithSessionID(ctx, s.ID)
	}
	return fn(ctx, env)
}

func commandCtx(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// controller builds a review controller. Offline controllers have no
// catalog client and cannot enrich or submit.
func (c *commandContext) controller(env *sessionEnv, offline bool) (*review.Controller, catalogClient, error) {
	opts := []review.Option{review.WithLogger(env.logger)}
	if offline {
		return review.NewController(env.manager, nil, env.cfg.Catalog.BaseURL, opts...), nil, nil
	}
	client, err := c.newCatalog(env.cfg, env.logger)
	if err != nil {
		return nil, nil, err
	}
	return review.NewController(env.manager, client, env.cfg.Catalog.BaseURL, opts...), client, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
