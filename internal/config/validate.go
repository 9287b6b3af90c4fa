package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable. Credentials are not required
// here; commands that talk to the catalog check for them when needed.
func (c *Config) Validate() error {
	if err := c.validateCatalog(); err != nil {
		return err
	}
	if err := c.validateSession(); err != nil {
		return err
	}
	if err := c.validateReview(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateCatalog() error {
	if c.Catalog.BaseURL == "" {
		return errors.New("catalog.base_url must be set")
	}
	for key, value := range map[string]string{
		"catalog.base_url":    c.Catalog.BaseURL,
		"catalog.graphql_url": c.GraphQLEndpoint(),
	} {
		parsed, err := url.Parse(value)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("%s must be an absolute URL, got %q", key, value)
		}
	}
	if c.Catalog.TimeoutSeconds <= 0 {
		return errors.New("catalog.timeout_seconds must be positive")
	}
	if c.Catalog.RequestsPerSecond <= 0 {
		return errors.New("catalog.requests_per_second must be positive")
	}
	if c.Catalog.Burst <= 0 {
		return errors.New("catalog.burst must be positive")
	}
	return nil
}

// RequireCatalogKey reports a helpful error when no catalog API key is set.
func (c *Config) RequireCatalogKey() error {
	if strings.TrimSpace(c.Catalog.APIKey) != "" {
		return nil
	}
	defaultPath, err := DefaultConfigPath()
	if err != nil {
		defaultPath = defaultConfigPath
	}
	return fmt.Errorf("catalog.api_key is required. Set STASHBOX_API_KEY env var or edit %s (create with 'dupereview config init')", defaultPath)
}

func (c *Config) validateSession() error {
	switch c.Session.Backend {
	case BackendSQLite:
	case BackendRedis:
		if c.Session.RedisAddr == "" {
			return errors.New("session.redis_addr must be set when session.backend is redis")
		}
		if c.Session.RedisDB < 0 {
			return errors.New("session.redis_db must be >= 0")
		}
	default:
		return fmt.Errorf("session.backend must be %q or %q, got %q", BackendSQLite, BackendRedis, c.Session.Backend)
	}
	return nil
}

func (c *Config) validateReview() error {
	switch c.Review.DefaultMode {
	case "filtered", "unfiltered":
		return nil
	default:
		return fmt.Errorf("review.default_mode must be filtered or unfiltered, got %q", c.Review.DefaultMode)
	}
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
		return nil
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
}
