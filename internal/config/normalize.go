package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeCatalog()
	c.normalizeSession()
	c.normalizeReview()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.ExportDir) == "" {
		c.Paths.ExportDir = defaultExportDir
	}
	if c.Paths.ExportDir, err = expandPath(c.Paths.ExportDir); err != nil {
		return fmt.Errorf("paths.export_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeCatalog() {
	c.Catalog.BaseURL = strings.TrimRight(strings.TrimSpace(c.Catalog.BaseURL), "/")
	c.Catalog.GraphQLURL = strings.TrimSpace(c.Catalog.GraphQLURL)
	c.Catalog.APIKey = strings.TrimSpace(c.Catalog.APIKey)
	if c.Catalog.APIKey == "" {
		if value, ok := os.LookupEnv("STASHBOX_API_KEY"); ok {
			c.Catalog.APIKey = strings.TrimSpace(value)
		}
	}
}

func (c *Config) normalizeSession() {
	c.Session.Backend = strings.ToLower(strings.TrimSpace(c.Session.Backend))
	if c.Session.Backend == "" {
		c.Session.Backend = defaultSessionBackend
	}
	c.Session.Key = strings.TrimSpace(c.Session.Key)
	if c.Session.Key == "" {
		c.Session.Key = defaultSessionKey
	}
	c.Session.RedisAddr = strings.TrimSpace(c.Session.RedisAddr)
	if c.Session.RedisAddr == "" {
		c.Session.RedisAddr = defaultRedisAddr
	}
	if c.Session.RedisPassword == "" {
		if value, ok := os.LookupEnv("DUPEREVIEW_REDIS_PASSWORD"); ok {
			c.Session.RedisPassword = value
		}
	}
}

func (c *Config) normalizeReview() {
	c.Review.DefaultMode = strings.ToLower(strings.TrimSpace(c.Review.DefaultMode))
	if c.Review.DefaultMode == "" {
		c.Review.DefaultMode = defaultReviewMode
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
