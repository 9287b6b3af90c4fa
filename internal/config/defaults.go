package config

const (
	defaultConfigPath        = "~/.config/dupereview/config.toml"
	defaultStateDir          = "~/.local/share/dupereview"
	defaultLogDir            = "~/.local/share/dupereview/logs"
	defaultExportDir         = "~/dupereview/exports"
	defaultCatalogBaseURL    = "https://stashdb.org"
	defaultCatalogTimeout    = 30
	defaultRequestsPerSecond = 2.0
	defaultBurst             = 4
	defaultSessionBackend    = BackendSQLite
	defaultSessionKey        = "scenes-compare"
	defaultRedisAddr         = "127.0.0.1:6379"
	defaultReviewMode        = "filtered"
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
)

// Session backends.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir:  defaultStateDir,
			LogDir:    defaultLogDir,
			ExportDir: defaultExportDir,
		},
		Catalog: Catalog{
			BaseURL:           defaultCatalogBaseURL,
			TimeoutSeconds:    defaultCatalogTimeout,
			RequestsPerSecond: defaultRequestsPerSecond,
			Burst:             defaultBurst,
		},
		Session: Session{
			Backend:   defaultSessionBackend,
			Key:       defaultSessionKey,
			RedisAddr: defaultRedisAddr,
		},
		Review: Review{
			DefaultMode: defaultReviewMode,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
