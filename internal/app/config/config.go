package config

import (
	"log/slog"
	"time"

	"github.com/monotours24/tour-search-service/internal/pkg/logger"
)

type LogLeveler string

func (l LogLeveler) Level() slog.Level {
	var level slog.Level

	_ = level.UnmarshalText([]byte(l))

	return level
}

// Config holds the server configuration.
type Config struct {
	LogLevel  LogLeveler    `mapstructure:"LOG_LEVEL"`
	LogFormat logger.Format `mapstructure:"LOG_FORMAT"`
	HTTP      HTTP          `mapstructure:",squash"`
	Redis     Redis         `mapstructure:",squash"`
	Admin     Admin         `mapstructure:",squash"`
	Upstream  Upstream      `mapstructure:",squash"`
	Search    Search        `mapstructure:",squash"`
	HotTours  HotTours      `mapstructure:",squash"`
}

type HTTP struct {
	Port               int           `mapstructure:"HTTP_PORT"`
	Timeout            time.Duration `mapstructure:"HTTP_TIMEOUT"`
	CORSAllowedOrigins []string      `mapstructure:"CORS_ALLOWED_ORIGINS"`
}

type Redis struct {
	Addr     string        `mapstructure:"REDIS_ADDR"`
	Password string        `mapstructure:"REDIS_PASSWORD"`
	DB       int           `mapstructure:"REDIS_DB"`
	Timeout  time.Duration `mapstructure:"REDIS_TIMEOUT"`
}

// Admin guards the admin routes and locates the stored api config.
type Admin struct {
	Secret        string `mapstructure:"ADMIN_SECRET"`
	APIConfigPath string `mapstructure:"API_CONFIG_PATH"`
}

// Upstream holds the tours API client settings. Credentials live in the
// api config file, not here.
type Upstream struct {
	Timeout      time.Duration `mapstructure:"UPSTREAM_TIMEOUT"`
	ProbeTimeout time.Duration `mapstructure:"UPSTREAM_PROBE_TIMEOUT"`
	PollDelay    time.Duration `mapstructure:"UPSTREAM_POLL_DELAY"`
	RateLimitRPS int           `mapstructure:"UPSTREAM_RATE_LIMIT"`
	UserAgent    string        `mapstructure:"UPSTREAM_USER_AGENT"`
}

type Search struct {
	MaxPolls         int           `mapstructure:"SEARCH_MAX_POLLS"`
	TargetResults    int           `mapstructure:"SEARCH_TARGET_RESULTS"`
	CacheExpiration  time.Duration `mapstructure:"SEARCH_CACHE_EXPIRATION"`
	CacheLockTimeout time.Duration `mapstructure:"CACHE_LOCK_TIMEOUT"`
}

type HotTours struct {
	MaxPolls        int           `mapstructure:"HOT_TOURS_MAX_POLLS"`
	TargetResults   int           `mapstructure:"HOT_TOURS_TARGET_RESULTS"`
	Limit           int           `mapstructure:"HOT_TOURS_LIMIT"`
	CacheExpiration time.Duration `mapstructure:"HOT_TOURS_CACHE_EXPIRATION"`
}
