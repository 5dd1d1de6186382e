// Package config resolves runtime configuration from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds process-wide settings. Flags given on the command line take
// precedence over these values.
type Config struct {
	// DBPath is the SQLite database file. Empty means the default data path.
	DBPath string

	// Addr is the listen address of the HTTP API. Default: 127.0.0.1:8787.
	Addr string

	// DefaultCount is the batch size when a selection gives none. Default: 10.
	DefaultCount int

	// LogLevel is one of debug, info, warn, error. Default: info.
	LogLevel string

	// LogFormat is "text" or "json". Default: text.
	LogFormat string

	// AllowedOrigins are the CORS origins of the browser UI.
	AllowedOrigins []string

	// ShutdownTimeout bounds graceful HTTP shutdown. Default: 10s.
	ShutdownTimeout time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Addr:            "127.0.0.1:8787",
		DefaultCount:    10,
		LogLevel:        "info",
		LogFormat:       "text",
		AllowedOrigins:  []string{"http://localhost:5173"},
		ShutdownTimeout: 10 * time.Second,
	}
}

// Load reads the given .env files into the environment (variables already
// set win) and then builds the Config. With no files, ./.env is loaded if
// present.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load .env: %w", err)
		}
	} else if err := godotenv.Load(envFiles...); err != nil {
		return Config{}, fmt.Errorf("load env files: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from FPDRILL_* environment variables, falling back
// to defaults for unset values.
func FromEnv() (Config, error) {
	cfg := DefaultConfig()

	cfg.DBPath = os.Getenv("FPDRILL_DB")
	if v := os.Getenv("FPDRILL_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("FPDRILL_DEFAULT_COUNT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("FPDRILL_DEFAULT_COUNT=%q: %w", v, err)
		}
		cfg.DefaultCount = n
	}
	if v := os.Getenv("FPDRILL_LOG_LEVEL"); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v := os.Getenv("FPDRILL_LOG_FORMAT"); v != "" {
		cfg.LogFormat = strings.ToLower(v)
	}
	if v := os.Getenv("FPDRILL_ALLOWED_ORIGINS"); v != "" {
		cfg.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("FPDRILL_SHUTDOWN_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("FPDRILL_SHUTDOWN_TIMEOUT=%q is not a valid duration: %w", v, err)
		}
		cfg.ShutdownTimeout = d
	}

	return cfg, cfg.Validate()
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.DefaultCount <= 0 {
		return fmt.Errorf("default count must be positive, got %d", c.DefaultCount)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.LogFormat)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown timeout must be positive, got %s", c.ShutdownTimeout)
	}
	return nil
}

// ParseLevel maps a level name to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("unknown log level %q", s)
	}
	return l, nil
}

// NewLogger builds the process logger writing to w.
func (c Config) NewLogger(w io.Writer) *slog.Logger {
	level, err := ParseLevel(c.LogLevel)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
