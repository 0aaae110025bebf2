// Package config loads ledger settings from viper, which merges the config
// file, LEDGER_* environment variables, and command line flags.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/Veraticus/emoji-ledger/internal/common"
	"github.com/Veraticus/emoji-ledger/internal/storage"
)

// EnvPrefix is prepended to every environment override.
const EnvPrefix = "LEDGER"

// Config holds every setting the CLI needs.
type Config struct {
	Storage StorageConfig
	Export  ExportConfig
	Logging LoggingConfig
	Persist PersistConfig
}

// StorageConfig selects the durable backend.
type StorageConfig struct {
	Backend string
	Path    string
	Dir     string
	Key     string
}

// PersistConfig tunes how snapshots are written.
type PersistConfig struct {
	Debounce      time.Duration
	RetryAttempts int
}

// ExportConfig controls backup files.
type ExportConfig struct {
	Prefix string
	Dir    string
}

// LoggingConfig controls slog output.
type LoggingConfig struct {
	Level  string
	Format string
}

// SetDefaults registers default values and environment binding on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("storage.backend", storage.BackendSQLite)
	v.SetDefault("storage.path", "$HOME/.local/share/ledger/ledger.db")
	v.SetDefault("storage.dir", "$HOME/.local/share/ledger/data")
	v.SetDefault("storage.key", "emoji-finance-data")
	v.SetDefault("persist.debounce", time.Second)
	v.SetDefault("persist.retry_attempts", 3)
	v.SetDefault("export.prefix", "emoji-finance")
	v.SetDefault("export.dir", ".")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load reads and validates the configuration held by v.
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		Storage: StorageConfig{
			Backend: strings.ToLower(v.GetString("storage.backend")),
			Path:    ExpandPath(v.GetString("storage.path")),
			Dir:     ExpandPath(v.GetString("storage.dir")),
			Key:     v.GetString("storage.key"),
		},
		Persist: PersistConfig{
			Debounce:      v.GetDuration("persist.debounce"),
			RetryAttempts: v.GetInt("persist.retry_attempts"),
		},
		Export: ExportConfig{
			Prefix: v.GetString("export.prefix"),
			Dir:    ExpandPath(v.GetString("export.dir")),
		},
		Logging: LoggingConfig{
			Level:  strings.ToLower(v.GetString("logging.level")),
			Format: strings.ToLower(v.GetString("logging.format")),
		},
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that every setting is usable.
func (c Config) Validate() error {
	if !slices.Contains(storage.Backends, c.Storage.Backend) {
		return fmt.Errorf("%w: storage.backend %q (want one of %v)", common.ErrInvalidConfig, c.Storage.Backend, storage.Backends)
	}
	if c.Storage.Backend == storage.BackendSQLite && c.Storage.Path == "" {
		return fmt.Errorf("%w: storage.path", common.ErrMissingConfig)
	}
	if c.Storage.Backend == storage.BackendJSONFile && c.Storage.Dir == "" {
		return fmt.Errorf("%w: storage.dir", common.ErrMissingConfig)
	}
	if strings.TrimSpace(c.Storage.Key) == "" {
		return fmt.Errorf("%w: storage.key", common.ErrMissingConfig)
	}
	if c.Persist.Debounce <= 0 {
		return fmt.Errorf("%w: persist.debounce must be positive", common.ErrInvalidConfig)
	}
	if c.Persist.RetryAttempts < 1 {
		return fmt.Errorf("%w: persist.retry_attempts must be at least 1", common.ErrInvalidConfig)
	}
	if _, err := common.ParseLevel(c.Logging.Level); err != nil {
		return err
	}
	if c.Logging.Format != "console" && c.Logging.Format != "json" {
		return fmt.Errorf("%w: logging.format %q", common.ErrInvalidConfig, c.Logging.Format)
	}
	return nil
}

// StorageOptions converts the storage settings for storage.Open.
func (c Config) StorageOptions() storage.Options {
	return storage.Options{
		Backend: c.Storage.Backend,
		Path:    c.Storage.Path,
		Dir:     c.Storage.Dir,
	}
}

// RetryOptions returns the write retry policy.
func (c Config) RetryOptions() common.RetryOptions {
	opts := common.DefaultRetryOptions()
	opts.MaxAttempts = c.Persist.RetryAttempts
	return opts
}

// LoadDotEnv loads KEY=value pairs from the given files into the process
// environment without overriding variables that are already set. Missing
// files are ignored.
func LoadDotEnv(files ...string) error {
	for _, file := range files {
		if err := godotenv.Load(file); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", file, err)
		}
	}
	return nil
}
