// Package config loads operator configuration from a TOML file. Every
// field has a working default so a missing file is not an error: the
// zero configuration runs the server on localhost with file-backed
// persistence.
package config

import (
	"context"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/castdeck/castdeck/pkg/errors"
	"github.com/castdeck/castdeck/pkg/store"
)

// Store backend names accepted in the [store] section.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
	BackendNull   = "null"
)

// Config is the full operator configuration.
type Config struct {
	Listen string      `toml:"listen"`
	Grid   float64     `toml:"grid"`
	Store  StoreConfig `toml:"store"`
}

// StoreConfig selects and parameterizes the persistence backend.
type StoreConfig struct {
	Backend string `toml:"backend"`
	// Dir applies to the file backend only.
	Dir   string            `toml:"dir"`
	Redis store.RedisConfig `toml:"redis"`
	Mongo store.MongoConfig `toml:"mongo"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Listen: "127.0.0.1:8420",
		Grid:   20,
		Store:  StoreConfig{Backend: BackendFile},
	}
}

// DefaultPath returns the conventional config file location,
// ~/.config/castdeck/config.toml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "castdeck", "config.toml")
}

// Load reads and validates a config file. A missing file yields the
// defaults; a present but malformed file is an error, never silently
// half-applied.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config")
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints.
func (c Config) Validate() error {
	if c.Listen == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "listen address must not be empty")
	}
	if c.Grid <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "grid must be positive")
	}
	switch c.Store.Backend {
	case BackendMemory, BackendFile, BackendRedis, BackendMongo, BackendNull:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown store backend %q", c.Store.Backend)
	}
	return nil
}

// OpenStore constructs the key-value store the config selects. The
// context bounds backend connection handshakes.
func (c Config) OpenStore(ctx context.Context) (store.Store, error) {
	switch c.Store.Backend {
	case BackendMemory:
		return store.NewMemoryStore(), nil
	case BackendFile:
		return store.NewFileStore(c.Store.Dir)
	case BackendRedis:
		return store.NewRedisStore(ctx, c.Store.Redis)
	case BackendMongo:
		return store.NewMongoStore(ctx, c.Store.Mongo)
	case BackendNull:
		return store.NewNullStore(), nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown store backend %q", c.Store.Backend)
	}
}
