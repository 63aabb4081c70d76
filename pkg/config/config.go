// Package config loads gtreader settings from a TOML file.
//
// The default location is $XDG_CONFIG_HOME/gtreader/config.toml (see
// [os.UserConfigDir]). A missing default file is not an error; every field
// has a default. Two environment variables override the file:
//
//	GTREADER_REDIS_ADDR   sets [cache] redis_addr and selects the redis backend
//	GTREADER_MONGO_URI    sets [catalog] mongo_uri and selects the mongo backend
//
// Example:
//
//	[fetch]
//	max_bytes = 536870912
//	timeout = "2m"
//	retries = 3
//
//	[cache]
//	backend = "file"       # file, redis or none
//	ttl = "168h"
//
//	[catalog]
//	backend = "memory"     # memory, mongo or none
//
//	[server]
//	addr = ":8080"
//
//	[decode]
//	strict = true
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/gtreader/pkg/errors"
)

// Environment overrides.
const (
	EnvRedisAddr = "GTREADER_REDIS_ADDR"
	EnvMongoURI  = "GTREADER_MONGO_URI"
)

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Catalog backends.
const (
	CatalogMemory = "memory"
	CatalogMongo  = "mongo"
	CatalogNone   = "none"
)

// Config is the full settings tree.
type Config struct {
	Fetch   Fetch   `toml:"fetch"`
	Cache   Cache   `toml:"cache"`
	Catalog Catalog `toml:"catalog"`
	Server  Server  `toml:"server"`
	Decode  Decode  `toml:"decode"`
}

// Fetch controls downloads.
type Fetch struct {
	MaxBytes int64         `toml:"max_bytes"`
	Timeout  time.Duration `toml:"timeout"`
	Retries  int           `toml:"retries"`
}

// Cache selects where downloaded payloads are kept.
type Cache struct {
	Backend       string        `toml:"backend"`
	Dir           string        `toml:"dir"`
	TTL           time.Duration `toml:"ttl"`
	RedisAddr     string        `toml:"redis_addr"`
	RedisPassword string        `toml:"redis_password"`
	RedisDB       int           `toml:"redis_db"`
}

// Catalog selects where decode summaries are recorded.
type Catalog struct {
	Backend    string `toml:"backend"`
	MongoURI   string `toml:"mongo_uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// Server configures `gtreader serve`.
type Server struct {
	Addr            string        `toml:"addr"`
	MaxUploadBytes  int64         `toml:"max_upload_bytes"`
	MaxGraphs       int           `toml:"max_graphs"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout"`
}

// Decode holds decoder options.
type Decode struct {
	Strict               bool  `toml:"strict"`
	MaxDecompressedBytes int64 `toml:"max_decompressed_bytes"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Fetch: Fetch{
			MaxBytes: 1 << 30,
			Timeout:  5 * time.Minute,
			Retries:  3,
		},
		Cache: Cache{
			Backend: CacheFile,
			TTL:     7 * 24 * time.Hour,
		},
		Catalog: Catalog{
			Backend:    CatalogMemory,
			Database:   "gtreader",
			Collection: "graphs",
		},
		Server: Server{
			Addr:            ":8080",
			MaxUploadBytes:  256 << 20,
			MaxGraphs:       64,
			ShutdownTimeout: 10 * time.Second,
		},
		Decode: Decode{
			MaxDecompressedBytes: 4 << 30,
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/gtreader/config.toml.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "gtreader", "config.toml"), nil
}

// Load reads path over the defaults and applies environment overrides.
// An empty path means DefaultPath, which may be absent; an explicit path
// must exist. Unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err == nil {
			path = p
		}
	}

	if path != "" {
		md, err := toml.DecodeFile(path, &cfg)
		switch {
		case os.IsNotExist(err) && !explicit:
		case os.IsNotExist(err):
			return Config{}, errors.New(errors.ErrCodeFileNotFound, "config file not found: %s", path)
		case err != nil:
			return Config{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse %s", path)
		default:
			if undecoded := md.Undecoded(); len(undecoded) > 0 {
				return Config{}, errors.New(errors.ErrCodeInvalidFormat,
					"%s: unknown key %q", path, undecoded[0].String())
			}
		}
	}

	cfg.applyEnv(os.Getenv)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	if addr := getenv(EnvRedisAddr); addr != "" {
		c.Cache.RedisAddr = addr
		c.Cache.Backend = CacheRedis
	}
	if uri := getenv(EnvMongoURI); uri != "" {
		c.Catalog.MongoURI = uri
		c.Catalog.Backend = CatalogMongo
	}
}

// Validate checks backend names and the settings each backend needs.
func (c Config) Validate() error {
	switch c.Cache.Backend {
	case CacheFile, CacheNone:
	case CacheRedis:
		if c.Cache.RedisAddr == "" {
			return errors.New(errors.ErrCodeInvalidInput, "cache backend redis needs redis_addr or %s", EnvRedisAddr)
		}
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown cache backend %q", c.Cache.Backend)
	}

	switch c.Catalog.Backend {
	case CatalogMemory, CatalogNone:
	case CatalogMongo:
		if c.Catalog.MongoURI == "" {
			return errors.New(errors.ErrCodeInvalidInput, "catalog backend mongo needs mongo_uri or %s", EnvMongoURI)
		}
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown catalog backend %q", c.Catalog.Backend)
	}

	if c.Fetch.Retries < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "fetch retries must not be negative")
	}
	return nil
}
