// Package config loads the service configuration.
//
// Sources, lowest priority first: built-in defaults, config.yaml, .env, and
// process environment variables prefixed with INVENTORY_. Environment keys map
// onto dotted paths with underscores as separators, matched case-insensitively:
// INVENTORY_SERVER_PORT sets server.port and INVENTORY_POOL_BACKLOGTIMEOUT sets
// pool.backlogTimeout.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	EnvPrefix = "INVENTORY_"

	DefaultConfigFile = "config.yaml"
	DefaultEnvFile    = ".env"
)

type Config struct {
	Server struct {
		Port              int           `koanf:"port" validate:"min=1,max=65535"`
		ReadHeaderTimeout time.Duration `koanf:"readHeaderTimeout" validate:"gt=0"`
		ShutdownTimeout   time.Duration `koanf:"shutdownTimeout" validate:"gt=0"`
	} `koanf:"server"`

	Pool struct {
		Workers        int           `koanf:"workers" validate:"min=1"`
		Backlog        int           `koanf:"backlog" validate:"min=0"`
		BacklogTimeout time.Duration `koanf:"backlogTimeout" validate:"gt=0"`
	} `koanf:"pool"`

	Log struct {
		Level string `koanf:"level" validate:"oneof=debug info warn error"`
	} `koanf:"log"`

	Metrics struct {
		Enabled bool   `koanf:"enabled"`
		Token   string `koanf:"token"`
	} `koanf:"metrics"`

	Static struct {
		Dir string `koanf:"dir"`
	} `koanf:"static"`

	Store struct {
		Seed bool `koanf:"seed"`
	} `koanf:"store"`

	RateLimit struct {
		MutationsPerMinute int `koanf:"mutationsPerMinute" validate:"min=0"`
	} `koanf:"ratelimit"`
}

func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

func (c Config) String() string {
	token := "<not set>"
	if c.Metrics.Token != "" {
		token = "****"
	}
	return fmt.Sprintf("server.port=%d pool.workers=%d pool.backlog=%d pool.backlogTimeout=%v log.level=%s metrics.enabled=%t metrics.token=%s static.dir=%q store.seed=%t ratelimit.mutationsPerMinute=%d",
		c.Server.Port,
		c.Pool.Workers,
		c.Pool.Backlog,
		c.Pool.BacklogTimeout,
		c.Log.Level,
		c.Metrics.Enabled,
		token,
		c.Static.Dir,
		c.Store.Seed,
		c.RateLimit.MutationsPerMinute)
}

func defaults() map[string]any {
	return map[string]any{
		"server.port":                  8000,
		"server.readHeaderTimeout":     "5s",
		"server.shutdownTimeout":       "10s",
		"pool.workers":                 5,
		"pool.backlog":                 64,
		"pool.backlogTimeout":          "30s",
		"log.level":                    "info",
		"metrics.enabled":              true,
		"metrics.token":                "",
		"static.dir":                   "",
		"store.seed":                   true,
		"ratelimit.mutationsPerMinute": 0,
	}
}

// Load reads configuration from the default file locations.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigFile, DefaultEnvFile)
}

// LoadFrom is Load with explicit file paths. Missing files are skipped.
func LoadFrom(configFile, envFile string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if configFile != "" {
		if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", configFile, err)
		}
	}

	if envFile != "" {
		vars, err := godotenv.Read(envFile)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read %s: %w", envFile, err)
		}
		m := make(map[string]any, len(vars))
		for key, v := range vars {
			if path, ok := envKey(key); ok {
				m[path] = v
			}
		}
		if err := k.Load(confmap.Provider(m, "."), nil); err != nil {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envPath), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func envPath(key string) string {
	path, _ := envKey(key)
	return path
}

// envKey maps INVENTORY_POOL_BACKLOGTIMEOUT to pool.backlogTimeout. Unknown
// keys fall through lower-cased.
func envKey(key string) (string, bool) {
	rest, ok := strings.CutPrefix(strings.ToUpper(key), EnvPrefix)
	if !ok || rest == "" {
		return "", false
	}

	want := strings.ReplaceAll(strings.ToLower(rest), "_", ".")
	for path := range defaults() {
		if strings.ToLower(path) == want {
			return path, true
		}
	}
	return want, true
}
