package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gookit/validate"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. SKYLANDLY_STORAGE_TYPE
const EnvPrefix = "SKYLANDLY"

// Storage backends
const (
	StorageMemory   = "memory"
	StorageRedis    = "redis"
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
	StorageMySQL    = "mysql"
)

// Config is the server configuration
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Log     LogConfig     `mapstructure:"log"`
	Catalog CatalogConfig `mapstructure:"catalog"`
	Storage StorageConfig `mapstructure:"storage"`
	CORS    CORSConfig    `mapstructure:"cors"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Cache   CacheConfig   `mapstructure:"cache"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host" validate:"required"`
	Port            int           `mapstructure:"port" validate:"required|int|min:1|max:65535"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type LogConfig struct {
	Level string `mapstructure:"level" validate:"required|in:debug,info,warn,error"`
}

type CatalogConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

type StorageConfig struct {
	Type        string `mapstructure:"type" validate:"required|in:memory,redis,sqlite,postgres,mysql"`
	RedisURL    string `mapstructure:"redis_url"`
	SQLitePath  string `mapstructure:"sqlite_path"`
	DatabaseURL string `mapstructure:"database_url"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type CacheConfig struct {
	SizeMB int `mapstructure:"size_mb"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("catalog.path", "data/skylanders.json")
	v.SetDefault("storage.type", StorageMemory)
	v.SetDefault("storage.redis_url", "")
	v.SetDefault("storage.sqlite_path", "skylandly.db")
	v.SetDefault("storage.database_url", "")
	v.SetDefault("cors.allowed_origins", []string{"http://localhost:5173"})
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("cache.size_mb", 1)
}

// Load reads configuration from defaults, an optional YAML file and SKYLANDLY_* environment variables,
// in increasing order of precedence
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field rules and storage-specific requirements
func (c *Config) Validate() error {
	for _, section := range []any{&c.Server, &c.Log, &c.Catalog, &c.Storage} {
		v := validate.Struct(section)
		if !v.Validate() {
			return fmt.Errorf("invalid config: %s", v.Errors.One())
		}
	}

	if c.Cache.SizeMB < 0 {
		return errors.New("invalid config: cache.size_mb must not be negative")
	}

	switch c.Storage.Type {
	case StorageRedis:
		if c.Storage.RedisURL == "" {
			return errors.New("invalid config: storage.redis_url required when storage.type is redis")
		}
	case StorageSQLite:
		if c.Storage.SQLitePath == "" {
			return errors.New("invalid config: storage.sqlite_path required when storage.type is sqlite")
		}
	case StoragePostgres, StorageMySQL:
		if c.Storage.DatabaseURL == "" {
			return fmt.Errorf("invalid config: storage.database_url required when storage.type is %s", c.Storage.Type)
		}
	}
	return nil
}

// Addr returns the listen address
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// SlogLevel converts the configured level name
func (c LogConfig) SlogLevel() slog.Level {
	switch strings.ToLower(c.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
