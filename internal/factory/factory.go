package factory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/mcoot/skylandly/internal/cache"
	"github.com/mcoot/skylandly/internal/config"
	"github.com/mcoot/skylandly/internal/dependencies/clock"
	"github.com/mcoot/skylandly/internal/dependencies/random"
	"github.com/mcoot/skylandly/internal/metrics"
	"github.com/mcoot/skylandly/internal/services/catalog"
	"github.com/mcoot/skylandly/internal/services/daily"
	"github.com/mcoot/skylandly/internal/services/game"
	"github.com/mcoot/skylandly/internal/services/history"
	"github.com/mcoot/skylandly/internal/services/ledger"
	"github.com/mcoot/skylandly/internal/storage"
	"github.com/mcoot/skylandly/internal/storage/memory"
	redisstorage "github.com/mcoot/skylandly/internal/storage/redis"
	"github.com/mcoot/skylandly/internal/storage/sqlstore"
)

// dailyCacheTTL bounds how long a memoized answer lives; answers never change for a date
const dailyCacheTTL = 48 * 60 * 60

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock   clock.Clock
	Seeder  random.Seeder
	Metrics metrics.Metrics

	// Services
	Catalog        *catalog.Catalog
	Selector       *daily.Selector
	GameController *game.Controller
	Ledger         *ledger.Ledger
	History        *history.Service
}

// Close releases the storage backend
func (a *App) Close() error {
	return a.Storage.Close()
}

// Config holds configuration for the application factory
type Config struct {
	// Catalog is used as-is when set; otherwise it is loaded from CatalogPath
	Catalog     *catalog.Catalog
	CatalogPath string
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// MetricsEnabled selects Prometheus metrics over a no-op recorder
	MetricsEnabled bool
	// CacheSizeMB sizes the daily answer cache; zero disables it
	CacheSizeMB int
	// StorageType selects the storage backend; defaults to memory
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is redis)
	RedisConfig *redisstorage.Config
	// SQLitePath locates the SQLite file (required if StorageType is sqlite)
	SQLitePath string
	// DatabaseURL is the PostgreSQL/MySQL DSN (required for those types)
	DatabaseURL string
}

// FromConfig derives a factory Config from the loaded server configuration
func FromConfig(cfg *config.Config, logger *slog.Logger) Config {
	out := Config{
		CatalogPath:    cfg.Catalog.Path,
		Logger:         logger,
		MetricsEnabled: cfg.Metrics.Enabled,
		CacheSizeMB:    cfg.Cache.SizeMB,
		StorageType:    cfg.Storage.Type,
		SQLitePath:     cfg.Storage.SQLitePath,
		DatabaseURL:    cfg.Storage.DatabaseURL,
	}
	if cfg.Storage.Type == config.StorageRedis {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.Storage.RedisURL
		out.RedisConfig = &redisCfg
	}
	return out
}

// New creates a new application with all dependencies wired
func New(ctx context.Context, cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	cat := cfg.Catalog
	if cat == nil {
		if cfg.CatalogPath == "" {
			return nil, errors.New("catalog or catalog path is required")
		}
		loaded, err := catalog.LoadFile(cfg.CatalogPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load catalog: %w", err)
		}
		cat = loaded
	}
	logger.Info("catalog loaded", slog.Int("skylanders", cat.Len()))

	store, err := openStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}

	// Create external dependencies
	clk := clock.New()
	seeder := random.NewSeeder()
	m := metrics.New(cfg.MetricsEnabled)
	c := cache.New(cfg.CacheSizeMB, dailyCacheTTL, logger)

	return newWithDependencies(cat, store, clk, seeder, c, m, logger), nil
}

func openStorage(ctx context.Context, cfg Config) (storage.Storage, error) {
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = config.StorageMemory
	}

	switch storageType {
	case config.StorageMemory:
		return memory.New(), nil
	case config.StorageRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		return redisStore, nil
	case config.StorageSQLite, config.StoragePostgres, config.StorageMySQL:
		sqlStore, err := sqlstore.Open(ctx, sqlstore.Config{
			Type: storageType,
			Path: cfg.SQLitePath,
			URL:  cfg.DatabaseURL,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to open %s storage: %w", storageType, err)
		}
		return sqlStore, nil
	default:
		return nil, fmt.Errorf("invalid StorageType %q: must be memory, redis, sqlite, postgres or mysql", storageType)
	}
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	cat *catalog.Catalog,
	store storage.Storage,
	clk clock.Clock,
	seeder random.Seeder,
	c cache.Cache,
	m metrics.Metrics,
	logger *slog.Logger,
) *App {
	selector := daily.New(cat, seeder, clk, c, m, logger)
	gameController := game.NewController(cat, selector, m, logger)
	ledgerService := ledger.New(store, clk, m, logger)
	historyService := history.New(store, logger)

	return &App{
		Storage:        store,
		Clock:          clk,
		Seeder:         seeder,
		Metrics:        m,
		Catalog:        cat,
		Selector:       selector,
		GameController: gameController,
		Ledger:         ledgerService,
		History:        historyService,
	}
}
