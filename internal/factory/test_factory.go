package factory

import (
	"io"
	"log/slog"
	"time"

	"github.com/mcoot/skylandly/internal/cache"
	"github.com/mcoot/skylandly/internal/dependencies/mocks"
	"github.com/mcoot/skylandly/internal/dependencies/random"
	"github.com/mcoot/skylandly/internal/metrics"
	"github.com/mcoot/skylandly/internal/services/catalog"
	"github.com/mcoot/skylandly/internal/storage/memory"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock *mocks.MockClock
}

// NewTestApp creates an App over cat with in-memory storage and a mocked clock.
// The real seeded selector is kept so answers match production for a date.
func NewTestApp(cat *catalog.Catalog) *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	app := newWithDependencies(cat, store, mockClock, random.NewSeeder(), cache.Noop{}, metrics.Noop{}, logger)

	return &TestApp{
		App:       app,
		MockClock: mockClock,
	}
}

// NewTestAppWithSeeder is NewTestApp with a scripted answer source
func NewTestAppWithSeeder(cat *catalog.Catalog, seeder *mocks.MockSeeder) *TestApp {
	app := NewTestApp(cat)
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	app.App = newWithDependencies(cat, app.Storage, app.MockClock, seeder, cache.Noop{}, metrics.Noop{}, logger)
	return app
}
