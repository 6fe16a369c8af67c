package testutil

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mcoot/skylandly/internal/model"
	"github.com/mcoot/skylandly/internal/services/catalog"
)

// NopLogger returns a logger that discards all output.
// Use this in tests to avoid log noise.
func NopLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

var (
	Spyro        = model.Skylander{Name: "Spyro", Element: "Magic", Gender: "Male", Game: "Spyro's Adventure", Species: "Dragon"}
	GillGrunt    = model.Skylander{Name: "Gill Grunt", Element: "Water", Gender: "Male", Game: "Spyro's Adventure", Species: "Gillman"}
	TriggerHappy = model.Skylander{Name: "Trigger Happy", Element: "Tech", Gender: "Male", Game: "Spyro's Adventure", Species: "Gremlin"}
	StealthElf   = model.Skylander{Name: "Stealth Elf", Element: "Life", Gender: "Female", Game: "Spyro's Adventure", Species: "Elf"}
	Eruptor      = model.Skylander{Name: "Eruptor", Element: "Fire", Gender: "Male", Game: "Spyro's Adventure", Species: "Lava Monster"}
)

// Catalog returns a catalog of the given entities, failing the test on error
func Catalog(t testing.TB, entities ...model.Skylander) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New(entities)
	require.NoError(t, err)
	return c
}

// StarterCatalog returns the five fixture Skylanders in a fixed load order
func StarterCatalog(t testing.TB) *catalog.Catalog {
	return Catalog(t, Spyro, GillGrunt, TriggerHappy, StealthElf, Eruptor)
}

// Date parses a YYYY-MM-DD date, failing the test on error
func Date(t testing.TB, s string) model.Date {
	t.Helper()
	d, err := model.ParseDate(s)
	require.NoError(t, err)
	return d
}

// Ptr returns a pointer to v
func Ptr[T any](v T) *T {
	return &v
}
