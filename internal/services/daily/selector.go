package daily

import (
	"log/slog"

	"github.com/mcoot/skylandly/internal/cache"
	"github.com/mcoot/skylandly/internal/dependencies/clock"
	"github.com/mcoot/skylandly/internal/dependencies/random"
	"github.com/mcoot/skylandly/internal/metrics"
	"github.com/mcoot/skylandly/internal/model"
	"github.com/mcoot/skylandly/internal/services/catalog"
)

// Selector picks the answer for a calendar day.
// The answer is a pure function of the date string and the catalog's name order.
type Selector struct {
	catalog *catalog.Catalog
	seeder  random.Seeder
	clock   clock.Clock
	cache   cache.Cache
	metrics metrics.Metrics
	logger  *slog.Logger
}

// New creates a new Selector
func New(cat *catalog.Catalog, seeder random.Seeder, clk clock.Clock, c cache.Cache, m metrics.Metrics, logger *slog.Logger) *Selector {
	return &Selector{
		catalog: cat,
		seeder:  seeder,
		clock:   clk,
		cache:   c,
		metrics: m,
		logger:  logger,
	}
}

func cacheKey(date model.Date) string {
	return "daily:" + date.String()
}

// Select returns the answer for the date
func (s *Selector) Select(date model.Date) (model.Skylander, error) {
	key := cacheKey(date)
	if name, ok := s.cache.Get(key); ok {
		s.metrics.IncCacheHits()
		return s.catalog.Get(string(name))
	}
	s.metrics.IncCacheMisses()

	names := s.catalog.Names()
	if len(names) == 0 {
		return model.Skylander{}, model.ErrEmptyCatalog
	}

	rng := s.seeder.Seed(date.String())
	name := names[rng.Intn(len(names))]
	s.cache.Set(key, []byte(name))

	s.logger.Debug("daily answer selected", slog.String("date", date.String()))
	return s.catalog.Get(name)
}

// SelectString returns the answer for a YYYY-MM-DD date, or for today when dateStr is empty
func (s *Selector) SelectString(dateStr string) (model.Skylander, error) {
	date, err := s.ResolveDate(dateStr)
	if err != nil {
		return model.Skylander{}, err
	}
	return s.Select(date)
}

// Today returns the current UTC day
func (s *Selector) Today() model.Date {
	return clock.Today(s.clock)
}

// ResolveDate parses dateStr, defaulting to today when empty
func (s *Selector) ResolveDate(dateStr string) (model.Date, error) {
	if dateStr == "" {
		return s.Today(), nil
	}
	return model.ParseDate(dateStr)
}
