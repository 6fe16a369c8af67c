package game

import (
	"log/slog"

	"github.com/mcoot/skylandly/internal/metrics"
	"github.com/mcoot/skylandly/internal/model"
	"github.com/mcoot/skylandly/internal/services/catalog"
	"github.com/mcoot/skylandly/internal/services/compare"
	"github.com/mcoot/skylandly/internal/services/daily"
)

// Controller answers daily-puzzle requests: the day's answer and guess comparisons
type Controller struct {
	catalog  *catalog.Catalog
	selector *daily.Selector
	metrics  metrics.Metrics
	logger   *slog.Logger
}

// NewController creates a new game Controller
func NewController(
	cat *catalog.Catalog,
	selector *daily.Selector,
	m metrics.Metrics,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		catalog:  cat,
		selector: selector,
		metrics:  m,
		logger:   logger,
	}
}

// Daily returns the answer for dateStr (YYYY-MM-DD), or today's when empty
func (c *Controller) Daily(dateStr string) (model.Skylander, error) {
	return c.selector.SelectString(dateStr)
}

// Guess compares a guessed name against the answer for dateStr
func (c *Controller) Guess(name, dateStr string) (*model.GuessResult, error) {
	if !c.catalog.Exists(name) {
		return nil, model.ErrUnknownEntity
	}

	answer, err := c.selector.SelectString(dateStr)
	if err != nil {
		return nil, err
	}

	report, err := compare.Compare(name, answer, c.catalog)
	if err != nil {
		return nil, err
	}

	result := &model.GuessResult{
		Correct:    catalog.EqualFold(name, answer.Name),
		Comparison: report,
	}
	c.metrics.IncGuesses(result.Correct)

	c.logger.Debug("guess compared",
		slog.String("guess", name),
		slog.Bool("correct", result.Correct),
	)
	return result, nil
}

// Skylanders lists the catalog, optionally filtered by element and gender
func (c *Controller) Skylanders(element, gender string) []model.Skylander {
	var out []model.Skylander
	switch {
	case element != "":
		out = c.catalog.ByElement(element)
	case gender != "":
		out = c.catalog.ByGender(gender)
	default:
		return c.catalog.All()
	}

	if element != "" && gender != "" {
		filtered := out[:0]
		for _, s := range out {
			if catalog.EqualFold(s.Gender, gender) {
				filtered = append(filtered, s)
			}
		}
		out = filtered
	}
	return out
}
