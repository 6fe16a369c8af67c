package history

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/mcoot/skylandly/internal/model"
	"github.com/mcoot/skylandly/internal/storage"
)

const (
	// DefaultGamesLimit is used when no limit is requested
	DefaultGamesLimit = 30
	// MaxGamesLimit is the largest accepted games limit
	MaxGamesLimit = 365
)

// Service answers read-only questions about a player's history
type Service struct {
	storage storage.Storage
	logger  *slog.Logger
}

// New creates a new history Service
func New(store storage.Storage, logger *slog.Logger) *Service {
	return &Service{
		storage: store,
		logger:  logger,
	}
}

func requireBrowserID(browserID string) error {
	if browserID == "" {
		return fmt.Errorf("%w: browser_id is required", model.ErrInvalidInput)
	}
	return nil
}

// Summary returns the player's streak and totals, all zero for unknown players
func (s *Service) Summary(ctx context.Context, browserID string) (model.Summary, error) {
	if err := requireBrowserID(browserID); err != nil {
		return model.Summary{}, err
	}

	player, err := s.storage.GetPlayer(ctx, browserID)
	if errors.Is(err, model.ErrPlayerNotFound) {
		return model.Summary{}, nil
	}
	if err != nil {
		return model.Summary{}, fmt.Errorf("failed to get player: %w", err)
	}
	return model.SummaryOf(player), nil
}

// Games returns up to limit results, newest first.
// A zero limit means DefaultGamesLimit; anything outside 1..MaxGamesLimit is rejected.
func (s *Service) Games(ctx context.Context, browserID string, limit int) ([]*model.DailyResult, error) {
	if err := requireBrowserID(browserID); err != nil {
		return nil, err
	}
	if limit == 0 {
		limit = DefaultGamesLimit
	}
	if limit < 1 || limit > MaxGamesLimit {
		return nil, fmt.Errorf("%w: limit must be between 1 and %d", model.ErrInvalidInput, MaxGamesLimit)
	}

	results, err := s.storage.ListResults(ctx, browserID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}
	if results == nil {
		results = []*model.DailyResult{}
	}
	return results, nil
}

// AverageGuesses returns the mean guess count rounded to two decimals
func (s *Service) AverageGuesses(ctx context.Context, browserID string) (model.AverageGuesses, error) {
	if err := requireBrowserID(browserID); err != nil {
		return model.AverageGuesses{}, err
	}

	stats, err := s.storage.ResultStats(ctx, browserID)
	if err != nil {
		return model.AverageGuesses{}, fmt.Errorf("failed to get result stats: %w", err)
	}
	if stats.Games == 0 {
		return model.AverageGuesses{}, nil
	}

	avg := float64(stats.TotalGuesses) / float64(stats.Games)
	return model.AverageGuesses{
		Average:    roundTo2(avg),
		TotalGames: stats.Games,
	}, nil
}

// roundTo2 rounds x's exact decimal value to two places, ties to even.
// Scaling by 100 first would round the binary product instead (1/40 would give 0.02).
func roundTo2(x float64) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(x, 'f', 2, 64), 64)
	if err != nil {
		return x
	}
	return r
}
