package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/mcoot/skylandly/internal/dependencies/clock"
	"github.com/mcoot/skylandly/internal/metrics"
	"github.com/mcoot/skylandly/internal/model"
	"github.com/mcoot/skylandly/internal/storage"
)

const (
	// maxAttempts bounds how often a conflicting upsert is re-run
	maxAttempts = 3
	retryDelay  = 10 * time.Millisecond
)

// Ledger records players' daily results and client-computed streaks.
// Upserts for one browser id are serialized in-process; the store guards across processes.
type Ledger struct {
	storage storage.Storage
	clock   clock.Clock
	locks   *keyLocks
	metrics metrics.Metrics
	logger  *slog.Logger
}

// New creates a new Ledger
func New(store storage.Storage, clk clock.Clock, m metrics.Metrics, logger *slog.Logger) *Ledger {
	return &Ledger{
		storage: store,
		clock:   clk,
		locks:   newKeyLocks(),
		metrics: m,
		logger:  logger,
	}
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", model.ErrInvalidInput, fmt.Sprintf(format, args...))
}

func validateUpsert(in model.ResultUpsert) error {
	if in.BrowserID == "" {
		return invalid("browser_id is required")
	}
	if in.GuessCount < 0 {
		return invalid("guess_count must not be negative")
	}
	streaks := map[string]*int{
		"current_streak":     in.Streak.CurrentStreak,
		"highest_streak":     in.Streak.HighestStreak,
		"total_games_played": in.Streak.TotalGamesPlayed,
		"total_wins":         in.Streak.TotalWins,
	}
	for name, v := range streaks {
		if v != nil && *v < 0 {
			return invalid("%s must not be negative", name)
		}
	}
	return nil
}

// UpsertResult creates or overwrites the player's result for a day and applies streak overrides.
// A nil Guesses leaves stored guesses untouched; otherwise they are replaced, skipping empty names.
func (l *Ledger) UpsertResult(ctx context.Context, in model.ResultUpsert) (*model.DailyResult, error) {
	if err := validateUpsert(in); err != nil {
		return nil, err
	}

	date := clock.Today(l.clock)
	if in.Date != "" {
		d, err := model.ParseDate(in.Date)
		if err != nil {
			return nil, err
		}
		date = d
	}

	// An empty last_played_date clears the stored value
	var lastPlayed *model.Date
	if in.Streak.LastPlayedDate != nil && *in.Streak.LastPlayedDate != "" {
		d, err := model.ParseDate(*in.Streak.LastPlayedDate)
		if err != nil {
			return nil, err
		}
		lastPlayed = &d
	}

	key := model.ResultKey{BrowserID: in.BrowserID, Date: date}
	unlock := l.locks.lock(in.BrowserID)
	defer unlock()

	for attempt := 1; ; attempt++ {
		start := time.Now()
		result, created, err := l.apply(ctx, key, in, lastPlayed)
		l.metrics.ObserveStoreDuration("upsert", time.Since(start))

		if err == nil {
			if created {
				l.metrics.IncUpserts(metrics.OutcomeCreated)
			} else {
				l.metrics.IncUpserts(metrics.OutcomeUpdated)
			}
			return result, nil
		}

		if !errors.Is(err, model.ErrStoreConflict) || attempt == maxAttempts {
			l.metrics.IncUpserts(metrics.OutcomeFailed)
			l.logger.Error("failed to upsert result",
				slog.String("browser_id", in.BrowserID),
				slog.String("date", date.String()),
				slog.Int("attempt", attempt),
				slog.String("error", err.Error()),
			)
			return nil, err
		}

		l.metrics.IncStoreConflicts()
		l.logger.Warn("store conflict, retrying upsert",
			slog.String("browser_id", in.BrowserID),
			slog.String("date", date.String()),
			slog.Int("attempt", attempt),
		)

		timer := time.NewTimer(backoff(attempt))
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		}
	}
}

// backoff grows linearly with the attempt and adds up to the same again as jitter,
// so writers in other processes do not retry in lockstep
func backoff(attempt int) time.Duration {
	base := time.Duration(attempt) * retryDelay
	return base + rand.N(base)
}

// apply runs one transactional attempt of an upsert
func (l *Ledger) apply(ctx context.Context, key model.ResultKey, in model.ResultUpsert, lastPlayed *model.Date) (*model.DailyResult, bool, error) {
	var (
		out     *model.DailyResult
		created bool
	)
	now := l.clock.Now().UTC()

	err := l.storage.Update(ctx, key, func(tx storage.Tx) error {
		player, err := tx.Player(ctx)
		switch {
		case errors.Is(err, model.ErrPlayerNotFound):
			player = &model.Player{BrowserID: key.BrowserID, CreatedAt: now}
		case err != nil:
			return err
		}
		player.LastSeen = now
		applyStreak(player, in.Streak, lastPlayed)
		if err := tx.SavePlayer(ctx, player); err != nil {
			return err
		}

		result, err := tx.Result(ctx)
		created = false
		switch {
		case errors.Is(err, model.ErrResultNotFound):
			result = &model.DailyResult{PlayerID: player.ID, Date: key.Date}
			created = true
		case err != nil:
			return err
		}
		result.Won = in.Won
		result.GuessCount = in.GuessCount
		result.SkylanderName = in.SkylanderName
		result.FinishedAt = now
		if err := tx.SaveResult(ctx, result); err != nil {
			return err
		}

		if in.Guesses != nil {
			guesses := filterGuesses(in.Guesses, now)
			if err := tx.ReplaceGuesses(ctx, result, guesses); err != nil {
				return err
			}
			result.Guesses = guesses
		}
		if result.Guesses == nil {
			result.Guesses = []model.Guess{}
		}

		out = result
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return out, created, nil
}

func applyStreak(p *model.Player, s model.StreakFields, lastPlayed *model.Date) {
	if s.CurrentStreak != nil {
		p.CurrentStreak = *s.CurrentStreak
	}
	if s.HighestStreak != nil {
		p.HighestStreak = *s.HighestStreak
	}
	if s.TotalGamesPlayed != nil {
		p.TotalGamesPlayed = *s.TotalGamesPlayed
	}
	if s.TotalWins != nil {
		p.TotalWins = *s.TotalWins
	}
	if s.LastPlayedDate != nil {
		p.LastPlayedDate = lastPlayed
	}
}

// filterGuesses drops empty names; kept guesses retain their submitted position
func filterGuesses(names []string, now time.Time) []model.Guess {
	guesses := make([]model.Guess, 0, len(names))
	for i, name := range names {
		if name == "" {
			continue
		}
		guesses = append(guesses, model.Guess{Index: i, Name: name, CreatedAt: now})
	}
	return guesses
}

// ForgetPlayer deletes a player together with every result and guess
func (l *Ledger) ForgetPlayer(ctx context.Context, browserID string) error {
	if browserID == "" {
		return invalid("browser_id is required")
	}
	if err := l.storage.DeletePlayer(ctx, browserID); err != nil {
		return err
	}
	l.logger.Info("player deleted", slog.String("browser_id", browserID))
	return nil
}
