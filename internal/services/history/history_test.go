package history

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/skylandly/internal/dependencies/mocks"
	"github.com/mcoot/skylandly/internal/metrics"
	"github.com/mcoot/skylandly/internal/model"
	"github.com/mcoot/skylandly/internal/services/ledger"
	"github.com/mcoot/skylandly/internal/storage/memory"
	"github.com/mcoot/skylandly/internal/testutil"
)

type HistorySuite struct {
	suite.Suite
	ctx     context.Context
	store   *memory.Storage
	ledger  *ledger.Ledger
	history *Service
}

func TestHistorySuite(t *testing.T) {
	suite.Run(t, new(HistorySuite))
}

func (s *HistorySuite) SetupTest() {
	s.ctx = context.Background()
	s.store = memory.New()
	clk := mocks.NewMockClock(time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC))
	s.ledger = ledger.New(s.store, clk, metrics.Noop{}, testutil.NopLogger())
	s.history = New(s.store, testutil.NopLogger())
}

func (s *HistorySuite) play(date string, guessCount int, guesses ...string) {
	_, err := s.ledger.UpsertResult(s.ctx, model.ResultUpsert{
		BrowserID:  "browser-1",
		Date:       date,
		Won:        true,
		GuessCount: guessCount,
		Guesses:    guesses,
	})
	s.Require().NoError(err)
}

func (s *HistorySuite) TestSummaryUnknownPlayerIsZero() {
	summary, err := s.history.Summary(s.ctx, "nobody")
	s.Require().NoError(err)
	s.Equal(model.Summary{}, summary)
}

func (s *HistorySuite) TestSummaryReturnsStoredStreaks() {
	_, err := s.ledger.UpsertResult(s.ctx, model.ResultUpsert{
		BrowserID: "browser-1",
		Streak: model.StreakFields{
			CurrentStreak:    testutil.Ptr(3),
			HighestStreak:    testutil.Ptr(4),
			TotalGamesPlayed: testutil.Ptr(6),
			TotalWins:        testutil.Ptr(5),
		},
	})
	s.Require().NoError(err)

	summary, err := s.history.Summary(s.ctx, "browser-1")
	s.Require().NoError(err)
	s.Equal(model.Summary{CurrentStreak: 3, HighestStreak: 4, TotalGamesPlayed: 6, TotalWins: 5}, summary)
}

func (s *HistorySuite) TestGamesNewestFirstWithGuesses() {
	s.play("2024-01-01", 2, "Eruptor", "Spyro")
	s.play("2024-01-03", 1, "Gill Grunt")
	s.play("2024-01-02", 1, "Trigger Happy")

	games, err := s.history.Games(s.ctx, "browser-1", 0)
	s.Require().NoError(err)
	s.Require().Len(games, 3)
	s.Equal("2024-01-03", games[0].Date.String())
	s.Equal("2024-01-02", games[1].Date.String())
	s.Equal("2024-01-01", games[2].Date.String())
	s.Equal([]string{"Eruptor", "Spyro"}, games[2].GuessNames())
}

func (s *HistorySuite) TestGamesHonoursLimit() {
	s.play("2024-01-01", 1)
	s.play("2024-01-02", 1)
	s.play("2024-01-03", 1)

	games, err := s.history.Games(s.ctx, "browser-1", 2)
	s.Require().NoError(err)
	s.Require().Len(games, 2)
	s.Equal("2024-01-03", games[0].Date.String())
}

func (s *HistorySuite) TestGamesDefaultLimit() {
	for day := 1; day <= DefaultGamesLimit+5; day++ {
		s.play(model.Date{Year: 2023, Month: time.March, Day: 1}.Time().AddDate(0, 0, day).Format(model.DateLayout), 1)
	}

	games, err := s.history.Games(s.ctx, "browser-1", 0)
	s.Require().NoError(err)
	s.Len(games, DefaultGamesLimit)
}

func (s *HistorySuite) TestGamesRejectsOutOfRangeLimit() {
	for _, limit := range []int{-1, MaxGamesLimit + 1} {
		_, err := s.history.Games(s.ctx, "browser-1", limit)
		s.ErrorIs(err, model.ErrInvalidInput, "limit %d", limit)
	}

	_, err := s.history.Games(s.ctx, "browser-1", MaxGamesLimit)
	s.NoError(err)
}

func (s *HistorySuite) TestGamesUnknownPlayerIsEmpty() {
	games, err := s.history.Games(s.ctx, "nobody", 10)
	s.Require().NoError(err)
	s.NotNil(games)
	s.Empty(games)
}

func (s *HistorySuite) TestAverageGuessesRoundsToTwoDecimals() {
	s.play("2024-01-01", 3)
	s.play("2024-01-02", 4)
	s.play("2024-01-03", 4)

	avg, err := s.history.AverageGuesses(s.ctx, "browser-1")
	s.Require().NoError(err)
	s.Equal(model.AverageGuesses{Average: 3.67, TotalGames: 3}, avg)
}

func (s *HistorySuite) TestAverageGuessesUnknownPlayerIsZero() {
	avg, err := s.history.AverageGuesses(s.ctx, "nobody")
	s.Require().NoError(err)
	s.Equal(model.AverageGuesses{}, avg)
}

func (s *HistorySuite) TestRequiresBrowserID() {
	_, err := s.history.Summary(s.ctx, "")
	s.ErrorIs(err, model.ErrInvalidInput)
	_, err = s.history.Games(s.ctx, "", 0)
	s.ErrorIs(err, model.ErrInvalidInput)
	_, err = s.history.AverageGuesses(s.ctx, "")
	s.ErrorIs(err, model.ErrInvalidInput)
}

func TestRoundTo2(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"thirds round up", 11.0 / 3.0, 3.67},
		{"thirds round down", 1.0 / 3.0, 0.33},
		{"already two places", 2.5, 2.5},
		{"whole number", 4, 4},
		{"exact tie goes to even", 0.125, 0.12},
		{"exact tie goes to even upward", 0.375, 0.38},
		{"binary value just above the tie", 1.0 / 40.0, 0.03},
		{"binary value just below the tie", 3.0 / 40.0, 0.07},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, roundTo2(tt.in))
		})
	}
}
