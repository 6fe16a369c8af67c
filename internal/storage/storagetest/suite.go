// Package storagetest holds the behaviour every storage backend must share.
package storagetest

import (
	"context"
	"errors"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/skylandly/internal/model"
	"github.com/mcoot/skylandly/internal/storage"
)

// Suite runs the shared storage contract against the backend returned by NewStorage
type Suite struct {
	suite.Suite
	NewStorage func() storage.Storage

	Storage storage.Storage
	Ctx     context.Context
}

func (s *Suite) SetupTest() {
	s.Storage = s.NewStorage()
	s.Ctx = context.Background()
}

func (s *Suite) TearDownTest() {
	if s.Storage != nil {
		_ = s.Storage.Close()
	}
}

var baseTime = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func date(y int, m time.Month, d int) model.Date {
	return model.Date{Year: y, Month: m, Day: d}
}

func strPtr(s string) *string {
	return &s
}

// record writes a player (created if missing) and a result for key in one transaction
func (s *Suite) record(key model.ResultKey, guessCount int, guesses []string) *model.DailyResult {
	var out *model.DailyResult
	err := s.Storage.Update(s.Ctx, key, func(tx storage.Tx) error {
		player, err := tx.Player(s.Ctx)
		if errors.Is(err, model.ErrPlayerNotFound) {
			player = &model.Player{BrowserID: key.BrowserID, CreatedAt: baseTime}
		} else if err != nil {
			return err
		}
		player.LastSeen = baseTime
		if err := tx.SavePlayer(s.Ctx, player); err != nil {
			return err
		}

		result, err := tx.Result(s.Ctx)
		if errors.Is(err, model.ErrResultNotFound) {
			result = &model.DailyResult{PlayerID: player.ID, Date: key.Date}
		} else if err != nil {
			return err
		}
		result.Won = guessCount > 0
		result.GuessCount = guessCount
		result.SkylanderName = strPtr("Spyro")
		result.FinishedAt = baseTime
		if err := tx.SaveResult(s.Ctx, result); err != nil {
			return err
		}

		if guesses != nil {
			gs := make([]model.Guess, len(guesses))
			for i, g := range guesses {
				gs[i] = model.Guess{Index: i, Name: g, CreatedAt: baseTime}
			}
			if err := tx.ReplaceGuesses(s.Ctx, result, gs); err != nil {
				return err
			}
		}
		out = result
		return nil
	})
	s.Require().NoError(err)
	return out
}

func (s *Suite) TestGetPlayerNotFound() {
	_, err := s.Storage.GetPlayer(s.Ctx, "nobody")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *Suite) TestUpdateCreatesPlayerAndResult() {
	key := model.ResultKey{BrowserID: "browser-1", Date: date(2024, 1, 1)}
	saved := s.record(key, 3, []string{"Gill Grunt", "Eruptor", "Spyro"})
	s.NotZero(saved.ID)
	s.NotZero(saved.PlayerID)

	player, err := s.Storage.GetPlayer(s.Ctx, "browser-1")
	s.Require().NoError(err)
	s.Equal(saved.PlayerID, player.ID)
	s.Equal("browser-1", player.BrowserID)
	s.True(player.CreatedAt.Equal(baseTime))

	results, err := s.Storage.ListResults(s.Ctx, "browser-1", 10)
	s.Require().NoError(err)
	s.Require().Len(results, 1)
	s.Equal(key.Date, results[0].Date)
	s.Equal(3, results[0].GuessCount)
	s.True(results[0].Won)
	s.Require().NotNil(results[0].SkylanderName)
	s.Equal("Spyro", *results[0].SkylanderName)
	s.Equal([]string{"Gill Grunt", "Eruptor", "Spyro"}, results[0].GuessNames())
}

func (s *Suite) TestUpdateOverwritesInPlace() {
	key := model.ResultKey{BrowserID: "browser-1", Date: date(2024, 1, 1)}
	first := s.record(key, 2, []string{"Eruptor", "Spyro"})
	second := s.record(key, 5, nil)

	s.Equal(first.ID, second.ID)

	results, err := s.Storage.ListResults(s.Ctx, "browser-1", 10)
	s.Require().NoError(err)
	s.Require().Len(results, 1)
	s.Equal(5, results[0].GuessCount)
	s.Equal([]string{"Eruptor", "Spyro"}, results[0].GuessNames(), "guesses untouched when not replaced")
}

func (s *Suite) TestReplaceGuessesReplacesAll() {
	key := model.ResultKey{BrowserID: "browser-1", Date: date(2024, 1, 1)}
	s.record(key, 3, []string{"A", "B", "C"})
	s.record(key, 1, []string{"Spyro"})

	results, err := s.Storage.ListResults(s.Ctx, "browser-1", 10)
	s.Require().NoError(err)
	s.Require().Len(results, 1)
	s.Equal([]string{"Spyro"}, results[0].GuessNames())
}

func (s *Suite) TestReplaceGuessesKeepsIndices() {
	key := model.ResultKey{BrowserID: "browser-1", Date: date(2024, 1, 1)}
	err := s.Storage.Update(s.Ctx, key, func(tx storage.Tx) error {
		player := &model.Player{BrowserID: key.BrowserID, CreatedAt: baseTime, LastSeen: baseTime}
		if err := tx.SavePlayer(s.Ctx, player); err != nil {
			return err
		}
		result := &model.DailyResult{PlayerID: player.ID, Date: key.Date, GuessCount: 3, FinishedAt: baseTime}
		if err := tx.SaveResult(s.Ctx, result); err != nil {
			return err
		}
		return tx.ReplaceGuesses(s.Ctx, result, []model.Guess{
			{Index: 2, Name: "Spyro", CreatedAt: baseTime},
			{Index: 0, Name: "Bash", CreatedAt: baseTime},
		})
	})
	s.Require().NoError(err)

	results, err := s.Storage.ListResults(s.Ctx, "browser-1", 1)
	s.Require().NoError(err)
	s.Require().Len(results, 1)
	s.Require().Len(results[0].Guesses, 2)
	s.Equal(0, results[0].Guesses[0].Index)
	s.Equal("Bash", results[0].Guesses[0].Name)
	s.Equal(2, results[0].Guesses[1].Index)
	s.Equal("Spyro", results[0].Guesses[1].Name)
}

func (s *Suite) TestUpdateRollsBackOnError() {
	key := model.ResultKey{BrowserID: "browser-1", Date: date(2024, 1, 1)}
	boom := errors.New("boom")

	err := s.Storage.Update(s.Ctx, key, func(tx storage.Tx) error {
		player := &model.Player{BrowserID: key.BrowserID, CreatedAt: baseTime, LastSeen: baseTime}
		if err := tx.SavePlayer(s.Ctx, player); err != nil {
			return err
		}
		return boom
	})
	s.ErrorIs(err, boom)

	_, err = s.Storage.GetPlayer(s.Ctx, "browser-1")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *Suite) TestTxSeesOwnWrites() {
	key := model.ResultKey{BrowserID: "browser-1", Date: date(2024, 1, 1)}
	err := s.Storage.Update(s.Ctx, key, func(tx storage.Tx) error {
		player := &model.Player{BrowserID: key.BrowserID, CurrentStreak: 4, CreatedAt: baseTime, LastSeen: baseTime}
		if err := tx.SavePlayer(s.Ctx, player); err != nil {
			return err
		}
		got, err := tx.Player(s.Ctx)
		if err != nil {
			return err
		}
		s.Equal(4, got.CurrentStreak)
		s.Equal(player.ID, got.ID)
		return nil
	})
	s.Require().NoError(err)
}

func (s *Suite) TestDuplicateResultInsertConflicts() {
	key := model.ResultKey{BrowserID: "browser-1", Date: date(2024, 1, 1)}
	existing := s.record(key, 1, nil)

	err := s.Storage.Update(s.Ctx, key, func(tx storage.Tx) error {
		dup := &model.DailyResult{PlayerID: existing.PlayerID, Date: key.Date, FinishedAt: baseTime}
		return tx.SaveResult(s.Ctx, dup)
	})
	s.ErrorIs(err, model.ErrStoreConflict)

	results, err := s.Storage.ListResults(s.Ctx, "browser-1", 10)
	s.Require().NoError(err)
	s.Len(results, 1)
}

func (s *Suite) TestDuplicatePlayerInsertConflicts() {
	s.record(model.ResultKey{BrowserID: "browser-1", Date: date(2024, 1, 1)}, 1, nil)

	err := s.Storage.Update(s.Ctx, model.ResultKey{BrowserID: "browser-1", Date: date(2024, 1, 2)}, func(tx storage.Tx) error {
		return tx.SavePlayer(s.Ctx, &model.Player{BrowserID: "browser-1", CreatedAt: baseTime, LastSeen: baseTime})
	})
	s.ErrorIs(err, model.ErrStoreConflict)
}

func (s *Suite) TestPlayerFieldsRoundTrip() {
	key := model.ResultKey{BrowserID: "browser-1", Date: date(2024, 1, 5)}
	last := date(2024, 1, 5)
	err := s.Storage.Update(s.Ctx, key, func(tx storage.Tx) error {
		return tx.SavePlayer(s.Ctx, &model.Player{
			BrowserID:        key.BrowserID,
			CurrentStreak:    3,
			HighestStreak:    7,
			TotalGamesPlayed: 12,
			TotalWins:        9,
			LastPlayedDate:   &last,
			CreatedAt:        baseTime,
			LastSeen:         baseTime.Add(time.Hour),
		})
	})
	s.Require().NoError(err)

	player, err := s.Storage.GetPlayer(s.Ctx, "browser-1")
	s.Require().NoError(err)
	s.Equal(3, player.CurrentStreak)
	s.Equal(7, player.HighestStreak)
	s.Equal(12, player.TotalGamesPlayed)
	s.Equal(9, player.TotalWins)
	s.Require().NotNil(player.LastPlayedDate)
	s.Equal(last, *player.LastPlayedDate)
	s.True(player.LastSeen.Equal(baseTime.Add(time.Hour)))
}

func (s *Suite) TestListResultsOrderAndLimit() {
	for d := 1; d <= 5; d++ {
		s.record(model.ResultKey{BrowserID: "browser-1", Date: date(2024, 1, d)}, d, nil)
	}
	s.record(model.ResultKey{BrowserID: "browser-2", Date: date(2024, 1, 9)}, 1, nil)

	results, err := s.Storage.ListResults(s.Ctx, "browser-1", 3)
	s.Require().NoError(err)
	s.Require().Len(results, 3)
	s.Equal(date(2024, 1, 5), results[0].Date)
	s.Equal(date(2024, 1, 4), results[1].Date)
	s.Equal(date(2024, 1, 3), results[2].Date)
}

func (s *Suite) TestListResultsUnknownPlayer() {
	results, err := s.Storage.ListResults(s.Ctx, "nobody", 30)
	s.Require().NoError(err)
	s.Empty(results)
}

func (s *Suite) TestResultStats() {
	s.record(model.ResultKey{BrowserID: "browser-1", Date: date(2024, 1, 1)}, 3, nil)
	s.record(model.ResultKey{BrowserID: "browser-1", Date: date(2024, 1, 2)}, 4, nil)
	s.record(model.ResultKey{BrowserID: "browser-1", Date: date(2024, 1, 3)}, 4, nil)
	s.record(model.ResultKey{BrowserID: "browser-2", Date: date(2024, 1, 3)}, 9, nil)

	stats, err := s.Storage.ResultStats(s.Ctx, "browser-1")
	s.Require().NoError(err)
	s.Equal(model.ResultStats{Games: 3, TotalGuesses: 11}, stats)

	stats, err = s.Storage.ResultStats(s.Ctx, "nobody")
	s.Require().NoError(err)
	s.Equal(model.ResultStats{}, stats)
}

func (s *Suite) TestDeletePlayerCascades() {
	s.record(model.ResultKey{BrowserID: "browser-1", Date: date(2024, 1, 1)}, 2, []string{"Bash", "Spyro"})
	s.record(model.ResultKey{BrowserID: "browser-1", Date: date(2024, 1, 2)}, 1, []string{"Spyro"})
	s.record(model.ResultKey{BrowserID: "browser-2", Date: date(2024, 1, 1)}, 1, []string{"Spyro"})

	s.Require().NoError(s.Storage.DeletePlayer(s.Ctx, "browser-1"))

	_, err := s.Storage.GetPlayer(s.Ctx, "browser-1")
	s.ErrorIs(err, model.ErrPlayerNotFound)

	results, err := s.Storage.ListResults(s.Ctx, "browser-1", 30)
	s.Require().NoError(err)
	s.Empty(results)

	stats, err := s.Storage.ResultStats(s.Ctx, "browser-1")
	s.Require().NoError(err)
	s.Zero(stats.Games)

	others, err := s.Storage.ListResults(s.Ctx, "browser-2", 30)
	s.Require().NoError(err)
	s.Len(others, 1)

	// Recreating the player starts from a clean slate
	fresh := s.record(model.ResultKey{BrowserID: "browser-1", Date: date(2024, 1, 1)}, 4, nil)
	results, err = s.Storage.ListResults(s.Ctx, "browser-1", 30)
	s.Require().NoError(err)
	s.Require().Len(results, 1)
	s.Equal(fresh.ID, results[0].ID)
	s.Empty(results[0].Guesses)
}

func (s *Suite) TestDeletePlayerNotFound() {
	err := s.Storage.DeletePlayer(s.Ctx, "nobody")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}
