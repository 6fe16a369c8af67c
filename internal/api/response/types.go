package response

import (
	"github.com/mcoot/skylandly/internal/model"
)

// DailyResponse names the day's answer
type DailyResponse struct {
	SkylanderName string `json:"skylander_name"`
}

// GuessResponse is the outcome of a guess
type GuessResponse struct {
	Correct    bool                   `json:"correct"`
	Comparison model.ComparisonReport `json:"comparison"`
}

// GuessResponseFromModel converts a model.GuessResult to a GuessResponse
func GuessResponseFromModel(r *model.GuessResult) GuessResponse {
	return GuessResponse{
		Correct:    r.Correct,
		Comparison: r.Comparison,
	}
}

// SkylanderResponse describes one catalog entry
type SkylanderResponse struct {
	Name    string `json:"name"`
	Element string `json:"element"`
	Gender  string `json:"gender"`
	Game    string `json:"game"`
	Species string `json:"species"`
}

// SkylandersResponse is the catalog listing
type SkylandersResponse struct {
	Skylanders []SkylanderResponse `json:"skylanders"`
	Count      int                 `json:"count"`
}

// SkylandersFromModel converts catalog entries to a listing
func SkylandersFromModel(entities []model.Skylander) SkylandersResponse {
	out := make([]SkylanderResponse, len(entities))
	for i, s := range entities {
		out[i] = SkylanderResponse{
			Name:    s.Name,
			Element: s.Element,
			Gender:  s.Gender,
			Game:    s.Game,
			Species: s.Species,
		}
	}
	return SkylandersResponse{Skylanders: out, Count: len(out)}
}

// GameResponse is one stored daily result
type GameResponse struct {
	Date          string   `json:"date"`
	Won           bool     `json:"won"`
	GuessCount    int      `json:"guess_count"`
	SkylanderName *string  `json:"skylander_name"`
	Guesses       []string `json:"guesses"`
}

// GameFromModel converts a model.DailyResult to a GameResponse
func GameFromModel(r *model.DailyResult) GameResponse {
	return GameResponse{
		Date:          r.Date.String(),
		Won:           r.Won,
		GuessCount:    r.GuessCount,
		SkylanderName: r.SkylanderName,
		Guesses:       r.GuessNames(),
	}
}

// GamesResponse lists a player's results, newest first
type GamesResponse struct {
	Games []GameResponse `json:"games"`
}

// GamesFromModel converts results to a GamesResponse
func GamesFromModel(results []*model.DailyResult) GamesResponse {
	games := make([]GameResponse, len(results))
	for i, r := range results {
		games[i] = GameFromModel(r)
	}
	return GamesResponse{Games: games}
}

// SummaryResponse holds a player's streaks and totals
type SummaryResponse struct {
	CurrentStreak    int `json:"current_streak"`
	HighestStreak    int `json:"highest_streak"`
	TotalGamesPlayed int `json:"total_games_played"`
	TotalWins        int `json:"total_wins"`
}

// SummaryFromModel converts a model.Summary to a SummaryResponse
func SummaryFromModel(s model.Summary) SummaryResponse {
	return SummaryResponse{
		CurrentStreak:    s.CurrentStreak,
		HighestStreak:    s.HighestStreak,
		TotalGamesPlayed: s.TotalGamesPlayed,
		TotalWins:        s.TotalWins,
	}
}

// AverageGuessesResponse is the mean guess count over all games
type AverageGuessesResponse struct {
	AverageGuesses float64 `json:"average_guesses"`
	TotalGames     int     `json:"total_games"`
}

// AverageGuessesFromModel converts a model.AverageGuesses to a response
func AverageGuessesFromModel(a model.AverageGuesses) AverageGuessesResponse {
	return AverageGuessesResponse{
		AverageGuesses: a.Average,
		TotalGames:     a.TotalGames,
	}
}

// HealthResponse reports liveness
type HealthResponse struct {
	Status string `json:"status"`
}
