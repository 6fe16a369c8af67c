package request

import (
	"github.com/mcoot/skylandly/internal/model"
)

// GuessRequest is the request body for a guess
type GuessRequest struct {
	SkylanderName string `json:"skylander_name" validate:"required"`
	Date          string `json:"date"`
}

// UpsertResultRequest is the request body for recording a daily result.
// Optional fields are pointers so an absent field leaves the stored value alone.
type UpsertResultRequest struct {
	BrowserID     string   `json:"browser_id" validate:"required"`
	Date          string   `json:"date"`
	Won           *bool    `json:"won"`
	GuessCount    *int     `json:"guess_count"`
	SkylanderName *string  `json:"skylander_name"`
	Guesses       []string `json:"guesses"`

	CurrentStreak    *int    `json:"current_streak"`
	HighestStreak    *int    `json:"highest_streak"`
	TotalGamesPlayed *int    `json:"total_games_played"`
	TotalWins        *int    `json:"total_wins"`
	LastPlayedDate   *string `json:"last_played_date"`
}

// Check enforces fields the struct rules cannot express
func (r *UpsertResultRequest) Check() error {
	if r.Won == nil {
		return invalid("won is required")
	}
	if r.GuessCount == nil {
		return invalid("guess_count is required")
	}
	return nil
}

// ToModel converts the request to a ledger upsert
func (r *UpsertResultRequest) ToModel() model.ResultUpsert {
	return model.ResultUpsert{
		BrowserID:     r.BrowserID,
		Date:          r.Date,
		Won:           *r.Won,
		GuessCount:    *r.GuessCount,
		SkylanderName: r.SkylanderName,
		Guesses:       r.Guesses,
		Streak: model.StreakFields{
			CurrentStreak:    r.CurrentStreak,
			HighestStreak:    r.HighestStreak,
			TotalGamesPlayed: r.TotalGamesPlayed,
			TotalWins:        r.TotalWins,
			LastPlayedDate:   r.LastPlayedDate,
		},
	}
}
