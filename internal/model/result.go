package model

import (
	"sort"
	"time"
)

// ResultID is the store-assigned identifier of a daily result
type ResultID int64

// ResultKey identifies the single DailyResult a player may have for a day
type ResultKey struct {
	BrowserID string
	Date      Date
}

// DailyResult is a player's outcome for one calendar day
type DailyResult struct {
	ID            ResultID  `json:"id"`
	PlayerID      PlayerID  `json:"player_id"`
	Date          Date      `json:"date"`
	Won           bool      `json:"won"`
	GuessCount    int       `json:"guess_count"`
	SkylanderName *string   `json:"skylander_name,omitempty"`
	FinishedAt    time.Time `json:"finished_at"`
	Guesses       []Guess   `json:"guesses"`
}

// Guess is one submitted guess within a daily result
type Guess struct {
	Index     int       `json:"guess_index"`
	Name      string    `json:"guess_name"`
	CreatedAt time.Time `json:"created_at"`
}

// GuessNames returns the guess names in index order
func (r *DailyResult) GuessNames() []string {
	names := make([]string, len(r.Guesses))
	for i, g := range r.Guesses {
		names[i] = g.Name
	}
	return names
}

// SortGuesses orders guesses by index
func SortGuesses(guesses []Guess) {
	sort.SliceStable(guesses, func(i, j int) bool {
		return guesses[i].Index < guesses[j].Index
	})
}

// ResultUpsert is the input to a ledger upsert
type ResultUpsert struct {
	BrowserID     string
	Date          string // YYYY-MM-DD, empty means today (UTC)
	Won           bool
	GuessCount    int
	SkylanderName *string
	Guesses       []string // nil leaves stored guesses untouched
	Streak        StreakFields
}

// ResultStats aggregates a player's stored results
type ResultStats struct {
	Games        int
	TotalGuesses int
}

// AverageGuesses is the mean guess count over a player's games
type AverageGuesses struct {
	Average    float64
	TotalGames int
}

// Clone returns a deep copy of the result, including its guesses
func (r *DailyResult) Clone() *DailyResult {
	c := *r
	if r.SkylanderName != nil {
		name := *r.SkylanderName
		c.SkylanderName = &name
	}
	if r.Guesses != nil {
		c.Guesses = make([]Guess, len(r.Guesses))
		copy(c.Guesses, r.Guesses)
	}
	return &c
}
