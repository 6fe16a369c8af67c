package model

import "time"

// PlayerID is the store-assigned identifier of a player
type PlayerID int64

// Player is a browser-identified participant and their running statistics.
// Streak and aggregate fields are supplied by the client and stored verbatim.
type Player struct {
	ID               PlayerID  `json:"id"`
	BrowserID        string    `json:"browser_id"`
	CurrentStreak    int       `json:"current_streak"`
	HighestStreak    int       `json:"highest_streak"`
	TotalGamesPlayed int       `json:"total_games_played"`
	TotalWins        int       `json:"total_wins"`
	LastPlayedDate   *Date     `json:"last_played_date,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	LastSeen         time.Time `json:"last_seen"`
}

// StreakFields holds optional client-computed overrides applied on upsert.
// A nil field leaves the stored value untouched.
type StreakFields struct {
	CurrentStreak    *int
	HighestStreak    *int
	TotalGamesPlayed *int
	TotalWins        *int
	LastPlayedDate   *string
}

// Summary is the aggregate view of a player's statistics
type Summary struct {
	CurrentStreak    int
	HighestStreak    int
	TotalGamesPlayed int
	TotalWins        int
}

// SummaryOf returns the summary fields of a player
func SummaryOf(p *Player) Summary {
	return Summary{
		CurrentStreak:    p.CurrentStreak,
		HighestStreak:    p.HighestStreak,
		TotalGamesPlayed: p.TotalGamesPlayed,
		TotalWins:        p.TotalWins,
	}
}

// Clone returns a deep copy of the player
func (p *Player) Clone() *Player {
	c := *p
	if p.LastPlayedDate != nil {
		d := *p.LastPlayedDate
		c.LastPlayedDate = &d
	}
	return &c
}
