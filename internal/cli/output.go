package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to w
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		o.printJSON(map[string]string{"message": msg})
	} else {
		fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		fmt.Fprintf(o.w, "{\"error\":%q}\n", err.Error())
		return
	}
	fmt.Fprintln(o.w, string(out))
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case DailyResult:
		fmt.Fprintf(o.w, "Today's Skylander: %s\n", v.SkylanderName)
	case GuessResult:
		o.printGuessResult(v)
	case SkylanderList:
		o.printSkylanders(v)
	case Game:
		o.printGame(v)
	case GamesResult:
		if len(v.Games) == 0 {
			fmt.Fprintln(o.w, "No games recorded")
		}
		for _, g := range v.Games {
			o.printGame(g)
		}
	case SummaryResult:
		fmt.Fprintf(o.w, "Current streak: %d\n", v.CurrentStreak)
		fmt.Fprintf(o.w, "Highest streak: %d\n", v.HighestStreak)
		fmt.Fprintf(o.w, "Games played: %d\n", v.TotalGamesPlayed)
		fmt.Fprintf(o.w, "Wins: %d\n", v.TotalWins)
	case AverageResult:
		fmt.Fprintf(o.w, "Average guesses: %.2f over %d games\n", v.AverageGuesses, v.TotalGames)
	case HealthResult:
		fmt.Fprintf(o.w, "Status: %s\n", v.Status)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// DailyResult response type (matches API)
type DailyResult struct {
	SkylanderName string `json:"skylander_name"`
}

// AttributeResult is one compared attribute
type AttributeResult struct {
	Value     string `json:"value"`
	IsCorrect bool   `json:"is_correct"`
}

// Comparison response type
type Comparison struct {
	Name    AttributeResult `json:"name"`
	Element AttributeResult `json:"element"`
	Gender  AttributeResult `json:"gender"`
	Game    AttributeResult `json:"game"`
	Species AttributeResult `json:"species"`
}

// GuessResult response type
type GuessResult struct {
	Correct    bool       `json:"correct"`
	Comparison Comparison `json:"comparison"`
}

// Skylander response type
type Skylander struct {
	Name    string `json:"name"`
	Element string `json:"element"`
	Gender  string `json:"gender"`
	Game    string `json:"game"`
	Species string `json:"species"`
}

// SkylanderList response type
type SkylanderList struct {
	Skylanders []Skylander `json:"skylanders"`
	Count      int         `json:"count"`
}

// Game response type
type Game struct {
	Date          string   `json:"date"`
	Won           bool     `json:"won"`
	GuessCount    int      `json:"guess_count"`
	SkylanderName *string  `json:"skylander_name"`
	Guesses       []string `json:"guesses"`
}

// GamesResult response type
type GamesResult struct {
	Games []Game `json:"games"`
}

// SummaryResult response type
type SummaryResult struct {
	CurrentStreak    int `json:"current_streak"`
	HighestStreak    int `json:"highest_streak"`
	TotalGamesPlayed int `json:"total_games_played"`
	TotalWins        int `json:"total_wins"`
}

// AverageResult response type
type AverageResult struct {
	AverageGuesses float64 `json:"average_guesses"`
	TotalGames     int     `json:"total_games"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func mark(ok bool) string {
	if ok {
		return "✓"
	}
	return "✗"
}

func (o *Output) printGuessResult(g GuessResult) {
	c := g.Comparison
	fmt.Fprintf(o.w, "%s %-8s %s\n", mark(c.Name.IsCorrect), "Name", c.Name.Value)
	fmt.Fprintf(o.w, "%s %-8s %s\n", mark(c.Element.IsCorrect), "Element", c.Element.Value)
	fmt.Fprintf(o.w, "%s %-8s %s\n", mark(c.Gender.IsCorrect), "Gender", c.Gender.Value)
	fmt.Fprintf(o.w, "%s %-8s %s\n", mark(c.Game.IsCorrect), "Game", c.Game.Value)
	fmt.Fprintf(o.w, "%s %-8s %s\n", mark(c.Species.IsCorrect), "Species", c.Species.Value)
	if g.Correct {
		fmt.Fprintln(o.w, "Correct!")
	}
}

func (o *Output) printSkylanders(l SkylanderList) {
	fmt.Fprintf(o.w, "Skylanders (%d):\n", l.Count)
	for _, s := range l.Skylanders {
		fmt.Fprintf(o.w, "  - %s [%s, %s, %s, %s]\n", s.Name, s.Element, s.Gender, s.Game, s.Species)
	}
}

func (o *Output) printGame(g Game) {
	outcome := "lost"
	if g.Won {
		outcome = "won"
	}
	answer := "?"
	if g.SkylanderName != nil {
		answer = *g.SkylanderName
	}
	fmt.Fprintf(o.w, "%s  %s in %d (%s)", g.Date, outcome, g.GuessCount, answer)
	if len(g.Guesses) > 0 {
		fmt.Fprintf(o.w, ": %s", strings.Join(g.Guesses, ", "))
	}
	fmt.Fprintln(o.w)
}
