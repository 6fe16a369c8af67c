package cli

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Record and query your game history",
	}

	cmd.AddCommand(newHistorySubmitCmd())
	cmd.AddCommand(newHistorySummaryCmd())
	cmd.AddCommand(newHistoryGamesCmd())
	cmd.AddCommand(newHistoryAverageCmd())
	cmd.AddCommand(newHistoryForgetCmd())

	return cmd
}

func browserQuery() (url.Values, error) {
	id, err := cfg.EnsureBrowserID()
	if err != nil {
		return nil, err
	}
	return url.Values{"browser_id": {id}}, nil
}

func newHistorySubmitCmd() *cobra.Command {
	var (
		date, answer, lastPlayed                   string
		won                                        bool
		guessCount                                 int
		guesses                                    []string
		currentStreak, highestStreak, played, wins int
	)

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Record the result of a day's game",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := cfg.EnsureBrowserID()
			if err != nil {
				return err
			}

			req := map[string]any{
				"browser_id":  id,
				"won":         won,
				"guess_count": guessCount,
			}
			if date != "" {
				req["date"] = date
			}
			if answer != "" {
				req["skylander_name"] = answer
			}

			// Only send what the user set so the server keeps everything else
			flags := cmd.Flags()
			if flags.Changed("guesses") {
				req["guesses"] = guesses
			}
			if flags.Changed("current-streak") {
				req["current_streak"] = currentStreak
			}
			if flags.Changed("highest-streak") {
				req["highest_streak"] = highestStreak
			}
			if flags.Changed("games-played") {
				req["total_games_played"] = played
			}
			if flags.Changed("wins") {
				req["total_wins"] = wins
			}
			if flags.Changed("last-played") {
				req["last_played_date"] = lastPlayed
			}

			var result Game
			if err := client.Post(cmd.Context(), "/api/v1/history/result", req, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&date, "date", "", "Date as YYYY-MM-DD (default: today, UTC)")
	f.BoolVar(&won, "won", false, "Whether the game was won")
	f.IntVar(&guessCount, "guess-count", 0, "Number of guesses used")
	f.StringVar(&answer, "answer", "", "The day's Skylander")
	f.StringSliceVar(&guesses, "guesses", nil, "Guessed names in order, comma separated")
	f.IntVar(&currentStreak, "current-streak", 0, "Current streak")
	f.IntVar(&highestStreak, "highest-streak", 0, "Highest streak")
	f.IntVar(&played, "games-played", 0, "Total games played")
	f.IntVar(&wins, "wins", 0, "Total wins")
	f.StringVar(&lastPlayed, "last-played", "", "Last played date as YYYY-MM-DD, empty clears it")
	_ = cmd.MarkFlagRequired("guess-count")

	return cmd
}

func newHistorySummaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show your streaks and totals",
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := browserQuery()
			if err != nil {
				return err
			}
			var result SummaryResult

			if err := client.Get(cmd.Context(), "/api/v1/history/summary", q, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}

func newHistoryGamesCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "games",
		Short: "List your recent games, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := browserQuery()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("limit") {
				q.Set("limit", strconv.Itoa(limit))
			}
			var result GamesResult

			if err := client.Get(cmd.Context(), "/api/v1/history/games", q, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 30, "Maximum number of games (1-365)")

	return cmd
}

func newHistoryAverageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "average",
		Short: "Show your average guess count",
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := browserQuery()
			if err != nil {
				return err
			}
			var result AverageResult

			if err := client.Get(cmd.Context(), "/api/v1/history/average-guesses", q, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}

func newHistoryForgetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "forget",
		Short: "Delete your player and all recorded games",
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := browserQuery()
			if err != nil {
				return err
			}

			if err := client.Delete(cmd.Context(), "/api/v1/history/player", q); err != nil {
				var apiErr *APIError
				if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
					return fmt.Errorf("no history recorded for browser id %s: %w", q.Get("browser_id"), err)
				}
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).PrintMessage("History deleted")
			return nil
		},
	}
}
