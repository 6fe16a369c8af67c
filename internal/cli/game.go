package cli

import (
	"net/url"

	"github.com/spf13/cobra"
)

func dateQuery(date string) url.Values {
	if date == "" {
		return nil
	}
	return url.Values{"date": {date}}
}

func newDailyCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "daily",
		Short: "Show the daily Skylander",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result DailyResult

			if err := client.Get(cmd.Context(), "/api/v1/game/daily", dateQuery(date), &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Date as YYYY-MM-DD (default: today, UTC)")

	return cmd
}

func newGuessCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "guess <name>",
		Short: "Guess a Skylander and compare it with the daily answer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"skylander_name": args[0]}
			if date != "" {
				req["date"] = date
			}
			var result GuessResult

			if err := client.Post(cmd.Context(), "/api/v1/game/guess", req, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Date as YYYY-MM-DD (default: today, UTC)")

	return cmd
}

func newSkylandersCmd() *cobra.Command {
	var element, gender string

	cmd := &cobra.Command{
		Use:   "skylanders",
		Short: "List Skylanders",
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			if element != "" {
				q.Set("element", element)
			}
			if gender != "" {
				q.Set("gender", gender)
			}
			var result SkylanderList

			if err := client.Get(cmd.Context(), "/api/v1/skylanders", q, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&element, "element", "", "Filter by element")
	cmd.Flags().StringVar(&gender, "gender", "", "Filter by gender")

	return cmd
}
