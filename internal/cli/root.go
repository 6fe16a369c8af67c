package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	cfg    *Config
	client *Client
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg = DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "skyl",
		Short: "CLI tool for the Skylandly API",
		Long: `skyl is a CLI tool for playing the daily Skylander puzzle against a Skylandly server.

It can show the daily answer, compare guesses, list Skylanders and record or
query your history. Your history is keyed by a browser id that is generated on
first use and kept in ~/.skyl/browser_id.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			client = NewClient(cfg.ServerURL)
			return nil
		},
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "Server URL (env: SKYL_SERVER)")
	rootCmd.PersistentFlags().StringVar(&cfg.BrowserID, "browser-id", cfg.BrowserID, "Browser id for history commands (env: SKYL_BROWSER_ID)")
	rootCmd.PersistentFlags().StringVar(&cfg.BrowserIDFile, "browser-id-file", cfg.BrowserIDFile, "Browser id file path (env: SKYL_BROWSER_ID_FILE)")
	rootCmd.PersistentFlags().StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format: text, json")

	// Add subcommands
	rootCmd.AddCommand(newDailyCmd())
	rootCmd.AddCommand(newGuessCmd())
	rootCmd.AddCommand(newSkylandersCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newHealthCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
