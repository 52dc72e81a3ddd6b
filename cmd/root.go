package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/learnquest/internal/app"
)

var rootCmd = &cobra.Command{
	Use:   "learnquest",
	Short: "Learning games for kids",
	Long:  "LearnQuest is a terminal learning game for kids: quick math and reading rounds with stars, time bonuses and achievements.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(cmd, app.Options{})
	},
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("db", "", "Path to SQLite database file (overrides LEARNQUEST_DB)")
	pf.String("remote", "", "Base URL of a record API server to use instead of a local database")
	pf.String("config", "", "Path to a YAML config file (overrides LEARNQUEST_CONFIG)")
	pf.String("env-file", "", "Path to a .env file (default .env)")
	pf.String("log-level", "", "Log level: debug, info, warn or error")
	pf.String("log-file", "", "Write logs to this file")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(achievementsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}
