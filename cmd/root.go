package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ccprep",
	Short: "AWS Cloud Practitioner exam simulator",
	Long: "ccprep builds CLF-C02 style practice exams from a question catalog, " +
		"scores them on the 100-1000 scale and tracks progress across attempts.",
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides CCPREP_DB env var)")
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML, TOML or JSON config file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().String("catalog", "", "Question catalog file or directory (defaults to the built-in catalog)")

	rootCmd.AddCommand(examCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(goalCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
}
