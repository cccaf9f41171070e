package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "iroquiz",
	Short: "Japanese color name quiz",
	Long: "iroquiz is a terminal quiz on traditional Japanese color names.\n" +
		"Read a color's description, then name the color and its systematic color name.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to config file (overrides IROQUIZ_CONFIG env var)")
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite dataset library (overrides IROQUIZ_DB env var)")
	rootCmd.PersistentFlags().Bool("debug", false, "Write debug-level logs")
	rootCmd.PersistentFlags().String("dataset", "", "Dataset to start with: file path, URL or db:NAME")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(datasetsCmd)
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(versionCmd)
}
