package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath string
	assetsDir  string
	logFile    string
	syncOffset float64
	hideHeader bool
	noDesktop  bool
)

var rootCmd = &cobra.Command{
	Use:   "cakeday",
	Short: "a birthday countdown, cake and song for the terminal",
	Long: `cakeday counts down to October 1st, then reveals a birthday greeting with a
cake ceremony, a lyric-synced song and a sparkling finale.

when run without a subcommand, it starts the experience.`,
	Version: "1.0.0",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExperience(cmd, args)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a cakeday.toml config file")
	rootCmd.PersistentFlags().StringVarP(&assetsDir, "assets", "a", "", "directory holding the music, lyrics and images")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs here instead of the default temp file (\"-\" disables)")
	rootCmd.PersistentFlags().Float64VarP(&syncOffset, "sync-offset", "s", 0, "initial lyric sync offset in seconds")
	rootCmd.PersistentFlags().BoolVarP(&hideHeader, "hide-header", "H", false, "hide the song header")
	rootCmd.PersistentFlags().BoolVar(&noDesktop, "no-desktop", false, "do not pause other players or send notifications")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
