package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"karolbroda.com/cakeday/internal/lyrics"
)

var lyricsCmd = &cobra.Command{
	Use:   "lyrics",
	Short: "inspect lrc lyric files",
}

var lyricsPreviewCmd = &cobra.Command{
	Use:   "preview <file|url>",
	Short: "print a parsed lyric file with its timestamps",
	Long:  `parses an lrc file or url the same way the song view does and prints every timed line in order.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
		defer cancel()

		lrc, err := lyrics.Load(ctx, args[0])
		if err != nil {
			return err
		}
		if lrc.Len() == 0 {
			return fmt.Errorf("no timed lines in %s", args[0])
		}

		for _, line := range lrc {
			text := line.Text
			if text == "" {
				text = "···"
			}
			fmt.Printf("[%s] %s\n", lyrics.FormatTimestamp(line.TimeSeconds), text)
		}

		fmt.Printf("\n%d lines, last at %s\n", lrc.Len(), lyrics.FormatTimestamp(lrc.Duration()))
		return nil
	},
}

func init() {
	lyricsCmd.AddCommand(lyricsPreviewCmd)
	rootCmd.AddCommand(lyricsCmd)
}
