package main

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"karolbroda.com/cakeday/internal/desktop"
	"karolbroda.com/cakeday/internal/logging"
)

var playersCmd = &cobra.Command{
	Use:   "players",
	Short: "desktop media player tools",
}

var playersListCmd = &cobra.Command{
	Use:   "list",
	Short: "list mpris players that the song will pause",
	RunE: func(cmd *cobra.Command, args []string) error {
		players, err := desktop.Connect(logging.Discard())
		if err != nil {
			return err
		}
		defer players.Close()

		list, err := players.List()
		if err != nil {
			return err
		}

		if len(list) == 0 {
			fmt.Println("no mpris players found")
			return nil
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"Service", "Player", "Status", "Now playing"})

		for _, p := range list {
			playing := "-"
			if p.Track.IsValid() {
				playing = p.Track.Label()
			}
			t.AppendRow(table.Row{p.Service, p.Identity, p.Status, playing})
		}

		t.Render()
		return nil
	},
}

func init() {
	playersCmd.AddCommand(playersListCmd)
	rootCmd.AddCommand(playersCmd)
}
