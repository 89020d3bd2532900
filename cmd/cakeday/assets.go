package main

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"karolbroda.com/cakeday/internal/assets"
	"karolbroda.com/cakeday/internal/logging"
)

var assetsCmd = &cobra.Command{
	Use:   "assets",
	Short: "asset directory tools",
}

var assetsCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "list the expected assets and whether they are usable",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		statuses := assets.Check(assets.Manifest(cfg.AssetsDir), logging.Discard())

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"Asset", "Kind", "Used for", "Status", "Details"})

		for _, st := range statuses {
			status := "ok"
			details := fmt.Sprintf("%d KiB", st.Size/1024)
			switch {
			case !st.Exists:
				status = "missing"
				details = "a fallback is used"
			case st.Err != nil:
				status = "warning"
				details = st.Err.Error()
			case st.Info != nil:
				details = fmt.Sprintf("%s, %s", st.Info.Label(), st.Info.DurationLabel())
			}
			t.AppendRow(table.Row{st.Name, st.Kind.String(), st.Purpose, status, details})
		}

		t.Render()

		if missing := assets.Missing(statuses); len(missing) > 0 {
			fmt.Printf("\n%d of %d assets missing in %s\n", len(missing), len(statuses), cfg.AssetsDir)
		}
		return nil
	},
}

func init() {
	assetsCmd.AddCommand(assetsCheckCmd)
	rootCmd.AddCommand(assetsCmd)
}
