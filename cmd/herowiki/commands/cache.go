package commands

import (
	"fmt"

	"herowiki/lib/requestcache"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(cacheCmd)
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Lists the pages held by the request cache.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cache := requestcache.NewStore(cfg.CachePath, tel).Load()

		t := newTable(cmd.OutOrStdout())
		t.SetTitle(cfg.CachePath)
		t.AppendHeader(table.Row{"Key", "Bytes"})
		for _, key := range cache.Keys() {
			body, _ := cache.Get(key)
			t.AppendRow(table.Row{key, len(body)})
		}
		t.AppendFooter(table.Row{fmt.Sprintf("%d entries", cache.Len()), ""})
		t.Render()
		return nil
	},
}
