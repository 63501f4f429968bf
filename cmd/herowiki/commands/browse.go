package commands

import (
	"herowiki/internal/browse"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(browseCmd)
}

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browses heroes, abilities and comparisons through numbered menus.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, done, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer done()

		return browse.Run(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), store)
	},
}
