package commands

import (
	"fmt"
	"strings"

	"herowiki/internal/chart"
	"herowiki/internal/heroes"

	"github.com/spf13/cobra"
)

var compareRole *string

func init() {
	compareRole = compareCmd.Flags().StringP("role", "r", "", "Only compare heroes of this role.")
	rootCmd.AddCommand(compareCmd)
}

var compareCmd = &cobra.Command{
	Use:   "compare <metric> [--role <role>]",
	Short: "Charts a stat across heroes (health, armor, shield, pick, win, tie, onfire).",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		metric, err := chart.ParseMetric(strings.Join(args, " "))
		if err != nil {
			return err
		}

		var role heroes.Role
		if *compareRole != "" && !strings.EqualFold(*compareRole, "all") {
			var ok bool
			role, ok = heroes.ParseRole(*compareRole)
			if !ok {
				return fmt.Errorf("unknown role '%s', expected one of %v", *compareRole, heroes.Roles)
			}
		}

		store, done, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer done()

		list, err := store.HeroesByRole(cmd.Context(), role)
		if err != nil {
			return err
		}
		if len(list) == 0 {
			return fmt.Errorf("no heroes to compare")
		}

		fmt.Fprint(cmd.OutOrStdout(), chart.RenderText(chart.Build(list, metric)))
		return nil
	},
}
