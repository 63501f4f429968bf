package commands

import (
	"errors"
	"fmt"
	"strings"

	"herowiki/internal/db"
	"herowiki/internal/heroes"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(heroCmd)
	rootCmd.AddCommand(roleCmd)
	rootCmd.AddCommand(abilityCmd)
	rootCmd.AddCommand(abilitiesCmd)
}

var heroCmd = &cobra.Command{
	Use:   "hero <name>",
	Short: "Shows everything known about a hero.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, done, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer done()

		name := strings.Join(args, " ")
		hero, err := store.Hero(cmd.Context(), name)
		if errors.Is(err, db.ErrNotFound) {
			return fmt.Errorf("no hero named '%s'", name)
		}
		if err != nil {
			return err
		}

		t := newTable(cmd.OutOrStdout())
		t.SetTitle(hero.Name)
		t.AppendRows([]table.Row{
			{"Role", hero.Role},
			{"Description", hero.Description},
			{"Quote", hero.Quote},
			{"Real Name", hero.RealName},
			{"Age", hero.Age},
			{"Nationality", hero.Nationality},
			{"Occupation", hero.Occupation},
			{"Base", hero.Base},
			{"Affiliation", hero.Affiliation},
		})
		t.AppendSeparator()
		t.AppendRows([]table.Row{
			{"Health", hero.Health},
			{"Armor", hero.Armor},
			{"Shield", hero.Shield},
		})
		t.AppendSeparator()
		t.AppendRows([]table.Row{
			{"Pick Rate", fmt.Sprintf("%g%%", hero.PickRate)},
			{"Win Rate", fmt.Sprintf("%g%%", hero.WinRate)},
			{"Tie Rate", fmt.Sprintf("%g%%", hero.TieRate)},
			{"On Fire Rate", fmt.Sprintf("%g%%", hero.OnFireRate)},
		})
		if hero.PoseURL != "" {
			t.AppendSeparator()
			t.AppendRow(table.Row{"Pose Image", hero.PoseURL})
		}
		t.Render()

		renderAbilities(cmd, hero.Abilities)
		return nil
	},
}

var roleCmd = &cobra.Command{
	Use:   "role [role]",
	Short: "Lists the heroes of a role, or every hero.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var role heroes.Role
		if len(args) == 1 {
			var ok bool
			role, ok = heroes.ParseRole(args[0])
			if !ok {
				return fmt.Errorf("unknown role '%s', expected one of %v", args[0], heroes.Roles)
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

		t := newTable(cmd.OutOrStdout())
		t.AppendHeader(table.Row{"#", "Name", "Role", "Health", "Pick Rate", "Win Rate"})
		for i, h := range list {
			t.AppendRow(table.Row{
				i + 1,
				h.Name,
				h.Role,
				h.Health,
				fmt.Sprintf("%g%%", h.PickRate),
				fmt.Sprintf("%g%%", h.WinRate),
			})
		}
		t.Render()
		return nil
	},
}

var abilityCmd = &cobra.Command{
	Use:   "ability <name>",
	Short: "Shows the abilities with a given name.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, done, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer done()

		name := strings.Join(args, " ")
		list, err := store.AbilitiesByName(cmd.Context(), name)
		if err != nil {
			return err
		}
		if len(list) == 0 {
			return fmt.Errorf("no ability named '%s'", name)
		}
		renderAbilities(cmd, list)
		return nil
	},
}

var abilitiesCmd = &cobra.Command{
	Use:   "abilities <hero>",
	Short: "Lists the abilities of a hero.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, done, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer done()

		name := strings.Join(args, " ")
		list, err := store.AbilitiesByHero(cmd.Context(), name)
		if err != nil {
			return err
		}
		if len(list) == 0 {
			return fmt.Errorf("no abilities for hero '%s'", name)
		}
		renderAbilities(cmd, list)
		return nil
	},
}

func renderAbilities(cmd *cobra.Command, list []heroes.Ability) {
	t := newTable(cmd.OutOrStdout())
	t.AppendHeader(table.Row{"Hero", "Ability", "Description", "Stats", "Video"})
	for _, a := range list {
		t.AppendRow(table.Row{
			a.Hero,
			a.Name,
			a.Description,
			strings.TrimRight(a.Stats, "\n"),
			a.VideoURL,
		})
	}
	t.Render()
}
