// Package browse is the interactive, numbered-menu interface to the hero
// database. Every menu accepts "back" to return to its parent, the top menu
// accepts "exit".
package browse

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"herowiki/internal/chart"
	"herowiki/internal/db"
	"herowiki/internal/heroes"
)

const separator = "-----------------------------------------------------"

// Store is the read side of the hero database.
type Store interface {
	Hero(ctx context.Context, name string) (heroes.Hero, error)
	HeroesByRole(ctx context.Context, role heroes.Role) ([]heroes.Hero, error)
	AbilitiesByName(ctx context.Context, name string) ([]heroes.Ability, error)
	AbilitiesByHero(ctx context.Context, heroName string) ([]heroes.Ability, error)
}

// errQuit unwinds every menu when the user exits or input ends.
var errQuit = errors.New("quit")

type session struct {
	ctx   context.Context
	in    *bufio.Scanner
	out   io.Writer
	store Store
}

// Run drives the menus until the user exits or `in` is exhausted.
func Run(ctx context.Context, in io.Reader, out io.Writer, store Store) error {
	s := session{
		ctx:   ctx,
		in:    bufio.NewScanner(in),
		out:   out,
		store: store,
	}
	err := s.mainMenu()
	if errors.Is(err, errQuit) {
		s.println("Thank you!")
		return nil
	}
	return err
}

func (s session) println(a ...any) {
	fmt.Fprintln(s.out, a...)
}

func (s session) printf(format string, a ...any) {
	fmt.Fprintf(s.out, format, a...)
}

func (s session) prompt(label string) (string, error) {
	s.printf("%s", label)
	if !s.in.Scan() {
		if err := s.in.Err(); err != nil {
			return "", err
		}
		s.println()
		return "", errQuit
	}
	return strings.TrimSpace(s.in.Text()), nil
}

// choose prints a numbered menu and returns the 0-based index of the choice,
// -1 when the user typed `leave`. Invalid input re-prompts.
func (s session) choose(title string, options []string, leave string) (int, error) {
	for {
		s.println(separator)
		s.println("- " + title)
		for i, o := range options {
			s.printf("- %d. %s\n", i+1, o)
		}
		answer, err := s.prompt(fmt.Sprintf(`Enter the number of your choice or "%s": `, leave))
		if err != nil {
			return 0, err
		}
		answer = strings.ToLower(answer)
		if answer == leave {
			return -1, nil
		}
		n, err := strconv.Atoi(answer)
		if err == nil && n >= 1 && n <= len(options) {
			return n - 1, nil
		}
		s.println(separator)
		s.println("Invalid choice. Try again.")
	}
}

func (s session) mainMenu() error {
	s.println(separator)
	s.println("########## Welcome to Overwatch Hero Wiki! ##########")
	for {
		choice, err := s.choose(
			"What do you want to search for?",
			[]string{"Heroes", "Abilities", "Heroes comparison"},
			"exit",
		)
		if err != nil {
			return err
		}
		switch choice {
		case -1:
			return errQuit
		case 0:
			err = s.heroMenu()
		case 1:
			err = s.abilityMenu()
		case 2:
			err = s.compareMenu()
		}
		if err != nil {
			return err
		}
	}
}

func roleNames() []string {
	names := make([]string, len(heroes.Roles))
	for i, r := range heroes.Roles {
		names[i] = string(r)
	}
	return names
}

func (s session) heroMenu() error {
	for {
		choice, err := s.choose(
			"Which way do you want to search for a hero?",
			[]string{"By name", "By role"},
			"back",
		)
		if err != nil || choice == -1 {
			return err
		}

		if choice == 0 {
			name, err := s.prompt("Enter the name of the hero: ")
			if err != nil {
				return err
			}
			s.println(separator)
			hero, err := s.store.Hero(s.ctx, name)
			if errors.Is(err, db.ErrNotFound) {
				s.println("No result matches.")
				continue
			}
			if err != nil {
				return err
			}
			s.println(hero.Info())
			err = s.heroDetailMenu(hero)
			if err != nil {
				return err
			}
			continue
		}

		err = s.roleMenu()
		if err != nil {
			return err
		}
	}
}

func (s session) roleMenu() error {
	for {
		choice, err := s.choose("Which role do you want to search for?", roleNames(), "back")
		if err != nil || choice == -1 {
			return err
		}
		role := heroes.Roles[choice]

		list, err := s.store.HeroesByRole(s.ctx, role)
		if err != nil {
			return err
		}
		s.println(separator)
		if len(list) == 0 {
			s.println("No result matches.")
			continue
		}
		s.printf("%s heroes:\n", role)
		names := make([]string, len(list))
		for i, h := range list {
			s.printf("(%d) %s\n", i+1, h.Info())
			names[i] = h.Name
		}

		for {
			picked, err := s.choose("Which hero do you want to know more about?", names, "back")
			if err != nil {
				return err
			}
			if picked == -1 {
				break
			}
			err = s.heroDetailMenu(list[picked])
			if err != nil {
				return err
			}
		}
	}
}

func (s session) heroDetailMenu(hero heroes.Hero) error {
	for {
		choice, err := s.choose(
			"What else do you want to know for this hero?",
			[]string{"Detail info", "Abilities info", "Character stats", "Competition match stats", "Pose image"},
			"back",
		)
		if err != nil || choice == -1 {
			return err
		}
		s.println(separator)

		switch choice {
		case 0:
			s.printf("%s's detail information:\n%s\n", hero.Name, hero.DetailInfo())
		case 1:
			abilities, err := s.store.AbilitiesByHero(s.ctx, hero.Name)
			if err != nil {
				return err
			}
			s.printf("%s's abilities:\n", hero.Name)
			for i, a := range abilities {
				s.printf("(%d) %s\n", i+1, a.Info())
			}
		case 2:
			s.printf("%s's character stats:\n%s\n", hero.Name, hero.CharacterStats())
		case 3:
			s.printf("%s's competition match stats:\n%s\n", hero.Name, hero.MatchStats())
		case 4:
			if hero.PoseURL == "" {
				s.println("No pose image available.")
			} else {
				s.printf("Pose image: %s\n", hero.PoseURL)
			}
		}
	}
}

func (s session) abilityMenu() error {
	for {
		choice, err := s.choose(
			"Which way do you want to search for an ability?",
			[]string{"By ability name", "By hero name"},
			"back",
		)
		if err != nil || choice == -1 {
			return err
		}

		if choice == 0 {
			name, err := s.prompt("Enter the name of the ability: ")
			if err != nil {
				return err
			}
			s.println(separator)
			list, err := s.store.AbilitiesByName(s.ctx, name)
			if err != nil {
				return err
			}
			if len(list) == 0 {
				s.println("No result matches.")
				continue
			}
			s.printf("Belongs to hero: %s\n%s\n", list[0].Hero, list[0].Info())
			err = s.abilityDetailMenu(list[0])
			if err != nil {
				return err
			}
			continue
		}

		heroName, err := s.prompt("Enter the name of the hero: ")
		if err != nil {
			return err
		}
		s.println(separator)
		list, err := s.store.AbilitiesByHero(s.ctx, heroName)
		if err != nil {
			return err
		}
		if len(list) == 0 {
			s.println("No result matches.")
			continue
		}
		s.printf("%s's abilities:\n", heroName)
		names := make([]string, len(list))
		for i, a := range list {
			s.printf("(%d) %s\n", i+1, a.Info())
			names[i] = a.Name
		}
		for {
			picked, err := s.choose("Which ability do you want to know more about?", names, "back")
			if err != nil {
				return err
			}
			if picked == -1 {
				break
			}
			err = s.abilityDetailMenu(list[picked])
			if err != nil {
				return err
			}
		}
	}
}

func (s session) abilityDetailMenu(ability heroes.Ability) error {
	for {
		choice, err := s.choose(
			"What else do you want to know for this ability?",
			[]string{"Stats", "Instruction video"},
			"back",
		)
		if err != nil || choice == -1 {
			return err
		}
		s.println(separator)

		switch choice {
		case 0:
			s.printf("Stats of %s:\n%s\n", ability.Name, strings.Trim(ability.Stats, "\n"))
		case 1:
			if ability.VideoURL == "" {
				s.println("No instruction video available.")
			} else {
				s.printf("Instruction video: %s\n", ability.VideoURL)
			}
		}
	}
}

func (s session) compareMenu() error {
	for {
		choice, err := s.choose(
			"Which role of heroes do you want to do the comparison?",
			append(roleNames(), "All heroes"),
			"back",
		)
		if err != nil || choice == -1 {
			return err
		}

		var role heroes.Role
		if choice < len(heroes.Roles) {
			role = heroes.Roles[choice]
		}
		list, err := s.store.HeroesByRole(s.ctx, role)
		if err != nil {
			return err
		}
		if len(list) == 0 {
			s.println("No result matches.")
			continue
		}

		metricNames := make([]string, len(chart.Metrics))
		for i, m := range chart.Metrics {
			metricNames[i] = m.String()
		}
		for {
			picked, err := s.choose("Which stats do you want to compare?", metricNames, "back")
			if err != nil {
				return err
			}
			if picked == -1 {
				break
			}
			s.println(separator)
			s.printf("%s", chart.RenderText(chart.Build(list, chart.Metrics[picked])))
		}
	}
}
