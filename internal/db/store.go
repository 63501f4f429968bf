package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"herowiki/internal/heroes"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("herowiki/internal/db")

var ErrNotFound = errors.New("not found")

// ResetTables empties both tables, abilities first.
func (q *Queries) ResetTables(ctx context.Context) error {
	err := q.ResetAbilities(ctx)
	if err != nil {
		return err
	}
	return q.ResetHeroes(ctx)
}

// Store is the read/write surface the commands and the web interface use,
// it speaks heroes.Hero instead of table rows.
type Store struct {
	qry    *Queries
	makeTx MakeTx
}

func NewStore(database *sql.DB) Store {
	return Store{
		qry:    New(database),
		makeTx: NewMakeTx(database),
	}
}

// Replace rewrites both tables with the given heroes in a single transaction.
func (s Store) Replace(ctx context.Context, list []heroes.Hero) error {
	ctx, span := tracer.Start(ctx, "Replace")
	defer span.End()
	span.SetAttributes(attribute.Int("heroes", len(list)))

	tx, discard, commit, err := s.makeTx(ctx)
	if err != nil {
		return err
	}
	defer discard()

	err = tx.ResetTables(ctx)
	if err != nil {
		return fmt.Errorf("reset tables: %w", err)
	}

	for _, hero := range list {
		id, err := tx.InsertHero(ctx, heroParams(hero))
		if err != nil {
			return fmt.Errorf("insert hero '%s': %w", hero.Name, err)
		}
		for _, ability := range hero.Abilities {
			err = tx.InsertAbility(ctx, InsertAbilityParams{
				Name:        ability.Name,
				Description: ability.Description,
				Stats:       ability.Stats,
				Heroid:      id,
				VideoUrl:    ability.VideoURL,
			})
			if err != nil {
				return fmt.Errorf("insert ability '%s' of '%s': %w", ability.Name, hero.Name, err)
			}
		}
	}

	return commit()
}

// Hero returns a hero with its abilities, ErrNotFound if there is no hero
// by that name.
func (s Store) Hero(ctx context.Context, name string) (heroes.Hero, error) {
	row, err := s.qry.HeroByName(ctx, name)
	if errors.Is(err, sql.ErrNoRows) {
		return heroes.Hero{}, ErrNotFound
	}
	if err != nil {
		return heroes.Hero{}, err
	}
	hero := heroFromRow(row)

	abilities, err := s.qry.AbilitiesByHero(ctx, row.Name)
	if err != nil {
		return heroes.Hero{}, err
	}
	hero.Abilities = abilitiesFromRows(abilities)
	return hero, nil
}

// HeroesByRole lists heroes without their abilities, an empty role lists all.
func (s Store) HeroesByRole(ctx context.Context, role heroes.Role) ([]heroes.Hero, error) {
	rows, err := s.qry.HeroesByRole(ctx, string(role))
	if err != nil {
		return nil, err
	}
	out := make([]heroes.Hero, len(rows))
	for i, r := range rows {
		out[i] = heroFromRow(r)
	}
	return out, nil
}

// AbilitiesByName returns every ability with the name, one per hero that has it.
func (s Store) AbilitiesByName(ctx context.Context, name string) ([]heroes.Ability, error) {
	rows, err := s.qry.AbilitiesByName(ctx, name)
	if err != nil {
		return nil, err
	}
	return abilitiesFromRows(rows), nil
}

func (s Store) AbilitiesByHero(ctx context.Context, heroName string) ([]heroes.Ability, error) {
	rows, err := s.qry.AbilitiesByHero(ctx, heroName)
	if err != nil {
		return nil, err
	}
	return abilitiesFromRows(rows), nil
}

func (s Store) Abilities(ctx context.Context) ([]heroes.Ability, error) {
	rows, err := s.qry.AllAbilities(ctx)
	if err != nil {
		return nil, err
	}
	return abilitiesFromRows(rows), nil
}

func heroParams(h heroes.Hero) InsertHeroParams {
	return InsertHeroParams{
		Name:        h.Name,
		Role:        string(h.Role),
		Description: h.Description,
		Quote:       h.Quote,
		RealName:    h.RealName,
		Age:         h.Age,
		Nationality: h.Nationality,
		Occupation:  h.Occupation,
		Base:        h.Base,
		Affiliation: h.Affiliation,
		Health:      h.Health,
		Armor:       h.Armor,
		Shield:      h.Shield,
		PickRate:    h.PickRate,
		WinRate:     h.WinRate,
		TieRate:     h.TieRate,
		OnfireRate:  h.OnFireRate,
		PoseUrl:     h.PoseURL,
	}
}

func heroFromRow(r Hero) heroes.Hero {
	return heroes.Hero{
		Name:        r.Name,
		Role:        heroes.Role(r.Role),
		Description: r.Description,
		Quote:       r.Quote,
		PoseURL:     r.PoseUrl,
		Health:      r.Health,
		Armor:       r.Armor,
		Shield:      r.Shield,
		RealName:    r.RealName,
		Age:         r.Age,
		Nationality: r.Nationality,
		Occupation:  r.Occupation,
		Base:        r.Base,
		Affiliation: r.Affiliation,
		PickRate:    r.PickRate,
		WinRate:     r.WinRate,
		TieRate:     r.TieRate,
		OnFireRate:  r.OnfireRate,
	}
}

func abilitiesFromRows(rows []AbilityWithHeroRow) []heroes.Ability {
	out := make([]heroes.Ability, len(rows))
	for i, r := range rows {
		out[i] = heroes.Ability{
			Name:        r.Name,
			Description: r.Description,
			VideoURL:    r.VideoUrl,
			Stats:       r.Stats,
			Hero:        r.HeroName,
		}
	}
	return out
}
