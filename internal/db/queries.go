package db

import (
	"context"
)

const resetAbilities = `-- name: ResetAbilities :exec
DELETE FROM abilities
`

func (q *Queries) ResetAbilities(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, resetAbilities)
	return err
}

const resetHeroes = `-- name: ResetHeroes :exec
DELETE FROM heroes
`

func (q *Queries) ResetHeroes(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, resetHeroes)
	return err
}

const insertHero = `-- name: InsertHero :one
INSERT INTO heroes (
    Name, Role, Description, Quote, Real_Name, Age, Nationality, Occupation,
    Base, Affiliation, Health, Armor, Shield, Pick_Rate, Win_Rate, Tie_Rate,
    OnFire_Rate, Pose_URL
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING Id
`

type InsertHeroParams struct {
	Name        string
	Role        string
	Description string
	Quote       string
	RealName    string
	Age         string
	Nationality string
	Occupation  string
	Base        string
	Affiliation string
	Health      string
	Armor       string
	Shield      string
	PickRate    float64
	WinRate     float64
	TieRate     float64
	OnfireRate  float64
	PoseUrl     string
}

func (q *Queries) InsertHero(ctx context.Context, arg InsertHeroParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, insertHero,
		arg.Name,
		arg.Role,
		arg.Description,
		arg.Quote,
		arg.RealName,
		arg.Age,
		arg.Nationality,
		arg.Occupation,
		arg.Base,
		arg.Affiliation,
		arg.Health,
		arg.Armor,
		arg.Shield,
		arg.PickRate,
		arg.WinRate,
		arg.TieRate,
		arg.OnfireRate,
		arg.PoseUrl,
	)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const insertAbility = `-- name: InsertAbility :exec
INSERT INTO abilities (Name, Description, Stats, HeroId, Video_URL)
VALUES (?, ?, ?, ?, ?)
`

type InsertAbilityParams struct {
	Name        string
	Description string
	Stats       string
	Heroid      int64
	VideoUrl    string
}

func (q *Queries) InsertAbility(ctx context.Context, arg InsertAbilityParams) error {
	_, err := q.db.ExecContext(ctx, insertAbility,
		arg.Name,
		arg.Description,
		arg.Stats,
		arg.Heroid,
		arg.VideoUrl,
	)
	return err
}

const heroColumns = `Id, Name, Role, Description, Quote, Real_Name, Age, Nationality, Occupation,
    Base, Affiliation, Health, Armor, Shield, Pick_Rate, Win_Rate, Tie_Rate,
    OnFire_Rate, Pose_URL`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanHero(row rowScanner) (Hero, error) {
	var i Hero
	err := row.Scan(
		&i.Id,
		&i.Name,
		&i.Role,
		&i.Description,
		&i.Quote,
		&i.RealName,
		&i.Age,
		&i.Nationality,
		&i.Occupation,
		&i.Base,
		&i.Affiliation,
		&i.Health,
		&i.Armor,
		&i.Shield,
		&i.PickRate,
		&i.WinRate,
		&i.TieRate,
		&i.OnfireRate,
		&i.PoseUrl,
	)
	return i, err
}

const heroByName = `-- name: HeroByName :one
SELECT ` + heroColumns + ` FROM heroes
WHERE Name = ? COLLATE NOCASE
LIMIT 1
`

func (q *Queries) HeroByName(ctx context.Context, name string) (Hero, error) {
	row := q.db.QueryRowContext(ctx, heroByName, name)
	return scanHero(row)
}

const heroesByRole = `-- name: HeroesByRole :many
SELECT ` + heroColumns + ` FROM heroes
WHERE ?1 = '' OR Role = ?1 COLLATE NOCASE
ORDER BY Id
`

// HeroesByRole lists every hero when role is empty.
func (q *Queries) HeroesByRole(ctx context.Context, role string) ([]Hero, error) {
	rows, err := q.db.QueryContext(ctx, heroesByRole, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Hero
	for rows.Next() {
		i, err := scanHero(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

type AbilityWithHeroRow struct {
	Name        string
	Description string
	Stats       string
	VideoUrl    string
	HeroName    string
}

const abilityWithHeroSelect = `SELECT abilities.Name, abilities.Description, abilities.Stats, abilities.Video_URL, heroes.Name
FROM abilities JOIN heroes ON abilities.HeroId = heroes.Id
`

const abilitiesByName = `-- name: AbilitiesByName :many
` + abilityWithHeroSelect + `WHERE abilities.Name = ? COLLATE NOCASE
ORDER BY abilities.Id
`

func (q *Queries) AbilitiesByName(ctx context.Context, name string) ([]AbilityWithHeroRow, error) {
	return q.abilitiesWithHero(ctx, abilitiesByName, name)
}

const abilitiesByHero = `-- name: AbilitiesByHero :many
` + abilityWithHeroSelect + `WHERE heroes.Name = ? COLLATE NOCASE
ORDER BY abilities.Id
`

func (q *Queries) AbilitiesByHero(ctx context.Context, heroName string) ([]AbilityWithHeroRow, error) {
	return q.abilitiesWithHero(ctx, abilitiesByHero, heroName)
}

const allAbilities = `-- name: AllAbilities :many
` + abilityWithHeroSelect + `ORDER BY abilities.Id
`

func (q *Queries) AllAbilities(ctx context.Context) ([]AbilityWithHeroRow, error) {
	return q.abilitiesWithHero(ctx, allAbilities)
}

func (q *Queries) abilitiesWithHero(ctx context.Context, query string, args ...interface{}) ([]AbilityWithHeroRow, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []AbilityWithHeroRow
	for rows.Next() {
		var i AbilityWithHeroRow
		if err := rows.Scan(
			&i.Name,
			&i.Description,
			&i.Stats,
			&i.VideoUrl,
			&i.HeroName,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
