package heroes

import (
	"fmt"
	"strings"
)

type Role string

const (
	ROLE_TANK    Role = "Tank"
	ROLE_DAMAGE  Role = "Damage"
	ROLE_SUPPORT Role = "Support"
)

// Roles lists every role in the order the menus present them.
var Roles = []Role{ROLE_SUPPORT, ROLE_DAMAGE, ROLE_TANK}

// ParseRole matches a role name case-insensitively.
func ParseRole(name string) (Role, bool) {
	for _, r := range Roles {
		if strings.EqualFold(string(r), strings.TrimSpace(name)) {
			return r, true
		}
	}
	return "", false
}

type Ability struct {
	Name        string
	Description string
	VideoURL    string
	// Stats is filled in by the wiki enrichment, it stays empty when the
	// wiki has no stat block for the ability.
	Stats string
	// Hero is the owning hero's name, it is only set when read back from the store.
	Hero string
}

type Hero struct {
	Name        string
	Role        Role
	Description string
	Quote       string
	PoseURL     string

	// health, armor and shield are kept as scraped (e.g. "200" or "250 (+50)")
	Health string
	Armor  string
	Shield string

	RealName    string
	Age         string
	Nationality string
	Occupation  string
	Base        string
	Affiliation string

	PickRate   float64
	WinRate    float64
	TieRate    float64
	OnFireRate float64

	Abilities []Ability
}

// New returns a hero with the defaults a freshly scraped record starts with.
func New(name string) Hero {
	return Hero{
		Name:   name,
		Health: "0",
		Armor:  "0",
		Shield: "0",
	}
}

// Key is the lookup key used to merge records from different sources.
func Key(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Ability returns a pointer to the hero's ability with the given name,
// compared case-insensitively.
func (h *Hero) Ability(name string) *Ability {
	for i := range h.Abilities {
		if strings.EqualFold(h.Abilities[i].Name, strings.TrimSpace(name)) {
			return &h.Abilities[i]
		}
	}
	return nil
}

func (h Hero) Info() string {
	return fmt.Sprintf("%s (%s): %s\nQuote: %s", h.Name, h.Role, h.Description, h.Quote)
}

func (h Hero) DetailInfo() string {
	return strings.Join([]string{
		"Real Name: " + h.RealName,
		"Age: " + h.Age,
		"Nationality: " + h.Nationality,
		"Occupation: " + h.Occupation,
		"Base: " + h.Base,
		"Affiliation: " + h.Affiliation,
	}, "\n")
}

func (h Hero) CharacterStats() string {
	return fmt.Sprintf("Health: %s\nArmor: %s\nShield: %s", h.Health, h.Armor, h.Shield)
}

func (h Hero) MatchStats() string {
	return fmt.Sprintf(
		"Pick rate: %g%%\nWin rate: %g%%\nTie rate: %g%%\nOn Fire rate: %g%%",
		h.PickRate, h.WinRate, h.TieRate, h.OnFireRate,
	)
}

func (a Ability) Info() string {
	return a.Name + ": " + a.Description
}
