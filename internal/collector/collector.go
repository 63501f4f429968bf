// Package collector builds the full hero records by combining the three
// scrapers: the official site is the primary source, the wiki and the match
// statistics site only enrich heroes the official site already knows about.
package collector

import (
	"context"
	"fmt"

	"herowiki/internal/components/telemetry"
	"herowiki/internal/heroes"
	"herowiki/internal/scrapers"
	"herowiki/internal/scrapers/gamepedia"
	"herowiki/internal/scrapers/official"
	"herowiki/internal/scrapers/overbuff"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("herowiki/internal/collector")

const report_collector_skip = "collector.skip"

type Source string

const (
	SOURCE_OFFICIAL  Source = "official"
	SOURCE_GAMEPEDIA Source = "gamepedia"
	SOURCE_OVERBUFF  Source = "overbuff"
)

type Status string

const (
	STATUS_APPLIED Status = "applied"
	STATUS_SKIPPED Status = "skipped"
)

// Outcome is what happened to a single enrichment record.
type Outcome struct {
	Source Source
	// Hero is the name as the source spelled it, empty when a whole source
	// could not be read.
	Hero   string
	Status Status
	Reason string
}

type Result struct {
	// Heroes is in the order of the official index.
	Heroes   []heroes.Hero
	Outcomes []Outcome
}

// Skipped returns the outcomes that were not applied.
func (r Result) Skipped() []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if o.Status == STATUS_SKIPPED {
			out = append(out, o)
		}
	}
	return out
}

type Options struct {
	OfficialUrl  string
	GamepediaUrl string
	OverbuffUrl  string
}

type Collector struct {
	official  *official.Client
	gamepedia *gamepedia.Client
	overbuff  *overbuff.Client
	tel       telemetry.API
}

func New(fetcher scrapers.Fetcher, opts Options, tel telemetry.API) (*Collector, error) {
	officialClient, err := official.NewClient(fetcher, opts.OfficialUrl, tel)
	if err != nil {
		return nil, err
	}
	gamepediaClient, err := gamepedia.NewClient(fetcher, opts.GamepediaUrl, tel)
	if err != nil {
		return nil, err
	}
	return &Collector{
		official:  officialClient,
		gamepedia: gamepediaClient,
		overbuff:  overbuff.NewClient(fetcher, opts.OverbuffUrl, tel),
		tel:       telemetry.NewScopedAPI("collector", tel),
	}, nil
}

// heroSet indexes heroes by heroes.Key while keeping index order.
type heroSet struct {
	list  []heroes.Hero
	byKey map[string]int
}

func (s *heroSet) add(hero heroes.Hero) {
	key := heroes.Key(hero.Name)
	if i, ok := s.byKey[key]; ok {
		s.list[i] = hero
		return
	}
	s.byKey[key] = len(s.list)
	s.list = append(s.list, hero)
}

func (s *heroSet) get(name string) *heroes.Hero {
	i, ok := s.byKey[heroes.Key(name)]
	if !ok {
		return nil
	}
	return &s.list[i]
}

func (s *heroSet) names() []string {
	names := make([]string, len(s.list))
	for i, h := range s.list {
		names[i] = h.Name
	}
	return names
}

// Collect scrapes every source. Only a failure of the official site is
// returned as an error, everything else ends up as a skipped Outcome.
func (c *Collector) Collect(ctx context.Context) (Result, error) {
	ctx, span := tracer.Start(ctx, "Collect")
	defer span.End()

	set := &heroSet{byKey: map[string]int{}}

	entries, err := c.official.HeroIndex(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("official hero index: %w", err)
	}
	for _, entry := range entries {
		hero, err := c.official.Hero(ctx, entry)
		if err != nil {
			return Result{}, fmt.Errorf("official hero page of '%s': %w", entry.Name, err)
		}
		set.add(hero)
	}

	var outcomes []Outcome
	outcomes = append(outcomes, c.enrichFromWiki(ctx, set)...)
	outcomes = append(outcomes, c.enrichFromMatchStats(ctx, set)...)

	skipped := 0
	for _, o := range outcomes {
		if o.Status == STATUS_SKIPPED {
			skipped++
			c.tel.ReportWarning(report_collector_skip, string(o.Source), o.Hero, o.Reason)
		}
	}
	c.tel.ReportCount("collector.heroes", int64(len(set.list)))
	c.tel.ReportCount("collector.skipped", int64(skipped))
	span.SetAttributes(
		attribute.Int("heroes", len(set.list)),
		attribute.Int("skipped", skipped),
	)

	return Result{Heroes: set.list, Outcomes: outcomes}, nil
}

func (c *Collector) enrichFromWiki(ctx context.Context, set *heroSet) []Outcome {
	ctx, span := tracer.Start(ctx, "enrichFromWiki")
	defer span.End()

	entries, err := c.gamepedia.HeroIndex(ctx)
	if err != nil {
		return []Outcome{skip(SOURCE_GAMEPEDIA, "", fmt.Sprintf("hero index unavailable: %v", err))}
	}

	var outcomes []Outcome
	for _, entry := range entries {
		hero := set.get(entry.Name)
		if hero == nil {
			outcomes = append(outcomes, skip(SOURCE_GAMEPEDIA, entry.Name, unknownHeroReason(entry.Name, set)))
			continue
		}

		details, err := c.gamepedia.HeroDetails(ctx, entry)
		if err != nil {
			outcomes = append(outcomes, skip(SOURCE_GAMEPEDIA, entry.Name, err.Error()))
			continue
		}
		applyDetails(hero, details)
		outcomes = append(outcomes, Outcome{
			Source: SOURCE_GAMEPEDIA,
			Hero:   entry.Name,
			Status: STATUS_APPLIED,
		})
	}
	return outcomes
}

func applyDetails(hero *heroes.Hero, details gamepedia.Details) {
	for _, stats := range details.Abilities {
		ability := hero.Ability(stats.Name)
		if ability == nil {
			continue
		}
		ability.Stats += stats.Stats
	}

	hero.RealName = details.RealName
	hero.Age = details.Age
	hero.Nationality = details.Nationality
	hero.Occupation = details.Occupation
	hero.Base = details.Base
	hero.Affiliation = details.Affiliation
	if details.Health != "" {
		hero.Health = details.Health
	}
	if details.Armor != "" {
		hero.Armor = details.Armor
	}
	if details.Shields != "" {
		hero.Shield = details.Shields
	}
}

func (c *Collector) enrichFromMatchStats(ctx context.Context, set *heroSet) []Outcome {
	ctx, span := tracer.Start(ctx, "enrichFromMatchStats")
	defer span.End()

	rows, err := c.overbuff.MatchStats(ctx)
	if err != nil {
		return []Outcome{skip(SOURCE_OVERBUFF, "", fmt.Sprintf("match stats unavailable: %v", err))}
	}

	var outcomes []Outcome
	for _, row := range rows {
		if row.Err != nil {
			outcomes = append(outcomes, skip(SOURCE_OVERBUFF, row.Hero, row.Err.Error()))
			continue
		}
		hero := set.get(row.Hero)
		if hero == nil {
			outcomes = append(outcomes, skip(SOURCE_OVERBUFF, row.Hero, unknownHeroReason(row.Hero, set)))
			continue
		}
		hero.PickRate = row.PickRate
		hero.WinRate = row.WinRate
		hero.TieRate = row.TieRate
		hero.OnFireRate = row.OnFireRate
		outcomes = append(outcomes, Outcome{
			Source: SOURCE_OVERBUFF,
			Hero:   row.Hero,
			Status: STATUS_APPLIED,
		})
	}
	return outcomes
}

func skip(source Source, hero, reason string) Outcome {
	return Outcome{
		Source: source,
		Hero:   hero,
		Status: STATUS_SKIPPED,
		Reason: reason,
	}
}

func unknownHeroReason(name string, set *heroSet) string {
	closest, similarity, ok := closestName(name, set.names())
	if !ok {
		return "not listed on the official site"
	}
	return fmt.Sprintf(
		"not listed on the official site (closest: '%s', similarity %.2f)",
		closest, similarity,
	)
}
