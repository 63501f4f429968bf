package collector

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"herowiki/internal/components/telemetry"
	"herowiki/internal/heroes"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
)

type fakeFetcher map[string]string

func (f fakeFetcher) Fetch(_ context.Context, endpoint string, _ map[string]string) (string, error) {
	body, ok := f[endpoint]
	if !ok {
		return "", fmt.Errorf("no page for %s", endpoint)
	}
	return body, nil
}

const (
	officialBase  = "https://official.test"
	gamepediaBase = "https://wiki.test"
	overbuffUrl   = "https://stats.test/heroes"
)

func officialIndex(names ...string) string {
	var b strings.Builder
	b.WriteString(`<div class="heroes-container" id="heroes-selector-container">`)
	for _, name := range names {
		fmt.Fprintf(
			&b,
			`<div><a href="/en-us/heroes/%s/"><span class="portrait-title">%s</span></a></div>`,
			strings.ToLower(name), name,
		)
	}
	b.WriteString(`</div>`)
	return b.String()
}

func officialHero(role string, abilities ...string) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<div class="hero-detail-role"><h4>%s</h4></div>`, role)
	b.WriteString(`<p class="hero-detail-description">A hero.</p>`)
	b.WriteString(`<div class="hero-detail-wrapper m-same-pad">`)
	for _, ability := range abilities {
		fmt.Fprintf(
			&b,
			`<div class="hero-ability"><div class="hero-ability-descriptor"><h4>%s</h4><p>Does things.</p></div></div>`,
			ability,
		)
	}
	b.WriteString(`</div>`)
	return b.String()
}

func wikiIndex(names ...string) string {
	var b strings.Builder
	b.WriteString(`<table><tbody><tr>`)
	for _, name := range names {
		fmt.Fprintf(&b, `<td style="width:12.5%%;"><a href="/%s">%s</a></td>`, name, name)
	}
	b.WriteString(`</tr></tbody></table>`)
	return b.String()
}

const anaWikiPage = `
<table class="infoboxtable">
<tr><td><div>Real Name</div></td><td>Ana Amari</td></tr>
<tr><td><div>Health</div></td><td>200</td></tr>
</table>
<div class="ability_details_main">
	<div class="abilityHeader">biotic rifle</div>
	<div style="border-bottom:1px solid white;">
		<div style="width:50%;"><div style="padding-top:5px;">Weapon</div></div>
	</div>
	<div style="padding:5px;">
		<div style="display:block;"><div style="padding-right:3px;">Ammo:</div><div style="display:inline-block;">14</div></div>
	</div>
</div>
<div class="ability_details_main">
	<div class="abilityHeader">Nano Boost</div>
</div>
`

func statsTable(rows ...string) string {
	return `<table class="table-data table-sortable"><tbody>` + strings.Join(rows, "") + `</tbody></table>`
}

func statsRow(name, pick, win, tie, onFire string) string {
	return fmt.Sprintf(
		`<tr><td><span><a href="#">%s</a></span></td><td><span>%s</span></td><td><span>%s</span></td><td><span>%s</span></td><td><span>%s</span></td></tr>`,
		name, pick, win, tie, onFire,
	)
}

func newTestCollector(t testing.TB, pages fakeFetcher) (*Collector, *telemetry.RecorderAPI) {
	tel := telemetry.NewRecorderAPI()
	c, err := New(pages, Options{
		OfficialUrl:  officialBase,
		GamepediaUrl: gamepediaBase,
		OverbuffUrl:  overbuffUrl,
	}, tel)
	require.NoError(t, err)
	return c, tel
}

func fullSite() fakeFetcher {
	return fakeFetcher{
		officialBase + "/en-us/heroes/":           officialIndex("Ana", "Reinhardt"),
		officialBase + "/en-us/heroes/ana/":       officialHero("Support", "Biotic Rifle", "Sleep Dart"),
		officialBase + "/en-us/heroes/reinhardt/": officialHero("Tank", "Charge"),

		gamepediaBase + "/Heroes": wikiIndex("Ana", "Reinhardt", "Reinhart2"),
		gamepediaBase + "/Ana":    anaWikiPage,

		overbuffUrl: statsTable(
			statsRow("ANA", "10%", "51.5%", "1%", "8%"),
			statsRow("Reinhardt", "7%", "49%", "0.5%", "6%"),
			statsRow("Echo", "3%", "50%", "1%", "9%"),
		),
	}
}

func TestCollect(t *testing.T) {
	c, tel := newTestCollector(t, fullSite())

	result, err := c.Collect(context.Background())
	require.NoError(t, err)
	require.Len(t, result.Heroes, 2)

	ana := result.Heroes[0]
	require.Equal(t, "Ana", ana.Name)
	require.Equal(t, heroes.ROLE_SUPPORT, ana.Role)
	require.Equal(t, "Ana Amari", ana.RealName)
	require.Equal(t, "200", ana.Health)
	require.Equal(t, "0", ana.Armor)
	require.Equal(t, "Type: Weapon\nAmmo: 14.\n", ana.Ability("Biotic Rifle").Stats)
	require.Empty(t, ana.Ability("Sleep Dart").Stats)
	require.Equal(t, 10.0, ana.PickRate)
	require.Equal(t, 51.5, ana.WinRate)

	reinhardt := result.Heroes[1]
	require.Equal(t, heroes.ROLE_TANK, reinhardt.Role)
	require.Equal(t, "0", reinhardt.Health)
	require.Equal(t, 49.0, reinhardt.WinRate)

	diff := cmp.Diff(
		[]Outcome{
			{Source: SOURCE_GAMEPEDIA, Hero: "Ana", Status: STATUS_APPLIED},
			{Source: SOURCE_GAMEPEDIA, Hero: "Reinhardt", Status: STATUS_SKIPPED},
			{Source: SOURCE_GAMEPEDIA, Hero: "Reinhart2", Status: STATUS_SKIPPED},
			{Source: SOURCE_OVERBUFF, Hero: "ANA", Status: STATUS_APPLIED},
			{Source: SOURCE_OVERBUFF, Hero: "Reinhardt", Status: STATUS_APPLIED},
			{Source: SOURCE_OVERBUFF, Hero: "Echo", Status: STATUS_SKIPPED},
		},
		result.Outcomes,
		cmpopts.IgnoreFields(Outcome{}, "Reason"),
	)
	if diff != "" {
		t.Fatal(diff)
	}

	skipped := result.Skipped()
	require.Len(t, skipped, 3)
	require.Contains(t, skipped[0].Reason, "no page for")
	require.Contains(t, skipped[1].Reason, "closest: 'Reinhardt'")
	require.Len(t, tel.Find("warning", report_collector_skip), 3)
	require.Equal(t, int64(2), tel.Counts["collector: collector.heroes"])
}

func TestCollectOfficialFailureIsFatal(t *testing.T) {
	pages := fullSite()
	delete(pages, officialBase+"/en-us/heroes/reinhardt/")
	c, _ := newTestCollector(t, pages)

	_, err := c.Collect(context.Background())
	require.ErrorContains(t, err, "Reinhardt")
}

func TestCollectSecondarySourcesDown(t *testing.T) {
	pages := fakeFetcher{
		officialBase + "/en-us/heroes/":     officialIndex("Ana"),
		officialBase + "/en-us/heroes/ana/": officialHero("Support"),
	}
	c, _ := newTestCollector(t, pages)

	result, err := c.Collect(context.Background())
	require.NoError(t, err)
	require.Len(t, result.Heroes, 1)

	diff := cmp.Diff(
		[]Outcome{
			{Source: SOURCE_GAMEPEDIA, Status: STATUS_SKIPPED},
			{Source: SOURCE_OVERBUFF, Status: STATUS_SKIPPED},
		},
		result.Outcomes,
		cmpopts.IgnoreFields(Outcome{}, "Reason"),
	)
	if diff != "" {
		t.Fatal(diff)
	}
}

func TestClosestName(t *testing.T) {
	testCases := []struct {
		name       string
		candidates []string
		expected   string
		ok         bool
	}{
		{name: "Lucio", candidates: []string{"Lúcio", "Mercy"}, expected: "Lúcio", ok: true},
		{name: "soldier 76", candidates: []string{"Ana", "Soldier: 76"}, expected: "Soldier: 76", ok: true},
		{name: "x", candidates: nil, ok: false},
	}

	for _, test := range testCases {
		closest, _, ok := closestName(test.name, test.candidates)
		require.Equal(t, test.ok, ok, test.name)
		require.Equal(t, test.expected, closest, test.name)
	}
}
