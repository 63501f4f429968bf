package gamepedia

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"herowiki/internal/components/telemetry"
	"herowiki/internal/scrapers"
	"herowiki/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

const (
	DefaultBaseUrl = "https://overwatch.gamepedia.com"
	IndexPath      = "/Heroes"
)

const (
	report_client_hero_index   = "client.hero-index"
	report_client_hero_details = "client.hero-details"
)

type Entry struct {
	Name string
	Url  string
}

// AbilityStats is the stat block the wiki shows under an ability.
type AbilityStats struct {
	Name string
	// Stats is "Type: <type>" followed by one line per stat row.
	Stats string
}

// Details is everything the wiki adds on top of the official hero page.
type Details struct {
	RealName    string
	Age         string
	Nationality string
	Occupation  string
	Base        string
	Affiliation string
	Health      string
	Armor       string
	Shields     string

	Abilities []AbilityStats
}

type Client struct {
	BaseUrl *url.URL
	fetcher scrapers.Fetcher
	tel     telemetry.API
}

func NewClient(fetcher scrapers.Fetcher, baseUrl string, tel telemetry.API) (*Client, error) {
	if baseUrl == "" {
		baseUrl = DefaultBaseUrl
	}
	parsed, err := url.Parse(baseUrl)
	if err != nil {
		return nil, fmt.Errorf("gamepedia scraper: parse base url: %w", err)
	}
	return &Client{
		BaseUrl: parsed,
		fetcher: fetcher,
		tel:     telemetry.NewScopedAPI("gamepedia_scraper", tel),
	}, nil
}

func (c *Client) HeroIndex(ctx context.Context) ([]Entry, error) {
	indexUrl := c.BaseUrl.ResolveReference(&url.URL{Path: IndexPath}).String()
	body, err := c.fetcher.Fetch(ctx, indexUrl, nil)
	if err != nil {
		c.tel.ReportBroken(report_client_hero_index, err)
		return nil, err
	}
	entries, err := ParseIndex(ctx, body, c.BaseUrl)
	if err != nil {
		c.tel.ReportBroken(report_client_hero_index, err)
		return nil, err
	}
	return entries, nil
}

func (c *Client) HeroDetails(ctx context.Context, entry Entry) (Details, error) {
	body, err := c.fetcher.Fetch(ctx, entry.Url, nil)
	if err != nil {
		c.tel.ReportWarning(report_client_hero_details, err, entry.Name)
		return Details{}, err
	}
	details, err := ParseHeroDetails(body)
	if err != nil {
		c.tel.ReportWarning(report_client_hero_details, err, entry.Name)
		return Details{}, err
	}
	return details, nil
}

func parse(body string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewBufferString(body))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return doc, nil
}

// ParseIndex reads the hero cells of the first table on the heroes page.
func ParseIndex(ctx context.Context, body string, base *url.URL) ([]Entry, error) {
	doc, err := parse(body)
	if err != nil {
		return nil, err
	}

	table := doc.Find("tbody").First()
	if table.Length() == 0 {
		return nil, fmt.Errorf("could not find heroes table")
	}

	var entries []Entry
	table.Find(`td[style*="width:12.5%"]`).Each(func(_ int, td *goquery.Selection) {
		for _, anchor := range htmlutil.GetAnchors(ctx, td.Find("a").First(), base) {
			if anchor.Name == "" {
				continue
			}
			entries = append(entries, Entry{Name: anchor.Name, Url: anchor.Href})
		}
	})

	return entries, nil
}

// ParseHeroDetails reads the infobox and the ability stat blocks of a hero
// page. The infobox is required, stat blocks are optional.
func ParseHeroDetails(body string) (Details, error) {
	doc, err := parse(body)
	if err != nil {
		return Details{}, err
	}

	var details Details

	doc.Find("div.ability_details_main").Each(func(_ int, block *goquery.Selection) {
		stats, ok := parseAbilityStats(block)
		if ok {
			details.Abilities = append(details.Abilities, stats)
		}
	})

	infobox := doc.Find("table.infoboxtable").First()
	if infobox.Length() == 0 {
		return Details{}, fmt.Errorf("could not find infobox")
	}
	infobox.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		label := tr.Find("div").First()
		if label.Length() == 0 {
			return
		}
		cells := tr.Find("td")
		if cells.Length() < 2 {
			return
		}
		value := htmlutil.Text(cells.Eq(1))

		switch strings.ToLower(htmlutil.Text(label)) {
		case "real name":
			details.RealName = value
		case "age":
			details.Age = value
		case "nationality":
			details.Nationality = value
		case "occupation":
			details.Occupation = value
		case "base":
			details.Base = value
		case "affiliation":
			details.Affiliation = value
		case "health":
			details.Health = value
		case "armor":
			details.Armor = value
		case "shields":
			details.Shields = value
		}
	})

	return details, nil
}

func parseAbilityStats(block *goquery.Selection) (AbilityStats, bool) {
	nameStrings := htmlutil.Strings(block.Find("div.abilityHeader").First())
	if len(nameStrings) == 0 {
		return AbilityStats{}, false
	}
	name := htmlutil.CleanText(nameStrings[0])
	if name == "" {
		return AbilityStats{}, false
	}

	abilityType := htmlutil.Text(
		block.Find(`div[style*="border-bottom:1px solid white"]`).
			Find(`div[style*="width:50%"]`).First().
			Find(`div[style*="padding-top:5px"]`).First(),
	)

	var stats strings.Builder
	stats.WriteString("Type: " + abilityType + "\n")

	block.Find(`div[style="padding:5px;"]`).First().
		Find(`div[style="display:block;"]`).
		Each(func(_ int, row *goquery.Selection) {
			line := []string{htmlutil.Text(row.Find(`div[style*="padding-right:3px"]`).First())}
			for _, s := range htmlutil.Strings(row.Find(`div[style="display:inline-block;"]`).First()) {
				s = htmlutil.CleanText(s)
				if s == "" {
					continue
				}
				line = append(line, s+".")
			}
			stats.WriteString(strings.TrimSpace(strings.Join(line, " ")) + "\n")
		})

	return AbilityStats{Name: name, Stats: stats.String()}, true
}
