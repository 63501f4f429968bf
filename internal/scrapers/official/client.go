// client.go contains everything needed to scrape the official hero pages.

package official

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"herowiki/internal/components/telemetry"
	"herowiki/internal/heroes"
	"herowiki/internal/scrapers"
	"herowiki/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

const (
	DefaultBaseUrl = "https://playoverwatch.com"
	IndexPath      = "/en-us/heroes/"
)

const (
	report_client_hero_index = "client.hero-index"
	report_client_hero       = "client.hero"
)

// Entry is a hero listed on the index page.
type Entry struct {
	Name string
	Url  string
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
		return nil, fmt.Errorf("official scraper: parse base url: %w", err)
	}
	return &Client{
		BaseUrl: parsed,
		fetcher: fetcher,
		tel:     telemetry.NewScopedAPI("official_scraper", tel),
	}, nil
}

// HeroIndex lists every hero on the index page, in page order.
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

// Hero scrapes the hero page of an index entry.
func (c *Client) Hero(ctx context.Context, entry Entry) (heroes.Hero, error) {
	body, err := c.fetcher.Fetch(ctx, entry.Url, nil)
	if err != nil {
		c.tel.ReportBroken(report_client_hero, err, entry.Name)
		return heroes.Hero{}, err
	}
	hero, err := ParseHero(entry.Name, body)
	if err != nil {
		c.tel.ReportBroken(report_client_hero, err, entry.Name)
		return heroes.Hero{}, err
	}
	return hero, nil
}

func parse(body string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewBufferString(body))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return doc, nil
}

// ParseIndex reads the hero portraits of the index page. Relative links are
// resolved against `base`.
func ParseIndex(ctx context.Context, body string, base *url.URL) ([]Entry, error) {
	doc, err := parse(body)
	if err != nil {
		return nil, err
	}

	container := doc.Find("div#heroes-selector-container.heroes-container")
	if container.Length() == 0 {
		return nil, fmt.Errorf("could not find heroes container")
	}

	var entries []Entry
	container.ChildrenFiltered("div").Each(func(_ int, div *goquery.Selection) {
		anchor := div.Find("a").First()
		name := htmlutil.Text(anchor.Find("span.portrait-title"))
		if name == "" {
			return
		}
		for _, link := range htmlutil.GetAnchors(ctx, anchor, base) {
			entries = append(entries, Entry{Name: name, Url: link.Href})
		}
	})

	return entries, nil
}

var poseUrlRegex = regexp.MustCompile(`[(](.*)[)]`)

// ParseHero reads a single hero page. The role and description are required,
// every other field is left empty when the page does not have it.
func ParseHero(name, body string) (heroes.Hero, error) {
	doc, err := parse(body)
	if err != nil {
		return heroes.Hero{}, err
	}

	hero := heroes.New(name)

	role := htmlutil.Text(doc.Find("div.hero-detail-role h4").First())
	if role == "" {
		return heroes.Hero{}, fmt.Errorf("could not find role of '%s'", name)
	}
	parsedRole, ok := heroes.ParseRole(role)
	if ok {
		hero.Role = parsedRole
	} else {
		hero.Role = heroes.Role(role)
	}

	description := doc.Find("p.hero-detail-description").First()
	if description.Length() == 0 {
		return heroes.Hero{}, fmt.Errorf("could not find description of '%s'", name)
	}
	hero.Description = htmlutil.Text(description)

	doc.Find("div.hero-detail-wrapper.m-same-pad div.hero-ability").Each(func(_ int, div *goquery.Selection) {
		descriptor := div.Find("div.hero-ability-descriptor").First()
		abilityName := htmlutil.Text(descriptor.Find("h4").First())
		if abilityName == "" {
			return
		}
		abilityName = strings.ReplaceAll(abilityName, "’", "'")

		video := div.Find(`video.hero-ability-video source[type="video/mp4"]`).First()
		hero.Abilities = append(hero.Abilities, heroes.Ability{
			Name:        abilityName,
			Description: htmlutil.Text(descriptor.Find("p").First()),
			VideoURL:    video.AttrOr("src", ""),
		})
	})

	hero.Quote = htmlutil.Text(doc.Find("p.h4.hero-bio-quote").First())

	style := doc.Find("div.hero-pose div.hero-pose-image").First().AttrOr("style", "")
	groups := poseUrlRegex.FindStringSubmatch(style)
	if len(groups) >= 2 {
		hero.PoseURL = strings.Trim(groups[1], `'" `)
	}

	return hero, nil
}
