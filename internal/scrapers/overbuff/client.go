package overbuff

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"herowiki/internal/components/telemetry"
	"herowiki/internal/scrapers"
	"herowiki/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

const DefaultUrl = "https://www.overbuff.com/heroes"

const report_client_match_stats = "client.match-stats"

// Row is one hero row of the match statistics table. Rates are percentages.
//
// Err is set when the row was present but could not be read, the other
// fields are then only as complete as parsing got.
type Row struct {
	Hero       string
	PickRate   float64
	WinRate    float64
	TieRate    float64
	OnFireRate float64
	Err        error
}

type Client struct {
	Url     string
	fetcher scrapers.Fetcher
	tel     telemetry.API
}

func NewClient(fetcher scrapers.Fetcher, url string, tel telemetry.API) *Client {
	if url == "" {
		url = DefaultUrl
	}
	return &Client{
		Url:     url,
		fetcher: fetcher,
		tel:     telemetry.NewScopedAPI("overbuff_scraper", tel),
	}
}

func (c *Client) MatchStats(ctx context.Context) ([]Row, error) {
	body, err := c.fetcher.Fetch(ctx, c.Url, nil)
	if err != nil {
		c.tel.ReportBroken(report_client_match_stats, err)
		return nil, err
	}
	rows, err := ParseMatchStats(body)
	if err != nil {
		c.tel.ReportBroken(report_client_match_stats, err)
		return nil, err
	}
	for _, r := range rows {
		if r.Err != nil {
			c.tel.ReportWarning(report_client_match_stats, r.Err, r.Hero)
		}
	}
	return rows, nil
}

// ParseMatchStats reads the sortable stats table. Every span of a row is a
// cell: the hero name (usually a link) followed by pick, win, tie and
// on-fire rates.
func ParseMatchStats(body string) ([]Row, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewBufferString(body))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	table := doc.Find("table.table-data.table-sortable").First()
	if table.Length() == 0 {
		return nil, fmt.Errorf("could not find match stats table")
	}

	var rows []Row
	table.Find("tbody tr").Each(func(_ int, tr *goquery.Selection) {
		var cells []string
		tr.Find("span").Each(func(_ int, span *goquery.Selection) {
			link := span.Find("a").First()
			if link.Length() > 0 {
				cells = append(cells, htmlutil.Text(link))
				return
			}
			cells = append(cells, htmlutil.Text(span))
		})
		if len(cells) == 0 {
			return
		}
		rows = append(rows, parseRow(cells))
	})

	return rows, nil
}

func parseRow(cells []string) Row {
	row := Row{Hero: cells[0]}
	if len(cells) < 5 {
		row.Err = fmt.Errorf("expected 5 cells, got %d", len(cells))
		return row
	}

	targets := []*float64{&row.PickRate, &row.WinRate, &row.TieRate, &row.OnFireRate}
	for i, target := range targets {
		value, err := parsePercent(cells[i+1])
		if err != nil {
			row.Err = err
			return row
		}
		*target = value
	}
	return row
}

func parsePercent(text string) (float64, error) {
	value, err := strconv.ParseFloat(strings.Trim(text, "%"), 64)
	if err != nil {
		return 0, fmt.Errorf("parse rate %q: %w", text, err)
	}
	return value, nil
}
