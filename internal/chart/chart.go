// Package chart turns a list of heroes into a comparison chart of one metric,
// rendered either as inline SVG for the web interface or as text for the
// terminal.
package chart

import (
	"fmt"
	"strconv"
	"strings"

	"herowiki/internal/heroes"
	"herowiki/lib/textutil"
)

type Metric int

const (
	METRIC_HEALTH Metric = iota + 1
	METRIC_ARMOR
	METRIC_SHIELD
	METRIC_PICK_RATE
	METRIC_WIN_RATE
	METRIC_TIE_RATE
	METRIC_ON_FIRE_RATE
)

// Metrics lists every metric in menu order, the menus number them from 1.
var Metrics = []Metric{
	METRIC_HEALTH,
	METRIC_ARMOR,
	METRIC_SHIELD,
	METRIC_PICK_RATE,
	METRIC_WIN_RATE,
	METRIC_TIE_RATE,
	METRIC_ON_FIRE_RATE,
}

var metricNames = map[Metric]string{
	METRIC_HEALTH:       "Health",
	METRIC_ARMOR:        "Armor",
	METRIC_SHIELD:       "Shield",
	METRIC_PICK_RATE:    "Pick Rate",
	METRIC_WIN_RATE:     "Win Rate",
	METRIC_TIE_RATE:     "Tie Rate",
	METRIC_ON_FIRE_RATE: "On Fire Rate",
}

var metricAliases = map[string]Metric{
	"hp":      METRIC_HEALTH,
	"shields": METRIC_SHIELD,
	"pick":    METRIC_PICK_RATE,
	"win":     METRIC_WIN_RATE,
	"tie":     METRIC_TIE_RATE,
	"onfire":  METRIC_ON_FIRE_RATE,
}

func (m Metric) String() string {
	name, ok := metricNames[m]
	if !ok {
		return fmt.Sprintf("Metric(%d)", int(m))
	}
	return name
}

// ParseMetric accepts either the menu number or the metric name, names are
// matched case-insensitively ignoring spaces, dashes and underscores.
func ParseMetric(s string) (Metric, error) {
	s = strings.TrimSpace(s)
	n, err := strconv.Atoi(s)
	if err == nil {
		if n < 1 || n > len(Metrics) {
			return 0, fmt.Errorf("metric number must be between 1 and %d", len(Metrics))
		}
		return Metrics[n-1], nil
	}

	normalized := textutil.NormalizeName(s)
	for _, m := range Metrics {
		if textutil.NormalizeName(m.String()) == normalized {
			return m, nil
		}
	}
	m, ok := metricAliases[normalized]
	if ok {
		return m, nil
	}
	return 0, fmt.Errorf("unknown metric '%s'", s)
}

type Kind int

const (
	KIND_BAR Kind = iota
	KIND_PIE
)

type Point struct {
	Label string
	Value float64
}

type Chart struct {
	Title  string
	Kind   Kind
	Metric Metric
	Points []Point
}

// Build collects the metric of every hero in order. Pick rate is a share of
// the whole and becomes a pie, everything else is a bar chart.
func Build(list []heroes.Hero, metric Metric) Chart {
	chart := Chart{
		Title:  "Hero Comparison by " + metric.String(),
		Kind:   KIND_BAR,
		Metric: metric,
	}
	if metric == METRIC_PICK_RATE {
		chart.Kind = KIND_PIE
	}
	for _, h := range list {
		chart.Points = append(chart.Points, Point{
			Label: h.Name,
			Value: value(h, metric),
		})
	}
	return chart
}

func value(h heroes.Hero, metric Metric) float64 {
	switch metric {
	case METRIC_HEALTH:
		return leadingNumber(h.Health)
	case METRIC_ARMOR:
		return leadingNumber(h.Armor)
	case METRIC_SHIELD:
		return leadingNumber(h.Shield)
	case METRIC_PICK_RATE:
		return h.PickRate
	case METRIC_WIN_RATE:
		return h.WinRate
	case METRIC_TIE_RATE:
		return h.TieRate
	case METRIC_ON_FIRE_RATE:
		return h.OnFireRate
	}
	return 0
}

// leadingNumber reads the first word of a scraped stat like "250 (+50)",
// anything unreadable counts as 0.
func leadingNumber(text string) float64 {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return 0
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(fields[0], ",", ""), 64)
	if err != nil {
		return 0
	}
	return v
}

func (c Chart) max() float64 {
	var m float64
	for _, p := range c.Points {
		if p.Value > m {
			m = p.Value
		}
	}
	return m
}

func (c Chart) total() float64 {
	var t float64
	for _, p := range c.Points {
		if p.Value > 0 {
			t += p.Value
		}
	}
	return t
}
