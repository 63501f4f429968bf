package chart

import (
	"fmt"
	"html"
	"html/template"
	"math"
	"strconv"
	"strings"
)

var palette = []string{
	"#f99e1a", "#218ffe", "#e74c3c", "#2ecc71", "#9b59b6",
	"#1abc9c", "#f1c40f", "#34495e", "#e67e22", "#95a5a6",
}

const (
	svgWidth    = 720
	labelWidth  = 130
	barAreaW    = 500
	rowHeight   = 24
	titleHeight = 40
	pieRadius   = 130
)

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// RenderSVG renders the chart as a standalone <svg> element.
func RenderSVG(c Chart) (template.HTML, error) {
	var b strings.Builder
	var err error
	switch c.Kind {
	case KIND_BAR:
		err = renderBarSVG(&b, c)
	case KIND_PIE:
		err = renderPieSVG(&b, c)
	default:
		err = fmt.Errorf("unknown chart kind %d", c.Kind)
	}
	if err != nil {
		return "", err
	}
	return template.HTML(b.String()), nil
}

func writeTitle(b *strings.Builder, c Chart, width int) {
	fmt.Fprintf(
		b,
		`<text x="%d" y="24" text-anchor="middle" font-size="18" font-weight="bold">%s</text>`,
		width/2, html.EscapeString(c.Title),
	)
}

func renderBarSVG(b *strings.Builder, c Chart) error {
	height := titleHeight + rowHeight*len(c.Points) + 20
	fmt.Fprintf(
		b,
		`<svg xmlns="http://www.w3.org/2000/svg" class="chart chart-bar" width="%d" height="%d" viewBox="0 0 %d %d" font-family="sans-serif">`,
		svgWidth, height, svgWidth, height,
	)
	writeTitle(b, c, svgWidth)

	highest := c.max()
	for i, p := range c.Points {
		y := titleHeight + i*rowHeight
		width := 0.0
		if highest > 0 && p.Value > 0 {
			width = p.Value / highest * barAreaW
		}
		fmt.Fprintf(
			b,
			`<text x="%d" y="%d" text-anchor="end" font-size="13">%s</text>`,
			labelWidth-6, y+16, html.EscapeString(p.Label),
		)
		fmt.Fprintf(
			b,
			`<rect x="%d" y="%d" width="%.2f" height="%d" fill="%s"><title>%s: %s</title></rect>`,
			labelWidth, y+3, width, rowHeight-6, palette[0],
			html.EscapeString(p.Label), formatValue(p.Value),
		)
		fmt.Fprintf(
			b,
			`<text x="%.2f" y="%d" font-size="12">%s</text>`,
			float64(labelWidth)+width+6, y+16, formatValue(p.Value),
		)
	}

	b.WriteString(`</svg>`)
	return nil
}

func renderPieSVG(b *strings.Builder, c Chart) error {
	legendHeight := titleHeight + rowHeight*len(c.Points) + 20
	height := titleHeight + 2*pieRadius + 20
	if legendHeight > height {
		height = legendHeight
	}
	fmt.Fprintf(
		b,
		`<svg xmlns="http://www.w3.org/2000/svg" class="chart chart-pie" width="%d" height="%d" viewBox="0 0 %d %d" font-family="sans-serif">`,
		svgWidth, height, svgWidth, height,
	)
	writeTitle(b, c, svgWidth)

	cx := float64(20 + pieRadius)
	cy := float64(titleHeight + pieRadius)
	total := c.total()

	if total <= 0 {
		fmt.Fprintf(
			b,
			`<text x="%.0f" y="%.0f" text-anchor="middle" font-size="14">no data</text>`,
			cx, cy,
		)
	}

	angle := -math.Pi / 2
	for i, p := range c.Points {
		color := palette[i%len(palette)]

		if total > 0 && p.Value > 0 {
			share := p.Value / total
			title := fmt.Sprintf("%s: %s (%.1f%%)", html.EscapeString(p.Label), formatValue(p.Value), share*100)
			if share >= 1 {
				fmt.Fprintf(
					b,
					`<circle cx="%.2f" cy="%.2f" r="%d" fill="%s"><title>%s</title></circle>`,
					cx, cy, pieRadius, color, title,
				)
			} else {
				end := angle + share*2*math.Pi
				largeArc := 0
				if share > 0.5 {
					largeArc = 1
				}
				fmt.Fprintf(
					b,
					`<path d="M %.2f %.2f L %.2f %.2f A %d %d 0 %d 1 %.2f %.2f Z" fill="%s" stroke="#fff"><title>%s</title></path>`,
					cx, cy,
					cx+pieRadius*math.Cos(angle), cy+pieRadius*math.Sin(angle),
					pieRadius, pieRadius, largeArc,
					cx+pieRadius*math.Cos(end), cy+pieRadius*math.Sin(end),
					color, title,
				)
				angle = end
			}
		}

		legendX := 2*pieRadius + 60
		legendY := titleHeight + i*rowHeight
		fmt.Fprintf(
			b,
			`<rect x="%d" y="%d" width="14" height="14" fill="%s"/><text x="%d" y="%d" font-size="13">%s (%s)</text>`,
			legendX, legendY+4, color,
			legendX+20, legendY+16, html.EscapeString(p.Label), formatValue(p.Value),
		)
	}

	b.WriteString(`</svg>`)
	return nil
}

const textBarWidth = 40

// RenderText renders the chart for a terminal. Pie charts are shown as bars
// of their share of the total.
func RenderText(c Chart) string {
	var b strings.Builder
	b.WriteString(c.Title)
	b.WriteString("\n")

	labelW := 0
	for _, p := range c.Points {
		if w := len([]rune(p.Label)); w > labelW {
			labelW = w
		}
	}

	scale := c.max()
	if c.Kind == KIND_PIE {
		scale = c.total()
	}

	for _, p := range c.Points {
		n := 0
		if scale > 0 && p.Value > 0 {
			n = int(math.Round(p.Value / scale * textBarWidth))
		}
		value := formatValue(p.Value)
		if c.Kind == KIND_PIE && scale > 0 {
			value = fmt.Sprintf("%s (%.1f%%)", value, math.Max(p.Value, 0)/scale*100)
		}
		padding := strings.Repeat(" ", labelW-len([]rune(p.Label)))
		fmt.Fprintf(&b, "%s%s | %s %s\n", p.Label, padding, strings.Repeat("█", n), value)
	}
	return b.String()
}
