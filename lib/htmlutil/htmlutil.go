package htmlutil

import (
	"bytes"
	"context"
	"net/url"
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/net/html"
)

var tracer = otel.Tracer("herowiki/lib/htmlutil")

func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

// Strings returns every descendant text node of the selection in document
// order, untrimmed and including whitespace-only nodes.
func Strings(sel *goquery.Selection) []string {
	var out []string
	for _, n := range sel.Nodes {
		collectStrings(n, &out)
	}
	return out
}

func collectStrings(node *html.Node, out *[]string) {
	if node.Type == html.TextNode {
		*out = append(*out, node.Data)
		return
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		collectStrings(child, out)
	}
}

var innerWhitespace = regexp.MustCompile(`\s\s+`)

func removeNonPrintable(s string) string {
	newStr := strings.Builder{}
	for _, c := range s {
		if unicode.IsPrint(c) || c == '\n' || c == '\t' {
			newStr.WriteRune(c)
		}
	}
	return newStr.String()
}

// CleanText trims a piece of scraped text and collapses runs of whitespace.
func CleanText(s string) string {
	s = removeNonPrintable(s)
	s = strings.TrimSpace(s)
	return innerWhitespace.ReplaceAllString(s, " ")
}

// Text is CleanText over the combined text of a selection.
func Text(sel *goquery.Selection) string {
	return CleanText(sel.Text())
}

type Anchor struct {
	Name string
	Href string
}

// GetAnchors collects the anchors in `sel`, resolving every href against `base`
// when base is non-nil. Nodes without an href are skipped.
func GetAnchors(ctx context.Context, sel *goquery.Selection, base *url.URL) []Anchor {
	_, span := tracer.Start(ctx, "GetAnchors")
	defer span.End()

	anchors := []Anchor{}
	for _, n := range sel.Nodes {
		href, ok := "", false
		for _, a := range n.Attr {
			if a.Key == "href" {
				href, ok = a.Val, true
				break
			}
		}
		if !ok {
			continue
		}

		link, err := url.Parse(href)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "got error while parsing url")
			continue
		}
		if base != nil {
			link = base.ResolveReference(link)
		}

		name := CleanText(GetText(n))
		linkStr := link.String()
		anchors = append(anchors, Anchor{
			Name: name,
			Href: linkStr,
		})
		span.AddEvent("anchor", trace.WithAttributes(
			attribute.String("name", name),
			attribute.String("url", linkStr),
		))
	}

	return anchors
}
