package extractor

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

var blockTags = map[string]bool{
	"p": true, "div": true, "h1": true, "h2": true, "h3": true,
	"h4": true, "h5": true, "h6": true, "tr": true, "ul": true,
	"ol": true, "table": true,
}

var (
	horizontalSpace = regexp.MustCompile(`[ \t]+`)
	spacedNewline   = regexp.MustCompile(` *\n *`)
	excessNewlines  = regexp.MustCompile(`\n{3,}`)
)

// preserveFormatting renders the selection's text while keeping the visual
// structure of the markup: list items become bullet-prefixed lines, <br>
// becomes a newline, and block-level elements end their line. Runs of three
// or more newlines collapse to exactly one blank line.
func preserveFormatting(sel *goquery.Selection) string {
	var b strings.Builder
	for _, n := range sel.Nodes {
		renderNode(&b, n)
	}
	return normalizeBlockText(b.String())
}

func renderNode(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		// Inter-element indentation is layout noise, not content.
		if strings.TrimSpace(n.Data) == "" {
			b.WriteString(" ")
			return
		}
		b.WriteString(n.Data)
		return
	case html.ElementNode:
	default:
		return
	}

	switch n.Data {
	case "script", "style", "noscript":
		return
	case "br":
		b.WriteString("\n")
		return
	}

	if n.Data == "li" || hasClass(n, "a-list-item") {
		var inner strings.Builder
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			renderNode(&inner, c)
		}
		text := strings.TrimSpace(normalizeBlockText(inner.String()))
		if text != "" {
			if !strings.HasPrefix(text, "•") {
				b.WriteString("• ")
			}
			b.WriteString(text)
		}
		b.WriteString("\n")
		return
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		renderNode(b, c)
	}
	if blockTags[n.Data] {
		b.WriteString("\n")
	}
}

func hasClass(n *html.Node, class string) bool {
	for _, attr := range n.Attr {
		if attr.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(attr.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}

// normalizeBlockText collapses the indentation whitespace of source markup
// the way a rendered page would, then trims.
func normalizeBlockText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = horizontalSpace.ReplaceAllString(s, " ")
	s = spacedNewline.ReplaceAllString(s, "\n")
	s = excessNewlines.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
