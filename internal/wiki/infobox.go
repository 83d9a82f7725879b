package wiki

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// Infobox returns the text of the first infobox table in page HTML. Table
// rows and <br> elements become newlines so label/value pairs stay separable;
// adjacent cells otherwise run together, which is the texture the extraction
// templates are written against.
func Infobox(pageHTML string) (string, error) {
	doc, err := html.Parse(strings.NewReader(pageHTML))
	if err != nil {
		return "", fmt.Errorf("parse page: %w", err)
	}

	table := findFirst(doc, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "table" && hasClass(n, "infobox")
	})
	if table == nil {
		return "", ErrNoFactBlock
	}

	var b strings.Builder
	renderText(&b, table)
	return b.String(), nil
}

// renderText appends the text under n, skipping style and script content.
func renderText(b *strings.Builder, n *html.Node) {
	switch {
	case n.Type == html.TextNode:
		b.WriteString(n.Data)
		return
	case n.Type == html.ElementNode && (n.Data == "style" || n.Data == "script"):
		return
	case n.Type == html.ElementNode && n.Data == "br":
		b.WriteString("\n")
		return
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		renderText(b, c)
	}

	if n.Type == html.ElementNode && n.Data == "tr" {
		b.WriteString("\n")
	}
}

// findFirst returns the first node under n satisfying pred, depth-first.
func findFirst(n *html.Node, pred func(*html.Node) bool) *html.Node {
	if pred(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, pred); found != nil {
			return found
		}
	}
	return nil
}

// hasClass checks whether class appears among n's space-separated classes.
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
