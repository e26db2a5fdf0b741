// Package htmltext extracts human-readable text from page markup.
package htmltext

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Tags whose text content counts as readable page copy.
var contentTags = map[string]bool{
	"p": true, "h1": true, "h2": true, "h3": true,
	"h4": true, "h5": true, "h6": true, "li": true,
}

var skipTags = map[string]bool{
	"script": true, "style": true, "noscript": true,
}

// Elements returns the whitespace-joined text of paragraph, heading and
// list-item elements in document order, ignoring all other structure.
func Elements(r io.Reader) (string, error) {
	root, err := html.Parse(r)
	if err != nil {
		return "", err
	}
	var parts []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && contentTags[n.Data] {
			if text := nodeText(n); text != "" {
				parts = append(parts, text)
			}
			// nested li/p still get their own entry
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return strings.Join(parts, " "), nil
}

func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteString(" ")
			return
		}
		if n.Type == html.ElementNode && skipTags[n.Data] {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c)
	}
	return strings.Join(strings.Fields(sb.String()), " ")
}
