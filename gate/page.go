package gate

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/net/html"
)

// pageInfo is the parsed view of one rendered HTML file, holding exactly
// what the page checks need.
type pageInfo struct {
	file        string
	lang        string
	title       string
	description string
	canonical   string
	metas       map[string]string
	anchors     []string
	jsonld      []string
}

// parsePage reads and parses one rendered page. rel is the path relative to
// the output root, used in violation messages.
func parsePage(absPath, rel string) (*pageInfo, error) {
	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("read page %s: %w", rel, err)
	}

	doc, err := html.Parse(strings.NewReader(string(data)))
	if err != nil {
		return nil, fmt.Errorf("parse page %s: %w", rel, err)
	}

	p := &pageInfo{
		file:  rel,
		metas: make(map[string]string),
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "html":
				p.lang = attr(n, "lang")
			case "title":
				if n.FirstChild != nil {
					p.title = strings.TrimSpace(n.FirstChild.Data)
				}
			case "meta":
				if name := attr(n, "name"); name != "" {
					p.metas[name] = attr(n, "content")
					if name == "description" {
						p.description = attr(n, "content")
					}
				}
			case "link":
				if attr(n, "rel") == "canonical" {
					p.canonical = attr(n, "href")
				}
			case "script":
				if attr(n, "type") == "application/ld+json" && n.FirstChild != nil {
					p.jsonld = append(p.jsonld, n.FirstChild.Data)
				}
			case "a":
				if href := attr(n, "href"); href != "" {
					p.anchors = append(p.anchors, href)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return p, nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// isExternal reports whether an anchor href leaves the site (or is a
// non-navigational scheme) and is therefore exempt from the clean-URL rule.
func isExternal(href string) bool {
	return strings.HasPrefix(href, "http://") ||
		strings.HasPrefix(href, "https://") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:")
}
