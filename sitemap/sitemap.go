// Package sitemap enumerates every canonical URL across every entity and
// language, each annotated with its locale-alternate links. Entries are
// sorted by location for deterministic output.
package sitemap

import (
	"fmt"
	"sort"
	"strings"

	"github.com/c360studio/igsite/config"
	"github.com/c360studio/igsite/locale"
	"github.com/c360studio/igsite/registry"
	"github.com/c360studio/igsite/vocab"
)

const header = `<?xml version="1.0" encoding="utf-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9" xmlns:xhtml="http://www.w3.org/1999/xhtml">
`

// Entry is one indexable URL with its locale alternates.
type Entry struct {
	Loc        string
	LastMod    string
	Alternates [][2]string
}

// Builder assembles the sitemap for one run.
type Builder struct {
	cfg   *config.Config
	res   *locale.Resolver
	terms *registry.TermRegistry
	docs  *registry.DocumentRegistry
}

// NewBuilder creates a sitemap builder over the loaded registries.
func NewBuilder(cfg *config.Config, res *locale.Resolver, terms *registry.TermRegistry, docs *registry.DocumentRegistry) *Builder {
	return &Builder{cfg: cfg, res: res, terms: terms, docs: docs}
}

// Build produces the sitemap document. Every language variant of an entity
// gets its own entry so each is independently indexable; the shared lastmod
// is the registry's generatedAt value.
func (b *Builder) Build() (string, error) {
	lastMod := b.terms.GeneratedAt
	seen := make(map[string]bool)
	var entries []Entry

	add := func(loc string, alternates [][2]string) {
		if seen[loc] {
			return
		}
		seen[loc] = true
		entries = append(entries, Entry{Loc: loc, LastMod: lastMod, Alternates: alternates})
	}

	for i := range b.docs.Documents {
		d := &b.docs.Documents[i]
		cluster, err := b.res.DocumentCluster(d)
		if err != nil {
			return "", err
		}
		alts := cluster.Alternates()
		for _, tag := range cluster.Tags() {
			add(cluster.URL(tag), alts)
		}
		if _, ok := d.Variants[vocab.LangXDefault]; ok {
			add(cluster.Fallback, alts)
		}
	}

	for i := range b.terms.Terms {
		t := &b.terms.Terms[i]
		cluster, err := b.res.TermCluster(t)
		if err != nil {
			return "", err
		}
		alts := cluster.Alternates()
		for _, tag := range cluster.Tags() {
			add(cluster.URL(tag), alts)
		}
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Loc < entries[j].Loc })

	var sb strings.Builder
	sb.WriteString(header)
	for _, e := range entries {
		writeEntry(&sb, e)
	}
	sb.WriteString("</urlset>\n")
	return sb.String(), nil
}

func writeEntry(sb *strings.Builder, e Entry) {
	sb.WriteString("  <url>\n")
	fmt.Fprintf(sb, "    <loc>%s</loc>\n", xmlEscape(e.Loc))
	fmt.Fprintf(sb, "    <lastmod>%s</lastmod>\n", e.LastMod)
	sb.WriteString("    <changefreq>monthly</changefreq>\n")
	for _, alt := range e.Alternates {
		fmt.Fprintf(sb, "    <xhtml:link rel=\"alternate\" hreflang=%q href=%q/>\n", alt[0], xmlEscape(alt[1]))
	}
	sb.WriteString("  </url>\n")
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
)

func xmlEscape(s string) string {
	return xmlEscaper.Replace(s)
}
