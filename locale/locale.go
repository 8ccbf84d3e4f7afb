// Package locale computes canonical URLs and language-alternate clusters
// for every entity. Canonical URLs are always clean: template extensions are
// stripped and directory-index paths resolve to the directory itself.
package locale

import (
	"fmt"
	"strings"

	"github.com/c360studio/igsite/config"
	"github.com/c360studio/igsite/registry"
	"github.com/c360studio/igsite/vocab"
)

// Cluster maps language tags to canonical URLs for one entity, plus the
// designated fallback (x-default) URL.
type Cluster struct {
	tags     []string
	urls     map[string]string
	Fallback string
}

// Tags returns the cluster's language tags in configuration order.
func (c *Cluster) Tags() []string { return c.tags }

// URL returns the canonical URL for a language tag.
func (c *Cluster) URL(tag string) string { return c.urls[tag] }

// Alternates returns (tag, url) pairs in configuration order, with the
// fallback appended last under the x-default tag. The fixed order keeps
// rendered alternate links deterministic.
func (c *Cluster) Alternates() [][2]string {
	alts := make([][2]string, 0, len(c.tags)+1)
	for _, tag := range c.tags {
		alts = append(alts, [2]string{tag, c.urls[tag]})
	}
	alts = append(alts, [2]string{vocab.LangXDefault, c.Fallback})
	return alts
}

// ConflictError reports two entities resolving to the same canonical URL in
// the same language. This is a build-time invariant, raised at resolve time.
type ConflictError struct {
	URL      string
	Language string
	First    string
	Second   string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("canonical URL conflict: %s (%s) claimed by both %s and %s",
		e.URL, e.Language, e.First, e.Second)
}

// Resolver computes clusters under one locale scheme and tracks claimed
// canonical URLs so duplicates surface immediately.
type Resolver struct {
	cfg     *config.Config
	claimed map[string]string // lang + "\x00" + url -> entity id
}

// NewResolver creates a resolver for the run's configuration.
func NewResolver(cfg *config.Config) *Resolver {
	return &Resolver{
		cfg:     cfg,
		claimed: make(map[string]string),
	}
}

// TermCluster resolves the canonical URL of a term in every supported
// language.
func (r *Resolver) TermCluster(t *registry.Term) (*Cluster, error) {
	cluster := &Cluster{
		urls:     make(map[string]string, len(r.cfg.Languages)),
		Fallback: r.cfg.Site.Origin + "/",
	}
	for _, lang := range r.cfg.Languages {
		url := r.cfg.Site.Origin + r.TermPath(lang, t.Slug)
		if err := r.claim(lang.Tag, url, t.ID); err != nil {
			return nil, err
		}
		cluster.tags = append(cluster.tags, lang.Tag)
		cluster.urls[lang.Tag] = url
	}
	return cluster, nil
}

// DocumentCluster resolves the canonical URL of a document in every
// supported language. A declared x-default variant overrides the site-root
// fallback.
func (r *Resolver) DocumentCluster(d *registry.Document) (*Cluster, error) {
	cluster := &Cluster{
		urls:     make(map[string]string, len(r.cfg.Languages)),
		Fallback: r.cfg.Site.Origin + "/",
	}
	if v, ok := d.Variants[vocab.LangXDefault]; ok {
		cluster.Fallback = r.URL(v.Path)
	}
	for _, lang := range r.cfg.Languages {
		v, ok := d.Variants[lang.Tag]
		if !ok {
			continue
		}
		url := r.URL(v.Path)
		if err := r.claim(lang.Tag, url, d.ID); err != nil {
			return nil, err
		}
		cluster.tags = append(cluster.tags, lang.Tag)
		cluster.urls[lang.Tag] = url
	}
	return cluster, nil
}

func (r *Resolver) claim(lang, url, entityID string) error {
	key := lang + "\x00" + url
	if prev, ok := r.claimed[key]; ok && prev != entityID {
		return &ConflictError{URL: url, Language: lang, First: prev, Second: entityID}
	}
	r.claimed[key] = entityID
	return nil
}

// TermPath returns the canonical site-relative path of a term page.
func (r *Resolver) TermPath(lang config.LanguageConfig, slug string) string {
	if r.cfg.Render.LanguageInPath {
		return lang.PathPrefix + "/" + lang.TermsSegment + "/" + slug
	}
	return "/" + lang.TermsSegment + "/" + slug
}

// URL turns a stored site-relative path into a canonical absolute URL.
func (r *Resolver) URL(path string) string {
	return r.cfg.Site.Origin + CleanPath(path)
}

// CleanPath strips the template extension from a stored path. An index page
// resolves to its directory; a path already ending in a separator is left as
// the directory itself.
func CleanPath(path string) string {
	if path == "" {
		return "/"
	}
	if strings.HasSuffix(path, "/index.html") {
		return strings.TrimSuffix(path, "index.html")
	}
	return strings.TrimSuffix(path, ".html")
}

// FilePath maps a canonical site-relative path to the output file that
// serves it under clean-URL hosting rules.
func FilePath(path string) string {
	if path == "" || path == "/" {
		return "index.html"
	}
	rel := strings.TrimPrefix(path, "/")
	if strings.HasSuffix(rel, "/") {
		return rel + "index.html"
	}
	if strings.HasSuffix(rel, ".html") {
		return rel
	}
	return rel + ".html"
}

// CanonicalPathFromFile maps an output file (relative to the output root)
// back to the canonical site-relative path it serves.
func CanonicalPathFromFile(relFile string) string {
	relFile = strings.ReplaceAll(relFile, "\\", "/")
	if relFile == "index.html" {
		return "/"
	}
	if strings.HasSuffix(relFile, "/index.html") {
		return "/" + strings.TrimSuffix(relFile, "index.html")
	}
	return "/" + strings.TrimSuffix(relFile, ".html")
}
