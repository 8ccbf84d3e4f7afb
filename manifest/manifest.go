// Package manifest aggregates every published artifact into one
// dataset-shaped index. The entry list is sorted by content URL so repeated
// runs over identical registries emit identical bytes.
package manifest

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/c360studio/igsite/config"
	"github.com/c360studio/igsite/locale"
	"github.com/c360studio/igsite/registry"
	"github.com/c360studio/igsite/vocab"
)

// Entry is one DataDownload record describing a published artifact.
type Entry struct {
	Type           string   `json:"@type"`
	Name           string   `json:"name"`
	Description    string   `json:"description,omitempty"`
	ContentURL     string   `json:"contentUrl"`
	EncodingFormat string   `json:"encodingFormat"`
	InLanguage     any      `json:"inLanguage,omitempty"`
	Identifier     string   `json:"identifier"`
	Keywords       []string `json:"keywords"`
}

// Creator is a JSON-LD reference to the publisher node.
type Creator struct {
	ID string `json:"@id"`
}

// Manifest is the aggregate dataset document.
type Manifest struct {
	Context      any      `json:"@context"`
	Type         string   `json:"@type"`
	ID           string   `json:"@id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	URL          string   `json:"url"`
	Identifier   string   `json:"identifier"`
	Version      string   `json:"version"`
	DateModified string   `json:"dateModified"`
	InLanguage   []string `json:"inLanguage"`
	Creator      Creator  `json:"creator"`
	IsBasedOn    []string `json:"isBasedOn"`
	License      string   `json:"license"`
	Distribution []Entry  `json:"distribution"`
}

// Builder assembles the manifest for one run.
type Builder struct {
	cfg   *config.Config
	res   *locale.Resolver
	terms *registry.TermRegistry
	docs  *registry.DocumentRegistry
}

// NewBuilder creates a manifest builder over the loaded registries.
func NewBuilder(cfg *config.Config, res *locale.Resolver, terms *registry.TermRegistry, docs *registry.DocumentRegistry) *Builder {
	return &Builder{cfg: cfg, res: res, terms: terms, docs: docs}
}

// Build produces the manifest: one entry per (document, language) page, per
// (term, language) page, the registries and their mirrors, and the fixed
// discovery files. Entries are sorted by content URL.
func (b *Builder) Build() *Manifest {
	doctrine := vocab.DoctrineKeywordPrefix + b.terms.DoctrineVersion
	var dist []Entry

	for i := range b.docs.Documents {
		d := &b.docs.Documents[i]
		for _, lang := range b.variantTags(d) {
			v := d.Variants[lang]
			var inLanguage any = lang
			if lang == vocab.LangXDefault {
				inLanguage = b.cfg.LanguageTags()
			}
			dist = append(dist, Entry{
				Type:           vocab.TypeDataDownload,
				Name:           v.Title,
				Description:    v.Description,
				ContentURL:     b.res.URL(v.Path),
				EncodingFormat: "text/html",
				InLanguage:     inLanguage,
				Identifier:     d.ID,
				Keywords:       []string{d.Role, d.Classification, vocab.StatusDoctrinal, d.Operability, doctrine},
			})
		}
	}

	for i := range b.terms.Terms {
		t := &b.terms.Terms[i]
		for _, lang := range b.cfg.Languages {
			v := t.Variants[lang.Tag]
			dist = append(dist, Entry{
				Type:           vocab.TypeDataDownload,
				Name:           v.Label,
				Description:    v.Definition,
				ContentURL:     b.cfg.Site.Origin + b.res.TermPath(lang, t.Slug),
				EncodingFormat: "text/html",
				InLanguage:     lang.Tag,
				Identifier:     t.ID,
				Keywords:       []string{t.TermCode, t.Classification, t.Status, vocab.TypeDefinedTerm, vocab.StatusDoctrinal, doctrine},
			})
		}
	}

	dist = append(dist, b.machineEntries(doctrine)...)

	sort.SliceStable(dist, func(i, j int) bool {
		return dist[i].ContentURL < dist[j].ContentURL
	})

	origin := b.cfg.Site.Origin
	return &Manifest{
		Context:      []any{vocab.SchemaContext, map[string]string{"ig": origin + "/ns#"}},
		Type:         vocab.TypeDataset,
		ID:           origin + b.cfg.Discovery.ManifestPath + "#dataset",
		Name:         b.cfg.Site.Name + " canonical manifest",
		Description:  "Machine-readable index of public doctrinal artifacts (non-operational) for " + b.cfg.Site.Name + ".",
		URL:          origin + b.cfg.Discovery.ManifestPath,
		Identifier:   "ig-manifest",
		Version:      b.terms.DoctrineVersion,
		DateModified: b.terms.GeneratedAt,
		InLanguage:   b.cfg.LanguageTags(),
		Creator:      Creator{ID: origin + "/#person"},
		IsBasedOn:    []string{b.cfg.Site.Publisher.URL},
		License:      origin + "/COPYRIGHT.md",
		Distribution: dist,
	}
}

// machineEntries lists the registries, their well-known mirrors, the
// manifest itself, and the configured auxiliary discovery files.
func (b *Builder) machineEntries(doctrine string) []Entry {
	disc := b.cfg.Discovery
	wk := disc.WellKnownDir

	files := []config.DiscoveryFile{
		{Name: "Canonical manifest", Path: disc.ManifestPath, MediaType: "application/ld+json"},
		{Name: "Terms registry", Path: disc.TermsPath, MediaType: "application/json"},
		{Name: "Documents registry", Path: disc.DocumentsPath, MediaType: "application/json"},
		{Name: "Well-known manifest", Path: wk + "/ig-manifest.json", MediaType: "application/ld+json"},
		{Name: "Well-known terms registry", Path: wk + "/ig-terms.json", MediaType: "application/json"},
		{Name: "Well-known documents registry", Path: wk + "/ig-documents.json", MediaType: "application/json"},
	}
	files = append(files, disc.ExtraFiles...)

	entries := make([]Entry, 0, len(files))
	for _, f := range files {
		entries = append(entries, Entry{
			Type:           vocab.TypeDataDownload,
			Name:           f.Name,
			ContentURL:     b.cfg.Site.Origin + f.Path,
			EncodingFormat: f.MediaType,
			Identifier:     f.Path,
			Keywords:       []string{vocab.ClassificationInformative, vocab.StatusDoctrinal, vocab.OperabilityNonOperational, doctrine},
		})
	}
	return entries
}

// variantTags returns a document's variant language tags in a fixed order:
// configured languages first, then x-default when declared.
func (b *Builder) variantTags(d *registry.Document) []string {
	var tags []string
	for _, lang := range b.cfg.Languages {
		if _, ok := d.Variants[lang.Tag]; ok {
			tags = append(tags, lang.Tag)
		}
	}
	if _, ok := d.Variants[vocab.LangXDefault]; ok {
		tags = append(tags, vocab.LangXDefault)
	}
	return tags
}

// Encode serializes the manifest with two-space indentation and a trailing
// newline, matching the registry mirror encoding.
func (m *Manifest) Encode() ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal manifest: %w", err)
	}
	return append(data, '\n'), nil
}
