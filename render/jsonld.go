package render

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/c360studio/igsite/config"
	"github.com/c360studio/igsite/registry"
	"github.com/c360studio/igsite/vocab"
)

// Graph is the JSON-LD document embedded in every page. Node field order is
// fixed by the struct definitions, so identical inputs marshal to identical
// bytes.
type Graph struct {
	Context string `json:"@context"`
	Nodes   []any  `json:"@graph"`
}

// Ref is a JSON-LD node reference.
type Ref struct {
	ID string `json:"@id"`
}

// WebSiteNode is the singleton site node.
type WebSiteNode struct {
	Type        string   `json:"@type"`
	ID          string   `json:"@id"`
	URL         string   `json:"url"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	InLanguage  []string `json:"inLanguage"`
	Publisher   Ref      `json:"publisher"`
}

// PersonNode is the singleton publisher/author node.
type PersonNode struct {
	Type   string   `json:"@type"`
	ID     string   `json:"@id"`
	Name   string   `json:"name"`
	URL    string   `json:"url"`
	SameAs []string `json:"sameAs,omitempty"`
}

// AboutRef is the generic subject of a page.
type AboutRef struct {
	Type string `json:"@type"`
	Name string `json:"name"`
}

// WebPageNode describes one rendered page. Doctrinal pages are WebPage
// nodes only, never Article or another CreativeWork subtype, and carry no
// governance properties: those live in the ig:* meta flags and the
// registries.
type WebPageNode struct {
	Type         string   `json:"@type"`
	ID           string   `json:"@id"`
	URL          string   `json:"url"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	IsPartOf     Ref      `json:"isPartOf"`
	InLanguage   string   `json:"inLanguage"`
	DateModified string   `json:"dateModified"`
	Author       Ref      `json:"author"`
	About        AboutRef `json:"about"`
	Identifier   string   `json:"identifier,omitempty"`
}

// DefinedTermNode describes one glossary term.
type DefinedTermNode struct {
	Type             string `json:"@type"`
	ID               string `json:"@id"`
	URL              string `json:"url"`
	Name             string `json:"name"`
	Description      string `json:"description"`
	InLanguage       string `json:"inLanguage"`
	TermCode         string `json:"termCode"`
	Identifier       string `json:"identifier"`
	InDefinedTermSet *Ref   `json:"inDefinedTermSet,omitempty"`
}

// DefinedTermSetNode is the glossary collection node, referencing every
// term in the registry.
type DefinedTermSetNode struct {
	Type           string            `json:"@type"`
	ID             string            `json:"@id"`
	Name           string            `json:"name"`
	InLanguage     string            `json:"inLanguage"`
	IsPartOf       Ref               `json:"isPartOf"`
	HasDefinedTerm []DefinedTermNode `json:"hasDefinedTerm"`
}

func (r *Renderer) websiteID() string { return r.cfg.Site.Origin + "/#website" }
func (r *Renderer) personID() string  { return r.cfg.Site.Origin + "/#person" }

// baseNodes returns the singleton WebSite and Person nodes shared by every
// page graph.
func (r *Renderer) baseNodes() []any {
	return []any{
		WebSiteNode{
			Type:        vocab.TypeWebSite,
			ID:          r.websiteID(),
			URL:         r.cfg.Site.Origin + "/",
			Name:        r.cfg.Site.Name,
			Description: r.cfg.Site.Description,
			InLanguage:  r.cfg.LanguageTags(),
			Publisher:   Ref{ID: r.personID()},
		},
		PersonNode{
			Type:   vocab.TypePerson,
			ID:     r.personID(),
			Name:   r.cfg.Site.Publisher.Name,
			URL:    r.cfg.Site.Publisher.URL,
			SameAs: r.cfg.Site.Publisher.SameAs,
		},
	}
}

// webPageNode builds the page node for a rendered document.
func (r *Renderer) webPageNode(canonical, name, description, lang, identifier string) WebPageNode {
	return WebPageNode{
		Type:         vocab.TypeWebPage,
		ID:           canonical + "#webpage",
		URL:          canonical,
		Name:         name,
		Description:  description,
		IsPartOf:     Ref{ID: r.websiteID()},
		InLanguage:   lang,
		DateModified: r.terms.GeneratedAt,
		Author:       Ref{ID: r.personID()},
		About:        AboutRef{Type: vocab.TypeThing, Name: r.cfg.Site.Name},
		Identifier:   identifier,
	}
}

// definedTermNode builds the DefinedTerm node for a term page.
func (r *Renderer) definedTermNode(t *registry.Term, lang, canonical, termsetID string) DefinedTermNode {
	v := t.Variants[lang]
	node := DefinedTermNode{
		Type:        vocab.TypeDefinedTerm,
		ID:          canonical + "#term",
		URL:         canonical,
		Name:        v.Label,
		Description: v.Definition,
		InLanguage:  lang,
		TermCode:    t.TermCode,
		Identifier:  t.ID,
	}
	if termsetID != "" {
		node.InDefinedTermSet = &Ref{ID: termsetID}
	}
	return node
}

// termSetNode builds the DefinedTermSet node for the glossary index,
// listing every term sorted by its localized label.
func (r *Renderer) termSetNode(canonical, name string, lang config.LanguageConfig) DefinedTermSetNode {
	sorted := r.termsSortedByLabel(lang.Tag)
	members := make([]DefinedTermNode, 0, len(sorted))
	for _, t := range sorted {
		url := r.cfg.Site.Origin + r.res.TermPath(lang, t.Slug)
		members = append(members, r.definedTermNode(t, lang.Tag, url, ""))
	}
	return DefinedTermSetNode{
		Type:           vocab.TypeDefinedTermSet,
		ID:             canonical + "#definedtermset",
		Name:           name,
		InLanguage:     lang.Tag,
		IsPartOf:       Ref{ID: r.websiteID()},
		HasDefinedTerm: members,
	}
}

// termsSortedByLabel returns the registry's terms sorted by the lowercased
// localized label (the documented glossary sort key).
func (r *Renderer) termsSortedByLabel(lang string) []*registry.Term {
	sorted := make([]*registry.Term, len(r.terms.Terms))
	for i := range r.terms.Terms {
		sorted[i] = &r.terms.Terms[i]
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return strings.ToLower(sorted[i].Variants[lang].Label) < strings.ToLower(sorted[j].Variants[lang].Label)
	})
	return sorted
}

// marshalGraph serializes a graph for embedding in a <script> block.
func marshalGraph(nodes []any) (string, error) {
	data, err := json.Marshal(Graph{Context: vocab.SchemaContext, Nodes: nodes})
	if err != nil {
		return "", fmt.Errorf("marshal structured data: %w", err)
	}
	return string(data), nil
}
