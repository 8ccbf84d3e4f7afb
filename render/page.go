// Package render produces one HTML document per (entity, language) pair:
// term pages, glossary index pages, and document pages. Output is
// deterministic byte-for-byte for identical registry content.
package render

import (
	"fmt"
	"html"
	"strings"

	"github.com/c360studio/igsite/config"
	"github.com/c360studio/igsite/locale"
	"github.com/c360studio/igsite/registry"
	"github.com/c360studio/igsite/vocab"
)

// Renderer renders pages for one run. It holds the loaded registries
// read-only and resolves canonical URLs through the shared resolver.
type Renderer struct {
	cfg   *config.Config
	res   *locale.Resolver
	terms *registry.TermRegistry
	docs  *registry.DocumentRegistry
	byID  map[string]*registry.Term
}

// New creates a renderer over the loaded registries.
func New(cfg *config.Config, res *locale.Resolver, terms *registry.TermRegistry, docs *registry.DocumentRegistry) *Renderer {
	return &Renderer{
		cfg:   cfg,
		res:   res,
		terms: terms,
		docs:  docs,
		byID:  terms.ByID(),
	}
}

// TermPage renders the page for one term in one language.
func (r *Renderer) TermPage(t *registry.Term, lang config.LanguageConfig) (string, error) {
	ui := uiFor(lang.Tag)
	v := t.Variants[lang.Tag]
	canonical := r.cfg.Site.Origin + r.res.TermPath(lang, t.Slug)
	title := fmt.Sprintf("%s | %s | %s", v.Label, ui.GlossaryWord, r.cfg.Site.Name)
	description := Truncate(v.Definition, r.cfg.Render.DescriptionLimit)

	cluster, err := r.res.TermCluster(t)
	if err != nil {
		return "", err
	}

	termsetID := ""
	if glossary := r.docs.FindByRole(registry.RoleGlossary); glossary != nil {
		if gv, ok := glossary.Variants[lang.Tag]; ok {
			termsetID = r.res.URL(gv.Path) + "#definedtermset"
		}
	}

	nodes := r.baseNodes()
	nodes = append(nodes,
		r.webPageNode(canonical, v.Label, description, lang.Tag, t.ID),
		r.definedTermNode(t, lang.Tag, canonical, termsetID),
	)
	jsonld, err := marshalGraph(nodes)
	if err != nil {
		return "", err
	}

	var body strings.Builder
	fmt.Fprintf(&body, "  <h1>%s</h1>\n", html.EscapeString(v.Label))
	body.WriteString("  <div class=\"docmeta\">\n")
	fmt.Fprintf(&body, "    <span class=\"badge badge--normative\">%s</span>\n", classificationBadge(ui, t.Classification))
	fmt.Fprintf(&body, "    <span class=\"muted\">%s: <code>%s</code> · %s %s · %s</span>\n",
		ui.Entity, t.ID, ui.Doctrine, r.terms.DoctrineVersion, ui.NonOperational)
	body.WriteString("  </div>\n\n")
	body.WriteString("  <div class=\"card\">\n")
	fmt.Fprintf(&body, "    <p><strong>%s</strong></p>\n", ui.Definition)
	fmt.Fprintf(&body, "    <p>%s</p>\n", html.EscapeString(v.Definition))
	body.WriteString("  </div>\n\n")
	body.WriteString("  <div class=\"card\">\n")
	fmt.Fprintf(&body, "    <div class=\"kv\"><div>%s</div><div><code>%s</code></div></div>\n", ui.TermCode, t.TermCode)
	fmt.Fprintf(&body, "    <div class=\"kv\"><div>%s</div><div><code>%s</code></div></div>\n", ui.EntityStatus, html.EscapeString(t.Status))
	fmt.Fprintf(&body, "    <div class=\"kv\"><div>%s</div><div><a href=%q>%s</a></div></div>\n",
		ui.MachineRegistry, r.cfg.Discovery.TermsPath, r.cfg.Discovery.TermsPath)
	fmt.Fprintf(&body, "    <div class=\"kv\"><div>%s</div><div><a href=%q>%s</a></div></div>\n",
		ui.CanonicalManifest, r.cfg.Discovery.ManifestPath, r.cfg.Discovery.ManifestPath)
	body.WriteString("  </div>\n")
	body.WriteString(r.relatedSection(t, lang, ui))

	return r.page(pageParams{
		lang:      lang,
		title:     title,
		desc:      description,
		canonical: canonical,
		cluster:   cluster,
		extraMeta: termMeta(t.Classification, t.ID, t.TermCode, t.Status),
		jsonld:    jsonld,
		activeDoc: registry.RoleGlossary,
		switchFor: func(other config.LanguageConfig) string {
			return locale.CleanPath(r.res.TermPath(other, t.Slug))
		},
		body: body.String(),
	}), nil
}

// relatedSection renders the related-terms list, silently dropping ids that
// do not resolve in the loaded registry.
func (r *Renderer) relatedSection(t *registry.Term, lang config.LanguageConfig, ui uiStrings) string {
	var links []string
	for _, rid := range t.Related {
		rt, ok := r.byID[rid]
		if !ok {
			continue
		}
		href := locale.CleanPath(r.res.TermPath(lang, rt.Slug))
		label := rt.Variants[lang.Tag].Label
		links = append(links, fmt.Sprintf("      <li><a href=%q>%s</a></li>", href, html.EscapeString(label)))
	}
	if len(links) == 0 {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "\n  <h2>%s</h2>\n", ui.RelatedTerms)
	b.WriteString("  <div class=\"card\">\n    <ul>\n")
	b.WriteString(strings.Join(links, "\n"))
	b.WriteString("\n    </ul>\n  </div>\n")
	return b.String()
}

// GlossaryPage renders the glossary index for one language: the term
// listing sorted by localized label, plus the DefinedTermSet graph node.
func (r *Renderer) GlossaryPage(doc *registry.Document, lang config.LanguageConfig) (string, error) {
	ui := uiFor(lang.Tag)
	v := doc.Variants[lang.Tag]
	canonical := r.res.URL(v.Path)
	title := fmt.Sprintf("%s | %s", v.Title, r.cfg.Site.Name)
	description := Truncate(v.Description, r.cfg.Render.DescriptionLimit)

	cluster, err := r.res.DocumentCluster(doc)
	if err != nil {
		return "", err
	}

	nodes := r.baseNodes()
	nodes = append(nodes,
		r.webPageNode(canonical, v.Title, description, lang.Tag, doc.ID),
		r.termSetNode(canonical, v.Title, lang),
	)
	jsonld, err := marshalGraph(nodes)
	if err != nil {
		return "", err
	}

	var items []string
	for _, t := range r.termsSortedByLabel(lang.Tag) {
		tv := t.Variants[lang.Tag]
		href := locale.CleanPath(r.res.TermPath(lang, t.Slug))
		badge := ""
		if t.Status != vocab.StatusCanonical {
			badge = fmt.Sprintf(" <span class=\"badge badge--informative\">%s</span>", html.EscapeString(t.Status))
		}
		items = append(items, fmt.Sprintf("      <li><a href=%q><strong>%s</strong></a>%s: %s</li>",
			href, html.EscapeString(tv.Label), badge, html.EscapeString(tv.Definition)))
	}

	var body strings.Builder
	fmt.Fprintf(&body, "  <h1>%s</h1>\n", html.EscapeString(v.Title))
	body.WriteString("  <div class=\"docmeta\">\n")
	fmt.Fprintf(&body, "    <span class=\"badge badge--normative\">%s</span>\n", classificationBadge(ui, doc.Classification))
	fmt.Fprintf(&body, "    <span class=\"muted\">%s: <code>%s</code> · %s %s · %s</span>\n",
		ui.DocID, doc.ID, ui.Doctrine, r.terms.DoctrineVersion, ui.NonOperational)
	body.WriteString("  </div>\n\n")
	body.WriteString("  <div class=\"card\">\n")
	fmt.Fprintf(&body, "    <p>%s</p>\n", html.EscapeString(v.Description))
	fmt.Fprintf(&body, "    <p class=\"muted\">%s: %s</p>\n", ui.Tip, html.EscapeString(ui.TipBody))
	body.WriteString("  </div>\n\n")
	fmt.Fprintf(&body, "  <h2>%s</h2>\n", ui.Terms)
	body.WriteString("  <div class=\"card\">\n    <ul>\n")
	body.WriteString(strings.Join(items, "\n"))
	body.WriteString("\n    </ul>\n  </div>\n")

	return r.page(pageParams{
		lang:      lang,
		title:     title,
		desc:      description,
		canonical: canonical,
		cluster:   cluster,
		extraMeta: docMeta(doc.ID, doc.Classification),
		jsonld:    jsonld,
		activeDoc: doc.Role,
		switchFor: r.docSwitch(doc),
		body:      body.String(),
	}), nil
}

// DocumentPage renders a plain document page (home, principles, notes).
func (r *Renderer) DocumentPage(doc *registry.Document, lang config.LanguageConfig) (string, error) {
	ui := uiFor(lang.Tag)
	v := doc.Variants[lang.Tag]
	canonical := r.res.URL(v.Path)
	title := fmt.Sprintf("%s | %s", v.Title, r.cfg.Site.Name)
	description := Truncate(v.Description, r.cfg.Render.DescriptionLimit)

	cluster, err := r.res.DocumentCluster(doc)
	if err != nil {
		return "", err
	}

	nodes := r.baseNodes()
	nodes = append(nodes, r.webPageNode(canonical, v.Title, description, lang.Tag, doc.ID))
	jsonld, err := marshalGraph(nodes)
	if err != nil {
		return "", err
	}

	var body strings.Builder
	fmt.Fprintf(&body, "  <h1>%s</h1>\n", html.EscapeString(v.Title))
	body.WriteString("  <div class=\"docmeta\">\n")
	fmt.Fprintf(&body, "    <span class=\"badge badge--normative\">%s</span>\n", classificationBadge(ui, doc.Classification))
	fmt.Fprintf(&body, "    <span class=\"muted\">%s: <code>%s</code> · %s %s · %s</span>\n",
		ui.DocID, doc.ID, ui.Doctrine, r.terms.DoctrineVersion, ui.NonOperational)
	body.WriteString("  </div>\n\n")
	body.WriteString("  <div class=\"card\">\n")
	fmt.Fprintf(&body, "    <p>%s</p>\n", html.EscapeString(v.Description))
	body.WriteString("  </div>\n")

	return r.page(pageParams{
		lang:      lang,
		title:     title,
		desc:      description,
		canonical: canonical,
		cluster:   cluster,
		extraMeta: docMeta(doc.ID, doc.Classification),
		jsonld:    jsonld,
		activeDoc: doc.Role,
		switchFor: r.docSwitch(doc),
		body:      body.String(),
	}), nil
}

// RootSelectorPage renders the x-default fallback page: a language chooser
// pointing at each language's home. The html lang attribute uses the first
// configured language.
func (r *Renderer) RootSelectorPage(doc *registry.Document) (string, error) {
	v := doc.Variants[vocab.LangXDefault]
	lang := r.cfg.Languages[0]
	ui := uiFor(lang.Tag)
	canonical := r.res.URL(v.Path)
	title := fmt.Sprintf("%s | %s", v.Title, r.cfg.Site.Name)
	description := Truncate(v.Description, r.cfg.Render.DescriptionLimit)

	cluster, err := r.res.DocumentCluster(doc)
	if err != nil {
		return "", err
	}

	nodes := r.baseNodes()
	nodes = append(nodes, r.webPageNode(canonical, v.Title, description, lang.Tag, doc.ID))
	jsonld, err := marshalGraph(nodes)
	if err != nil {
		return "", err
	}

	var body strings.Builder
	fmt.Fprintf(&body, "  <h1>%s</h1>\n", html.EscapeString(v.Title))
	body.WriteString("  <div class=\"card\">\n")
	fmt.Fprintf(&body, "    <p>%s</p>\n", html.EscapeString(ui.ChooseLanguage))
	body.WriteString("    <ul>\n")
	for _, l := range r.cfg.Languages {
		dv, ok := doc.Variants[l.Tag]
		if !ok {
			continue
		}
		fmt.Fprintf(&body, "      <li><a href=%q>%s</a></li>\n", locale.CleanPath(dv.Path), html.EscapeString(l.SwitchLabel))
	}
	body.WriteString("    </ul>\n  </div>\n")

	return r.page(pageParams{
		lang:      lang,
		title:     title,
		desc:      description,
		canonical: canonical,
		cluster:   cluster,
		extraMeta: docMeta(doc.ID, doc.Classification),
		jsonld:    jsonld,
		activeDoc: doc.Role,
		switchFor: r.docSwitch(doc),
		body:      body.String(),
	}), nil
}

// pageParams collects everything the shared page skeleton needs.
type pageParams struct {
	lang      config.LanguageConfig
	title     string
	desc      string
	canonical string
	cluster   *locale.Cluster
	extraMeta string
	jsonld    string
	activeDoc string
	switchFor func(other config.LanguageConfig) string
	body      string
}

// page assembles the full HTML document around a rendered body.
func (r *Renderer) page(p pageParams) string {
	ui := uiFor(p.lang.Tag)
	head := r.headCommon(p.title, p.desc, p.canonical, p.lang, p.cluster, "website")

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n")
	fmt.Fprintf(&b, "<html lang=%q>\n<head>\n", p.lang.Tag)
	b.WriteString(head)
	b.WriteString("\n")
	b.WriteString(p.extraMeta)
	b.WriteString("\n")
	fmt.Fprintf(&b, "<script type=\"application/ld+json\">%s</script>\n", p.jsonld)
	b.WriteString("</head>\n<body>\n")
	b.WriteString("<header class=\"topbar\">\n  <div class=\"container\">\n")
	b.WriteString("    <div class=\"brand\">\n")
	fmt.Fprintf(&b, "      <img src=\"/assets/logo.svg?v=%s\" width=\"34\" height=\"34\" alt=%q/>\n",
		r.cfg.Site.AssetVersion, r.cfg.Site.Name)
	b.WriteString("      <div>\n")
	fmt.Fprintf(&b, "        <div><strong>%s</strong> <span class=\"badge\">%s</span></div>\n",
		html.EscapeString(r.cfg.Site.Name), vocab.StatusDoctrinal)
	fmt.Fprintf(&b, "        <div class=\"muted\" style=\"font-size:13px\">%s</div>\n", html.EscapeString(ui.Tagline))
	b.WriteString("      </div>\n    </div>\n    <nav>\n")
	b.WriteString(r.nav(p.lang, p.activeDoc, p.switchFor))
	b.WriteString("\n    </nav>\n  </div>\n</header>\n")
	b.WriteString("<main class=\"container\">\n")
	b.WriteString(p.body)
	b.WriteString("\n  <div class=\"footer\">\n")
	fmt.Fprintf(&b, "    %s: %s<br/>\n", ui.LastUpdated, r.terms.GeneratedAt)
	fmt.Fprintf(&b, "    %s<br/>\n", html.EscapeString(ui.FooterDisclaimer))
	fmt.Fprintf(&b, "    %s\n", html.EscapeString(ui.FooterSurface))
	b.WriteString("  </div>\n</main>\n</body>\n</html>\n")
	return b.String()
}

// nav renders the top navigation from the documents registry in declaration
// order, followed by one switch link per other configured language.
func (r *Renderer) nav(lang config.LanguageConfig, activeDoc string, switchFor func(config.LanguageConfig) string) string {
	var links []string
	for i := range r.docs.Documents {
		d := &r.docs.Documents[i]
		v, ok := d.Variants[lang.Tag]
		if !ok {
			continue
		}
		cls := ""
		if d.Role == activeDoc {
			cls = "active"
		}
		links = append(links, fmt.Sprintf("<a class=%q href=%q>%s</a>",
			cls, locale.CleanPath(v.Path), html.EscapeString(v.Title)))
	}
	for _, other := range r.cfg.Languages {
		if other.Tag == lang.Tag {
			continue
		}
		href := ""
		if switchFor != nil {
			href = switchFor(other)
		}
		if href == "" {
			href = locale.CleanPath(other.PathPrefix + "/")
		}
		links = append(links, fmt.Sprintf("<a href=%q>%s</a>", href, html.EscapeString(other.SwitchLabel)))
	}
	return strings.Join(links, "\n")
}

// docSwitch returns the language-switch target for a document page: the
// document's own variant in the other language when declared.
func (r *Renderer) docSwitch(doc *registry.Document) func(config.LanguageConfig) string {
	return func(other config.LanguageConfig) string {
		if v, ok := doc.Variants[other.Tag]; ok {
			return locale.CleanPath(v.Path)
		}
		return ""
	}
}

func classificationBadge(ui uiStrings, classification string) string {
	if classification == vocab.ClassificationInformative {
		return ui.BadgeInformative
	}
	return ui.BadgeNormative
}
