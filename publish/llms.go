package publish

import (
	"fmt"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	"golang.org/x/net/html"

	"github.com/c360studio/igsite/registry"
	"github.com/c360studio/igsite/render"
)

// llmsText derives the llms.txt discovery file from the rendered glossary
// page of the first configured language: the page's main content converted
// to markdown beneath a provenance header. The derivation is deterministic,
// so it inherits the renderer's byte-stability.
func (p *Publisher) llmsText(renderer *render.Renderer, terms *registry.TermRegistry, docs *registry.DocumentRegistry) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", p.cfg.Site.Name)
	fmt.Fprintf(&b, "> %s\n\n", p.cfg.Site.Description)
	fmt.Fprintf(&b, "Doctrine version: %s. Generated: %s.\n", terms.DoctrineVersion, terms.GeneratedAt)
	fmt.Fprintf(&b, "Canonical manifest: %s\n", p.cfg.Site.Origin+p.cfg.Discovery.ManifestPath)
	fmt.Fprintf(&b, "Terms registry: %s\n", p.cfg.Site.Origin+p.cfg.Discovery.TermsPath)
	fmt.Fprintf(&b, "Documents registry: %s\n\n", p.cfg.Site.Origin+p.cfg.Discovery.DocumentsPath)

	glossary := docs.FindByRole(registry.RoleGlossary)
	if glossary == nil {
		return b.String(), nil
	}
	lang := p.cfg.Languages[0]
	if _, ok := glossary.Variants[lang.Tag]; !ok {
		return b.String(), nil
	}

	page, err := renderer.GlossaryPage(glossary, lang)
	if err != nil {
		return "", err
	}

	converter := md.NewConverter("", true, nil)
	converter.Use(plugin.GitHubFlavored())

	markdown, err := converter.ConvertString(extractMain(page))
	if err != nil {
		return "", fmt.Errorf("convert glossary to markdown: %w", err)
	}

	b.WriteString(strings.TrimSpace(markdown))
	b.WriteString("\n")
	return b.String(), nil
}

// extractMain returns the rendered <main> element, falling back to the full
// document when parsing fails.
func extractMain(page string) string {
	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return page
	}

	var main *html.Node
	var find func(*html.Node)
	find = func(n *html.Node) {
		if main != nil {
			return
		}
		if n.Type == html.ElementNode && n.Data == "main" {
			main = n
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			find(c)
		}
	}
	find(doc)
	if main == nil {
		return page
	}

	var sb strings.Builder
	if err := html.Render(&sb, main); err != nil {
		return page
	}
	return sb.String()
}
