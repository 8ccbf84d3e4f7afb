package render

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/igsite/config"
	"github.com/c360studio/igsite/locale"
	"github.com/c360studio/igsite/registry"
)

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Site.Origin = "https://example.org"
	return cfg
}

func testRegistries() (*registry.TermRegistry, *registry.DocumentRegistry) {
	terms := &registry.TermRegistry{
		Header: registry.Header{
			SchemaVersion:   "1.0",
			DoctrineVersion: "2.1",
			GeneratedAt:     "2026-02-27",
			Origin:          "https://example.org",
		},
		Terms: []registry.Term{
			{
				ID:             "term:refusal",
				TermCode:       "IG-T-002",
				Slug:           "refusal",
				Classification: "normative",
				Status:         "canonical",
				Related:        []string{"term:bounded-response", "term:does-not-exist"},
				Variants: map[string]registry.TermVariant{
					"en":    {Label: "Refusal", Definition: "Declining outside the mandate."},
					"fr-CA": {Label: "Refus", Definition: "Refuser hors du mandat."},
				},
			},
			{
				ID:             "term:bounded-response",
				TermCode:       "IG-T-001",
				Slug:           "bounded-response",
				Classification: "normative",
				Status:         "canonical",
				Variants: map[string]registry.TermVariant{
					"en":    {Label: "Bounded Response", Definition: "A response constrained to its mandate."},
					"fr-CA": {Label: "Réponse bornée", Definition: "Une réponse contrainte à son mandat."},
				},
			},
		},
	}

	docs := &registry.DocumentRegistry{
		Header: terms.Header,
		Documents: []registry.Document{
			{
				ID:             "doc:home",
				Role:           registry.RoleHome,
				Classification: "normative",
				Operability:    "non-operational",
				Variants: map[string]registry.DocVariant{
					"en":        {Path: "/en/index.html", Title: "Home", Description: "Doctrine home."},
					"fr-CA":     {Path: "/fr/index.html", Title: "Accueil", Description: "Accueil de la doctrine."},
					"x-default": {Path: "/index.html", Title: "Interpretive Governance", Description: "Language selector."},
				},
			},
			{
				ID:             "doc:glossary",
				Role:           registry.RoleGlossary,
				Classification: "normative",
				Operability:    "non-operational",
				Variants: map[string]registry.DocVariant{
					"en":    {Path: "/en/glossary.html", Title: "Glossary", Description: "Normative terms."},
					"fr-CA": {Path: "/fr/glossaire.html", Title: "Glossaire", Description: "Termes normatifs."},
				},
			},
		},
	}
	return terms, docs
}

func newTestRenderer(cfg *config.Config) (*Renderer, *registry.TermRegistry, *registry.DocumentRegistry) {
	terms, docs := testRegistries()
	return New(cfg, locale.NewResolver(cfg), terms, docs), terms, docs
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"short unchanged", "brief", 175, "brief"},
		{"exactly at cap unchanged", strings.Repeat("a", 175), 175, strings.Repeat("a", 175)},
		{"cut at word boundary", "alpha beta gamma", 12, "alpha beta…"},
		{"surrounding space trimmed", "  padded  ", 175, "padded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Truncate(tt.in, tt.max))
		})
	}
}

func TestTruncate_LongInputStaysWithinCap(t *testing.T) {
	long := strings.Repeat("word ", 60) // 300 characters
	got := Truncate(long, 175)

	assert.LessOrEqual(t, len([]rune(got)), 176)
	assert.True(t, strings.HasSuffix(got, "…"))
	assert.NotContains(t, strings.TrimSuffix(got, "…"), "  ")
}

func TestTermPage(t *testing.T) {
	cfg := testConfig()
	r, terms, _ := newTestRenderer(cfg)
	lang, _ := cfg.Language("en")

	page, err := r.TermPage(&terms.Terms[0], lang)
	require.NoError(t, err)

	assert.Contains(t, page, `<html lang="en">`)
	assert.Contains(t, page, "<title>Refusal | Glossary | Interpretive Governance</title>")
	assert.Contains(t, page, `<link rel="canonical" href="https://example.org/en/terms/refusal"/>`)
	assert.Contains(t, page, `hreflang="fr-CA" href="https://example.org/fr/termes/refusal"`)
	assert.Contains(t, page, `hreflang="x-default" href="https://example.org/"`)
	assert.Contains(t, page, `<meta name="ig:status" content="doctrinal"/>`)
	assert.Contains(t, page, `<meta name="ig:operability" content="non-operational"/>`)
	assert.Contains(t, page, `<meta name="ig:doctrine-version" content="2.1"/>`)
	assert.Contains(t, page, `<meta name="ig:entity-type" content="DefinedTerm"/>`)
	assert.Contains(t, page, `<meta name="ig:entity-id" content="term:refusal"/>`)
	assert.Contains(t, page, `<meta name="ig:termCode" content="IG-T-002"/>`)

	// Related section keeps resolvable ids and drops the rest.
	assert.Contains(t, page, `href="/en/terms/bounded-response"`)
	assert.NotContains(t, page, "does-not-exist")

	// Internal links are clean.
	for _, line := range strings.Split(page, "\n") {
		if strings.Contains(line, `href="/`) {
			assert.NotContains(t, line, ".html", "line: %s", line)
		}
	}
}

func TestTermPage_FrenchUsesLocalizedChrome(t *testing.T) {
	cfg := testConfig()
	r, terms, _ := newTestRenderer(cfg)
	lang, _ := cfg.Language("fr-CA")

	page, err := r.TermPage(&terms.Terms[0], lang)
	require.NoError(t, err)

	assert.Contains(t, page, `<html lang="fr-CA">`)
	assert.Contains(t, page, "Glossaire")
	assert.Contains(t, page, `<meta property="og:locale" content="fr_CA"/>`)
}

func TestTermPage_StructuredData(t *testing.T) {
	cfg := testConfig()
	r, terms, _ := newTestRenderer(cfg)
	lang, _ := cfg.Language("en")

	page, err := r.TermPage(&terms.Terms[0], lang)
	require.NoError(t, err)

	graph := extractGraph(t, page)
	require.Len(t, graph, 4)

	types := make([]string, len(graph))
	for i, node := range graph {
		types[i] = node["@type"].(string)
	}
	assert.Equal(t, []string{"WebSite", "Person", "WebPage", "DefinedTerm"}, types)

	term := graph[3]
	assert.Equal(t, "IG-T-002", term["termCode"])
	assert.Equal(t, "https://example.org/en/glossary#definedtermset",
		term["inDefinedTermSet"].(map[string]any)["@id"])

	// Governance state lives in the meta flags, never in the graph.
	for _, node := range graph {
		for key := range node {
			assert.NotContains(t, key, "ig:")
		}
	}
}

func TestGlossaryPage_SortsTermsByLocalizedLabel(t *testing.T) {
	cfg := testConfig()
	r, _, docs := newTestRenderer(cfg)
	lang, _ := cfg.Language("en")

	page, err := r.GlossaryPage(&docs.Documents[1], lang)
	require.NoError(t, err)

	// "Bounded Response" sorts before "Refusal".
	assert.Less(t, strings.Index(page, "Bounded Response"), strings.Index(page, "Refusal"))

	graph := extractGraph(t, page)
	require.Len(t, graph, 4)
	set := graph[3]
	assert.Equal(t, "DefinedTermSet", set["@type"])
	members := set["hasDefinedTerm"].([]any)
	require.Len(t, members, 2)
	assert.Equal(t, "Bounded Response", members[0].(map[string]any)["name"])
}

func TestDocumentPage(t *testing.T) {
	cfg := testConfig()
	r, _, docs := newTestRenderer(cfg)
	lang, _ := cfg.Language("en")

	page, err := r.DocumentPage(&docs.Documents[0], lang)
	require.NoError(t, err)

	assert.Contains(t, page, "<title>Home | Interpretive Governance</title>")
	assert.Contains(t, page, `<link rel="canonical" href="https://example.org/en/"/>`)
	assert.Contains(t, page, `<meta name="ig:doc-id" content="doc:home"/>`)
	assert.Contains(t, page, `hreflang="x-default" href="https://example.org/"`)

	graph := extractGraph(t, page)
	require.Len(t, graph, 3)
	assert.Equal(t, "WebPage", graph[2]["@type"])
}

func TestRootSelectorPage(t *testing.T) {
	cfg := testConfig()
	r, _, docs := newTestRenderer(cfg)

	page, err := r.RootSelectorPage(&docs.Documents[0])
	require.NoError(t, err)

	assert.Contains(t, page, `<html lang="en">`)
	assert.Contains(t, page, `<link rel="canonical" href="https://example.org/"/>`)
	assert.Contains(t, page, `href="/en/"`)
	assert.Contains(t, page, `href="/fr/"`)
	assert.Contains(t, page, "Français")
}

func TestRenderer_Deterministic(t *testing.T) {
	cfg := testConfig()
	lang, _ := cfg.Language("en")

	render := func() string {
		r, terms, _ := newTestRenderer(cfg)
		page, err := r.TermPage(&terms.Terms[0], lang)
		require.NoError(t, err)
		return page
	}

	assert.Equal(t, render(), render())
}

func TestRenderer_TitlesUniqueAcrossPages(t *testing.T) {
	cfg := testConfig()
	r, terms, docs := newTestRenderer(cfg)

	titles := make(map[string]bool)
	record := func(page string) {
		start := strings.Index(page, "<title>")
		end := strings.Index(page, "</title>")
		require.Greater(t, end, start)
		title := page[start+len("<title>") : end]
		assert.False(t, titles[title], "duplicate title %q", title)
		titles[title] = true
	}

	for _, lang := range cfg.Languages {
		for i := range terms.Terms {
			page, err := r.TermPage(&terms.Terms[i], lang)
			require.NoError(t, err)
			record(page)
		}
		page, err := r.DocumentPage(&docs.Documents[0], lang)
		require.NoError(t, err)
		record(page)
	}
}

func extractGraph(t *testing.T, page string) []map[string]any {
	t.Helper()
	start := strings.Index(page, `<script type="application/ld+json">`)
	require.GreaterOrEqual(t, start, 0)
	rest := page[start+len(`<script type="application/ld+json">`):]
	end := strings.Index(rest, "</script>")
	require.GreaterOrEqual(t, end, 0)

	var doc struct {
		Context string           `json:"@context"`
		Graph   []map[string]any `json:"@graph"`
	}
	require.NoError(t, json.Unmarshal([]byte(rest[:end]), &doc))
	assert.Equal(t, "https://schema.org", doc.Context)
	return doc.Graph
}
