package manifest

import (
	"encoding/json"
	"sort"
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
	header := registry.Header{
		SchemaVersion:   "1.0",
		DoctrineVersion: "2.1",
		GeneratedAt:     "2026-02-27",
		Origin:          "https://example.org",
	}
	terms := &registry.TermRegistry{
		Header: header,
		Terms: []registry.Term{
			{
				ID:             "term:refusal",
				TermCode:       "IG-T-002",
				Slug:           "refusal",
				Classification: "normative",
				Status:         "canonical",
				Variants: map[string]registry.TermVariant{
					"en":    {Label: "Refusal", Definition: "Declining outside the mandate."},
					"fr-CA": {Label: "Refus", Definition: "Refuser hors du mandat."},
				},
			},
		},
	}
	docs := &registry.DocumentRegistry{
		Header: header,
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
		},
	}
	return terms, docs
}

func newTestBuilder() *Builder {
	cfg := testConfig()
	terms, docs := testRegistries()
	return NewBuilder(cfg, locale.NewResolver(cfg), terms, docs)
}

func TestBuild_DatasetShape(t *testing.T) {
	m := newTestBuilder().Build()

	assert.Equal(t, "Dataset", m.Type)
	assert.Equal(t, "https://example.org/ig-manifest.json#dataset", m.ID)
	assert.Equal(t, "2.1", m.Version)
	assert.Equal(t, "2026-02-27", m.DateModified)
	assert.Equal(t, []string{"en", "fr-CA"}, m.InLanguage)
	assert.Equal(t, "https://example.org/#person", m.Creator.ID)
	assert.Equal(t, "https://example.org/COPYRIGHT.md", m.License)
}

func TestBuild_EntriesSortedByContentURL(t *testing.T) {
	m := newTestBuilder().Build()

	urls := make([]string, len(m.Distribution))
	for i, e := range m.Distribution {
		urls[i] = e.ContentURL
	}
	assert.True(t, sort.StringsAreSorted(urls), "distribution must be sorted by contentUrl")
}

func byURL(m *Manifest) map[string]Entry {
	out := make(map[string]Entry, len(m.Distribution))
	for _, e := range m.Distribution {
		out[e.ContentURL] = e
	}
	return out
}

func TestBuild_ReferencesSourceRegistries(t *testing.T) {
	entries := byURL(newTestBuilder().Build())

	terms, ok := entries["https://example.org/data/terms.json"]
	require.True(t, ok)
	assert.Equal(t, "application/json", terms.EncodingFormat)

	_, ok = entries["https://example.org/data/documents.json"]
	assert.True(t, ok)

	// Well-known mirrors are advertised alongside the registries.
	_, ok = entries["https://example.org/.well-known/ig-terms.json"]
	assert.True(t, ok)
	_, ok = entries["https://example.org/.well-known/ig-documents.json"]
	assert.True(t, ok)
	_, ok = entries["https://example.org/.well-known/ig-manifest.json"]
	assert.True(t, ok)
}

func TestBuild_TermEntries(t *testing.T) {
	entries := byURL(newTestBuilder().Build())

	en, ok := entries["https://example.org/en/terms/refusal"]
	require.True(t, ok)
	assert.Equal(t, "DataDownload", en.Type)
	assert.Equal(t, "Refusal", en.Name)
	assert.Equal(t, "en", en.InLanguage)
	assert.Equal(t, "term:refusal", en.Identifier)
	assert.Contains(t, en.Keywords, "IG-T-002")
	assert.Contains(t, en.Keywords, "DefinedTerm")
	assert.Contains(t, en.Keywords, "doctrine:2.1")

	fr, ok := entries["https://example.org/fr/termes/refusal"]
	require.True(t, ok)
	assert.Equal(t, "Refus", fr.Name)
	assert.Equal(t, "fr-CA", fr.InLanguage)
}

func TestBuild_XDefaultVariantListsAllLanguages(t *testing.T) {
	entries := byURL(newTestBuilder().Build())

	root, ok := entries["https://example.org/"]
	require.True(t, ok)
	assert.Equal(t, "doc:home", root.Identifier)
	assert.Equal(t, []string{"en", "fr-CA"}, root.InLanguage)
}

func TestEncode_DeterministicWithTrailingNewline(t *testing.T) {
	b := newTestBuilder()

	first, err := b.Build().Encode()
	require.NoError(t, err)
	second, err := b.Build().Encode()
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, byte('\n'), first[len(first)-1])

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(first, &decoded))
	assert.Contains(t, decoded, "distribution")
}
