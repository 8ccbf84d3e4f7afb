package locale

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/igsite/config"
	"github.com/c360studio/igsite/registry"
)

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Site.Origin = "https://example.org"
	return cfg
}

func TestCleanPath(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty is root", "", "/"},
		{"root index", "/index.html", "/"},
		{"nested index resolves to directory", "/fr/index.html", "/fr/"},
		{"extension stripped", "/en/principles.html", "/en/principles"},
		{"already clean", "/en/principles", "/en/principles"},
		{"term page", "/fr/termes/reponse-bornee.html", "/fr/termes/reponse-bornee"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanPath(tt.in))
		})
	}
}

func TestFilePath(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"root", "/", "index.html"},
		{"directory", "/fr/", "fr/index.html"},
		{"clean page", "/en/principles", "en/principles.html"},
		{"explicit extension kept", "/en/notes.html", "en/notes.html"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilePath(tt.in))
		})
	}
}

func TestCanonicalPathFromFile_RoundTrip(t *testing.T) {
	paths := []string{"/", "/fr/", "/en/principles", "/en/terms/bounded-response"}
	for _, p := range paths {
		assert.Equal(t, p, CanonicalPathFromFile(FilePath(p)), "path %s", p)
	}
}

func TestResolver_TermCluster(t *testing.T) {
	res := NewResolver(testConfig())
	term := &registry.Term{ID: "term:bounded-response", Slug: "bounded-response"}

	cluster, err := res.TermCluster(term)
	require.NoError(t, err)

	assert.Equal(t, []string{"en", "fr-CA"}, cluster.Tags())
	assert.Equal(t, "https://example.org/en/terms/bounded-response", cluster.URL("en"))
	assert.Equal(t, "https://example.org/fr/termes/bounded-response", cluster.URL("fr-CA"))
	assert.Equal(t, "https://example.org/", cluster.Fallback)

	alts := cluster.Alternates()
	require.Len(t, alts, 3)
	assert.Equal(t, "x-default", alts[2][0], "fallback must come last")
	assert.Equal(t, "https://example.org/", alts[2][1])
}

func TestResolver_DocumentCluster_XDefaultOverride(t *testing.T) {
	res := NewResolver(testConfig())
	doc := &registry.Document{
		ID: "doc:home",
		Variants: map[string]registry.DocVariant{
			"en":        {Path: "/en/index.html"},
			"fr-CA":     {Path: "/fr/index.html"},
			"x-default": {Path: "/index.html"},
		},
	}

	cluster, err := res.DocumentCluster(doc)
	require.NoError(t, err)
	assert.Equal(t, "https://example.org/en/", cluster.URL("en"))
	assert.Equal(t, "https://example.org/fr/", cluster.URL("fr-CA"))
	assert.Equal(t, "https://example.org/", cluster.Fallback)
}

func TestResolver_DocumentCluster_SkipsMissingVariant(t *testing.T) {
	res := NewResolver(testConfig())
	doc := &registry.Document{
		ID: "doc:notes",
		Variants: map[string]registry.DocVariant{
			"en": {Path: "/en/notes.html"},
		},
	}

	cluster, err := res.DocumentCluster(doc)
	require.NoError(t, err)
	assert.Equal(t, []string{"en"}, cluster.Tags())
}

func TestResolver_ConflictDetection(t *testing.T) {
	res := NewResolver(testConfig())

	first := &registry.Document{
		ID:       "doc:a",
		Variants: map[string]registry.DocVariant{"en": {Path: "/en/shared.html"}},
	}
	second := &registry.Document{
		ID:       "doc:b",
		Variants: map[string]registry.DocVariant{"en": {Path: "/en/shared.html"}},
	}

	_, err := res.DocumentCluster(first)
	require.NoError(t, err)

	_, err = res.DocumentCluster(second)
	require.Error(t, err)

	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "https://example.org/en/shared", conflict.URL)
	assert.Equal(t, "en", conflict.Language)
	assert.Equal(t, "doc:a", conflict.First)
	assert.Equal(t, "doc:b", conflict.Second)
}

func TestResolver_SameEntityMayReclaim(t *testing.T) {
	res := NewResolver(testConfig())
	term := &registry.Term{ID: "term:x", Slug: "x"}

	_, err := res.TermCluster(term)
	require.NoError(t, err)
	_, err = res.TermCluster(term)
	require.NoError(t, err)
}

func TestTermPath_LanguageNegotiated(t *testing.T) {
	cfg := testConfig()
	cfg.Render.LanguageInPath = false
	res := NewResolver(cfg)

	lang, ok := cfg.Language("fr-CA")
	require.True(t, ok)
	assert.Equal(t, "/termes/reponse", res.TermPath(lang, "reponse"))
}
