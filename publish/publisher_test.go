package publish

import (
	"encoding/json"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/igsite/config"
)

const testTerms = `{
  "schemaVersion": "1.0",
  "doctrineVersion": "2.1",
  "generatedAt": "2026-02-27",
  "origin": "https://example.org",
  "terms": [
    {
      "id": "term:bounded-response",
      "termCode": "IG-T-001",
      "slug": "bounded-response",
      "classification": "normative",
      "status": "canonical",
      "related": ["term:refusal"],
      "variants": {
        "en": {"label": "Bounded Response", "definition": "A response constrained to its mandate."},
        "fr-CA": {"label": "Réponse bornée", "definition": "Une réponse contrainte à son mandat."}
      }
    },
    {
      "id": "term:refusal",
      "termCode": "IG-T-002",
      "slug": "refusal",
      "classification": "normative",
      "status": "canonical",
      "variants": {
        "en": {"label": "Refusal", "definition": "Declining outside the mandate."},
        "fr-CA": {"label": "Refus", "definition": "Refuser hors du mandat."}
      }
    }
  ]
}`

const testDocs = `{
  "schemaVersion": "1.0",
  "doctrineVersion": "2.1",
  "generatedAt": "2026-02-27",
  "origin": "https://example.org",
  "documents": [
    {
      "id": "doc:home",
      "role": "home",
      "classification": "normative",
      "operability": "non-operational",
      "variants": {
        "en": {"url": "/en/index.html", "title": "Home", "description": "Doctrine home."},
        "fr-CA": {"url": "/fr/index.html", "title": "Accueil", "description": "Accueil de la doctrine."},
        "x-default": {"url": "/index.html", "title": "Interpretive Governance", "description": "Language selector."}
      }
    },
    {
      "id": "doc:glossary",
      "role": "glossary",
      "classification": "normative",
      "operability": "non-operational",
      "variants": {
        "en": {"url": "/en/glossary.html", "title": "Glossary", "description": "Normative terms."},
        "fr-CA": {"url": "/fr/glossaire.html", "title": "Glossaire", "description": "Termes normatifs."}
      }
    }
  ]
}`

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Site.Origin = "https://example.org"
	return cfg
}

func writeFixtures(t *testing.T) (termsPath, docsPath string) {
	t.Helper()
	dir := t.TempDir()
	termsPath = filepath.Join(dir, "terms.json")
	docsPath = filepath.Join(dir, "documents.json")
	require.NoError(t, os.WriteFile(termsPath, []byte(testTerms), 0644))
	require.NoError(t, os.WriteFile(docsPath, []byte(testDocs), 0644))
	return termsPath, docsPath
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestRun_WritesCompleteTree(t *testing.T) {
	termsPath, docsPath := writeFixtures(t)
	outDir := t.TempDir()

	result, err := New(testConfig(), testLogger()).Run(termsPath, docsPath, outDir)
	require.NoError(t, err)
	assert.Equal(t, "2.1", result.DoctrineVersion)
	assert.NotEmpty(t, result.RunID)

	// 3 home variants + 2 glossary pages + 2 terms x 2 languages.
	assert.Equal(t, 9, result.Pages)

	expected := []string{
		"index.html",
		"en/index.html",
		"fr/index.html",
		"en/glossary.html",
		"fr/glossaire.html",
		"en/terms/bounded-response.html",
		"en/terms/refusal.html",
		"fr/termes/bounded-response.html",
		"fr/termes/refusal.html",
		"sitemap.xml",
		"ig-manifest.json",
		"data/terms.json",
		"data/documents.json",
		".well-known/ig-terms.json",
		".well-known/ig-documents.json",
		".well-known/ig-manifest.json",
		"robots.txt",
		"humans.txt",
		"llms.txt",
	}
	for _, rel := range expected {
		_, err := os.Stat(filepath.Join(outDir, filepath.FromSlash(rel)))
		assert.NoError(t, err, "expected output file %s", rel)
	}
	assert.Equal(t, len(expected), result.Files)
}

func TestRun_RegistriesRepublishedVerbatim(t *testing.T) {
	termsPath, docsPath := writeFixtures(t)
	outDir := t.TempDir()

	_, err := New(testConfig(), testLogger()).Run(termsPath, docsPath, outDir)
	require.NoError(t, err)

	for _, rel := range []string{"data/terms.json", ".well-known/ig-terms.json"} {
		data, err := os.ReadFile(filepath.Join(outDir, filepath.FromSlash(rel)))
		require.NoError(t, err)
		assert.Equal(t, testTerms, string(data), "%s must be a byte-exact copy", rel)
	}
}

func TestRun_ManifestIsValidJSON(t *testing.T) {
	termsPath, docsPath := writeFixtures(t)
	outDir := t.TempDir()

	_, err := New(testConfig(), testLogger()).Run(termsPath, docsPath, outDir)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(outDir, "ig-manifest.json"))
	require.NoError(t, err)

	var man struct {
		Type         string `json:"@type"`
		Version      string `json:"version"`
		Distribution []struct {
			ContentURL string `json:"contentUrl"`
		} `json:"distribution"`
	}
	require.NoError(t, json.Unmarshal(data, &man))
	assert.Equal(t, "Dataset", man.Type)
	assert.Equal(t, "2.1", man.Version)

	urls := make(map[string]bool)
	for _, d := range man.Distribution {
		urls[d.ContentURL] = true
	}
	assert.True(t, urls["https://example.org/data/terms.json"])
	assert.True(t, urls["https://example.org/data/documents.json"])
	assert.True(t, urls["https://example.org/en/terms/refusal"])
}

func TestRun_Deterministic(t *testing.T) {
	termsPath, docsPath := writeFixtures(t)
	pub := New(testConfig(), testLogger())

	first := t.TempDir()
	second := t.TempDir()
	_, err := pub.Run(termsPath, docsPath, first)
	require.NoError(t, err)
	_, err = pub.Run(termsPath, docsPath, second)
	require.NoError(t, err)

	assert.Equal(t, snapshotTree(t, first), snapshotTree(t, second),
		"reruns over identical registries must emit identical bytes")
}

func TestRun_AbortsOnVersionMismatch(t *testing.T) {
	termsPath, _ := writeFixtures(t)
	docsPath := filepath.Join(t.TempDir(), "documents.json")
	mismatched := strings.Replace(testDocs, `"doctrineVersion": "2.1"`, `"doctrineVersion": "2.0"`, 1)
	require.NoError(t, os.WriteFile(docsPath, []byte(mismatched), 0644))

	outDir := t.TempDir()
	_, err := New(testConfig(), testLogger()).Run(termsPath, docsPath, outDir)
	require.Error(t, err)

	// Nothing may be written on a failed run.
	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLLMsText(t *testing.T) {
	termsPath, docsPath := writeFixtures(t)
	outDir := t.TempDir()

	_, err := New(testConfig(), testLogger()).Run(termsPath, docsPath, outDir)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(outDir, "llms.txt"))
	require.NoError(t, err)
	text := string(data)

	assert.Contains(t, text, "Interpretive Governance")
	assert.Contains(t, text, "2.1")
	assert.Contains(t, text, "https://example.org/ig-manifest.json")
	assert.Contains(t, text, "https://example.org/data/terms.json")
	// Glossary content is carried over as markdown.
	assert.Contains(t, text, "Bounded Response")
	assert.Contains(t, text, "Refusal")
}

func snapshotTree(t *testing.T, root string) map[string]string {
	t.Helper()
	snap := make(map[string]string)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		snap[filepath.ToSlash(rel)] = string(data)
		return nil
	})
	require.NoError(t, err)
	return snap
}
