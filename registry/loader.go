package registry

import (
	"encoding/json"
	"fmt"
	"os"
)

// Load reads and validates both registries and asserts cross-registry
// doctrine-version agreement. languages lists the tags every term and
// document must carry a variant for.
func Load(termsPath, docsPath string, languages []string) (*TermRegistry, *DocumentRegistry, error) {
	terms, err := LoadTerms(termsPath, languages)
	if err != nil {
		return nil, nil, err
	}

	docs, err := LoadDocuments(docsPath, languages)
	if err != nil {
		return nil, nil, err
	}

	if terms.DoctrineVersion != docs.DoctrineVersion {
		return nil, nil, &VersionMismatchError{
			TermsVersion:     terms.DoctrineVersion,
			DocumentsVersion: docs.DoctrineVersion,
		}
	}

	return terms, docs, nil
}

// LoadTerms reads and validates the terms registry.
func LoadTerms(path string, languages []string) (*TermRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read terms registry: %w", err)
	}

	var reg TermRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, &SchemaError{Registry: "terms", Field: "(document)", Reason: "invalid JSON: " + err.Error()}
	}

	if err := validateHeader("terms", reg.Header); err != nil {
		return nil, err
	}

	seenID := make(map[string]bool, len(reg.Terms))
	seenSlug := make(map[string]bool, len(reg.Terms))
	for i, t := range reg.Terms {
		loc := fmt.Sprintf("terms[%d]", i)
		if t.ID != "" {
			loc = fmt.Sprintf("terms[%s]", t.ID)
		}
		if t.ID == "" {
			return nil, &SchemaError{Registry: "terms", Field: loc + ".id", Reason: "missing"}
		}
		if t.TermCode == "" {
			return nil, &SchemaError{Registry: "terms", Field: loc + ".termCode", Reason: "missing"}
		}
		if t.Slug == "" {
			return nil, &SchemaError{Registry: "terms", Field: loc + ".slug", Reason: "missing"}
		}
		if t.Classification == "" {
			return nil, &SchemaError{Registry: "terms", Field: loc + ".classification", Reason: "missing"}
		}
		if t.Status == "" {
			return nil, &SchemaError{Registry: "terms", Field: loc + ".status", Reason: "missing"}
		}
		if seenID[t.ID] {
			return nil, &SchemaError{Registry: "terms", Field: loc + ".id", Reason: "duplicate identifier " + t.ID}
		}
		if seenSlug[t.Slug] {
			return nil, &SchemaError{Registry: "terms", Field: loc + ".slug", Reason: "duplicate slug " + t.Slug}
		}
		seenID[t.ID] = true
		seenSlug[t.Slug] = true

		for _, lang := range languages {
			v, ok := t.Variants[lang]
			if !ok {
				return nil, &SchemaError{
					Registry: "terms",
					Field:    fmt.Sprintf("%s.variants.%s", loc, lang),
					Reason:   fmt.Sprintf("term %s is missing its %s variant", t.ID, lang),
				}
			}
			if v.Label == "" {
				return nil, &SchemaError{Registry: "terms", Field: fmt.Sprintf("%s.variants.%s.label", loc, lang), Reason: "missing"}
			}
			if v.Definition == "" {
				return nil, &SchemaError{Registry: "terms", Field: fmt.Sprintf("%s.variants.%s.definition", loc, lang), Reason: "missing"}
			}
		}
	}

	return &reg, nil
}

// LoadDocuments reads and validates the documents registry.
func LoadDocuments(path string, languages []string) (*DocumentRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read documents registry: %w", err)
	}

	var reg DocumentRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, &SchemaError{Registry: "documents", Field: "(document)", Reason: "invalid JSON: " + err.Error()}
	}

	if err := validateHeader("documents", reg.Header); err != nil {
		return nil, err
	}

	seenID := make(map[string]bool, len(reg.Documents))
	for i, d := range reg.Documents {
		loc := fmt.Sprintf("documents[%d]", i)
		if d.ID != "" {
			loc = fmt.Sprintf("documents[%s]", d.ID)
		}
		if d.ID == "" {
			return nil, &SchemaError{Registry: "documents", Field: loc + ".id", Reason: "missing"}
		}
		if d.Role == "" {
			return nil, &SchemaError{Registry: "documents", Field: loc + ".role", Reason: "missing"}
		}
		if d.Classification == "" {
			return nil, &SchemaError{Registry: "documents", Field: loc + ".classification", Reason: "missing"}
		}
		if d.Operability != "non-operational" {
			return nil, &SchemaError{
				Registry: "documents",
				Field:    loc + ".operability",
				Reason:   fmt.Sprintf("must be %q, got %q", "non-operational", d.Operability),
			}
		}
		if seenID[d.ID] {
			return nil, &SchemaError{Registry: "documents", Field: loc + ".id", Reason: "duplicate identifier " + d.ID}
		}
		seenID[d.ID] = true

		for _, lang := range languages {
			v, ok := d.Variants[lang]
			if !ok {
				return nil, &SchemaError{
					Registry: "documents",
					Field:    fmt.Sprintf("%s.variants.%s", loc, lang),
					Reason:   fmt.Sprintf("document %s is missing its %s variant", d.ID, lang),
				}
			}
			if v.Path == "" {
				return nil, &SchemaError{Registry: "documents", Field: fmt.Sprintf("%s.variants.%s.url", loc, lang), Reason: "missing"}
			}
			if v.Title == "" {
				return nil, &SchemaError{Registry: "documents", Field: fmt.Sprintf("%s.variants.%s.title", loc, lang), Reason: "missing"}
			}
			if v.Description == "" {
				return nil, &SchemaError{Registry: "documents", Field: fmt.Sprintf("%s.variants.%s.description", loc, lang), Reason: "missing"}
			}
		}
	}

	return &reg, nil
}

func validateHeader(name string, h Header) error {
	if h.SchemaVersion == "" {
		return &SchemaError{Registry: name, Field: "schemaVersion", Reason: "missing"}
	}
	if h.DoctrineVersion == "" {
		return &SchemaError{Registry: name, Field: "doctrineVersion", Reason: "missing"}
	}
	if h.GeneratedAt == "" {
		return &SchemaError{Registry: name, Field: "generatedAt", Reason: "missing"}
	}
	if h.Origin == "" {
		return &SchemaError{Registry: name, Field: "origin", Reason: "missing"}
	}
	return nil
}
