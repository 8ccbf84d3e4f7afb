// Package gate verifies a generated output tree against the registries it
// was derived from. It re-reads everything from disk and asserts a closed,
// ordered set of invariants, aborting on the first violated category.
package gate

import (
	"fmt"
	"strings"
)

// Violation reports a gate-detected mismatch between registry, manifest,
// pages, or sitemap. All violations are fatal; nothing is auto-corrected.
type Violation struct {
	// File is the offending artifact, relative to the output root.
	File string
	// Rule names the violated rule category.
	Rule string
	// Detail is the human-readable explanation.
	Detail string
}

func (v *Violation) Error() string {
	if v.File == "" {
		return fmt.Sprintf("%s: %s", v.Rule, v.Detail)
	}
	return fmt.Sprintf("%s: %s: %s", v.File, v.Rule, v.Detail)
}

// Rule names used by the gate's check categories.
const (
	RuleRegistrySchema     = "registry-schema"
	RuleManifestReference  = "manifest-registry-reference"
	RulePageLang           = "page-lang"
	RulePageTitle          = "page-title"
	RulePageDescription    = "page-description"
	RuleCanonicalMissing   = "canonical-missing"
	RuleCanonicalExtension = "canonical-extension"
	RuleCanonicalMismatch  = "canonical-mismatch"
	RuleStructuredData     = "structured-data"
	RuleStructuredShape    = "structured-data-shape"
	RuleGovernanceMeta     = "governance-meta"
	RuleDuplicateTitle     = "duplicate-title"
	RuleDuplicateDesc      = "duplicate-description"
	RuleExtensionLink      = "internal-extension-link"
	RuleRegistryFile       = "registry-file-missing"
	RuleSitemapExtension   = "sitemap-extension"
	RuleSitemapMissing     = "sitemap-missing-url"
)

// Report aggregates violations in collect mode. It is itself an error so
// CI callers get one exit with the full list.
type Report struct {
	Violations []*Violation
}

func (r *Report) Error() string {
	if len(r.Violations) == 0 {
		return "consistency gate: no violations"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "consistency gate: %d violation(s)", len(r.Violations))
	for _, v := range r.Violations {
		b.WriteString("\n  - ")
		b.WriteString(v.Error())
	}
	return b.String()
}
