package registry

import "fmt"

// SchemaError reports a missing or malformed required registry field.
// It aborts generation entirely; partial output is never valid.
type SchemaError struct {
	// Registry is "terms" or "documents".
	Registry string
	// Field names the offending field, dotted from the registry root
	// (e.g. `terms[IG-TERM-X].variants.fr-CA`).
	Field string
	// Reason describes what is wrong with the field.
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s registry: %s: %s", e.Registry, e.Field, e.Reason)
}

// VersionMismatchError reports cross-registry doctrine-version disagreement.
// Versions must match exactly across registries within one run.
type VersionMismatchError struct {
	TermsVersion     string
	DocumentsVersion string
}

func (e *VersionMismatchError) Error() string {
	return fmt.Sprintf("doctrine version mismatch: terms registry declares %q, documents registry declares %q",
		e.TermsVersion, e.DocumentsVersion)
}
