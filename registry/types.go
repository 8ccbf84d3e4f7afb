// Package registry loads and validates the two canonical JSON registries
// (terms and documents) that every other artifact is derived from. The
// registries are externally authored and read-only for the whole run.
package registry

// Header carries the required top-level fields shared by both registries.
type Header struct {
	SchemaVersion   string `json:"schemaVersion"`
	DoctrineVersion string `json:"doctrineVersion"`
	GeneratedAt     string `json:"generatedAt"`
	Origin          string `json:"origin"`
}

// TermRegistry is the loaded terms registry.
type TermRegistry struct {
	Header
	Terms []Term `json:"terms"`
}

// Term is one normative glossary entry.
type Term struct {
	// ID is the stable identifier, unique across all terms.
	ID string `json:"id"`
	// TermCode is the machine term code.
	TermCode string `json:"termCode"`
	// Slug is the URL slug, unique across all terms.
	Slug string `json:"slug"`
	// Classification is normative or informative.
	Classification string `json:"classification"`
	// Status is the lifecycle status (canonical, draft variants).
	Status string `json:"status"`
	// Related lists identifiers of related terms. Unresolvable ids are
	// dropped at render time, never a hard failure.
	Related []string `json:"related,omitempty"`
	// Variants maps language tag to the localized projection.
	Variants map[string]TermVariant `json:"variants"`
}

// TermVariant is the language-scoped projection of a term.
type TermVariant struct {
	Label      string `json:"label"`
	Definition string `json:"definition"`
}

// DocumentRegistry is the loaded documents registry.
type DocumentRegistry struct {
	Header
	Documents []Document `json:"documents"`
}

// Document is one non-term page (home, principles, glossary index).
type Document struct {
	ID             string `json:"id"`
	Role           string `json:"role"`
	Classification string `json:"classification"`
	// Operability is fixed to "non-operational" for this doctrine.
	Operability string `json:"operability"`
	// Variants maps language tag to the localized projection. An
	// "x-default" variant, when present, names the fallback page.
	Variants map[string]DocVariant `json:"variants"`
}

// DocVariant is the language-scoped projection of a document.
type DocVariant struct {
	// Path is the site-relative page path (e.g. "/en/glossary").
	Path        string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// ByID returns a lookup table from term id to term.
func (r *TermRegistry) ByID() map[string]*Term {
	byID := make(map[string]*Term, len(r.Terms))
	for i := range r.Terms {
		byID[r.Terms[i].ID] = &r.Terms[i]
	}
	return byID
}

// FindByRole returns the first document with the given role, or nil.
func (r *DocumentRegistry) FindByRole(role string) *Document {
	for i := range r.Documents {
		if r.Documents[i].Role == role {
			return &r.Documents[i]
		}
	}
	return nil
}

// Roles assigned to documents that the pipeline treats specially.
const (
	// RoleGlossary marks the glossary index document.
	RoleGlossary = "glossary"
	// RoleHome marks the per-language home document.
	RoleHome = "home"
)
