package render

import "strings"

// uiStrings holds the localized chrome strings for one language. Page
// content itself comes from the registries; these cover only the fixed
// labels around it.
type uiStrings struct {
	GlossaryWord      string
	Definition        string
	TermCode          string
	EntityStatus      string
	MachineRegistry   string
	CanonicalManifest string
	RelatedTerms      string
	Entity            string
	DocID             string
	Doctrine          string
	NonOperational    string
	Terms             string
	Tip               string
	TipBody           string
	Tagline           string
	BadgeNormative    string
	BadgeInformative  string
	LastUpdated       string
	FooterDisclaimer  string
	FooterSurface     string
	ChooseLanguage    string
}

var uiByLang = map[string]uiStrings{
	"en": {
		GlossaryWord:      "Glossary",
		Definition:        "Definition",
		TermCode:          "Term code",
		EntityStatus:      "Entity status",
		MachineRegistry:   "Machine registry",
		CanonicalManifest: "Canonical manifest",
		RelatedTerms:      "Related terms",
		Entity:            "Entity",
		DocID:             "Doc ID",
		Doctrine:          "Doctrine",
		NonOperational:    "Non-operational",
		Terms:             "Terms",
		Tip:               "Tip",
		TipBody:           "use the term pages for stable links and JSON-LD.",
		Tagline:           "Personal conceptual reference. Not an implementation.",
		BadgeNormative:    "normative",
		BadgeInformative:  "informative",
		LastUpdated:       "Last updated",
		FooterDisclaimer:  "This site is intentionally non-operational: it does not contain scoring weights, thresholds, calibrated protocols, datasets, or execution tooling.",
		FooterSurface:     "Primary doctrinal surface: gautierdorval.com",
		ChooseLanguage:    "Choose your language",
	},
	"fr": {
		GlossaryWord:      "Glossaire",
		Definition:        "Définition",
		TermCode:          "Code terme",
		EntityStatus:      "Statut entité",
		MachineRegistry:   "Registre machine",
		CanonicalManifest: "Manifest canonique",
		RelatedTerms:      "Termes liés",
		Entity:            "Entité",
		DocID:             "ID doc",
		Doctrine:          "Doctrine",
		NonOperational:    "Non opérable",
		Terms:             "Termes",
		Tip:               "Astuce",
		TipBody:           "utilise les pages de termes pour des liens stables et du JSON-LD.",
		Tagline:           "Référence conceptuelle personnelle. Non opérable.",
		BadgeNormative:    "normatif",
		BadgeInformative:  "informatif",
		LastUpdated:       "Dernière mise à jour",
		FooterDisclaimer:  "Ce site est volontairement non opérable : il ne contient ni pondérations, ni seuils, ni protocoles calibrés, ni jeux de données, ni outillage d'exécution.",
		FooterSurface:     "Surface doctrinale principale : gautierdorval.com",
		ChooseLanguage:    "Choisis ta langue",
	},
}

// uiFor resolves chrome strings by the primary language subtag, falling back
// to English for unmapped languages.
func uiFor(tag string) uiStrings {
	primary := tag
	if i := strings.IndexByte(tag, '-'); i > 0 {
		primary = tag[:i]
	}
	if ui, ok := uiByLang[primary]; ok {
		return ui
	}
	return uiByLang["en"]
}
