// Package vocab defines the structured-data and governance-metadata
// vocabulary used across rendered pages, the manifest, and the gate.
// Pages embed a strictly Schema.org JSON-LD graph; governance metadata is
// carried exclusively by the ig:* meta flags and the registries.
package vocab

// SchemaContext is the JSON-LD context IRI for all embedded graphs.
const SchemaContext = "https://schema.org"

// Schema.org node types used in the embedded graph.
// Doctrinal pages never use Article or other CreativeWork subtypes.
const (
	// TypeWebSite is the singleton site node.
	TypeWebSite = "WebSite"

	// TypePerson is the singleton publisher/author node.
	TypePerson = "Person"

	// TypeWebPage is the node type for every rendered page.
	TypeWebPage = "WebPage"

	// TypeDefinedTerm is the node type for a glossary term.
	TypeDefinedTerm = "DefinedTerm"

	// TypeDefinedTermSet is the node type for the glossary collection.
	TypeDefinedTermSet = "DefinedTermSet"

	// TypeDataset is the node type of the manifest document.
	TypeDataset = "Dataset"

	// TypeDataDownload is the node type of each manifest entry.
	TypeDataDownload = "DataDownload"

	// TypeThing is the generic subject node for the "about" property.
	TypeThing = "Thing"
)

// ForbiddenPageTypes lists node types the gate rejects on doctrinal pages.
var ForbiddenPageTypes = []string{
	"Article",
	"NewsArticle",
	"BlogPosting",
	"TechArticle",
	"ScholarlyArticle",
	"CreativeWork",
}

// Governance meta flags. Each rendered page carries the closed set below in
// <meta name="..."> tags; the gate asserts their presence and values.
const (
	// MetaStatus is always "doctrinal".
	MetaStatus = "ig:status"

	// MetaOperability is always "non-operational".
	MetaOperability = "ig:operability"

	// MetaDoctrineVersion carries the run's doctrine version.
	MetaDoctrineVersion = "ig:doctrine-version"

	// MetaClassification carries normative|informative.
	MetaClassification = "ig:classification"

	// MetaEntityType marks term pages ("DefinedTerm").
	MetaEntityType = "ig:entity-type"

	// MetaEntityID carries the term's stable identifier.
	MetaEntityID = "ig:entity-id"

	// MetaTermCode carries the machine term code.
	MetaTermCode = "ig:termCode"

	// MetaEntityStatus carries the term lifecycle status.
	MetaEntityStatus = "ig:entity-status"

	// MetaDocID carries the document's stable identifier on non-term pages.
	MetaDocID = "ig:doc-id"
)

// Required governance flag values.
const (
	StatusDoctrinal           = "doctrinal"
	OperabilityNonOperational = "non-operational"
)

// GovernancePropPrefix marks properties that must never appear on JSON-LD
// nodes; governance metadata lives in meta flags only.
const GovernancePropPrefix = "ig:"

// DoctrineKeywordPrefix is the versioned keyword stamped on manifest
// entries (e.g. "doctrine:2.1").
const DoctrineKeywordPrefix = "doctrine:"

// Classification values for terms and documents.
const (
	ClassificationNormative   = "normative"
	ClassificationInformative = "informative"
)

// StatusCanonical is the lifecycle status of a settled term.
const StatusCanonical = "canonical"

// LangXDefault is the hreflang tag of the fallback alternate.
const LangXDefault = "x-default"
