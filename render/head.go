package render

import (
	"fmt"
	"html"
	"strings"

	"github.com/c360studio/igsite/config"
	"github.com/c360studio/igsite/locale"
	"github.com/c360studio/igsite/vocab"
)

// Truncate caps s at max characters, cutting at the last whitespace
// boundary and appending an ellipsis. A string of exactly max characters is
// returned unchanged; a truncated result is at most max+1 characters
// including the ellipsis marker.
func Truncate(s string, max int) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	cut := string(runes[:max-1])
	if i := strings.LastIndexByte(cut, ' '); i >= 0 {
		cut = cut[:i]
	}
	return cut + "…"
}

// headCommon renders the shared <head> block: charset/viewport, title and
// truncated description, governance flags, canonical and hreflang links,
// registry references, and social preview metadata.
func (r *Renderer) headCommon(title, description, canonical string, lang config.LanguageConfig, cluster *locale.Cluster, ogType string) string {
	site := r.cfg.Site
	disc := r.cfg.Discovery

	var b strings.Builder
	b.WriteString("<meta charset=\"utf-8\"/>\n")
	b.WriteString("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\"/>\n")
	fmt.Fprintf(&b, "<title>%s</title>\n", html.EscapeString(title))
	fmt.Fprintf(&b, "<meta name=\"description\" content=\"%s\"/>\n", html.EscapeString(description))
	b.WriteString("<meta name=\"robots\" content=\"index,follow\"/>\n")
	fmt.Fprintf(&b, "<meta name=%q content=%q/>\n", vocab.MetaStatus, vocab.StatusDoctrinal)
	fmt.Fprintf(&b, "<meta name=%q content=%q/>\n", vocab.MetaOperability, vocab.OperabilityNonOperational)
	fmt.Fprintf(&b, "<meta name=%q content=%q/>\n", vocab.MetaDoctrineVersion, r.terms.DoctrineVersion)
	fmt.Fprintf(&b, "<link rel=\"icon\" type=\"image/svg+xml\" href=\"/assets/favicon.svg?v=%s\"/>\n", site.AssetVersion)
	fmt.Fprintf(&b, "<link rel=\"stylesheet\" href=\"/assets/style.css?v=%s\"/>\n", site.AssetVersion)
	fmt.Fprintf(&b, "<link rel=\"canonical\" href=%q/>\n", canonical)
	for _, alt := range cluster.Alternates() {
		fmt.Fprintf(&b, "<link rel=\"alternate\" hreflang=%q href=%q/>\n", alt[0], alt[1])
	}
	fmt.Fprintf(&b, "<link rel=\"alternate\" type=\"application/ld+json\" href=%q title=\"%s canonical manifest\"/>\n",
		site.Origin+disc.ManifestPath, html.EscapeString(site.Name))
	fmt.Fprintf(&b, "<link rel=\"alternate\" type=\"application/json\" href=%q title=\"%s terms registry\"/>\n",
		site.Origin+disc.TermsPath, html.EscapeString(site.Name))
	fmt.Fprintf(&b, "<meta property=\"og:site_name\" content=%q/>\n", site.Name)
	fmt.Fprintf(&b, "<meta property=\"og:title\" content=\"%s\"/>\n", html.EscapeString(title))
	fmt.Fprintf(&b, "<meta property=\"og:description\" content=\"%s\"/>\n", html.EscapeString(description))
	fmt.Fprintf(&b, "<meta property=\"og:type\" content=%q/>\n", ogType)
	fmt.Fprintf(&b, "<meta property=\"og:url\" content=%q/>\n", canonical)
	fmt.Fprintf(&b, "<meta property=\"og:image\" content=%q/>\n", site.Origin+"/assets/og.png")
	fmt.Fprintf(&b, "<meta property=\"og:locale\" content=%q/>\n", ogLocale(lang))
	b.WriteString("<meta name=\"twitter:card\" content=\"summary_large_image\"/>\n")
	fmt.Fprintf(&b, "<meta name=\"twitter:title\" content=\"%s\"/>\n", html.EscapeString(title))
	fmt.Fprintf(&b, "<meta name=\"twitter:description\" content=\"%s\"/>\n", html.EscapeString(description))
	fmt.Fprintf(&b, "<meta name=\"twitter:image\" content=%q/>", site.Origin+"/assets/og.png")
	return b.String()
}

// ogLocale derives the OpenGraph locale tag for a language. Configured
// values win; otherwise the BCP 47 tag is reshaped (fr-CA -> fr_CA).
func ogLocale(lang config.LanguageConfig) string {
	if lang.OGLocale != "" {
		return lang.OGLocale
	}
	return strings.ReplaceAll(lang.Tag, "-", "_")
}

// termMeta renders the per-term governance flags.
func termMeta(classification, id, termCode, status string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<meta name=%q content=%q/>\n", vocab.MetaClassification, classification)
	fmt.Fprintf(&b, "<meta name=%q content=%q/>\n", vocab.MetaEntityType, vocab.TypeDefinedTerm)
	fmt.Fprintf(&b, "<meta name=%q content=%q/>\n", vocab.MetaEntityID, id)
	fmt.Fprintf(&b, "<meta name=%q content=%q/>\n", vocab.MetaTermCode, termCode)
	fmt.Fprintf(&b, "<meta name=%q content=%q/>", vocab.MetaEntityStatus, status)
	return b.String()
}

// docMeta renders the per-document governance flags.
func docMeta(id, classification string) string {
	return fmt.Sprintf("<meta name=%q content=%q/>\n<meta name=%q content=%q/>",
		vocab.MetaDocID, id, vocab.MetaClassification, classification)
}
