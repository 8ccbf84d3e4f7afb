package gate

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"

	"github.com/c360studio/igsite/config"
	"github.com/c360studio/igsite/locale"
	"github.com/c360studio/igsite/registry"
	"github.com/c360studio/igsite/vocab"
)

// locRe extracts <loc> values from the sitemap document.
var locRe = regexp.MustCompile(`<loc>(.*?)</loc>`)

// Options select gate behavior that the design makes an explicit choice
// rather than an accident.
type Options struct {
	// CanonicalMismatchFatal promotes exact canonical-path mismatches from
	// advisory (log, continue) to fatal. Extension leakage in a canonical
	// is always fatal regardless.
	CanonicalMismatchFatal bool

	// Collect gathers all violations across categories instead of aborting
	// on the first failed category. The default contract is fail-fast.
	Collect bool
}

// Gate verifies one output tree against the registries.
type Gate struct {
	cfg    *config.Config
	logger *slog.Logger
	opts   Options
}

// New creates a gate for the run's configuration.
func New(cfg *config.Config, logger *slog.Logger, opts Options) *Gate {
	return &Gate{cfg: cfg, logger: logger, opts: opts}
}

// Run executes the ordered check sequence. The first failed category aborts
// with a descriptive error; later categories are not attempted. In collect
// mode every category runs and the aggregate report is returned.
func (g *Gate) Run(termsPath, docsPath, outDir string) error {
	runID := uuid.New().String()
	logger := g.logger.With("run_id", runID)

	var report Report
	fail := func(vs []*Violation) error {
		if len(vs) == 0 {
			return nil
		}
		if g.opts.Collect {
			report.Violations = append(report.Violations, vs...)
			return nil
		}
		return vs[0]
	}

	// (a) registry schema completeness and doctrine-version agreement.
	terms, docs, err := registry.Load(termsPath, docsPath, g.cfg.LanguageTags())
	if err != nil {
		return err
	}
	logger.Debug("Registry checks passed", "doctrine_version", terms.DoctrineVersion)

	// (b) manifest references both source registries.
	if err := fail(g.checkManifest(outDir)); err != nil {
		return err
	}
	logger.Debug("Manifest checks passed")

	pages, err := g.loadPages(outDir)
	if err != nil {
		return err
	}

	// (c) per-page HTML checks.
	if err := fail(g.checkPages(pages, terms.DoctrineVersion, logger)); err != nil {
		return err
	}
	logger.Debug("Page checks passed", "pages", len(pages))

	// (d) global uniqueness and clean-URL link hygiene.
	if err := fail(g.checkGlobal(pages)); err != nil {
		return err
	}
	logger.Debug("Uniqueness checks passed")

	// (e) registry-to-filesystem correspondence.
	if err := fail(g.checkRegistryFiles(outDir, terms, docs)); err != nil {
		return err
	}
	logger.Debug("Registry-to-filesystem checks passed")

	// (f) sitemap completeness.
	if err := fail(g.checkSitemap(outDir, pages)); err != nil {
		return err
	}
	logger.Debug("Sitemap checks passed")

	if len(report.Violations) > 0 {
		return &report
	}

	logger.Info("All consistency checks passed", "pages", len(pages))
	return nil
}

// loadPages discovers and parses every rendered HTML file in the tree,
// sorted by path. The 404 page is hosting chrome, not a doctrinal page.
func (g *Gate) loadPages(outDir string) ([]*pageInfo, error) {
	matches, err := doublestar.Glob(os.DirFS(outDir), "**/*.html")
	if err != nil {
		return nil, fmt.Errorf("scan output tree: %w", err)
	}
	sort.Strings(matches)

	var pages []*pageInfo
	for _, rel := range matches {
		if filepath.Base(rel) == "404.html" {
			continue
		}
		p, err := parsePage(filepath.Join(outDir, filepath.FromSlash(rel)), rel)
		if err != nil {
			return nil, err
		}
		pages = append(pages, p)
	}
	return pages, nil
}

func (g *Gate) checkManifest(outDir string) []*Violation {
	rel := strings.TrimPrefix(g.cfg.Discovery.ManifestPath, "/")
	data, err := os.ReadFile(filepath.Join(outDir, filepath.FromSlash(rel)))
	if err != nil {
		return []*Violation{{File: rel, Rule: RuleManifestReference, Detail: "manifest not readable: " + err.Error()}}
	}

	var man struct {
		Distribution []struct {
			ContentURL string `json:"contentUrl"`
		} `json:"distribution"`
	}
	if err := json.Unmarshal(data, &man); err != nil {
		return []*Violation{{File: rel, Rule: RuleManifestReference, Detail: "manifest is not valid JSON: " + err.Error()}}
	}

	urls := make(map[string]bool, len(man.Distribution))
	for _, d := range man.Distribution {
		urls[d.ContentURL] = true
	}

	var vs []*Violation
	for _, p := range []string{g.cfg.Discovery.TermsPath, g.cfg.Discovery.DocumentsPath} {
		want := g.cfg.Site.Origin + p
		if !urls[want] {
			vs = append(vs, &Violation{File: rel, Rule: RuleManifestReference,
				Detail: "manifest does not reference source registry " + want})
		}
	}
	return vs
}

func (g *Gate) checkPages(pages []*pageInfo, doctrineVersion string, logger *slog.Logger) []*Violation {
	var vs []*Violation
	for _, p := range pages {
		vs = append(vs, g.checkPage(p, doctrineVersion, logger)...)
		if len(vs) > 0 && !g.opts.Collect {
			return vs
		}
	}
	return vs
}

func (g *Gate) checkPage(p *pageInfo, doctrineVersion string, logger *slog.Logger) []*Violation {
	var vs []*Violation
	add := func(rule, detail string) {
		vs = append(vs, &Violation{File: p.file, Rule: rule, Detail: detail})
	}

	if p.lang == "" {
		add(RulePageLang, "missing <html lang>")
	}
	if p.title == "" {
		add(RulePageTitle, "missing or empty <title>")
	}
	if p.description == "" {
		add(RulePageDescription, "missing meta description")
	}

	switch {
	case p.canonical == "":
		add(RuleCanonicalMissing, "missing canonical link")
	case strings.Contains(p.canonical, ".html"):
		add(RuleCanonicalExtension, "canonical contains template extension: "+p.canonical)
	default:
		expected := g.cfg.Site.Origin + locale.CanonicalPathFromFile(p.file)
		if p.canonical != expected {
			if g.opts.CanonicalMismatchFatal {
				add(RuleCanonicalMismatch, fmt.Sprintf("canonical %s does not match expected %s", p.canonical, expected))
			} else {
				logger.Warn("Canonical mismatch (advisory)",
					"file", p.file, "canonical", p.canonical, "expected", expected)
			}
		}
	}

	vs = append(vs, g.checkStructuredData(p)...)
	vs = append(vs, g.checkGovernanceMeta(p, doctrineVersion)...)
	return vs
}

// checkStructuredData asserts the embedded graph parses and contains no
// forbidden node shape: no Article/CreativeWork typing on doctrinal pages
// and no governance metadata encoded into node properties.
func (g *Gate) checkStructuredData(p *pageInfo) []*Violation {
	var vs []*Violation
	add := func(rule, detail string) {
		vs = append(vs, &Violation{File: p.file, Rule: rule, Detail: detail})
	}

	if len(p.jsonld) == 0 {
		add(RuleStructuredData, "missing JSON-LD structured data")
		return vs
	}

	for _, raw := range p.jsonld {
		var doc struct {
			Graph []map[string]any `json:"@graph"`
		}
		if err := json.Unmarshal([]byte(raw), &doc); err != nil {
			add(RuleStructuredData, "JSON-LD does not parse: "+err.Error())
			continue
		}
		if len(doc.Graph) == 0 {
			add(RuleStructuredData, "JSON-LD graph is empty")
			continue
		}
		for _, node := range doc.Graph {
			for _, typ := range nodeTypes(node) {
				for _, forbidden := range vocab.ForbiddenPageTypes {
					if typ == forbidden {
						add(RuleStructuredShape, "forbidden node type "+typ+" on doctrinal page")
					}
				}
			}
			for key := range node {
				if strings.HasPrefix(key, vocab.GovernancePropPrefix) {
					add(RuleStructuredShape, "governance property "+key+" encoded in structured data")
				}
			}
			if kws, ok := node["keywords"].([]any); ok {
				for _, kw := range kws {
					if s, ok := kw.(string); ok && strings.HasPrefix(s, vocab.DoctrineKeywordPrefix) {
						add(RuleStructuredShape, "governance keyword "+s+" encoded in structured data")
					}
				}
			}
		}
	}
	return vs
}

func nodeTypes(node map[string]any) []string {
	switch t := node["@type"].(type) {
	case string:
		return []string{t}
	case []any:
		var out []string
		for _, v := range t {
			if s, ok := v.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// checkGovernanceMeta asserts the closed set of ig:* flags, plus the
// per-entity flags term and document pages must carry.
func (g *Gate) checkGovernanceMeta(p *pageInfo, doctrineVersion string) []*Violation {
	var vs []*Violation
	add := func(detail string) {
		vs = append(vs, &Violation{File: p.file, Rule: RuleGovernanceMeta, Detail: detail})
	}

	required := map[string]string{
		vocab.MetaStatus:          vocab.StatusDoctrinal,
		vocab.MetaOperability:     vocab.OperabilityNonOperational,
		vocab.MetaDoctrineVersion: doctrineVersion,
	}
	for name, want := range required {
		got, ok := p.metas[name]
		if !ok {
			add("missing governance flag " + name)
			continue
		}
		if got != want {
			add(fmt.Sprintf("governance flag %s is %q, required %q", name, got, want))
		}
	}

	if p.metas[vocab.MetaEntityType] == vocab.TypeDefinedTerm {
		if p.metas[vocab.MetaEntityID] == "" {
			add("term page missing " + vocab.MetaEntityID)
		}
		if p.metas[vocab.MetaTermCode] == "" {
			add("term page missing " + vocab.MetaTermCode)
		}
	} else if p.metas[vocab.MetaDocID] == "" {
		add("document page missing " + vocab.MetaDocID)
	}
	return vs
}

func (g *Gate) checkGlobal(pages []*pageInfo) []*Violation {
	var vs []*Violation

	titles := make(map[string]string, len(pages))
	descs := make(map[string]string, len(pages))
	for _, p := range pages {
		if other, ok := titles[p.title]; ok {
			vs = append(vs, &Violation{File: p.file, Rule: RuleDuplicateTitle,
				Detail: fmt.Sprintf("title %q duplicates %s", p.title, other)})
		} else {
			titles[p.title] = p.file
		}
		if other, ok := descs[p.description]; ok {
			vs = append(vs, &Violation{File: p.file, Rule: RuleDuplicateDesc,
				Detail: fmt.Sprintf("description duplicates %s", other)})
		} else {
			descs[p.description] = p.file
		}
		for _, href := range p.anchors {
			if isExternal(href) {
				continue
			}
			if strings.Contains(href, ".html") {
				vs = append(vs, &Violation{File: p.file, Rule: RuleExtensionLink,
					Detail: "internal link carries template extension: " + href})
			}
		}
	}
	return vs
}

// checkRegistryFiles asserts every declared document variant URL and every
// term's per-language URL maps to an existing rendered file.
func (g *Gate) checkRegistryFiles(outDir string, terms *registry.TermRegistry, docs *registry.DocumentRegistry) []*Violation {
	var vs []*Violation
	res := locale.NewResolver(g.cfg)

	exists := func(sitePath string) bool {
		rel := locale.FilePath(locale.CleanPath(sitePath))
		_, err := os.Stat(filepath.Join(outDir, filepath.FromSlash(rel)))
		return err == nil
	}

	for i := range docs.Documents {
		d := &docs.Documents[i]
		for _, tag := range append(g.cfg.LanguageTags(), vocab.LangXDefault) {
			v, ok := d.Variants[tag]
			if !ok {
				continue
			}
			if !exists(v.Path) {
				vs = append(vs, &Violation{File: locale.FilePath(locale.CleanPath(v.Path)), Rule: RuleRegistryFile,
					Detail: fmt.Sprintf("document %s declares %s variant %s but no rendered file exists", d.ID, tag, v.Path)})
			}
		}
	}

	for i := range terms.Terms {
		t := &terms.Terms[i]
		for _, lang := range g.cfg.Languages {
			path := res.TermPath(lang, t.Slug)
			if !exists(path) {
				vs = append(vs, &Violation{File: locale.FilePath(path), Rule: RuleRegistryFile,
					Detail: fmt.Sprintf("term %s has no rendered %s page at %s", t.ID, lang.Tag, path)})
			}
		}
	}
	return vs
}

// checkSitemap asserts the sitemap is extension-free and that the canonical
// URL of every rendered file appears in it. Extra sitemap URLs are allowed;
// missing ones are defects.
func (g *Gate) checkSitemap(outDir string, pages []*pageInfo) []*Violation {
	data, err := os.ReadFile(filepath.Join(outDir, "sitemap.xml"))
	if err != nil {
		return []*Violation{{File: "sitemap.xml", Rule: RuleSitemapMissing, Detail: "sitemap not readable: " + err.Error()}}
	}
	text := string(data)

	var vs []*Violation
	if strings.Contains(text, ".html") {
		vs = append(vs, &Violation{File: "sitemap.xml", Rule: RuleSitemapExtension,
			Detail: "sitemap contains template extensions"})
		if !g.opts.Collect {
			return vs
		}
	}

	listed := make(map[string]bool)
	for _, m := range locRe.FindAllStringSubmatch(text, -1) {
		listed[m[1]] = true
	}

	var missing []string
	for _, p := range pages {
		want := g.cfg.Site.Origin + locale.CanonicalPathFromFile(p.file)
		if !listed[want] {
			missing = append(missing, want)
		}
	}
	sort.Strings(missing)
	for _, url := range missing {
		vs = append(vs, &Violation{File: "sitemap.xml", Rule: RuleSitemapMissing,
			Detail: "sitemap is missing " + url})
	}
	return vs
}
