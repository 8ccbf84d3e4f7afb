// Package publish orchestrates one full generation run: load registries,
// resolve URLs, fan out to the page renderer, manifest builder, and sitemap
// builder, then write the output tree. Every run recomputes everything from
// scratch; each file is written exactly once.
package publish

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/uuid"

	"github.com/c360studio/igsite/config"
	"github.com/c360studio/igsite/locale"
	"github.com/c360studio/igsite/manifest"
	"github.com/c360studio/igsite/registry"
	"github.com/c360studio/igsite/render"
	"github.com/c360studio/igsite/sitemap"
	"github.com/c360studio/igsite/vocab"
)

// Publisher runs the generation pipeline.
type Publisher struct {
	cfg    *config.Config
	logger *slog.Logger
}

// Result summarizes a completed run.
type Result struct {
	RunID           string
	DoctrineVersion string
	Pages           int
	Files           int
}

// New creates a publisher for the run's configuration.
func New(cfg *config.Config, logger *slog.Logger) *Publisher {
	return &Publisher{cfg: cfg, logger: logger}
}

// Run executes one full generation: registries in, output tree out.
// Any failure aborts the run; partial output is never valid.
func (p *Publisher) Run(termsPath, docsPath, outDir string) (*Result, error) {
	runID := uuid.New().String()
	logger := p.logger.With("run_id", runID)

	terms, docs, err := registry.Load(termsPath, docsPath, p.cfg.LanguageTags())
	if err != nil {
		return nil, err
	}
	logger.Info("Registries loaded",
		"doctrine_version", terms.DoctrineVersion,
		"terms", len(terms.Terms),
		"documents", len(docs.Documents))

	res := locale.NewResolver(p.cfg)
	renderer := render.New(p.cfg, res, terms, docs)

	// Build every artifact in memory before touching the output tree.
	files := make(map[string][]byte)

	pages, err := p.renderPages(renderer, res, terms, docs)
	if err != nil {
		return nil, err
	}
	for rel, content := range pages {
		files[rel] = []byte(content)
	}

	smBuilder := sitemap.NewBuilder(p.cfg, res, terms, docs)
	sm, err := smBuilder.Build()
	if err != nil {
		return nil, err
	}
	files["sitemap.xml"] = []byte(sm)

	man := manifest.NewBuilder(p.cfg, res, terms, docs).Build()
	manBytes, err := man.Encode()
	if err != nil {
		return nil, err
	}
	manifestRel := relPath(p.cfg.Discovery.ManifestPath)
	files[manifestRel] = manBytes

	// Registries are republished verbatim, plus well-known mirrors.
	termsRaw, err := os.ReadFile(termsPath)
	if err != nil {
		return nil, fmt.Errorf("reread terms registry: %w", err)
	}
	docsRaw, err := os.ReadFile(docsPath)
	if err != nil {
		return nil, fmt.Errorf("reread documents registry: %w", err)
	}
	wk := relPath(p.cfg.Discovery.WellKnownDir)
	files[relPath(p.cfg.Discovery.TermsPath)] = termsRaw
	files[relPath(p.cfg.Discovery.DocumentsPath)] = docsRaw
	files[wk+"/ig-terms.json"] = termsRaw
	files[wk+"/ig-documents.json"] = docsRaw
	files[wk+"/ig-manifest.json"] = manBytes

	files["robots.txt"] = []byte(p.robotsText())
	files["humans.txt"] = []byte(p.humansText(terms))

	llms, err := p.llmsText(renderer, terms, docs)
	if err != nil {
		return nil, err
	}
	files["llms.txt"] = []byte(llms)

	if err := writeTree(outDir, files); err != nil {
		return nil, err
	}

	logger.Info("Generation complete",
		"out_dir", outDir,
		"pages", len(pages),
		"files", len(files))

	return &Result{
		RunID:           runID,
		DoctrineVersion: terms.DoctrineVersion,
		Pages:           len(pages),
		Files:           len(files),
	}, nil
}

// renderPages renders every (entity, language) page keyed by output file
// path relative to the output root.
func (p *Publisher) renderPages(renderer *render.Renderer, res *locale.Resolver, terms *registry.TermRegistry, docs *registry.DocumentRegistry) (map[string]string, error) {
	pages := make(map[string]string)

	put := func(path, content string) {
		pages[locale.FilePath(path)] = content
	}

	for i := range docs.Documents {
		d := &docs.Documents[i]
		for _, lang := range p.cfg.Languages {
			v, ok := d.Variants[lang.Tag]
			if !ok {
				continue
			}
			var (
				page string
				err  error
			)
			if d.Role == registry.RoleGlossary {
				page, err = renderer.GlossaryPage(d, lang)
			} else {
				page, err = renderer.DocumentPage(d, lang)
			}
			if err != nil {
				return nil, err
			}
			put(v.Path, page)
		}
		if v, ok := d.Variants[vocab.LangXDefault]; ok {
			page, err := renderer.RootSelectorPage(d)
			if err != nil {
				return nil, err
			}
			put(v.Path, page)
		}
	}

	for i := range terms.Terms {
		t := &terms.Terms[i]
		for _, lang := range p.cfg.Languages {
			page, err := renderer.TermPage(t, lang)
			if err != nil {
				return nil, err
			}
			pages[locale.FilePath(res.TermPath(lang, t.Slug))] = page
		}
	}

	return pages, nil
}

// writeTree writes every file exactly once, in sorted path order.
func writeTree(outDir string, files map[string][]byte) error {
	paths := make([]string, 0, len(files))
	for rel := range files {
		paths = append(paths, rel)
	}
	sort.Strings(paths)

	for _, rel := range paths {
		abs := filepath.Join(outDir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
			return fmt.Errorf("create output directory for %s: %w", rel, err)
		}
		if err := os.WriteFile(abs, files[rel], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", rel, err)
		}
	}
	return nil
}

func (p *Publisher) robotsText() string {
	return "User-agent: *\nAllow: /\nSitemap: " + p.cfg.Site.Origin + "/sitemap.xml\n"
}

func (p *Publisher) humansText(terms *registry.TermRegistry) string {
	return fmt.Sprintf("/* TEAM */\nPublisher: %s\nSite: %s\n\n/* SITE */\nDoctrine version: %s\nLast update: %s\nLanguages: %s\n",
		p.cfg.Site.Publisher.Name,
		p.cfg.Site.Origin,
		terms.DoctrineVersion,
		terms.GeneratedAt,
		joinTags(p.cfg.LanguageTags()))
}

func joinTags(tags []string) string {
	out := ""
	for i, t := range tags {
		if i > 0 {
			out += " / "
		}
		out += t
	}
	return out
}

func relPath(sitePath string) string {
	if len(sitePath) > 0 && sitePath[0] == '/' {
		return sitePath[1:]
	}
	return sitePath
}
