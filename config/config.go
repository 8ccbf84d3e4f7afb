// Package config provides configuration loading for the igsite pipeline.
// The configuration is constructed once at startup and passed explicitly to
// every component; nothing reads it from ambient global state.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the complete, immutable site configuration for one run.
type Config struct {
	Site      SiteConfig       `yaml:"site"`
	Languages []LanguageConfig `yaml:"languages"`
	Render    RenderConfig     `yaml:"render"`
	Discovery DiscoveryConfig  `yaml:"discovery"`
}

// SiteConfig identifies the published site and its publisher.
type SiteConfig struct {
	// Origin is the public origin URL, without a trailing slash.
	Origin string `yaml:"origin"`
	// Name is the site name used in titles and structured data.
	Name string `yaml:"name"`
	// Description is the site-level description for the WebSite node.
	Description string `yaml:"description"`
	// AssetVersion is appended to asset URLs for cache busting.
	AssetVersion string `yaml:"asset_version"`
	// Publisher describes the person behind the site.
	Publisher PublisherConfig `yaml:"publisher"`
}

// PublisherConfig describes the site publisher for structured data.
type PublisherConfig struct {
	Name   string   `yaml:"name"`
	URL    string   `yaml:"url"`
	SameAs []string `yaml:"same_as"`
}

// LanguageConfig describes one supported language.
type LanguageConfig struct {
	// Tag is the BCP 47 language tag (e.g. "en", "fr-CA").
	Tag string `yaml:"tag"`
	// PathPrefix is the language path segment (e.g. "/en").
	PathPrefix string `yaml:"path_prefix"`
	// TermsSegment is the localized path segment for term pages
	// (e.g. "terms", "termes").
	TermsSegment string `yaml:"terms_segment"`
	// OGLocale is the OpenGraph locale value (e.g. "en_US").
	OGLocale string `yaml:"og_locale"`
	// SwitchLabel is the label shown on the language-switch link.
	SwitchLabel string `yaml:"switch_label"`
}

// RenderConfig controls page rendering behavior.
type RenderConfig struct {
	// DescriptionLimit caps meta descriptions, truncated at a word boundary.
	DescriptionLimit int `yaml:"description_limit"`
	// LanguageInPath selects whether the language prefix is part of the
	// canonical path. When false, language is negotiated by the host layer
	// and canonical paths omit the prefix.
	LanguageInPath bool `yaml:"language_in_path"`
}

// DiscoveryConfig fixes the public paths of machine-discovery files.
type DiscoveryConfig struct {
	ManifestPath  string `yaml:"manifest_path"`
	TermsPath     string `yaml:"terms_path"`
	DocumentsPath string `yaml:"documents_path"`
	WellKnownDir  string `yaml:"well_known_dir"`
	// ExtraFiles lists auxiliary files the manifest advertises
	// (robots, humans, governance and license documents).
	ExtraFiles []DiscoveryFile `yaml:"extra_files"`
}

// DiscoveryFile is one auxiliary discovery file advertised by the manifest.
type DiscoveryFile struct {
	Name      string `yaml:"name"`
	Path      string `yaml:"path"`
	MediaType string `yaml:"media_type"`
}

// DefaultConfig returns a Config with the canonical site defaults.
func DefaultConfig() *Config {
	return &Config{
		Site: SiteConfig{
			Origin:       "https://interpretive-governance.org",
			Name:         "Interpretive Governance",
			Description:  "Doctrinal reference for bounded interpretation and auditable machine responses (non-operational).",
			AssetVersion: "20260227-1",
			Publisher: PublisherConfig{
				Name: "Gautier Dorval",
				URL:  "https://gautierdorval.com/",
				SameAs: []string{
					"https://gautierdorval.com/",
					"https://github.com/GautierDorval/gautierdorval-identity",
				},
			},
		},
		Languages: []LanguageConfig{
			{
				Tag:          "en",
				PathPrefix:   "/en",
				TermsSegment: "terms",
				OGLocale:     "en_US",
				SwitchLabel:  "English",
			},
			{
				Tag:          "fr-CA",
				PathPrefix:   "/fr",
				TermsSegment: "termes",
				OGLocale:     "fr_CA",
				SwitchLabel:  "Français",
			},
		},
		Render: RenderConfig{
			DescriptionLimit: 175,
			LanguageInPath:   true,
		},
		Discovery: DiscoveryConfig{
			ManifestPath:  "/ig-manifest.json",
			TermsPath:     "/data/terms.json",
			DocumentsPath: "/data/documents.json",
			WellKnownDir:  "/.well-known",
			ExtraFiles: []DiscoveryFile{
				{Name: "LLMs discovery", Path: "/llms.txt", MediaType: "text/plain"},
				{Name: "Sitemap", Path: "/sitemap.xml", MediaType: "application/xml"},
				{Name: "Robots", Path: "/robots.txt", MediaType: "text/plain"},
				{Name: "Humans", Path: "/humans.txt", MediaType: "text/plain"},
				{Name: "Governance (repo)", Path: "/GOVERNANCE.md", MediaType: "text/markdown"},
				{Name: "Content policy (repo)", Path: "/CONTENT-POLICY.md", MediaType: "text/markdown"},
				{Name: "Copyright (repo)", Path: "/COPYRIGHT.md", MediaType: "text/markdown"},
			},
		},
	}
}

// Validate checks that the configuration is usable for a run.
func (c *Config) Validate() error {
	if c.Site.Origin == "" {
		return fmt.Errorf("site.origin is required")
	}
	if !strings.HasPrefix(c.Site.Origin, "https://") {
		return fmt.Errorf("site.origin must be an https URL, got %q", c.Site.Origin)
	}
	if strings.HasSuffix(c.Site.Origin, "/") {
		return fmt.Errorf("site.origin must not end with a slash, got %q", c.Site.Origin)
	}
	if c.Site.Name == "" {
		return fmt.Errorf("site.name is required")
	}
	if len(c.Languages) == 0 {
		return fmt.Errorf("at least one language is required")
	}
	seen := make(map[string]bool, len(c.Languages))
	for i, lang := range c.Languages {
		if lang.Tag == "" {
			return fmt.Errorf("languages[%d].tag is required", i)
		}
		if seen[lang.Tag] {
			return fmt.Errorf("duplicate language tag %q", lang.Tag)
		}
		seen[lang.Tag] = true
		if c.Render.LanguageInPath && !strings.HasPrefix(lang.PathPrefix, "/") {
			return fmt.Errorf("languages[%d].path_prefix must start with /, got %q", i, lang.PathPrefix)
		}
		if lang.TermsSegment == "" {
			return fmt.Errorf("languages[%d].terms_segment is required", i)
		}
	}
	if c.Render.DescriptionLimit <= 0 {
		return fmt.Errorf("render.description_limit must be positive")
	}
	if c.Discovery.ManifestPath == "" || c.Discovery.TermsPath == "" || c.Discovery.DocumentsPath == "" {
		return fmt.Errorf("discovery paths for manifest and registries are required")
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file, applied over defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Language returns the language config for a tag, or false if unsupported.
func (c *Config) Language(tag string) (LanguageConfig, bool) {
	for _, lang := range c.Languages {
		if lang.Tag == tag {
			return lang, true
		}
	}
	return LanguageConfig{}, false
}

// LanguageTags returns the supported language tags in declaration order.
func (c *Config) LanguageTags() []string {
	tags := make([]string, len(c.Languages))
	for i, lang := range c.Languages {
		tags[i] = lang.Tag
	}
	return tags
}
