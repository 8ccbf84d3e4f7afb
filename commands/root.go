// Package commands wires the igsite CLI surface: generate, gate, watch,
// and version subcommands sharing one flag set.
package commands

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/c360studio/igsite/config"
)

// rootOptions holds the flags shared by every subcommand.
type rootOptions struct {
	configPath string
	termsPath  string
	docsPath   string
	outDir     string
	logLevel   string

	logger *slog.Logger
}

// Root builds the igsite root command.
func Root(version, buildTime string) *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "igsite",
		Short: "Doctrine site generator and consistency gate",
		Long: `Igsite renders a multilingual doctrine site from two JSON registries
and verifies the rendered tree against them.

It provides:
- Deterministic page, manifest, and sitemap generation
- A consistency gate over the rendered output
- A watch mode that regenerates on registry changes`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			opts.logger = newLogger(opts.logLevel)
			slog.SetDefault(opts.logger)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "", "Config file path (YAML)")
	pf.StringVar(&opts.termsPath, "terms", "data/terms.json", "Terms registry path")
	pf.StringVar(&opts.docsPath, "documents", "data/documents.json", "Documents registry path")
	pf.StringVarP(&opts.outDir, "out", "o", "public", "Output directory")
	pf.StringVar(&opts.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	cmd.AddCommand(newGenerateCmd(opts))
	cmd.AddCommand(newGateCmd(opts))
	cmd.AddCommand(newWatchCmd(opts))
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("igsite version %s (build: %s)\n", version, buildTime)
		},
	})

	return cmd
}

func newLogger(logLevel string) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func (o *rootOptions) loadConfig() (*config.Config, error) {
	if o.configPath == "" {
		return config.DefaultConfig(), nil
	}
	cfg, err := config.LoadFromFile(o.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}
