package commands

import (
	"github.com/spf13/cobra"

	"github.com/c360studio/igsite/publish"
)

func newGenerateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "generate",
		Short: "Render the full site into the output directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			result, err := publish.New(cfg, opts.logger).Run(opts.termsPath, opts.docsPath, opts.outDir)
			if err != nil {
				return err
			}

			opts.logger.Info("Site generated",
				"doctrine_version", result.DoctrineVersion,
				"pages", result.Pages,
				"files", result.Files,
				"out", opts.outDir)
			return nil
		},
	}
}
