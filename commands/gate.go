package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/c360studio/igsite/gate"
)

func newGateCmd(opts *rootOptions) *cobra.Command {
	var (
		collect        bool
		canonicalFatal bool
	)

	cmd := &cobra.Command{
		Use:   "gate",
		Short: "Verify a rendered tree against the registries",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			g := gate.New(cfg, opts.logger, gate.Options{
				CanonicalMismatchFatal: canonicalFatal,
				Collect:                collect,
			})
			if err := g.Run(opts.termsPath, opts.docsPath, opts.outDir); err != nil {
				var report *gate.Report
				if errors.As(err, &report) {
					for _, v := range report.Violations {
						fmt.Fprintf(cmd.ErrOrStderr(), "%s\n", v.Error())
					}
				}
				return err
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&collect, "collect", false, "Report all violations instead of stopping at the first")
	cmd.Flags().BoolVar(&canonicalFatal, "canonical-fatal", false, "Treat canonical mismatches as fatal instead of advisory")
	return cmd
}
