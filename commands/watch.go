package commands

import (
	"context"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/c360studio/igsite/publish"
)

func newWatchCmd(opts *rootOptions) *cobra.Command {
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Regenerate the site whenever a registry file changes",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			publisher := publish.New(cfg, opts.logger)
			rebuild := func() {
				result, err := publisher.Run(opts.termsPath, opts.docsPath, opts.outDir)
				if err != nil {
					opts.logger.Error("Regeneration failed", "error", err)
					return
				}
				opts.logger.Info("Site regenerated",
					"doctrine_version", result.DoctrineVersion,
					"files", result.Files)
			}

			// Initial build before watching.
			rebuild()

			fsw, err := fsnotify.NewWatcher()
			if err != nil {
				return err
			}
			defer fsw.Close()

			// Editors replace files with rename+create, so watch the
			// containing directories and filter by name.
			watched := map[string]bool{
				filepath.Clean(opts.termsPath): true,
				filepath.Clean(opts.docsPath):  true,
			}
			dirs := map[string]bool{}
			for path := range watched {
				dirs[filepath.Dir(path)] = true
			}
			for dir := range dirs {
				if err := fsw.Add(dir); err != nil {
					return err
				}
				opts.logger.Debug("Watching directory", "path", dir)
			}

			ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			var mu sync.Mutex
			dirty := false

			ticker := time.NewTicker(debounce)
			defer ticker.Stop()

			opts.logger.Info("Watching registries", "debounce", debounce)
			for {
				select {
				case <-ctx.Done():
					opts.logger.Info("Watch stopped")
					return nil

				case event, ok := <-fsw.Events:
					if !ok {
						return nil
					}
					if !watched[filepath.Clean(event.Name)] {
						continue
					}
					opts.logger.Debug("Registry change detected",
						"path", event.Name, "op", event.Op.String())
					mu.Lock()
					dirty = true
					mu.Unlock()

				case err, ok := <-fsw.Errors:
					if !ok {
						return nil
					}
					opts.logger.Error("Watcher error", "error", err)

				case <-ticker.C:
					mu.Lock()
					pending := dirty
					dirty = false
					mu.Unlock()
					if pending {
						rebuild()
					}
				}
			}
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", 500*time.Millisecond, "Delay before rebuilding after a change")
	return cmd
}
