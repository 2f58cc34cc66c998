package commands

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/datatrail-labs/sqlcol/internal/cli/config"
	"github.com/datatrail-labs/sqlcol/internal/runner"
)

// watchDebounce coalesces bursts of editor write events.
const watchDebounce = 200 * time.Millisecond

// NewWatchCommand creates the watch command.
func NewWatchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "watch [paths...]",
		Short: "Re-extract whenever watched SQL files change",
		Long: `Watch directories for SQL file changes and re-run extraction.

Runs one full extraction on startup, then again after every change to
a .sql file under the watched paths. Stops on interrupt.`,
		Example: `  # Watch the current directory
  sqlcol watch

  # Watch a reports folder with a forced dialect
  sqlcol watch -d tsql reports/`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := activeConfig()
			if err != nil {
				return err
			}

			log := config.GetLogger(cmd.Context())
			r := runner.New(cfg.ExtractOptions(), cfg.Workers, log)

			rerun := func() {
				summary, err := r.Run(cmd.Context(), args)
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "extraction failed: %v\n", err)
					return
				}
				if err := renderBatch(cmd, cfg, summary); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "render failed: %v\n", err)
				}
			}
			rerun()

			watcher, err := fsnotify.NewWatcher()
			if err != nil {
				return fmt.Errorf("failed to create watcher: %w", err)
			}
			defer func() { _ = watcher.Close() }()

			if len(args) == 0 {
				args = []string{"."}
			}
			for _, p := range args {
				if err := watchPath(watcher, p); err != nil {
					return err
				}
			}
			log.Info("watching for changes", "paths", args)

			ctx := cmd.Context()
			var debounce *time.Timer
			for {
				select {
				case <-ctx.Done():
					return nil

				case event, ok := <-watcher.Events:
					if !ok {
						return nil
					}
					if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
						continue
					}
					if !strings.EqualFold(filepath.Ext(event.Name), ".sql") {
						continue
					}
					if debounce != nil {
						debounce.Stop()
					}
					debounce = time.AfterFunc(watchDebounce, rerun)

				case err, ok := <-watcher.Errors:
					if !ok {
						return nil
					}
					log.Warn("watch error", "error", err)
				}
			}
		},
	}
}

// watchPath adds a directory tree to the watcher. A plain file watches
// its parent directory, since editors replace files on save.
func watchPath(watcher *fsnotify.Watcher, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.IsDir() {
		return watcher.Add(filepath.Dir(path))
	}
	return filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(p)
		}
		return nil
	})
}
