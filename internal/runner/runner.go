// Package runner drives batch extraction over SQL files: discovery,
// concurrent workers, result aggregation, and error reporting.
package runner

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/datatrail-labs/sqlcol/internal/normalize"
	"github.com/datatrail-labs/sqlcol/pkg/extract"
)

// FileResult is the outcome of extracting one SQL file. Refs is
// de-duplicated in first-occurrence order; the core keeps duplicates,
// the runner applies the reporting policy.
type FileResult struct {
	Path     string
	Report   string
	Dataset  string
	Refs     []string
	Status   extract.Status
	Dialect  string
	Attempts []extract.Attempt
	Err      error
}

// Summary aggregates a batch run.
type Summary struct {
	BatchID     string
	Files       []FileResult
	Succeeded   int
	ZeroColumns int
	Failed      int
}

// Runner executes extraction over many files with a bounded worker
// pool.
type Runner struct {
	extractor *extract.Extractor
	workers   int
	log       *slog.Logger
}

// New returns a Runner. workers < 1 means one worker.
func New(opts extract.Options, workers int, log *slog.Logger) *Runner {
	if workers < 1 {
		workers = 1
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Runner{
		extractor: extract.New(opts, log),
		workers:   workers,
		log:       log,
	}
}

// Run discovers SQL files under the given paths and extracts each.
// File order in the summary matches discovery order regardless of
// worker scheduling. Only I/O and discovery problems fail the run;
// per-file parse failures land in the summary.
func (r *Runner) Run(ctx context.Context, paths []string) (*Summary, error) {
	files, err := Discover(paths)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		BatchID: uuid.New().String(),
		Files:   make([]FileResult, len(files)),
	}
	r.log.Info("starting batch", "batch_id", summary.BatchID, "files", len(files), "workers", r.workers)

	type indexed struct {
		i   int
		res FileResult
	}
	results := make(chan indexed, r.workers)

	// Single aggregator goroutine serializes writes into the summary.
	aggDone := make(chan struct{})
	go func() {
		defer close(aggDone)
		for ir := range results {
			summary.Files[ir.i] = ir.res
		}
	}()

	eg, egctx := errgroup.WithContext(ctx)
	eg.SetLimit(r.workers)
	for i, path := range files {
		i, path := i, path
		eg.Go(func() error {
			if err := egctx.Err(); err != nil {
				return err
			}
			results <- indexed{i, r.processFile(path)}
			return nil
		})
	}

	err = eg.Wait()
	close(results)
	<-aggDone
	if err != nil {
		return nil, err
	}

	for _, f := range summary.Files {
		switch f.Status {
		case extract.StatusSuccess, extract.StatusPartial:
			summary.Succeeded++
		case extract.StatusZeroColumns:
			summary.ZeroColumns++
		default:
			summary.Failed++
		}
	}
	return summary, nil
}

func (r *Runner) processFile(path string) FileResult {
	report, dataset := ParseFilename(path)
	res := FileResult{Path: path, Report: report, Dataset: dataset}

	raw, err := os.ReadFile(path)
	if err != nil {
		res.Status = extract.StatusParseError
		res.Err = err
		return res
	}

	text := normalize.Clean(string(raw))
	if text == "" {
		res.Status = extract.StatusZeroColumns
		return res
	}

	out := r.extractor.Extract(text)
	res.Refs = dedupe(out.Refs)
	res.Status = out.Status
	res.Dialect = out.Dialect
	res.Attempts = out.Attempts
	res.Err = out.Err()

	r.log.Debug("processed file",
		"path", path, "status", res.Status.String(), "columns", len(res.Refs))
	return res
}

// Discover expands the given paths into a sorted list of .sql files.
// Directories are walked recursively. An empty path list means the
// current directory.
func Discover(paths []string) ([]string, error) {
	if len(paths) == 0 {
		paths = []string{"."}
	}

	var files []string
	seen := map[string]bool{}
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", p, err)
		}

		if !info.IsDir() {
			if isSQLFile(p) && !seen[p] {
				seen[p] = true
				files = append(files, p)
			}
			continue
		}

		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && isSQLFile(path) && !seen[path] {
				seen[path] = true
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", p, err)
		}
	}

	sort.Strings(files)
	return files, nil
}

func isSQLFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".sql")
}

// ParseFilename splits a file name on the report__dataset convention.
// A name without the double-underscore separator is all report, with
// the dataset defaulting to "Default".
func ParseFilename(path string) (report, dataset string) {
	name := filepath.Base(path)
	name = strings.TrimSuffix(name, filepath.Ext(name))

	report, dataset, found := strings.Cut(name, "__")
	if !found || dataset == "" {
		dataset = "Default"
	}
	return report, dataset
}

func dedupe(refs []string) []string {
	if len(refs) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(refs))
	out := make([]string, 0, len(refs))
	for _, r := range refs {
		if seen[r] {
			continue
		}
		seen[r] = true
		out = append(out, r)
	}
	return out
}
