package runner

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/datatrail-labs/sqlcol/internal/normalize"
	"github.com/datatrail-labs/sqlcol/pkg/extract"
)

// WriteErrorReport writes an errors.txt under dir listing every file
// that parsed to zero columns or failed outright, with the dialect
// attempts behind each failure. Returns the report path, or "" when the
// batch had nothing to report.
func WriteErrorReport(dir string, s *Summary) (string, error) {
	var problems []FileResult
	for _, f := range s.Files {
		if f.Status == extract.StatusZeroColumns || f.Status == extract.StatusParseError {
			problems = append(problems, f)
		}
	}
	if len(problems) == 0 {
		return "", nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Extraction error report\n")
	fmt.Fprintf(&b, "Batch: %s\n", s.BatchID)
	fmt.Fprintf(&b, "Files with problems: %d of %d\n\n", len(problems), len(s.Files))

	for _, f := range problems {
		fmt.Fprintf(&b, "%s\n", f.Path)
		fmt.Fprintf(&b, "  status: %s (report %q, dataset %q)\n", f.Status, f.Report, f.Dataset)
		for _, at := range f.Attempts {
			if at.Err == nil {
				continue
			}
			fmt.Fprintf(&b, "  %s: %s\n", at.Dialect, normalize.StripEscapes(at.Err.Error()))
		}
		if f.Err != nil && len(f.Attempts) == 0 {
			fmt.Fprintf(&b, "  error: %s\n", normalize.StripEscapes(f.Err.Error()))
		}
		b.WriteByte('\n')
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}
	path := filepath.Join(dir, "errors.txt")
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return "", fmt.Errorf("write error report: %w", err)
	}
	return path, nil
}
