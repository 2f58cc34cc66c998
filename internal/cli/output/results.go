package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/datatrail-labs/sqlcol/internal/runner"
)

// csvHeader matches the reporting convention downstream tools consume.
var csvHeader = []string{"ReportName", "Dataset", "ColumnName"}

// WriteCSV writes one row per extracted column reference.
func WriteCSV(w io.Writer, s *runner.Summary) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, f := range s.Files {
		for _, ref := range f.Refs {
			if err := cw.Write([]string{f.Report, f.Dataset, ref}); err != nil {
				return fmt.Errorf("write csv row: %w", err)
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// jsonFile is the per-file shape of the JSON output.
type jsonFile struct {
	Path    string   `json:"path"`
	Report  string   `json:"report"`
	Dataset string   `json:"dataset"`
	Status  string   `json:"status"`
	Dialect string   `json:"dialect,omitempty"`
	Error   string   `json:"error,omitempty"`
	Columns []string `json:"columns"`
}

type jsonSummary struct {
	BatchID     string     `json:"batch_id"`
	Files       []jsonFile `json:"files"`
	Succeeded   int        `json:"succeeded"`
	ZeroColumns int        `json:"zero_columns"`
	Failed      int        `json:"failed"`
}

// WriteJSON writes the whole batch as one JSON document.
func WriteJSON(w io.Writer, s *runner.Summary) error {
	doc := jsonSummary{
		BatchID:     s.BatchID,
		Files:       make([]jsonFile, 0, len(s.Files)),
		Succeeded:   s.Succeeded,
		ZeroColumns: s.ZeroColumns,
		Failed:      s.Failed,
	}
	for _, f := range s.Files {
		jf := jsonFile{
			Path:    f.Path,
			Report:  f.Report,
			Dataset: f.Dataset,
			Status:  f.Status.String(),
			Dialect: f.Dialect,
			Columns: f.Refs,
		}
		if jf.Columns == nil {
			jf.Columns = []string{}
		}
		if f.Err != nil {
			jf.Error = f.Err.Error()
		}
		doc.Files = append(doc.Files, jf)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// RenderSummary writes a per-file summary table followed by batch
// totals.
func RenderSummary(w io.Writer, s *runner.Summary) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Report", "Dataset", "Status", "Columns", "Dialect"})
	for _, f := range s.Files {
		t.AppendRow(table.Row{f.Report, f.Dataset, f.Status.String(), len(f.Refs), f.Dialect})
	}
	t.Render()

	fmt.Fprintf(w, "%d files: %d extracted, %d with no columns, %d failed\n",
		len(s.Files), s.Succeeded, s.ZeroColumns, s.Failed)
}
