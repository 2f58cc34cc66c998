package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datatrail-labs/sqlcol/internal/runner"
	"github.com/datatrail-labs/sqlcol/pkg/extract"
)

func sampleSummary() *runner.Summary {
	return &runner.Summary{
		BatchID: "batch-1",
		Files: []runner.FileResult{
			{
				Path:    "reports/Sales__Monthly.sql",
				Report:  "Sales",
				Dataset: "Monthly",
				Refs:    []string{"dbo.orders.id", "dbo.orders.total"},
				Status:  extract.StatusSuccess,
				Dialect: "tsql",
			},
			{
				Path:    "reports/Broken.sql",
				Report:  "Broken",
				Dataset: "Default",
				Status:  extract.StatusParseError,
				Err:     errors.New("parse error at line 1, column 1: expected SELECT or WITH"),
			},
		},
		Succeeded: 1,
		Failed:    1,
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleSummary()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "ReportName,Dataset,ColumnName", lines[0])
	assert.Equal(t, "Sales,Monthly,dbo.orders.id", lines[1])
	assert.Equal(t, "Sales,Monthly,dbo.orders.total", lines[2])
}

func TestWriteCSVQuotesCommas(t *testing.T) {
	s := &runner.Summary{Files: []runner.FileResult{{
		Report:  "Ad,hoc",
		Dataset: "Default",
		Refs:    []string{"t.c"},
		Status:  extract.StatusSuccess,
	}}}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, s))
	assert.Contains(t, buf.String(), `"Ad,hoc",Default,t.c`)
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleSummary()))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "batch-1", doc["batch_id"])

	files := doc["files"].([]any)
	require.Len(t, files, 2)

	first := files[0].(map[string]any)
	assert.Equal(t, "SUCCESS", first["status"])
	assert.Equal(t, "tsql", first["dialect"])

	second := files[1].(map[string]any)
	assert.Equal(t, "PARSE_ERROR", second["status"])
	assert.NotEmpty(t, second["error"])
	// Files without refs still carry an empty columns array.
	assert.Equal(t, []any{}, second["columns"])
}

func TestRenderSummary(t *testing.T) {
	var buf bytes.Buffer
	RenderSummary(&buf, sampleSummary())

	out := buf.String()
	assert.Contains(t, out, "Sales")
	assert.Contains(t, out, "SUCCESS")
	assert.Contains(t, out, "PARSE_ERROR")
	assert.Contains(t, out, "2 files: 1 extracted, 0 with no columns, 1 failed")
}

func TestRendererModeResolution(t *testing.T) {
	tests := []struct {
		mode  OutputMode
		isTTY bool
		want  OutputMode
	}{
		{ModeAuto, true, ModeTable},
		{ModeAuto, false, ModeCSV},
		{ModeJSON, true, ModeJSON},
		{ModeCSV, true, ModeCSV},
		{ModeTable, false, ModeTable},
	}

	for _, tt := range tests {
		r := NewRendererWithTTY(&bytes.Buffer{}, &bytes.Buffer{}, tt.isTTY, tt.mode)
		assert.Equal(t, tt.want, r.Mode(), "mode %s tty %v", tt.mode, tt.isTTY)
	}
}

func TestModeParsing(t *testing.T) {
	assert.Equal(t, ModeJSON, Mode("json"))
	assert.Equal(t, ModeAuto, Mode(""))
	assert.Equal(t, ModeAuto, Mode("bogus"))
}
