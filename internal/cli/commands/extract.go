package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/datatrail-labs/sqlcol/internal/cli/config"
	"github.com/datatrail-labs/sqlcol/internal/cli/output"
	"github.com/datatrail-labs/sqlcol/internal/runner"
)

// NewExtractCommand creates the extract command.
func NewExtractCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "extract [paths...]",
		Short: "Extract table.column references from SQL files",
		Long: `Extract fully-qualified column references from SQL files.

Each path may be a .sql file or a directory, searched recursively.
With no paths, the current directory is processed. Results are written
as ReportName,Dataset,ColumnName rows; file names following the
<report>__<dataset>.sql convention populate the first two columns.`,
		Example: `  # Process the current directory into columns.csv
  sqlcol extract

  # Process specific files and folders
  sqlcol extract reports/ adhoc/Sales__Monthly.sql

  # Force a dialect and emit JSON
  sqlcol extract -d tsql -o json reports/`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := activeConfig()
			if err != nil {
				return err
			}

			r := runner.New(cfg.ExtractOptions(), cfg.Workers, config.GetLogger(cmd.Context()))
			summary, err := r.Run(cmd.Context(), args)
			if err != nil {
				return err
			}

			return renderBatch(cmd, cfg, summary)
		},
	}
}

// activeConfig returns the loaded configuration, falling back to
// defaults when the persistent pre-run did not execute (direct command
// construction in tests).
func activeConfig() (*config.Config, error) {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg, nil
	}
	return config.LoadConfig("", nil)
}

// renderBatch writes batch results according to the output mode. Table
// mode writes the CSV to the configured file and a summary to stdout;
// csv and json modes stream to stdout for piping.
func renderBatch(cmd *cobra.Command, cfg *config.Config, summary *runner.Summary) error {
	renderer := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.Output))

	switch renderer.Mode() {
	case output.ModeJSON:
		return output.WriteJSON(renderer.Out(), summary)

	case output.ModeCSV:
		return output.WriteCSV(renderer.Out(), summary)

	default:
		outFile := cfg.OutFile
		if outFile == "" {
			outFile = config.DefaultOutFile
		}
		f, err := os.Create(outFile)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		if err := output.WriteCSV(f, summary); err != nil {
			_ = f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}

		output.RenderSummary(renderer.Out(), summary)
		fmt.Fprintf(renderer.Out(), "Columns written to %s\n", outFile)

		reportPath, err := runner.WriteErrorReport(filepath.Dir(outFile), summary)
		if err != nil {
			return err
		}
		if reportPath != "" {
			fmt.Fprintf(renderer.Out(), "Problem files listed in %s\n", reportPath)
		}
		return nil
	}
}
