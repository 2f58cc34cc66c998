package commands

import (
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/datatrail-labs/sqlcol/pkg/dialect"
)

// NewDialectsCommand creates the dialects command.
func NewDialectsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dialects",
		Short: "List supported SQL dialects",
		Long: `List the SQL dialects the extractor understands, their accepted
aliases, and their identifier quoting rules. The order shown is the
trial order used when no dialect is forced.`,
		Run: func(cmd *cobra.Command, _ []string) {
			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"Dialect", "Aliases", "Quoting", "Qualify"})
			for _, name := range dialect.TrialOrder() {
				d, ok := dialect.Get(name)
				if !ok {
					continue
				}
				t.AppendRow(table.Row{
					d.Name,
					strings.Join(dialect.Aliases(d.Name), ", "),
					quotingStyles(d),
					d.Qualify,
				})
			}
			t.Render()
		},
	}
}

func quotingStyles(d *dialect.Dialect) string {
	styles := []string{`"ident"`}
	if d.BracketQuoting {
		styles = append(styles, "[ident]")
	}
	if d.BacktickQuoting {
		styles = append(styles, "`ident`")
	}
	return strings.Join(styles, " ")
}
