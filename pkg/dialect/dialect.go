// Package dialect describes the SQL dialects the parser understands:
// their canonical names, accepted aliases, and identifier quoting rules.
package dialect

import (
	"sort"
	"strings"
)

// Dialect describes the lexical rules of one SQL dialect.
type Dialect struct {
	// Name is the canonical dialect name (lowercase).
	Name string

	// BracketQuoting accepts [identifier] quoting (T-SQL).
	BracketQuoting bool

	// BacktickQuoting accepts `identifier` quoting (MySQL, BigQuery).
	BacktickQuoting bool

	// Qualify accepts the QUALIFY clause (Snowflake, BigQuery).
	Qualify bool
}

// String returns the canonical dialect name.
func (d *Dialect) String() string {
	return d.Name
}

var builtin = map[string]*Dialect{
	// Generic accepts every quoting style so that a forced dialect is
	// never required just to get identifiers through the lexer.
	"generic": {Name: "generic", BracketQuoting: true, BacktickQuoting: true, Qualify: true},

	"tsql":      {Name: "tsql", BracketQuoting: true},
	"postgres":  {Name: "postgres"},
	"mysql":     {Name: "mysql", BacktickQuoting: true},
	"snowflake": {Name: "snowflake", Qualify: true},
	"oracle":    {Name: "oracle"},
	"bigquery":  {Name: "bigquery", BacktickQuoting: true, Qualify: true},
}

// aliases maps accepted spellings to canonical dialect names.
var aliases = map[string]string{
	"mssql":      "tsql",
	"sqlserver":  "tsql",
	"postgresql": "postgres",
	"big_query":  "bigquery",
}

// Normalize maps a dialect name or alias to its canonical name.
// Unknown names pass through lowercased.
func Normalize(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	if canonical, ok := aliases[n]; ok {
		return canonical
	}
	return n
}

// Get returns the dialect for the given name or alias.
func Get(name string) (*Dialect, bool) {
	d, ok := builtin[Normalize(name)]
	return d, ok
}

// Default returns the generic dialect.
func Default() *Dialect {
	return builtin["generic"]
}

// TrialOrder returns the dialect names tried, in order, when no dialect
// is forced. Generic goes first; it accepts the widest token surface.
func TrialOrder() []string {
	return []string{"generic", "tsql", "postgres", "mysql", "snowflake", "oracle", "bigquery"}
}

// Names returns all canonical dialect names in trial order.
func Names() []string {
	return TrialOrder()
}

// Aliases returns the accepted aliases for a canonical dialect name.
func Aliases(canonical string) []string {
	var out []string
	for alias, target := range aliases {
		if target == canonical {
			out = append(out, alias)
		}
	}
	sort.Strings(out)
	return out
}
