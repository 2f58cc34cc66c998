// Package extract resolves SQL text into fully-qualified table.column
// reference strings.
//
// The pipeline tries a structural parse per candidate dialect, renders
// references from the scope-resolved statement trees, and falls back to
// a regex token scan when no dialect parses. Every outcome is reported
// as an explicit Result; nothing in this package panics on bad SQL.
package extract

import (
	"errors"
	"io"
	"log/slog"

	"github.com/datatrail-labs/sqlcol/pkg/dialect"
	"github.com/datatrail-labs/sqlcol/pkg/parser"
)

// Options configures an Extractor.
type Options struct {
	// Dialect forces one dialect. Empty means try the default trial
	// order.
	Dialect string

	// MultiDialect keeps trying other dialects after a forced dialect
	// fails.
	MultiDialect bool

	// ResolveUnqualified enables binding bare column names to tables.
	ResolveUnqualified bool

	// UnqualifiedFallback is the policy for bare columns no evidence
	// can bind.
	UnqualifiedFallback FallbackPolicy
}

// DefaultOptions returns the options used when nothing is configured:
// multi-dialect trials, unqualified resolution on, strict fallback.
func DefaultOptions() Options {
	return Options{
		MultiDialect:        true,
		ResolveUnqualified:  true,
		UnqualifiedFallback: FallbackStrict,
	}
}

// Extractor runs the extraction pipeline over SQL texts.
type Extractor struct {
	opts Options
	log  *slog.Logger
}

// New creates an Extractor. A nil logger discards output.
func New(opts Options, log *slog.Logger) *Extractor {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.UnqualifiedFallback == "" {
		opts.UnqualifiedFallback = FallbackStrict
	}
	return &Extractor{opts: opts, log: log}
}

// ErrEmptyStatement reports a statement with no body to extract from.
var ErrEmptyStatement = errors.New("empty statement")

// Extract runs the full pipeline over one SQL text.
func (e *Extractor) Extract(text string) Result {
	res := Result{}
	parsedClean := false

	for _, name := range e.trialDialects() {
		d, ok := dialect.Get(name)
		if !ok {
			continue
		}

		pr, err := parser.Parse(text, d)
		if err != nil {
			e.log.Debug("dialect parse failed", "dialect", name, "error", err)
			res.Attempts = append(res.Attempts, Attempt{Dialect: name, Err: err})
			continue
		}

		refs := e.extractStatements(pr.Statements)
		res.Attempts = append(res.Attempts, Attempt{Dialect: name})

		if len(refs) > 0 {
			e.log.Debug("structural extraction succeeded",
				"dialect", name, "statements", len(pr.Statements), "refs", len(refs))
			res.Refs = refs
			res.Status = StatusSuccess
			res.Dialect = name
			return res
		}

		// Parsed but yielded nothing; remember that and let another
		// dialect try, its quoting rules may expose more of the text.
		parsedClean = true
	}

	if refs := FallbackScan(text); len(refs) > 0 {
		e.log.Debug("fallback tokenizer produced references", "refs", len(refs))
		res.Refs = refs
		res.Status = StatusPartial
		return res
	}

	if parsedClean {
		res.Status = StatusZeroColumns
	} else {
		res.Status = StatusParseError
	}
	return res
}

// trialDialects returns the dialects to try, in order. Single-dialect
// mode tries exactly one dialect: the forced one, or the default when
// nothing is forced.
func (e *Extractor) trialDialects() []string {
	forced := dialect.Normalize(e.opts.Dialect)
	if !e.opts.MultiDialect {
		if forced == "" {
			forced = dialect.Default().Name
		}
		return []string{forced}
	}
	if forced == "" {
		return dialect.TrialOrder()
	}

	// Forced dialect first, then the rest of the trial order.
	out := []string{forced}
	for _, name := range dialect.TrialOrder() {
		if name != forced {
			out = append(out, name)
		}
	}
	return out
}

// extractStatements renders references statement by statement. A
// failure in one statement is recorded and does not disturb the others.
func (e *Extractor) extractStatements(stmts []*parser.SelectStmt) []string {
	var refs []string
	for i, stmt := range stmts {
		stmtRefs, err := e.ExtractStatement(stmt)
		if err != nil {
			e.log.Debug("statement extraction failed", "statement", i, "error", err)
			continue
		}
		refs = append(refs, stmtRefs...)
	}
	return refs
}

// ExtractStatement renders the references of a single parsed statement,
// in source order, one entry per occurrence.
func (e *Extractor) ExtractStatement(stmt *parser.SelectStmt) ([]string, error) {
	if stmt == nil || stmt.Body == nil {
		return nil, ErrEmptyStatement
	}

	set := BuildScopes(stmt)

	var refs []string
	for _, occ := range set.Occurrences() {
		ref, ok := BuildReference(occ, set.Scope(occ.Scope), set, e.opts)
		if !ok {
			continue
		}
		refs = append(refs, ref)
	}
	return refs, nil
}
