package extract

import (
	"regexp"
	"strings"
)

// Fallback tokenizer: a regex scan over raw SQL text used when no
// dialect produces a structural parse. It recognizes dotted identifier
// chains in four quoting styles and resolves two-part chains through a
// lightweight FROM/JOIN alias map. It is approximate on purpose and
// never fails; garbage in yields an empty list, not an error.

const identPattern = "(?:\\[[^\\]\\[]+\\]|\"[^\"]+\"|`[^`]+`|[A-Za-z_][A-Za-z0-9_$#@]*)"

var (
	// chainRe matches ident(.ident)+ with optional trailing .*
	chainRe = regexp.MustCompile(identPattern + `(?:\s*\.\s*(?:` + identPattern + `|\*))+`)

	// segmentRe splits a matched chain back into its segments.
	segmentRe = regexp.MustCompile(identPattern + `|\*`)

	// fromRe captures FROM/JOIN targets and their aliases.
	fromRe = regexp.MustCompile(`(?i)\b(?:from|join)\s+(` + identPattern +
		`(?:\s*\.\s*` + identPattern + `)*)(?:\s+(?:as\s+)?(` + identPattern + `))?`)
)

// fallbackStopwords are words the alias capture group must not mistake
// for an alias.
var fallbackStopwords = map[string]bool{
	"on": true, "as": true, "where": true, "join": true, "inner": true,
	"left": true, "right": true, "full": true, "outer": true, "cross": true,
	"natural": true, "using": true, "group": true, "order": true,
	"having": true, "union": true, "intersect": true, "except": true,
	"limit": true, "offset": true, "with": true, "select": true,
	"set": true, "values": true, "when": true, "then": true, "and": true,
	"or": true, "not": true, "qualify": true, "window": true,
}

// FallbackScan extracts table.column reference strings from raw SQL
// text without parsing it. Three-part chains win over two-part chains
// at the same position; the table segment of two-part chains resolves
// through FROM/JOIN aliases when one matches.
func FallbackScan(text string) []string {
	aliasMap, targetSpans := fallbackAliases(text)

	var refs []string
	for _, loc := range chainRe.FindAllStringIndex(text, -1) {
		// FROM/JOIN targets are table names, not column references.
		if overlapsAny(loc, targetSpans) {
			continue
		}

		segs := segmentRe.FindAllString(text[loc[0]:loc[1]], -1)
		for i, s := range segs {
			segs[i] = unquoteIdent(s)
		}

		// Wildcards never make it into the output.
		if segs[len(segs)-1] == "*" {
			continue
		}

		switch {
		case len(segs) >= 3:
			// schema.table.column; longer chains keep their last three
			// segments, which is all a reference needs.
			refs = append(refs, strings.Join(segs[len(segs)-3:], "."))

		case len(segs) == 2:
			table := segs[0]
			if resolved, ok := aliasMap[strings.ToLower(table)]; ok {
				table = resolved
			}
			refs = append(refs, table+"."+segs[1])
		}
	}
	return refs
}

// fallbackAliases scans FROM/JOIN clauses for table names and aliases.
// Bare table names map to their dotted form too, so that a two-part
// reference through the table name regains its schema. The returned
// spans cover the matched targets so the chain scan can skip them.
func fallbackAliases(text string) (map[string]string, [][]int) {
	aliases := map[string]string{}
	var spans [][]int

	for _, idx := range fromRe.FindAllStringSubmatchIndex(text, -1) {
		rawTable := text[idx[2]:idx[3]]
		spans = append(spans, []int{idx[2], idx[3]})

		segs := segmentRe.FindAllString(rawTable, -1)
		for i, s := range segs {
			segs[i] = unquoteIdent(s)
		}
		table := strings.Join(segs, ".")

		aliases[strings.ToLower(segs[len(segs)-1])] = table

		if idx[4] >= 0 {
			alias := unquoteIdent(text[idx[4]:idx[5]])
			if !fallbackStopwords[strings.ToLower(alias)] {
				aliases[strings.ToLower(alias)] = table
			}
		}
	}
	return aliases, spans
}

// overlapsAny reports whether [loc[0], loc[1]) intersects any span.
func overlapsAny(loc []int, spans [][]int) bool {
	for _, s := range spans {
		if loc[0] < s[1] && s[0] < loc[1] {
			return true
		}
	}
	return false
}

// unquoteIdent strips one layer of [bracket], "double quote", or
// `backtick` quoting.
func unquoteIdent(s string) string {
	if len(s) < 2 {
		return s
	}
	switch {
	case s[0] == '[' && s[len(s)-1] == ']':
		return s[1 : len(s)-1]
	case s[0] == '"' && s[len(s)-1] == '"':
		return s[1 : len(s)-1]
	case s[0] == '`' && s[len(s)-1] == '`':
		return s[1 : len(s)-1]
	}
	return s
}
