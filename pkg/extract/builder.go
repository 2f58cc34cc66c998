package extract

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Qualified reference building: turn one column occurrence into a
// fully-qualified dotted string, or drop it.
//
// The table token of an occurrence resolves through the scope bindings.
// A token with no binding is only accepted as a literal table name when
// it looks like one; short bare lowercase symbols are treated as broken
// aliases and dropped rather than emitted as phantom tables.

// maxAliasLen is the longest token still considered a plausible alias
// when deciding whether an unbound qualifier names a table.
const maxAliasLen = 12

// BuildReference renders one occurrence as a dotted reference string.
// The second return is false when the occurrence is dropped: wildcards,
// unresolvable unqualified columns, and unbound alias-like qualifiers.
func BuildReference(occ Occurrence, sc *Scope, set *ScopeSet, opts Options) (string, bool) {
	if occ.Star || occ.Column == "" || sc == nil {
		return "", false
	}

	tableTok := occ.Table
	if tableTok == "" {
		if !opts.ResolveUnqualified {
			return "", false
		}
		resolved, ok := ResolveUnqualified(occ.Column, sc, opts.UnqualifiedFallback)
		if !ok {
			return "", false
		}
		tableTok = resolved
	}

	// A spelled-out schema or catalog qualifier means the reference is
	// already explicit; the alias heuristic only guards bare table.column.
	explicit := occ.Schema != "" || occ.Catalog != ""

	var tableParts []string
	if v, ok := sc.Lookup(tableTok); ok {
		tableParts = strings.Split(v, ".")
	} else if explicit || acceptAsTable(tableTok, sc, set) {
		tableParts = strings.Split(tableTok, ".")
	} else {
		return "", false
	}

	parts := make([]string, 0, len(tableParts)+3)
	if occ.Catalog != "" {
		parts = append(parts, occ.Catalog)
	}
	if occ.Schema != "" {
		parts = append(parts, occ.Schema)
	}
	parts = append(parts, tableParts...)
	parts = mergeDuplicateSegments(parts)
	parts = append(parts, occ.Column)

	ref := strings.Join(parts, ".")
	if strings.HasSuffix(ref, ".*") {
		return "", false
	}
	return ref, true
}

// acceptAsTable decides whether an unbound qualifier token names a real
// table. It does when the token matches a resolved binding value of the
// scope, names a CTE, or is lexically table-like.
func acceptAsTable(tok string, sc *Scope, set *ScopeSet) bool {
	if sc.HasBindingValue(tok) {
		return true
	}
	if set != nil && set.IsCTE(tok) {
		return true
	}
	return tableLike(tok)
}

// tableLike reports whether a token reads as a table name rather than a
// dangling alias.
func tableLike(tok string) bool {
	if tok == "" {
		return false
	}
	if len(tok) <= 2 && isAlphabetic(tok) {
		return false
	}
	if strings.Contains(tok, ".") {
		return true
	}
	if len(tok) > maxAliasLen {
		return true
	}
	r, _ := utf8.DecodeRuneInString(tok)
	return unicode.IsUpper(r)
}

func isAlphabetic(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// mergeDuplicateSegments collapses adjacent equal segments so that a
// spelled-out schema does not double up with a resolved binding
// (dbo + dbo.orders stays dbo.orders, never dbo.dbo.orders).
func mergeDuplicateSegments(parts []string) []string {
	out := parts[:0]
	for _, p := range parts {
		if len(out) > 0 && strings.EqualFold(out[len(out)-1], p) {
			continue
		}
		out = append(out, p)
	}
	return out
}
