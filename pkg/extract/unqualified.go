package extract

import (
	"strings"

	"github.com/datatrail-labs/sqlcol/pkg/parser"
)

// Unqualified column resolution. A bare column name is bound to a table
// by, in order:
//
//  1. the only table of the scope, when the scope has exactly one
//  2. a qualified reference to the same column name in a JOIN condition
//  3. a qualified reference to the same column name in WHERE or HAVING
//
// When no evidence is found the outcome depends on the configured
// fallback policy: strict drops the column, first-table adopts the
// first FROM table of the scope.

// FallbackPolicy selects what happens to an unqualified column that no
// evidence can bind to a table.
type FallbackPolicy string

const (
	// FallbackStrict drops unresolvable unqualified columns.
	FallbackStrict FallbackPolicy = "strict"

	// FallbackFirstTable binds unresolvable unqualified columns to the
	// first FROM table of their scope.
	FallbackFirstTable FallbackPolicy = "first-table"
)

// Valid reports whether the policy is a known value.
func (p FallbackPolicy) Valid() bool {
	return p == FallbackStrict || p == FallbackFirstTable
}

// ResolveUnqualified binds a bare column name to a canonical table name
// within its scope. The second return is false when the column stays
// unresolved.
func ResolveUnqualified(col string, sc *Scope, policy FallbackPolicy) (string, bool) {
	if sc == nil {
		return "", false
	}

	if len(sc.tables) == 1 {
		return sc.tables[0], true
	}

	if tbl, ok := scanForColumn(sc.joinConds, col, sc); ok {
		return tbl, true
	}
	if tbl, ok := scanForColumn(sc.filters, col, sc); ok {
		return tbl, true
	}

	if policy == FallbackFirstTable && len(sc.tables) > 0 {
		return sc.tables[0], true
	}
	return "", false
}

// scanForColumn looks through predicate expressions for a qualified
// reference to the same column name. The first hit wins; its qualifier
// is resolved through the scope's bindings when possible.
func scanForColumn(exprs []parser.Expr, col string, sc *Scope) (string, bool) {
	lcol := strings.ToLower(col)
	for _, e := range exprs {
		for _, ref := range columnRefs(e) {
			if ref.Table == "" || !strings.EqualFold(ref.Column, lcol) {
				continue
			}
			if v, ok := sc.Lookup(ref.Table); ok {
				return v, true
			}
			return ref.Table, true
		}
	}
	return "", false
}

// columnRefs collects the direct column references of an expression,
// without descending into subqueries (their columns belong to other
// scopes).
func columnRefs(root parser.Expr) []*parser.ColumnRef {
	var out []*parser.ColumnRef
	if root == nil {
		return out
	}

	work := []parser.Expr{root}
	for len(work) > 0 {
		e := work[len(work)-1]
		work = work[:len(work)-1]
		if e == nil {
			continue
		}

		switch x := e.(type) {
		case *parser.ColumnRef:
			out = append(out, x)
		case *parser.BinaryExpr:
			work = append(work, x.Right, x.Left)
		case *parser.UnaryExpr:
			work = append(work, x.Expr)
		case *parser.FuncCall:
			for i := len(x.Args) - 1; i >= 0; i-- {
				work = append(work, x.Args[i])
			}
			work = append(work, x.Filter)
		case *parser.CaseExpr:
			work = append(work, x.Else)
			for i := len(x.Whens) - 1; i >= 0; i-- {
				work = append(work, x.Whens[i].Result, x.Whens[i].Condition)
			}
			work = append(work, x.Operand)
		case *parser.CastExpr:
			work = append(work, x.Expr)
		case *parser.InExpr:
			for i := len(x.Values) - 1; i >= 0; i-- {
				work = append(work, x.Values[i])
			}
			work = append(work, x.Expr)
		case *parser.BetweenExpr:
			work = append(work, x.High, x.Low, x.Expr)
		case *parser.IsNullExpr:
			work = append(work, x.Expr)
		case *parser.IsBoolExpr:
			work = append(work, x.Expr)
		case *parser.LikeExpr:
			work = append(work, x.Pattern, x.Expr)
		case *parser.ParenExpr:
			work = append(work, x.Expr)
		}
	}
	return out
}
