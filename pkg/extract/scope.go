package extract

import (
	"maps"
	"strings"

	"github.com/datatrail-labs/sqlcol/pkg/parser"
)

// Scope building: one scope per SELECT core, identified by a stable
// integer assigned in a single numbering pass over the statement tree.
//
// Scope parentage:
//
//   - derived tables, lateral tables, and subquery expressions open a
//     child scope of the block they appear in
//   - set operation branches are siblings: each core of a UNION chain
//     gets its own scope under the same parent
//   - CTE bodies are siblings of the statement that declares them, not
//     children of it
//
// Bindings are copied from the parent when a scope is created, so a
// child can shadow a name without mutating what its parent sees.

// Occurrence is one column reference as it appeared in the source,
// tagged with the scope it occurred in.
type Occurrence struct {
	Scope   int
	Catalog string
	Schema  string
	Table   string
	Column  string
	Star    bool // bare * or qualified t.*
}

// Scope is one query block's resolution context.
type Scope struct {
	ID     int
	Parent int // -1 for a top-level scope

	bindings  map[string]string // alias / bare name -> canonical table
	tables    []string          // canonical FROM/JOIN targets, in order
	joinConds []parser.Expr     // ON conditions of this block's joins
	filters   []parser.Expr     // WHERE and HAVING of this block
}

// Lookup resolves a name through the scope's bindings, trying the exact
// spelling first and the lowercased form second.
func (s *Scope) Lookup(name string) (string, bool) {
	if v, ok := s.bindings[name]; ok {
		return v, true
	}
	v, ok := s.bindings[strings.ToLower(name)]
	return v, ok
}

// Tables returns the canonical FROM/JOIN targets of this scope, in
// declaration order.
func (s *Scope) Tables() []string {
	return s.tables
}

// HasBindingValue reports whether any binding in this scope resolves to
// the given canonical value (case-insensitive).
func (s *Scope) HasBindingValue(val string) bool {
	for _, v := range s.bindings {
		if strings.EqualFold(v, val) {
			return true
		}
	}
	return false
}

func (s *Scope) bind(name, canonical string) {
	if name == "" {
		return
	}
	s.bindings[name] = canonical
	s.bindings[strings.ToLower(name)] = canonical
}

// ScopeSet holds every scope of one statement plus the flat, ordered
// list of column occurrences found while building them.
type ScopeSet struct {
	scopes []*Scope        // index == scope ID
	ctes   map[string]bool // lowercased CTE names of the whole statement
	occs   []Occurrence
}

// Scope returns the scope with the given ID, or nil.
func (ss *ScopeSet) Scope(id int) *Scope {
	if id < 0 || id >= len(ss.scopes) {
		return nil
	}
	return ss.scopes[id]
}

// Len returns the number of scopes.
func (ss *ScopeSet) Len() int {
	return len(ss.scopes)
}

// Occurrences returns the column occurrences in source order.
func (ss *ScopeSet) Occurrences() []Occurrence {
	return ss.occs
}

// IsCTE reports whether the name (case-insensitive) is a CTE declared
// anywhere in the statement.
func (ss *ScopeSet) IsCTE(name string) bool {
	return ss.ctes[strings.ToLower(name)]
}

// frame is one pending statement visit during the numbering pass.
type frame struct {
	stmt   *parser.SelectStmt
	parent int
}

// BuildScopes walks the statement iteratively and returns its scopes
// and column occurrences.
func BuildScopes(stmt *parser.SelectStmt) *ScopeSet {
	ss := &ScopeSet{ctes: map[string]bool{}}
	if stmt == nil {
		return ss
	}

	ss.collectCTENames(stmt)

	stack := []frame{{stmt: stmt, parent: -1}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if f.stmt == nil {
			continue
		}

		// CTE bodies share the declaring statement's parent.
		if f.stmt.With != nil {
			for _, cte := range f.stmt.With.CTEs {
				stack = append(stack, frame{stmt: cte.Select, parent: f.parent})
			}
		}

		// Each set operation branch gets a sibling scope.
		for body := f.stmt.Body; body != nil; body = body.Right {
			if body.Left == nil {
				continue
			}
			sc := ss.newScope(f.parent)
			ss.buildCore(body.Left, sc, &stack)
		}
	}

	return ss
}

// collectCTENames gathers every CTE name in the statement tree.
func (ss *ScopeSet) collectCTENames(root *parser.SelectStmt) {
	stack := []*parser.SelectStmt{root}
	for len(stack) > 0 {
		stmt := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if stmt == nil {
			continue
		}
		if stmt.With != nil {
			for _, cte := range stmt.With.CTEs {
				ss.ctes[strings.ToLower(cte.Name)] = true
				stack = append(stack, cte.Select)
			}
		}
		for body := stmt.Body; body != nil; body = body.Right {
			if body.Left == nil {
				continue
			}
			stack = append(stack, subStatements(body.Left)...)
		}
	}
}

// subStatements returns the directly nested statements of a core:
// derived tables, lateral tables, and subquery expressions.
func subStatements(core *parser.SelectCore) []*parser.SelectStmt {
	var out []*parser.SelectStmt

	addRef := func(ref parser.TableRef) {
		switch t := ref.(type) {
		case *parser.DerivedTable:
			out = append(out, t.Select)
		case *parser.LateralTable:
			out = append(out, t.Select)
		}
	}

	if core.From != nil {
		addRef(core.From.Source)
		for _, join := range core.From.Joins {
			addRef(join.Right)
		}
	}

	for _, e := range coreExprs(core) {
		out = append(out, subqueryStatements(e)...)
	}
	return out
}

// newScope allocates the next scope ID, inheriting the parent's bindings.
func (ss *ScopeSet) newScope(parent int) *Scope {
	sc := &Scope{
		ID:       len(ss.scopes),
		Parent:   parent,
		bindings: map[string]string{},
	}
	if parent >= 0 {
		sc.bindings = maps.Clone(ss.scopes[parent].bindings)
	}
	ss.scopes = append(ss.scopes, sc)
	return sc
}

// buildCore registers the FROM sources of one SELECT core into its scope
// and collects the core's column occurrences. Nested statements are
// pushed onto the visit stack with this scope as parent.
func (ss *ScopeSet) buildCore(core *parser.SelectCore, sc *Scope, stack *[]frame) {
	if core.From != nil {
		ss.registerTableRef(core.From.Source, sc, stack)
		for _, join := range core.From.Joins {
			ss.registerTableRef(join.Right, sc, stack)
			if join.Condition != nil {
				sc.joinConds = append(sc.joinConds, join.Condition)
			}
			for _, col := range join.Using {
				ss.occs = append(ss.occs, Occurrence{Scope: sc.ID, Column: col})
			}
		}
	}

	if core.Where != nil {
		sc.filters = append(sc.filters, core.Where)
	}
	if core.Having != nil {
		sc.filters = append(sc.filters, core.Having)
	}

	// SELECT list first, then the remaining clauses in source order.
	for _, item := range core.Columns {
		switch {
		case item.Star:
			ss.occs = append(ss.occs, Occurrence{Scope: sc.ID, Star: true})
		case item.TableStar != "":
			ss.occs = append(ss.occs, Occurrence{Scope: sc.ID, Star: true, Table: item.TableStar})
		default:
			ss.collectExpr(item.Expr, sc, stack)
		}
	}

	for _, join := range joinsOf(core) {
		ss.collectExpr(join.Condition, sc, stack)
	}
	ss.collectExpr(core.Where, sc, stack)
	for _, e := range core.GroupBy {
		ss.collectExpr(e, sc, stack)
	}
	ss.collectExpr(core.Having, sc, stack)
	ss.collectExpr(core.Qualify, sc, stack)
	for _, item := range core.OrderBy {
		ss.collectExpr(item.Expr, sc, stack)
	}
	ss.collectExpr(core.Limit, sc, stack)
	ss.collectExpr(core.Offset, sc, stack)
}

func joinsOf(core *parser.SelectCore) []*parser.Join {
	if core.From == nil {
		return nil
	}
	return core.From.Joins
}

// registerTableRef binds one FROM/JOIN target into the scope. The
// canonical name is the dotted name as written, and both the bare name
// and the alias resolve to it. A name declared as a CTE shadows any
// identically named real table, so the bare CTE name stays canonical
// even when the reference spells a schema qualifier.
func (ss *ScopeSet) registerTableRef(ref parser.TableRef, sc *Scope, stack *[]frame) {
	switch t := ref.(type) {
	case *parser.TableName:
		canonical := t.Canonical()
		if ss.IsCTE(t.Name) {
			canonical = t.Name
		}
		sc.tables = append(sc.tables, canonical)
		sc.bind(t.Name, canonical)
		sc.bind(t.Alias, canonical)

	case *parser.DerivedTable:
		if t.Alias != "" {
			sc.tables = append(sc.tables, t.Alias)
			sc.bind(t.Alias, t.Alias)
		}
		*stack = append(*stack, frame{stmt: t.Select, parent: sc.ID})

	case *parser.LateralTable:
		if t.Alias != "" {
			sc.tables = append(sc.tables, t.Alias)
			sc.bind(t.Alias, t.Alias)
		}
		*stack = append(*stack, frame{stmt: t.Select, parent: sc.ID})
	}
}

// collectExpr walks one expression iteratively, appending column
// occurrences and pushing nested statements onto the visit stack.
func (ss *ScopeSet) collectExpr(root parser.Expr, sc *Scope, stack *[]frame) {
	if root == nil {
		return
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
			ss.occs = append(ss.occs, Occurrence{
				Scope:   sc.ID,
				Catalog: x.Catalog,
				Schema:  x.Schema,
				Table:   x.Table,
				Column:  x.Column,
			})

		case *parser.StarExpr:
			ss.occs = append(ss.occs, Occurrence{Scope: sc.ID, Star: true, Table: x.Table})

		case *parser.BinaryExpr:
			work = append(work, x.Right, x.Left)

		case *parser.UnaryExpr:
			work = append(work, x.Expr)

		case *parser.FuncCall:
			// Visit order: args, filter, partition, order; pushed reversed.
			if x.Window != nil {
				for i := len(x.Window.OrderBy) - 1; i >= 0; i-- {
					work = append(work, x.Window.OrderBy[i].Expr)
				}
				for i := len(x.Window.PartitionBy) - 1; i >= 0; i-- {
					work = append(work, x.Window.PartitionBy[i])
				}
			}
			work = append(work, x.Filter)
			for i := len(x.Args) - 1; i >= 0; i-- {
				work = append(work, x.Args[i])
			}

		case *parser.CaseExpr:
			work = append(work, x.Else)
			for i := len(x.Whens) - 1; i >= 0; i-- {
				work = append(work, x.Whens[i].Result, x.Whens[i].Condition)
			}
			work = append(work, x.Operand)

		case *parser.CastExpr:
			work = append(work, x.Expr)

		case *parser.InExpr:
			if x.Query != nil {
				*stack = append(*stack, frame{stmt: x.Query, parent: sc.ID})
			}
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

		case *parser.SubqueryExpr:
			*stack = append(*stack, frame{stmt: x.Select, parent: sc.ID})

		case *parser.ExistsExpr:
			*stack = append(*stack, frame{stmt: x.Select, parent: sc.ID})
		}
	}
}

// subqueryStatements collects the statements nested in an expression
// without recording occurrences. Used by the CTE name pre-pass.
func subqueryStatements(root parser.Expr) []*parser.SelectStmt {
	var out []*parser.SelectStmt
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
		case *parser.BinaryExpr:
			work = append(work, x.Left, x.Right)
		case *parser.UnaryExpr:
			work = append(work, x.Expr)
		case *parser.FuncCall:
			work = append(work, x.Args...)
			work = append(work, x.Filter)
		case *parser.CaseExpr:
			work = append(work, x.Operand, x.Else)
			for _, w := range x.Whens {
				work = append(work, w.Condition, w.Result)
			}
		case *parser.CastExpr:
			work = append(work, x.Expr)
		case *parser.InExpr:
			if x.Query != nil {
				out = append(out, x.Query)
			}
			work = append(work, x.Values...)
			work = append(work, x.Expr)
		case *parser.BetweenExpr:
			work = append(work, x.Expr, x.Low, x.High)
		case *parser.IsNullExpr:
			work = append(work, x.Expr)
		case *parser.IsBoolExpr:
			work = append(work, x.Expr)
		case *parser.LikeExpr:
			work = append(work, x.Expr, x.Pattern)
		case *parser.ParenExpr:
			work = append(work, x.Expr)
		case *parser.SubqueryExpr:
			out = append(out, x.Select)
		case *parser.ExistsExpr:
			out = append(out, x.Select)
		}
	}
	return out
}

// coreExprs returns every expression attached to a core, for pre-pass walking.
func coreExprs(core *parser.SelectCore) []parser.Expr {
	var out []parser.Expr
	for _, item := range core.Columns {
		out = append(out, item.Expr)
	}
	if core.From != nil {
		for _, join := range core.From.Joins {
			out = append(out, join.Condition)
		}
	}
	out = append(out, core.Where, core.Having, core.Qualify, core.Limit, core.Offset)
	out = append(out, core.GroupBy...)
	for _, item := range core.OrderBy {
		out = append(out, item.Expr)
	}
	return out
}
