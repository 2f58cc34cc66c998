package parser

import (
	"strings"

	"github.com/datatrail-labs/sqlcol/pkg/token"
)

// AST node definitions for the SELECT statement subset this parser accepts.
//
// Column references keep every qualifier segment the source carries
// (catalog.schema.table.column); downstream resolution decides what the
// segments mean.

// Expr is implemented by all expression nodes.
type Expr interface {
	exprNode()
}

// TableRef is implemented by all FROM-clause source nodes.
type TableRef interface {
	tableRefNode()
}

// SelectStmt is a complete statement: optional WITH clause plus body.
type SelectStmt struct {
	With *WithClause
	Body *SelectBody
}

// WithClause holds the CTE list of a statement.
type WithClause struct {
	Recursive bool
	CTEs      []*CTE
}

// CTE is a single common table expression.
type CTE struct {
	Name    string
	Columns []string // optional explicit column list: name (a, b) AS (...)
	Select  *SelectStmt
}

// SetOpType identifies a set operation between SELECT cores.
type SetOpType string

const (
	SetOpNone      SetOpType = ""
	SetOpUnion     SetOpType = "UNION"
	SetOpUnionAll  SetOpType = "UNION ALL"
	SetOpIntersect SetOpType = "INTERSECT"
	SetOpExcept    SetOpType = "EXCEPT"
)

// SelectBody is a SELECT core with an optional chained set operation.
type SelectBody struct {
	Left  *SelectCore
	Op    SetOpType
	All   bool
	Right *SelectBody
}

// SelectCore is a single SELECT ... FROM ... block.
type SelectCore struct {
	Distinct bool
	Columns  []SelectItem
	From     *FromClause
	Where    Expr
	GroupBy  []Expr
	Having   Expr
	Qualify  Expr
	OrderBy  []OrderByItem
	Limit    Expr
	Offset   Expr
}

// SelectItem is one entry in the SELECT list.
type SelectItem struct {
	Star      bool   // SELECT *
	TableStar string // SELECT t.* (table or alias name)
	Expr      Expr
	Alias     string
}

// OrderByItem is one entry in an ORDER BY list.
type OrderByItem struct {
	Expr       Expr
	Desc       bool
	NullsFirst *bool
}

// FromClause is the FROM source plus any JOINs.
type FromClause struct {
	Source TableRef
	Joins  []*Join
}

// JoinType identifies the kind of a join.
type JoinType string

const (
	JoinInner JoinType = "INNER"
	JoinLeft  JoinType = "LEFT"
	JoinRight JoinType = "RIGHT"
	JoinFull  JoinType = "FULL"
	JoinCross JoinType = "CROSS"
	JoinComma JoinType = ","
)

// Join is one JOIN clause.
type Join struct {
	Type      JoinType
	Natural   bool
	Right     TableRef
	Condition Expr     // ON expr
	Using     []string // USING (col, ...)
}

// TableName is a physical or CTE table reference in FROM.
type TableName struct {
	Catalog string
	Schema  string
	Name    string
	Alias   string
}

func (*TableName) tableRefNode() {}

// Canonical returns the dotted multi-part name without the alias.
func (t *TableName) Canonical() string {
	parts := make([]string, 0, 3)
	if t.Catalog != "" {
		parts = append(parts, t.Catalog)
	}
	if t.Schema != "" {
		parts = append(parts, t.Schema)
	}
	parts = append(parts, t.Name)
	return strings.Join(parts, ".")
}

// DerivedTable is a subquery in FROM with an alias.
type DerivedTable struct {
	Select *SelectStmt
	Alias  string
}

func (*DerivedTable) tableRefNode() {}

// LateralTable is a LATERAL subquery in FROM.
type LateralTable struct {
	Select *SelectStmt
	Alias  string
}

func (*LateralTable) tableRefNode() {}

// ---------- Expressions ----------

// LiteralType identifies the kind of a literal.
type LiteralType int

const (
	LiteralNumber LiteralType = iota
	LiteralString
	LiteralBool
	LiteralNull
)

// Literal is a constant value.
type Literal struct {
	Type  LiteralType
	Value string
}

// ColumnRef is a possibly qualified column reference. Empty qualifier
// fields mean the source did not spell them.
type ColumnRef struct {
	Catalog string
	Schema  string
	Table   string
	Column  string
}

// StarExpr is a bare * or a qualified t.* / s.t.* reference.
type StarExpr struct {
	Table string // dotted qualifier, empty for bare *
}

// FuncCall is a function invocation.
type FuncCall struct {
	Name     string
	Distinct bool
	Star     bool // COUNT(*)
	Args     []Expr
	Filter   Expr // FILTER (WHERE expr)
	Window   *WindowSpec
}

// BinaryExpr is an infix operation.
type BinaryExpr struct {
	Left  Expr
	Op    token.TokenType
	Right Expr
}

// UnaryExpr is a prefix operation.
type UnaryExpr struct {
	Op   token.TokenType
	Expr Expr
}

// WhenClause is one WHEN ... THEN ... arm of a CASE expression.
type WhenClause struct {
	Condition Expr
	Result    Expr
}

// CaseExpr is a CASE expression.
type CaseExpr struct {
	Operand Expr // nil for searched CASE
	Whens   []WhenClause
	Else    Expr
}

// CastExpr is CAST(expr AS type) or expr::type.
type CastExpr struct {
	Expr     Expr
	TypeName string
}

// InExpr is expr [NOT] IN (list | subquery).
type InExpr struct {
	Expr   Expr
	Not    bool
	Values []Expr
	Query  *SelectStmt
}

// BetweenExpr is expr [NOT] BETWEEN low AND high.
type BetweenExpr struct {
	Expr Expr
	Not  bool
	Low  Expr
	High Expr
}

// IsNullExpr is expr IS [NOT] NULL.
type IsNullExpr struct {
	Expr Expr
	Not  bool
}

// IsBoolExpr is expr IS [NOT] TRUE/FALSE.
type IsBoolExpr struct {
	Expr  Expr
	Not   bool
	Value bool
}

// LikeExpr is expr [NOT] LIKE/ILIKE pattern.
type LikeExpr struct {
	Expr    Expr
	Not     bool
	Op      token.TokenType
	Pattern Expr
}

// ParenExpr is a parenthesized expression.
type ParenExpr struct {
	Expr Expr
}

// SubqueryExpr is a scalar subquery.
type SubqueryExpr struct {
	Select *SelectStmt
}

// ExistsExpr is [NOT] EXISTS (subquery).
type ExistsExpr struct {
	Not    bool
	Select *SelectStmt
}

// WindowSpec is an OVER clause specification.
type WindowSpec struct {
	Name        string // named window reference
	PartitionBy []Expr
	OrderBy     []OrderByItem
	Frame       *FrameSpec
}

// FrameType identifies a window frame mode.
type FrameType int

const (
	FrameRows FrameType = iota
	FrameRange
	FrameGroups
)

// FrameSpec is a window frame specification.
type FrameSpec struct {
	Type  FrameType
	Start *FrameBound
	End   *FrameBound
}

// FrameBoundType identifies a window frame bound.
type FrameBoundType int

const (
	FrameUnboundedPreceding FrameBoundType = iota
	FrameUnboundedFollowing
	FrameCurrentRow
	FrameExprPreceding
	FrameExprFollowing
)

// FrameBound is one bound of a window frame.
type FrameBound struct {
	Type   FrameBoundType
	Offset Expr
}

func (*Literal) exprNode()      {}
func (*ColumnRef) exprNode()    {}
func (*StarExpr) exprNode()     {}
func (*FuncCall) exprNode()     {}
func (*BinaryExpr) exprNode()   {}
func (*UnaryExpr) exprNode()    {}
func (*CaseExpr) exprNode()     {}
func (*CastExpr) exprNode()     {}
func (*InExpr) exprNode()       {}
func (*BetweenExpr) exprNode()  {}
func (*IsNullExpr) exprNode()   {}
func (*IsBoolExpr) exprNode()   {}
func (*LikeExpr) exprNode()     {}
func (*ParenExpr) exprNode()    {}
func (*SubqueryExpr) exprNode() {}
func (*ExistsExpr) exprNode()   {}
