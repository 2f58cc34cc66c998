package parser

import (
	"fmt"
	"strings"

	"github.com/datatrail-labs/sqlcol/pkg/token"
)

// Primary expression parsing: literals, column refs, function calls.
//
// Grammar:
//
//	primary       → literal | column_ref | func_call | paren_expr | case_expr | cast_expr | exists_expr
//	literal       → NUMBER | STRING | TRUE | FALSE | NULL
//	column_ref    → identifier ("." identifier)*  -- up to catalog.schema.table.column
//	func_call     → identifier "(" [DISTINCT] [expr_list | "*"] ")" [FILTER "(" WHERE expr ")"] [OVER window_spec]

// parsePrimary parses primary expressions.
func (p *Parser) parsePrimary() Expr {
	switch p.token.Type {
	case token.NUMBER:
		lit := &Literal{Type: LiteralNumber, Value: p.token.Literal}
		p.nextToken()
		return lit

	case token.STRING:
		lit := &Literal{Type: LiteralString, Value: p.token.Literal}
		p.nextToken()
		return lit

	case token.TRUE:
		p.nextToken()
		return &Literal{Type: LiteralBool, Value: "true"}

	case token.FALSE:
		p.nextToken()
		return &Literal{Type: LiteralBool, Value: "false"}

	case token.NULL:
		p.nextToken()
		return &Literal{Type: LiteralNull, Value: "null"}

	case token.CASE:
		return p.parseCaseExpr()

	case token.CAST:
		return p.parseCastExpr()

	case token.NOT:
		// NOT EXISTS check
		if p.checkPeek(token.EXISTS) {
			p.nextToken() // consume NOT
			return p.parseExistsExpr(true)
		}
		p.nextToken()
		return &UnaryExpr{Op: token.NOT, Expr: p.parsePrimary()}

	case token.EXISTS:
		return p.parseExistsExpr(false)

	case token.IDENT:
		return p.parseIdentifierExpr()

	case token.LEFT, token.RIGHT:
		// LEFT(s, n) / RIGHT(s, n) string functions; the keywords double
		// as function names in T-SQL and friends.
		if p.checkPeek(token.LPAREN) {
			name := p.token.Literal
			p.nextToken()
			return p.parseFuncCall(name)
		}
		p.addError(fmt.Sprintf("unexpected token in expression: %s", p.token.Type))
		p.advancePastError()
		return nil

	case token.LPAREN:
		return p.parseParenExpr()

	case token.STAR:
		// SELECT * context
		p.nextToken()
		return &StarExpr{}

	default:
		p.addError(fmt.Sprintf("unexpected token in expression: %s", p.token.Type))
		p.advancePastError()
		return nil
	}
}

// advancePastError skips the offending token unless it is a statement
// boundary, which the statement loop needs intact for recovery.
func (p *Parser) advancePastError() {
	if !p.check(token.SEMICOLON) && !p.check(token.EOF) {
		p.nextToken()
	}
}

// parseIdentifierExpr parses an identifier which could be a column ref or function call.
func (p *Parser) parseIdentifierExpr() Expr {
	name := p.token.Literal
	p.nextToken()

	// Check if it's a function call
	if p.check(token.LPAREN) {
		return p.parseFuncCall(name)
	}

	// Qualified column reference
	if p.check(token.DOT) {
		return p.parseQualifiedColumnRef(name)
	}

	// Simple column reference
	return &ColumnRef{Column: name}
}

// parseQualifiedColumnRef parses a qualified column reference, keeping
// every qualifier segment the source spells out.
func (p *Parser) parseQualifiedColumnRef(firstPart string) Expr {
	parts := []string{firstPart}

	for p.match(token.DOT) {
		// Qualified star: t.* or schema.t.*
		if p.check(token.STAR) {
			p.nextToken()
			return &StarExpr{Table: strings.Join(parts, ".")}
		}

		if p.check(token.IDENT) {
			parts = append(parts, p.token.Literal)
			p.nextToken()
		}
	}

	ref := &ColumnRef{}
	switch len(parts) {
	case 1:
		ref.Column = parts[0]
	case 2:
		ref.Table = parts[0]
		ref.Column = parts[1]
	case 3:
		ref.Schema = parts[0]
		ref.Table = parts[1]
		ref.Column = parts[2]
	default:
		ref.Catalog = strings.Join(parts[:len(parts)-3], ".")
		ref.Schema = parts[len(parts)-3]
		ref.Table = parts[len(parts)-2]
		ref.Column = parts[len(parts)-1]
	}

	return ref
}

// parseFuncCall parses a function call.
func (p *Parser) parseFuncCall(name string) Expr {
	fn := &FuncCall{Name: strings.ToUpper(name)}

	p.expect(token.LPAREN)

	// Handle COUNT(*) or other aggregate(*)
	if p.check(token.STAR) {
		fn.Star = true
		p.nextToken()
	} else if !p.check(token.RPAREN) {
		// Check for DISTINCT
		if p.match(token.DISTINCT) {
			fn.Distinct = true
		}

		// Parse arguments
		for {
			arg := p.parseExpression()
			fn.Args = append(fn.Args, arg)

			if !p.match(token.COMMA) {
				break
			}
		}
	}

	p.expect(token.RPAREN)

	// FILTER clause (for aggregates)
	if p.match(token.FILTER) {
		p.expect(token.LPAREN)
		p.expect(token.WHERE)
		fn.Filter = p.parseExpression()
		p.expect(token.RPAREN)
	}

	// OVER clause (window function)
	if p.match(token.OVER) {
		fn.Window = p.parseWindowSpec()
	}

	return fn
}
