package parser

import (
	"github.com/datatrail-labs/sqlcol/pkg/token"
)

// Expression precedence parsing using a Pratt parser.
//
// Precedence levels:
//
//	precedenceNone       = 0
//	precedenceOr         = 1
//	precedenceAnd        = 2
//	precedenceNot        = 3
//	precedenceComparison = 4  (=, !=, <, >, <=, >=, IS, IN, BETWEEN, LIKE, ILIKE)
//	precedenceAddition   = 5  (+, -, ||)
//	precedenceMultiply   = 6  (*, /, %)
//	precedenceUnary      = 7  (-, +, NOT)
//	precedencePostfix    = 8  (::)

const (
	precedenceNone = iota
	precedenceOr
	precedenceAnd
	precedenceNot
	precedenceComparison
	precedenceAddition
	precedenceMultiply
	precedenceUnary
	precedencePostfix
)

// parseExpression parses an expression using precedence climbing.
func (p *Parser) parseExpression() Expr {
	return p.parseExpressionWithPrecedence(precedenceNone + 1)
}

// parseExpressionWithPrecedence implements Pratt parsing.
func (p *Parser) parseExpressionWithPrecedence(minPrecedence int) Expr {
	// Parse prefix (unary operators and primary expressions)
	left := p.parsePrefixExpr()
	if left == nil {
		return nil
	}

	// Parse infix operators while their precedence is >= minPrecedence
	for {
		prec := p.infixPrecedence(p.token.Type)
		if prec < minPrecedence {
			break
		}

		left = p.parseInfixExpr(left, prec)
		if left == nil {
			break
		}
	}

	return left
}

// parsePrefixExpr parses prefix expressions (unary operators and primary expressions).
func (p *Parser) parsePrefixExpr() Expr {
	switch p.token.Type {
	case token.NOT:
		p.nextToken()
		expr := p.parseExpressionWithPrecedence(precedenceNot)
		return &UnaryExpr{Op: token.NOT, Expr: expr}

	case token.MINUS:
		p.nextToken()
		expr := p.parseExpressionWithPrecedence(precedenceUnary)
		return &UnaryExpr{Op: token.MINUS, Expr: expr}

	case token.PLUS:
		p.nextToken()
		expr := p.parseExpressionWithPrecedence(precedenceUnary)
		return &UnaryExpr{Op: token.PLUS, Expr: expr}

	default:
		return p.parsePrimary()
	}
}

// infixPrecedence returns the precedence of a token as an infix operator,
// or precedenceNone if it is not one.
func (p *Parser) infixPrecedence(t token.TokenType) int {
	switch t {
	case token.OR:
		return precedenceOr
	case token.AND:
		return precedenceAnd
	case token.EQ, token.NE, token.LT, token.GT, token.LE, token.GE:
		return precedenceComparison
	case token.IS, token.IN, token.BETWEEN, token.LIKE, token.ILIKE:
		return precedenceComparison
	case token.NOT:
		// NOT as infix (NOT IN, NOT LIKE, NOT BETWEEN)
		return precedenceComparison
	case token.PLUS, token.MINUS, token.DPIPE:
		return precedenceAddition
	case token.STAR, token.SLASH, token.PERCENT:
		return precedenceMultiply
	case token.DCOLON:
		return precedencePostfix
	default:
		return precedenceNone
	}
}

// parseInfixExpr parses an infix expression given the left operand and current precedence.
func (p *Parser) parseInfixExpr(left Expr, prec int) Expr {
	switch p.token.Type {
	case token.NOT:
		// NOT IN, NOT BETWEEN, NOT LIKE, NOT ILIKE
		return p.parseNotInfixExpr(left)

	case token.IS:
		return p.parseIsExpr(left)

	case token.IN:
		p.nextToken()
		return p.parseInExpr(left, false)

	case token.BETWEEN:
		p.nextToken()
		return p.parseBetweenExpr(left, false)

	case token.LIKE, token.ILIKE:
		op := p.token.Type
		p.nextToken()
		return p.parseLikeExpr(left, false, op)

	case token.DCOLON:
		// expr::type (Postgres cast)
		p.nextToken()
		return &CastExpr{Expr: left, TypeName: p.parseTypeName()}
	}

	// Standard binary operators
	op := p.token
	p.nextToken()

	// Parse right operand with higher precedence (left-associative)
	right := p.parseExpressionWithPrecedence(prec + 1)

	return &BinaryExpr{Left: left, Op: op.Type, Right: right}
}

// parseNotInfixExpr handles NOT as an infix modifier (NOT IN, NOT BETWEEN, NOT LIKE).
func (p *Parser) parseNotInfixExpr(left Expr) Expr {
	p.nextToken() // consume NOT

	switch p.token.Type {
	case token.IN:
		p.nextToken()
		return p.parseInExpr(left, true)

	case token.BETWEEN:
		p.nextToken()
		return p.parseBetweenExpr(left, true)

	case token.LIKE, token.ILIKE:
		op := p.token.Type
		p.nextToken()
		return p.parseLikeExpr(left, true, op)

	default:
		p.addError("expected IN, BETWEEN, LIKE, or ILIKE after NOT")
		return left
	}
}

// parseIsExpr parses IS [NOT] NULL / IS [NOT] TRUE / IS [NOT] FALSE.
func (p *Parser) parseIsExpr(left Expr) Expr {
	p.nextToken() // consume IS

	isNot := p.match(token.NOT)

	switch p.token.Type {
	case token.NULL:
		p.nextToken()
		return &IsNullExpr{Expr: left, Not: isNot}

	case token.TRUE:
		p.nextToken()
		return &IsBoolExpr{Expr: left, Not: isNot, Value: true}

	case token.FALSE:
		p.nextToken()
		return &IsBoolExpr{Expr: left, Not: isNot, Value: false}

	default:
		p.addError("expected NULL, TRUE, or FALSE after IS")
		return left
	}
}

// parseInExpr parses an IN expression.
func (p *Parser) parseInExpr(left Expr, not bool) Expr {
	p.expect(token.LPAREN)
	in := &InExpr{Expr: left, Not: not}

	// Check if it's a subquery
	if p.check(token.SELECT) || p.check(token.WITH) {
		in.Query = p.parseStatement()
	} else {
		// List of values
		in.Values = p.parseExpressionList()
	}

	p.expect(token.RPAREN)
	return in
}

// parseBetweenExpr parses a BETWEEN expression.
func (p *Parser) parseBetweenExpr(left Expr, not bool) Expr {
	between := &BetweenExpr{Expr: left, Not: not}
	// Parse bounds at addition precedence to avoid capturing AND
	between.Low = p.parseExpressionWithPrecedence(precedenceAddition)
	p.expect(token.AND)
	between.High = p.parseExpressionWithPrecedence(precedenceAddition)
	return between
}

// parseLikeExpr parses a LIKE/ILIKE expression.
func (p *Parser) parseLikeExpr(left Expr, not bool, op token.TokenType) Expr {
	like := &LikeExpr{Expr: left, Not: not, Op: op}
	// Parse pattern at addition precedence
	like.Pattern = p.parseExpressionWithPrecedence(precedenceAddition)
	return like
}
