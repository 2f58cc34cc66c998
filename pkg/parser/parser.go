// Package parser implements a recursive descent parser for the SELECT
// statement subset needed to extract column references.
//
// # Parser Architecture
//
// The parser is split across multiple files for maintainability:
//
//   - parser.go (this file): Public API, Parser struct, token helpers
//   - parser_stmt.go: Statement parsing (WITH, SELECT body, clauses, ORDER BY)
//   - parser_from.go: FROM clause parsing (table refs, JOINs)
//   - parser_expr.go: Expression precedence parsing (OR, AND, comparisons, arithmetic)
//   - parser_primary.go: Primary expressions (literals, column refs, function calls)
//   - parser_window.go: Window specifications and frame specs
//   - parser_special.go: Special expressions (CASE, CAST, EXISTS, subqueries)
//
// # Usage
//
//	res, err := parser.Parse("SELECT a, b FROM t", nil)
//	if err != nil {
//	    // no statement in the input could be parsed
//	}
//	for _, stmt := range res.Statements { ... }
//
// # Grammar Overview
//
//	input         → statement (";" statement)*
//	statement     → [WITH cte_list] select_body
//	select_body   → select_core [(UNION|INTERSECT|EXCEPT) [ALL] select_body]
//	select_core   → SELECT [DISTINCT] select_list [FROM from_clause]
//	                [WHERE expr] [GROUP BY expr_list] [HAVING expr]
//	                [QUALIFY expr] [ORDER BY order_list] [LIMIT expr] [OFFSET expr]
//
// Statements that open with a DML/DDL keyword (INSERT, CREATE, SET, ...)
// are recognized and skipped rather than rejected, so that scripts mixing
// housekeeping statements with queries still parse.
package parser

import (
	"fmt"
	"strings"

	"github.com/datatrail-labs/sqlcol/pkg/dialect"
	"github.com/datatrail-labs/sqlcol/pkg/token"
)

// Parser parses SQL into an AST.
type Parser struct {
	lexer   *Lexer
	dialect *dialect.Dialect
	token   token.Token // current token
	peek    token.Token // lookahead token
	peek2   token.Token // second lookahead token
	errors  []error
}

// Result holds the outcome of parsing a script.
type Result struct {
	Statements []*SelectStmt
	Skipped    int // recognized non-SELECT statements
	Errors     []*ParseError
}

// NewParser creates a new parser for the given SQL input.
// A nil dialect defaults to the generic dialect.
func NewParser(sql string, d *dialect.Dialect) *Parser {
	if d == nil {
		d = dialect.Default()
	}
	p := &Parser{
		lexer:   NewLexer(sql, d),
		dialect: d,
	}
	// Read three tokens to initialize current, peek, and peek2
	p.nextToken()
	p.nextToken()
	p.nextToken()
	return p
}

// skipStatements are statement-opening keywords recognized and skipped.
// These words are not reserved by the lexer, so a column named "update"
// still lexes as an identifier inside an expression.
var skipStatements = map[string]bool{
	"create": true, "alter": true, "drop": true, "truncate": true,
	"insert": true, "update": true, "delete": true, "merge": true,
	"grant": true, "revoke": true, "set": true, "use": true,
	"declare": true, "exec": true, "execute": true, "print": true,
	"begin": true, "commit": true, "rollback": true, "go": true,
}

// Parse parses a script that may contain multiple semicolon-separated
// statements. Statements that fail to parse are isolated: their error is
// recorded and parsing resumes at the next statement boundary. The
// returned error is non-nil only when nothing in the input parsed.
func Parse(sql string, d *dialect.Dialect) (*Result, error) {
	p := NewParser(sql, d)
	res := &Result{}

	for {
		for p.match(token.SEMICOLON) {
		}
		if p.check(token.EOF) {
			break
		}

		switch {
		case p.check(token.SELECT) || p.check(token.WITH):
			p.errors = nil
			stmt := p.parseStatement()
			if len(p.errors) > 0 {
				res.Errors = append(res.Errors, asParseError(p.errors[0]))
				p.syncToStatementBoundary()
				continue
			}
			res.Statements = append(res.Statements, stmt)
			if !p.check(token.SEMICOLON) && !p.check(token.EOF) {
				res.Errors = append(res.Errors, &ParseError{
					Pos:     p.token.Pos,
					Message: fmt.Sprintf("unexpected trailing token %s", p.token.Type),
				})
				p.syncToStatementBoundary()
			}

		case p.check(token.IDENT) && skipStatements[strings.ToLower(p.token.Literal)]:
			res.Skipped++
			p.syncToStatementBoundary()

		default:
			res.Errors = append(res.Errors, &ParseError{
				Pos:     p.token.Pos,
				Message: fmt.Sprintf(ErrExpectedStatement, p.token.Type),
			})
			p.syncToStatementBoundary()
		}
	}

	if len(res.Statements) == 0 && res.Skipped == 0 && len(res.Errors) > 0 {
		return res, fmt.Errorf("%w: %s", ErrNoStatements, res.Errors[0].Error())
	}
	return res, nil
}

// ParseStatement parses a single statement and returns it, or the first
// parse error encountered.
func ParseStatement(sql string, d *dialect.Dialect) (*SelectStmt, error) {
	p := NewParser(sql, d)
	stmt := p.parseStatement()
	if len(p.errors) > 0 {
		return nil, p.errors[0]
	}
	return stmt, nil
}

// syncToStatementBoundary advances past the next semicolon (or to EOF),
// skipping over semicolons inside parentheses.
func (p *Parser) syncToStatementBoundary() {
	depth := 0
	for !p.check(token.EOF) {
		switch p.token.Type {
		case token.LPAREN:
			depth++
		case token.RPAREN:
			if depth > 0 {
				depth--
			}
		case token.SEMICOLON:
			if depth == 0 {
				p.nextToken()
				return
			}
		}
		p.nextToken()
	}
}

func asParseError(err error) *ParseError {
	if pe, ok := err.(*ParseError); ok {
		return pe
	}
	return &ParseError{Message: err.Error()}
}

// ---------- Token Helpers ----------

// nextToken advances to the next token.
func (p *Parser) nextToken() {
	p.token = p.peek
	p.peek = p.peek2
	p.peek2 = p.lexer.NextToken()
}

// check returns true if the current token is of the given type.
func (p *Parser) check(t token.TokenType) bool {
	return p.token.Type == t
}

// checkPeek returns true if the peek token is of the given type.
func (p *Parser) checkPeek(t token.TokenType) bool {
	return p.peek.Type == t
}

// checkPeek2 returns true if the peek2 token is of the given type.
func (p *Parser) checkPeek2(t token.TokenType) bool {
	return p.peek2.Type == t
}

// match consumes the current token if it matches and returns true.
func (p *Parser) match(t token.TokenType) bool {
	if p.check(t) {
		p.nextToken()
		return true
	}
	return false
}

// expect consumes the current token if it matches, otherwise adds an error.
func (p *Parser) expect(t token.TokenType) bool {
	if p.check(t) {
		p.nextToken()
		return true
	}
	p.addError(fmt.Sprintf(ErrUnexpectedToken, p.token.Type, t))
	return false
}

// addError adds a parse error.
func (p *Parser) addError(msg string) {
	p.errors = append(p.errors, &ParseError{
		Pos:     p.token.Pos,
		Message: msg,
	})
}

// ---------- Keyword Helpers ----------

// isKeyword returns true if the token is a reserved keyword that can't be used as alias.
func (p *Parser) isKeyword(tok token.Token) bool {
	switch tok.Type {
	case token.FROM, token.WHERE, token.GROUP, token.HAVING, token.ORDER,
		token.LIMIT, token.OFFSET, token.UNION, token.INTERSECT, token.EXCEPT,
		token.LEFT, token.RIGHT, token.INNER, token.OUTER, token.FULL,
		token.CROSS, token.NATURAL, token.JOIN, token.ON, token.USING, token.QUALIFY:
		return true
	}
	return false
}

// isJoinKeyword returns true if token is a JOIN-related keyword.
func (p *Parser) isJoinKeyword(tok token.Token) bool {
	switch tok.Type {
	case token.JOIN, token.LEFT, token.RIGHT, token.INNER, token.OUTER,
		token.FULL, token.CROSS, token.NATURAL, token.ON, token.USING, token.LATERAL:
		return true
	}
	return false
}

// isClauseKeyword returns true if token starts a new clause.
func (p *Parser) isClauseKeyword(tok token.Token) bool {
	switch tok.Type {
	case token.WHERE, token.GROUP, token.HAVING, token.ORDER, token.LIMIT,
		token.OFFSET, token.UNION, token.INTERSECT, token.EXCEPT, token.QUALIFY:
		return true
	}
	return false
}
