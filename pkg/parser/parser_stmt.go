package parser

import (
	"fmt"

	"github.com/datatrail-labs/sqlcol/pkg/token"
)

// Statement parsing: WITH clause, CTEs, SELECT body, SELECT list, ORDER BY.
//
// Grammar:
//
//	statement     → [WITH cte_list] select_body
//	cte_list      → cte ("," cte)*
//	cte           → identifier ["(" column_list ")"] AS "(" statement ")"
//	select_body   → select_core [(UNION|INTERSECT|EXCEPT) [ALL|DISTINCT] select_body]
//	select_core   → SELECT [DISTINCT|ALL] select_list [FROM from_clause] clauses
//	select_list   → select_item ("," select_item)*
//	select_item   → "*" | table "." "*" | expr [AS identifier]
//	order_list    → order_item ("," order_item)*
//	order_item    → expr [ASC|DESC] [NULLS FIRST|LAST]

// parseStatement parses a complete SQL statement.
func (p *Parser) parseStatement() *SelectStmt {
	stmt := &SelectStmt{}

	// Optional WITH clause
	if p.check(token.WITH) {
		stmt.With = p.parseWithClause()
	}

	// Required SELECT body
	stmt.Body = p.parseSelectBody()

	return stmt
}

// parseWithClause parses a WITH clause with CTEs.
func (p *Parser) parseWithClause() *WithClause {
	p.expect(token.WITH)
	with := &WithClause{}

	// Optional RECURSIVE
	if p.match(token.RECURSIVE) {
		with.Recursive = true
	}

	// Parse CTE list
	for {
		cte := p.parseCTE()
		with.CTEs = append(with.CTEs, cte)

		if !p.match(token.COMMA) {
			break
		}
	}

	return with
}

// parseCTE parses a single CTE.
func (p *Parser) parseCTE() *CTE {
	cte := &CTE{}

	// CTE name
	if !p.check(token.IDENT) {
		p.addError("expected CTE name")
		return cte
	}
	cte.Name = p.token.Literal
	p.nextToken()

	// Optional explicit column list: name (a, b) AS (...)
	if p.check(token.LPAREN) {
		p.nextToken()
		for {
			if !p.check(token.IDENT) {
				p.addError("expected column name in CTE column list")
				break
			}
			cte.Columns = append(cte.Columns, p.token.Literal)
			p.nextToken()
			if !p.match(token.COMMA) {
				break
			}
		}
		p.expect(token.RPAREN)
	}

	// AS
	p.expect(token.AS)

	// ( SelectStatement )
	p.expect(token.LPAREN)
	cte.Select = p.parseStatement()
	p.expect(token.RPAREN)

	return cte
}

// parseSelectBody parses a SELECT body with possible set operations.
func (p *Parser) parseSelectBody() *SelectBody {
	body := &SelectBody{}
	body.Left = p.parseSelectCore()

	// Check for set operations
	if p.check(token.UNION) || p.check(token.INTERSECT) || p.check(token.EXCEPT) {
		switch p.token.Type {
		case token.UNION:
			p.nextToken()
			if p.match(token.ALL) {
				body.Op = SetOpUnionAll
				body.All = true
			} else {
				body.Op = SetOpUnion
				p.match(token.DISTINCT) // optional
			}
		case token.INTERSECT:
			p.nextToken()
			body.Op = SetOpIntersect
			p.match(token.ALL) // optional
		case token.EXCEPT:
			p.nextToken()
			body.Op = SetOpExcept
			p.match(token.ALL) // optional
		}

		// Parse the right side (recursively for chained operations)
		body.Right = p.parseSelectBody()
	}

	return body
}

// parseSelectCore parses a single SELECT clause.
func (p *Parser) parseSelectCore() *SelectCore {
	p.expect(token.SELECT)
	core := &SelectCore{}

	// DISTINCT / ALL
	if p.match(token.DISTINCT) {
		core.Distinct = true
	} else {
		p.match(token.ALL) // optional, consume if present
	}

	// SELECT list
	core.Columns = p.parseSelectList()

	// FROM clause is optional (SELECT 1 is valid)
	if p.match(token.FROM) {
		core.From = p.parseFromClause()
	}

	p.parseClauses(core)

	return core
}

// parseClauses parses the optional clauses after FROM, in any order.
func (p *Parser) parseClauses(core *SelectCore) {
	for {
		switch {
		case p.match(token.WHERE):
			core.Where = p.parseExpression()

		case p.check(token.GROUP):
			p.nextToken()
			p.expect(token.BY)
			core.GroupBy = p.parseExpressionList()

		case p.match(token.HAVING):
			core.Having = p.parseExpression()

		case p.check(token.QUALIFY):
			if !p.dialect.Qualify {
				p.addError(fmt.Sprintf("QUALIFY is not supported in %s dialect", p.dialect.Name))
			}
			p.nextToken()
			core.Qualify = p.parseExpression()

		case p.check(token.ORDER):
			p.nextToken()
			p.expect(token.BY)
			core.OrderBy = p.parseOrderByList()

		case p.match(token.LIMIT):
			core.Limit = p.parseExpression()

		case p.match(token.OFFSET):
			core.Offset = p.parseExpression()

		default:
			return
		}
	}
}

// parseSelectList parses the list of SELECT items.
func (p *Parser) parseSelectList() []SelectItem {
	var items []SelectItem

	for {
		item := p.parseSelectItem()
		items = append(items, item)

		if !p.match(token.COMMA) {
			break
		}
	}

	return items
}

// parseSelectItem parses a single SELECT item.
func (p *Parser) parseSelectItem() SelectItem {
	item := SelectItem{}

	// Check for * or table.*
	if p.check(token.STAR) {
		item.Star = true
		p.nextToken()
		return item
	}

	// Check for table.* pattern using 3-token lookahead (no rollback needed)
	if p.check(token.IDENT) && p.checkPeek(token.DOT) && p.checkPeek2(token.STAR) {
		tableName := p.token.Literal
		p.nextToken() // consume identifier
		p.nextToken() // consume DOT
		p.nextToken() // consume STAR
		item.TableStar = tableName
		return item
	}

	// Regular expression
	item.Expr = p.parseExpression()

	// Optional alias
	if p.match(token.AS) {
		if p.check(token.IDENT) {
			item.Alias = p.token.Literal
			p.nextToken()
		} else {
			p.addError("expected alias after AS")
		}
	} else if p.check(token.IDENT) && !p.isKeyword(p.token) {
		// Alias without AS
		item.Alias = p.token.Literal
		p.nextToken()
	}

	return item
}

// parseOrderByList parses a list of ORDER BY items.
func (p *Parser) parseOrderByList() []OrderByItem {
	var items []OrderByItem

	for {
		item := p.parseOrderByItem()
		items = append(items, item)

		if !p.match(token.COMMA) {
			break
		}
	}

	return items
}

// parseOrderByItem parses a single ORDER BY item.
func (p *Parser) parseOrderByItem() OrderByItem {
	item := OrderByItem{}
	item.Expr = p.parseExpression()

	// ASC / DESC
	if p.match(token.ASC) {
		item.Desc = false
	} else if p.match(token.DESC) {
		item.Desc = true
	}

	// NULLS FIRST / LAST
	if p.match(token.NULLS) {
		if p.match(token.FIRST) {
			b := true
			item.NullsFirst = &b
		} else if p.match(token.LAST) {
			b := false
			item.NullsFirst = &b
		}
	}

	return item
}

// parseExpressionList parses a comma-separated list of expressions.
func (p *Parser) parseExpressionList() []Expr {
	var exprs []Expr

	for {
		expr := p.parseExpression()
		exprs = append(exprs, expr)

		if !p.match(token.COMMA) {
			break
		}
	}

	return exprs
}
