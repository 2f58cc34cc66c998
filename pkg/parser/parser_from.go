package parser

import (
	"strings"

	"github.com/datatrail-labs/sqlcol/pkg/token"
)

// FROM clause parsing: table references, derived tables, lateral joins, JOINs.
//
// Grammar:
//
//	from_clause   → table_ref (join)*
//	table_ref     → table_name | derived_table | lateral_table
//	table_name    → [catalog "."] [schema "."] identifier [AS identifier]
//	derived_table → "(" statement ")" [AS] identifier
//	lateral_table → LATERAL "(" statement ")" [AS] identifier
//	join          → [NATURAL] join_type JOIN table_ref [ON expr | USING "(" columns ")"] | "," table_ref
//	join_type     → [INNER] | LEFT [OUTER] | RIGHT [OUTER] | FULL [OUTER] | CROSS

// parseFromClause parses the FROM clause.
func (p *Parser) parseFromClause() *FromClause {
	from := &FromClause{}
	from.Source = p.parseTableRef()

	// Parse JOINs
	for {
		join := p.parseJoin()
		if join == nil {
			break
		}
		from.Joins = append(from.Joins, join)
	}

	return from
}

// parseTableRef parses a table reference.
func (p *Parser) parseTableRef() TableRef {
	// LATERAL subquery
	if p.match(token.LATERAL) {
		return p.parseLateralTable()
	}

	// Derived table (subquery)
	if p.check(token.LPAREN) {
		return p.parseDerivedTable()
	}

	// Simple table name
	return p.parseTableName()
}

// parseTableName parses a table name with optional schema/catalog.
func (p *Parser) parseTableName() *TableName {
	table := &TableName{}

	if !p.check(token.IDENT) {
		p.addError("expected table name")
		return table
	}

	// Parse potentially qualified name: catalog.schema.table
	parts := []string{p.token.Literal}
	p.nextToken()

	for p.match(token.DOT) {
		if p.check(token.IDENT) {
			parts = append(parts, p.token.Literal)
			p.nextToken()
		}
	}

	switch len(parts) {
	case 1:
		table.Name = parts[0]
	case 2:
		table.Schema = parts[0]
		table.Name = parts[1]
	default:
		// Four-part names (server.catalog.schema.table) fold the extra
		// leading segments into the catalog.
		table.Catalog = strings.Join(parts[:len(parts)-2], ".")
		table.Schema = parts[len(parts)-2]
		table.Name = parts[len(parts)-1]
	}

	// Optional alias
	if p.match(token.AS) {
		if p.check(token.IDENT) {
			table.Alias = p.token.Literal
			p.nextToken()
		}
	} else if p.check(token.IDENT) && !p.isJoinKeyword(p.token) && !p.isClauseKeyword(p.token) {
		table.Alias = p.token.Literal
		p.nextToken()
	}

	return table
}

// parseDerivedTable parses a derived table (subquery in FROM).
func (p *Parser) parseDerivedTable() *DerivedTable {
	p.expect(token.LPAREN)
	derived := &DerivedTable{}
	derived.Select = p.parseStatement()
	p.expect(token.RPAREN)

	// Alias is required for derived tables
	if p.match(token.AS) {
		if p.check(token.IDENT) {
			derived.Alias = p.token.Literal
			p.nextToken()
		}
	} else if p.check(token.IDENT) && !p.isJoinKeyword(p.token) && !p.isClauseKeyword(p.token) {
		derived.Alias = p.token.Literal
		p.nextToken()
	}

	return derived
}

// parseLateralTable parses a LATERAL subquery.
func (p *Parser) parseLateralTable() *LateralTable {
	p.expect(token.LPAREN)
	lateral := &LateralTable{}
	lateral.Select = p.parseStatement()
	p.expect(token.RPAREN)

	// Alias
	if p.match(token.AS) {
		if p.check(token.IDENT) {
			lateral.Alias = p.token.Literal
			p.nextToken()
		}
	} else if p.check(token.IDENT) && !p.isJoinKeyword(p.token) && !p.isClauseKeyword(p.token) {
		lateral.Alias = p.token.Literal
		p.nextToken()
	}

	return lateral
}

// parseJoin parses a JOIN clause. Returns nil when the current token does
// not start a join.
func (p *Parser) parseJoin() *Join {
	join := &Join{}

	// Comma join (implicit cross join)
	if p.match(token.COMMA) {
		join.Type = JoinComma
		join.Right = p.parseTableRef()
		return join
	}

	// NATURAL modifier
	if p.match(token.NATURAL) {
		join.Natural = true
	}

	switch p.token.Type {
	case token.JOIN:
		join.Type = JoinInner
	case token.INNER:
		join.Type = JoinInner
		p.nextToken()
	case token.LEFT:
		join.Type = JoinLeft
		p.nextToken()
		p.match(token.OUTER)
	case token.RIGHT:
		join.Type = JoinRight
		p.nextToken()
		p.match(token.OUTER)
	case token.FULL:
		join.Type = JoinFull
		p.nextToken()
		p.match(token.OUTER)
	case token.CROSS:
		join.Type = JoinCross
		p.nextToken()
	default:
		if join.Natural {
			p.addError("expected JOIN after NATURAL")
		}
		return nil
	}

	if !p.expect(token.JOIN) {
		return nil
	}

	join.Right = p.parseTableRef()
	p.parseJoinCondition(join)
	return join
}

// parseJoinCondition handles ON/USING/NATURAL validation.
func (p *Parser) parseJoinCondition(join *Join) {
	switch {
	case join.Natural:
		// NATURAL JOIN cannot have ON or USING
		if p.check(token.ON) {
			p.addError("NATURAL JOIN cannot have ON clause")
		}
		if p.check(token.USING) {
			p.addError("NATURAL JOIN cannot have USING clause")
		}
	case p.match(token.ON):
		join.Condition = p.parseExpression()
	case p.match(token.USING):
		join.Using = p.parseUsingColumns()
	}
}

// parseUsingColumns parses the column list in USING (col1, col2, ...).
func (p *Parser) parseUsingColumns() []string {
	p.expect(token.LPAREN)
	var cols []string
	for {
		if !p.check(token.IDENT) {
			p.addError("expected column name in USING clause")
			break
		}
		cols = append(cols, p.token.Literal)
		p.nextToken()
		if !p.match(token.COMMA) {
			break
		}
	}
	p.expect(token.RPAREN)
	return cols
}
