package parser

import (
	"github.com/datatrail-labs/sqlcol/pkg/token"
)

// Window specification parsing: OVER clauses, PARTITION BY, ORDER BY, frame specs.
//
// Grammar:
//
//	window_spec   → identifier | "(" [PARTITION BY expr_list] [ORDER BY order_list] [frame_spec] ")"
//	frame_spec    → (ROWS|RANGE|GROUPS) frame_extent
//	frame_extent  → BETWEEN frame_bound AND frame_bound | frame_bound
//	frame_bound   → UNBOUNDED PRECEDING | UNBOUNDED FOLLOWING | CURRENT ROW | expr PRECEDING | expr FOLLOWING

// parseWindowSpec parses a window specification.
func (p *Parser) parseWindowSpec() *WindowSpec {
	spec := &WindowSpec{}

	// Named window reference
	if p.check(token.IDENT) {
		spec.Name = p.token.Literal
		p.nextToken()
		return spec
	}

	p.expect(token.LPAREN)

	// PARTITION BY
	if p.match(token.PARTITION) {
		p.expect(token.BY)
		spec.PartitionBy = p.parseExpressionList()
	}

	// ORDER BY
	if p.match(token.ORDER) {
		p.expect(token.BY)
		spec.OrderBy = p.parseOrderByList()
	}

	// Frame specification
	if p.check(token.ROWS) || p.check(token.RANGE) || p.check(token.GROUPS) {
		spec.Frame = p.parseFrameSpec()
	}

	p.expect(token.RPAREN)
	return spec
}

// parseFrameSpec parses a window frame specification.
func (p *Parser) parseFrameSpec() *FrameSpec {
	frame := &FrameSpec{}

	switch {
	case p.match(token.ROWS):
		frame.Type = FrameRows
	case p.match(token.RANGE):
		frame.Type = FrameRange
	case p.match(token.GROUPS):
		frame.Type = FrameGroups
	}

	// BETWEEN ... AND ...
	if p.match(token.BETWEEN) {
		frame.Start = p.parseFrameBound()
		p.expect(token.AND)
		frame.End = p.parseFrameBound()
	} else {
		frame.Start = p.parseFrameBound()
	}

	return frame
}

// parseFrameBound parses a frame bound.
func (p *Parser) parseFrameBound() *FrameBound {
	bound := &FrameBound{}

	switch {
	case p.match(token.UNBOUNDED):
		if p.match(token.PRECEDING) {
			bound.Type = FrameUnboundedPreceding
		} else if p.match(token.FOLLOWING) {
			bound.Type = FrameUnboundedFollowing
		}

	case p.match(token.CURRENT):
		p.expect(token.ROW)
		bound.Type = FrameCurrentRow

	default:
		// N PRECEDING or N FOLLOWING
		bound.Offset = p.parseExpression()
		if p.match(token.PRECEDING) {
			bound.Type = FrameExprPreceding
		} else if p.match(token.FOLLOWING) {
			bound.Type = FrameExprFollowing
		}
	}

	return bound
}
