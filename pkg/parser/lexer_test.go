package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datatrail-labs/sqlcol/pkg/dialect"
	"github.com/datatrail-labs/sqlcol/pkg/token"
)

func lex(t *testing.T, input, dialectName string) []token.Token {
	t.Helper()
	d, ok := dialect.Get(dialectName)
	require.True(t, ok)
	return Tokenize(input, d)
}

func tokenTypes(tokens []token.Token) []token.TokenType {
	types := make([]token.TokenType, len(tokens))
	for i, tok := range tokens {
		types[i] = tok.Type
	}
	return types
}

func TestLexerBasicSelect(t *testing.T) {
	tokens := lex(t, "SELECT a, b FROM t WHERE a = 1;", "generic")

	want := []token.TokenType{
		token.SELECT, token.IDENT, token.COMMA, token.IDENT,
		token.FROM, token.IDENT, token.WHERE, token.IDENT,
		token.EQ, token.NUMBER, token.SEMICOLON, token.EOF,
	}
	assert.Equal(t, want, tokenTypes(tokens))
}

func TestLexerQuotedIdentifiers(t *testing.T) {
	tests := []struct {
		name    string
		dialect string
		input   string
		literal string
	}{
		{"ansi double quote", "postgres", `"Order Details"`, "Order Details"},
		{"ansi doubled escape", "postgres", `"a""b"`, `a"b`},
		{"tsql bracket", "tsql", "[Order Details]", "Order Details"},
		{"tsql bracket escape", "tsql", "[a]]b]", "a]b"},
		{"mysql backtick", "mysql", "`order`", "order"},
		{"generic bracket", "generic", "[x]", "x"},
		{"generic backtick", "generic", "`x`", "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := lex(t, tt.input, tt.dialect)
			require.Len(t, tokens, 2)
			assert.Equal(t, token.IDENT, tokens[0].Type)
			assert.Equal(t, tt.literal, tokens[0].Literal)
		})
	}
}

func TestLexerQuotingRejectedByDialect(t *testing.T) {
	// Brackets are not identifiers outside T-SQL-style dialects.
	tokens := lex(t, "[x]", "postgres")
	assert.Equal(t, token.ILLEGAL, tokens[0].Type)

	// Backticks are not identifiers in T-SQL.
	tokens = lex(t, "`x`", "tsql")
	assert.Equal(t, token.ILLEGAL, tokens[0].Type)
}

func TestLexerStringLiteral(t *testing.T) {
	tokens := lex(t, "'it''s'", "generic")
	require.Len(t, tokens, 2)
	assert.Equal(t, token.STRING, tokens[0].Type)
	assert.Equal(t, "it's", tokens[0].Literal)
}

func TestLexerComments(t *testing.T) {
	tokens := lex(t, "SELECT -- comment\n a /* block\ncomment */ FROM t", "generic")

	want := []token.TokenType{
		token.SELECT, token.IDENT, token.FROM, token.IDENT, token.EOF,
	}
	assert.Equal(t, want, tokenTypes(tokens))
}

func TestLexerOperators(t *testing.T) {
	tokens := lex(t, "<> != <= >= || :: .", "generic")

	want := []token.TokenType{
		token.NE, token.NE, token.LE, token.GE, token.DPIPE, token.DCOLON,
		token.DOT, token.EOF,
	}
	assert.Equal(t, want, tokenTypes(tokens))
}

func TestLexerNumbers(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"42", "42"},
		{"3.14", "3.14"},
		{"1e10", "1e10"},
		{"2.5E-3", "2.5E-3"},
	}

	for _, tt := range tests {
		tokens := lex(t, tt.input, "generic")
		require.Equal(t, token.NUMBER, tokens[0].Type, tt.input)
		assert.Equal(t, tt.want, tokens[0].Literal)
	}
}

func TestLexerTSQLIdentifiers(t *testing.T) {
	// Temp tables and parameters lex as identifiers.
	tokens := lex(t, "#tmp @param", "tsql")
	require.Len(t, tokens, 3)
	assert.Equal(t, "#tmp", tokens[0].Literal)
	assert.Equal(t, "@param", tokens[1].Literal)
}

func TestLexerPositions(t *testing.T) {
	tokens := lex(t, "SELECT\n  a", "generic")
	require.Len(t, tokens, 3)
	assert.Equal(t, 1, tokens[0].Pos.Line)
	assert.Equal(t, 2, tokens[1].Pos.Line)
	assert.Equal(t, 3, tokens[1].Pos.Column)
}
