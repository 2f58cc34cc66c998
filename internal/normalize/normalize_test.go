package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanComments(t *testing.T) {
	got := Clean("SELECT a -- trailing\nFROM t /* block\ncomment */ WHERE b = 1")
	assert.Equal(t, "SELECT a\nFROM t WHERE b = 1", got)
}

func TestCleanHTMLEntities(t *testing.T) {
	got := Clean("SELECT a FROM t WHERE x &gt; 1 AND y &lt; 2 &amp; 3")
	assert.Equal(t, "SELECT a FROM t WHERE x > 1 AND y < 2 & 3", got)
}

func TestCleanBatchStatements(t *testing.T) {
	got := Clean("USE mydb;\nGO\nSELECT a FROM t\nGO")
	assert.Equal(t, "SELECT a FROM t", got)
}

func TestCleanSetStatements(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			"nocount",
			"SET NOCOUNT ON;\nSELECT a FROM t",
			"SELECT a FROM t",
		},
		{
			"isolation level",
			"SET TRANSACTION ISOLATION LEVEL READ UNCOMMITTED;\nSELECT a FROM t",
			"SELECT a FROM t",
		},
		{
			"session variable",
			"SET ANSI_NULLS ON;\nSELECT a FROM t",
			"SELECT a FROM t",
		},
		{
			"update set survives",
			"UPDATE t SET a = 1 WHERE b = 2",
			"UPDATE t SET a = 1 WHERE b = 2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Clean(tt.in))
		})
	}
}

func TestCleanDeclareAndDDL(t *testing.T) {
	got := Clean("DECLARE @d INT;\nCREATE TABLE x (id INT);\nSELECT a FROM t")
	assert.Equal(t, "SELECT a FROM t", got)
}

func TestCleanNolockHints(t *testing.T) {
	got := Clean("SELECT a FROM t WITH (NOLOCK) JOIN u (NOLOCK) ON t.id = u.id")
	assert.Equal(t, "SELECT a FROM t JOIN u ON t.id = u.id", got)
}

func TestCleanTopClause(t *testing.T) {
	assert.Equal(t, "SELECT a FROM t", Clean("SELECT TOP 10 a FROM t"))
	assert.Equal(t, "SELECT a FROM t", Clean("SELECT TOP(10) a FROM t"))
}

func TestCleanTerminalEscapes(t *testing.T) {
	got := Clean("SELECT \x1b[31ma\x1b[0m FROM t")
	assert.Equal(t, "SELECT a FROM t", got)

	// Sequences that lost their escape character.
	got = Clean("SELECT [0;31ma FROM t")
	assert.Equal(t, "SELECT a FROM t", got)
}

func TestCleanKeepsBracketIdentifiers(t *testing.T) {
	got := Clean("SELECT [dbo].[Orders].[Total] FROM [dbo].[Orders]")
	assert.Equal(t, "SELECT [dbo].[Orders].[Total] FROM [dbo].[Orders]", got)
}

func TestCleanControlAndZeroWidth(t *testing.T) {
	got := Clean("SELECT\x00 a\u200B FROM\uFEFF t")
	assert.Equal(t, "SELECT a FROM t", got)
}

func TestCleanWhitespace(t *testing.T) {
	got := Clean("  SELECT   a\t\tFROM t\n\n\n\nWHERE b = 1   \n")
	assert.Equal(t, "SELECT a\nFROM t\nWHERE b = 1", got)
}

func TestCleanIdempotent(t *testing.T) {
	inputs := []string{
		"SET NOCOUNT ON;\nSELECT TOP 5 a FROM t WITH (NOLOCK) -- c",
		"USE db;\nGO\nSELECT [dbo].[T].[c] FROM [dbo].[T]",
		"SELECT a FROM t WHERE x &gt; 1",
	}

	for _, in := range inputs {
		once := Clean(in)
		assert.Equal(t, once, Clean(once), in)
	}
}

func TestStripEscapes(t *testing.T) {
	assert.Equal(t, "parse error", StripEscapes("\x1b[1;31mparse error\x1b[0m"))
	assert.Equal(t, "oops", StripEscapes(`\x1boops\033`))
}
