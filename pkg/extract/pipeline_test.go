package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractSuccess(t *testing.T) {
	res := New(DefaultOptions(), nil).Extract("SELECT o.id FROM orders o")

	assert.Equal(t, StatusSuccess, res.Status)
	assert.Equal(t, []string{"orders.id"}, res.Refs)
	assert.Equal(t, "generic", res.Dialect)
	assert.NoError(t, res.Err())
}

func TestExtractMultiStatement(t *testing.T) {
	res := New(DefaultOptions(), nil).Extract("SELECT a FROM t1; SELECT b FROM t2;")

	assert.Equal(t, StatusSuccess, res.Status)
	assert.Equal(t, []string{"t1.a", "t2.b"}, res.Refs)
}

func TestExtractStatementErrorIsolation(t *testing.T) {
	// The broken first statement must not take down the second.
	res := New(DefaultOptions(), nil).Extract("SELECT FROM WHERE; SELECT a FROM t")

	assert.Equal(t, StatusSuccess, res.Status)
	assert.Equal(t, []string{"t.a"}, res.Refs)
}

func TestExtractPartialFallsBackToTokenizer(t *testing.T) {
	res := New(DefaultOptions(), nil).Extract("totally (broken syntax dbo.orders.total here")

	assert.Equal(t, StatusPartial, res.Status)
	assert.Equal(t, []string{"dbo.orders.total"}, res.Refs)
	assert.Empty(t, res.Dialect)
}

func TestExtractParseError(t *testing.T) {
	res := New(DefaultOptions(), nil).Extract("this is not sql at all")

	assert.Equal(t, StatusParseError, res.Status)
	assert.Empty(t, res.Refs)
	assert.Error(t, res.Err())
}

func TestExtractZeroColumns(t *testing.T) {
	tests := []string{
		"SELECT 1",
		"SELECT 'x', 2 FROM t WHERE 1 = 1",
		"",
	}

	for _, sql := range tests {
		res := New(DefaultOptions(), nil).Extract(sql)
		assert.Equal(t, StatusZeroColumns, res.Status, "input %q got %s", sql, res.Status)
	}
}

func TestExtractSkippedStatementsParseClean(t *testing.T) {
	// A script of only housekeeping statements parses with no columns.
	res := New(DefaultOptions(), nil).Extract("SET NOCOUNT ON; USE mydb;")
	assert.Equal(t, StatusZeroColumns, res.Status)
}

func TestExtractForcedDialect(t *testing.T) {
	opts := DefaultOptions()
	opts.Dialect = "tsql"
	opts.MultiDialect = false

	res := New(opts, nil).Extract("SELECT [o].[Total] FROM [dbo].[Orders] o")
	assert.Equal(t, StatusSuccess, res.Status)
	assert.Equal(t, "tsql", res.Dialect)
	assert.Equal(t, []string{"dbo.Orders.Total"}, res.Refs)
}

func TestExtractForcedDialectNoTrials(t *testing.T) {
	// Backticks are MySQL quoting; a forced tsql run must not fall
	// through to a dialect that accepts them.
	opts := DefaultOptions()
	opts.Dialect = "tsql"
	opts.MultiDialect = false

	res := New(opts, nil).Extract("SELECT `a` FROM t")
	assert.Equal(t, StatusParseError, res.Status)
	require.Len(t, res.Attempts, 1)
	assert.Equal(t, "tsql", res.Attempts[0].Dialect)
}

func TestExtractSingleDialectDefaultsToGeneric(t *testing.T) {
	// Single-dialect mode with nothing forced tries the default dialect
	// once, never the full trial order.
	opts := DefaultOptions()
	opts.MultiDialect = false

	res := New(opts, nil).Extract("SELECT o.id FROM orders o")
	assert.Equal(t, StatusSuccess, res.Status)
	assert.Equal(t, "generic", res.Dialect)
	require.Len(t, res.Attempts, 1)
	assert.Equal(t, "generic", res.Attempts[0].Dialect)
}

func TestExtractMultiDialectRecovers(t *testing.T) {
	opts := DefaultOptions()
	opts.Dialect = "tsql"
	opts.MultiDialect = true

	res := New(opts, nil).Extract("SELECT `a` FROM t")
	assert.Equal(t, StatusSuccess, res.Status)
	assert.Equal(t, []string{"t.a"}, res.Refs)
}

func TestExtractDialectAliasNormalized(t *testing.T) {
	opts := DefaultOptions()
	opts.Dialect = "mssql"
	opts.MultiDialect = false

	res := New(opts, nil).Extract("SELECT [a] FROM t")
	assert.Equal(t, StatusSuccess, res.Status)
	assert.Equal(t, "tsql", res.Dialect)
}

func TestExtractAttemptsRecorded(t *testing.T) {
	res := New(DefaultOptions(), nil).Extract("SELECT a FROM t")

	require.NotEmpty(t, res.Attempts)
	assert.Equal(t, "generic", res.Attempts[0].Dialect)
	assert.NoError(t, res.Attempts[0].Err)
}

func TestExtractStatementNil(t *testing.T) {
	e := New(DefaultOptions(), nil)
	_, err := e.ExtractStatement(nil)
	assert.ErrorIs(t, err, ErrEmptyStatement)
}
