package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// extractRefs runs the structural pipeline over one statement with the
// given options and returns the rendered references.
func extractRefs(t *testing.T, sql string, opts Options) []string {
	t.Helper()
	e := New(opts, nil)
	res := e.Extract(sql)
	require.Equal(t, StatusSuccess, res.Status, "status was %s", res.Status)
	return res.Refs
}

func defaultRefs(t *testing.T, sql string) []string {
	t.Helper()
	return extractRefs(t, sql, DefaultOptions())
}

func TestAliasResolvesToCanonicalTable(t *testing.T) {
	refs := defaultRefs(t, "SELECT o.id, o.total FROM orders o")
	assert.Equal(t, []string{"orders.id", "orders.total"}, refs)
}

func TestSchemaQualifiedTableThroughAlias(t *testing.T) {
	refs := defaultRefs(t, "SELECT o.id FROM dbo.orders o")
	assert.Equal(t, []string{"dbo.orders.id"}, refs)
}

func TestSpelledSchemaMergesWithResolvedBinding(t *testing.T) {
	// dbo.orders.total with orders bound to dbo.orders must not come
	// out as dbo.dbo.orders.total.
	refs := defaultRefs(t, "SELECT dbo.orders.total FROM dbo.orders")
	assert.Equal(t, []string{"dbo.orders.total"}, refs)
}

func TestUnqualifiedSingleTable(t *testing.T) {
	refs := defaultRefs(t, "SELECT a, b FROM t")
	assert.Equal(t, []string{"t.a", "t.b"}, refs)
}

func TestUnqualifiedJoinPredicateEvidence(t *testing.T) {
	refs := defaultRefs(t, `
		SELECT amount
		FROM ledger l
		JOIN audit a ON l.amount = a.checked`)
	assert.Equal(t, []string{"ledger.amount", "ledger.amount", "audit.checked"}, refs)
}

func TestUnqualifiedWherePredicateEvidence(t *testing.T) {
	refs := defaultRefs(t, `
		SELECT amount
		FROM ledger l
		JOIN audit a ON l.id = a.ref
		WHERE l.amount > 0`)
	// amount binds via the WHERE evidence; predicate columns follow.
	assert.Equal(t, []string{
		"ledger.amount",
		"ledger.id", "audit.ref",
		"ledger.amount",
	}, refs)
}

func TestUnqualifiedAmbiguousDroppedUnderStrict(t *testing.T) {
	res := New(DefaultOptions(), nil).Extract(`
		SELECT mystery FROM t1 JOIN t2 ON t1.id = t2.id`)
	require.Equal(t, StatusSuccess, res.Status)
	assert.Equal(t, []string{"t1.id", "t2.id"}, res.Refs)
}

func TestUnqualifiedFirstTablePolicy(t *testing.T) {
	opts := DefaultOptions()
	opts.UnqualifiedFallback = FallbackFirstTable

	refs := extractRefs(t, `
		SELECT mystery FROM t1 JOIN t2 ON t1.id = t2.id`, opts)
	assert.Equal(t, []string{"t1.mystery", "t1.id", "t2.id"}, refs)
}

func TestUnqualifiedResolutionDisabled(t *testing.T) {
	opts := DefaultOptions()
	opts.ResolveUnqualified = false

	refs := extractRefs(t, "SELECT a, t.b FROM t", opts)
	assert.Equal(t, []string{"t.b"}, refs)
}

func TestUnboundAliasLikeQualifierDropped(t *testing.T) {
	// "missing" reads like a dangling alias, not a table.
	res := New(DefaultOptions(), nil).Extract("SELECT missing.col, f.col FROM Foo f")
	require.Equal(t, StatusSuccess, res.Status)
	assert.Equal(t, []string{"Foo.col"}, res.Refs)
}

func TestUnboundTableLikeQualifierKept(t *testing.T) {
	tests := []struct {
		name string
		sql  string
		want []string
	}{
		{
			"explicit schema qualifier",
			"SELECT other.schema2.tbl.col FROM t",
			[]string{"other.schema2.tbl.col"},
		},
		{
			"uppercase start",
			"SELECT Inventory.qty FROM t",
			[]string{"Inventory.qty"},
		},
		{
			"longer than any alias",
			"SELECT warehouse_inventory.qty FROM t",
			[]string{"warehouse_inventory.qty"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, defaultRefs(t, tt.sql))
		})
	}
}

func TestCTENamedQualifierKept(t *testing.T) {
	refs := defaultRefs(t, `
		WITH totals AS (SELECT region, SUM(x) AS s FROM sales GROUP BY region)
		SELECT totals.region FROM totals`)
	assert.Equal(t, []string{
		"totals.region",
		"sales.region", "sales.x", "sales.region",
	}, refs)
}

func TestCTEShadowsSchemaQualifiedTable(t *testing.T) {
	refs := defaultRefs(t, `
		WITH Foo AS (SELECT a FROM Src)
		SELECT f.x FROM db.Foo f`)
	assert.Equal(t, []string{"Foo.x", "Src.a"}, refs)
}

func TestWildcardsDropped(t *testing.T) {
	res := New(DefaultOptions(), nil).Extract("SELECT *, t.*, s.t.* FROM t")
	assert.Equal(t, StatusZeroColumns, res.Status)
	assert.Empty(t, res.Refs)
}

func TestDuplicateOccurrencesPreserved(t *testing.T) {
	refs := defaultRefs(t, "SELECT a, a FROM t")
	assert.Equal(t, []string{"t.a", "t.a"}, refs)
}

func TestDerivedTableAliasReferences(t *testing.T) {
	refs := defaultRefs(t, "SELECT x.total FROM (SELECT SUM(amount) AS total FROM sales) x")
	assert.Equal(t, []string{"x.total", "sales.amount"}, refs)
}

func TestCorrelatedSubqueryInheritsBindings(t *testing.T) {
	refs := defaultRefs(t, `
		SELECT o.id
		FROM dbo.orders o
		WHERE EXISTS (SELECT 1 FROM audit WHERE audit.ref = o.id)`)
	assert.Equal(t, []string{"dbo.orders.id", "audit.ref", "dbo.orders.id"}, refs)
}

func TestSetOpBranchesResolveIndependently(t *testing.T) {
	refs := defaultRefs(t, "SELECT a FROM t1 UNION SELECT a FROM t2")
	assert.Equal(t, []string{"t1.a", "t2.a"}, refs)
}

func TestCaseInsensitiveAliasReference(t *testing.T) {
	refs := defaultRefs(t, "SELECT O.Id, o.Total FROM Orders O")
	assert.Equal(t, []string{"Orders.Id", "Orders.Total"}, refs)
}

func TestMergeDuplicateSegments(t *testing.T) {
	tests := []struct {
		in   []string
		want []string
	}{
		{[]string{"dbo", "dbo", "orders"}, []string{"dbo", "orders"}},
		{[]string{"DBO", "dbo", "orders"}, []string{"DBO", "orders"}},
		{[]string{"a", "b", "c"}, []string{"a", "b", "c"}},
		{[]string{"x"}, []string{"x"}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, mergeDuplicateSegments(tt.in))
	}
}

func TestTableLike(t *testing.T) {
	assert.False(t, tableLike(""))
	assert.False(t, tableLike("t"))
	assert.False(t, tableLike("ab"))
	assert.False(t, tableLike("missing"))
	assert.True(t, tableLike("a.b"))
	assert.True(t, tableLike("Foo"))
	assert.True(t, tableLike("warehouse_inventory"))
}
