package mysql

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sqldef/sqlcatalog/parser"
	"github.com/sqldef/sqlcatalog/schema"
)

func TestViewTables(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		tables []parser.Ident
	}{
		{
			name:   "join",
			query:  "SELECT o.id FROM shop.orders o JOIN customers c ON o.customer_id = c.id",
			tables: []parser.Ident{{"`shop`", "`orders`"}, {"`customers`"}},
		},
		{
			name:   "duplicates",
			query:  "SELECT * FROM t a JOIN t b ON a.id = b.parent_id",
			tables: []parser.Ident{{"`t`"}},
		},
		{
			name:   "common table expression",
			query:  "WITH recent AS (SELECT * FROM orders) SELECT * FROM recent",
			tables: []parser.Ident{{"`orders`"}},
		},
		{
			name:   "no tables",
			query:  "SELECT 1",
			tables: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tables, err := ViewTables(tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.tables, tables)
		})
	}
}

func TestViewTablesSubquery(t *testing.T) {
	tables, err := ViewTables("SELECT * FROM t WHERE id IN (SELECT t_id FROM u)")
	require.NoError(t, err)
	assert.ElementsMatch(t, []parser.Ident{{"`t`"}, {"`u`"}}, tables)
}

func TestViewTablesError(t *testing.T) {
	_, err := ViewTables("SELECT FROM")
	assert.Error(t, err)
}

func TestMysqlParserFillsViewTables(t *testing.T) {
	stmts, err := NewParser(0).Parse("CREATE VIEW v AS SELECT * FROM t1 JOIN db2.t2 USING (id);\nALTER VIEW w AS SELECT 1 FROM t3;")
	require.NoError(t, err)
	require.Len(t, stmts, 2)

	view := stmts[0].Statement.(*parser.CreateView)
	assert.Equal(t, []parser.Ident{{"`t1`"}, {"`db2`", "`t2`"}}, view.Tables)
	alter := stmts[1].Statement.(*parser.AlterView)
	assert.Equal(t, []parser.Ident{{"`t3`"}}, alter.Tables)
}

func TestBuildCatalogLinksViewTables(t *testing.T) {
	sql := `
CREATE TABLE t1 (id INT PRIMARY KEY);
CREATE VIEW v AS SELECT * FROM t1 JOIN db2.t2 USING (id);
`
	catalog, report, err := schema.BuildCatalog(context.Background(), NewParser(0), sql, schema.DefaultOptions())
	require.NoError(t, err)

	view := catalog.LookupView("default", "v")
	require.NotNil(t, view)
	require.Len(t, view.Tables, 2)
	assert.Equal(t, "t1", catalog.Table(view.Tables[0]).Name)
	assert.False(t, catalog.Table(view.Tables[0]).IsStub)

	stub := catalog.Table(view.Tables[1])
	assert.True(t, stub.IsStub)
	assert.Equal(t, "db2.t2", catalog.QualifiedName(stub))
	require.Len(t, report.Unresolved, 1)
	assert.Equal(t, schema.RefTable, report.Unresolved[0].Kind)
}
