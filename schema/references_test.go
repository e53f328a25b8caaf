package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sqldef/sqlcatalog/parser"
)

func applyAll(t *testing.T, b *Builder, stmts ...parser.Statement) {
	t.Helper()
	for _, stmt := range stmts {
		_, err := b.Apply(stmt)
		require.NoError(t, err)
	}
}

func TestViewReferences(t *testing.T) {
	b := NewBuilder(NewCatalog(DefaultOptions()), DefaultOptions())
	applyAll(t, b,
		&parser.CreateView{
			Name:       parser.Ident{"v"},
			Definition: "SELECT * FROM t JOIN other.u",
			Tables:     []parser.Ident{{"t"}, {"other", "u"}},
		},
		&parser.CreateTable{
			Table:    parser.Ident{"t"},
			Elements: []parser.TableElement{&parser.ColumnDef{Name: parser.Ident{"a"}, Type: &parser.DataType{Names: []string{"INT"}}}},
		},
	)

	unresolved := b.Resolve()
	require.Len(t, unresolved, 1)
	assert.Equal(t, RefTable, unresolved[0].Kind)

	c := b.Catalog()
	assert.Equal(t, "table: default.v -> other.u", c.DescribeReference(unresolved[0]))

	view := c.LookupView("default", "v")
	require.NotNil(t, view)
	require.Len(t, view.Tables, 2)
	assert.Equal(t, c.LookupTable("default", "t").ID, view.Tables[0])
	u := c.Table(view.Tables[1])
	assert.True(t, u.IsStub)
	assert.Equal(t, "other.u", c.QualifiedName(u))
}

func TestViewReplaceDropsReferences(t *testing.T) {
	b := NewBuilder(NewCatalog(DefaultOptions()), DefaultOptions())
	applyAll(t, b,
		&parser.CreateView{Name: parser.Ident{"v"}, Definition: "SELECT * FROM gone", Tables: []parser.Ident{{"gone"}}},
		&parser.CreateView{Name: parser.Ident{"v"}, OrReplace: true, Definition: "SELECT 1"},
	)
	assert.Empty(t, b.Resolve())

	c := b.Catalog()
	assert.Nil(t, c.LookupTable("default", "gone"))
	view := c.LookupView("default", "v")
	require.NotNil(t, view)
	assert.Equal(t, "SELECT 1", view.Definition)
	assert.Empty(t, view.Tables)
	assert.Len(t, c.LookupSchema("default").Views, 1)
}

func TestResolveClearsPending(t *testing.T) {
	catalog, report := build(t, "CREATE TABLE t (a INT, KEY ix (a, missing))")
	require.Len(t, report.Unresolved, 1)
	ref := report.Unresolved[0]
	assert.Equal(t, RefIndex, ref.Kind)
	assert.Equal(t, "index: default.t.ix -> default.t(a, missing)", catalog.DescribeReference(ref))

	table := mustTable(t, catalog, "default", "t")
	ix := catalog.LookupIndex(table, "ix")
	assert.Equal(t, mustColumn(t, catalog, table, "a").ID, ix.Columns[0].Column)
	assert.Zero(t, ix.Columns[1].Column)
}

func TestReferenceKindString(t *testing.T) {
	assert.Equal(t, "index", RefIndex.String())
	assert.Equal(t, "referencing", RefReferencing.String())
	assert.Equal(t, "referenced", RefReferenced.String())
	assert.Equal(t, "table", RefTable.String())
}
