package schema

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sqldef/sqlcatalog/database"
	"github.com/sqldef/sqlcatalog/parser"
)

func build(t *testing.T, sql string) (*Catalog, Report) {
	t.Helper()
	return buildWith(t, DefaultOptions(), sql)
}

func buildWith(t *testing.T, opts Options, sql string) (*Catalog, Report) {
	t.Helper()
	catalog, report, err := BuildCatalog(context.Background(), database.NewParser(0), sql, opts)
	require.NoError(t, err)
	return catalog, report
}

func mustTable(t *testing.T, c *Catalog, schemaName, name string) *Table {
	t.Helper()
	table := c.LookupTable(schemaName, name)
	require.NotNilf(t, table, "table %s.%s", schemaName, name)
	return table
}

func mustColumn(t *testing.T, c *Catalog, table *Table, name string) *Column {
	t.Helper()
	col := c.LookupColumn(table, name)
	require.NotNilf(t, col, "column %s", name)
	return col
}

func columnNames(c *Catalog, table *Table) []string {
	var names []string
	for _, id := range table.Columns {
		names = append(names, c.Column(id).Name)
	}
	return names
}

func indexNames(c *Catalog, table *Table) []string {
	var names []string
	for _, id := range table.Indexes {
		names = append(names, c.Index(id).Name)
	}
	return names
}

func TestApplyNilStatement(t *testing.T) {
	b := NewBuilder(NewCatalog(DefaultOptions()), DefaultOptions())
	result, err := b.Apply(nil)
	assert.ErrorIs(t, err, ErrNilStatement)
	assert.True(t, result.Skipped)
}

func TestApplyUse(t *testing.T) {
	b := NewBuilder(NewCatalog(DefaultOptions()), DefaultOptions())
	result, err := b.Apply(&parser.Use{Schema: parser.Ident{"`shop`"}})
	require.NoError(t, err)
	assert.Equal(t, Result{Kind: "USE", Name: "shop"}, result)

	result, err = b.Apply(&parser.CreateTable{
		Table:    parser.Ident{"t"},
		Elements: []parser.TableElement{&parser.ColumnDef{Name: parser.Ident{"a"}, Type: &parser.DataType{Names: []string{"INT"}}}},
	})
	require.NoError(t, err)
	assert.Equal(t, Result{Kind: "CREATE TABLE", Name: "shop.t"}, result)
	assert.NotNil(t, b.Catalog().LookupTable("shop", "t"))
}

func TestApplyAllSkipsUnparsedStatements(t *testing.T) {
	b := NewBuilder(NewCatalog(DefaultOptions()), DefaultOptions())
	results, err := b.ApplyAll(context.Background(), []database.DDLStatement{
		{DDL: "CREATE TABLE t (", Statement: nil},
		{DDL: "CREATE SCHEMA s", Statement: &parser.CreateSchema{Name: parser.Ident{"s"}}},
	})
	require.NoError(t, err)
	assert.Equal(t, []Result{{Skipped: true}, {Kind: "CREATE SCHEMA", Name: "s"}}, results)
}

func TestApplyAllCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	b := NewBuilder(NewCatalog(DefaultOptions()), DefaultOptions())
	results, err := b.ApplyAll(ctx, []database.DDLStatement{
		{DDL: "CREATE SCHEMA s", Statement: &parser.CreateSchema{Name: parser.Ident{"s"}}},
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, results)
	assert.Nil(t, b.Catalog().LookupSchema("s"))
}

func TestBuildCatalogReport(t *testing.T) {
	sql := `
CREATE TABLE t (a INT PRIMARY KEY);
CREATE TABLE IF NOT EXISTS t (b INT);
CREATE INDEX ix ON t (a);
DROP TABLE old;
`
	catalog, report := build(t, sql)
	assert.Equal(t, 3, report.Statements)
	assert.Equal(t, 2, report.Applied)
	assert.Equal(t, 1, report.Ignored)
	assert.Equal(t, 0, report.Skipped)
	assert.Equal(t, 2, report.ForwardReferences)
	assert.Empty(t, report.Unresolved)

	table := mustTable(t, catalog, "default", "t")
	assert.Equal(t, []string{"a"}, columnNames(catalog, table))
	assert.Equal(t, []string{"PRIMARY", "ix"}, indexNames(catalog, table))
}

func TestBuildCatalogWithSyntaxError(t *testing.T) {
	sql := "CREATE TABLE a (id INT);\nCREATE TABLE b (id INT"
	catalog, report, err := BuildCatalog(context.Background(), database.NewParser(0), sql, DefaultOptions())
	require.Error(t, err)
	assert.Equal(t, 2, report.Statements)
	assert.Equal(t, 1, report.Skipped)
	assert.NotNil(t, catalog.LookupTable("default", "a"))
	assert.Nil(t, catalog.LookupTable("default", "b"))
}

func TestBuildCatalogEmptyScript(t *testing.T) {
	catalog, _, err := BuildCatalog(context.Background(), database.NewParser(0), "-- nothing\n", DefaultOptions())
	assert.ErrorIs(t, err, database.ErrEmptyScript)
	assert.Empty(t, catalog.Schemas)
}

func TestBuildCatalogDeterministic(t *testing.T) {
	sql := `
CREATE TABLE orders (id INT PRIMARY KEY, customer_id INT, FOREIGN KEY (customer_id) REFERENCES customers (id));
CREATE TABLE customers (id INT PRIMARY KEY, email VARCHAR(100) UNIQUE);
CREATE TRIGGER tr BEFORE INSERT ON orders FOR EACH ROW SET NEW.id = 1;
`
	first, _ := build(t, sql)
	second, _ := build(t, sql)
	assert.Equal(t, first, second)
}

func TestOptionsFromConfig(t *testing.T) {
	off := false
	opts := OptionsFromConfig(database.Config{Version: 50740, AutoForeignKeyNames: &off, DefaultSchema: "app"})
	assert.Equal(t, 50740, opts.Version)
	assert.False(t, opts.AutoForeignKeyNames)
	assert.Equal(t, "app", opts.DefaultSchema)
	assert.Equal(t, "utf8mb4", opts.DefaultCharset)
	assert.Equal(t, "utf8mb4_general_ci", opts.DefaultCollation)

	opts = OptionsFromConfig(database.Config{})
	assert.True(t, opts.AutoForeignKeyNames)
	assert.Equal(t, 80000, opts.Version)
	assert.Equal(t, "default", opts.DefaultSchema)
	assert.Equal(t, "utf8mb4_0900_ai_ci", opts.DefaultCollation)
}
