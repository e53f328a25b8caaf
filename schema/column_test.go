package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sqldef/sqlcatalog/parser"
)

func TestColumnDefaults(t *testing.T) {
	catalog, _ := build(t, `
CREATE TABLE t (
  id INT NOT NULL,
  a INT,
  b VARCHAR(10) DEFAULT 'x',
  ts TIMESTAMP,
  ts_null TIMESTAMP NULL,
  g INT AS (id + 1),
  u1 DATETIME DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
  u2 DATETIME ON UPDATE CURRENT_TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
  u3 DATETIME(3) ON UPDATE CURRENT_TIMESTAMP(3),
  u4 DATETIME DEFAULT NULL,
  u5 DATETIME(6) DEFAULT NOW(6),
  u6 VARCHAR(40) DEFAULT 'ON UPDATE x',
  u7 DATETIME ON UPDATE CURRENT_TIMESTAMP DEFAULT 'ſſ ON UPDATE',
  u8 DATETIME(3) ON UPDATE CURRENT_TIMESTAMP(3) DEFAULT CURRENT_TIMESTAMP(3),
  u9 DATETIME DEFAULT 'x' ON UPDATE CURRENT_TIMESTAMP
)`)
	table := mustTable(t, catalog, "default", "t")

	tests := []struct {
		column       string
		notNull      bool
		defaultValue string
		isNull       bool
		onUpdate     string
	}{
		{column: "id", notNull: true},
		{column: "a", defaultValue: "NULL", isNull: true},
		{column: "b", defaultValue: "'x'"},
		{column: "ts", notNull: true},
		{column: "ts_null", defaultValue: "NULL", isNull: true},
		{column: "g"},
		{column: "u1", defaultValue: "CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP", onUpdate: "CURRENT_TIMESTAMP"},
		{column: "u2", defaultValue: "CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP", onUpdate: "CURRENT_TIMESTAMP"},
		{column: "u3", defaultValue: "ON UPDATE CURRENT_TIMESTAMP(3)", onUpdate: "CURRENT_TIMESTAMP(3)"},
		{column: "u4", defaultValue: "NULL", isNull: true},
		{column: "u5", defaultValue: "CURRENT_TIMESTAMP(6)"},
		{column: "u6", defaultValue: "'ON UPDATE x'"},
		{column: "u7", defaultValue: "'ſſ ON UPDATE' ON UPDATE CURRENT_TIMESTAMP", onUpdate: "CURRENT_TIMESTAMP"},
		{column: "u8", defaultValue: "CURRENT_TIMESTAMP(3) ON UPDATE CURRENT_TIMESTAMP(3)", onUpdate: "CURRENT_TIMESTAMP(3)"},
		{column: "u9", defaultValue: "ON UPDATE CURRENT_TIMESTAMP", onUpdate: "CURRENT_TIMESTAMP"},
	}
	for _, tt := range tests {
		t.Run(tt.column, func(t *testing.T) {
			col := mustColumn(t, catalog, table, tt.column)
			assert.Equal(t, tt.notNull, col.NotNull, "not null")
			assert.Equal(t, tt.defaultValue, col.DefaultValue, "default")
			assert.Equal(t, tt.isNull, col.DefaultValueIsNull, "default is null")
			assert.Equal(t, tt.onUpdate, col.OnUpdate, "on update")
		})
	}

	g := mustColumn(t, catalog, table, "g")
	assert.True(t, g.Generated)
	assert.Equal(t, "id + 1", g.GenerationExpression)
	assert.Equal(t, "VIRTUAL", g.GeneratedStorage)
}

func TestColumnTypes(t *testing.T) {
	catalog, _ := build(t, `
CREATE TABLE t (
  a BOOL,
  b SERIAL,
  c NATIONAL VARCHAR(20),
  d DOUBLE PRECISION(8,3) UNSIGNED ZEROFILL,
  e FLOAT(7),
  f DECIMAL(10),
  g ENUM('x','y'),
  h VARCHAR(10) CHARACTER SET latin1 COLLATE latin1_bin,
  i LONG VARBINARY,
  j DATETIME(6),
  k INTEGER(11)
)`)
	table := mustTable(t, catalog, "default", "t")

	tests := []struct {
		column    string
		typeName  string
		length    string
		precision string
		scale     string
		params    string
		flags     []string
		charset   string
		collation string
	}{
		{column: "a", typeName: "TINYINT", length: "1"},
		{column: "b", typeName: "BIGINT", flags: []string{"UNSIGNED"}},
		{column: "c", typeName: "VARCHAR", length: "20", charset: "utf8"},
		{column: "d", typeName: "DOUBLE", precision: "8", scale: "3", flags: []string{"UNSIGNED", "ZEROFILL"}},
		{column: "e", typeName: "FLOAT", precision: "7"},
		{column: "f", typeName: "DECIMAL", precision: "10"},
		{column: "g", typeName: "ENUM", params: "('x','y')"},
		{column: "h", typeName: "VARCHAR", length: "10", charset: "latin1", collation: "latin1_bin"},
		{column: "i", typeName: "MEDIUMBLOB"},
		{column: "j", typeName: "DATETIME", precision: "6"},
		{column: "k", typeName: "INT", length: "11"},
	}
	for _, tt := range tests {
		t.Run(tt.column, func(t *testing.T) {
			col := mustColumn(t, catalog, table, tt.column)
			require.NotNil(t, col.Type)
			assert.Equal(t, tt.typeName, col.Type.Name)
			assert.Equal(t, tt.typeName, col.TypeName)
			assert.Equal(t, tt.length, col.Length, "length")
			assert.Equal(t, tt.precision, col.Precision, "precision")
			assert.Equal(t, tt.scale, col.Scale, "scale")
			assert.Equal(t, tt.params, col.ExplicitParams, "params")
			assert.Equal(t, tt.flags, col.Flags, "flags")
			assert.Equal(t, tt.charset, col.Charset, "charset")
			assert.Equal(t, tt.collation, col.Collation, "collation")
		})
	}
}

func TestSerialColumn(t *testing.T) {
	catalog, _ := build(t, "CREATE TABLE t (id SERIAL, n INT SERIAL DEFAULT VALUE)")
	table := mustTable(t, catalog, "default", "t")

	for _, name := range []string{"id", "n"} {
		col := mustColumn(t, catalog, table, name)
		assert.True(t, col.NotNull, name)
		assert.True(t, col.AutoIncrement, name)
		assert.Empty(t, col.DefaultValue, name)

		idx := catalog.LookupIndex(table, name)
		require.NotNil(t, idx, name)
		assert.Equal(t, IndexUnique, idx.Kind)
		assert.Equal(t, col.ID, idx.Columns[0].Column)
	}
}

func TestUnknownAndVersionedTypes(t *testing.T) {
	b := NewBuilder(NewCatalog(DefaultOptions()), DefaultOptions())
	_, err := b.Apply(&parser.CreateTable{
		Table: parser.Ident{"t"},
		Elements: []parser.TableElement{
			&parser.ColumnDef{Name: parser.Ident{"w"}, Type: &parser.DataType{Names: []string{"widget"}, Length: "3"}},
		},
	})
	require.NoError(t, err)
	table := mustTable(t, b.Catalog(), "default", "t")
	col := mustColumn(t, b.Catalog(), table, "w")
	assert.Nil(t, col.Type)
	assert.Equal(t, "WIDGET", col.TypeName)
	assert.Equal(t, "3", col.Length)

	opts := DefaultOptions()
	opts.Version = 50700
	opts.Charsets = nil
	catalog, _ := buildWith(t, opts, "CREATE TABLE j (doc JSON)")
	doc := mustColumn(t, catalog, mustTable(t, catalog, "default", "j"), "doc")
	assert.Nil(t, doc.Type)
	assert.Equal(t, "JSON", doc.TypeName)

	opts.Version = 50708
	catalog, _ = buildWith(t, opts, "CREATE TABLE j (doc JSON)")
	doc = mustColumn(t, catalog, mustTable(t, catalog, "default", "j"), "doc")
	require.NotNil(t, doc.Type)
	assert.Equal(t, GroupJSON, doc.Type.Group)
}

func TestColumnCharsets(t *testing.T) {
	catalog, _ := build(t, `
CREATE TABLE t (
  a VARCHAR(5),
  b VARCHAR(5) COLLATE utf8mb4_bin,
  c VARCHAR(5) COLLATE latin1_swedish_ci,
  d VARCHAR(5) CHARACTER SET utf8mb4 COLLATE latin1_bin,
  e VARCHAR(5) CHARACTER SET utf8mb3,
  f NCHAR(2) COLLATE utf8_bin
) DEFAULT CHARSET=latin1`)
	table := mustTable(t, catalog, "default", "t")
	assert.Equal(t, "latin1", table.Charset)
	assert.Empty(t, table.Collation)

	tests := []struct {
		column    string
		charset   string
		collation string
	}{
		{column: "a"},
		{column: "b", charset: "utf8mb4", collation: "utf8mb4_bin"},
		{column: "c", charset: "latin1"},
		{column: "d", charset: "utf8mb4"},
		{column: "e", charset: "utf8"},
		{column: "f", charset: "utf8", collation: "utf8_bin"},
	}
	for _, tt := range tests {
		t.Run(tt.column, func(t *testing.T) {
			col := mustColumn(t, catalog, table, tt.column)
			assert.Equal(t, tt.charset, col.Charset)
			assert.Equal(t, tt.collation, col.Collation)
		})
	}
}

func TestColumnAttributes(t *testing.T) {
	catalog, _ := build(t, `
CREATE TABLE t (
  a INT COMMENT 'the a' INVISIBLE AUTO_INCREMENT KEY,
  g POINT NOT NULL SRID 4326,
  c INT CHECK (c > 0) COLUMN_FORMAT FIXED
)`)
	table := mustTable(t, catalog, "default", "t")

	a := mustColumn(t, catalog, table, "a")
	assert.Equal(t, "the a", a.Comment)
	assert.True(t, a.Invisible)
	assert.True(t, a.AutoIncrement)
	assert.True(t, a.NotNull)
	assert.Equal(t, table.PrimaryKey, catalog.LookupIndex(table, "PRIMARY").ID)

	assert.Equal(t, "4326", mustColumn(t, catalog, table, "g").SRID)
	assert.Equal(t, "NULL", mustColumn(t, catalog, table, "c").DefaultValue)
}

func TestDuplicateColumnIgnored(t *testing.T) {
	catalog, _ := build(t, "CREATE TABLE t (a INT, A VARCHAR(3))")
	table := mustTable(t, catalog, "default", "t")
	assert.Equal(t, []string{"a"}, columnNames(catalog, table))
	assert.Equal(t, "INT", mustColumn(t, catalog, table, "a").TypeName)
}
