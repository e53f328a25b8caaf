package schema

import (
	"fmt"
	"strings"

	"github.com/sqldef/sqlcatalog/util"
)

// quoteName backquotes an identifier, doubling backquotes inside it.
func quoteName(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

// quoteString renders a single-quoted string literal.
func quoteString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func quoteNames(names []string) string {
	return strings.Join(util.TransformSlice(names, quoteName), ",")
}

// ShowCreateTable renders a table the way SHOW CREATE TABLE lays it out:
// columns, then indexes with the primary key first, then foreign keys,
// then table options and partitioning.
func (c *Catalog) ShowCreateTable(table *Table) string {
	var b strings.Builder
	b.WriteString("CREATE ")
	if table.Temporary {
		b.WriteString("TEMPORARY ")
	}
	fmt.Fprintf(&b, "TABLE %s (\n", quoteName(table.Name))

	var lines []string
	for _, id := range table.Columns {
		lines = append(lines, c.columnDefinition(c.Column(id)))
	}
	if pk := c.Index(table.PrimaryKey); pk != nil {
		lines = append(lines, indexDefinition(pk))
	}
	for _, id := range table.Indexes {
		if id != table.PrimaryKey {
			lines = append(lines, indexDefinition(c.Index(id)))
		}
	}
	for _, id := range table.ForeignKeys {
		lines = append(lines, c.foreignKeyDefinition(table, c.ForeignKey(id)))
	}
	for i, line := range lines {
		b.WriteString("  ")
		b.WriteString(line)
		if i < len(lines)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString(")")

	if options := tableOptions(table); options != "" {
		b.WriteString(" ")
		b.WriteString(options)
	}
	if table.Partitioning != nil {
		b.WriteString("\n")
		b.WriteString(partitionClause(table.Partitioning))
	}
	return b.String()
}

// ColumnType renders the data type of a column, e.g. DECIMAL(10,2) UNSIGNED.
func (col *Column) ColumnType() string {
	typ := col.TypeName
	switch {
	case col.ExplicitParams != "":
		typ += col.ExplicitParams
	case col.Length != "":
		typ += "(" + col.Length + ")"
	case col.Precision != "" && col.Scale != "":
		typ += "(" + col.Precision + "," + col.Scale + ")"
	case col.Precision != "":
		typ += "(" + col.Precision + ")"
	}
	for _, flag := range col.Flags {
		typ += " " + flag
	}
	return typ
}

func (c *Catalog) columnDefinition(col *Column) string {
	var b strings.Builder
	b.WriteString(quoteName(col.Name))
	b.WriteString(" ")
	b.WriteString(col.ColumnType())
	if col.Charset != "" {
		b.WriteString(" CHARACTER SET " + col.Charset)
	}
	if col.Collation != "" {
		b.WriteString(" COLLATE " + col.Collation)
	}
	if col.Generated {
		fmt.Fprintf(&b, " GENERATED ALWAYS AS (%s) %s", col.GenerationExpression, col.GeneratedStorage)
	}
	switch {
	case col.NotNull:
		b.WriteString(" NOT NULL")
	case col.Type != nil && col.Type.Name == "TIMESTAMP":
		// TIMESTAMP columns are NOT NULL unless stated otherwise.
		b.WriteString(" NULL")
	}
	if col.SRID != "" {
		b.WriteString(" SRID " + col.SRID)
	}
	switch {
	case col.DefaultValue == "":
	case col.OnUpdate != "" && col.DefaultValue == onUpdatePrefix+col.OnUpdate:
		b.WriteString(" " + col.DefaultValue)
	default:
		b.WriteString(" DEFAULT " + col.DefaultValue)
	}
	if col.AutoIncrement {
		b.WriteString(" AUTO_INCREMENT")
	}
	if col.Invisible {
		b.WriteString(" INVISIBLE")
	}
	if col.Comment != "" {
		b.WriteString(" COMMENT " + quoteString(col.Comment))
	}
	return b.String()
}

func indexDefinition(idx *Index) string {
	var b strings.Builder
	switch idx.Kind {
	case IndexPrimary:
		b.WriteString("PRIMARY KEY")
	case IndexPlain:
		b.WriteString("KEY " + quoteName(idx.Name))
	default:
		b.WriteString(string(idx.Kind) + " KEY " + quoteName(idx.Name))
	}

	parts := make([]string, 0, len(idx.Columns))
	for _, col := range idx.Columns {
		var part string
		if col.Expression != "" {
			part = "(" + col.Expression + ")"
		} else {
			part = quoteName(col.Name)
			if col.Length != "" {
				part += "(" + col.Length + ")"
			}
		}
		if col.Descending {
			part += " DESC"
		}
		parts = append(parts, part)
	}
	b.WriteString(" (" + strings.Join(parts, ",") + ")")

	if idx.IndexType != "" {
		b.WriteString(" USING " + idx.IndexType)
	}
	if idx.KeyBlockSize != "" {
		b.WriteString(" KEY_BLOCK_SIZE=" + idx.KeyBlockSize)
	}
	if idx.Parser != "" {
		b.WriteString(" WITH PARSER " + idx.Parser)
	}
	if idx.Comment != "" {
		b.WriteString(" COMMENT " + quoteString(idx.Comment))
	}
	if idx.Invisible {
		b.WriteString(" INVISIBLE")
	}
	return b.String()
}

func (c *Catalog) foreignKeyDefinition(owner *Table, fk *ForeignKey) string {
	var b strings.Builder
	if fk.Name != "" {
		b.WriteString("CONSTRAINT " + quoteName(fk.Name) + " ")
	}
	columns := make([]string, len(fk.Columns))
	for i, col := range fk.Columns {
		columns[i] = col.Name
	}
	target := quoteName(fk.ReferencedTableName)
	if !c.idents.Equal(fk.ReferencedSchema, c.Schema(owner.Schema).Name) {
		target = quoteName(fk.ReferencedSchema) + "." + target
	}
	referenced := make([]string, len(fk.ReferencedColumns))
	for i, col := range fk.ReferencedColumns {
		referenced[i] = col.Name
	}
	fmt.Fprintf(&b, "FOREIGN KEY (%s) REFERENCES %s (%s)", quoteNames(columns), target, quoteNames(referenced))
	if fk.Match != "" {
		b.WriteString(" MATCH " + fk.Match)
	}
	if fk.OnDelete != "" {
		b.WriteString(" ON DELETE " + fk.OnDelete)
	}
	if fk.OnUpdate != "" {
		b.WriteString(" ON UPDATE " + fk.OnUpdate)
	}
	return b.String()
}

type tableOption struct {
	name   string
	value  string
	quoted bool
}

func tableOptions(t *Table) string {
	options := []tableOption{
		{name: "ENGINE", value: t.Engine},
		{name: "AUTO_INCREMENT", value: t.AutoIncrement},
		{name: "DEFAULT CHARSET", value: t.Charset},
		{name: "COLLATE", value: t.Collation},
		{name: "ROW_FORMAT", value: t.RowFormat},
		{name: "MAX_ROWS", value: t.MaxRows},
		{name: "MIN_ROWS", value: t.MinRows},
		{name: "AVG_ROW_LENGTH", value: t.AvgRowLength},
		{name: "PACK_KEYS", value: t.PackKeys},
		{name: "STATS_PERSISTENT", value: t.StatsPersistent},
		{name: "STATS_AUTO_RECALC", value: t.StatsAutoRecalc},
		{name: "STATS_SAMPLE_PAGES", value: t.StatsSamplePages},
		{name: "CHECKSUM", value: t.Checksum},
		{name: "DELAY_KEY_WRITE", value: t.DelayKeyWrite},
		{name: "INSERT_METHOD", value: t.InsertMethod},
		{name: "KEY_BLOCK_SIZE", value: t.KeyBlockSize},
		{name: "TABLESPACE", value: t.Tablespace},
		{name: "STORAGE", value: t.Storage},
		{name: "DATA DIRECTORY", value: t.DataDirectory, quoted: true},
		{name: "INDEX DIRECTORY", value: t.IndexDirectory, quoted: true},
		{name: "CONNECTION", value: t.Connection, quoted: true},
		{name: "PASSWORD", value: t.Password, quoted: true},
		{name: "COMPRESSION", value: t.Compression, quoted: true},
		{name: "ENCRYPTION", value: t.Encryption, quoted: true},
		{name: "AUTOEXTEND_SIZE", value: t.AutoextendSize},
		{name: "COMMENT", value: t.Comment, quoted: true},
	}

	var rendered []string
	for _, opt := range options {
		if opt.value == "" {
			continue
		}
		value := opt.value
		if opt.quoted {
			value = quoteString(value)
		}
		rendered = append(rendered, opt.name+"="+value)
	}
	if len(t.UnionTables) > 0 {
		tables := make([]string, len(t.UnionTables))
		for i, name := range t.UnionTables {
			schemaName, tableName, _ := strings.Cut(name, ".")
			tables[i] = quoteName(schemaName) + "." + quoteName(tableName)
		}
		rendered = append(rendered, "UNION=("+strings.Join(tables, ",")+")")
	}
	return strings.Join(rendered, " ")
}

func partitionMethod(linear bool, typ string, useColumns bool, algorithm string, columns []string, expr string) string {
	var b strings.Builder
	if linear {
		b.WriteString("LINEAR ")
	}
	b.WriteString(typ)
	if algorithm != "" {
		b.WriteString(" ALGORITHM=" + algorithm)
	}
	switch {
	case useColumns:
		b.WriteString(" COLUMNS(" + quoteNames(columns) + ")")
	case expr != "":
		b.WriteString(" (" + expr + ")")
	default:
		b.WriteString(" (" + quoteNames(columns) + ")")
	}
	return b.String()
}

func partitionClause(p *Partitioning) string {
	var b strings.Builder
	b.WriteString("PARTITION BY ")
	b.WriteString(partitionMethod(p.Linear, p.Type, p.UseColumns, p.Algorithm, p.Columns, p.Expression))
	if len(p.Definitions) == 0 && p.Count > 0 {
		fmt.Fprintf(&b, "\nPARTITIONS %d", p.Count)
	}
	if p.SubType != "" {
		b.WriteString("\nSUBPARTITION BY ")
		b.WriteString(partitionMethod(p.SubLinear, p.SubType, false, p.SubAlgorithm, p.SubColumns, p.SubExpression))
		if (len(p.Definitions) == 0 || len(p.Definitions[0].SubPartitions) == 0) && p.SubCount > 0 {
			fmt.Fprintf(&b, "\nSUBPARTITIONS %d", p.SubCount)
		}
	}
	if len(p.Definitions) == 0 {
		return b.String()
	}

	defs := make([]string, len(p.Definitions))
	for i, def := range p.Definitions {
		text := partitionDefinition("PARTITION", def)
		if len(def.SubPartitions) > 0 {
			subs := make([]string, len(def.SubPartitions))
			for j, sub := range def.SubPartitions {
				subs[j] = partitionDefinition("SUBPARTITION", sub)
			}
			text += "\n (" + strings.Join(subs, ",\n  ") + ")"
		}
		defs[i] = text
	}
	b.WriteString("\n(" + strings.Join(defs, ",\n ") + ")")
	return b.String()
}

func partitionDefinition(keyword string, def PartitionDefinition) string {
	var b strings.Builder
	b.WriteString(keyword + " " + quoteName(def.Name))
	if def.Values != "" {
		b.WriteString(" VALUES " + def.Values)
	}
	if def.Comment != "" {
		b.WriteString(" COMMENT = " + quoteString(def.Comment))
	}
	if def.DataDirectory != "" {
		b.WriteString(" DATA DIRECTORY = " + quoteString(def.DataDirectory))
	}
	if def.IndexDirectory != "" {
		b.WriteString(" INDEX DIRECTORY = " + quoteString(def.IndexDirectory))
	}
	if def.MaxRows != "" {
		b.WriteString(" MAX_ROWS = " + def.MaxRows)
	}
	if def.MinRows != "" {
		b.WriteString(" MIN_ROWS = " + def.MinRows)
	}
	if def.Tablespace != "" {
		b.WriteString(" TABLESPACE = " + def.Tablespace)
	}
	if def.Nodegroup != "" {
		b.WriteString(" NODEGROUP = " + def.Nodegroup)
	}
	if def.Engine != "" {
		b.WriteString(" ENGINE = " + def.Engine)
	}
	return b.String()
}
