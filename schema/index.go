package schema

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/sqldef/sqlcatalog/parser"
)

var indexKinds = map[parser.ConstraintKind]IndexKind{
	parser.ConstraintIndex:    IndexPlain,
	parser.ConstraintPrimary:  IndexPrimary,
	parser.ConstraintUnique:   IndexUnique,
	parser.ConstraintFulltext: IndexFulltext,
	parser.ConstraintSpatial:  IndexSpatial,
}

// addConstraint applies a table-level constraint or index clause.
func (b *Builder) addConstraint(table *Table, c *parser.Constraint) {
	switch c.Kind {
	case parser.ConstraintCheck:
		slog.Debug("CHECK constraint is not modeled", "table", b.catalog.QualifiedName(table))
	case parser.ConstraintForeign:
		b.addConstraintForeignKey(table, c)
	default:
		name := b.idents.Last(c.IndexName)
		if name == "" {
			name = b.idents.Last(c.Symbol)
		}
		b.addIndex(table, indexKinds[c.Kind], name, b.keyList(c.Keys), c.Options)
	}
}

// keyList converts the key parts of an index. Column links are left to
// resolution since the columns may be defined later in the statement.
func (b *Builder) keyList(parts []parser.KeyPart) []IndexColumn {
	columns := make([]IndexColumn, 0, len(parts))
	for _, part := range parts {
		columns = append(columns, IndexColumn{
			Name:       b.idents.Last(part.Column),
			Length:     part.Length,
			Expression: part.Expr,
			Descending: strings.EqualFold(part.Direction, "DESC"),
		})
	}
	return columns
}

// addIndex adds an index to the table and records the reference that links
// its key columns. A second primary key replaces the first.
func (b *Builder) addIndex(table *Table, kind IndexKind, name string, columns []IndexColumn, options []parser.IndexOption) *Index {
	if kind == IndexPrimary {
		name = primaryKeyIndexName
		if table.PrimaryKey.Valid() {
			slog.Warn("Primary key redefined", "table", b.catalog.QualifiedName(table))
			b.catalog.removeIndex(table, table.PrimaryKey)
		}
	} else {
		name = b.indexName(table, name, columns)
	}

	idx := &Index{Name: name, Kind: kind, Columns: columns}
	applyIndexOptions(idx, options)
	b.catalog.addIndex(table, idx)

	ref := DbObjectReference{Kind: RefIndex, Table: table.ID, Index: idx.ID}
	for _, col := range columns {
		if col.Expression == "" {
			ref.Columns = append(ref.Columns, col.Name)
		}
	}
	b.push(ref)
	return idx
}

// indexName returns the explicit name, or derives one from the first key
// part with a numeric suffix on collision, e.g. email, email_2.
func (b *Builder) indexName(table *Table, explicit string, columns []IndexColumn) string {
	if explicit != "" {
		return explicit
	}
	base := functionalIndexName
	if len(columns) > 0 && columns[0].Expression == "" {
		base = columns[0].Name
	}
	name := base
	for n := 2; b.catalog.LookupIndex(table, name) != nil; n++ {
		name = fmt.Sprintf("%s_%d", base, n)
	}
	return name
}

func applyIndexOptions(idx *Index, options []parser.IndexOption) {
	for _, opt := range options {
		switch opt.Kind {
		case parser.IndexOptionType:
			idx.IndexType = strings.ToUpper(opt.Value)
		case parser.IndexOptionKeyBlockSize:
			idx.KeyBlockSize = opt.Value
		case parser.IndexOptionComment:
			idx.Comment = opt.Value
		case parser.IndexOptionParser:
			idx.Parser = opt.Value
		case parser.IndexOptionVisible:
			idx.Invisible = false
		case parser.IndexOptionInvisible:
			idx.Invisible = true
		case parser.IndexOptionAlgorithm:
			idx.Algorithm = strings.ToUpper(opt.Value)
		case parser.IndexOptionLock:
			idx.Lock = strings.ToUpper(opt.Value)
		}
	}
}

// addConstraintForeignKey adds a FOREIGN KEY clause. The constraint symbol
// names the key, then the index name, then the automatic name.
func (b *Builder) addConstraintForeignKey(table *Table, c *parser.Constraint) {
	name := b.idents.Last(c.Symbol)
	if name == "" {
		name = b.idents.Last(c.IndexName)
	}
	fk := &ForeignKey{Name: b.foreignKeyName(table, name)}
	ref := DbObjectReference{Kind: RefReferencing, Table: table.ID}
	for _, part := range c.Keys {
		if part.Expr != "" {
			continue
		}
		colName := b.idents.Last(part.Column)
		fk.Columns = append(fk.Columns, ColumnRef{Name: colName})
		ref.Columns = append(ref.Columns, colName)
	}
	b.catalog.addForeignKey(table, fk)
	ref.ForeignKey = fk.ID
	b.push(ref)

	if c.Reference == nil {
		slog.Warn("Foreign key without REFERENCES clause", "table", b.catalog.QualifiedName(table), "name", fk.Name)
		return
	}
	b.applyReference(table, fk, c.Reference)
}

// foreignKeyName returns name, or <table>_ibfk_<n> with the first unused n
// when name is empty and automatic names are enabled.
func (b *Builder) foreignKeyName(table *Table, name string) string {
	if name != "" || !b.opts.AutoForeignKeyNames {
		return name
	}
	for n := 1; ; n++ {
		name = fmt.Sprintf("%s%s%d", table.Name, autoForeignKeyInfix, n)
		if b.catalog.LookupForeignKey(table, name) == nil {
			return name
		}
	}
}

// applyReference fills the target of a foreign key from its REFERENCES
// clause and records the reference to the target table. An unqualified
// target is in the schema of the referencing table.
func (b *Builder) applyReference(table *Table, fk *ForeignKey, ref *parser.Reference) {
	owner := b.catalog.Schema(table.Schema).Name
	schemaName, tableName, ok := b.idents.Qualified(ref.Table, owner)
	if !ok {
		slog.Warn("Malformed foreign key target", "table", b.catalog.QualifiedName(table), "target", strings.Join(ref.Table, "."))
		return
	}
	fk.ReferencedSchema = schemaName
	fk.ReferencedTableName = tableName
	fk.Match = strings.ToUpper(ref.Match)
	fk.OnDelete = strings.ToUpper(ref.OnDelete)
	fk.OnUpdate = strings.ToUpper(ref.OnUpdate)

	pending := DbObjectReference{
		Kind:         RefReferenced,
		Table:        table.ID,
		ForeignKey:   fk.ID,
		TargetSchema: schemaName,
		TargetTable:  tableName,
	}
	for _, col := range ref.Columns {
		name := b.idents.Last(col)
		fk.ReferencedColumns = append(fk.ReferencedColumns, ColumnRef{Name: name})
		pending.Columns = append(pending.Columns, name)
	}
	b.push(pending)
}

// finishTable marks the primary key columns NOT NULL and drops the implicit
// NULL default they were given.
func (b *Builder) finishTable(table *Table) {
	pk := b.catalog.Index(table.PrimaryKey)
	if pk == nil {
		return
	}
	for _, key := range pk.Columns {
		if key.Expression != "" {
			continue
		}
		col := b.catalog.LookupColumn(table, key.Name)
		if col == nil {
			continue
		}
		col.NotNull = true
		if col.DefaultValueIsNull {
			col.DefaultValue = ""
			col.DefaultValueIsNull = false
		}
	}
}
