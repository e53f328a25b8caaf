package schema

import (
	"log/slog"
	"strings"

	"github.com/sqldef/sqlcatalog/parser"
)

// columnState tracks what the attribute list of one column definition
// stated explicitly, which decides the implicit defaults applied after it.
type columnState struct {
	explicitNull    bool
	explicitDefault bool

	// defaultValue is the DEFAULT text alone; onUpdate is the ON UPDATE
	// value, e.g. CURRENT_TIMESTAMP(3). Both are combined by finishColumn.
	hasDefault   bool
	defaultValue string
	onUpdate     string
}

// buildColumn adds a column definition to the table. Attributes may come in
// any order; the result does not depend on it.
func (b *Builder) buildColumn(table *Table, def *parser.ColumnDef) *Column {
	name := b.idents.Last(def.Name)
	if existing := b.catalog.LookupColumn(table, name); existing != nil {
		slog.Warn("Duplicate column ignored", "table", b.catalog.QualifiedName(table), "column", name)
		return existing
	}

	defCharset, defCollation := b.tableDefaults(table)
	rt := b.resolveDataType(def.Type, defCharset, defCollation)
	col := b.catalog.addColumn(table, &Column{
		Name:           name,
		Type:           rt.Type,
		TypeName:       rt.Name,
		Length:         rt.Length,
		Precision:      rt.Precision,
		Scale:          rt.Scale,
		ExplicitParams: rt.ExplicitParams,
		Flags:          rt.Flags,
		Charset:        rt.Charset,
		Collation:      rt.Collation,
	})

	var state columnState
	if rt.Alias.Serial {
		b.makeSerial(table, col, &state)
	}
	if def.Generated != nil {
		col.Generated = true
		col.GenerationExpression = def.Generated.Expr
		col.GeneratedStorage = "VIRTUAL"
		if def.Generated.Stored {
			col.GeneratedStorage = "STORED"
		}
	}

	for _, attr := range def.Attributes {
		switch attr := attr.(type) {
		case *parser.NullAttr:
			col.NotNull = attr.Not
			state.explicitNull = true
		case *parser.DefaultAttr:
			state.setDefault(defaultText(attr.Value))
		case *parser.OnUpdateAttr:
			state.setOnUpdate(attr.Precision)
		case *parser.AutoIncrementAttr:
			col.AutoIncrement = true
		case *parser.SerialDefaultValueAttr:
			b.makeSerial(table, col, &state)
		case *parser.UniqueAttr:
			b.addColumnIndex(table, col, IndexUnique)
		case *parser.PrimaryKeyAttr:
			b.addColumnIndex(table, col, IndexPrimary)
		case *parser.CommentAttr:
			col.Comment = attr.Text
		case *parser.ReferencesAttr:
			b.addInlineReference(table, col, attr.Reference)
		case *parser.CollateAttr:
			col.Charset, col.Collation = resolveCharset(b.charsets(), col.Charset, attr.Name, defCharset, defCollation)
		case *parser.VisibilityAttr:
			col.Invisible = !attr.Visible
		case *parser.SRIDAttr:
			col.SRID = attr.Value
		case *parser.ColumnFormatAttr, *parser.StorageAttr, *parser.CheckAttr:
			// Not part of the column model.
		}
	}

	b.finishColumn(col, state)
	return col
}

// finishColumn applies the implicit server defaults once all attributes
// are known.
func (b *Builder) finishColumn(col *Column, state columnState) {
	col.OnUpdate = state.onUpdate
	switch {
	case state.hasDefault && state.onUpdate != "":
		col.DefaultValue = state.defaultValue + " " + onUpdatePrefix + state.onUpdate
	case state.hasDefault:
		col.DefaultValue = state.defaultValue
		col.DefaultValueIsNull = strings.EqualFold(state.defaultValue, "NULL")
	case state.onUpdate != "":
		col.DefaultValue = onUpdatePrefix + state.onUpdate
	}
	if !state.explicitNull && col.Type != nil && col.Type.Name == "TIMESTAMP" {
		col.NotNull = true
	}
	if !state.explicitDefault && !col.NotNull && !col.Generated {
		col.DefaultValue = "NULL"
		col.DefaultValueIsNull = true
	}
}

// makeSerial applies SERIAL and SERIAL DEFAULT VALUE: NOT NULL
// AUTO_INCREMENT UNIQUE.
func (b *Builder) makeSerial(table *Table, col *Column, state *columnState) {
	col.NotNull = true
	col.AutoIncrement = true
	state.explicitNull = true
	b.addColumnIndex(table, col, IndexUnique)
}

// addColumnIndex creates the index of a column-level UNIQUE or PRIMARY KEY
// attribute.
func (b *Builder) addColumnIndex(table *Table, col *Column, kind IndexKind) {
	columns := []IndexColumn{{Name: col.Name}}
	if kind == IndexPrimary {
		col.NotNull = true
	}
	b.addIndex(table, kind, "", columns, nil)
}

// addInlineReference creates the foreign key of a column-level REFERENCES
// clause. The referencing column is known already and linked at once.
func (b *Builder) addInlineReference(table *Table, col *Column, ref *parser.Reference) {
	fk := b.catalog.addForeignKey(table, &ForeignKey{
		Name:    b.foreignKeyName(table, ""),
		Columns: []ColumnRef{{Name: col.Name, Column: col.ID}},
	})
	b.applyReference(table, fk, ref)
}

func defaultText(v parser.DefaultValue) string {
	if v.Kind == parser.DefaultNow {
		return currentTimestamp(v.Precision)
	}
	return v.Text
}

func currentTimestamp(precision string) string {
	if precision == "" {
		return currentTimestampText
	}
	return currentTimestampText + "(" + precision + ")"
}

// setDefault records the DEFAULT value. An ON UPDATE clause stated earlier
// in the same definition is kept.
func (s *columnState) setDefault(text string) {
	s.hasDefault = true
	s.defaultValue = text
	s.explicitDefault = true
}

// setOnUpdate records ON UPDATE CURRENT_TIMESTAMP. It follows a
// CURRENT_TIMESTAMP default and replaces any other default.
func (s *columnState) setOnUpdate(precision string) {
	s.onUpdate = currentTimestamp(precision)
	s.explicitDefault = true
	if !hasPrefixFold(s.defaultValue, currentTimestampText) {
		s.hasDefault = false
		s.defaultValue = ""
	}
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}
