package schema

import (
	"fmt"
	"log/slog"
	"strings"
)

type ReferenceKind int

const (
	// RefIndex links the key columns of an index to the columns of its
	// table.
	RefIndex ReferenceKind = iota
	// RefReferencing links the columns of a foreign key to its own table.
	RefReferencing
	// RefReferenced links a foreign key to its target table and columns.
	RefReferenced
	// RefTable links a view to a table it reads from.
	RefTable
)

var referenceKindNames = map[ReferenceKind]string{
	RefIndex:       "index",
	RefReferencing: "referencing",
	RefReferenced:  "referenced",
	RefTable:       "table",
}

func (k ReferenceKind) String() string {
	return referenceKindNames[k]
}

// DbObjectReference is a link from one catalog object to another by name,
// recorded while a statement is applied and resolved once the script is
// complete.
type DbObjectReference struct {
	Kind ReferenceKind

	// Table owns the index or foreign key.
	Table      TableID
	Index      IndexID
	ForeignKey ForeignKeyID
	View       ViewID

	// TargetSchema and TargetTable name the target of RefReferenced and
	// RefTable references. An empty TargetSchema means the owner's schema.
	TargetSchema string
	TargetTable  string
	Columns      []string
}

// Resolve links every pending reference and clears the pending list.
// Resolution never fails: a missing target becomes a stub and a missing
// column stays a name-only entry. The references that did not link
// completely are returned for reporting.
func (b *Builder) Resolve() []DbObjectReference {
	var unresolved []DbObjectReference
	for _, ref := range b.refs {
		if !b.resolve(ref) {
			unresolved = append(unresolved, ref)
		}
	}
	if len(unresolved) > 0 {
		slog.Warn("Unresolved references", "count", len(unresolved), "total", len(b.refs))
	}
	b.refs = nil
	return unresolved
}

func (b *Builder) resolve(ref DbObjectReference) bool {
	c := b.catalog
	switch ref.Kind {
	case RefIndex:
		idx := c.Index(ref.Index)
		table := c.Table(idx.Table)
		complete := true
		for i := range idx.Columns {
			col := &idx.Columns[i]
			if col.Expression != "" {
				continue
			}
			if found := c.LookupColumn(table, col.Name); found != nil {
				col.Column = found.ID
			} else {
				complete = false
			}
		}
		return complete
	case RefReferencing:
		fk := c.ForeignKey(ref.ForeignKey)
		return b.linkColumns(c.Table(fk.Table), fk.Columns)
	case RefReferenced:
		fk := c.ForeignKey(ref.ForeignKey)
		target := b.ensureTarget(c.Table(fk.Table), ref)
		fk.ReferencedTable = target.ID
		complete := b.linkColumns(target, fk.ReferencedColumns)
		return complete && !target.IsStub
	case RefTable:
		view := c.View(ref.View)
		target := b.ensureTarget(nil, ref)
		for _, id := range view.Tables {
			if id == target.ID {
				return !target.IsStub
			}
		}
		view.Tables = append(view.Tables, target.ID)
		return !target.IsStub
	}
	return false
}

// ensureTarget returns the target table of a reference, creating stub
// schema and table when they are absent. An unqualified target is looked up
// in the schema of owner, or of the referencing view.
func (b *Builder) ensureTarget(owner *Table, ref DbObjectReference) *Table {
	c := b.catalog
	schemaName := ref.TargetSchema
	if schemaName == "" {
		switch {
		case owner != nil:
			schemaName = c.Schema(owner.Schema).Name
		case ref.View.Valid():
			schemaName = c.Schema(c.View(ref.View).Schema).Name
		default:
			schemaName = b.opts.DefaultSchema
		}
	}
	schema := c.ensureSchema(schemaName)
	table := c.ensureTable(schema, ref.TargetTable)
	if table.IsStub {
		slog.Debug("Reference to undefined table", "table", qualify(schemaName, ref.TargetTable), "kind", ref.Kind)
	}
	return table
}

func (b *Builder) linkColumns(table *Table, refs []ColumnRef) bool {
	complete := true
	for i := range refs {
		if found := b.catalog.LookupColumn(table, refs[i].Name); found != nil {
			refs[i].Column = found.ID
		} else {
			complete = false
		}
	}
	return complete
}

// DescribeReference renders a reference for warnings, e.g.
// "referenced: shop.orders.fk_customer -> shop.customers(id)".
func (c *Catalog) DescribeReference(ref DbObjectReference) string {
	var owner string
	switch {
	case ref.Index.Valid():
		idx := c.Index(ref.Index)
		owner = c.QualifiedName(c.Table(idx.Table)) + "." + idx.Name
	case ref.ForeignKey.Valid():
		fk := c.ForeignKey(ref.ForeignKey)
		owner = c.QualifiedName(c.Table(fk.Table)) + "." + fk.Name
	case ref.View.Valid():
		view := c.View(ref.View)
		owner = qualify(c.Schema(view.Schema).Name, view.Name)
	}

	target := qualify(ref.TargetSchema, ref.TargetTable)
	if target == "" && ref.Table.Valid() {
		target = c.QualifiedName(c.Table(ref.Table))
	}
	if len(ref.Columns) > 0 {
		target += "(" + strings.Join(ref.Columns, ", ") + ")"
	}
	return fmt.Sprintf("%s: %s -> %s", ref.Kind, owner, target)
}
