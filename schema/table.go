package schema

import (
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/sqldef/sqlcatalog/parser"
)

func (b *Builder) createTable(stmt *parser.CreateTable) Result {
	result := Result{Kind: "CREATE TABLE"}
	schema, name, ok := b.resolveName(stmt.Table)
	if !ok {
		result.Skipped = true
		return result
	}
	result.Name = qualify(schema.Name, name)

	table := b.catalog.findTable(schema, name)
	switch {
	case table == nil:
		table = b.catalog.ensureTable(schema, name)
		table.IsStub = false
	case table.IsStub:
		// Indexes, foreign keys and triggers attached by earlier statements
		// stay; the definition owns the columns.
		table.IsStub = false
		table.Columns = nil
	case stmt.IfNotExists:
		result.IgnoreIfExists = true
		return result
	default:
		slog.Warn("Table redefined, previous definition replaced", "table", result.Name)
		b.resetTable(table)
	}
	table.Temporary = stmt.Temporary

	if !stmt.Like.IsEmpty() {
		b.copyTableLike(table, stmt.Like)
		return result
	}

	b.applyTableOptions(table, stmt.Options)
	for _, element := range stmt.Elements {
		switch element := element.(type) {
		case *parser.ColumnDef:
			b.buildColumn(table, element)
		case *parser.Constraint:
			b.addConstraint(table, element)
		}
	}
	if stmt.Partition != nil {
		table.Partitioning = b.buildPartitioning(table, stmt.Partition)
	}
	if stmt.AsSelect != "" {
		slog.Warn("Columns of CREATE TABLE ... SELECT are not modeled", "table", result.Name)
	}
	b.finishTable(table)
	return result
}

// resetTable empties a table for redefinition. Its ID stays valid for
// everything that points at it; pending references it owns are dropped.
func (b *Builder) resetTable(table *Table) {
	*table = Table{ID: table.ID, Schema: table.Schema, Name: table.Name}
	b.refs = slices.DeleteFunc(b.refs, func(ref DbObjectReference) bool {
		return ref.Table == table.ID && ref.Kind != RefTable
	})
}

// copyTableLike implements CREATE TABLE ... LIKE: columns, indexes, options
// and partitioning are copied; foreign keys and triggers are not. Indexes and
// foreign keys already attached to a stub table are kept after the copy.
func (b *Builder) copyTableLike(table *Table, like parser.Ident) {
	c := b.catalog
	schemaName, name, ok := b.idents.Qualified(like, b.currentSchema)
	src := c.LookupTable(schemaName, name)
	if !ok || src == nil || src.IsStub {
		slog.Warn("Source table of CREATE TABLE ... LIKE is not defined", "table", c.QualifiedName(table), "like", strings.Join(like, "."))
		return
	}

	id, schema, tableName, temporary := table.ID, table.Schema, table.Name, table.Temporary
	// A stub keeps what earlier statements attached to it.
	priorIndexes, priorPrimaryKey, priorForeignKeys := table.Indexes, table.PrimaryKey, table.ForeignKeys
	*table = *src
	table.ID, table.Schema, table.Name, table.IsStub, table.Temporary = id, schema, tableName, false, temporary
	table.Columns, table.Indexes, table.PrimaryKey, table.ForeignKeys = nil, nil, 0, nil
	table.UnionTables = slices.Clone(src.UnionTables)
	table.Partitioning = src.Partitioning.clone()

	for _, colID := range src.Columns {
		col := *c.Column(colID)
		col.Flags = slices.Clone(col.Flags)
		c.addColumn(table, &col)
	}
	for _, idxID := range src.Indexes {
		idx := *c.Index(idxID)
		idx.Columns = slices.Clone(idx.Columns)
		for i := range idx.Columns {
			idx.Columns[i].Column = 0
			if found := c.LookupColumn(table, idx.Columns[i].Name); found != nil && idx.Columns[i].Expression == "" {
				idx.Columns[i].Column = found.ID
			}
		}
		c.addIndex(table, &idx)
	}

	for _, idxID := range priorIndexes {
		idx := c.Index(idxID)
		if c.LookupIndex(table, idx.Name) != nil {
			slog.Warn("Index of the copied definition replaces an earlier index", "table", c.QualifiedName(table), "index", idx.Name)
			continue
		}
		table.Indexes = append(table.Indexes, idxID)
		if idxID == priorPrimaryKey {
			table.PrimaryKey = idxID
		}
	}
	table.ForeignKeys = priorForeignKeys
}

func (b *Builder) alterTable(stmt *parser.AlterTable) Result {
	result := Result{Kind: "ALTER TABLE"}
	schema, name, ok := b.resolveName(stmt.Table)
	if !ok {
		result.Skipped = true
		return result
	}
	result.Name = qualify(schema.Name, name)

	table := b.catalog.ensureTable(schema, name)
	if table.IsStub {
		slog.Debug("ALTER TABLE of undefined table, keeping a stub", "table", result.Name)
	}
	for _, action := range stmt.Actions {
		switch action := action.(type) {
		case *parser.AddColumns:
			for _, def := range action.Columns {
				added := len(table.Columns)
				col := b.buildColumn(table, def)
				if len(table.Columns) > added && (action.First || len(action.After) > 0) {
					b.placeColumn(table, col, action.First, action.After)
				}
			}
		case *parser.AddConstraint:
			b.addConstraint(table, action.Constraint)
		case *parser.AlterOptions:
			b.applyTableOptions(table, action.Options)
		case *parser.AlterPartition:
			table.Partitioning = b.buildPartitioning(table, action.Partition)
		case *parser.OtherAction:
			slog.Info("ALTER TABLE action not applied", "table", result.Name, "action", abbreviate(action.Text))
		}
	}
	b.finishTable(table)
	return result
}

func (b *Builder) createIndex(stmt *parser.CreateIndex) Result {
	result := Result{Kind: "CREATE INDEX"}
	schema, tableName, ok := b.resolveName(stmt.Table)
	name := b.idents.Last(stmt.Name)
	if !ok || name == "" {
		result.Skipped = true
		return result
	}
	result.Name = qualify(schema.Name, tableName) + "." + name

	table := b.catalog.ensureTable(schema, tableName)
	if existing := b.catalog.LookupIndex(table, name); existing != nil {
		if stmt.IfNotExists {
			result.IgnoreIfExists = true
			return result
		}
		slog.Warn("Index redefined, previous definition replaced", "index", result.Name)
		b.catalog.removeIndex(table, existing.ID)
	}
	kind, known := indexKinds[stmt.Kind]
	if !known {
		kind = IndexPlain
	}
	b.addIndex(table, kind, name, b.keyList(stmt.Keys), stmt.Options)
	b.finishTable(table)
	return result
}

// applyTableOptions sets the table options. CHARACTER SET and COLLATE are
// resolved together against the defaults of the schema.
func (b *Builder) applyTableOptions(table *Table, options []parser.Option) {
	var charset, collation string
	for _, opt := range options {
		switch opt.Kind {
		case parser.OptionEngine:
			table.Engine = opt.Value
		case parser.OptionCharset:
			charset = opt.Value
		case parser.OptionCollate:
			collation = opt.Value
		case parser.OptionComment:
			table.Comment = opt.Value
		case parser.OptionRowFormat:
			table.RowFormat = strings.ToUpper(opt.Value)
		case parser.OptionAutoIncrement:
			table.AutoIncrement = opt.Value
		case parser.OptionMaxRows:
			table.MaxRows = opt.Value
		case parser.OptionMinRows:
			table.MinRows = opt.Value
		case parser.OptionAvgRowLength:
			table.AvgRowLength = opt.Value
		case parser.OptionPackKeys:
			table.PackKeys = opt.Value
		case parser.OptionStatsPersistent:
			table.StatsPersistent = opt.Value
		case parser.OptionStatsAutoRecalc:
			table.StatsAutoRecalc = opt.Value
		case parser.OptionStatsSamplePages:
			table.StatsSamplePages = opt.Value
		case parser.OptionChecksum:
			table.Checksum = opt.Value
		case parser.OptionDelayKeyWrite:
			table.DelayKeyWrite = opt.Value
		case parser.OptionUnion:
			table.UnionTables = b.unionTables(opt.Tables)
		case parser.OptionInsertMethod:
			table.InsertMethod = strings.ToUpper(opt.Value)
		case parser.OptionKeyBlockSize:
			table.KeyBlockSize = opt.Value
		case parser.OptionTablespace:
			table.Tablespace = opt.Value
		case parser.OptionStorage:
			table.Storage = strings.ToUpper(opt.Value)
		case parser.OptionDataDirectory:
			table.DataDirectory = opt.Value
		case parser.OptionIndexDirectory:
			table.IndexDirectory = opt.Value
		case parser.OptionConnection:
			table.Connection = opt.Value
		case parser.OptionPassword:
			table.Password = opt.Value
		case parser.OptionCompression:
			table.Compression = opt.Value
		case parser.OptionEncryption:
			table.Encryption = opt.Value
		case parser.OptionAutoextendSize:
			table.AutoextendSize = opt.Value
		default:
			slog.Debug("Table option ignored", "table", b.catalog.QualifiedName(table), "option", opt.Kind)
		}
	}
	if charset != "" || collation != "" {
		defCharset, defCollation := b.schemaDefaults(b.catalog.Schema(table.Schema))
		table.Charset, table.Collation = resolveCharset(b.charsets(), charset, collation, defCharset, defCollation)
	}
}

// unionTables qualifies the MERGE table list with the current schema.
func (b *Builder) unionTables(ids []parser.Ident) []string {
	tables := make([]string, 0, len(ids))
	for _, id := range ids {
		schemaName, name, ok := b.idents.Qualified(id, b.currentSchema)
		if ok {
			tables = append(tables, qualify(schemaName, name))
		}
	}
	return tables
}

// schemaDefaults returns the effective charset and collation of a schema,
// falling back to the catalog's.
func (b *Builder) schemaDefaults(s *Schema) (string, string) {
	if s == nil || s.Charset == "" {
		return b.catalog.DefaultCharset, b.catalog.DefaultCollation
	}
	return s.Charset, b.collationOrDefault(s.Charset, s.Collation)
}

// tableDefaults returns the effective charset and collation of a table,
// falling back to its schema's.
func (b *Builder) tableDefaults(t *Table) (string, string) {
	if t.Charset == "" {
		return b.schemaDefaults(b.catalog.Schema(t.Schema))
	}
	return t.Charset, b.collationOrDefault(t.Charset, t.Collation)
}

func (b *Builder) collationOrDefault(charset, collation string) string {
	if collation != "" {
		return collation
	}
	return b.charsets().DefaultCollationForCharset(charset)
}

// buildPartitioning converts a PARTITION BY clause. Counts not given with
// PARTITIONS or SUBPARTITIONS are taken from the definitions; the
// subpartition count comes from the first partition.
// placeColumn moves the last added column col to the front or after the
// named column. An unknown AFTER column leaves it last.
func (b *Builder) placeColumn(table *Table, col *Column, first bool, after parser.Ident) {
	pos := 0
	if !first {
		target := b.catalog.LookupColumn(table, b.idents.Last(after))
		if target == nil || target.ID == col.ID {
			slog.Warn("AFTER names an unknown column, column added last", "table", b.catalog.QualifiedName(table), "column", col.Name, "after", strings.Join(b.idents.Parts(after), "."))
			return
		}
		pos = slices.Index(table.Columns, target.ID) + 1
	}
	columns := table.Columns[:len(table.Columns)-1]
	table.Columns = slices.Insert(slices.Clone(columns), pos, col.ID)
}

func (b *Builder) buildPartitioning(table *Table, p *parser.Partition) *Partitioning {
	part := &Partitioning{
		Type:       strings.ToUpper(p.Type),
		Linear:     p.Linear,
		UseColumns: p.UseColumns,
		Expression: p.Expr,
		Columns:    b.names(p.Columns),
		Algorithm:  p.Algorithm,
		Count:      partitionCount(table, p.Count, len(p.Definitions)),
	}
	for _, def := range p.Definitions {
		pd := PartitionDefinition{Name: b.idents.Last(def.Name), Values: def.Values}
		applyPartitionOptions(&pd, def.Options)
		for _, sub := range def.Subs {
			spd := PartitionDefinition{Name: b.idents.Last(sub.Name)}
			applyPartitionOptions(&spd, sub.Options)
			pd.SubPartitions = append(pd.SubPartitions, spd)
		}
		part.Definitions = append(part.Definitions, pd)
	}

	if p.Sub != nil {
		part.SubType = strings.ToUpper(p.Sub.Type)
		part.SubLinear = p.Sub.Linear
		part.SubExpression = p.Sub.Expr
		part.SubColumns = b.names(p.Sub.Columns)
		part.SubAlgorithm = p.Sub.Algorithm
		first := 0
		if len(p.Definitions) > 0 {
			first = len(p.Definitions[0].Subs)
		}
		part.SubCount = partitionCount(table, p.Sub.Count, first)
		for _, def := range p.Definitions {
			if len(def.Subs) > 0 && len(def.Subs) != part.SubCount {
				slog.Warn("Partitions define different numbers of subpartitions", "table", b.catalog.QualifiedName(table), "subpartitions", part.SubCount)
				break
			}
		}
	}
	return part
}

func partitionCount(table *Table, explicit string, defined int) int {
	if explicit == "" {
		return defined
	}
	n, err := strconv.Atoi(explicit)
	if err != nil {
		slog.Warn("Invalid partition count", "table", table.Name, "count", explicit)
		return defined
	}
	return n
}

func applyPartitionOptions(pd *PartitionDefinition, options []parser.Option) {
	for _, opt := range options {
		switch opt.Kind {
		case parser.OptionEngine, parser.OptionStorage:
			pd.Engine = opt.Value
		case parser.OptionComment:
			pd.Comment = opt.Value
		case parser.OptionDataDirectory:
			pd.DataDirectory = opt.Value
		case parser.OptionIndexDirectory:
			pd.IndexDirectory = opt.Value
		case parser.OptionMaxRows:
			pd.MaxRows = opt.Value
		case parser.OptionMinRows:
			pd.MinRows = opt.Value
		case parser.OptionTablespace:
			pd.Tablespace = opt.Value
		case parser.OptionNodegroup:
			pd.Nodegroup = opt.Value
		}
	}
}

func (b *Builder) names(ids []parser.Ident) []string {
	if len(ids) == 0 {
		return nil
	}
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		names = append(names, b.idents.Last(id))
	}
	return names
}

func (p *Partitioning) clone() *Partitioning {
	if p == nil {
		return nil
	}
	c := *p
	c.Columns = slices.Clone(p.Columns)
	c.SubColumns = slices.Clone(p.SubColumns)
	c.Definitions = slices.Clone(p.Definitions)
	for i := range c.Definitions {
		c.Definitions[i].SubPartitions = slices.Clone(c.Definitions[i].SubPartitions)
	}
	return &c
}
