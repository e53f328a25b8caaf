package schema

// ID addresses an entity of type T inside a Catalog. IDs are 1-based; the
// zero ID refers to nothing.
type ID[T any] int32

// Valid reports whether the ID refers to an entity.
func (id ID[T]) Valid() bool {
	return id > 0
}

type (
	SchemaID       = ID[Schema]
	TableID        = ID[Table]
	ColumnID       = ID[Column]
	IndexID        = ID[Index]
	ForeignKeyID   = ID[ForeignKey]
	ViewID         = ID[View]
	RoutineID      = ID[Routine]
	TriggerID      = ID[Trigger]
	EventID        = ID[Event]
	ServerID       = ID[Server]
	TablespaceID   = ID[Tablespace]
	LogfileGroupID = ID[LogfileGroup]
)

type arena[T any] struct {
	items []*T
}

func (a *arena[T]) add(item *T) ID[T] {
	a.items = append(a.items, item)
	return ID[T](len(a.items))
}

func (a *arena[T]) get(id ID[T]) *T {
	if id <= 0 || int(id) > len(a.items) {
		return nil
	}
	return a.items[id-1]
}

// Catalog is the root of all objects built from one or more DDL scripts.
// Entities live in per-kind arenas and refer to each other by ID, so a stub
// can be filled in later without invalidating the IDs that point at it.
//
// A Catalog is not safe for concurrent use.
type Catalog struct {
	Version          int
	CaseSensitive    bool
	DefaultCharset   string
	DefaultCollation string

	// Schemas, Servers, Tablespaces and LogfileGroups are owned by the
	// catalog itself, in creation order.
	Schemas       []SchemaID
	Servers       []ServerID
	Tablespaces   []TablespaceID
	LogfileGroups []LogfileGroupID

	schemas       arena[Schema]
	tables        arena[Table]
	columns       arena[Column]
	indexes       arena[Index]
	foreignKeys   arena[ForeignKey]
	views         arena[View]
	routines      arena[Routine]
	triggers      arena[Trigger]
	events        arena[Event]
	servers       arena[Server]
	tablespaces   arena[Tablespace]
	logfileGroups arena[LogfileGroup]

	idents IdentifierResolver
}

func NewCatalog(opts Options) *Catalog {
	opts = opts.withDefaults()
	return &Catalog{
		Version:          opts.Version,
		CaseSensitive:    opts.CaseSensitive,
		DefaultCharset:   opts.DefaultCharset,
		DefaultCollation: opts.DefaultCollation,
		idents:           IdentifierResolver{CaseSensitive: opts.CaseSensitive},
	}
}

type Schema struct {
	ID        SchemaID
	Name      string
	IsStub    bool
	Charset   string
	Collation string
	// Encryption is the ENCRYPTION option, 'Y' or 'N'.
	Encryption string

	Tables   []TableID
	Views    []ViewID
	Routines []RoutineID
	Triggers []TriggerID
	Events   []EventID
}

type Table struct {
	ID     TableID
	Schema SchemaID
	Name   string
	IsStub bool

	Temporary   bool
	Columns     []ColumnID
	Indexes     []IndexID
	PrimaryKey  IndexID
	ForeignKeys []ForeignKeyID

	Engine           string
	Charset          string
	Collation        string
	Comment          string
	RowFormat        string
	AutoIncrement    string
	MaxRows          string
	MinRows          string
	AvgRowLength     string
	PackKeys         string
	StatsPersistent  string
	StatsAutoRecalc  string
	StatsSamplePages string
	Checksum         string
	DelayKeyWrite    string
	// UnionTables lists the MERGE tables as schema.table.
	UnionTables    []string
	InsertMethod   string
	KeyBlockSize   string
	Tablespace     string
	Storage        string
	DataDirectory  string
	IndexDirectory string
	Connection     string
	Password       string
	Compression    string
	Encryption     string
	AutoextendSize string

	Partitioning *Partitioning
}

type Column struct {
	ID    ColumnID
	Table TableID
	Name  string

	// Type is nil when the type name is unknown to the type library;
	// TypeName then keeps the name as written.
	Type     *SimpleType
	TypeName string
	// Length, Precision and Scale are kept as written. Which of them is set
	// depends on the ParameterFormat of the type.
	Length    string
	Precision string
	Scale     string
	// ExplicitParams holds the ENUM/SET value list, e.g. ('a','b').
	ExplicitParams string
	Flags          []string
	Charset        string
	Collation      string

	NotNull bool
	// DefaultValue holds the DEFAULT text followed by any ON UPDATE clause,
	// e.g. CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP(3). Without a
	// DEFAULT it holds the ON UPDATE clause alone.
	DefaultValue       string
	DefaultValueIsNull bool
	// OnUpdate is the ON UPDATE value, e.g. CURRENT_TIMESTAMP(3).
	OnUpdate      string
	AutoIncrement bool

	Generated            bool
	GenerationExpression string
	// GeneratedStorage is VIRTUAL or STORED.
	GeneratedStorage string

	Comment   string
	Invisible bool
	SRID      string
}

// HasFlag reports whether the column carries the type flag, e.g. UNSIGNED.
func (c *Column) HasFlag(flag string) bool {
	for _, f := range c.Flags {
		if f == flag {
			return true
		}
	}
	return false
}

type IndexKind string

const (
	IndexPrimary  IndexKind = "PRIMARY"
	IndexUnique   IndexKind = "UNIQUE"
	IndexPlain    IndexKind = "INDEX"
	IndexFulltext IndexKind = "FULLTEXT"
	IndexSpatial  IndexKind = "SPATIAL"
)

type Index struct {
	ID      IndexID
	Table   TableID
	Name    string
	Kind    IndexKind
	Columns []IndexColumn

	// IndexType is BTREE, HASH or RTREE when given with USING.
	IndexType    string
	KeyBlockSize string
	Comment      string
	Parser       string
	Invisible    bool
	Algorithm    string
	Lock         string
}

// IndexColumn is one key part of an index. Either Name or Expression is
// set. Column links the named column once references are resolved.
type IndexColumn struct {
	Name       string
	Column     ColumnID
	Length     string
	Expression string
	Descending bool
}

// ColumnRef is a column named by a foreign key. Column is zero until the
// name is resolved.
type ColumnRef struct {
	Name   string
	Column ColumnID
}

type ForeignKey struct {
	ID      ForeignKeyID
	Table   TableID
	Name    string
	Columns []ColumnRef

	// ReferencedSchema and ReferencedTableName are the target as written,
	// unquoted. ReferencedTable is set by resolution.
	ReferencedSchema    string
	ReferencedTableName string
	ReferencedTable     TableID
	ReferencedColumns   []ColumnRef

	Match    string
	OnDelete string
	OnUpdate string
}

type Partitioning struct {
	// Type is HASH, KEY, RANGE or LIST.
	Type       string
	Linear     bool
	UseColumns bool
	Expression string
	Columns    []string
	Algorithm  string
	Count      int

	SubType       string
	SubLinear     bool
	SubExpression string
	SubColumns    []string
	SubAlgorithm  string
	SubCount      int

	Definitions []PartitionDefinition
}

type PartitionDefinition struct {
	Name string
	// Values is LESS THAN (...), LESS THAN MAXVALUE or IN (...).
	Values         string
	Engine         string
	Comment        string
	DataDirectory  string
	IndexDirectory string
	MaxRows        string
	MinRows        string
	Tablespace     string
	Nodegroup      string

	SubPartitions []PartitionDefinition
}

type View struct {
	ID          ViewID
	Schema      SchemaID
	Name        string
	Definition  string
	Columns     []string
	OrReplace   bool
	Algorithm   string
	Definer     string
	Security    string
	CheckOption string
	// Tables lists the tables the definition reads from, once resolved.
	Tables []TableID
}

type RoutineParam struct {
	Mode string
	Name string
	Type string
}

type Routine struct {
	ID     RoutineID
	Schema SchemaID
	Name   string
	// Kind is PROCEDURE, FUNCTION or UDF.
	Kind          string
	Definer       string
	Params        []RoutineParam
	Returns       string
	Body          string
	Comment       string
	Language      string
	Deterministic bool
	DataAccess    string
	Security      string
	Aggregate     bool
	SOName        string
}

type Trigger struct {
	ID     TriggerID
	Schema SchemaID
	Name   string
	// Table is the table the trigger acts on. It does not own the trigger.
	Table        TableID
	Timing       string
	Event        string
	Order        string
	OtherTrigger string
	Definer      string
	Body         string
}

type Event struct {
	ID      EventID
	Schema  SchemaID
	Name    string
	Definer string

	At           string
	Interval     string
	IntervalUnit string
	Starts       string
	Ends         string

	Preserve bool
	// Status is ENABLE, DISABLE or DISABLE ON SLAVE.
	Status  string
	Comment string
	Body    string
}

type Server struct {
	ID       ServerID
	Name     string
	Wrapper  string
	Host     string
	Database string
	User     string
	Password string
	Socket   string
	Owner    string
	Port     string
}

// StorageOptions are the options shared by tablespaces and logfile groups.
type StorageOptions struct {
	Engine         string
	Comment        string
	InitialSize    string
	ExtentSize     string
	AutoextendSize string
	MaxSize        string
	FileBlockSize  string
	UndoBufferSize string
	RedoBufferSize string
	Nodegroup      string
	Encryption     string
	Wait           bool
}

type Tablespace struct {
	ID           TablespaceID
	Name         string
	Undo         bool
	DataFiles    []string
	LogfileGroup string
	StorageOptions
}

type LogfileGroup struct {
	ID        LogfileGroupID
	Name      string
	UndoFiles []string
	StorageOptions
}

func (c *Catalog) Schema(id SchemaID) *Schema                   { return c.schemas.get(id) }
func (c *Catalog) Table(id TableID) *Table                      { return c.tables.get(id) }
func (c *Catalog) Column(id ColumnID) *Column                   { return c.columns.get(id) }
func (c *Catalog) Index(id IndexID) *Index                      { return c.indexes.get(id) }
func (c *Catalog) ForeignKey(id ForeignKeyID) *ForeignKey       { return c.foreignKeys.get(id) }
func (c *Catalog) View(id ViewID) *View                         { return c.views.get(id) }
func (c *Catalog) Routine(id RoutineID) *Routine                { return c.routines.get(id) }
func (c *Catalog) Trigger(id TriggerID) *Trigger                { return c.triggers.get(id) }
func (c *Catalog) Event(id EventID) *Event                      { return c.events.get(id) }
func (c *Catalog) Server(id ServerID) *Server                   { return c.servers.get(id) }
func (c *Catalog) Tablespace(id TablespaceID) *Tablespace       { return c.tablespaces.get(id) }
func (c *Catalog) LogfileGroup(id LogfileGroupID) *LogfileGroup { return c.logfileGroups.get(id) }

// LookupSchema finds a schema by name under the catalog's case policy.
func (c *Catalog) LookupSchema(name string) *Schema {
	for _, id := range c.Schemas {
		if s := c.Schema(id); c.idents.Equal(s.Name, name) {
			return s
		}
	}
	return nil
}

// LookupTable finds a table by schema and table name.
func (c *Catalog) LookupTable(schemaName, tableName string) *Table {
	s := c.LookupSchema(schemaName)
	if s == nil {
		return nil
	}
	return c.findTable(s, tableName)
}

func (c *Catalog) LookupView(schemaName, viewName string) *View {
	s := c.LookupSchema(schemaName)
	if s == nil {
		return nil
	}
	return c.findView(s, viewName)
}

// LookupRoutine finds a routine by kind (PROCEDURE, FUNCTION or UDF) and
// name. Functions and loadable functions share one namespace.
func (c *Catalog) LookupRoutine(schemaName, kind, routineName string) *Routine {
	s := c.LookupSchema(schemaName)
	if s == nil {
		return nil
	}
	return c.findRoutine(s, kind, routineName)
}

func (c *Catalog) LookupTrigger(schemaName, triggerName string) *Trigger {
	s := c.LookupSchema(schemaName)
	if s == nil {
		return nil
	}
	return c.findTrigger(s, triggerName)
}

func (c *Catalog) LookupEvent(schemaName, eventName string) *Event {
	s := c.LookupSchema(schemaName)
	if s == nil {
		return nil
	}
	return c.findEvent(s, eventName)
}

func (c *Catalog) LookupServer(name string) *Server {
	for _, id := range c.Servers {
		// Server names are not case sensitive.
		if s := c.Server(id); c.idents.EqualFold(s.Name, name) {
			return s
		}
	}
	return nil
}

func (c *Catalog) LookupTablespace(name string) *Tablespace {
	for _, id := range c.Tablespaces {
		if ts := c.Tablespace(id); c.idents.Equal(ts.Name, name) {
			return ts
		}
	}
	return nil
}

func (c *Catalog) LookupLogfileGroup(name string) *LogfileGroup {
	for _, id := range c.LogfileGroups {
		if lg := c.LogfileGroup(id); c.idents.Equal(lg.Name, name) {
			return lg
		}
	}
	return nil
}

// LookupColumn finds a column of the table by name. Column names are never
// case sensitive.
func (c *Catalog) LookupColumn(table *Table, name string) *Column {
	for _, id := range table.Columns {
		if col := c.Column(id); c.idents.EqualFold(col.Name, name) {
			return col
		}
	}
	return nil
}

func (c *Catalog) LookupIndex(table *Table, name string) *Index {
	for _, id := range table.Indexes {
		if idx := c.Index(id); c.idents.EqualFold(idx.Name, name) {
			return idx
		}
	}
	return nil
}

func (c *Catalog) LookupForeignKey(table *Table, name string) *ForeignKey {
	for _, id := range table.ForeignKeys {
		if fk := c.ForeignKey(id); c.idents.EqualFold(fk.Name, name) {
			return fk
		}
	}
	return nil
}

// TriggersOf returns the triggers acting on the table.
func (c *Catalog) TriggersOf(table *Table) []*Trigger {
	var triggers []*Trigger
	for _, id := range c.Schema(table.Schema).Triggers {
		if trg := c.Trigger(id); trg.Table == table.ID {
			triggers = append(triggers, trg)
		}
	}
	return triggers
}

// QualifiedName returns schema.table.
func (c *Catalog) QualifiedName(table *Table) string {
	return c.Schema(table.Schema).Name + "." + table.Name
}

func (c *Catalog) findTable(s *Schema, name string) *Table {
	for _, id := range s.Tables {
		if t := c.Table(id); c.idents.Equal(t.Name, name) {
			return t
		}
	}
	return nil
}

func (c *Catalog) findView(s *Schema, name string) *View {
	for _, id := range s.Views {
		if v := c.View(id); c.idents.Equal(v.Name, name) {
			return v
		}
	}
	return nil
}

// findRoutine matches routine names without regard to case, as the server
// does.
func (c *Catalog) findRoutine(s *Schema, kind, name string) *Routine {
	for _, id := range s.Routines {
		r := c.Routine(id)
		if routineNamespace(r.Kind) == routineNamespace(kind) && c.idents.EqualFold(r.Name, name) {
			return r
		}
	}
	return nil
}

func routineNamespace(kind string) string {
	if kind == "PROCEDURE" {
		return kind
	}
	return "FUNCTION"
}

func (c *Catalog) findTrigger(s *Schema, name string) *Trigger {
	for _, id := range s.Triggers {
		if trg := c.Trigger(id); c.idents.Equal(trg.Name, name) {
			return trg
		}
	}
	return nil
}

func (c *Catalog) findEvent(s *Schema, name string) *Event {
	for _, id := range s.Events {
		if e := c.Event(id); c.idents.EqualFold(e.Name, name) {
			return e
		}
	}
	return nil
}

// ensureSchema returns the named schema, creating a stub when it is absent.
func (c *Catalog) ensureSchema(name string) *Schema {
	if s := c.LookupSchema(name); s != nil {
		return s
	}
	s := &Schema{Name: name, IsStub: true}
	s.ID = c.schemas.add(s)
	c.Schemas = append(c.Schemas, s.ID)
	return s
}

// ensureTable returns the named table, creating a stub when it is absent.
func (c *Catalog) ensureTable(s *Schema, name string) *Table {
	if t := c.findTable(s, name); t != nil {
		return t
	}
	t := &Table{Schema: s.ID, Name: name, IsStub: true}
	t.ID = c.tables.add(t)
	s.Tables = append(s.Tables, t.ID)
	return t
}

func (c *Catalog) addColumn(table *Table, col *Column) *Column {
	col.Table = table.ID
	col.ID = c.columns.add(col)
	table.Columns = append(table.Columns, col.ID)
	return col
}

func (c *Catalog) addIndex(table *Table, idx *Index) *Index {
	idx.Table = table.ID
	idx.ID = c.indexes.add(idx)
	table.Indexes = append(table.Indexes, idx.ID)
	if idx.Kind == IndexPrimary {
		table.PrimaryKey = idx.ID
	}
	return idx
}

func (c *Catalog) removeIndex(table *Table, id IndexID) {
	for i, existing := range table.Indexes {
		if existing == id {
			table.Indexes = append(table.Indexes[:i:i], table.Indexes[i+1:]...)
			break
		}
	}
	if table.PrimaryKey == id {
		table.PrimaryKey = 0
	}
}

func (c *Catalog) addForeignKey(table *Table, fk *ForeignKey) *ForeignKey {
	fk.Table = table.ID
	fk.ID = c.foreignKeys.add(fk)
	table.ForeignKeys = append(table.ForeignKeys, fk.ID)
	return fk
}
