// Package parser holds the syntax tree of MySQL data-definition statements
// as consumed by the catalog builder, together with a scanner, a statement
// splitter and a grammar for the statement kinds that the upstream MySQL
// grammar does not cover.
//
// Every grammar production the builder understands is a distinct Go type.
// Statements, table elements, column attributes and ALTER TABLE actions are
// closed sets: each is an interface with an unexported marker method, so a
// type switch over them lists every case the builder handles.
package parser

// Statement is the syntax tree of one DDL statement.
type Statement interface {
	iStatement()
}

func (*CreateSchema) iStatement()       {}
func (*AlterSchema) iStatement()        {}
func (*CreateTable) iStatement()        {}
func (*AlterTable) iStatement()         {}
func (*CreateIndex) iStatement()        {}
func (*CreateView) iStatement()         {}
func (*AlterView) iStatement()          {}
func (*CreateTrigger) iStatement()      {}
func (*CreateRoutine) iStatement()      {}
func (*AlterRoutine) iStatement()       {}
func (*CreateEvent) iStatement()        {}
func (*AlterEvent) iStatement()         {}
func (*CreateServer) iStatement()       {}
func (*AlterServer) iStatement()        {}
func (*CreateTablespace) iStatement()   {}
func (*AlterTablespace) iStatement()    {}
func (*CreateLogfileGroup) iStatement() {}
func (*AlterLogfileGroup) iStatement()  {}

// Ident is an identifier as written in the source, split at the dots of a
// qualified name. Each part keeps its quotes, e.g. {"`db`", "t1"}.
type Ident []string

// NewIdent builds an Ident from its parts.
func NewIdent(parts ...string) Ident {
	return Ident(parts)
}

// IsEmpty reports whether the identifier has no parts.
func (id Ident) IsEmpty() bool {
	return len(id) == 0
}

type CreateSchema struct {
	Name        Ident
	IfNotExists bool
	Options     []Option
}

// AlterSchema with an empty Name targets the default schema.
type AlterSchema struct {
	Name    Ident
	Options []Option
}

type CreateTable struct {
	Table       Ident
	Temporary   bool
	IfNotExists bool
	// Like is set for CREATE TABLE ... LIKE other.
	Like      Ident
	Elements  []TableElement
	Options   []Option
	Partition *Partition
	// AsSelect holds the query of CREATE TABLE ... SELECT, whose result
	// columns are not modeled.
	AsSelect string
}

// TableElement is one entry of a CREATE TABLE element list.
type TableElement interface {
	iTableElement()
}

func (*ColumnDef) iTableElement()  {}
func (*Constraint) iTableElement() {}

type ColumnDef struct {
	// Name is a plain identifier, or a qualified name (schema.table.column)
	// in grammars before 8.0.
	Name       Ident
	Type       *DataType
	Generated  *GeneratedColumn
	Attributes []ColumnAttribute
}

// DataType is the type production of a column definition.
type DataType struct {
	// Names holds up to three keyword tokens forming the type name, e.g.
	// {"NATIONAL", "CHARACTER", "VARYING"}.
	Names []string
	// Length is the single "(n)" field length.
	Length string
	// Precision and Scale come from the "(p[,s])" production.
	Precision string
	Scale     string
	// Params holds ENUM/SET values as written, quotes included.
	Params  []string
	Charset string
	Collate string
	// Flags holds UNSIGNED, SIGNED, ZEROFILL, BINARY, ASCII, UNICODE and BYTE.
	Flags []string
}

type GeneratedColumn struct {
	Expr   string
	Stored bool
}

// ColumnAttribute is one attribute of a column definition. The grammar
// accepts attributes in any order and any number of times.
type ColumnAttribute interface {
	iColumnAttribute()
}

func (*NullAttr) iColumnAttribute()               {}
func (*DefaultAttr) iColumnAttribute()            {}
func (*OnUpdateAttr) iColumnAttribute()           {}
func (*AutoIncrementAttr) iColumnAttribute()      {}
func (*UniqueAttr) iColumnAttribute()             {}
func (*SerialDefaultValueAttr) iColumnAttribute() {}
func (*PrimaryKeyAttr) iColumnAttribute()         {}
func (*CommentAttr) iColumnAttribute()            {}
func (*ColumnFormatAttr) iColumnAttribute()       {}
func (*StorageAttr) iColumnAttribute()            {}
func (*ReferencesAttr) iColumnAttribute()         {}
func (*CollateAttr) iColumnAttribute()            {}
func (*CheckAttr) iColumnAttribute()              {}
func (*VisibilityAttr) iColumnAttribute()         {}
func (*SRIDAttr) iColumnAttribute()               {}

// NullAttr is NULL, or NOT NULL when Not is set.
type NullAttr struct {
	Not bool
}

type DefaultAttr struct {
	Value DefaultValue
}

type DefaultKind int

const (
	// DefaultLiteral is a literal as written: 'abc', -1, NULL, b'01'.
	DefaultLiteral DefaultKind = iota
	// DefaultNow is NOW() or one of its synonyms.
	DefaultNow
	// DefaultExpr is a parenthesized expression.
	DefaultExpr
)

type DefaultValue struct {
	Kind DefaultKind
	Text string
	// Precision is the fractional seconds precision of a DefaultNow value.
	Precision string
}

// OnUpdateAttr is ON UPDATE CURRENT_TIMESTAMP[(Precision)].
type OnUpdateAttr struct {
	Precision string
}

type AutoIncrementAttr struct{}

type UniqueAttr struct{}

type SerialDefaultValueAttr struct{}

// PrimaryKeyAttr is PRIMARY KEY, or KEY on its own.
type PrimaryKeyAttr struct{}

type CommentAttr struct {
	Text string
}

type ColumnFormatAttr struct {
	Format string
}

type StorageAttr struct {
	Media string
}

type ReferencesAttr struct {
	Reference *Reference
}

type CollateAttr struct {
	Name string
}

type CheckAttr struct {
	Expr string
}

type VisibilityAttr struct {
	Visible bool
}

type SRIDAttr struct {
	Value string
}

// Reference is the REFERENCES clause of a foreign key.
type Reference struct {
	Table    Ident
	Columns  []Ident
	Match    string
	OnDelete string
	OnUpdate string
}

type ConstraintKind int

const (
	ConstraintIndex ConstraintKind = iota
	ConstraintPrimary
	ConstraintUnique
	ConstraintFulltext
	ConstraintSpatial
	ConstraintForeign
	ConstraintCheck
)

var constraintKindNames = map[ConstraintKind]string{
	ConstraintIndex:    "INDEX",
	ConstraintPrimary:  "PRIMARY",
	ConstraintUnique:   "UNIQUE",
	ConstraintFulltext: "FULLTEXT",
	ConstraintSpatial:  "SPATIAL",
	ConstraintForeign:  "FOREIGN",
	ConstraintCheck:    "CHECK",
}

func (k ConstraintKind) String() string {
	return constraintKindNames[k]
}

// Constraint is a table-level constraint or index clause.
type Constraint struct {
	Kind ConstraintKind
	// Symbol is the name given by CONSTRAINT <symbol>.
	Symbol    Ident
	IndexName Ident
	Keys      []KeyPart
	Options   []IndexOption
	Reference *Reference
	Check     string
}

// KeyPart is one entry of an index key list: either a column with optional
// prefix length, or a parenthesized expression.
type KeyPart struct {
	Column    Ident
	Length    string
	Expr      string
	Direction string
}

type IndexOptionKind int

const (
	IndexOptionType IndexOptionKind = iota
	IndexOptionKeyBlockSize
	IndexOptionComment
	IndexOptionParser
	IndexOptionVisible
	IndexOptionInvisible
	IndexOptionAlgorithm
	IndexOptionLock
)

type IndexOption struct {
	Kind  IndexOptionKind
	Value string
}

type CreateIndex struct {
	Name        Ident
	Table       Ident
	Kind        ConstraintKind
	Keys        []KeyPart
	Options     []IndexOption
	IfNotExists bool
}

type AlterTable struct {
	Table   Ident
	Actions []AlterAction
}

// AlterAction is one action of an ALTER TABLE statement.
type AlterAction interface {
	iAlterAction()
}

func (*AddColumns) iAlterAction()     {}
func (*AddConstraint) iAlterAction()  {}
func (*AlterOptions) iAlterAction()   {}
func (*AlterPartition) iAlterAction() {}
func (*OtherAction) iAlterAction()    {}

type AddColumns struct {
	Columns []*ColumnDef
	// First and After place a single added column.
	First bool
	After Ident
}

type AddConstraint struct {
	Constraint *Constraint
}

type AlterOptions struct {
	Options []Option
}

type AlterPartition struct {
	Partition *Partition
}

// OtherAction is an ALTER TABLE action that does not add to the table
// definition, such as DROP or RENAME. Text is the action as written.
type OtherAction struct {
	Text string
}

type OptionKind int

const (
	OptionEngine OptionKind = iota
	OptionCharset
	OptionCollate
	OptionComment
	OptionRowFormat
	OptionAutoIncrement
	OptionMaxRows
	OptionMinRows
	OptionAvgRowLength
	OptionPackKeys
	OptionStatsPersistent
	OptionStatsAutoRecalc
	OptionStatsSamplePages
	OptionChecksum
	OptionDelayKeyWrite
	OptionUnion
	OptionInsertMethod
	OptionKeyBlockSize
	OptionTablespace
	OptionStorage
	OptionDataDirectory
	OptionIndexDirectory
	OptionConnection
	OptionPassword
	OptionCompression
	OptionEncryption
	OptionNodegroup
	OptionInitialSize
	OptionExtentSize
	OptionAutoextendSize
	OptionMaxSize
	OptionFileBlockSize
	OptionUndoBufferSize
	OptionRedoBufferSize
	OptionWait
)

// Option is a named option of a schema, table, partition, tablespace or
// logfile group. String values are unquoted by the producer.
type Option struct {
	Kind  OptionKind
	Value string
	// Default is set when the value was the DEFAULT keyword.
	Default bool
	// Tables holds the UNION=(...) table list.
	Tables []Ident
}

type Partition struct {
	// Type is HASH, KEY, RANGE or LIST.
	Type   string
	Linear bool
	// UseColumns is set for RANGE COLUMNS and LIST COLUMNS.
	UseColumns bool
	Columns    []Ident
	Expr       string
	// Algorithm is the KEY ALGORITHM value.
	Algorithm   string
	Count       string
	Sub         *SubPartition
	Definitions []*PartitionDef
}

type SubPartition struct {
	Type      string
	Linear    bool
	Columns   []Ident
	Expr      string
	Algorithm string
	Count     string
}

type PartitionDef struct {
	Name Ident
	// Values is "LESS THAN (...)", "LESS THAN MAXVALUE" or "IN (...)".
	Values  string
	Options []Option
	Subs    []*SubPartitionDef
}

type SubPartitionDef struct {
	Name    Ident
	Options []Option
}

type CreateView struct {
	Name        Ident
	OrReplace   bool
	Algorithm   string
	Definer     string
	Security    string
	CheckOption string
	Columns     []Ident
	Definition  string
	// Tables lists the tables the definition reads from.
	Tables []Ident
}

// AlterView has the shape of CreateView and replaces the definition.
type AlterView CreateView

type CreateTrigger struct {
	Name        Ident
	Definer     string
	IfNotExists bool
	// Timing is BEFORE or AFTER.
	Timing string
	// Event is INSERT, UPDATE or DELETE.
	Event string
	Table Ident
	// Order is FOLLOWS or PRECEDES, naming OtherTrigger.
	Order        string
	OtherTrigger Ident
	Body         string
}

type RoutineKind int

const (
	RoutineProcedure RoutineKind = iota
	RoutineFunction
	// RoutineUDF is a loadable function: CREATE FUNCTION ... SONAME.
	RoutineUDF
)

var routineKindNames = map[RoutineKind]string{
	RoutineProcedure: "PROCEDURE",
	RoutineFunction:  "FUNCTION",
	RoutineUDF:       "UDF",
}

func (k RoutineKind) String() string {
	return routineKindNames[k]
}

type CreateRoutine struct {
	Kind        RoutineKind
	Name        Ident
	Definer     string
	IfNotExists bool
	Params      []RoutineParam
	// Returns is the RETURNS type as written.
	Returns         string
	Characteristics []Characteristic
	Body            string
	Aggregate       bool
	SOName          string
}

type RoutineParam struct {
	// Mode is IN, OUT or INOUT; empty for functions.
	Mode string
	Name Ident
	Type string
}

type CharacteristicKind int

const (
	CharacteristicComment CharacteristicKind = iota
	CharacteristicLanguage
	CharacteristicDeterministic
	CharacteristicNotDeterministic
	CharacteristicDataAccess
	CharacteristicSecurity
)

type Characteristic struct {
	Kind  CharacteristicKind
	Value string
}

type AlterRoutine struct {
	Kind            RoutineKind
	Name            Ident
	Characteristics []Characteristic
}

type EventSchedule struct {
	// At is set for one-time events.
	At string
	// Every and Unit are set for recurring events.
	Every  string
	Unit   string
	Starts string
	Ends   string
}

type CreateEvent struct {
	Name        Ident
	Definer     string
	IfNotExists bool
	Schedule    *EventSchedule
	Preserve    bool
	// Status is ENABLE, DISABLE or DISABLE ON SLAVE.
	Status  string
	Comment string
	Body    string
}

// AlterEvent changes only the clauses that are present.
type AlterEvent struct {
	Name     Ident
	Definer  string
	Schedule *EventSchedule
	Preserve *bool
	RenameTo Ident
	Status   string
	Comment  *string
	Body     string
}

type ServerOption struct {
	Name  string
	Value string
}

type CreateServer struct {
	Name    Ident
	Wrapper string
	Options []ServerOption
}

type AlterServer struct {
	Name    Ident
	Options []ServerOption
}

type CreateTablespace struct {
	Name         Ident
	Undo         bool
	IfNotExists  bool
	DataFile     string
	LogfileGroup Ident
	Options      []Option
}

type AlterTablespace struct {
	Name         Ident
	AddDataFile  string
	DropDataFile string
	RenameTo     Ident
	Options      []Option
}

type CreateLogfileGroup struct {
	Name     Ident
	UndoFile string
	Options  []Option
}

type AlterLogfileGroup struct {
	Name     Ident
	UndoFile string
	Options  []Option
}
