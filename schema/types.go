package schema

import "strings"

// ParameterFormat tells which of length, precision and scale a type stores.
type ParameterFormat int

const (
	ParamNone ParameterFormat = iota
	// ParamLength types store a single maximum length, e.g. VARCHAR(50).
	ParamLength
	// ParamPrecision types store a precision only, e.g. the fractional
	// seconds of DATETIME(6).
	ParamPrecision
	// ParamPrecisionScale types store precision and scale, e.g. DECIMAL(10,2).
	ParamPrecisionScale
	// ParamList types store an explicit value list, e.g. ENUM('a','b').
	ParamList
)

type TypeGroup string

const (
	GroupNumeric  TypeGroup = "numeric"
	GroupString   TypeGroup = "string"
	GroupText     TypeGroup = "text"
	GroupBlob     TypeGroup = "blob"
	GroupDateTime TypeGroup = "datetime"
	GroupGeometry TypeGroup = "geometry"
	GroupJSON     TypeGroup = "json"
	GroupUserList TypeGroup = "userlist"
)

// SimpleType is a canonical server data type.
type SimpleType struct {
	Name   string
	Group  TypeGroup
	Format ParameterFormat
	// MinVersion is the first server version that knows the type, 0 for all.
	MinVersion int
}

// HasCharset reports whether columns of the type carry a character set.
func (t *SimpleType) HasCharset() bool {
	return t.Group == GroupString || t.Group == GroupText || t.Group == GroupUserList
}

// TypeLookup resolves a type name, as composed from up to three keywords,
// for a server version. It returns nil for names the version does not know.
type TypeLookup interface {
	Lookup(name string, version int) *SimpleType
}

// TypeAlias maps a synonym to its canonical type, optionally implying type
// attributes.
type TypeAlias struct {
	Type string
	// National marks NCHAR and friends, which default to the utf8 charset.
	National bool
	// Length is implied when the column gives none, e.g. BOOL is TINYINT(1).
	Length string
	// Serial marks SERIAL: BIGINT UNSIGNED NOT NULL AUTO_INCREMENT UNIQUE.
	Serial bool
}

// TypeLibrary is a TypeLookup over a fixed set of types and aliases.
type TypeLibrary struct {
	types   map[string]*SimpleType
	aliases map[string]TypeAlias
}

func NewTypeLibrary(types []*SimpleType, aliases map[string]TypeAlias) *TypeLibrary {
	lib := &TypeLibrary{types: map[string]*SimpleType{}, aliases: map[string]TypeAlias{}}
	for _, t := range types {
		lib.types[t.Name] = t
	}
	for name, alias := range aliases {
		lib.aliases[name] = alias
	}
	return lib
}

func (l *TypeLibrary) Lookup(name string, version int) *SimpleType {
	name = strings.ToUpper(name)
	if alias, ok := l.aliases[name]; ok {
		name = alias.Type
	}
	t, ok := l.types[name]
	if !ok || (t.MinVersion > 0 && version > 0 && version < t.MinVersion) {
		return nil
	}
	return t
}

// Alias returns the alias entry for a type name, if there is one.
func (l *TypeLibrary) Alias(name string) (TypeAlias, bool) {
	alias, ok := l.aliases[strings.ToUpper(name)]
	return alias, ok
}

// aliasSource is implemented by lookups that know about type synonyms.
type aliasSource interface {
	Alias(name string) (TypeAlias, bool)
}

var defaultTypes = []*SimpleType{
	{Name: "TINYINT", Group: GroupNumeric, Format: ParamLength},
	{Name: "SMALLINT", Group: GroupNumeric, Format: ParamLength},
	{Name: "MEDIUMINT", Group: GroupNumeric, Format: ParamLength},
	{Name: "INT", Group: GroupNumeric, Format: ParamLength},
	{Name: "BIGINT", Group: GroupNumeric, Format: ParamLength},
	{Name: "DECIMAL", Group: GroupNumeric, Format: ParamPrecisionScale},
	{Name: "FLOAT", Group: GroupNumeric, Format: ParamPrecisionScale},
	{Name: "DOUBLE", Group: GroupNumeric, Format: ParamPrecisionScale},
	{Name: "BIT", Group: GroupNumeric, Format: ParamLength},

	{Name: "DATE", Group: GroupDateTime, Format: ParamNone},
	{Name: "DATETIME", Group: GroupDateTime, Format: ParamPrecision},
	{Name: "TIMESTAMP", Group: GroupDateTime, Format: ParamPrecision},
	{Name: "TIME", Group: GroupDateTime, Format: ParamPrecision},
	{Name: "YEAR", Group: GroupDateTime, Format: ParamLength},

	{Name: "CHAR", Group: GroupString, Format: ParamLength},
	{Name: "VARCHAR", Group: GroupString, Format: ParamLength},
	{Name: "BINARY", Group: GroupBlob, Format: ParamLength},
	{Name: "VARBINARY", Group: GroupBlob, Format: ParamLength},

	{Name: "TINYTEXT", Group: GroupText, Format: ParamNone},
	{Name: "TEXT", Group: GroupText, Format: ParamLength},
	{Name: "MEDIUMTEXT", Group: GroupText, Format: ParamNone},
	{Name: "LONGTEXT", Group: GroupText, Format: ParamNone},
	{Name: "TINYBLOB", Group: GroupBlob, Format: ParamNone},
	{Name: "BLOB", Group: GroupBlob, Format: ParamLength},
	{Name: "MEDIUMBLOB", Group: GroupBlob, Format: ParamNone},
	{Name: "LONGBLOB", Group: GroupBlob, Format: ParamNone},

	{Name: "JSON", Group: GroupJSON, Format: ParamNone, MinVersion: 50708},

	{Name: "GEOMETRY", Group: GroupGeometry, Format: ParamNone},
	{Name: "POINT", Group: GroupGeometry, Format: ParamNone},
	{Name: "LINESTRING", Group: GroupGeometry, Format: ParamNone},
	{Name: "POLYGON", Group: GroupGeometry, Format: ParamNone},
	{Name: "GEOMETRYCOLLECTION", Group: GroupGeometry, Format: ParamNone},
	{Name: "MULTIPOINT", Group: GroupGeometry, Format: ParamNone},
	{Name: "MULTILINESTRING", Group: GroupGeometry, Format: ParamNone},
	{Name: "MULTIPOLYGON", Group: GroupGeometry, Format: ParamNone},

	{Name: "ENUM", Group: GroupUserList, Format: ParamList},
	{Name: "SET", Group: GroupUserList, Format: ParamList},
}

var defaultAliases = map[string]TypeAlias{
	"INT1":      {Type: "TINYINT"},
	"INT2":      {Type: "SMALLINT"},
	"INT3":      {Type: "MEDIUMINT"},
	"MIDDLEINT": {Type: "MEDIUMINT"},
	"INT4":      {Type: "INT"},
	"INTEGER":   {Type: "INT"},
	"INT8":      {Type: "BIGINT"},
	"BOOL":      {Type: "TINYINT", Length: "1"},
	"BOOLEAN":   {Type: "TINYINT", Length: "1"},
	"SERIAL":    {Type: "BIGINT", Serial: true},

	"DEC":              {Type: "DECIMAL"},
	"NUMERIC":          {Type: "DECIMAL"},
	"FIXED":            {Type: "DECIMAL"},
	"FLOAT4":           {Type: "FLOAT"},
	"FLOAT8":           {Type: "DOUBLE"},
	"REAL":             {Type: "DOUBLE"},
	"DOUBLE PRECISION": {Type: "DOUBLE"},

	"CHARACTER":         {Type: "CHAR"},
	"CHAR VARYING":      {Type: "VARCHAR"},
	"CHARACTER VARYING": {Type: "VARCHAR"},
	"VARCHARACTER":      {Type: "VARCHAR"},

	"NCHAR":                      {Type: "CHAR", National: true},
	"NATIONAL CHAR":              {Type: "CHAR", National: true},
	"NATIONAL CHARACTER":         {Type: "CHAR", National: true},
	"NVARCHAR":                   {Type: "VARCHAR", National: true},
	"NCHAR VARCHAR":              {Type: "VARCHAR", National: true},
	"NCHAR VARYING":              {Type: "VARCHAR", National: true},
	"NATIONAL VARCHAR":           {Type: "VARCHAR", National: true},
	"NATIONAL VARCHARACTER":      {Type: "VARCHAR", National: true},
	"NATIONAL CHAR VARYING":      {Type: "VARCHAR", National: true},
	"NATIONAL CHARACTER VARYING": {Type: "VARCHAR", National: true},

	"LONG":              {Type: "MEDIUMTEXT"},
	"LONG VARCHAR":      {Type: "MEDIUMTEXT"},
	"LONG CHAR VARYING": {Type: "MEDIUMTEXT"},
	"LONG VARBINARY":    {Type: "MEDIUMBLOB"},
}

// DefaultTypes returns the type library of the MySQL server.
func DefaultTypes() *TypeLibrary {
	return NewTypeLibrary(defaultTypes, defaultAliases)
}
