package schema

import (
	"log/slog"
	"strings"

	"github.com/sqldef/sqlcatalog/parser"
)

// resolvedType is the outcome of resolving a DataType production.
type resolvedType struct {
	Type           *SimpleType
	Name           string
	Length         string
	Precision      string
	Scale          string
	ExplicitParams string
	Charset        string
	Collation      string
	Flags          []string
	Alias          TypeAlias
}

// resolveDataType maps a type production onto a simple type of the type
// library. Lengths and precisions are moved to the field the type stores
// them in. defaultCharset and defaultCollation stand in for the DEFAULT
// charset keyword.
func (b *Builder) resolveDataType(dt *parser.DataType, defaultCharset, defaultCollation string) resolvedType {
	name := strings.ToUpper(strings.Join(dt.Names, " "))
	rt := resolvedType{
		Name:      name,
		Length:    dt.Length,
		Precision: dt.Precision,
		Scale:     dt.Scale,
	}
	if aliases, ok := b.opts.Types.(aliasSource); ok {
		rt.Alias, _ = aliases.Alias(name)
	}

	rt.Type = b.opts.Types.Lookup(name, b.catalog.Version)
	if rt.Type == nil {
		slog.Warn("Unknown data type", "type", name, "version", b.catalog.Version)
	} else {
		rt.Name = rt.Type.Name
		rt.moveParameters(rt.Type.Format)
	}
	if rt.Length == "" && rt.Precision == "" {
		rt.Length = rt.Alias.Length
	}
	if len(dt.Params) > 0 {
		rt.ExplicitParams = "(" + strings.Join(dt.Params, ",") + ")"
	}

	for _, flag := range dt.Flags {
		rt.Flags = addFlag(rt.Flags, strings.ToUpper(flag))
	}
	if rt.Alias.Serial {
		rt.Flags = addFlag(rt.Flags, "UNSIGNED")
	}

	charset := dt.Charset
	if charset == "" && rt.Alias.National {
		charset = nationalCharsetName
	}
	if charset != "" || dt.Collate != "" {
		rt.Charset, rt.Collation = resolveCharset(b.charsets(), charset, dt.Collate, defaultCharset, defaultCollation)
	}
	return rt
}

// moveParameters reconciles the single "(n)" production and the "(p,s)"
// production of the grammar with what the type stores.
func (rt *resolvedType) moveParameters(format ParameterFormat) {
	switch format {
	case ParamLength:
		if rt.Length == "" && rt.Precision != "" {
			rt.Length = rt.Precision
		}
		rt.Precision, rt.Scale = "", ""
	case ParamPrecision:
		if rt.Precision == "" {
			rt.Precision = rt.Length
		}
		rt.Length, rt.Scale = "", ""
	case ParamPrecisionScale:
		if rt.Precision == "" {
			rt.Precision = rt.Length
		}
		rt.Length = ""
	}
}

// addFlag appends flag unless it is present already.
func addFlag(flags []string, flag string) []string {
	for _, f := range flags {
		if f == flag {
			return flags
		}
	}
	return append(flags, flag)
}
