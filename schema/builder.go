// Package schema builds a MySQL catalog from DDL syntax trees.
//
// A Builder walks one statement at a time, mutating the Catalog for every
// fact the statement states on its own and recording a DbObjectReference
// for every name that points at another object. Resolve links those
// references once the whole script has been applied, creating stub schemas
// and tables for targets that were never defined.
package schema

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sqldef/sqlcatalog/database"
	"github.com/sqldef/sqlcatalog/parser"
)

var (
	ErrNilStatement         = errors.New("nil statement")
	ErrUnsupportedStatement = errors.New("unsupported statement")
)

type Options struct {
	// Version is the server version as an integer, e.g. 80030.
	Version       int
	CaseSensitive bool
	// AutoForeignKeyNames names unnamed foreign keys <table>_ibfk_<n>.
	AutoForeignKeyNames bool
	// DefaultSchema holds unqualified names until a USE statement.
	DefaultSchema    string
	DefaultCharset   string
	DefaultCollation string

	Types    TypeLookup
	Charsets CharsetLookup
}

const (
	defaultVersion       = 80000
	defaultSchemaName    = "default"
	defaultCharsetName   = "utf8mb4"
	nationalCharsetName  = "utf8"
	autoForeignKeyInfix  = "_ibfk_"
	functionalIndexName  = "functional_index"
	primaryKeyIndexName  = "PRIMARY"
	onUpdatePrefix       = "ON UPDATE "
	currentTimestampText = "CURRENT_TIMESTAMP"
)

// DefaultOptions returns the options of a case-insensitive 8.0 server with
// foreign key auto-naming.
func DefaultOptions() Options {
	return Options{AutoForeignKeyNames: true}.withDefaults()
}

func (o Options) withDefaults() Options {
	if o.Version == 0 {
		o.Version = defaultVersion
	}
	if o.DefaultSchema == "" {
		o.DefaultSchema = defaultSchemaName
	}
	if o.Types == nil {
		o.Types = DefaultTypes()
	}
	if o.Charsets == nil {
		o.Charsets = DefaultCharsets(o.Version)
	}
	if o.DefaultCharset == "" {
		o.DefaultCharset = defaultCharsetName
	}
	if o.DefaultCollation == "" {
		o.DefaultCollation = o.Charsets.DefaultCollationForCharset(o.DefaultCharset)
	}
	return o
}

// OptionsFromConfig maps a loaded configuration onto builder options.
func OptionsFromConfig(config database.Config) Options {
	opts := Options{
		Version:             config.Version,
		CaseSensitive:       config.CaseSensitive,
		AutoForeignKeyNames: config.AutoForeignKeyNames == nil || *config.AutoForeignKeyNames,
		DefaultSchema:       config.DefaultSchema,
		DefaultCharset:      config.DefaultCharset,
		DefaultCollation:    config.DefaultCollation,
	}
	return opts.withDefaults()
}

// Result describes what one statement did to the catalog.
type Result struct {
	// Kind is the statement kind, e.g. "CREATE TABLE".
	Kind string
	// Name is the affected object, schema-qualified where it applies.
	Name string
	// IgnoreIfExists is set when IF NOT EXISTS named an existing object,
	// which was left unchanged.
	IgnoreIfExists bool
	Skipped        bool
}

// Builder applies statements to a Catalog. It keeps the references found
// so far until Resolve is called.
type Builder struct {
	catalog       *Catalog
	opts          Options
	idents        IdentifierResolver
	currentSchema string
	refs          []DbObjectReference
}

func NewBuilder(catalog *Catalog, opts Options) *Builder {
	opts = opts.withDefaults()
	return &Builder{
		catalog:       catalog,
		opts:          opts,
		idents:        catalog.idents,
		currentSchema: opts.DefaultSchema,
	}
}

func (b *Builder) Catalog() *Catalog {
	return b.catalog
}

// Apply applies one statement. Semantic problems such as unknown types or
// missing tables never fail a statement; they degrade to stubs and
// warnings. Apply only fails for a nil or unknown statement.
func (b *Builder) Apply(stmt parser.Statement) (Result, error) {
	switch stmt := stmt.(type) {
	case nil:
		return Result{Skipped: true}, ErrNilStatement
	case *parser.Use:
		return b.use(stmt), nil
	case *parser.CreateSchema:
		return b.createSchema(stmt), nil
	case *parser.AlterSchema:
		return b.alterSchema(stmt), nil
	case *parser.CreateTable:
		return b.createTable(stmt), nil
	case *parser.AlterTable:
		return b.alterTable(stmt), nil
	case *parser.CreateIndex:
		return b.createIndex(stmt), nil
	case *parser.CreateView:
		return b.createView(stmt, "CREATE VIEW"), nil
	case *parser.AlterView:
		return b.createView((*parser.CreateView)(stmt), "ALTER VIEW"), nil
	case *parser.CreateTrigger:
		return b.createTrigger(stmt), nil
	case *parser.CreateRoutine:
		return b.createRoutine(stmt), nil
	case *parser.AlterRoutine:
		return b.alterRoutine(stmt), nil
	case *parser.CreateEvent:
		return b.createEvent(stmt), nil
	case *parser.AlterEvent:
		return b.alterEvent(stmt), nil
	case *parser.CreateServer:
		return b.createServer(stmt), nil
	case *parser.AlterServer:
		return b.alterServer(stmt), nil
	case *parser.CreateTablespace:
		return b.createTablespace(stmt), nil
	case *parser.AlterTablespace:
		return b.alterTablespace(stmt), nil
	case *parser.CreateLogfileGroup:
		return b.createLogfileGroup(stmt), nil
	case *parser.AlterLogfileGroup:
		return b.alterLogfileGroup(stmt), nil
	default:
		return Result{Skipped: true}, fmt.Errorf("%w: %T", ErrUnsupportedStatement, stmt)
	}
}

// ApplyAll applies the statements in order, checking ctx between them. A
// statement that failed to parse carries a nil tree and is skipped. The
// references found are left pending for Resolve.
func (b *Builder) ApplyAll(ctx context.Context, stmts []database.DDLStatement) ([]Result, error) {
	results := make([]Result, 0, len(stmts))
	for _, stmt := range stmts {
		if err := ctx.Err(); err != nil {
			return results, fmt.Errorf("stopped after %d of %d statements: %w", len(results), len(stmts), err)
		}
		if stmt.Statement == nil {
			slog.Warn("Skipping statement that failed to parse", "ddl", abbreviate(stmt.DDL))
			results = append(results, Result{Skipped: true})
			continue
		}
		result, err := b.Apply(stmt.Statement)
		if err != nil {
			slog.Warn("Skipping statement", "ddl", abbreviate(stmt.DDL), "error", err)
		} else {
			slog.Debug("Applied statement", "kind", result.Kind, "name", result.Name, "ignored", result.IgnoreIfExists)
		}
		results = append(results, result)
	}
	return results, nil
}

// References returns the references recorded since the last Resolve.
func (b *Builder) References() []DbObjectReference {
	return append([]DbObjectReference(nil), b.refs...)
}

func (b *Builder) use(stmt *parser.Use) Result {
	name := b.idents.Last(stmt.Schema)
	if name == "" {
		return Result{Kind: "USE", Skipped: true}
	}
	b.currentSchema = name
	return Result{Kind: "USE", Name: name}
}

// resolveName splits a schema object name and returns its schema, creating
// a stub schema when needed.
func (b *Builder) resolveName(id parser.Ident) (*Schema, string, bool) {
	schemaName, name, ok := b.idents.Qualified(id, b.currentSchema)
	if !ok {
		slog.Warn("Malformed object name", "name", strings.Join(id, "."))
		return nil, "", false
	}
	return b.catalog.ensureSchema(schemaName), name, true
}

func (b *Builder) push(ref DbObjectReference) {
	b.refs = append(b.refs, ref)
}

func (b *Builder) charsets() CharsetLookup {
	return b.opts.Charsets
}

func abbreviate(ddl string) string {
	ddl = strings.Join(strings.Fields(ddl), " ")
	if len(ddl) > 80 {
		return ddl[:77] + "..."
	}
	return ddl
}

func qualify(schema, name string) string {
	if schema == "" {
		return name
	}
	return schema + "." + name
}

// Report summarizes a BuildCatalog run.
type Report struct {
	Statements int
	Applied    int
	Skipped    int
	Ignored    int
	// ForwardReferences is the number of references recorded before
	// resolution.
	ForwardReferences int
	// Unresolved lists the references that stayed unlinked or were linked
	// only to stubs.
	Unresolved []DbObjectReference
}

// BuildCatalog parses sql, applies every statement to a new catalog and
// resolves references. The catalog is returned even when some statements
// failed to parse; their errors are joined into the returned error.
func BuildCatalog(ctx context.Context, p database.Parser, sql string, opts Options) (*Catalog, Report, error) {
	opts = opts.withDefaults()
	catalog := NewCatalog(opts)
	var report Report

	stmts, parseErr := p.Parse(sql)
	if len(stmts) == 0 {
		return catalog, report, parseErr
	}

	builder := NewBuilder(catalog, opts)
	results, applyErr := builder.ApplyAll(ctx, stmts)
	report.Statements = len(stmts)
	for _, result := range results {
		switch {
		case result.Skipped:
			report.Skipped++
		case result.IgnoreIfExists:
			report.Ignored++
		default:
			report.Applied++
		}
	}
	report.ForwardReferences = len(builder.References())
	report.Unresolved = builder.Resolve()
	return catalog, report, errors.Join(parseErr, applyErr)
}
