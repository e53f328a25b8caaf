package database

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/sqldef/sqlcatalog/parser"
)

// ErrEmptyScript is returned for a script without any statement.
var ErrEmptyScript = errors.New("script contains no statements")

// A tuple of an original DDL and a Statement. Statement is nil when the DDL
// failed to parse.
type DDLStatement struct {
	DDL       string
	Statement parser.Statement
}

type Parser interface {
	Parse(sql string) ([]DDLStatement, error)
}

// GenericParser splits a script and parses its statements with the DDL
// grammar, concurrency statements at a time.
type GenericParser struct {
	concurrency int
}

func NewParser(concurrency int) GenericParser {
	return GenericParser{
		concurrency: concurrency,
	}
}

type parseResult struct {
	stmt DDLStatement
	err  error
}

// Parse returns one DDLStatement per schema statement of the script.
// Statements that do not define schema objects, such as DML or DROP, are
// left out. A statement with a syntax error is returned with a nil tree and
// its error is joined into the returned error, so the rest of the script can
// still be applied.
func (p GenericParser) Parse(sql string) ([]DDLStatement, error) {
	ddls := parser.SplitStatements(sql)
	if len(ddls) == 0 {
		return nil, ErrEmptyScript
	}

	results, err := ConcurrentMapFuncWithError(ddls, p.concurrency, func(ddl string) (parseResult, error) {
		stmt, err := parser.ParseDDL(ddl)
		return parseResult{stmt: DDLStatement{DDL: ddl, Statement: stmt}, err: err}, nil
	})
	if err != nil {
		return nil, err
	}

	var stmts []DDLStatement
	var errs []error
	for i, result := range results {
		switch {
		case errors.Is(result.err, parser.ErrUnsupported):
			slog.Debug("Ignoring statement that does not define schema objects", "index", i+1, "ddl", result.stmt.DDL)
			continue
		case result.err != nil:
			errs = append(errs, fmt.Errorf("statement %d: %w", i+1, result.err))
		}
		stmts = append(stmts, result.stmt)
	}
	return stmts, errors.Join(errs...)
}
