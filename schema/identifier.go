package schema

import (
	"strings"

	"github.com/sqldef/sqlcatalog/parser"
	"golang.org/x/text/cases"
)

// IdentifierResolver turns identifiers as written into unquoted name parts
// and compares names under the case-sensitivity policy of the server
// (lower_case_table_names). Names keep their original spelling; folding
// happens only when two names are compared.
type IdentifierResolver struct {
	CaseSensitive bool
}

// Parts returns the unquoted parts of a 1 to 3 part identifier. It returns
// nil for an empty or malformed identifier, which callers treat as unknown.
func (r IdentifierResolver) Parts(id parser.Ident) []string {
	if len(id) == 0 || len(id) > 3 {
		return nil
	}
	parts := make([]string, len(id))
	for i, part := range id {
		parts[i] = Unquote(part)
		if parts[i] == "" {
			return nil
		}
	}
	return parts
}

// Last returns the unquoted last part of an identifier, e.g. the column of
// schema.table.column.
func (r IdentifierResolver) Last(id parser.Ident) string {
	if len(id) == 0 {
		return ""
	}
	return Unquote(id[len(id)-1])
}

// Qualified splits a schema object name into its schema and object parts.
// An unqualified name gets defaultSchema. For three part names the last two
// parts are used.
func (r IdentifierResolver) Qualified(id parser.Ident, defaultSchema string) (schema, name string, ok bool) {
	parts := r.Parts(id)
	switch len(parts) {
	case 1:
		return defaultSchema, parts[0], true
	case 2:
		return parts[0], parts[1], true
	case 3:
		return parts[1], parts[2], true
	}
	return "", "", false
}

// Equal compares two names under the resolver's case policy.
func (r IdentifierResolver) Equal(a, b string) bool {
	if r.CaseSensitive {
		return a == b
	}
	return r.EqualFold(a, b)
}

// EqualFold compares two names with Unicode case folding. Columns, indexes
// and routines are matched this way regardless of the case policy.
func (r IdentifierResolver) EqualFold(a, b string) bool {
	if a == b {
		return true
	}
	fold := cases.Fold()
	return fold.String(a) == fold.String(b)
}

// Unquote strips backtick, double quote or single quote delimiters and
// collapses doubled delimiters inside them.
func Unquote(s string) string {
	if len(s) < 2 {
		return s
	}
	q := s[0]
	if (q != '`' && q != '"' && q != '\'') || s[len(s)-1] != q {
		return s
	}
	inner := s[1 : len(s)-1]
	return strings.ReplaceAll(inner, string([]byte{q, q}), string(q))
}
