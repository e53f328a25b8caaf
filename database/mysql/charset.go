package mysql

import (
	"strings"

	"github.com/pingcap/tidb/parser/charset"

	"github.com/sqldef/sqlcatalog/schema"
)

// CharsetLookup maps collations to charsets with the collation table of the
// TiDB grammar. Default collations follow the server version, since TiDB's
// own defaults differ from the server's.
type CharsetLookup struct {
	server *schema.CharsetTable
}

func NewCharsetLookup(version int) CharsetLookup {
	return CharsetLookup{server: schema.DefaultCharsets(version)}
}

func (l CharsetLookup) DefaultCollationForCharset(cs string) string {
	if collation := l.server.DefaultCollationForCharset(cs); collation != "" {
		return collation
	}
	collation, err := charset.GetDefaultCollation(strings.ToLower(cs))
	if err != nil {
		return ""
	}
	return collation
}

func (l CharsetLookup) CharsetForCollation(name string) string {
	collation, err := charset.GetCollationByName(name)
	if err != nil || collation.CharsetName == "" {
		return l.server.CharsetForCollation(name)
	}
	if collation.CharsetName == "utf8mb3" {
		return "utf8"
	}
	return collation.CharsetName
}
