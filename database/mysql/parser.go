package mysql

import (
	"context"
	"log/slog"
	"strings"

	"github.com/k0kubun/pp/v3"
	mysqlparser "github.com/pingcap/tidb/parser"
	"github.com/pingcap/tidb/parser/ast"
	_ "github.com/pingcap/tidb/parser/test_driver"

	"github.com/sqldef/sqlcatalog/database"
	"github.com/sqldef/sqlcatalog/parser"
)

// MysqlParser parses DDL with the generic grammar and analyzes view
// definitions with the TiDB MySQL grammar to find the tables they read.
type MysqlParser struct {
	parser database.GenericParser
}

func NewParser(concurrency int) MysqlParser {
	return MysqlParser{
		parser: database.NewParser(concurrency),
	}
}

func (p MysqlParser) Parse(sql string) ([]database.DDLStatement, error) {
	stmts, err := p.parser.Parse(sql)
	for _, stmt := range stmts {
		switch stmt := stmt.Statement.(type) {
		case *parser.CreateView:
			fillViewTables(stmt)
		case *parser.AlterView:
			fillViewTables((*parser.CreateView)(stmt))
		}
	}
	return stmts, err
}

func fillViewTables(view *parser.CreateView) {
	tables, err := ViewTables(view.Definition)
	if err != nil {
		slog.Warn("Cannot analyze view definition, its tables are not recorded", "view", strings.Join(view.Name, "."), "error", err)
		return
	}
	view.Tables = tables
}

// ViewTables returns the tables a query reads from, in order of first
// appearance. Names of common table expressions are not tables and are
// left out.
func ViewTables(query string) ([]parser.Ident, error) {
	node, err := mysqlparser.New().ParseOneStmt(query, "", "")
	if err != nil {
		return nil, err
	}
	if slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		slog.Debug("View definition", "tree", pp.Sprint(node))
	}

	collector := &tableCollector{ctes: map[string]bool{}, seen: map[string]bool{}}
	node.Accept(collector)
	return collector.tables, nil
}

type tableCollector struct {
	ctes   map[string]bool
	seen   map[string]bool
	tables []parser.Ident
}

func (c *tableCollector) Enter(n ast.Node) (ast.Node, bool) {
	switch n := n.(type) {
	case *ast.WithClause:
		for _, cte := range n.CTEs {
			c.ctes[cte.Name.L] = true
		}
	case *ast.TableName:
		if n.Schema.L == "" && c.ctes[n.Name.L] {
			break
		}
		key := n.Schema.L + "." + n.Name.L
		if c.seen[key] {
			break
		}
		c.seen[key] = true
		ident := parser.NewIdent(quoteIdent(n.Name.O))
		if n.Schema.O != "" {
			ident = parser.NewIdent(quoteIdent(n.Schema.O), quoteIdent(n.Name.O))
		}
		c.tables = append(c.tables, ident)
	}
	return n, false
}

func (c *tableCollector) Leave(n ast.Node) (ast.Node, bool) {
	return n, true
}

func quoteIdent(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}
