package database

import (
	"errors"
	"testing"

	"github.com/sqldef/sqlcatalog/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenericParserParse(t *testing.T) {
	sql := `
-- users
CREATE TABLE users (id INT PRIMARY KEY);
INSERT INTO users VALUES (1);
CREATE INDEX idx_id ON users (id);
`
	stmts, err := NewParser(0).Parse(sql)
	require.NoError(t, err)
	require.Len(t, stmts, 2)

	assert.Equal(t, "CREATE TABLE users (id INT PRIMARY KEY)", stmts[0].DDL)
	assert.IsType(t, &parser.CreateTable{}, stmts[0].Statement)
	assert.IsType(t, &parser.CreateIndex{}, stmts[1].Statement)
}

func TestGenericParserKeepsOrderConcurrently(t *testing.T) {
	sql := "CREATE TABLE a (id INT);\nCREATE TABLE b (id INT);\nCREATE TABLE c (id INT);\nCREATE TABLE d (id INT);"
	stmts, err := NewParser(-1).Parse(sql)
	require.NoError(t, err)

	var names []string
	for _, stmt := range stmts {
		names = append(names, stmt.Statement.(*parser.CreateTable).Table[0])
	}
	assert.Equal(t, []string{"a", "b", "c", "d"}, names)
}

func TestGenericParserSyntaxError(t *testing.T) {
	sql := "CREATE TABLE a (id INT);\nCREATE TABLE t (id INT"
	stmts, err := NewParser(0).Parse(sql)
	require.Error(t, err)
	require.Len(t, stmts, 2)

	assert.NotNil(t, stmts[0].Statement)
	assert.Nil(t, stmts[1].Statement)
	assert.Equal(t, "CREATE TABLE t (id INT", stmts[1].DDL)

	var syntaxErr *parser.SyntaxError
	assert.True(t, errors.As(err, &syntaxErr))
	assert.Contains(t, err.Error(), "statement 2")
}

func TestGenericParserEmptyScript(t *testing.T) {
	for _, sql := range []string{"", "  \n", "-- only a comment\n", "/* block */"} {
		_, err := NewParser(0).Parse(sql)
		assert.ErrorIs(t, err, ErrEmptyScript, sql)
	}
}
