package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitStatements(t *testing.T) {
	testCases := []struct {
		name     string
		sql      string
		expected []string
	}{
		{
			name:     "simple statements",
			sql:      "CREATE TABLE a (id INT); CREATE TABLE b (id INT);",
			expected: []string{"CREATE TABLE a (id INT)", "CREATE TABLE b (id INT)"},
		},
		{
			name:     "semicolons in strings and comments",
			sql:      "INSERT INTO t VALUES ('a;b'); -- x;y\nCREATE TABLE c (d INT) /* ; */",
			expected: []string{"INSERT INTO t VALUES ('a;b')", "CREATE TABLE c (d INT)"},
		},
		{
			name: "compound trigger body",
			sql: `CREATE TRIGGER tr BEFORE INSERT ON t FOR EACH ROW BEGIN
  IF NEW.a > 0 THEN
    SET NEW.b = 1;
  END IF;
  SET NEW.c = CASE WHEN NEW.a = 1 THEN 2 ELSE 3 END;
  SET NEW.d = REPEAT('x', 2);
END;
CREATE TABLE x (id INT);`,
			expected: []string{
				`CREATE TRIGGER tr BEFORE INSERT ON t FOR EACH ROW BEGIN
  IF NEW.a > 0 THEN
    SET NEW.b = 1;
  END IF;
  SET NEW.c = CASE WHEN NEW.a = 1 THEN 2 ELSE 3 END;
  SET NEW.d = REPEAT('x', 2);
END`,
				"CREATE TABLE x (id INT)",
			},
		},
		{
			name: "nested loop with labels",
			sql: `CREATE PROCEDURE p() BEGIN
  l1: LOOP
    LEAVE l1;
  END LOOP l1;
END;
SELECT 1`,
			expected: []string{
				`CREATE PROCEDURE p() BEGIN
  l1: LOOP
    LEAVE l1;
  END LOOP l1;
END`,
				"SELECT 1",
			},
		},
		{
			name: "delimiter command",
			sql: `DELIMITER //
CREATE PROCEDURE p()
BEGIN
  SELECT 1;
END//
DELIMITER ;
CREATE TABLE y (id INT);`,
			expected: []string{
				"CREATE PROCEDURE p()\nBEGIN\n  SELECT 1;\nEND",
				"CREATE TABLE y (id INT)",
			},
		},
		{
			name:     "blank input",
			sql:      " ;\n-- only a comment\n",
			expected: nil,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, SplitStatements(tc.sql))
		})
	}
}

func TestTrimMarginComments(t *testing.T) {
	tests := []struct {
		name string
		sql  string
		want string
	}{
		{"block and line comments", "/* a */ -- b\n CREATE TABLE t (id INT) /* c */ ", "CREATE TABLE t (id INT)"},
		{"versioned comment is code", "  /*!40101 SET NAMES utf8 */ ", "/*!40101 SET NAMES utf8 */"},
		{"trailing line comment", "CREATE VIEW v AS SELECT 1 -- note\n", "CREATE VIEW v AS SELECT 1"},
		{"trailing hash comment", "CREATE VIEW v AS SELECT 1 # note", "CREATE VIEW v AS SELECT 1"},
		{"inner comments are kept", "CREATE TABLE t (\n  id INT -- key\n) # done", "CREATE TABLE t (\n  id INT -- key\n)"},
		{"comment marker in a string", "CREATE VIEW v AS SELECT '-- x' -- y", "CREATE VIEW v AS SELECT '-- x'"},
		{"double dash without blank", "CREATE VIEW v AS SELECT 1--1", "CREATE VIEW v AS SELECT 1--1"},
		{"multibyte text", "COMMENT 'à' -- c", "COMMENT 'à'"},
		{"only comments", "-- a\n/* b */", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TrimMarginComments(tt.sql))
		})
	}
}
