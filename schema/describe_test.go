package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColumnType(t *testing.T) {
	catalog, _ := build(t, `
CREATE TABLE t (
  a BOOL,
  d DOUBLE PRECISION(8,3) UNSIGNED ZEROFILL,
  f DECIMAL(10),
  g ENUM('x','y'),
  i LONG VARBINARY,
  j DATETIME(6)
)`)
	table := mustTable(t, catalog, "default", "t")

	tests := map[string]string{
		"a": "TINYINT(1)",
		"d": "DOUBLE(8,3) UNSIGNED ZEROFILL",
		"f": "DECIMAL(10)",
		"g": "ENUM('x','y')",
		"i": "MEDIUMBLOB",
		"j": "DATETIME(6)",
	}
	for column, want := range tests {
		assert.Equal(t, want, mustColumn(t, catalog, table, column).ColumnType(), column)
	}
}

func TestShowCreateTablePartitions(t *testing.T) {
	catalog, _ := build(t, `
CREATE TABLE r (id INT) PARTITION BY RANGE (id) SUBPARTITION BY HASH (id) (
  PARTITION p0 VALUES LESS THAN (10) (SUBPARTITION s0, SUBPARTITION s1),
  PARTITION p1 VALUES LESS THAN MAXVALUE ENGINE = InnoDB (SUBPARTITION s2, SUBPARTITION s3)
);
CREATE TABLE k (a INT, b INT) PARTITION BY LINEAR KEY ALGORITHM=2 (a, b) PARTITIONS 4;
`)

	assert.Equal(t, "CREATE TABLE `r` (\n"+
		"  `id` INT DEFAULT NULL\n"+
		")\n"+
		"PARTITION BY RANGE (id)\n"+
		"SUBPARTITION BY HASH (id)\n"+
		"(PARTITION `p0` VALUES LESS THAN (10)\n"+
		" (SUBPARTITION `s0`,\n"+
		"  SUBPARTITION `s1`),\n"+
		" PARTITION `p1` VALUES LESS THAN MAXVALUE ENGINE = InnoDB\n"+
		" (SUBPARTITION `s2`,\n"+
		"  SUBPARTITION `s3`))",
		catalog.ShowCreateTable(mustTable(t, catalog, "default", "r")))

	assert.Equal(t, "CREATE TABLE `k` (\n"+
		"  `a` INT DEFAULT NULL,\n"+
		"  `b` INT DEFAULT NULL\n"+
		")\n"+
		"PARTITION BY LINEAR KEY ALGORITHM=2 (`a`,`b`)\n"+
		"PARTITIONS 4",
		catalog.ShowCreateTable(mustTable(t, catalog, "default", "k")))
}

func TestShowCreateTableOptions(t *testing.T) {
	catalog, _ := build(t, `
CREATE TABLE a (id INT) ENGINE=InnoDB COMMENT='hello' ROW_FORMAT=dynamic AUTO_INCREMENT=10;
CREATE TABLE m (id INT) ENGINE=MERGE UNION=(a, other.b) INSERT_METHOD=last;
`)

	assert.Equal(t, "CREATE TABLE `a` (\n"+
		"  `id` INT DEFAULT NULL\n"+
		") ENGINE=InnoDB AUTO_INCREMENT=10 ROW_FORMAT=DYNAMIC COMMENT='hello'",
		catalog.ShowCreateTable(mustTable(t, catalog, "default", "a")))

	assert.Equal(t, "CREATE TABLE `m` (\n"+
		"  `id` INT DEFAULT NULL\n"+
		") ENGINE=MERGE INSERT_METHOD=LAST UNION=(`default`.`a`,`other`.`b`)",
		catalog.ShowCreateTable(mustTable(t, catalog, "default", "m")))
}

func TestQuoting(t *testing.T) {
	assert.Equal(t, "`we``ird`", quoteName("we`ird"))
	assert.Equal(t, "'it''s'", quoteString("it's"))
	assert.Equal(t, "`a`,`b`", quoteNames([]string{"a", "b"}))
	assert.Equal(t, "", quoteNames(nil))
}

func TestColumnDefinitionDefaults(t *testing.T) {
	catalog, _ := build(t, `
CREATE TABLE t (
  a DATETIME ON UPDATE CURRENT_TIMESTAMP,
  b DATETIME(3) ON UPDATE CURRENT_TIMESTAMP(3) DEFAULT CURRENT_TIMESTAMP(3),
  c DATETIME DEFAULT 'ON UPDATE CURRENT_TIMESTAMP',
  d DATETIME
)`)
	table := mustTable(t, catalog, "default", "t")

	tests := map[string]string{
		"a": "`a` DATETIME ON UPDATE CURRENT_TIMESTAMP",
		"b": "`b` DATETIME(3) DEFAULT CURRENT_TIMESTAMP(3) ON UPDATE CURRENT_TIMESTAMP(3)",
		"c": "`c` DATETIME DEFAULT 'ON UPDATE CURRENT_TIMESTAMP'",
		"d": "`d` DATETIME DEFAULT NULL",
	}
	for column, want := range tests {
		assert.Equal(t, want, catalog.columnDefinition(mustColumn(t, catalog, table, column)), column)
	}
}
