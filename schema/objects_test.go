package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemas(t *testing.T) {
	catalog, report := build(t, `
CREATE TABLE app.t (id INT);
CREATE DATABASE app CHARACTER SET utf8mb3;
CREATE SCHEMA IF NOT EXISTS app CHARACTER SET latin1;
CREATE DATABASE IF NOT EXISTS other COLLATE latin1_bin ENCRYPTION 'y';
USE other;
ALTER SCHEMA CHARSET DEFAULT;
`)
	assert.Equal(t, 1, report.Ignored)

	app := catalog.LookupSchema("app")
	require.NotNil(t, app)
	assert.False(t, app.IsStub)
	assert.Equal(t, "utf8", app.Charset)
	assert.Empty(t, app.Collation)
	assert.Len(t, app.Tables, 1)

	other := catalog.LookupSchema("other")
	require.NotNil(t, other)
	assert.Equal(t, "utf8mb4", other.Charset)
	assert.Empty(t, other.Collation)
	assert.Equal(t, "Y", other.Encryption)
}

func TestTriggers(t *testing.T) {
	catalog, report := build(t, `
CREATE TABLE t (a INT);
CREATE TRIGGER tr_before BEFORE INSERT ON t FOR EACH ROW SET NEW.a = 1;
CREATE TRIGGER tr_after after update ON t FOR EACH ROW FOLLOWS tr_before SET @x = 1;
CREATE TRIGGER IF NOT EXISTS tr_before BEFORE DELETE ON t FOR EACH ROW SET @y = 1;
CREATE TRIGGER shop.tr_orphan AFTER DELETE ON shop.missing FOR EACH ROW SET @z = 1;
`)
	assert.Equal(t, 1, report.Ignored)
	table := mustTable(t, catalog, "default", "t")

	triggers := catalog.TriggersOf(table)
	require.Len(t, triggers, 2)
	before := triggers[0]
	assert.Equal(t, "tr_before", before.Name)
	assert.Equal(t, "BEFORE", before.Timing)
	assert.Equal(t, "INSERT", before.Event)
	assert.Equal(t, "SET NEW.a = 1", before.Body)

	after := catalog.LookupTrigger("default", "tr_after")
	require.NotNil(t, after)
	assert.Equal(t, "AFTER", after.Timing)
	assert.Equal(t, "UPDATE", after.Event)
	assert.Equal(t, "FOLLOWS", after.Order)
	assert.Equal(t, "tr_before", after.OtherTrigger)

	orphan := catalog.LookupTrigger("shop", "tr_orphan")
	require.NotNil(t, orphan)
	missing := catalog.Table(orphan.Table)
	assert.True(t, missing.IsStub)
	assert.Equal(t, "shop.missing", catalog.QualifiedName(missing))
}

func TestRoutines(t *testing.T) {
	catalog, report := build(t, `
CREATE PROCEDURE calc(IN a INT, OUT b VARCHAR(10)) COMMENT 'c' DETERMINISTIC SELECT a INTO b;
CREATE FUNCTION calc(x INT) RETURNS INT READS SQL DATA RETURN x + 1;
CREATE AGGREGATE FUNCTION agg RETURNS REAL SONAME 'udf.so';
CREATE FUNCTION IF NOT EXISTS agg(x INT) RETURNS INT RETURN x;
ALTER PROCEDURE calc SQL SECURITY invoker COMMENT 'changed';
ALTER FUNCTION missing LANGUAGE sql;
`)
	assert.Equal(t, 1, report.Ignored)

	proc := catalog.LookupRoutine("default", "PROCEDURE", "calc")
	require.NotNil(t, proc)
	assert.Equal(t, "PROCEDURE", proc.Kind)
	assert.Equal(t, []RoutineParam{{Mode: "IN", Name: "a", Type: "INT"}, {Mode: "OUT", Name: "b", Type: "VARCHAR(10)"}}, proc.Params)
	assert.True(t, proc.Deterministic)
	assert.Equal(t, "changed", proc.Comment)
	assert.Equal(t, "INVOKER", proc.Security)
	assert.Equal(t, "SELECT a INTO b", proc.Body)

	fn := catalog.LookupRoutine("default", "FUNCTION", "CALC")
	require.NotNil(t, fn)
	assert.NotEqual(t, proc.ID, fn.ID)
	assert.Equal(t, "INT", fn.Returns)
	assert.Equal(t, "READS SQL DATA", fn.DataAccess)
	assert.Equal(t, "RETURN x + 1", fn.Body)

	udf := catalog.LookupRoutine("default", "FUNCTION", "agg")
	require.NotNil(t, udf)
	assert.Equal(t, "UDF", udf.Kind)
	assert.Equal(t, "udf.so", udf.SOName)
	assert.True(t, udf.Aggregate)
	assert.Same(t, udf, catalog.LookupRoutine("default", "UDF", "agg"))

	missing := catalog.LookupRoutine("default", "FUNCTION", "missing")
	require.NotNil(t, missing)
	assert.Equal(t, "SQL", missing.Language)

	assert.Len(t, catalog.LookupSchema("default").Routines, 4)
}

func TestEvents(t *testing.T) {
	catalog, _ := build(t, `
CREATE EVENT e ON SCHEDULE EVERY 1 day STARTS '2024-01-01 00:00:00' ON COMPLETION PRESERVE COMMENT 'x' DO DELETE FROM t;
CREATE EVENT o ON SCHEDULE AT CURRENT_TIMESTAMP + INTERVAL 1 HOUR DISABLE DO SELECT 1;
ALTER EVENT e ON COMPLETION NOT PRESERVE RENAME TO archive.e2 DISABLE;
`)
	assert.Nil(t, catalog.LookupEvent("default", "e"))
	assert.Len(t, catalog.LookupSchema("default").Events, 1)

	e := catalog.LookupEvent("archive", "e2")
	require.NotNil(t, e)
	assert.Equal(t, catalog.LookupSchema("archive").ID, e.Schema)
	assert.Equal(t, "1", e.Interval)
	assert.Equal(t, "DAY", e.IntervalUnit)
	assert.Equal(t, "'2024-01-01 00:00:00'", e.Starts)
	assert.False(t, e.Preserve)
	assert.Equal(t, "DISABLE", e.Status)
	assert.Equal(t, "x", e.Comment)
	assert.Equal(t, "DELETE FROM t", e.Body)

	o := catalog.LookupEvent("default", "o")
	require.NotNil(t, o)
	assert.Equal(t, "CURRENT_TIMESTAMP + INTERVAL 1 HOUR", o.At)
	assert.Equal(t, "DISABLE", o.Status)
}

func TestEventStatusDefault(t *testing.T) {
	catalog, _ := build(t, "CREATE EVENT e ON SCHEDULE EVERY 5 MINUTE DO SELECT 1")
	e := catalog.LookupEvent("default", "e")
	require.NotNil(t, e)
	assert.Equal(t, "ENABLE", e.Status)
	assert.Equal(t, "MINUTE", e.IntervalUnit)
}

func TestServers(t *testing.T) {
	catalog, _ := build(t, `
CREATE SERVER s FOREIGN DATA WRAPPER mysql OPTIONS (HOST 'h', PORT 3306, USER 'u');
ALTER SERVER S OPTIONS (USER 'admin');
ALTER SERVER fresh OPTIONS (HOST 'f');
`)
	s := catalog.LookupServer("s")
	require.NotNil(t, s)
	assert.Equal(t, "mysql", s.Wrapper)
	assert.Equal(t, "h", s.Host)
	assert.Equal(t, "3306", s.Port)
	assert.Equal(t, "admin", s.User)

	fresh := catalog.LookupServer("fresh")
	require.NotNil(t, fresh)
	assert.Equal(t, "f", fresh.Host)
	assert.Len(t, catalog.Servers, 2)
}

func TestTablespacesAndLogfileGroups(t *testing.T) {
	catalog, report := build(t, `
CREATE LOGFILE GROUP lg ADD UNDOFILE 'undo.dat' INITIAL_SIZE = 16M ENGINE = NDB;
ALTER LOGFILE GROUP lg ADD UNDOFILE 'undo2.dat' ENGINE = NDB;
CREATE TABLESPACE ts ADD DATAFILE 'ts.ibd' ENGINE = InnoDB;
CREATE TABLESPACE IF NOT EXISTS ts ADD DATAFILE 'other.ibd';
ALTER TABLESPACE ts RENAME TO ts2;
`)
	assert.Equal(t, 1, report.Ignored)

	lg := catalog.LookupLogfileGroup("lg")
	require.NotNil(t, lg)
	assert.Equal(t, []string{"undo.dat", "undo2.dat"}, lg.UndoFiles)
	assert.Equal(t, "16M", lg.InitialSize)
	assert.Equal(t, "NDB", lg.Engine)

	assert.Nil(t, catalog.LookupTablespace("ts"))
	ts := catalog.LookupTablespace("ts2")
	require.NotNil(t, ts)
	assert.Equal(t, []string{"ts.ibd"}, ts.DataFiles)
	assert.Equal(t, "InnoDB", ts.Engine)
}
