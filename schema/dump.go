package schema

import (
	"fmt"
	"strings"

	"github.com/sqldef/sqlcatalog/util"
)

// Dump renders the catalog as a DDL script, one statement per object.
// Logfile groups, tablespaces and servers come first, then each schema
// followed by a USE statement and its objects, tables in dependency order.
// Stubs are listed as comments.
func (c *Catalog) Dump() string {
	var stmts []string
	for _, id := range c.LogfileGroups {
		stmts = append(stmts, showCreateLogfileGroup(c.LogfileGroup(id)))
	}
	for _, id := range c.Tablespaces {
		stmts = append(stmts, showCreateTablespace(c.Tablespace(id)))
	}
	for _, id := range c.Servers {
		stmts = append(stmts, showCreateServer(c.Server(id)))
	}
	for _, id := range c.Schemas {
		stmts = append(stmts, c.dumpSchema(c.Schema(id))...)
	}
	if len(stmts) == 0 {
		return ""
	}
	return strings.Join(stmts, "\n\n") + "\n"
}

func (c *Catalog) dumpSchema(s *Schema) []string {
	var stmts []string
	if s.IsStub {
		stmts = append(stmts, fmt.Sprintf("-- schema %s is not created by the script", quoteName(s.Name)))
	} else {
		stmts = append(stmts, showCreateSchema(s)+";")
	}
	stmts = append(stmts, "USE "+quoteName(s.Name)+";")

	tables, ok := c.TablesInDependencyOrder(s.ID)
	if !ok {
		stmts = append(stmts, fmt.Sprintf("-- foreign keys of schema %s form a cycle", quoteName(s.Name)))
	}
	for _, table := range tables {
		stmts = append(stmts, c.ShowCreateTable(table)+";")
	}
	stubs := util.FilterSlice(util.TransformSlice(s.Tables, c.Table), func(t *Table) bool { return t.IsStub })
	for _, table := range stubs {
		stmts = append(stmts, fmt.Sprintf("-- table %s.%s is referenced but not defined", quoteName(s.Name), quoteName(table.Name)))
	}
	for _, id := range s.Views {
		stmts = append(stmts, showCreateView(c.View(id))+";")
	}
	for _, id := range s.Routines {
		stmts = append(stmts, showCreateRoutine(c.Routine(id))+";")
	}
	for _, id := range s.Triggers {
		trg := c.Trigger(id)
		stmts = append(stmts, showCreateTrigger(trg, c.Table(trg.Table))+";")
	}
	for _, id := range s.Events {
		stmts = append(stmts, showCreateEvent(c.Event(id))+";")
	}
	return stmts
}

func showCreateSchema(s *Schema) string {
	text := "CREATE DATABASE " + quoteName(s.Name)
	if s.Charset != "" {
		text += " DEFAULT CHARACTER SET " + s.Charset
	}
	if s.Collation != "" {
		text += " COLLATE " + s.Collation
	}
	if s.Encryption != "" {
		text += " ENCRYPTION=" + quoteString(s.Encryption)
	}
	return text
}

func showCreateView(v *View) string {
	var b strings.Builder
	b.WriteString("CREATE ")
	if v.Algorithm != "" {
		b.WriteString("ALGORITHM=" + v.Algorithm + " ")
	}
	if v.Definer != "" {
		b.WriteString("DEFINER=" + v.Definer + " ")
	}
	if v.Security != "" {
		b.WriteString("SQL SECURITY " + v.Security + " ")
	}
	b.WriteString("VIEW " + quoteName(v.Name))
	if len(v.Columns) > 0 {
		b.WriteString(" (" + quoteNames(v.Columns) + ")")
	}
	b.WriteString(" AS " + v.Definition)
	if v.CheckOption != "" {
		b.WriteString(" WITH " + v.CheckOption + " CHECK OPTION")
	}
	return b.String()
}

func showCreateRoutine(r *Routine) string {
	var b strings.Builder
	b.WriteString("CREATE ")
	if r.Definer != "" {
		b.WriteString("DEFINER=" + r.Definer + " ")
	}
	if r.Kind == "UDF" {
		if r.Aggregate {
			b.WriteString("AGGREGATE ")
		}
		fmt.Fprintf(&b, "FUNCTION %s RETURNS %s SONAME %s", quoteName(r.Name), r.Returns, quoteString(r.SOName))
		return b.String()
	}

	params := make([]string, len(r.Params))
	for i, p := range r.Params {
		params[i] = strings.TrimSpace(p.Mode + " " + quoteName(p.Name) + " " + p.Type)
	}
	fmt.Fprintf(&b, "%s %s(%s)", r.Kind, quoteName(r.Name), strings.Join(params, ", "))
	if r.Returns != "" {
		b.WriteString(" RETURNS " + r.Returns)
	}
	if r.Comment != "" {
		b.WriteString("\n COMMENT " + quoteString(r.Comment))
	}
	if r.Language != "" {
		b.WriteString("\n LANGUAGE " + r.Language)
	}
	if r.Deterministic {
		b.WriteString("\n DETERMINISTIC")
	}
	if r.DataAccess != "" {
		b.WriteString("\n " + r.DataAccess)
	}
	if r.Security != "" {
		b.WriteString("\n SQL SECURITY " + r.Security)
	}
	if r.Body != "" {
		b.WriteString("\n" + r.Body)
	}
	return b.String()
}

func showCreateTrigger(trg *Trigger, table *Table) string {
	var b strings.Builder
	b.WriteString("CREATE ")
	if trg.Definer != "" {
		b.WriteString("DEFINER=" + trg.Definer + " ")
	}
	fmt.Fprintf(&b, "TRIGGER %s %s %s ON %s FOR EACH ROW", quoteName(trg.Name), trg.Timing, trg.Event, quoteName(table.Name))
	if trg.Order != "" {
		b.WriteString(" " + trg.Order + " " + quoteName(trg.OtherTrigger))
	}
	b.WriteString(" " + trg.Body)
	return b.String()
}

func showCreateEvent(e *Event) string {
	var b strings.Builder
	b.WriteString("CREATE ")
	if e.Definer != "" {
		b.WriteString("DEFINER=" + e.Definer + " ")
	}
	b.WriteString("EVENT " + quoteName(e.Name) + " ON SCHEDULE ")
	if e.At != "" {
		b.WriteString("AT " + e.At)
	} else {
		b.WriteString("EVERY " + e.Interval + " " + e.IntervalUnit)
		if e.Starts != "" {
			b.WriteString(" STARTS " + e.Starts)
		}
		if e.Ends != "" {
			b.WriteString(" ENDS " + e.Ends)
		}
	}
	if e.Preserve {
		b.WriteString(" ON COMPLETION PRESERVE")
	} else {
		b.WriteString(" ON COMPLETION NOT PRESERVE")
	}
	if e.Status != "" {
		b.WriteString(" " + e.Status)
	}
	if e.Comment != "" {
		b.WriteString(" COMMENT " + quoteString(e.Comment))
	}
	b.WriteString(" DO " + e.Body)
	return b.String()
}

func showCreateServer(s *Server) string {
	options := []struct{ name, value string }{
		{"HOST", s.Host},
		{"DATABASE", s.Database},
		{"USER", s.User},
		{"PASSWORD", s.Password},
		{"SOCKET", s.Socket},
		{"OWNER", s.Owner},
		{"PORT", s.Port},
	}
	var rendered []string
	for _, opt := range options {
		switch {
		case opt.value == "":
		case opt.name == "PORT":
			rendered = append(rendered, "PORT "+opt.value)
		default:
			rendered = append(rendered, opt.name+" "+quoteString(opt.value))
		}
	}
	return fmt.Sprintf("CREATE SERVER %s FOREIGN DATA WRAPPER %s OPTIONS (%s);", quoteName(s.Name), s.Wrapper, strings.Join(rendered, ", "))
}

func showCreateTablespace(ts *Tablespace) string {
	var b strings.Builder
	b.WriteString("CREATE ")
	if ts.Undo {
		b.WriteString("UNDO ")
	}
	b.WriteString("TABLESPACE " + quoteName(ts.Name))
	for i, file := range ts.DataFiles {
		if i > 0 {
			// Further data files can only be added with ALTER TABLESPACE.
			fmt.Fprintf(&b, ";\nALTER TABLESPACE %s", quoteName(ts.Name))
		}
		b.WriteString(" ADD DATAFILE " + quoteString(file))
	}
	if ts.LogfileGroup != "" && len(ts.DataFiles) <= 1 {
		b.WriteString(" USE LOGFILE GROUP " + quoteName(ts.LogfileGroup))
	}
	b.WriteString(storageOptions(ts.StorageOptions))
	return b.String() + ";"
}

func showCreateLogfileGroup(lg *LogfileGroup) string {
	var b strings.Builder
	b.WriteString("CREATE LOGFILE GROUP " + quoteName(lg.Name))
	for i, file := range lg.UndoFiles {
		if i > 0 {
			fmt.Fprintf(&b, ";\nALTER LOGFILE GROUP %s", quoteName(lg.Name))
		}
		b.WriteString(" ADD UNDOFILE " + quoteString(file))
	}
	b.WriteString(storageOptions(lg.StorageOptions))
	return b.String() + ";"
}

func storageOptions(so StorageOptions) string {
	options := []struct{ name, value string }{
		{"INITIAL_SIZE", so.InitialSize},
		{"EXTENT_SIZE", so.ExtentSize},
		{"AUTOEXTEND_SIZE", so.AutoextendSize},
		{"MAX_SIZE", so.MaxSize},
		{"FILE_BLOCK_SIZE", so.FileBlockSize},
		{"UNDO_BUFFER_SIZE", so.UndoBufferSize},
		{"REDO_BUFFER_SIZE", so.RedoBufferSize},
		{"NODEGROUP", so.Nodegroup},
	}
	var b strings.Builder
	for _, opt := range options {
		if opt.value != "" {
			b.WriteString(" " + opt.name + " = " + opt.value)
		}
	}
	if so.Encryption != "" {
		b.WriteString(" ENCRYPTION = " + quoteString(so.Encryption))
	}
	if so.Comment != "" {
		b.WriteString(" COMMENT = " + quoteString(so.Comment))
	}
	if so.Wait {
		b.WriteString(" WAIT")
	}
	if so.Engine != "" {
		b.WriteString(" ENGINE = " + so.Engine)
	}
	return b.String()
}
