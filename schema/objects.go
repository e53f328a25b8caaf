package schema

import (
	"log/slog"
	"slices"
	"strings"

	"github.com/sqldef/sqlcatalog/parser"
)

func (b *Builder) createSchema(stmt *parser.CreateSchema) Result {
	result := Result{Kind: "CREATE SCHEMA"}
	name := b.idents.Last(stmt.Name)
	if name == "" {
		result.Skipped = true
		return result
	}
	result.Name = name

	s := b.catalog.LookupSchema(name)
	switch {
	case s == nil:
		s = b.catalog.ensureSchema(name)
	case s.IsStub:
	case stmt.IfNotExists:
		result.IgnoreIfExists = true
		return result
	default:
		slog.Warn("Schema redefined, previous options replaced", "schema", name)
		s.Charset, s.Collation, s.Encryption = "", "", ""
	}
	s.IsStub = false
	b.applySchemaOptions(s, stmt.Options)
	return result
}

// alterSchema changes the options of a schema, the current one when no name
// is given. An unknown schema is created.
func (b *Builder) alterSchema(stmt *parser.AlterSchema) Result {
	name := b.idents.Last(stmt.Name)
	if name == "" {
		name = b.currentSchema
	}
	s := b.catalog.ensureSchema(name)
	s.IsStub = false
	b.applySchemaOptions(s, stmt.Options)
	return Result{Kind: "ALTER SCHEMA", Name: name}
}

func (b *Builder) applySchemaOptions(s *Schema, options []parser.Option) {
	var charset, collation string
	for _, opt := range options {
		switch opt.Kind {
		case parser.OptionCharset:
			charset = opt.Value
		case parser.OptionCollate:
			collation = opt.Value
		case parser.OptionEncryption:
			s.Encryption = strings.ToUpper(opt.Value)
		}
	}
	if charset != "" || collation != "" {
		s.Charset, s.Collation = resolveCharset(b.charsets(), charset, collation, b.catalog.DefaultCharset, b.catalog.DefaultCollation)
	}
}

// createView handles CREATE VIEW and ALTER VIEW. The tables read by the
// definition are recorded as references.
func (b *Builder) createView(stmt *parser.CreateView, kind string) Result {
	result := Result{Kind: kind}
	schema, name, ok := b.resolveName(stmt.Name)
	if !ok {
		result.Skipped = true
		return result
	}
	result.Name = qualify(schema.Name, name)

	view := b.catalog.findView(schema, name)
	if view == nil {
		view = &View{Schema: schema.ID, Name: name}
		view.ID = b.catalog.views.add(view)
		schema.Views = append(schema.Views, view.ID)
	} else if kind == "CREATE VIEW" && !stmt.OrReplace {
		slog.Warn("View redefined without OR REPLACE", "view", result.Name)
	}

	view.Definition = stmt.Definition
	view.Columns = b.names(stmt.Columns)
	view.OrReplace = stmt.OrReplace
	view.Algorithm = strings.ToUpper(stmt.Algorithm)
	view.Definer = stmt.Definer
	view.Security = strings.ToUpper(stmt.Security)
	view.CheckOption = strings.ToUpper(stmt.CheckOption)
	view.Tables = nil
	b.refs = slices.DeleteFunc(b.refs, func(ref DbObjectReference) bool {
		return ref.Kind == RefTable && ref.View == view.ID
	})

	for _, id := range stmt.Tables {
		schemaName, tableName, ok := b.idents.Qualified(id, schema.Name)
		if !ok {
			continue
		}
		b.push(DbObjectReference{Kind: RefTable, View: view.ID, TargetSchema: schemaName, TargetTable: tableName})
	}
	return result
}

// createTrigger adds a trigger to the schema of its table unless the
// trigger name is qualified. An undefined table becomes a stub.
func (b *Builder) createTrigger(stmt *parser.CreateTrigger) Result {
	result := Result{Kind: "CREATE TRIGGER"}
	tableSchema, tableName, ok := b.idents.Qualified(stmt.Table, b.currentSchema)
	if !ok {
		result.Skipped = true
		return result
	}
	schemaName, name, ok := b.idents.Qualified(stmt.Name, tableSchema)
	if !ok {
		result.Skipped = true
		return result
	}
	result.Name = qualify(schemaName, name)

	table := b.catalog.ensureTable(b.catalog.ensureSchema(tableSchema), tableName)
	schema := b.catalog.ensureSchema(schemaName)
	trg := b.catalog.findTrigger(schema, name)
	switch {
	case trg == nil:
		trg = &Trigger{Schema: schema.ID, Name: name}
		trg.ID = b.catalog.triggers.add(trg)
		schema.Triggers = append(schema.Triggers, trg.ID)
	case stmt.IfNotExists:
		result.IgnoreIfExists = true
		return result
	default:
		slog.Warn("Trigger redefined, previous definition replaced", "trigger", result.Name)
	}

	trg.Table = table.ID
	trg.Timing = strings.ToUpper(stmt.Timing)
	trg.Event = strings.ToUpper(stmt.Event)
	trg.Order = strings.ToUpper(stmt.Order)
	trg.OtherTrigger = b.idents.Last(stmt.OtherTrigger)
	trg.Definer = stmt.Definer
	trg.Body = stmt.Body
	return result
}

func (b *Builder) createRoutine(stmt *parser.CreateRoutine) Result {
	kind := stmt.Kind.String()
	result := Result{Kind: "CREATE " + kind}
	schema, name, ok := b.resolveName(stmt.Name)
	if !ok {
		result.Skipped = true
		return result
	}
	result.Name = qualify(schema.Name, name)

	r := b.catalog.findRoutine(schema, kind, name)
	switch {
	case r == nil:
		r = b.addRoutine(schema, kind, name)
	case stmt.IfNotExists:
		result.IgnoreIfExists = true
		return result
	default:
		slog.Warn("Routine redefined, previous definition replaced", "routine", result.Name, "kind", kind)
		*r = Routine{ID: r.ID, Schema: r.Schema, Name: name}
	}

	r.Kind = kind
	r.Definer = stmt.Definer
	for _, param := range stmt.Params {
		r.Params = append(r.Params, RoutineParam{
			Mode: strings.ToUpper(param.Mode),
			Name: b.idents.Last(param.Name),
			Type: param.Type,
		})
	}
	r.Returns = stmt.Returns
	r.Body = stmt.Body
	r.Aggregate = stmt.Aggregate
	r.SOName = stmt.SOName
	applyCharacteristics(r, stmt.Characteristics)
	return result
}

// alterRoutine changes the characteristics of a routine. An unknown routine
// is created with only those characteristics.
func (b *Builder) alterRoutine(stmt *parser.AlterRoutine) Result {
	kind := stmt.Kind.String()
	result := Result{Kind: "ALTER " + kind}
	schema, name, ok := b.resolveName(stmt.Name)
	if !ok {
		result.Skipped = true
		return result
	}
	result.Name = qualify(schema.Name, name)

	r := b.catalog.findRoutine(schema, kind, name)
	if r == nil {
		r = b.addRoutine(schema, kind, name)
	}
	applyCharacteristics(r, stmt.Characteristics)
	return result
}

func (b *Builder) addRoutine(schema *Schema, kind, name string) *Routine {
	r := &Routine{Schema: schema.ID, Name: name, Kind: kind}
	r.ID = b.catalog.routines.add(r)
	schema.Routines = append(schema.Routines, r.ID)
	return r
}

func applyCharacteristics(r *Routine, characteristics []parser.Characteristic) {
	for _, ch := range characteristics {
		switch ch.Kind {
		case parser.CharacteristicComment:
			r.Comment = ch.Value
		case parser.CharacteristicLanguage:
			r.Language = strings.ToUpper(ch.Value)
		case parser.CharacteristicDeterministic:
			r.Deterministic = true
		case parser.CharacteristicNotDeterministic:
			r.Deterministic = false
		case parser.CharacteristicDataAccess:
			r.DataAccess = strings.ToUpper(ch.Value)
		case parser.CharacteristicSecurity:
			r.Security = strings.ToUpper(ch.Value)
		}
	}
}

func (b *Builder) createEvent(stmt *parser.CreateEvent) Result {
	result := Result{Kind: "CREATE EVENT"}
	schema, name, ok := b.resolveName(stmt.Name)
	if !ok {
		result.Skipped = true
		return result
	}
	result.Name = qualify(schema.Name, name)

	e := b.catalog.findEvent(schema, name)
	switch {
	case e == nil:
		e = b.addEvent(schema, name)
	case stmt.IfNotExists:
		result.IgnoreIfExists = true
		return result
	default:
		slog.Warn("Event redefined, previous definition replaced", "event", result.Name)
		*e = Event{ID: e.ID, Schema: e.Schema, Name: name}
	}

	e.Definer = stmt.Definer
	applySchedule(e, stmt.Schedule)
	e.Preserve = stmt.Preserve
	e.Status = strings.ToUpper(stmt.Status)
	if e.Status == "" {
		e.Status = "ENABLE"
	}
	e.Comment = stmt.Comment
	e.Body = stmt.Body
	return result
}

// alterEvent changes only the clauses present in the statement. RENAME TO
// may move the event to another schema.
func (b *Builder) alterEvent(stmt *parser.AlterEvent) Result {
	result := Result{Kind: "ALTER EVENT"}
	schema, name, ok := b.resolveName(stmt.Name)
	if !ok {
		result.Skipped = true
		return result
	}
	result.Name = qualify(schema.Name, name)

	e := b.catalog.findEvent(schema, name)
	if e == nil {
		e = b.addEvent(schema, name)
		e.Status = "ENABLE"
	}
	if stmt.Definer != "" {
		e.Definer = stmt.Definer
	}
	if stmt.Schedule != nil {
		applySchedule(e, stmt.Schedule)
	}
	if stmt.Preserve != nil {
		e.Preserve = *stmt.Preserve
	}
	if stmt.Status != "" {
		e.Status = strings.ToUpper(stmt.Status)
	}
	if stmt.Comment != nil {
		e.Comment = *stmt.Comment
	}
	if stmt.Body != "" {
		e.Body = stmt.Body
	}

	if !stmt.RenameTo.IsEmpty() {
		target, newName, ok := b.resolveName(stmt.RenameTo)
		if !ok {
			return result
		}
		if target.ID != schema.ID {
			schema.Events = slices.DeleteFunc(schema.Events, func(id EventID) bool { return id == e.ID })
			target.Events = append(target.Events, e.ID)
			e.Schema = target.ID
		}
		e.Name = newName
	}
	return result
}

func (b *Builder) addEvent(schema *Schema, name string) *Event {
	e := &Event{Schema: schema.ID, Name: name}
	e.ID = b.catalog.events.add(e)
	schema.Events = append(schema.Events, e.ID)
	return e
}

func applySchedule(e *Event, schedule *parser.EventSchedule) {
	if schedule == nil {
		return
	}
	e.At = schedule.At
	e.Interval = schedule.Every
	e.IntervalUnit = strings.ToUpper(schedule.Unit)
	e.Starts = schedule.Starts
	e.Ends = schedule.Ends
}

// serverName unquotes a server name. Servers are catalog-level objects and
// their names are never qualified.
func (b *Builder) serverName(id parser.Ident) string {
	return b.idents.Last(id)
}

func (b *Builder) createServer(stmt *parser.CreateServer) Result {
	name := b.serverName(stmt.Name)
	result := Result{Kind: "CREATE SERVER", Name: name}
	if name == "" {
		result.Skipped = true
		return result
	}

	server := b.catalog.LookupServer(name)
	if server == nil {
		server = b.addServer(name)
	} else {
		slog.Warn("Server redefined, previous definition replaced", "server", name)
		*server = Server{ID: server.ID, Name: name}
	}
	server.Wrapper = stmt.Wrapper
	applyServerOptions(server, stmt.Options)
	return result
}

func (b *Builder) alterServer(stmt *parser.AlterServer) Result {
	name := b.serverName(stmt.Name)
	result := Result{Kind: "ALTER SERVER", Name: name}
	if name == "" {
		result.Skipped = true
		return result
	}
	server := b.catalog.LookupServer(name)
	if server == nil {
		server = b.addServer(name)
	}
	applyServerOptions(server, stmt.Options)
	return result
}

func (b *Builder) addServer(name string) *Server {
	server := &Server{Name: name}
	server.ID = b.catalog.servers.add(server)
	b.catalog.Servers = append(b.catalog.Servers, server.ID)
	return server
}

func applyServerOptions(server *Server, options []parser.ServerOption) {
	for _, opt := range options {
		switch strings.ToUpper(opt.Name) {
		case "HOST":
			server.Host = opt.Value
		case "DATABASE":
			server.Database = opt.Value
		case "USER":
			server.User = opt.Value
		case "PASSWORD":
			server.Password = opt.Value
		case "SOCKET":
			server.Socket = opt.Value
		case "OWNER":
			server.Owner = opt.Value
		case "PORT":
			server.Port = opt.Value
		}
	}
}

func (b *Builder) createTablespace(stmt *parser.CreateTablespace) Result {
	name := b.idents.Last(stmt.Name)
	result := Result{Kind: "CREATE TABLESPACE", Name: name}
	if name == "" {
		result.Skipped = true
		return result
	}

	ts := b.catalog.LookupTablespace(name)
	switch {
	case ts == nil:
		ts = b.addTablespace(name)
	case stmt.IfNotExists:
		result.IgnoreIfExists = true
		return result
	default:
		slog.Warn("Tablespace redefined, previous definition replaced", "tablespace", name)
		*ts = Tablespace{ID: ts.ID, Name: name}
	}

	ts.Undo = stmt.Undo
	if stmt.DataFile != "" {
		ts.DataFiles = []string{stmt.DataFile}
	}
	ts.LogfileGroup = b.idents.Last(stmt.LogfileGroup)
	applyStorageOptions(&ts.StorageOptions, stmt.Options)
	return result
}

func (b *Builder) alterTablespace(stmt *parser.AlterTablespace) Result {
	name := b.idents.Last(stmt.Name)
	result := Result{Kind: "ALTER TABLESPACE", Name: name}
	if name == "" {
		result.Skipped = true
		return result
	}

	ts := b.catalog.LookupTablespace(name)
	if ts == nil {
		ts = b.addTablespace(name)
	}
	if stmt.AddDataFile != "" {
		ts.DataFiles = append(ts.DataFiles, stmt.AddDataFile)
	}
	if stmt.DropDataFile != "" {
		ts.DataFiles = slices.DeleteFunc(ts.DataFiles, func(f string) bool { return f == stmt.DropDataFile })
	}
	if newName := b.idents.Last(stmt.RenameTo); newName != "" {
		ts.Name = newName
	}
	applyStorageOptions(&ts.StorageOptions, stmt.Options)
	return result
}

func (b *Builder) addTablespace(name string) *Tablespace {
	ts := &Tablespace{Name: name}
	ts.ID = b.catalog.tablespaces.add(ts)
	b.catalog.Tablespaces = append(b.catalog.Tablespaces, ts.ID)
	return ts
}

func (b *Builder) createLogfileGroup(stmt *parser.CreateLogfileGroup) Result {
	name := b.idents.Last(stmt.Name)
	result := Result{Kind: "CREATE LOGFILE GROUP", Name: name}
	if name == "" {
		result.Skipped = true
		return result
	}

	lg := b.catalog.LookupLogfileGroup(name)
	if lg == nil {
		lg = b.addLogfileGroup(name)
	} else {
		slog.Warn("Logfile group redefined, previous definition replaced", "logfile_group", name)
		*lg = LogfileGroup{ID: lg.ID, Name: name}
	}
	if stmt.UndoFile != "" {
		lg.UndoFiles = []string{stmt.UndoFile}
	}
	applyStorageOptions(&lg.StorageOptions, stmt.Options)
	return result
}

func (b *Builder) alterLogfileGroup(stmt *parser.AlterLogfileGroup) Result {
	name := b.idents.Last(stmt.Name)
	result := Result{Kind: "ALTER LOGFILE GROUP", Name: name}
	if name == "" {
		result.Skipped = true
		return result
	}

	lg := b.catalog.LookupLogfileGroup(name)
	if lg == nil {
		lg = b.addLogfileGroup(name)
	}
	if stmt.UndoFile != "" {
		lg.UndoFiles = append(lg.UndoFiles, stmt.UndoFile)
	}
	applyStorageOptions(&lg.StorageOptions, stmt.Options)
	return result
}

func (b *Builder) addLogfileGroup(name string) *LogfileGroup {
	lg := &LogfileGroup{Name: name}
	lg.ID = b.catalog.logfileGroups.add(lg)
	b.catalog.LogfileGroups = append(b.catalog.LogfileGroups, lg.ID)
	return lg
}

func applyStorageOptions(so *StorageOptions, options []parser.Option) {
	for _, opt := range options {
		switch opt.Kind {
		case parser.OptionEngine:
			so.Engine = opt.Value
		case parser.OptionComment:
			so.Comment = opt.Value
		case parser.OptionInitialSize:
			so.InitialSize = opt.Value
		case parser.OptionExtentSize:
			so.ExtentSize = opt.Value
		case parser.OptionAutoextendSize:
			so.AutoextendSize = opt.Value
		case parser.OptionMaxSize:
			so.MaxSize = opt.Value
		case parser.OptionFileBlockSize:
			so.FileBlockSize = opt.Value
		case parser.OptionUndoBufferSize:
			so.UndoBufferSize = opt.Value
		case parser.OptionRedoBufferSize:
			so.RedoBufferSize = opt.Value
		case parser.OptionNodegroup:
			so.Nodegroup = opt.Value
		case parser.OptionEncryption:
			so.Encryption = strings.ToUpper(opt.Value)
		case parser.OptionWait:
			so.Wait = opt.Value == "1"
		}
	}
}
