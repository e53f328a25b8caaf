package parser

import "strings"

func (p *ddlParser) parseViewBody() *CreateView {
	view := &CreateView{Name: p.parseIdent()}
	if p.atPunct("(") {
		view.Columns = p.parseIdentList()
	}
	p.expectKeyword("AS")

	start := p.pos
	for !p.atEnd() {
		mark := p.pos
		if option, ok := p.parseCheckOption(); ok && p.atEnd() {
			view.CheckOption = option
			view.Definition = p.rawRange(start, mark)
			return view
		}
		p.pos = mark
		p.next()
	}
	view.Definition = p.raw(start)
	if view.Definition == "" {
		p.fail("expected view definition")
	}
	return view
}

func (p *ddlParser) parseCheckOption() (string, bool) {
	switch {
	case p.acceptKeyword("WITH", "CHECK", "OPTION"), p.acceptKeyword("WITH", "CASCADED", "CHECK", "OPTION"):
		return "CASCADED", true
	case p.acceptKeyword("WITH", "LOCAL", "CHECK", "OPTION"):
		return "LOCAL", true
	}
	return "", false
}

func (p *ddlParser) parseCreateTrigger(definer string) *CreateTrigger {
	trigger := &CreateTrigger{Definer: definer}
	trigger.IfNotExists = p.parseIfNotExists()
	trigger.Name = p.parseIdent()
	if !p.atAnyKeyword("BEFORE", "AFTER") {
		p.fail("expected BEFORE or AFTER")
	}
	trigger.Timing = p.keyword()
	if !p.atAnyKeyword("INSERT", "UPDATE", "DELETE") {
		p.fail("expected INSERT, UPDATE or DELETE")
	}
	trigger.Event = p.keyword()
	p.expectKeyword("ON")
	trigger.Table = p.parseIdent()
	p.expectKeyword("FOR", "EACH", "ROW")
	if p.atAnyKeyword("FOLLOWS", "PRECEDES") {
		trigger.Order = p.keyword()
		trigger.OtherTrigger = p.parseIdent()
	}
	trigger.Body = p.rest()
	if trigger.Body == "" {
		p.fail("expected trigger body")
	}
	return trigger
}

func (p *ddlParser) parseCreateRoutine(kind RoutineKind, prefix createPrefix) *CreateRoutine {
	routine := &CreateRoutine{Kind: kind, Definer: prefix.definer, Aggregate: prefix.aggregate}
	routine.IfNotExists = p.parseIfNotExists()
	routine.Name = p.parseIdent()

	if kind == RoutineFunction && !p.atPunct("(") {
		routine.Kind = RoutineUDF
		p.expectKeyword("RETURNS")
		routine.Returns = p.keyword()
		p.expectKeyword("SONAME")
		routine.SOName = p.stringValue()
		return routine
	}

	p.expectPunct("(")
	if !p.atPunct(")") {
		for {
			var param RoutineParam
			if kind == RoutineProcedure && p.atAnyKeyword("IN", "OUT", "INOUT") {
				param.Mode = p.keyword()
			}
			param.Name = p.parseIdent()
			param.Type = p.parseTypeText()
			routine.Params = append(routine.Params, param)
			if !p.acceptPunct(",") {
				break
			}
		}
	}
	p.expectPunct(")")

	if kind == RoutineFunction {
		p.expectKeyword("RETURNS")
		routine.Returns = p.parseTypeText()
	}
	routine.Characteristics = p.parseCharacteristics()
	routine.Body = p.rest()
	if routine.Body == "" {
		p.fail("expected routine body")
	}
	return routine
}

// parseTypeText parses a data type and returns it as written.
func (p *ddlParser) parseTypeText() string {
	start := p.pos
	p.parseDataType()
	if p.acceptKeyword("COLLATE") {
		p.nameValue()
	}
	return p.raw(start)
}

func (p *ddlParser) parseCharacteristics() []Characteristic {
	var chars []Characteristic
	for {
		switch {
		case p.acceptKeyword("COMMENT"):
			chars = append(chars, Characteristic{Kind: CharacteristicComment, Value: p.stringValue()})
		case p.acceptKeyword("LANGUAGE"):
			chars = append(chars, Characteristic{Kind: CharacteristicLanguage, Value: p.keyword()})
		case p.acceptKeyword("NOT", "DETERMINISTIC"):
			chars = append(chars, Characteristic{Kind: CharacteristicNotDeterministic})
		case p.acceptKeyword("DETERMINISTIC"):
			chars = append(chars, Characteristic{Kind: CharacteristicDeterministic})
		case p.acceptKeyword("CONTAINS", "SQL"):
			chars = append(chars, Characteristic{Kind: CharacteristicDataAccess, Value: "CONTAINS SQL"})
		case p.acceptKeyword("NO", "SQL"):
			chars = append(chars, Characteristic{Kind: CharacteristicDataAccess, Value: "NO SQL"})
		case p.acceptKeyword("READS", "SQL", "DATA"):
			chars = append(chars, Characteristic{Kind: CharacteristicDataAccess, Value: "READS SQL DATA"})
		case p.acceptKeyword("MODIFIES", "SQL", "DATA"):
			chars = append(chars, Characteristic{Kind: CharacteristicDataAccess, Value: "MODIFIES SQL DATA"})
		case p.acceptKeyword("SQL", "SECURITY"):
			chars = append(chars, Characteristic{Kind: CharacteristicSecurity, Value: p.keyword()})
		default:
			return chars
		}
	}
}

func (p *ddlParser) parseAlterRoutine(kind RoutineKind) *AlterRoutine {
	routine := &AlterRoutine{Kind: kind, Name: p.parseIdent()}
	routine.Characteristics = p.parseCharacteristics()
	return routine
}

var scheduleStops = []string{"STARTS", "ENDS", "ON", "ENABLE", "DISABLE", "COMMENT", "DO", "RENAME"}

func (p *ddlParser) parseSchedule() *EventSchedule {
	schedule := &EventSchedule{}
	if p.acceptKeyword("AT") {
		schedule.At = p.textUntil(scheduleStops...)
		return schedule
	}

	p.expectKeyword("EVERY")
	start := p.pos
	depth := 0
	for !p.atEnd() && !(depth == 0 && p.atAnyKeyword(scheduleStops...)) {
		if p.atPunct("(") {
			depth++
		} else if p.atPunct(")") {
			depth--
		}
		p.next()
	}
	if p.pos-start < 2 {
		p.fail("expected interval and unit")
	}
	schedule.Every = p.rawRange(start, p.pos-1)
	schedule.Unit = strings.ToUpper(p.tokens[p.pos-1].Val)

	if p.acceptKeyword("STARTS") {
		schedule.Starts = p.textUntil(scheduleStops...)
	}
	if p.acceptKeyword("ENDS") {
		schedule.Ends = p.textUntil(scheduleStops...)
	}
	return schedule
}

// parseEventStatus parses ENABLE, DISABLE or DISABLE ON SLAVE, or returns
// an empty string.
func (p *ddlParser) parseEventStatus() string {
	switch {
	case p.acceptKeyword("ENABLE"):
		return "ENABLE"
	case p.acceptKeyword("DISABLE", "ON", "SLAVE"), p.acceptKeyword("DISABLE", "ON", "REPLICA"):
		return "DISABLE ON SLAVE"
	case p.acceptKeyword("DISABLE"):
		return "DISABLE"
	}
	return ""
}

// parseCompletion parses ON COMPLETION [NOT] PRESERVE.
func (p *ddlParser) parseCompletion() (preserve bool, ok bool) {
	if !p.acceptKeyword("ON", "COMPLETION") {
		return false, false
	}
	preserve = !p.acceptKeyword("NOT")
	p.expectKeyword("PRESERVE")
	return preserve, true
}

func (p *ddlParser) parseCreateEvent(definer string) *CreateEvent {
	event := &CreateEvent{Definer: definer}
	event.IfNotExists = p.parseIfNotExists()
	event.Name = p.parseIdent()
	p.expectKeyword("ON", "SCHEDULE")
	event.Schedule = p.parseSchedule()
	for {
		if preserve, ok := p.parseCompletion(); ok {
			event.Preserve = preserve
			continue
		}
		if status := p.parseEventStatus(); status != "" {
			event.Status = status
			continue
		}
		if p.acceptKeyword("COMMENT") {
			event.Comment = p.stringValue()
			continue
		}
		break
	}
	p.expectKeyword("DO")
	event.Body = p.rest()
	if event.Body == "" {
		p.fail("expected event body")
	}
	return event
}

func (p *ddlParser) parseAlterEvent(definer string) *AlterEvent {
	event := &AlterEvent{Definer: definer, Name: p.parseIdent()}
	for {
		switch {
		case p.acceptKeyword("ON", "SCHEDULE"):
			event.Schedule = p.parseSchedule()
		case p.atKeyword("ON", "COMPLETION"):
			preserve, _ := p.parseCompletion()
			event.Preserve = &preserve
		case p.acceptKeyword("RENAME", "TO"):
			event.RenameTo = p.parseIdent()
		case p.acceptKeyword("COMMENT"):
			comment := p.stringValue()
			event.Comment = &comment
		case p.acceptKeyword("DO"):
			event.Body = p.rest()
			return event
		default:
			if status := p.parseEventStatus(); status != "" {
				event.Status = status
				continue
			}
			return event
		}
	}
}

func (p *ddlParser) parseServerOptions() []ServerOption {
	p.expectKeyword("OPTIONS")
	p.expectPunct("(")
	var options []ServerOption
	for {
		name := p.keyword()
		var value string
		if p.at(String) {
			value = p.stringValue()
		} else {
			value = p.numberValue()
		}
		options = append(options, ServerOption{Name: name, Value: value})
		if !p.acceptPunct(",") {
			break
		}
	}
	p.expectPunct(")")
	return options
}

func (p *ddlParser) parseCreateServer() *CreateServer {
	server := &CreateServer{Name: p.parseServerName()}
	p.expectKeyword("FOREIGN", "DATA", "WRAPPER")
	server.Wrapper = p.nameValue()
	server.Options = p.parseServerOptions()
	return server
}

func (p *ddlParser) parseAlterServer() *AlterServer {
	server := &AlterServer{Name: p.parseServerName()}
	server.Options = p.parseServerOptions()
	return server
}

// parseServerName accepts a quoted string as well as an identifier.
func (p *ddlParser) parseServerName() Ident {
	if p.at(String) {
		tok := p.next()
		return Ident{p.sql[tok.Pos:tok.End]}
	}
	return p.parseIdent()
}

func (p *ddlParser) parseCreateTablespace(undo bool) *CreateTablespace {
	ts := &CreateTablespace{Undo: undo}
	ts.IfNotExists = p.parseIfNotExists()
	ts.Name = p.parseIdent()
	for {
		switch {
		case p.acceptKeyword("ADD", "DATAFILE"):
			ts.DataFile = p.stringValue()
		case p.acceptKeyword("USE", "LOGFILE", "GROUP"):
			ts.LogfileGroup = p.parseIdent()
		case p.atOption(storageOptions):
			ts.Options = append(ts.Options, p.parseOptions(storageOptions)...)
		case p.atPunct(","):
			p.next()
		default:
			return ts
		}
	}
}

func (p *ddlParser) parseAlterTablespace() *AlterTablespace {
	ts := &AlterTablespace{Name: p.parseIdent()}
	for {
		switch {
		case p.acceptKeyword("ADD", "DATAFILE"):
			ts.AddDataFile = p.stringValue()
		case p.acceptKeyword("DROP", "DATAFILE"):
			ts.DropDataFile = p.stringValue()
		case p.acceptKeyword("RENAME", "TO"):
			ts.RenameTo = p.parseIdent()
		case p.acceptKeyword("SET"):
			// SET ACTIVE | INACTIVE of undo tablespaces has no catalog effect.
			p.keyword()
		case p.atOption(storageOptions):
			ts.Options = append(ts.Options, p.parseOptions(storageOptions)...)
		case p.atPunct(","):
			p.next()
		default:
			return ts
		}
	}
}

func (p *ddlParser) parseLogfileGroupBody() (Ident, string, []Option) {
	name := p.parseIdent()
	p.expectKeyword("ADD", "UNDOFILE")
	undoFile := p.stringValue()
	var options []Option
	for {
		switch {
		case p.atOption(storageOptions):
			options = append(options, p.parseOptions(storageOptions)...)
		case p.atPunct(","):
			p.next()
		default:
			return name, undoFile, options
		}
	}
}

func (p *ddlParser) parseCreateLogfileGroup() *CreateLogfileGroup {
	name, undoFile, options := p.parseLogfileGroupBody()
	return &CreateLogfileGroup{Name: name, UndoFile: undoFile, Options: options}
}

func (p *ddlParser) parseAlterLogfileGroup() *AlterLogfileGroup {
	name, undoFile, options := p.parseLogfileGroupBody()
	return &AlterLogfileGroup{Name: name, UndoFile: undoFile, Options: options}
}
