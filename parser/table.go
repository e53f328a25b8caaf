package parser

import "strings"

func (p *ddlParser) parseCreateSchema() *CreateSchema {
	stmt := &CreateSchema{}
	stmt.IfNotExists = p.parseIfNotExists()
	stmt.Name = p.parseIdent()
	stmt.Options = p.parseOptions(schemaOptions)
	return stmt
}

func (p *ddlParser) parseAlterSchema() *AlterSchema {
	stmt := &AlterSchema{}
	if !p.atOption(schemaOptions) {
		stmt.Name = p.parseIdent()
	}
	stmt.Options = p.parseOptions(schemaOptions)
	return stmt
}

func (p *ddlParser) parseCreateTable(temporary bool) *CreateTable {
	stmt := &CreateTable{Temporary: temporary}
	stmt.IfNotExists = p.parseIfNotExists()
	stmt.Table = p.parseIdent()

	if p.acceptKeyword("LIKE") {
		stmt.Like = p.parseIdent()
		return stmt
	}
	if p.atPunct("(") && isKeyword(p.peekAt(1), "LIKE") {
		p.next()
		p.next()
		stmt.Like = p.parseIdent()
		p.expectPunct(")")
		return stmt
	}

	if p.atPunct("(") && !isKeyword(p.peekAt(1), "SELECT") && !isKeyword(p.peekAt(1), "WITH") {
		p.next()
		for {
			stmt.Elements = append(stmt.Elements, p.parseTableElement())
			if !p.acceptPunct(",") {
				break
			}
		}
		p.expectPunct(")")
	}

	stmt.Options = p.parseOptions(tableOptions)
	if p.atKeyword("PARTITION", "BY") {
		stmt.Partition = p.parsePartition()
	}

	p.acceptKeyword("IGNORE")
	p.acceptKeyword("REPLACE")
	p.acceptKeyword("AS")
	switch {
	case p.atEnd():
	case p.atAnyKeyword("SELECT", "WITH", "TABLE", "VALUES"), p.atPunct("("):
		stmt.AsSelect = p.rest()
	default:
		p.fail("unexpected input after end of statement")
	}
	return stmt
}

var constraintStarts = []string{"CONSTRAINT", "PRIMARY", "UNIQUE", "INDEX", "KEY", "FULLTEXT", "SPATIAL", "FOREIGN", "CHECK"}

func (p *ddlParser) parseTableElement() TableElement {
	if p.atAnyKeyword(constraintStarts...) {
		return p.parseConstraint()
	}
	return p.parseColumnDef()
}

func (p *ddlParser) parseColumnDef() *ColumnDef {
	col := &ColumnDef{Name: p.parseIdent()}
	col.Type = p.parseDataType()

	for {
		if attr := p.parseColumnAttribute(col); attr != nil {
			col.Attributes = append(col.Attributes, attr)
			continue
		}
		if p.atEnd() || p.atPunct(",") || p.atPunct(")") || p.atAnyKeyword("FIRST", "AFTER") {
			return col
		}
		p.fail("unexpected column attribute")
	}
}

// typeContinuations lists the words that may follow a type keyword to form
// a compound type name.
var typeContinuations = map[string][]string{
	"NATIONAL":  {"CHAR", "CHARACTER", "VARCHAR", "VARCHARACTER"},
	"NCHAR":     {"VARCHAR", "VARYING"},
	"CHAR":      {"VARYING"},
	"CHARACTER": {"VARYING"},
	"LONG":      {"VARBINARY", "VARCHAR", "CHAR"},
	"DOUBLE":    {"PRECISION"},
}

func (p *ddlParser) parseDataType() *DataType {
	dt := &DataType{Names: []string{p.keyword()}}
	for len(dt.Names) < 3 {
		last := dt.Names[len(dt.Names)-1]
		matched := false
		for _, cont := range typeContinuations[last] {
			// LONG CHAR is only a type when followed by VARYING.
			if last == "LONG" && cont == "CHAR" && !isKeyword(p.peekAt(1), "VARYING") {
				continue
			}
			if p.acceptKeyword(cont) {
				dt.Names = append(dt.Names, cont)
				matched = true
				break
			}
		}
		if !matched {
			break
		}
	}

	switch dt.Names[0] {
	case "ENUM", "SET":
		p.expectPunct("(")
		for {
			tok := p.peek()
			if tok.Type != String {
				p.fail("expected string")
			}
			p.next()
			dt.Params = append(dt.Params, p.sql[tok.Pos:tok.End])
			if !p.acceptPunct(",") {
				break
			}
		}
		p.expectPunct(")")
	default:
		if p.acceptPunct("(") {
			first := p.numberValue()
			if p.acceptPunct(",") {
				dt.Precision = first
				dt.Scale = p.numberValue()
			} else {
				dt.Length = first
			}
			p.expectPunct(")")
		}
	}

	for {
		switch {
		case p.atAnyKeyword("UNSIGNED", "SIGNED", "ZEROFILL", "BINARY", "ASCII", "UNICODE", "BYTE"):
			dt.Flags = appendFlag(dt.Flags, p.keyword())
		case p.acceptKeyword("CHARACTER", "SET"), p.acceptKeyword("CHAR", "SET"), p.acceptKeyword("CHARSET"):
			dt.Charset = p.nameValue()
		default:
			return dt
		}
	}
}

func appendFlag(flags []string, flag string) []string {
	for _, f := range flags {
		if f == flag {
			return flags
		}
	}
	return append(flags, flag)
}

// parseColumnAttribute parses one attribute, or returns nil when the next
// tokens are not a column attribute. Generated column clauses are stored on
// col directly.
func (p *ddlParser) parseColumnAttribute(col *ColumnDef) ColumnAttribute {
	switch {
	case p.acceptKeyword("NOT", "NULL"):
		return &NullAttr{Not: true}
	case p.acceptKeyword("NULL"):
		return &NullAttr{}
	case p.acceptKeyword("DEFAULT"):
		return &DefaultAttr{Value: p.parseDefaultValue()}
	case p.acceptKeyword("ON", "UPDATE"):
		value := p.parseNowFunction()
		if value == nil {
			p.fail("expected CURRENT_TIMESTAMP")
		}
		return &OnUpdateAttr{Precision: value.Precision}
	case p.acceptKeyword("AUTO_INCREMENT"):
		return &AutoIncrementAttr{}
	case p.acceptKeyword("SERIAL", "DEFAULT", "VALUE"):
		return &SerialDefaultValueAttr{}
	case p.acceptKeyword("UNIQUE"):
		p.acceptKeyword("KEY")
		return &UniqueAttr{}
	case p.acceptKeyword("PRIMARY", "KEY"), p.acceptKeyword("KEY"):
		return &PrimaryKeyAttr{}
	case p.acceptKeyword("COMMENT"):
		return &CommentAttr{Text: p.stringValue()}
	case p.acceptKeyword("COLUMN_FORMAT"):
		return &ColumnFormatAttr{Format: p.keyword()}
	case p.acceptKeyword("STORAGE"):
		return &StorageAttr{Media: p.keyword()}
	case p.atKeyword("REFERENCES"):
		return &ReferencesAttr{Reference: p.parseReference()}
	case p.acceptKeyword("COLLATE"):
		return &CollateAttr{Name: p.nameValue()}
	case p.atKeyword("CONSTRAINT") && isKeyword(p.peekAt(2), "CHECK"), p.atKeyword("CONSTRAINT", "CHECK"), p.atKeyword("CHECK"):
		if p.acceptKeyword("CONSTRAINT") && !p.atKeyword("CHECK") {
			p.parseIdent()
		}
		p.expectKeyword("CHECK")
		attr := &CheckAttr{Expr: p.parenText()}
		p.parseEnforced()
		return attr
	case p.acceptKeyword("VISIBLE"):
		return &VisibilityAttr{Visible: true}
	case p.acceptKeyword("INVISIBLE"):
		return &VisibilityAttr{}
	case p.acceptKeyword("SRID"):
		return &SRIDAttr{Value: p.numberValue()}
	case p.atKeyword("GENERATED", "ALWAYS"), p.atKeyword("AS"):
		p.acceptKeyword("GENERATED", "ALWAYS")
		p.expectKeyword("AS")
		gen := &GeneratedColumn{Expr: p.parenText()}
		if p.acceptKeyword("STORED") || p.acceptKeyword("PERSISTENT") {
			gen.Stored = true
		} else {
			p.acceptKeyword("VIRTUAL")
		}
		col.Generated = gen
		return p.parseColumnAttribute(col)
	}
	return nil
}

func (p *ddlParser) parseEnforced() {
	if !p.acceptKeyword("NOT", "ENFORCED") {
		p.acceptKeyword("ENFORCED")
	}
}

var nowFunctions = []string{"NOW", "CURRENT_TIMESTAMP", "LOCALTIME", "LOCALTIMESTAMP"}

// parseNowFunction parses NOW() or one of its synonyms, or returns nil.
func (p *ddlParser) parseNowFunction() *DefaultValue {
	if !p.atAnyKeyword(nowFunctions...) {
		return nil
	}
	fn := p.keyword()
	value := &DefaultValue{Kind: DefaultNow, Text: "CURRENT_TIMESTAMP"}
	if p.acceptPunct("(") {
		if !p.atPunct(")") {
			value.Precision = p.numberValue()
		}
		p.expectPunct(")")
	} else if fn == "NOW" {
		p.fail("expected '('")
	}
	return value
}

func (p *ddlParser) parseDefaultValue() DefaultValue {
	if now := p.parseNowFunction(); now != nil {
		return *now
	}
	if p.atPunct("(") {
		start := p.pos
		p.parenText()
		return DefaultValue{Kind: DefaultExpr, Text: p.raw(start)}
	}

	start := p.pos
	if p.atPunct("-") || p.atPunct("+") {
		p.next()
	}
	tok := p.peek()
	switch tok.Type {
	case Number, String, HexNumber, BitNumber:
		p.next()
	case Word:
		p.next()
		// Charset introducer (_utf8mb4'x') or typed literal (DATE '2020-01-01').
		if p.at(String) {
			p.next()
		}
	default:
		p.fail("expected default value")
	}
	return DefaultValue{Kind: DefaultLiteral, Text: p.raw(start)}
}

func (p *ddlParser) parseReference() *Reference {
	p.expectKeyword("REFERENCES")
	ref := &Reference{Table: p.parseIdent()}
	if p.atPunct("(") {
		for _, key := range p.parseKeyParts() {
			ref.Columns = append(ref.Columns, key.Column)
		}
	}
	for {
		switch {
		case p.acceptKeyword("MATCH"):
			ref.Match = p.keyword()
		case p.acceptKeyword("ON", "DELETE"):
			ref.OnDelete = p.parseReferenceOption()
		case p.acceptKeyword("ON", "UPDATE"):
			ref.OnUpdate = p.parseReferenceOption()
		default:
			return ref
		}
	}
}

func (p *ddlParser) parseReferenceOption() string {
	switch {
	case p.acceptKeyword("SET", "NULL"):
		return "SET NULL"
	case p.acceptKeyword("SET", "DEFAULT"):
		return "SET DEFAULT"
	case p.acceptKeyword("NO", "ACTION"):
		return "NO ACTION"
	case p.atAnyKeyword("RESTRICT", "CASCADE"):
		return p.keyword()
	}
	p.fail("expected reference option")
	return ""
}

func (p *ddlParser) parseConstraint() *Constraint {
	c := &Constraint{}
	if p.acceptKeyword("CONSTRAINT") {
		if !p.atAnyKeyword("PRIMARY", "UNIQUE", "FOREIGN", "CHECK") {
			c.Symbol = p.parseIdent()
		}
	}

	switch {
	case p.acceptKeyword("PRIMARY", "KEY"):
		c.Kind = ConstraintPrimary
	case p.acceptKeyword("UNIQUE"):
		c.Kind = ConstraintUnique
		if !p.acceptKeyword("INDEX") {
			p.acceptKeyword("KEY")
		}
	case p.acceptKeyword("INDEX"), p.acceptKeyword("KEY"):
		c.Kind = ConstraintIndex
	case p.acceptKeyword("FULLTEXT"):
		c.Kind = ConstraintFulltext
		if !p.acceptKeyword("INDEX") {
			p.acceptKeyword("KEY")
		}
	case p.acceptKeyword("SPATIAL"):
		c.Kind = ConstraintSpatial
		if !p.acceptKeyword("INDEX") {
			p.acceptKeyword("KEY")
		}
	case p.acceptKeyword("FOREIGN", "KEY"):
		c.Kind = ConstraintForeign
	case p.acceptKeyword("CHECK"):
		c.Kind = ConstraintCheck
		c.Check = p.parenText()
		p.parseEnforced()
		return c
	default:
		p.fail("expected constraint")
	}

	if !p.atPunct("(") && !p.atKeyword("USING") && !p.atKeyword("TYPE") {
		c.IndexName = p.parseIdent()
	}
	c.Options = append(c.Options, p.parseIndexTypeOption()...)
	c.Keys = p.parseKeyParts()
	if c.Kind == ConstraintForeign {
		c.Reference = p.parseReference()
		return c
	}
	c.Options = append(c.Options, p.parseIndexOptions()...)
	return c
}

// parseIndexTypeOption parses an optional USING {BTREE|HASH} before a key
// list.
func (p *ddlParser) parseIndexTypeOption() []IndexOption {
	if p.acceptKeyword("USING") || p.acceptKeyword("TYPE") {
		return []IndexOption{{Kind: IndexOptionType, Value: p.keyword()}}
	}
	return nil
}

func (p *ddlParser) parseKeyParts() []KeyPart {
	p.expectPunct("(")
	var keys []KeyPart
	for {
		var key KeyPart
		if p.atPunct("(") {
			key.Expr = p.parenText()
		} else {
			key.Column = p.parseIdent()
			if p.acceptPunct("(") {
				key.Length = p.numberValue()
				p.expectPunct(")")
			}
		}
		if p.atAnyKeyword("ASC", "DESC") {
			key.Direction = p.keyword()
		}
		keys = append(keys, key)
		if !p.acceptPunct(",") {
			break
		}
	}
	p.expectPunct(")")
	return keys
}

func (p *ddlParser) parseIndexOptions() []IndexOption {
	var options []IndexOption
	for {
		switch {
		case p.acceptKeyword("USING"), p.acceptKeyword("TYPE"):
			options = append(options, IndexOption{Kind: IndexOptionType, Value: p.keyword()})
		case p.acceptKeyword("KEY_BLOCK_SIZE"):
			p.acceptPunct("=")
			options = append(options, IndexOption{Kind: IndexOptionKeyBlockSize, Value: p.numberValue()})
		case p.acceptKeyword("COMMENT"):
			options = append(options, IndexOption{Kind: IndexOptionComment, Value: p.stringValue()})
		case p.acceptKeyword("WITH", "PARSER"):
			options = append(options, IndexOption{Kind: IndexOptionParser, Value: p.nameValue()})
		case p.acceptKeyword("VISIBLE"):
			options = append(options, IndexOption{Kind: IndexOptionVisible})
		case p.acceptKeyword("INVISIBLE"):
			options = append(options, IndexOption{Kind: IndexOptionInvisible})
		default:
			return options
		}
	}
}

func (p *ddlParser) parseCreateIndex(kind ConstraintKind) *CreateIndex {
	stmt := &CreateIndex{Kind: kind}
	stmt.IfNotExists = p.parseIfNotExists()
	stmt.Name = p.parseIdent()
	stmt.Options = p.parseIndexTypeOption()
	p.expectKeyword("ON")
	stmt.Table = p.parseIdent()
	stmt.Keys = p.parseKeyParts()
	stmt.Options = append(stmt.Options, p.parseIndexOptions()...)
	for {
		switch {
		case p.acceptKeyword("ALGORITHM"):
			p.acceptPunct("=")
			stmt.Options = append(stmt.Options, IndexOption{Kind: IndexOptionAlgorithm, Value: p.keyword()})
		case p.acceptKeyword("LOCK"):
			p.acceptPunct("=")
			stmt.Options = append(stmt.Options, IndexOption{Kind: IndexOptionLock, Value: p.keyword()})
		default:
			return stmt
		}
	}
}

func (p *ddlParser) parseAlterTable() *AlterTable {
	stmt := &AlterTable{Table: p.parseIdent()}
	for !p.atEnd() {
		stmt.Actions = append(stmt.Actions, p.parseAlterAction())
		if !p.acceptPunct(",") {
			break
		}
	}
	if p.atKeyword("PARTITION", "BY") {
		stmt.Actions = append(stmt.Actions, &AlterPartition{Partition: p.parsePartition()})
	}
	return stmt
}

func (p *ddlParser) parseAlterAction() AlterAction {
	switch {
	case p.atKeyword("PARTITION", "BY"):
		return &AlterPartition{Partition: p.parsePartition()}
	case p.atKeyword("ADD") && !p.atKeyword("ADD", "PARTITION"):
		p.next()
		if p.atAnyKeyword(constraintStarts...) {
			return &AddConstraint{Constraint: p.parseConstraint()}
		}
		p.acceptKeyword("COLUMN")
		action := &AddColumns{}
		if p.acceptPunct("(") {
			for {
				action.Columns = append(action.Columns, p.parseColumnDef())
				if !p.acceptPunct(",") {
					break
				}
			}
			p.expectPunct(")")
			return action
		}
		action.Columns = append(action.Columns, p.parseColumnDef())
		if p.acceptKeyword("FIRST") {
			action.First = true
		} else if p.acceptKeyword("AFTER") {
			action.After = p.parseIdent()
		}
		return action
	case p.atOption(tableOptions):
		return &AlterOptions{Options: p.parseOptions(tableOptions)}
	}

	start := p.pos
	depth := 0
	for !p.atEnd() {
		if depth == 0 && p.atPunct(",") {
			break
		}
		if p.atPunct("(") {
			depth++
		} else if p.atPunct(")") {
			depth--
		}
		p.next()
	}
	if start == p.pos {
		p.fail("expected ALTER TABLE action")
	}
	return &OtherAction{Text: p.raw(start)}
}

func (p *ddlParser) parsePartition() *Partition {
	p.expectKeyword("PARTITION", "BY")
	part := &Partition{}
	part.Linear, part.Type, part.UseColumns, part.Algorithm, part.Columns, part.Expr = p.parsePartitionMethod()
	if p.acceptKeyword("PARTITIONS") {
		part.Count = p.numberValue()
	}

	if p.acceptKeyword("SUBPARTITION", "BY") {
		sub := &SubPartition{}
		sub.Linear, sub.Type, _, sub.Algorithm, sub.Columns, sub.Expr = p.parsePartitionMethod()
		if p.acceptKeyword("SUBPARTITIONS") {
			sub.Count = p.numberValue()
		}
		part.Sub = sub
	}

	if p.atPunct("(") && isKeyword(p.peekAt(1), "PARTITION") {
		p.next()
		for {
			part.Definitions = append(part.Definitions, p.parsePartitionDef())
			if !p.acceptPunct(",") {
				break
			}
		}
		p.expectPunct(")")
	}
	return part
}

func (p *ddlParser) parsePartitionMethod() (linear bool, typ string, useColumns bool, algorithm string, columns []Ident, expr string) {
	linear = p.acceptKeyword("LINEAR")
	switch {
	case p.acceptKeyword("HASH"):
		typ = "HASH"
		expr = p.parenText()
	case p.acceptKeyword("KEY"):
		typ = "KEY"
		if p.acceptKeyword("ALGORITHM") {
			p.expectPunct("=")
			algorithm = p.numberValue()
		}
		if p.atPunct("(") && p.peekAt(1).Type == Punct && p.peekAt(1).Val == ")" {
			p.next()
			p.next()
		} else {
			columns = p.parseIdentList()
		}
	case p.atAnyKeyword("RANGE", "LIST"):
		typ = p.keyword()
		if p.acceptKeyword("COLUMNS") {
			useColumns = true
			columns = p.parseIdentList()
		} else {
			expr = p.parenText()
		}
	default:
		p.fail("expected partitioning method")
	}
	return
}

func (p *ddlParser) parsePartitionDef() *PartitionDef {
	p.expectKeyword("PARTITION")
	def := &PartitionDef{Name: p.parseIdent()}
	if p.acceptKeyword("VALUES") {
		start := p.pos
		switch {
		case p.acceptKeyword("LESS", "THAN"):
			if !p.acceptKeyword("MAXVALUE") {
				p.parenText()
			}
		case p.acceptKeyword("IN"):
			p.parenText()
		default:
			p.fail("expected LESS THAN or IN")
		}
		def.Values = p.raw(start)
	}
	def.Options = p.parseOptions(partitionOptions)

	if p.atPunct("(") && isKeyword(p.peekAt(1), "SUBPARTITION") {
		p.next()
		for {
			p.expectKeyword("SUBPARTITION")
			sub := &SubPartitionDef{Name: p.parseIdent()}
			sub.Options = p.parseOptions(partitionOptions)
			def.Subs = append(def.Subs, sub)
			if !p.acceptPunct(",") {
				break
			}
		}
		p.expectPunct(")")
	}
	return def
}

// Options shared by schemas, tables, partitions, tablespaces and logfile
// groups.

type optionValue int

const (
	optName optionValue = iota
	optString
	optNumber
	// optTernary is a number or DEFAULT.
	optTernary
	optTables
	optFlag
)

type optionSpec struct {
	kind  OptionKind
	value optionValue
}

// optionSet maps an option keyword, or a keyword sequence joined by a
// space, to its spec.
type optionSet map[string]optionSpec

var schemaOptions = optionSet{
	"CHARACTER SET": {OptionCharset, optName},
	"CHAR SET":      {OptionCharset, optName},
	"CHARSET":       {OptionCharset, optName},
	"COLLATE":       {OptionCollate, optName},
	"ENCRYPTION":    {OptionEncryption, optString},
}

var tableOptions = optionSet{
	"ENGINE":             {OptionEngine, optName},
	"TYPE":               {OptionEngine, optName},
	"CHARACTER SET":      {OptionCharset, optName},
	"CHAR SET":           {OptionCharset, optName},
	"CHARSET":            {OptionCharset, optName},
	"COLLATE":            {OptionCollate, optName},
	"COMMENT":            {OptionComment, optString},
	"ROW_FORMAT":         {OptionRowFormat, optName},
	"AUTO_INCREMENT":     {OptionAutoIncrement, optNumber},
	"MAX_ROWS":           {OptionMaxRows, optNumber},
	"MIN_ROWS":           {OptionMinRows, optNumber},
	"AVG_ROW_LENGTH":     {OptionAvgRowLength, optNumber},
	"PACK_KEYS":          {OptionPackKeys, optTernary},
	"STATS_PERSISTENT":   {OptionStatsPersistent, optTernary},
	"STATS_AUTO_RECALC":  {OptionStatsAutoRecalc, optTernary},
	"STATS_SAMPLE_PAGES": {OptionStatsSamplePages, optTernary},
	"CHECKSUM":           {OptionChecksum, optNumber},
	"TABLE_CHECKSUM":     {OptionChecksum, optNumber},
	"DELAY_KEY_WRITE":    {OptionDelayKeyWrite, optNumber},
	"UNION":              {OptionUnion, optTables},
	"INSERT_METHOD":      {OptionInsertMethod, optName},
	"KEY_BLOCK_SIZE":     {OptionKeyBlockSize, optNumber},
	"TABLESPACE":         {OptionTablespace, optName},
	"STORAGE":            {OptionStorage, optName},
	"DATA DIRECTORY":     {OptionDataDirectory, optString},
	"INDEX DIRECTORY":    {OptionIndexDirectory, optString},
	"CONNECTION":         {OptionConnection, optString},
	"PASSWORD":           {OptionPassword, optString},
	"COMPRESSION":        {OptionCompression, optString},
	"ENCRYPTION":         {OptionEncryption, optString},
	"AUTOEXTEND_SIZE":    {OptionAutoextendSize, optNumber},
}

var partitionOptions = optionSet{
	"ENGINE":          {OptionEngine, optName},
	"STORAGE ENGINE":  {OptionEngine, optName},
	"COMMENT":         {OptionComment, optString},
	"DATA DIRECTORY":  {OptionDataDirectory, optString},
	"INDEX DIRECTORY": {OptionIndexDirectory, optString},
	"MAX_ROWS":        {OptionMaxRows, optNumber},
	"MIN_ROWS":        {OptionMinRows, optNumber},
	"TABLESPACE":      {OptionTablespace, optName},
	"NODEGROUP":       {OptionNodegroup, optNumber},
}

var storageOptions = optionSet{
	"ENGINE":           {OptionEngine, optName},
	"STORAGE ENGINE":   {OptionEngine, optName},
	"COMMENT":          {OptionComment, optString},
	"INITIAL_SIZE":     {OptionInitialSize, optNumber},
	"EXTENT_SIZE":      {OptionExtentSize, optNumber},
	"AUTOEXTEND_SIZE":  {OptionAutoextendSize, optNumber},
	"MAX_SIZE":         {OptionMaxSize, optNumber},
	"FILE_BLOCK_SIZE":  {OptionFileBlockSize, optNumber},
	"UNDO_BUFFER_SIZE": {OptionUndoBufferSize, optNumber},
	"REDO_BUFFER_SIZE": {OptionRedoBufferSize, optNumber},
	"NODEGROUP":        {OptionNodegroup, optNumber},
	"ENCRYPTION":       {OptionEncryption, optString},
	"WAIT":             {OptionWait, optFlag},
	"NO_WAIT":          {OptionWait, optFlag},
}

// matchOption returns the spec and the number of keyword tokens of the
// option at the current position.
func (p *ddlParser) matchOption(set optionSet) (optionSpec, int, bool) {
	offset := 0
	if isKeyword(p.peek(), "DEFAULT") {
		offset = 1
	}
	first := p.peekAt(offset)
	if first.Type != Word {
		return optionSpec{}, 0, false
	}
	second := p.peekAt(offset + 1)
	if second.Type == Word {
		if spec, ok := set[strings.ToUpper(first.Val+" "+second.Val)]; ok {
			return spec, offset + 2, true
		}
	}
	if spec, ok := set[strings.ToUpper(first.Val)]; ok {
		return spec, offset + 1, true
	}
	return optionSpec{}, 0, false
}

func (p *ddlParser) atOption(set optionSet) bool {
	_, _, ok := p.matchOption(set)
	return ok
}

// parseOptions parses options separated by blanks or commas. A comma that
// is not followed by another option is left for the caller.
func (p *ddlParser) parseOptions(set optionSet) []Option {
	var options []Option
	for {
		spec, n, ok := p.matchOption(set)
		if !ok {
			return options
		}
		wait := isKeyword(p.peekAt(n-1), "WAIT")
		p.pos += n
		if spec.value != optFlag {
			p.acceptPunct("=")
		}

		opt := Option{Kind: spec.kind}
		switch spec.value {
		case optName:
			if p.acceptKeyword("DEFAULT") {
				opt.Default = true
				opt.Value = "default"
			} else {
				opt.Value = p.nameValue()
			}
			if spec.kind == OptionTablespace && p.acceptKeyword("STORAGE") {
				options = append(options, opt)
				opt = Option{Kind: OptionStorage, Value: p.keyword()}
			}
		case optString:
			opt.Value = p.stringValue()
		case optNumber:
			opt.Value = p.numberValue()
		case optTernary:
			if p.acceptKeyword("DEFAULT") {
				opt.Default = true
				opt.Value = "DEFAULT"
			} else {
				opt.Value = p.numberValue()
			}
		case optTables:
			opt.Tables = p.parseIdentList()
		case optFlag:
			if wait {
				opt.Value = "1"
			} else {
				opt.Value = "0"
			}
		}
		options = append(options, opt)

		if p.atPunct(",") {
			save := p.pos
			p.next()
			if !p.atOption(set) {
				p.pos = save
				return options
			}
		}
	}
}
