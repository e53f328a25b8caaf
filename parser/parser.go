package parser

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupported is returned for statements that do not define schema
// objects, such as DML, DROP or SET.
var ErrUnsupported = errors.New("unsupported statement")

type SyntaxError struct {
	Position int
	Near     string
	Message  string
}

func (e *SyntaxError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("syntax error at position %d near '%s'", e.Position, e.Near)
	}
	return fmt.Sprintf("syntax error at position %d near '%s': %s", e.Position, e.Near, e.Message)
}

// Use is USE <schema>, which changes the schema of unqualified names for the
// statements that follow it.
type Use struct {
	Schema Ident
}

func (*Use) iStatement() {}

// ParseDDL parses a single statement. A trailing semicolon is allowed.
func ParseDDL(sql string) (stmt Statement, err error) {
	tokens, err := Tokenize(sql)
	if err != nil {
		return nil, err
	}

	p := &ddlParser{sql: sql, tokens: tokens}
	defer func() {
		if r := recover(); r != nil {
			pe, ok := r.(parseError)
			if !ok {
				panic(r)
			}
			stmt, err = nil, pe.err
		}
	}()

	stmt = p.parseStatement()
	p.acceptPunct(";")
	if !p.at(EOF) {
		p.fail("unexpected input after end of statement")
	}
	return stmt, nil
}

type ddlParser struct {
	sql    string
	tokens []Token
	pos    int
}

// parseError carries a SyntaxError or ErrUnsupported out of the recursive
// descent. Nothing else is recovered.
type parseError struct {
	err error
}

func (p *ddlParser) fail(message string) {
	tok := p.peek()
	near := p.sql[tok.Pos:tok.End]
	if tok.Type == EOF {
		near = "EOF"
	}
	panic(parseError{&SyntaxError{Position: tok.Pos + 1, Near: near, Message: message}})
}

func (p *ddlParser) unsupported() {
	panic(parseError{ErrUnsupported})
}

func (p *ddlParser) parseStatement() Statement {
	switch {
	case p.acceptKeyword("CREATE"):
		return p.parseCreate()
	case p.acceptKeyword("ALTER"):
		return p.parseAlter()
	case p.acceptKeyword("USE"):
		return &Use{Schema: p.parseIdent()}
	}
	p.unsupported()
	return nil
}

// createPrefix collects the clauses that may precede the object kind of a
// CREATE statement.
type createPrefix struct {
	orReplace bool
	algorithm string
	definer   string
	security  string
	aggregate bool
	temporary bool
	undo      bool
	indexKind ConstraintKind
}

func (p *ddlParser) parseCreate() Statement {
	var prefix createPrefix
	prefix.indexKind = ConstraintIndex
	for {
		switch {
		case p.acceptKeyword("OR", "REPLACE"):
			prefix.orReplace = true
		case p.acceptKeyword("ALGORITHM"):
			p.acceptPunct("=")
			prefix.algorithm = p.keyword()
		case p.atKeyword("DEFINER"):
			prefix.definer = p.parseDefiner()
		case p.acceptKeyword("SQL", "SECURITY"):
			prefix.security = p.keyword()
		case p.acceptKeyword("AGGREGATE"):
			prefix.aggregate = true
		case p.acceptKeyword("TEMPORARY"):
			prefix.temporary = true
		case p.acceptKeyword("UNDO"):
			prefix.undo = true
		case p.acceptKeyword("UNIQUE"):
			prefix.indexKind = ConstraintUnique
		case p.acceptKeyword("FULLTEXT"):
			prefix.indexKind = ConstraintFulltext
		case p.acceptKeyword("SPATIAL"):
			prefix.indexKind = ConstraintSpatial
		case p.acceptKeyword("ONLINE"), p.acceptKeyword("OFFLINE"):
		default:
			return p.parseCreateObject(prefix)
		}
	}
}

func (p *ddlParser) parseCreateObject(prefix createPrefix) Statement {
	switch {
	case p.acceptKeyword("DATABASE"), p.acceptKeyword("SCHEMA"):
		return p.parseCreateSchema()
	case p.acceptKeyword("TABLE"):
		return p.parseCreateTable(prefix.temporary)
	case p.acceptKeyword("INDEX"):
		return p.parseCreateIndex(prefix.indexKind)
	case p.acceptKeyword("VIEW"):
		view := p.parseViewBody()
		view.OrReplace = prefix.orReplace
		view.Algorithm = prefix.algorithm
		view.Definer = prefix.definer
		view.Security = prefix.security
		return view
	case p.acceptKeyword("TRIGGER"):
		return p.parseCreateTrigger(prefix.definer)
	case p.acceptKeyword("PROCEDURE"):
		return p.parseCreateRoutine(RoutineProcedure, prefix)
	case p.acceptKeyword("FUNCTION"):
		return p.parseCreateRoutine(RoutineFunction, prefix)
	case p.acceptKeyword("EVENT"):
		return p.parseCreateEvent(prefix.definer)
	case p.acceptKeyword("SERVER"):
		return p.parseCreateServer()
	case p.acceptKeyword("TABLESPACE"):
		return p.parseCreateTablespace(prefix.undo)
	case p.acceptKeyword("LOGFILE", "GROUP"):
		return p.parseCreateLogfileGroup()
	}
	p.unsupported()
	return nil
}

func (p *ddlParser) parseAlter() Statement {
	var definer, algorithm, security string
prefix:
	for {
		switch {
		case p.acceptKeyword("ALGORITHM"):
			p.acceptPunct("=")
			algorithm = p.keyword()
		case p.atKeyword("DEFINER"):
			definer = p.parseDefiner()
		case p.acceptKeyword("SQL", "SECURITY"):
			security = p.keyword()
		case p.acceptKeyword("ONLINE"), p.acceptKeyword("OFFLINE"), p.acceptKeyword("IGNORE"), p.acceptKeyword("UNDO"):
		default:
			break prefix
		}
	}

	switch {
	case p.acceptKeyword("DATABASE"), p.acceptKeyword("SCHEMA"):
		return p.parseAlterSchema()
	case p.acceptKeyword("TABLE"):
		return p.parseAlterTable()
	case p.acceptKeyword("VIEW"):
		view := p.parseViewBody()
		view.Algorithm = algorithm
		view.Definer = definer
		view.Security = security
		return (*AlterView)(view)
	case p.acceptKeyword("PROCEDURE"):
		return p.parseAlterRoutine(RoutineProcedure)
	case p.acceptKeyword("FUNCTION"):
		return p.parseAlterRoutine(RoutineFunction)
	case p.acceptKeyword("EVENT"):
		return p.parseAlterEvent(definer)
	case p.acceptKeyword("SERVER"):
		return p.parseAlterServer()
	case p.acceptKeyword("TABLESPACE"):
		return p.parseAlterTablespace()
	case p.acceptKeyword("LOGFILE", "GROUP"):
		return p.parseAlterLogfileGroup()
	}
	p.unsupported()
	return nil
}

// Token stream helpers.

func (p *ddlParser) peek() Token {
	return p.tokens[p.pos]
}

func (p *ddlParser) peekAt(offset int) Token {
	if p.pos+offset >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos+offset]
}

func (p *ddlParser) next() Token {
	tok := p.tokens[p.pos]
	if tok.Type != EOF {
		p.pos++
	}
	return tok
}

func (p *ddlParser) at(typ TokenType) bool {
	return p.peek().Type == typ
}

func isKeyword(tok Token, keyword string) bool {
	return tok.Type == Word && strings.EqualFold(tok.Val, keyword)
}

// atKeyword reports whether the next tokens are the given keyword sequence.
func (p *ddlParser) atKeyword(keywords ...string) bool {
	for i, keyword := range keywords {
		if !isKeyword(p.peekAt(i), keyword) {
			return false
		}
	}
	return true
}

// atAnyKeyword reports whether the next token is one of the keywords.
func (p *ddlParser) atAnyKeyword(keywords ...string) bool {
	for _, keyword := range keywords {
		if isKeyword(p.peek(), keyword) {
			return true
		}
	}
	return false
}

// acceptKeyword consumes the keyword sequence if the next tokens match it.
func (p *ddlParser) acceptKeyword(keywords ...string) bool {
	if !p.atKeyword(keywords...) {
		return false
	}
	p.pos += len(keywords)
	return true
}

func (p *ddlParser) expectKeyword(keywords ...string) {
	if !p.acceptKeyword(keywords...) {
		p.fail("expected " + strings.Join(keywords, " "))
	}
}

func (p *ddlParser) atPunct(punct string) bool {
	tok := p.peek()
	return tok.Type == Punct && tok.Val == punct
}

func (p *ddlParser) acceptPunct(punct string) bool {
	if !p.atPunct(punct) {
		return false
	}
	p.pos++
	return true
}

func (p *ddlParser) expectPunct(punct string) {
	if !p.acceptPunct(punct) {
		p.fail("expected '" + punct + "'")
	}
}

func (p *ddlParser) atEnd() bool {
	return p.at(EOF) || p.atPunct(";")
}

// keyword consumes a word and returns it upper-cased.
func (p *ddlParser) keyword() string {
	if !p.at(Word) {
		p.fail("expected keyword")
	}
	return strings.ToUpper(p.next().Val)
}

// raw returns the source text of tokens [from, p.pos).
func (p *ddlParser) raw(from int) string {
	return p.rawRange(from, p.pos)
}

func (p *ddlParser) rawRange(from, to int) string {
	if from >= to {
		return ""
	}
	return p.sql[p.tokens[from].Pos:p.tokens[to-1].End]
}

// rest consumes the remainder of the statement and returns its text.
func (p *ddlParser) rest() string {
	start := p.pos
	for !p.at(EOF) {
		p.next()
	}
	text := strings.TrimSpace(p.raw(start))
	return strings.TrimSpace(strings.TrimSuffix(text, ";"))
}

// identPart consumes one identifier part and returns it as written.
func (p *ddlParser) identPart() string {
	tok := p.peek()
	if tok.Type != Word && tok.Type != QuotedIdent {
		p.fail("expected identifier")
	}
	p.next()
	return p.sql[tok.Pos:tok.End]
}

// parseIdent parses a possibly qualified identifier.
func (p *ddlParser) parseIdent() Ident {
	ident := Ident{p.identPart()}
	for p.atPunct(".") {
		p.next()
		ident = append(ident, p.identPart())
	}
	return ident
}

func (p *ddlParser) parseIdentList() []Ident {
	p.expectPunct("(")
	var idents []Ident
	for {
		idents = append(idents, p.parseIdent())
		if !p.acceptPunct(",") {
			break
		}
	}
	p.expectPunct(")")
	return idents
}

// stringValue consumes a string literal and returns its decoded value.
func (p *ddlParser) stringValue() string {
	if !p.at(String) {
		p.fail("expected string")
	}
	return p.next().Val
}

// nameValue consumes an identifier, keyword or string, and returns its
// decoded value.
func (p *ddlParser) nameValue() string {
	switch p.peek().Type {
	case Word, QuotedIdent, String:
		return p.next().Val
	}
	p.fail("expected name")
	return ""
}

// numberValue consumes a number, possibly signed or with a size suffix such
// as 16M, and returns it as written.
func (p *ddlParser) numberValue() string {
	start := p.pos
	if p.atPunct("-") || p.atPunct("+") {
		p.next()
	}
	switch p.peek().Type {
	case Number, HexNumber, Word:
		p.next()
	default:
		p.fail("expected number")
	}
	return p.raw(start)
}

// parenText consumes a parenthesized token group and returns the text inside
// the outer parentheses.
func (p *ddlParser) parenText() string {
	p.expectPunct("(")
	start := p.pos
	depth := 1
	for {
		switch {
		case p.at(EOF):
			p.fail("unbalanced parentheses")
		case p.atPunct("("):
			depth++
		case p.atPunct(")"):
			depth--
			if depth == 0 {
				text := p.raw(start)
				p.next()
				return text
			}
		}
		p.next()
	}
}

// textUntil consumes tokens until one of the stop keywords appears outside
// of parentheses, and returns their text.
func (p *ddlParser) textUntil(stop ...string) string {
	start := p.pos
	depth := 0
	for !p.atEnd() {
		if depth == 0 && (p.atAnyKeyword(stop...) || p.atPunct(",") || p.atPunct(")")) {
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
		p.fail("expected expression")
	}
	return p.raw(start)
}

func (p *ddlParser) parseIfNotExists() bool {
	return p.acceptKeyword("IF", "NOT", "EXISTS")
}

// parseDefiner parses DEFINER = user, returning the user as written.
func (p *ddlParser) parseDefiner() string {
	p.expectKeyword("DEFINER")
	p.expectPunct("=")
	start := p.pos
	if p.acceptKeyword("CURRENT_USER") {
		if p.acceptPunct("(") {
			p.expectPunct(")")
		}
		return p.raw(start)
	}
	switch p.peek().Type {
	case Word, String, QuotedIdent:
		p.next()
	default:
		p.fail("expected user name")
	}
	if p.acceptPunct("@") {
		switch p.peek().Type {
		case Word, String, QuotedIdent, Number:
			p.next()
		default:
			p.fail("expected host name")
		}
	}
	return p.raw(start)
}
