/*
Copyright 2017 Google Inc.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package parser

import (
	"fmt"
	"strings"
)

const eofChar = 0x100

type TokenType int

const (
	EOF TokenType = iota
	LexError
	// Word is an unquoted identifier or keyword.
	Word
	// QuotedIdent is a backtick-quoted identifier.
	QuotedIdent
	String
	Number
	HexNumber
	BitNumber
	// Punct is an operator or punctuation character.
	Punct
)

var tokenTypeNames = map[TokenType]string{
	EOF:         "EOF",
	LexError:    "LEX_ERROR",
	Word:        "WORD",
	QuotedIdent: "QUOTED_IDENT",
	String:      "STRING",
	Number:      "NUMBER",
	HexNumber:   "HEX",
	BitNumber:   "BIT",
	Punct:       "PUNCT",
}

func (t TokenType) String() string {
	return tokenTypeNames[t]
}

// Token is one lexical token. Val is the decoded value: quotes are removed
// from identifiers and strings, and escapes are resolved. Pos and End are
// byte offsets into the scanned text.
type Token struct {
	Type TokenType
	Val  string
	Pos  int
	End  int
}

// Tokenizer is the struct used to generate SQL tokens for the parser.
//
// The contents of MySQL versioned comments (/*!50100 ... */) are scanned as
// regular tokens, other comments are skipped.
type Tokenizer struct {
	Position  int
	LastError error

	lastChar         uint16
	inSpecialComment bool

	buf     string
	bufPos  int
	bufSize int
}

// NewStringTokenizer creates a new Tokenizer for the sql string.
func NewStringTokenizer(sql string) *Tokenizer {
	return &Tokenizer{
		buf:     sql,
		bufSize: len(sql),
	}
}

// Tokenize scans the whole text. The returned slice always ends with an EOF
// token unless scanning failed.
func Tokenize(sql string) ([]Token, error) {
	tkn := NewStringTokenizer(sql)
	var tokens []Token
	for {
		tok := tkn.Scan()
		if tok.Type == LexError {
			return nil, tkn.LastError
		}
		tokens = append(tokens, tok)
		if tok.Type == EOF {
			return tokens, nil
		}
	}
}

// Scan returns the next token.
func (tkn *Tokenizer) Scan() Token {
	if tkn.lastChar == 0 {
		tkn.next()
	}
	for {
		tkn.skipBlank()
		if !tkn.skipComment() {
			break
		}
	}

	start := tkn.Position - 1
	typ, val := tkn.scan()
	if typ == LexError && tkn.LastError == nil {
		tkn.LastError = fmt.Errorf("syntax error at position %d near '%s'", start+1, val)
	}
	return Token{Type: typ, Val: val, Pos: start, End: tkn.Position - 1}
}

func (tkn *Tokenizer) scan() (TokenType, string) {
	switch ch := tkn.lastChar; {
	case ch == eofChar:
		return EOF, ""
	case isLetter(ch):
		tkn.next()
		if (ch == 'X' || ch == 'x') && tkn.lastChar == '\'' {
			tkn.next()
			return tkn.scanHex()
		}
		if (ch == 'B' || ch == 'b') && tkn.lastChar == '\'' {
			tkn.next()
			return tkn.scanBitLiteral()
		}
		if (ch == 'N' || ch == 'n') && tkn.lastChar == '\'' {
			tkn.next()
			return tkn.scanString('\'')
		}
		return tkn.scanIdentifier(byte(ch))
	case isDigit(ch):
		return tkn.scanNumber()
	}

	ch := tkn.lastChar
	tkn.next()
	switch ch {
	case '`':
		return tkn.scanLiteralIdentifier('`')
	case '\'', '"':
		return tkn.scanString(ch)
	case '.':
		if isDigit(tkn.lastChar) {
			var buffer strings.Builder
			buffer.WriteByte('.')
			tkn.scanMantissa(10, &buffer)
			return Number, buffer.String()
		}
		return Punct, "."
	case '<':
		switch tkn.lastChar {
		case '>', '<':
			op := "<" + string(rune(tkn.lastChar))
			tkn.next()
			return Punct, op
		case '=':
			tkn.next()
			if tkn.lastChar == '>' {
				tkn.next()
				return Punct, "<=>"
			}
			return Punct, "<="
		}
		return Punct, "<"
	case '>':
		if tkn.lastChar == '=' || tkn.lastChar == '>' {
			op := ">" + string(rune(tkn.lastChar))
			tkn.next()
			return Punct, op
		}
		return Punct, ">"
	case '!':
		if tkn.lastChar == '=' {
			tkn.next()
			return Punct, "!="
		}
		return Punct, "!"
	case ':':
		if tkn.lastChar == '=' {
			tkn.next()
			return Punct, ":="
		}
		return Punct, ":"
	case '|', '&':
		if tkn.lastChar == ch {
			tkn.next()
			return Punct, string(rune(ch)) + string(rune(ch))
		}
		return Punct, string(rune(ch))
	case '-':
		if tkn.lastChar == '>' {
			tkn.next()
			if tkn.lastChar == '>' {
				tkn.next()
				return Punct, "->>"
			}
			return Punct, "->"
		}
		return Punct, "-"
	case '(', ')', ',', ';', '=', '+', '*', '/', '%', '^', '~', '@', '?', '{', '}', '[', ']':
		return Punct, string(rune(ch))
	}
	return LexError, string(rune(ch))
}

// skipComment consumes one comment at the current position, and reports
// whether it did.
func (tkn *Tokenizer) skipComment() bool {
	switch tkn.lastChar {
	case '#':
		tkn.skipLine()
		return true
	case '-':
		if tkn.peek() == '-' {
			// "--" starts a comment only when followed by a blank or the end.
			if after := tkn.peekAt(1); after == eofChar || after == ' ' || after == '\t' || after == '\n' || after == '\r' {
				tkn.skipLine()
				return true
			}
		}
	case '/':
		if tkn.peek() != '*' {
			return false
		}
		tkn.next()
		tkn.next()
		if tkn.lastChar == '!' {
			tkn.next()
			for isDigit(tkn.lastChar) {
				tkn.next()
			}
			tkn.inSpecialComment = true
			return true
		}
		for tkn.lastChar != eofChar {
			if tkn.lastChar == '*' && tkn.peek() == '/' {
				tkn.next()
				tkn.next()
				return true
			}
			tkn.next()
		}
		return true
	case '*':
		if tkn.inSpecialComment && tkn.peek() == '/' {
			tkn.next()
			tkn.next()
			tkn.inSpecialComment = false
			return true
		}
	}
	return false
}

func (tkn *Tokenizer) skipLine() {
	for tkn.lastChar != eofChar && tkn.lastChar != '\n' {
		tkn.next()
	}
}

func (tkn *Tokenizer) skipBlank() {
	ch := tkn.lastChar
	for ch == ' ' || ch == '\n' || ch == '\r' || ch == '\t' || ch == '\f' {
		tkn.next()
		ch = tkn.lastChar
	}
}

func (tkn *Tokenizer) scanIdentifier(firstByte byte) (TokenType, string) {
	var buffer strings.Builder
	buffer.WriteByte(firstByte)
	for isLetter(tkn.lastChar) || isDigit(tkn.lastChar) {
		buffer.WriteByte(byte(tkn.lastChar))
		tkn.next()
	}
	return Word, buffer.String()
}

func (tkn *Tokenizer) scanHex() (TokenType, string) {
	var buffer strings.Builder
	tkn.scanMantissa(16, &buffer)
	if tkn.lastChar != '\'' {
		return LexError, buffer.String()
	}
	tkn.next()
	if buffer.Len()%2 != 0 {
		return LexError, buffer.String()
	}
	return HexNumber, buffer.String()
}

func (tkn *Tokenizer) scanBitLiteral() (TokenType, string) {
	var buffer strings.Builder
	tkn.scanMantissa(2, &buffer)
	if tkn.lastChar != '\'' {
		return LexError, buffer.String()
	}
	tkn.next()
	return BitNumber, buffer.String()
}

func (tkn *Tokenizer) scanLiteralIdentifier(sepChar uint16) (TokenType, string) {
	var buffer strings.Builder
	backTickSeen := false
	for {
		if backTickSeen {
			if tkn.lastChar != sepChar {
				break
			}
			backTickSeen = false
			buffer.WriteByte(byte(sepChar))
			tkn.next()
			continue
		}
		// The previous char was not a backtick.
		switch tkn.lastChar {
		case sepChar:
			backTickSeen = true
		case eofChar:
			// Premature EOF.
			return LexError, buffer.String()
		default:
			buffer.WriteByte(byte(tkn.lastChar))
		}
		tkn.next()
	}
	if buffer.Len() == 0 {
		return LexError, buffer.String()
	}
	return QuotedIdent, buffer.String()
}

func (tkn *Tokenizer) scanMantissa(base int, buffer *strings.Builder) {
	for digitVal(tkn.lastChar) < base {
		buffer.WriteByte(byte(tkn.lastChar))
		tkn.next()
	}
}

// scanNumber scans a number. MySQL identifiers may start with a digit, so a
// number immediately followed by a letter is scanned as a Word.
func (tkn *Tokenizer) scanNumber() (TokenType, string) {
	var buffer strings.Builder

	if tkn.lastChar == '0' && (tkn.peek() == 'x' || tkn.peek() == 'X') {
		buffer.WriteString("0x")
		tkn.next()
		tkn.next()
		tkn.scanMantissa(16, &buffer)
		return HexNumber, buffer.String()
	}

	tkn.scanMantissa(10, &buffer)
	if isLetter(tkn.lastChar) && tkn.lastChar != 'e' && tkn.lastChar != 'E' {
		for isLetter(tkn.lastChar) || isDigit(tkn.lastChar) {
			buffer.WriteByte(byte(tkn.lastChar))
			tkn.next()
		}
		return Word, buffer.String()
	}
	if tkn.lastChar == '.' && isDigit(tkn.peek()) {
		buffer.WriteByte('.')
		tkn.next()
		tkn.scanMantissa(10, &buffer)
	}
	if tkn.lastChar == 'e' || tkn.lastChar == 'E' {
		buffer.WriteByte(byte(tkn.lastChar))
		tkn.next()
		if tkn.lastChar == '+' || tkn.lastChar == '-' {
			buffer.WriteByte(byte(tkn.lastChar))
			tkn.next()
		}
		tkn.scanMantissa(10, &buffer)
	}
	return Number, buffer.String()
}

// sqlDecodeMap maps the character after a backslash to the character it
// stands for. Characters not in the map stand for themselves.
var sqlDecodeMap = map[uint16]byte{
	'0':  0,
	'b':  '\b',
	'n':  '\n',
	'r':  '\r',
	't':  '\t',
	'Z':  26,
	'\\': '\\',
	'\'': '\'',
	'"':  '"',
}

func (tkn *Tokenizer) scanString(delim uint16) (TokenType, string) {
	var buffer strings.Builder
	for {
		ch := tkn.lastChar
		if ch == eofChar {
			// Unterminated string.
			return LexError, buffer.String()
		}
		tkn.next()

		if ch == '\\' {
			if tkn.lastChar == eofChar {
				// String terminates mid escape character.
				return LexError, buffer.String()
			}
			if decoded, ok := sqlDecodeMap[tkn.lastChar]; ok {
				buffer.WriteByte(decoded)
			} else if tkn.lastChar == '%' || tkn.lastChar == '_' {
				// \% and \_ keep their backslash.
				buffer.WriteByte('\\')
				buffer.WriteByte(byte(tkn.lastChar))
			} else {
				buffer.WriteByte(byte(tkn.lastChar))
			}
			tkn.next()
			continue
		}
		if ch == delim {
			if tkn.lastChar != delim {
				// Correctly terminated string, which is not a double delim.
				break
			}
			tkn.next()
		}
		buffer.WriteByte(byte(ch))
	}
	return String, buffer.String()
}

func (tkn *Tokenizer) next() {
	if tkn.bufPos >= tkn.bufSize {
		if tkn.lastChar != eofChar {
			tkn.Position++
			tkn.lastChar = eofChar
		}
	} else {
		tkn.Position++
		tkn.lastChar = uint16(tkn.buf[tkn.bufPos])
		tkn.bufPos++
	}
}

// peek returns the character after lastChar without consuming it.
func (tkn *Tokenizer) peek() uint16 {
	return tkn.peekAt(0)
}

func (tkn *Tokenizer) peekAt(offset int) uint16 {
	if tkn.bufPos+offset >= tkn.bufSize {
		return eofChar
	}
	return uint16(tkn.buf[tkn.bufPos+offset])
}

func isLetter(ch uint16) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_' || ch == '$' || (ch >= 0x80 && ch < eofChar)
}

func digitVal(ch uint16) int {
	switch {
	case '0' <= ch && ch <= '9':
		return int(ch) - '0'
	case 'a' <= ch && ch <= 'f':
		return int(ch) - 'a' + 10
	case 'A' <= ch && ch <= 'F':
		return int(ch) - 'A' + 10
	}
	return 16 // larger than any legal digit val
}

func isDigit(ch uint16) bool {
	return '0' <= ch && ch <= '9'
}
