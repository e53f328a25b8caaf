package parser

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// SplitStatements splits a script into single statements.
//
// It understands the client-side DELIMITER command, and while the delimiter
// is ";" it keeps compound statements (BEGIN ... END blocks of triggers,
// routines and events) together. Quoted text and comments never split a
// statement. Margin comments are trimmed and empty statements dropped.
func SplitStatements(sql string) []string {
	s := &splitter{sql: sql, delimiter: ";"}
	s.run()
	return s.statements
}

type splitter struct {
	sql        string
	delimiter  string
	statements []string

	start     int
	firstWord string
	depth     int
}

func (s *splitter) run() {
	pos := 0
	for pos < len(s.sql) {
		if s.atLineStart(pos) && s.pendingIsBlank(pos) {
			if next, ok := s.delimiterCommand(pos); ok {
				pos = next
				s.start = pos
				continue
			}
		}

		if strings.HasPrefix(s.sql[pos:], s.delimiter) && (s.delimiter != ";" || s.depth <= 0) {
			s.emit(s.sql[s.start:pos])
			pos += len(s.delimiter)
			s.start = pos
			continue
		}

		ch := s.sql[pos]
		switch {
		case ch == '\'' || ch == '"' || ch == '`':
			pos = skipQuoted(s.sql, pos)
		case ch == '#':
			pos = skipToLineEnd(s.sql, pos)
		case ch == '-' && strings.HasPrefix(s.sql[pos:], "--") && (pos+2 == len(s.sql) || isBlankByte(s.sql[pos+2])):
			pos = skipToLineEnd(s.sql, pos)
		case ch == '/' && strings.HasPrefix(s.sql[pos:], "/*"):
			end := strings.Index(s.sql[pos+2:], "*/")
			if end < 0 {
				pos = len(s.sql)
			} else {
				pos += end + 4
			}
		case isLetter(uint16(ch)):
			end := pos
			for end < len(s.sql) && (isLetter(uint16(s.sql[end])) || isDigit(uint16(s.sql[end]))) {
				end++
			}
			pos = s.word(s.sql[pos:end], end)
		default:
			pos++
		}
	}
	s.emit(s.sql[s.start:])
}

// word tracks the block structure of compound statements, and returns the
// position to continue scanning from.
func (s *splitter) word(w string, end int) int {
	upper := strings.ToUpper(w)
	if s.firstWord == "" {
		s.firstWord = upper
		return end
	}
	if s.firstWord != "CREATE" && s.firstWord != "ALTER" {
		return end
	}

	switch upper {
	case "BEGIN":
		s.depth++
	case "CASE", "LOOP", "WHILE", "REPEAT":
		// REPEAT(...) is a string function, and CASE outside of a block is an
		// expression closed by a bare END.
		if s.depth > 0 && !(upper == "REPEAT" && s.nextNonBlank(end) == '(') {
			s.depth++
		}
	case "END":
		if s.depth == 0 {
			return end
		}
		next, nextEnd := s.nextWord(end)
		switch strings.ToUpper(next) {
		case "IF":
			return nextEnd
		case "CASE", "LOOP", "WHILE", "REPEAT":
			s.depth--
			return nextEnd
		}
		s.depth--
	}
	return end
}

func (s *splitter) nextWord(pos int) (string, int) {
	for pos < len(s.sql) && isBlankByte(s.sql[pos]) {
		pos++
	}
	end := pos
	for end < len(s.sql) && isLetter(uint16(s.sql[end])) {
		end++
	}
	return s.sql[pos:end], end
}

func (s *splitter) nextNonBlank(pos int) byte {
	for pos < len(s.sql) && isBlankByte(s.sql[pos]) {
		pos++
	}
	if pos == len(s.sql) {
		return 0
	}
	return s.sql[pos]
}

func (s *splitter) emit(stmt string) {
	stmt = TrimMarginComments(stmt)
	if stmt != "" {
		s.statements = append(s.statements, stmt)
	}
	s.firstWord = ""
	s.depth = 0
}

func (s *splitter) atLineStart(pos int) bool {
	return pos == 0 || s.sql[pos-1] == '\n'
}

func (s *splitter) pendingIsBlank(pos int) bool {
	return TrimMarginComments(s.sql[s.start:pos]) == ""
}

// delimiterCommand recognizes a "DELIMITER xx" line at pos, and returns the
// position after it.
func (s *splitter) delimiterCommand(pos int) (int, bool) {
	lineEnd := strings.IndexByte(s.sql[pos:], '\n')
	if lineEnd < 0 {
		lineEnd = len(s.sql)
	} else {
		lineEnd += pos
	}
	line := strings.TrimSpace(s.sql[pos:lineEnd])
	fields := strings.Fields(line)
	if len(fields) != 2 || !strings.EqualFold(fields[0], "DELIMITER") {
		return pos, false
	}
	s.delimiter = fields[1]
	return lineEnd, true
}

func skipQuoted(sql string, pos int) int {
	quote := sql[pos]
	pos++
	for pos < len(sql) {
		switch sql[pos] {
		case '\\':
			if quote != '`' {
				pos++
			}
		case quote:
			if pos+1 < len(sql) && sql[pos+1] == quote {
				pos++
			} else {
				return pos + 1
			}
		}
		pos++
	}
	return len(sql)
}

func skipToLineEnd(sql string, pos int) int {
	end := strings.IndexByte(sql[pos:], '\n')
	if end < 0 {
		return len(sql)
	}
	return pos + end
}

// isBlankByte reports ASCII whitespace only, so that bytes of multibyte
// characters are never taken for blanks.
func isBlankByte(ch byte) bool {
	return ch < utf8.RuneSelf && unicode.IsSpace(rune(ch))
}
