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
	"strings"
	"unicode"
)

func isNonSpace(r rune) bool {
	return !unicode.IsSpace(r)
}

// isVersionComment reports whether the comment starting at text is a MySQL
// versioned comment (/*!NNNNN ... */), which holds code rather than prose.
func isVersionComment(text string) bool {
	return len(text) >= 3 && text[2] == '!'
}

// leadingCommentEnd returns the first index after all leading comments, or
// 0 if there are no leading comments.
func leadingCommentEnd(text string) (end int) {
	hasComment := false
	pos := 0
	for pos < len(text) {
		// Eat up any whitespace. Trailing whitespace will be considered part of
		// the leading comments.
		nextVisibleOffset := strings.IndexFunc(text[pos:], isNonSpace)
		if nextVisibleOffset < 0 {
			break
		}
		pos += nextVisibleOffset
		remainingText := text[pos:]

		var commentLength int
		switch {
		case strings.HasPrefix(remainingText, "#"), strings.HasPrefix(remainingText, "-- "), strings.HasPrefix(remainingText, "--\t"):
			commentLength = strings.IndexByte(remainingText, '\n') + 1
			if commentLength == 0 {
				commentLength = len(remainingText)
			}
		case len(remainingText) >= 4 && remainingText[:2] == "/*" && !isVersionComment(remainingText):
			commentLength = 4 + strings.Index(remainingText[2:], "*/")
			if commentLength < 4 {
				// Missing end comment :/
				return 0
			}
		default:
			if hasComment {
				return pos
			}
			return 0
		}

		hasComment = true
		pos += commentLength
	}

	if hasComment {
		return pos
	}
	return 0
}

// trailingCommentStart returns the index just after the last piece of code,
// so that everything from there on is comments and whitespace. Quoted text
// and versioned comments count as code.
func trailingCommentStart(text string) int {
	codeEnd := 0
	pos := 0
	for pos < len(text) {
		ch := text[pos]
		switch {
		case isBlankByte(ch):
			pos++
		case ch == '\'' || ch == '"' || ch == '`':
			pos = skipQuoted(text, pos)
			codeEnd = pos
		case ch == '#', ch == '-' && strings.HasPrefix(text[pos:], "--") && (pos+2 == len(text) || isBlankByte(text[pos+2])):
			pos = skipToLineEnd(text, pos)
		case strings.HasPrefix(text[pos:], "/*"):
			end := strings.Index(text[pos+2:], "*/")
			if end < 0 {
				// Unterminated, keep it all.
				return len(text)
			}
			if isVersionComment(text[pos:]) {
				codeEnd = pos + end + 4
			}
			pos += end + 4
		default:
			pos++
			codeEnd = pos
		}
	}
	return codeEnd
}

// TrimMarginComments removes the comments and whitespace before and after
// the code of a statement. Comments inside the statement are kept.
func TrimMarginComments(sql string) string {
	trailingStart := trailingCommentStart(sql)
	leadingEnd := leadingCommentEnd(sql[:trailingStart])
	return strings.TrimFunc(sql[leadingEnd:trailingStart], unicode.IsSpace)
}
