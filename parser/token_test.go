package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenValues(t *testing.T, sql string) []Token {
	t.Helper()
	tokens, err := Tokenize(sql)
	require.NoError(t, err)
	for i := range tokens {
		tokens[i].Pos, tokens[i].End = 0, 0
	}
	return tokens
}

func TestTokenize(t *testing.T) {
	testCases := []struct {
		name     string
		sql      string
		expected []Token
	}{
		{
			name: "quoted identifiers and strings",
			sql:  "CREATE TABLE `my``t` (c VARCHAR(10) DEFAULT 'it''s')",
			expected: []Token{
				{Type: Word, Val: "CREATE"},
				{Type: Word, Val: "TABLE"},
				{Type: QuotedIdent, Val: "my`t"},
				{Type: Punct, Val: "("},
				{Type: Word, Val: "c"},
				{Type: Word, Val: "VARCHAR"},
				{Type: Punct, Val: "("},
				{Type: Number, Val: "10"},
				{Type: Punct, Val: ")"},
				{Type: Word, Val: "DEFAULT"},
				{Type: String, Val: "it's"},
				{Type: Punct, Val: ")"},
				{Type: EOF},
			},
		},
		{
			name: "escapes",
			sql:  `'a\nb' "50\%" 'x\'y'`,
			expected: []Token{
				{Type: String, Val: "a\nb"},
				{Type: String, Val: `50\%`},
				{Type: String, Val: "x'y"},
				{Type: EOF},
			},
		},
		{
			name: "comments are skipped and versioned comments are scanned",
			sql:  "a -- comment\nb # hash\nc /* block */ d /*!50100 e */ f",
			expected: []Token{
				{Type: Word, Val: "a"},
				{Type: Word, Val: "b"},
				{Type: Word, Val: "c"},
				{Type: Word, Val: "d"},
				{Type: Word, Val: "e"},
				{Type: Word, Val: "f"},
				{Type: EOF},
			},
		},
		{
			name: "numbers and literals",
			sql:  "1.5e3 0x1F x'0A' b'01' 1abc .5",
			expected: []Token{
				{Type: Number, Val: "1.5e3"},
				{Type: HexNumber, Val: "0x1F"},
				{Type: HexNumber, Val: "0A"},
				{Type: BitNumber, Val: "01"},
				{Type: Word, Val: "1abc"},
				{Type: Number, Val: ".5"},
				{Type: EOF},
			},
		},
		{
			name: "operators",
			sql:  "a<=>b <> c := d->>e",
			expected: []Token{
				{Type: Word, Val: "a"},
				{Type: Punct, Val: "<=>"},
				{Type: Word, Val: "b"},
				{Type: Punct, Val: "<>"},
				{Type: Word, Val: "c"},
				{Type: Punct, Val: ":="},
				{Type: Word, Val: "d"},
				{Type: Punct, Val: "->>"},
				{Type: Word, Val: "e"},
				{Type: EOF},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tokenValues(t, tc.sql))
		})
	}
}

func TestTokenPositions(t *testing.T) {
	tokens, err := Tokenize("ab  `cd`")
	require.NoError(t, err)
	require.Len(t, tokens, 3)
	assert.Equal(t, 0, tokens[0].Pos)
	assert.Equal(t, 2, tokens[0].End)
	assert.Equal(t, 4, tokens[1].Pos)
	assert.Equal(t, 8, tokens[1].End)
	assert.Equal(t, EOF, tokens[2].Type)
	assert.Equal(t, 8, tokens[2].Pos)
}

func TestTokenizeErrors(t *testing.T) {
	for _, sql := range []string{"'unterminated", "`unterminated", "x'0'"} {
		t.Run(sql, func(t *testing.T) {
			_, err := Tokenize(sql)
			assert.Error(t, err)
		})
	}
}
