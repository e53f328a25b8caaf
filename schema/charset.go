package schema

import (
	"log/slog"
	"strings"
)

// CharsetLookup answers the two questions the builder asks about character
// sets. Both methods return "" for names they do not know.
type CharsetLookup interface {
	DefaultCollationForCharset(charset string) string
	CharsetForCollation(collation string) string
}

// CharsetTable is a CharsetLookup over a static charset to default
// collation table.
type CharsetTable struct {
	defaults map[string]string
}

func NewCharsetTable(defaults map[string]string) *CharsetTable {
	table := &CharsetTable{defaults: map[string]string{}}
	for charset, collation := range defaults {
		table.defaults[strings.ToLower(charset)] = strings.ToLower(collation)
	}
	return table
}

var serverCharsets = map[string]string{
	"armscii8": "armscii8_general_ci",
	"ascii":    "ascii_general_ci",
	"big5":     "big5_chinese_ci",
	"binary":   "binary",
	"cp1250":   "cp1250_general_ci",
	"cp1251":   "cp1251_general_ci",
	"cp1256":   "cp1256_general_ci",
	"cp1257":   "cp1257_general_ci",
	"cp850":    "cp850_general_ci",
	"cp852":    "cp852_general_ci",
	"cp866":    "cp866_general_ci",
	"cp932":    "cp932_japanese_ci",
	"dec8":     "dec8_swedish_ci",
	"eucjpms":  "eucjpms_japanese_ci",
	"euckr":    "euckr_korean_ci",
	"gb18030":  "gb18030_chinese_ci",
	"gb2312":   "gb2312_chinese_ci",
	"gbk":      "gbk_chinese_ci",
	"geostd8":  "geostd8_general_ci",
	"greek":    "greek_general_ci",
	"hebrew":   "hebrew_general_ci",
	"hp8":      "hp8_english_ci",
	"keybcs2":  "keybcs2_general_ci",
	"koi8r":    "koi8r_general_ci",
	"koi8u":    "koi8u_general_ci",
	"latin1":   "latin1_swedish_ci",
	"latin2":   "latin2_general_ci",
	"latin5":   "latin5_turkish_ci",
	"latin7":   "latin7_general_ci",
	"macce":    "macce_general_ci",
	"macroman": "macroman_general_ci",
	"sjis":     "sjis_japanese_ci",
	"swe7":     "swe7_swedish_ci",
	"tis620":   "tis620_thai_ci",
	"ucs2":     "ucs2_general_ci",
	"ujis":     "ujis_japanese_ci",
	"utf16":    "utf16_general_ci",
	"utf16le":  "utf16le_general_ci",
	"utf32":    "utf32_general_ci",
	"utf8":     "utf8_general_ci",
	"utf8mb4":  "utf8mb4_general_ci",
}

// DefaultCharsets returns the charset table of the given server version.
// From 8.0 on utf8mb4 defaults to utf8mb4_0900_ai_ci.
func DefaultCharsets(version int) *CharsetTable {
	table := NewCharsetTable(serverCharsets)
	if version >= 80000 {
		table.defaults["utf8mb4"] = "utf8mb4_0900_ai_ci"
	}
	return table
}

func (t *CharsetTable) DefaultCollationForCharset(charset string) string {
	return t.defaults[normalizeCharset(charset)]
}

// CharsetForCollation returns the longest charset name that prefixes the
// collation, so utf8mb4_bin maps to utf8mb4 and not utf8.
func (t *CharsetTable) CharsetForCollation(collation string) string {
	collation = strings.ToLower(collation)
	if strings.HasPrefix(collation, "utf8mb3_") {
		collation = "utf8_" + strings.TrimPrefix(collation, "utf8mb3_")
	}
	best := ""
	for charset := range t.defaults {
		if (collation == charset || strings.HasPrefix(collation, charset+"_")) && len(charset) > len(best) {
			best = charset
		}
	}
	return best
}

// normalizeCharset lower-cases a charset name and reports utf8mb3 as utf8.
func normalizeCharset(charset string) string {
	charset = strings.ToLower(charset)
	if charset == "utf8mb3" {
		return "utf8"
	}
	return charset
}

// resolveCharset applies the charset and collation rule shared by columns,
// tables and schemas:
//   - the DEFAULT keyword stands for the effective default of the owner,
//   - a collation alone implies its charset,
//   - a collation equal to the charset's default collation is dropped,
//   - a collation of another charset is dropped with a warning; the explicit
//     charset wins.
func resolveCharset(lookup CharsetLookup, charset, collation, defaultCharset, defaultCollation string) (string, string) {
	if strings.EqualFold(charset, "default") {
		charset = defaultCharset
	}
	if strings.EqualFold(collation, "default") {
		collation = defaultCollation
	}
	charset = normalizeCharset(charset)
	collation = strings.ToLower(collation)

	if collation == "" {
		return charset, ""
	}
	owner := lookup.CharsetForCollation(collation)
	if charset == "" {
		return owner, collationUnlessDefault(lookup, owner, collation)
	}
	if owner != "" && normalizeCharset(owner) != charset {
		slog.Warn("Collation does not belong to the character set and is ignored", "charset", charset, "collation", collation)
		return charset, ""
	}
	return charset, collationUnlessDefault(lookup, charset, collation)
}

func collationUnlessDefault(lookup CharsetLookup, charset, collation string) string {
	if charset != "" && strings.EqualFold(lookup.DefaultCollationForCharset(charset), collation) {
		return ""
	}
	return collation
}
