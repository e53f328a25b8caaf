package mysql

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCharsetLookup(t *testing.T) {
	v80 := NewCharsetLookup(80000)
	v57 := NewCharsetLookup(50700)

	assert.Equal(t, "utf8mb4_0900_ai_ci", v80.DefaultCollationForCharset("utf8mb4"))
	assert.Equal(t, "utf8mb4_general_ci", v57.DefaultCollationForCharset("utf8mb4"))
	assert.Equal(t, "latin1_swedish_ci", v80.DefaultCollationForCharset("LATIN1"))
	assert.Equal(t, "", v80.DefaultCollationForCharset("klingon"))

	assert.Equal(t, "latin1", v80.CharsetForCollation("latin1_german2_ci"))
	assert.Equal(t, "utf8mb4", v80.CharsetForCollation("utf8mb4_bin"))
	assert.Equal(t, "utf8", v80.CharsetForCollation("utf8_general_ci"))
	assert.Equal(t, "utf8", v80.CharsetForCollation("utf8mb3_bin"))
	assert.Equal(t, "", v80.CharsetForCollation("klingon_ci"))
}
