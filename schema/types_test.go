package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeLibraryLookup(t *testing.T) {
	lib := DefaultTypes()

	varchar := lib.Lookup("varchar", 80000)
	require.NotNil(t, varchar)
	assert.Equal(t, "VARCHAR", varchar.Name)
	assert.True(t, varchar.HasCharset())

	integer := lib.Lookup("INTEGER", 80000)
	require.NotNil(t, integer)
	assert.Equal(t, "INT", integer.Name)
	assert.False(t, integer.HasCharset())

	assert.Nil(t, lib.Lookup("JSON", 50700))
	assert.NotNil(t, lib.Lookup("JSON", 50708))
	assert.NotNil(t, lib.Lookup("JSON", 0))
	assert.Nil(t, lib.Lookup("WIDGET", 80000))

	alias, ok := lib.Alias("bool")
	require.True(t, ok)
	assert.Equal(t, TypeAlias{Type: "TINYINT", Length: "1"}, alias)
	_, ok = lib.Alias("VARCHAR")
	assert.False(t, ok)
}
