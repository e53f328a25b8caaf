package schema_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sqldef/sqlcatalog/database/mysql"
	"github.com/sqldef/sqlcatalog/testutil"
	"github.com/sqldef/sqlcatalog/util"
)

func TestCatalogCases(t *testing.T) {
	tests, err := testutil.ReadTests("testdata/*.yml")
	require.NoError(t, err)

	sqlParser := mysql.NewParser(0)
	for name, test := range util.CanonicalMapIter(tests) {
		t.Run(name, func(t *testing.T) {
			testutil.RunTest(t, test, sqlParser)
		})
	}
}
