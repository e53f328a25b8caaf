package testutil

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"

	"github.com/sqldef/sqlcatalog/database"
	"github.com/sqldef/sqlcatalog/schema"
	"github.com/sqldef/sqlcatalog/util"
)

var stripHeredocRegex = regexp.MustCompilePOSIX("^\t*")

type TestCase struct {
	DDL        string   // script to build the catalog from
	Dump       *string  // expected Catalog.Dump output; default: not checked
	Unresolved []string // expected descriptions of the unresolved references
	Error      *string  // default: nil
	Config     database.Config `yaml:"config"`
	// SkipRebuild disables building the dump again and comparing the result.
	SkipRebuild bool `yaml:"skip_rebuild"`
}

func init() {
	util.InitSlog()

	// Warnings are part of normal operation here. LOG_LEVEL=debug still
	// shows everything.
	if os.Getenv("LOG_LEVEL") == "" {
		handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})
		slog.SetDefault(slog.New(handler))
	}
}

func ReadTests(pattern string) (map[string]TestCase, error) {
	files, err := filepath.Glob(pattern)
	if err != nil {
		return nil, err
	}

	ret := map[string]TestCase{}
	// Track which file each test case came from for better error messages
	testFileMap := map[string]string{}

	for _, file := range files {
		var tests map[string]*TestCase

		buf, err := os.ReadFile(file)
		if err != nil {
			return nil, err
		}

		dec := yaml.NewDecoder(bytes.NewReader(buf), yaml.DisallowUnknownField())
		if err := dec.Decode(&tests); err != nil {
			return nil, fmt.Errorf("%s: %w", file, err)
		}

		for name, test := range tests {
			if test.DDL == "" && test.Error == nil {
				return nil, fmt.Errorf("%s: test case '%s': 'ddl' is required", file, name)
			}
			if existingFile, ok := testFileMap[name]; ok {
				return nil, fmt.Errorf("duplicate test case name '%s': defined in both '%s' and '%s'", name, existingFile, file)
			}
			testFileMap[name] = file
			ret[name] = *test
		}
	}

	return ret, nil
}

// RunTest builds the catalog of test.DDL and checks the dump and the
// unresolved references. Unless SkipRebuild is set, the dump is built again
// and must dump to the same text.
func RunTest(t *testing.T, test TestCase, sqlParser database.Parser) {
	t.Helper()

	opts := schema.OptionsFromConfig(test.Config)
	catalog, report, err := schema.BuildCatalog(context.Background(), sqlParser, test.DDL, opts)
	if test.Error != nil {
		if err == nil {
			t.Errorf("expected error: %s, but got no error", *test.Error)
		} else if err.Error() != *test.Error {
			t.Errorf("expected error: %s, but got: %s", *test.Error, err.Error())
		}
		return
	}
	if err != nil {
		t.Fatal(err)
	}

	unresolved := util.TransformSlice(report.Unresolved, catalog.DescribeReference)
	if len(test.Unresolved) == 0 {
		assert.Empty(t, unresolved, "unresolved references")
	} else {
		assert.Equal(t, test.Unresolved, unresolved, "unresolved references")
	}

	dump := catalog.Dump()
	if test.Dump != nil {
		assert.Equal(t, strings.TrimSpace(*test.Dump), strings.TrimSpace(dump), "dump")
	}

	if test.SkipRebuild {
		return
	}
	rebuilt, _, err := schema.BuildCatalog(context.Background(), sqlParser, dump, opts)
	if err != nil {
		t.Fatalf("failed to build the dump again: %v\n```\n%s```", err, dump)
	}
	assert.Equal(t, dump, rebuilt.Dump(), "dump of the rebuilt catalog")
}

func StripHeredoc(heredoc string) string {
	heredoc = strings.TrimPrefix(heredoc, "\n")
	return stripHeredocRegex.ReplaceAllLiteralString(heredoc, "")
}
