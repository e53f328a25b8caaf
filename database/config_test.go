package database

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	off := false
	want := Config{
		Version:             50740,
		CaseSensitive:       true,
		AutoForeignKeyNames: &off,
		DefaultSchema:       "shop",
		DefaultCharset:      "latin1",
		ParseConcurrency:    4,
	}

	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "yaml",
			file: "config.yml",
			content: `version: 50740
case_sensitive: true
auto_fk_names: false
default_schema: shop
default_charset: latin1
parse_concurrency: 4
`,
		},
		{
			name: "toml",
			file: "config.toml",
			content: `version = 50740
case_sensitive = true
auto_fk_names = false
default_schema = "shop"
default_charset = "latin1"
parse_concurrency = 4
`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := LoadConfig(writeConfig(t, tt.file, tt.content))
			require.NoError(t, err)
			assert.Equal(t, want, config)
		})
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	config, err := LoadConfig(writeConfig(t, "config.yaml", "default_schema: app\n"))
	require.NoError(t, err)
	assert.Equal(t, Config{DefaultSchema: "app"}, config)
	assert.Nil(t, config.AutoForeignKeyNames)
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		message string
	}{
		{name: "unknown yaml key", file: "c.yml", content: "versoin: 80000\n", message: "parse config"},
		{name: "unknown toml key", file: "c.toml", content: "versoin = 80000\n", message: "unknown key"},
		{name: "extension", file: "c.json", content: "{}", message: "unsupported extension"},
		{name: "negative version", file: "c.toml", content: "version = -1\n", message: "invalid version"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.file, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
