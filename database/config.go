package database

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-yaml"
)

// Config describes the server whose catalog is built: its version, its
// identifier case policy and its defaults. Zero values mean the built-in
// defaults.
type Config struct {
	// Version is the server version as an integer, e.g. 80030 for 8.0.30.
	Version       int  `yaml:"version" toml:"version"`
	CaseSensitive bool `yaml:"case_sensitive" toml:"case_sensitive"`
	// AutoForeignKeyNames defaults to true when unset.
	AutoForeignKeyNames *bool  `yaml:"auto_fk_names" toml:"auto_fk_names"`
	DefaultSchema       string `yaml:"default_schema" toml:"default_schema"`
	DefaultCharset      string `yaml:"default_charset" toml:"default_charset"`
	DefaultCollation    string `yaml:"default_collation" toml:"default_collation"`
	// ParseConcurrency limits how many statements are parsed at once. 0
	// parses sequentially and a negative value sets no limit.
	ParseConcurrency int `yaml:"parse_concurrency" toml:"parse_concurrency"`
}

// LoadConfig reads a YAML or TOML config file, chosen by its extension.
// Unknown keys are rejected.
func LoadConfig(path string) (Config, error) {
	var config Config
	buf, err := os.ReadFile(path)
	if err != nil {
		return config, fmt.Errorf("read config: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yml", ".yaml":
		if err := yaml.UnmarshalWithOptions(buf, &config, yaml.Strict()); err != nil {
			return config, fmt.Errorf("parse config %s: %w", path, err)
		}
	case ".toml":
		md, err := toml.Decode(string(buf), &config)
		if err != nil {
			return config, fmt.Errorf("parse config %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return config, fmt.Errorf("parse config %s: unknown key %q", path, undecoded[0].String())
		}
	default:
		return config, fmt.Errorf("config %s: unsupported extension %q (want .yml, .yaml or .toml)", path, ext)
	}

	if config.Version < 0 {
		return config, fmt.Errorf("config %s: invalid version %d", path, config.Version)
	}
	return config, nil
}
