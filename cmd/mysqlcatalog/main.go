package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/jessevdk/go-flags"
	"github.com/k0kubun/pp/v3"
	"golang.org/x/term"

	"github.com/sqldef/sqlcatalog/database"
	"github.com/sqldef/sqlcatalog/database/mysql"
	"github.com/sqldef/sqlcatalog/schema"
	"github.com/sqldef/sqlcatalog/util"
)

// version and revision are set via -ldflags
var version = "dev"
var revision = "HEAD"

type options struct {
	Files  []string
	Config database.Config
	// Inspect pretty-prints the catalog arenas instead of the DDL dump.
	Inspect bool
	Strict  bool
}

var errUnresolved = errors.New("unresolved references")

func parseOptions(args []string) *options {
	var opts struct {
		File          []string `long:"file" description:"Read the DDL script from the file, rather than stdin (can be specified multiple times)" value-name:"sql_file" default:"-"`
		Config        string   `long:"config" description:"YAML or TOML file to specify: version, case_sensitive, auto_fk_names, default_schema, default_charset, default_collation, parse_concurrency" value-name:"config_file"`
		Version       int      `long:"version-number" description:"Server version as an integer, e.g. 80030" value-name:"version"`
		CaseSensitive bool     `long:"case-sensitive" description:"Compare schema and table names case-sensitively"`
		NoAutoFKNames bool     `long:"no-auto-fk-names" description:"Leave unnamed foreign keys unnamed"`
		DefaultSchema string   `long:"default-schema" description:"Schema of unqualified names before the first USE" value-name:"schema"`
		Dump          bool     `long:"dump" description:"Pretty-print the catalog objects instead of the DDL"`
		Strict        bool     `long:"strict" description:"Exit with a non-zero status on unresolved references or failed statements"`
		LogLevel      string   `long:"log-level" description:"Log level of diagnostics on stderr (debug, info, warn, error), overrides $LOG_LEVEL" value-name:"level"`
		Help          bool     `long:"help" description:"Show this help"`
		ShowVersion   bool     `long:"version" description:"Show this version"`
	}

	parser := flags.NewParser(&opts, flags.None)
	parser.Usage = "[OPTIONS] < script.sql"
	args, err := parser.ParseArgs(args)
	if err != nil {
		log.Fatal(err)
	}

	if opts.Help {
		parser.WriteHelp(os.Stdout)
		os.Exit(0)
	}

	if opts.LogLevel != "" {
		level, err := util.ParseLogLevel(opts.LogLevel)
		if err != nil {
			log.Fatal(err)
		}
		util.SetLogLevel(level)
	}

	if opts.ShowVersion {
		fmt.Printf("%s (%s)\n", version, revision)
		os.Exit(0)
	}

	if len(args) > 0 {
		fmt.Printf("Unexpected arguments: %v\n\n", args)
		parser.WriteHelp(os.Stdout)
		os.Exit(1)
	}

	var config database.Config
	if opts.Config != "" {
		config, err = database.LoadConfig(opts.Config)
		if err != nil {
			log.Fatal(err)
		}
	}
	// Flags override the config file.
	if opts.Version != 0 {
		config.Version = opts.Version
	}
	if opts.CaseSensitive {
		config.CaseSensitive = true
	}
	if opts.NoAutoFKNames {
		autoNames := false
		config.AutoForeignKeyNames = &autoNames
	}
	if opts.DefaultSchema != "" {
		config.DefaultSchema = opts.DefaultSchema
	}

	return &options{
		Files:   opts.File,
		Config:  config,
		Inspect: opts.Dump,
		Strict:  opts.Strict,
	}
}

func readFiles(files []string) (string, error) {
	var scripts []string
	for _, file := range files {
		var buf []byte
		var err error
		if file == "-" {
			if term.IsTerminal(int(os.Stdin.Fd())) {
				return "", fmt.Errorf("stdin is not piped")
			}
			buf, err = io.ReadAll(os.Stdin)
		} else {
			buf, err = os.ReadFile(file)
		}
		if err != nil {
			return "", err
		}
		scripts = append(scripts, string(buf))
	}
	// A script may end without a semicolon.
	return strings.Join(scripts, ";\n"), nil
}

// run builds the catalog of sql and prints it to logger. Unresolved
// references are printed as comments after the catalog.
func run(ctx context.Context, sql string, opts *options, logger database.Logger) error {
	schemaOpts := schema.OptionsFromConfig(opts.Config)
	schemaOpts.Charsets = mysql.NewCharsetLookup(schemaOpts.Version)

	sqlParser := mysql.NewParser(opts.Config.ParseConcurrency)
	catalog, report, err := schema.BuildCatalog(ctx, sqlParser, sql, schemaOpts)
	if err != nil {
		slog.Error("Some statements were not applied", "error", err)
	}

	if opts.Inspect {
		inspect(catalog, logger)
	} else {
		logger.Print(catalog.Dump())
	}

	for _, ref := range report.Unresolved {
		logger.Printf("-- unresolved %s\n", catalog.DescribeReference(ref))
	}
	slog.Info("Catalog built",
		"statements", report.Statements,
		"applied", report.Applied,
		"skipped", report.Skipped,
		"ignored", report.Ignored,
		"references", report.ForwardReferences,
		"unresolved", len(report.Unresolved))

	if !opts.Strict {
		return nil
	}
	if len(report.Unresolved) > 0 {
		err = errors.Join(err, fmt.Errorf("%w: %d", errUnresolved, len(report.Unresolved)))
	}
	return err
}

func inspect(catalog *schema.Catalog, logger database.Logger) {
	printer := pp.New()
	printer.SetColoringEnabled(false)
	for _, id := range catalog.Schemas {
		s := catalog.Schema(id)
		logger.Print(printer.Sprintln(s))
		for _, tableID := range s.Tables {
			logger.Print(printer.Sprintln(catalog.Table(tableID)))
		}
	}
}

func main() {
	util.InitSlog()
	opts := parseOptions(os.Args[1:])

	sql, err := readFiles(opts.Files)
	if err != nil {
		log.Fatalf("Failed to read '%v': %s", opts.Files, err)
	}

	if err := run(context.Background(), sql, opts, database.StdoutLogger{}); err != nil {
		log.Fatal(err)
	}
}
