// Package main provides the CLI entrypoint for mapforge.
//
// mapforge compiles declarative entity definitions into search-index
// mapping documents:
//   - Loads entity models from YAML definition files
//   - Validates them and reports findings per entity and property
//   - Compiles deterministic mapping JSON, one document per entity
//   - Serves definitions and compiled mappings over HTTP
package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"mapforge/internal/common"
	"mapforge/internal/config"
	"mapforge/internal/diagnostic"
	"mapforge/internal/mapping"
	"mapforge/internal/metrics"
	"mapforge/internal/resource"
	"mapforge/internal/schema"
	"mapforge/internal/server"
)

// File permission constants.
const (
	dirPerm  = 0o755
	filePerm = 0o644
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2)
	}

	var err error

	switch os.Args[1] {
	case "compile":
		err = runCompile(os.Args[2:])
	case "validate":
		err = runValidate(os.Args[2:])
	case "serve":
		err = runServe(os.Args[2:])
	case "help", "-h", "-help", "--help":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", os.Args[1])
		printUsage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// printUsage prints helpful usage information.
func printUsage() {
	fmt.Println("mapforge - compiles entity definitions into search-index mapping documents")
	fmt.Println("\nUsage:")
	fmt.Println("  mapforge <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  compile   build mapping JSON for one or all entities")
	fmt.Println("  validate  check a definition file and report findings")
	fmt.Println("  serve     expose definitions and compiled mappings over HTTP")
	fmt.Println("\nExamples:")
	fmt.Println("  mapforge compile -schema entities.yaml -out mappings/")
	fmt.Println("  mapforge compile -schema entities.yaml -entity book -pretty")
	fmt.Println("  mapforge validate -schema entities.yaml")
	fmt.Println("  mapforge serve -addr :8080 -schema entities.yaml")
}

// stringList collects repeated occurrences of a flag.
type stringList []string

func (l *stringList) String() string { return strings.Join(*l, ",") }

func (l *stringList) Set(value string) error {
	*l = append(*l, value)

	return nil
}

func runCompile(args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("compile", flag.ExitOnError)

	var entities stringList

	schemaPath := fs.String("schema", cfg.Schema.FilePath, "entity definition file")
	outDir := fs.String("out", "", "directory for <entity>.mapping.json files (default: stdout for a single entity)")
	resourceDir := fs.String("resources", cfg.Schema.ResourceDir, "directory fragment references resolve against")
	pretty := fs.Bool("pretty", false, "indent the mapping JSON")
	fs.Var(&entities, "entity", "entity to compile; repeatable (default: all)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	logger := newLogger(cfg.Log)

	registry, diags, err := schema.LoadRegistry(*schemaPath)
	if err != nil {
		return err
	}

	printDiagnostics(diags)

	if diags.HasErrors() {
		return fmt.Errorf("definition file has %d validation errors", len(diags.Errors))
	}

	names := []string(entities)
	if common.IsEmpty(names) {
		names = registry.Names()
	}

	compiler := mapping.New(registry,
		mapping.WithResources(resource.Dir(*resourceDir)),
		mapping.WithLogger(logger),
	)

	if *outDir == "" {
		name, ok := common.First(names)
		if !ok {
			return errors.New("definition file contains no entities")
		}

		if !common.IsSingle(names) {
			return errors.New("-out is required when compiling more than one entity")
		}

		return compileToStdout(compiler, name, *pretty)
	}

	return compileToDir(compiler, logger, names, *outDir, *pretty)
}

func compileToStdout(compiler *mapping.Compiler, name string, pretty bool) error {
	res, err := compiler.Compile(name)
	if err != nil {
		return err
	}

	printDiagnostics(&res.Diagnostics)

	out, err := render(res.Mapping, pretty)
	if err != nil {
		return err
	}

	fmt.Println(string(out))

	return nil
}

func compileToDir(compiler *mapping.Compiler, logger zerolog.Logger, names []string, outDir string, pretty bool) error {
	// Create output directory if it doesn't exist
	if err := os.MkdirAll(outDir, dirPerm); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	for _, name := range names {
		res, err := compiler.Compile(name)
		if err != nil {
			return err
		}

		printDiagnostics(&res.Diagnostics)

		out, err := render(res.Mapping, pretty)
		if err != nil {
			return err
		}

		path := filepath.Join(outDir, name+".mapping.json")
		if err := os.WriteFile(path, out, filePerm); err != nil {
			return fmt.Errorf("writing file %s: %w", path, err)
		}

		logger.Info().Str("entity", name).Str("path", path).Msg("mapping written")
	}

	return nil
}

func runValidate(args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	schemaPath := fs.String("schema", cfg.Schema.FilePath, "entity definition file")

	if err := fs.Parse(args); err != nil {
		return err
	}

	registry, diags, err := schema.LoadRegistry(*schemaPath)
	if err != nil {
		return err
	}

	printDiagnostics(diags)

	if diags.HasErrors() {
		return fmt.Errorf("definition file has %d validation errors", len(diags.Errors))
	}

	fmt.Printf("OK: %d entities\n", registry.Len())

	return nil
}

func runServe(args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	addr := fs.String("addr", cfg.Server.Addr, "listen address")
	schemaPath := fs.String("schema", cfg.Schema.FilePath, "entity definition file")
	resourceDir := fs.String("resources", cfg.Schema.ResourceDir, "directory fragment references resolve against")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg.Server.Addr = *addr
	cfg.Schema.FilePath = *schemaPath
	cfg.Schema.ResourceDir = *resourceDir

	logger := newLogger(cfg.Log)

	gin.SetMode(cfg.Server.Mode)

	srv, err := server.New(cfg, logger, metrics.New())
	if err != nil {
		return err
	}

	logger.Info().Str("addr", cfg.Server.Addr).Msg("mapforge server listening")

	return srv.Run()
}

// newLogger builds the process logger: level from config, console output
// for pretty mode, JSON lines otherwise.
func newLogger(cfg config.LogConfig) zerolog.Logger {
	level := zerolog.InfoLevel

	switch cfg.Level {
	case "debug":
		level = zerolog.DebugLevel
	case "info":
		level = zerolog.InfoLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	var out io.Writer = os.Stderr
	if cfg.Pretty {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	}

	return zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("service", "mapforge").
		Logger()
}

func printDiagnostics(diags *diagnostic.Diagnostics) {
	if diags == nil {
		return
	}

	for _, d := range diags.All() {
		fmt.Fprintf(os.Stderr, "%s: %s\n", d.Severity, d)
	}
}

func render(doc []byte, pretty bool) ([]byte, error) {
	if !pretty {
		return doc, nil
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, doc, "", "  "); err != nil {
		return nil, fmt.Errorf("indenting mapping: %w", err)
	}

	return buf.Bytes(), nil
}
