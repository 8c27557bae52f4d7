package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/sable-lang/sable/internal/ast"
	"github.com/sable-lang/sable/internal/config"
	"github.com/sable-lang/sable/internal/delegates"
	"github.com/sable-lang/sable/internal/diag"
	"github.com/sable-lang/sable/internal/globals"
	"github.com/sable-lang/sable/internal/ids"
	"github.com/sable-lang/sable/internal/parser"
)

// unit is the result of compiling one set of template files together.
type unit struct {
	files []*ast.FileNode
	sink  *diag.Sink
}

// loadConfig resolves the project configuration: an explicit --config path
// must exist; otherwise sable.yaml is used when present and defaults apply
// when it is not.
func loadConfig() (*config.Config, error) {
	if flagConfig != "" {
		return config.Load(flagConfig)
	}
	cfg, err := config.Load(config.DefaultFileName)
	if errors.Is(err, os.ErrNotExist) {
		return config.Default(), nil
	}
	return cfg, err
}

// compile parses every file and runs the whole-unit delegate passes. Parse
// and resolution problems accumulate in the returned sink; only I/O and
// configuration failures are returned as errors.
func compile(paths []string, cfg *config.Config, formatter *diag.Formatter) (*unit, error) {
	gen := ids.NewSequence()
	sink := diag.NewSink()

	var files []*ast.FileNode
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		src := string(data)
		formatter.AddSource(path, src)
		files = append(files, parser.NewFileParser(src, path, gen, sink).ParseFile())
	}

	registry := delegates.NewRegistry()
	for _, file := range files {
		registry.CollectFromFile(file, cfg.DelegatePackages)
	}
	delegates.ApplyEmptyDefaultPolicy(files, cfg.AllowEmptyDefault)
	delegates.ResolveAll(registry, files, sink)
	globals.Check(files, cfg.Globals, sink)

	return &unit{files: files, sink: sink}, nil
}
