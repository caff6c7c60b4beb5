// Package driver ties the front end together: it loads .jack files,
// runs the parser over them (in parallel for multi-file programs) and
// collects per-file results for reporting.
package driver

import (
	"context"
	"fmt"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"jackal/pkg/errors"
	"jackal/pkg/lexer"
	"jackal/pkg/parser"
	"jackal/pkg/source"
	"jackal/pkg/types"
)

// Unit holds the front-end state of a single compilation unit.
type Unit struct {
	Path   string
	Source *source.SourceFile
	Class  *parser.ClassDecl
	Errors []errors.JackalError
}

// HasErrors reports whether parsing this unit produced any errors.
func (u *Unit) HasErrors() bool { return len(u.Errors) > 0 }

// ParseSource parses one in-memory source through the shared registry.
func ParseSource(src *source.SourceFile, registry *types.Registry) *Unit {
	l := lexer.NewLexer(src.Content)
	p := parser.NewParser(l, registry)
	class, errs := p.Parse()

	return &Unit{
		Path:   src.DisplayPath(),
		Source: src,
		Class:  class,
		Errors: errs,
	}
}

// ParseFile loads and parses a single file.
func ParseFile(path string, registry *types.Registry) (*Unit, error) {
	src, err := source.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseSource(src, registry), nil
}

// ParseFiles parses every file concurrently, one goroutine per file.
// All parsers share the registry, so structurally equal types are
// pointer-equal across units. Results come back in input order. A
// failure to read any file aborts the batch; syntax errors do not, they
// are collected per unit.
func ParseFiles(ctx context.Context, paths []string, registry *types.Registry) ([]*Unit, error) {
	g, ctx := errgroup.WithContext(ctx)
	units := make([]*Unit, len(paths))

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			unit, err := ParseFile(path, registry)
			if err != nil {
				return err
			}
			units[i] = unit
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return units, nil
}

// ValidateInputs enforces the command-line contract: every path must
// name a .jack file, and the batch must include the Main class.
func ValidateInputs(paths []string) error {
	if len(paths) == 0 {
		return fmt.Errorf("no files provided")
	}

	hasMain := false
	for _, path := range paths {
		if filepath.Ext(path) != ".jack" {
			return fmt.Errorf("invalid file type, only .jack files are allowed: %s", path)
		}
		if filepath.Base(path) == "Main.jack" {
			hasMain = true
		}
	}

	if !hasMain {
		return fmt.Errorf("missing 'Main.jack': the list of files to compile must include the Main class")
	}
	return nil
}

// ErrorCount sums the errors across a batch of units.
func ErrorCount(units []*Unit) int {
	n := 0
	for _, u := range units {
		n += len(u.Errors)
	}
	return n
}
