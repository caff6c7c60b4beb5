package driver

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"jackal/pkg/source"
	"jackal/pkg/types"
)

const mainSrc = `class Main {
	field Array<int> data;
	constructor Main new() {
		let data = Array.new(8);
		return this;
	}
	function void main() {
		return;
	}
}`

const pointSrc = `class Point {
	field Array<int> coords;
	constructor Point new() {
		let coords = Array.new(2);
		return this;
	}
}`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func TestParseFiles(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeFile(t, dir, "Main.jack", mainSrc),
		writeFile(t, dir, "Point.jack", pointSrc),
	}

	registry := types.NewRegistry()
	units, err := ParseFiles(context.Background(), paths, registry)
	if err != nil {
		t.Fatalf("ParseFiles: %v", err)
	}
	if len(units) != 2 {
		t.Fatalf("expected 2 units, got %d", len(units))
	}

	// Results come back in input order.
	if filepath.Base(units[0].Path) != "Main.jack" || filepath.Base(units[1].Path) != "Point.jack" {
		t.Errorf("units out of order: %s, %s", units[0].Path, units[1].Path)
	}

	for _, u := range units {
		if u.HasErrors() {
			t.Errorf("%s: unexpected errors: %v", u.Path, u.Errors)
		}
	}

	// Both files declared Array<int>; the shared registry makes the two
	// declarations pointer-equal.
	mainType := units[0].Class.ClassVars[0].Type
	pointType := units[1].Class.ClassVars[0].Type
	if mainType != pointType {
		t.Errorf("Array<int> interned to distinct instances across files")
	}
	if mainType.String() != "Array<int>" {
		t.Errorf("expected 'Array<int>', got %q", mainType)
	}
}

func TestParseFilesReadFailure(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeFile(t, dir, "Main.jack", mainSrc),
		filepath.Join(dir, "Missing.jack"),
	}

	_, err := ParseFiles(context.Background(), paths, types.NewRegistry())
	if err == nil {
		t.Fatalf("expected an error for the missing file")
	}
}

func TestParseSourceCollectsErrors(t *testing.T) {
	src := source.FromString("class Broken { function void f() { return; } }")
	unit := ParseSource(src, types.NewRegistry())

	if !unit.HasErrors() {
		t.Fatalf("expected errors for a class without a constructor")
	}
	if got := unit.Errors[0].Message(); !strings.Contains(got, "must have at least one constructor") {
		t.Errorf("unexpected error: %s", got)
	}
	if unit.Class == nil || unit.Class.Name != "Broken" {
		t.Errorf("expected the partial AST to survive the errors")
	}
}

func TestValidateInputs(t *testing.T) {
	tests := []struct {
		name    string
		paths   []string
		wantErr string
	}{
		{"no files", nil, "no files provided"},
		{"wrong extension", []string{"Main.jack", "notes.txt"}, "only .jack files"},
		{"missing main", []string{"Point.jack", "Square.jack"}, "missing 'Main.jack'"},
		{"valid", []string{"dir/Main.jack", "dir/Point.jack"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateInputs(tt.paths)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestErrorCount(t *testing.T) {
	good := ParseSource(source.FromString(mainSrc), types.NewRegistry())
	bad := ParseSource(source.FromString("class X { }"), types.NewRegistry())

	if n := ErrorCount([]*Unit{good, bad}); n != len(bad.Errors) {
		t.Errorf("ErrorCount = %d, want %d", n, len(bad.Errors))
	}
}
