// Command jackal is the Jack front end: it parses a set of .jack files,
// reports every syntax error with source context, and can dump the
// parsed AST of each file as XML.
package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"jackal/pkg/driver"
	"jackal/pkg/errors"
	"jackal/pkg/parser"
	"jackal/pkg/types"
)

var astXML bool

var rootCmd = &cobra.Command{
	Use:   "jackal <file.jack> [more .jack files...]",
	Short: "Parse Jack source files and report syntax errors",
	Long: `jackal runs the Jack front end over one or more .jack files.

Each file must contain exactly one class, and the batch must include
Main.jack. Files are parsed in parallel; all diagnostics found in one
run are reported together.`,
	Args:          cobra.MinimumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	rootCmd.Flags().BoolVar(&astXML, "ast-xml", false, "write an XML dump of each parsed AST next to its source file")
}

func run(cmd *cobra.Command, args []string) error {
	if err := driver.ValidateInputs(args); err != nil {
		return err
	}

	registry := types.NewRegistry()

	startParse := time.Now()
	units, err := driver.ParseFiles(cmd.Context(), args, registry)
	if err != nil {
		return err
	}
	parseTime := time.Since(startParse)

	for _, unit := range units {
		if unit.HasErrors() {
			fmt.Fprintf(os.Stderr, "%s:\n", unit.Path)
			errors.DisplayErrors(os.Stderr, unit.Source.Content, unit.Errors)
			continue
		}
		fmt.Printf("[Parsed]    %s\n", unit.Path)
	}

	if n := driver.ErrorCount(units); n > 0 {
		return fmt.Errorf("compilation failed: %d error(s)", n)
	}

	if astXML {
		for _, unit := range units {
			if err := writeASTDump(unit); err != nil {
				return err
			}
		}
	}

	fmt.Println("\n========================================")
	fmt.Println(" BUILD SUCCESSFUL")
	fmt.Println("========================================")
	fmt.Printf(" Files Parsed:   %d\n", len(units))
	fmt.Printf(" Types Interned: %d\n", registry.Size())
	fmt.Printf(" Parsing:        %.3f ms\n", float64(parseTime.Microseconds())/1000.0)
	fmt.Println("========================================")

	return nil
}

func writeASTDump(unit *driver.Unit) error {
	xmlPath := strings.TrimSuffix(unit.Path, ".jack") + ".xml"

	f, err := os.Create(xmlPath)
	if err != nil {
		return fmt.Errorf("could not open output file %s: %w", xmlPath, err)
	}
	defer f.Close()

	parser.WriteXML(f, unit.Class)
	fmt.Printf("[Dumped]    %s\n", xmlPath)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
