package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/strager/goof3/ast"
)

func showUsage() {
	fmt.Fprintf(os.Stderr, `goof3 - a small Tiger-like language that compiles to JavaScript

Usage:
    goof3 <command> [arguments]

Commands:
    run <file>      Compile and execute a .goof file
    build <file>    Compile a .goof file to JavaScript
    eval <code>     Evaluate inline goof3 code
    check <file>    Parse and type-check a .goof file
    help            Show this help message

Examples:
    goof3 run examples/fib.goof
    goof3 build -o fib.js examples/fib.goof
    goof3 eval 'print(6 * 7)'
    goof3 check -v myfile.goof

Use "goof3 <command> -h" for more information about a command.
`)
}

// newFlagSet creates the flag set for a subcommand. Flags are registered
// into opts; -O only exists for subcommands that generate code.
func newFlagSet(name, usage, description string, opts *compileOptions, generates bool) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	fs.BoolVar(&opts.Verbose, "v", false, "Show verbose compilation details")
	if generates {
		fs.BoolVar(&opts.Optimize, "O", false, "Fold constants and drop unused functions")
	}
	fs.BoolVar(&opts.StrictReturns, "strict-returns", false, "Check returned values against declared result types")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: goof3 %s\n", usage)
		fmt.Fprintf(os.Stderr, "%s\n\n", description)
		fmt.Fprintf(os.Stderr, "Flags:\n")
		fs.PrintDefaults()
	}
	return fs
}

// parseArgs parses args and returns the single positional argument.
func parseArgs(fs *flag.FlagSet, args []string, what string) string {
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Error: expected exactly one %s argument\n", what)
		fs.Usage()
		os.Exit(1)
	}
	return fs.Arg(0)
}

func readSource(filename string) []byte {
	source, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading file %s: %v\n", filename, err)
		os.Exit(1)
	}
	return source
}

func runCommand(args []string) {
	opts := compileOptions{Log: os.Stderr}
	fs := newFlagSet("run", "run [-v] [-O] [-strict-returns] <file>", "Compile and execute a .goof file", &opts, true)
	filename := parseArgs(fs, args, "file")

	opts.logf("Compiling %s...\n", filename)
	if err := runProgram(readSource(filename), opts, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func buildCommand(args []string) {
	opts := compileOptions{Log: os.Stderr}
	fs := newFlagSet("build", "build [-o output] [-v] [-O] [-strict-returns] <file>", "Compile a .goof file to JavaScript", &opts, true)
	output := fs.String("o", "", "Output file path (default: <filename>.js)")
	filename := parseArgs(fs, args, "file")

	outputFile := *output
	if outputFile == "" {
		outputFile = strings.TrimSuffix(filename, ".goof") + ".js"
	}
	opts.logf("Compiling %s to %s...\n", filename, outputFile)

	js, err := compileProgram(readSource(filename), opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Compilation failed: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(outputFile, []byte(js), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", outputFile, err)
		os.Exit(1)
	}
	fmt.Printf("Generated %s (%d bytes)\n", outputFile, len(js))
}

func evalCommand(args []string) {
	opts := compileOptions{Log: os.Stderr}
	fs := newFlagSet("eval", "eval [-v] [-O] [-strict-returns] <code>", "Evaluate inline goof3 code", &opts, true)
	code := parseArgs(fs, args, "code")

	opts.logf("Evaluating: %s\n", code)
	if err := runProgram([]byte(code), opts, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func checkCommand(args []string) {
	opts := compileOptions{Log: os.Stderr}
	fs := newFlagSet("check", "check [-v] [-strict-returns] <file>", "Parse and type-check a .goof file", &opts, false)
	filename := parseArgs(fs, args, "file")

	prog, err := analyzeSource(readSource(filename), compileOptions{StrictReturns: opts.StrictReturns})
	if err != nil {
		fmt.Printf("%s: %v\n", filename, err)
		os.Exit(1)
	}
	fmt.Printf("%s: no errors found\n", filename)
	if opts.Verbose {
		fmt.Printf("AST: %s\n", ast.ToSExpr(prog))
	}
}
