package main

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/strager/goof3/ast"
	"github.com/strager/goof3/codegen"
	"github.com/strager/goof3/jsrun"
	"github.com/strager/goof3/optimize"
	"github.com/strager/goof3/parser"
	"github.com/strager/goof3/semantic"
)

type compileOptions struct {
	Optimize      bool
	StrictReturns bool
	// Verbose progress goes to Log.
	Verbose bool
	Log     io.Writer
}

func (o compileOptions) logf(format string, args ...any) {
	if o.Verbose && o.Log != nil {
		fmt.Fprintf(o.Log, format, args...)
	}
}

// analyzeSource parses and analyzes a program.
func analyzeSource(input []byte, opts compileOptions) (*ast.Program, error) {
	prog, err := parser.ParseProgram(input)
	if err != nil {
		return nil, errors.Wrap(err, "parsing")
	}
	opts.logf("AST: %s\n", ast.ToSExpr(prog))

	semOpts := semantic.Options{CheckReturnTypes: opts.StrictReturns}
	if err := semantic.Analyze(prog, semantic.NewGlobalScope(), semOpts); err != nil {
		return nil, errors.Wrap(err, "semantic analysis")
	}
	return prog, nil
}

// compileProgram translates goof3 source to a JavaScript program.
func compileProgram(input []byte, opts compileOptions) (string, error) {
	prog, err := analyzeSource(input, opts)
	if err != nil {
		return "", err
	}

	if opts.Optimize {
		before := len(prog.Body)
		optimize.Program(prog)
		opts.logf("Optimized: %d top-level statements removed\n", before-len(prog.Body))
	}

	js := codegen.Generate(prog)
	if err := jsrun.Check(js); err != nil {
		return "", errors.Wrap(err, "code generation")
	}
	opts.logf("Generated %d bytes of JavaScript\n", len(js))
	return js, nil
}

// runProgram compiles and executes input, writing program output to stdout.
func runProgram(input []byte, opts compileOptions, stdout io.Writer) error {
	js, err := compileProgram(input, opts)
	if err != nil {
		return err
	}
	opts.logf("Executing...\n")
	return errors.Wrap(jsrun.Run(js, stdout), "execution")
}
