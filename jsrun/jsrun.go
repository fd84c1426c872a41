// Package jsrun checks and executes generated JavaScript with goja.
package jsrun

import (
	"fmt"
	"io"
	"strings"

	"github.com/dop251/goja"
	"github.com/dop251/goja/parser"
	"github.com/pkg/errors"
)

// Check reports whether src is syntactically valid JavaScript.
func Check(src string) error {
	if _, err := parser.ParseFile(nil, "", src, 0); err != nil {
		return errors.Wrap(err, "invalid javascript")
	}
	return nil
}

// Runtime executes programs in a fresh goja runtime whose console.log
// writes to Stdout.
type Runtime struct {
	VM     *goja.Runtime
	Stdout io.Writer
}

func NewRuntime(stdout io.Writer) *Runtime {
	r := &Runtime{VM: goja.New(), Stdout: stdout}
	r.setupConsole()
	return r
}

func (r *Runtime) setupConsole() {
	console := r.VM.NewObject()
	console.Set("log", func(call goja.FunctionCall) goja.Value {
		args := make([]string, len(call.Arguments))
		for i, arg := range call.Arguments {
			args[i] = arg.String()
		}
		fmt.Fprintln(r.Stdout, strings.Join(args, " "))
		return goja.Undefined()
	})
	r.VM.Set("console", console)
}

// Run executes src. A thrown exception is returned as an error.
func (r *Runtime) Run(src string) error {
	if _, err := r.VM.RunString(src); err != nil {
		var exc *goja.Exception
		if errors.As(err, &exc) {
			return errors.Errorf("uncaught exception: %s", exc.Value())
		}
		return errors.Wrap(err, "run")
	}
	return nil
}

// Run executes src in a fresh runtime, writing console output to stdout.
func Run(src string, stdout io.Writer) error {
	return NewRuntime(stdout).Run(src)
}
