// Package pipeline wires the tree-walking front end's four stages
// (scan, parse, resolve, evaluate) into the handful of combinations
// the CLI and the self-comparison test harness both need, so neither
// has to duplicate the plumbing.
package pipeline

import (
	"io"

	"lox/internal/ast"
	"lox/internal/interpreter"
	"lox/internal/loxerror"
	"lox/internal/parser"
	"lox/internal/resolver"
	"lox/internal/scanner"
	"lox/internal/token"
)

// ExitCode reports a pipeline's process exit status. The two
// backends use different conventions: the tree-walking frontend
// (Run, and cmd/lox's run/tokenize/parse/resolve) exits 1 on any
// scan, parse, resolve, or runtime error, matching the tree-walking
// original's uniform exit(1). The bytecode frontend (cmd/lox/vm.go)
// keeps the original CodeCrafters split of 65 for a compile error and
// 70 for a runtime error.
type ExitCode int

const (
	ExitOK      ExitCode = 0
	ExitError   ExitCode = 1
	ExitStatic  ExitCode = 65
	ExitRuntime ExitCode = 70
)

// Scan lexes src, reporting lexical errors to errs.
func Scan(src []byte, errs *loxerror.Collector) []token.Token {
	return scanner.New(src, errs).Scan()
}

// Parse scans and parses src into a Program. Callers should check
// errs.HadError before trusting the result.
func Parse(src []byte, errs *loxerror.Collector) *ast.Program {
	toks := Scan(src, errs)
	return parser.New(toks, errs).Parse()
}

// Resolve parses and statically resolves src.
func Resolve(src []byte, errs *loxerror.Collector) *ast.Program {
	prog := Parse(src, errs)
	if errs.HadError {
		return prog
	}
	resolver.New(errs).Resolve(prog)
	return prog
}

// Run parses, resolves, and evaluates src, writing `print` output to
// out. It returns the exit code the tree-walking CLI should use: 0 on
// success, 1 on any static or runtime error.
func Run(src []byte, out io.Writer, errs *loxerror.Collector) ExitCode {
	prog := Resolve(src, errs)
	if errs.HadError {
		return ExitError
	}
	interpreter.New(errs, out).Run(prog)
	if errs.HadRuntimeError {
		return ExitError
	}
	return ExitOK
}
