// Package loxerror collects the static and runtime diagnostics produced
// while running a single line or file through the tree-walking front
// end. It mirrors the two-flag design of the original interpreter's
// error module, with diagnostics additionally aggregated so a caller
// can report every error from one pass instead of only the first.
package loxerror

import (
	"fmt"
	"io"

	"github.com/hashicorp/go-multierror"

	"lox/internal/token"
)

// Collector tracks whether a scan/parse/resolve/evaluate pass failed,
// and why. HadError and HadRuntimeError are the two flags the REPL and
// CLI consult to pick an exit code; they must never be derived from
// anything else.
type Collector struct {
	HadError        bool
	HadRuntimeError bool

	errs *multierror.Error
}

// New returns a fresh Collector with both flags clear.
func New() *Collector {
	return &Collector{}
}

// Reset clears both flags and the diagnostic list, ready for another
// REPL line.
func (c *Collector) Reset() {
	c.HadError = false
	c.HadRuntimeError = false
	c.errs = nil
}

// ScanError reports a lexical error at the given line.
func (c *Collector) ScanError(line int, message string) {
	c.report(line, "", message)
}

// ParseError reports a static (parse or resolve) error at a token.
func (c *Collector) ParseError(tok token.Token, message string) {
	if tok.Kind == token.EOF {
		c.report(tok.Line, " at end", message)
		return
	}
	c.report(tok.Line, fmt.Sprintf(" at '%s'", tok.Lexeme), message)
}

// ResolverError reports a static error discovered during resolution.
// It shares format and bookkeeping with ParseError.
func (c *Collector) ResolverError(tok token.Token, message string) {
	c.ParseError(tok, message)
}

// CompileError reports a static error from the bytecode compiler, which
// uses its own token vocabulary (internal/bytecode/token) and so can't
// share ParseError's tree-walking token.Token parameter. where is the
// already-formatted location (" at end", " at 'X'", or empty), mirroring
// ParseError's EOF/non-EOF branches.
func (c *Collector) CompileError(line int, where, message string) {
	c.report(line, where, message)
}

func (c *Collector) report(line int, where, message string) {
	c.HadError = true
	c.errs = multierror.Append(c.errs, fmt.Errorf("[line %d] Error%s: %s", line, where, message))
}

// RuntimeError reports a runtime failure raised while evaluating the
// tree-walking interpreter. message must already be the user-facing
// text; line identifies the statement/expression that failed. Format
// is "<message> [line N]", part of the external contract.
func (c *Collector) RuntimeError(line int, message string) {
	c.HadRuntimeError = true
	c.errs = multierror.Append(c.errs, fmt.Errorf("%s [line %d]", message, line))
}

// Diagnostics returns every collected diagnostic in the order reported.
func (c *Collector) Diagnostics() []error {
	if c.errs == nil {
		return nil
	}
	return c.errs.Errors
}

// PrintAll writes every collected diagnostic to w, one per line.
func (c *Collector) PrintAll(w io.Writer) {
	for _, e := range c.Diagnostics() {
		fmt.Fprintln(w, e.Error())
	}
}
