// Package compiler implements the bytecode front end's single-pass
// Pratt compiler: scanning, parsing, and code generation happen in
// one pass with no intermediate AST, driven by a fixed table of
// per-token prefix/infix parse rules indexed by token kind.
package compiler

import (
	"fmt"
	"strconv"

	"lox/internal/bytecode/chunk"
	"lox/internal/bytecode/scanner"
	"lox/internal/bytecode/token"
	"lox/internal/loxerror"
	"lox/internal/object"
)

// precedence orders binding strength from loosest to tightest; each
// step up parses one level tighter.
type precedence int

const (
	precNone precedence = iota
	precAssignment
	precOr
	precAnd
	precEquality
	precComparison
	precTerm
	precFactor
	precUnary
	precCall
	precPrimary
)

type parseFn func(c *Compiler)

type parseRule struct {
	prefix     parseFn
	infix      parseFn
	precedence precedence
}

// rules is indexed by token.Kind; every entry left zero-valued has no
// prefix/infix position and binds at precNone.
var rules [token.While + 1]parseRule

func init() {
	rules[token.LeftParen] = parseRule{prefix: (*Compiler).grouping}
	rules[token.Minus] = parseRule{prefix: (*Compiler).unary, infix: (*Compiler).binary, precedence: precTerm}
	rules[token.Plus] = parseRule{infix: (*Compiler).binary, precedence: precTerm}
	rules[token.Slash] = parseRule{infix: (*Compiler).binary, precedence: precFactor}
	rules[token.Star] = parseRule{infix: (*Compiler).binary, precedence: precFactor}
	rules[token.Bang] = parseRule{prefix: (*Compiler).unary}
	rules[token.BangEqual] = parseRule{infix: (*Compiler).binary, precedence: precEquality}
	rules[token.EqualEqual] = parseRule{infix: (*Compiler).binary, precedence: precEquality}
	rules[token.Greater] = parseRule{infix: (*Compiler).binary, precedence: precComparison}
	rules[token.GreaterEqual] = parseRule{infix: (*Compiler).binary, precedence: precComparison}
	rules[token.Less] = parseRule{infix: (*Compiler).binary, precedence: precComparison}
	rules[token.LessEqual] = parseRule{infix: (*Compiler).binary, precedence: precComparison}
	rules[token.String] = parseRule{prefix: (*Compiler).string}
	rules[token.Number] = parseRule{prefix: (*Compiler).number}
	rules[token.False] = parseRule{prefix: (*Compiler).literal}
	rules[token.True] = parseRule{prefix: (*Compiler).literal}
	rules[token.Nil] = parseRule{prefix: (*Compiler).literal}
}

func getRule(kind token.Kind) *parseRule { return &rules[kind] }

// Compiler is a one-shot Pratt compiler: construct with New, call
// Compile once.
type Compiler struct {
	scanner   *scanner.Scanner
	current   token.Token
	previous  token.Token
	hadError  bool
	panicMode bool
	errs      *loxerror.Collector
	chunk     *chunk.Chunk
}

// New returns a Compiler ready to compile src into a fresh Chunk.
func New(src string, errs *loxerror.Collector) *Compiler {
	return &Compiler{scanner: scanner.New(src), errs: errs, chunk: chunk.New()}
}

// Compile parses and emits code for a single expression, returning
// the resulting Chunk and whether compilation succeeded.
func (c *Compiler) Compile() (*chunk.Chunk, bool) {
	c.advance()
	c.expression()
	c.consume(token.EOF, "Expect end of expression.")
	c.emitOp(chunk.OpReturn)
	return c.chunk, !c.hadError
}

func (c *Compiler) expression() {
	c.parsePrecedence(precAssignment)
}

func (c *Compiler) number() {
	f, _ := strconv.ParseFloat(c.previous.Lexeme, 64)
	c.emitConstant(object.Number(f))
}

func (c *Compiler) parsePrecedence(prec precedence) {
	c.advance()
	prefix := getRule(c.previous.Kind).prefix
	if prefix == nil {
		c.error("Expect expression.")
		return
	}
	prefix(c)

	for prec <= getRule(c.current.Kind).precedence {
		c.advance()
		infix := getRule(c.previous.Kind).infix
		infix(c)
	}
}

func (c *Compiler) grouping() {
	c.expression()
	c.consume(token.RightParen, "Expect ')' after expression.")
}

func (c *Compiler) unary() {
	op := c.previous.Kind
	c.parsePrecedence(precUnary)
	switch op {
	case token.Minus:
		c.emitOp(chunk.OpNegate)
	case token.Bang:
		c.emitOp(chunk.OpNot)
	}
}

func (c *Compiler) binary() {
	op := c.previous.Kind
	rule := getRule(op)
	c.parsePrecedence(rule.precedence + 1)

	switch op {
	case token.Plus:
		c.emitOp(chunk.OpAdd)
	case token.Minus:
		c.emitOp(chunk.OpSubtract)
	case token.Star:
		c.emitOp(chunk.OpMultiply)
	case token.Slash:
		c.emitOp(chunk.OpDivide)
	case token.EqualEqual:
		c.emitOp(chunk.OpEqual)
	case token.BangEqual:
		c.emitOp(chunk.OpEqual)
		c.emitOp(chunk.OpNot)
	case token.Greater:
		c.emitOp(chunk.OpGreater)
	case token.GreaterEqual:
		c.emitOp(chunk.OpLess)
		c.emitOp(chunk.OpNot)
	case token.Less:
		c.emitOp(chunk.OpLess)
	case token.LessEqual:
		c.emitOp(chunk.OpGreater)
		c.emitOp(chunk.OpNot)
	}
}

func (c *Compiler) literal() {
	switch c.previous.Kind {
	case token.False:
		c.emitOp(chunk.OpFalse)
	case token.True:
		c.emitOp(chunk.OpTrue)
	case token.Nil:
		c.emitOp(chunk.OpNil)
	}
}

func (c *Compiler) string() {
	lexeme := c.previous.Lexeme
	c.emitConstant(object.Intern(lexeme[1 : len(lexeme)-1]))
}

func (c *Compiler) emitConstant(v object.Value) {
	idx := c.chunk.AddConstant(v)
	if idx < 0 {
		c.error("Too many constants in one chunk.")
		idx = 0
	}
	c.emitOp(chunk.OpConstant)
	c.emitByte(byte(idx))
}

func (c *Compiler) emitOp(op chunk.Op) { c.emitByte(byte(op)) }
func (c *Compiler) emitByte(b byte)    { c.chunk.Write(b, c.previous.Line) }

// --- token stream ---

func (c *Compiler) advance() {
	c.previous = c.current
	for {
		c.current = c.scanner.ScanToken()
		if c.current.Kind != token.Error {
			break
		}
		c.errorAtCurrent(c.current.Lexeme)
	}
}

func (c *Compiler) consume(kind token.Kind, message string) {
	if c.current.Kind == kind {
		c.advance()
		return
	}
	c.errorAtCurrent(message)
}

func (c *Compiler) error(message string)        { c.errorAt(c.previous, message) }
func (c *Compiler) errorAtCurrent(message string) { c.errorAt(c.current, message) }

func (c *Compiler) errorAt(tok token.Token, message string) {
	if c.panicMode {
		return
	}
	c.panicMode = true
	c.hadError = true

	where := fmt.Sprintf(" at '%s'", tok.Lexeme)
	switch tok.Kind {
	case token.EOF:
		where = " at end"
	case token.Error:
		where = ""
	}
	c.errs.CompileError(tok.Line, where, message)
}
