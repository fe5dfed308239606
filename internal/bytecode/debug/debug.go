// Package debug implements the bytecode backend's disassembler and
// stack tracer, enabled by the CLI's --debug flag. It mirrors the
// original VM's disassemble_instruction/simple_instruction/
// constant_instruction trio, generalized to the larger opcode set.
package debug

import (
	"fmt"
	"io"

	"lox/internal/bytecode/chunk"
	"lox/internal/object"
)

// Disassemble writes a human-readable dump of every instruction in c
// under the given name, in the original "== name ==" banner style.
func Disassemble(w io.Writer, c *chunk.Chunk, name string) {
	fmt.Fprintf(w, "== %s ==\n", name)
	for offset := 0; offset < len(c.Code); {
		offset = DisassembleInstruction(w, c, offset)
	}
}

// DisassembleInstruction writes the instruction at offset and returns
// the offset of the next one.
func DisassembleInstruction(w io.Writer, c *chunk.Chunk, offset int) int {
	fmt.Fprintf(w, "%04d ", offset)

	if offset > 0 && c.Lines[offset] == c.Lines[offset-1] {
		fmt.Fprint(w, "   | ")
	} else {
		fmt.Fprintf(w, "%4d ", c.Lines[offset])
	}

	op := chunk.Op(c.Code[offset])
	switch op {
	case chunk.OpConstant:
		return constantInstruction(w, op.String(), c, offset)
	case chunk.OpNil, chunk.OpTrue, chunk.OpFalse,
		chunk.OpEqual, chunk.OpGreater, chunk.OpLess,
		chunk.OpAdd, chunk.OpSubtract, chunk.OpMultiply, chunk.OpDivide,
		chunk.OpNegate, chunk.OpNot, chunk.OpReturn:
		return simpleInstruction(w, op.String(), offset)
	default:
		fmt.Fprintf(w, "Unknown opcode %d\n", op)
		return offset + 1
	}
}

func simpleInstruction(w io.Writer, name string, offset int) int {
	fmt.Fprintln(w, name)
	return offset + 1
}

func constantInstruction(w io.Writer, name string, c *chunk.Chunk, offset int) int {
	constant := c.Code[offset+1]
	fmt.Fprintf(w, "%-16s %4d '%s'\n", name, constant, c.Constants[constant].String())
	return offset + 2
}

// TraceStack writes the current stack contents in the original's
// "[ v1 ][ v2 ]" bracketed form, used before each traced instruction.
func TraceStack(w io.Writer, stack []object.Value) {
	fmt.Fprint(w, "          ")
	for _, v := range stack {
		fmt.Fprintf(w, "[ %s ]", v.String())
	}
	fmt.Fprintln(w)
}
