// Package vm implements the bytecode stack machine that executes a
// compiled Chunk. It mirrors the original Rust VM's run loop closely,
// generalized from float64-only arithmetic to the full object.Value
// union now that the language has booleans, nil, and strings.
package vm

import (
	"fmt"
	"io"

	"lox/internal/bytecode/chunk"
	"lox/internal/bytecode/debug"
	"lox/internal/loxerror"
	"lox/internal/object"
)

const initialStackCapacity = 256

// Result reports how Interpret finished.
type Result int

const (
	Ok Result = iota
	CompileError
	RuntimeError
)

// VM executes chunks against a reusable value stack.
type VM struct {
	stack []object.Value
	out   io.Writer
	errs  *loxerror.Collector
	trace bool
}

// New returns a VM that writes OP_RETURN output and runtime error
// messages to out, and sets errs.HadRuntimeError on a runtime failure
// (the message is not added to errs' diagnostics). Set trace to
// disassemble and dump the stack before every instruction (the
// "--debug" CLI flag).
func New(out io.Writer, errs *loxerror.Collector, trace bool) *VM {
	return &VM{stack: make([]object.Value, 0, initialStackCapacity), out: out, errs: errs, trace: trace}
}

// Interpret runs c to completion, resetting the stack first.
func (vm *VM) Interpret(c *chunk.Chunk) Result {
	vm.stack = vm.stack[:0]
	return vm.run(c)
}

type runtimeFailure struct{ message string }

func (vm *VM) fail(msg string) { panic(runtimeFailure{msg}) }

func (vm *VM) run(c *chunk.Chunk) (result Result) {
	ip := 0

	defer func() {
		if r := recover(); r != nil {
			rf, ok := r.(runtimeFailure)
			if !ok {
				panic(r)
			}
			line := 0
			if ip-1 >= 0 && ip-1 < len(c.Lines) {
				line = c.Lines[ip-1]
			}
			fmt.Fprintf(vm.out, "%s\n[line %d] in script\n", rf.message, line)
			vm.errs.HadRuntimeError = true
			result = RuntimeError
		}
	}()

	readByte := func() byte {
		b := c.Code[ip]
		ip++
		return b
	}

	for {
		if vm.trace {
			debug.TraceStack(vm.out, vm.stack)
			debug.DisassembleInstruction(vm.out, c, ip)
		}

		op := chunk.Op(readByte())
		switch op {
		case chunk.OpConstant:
			vm.push(c.Constants[readByte()])
		case chunk.OpNil:
			vm.push(object.Nil{})
		case chunk.OpTrue:
			vm.push(object.Bool(true))
		case chunk.OpFalse:
			vm.push(object.Bool(false))
		case chunk.OpEqual:
			b, a := vm.pop(), vm.pop()
			vm.push(object.Bool(object.Equal(a, b)))
		case chunk.OpGreater:
			vm.numericBinary(func(a, b float64) object.Value { return object.Bool(a > b) })
		case chunk.OpLess:
			vm.numericBinary(func(a, b float64) object.Value { return object.Bool(a < b) })
		case chunk.OpAdd:
			vm.add()
		case chunk.OpSubtract:
			vm.numericBinary(func(a, b float64) object.Value { return object.Number(a - b) })
		case chunk.OpMultiply:
			vm.numericBinary(func(a, b float64) object.Value { return object.Number(a * b) })
		case chunk.OpDivide:
			vm.numericBinary(func(a, b float64) object.Value { return object.Number(a / b) })
		case chunk.OpNot:
			vm.push(object.Bool(!object.Truthy(vm.pop())))
		case chunk.OpNegate:
			n, ok := vm.peek(0).(object.Number)
			if !ok {
				vm.fail("Operands must be numbers.")
			}
			vm.stack[len(vm.stack)-1] = -n
		case chunk.OpReturn:
			fmt.Fprintln(vm.out, vm.pop().String())
			return Ok
		}
	}
}

func (vm *VM) add() {
	b, a := vm.pop(), vm.pop()
	if an, ok := a.(object.Number); ok {
		if bn, ok := b.(object.Number); ok {
			vm.push(an + bn)
			return
		}
	}
	if as, ok := a.(object.String); ok {
		if bs, ok := b.(object.String); ok {
			vm.push(object.Intern(string(as) + string(bs)))
			return
		}
	}
	vm.fail("Operands must be numbers.")
}

func (vm *VM) numericBinary(op func(a, b float64) object.Value) {
	b, bok := vm.peek(0).(object.Number)
	a, aok := vm.peek(1).(object.Number)
	if !aok || !bok {
		vm.fail("Operands must be numbers.")
	}
	vm.pop()
	vm.pop()
	vm.push(op(float64(a), float64(b)))
}

func (vm *VM) push(v object.Value) { vm.stack = append(vm.stack, v) }

func (vm *VM) pop() object.Value {
	last := len(vm.stack) - 1
	v := vm.stack[last]
	vm.stack = vm.stack[:last]
	return v
}

func (vm *VM) peek(distance int) object.Value {
	return vm.stack[len(vm.stack)-1-distance]
}
