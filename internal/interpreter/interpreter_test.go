package interpreter_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lox/internal/interpreter"
	"lox/internal/loxerror"
	"lox/internal/parser"
	"lox/internal/resolver"
	"lox/internal/scanner"
)

func run(t *testing.T, src string) (string, *loxerror.Collector) {
	t.Helper()
	errs := loxerror.New()
	toks := scanner.New([]byte(src), errs).Scan()
	prog := parser.New(toks, errs).Parse()
	require.False(t, errs.HadError, "fixture must parse cleanly")
	resolver.New(errs).Resolve(prog)
	require.False(t, errs.HadError, "fixture must resolve cleanly")

	var buf bytes.Buffer
	interpreter.New(errs, &buf).Run(prog)
	return buf.String(), errs
}

func TestArithmeticAndPrint(t *testing.T) {
	out, errs := run(t, `print 1 + 2 * 3;`)
	assert.False(t, errs.HadRuntimeError)
	assert.Equal(t, "7\n", out)
}

func TestStringConcatenation(t *testing.T) {
	out, _ := run(t, `print "foo" + "bar";`)
	assert.Equal(t, "foobar\n", out)
}

func TestBinaryMinusIsSubtractionNotAddition(t *testing.T) {
	out, _ := run(t, `print 10 - 3;`)
	assert.Equal(t, "7\n", out, "binary minus must subtract, not add")
}

func TestOnlyTrueIsTruthy(t *testing.T) {
	out, _ := run(t, `
		if (0) { print "truthy"; } else { print "falsy"; }
	`)
	assert.Equal(t, "falsy\n", out, "0 must be falsy per the documented quirk")
}

func TestLogicOperatorsReturnCoercedBool(t *testing.T) {
	out, _ := run(t, `print "hi" or "bye";`)
	assert.Equal(t, "false\n", out, "or must yield a coerced bool (strings are falsy), not the left operand itself")

	out, _ = run(t, `print nil and "x";`)
	assert.Equal(t, "false\n", out)
}

func TestClosureCapturesMutableVariable(t *testing.T) {
	out, _ := run(t, `
		fun makeCounter() {
			var i = 0;
			fun count() {
				i = i + 1;
				print i;
			}
			return count;
		}
		var c = makeCounter();
		c();
		c();
	`)
	assert.Equal(t, "1\n2\n", out)
}

func TestClassInitAndMethodCall(t *testing.T) {
	out, _ := run(t, `
		class Greeter {
			init(name) {
				this.name = name;
			}
			greet() {
				print "hi " + this.name;
			}
		}
		Greeter("world").greet();
	`)
	assert.Equal(t, "hi world\n", out)
}

func TestSuperCallsParentMethod(t *testing.T) {
	out, _ := run(t, `
		class A {
			speak() { print "a"; }
		}
		class B < A {
			speak() {
				super.speak();
				print "b";
			}
		}
		B().speak();
	`)
	assert.Equal(t, "a\nb\n", out)
}

func TestUndefinedVariableIsARuntimeError(t *testing.T) {
	_, errs := run(t, `print missing;`)
	assert.True(t, errs.HadRuntimeError)
	diags := errs.Diagnostics()
	require.NotEmpty(t, diags)
	assert.True(t, strings.Contains(diags[0].Error(), "Variable 'missing' is not defined."))
}

func TestCallingNonCallableIsARuntimeError(t *testing.T) {
	_, errs := run(t, `
		var x = 1;
		x();
	`)
	assert.True(t, errs.HadRuntimeError)
}

func TestWrongArityIsARuntimeError(t *testing.T) {
	_, errs := run(t, `
		fun f(a, b) { return a + b; }
		f(1);
	`)
	assert.True(t, errs.HadRuntimeError)
}

func TestClockIsCallableWithNoArguments(t *testing.T) {
	out, errs := run(t, `print clock() > 0;`)
	assert.False(t, errs.HadRuntimeError)
	assert.Equal(t, "true\n", out)
}
