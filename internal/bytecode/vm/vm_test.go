package vm_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lox/internal/bytecode/compiler"
	"lox/internal/bytecode/vm"
	"lox/internal/loxerror"
)

func eval(t *testing.T, src string) (string, vm.Result) {
	t.Helper()
	errs := loxerror.New()
	c := compiler.New(src, errs)
	chunk, ok := c.Compile()
	require.True(t, ok, "fixture must compile cleanly")

	var buf bytes.Buffer
	result := vm.New(&buf, errs, false).Interpret(chunk)
	return buf.String(), result
}

func TestArithmetic(t *testing.T) {
	out, result := eval(t, "1 + 2 * 3")
	assert.Equal(t, vm.Ok, result)
	assert.Equal(t, "7\n", out)
}

func TestGroupingChangesPrecedence(t *testing.T) {
	out, _ := eval(t, "(1 + 2) * 3")
	assert.Equal(t, "9\n", out)
}

func TestNegate(t *testing.T) {
	out, _ := eval(t, "-(3 + 4)")
	assert.Equal(t, "-7\n", out)
}

func TestComparisonOperators(t *testing.T) {
	cases := map[string]string{
		"2 < 3":           "true",
		"3 <= 3":          "true",
		"3 > 2":           "true",
		"2 >= 3":          "false",
		"1 == 1":          "true",
		"1 != 2":          "true",
		"\"a\" == \"a\"":  "true",
		"nil == nil":      "true",
		"!true":           "false",
		"!nil":            "true",
	}
	for src, want := range cases {
		out, result := eval(t, src)
		assert.Equal(t, vm.Ok, result, src)
		assert.Equal(t, want+"\n", out, src)
	}
}

func TestStringConcatenation(t *testing.T) {
	out, _ := eval(t, `"foo" + "bar"`)
	assert.Equal(t, "foobar\n", out)
}

func TestTypeMismatchIsARuntimeError(t *testing.T) {
	_, result := eval(t, `1 + "two"`)
	assert.Equal(t, vm.RuntimeError, result)
}

func TestNegatingNonNumberIsARuntimeError(t *testing.T) {
	_, result := eval(t, `-"x"`)
	assert.Equal(t, vm.RuntimeError, result)
}
