package compiler_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lox/internal/bytecode/chunk"
	"lox/internal/bytecode/compiler"
	"lox/internal/loxerror"
)

func TestCompileSimpleExpression(t *testing.T) {
	errs := loxerror.New()
	c, ok := compiler.New("1 + 2", errs).Compile()
	require.True(t, ok)
	require.NotEmpty(t, c.Code)
	assert.Equal(t, chunk.OpReturn, chunk.Op(c.Code[len(c.Code)-1]))
}

func TestCompileUnexpectedCharacterFails(t *testing.T) {
	errs := loxerror.New()
	_, ok := compiler.New("@", errs).Compile()
	assert.False(t, ok)
	assert.True(t, errs.HadError)
}

func TestCompileMissingClosingParenFails(t *testing.T) {
	errs := loxerror.New()
	_, ok := compiler.New("(1 + 2", errs).Compile()
	assert.False(t, ok)
	assert.True(t, errs.HadError)
}

func TestCompileEmptyExpressionFails(t *testing.T) {
	errs := loxerror.New()
	_, ok := compiler.New("", errs).Compile()
	assert.False(t, ok)
}
