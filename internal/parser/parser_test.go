package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lox/internal/ast"
	"lox/internal/loxerror"
	"lox/internal/parser"
	"lox/internal/scanner"
)

func parse(t *testing.T, src string) (*ast.Program, *loxerror.Collector) {
	t.Helper()
	errs := loxerror.New()
	toks := scanner.New([]byte(src), errs).Scan()
	prog := parser.New(toks, errs).Parse()
	return prog, errs
}

func TestParseVarDecl(t *testing.T) {
	prog, errs := parse(t, `var x = 1 + 2;`)
	require.False(t, errs.HadError)
	require.Len(t, prog.Decls, 1)

	vd, ok := prog.Decls[0].(*ast.VarDecl)
	require.True(t, ok)
	assert.Equal(t, "x", vd.Name)
}

func TestParseClassWithSuperclassAndMethods(t *testing.T) {
	prog, errs := parse(t, `
		class Animal {}
		class Dog < Animal {
			speak() { print "woof"; }
		}
	`)
	require.False(t, errs.HadError)
	require.Len(t, prog.Decls, 2)

	dog, ok := prog.Decls[1].(*ast.ClassDecl)
	require.True(t, ok)
	assert.Equal(t, "Dog", dog.Name)
	require.NotNil(t, dog.Superclass)
	assert.Equal(t, "Animal", dog.Superclass.Name.Lexeme)
	require.Len(t, dog.Methods, 1)
	assert.Equal(t, "speak", dog.Methods[0].Name)
}

func TestParseCallArgumentsLoopsOverEveryComma(t *testing.T) {
	prog, errs := parse(t, `f(1, 2, 3, 4);`)
	require.False(t, errs.HadError)
	require.Len(t, prog.Decls, 1)

	es := prog.Decls[0].(*ast.ExprStmt)
	call := es.Expr.(*ast.Call)
	assert.Len(t, call.Args, 4, "every comma-separated argument must be kept, not just the first")
}

func TestParseForDesugarsToWhile(t *testing.T) {
	prog, errs := parse(t, `for (var i = 0; i < 3; i = i + 1) print i;`)
	require.False(t, errs.HadError)
	require.Len(t, prog.Decls, 1)

	block, ok := prog.Decls[0].(*ast.Block)
	require.True(t, ok, "for must desugar into a block containing the initializer and a while loop")
	require.Len(t, block.Decls, 2)
	_, isVarDecl := block.Decls[0].(*ast.VarDecl)
	assert.True(t, isVarDecl)
	_, isWhile := block.Decls[1].(*ast.WhileStmt)
	assert.True(t, isWhile)
}

func TestParseAssignmentToNonTargetReportsError(t *testing.T) {
	_, errs := parse(t, `1 = 2;`)
	assert.True(t, errs.HadError)
}

func TestParseMissingSemicolonSynchronizes(t *testing.T) {
	prog, errs := parse(t, `
		var x = 1
		var y = 2;
	`)
	assert.True(t, errs.HadError)
	// Recovery should still find the second, well-formed declaration.
	found := false
	for _, d := range prog.Decls {
		if vd, ok := d.(*ast.VarDecl); ok && vd.Name == "y" {
			found = true
		}
	}
	assert.True(t, found, "parser must resynchronize after a missing semicolon")
}

func TestParseTooManyArgumentsReportsButContinues(t *testing.T) {
	args := "1"
	for i := 0; i < 255; i++ {
		args += ", 1"
	}
	prog, errs := parse(t, `f(`+args+`);`)
	assert.True(t, errs.HadError)
	require.Len(t, prog.Decls, 1, "parsing must continue past the limit and keep the call")
	call := prog.Decls[0].(*ast.ExprStmt).Expr.(*ast.Call)
	assert.Len(t, call.Args, 256)
}
