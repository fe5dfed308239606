package resolver_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lox/internal/ast"
	"lox/internal/loxerror"
	"lox/internal/parser"
	"lox/internal/resolver"
	"lox/internal/scanner"
)

func resolve(t *testing.T, src string) (*ast.Program, *loxerror.Collector) {
	t.Helper()
	errs := loxerror.New()
	toks := scanner.New([]byte(src), errs).Scan()
	prog := parser.New(toks, errs).Parse()
	require.False(t, errs.HadError, "fixture must parse cleanly")
	resolver.New(errs).Resolve(prog)
	return prog, errs
}

func TestResolveLocalVariableSlot(t *testing.T) {
	prog, errs := resolve(t, `
		var x = 1;
		{
			var x = 2;
			print x;
		}
	`)
	require.False(t, errs.HadError)

	block := prog.Decls[1].(*ast.Block)
	printStmt := block.Decls[1].(*ast.PrintStmt)
	variable := printStmt.Expr.(*ast.Variable)

	depth, ok := variable.Slot.Get()
	require.True(t, ok)
	assert.Equal(t, 0, depth)
}

func TestResolveGlobalHasNoSlot(t *testing.T) {
	prog, errs := resolve(t, `
		var x = 1;
		print x;
	`)
	require.False(t, errs.HadError)

	printStmt := prog.Decls[1].(*ast.PrintStmt)
	variable := printStmt.Expr.(*ast.Variable)

	_, ok := variable.Slot.Get()
	assert.False(t, ok, "a global reference should never get a resolved depth")
}

func TestResolveSelfReferenceInInitializerIsAnError(t *testing.T) {
	errs := loxerror.New()
	toks := scanner.New([]byte(`{ var a = a; }`), errs).Scan()
	prog := parser.New(toks, errs).Parse()
	require.False(t, errs.HadError)

	resolver.New(errs).Resolve(prog)
	assert.True(t, errs.HadError)
}

func TestResolveDuplicateDeclarationInScopeIsAnError(t *testing.T) {
	errs := loxerror.New()
	toks := scanner.New([]byte(`{ var a = 1; var a = 2; }`), errs).Scan()
	prog := parser.New(toks, errs).Parse()
	require.False(t, errs.HadError)

	resolver.New(errs).Resolve(prog)
	assert.True(t, errs.HadError)
}

func TestResolveReturnOutsideFunctionIsAnError(t *testing.T) {
	errs := loxerror.New()
	toks := scanner.New([]byte(`return 1;`), errs).Scan()
	prog := parser.New(toks, errs).Parse()
	require.False(t, errs.HadError)

	resolver.New(errs).Resolve(prog)
	assert.True(t, errs.HadError)
}

func TestResolveThisOutsideClassIsAnError(t *testing.T) {
	errs := loxerror.New()
	toks := scanner.New([]byte(`print this;`), errs).Scan()
	prog := parser.New(toks, errs).Parse()
	require.False(t, errs.HadError)

	resolver.New(errs).Resolve(prog)
	assert.True(t, errs.HadError)
}

func TestResolveClassSelfInheritanceIsAnError(t *testing.T) {
	errs := loxerror.New()
	toks := scanner.New([]byte(`class A < A {}`), errs).Scan()
	prog := parser.New(toks, errs).Parse()
	require.False(t, errs.HadError)

	resolver.New(errs).Resolve(prog)
	assert.True(t, errs.HadError)
}
