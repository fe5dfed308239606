package object_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"lox/internal/ast"
	"lox/internal/object"
)

func TestTruthy(t *testing.T) {
	assert.True(t, object.Truthy(object.Bool(true)))
	assert.False(t, object.Truthy(object.Bool(false)))
	assert.False(t, object.Truthy(object.Nil{}))
	assert.False(t, object.Truthy(object.Number(0)))
	assert.False(t, object.Truthy(object.String("")))
	assert.False(t, object.Truthy(object.Number(1)))
}

func TestNumberString(t *testing.T) {
	assert.Equal(t, "3", object.Number(3).String())
	assert.Equal(t, "3.5", object.Number(3.5).String())
	assert.Equal(t, "-2", object.Number(-2).String())
}

func TestEqual(t *testing.T) {
	assert.True(t, object.Equal(object.Number(1), object.Number(1)))
	assert.False(t, object.Equal(object.Number(1), object.Number(2)))
	assert.True(t, object.Equal(object.Intern("a"), object.Intern("a")))
	assert.False(t, object.Equal(object.Number(1), object.String("1")))
	assert.True(t, object.Equal(object.Nil{}, object.Nil{}))
	assert.False(t, object.Equal(object.Bool(false), object.Nil{}))
}

func TestClassFindMethodInheritance(t *testing.T) {
	base := &object.Class{Name: "Base", Methods: map[string]*object.DeclaredFn{
		"greet": {},
	}}
	derived := &object.Class{Name: "Derived", Superclass: base, Methods: map[string]*object.DeclaredFn{}}

	_, ok := derived.FindMethod("greet")
	assert.True(t, ok, "should find inherited method")

	_, ok = derived.FindMethod("missing")
	assert.False(t, ok)
}

func TestCallableDisplayUsesFunNotFn(t *testing.T) {
	builtin := &object.BuiltinFn{Name: "clock", Arty: 0}
	assert.Equal(t, "<native fun clock>", builtin.String())

	fn := &object.DeclaredFn{Declaration: &ast.FunDecl{Name: "greet"}}
	assert.Equal(t, "<fun greet>", fn.String())
}

func TestInstanceFieldShadowsMethod(t *testing.T) {
	class := &object.Class{Name: "C", Methods: map[string]*object.DeclaredFn{"x": {}}}
	inst := object.NewInstance(class)
	inst.Set("x", object.Number(42))

	v, ok := inst.Get("x")
	assert.True(t, ok)
	assert.Equal(t, object.Number(42), v)
}
