// Package object defines the tree-walking evaluator's runtime value
// representation: a small tagged union plus the function/class/
// instance shapes needed for closures and inheritance.
package object

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/josharian/intern"

	"lox/internal/ast"
	"lox/internal/environment"
)

// Value is any Lox runtime value.
type Value interface {
	fmt.Stringer
	value()
}

// Nil is the single nil value.
type Nil struct{}

func (Nil) value()        {}
func (Nil) String() string { return "nil" }

// Bool wraps a boolean. Only Bool(true) is truthy — see Truthy.
type Bool bool

func (Bool) value()          {}
func (b Bool) String() string { return strconv.FormatBool(bool(b)) }

// Number wraps a float64. Integral values render without a decimal
// point; everything else uses Go's default float formatting.
type Number float64

func (Number) value() {}
func (n Number) String() string {
	f := float64(n)
	if f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// String wraps Lox string data. The backing Go string is interned so
// repeated identical literals/concatenations share storage and
// equality gets a cheap pointer-free fast path via Go's own string
// comparison (already O(1) for interned-identical backing arrays).
type String string

func (String) value() {}
func (s String) String() string { return string(s) }

// Intern returns s with its backing text canonicalized through the
// shared intern table.
func Intern(s string) String {
	return String(intern.String(s))
}

// Truthy implements the documented truthiness quirk: only Bool(true)
// is truthy. Every other value — including Bool(false), 0, "", Nil —
// is falsy.
func Truthy(v Value) bool {
	b, ok := v.(Bool)
	return ok && bool(b)
}

// Equal implements cross-type-never-equal value/identity equality:
// numbers by value, strings by content, everything else (including
// functions/classes/instances) by Go identity.
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case Nil:
		_, ok := b.(Nil)
		return ok
	case Bool:
		bv, ok := b.(Bool)
		return ok && av == bv
	case Number:
		bv, ok := b.(Number)
		return ok && av == bv
	case String:
		bv, ok := b.(String)
		return ok && av == bv
	default:
		return a == b
	}
}

// Callable is implemented by every value that can appear as the
// callee of a Call expression.
type Callable interface {
	Value
	Arity() int
}

// BuiltinFn is a host-provided function such as clock().
type BuiltinFn struct {
	Name string
	Arty int
	Fn   func(args []Value) Value
}

func (*BuiltinFn) value()          {}
func (b *BuiltinFn) Arity() int     { return b.Arty }
func (b *BuiltinFn) String() string { return "<native fun " + b.Name + ">" }

// DeclaredFn is a user-defined function or method, closing over the
// environment active at its declaration site.
type DeclaredFn struct {
	Declaration   *ast.FunDecl
	Closure       *environment.Environment
	IsInitializer bool
}

func (*DeclaredFn) value()          {}
func (f *DeclaredFn) Arity() int     { return len(f.Declaration.Params) }
func (f *DeclaredFn) String() string { return "<fun " + f.Declaration.Name + ">" }

// Bind returns a copy of f with "this" defined in a new environment
// enclosed by f's closure — used when a method is accessed on an
// instance.
func (f *DeclaredFn) Bind(instance *Instance) *DeclaredFn {
	env := environment.New(f.Closure)
	env.Define("this", instance)
	return &DeclaredFn{Declaration: f.Declaration, Closure: env, IsInitializer: f.IsInitializer}
}

// Class is a Lox class: an immutable name, optional superclass, and
// method table, freely shared once constructed.
type Class struct {
	Name       string
	Superclass *Class
	Methods    map[string]*DeclaredFn
}

func (*Class) value() {}
func (c *Class) String() string { return c.Name }

// Arity equals the arity of init, or 0 if the class has none.
func (c *Class) Arity() int {
	if init, ok := c.FindMethod("init"); ok {
		return init.Arity()
	}
	return 0
}

// FindMethod looks in the class's own methods, then recurses into the
// superclass chain.
func (c *Class) FindMethod(name string) (*DeclaredFn, bool) {
	if m, ok := c.Methods[name]; ok {
		return m, true
	}
	if c.Superclass != nil {
		return c.Superclass.FindMethod(name)
	}
	return nil, false
}

// Instance is a live object of some Class with mutable fields.
type Instance struct {
	Class  *Class
	Fields map[string]Value
}

// NewInstance returns an instance with an empty field map.
func NewInstance(class *Class) *Instance {
	return &Instance{Class: class, Fields: map[string]Value{}}
}

func (*Instance) value() {}
func (i *Instance) String() string {
	sb := strings.Builder{}
	sb.WriteString("<")
	sb.WriteString(i.Class.Name)
	sb.WriteString(" instance>")
	return sb.String()
}

// Get looks up fields first, then methods (bound to the instance),
// per spec: field shadowing takes priority over methods.
func (i *Instance) Get(name string) (Value, bool) {
	if v, ok := i.Fields[name]; ok {
		return v, true
	}
	if m, ok := i.Class.FindMethod(name); ok {
		return m.Bind(i), true
	}
	return nil, false
}

// Set stores into the instance's field map, creating the field if
// absent.
func (i *Instance) Set(name string, v Value) {
	i.Fields[name] = v
}
