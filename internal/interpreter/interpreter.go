// Package interpreter implements the tree-walking evaluator: the
// final stage of the front end, executing a resolved AST directly.
//
// Runtime errors and function returns share a control-flow channel in
// spirit (per the language's early-return design) but not in
// mechanism: a return unwinds via the (Value, Control) pair every
// AcceptStmt call already threads through, while a runtime error
// unwinds via panic/recover, caught once at Run's boundary. Recover
// only ever catches *runtimeError — anything else re-panics, so a
// real programming bug still crashes instead of being swallowed as a
// Lox-level error.
package interpreter

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"lox/internal/ast"
	"lox/internal/environment"
	"lox/internal/loxerror"
	"lox/internal/object"
	"lox/internal/token"
)

// Interpreter executes a resolved Program, writing `print` output to
// Out and reporting failures to Errs.
type Interpreter struct {
	globals *environment.Environment
	env     *environment.Environment
	errs    *loxerror.Collector
	out     io.Writer
}

// New returns an Interpreter with clock() and str() bound in the
// global environment.
func New(errs *loxerror.Collector, out io.Writer) *Interpreter {
	globals := environment.New(nil)
	it := &Interpreter{globals: globals, env: globals, errs: errs, out: out}
	it.defineBuiltins()
	return it
}

func (it *Interpreter) defineBuiltins() {
	it.globals.Define("clock", &object.BuiltinFn{
		Name: "clock",
		Arty: 0,
		Fn: func(args []object.Value) object.Value {
			return object.Number(float64(time.Now().UnixMilli()) / 1000.0)
		},
	})
	it.globals.Define("str", &object.BuiltinFn{
		Name: "str",
		Arty: 1,
		Fn: func(args []object.Value) object.Value {
			return object.Intern(args[0].String())
		},
	})
}

// runtimeError is the panic payload used to unwind to Run on a Lox
// runtime error. It is never allowed to escape Run.
type runtimeError struct {
	tok token.Token
	msg string
}

func fail(tok token.Token, msg string) {
	panic(runtimeError{tok: tok, msg: msg})
}

// Run executes prog to completion (or until a runtime error), always
// returning without panicking. Each top-level call resets neither
// flag — callers own REPL-line reset semantics via errs.Reset().
func (it *Interpreter) Run(prog *ast.Program) {
	defer func() {
		if r := recover(); r != nil {
			re, ok := r.(runtimeError)
			if !ok {
				panic(r)
			}
			it.errs.RuntimeError(re.tok.Line, re.msg)
		}
	}()

	for _, decl := range prog.Decls {
		_, ctrl := decl.AcceptStmt(it)
		if ctrl == ast.Returning {
			return
		}
	}
}

// --- StmtVisitor ---

func (it *Interpreter) VisitProgram(p *ast.Program) (ast.Value, ast.Control) {
	for _, d := range p.Decls {
		if _, ctrl := d.AcceptStmt(it); ctrl == ast.Returning {
			return nil, ast.Returning
		}
	}
	return nil, ast.Normal
}

func (it *Interpreter) VisitClassDecl(c *ast.ClassDecl) (ast.Value, ast.Control) {
	var superclass *object.Class
	if c.Superclass != nil {
		v := it.eval(c.Superclass)
		sc, ok := v.(*object.Class)
		if !ok {
			fail(c.Superclass.Name, "Superclass must be a class.")
		}
		superclass = sc
	}

	it.env.Define(c.Name, object.Nil{})

	methodEnv := it.env
	if c.Superclass != nil {
		methodEnv = environment.New(it.env)
		methodEnv.Define("super", superclass)
	}

	methods := map[string]*object.DeclaredFn{}
	for _, m := range c.Methods {
		methods[m.Name] = &object.DeclaredFn{
			Declaration:   m,
			Closure:       methodEnv,
			IsInitializer: m.Name == "init",
		}
	}

	class := &object.Class{Name: c.Name, Superclass: superclass, Methods: methods}
	it.env.Assign(c.Name, class)
	return nil, ast.Normal
}

func (it *Interpreter) VisitFunDecl(fd *ast.FunDecl) (ast.Value, ast.Control) {
	fn := &object.DeclaredFn{Declaration: fd, Closure: it.env}
	it.env.Define(fd.Name, fn)
	return nil, ast.Normal
}

func (it *Interpreter) VisitVarDecl(vd *ast.VarDecl) (ast.Value, ast.Control) {
	var value object.Value = object.Nil{}
	if vd.Expr != nil {
		value = it.eval(vd.Expr)
	}
	it.env.Define(vd.Name, value)
	return nil, ast.Normal
}

func (it *Interpreter) VisitExprStmt(es *ast.ExprStmt) (ast.Value, ast.Control) {
	it.eval(es.Expr)
	return nil, ast.Normal
}

func (it *Interpreter) VisitIfStmt(is *ast.IfStmt) (ast.Value, ast.Control) {
	if object.Truthy(it.eval(is.Condition)) {
		return is.ThenBranch.AcceptStmt(it)
	} else if is.ElseBranch != nil {
		return is.ElseBranch.AcceptStmt(it)
	}
	return nil, ast.Normal
}

func (it *Interpreter) VisitPrintStmt(ps *ast.PrintStmt) (ast.Value, ast.Control) {
	v := it.eval(ps.Expr)
	fmt.Fprintln(it.out, v.String())
	return nil, ast.Normal
}

func (it *Interpreter) VisitReturnStmt(rs *ast.ReturnStmt) (ast.Value, ast.Control) {
	var value object.Value = object.Nil{}
	if rs.Expr != nil {
		value = it.eval(rs.Expr)
	}
	return value, ast.Returning
}

func (it *Interpreter) VisitWhileStmt(ws *ast.WhileStmt) (ast.Value, ast.Control) {
	for object.Truthy(it.eval(ws.Condition)) {
		if v, ctrl := ws.Body.AcceptStmt(it); ctrl == ast.Returning {
			return v, ast.Returning
		}
	}
	return nil, ast.Normal
}

func (it *Interpreter) VisitBlock(b *ast.Block) (ast.Value, ast.Control) {
	return it.executeBlock(b.Decls, environment.New(it.env))
}

func (it *Interpreter) executeBlock(decls []ast.Stmt, env *environment.Environment) (ast.Value, ast.Control) {
	previous := it.env
	it.env = env
	defer func() { it.env = previous }()

	for _, d := range decls {
		if v, ctrl := d.AcceptStmt(it); ctrl == ast.Returning {
			return v, ast.Returning
		}
	}
	return nil, ast.Normal
}

// --- ExprVisitor ---

func (it *Interpreter) eval(e ast.Expr) object.Value {
	return e.AcceptExpr(it).(object.Value)
}

func (it *Interpreter) VisitAssignment(ae *ast.Assignment) ast.Value {
	value := it.eval(ae.Expr)
	if depth, ok := ae.Slot.Get(); ok {
		it.env.AssignAt(depth, ae.Name, value)
	} else if !it.globals.Assign(ae.Name, value) {
		fail(ae.NameTok, "Cannot assign to undefined variable '"+ae.Name+"'.")
	}
	return value
}

func (it *Interpreter) VisitSet(se *ast.Set) ast.Value {
	objVal := it.eval(se.Object)
	instance, ok := objVal.(*object.Instance)
	if !ok {
		fail(se.NameTok, "Only instances have fields.")
	}
	value := it.eval(se.Value)
	instance.Set(se.Name, value)
	return value
}

func (it *Interpreter) VisitThis(te *ast.This) ast.Value {
	return it.lookUpVariable(te.Keyword, te.Slot)
}

func (it *Interpreter) VisitLogicOr(loe *ast.LogicOr) ast.Value {
	left := it.eval(loe.Left)
	if object.Truthy(left) {
		return object.Bool(true)
	}
	return object.Bool(object.Truthy(it.eval(loe.Right)))
}

func (it *Interpreter) VisitLogicAnd(lae *ast.LogicAnd) ast.Value {
	left := it.eval(lae.Left)
	if !object.Truthy(left) {
		return object.Bool(false)
	}
	return object.Bool(object.Truthy(it.eval(lae.Right)))
}

func (it *Interpreter) VisitBinary(be *ast.Binary) ast.Value {
	left := it.eval(be.Left)
	right := it.eval(be.Right)

	switch be.Op.Kind {
	case token.Plus:
		if l, ok := left.(object.Number); ok {
			if r, ok := right.(object.Number); ok {
				return l + r
			}
		}
		if l, ok := left.(object.String); ok {
			if r, ok := right.(object.String); ok {
				return object.Intern(string(l) + string(r))
			}
		}
		fail(be.Op, "Operands must either both be numbers or both be strings.")
	case token.Minus:
		l, r := it.numberOperands(be.Op, left, right)
		return l - r
	case token.Star:
		l, r := it.numberOperands(be.Op, left, right)
		return l * r
	case token.Slash:
		l, r := it.numberOperands(be.Op, left, right)
		return l / r
	case token.Greater:
		l, r := it.numberOperands(be.Op, left, right)
		return object.Bool(l > r)
	case token.GreaterEqual:
		l, r := it.numberOperands(be.Op, left, right)
		return object.Bool(l >= r)
	case token.Less:
		l, r := it.numberOperands(be.Op, left, right)
		return object.Bool(l < r)
	case token.LessEqual:
		l, r := it.numberOperands(be.Op, left, right)
		return object.Bool(l <= r)
	case token.EqualEqual:
		return object.Bool(object.Equal(left, right))
	case token.BangEqual:
		return object.Bool(!object.Equal(left, right))
	}
	panic("interpreter: unreachable binary operator " + be.Op.Kind.String())
}

func (it *Interpreter) numberOperands(op token.Token, left, right object.Value) (object.Number, object.Number) {
	l, lok := left.(object.Number)
	r, rok := right.(object.Number)
	if !lok || !rok {
		fail(op, "Operands must both be numbers.")
	}
	return l, r
}

func (it *Interpreter) VisitUnary(ue *ast.Unary) ast.Value {
	right := it.eval(ue.Right)
	switch ue.Op.Kind {
	case token.Minus:
		n, ok := right.(object.Number)
		if !ok {
			fail(ue.Op, "Operand must be a number.")
		}
		return -n
	case token.Bang:
		return object.Bool(!object.Truthy(right))
	}
	panic("interpreter: unreachable unary operator " + ue.Op.Kind.String())
}

func (it *Interpreter) VisitCall(ce *ast.Call) ast.Value {
	callee := it.eval(ce.Callee)

	args := make([]object.Value, len(ce.Args))
	for i, a := range ce.Args {
		args[i] = it.eval(a)
	}

	switch fn := callee.(type) {
	case *object.BuiltinFn:
		if len(args) != fn.Arity() {
			fail(ce.Paren, fmt.Sprintf("Expected %d arguments but got %d.", fn.Arity(), len(args)))
		}
		return fn.Fn(args)
	case *object.DeclaredFn:
		if len(args) != fn.Arity() {
			fail(ce.Paren, fmt.Sprintf("Expected %d arguments but got %d.", fn.Arity(), len(args)))
		}
		return it.callDeclared(fn, args)
	case *object.Class:
		if len(args) != fn.Arity() {
			fail(ce.Paren, fmt.Sprintf("Expected %d arguments but got %d.", fn.Arity(), len(args)))
		}
		return it.instantiate(fn, args)
	default:
		fail(ce.Paren, "Can only call functions and classes.")
		panic("unreachable")
	}
}

func (it *Interpreter) callDeclared(fn *object.DeclaredFn, args []object.Value) object.Value {
	env := environment.New(fn.Closure)
	for i, param := range fn.Declaration.Params {
		env.Define(param.Lexeme, args[i])
	}

	value, ctrl := it.executeBlock(fn.Declaration.Body, env)

	if fn.IsInitializer {
		return fn.Closure.GetAt(0, "this").(object.Value)
	}
	if ctrl == ast.Returning {
		return value.(object.Value)
	}
	return object.Nil{}
}

func (it *Interpreter) instantiate(class *object.Class, args []object.Value) object.Value {
	instance := object.NewInstance(class)
	if init, ok := class.FindMethod("init"); ok {
		it.callDeclared(init.Bind(instance), args)
	}
	return instance
}

func (it *Interpreter) VisitGet(ge *ast.Get) ast.Value {
	objVal := it.eval(ge.Object)
	instance, ok := objVal.(*object.Instance)
	if !ok {
		fail(ge.Name, "Only instances have properties.")
	}
	v, ok := instance.Get(ge.Name.Lexeme)
	if !ok {
		fail(ge.Name, "Undefined property '"+ge.Name.Lexeme+"'.")
	}
	return v
}

func (it *Interpreter) VisitLiteral(le *ast.Literal) ast.Value {
	switch le.Kind {
	case ast.LiteralNil:
		return object.Nil{}
	case ast.LiteralBool:
		return object.Bool(le.Bool)
	case ast.LiteralNumber:
		f, _ := strconv.ParseFloat(le.Text, 64)
		return object.Number(f)
	case ast.LiteralString:
		return object.Intern(le.Text)
	}
	panic("interpreter: unreachable literal kind")
}

func (it *Interpreter) VisitGroup(ge *ast.Group) ast.Value {
	return it.eval(ge.Inner)
}

func (it *Interpreter) VisitVariable(ve *ast.Variable) ast.Value {
	return it.lookUpVariable(ve.Name, ve.Slot)
}

func (it *Interpreter) lookUpVariable(name token.Token, slot ast.ScopeSlot) object.Value {
	if depth, ok := slot.Get(); ok {
		return it.env.GetAt(depth, name.Lexeme).(object.Value)
	}
	v, ok := it.globals.Get(name.Lexeme)
	if !ok {
		fail(name, "Variable '"+name.Lexeme+"' is not defined.")
	}
	return v.(object.Value)
}

func (it *Interpreter) VisitSuper(se *ast.Super) ast.Value {
	depth, _ := se.Slot.Get()
	superclass := it.env.GetAt(depth, "super").(*object.Class)
	instance := it.env.GetAt(depth-1, "this").(*object.Instance)

	method, ok := superclass.FindMethod(se.Method.Lexeme)
	if !ok {
		fail(se.Method, "Undefined property '"+se.Method.Lexeme+"'.")
	}
	return method.Bind(instance)
}
