// Package resolver implements the static scope-resolution pass that
// runs between parsing and evaluation: for every variable, this, and
// super reference it records how many enclosing block scopes separate
// the reference from its binding, so the evaluator can jump straight
// to the right environment link instead of walking outward at
// runtime.
package resolver

import (
	"lox/internal/ast"
	"lox/internal/loxerror"
	"lox/internal/token"
)

// FunctionType tracks what kind of function body is currently being
// resolved, so return-statement and this-binding checks can be
// context sensitive.
type FunctionType int

const (
	FunctionNone FunctionType = iota
	FunctionFunction
	FunctionInitializer
	FunctionMethod
)

// ClassType tracks whether the resolver is inside a class body, and
// whether that class has a superclass.
type ClassType int

const (
	ClassNone ClassType = iota
	ClassClass
	ClassSubclass
)

// Resolver walks the AST once, before evaluation, annotating every
// Variable/Assignment/This/Super node's ScopeSlot.
type Resolver struct {
	errs      *loxerror.Collector
	scopes    []map[string]bool
	funcType  FunctionType
	classType ClassType
}

// New returns a Resolver that reports static errors to errs.
func New(errs *loxerror.Collector) *Resolver {
	return &Resolver{errs: errs}
}

// Resolve annotates every scope-sensitive node reachable from prog.
func (r *Resolver) Resolve(prog *ast.Program) {
	r.resolveStmt(prog)
}

func (r *Resolver) beginScope() { r.scopes = append(r.scopes, map[string]bool{}) }
func (r *Resolver) endScope()   { r.scopes = r.scopes[:len(r.scopes)-1] }

func (r *Resolver) resolveStmt(s ast.Stmt) {
	s.AcceptStmt(r)
}

func (r *Resolver) resolveExpr(e ast.Expr) {
	e.AcceptExpr(r)
}

// --- StmtVisitor ---

func (r *Resolver) VisitProgram(p *ast.Program) (ast.Value, ast.Control) {
	for _, d := range p.Decls {
		r.resolveStmt(d)
	}
	return nil, ast.Normal
}

func (r *Resolver) VisitClassDecl(c *ast.ClassDecl) (ast.Value, ast.Control) {
	enclosingClass := r.classType
	r.classType = ClassClass

	r.declare(c.NameTok)
	r.define(c.NameTok)

	if c.Superclass != nil {
		r.classType = ClassSubclass
		if c.Name == c.Superclass.Name.Lexeme {
			r.errs.ResolverError(c.NameTok, "Class cannot extend itself.")
		}
		r.resolveExpr(c.Superclass)

		r.beginScope()
		r.scopes[len(r.scopes)-1]["super"] = true
	}

	r.beginScope()
	r.scopes[len(r.scopes)-1]["this"] = true

	for _, method := range c.Methods {
		fnType := FunctionMethod
		if method.Name == "init" {
			fnType = FunctionInitializer
		}
		r.resolveFunction(method, fnType)
	}

	r.endScope()
	if c.Superclass != nil {
		r.endScope()
	}

	r.classType = enclosingClass
	return nil, ast.Normal
}

func (r *Resolver) VisitFunDecl(fd *ast.FunDecl) (ast.Value, ast.Control) {
	r.declare(fd.NameTok)
	r.define(fd.NameTok)
	r.resolveFunction(fd, FunctionFunction)
	return nil, ast.Normal
}

func (r *Resolver) resolveFunction(fd *ast.FunDecl, fnType FunctionType) {
	enclosing := r.funcType
	r.funcType = fnType

	r.beginScope()
	for _, param := range fd.Params {
		r.declare(param)
		r.define(param)
	}
	for _, stmt := range fd.Body {
		r.resolveStmt(stmt)
	}
	r.endScope()

	r.funcType = enclosing
}

func (r *Resolver) VisitVarDecl(vd *ast.VarDecl) (ast.Value, ast.Control) {
	r.declare(vd.NameTok)
	if vd.Expr != nil {
		r.resolveExpr(vd.Expr)
	}
	r.define(vd.NameTok)
	return nil, ast.Normal
}

func (r *Resolver) VisitExprStmt(es *ast.ExprStmt) (ast.Value, ast.Control) {
	r.resolveExpr(es.Expr)
	return nil, ast.Normal
}

func (r *Resolver) VisitIfStmt(is *ast.IfStmt) (ast.Value, ast.Control) {
	r.resolveExpr(is.Condition)
	r.resolveStmt(is.ThenBranch)
	if is.ElseBranch != nil {
		r.resolveStmt(is.ElseBranch)
	}
	return nil, ast.Normal
}

func (r *Resolver) VisitPrintStmt(ps *ast.PrintStmt) (ast.Value, ast.Control) {
	r.resolveExpr(ps.Expr)
	return nil, ast.Normal
}

func (r *Resolver) VisitReturnStmt(rs *ast.ReturnStmt) (ast.Value, ast.Control) {
	if r.funcType == FunctionNone {
		r.errs.ResolverError(rs.Keyword, "Can't return from top level code.")
	}
	if rs.Expr != nil {
		if r.funcType == FunctionInitializer {
			r.errs.ResolverError(rs.Keyword, "Can't return value from initializer.")
		}
		r.resolveExpr(rs.Expr)
	}
	return nil, ast.Normal
}

func (r *Resolver) VisitWhileStmt(ws *ast.WhileStmt) (ast.Value, ast.Control) {
	r.resolveExpr(ws.Condition)
	r.resolveStmt(ws.Body)
	return nil, ast.Normal
}

func (r *Resolver) VisitBlock(b *ast.Block) (ast.Value, ast.Control) {
	r.beginScope()
	for _, d := range b.Decls {
		r.resolveStmt(d)
	}
	r.endScope()
	return nil, ast.Normal
}

// --- ExprVisitor ---

func (r *Resolver) VisitAssignment(ae *ast.Assignment) ast.Value {
	r.resolveExpr(ae.Expr)
	r.resolveLocal(&ae.Slot, ae.Name)
	return nil
}

func (r *Resolver) VisitSet(se *ast.Set) ast.Value {
	r.resolveExpr(se.Value)
	r.resolveExpr(se.Object)
	return nil
}

func (r *Resolver) VisitThis(te *ast.This) ast.Value {
	if r.classType == ClassNone {
		r.errs.ResolverError(te.Keyword, "Can't use 'this' outside of a class.")
		return nil
	}
	r.resolveLocal(&te.Slot, te.Keyword.Lexeme)
	return nil
}

func (r *Resolver) VisitLogicOr(loe *ast.LogicOr) ast.Value {
	r.resolveExpr(loe.Left)
	r.resolveExpr(loe.Right)
	return nil
}

func (r *Resolver) VisitLogicAnd(lae *ast.LogicAnd) ast.Value {
	r.resolveExpr(lae.Left)
	r.resolveExpr(lae.Right)
	return nil
}

func (r *Resolver) VisitBinary(be *ast.Binary) ast.Value {
	r.resolveExpr(be.Left)
	r.resolveExpr(be.Right)
	return nil
}

func (r *Resolver) VisitUnary(ue *ast.Unary) ast.Value {
	r.resolveExpr(ue.Right)
	return nil
}

func (r *Resolver) VisitCall(ce *ast.Call) ast.Value {
	r.resolveExpr(ce.Callee)
	for _, arg := range ce.Args {
		r.resolveExpr(arg)
	}
	return nil
}

func (r *Resolver) VisitGet(ge *ast.Get) ast.Value {
	r.resolveExpr(ge.Object)
	return nil
}

func (r *Resolver) VisitLiteral(*ast.Literal) ast.Value { return nil }

func (r *Resolver) VisitGroup(ge *ast.Group) ast.Value {
	r.resolveExpr(ge.Inner)
	return nil
}

func (r *Resolver) VisitVariable(ve *ast.Variable) ast.Value {
	if last := len(r.scopes) - 1; last >= 0 {
		if defined, declared := r.scopes[last][ve.Name.Lexeme]; declared && !defined {
			r.errs.ResolverError(ve.Name, "Can't read local variable in its own initializer.")
		}
	}
	r.resolveLocal(&ve.Slot, ve.Name.Lexeme)
	return nil
}

func (r *Resolver) VisitSuper(se *ast.Super) ast.Value {
	if r.classType == ClassNone {
		r.errs.ResolverError(se.Keyword, "Can't use 'super' outside of a class.")
	} else if r.classType != ClassSubclass {
		r.errs.ResolverError(se.Keyword, "Can't use 'super' without a superclass.")
	}
	r.resolveLocal(&se.Slot, se.Keyword.Lexeme)
	return nil
}

// --- scope bookkeeping ---

// declare marks name as present-but-not-yet-initialized in the
// innermost scope, reporting a duplicate-declaration error if it was
// already declared there. tok supplies the line/lexeme for that
// diagnostic.
func (r *Resolver) declare(tok token.Token) {
	if len(r.scopes) == 0 {
		return
	}
	scope := r.scopes[len(r.scopes)-1]
	if _, ok := scope[tok.Lexeme]; ok {
		r.errs.ResolverError(tok, "Already a variable named "+tok.Lexeme+" in this scope.")
	}
	scope[tok.Lexeme] = false
}

func (r *Resolver) define(tok token.Token) {
	if len(r.scopes) == 0 {
		return
	}
	r.scopes[len(r.scopes)-1][tok.Lexeme] = true
}

func (r *Resolver) resolveLocal(slot *ast.ScopeSlot, name string) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name]; ok {
			slot.Set(len(r.scopes) - 1 - i)
			return
		}
	}
}
