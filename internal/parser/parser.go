// Package parser implements the tree-walking front end's recursive
// descent parser, producing internal/ast nodes from a token slice.
// Parser errors synchronize at the next statement boundary instead of
// aborting the whole parse, so one pass can surface every syntax
// error in a file.
package parser

import (
	"lox/internal/ast"
	"lox/internal/loxerror"
	"lox/internal/token"
)

const maxArgs = 255

// Parser consumes a flat token slice and builds a Program.
type Parser struct {
	tokens []token.Token
	idx    int
	errs   *loxerror.Collector
}

// New returns a Parser over tokens, reporting syntax errors to errs.
func New(tokens []token.Token, errs *loxerror.Collector) *Parser {
	return &Parser{tokens: tokens, errs: errs}
}

// Parse consumes the whole token stream and returns the resulting
// Program. Errors are reported to the Collector passed to New;
// parsing continues past each one via statement-boundary
// synchronization, so a single pass surfaces every syntax error.
func (p *Parser) Parse() *ast.Program {
	prog := &ast.Program{}
	for !p.atEnd() {
		if stmt := p.declarationSync(); stmt != nil {
			prog.Decls = append(prog.Decls, stmt)
		}
	}
	return prog
}

func (p *Parser) declarationSync() ast.Stmt {
	stmt, ok := p.declaration()
	if !ok {
		p.synchronize()
		return nil
	}
	return stmt
}

func (p *Parser) synchronize() {
	for !p.atEnd() {
		switch p.current().Kind {
		case token.Var, token.Fun, token.Class, token.This, token.Super,
			token.If, token.For, token.While, token.Return:
			return
		}
		p.advance()
		if p.previous().Kind == token.Semicolon {
			return
		}
	}
}

func (p *Parser) declaration() (ast.Stmt, bool) {
	switch {
	case p.match(token.Class):
		return p.classDecl()
	case p.match(token.Fun):
		return p.funDecl("function")
	case p.match(token.Var):
		return p.varDecl()
	default:
		return p.statement()
	}
}

func (p *Parser) classDecl() (ast.Stmt, bool) {
	name, ok := p.consume(token.Identifier, "Expect class name.")
	if !ok {
		return nil, false
	}

	var superclass *ast.Variable
	if p.match(token.Less) {
		superName, ok := p.consume(token.Identifier, "Expect superclass name.")
		if !ok {
			return nil, false
		}
		superclass = &ast.Variable{Name: superName}
	}

	if _, ok := p.consume(token.LeftBrace, "Expect '{' before class body."); !ok {
		return nil, false
	}

	var methods []*ast.FunDecl
	for !p.check(token.RightBrace) && !p.atEnd() {
		m, ok := p.funDecl("method")
		if !ok {
			return nil, false
		}
		methods = append(methods, m.(*ast.FunDecl))
	}

	if _, ok := p.consume(token.RightBrace, "Expect '}' after class body."); !ok {
		return nil, false
	}

	return &ast.ClassDecl{Name: name.Lexeme, NameTok: name, Superclass: superclass, Methods: methods}, true
}

func (p *Parser) funDecl(kind string) (ast.Stmt, bool) {
	name, ok := p.consume(token.Identifier, "Expect "+kind+" name.")
	if !ok {
		return nil, false
	}
	if _, ok := p.consume(token.LeftParen, "Expect '(' after "+kind+" name."); !ok {
		return nil, false
	}

	var params []token.Token
	if !p.check(token.RightParen) {
		for {
			if len(params) >= maxArgs {
				p.errs.ParseError(p.current(), "Cannot have more than 255 parameters.")
			}
			param, ok := p.consume(token.Identifier, "Expect parameter name.")
			if !ok {
				return nil, false
			}
			params = append(params, param)
			if !p.match(token.Comma) {
				break
			}
		}
	}
	if _, ok := p.consume(token.RightParen, "Expect ')' after parameters."); !ok {
		return nil, false
	}
	if _, ok := p.consume(token.LeftBrace, "Expect '{' before "+kind+" body."); !ok {
		return nil, false
	}
	body, ok := p.block()
	if !ok {
		return nil, false
	}

	return &ast.FunDecl{Name: name.Lexeme, NameTok: name, Params: params, Body: body.(*ast.Block).Decls}, true
}

func (p *Parser) varDecl() (ast.Stmt, bool) {
	name, ok := p.consume(token.Identifier, "Expect variable name.")
	if !ok {
		return nil, false
	}

	var initializer ast.Expr
	if p.match(token.Equal) {
		initializer, ok = p.expression()
		if !ok {
			return nil, false
		}
	}
	if _, ok := p.consume(token.Semicolon, "Expect ';' after variable declaration."); !ok {
		return nil, false
	}
	return &ast.VarDecl{Name: name.Lexeme, NameTok: name, Expr: initializer}, true
}

func (p *Parser) statement() (ast.Stmt, bool) {
	switch {
	case p.match(token.For):
		return p.forStmt()
	case p.match(token.If):
		return p.ifStmt()
	case p.match(token.Print):
		return p.printStmt()
	case p.match(token.Return):
		return p.returnStmt()
	case p.match(token.While):
		return p.whileStmt()
	case p.match(token.LeftBrace):
		return p.block()
	default:
		return p.exprStmt()
	}
}

func (p *Parser) exprStmt() (ast.Stmt, bool) {
	expr, ok := p.expression()
	if !ok {
		return nil, false
	}
	if _, ok := p.consume(token.Semicolon, "Expect ';' after expression."); !ok {
		return nil, false
	}
	return &ast.ExprStmt{Expr: expr}, true
}

func (p *Parser) printStmt() (ast.Stmt, bool) {
	expr, ok := p.expression()
	if !ok {
		return nil, false
	}
	if _, ok := p.consume(token.Semicolon, "Expect ';' after value."); !ok {
		return nil, false
	}
	return &ast.PrintStmt{Expr: expr}, true
}

func (p *Parser) returnStmt() (ast.Stmt, bool) {
	keyword := p.previous()
	if p.match(token.Semicolon) {
		return &ast.ReturnStmt{Keyword: keyword, Expr: nil}, true
	}
	expr, ok := p.expression()
	if !ok {
		return nil, false
	}
	if _, ok := p.consume(token.Semicolon, "Expect ';' after return value."); !ok {
		return nil, false
	}
	return &ast.ReturnStmt{Keyword: keyword, Expr: expr}, true
}

func (p *Parser) ifStmt() (ast.Stmt, bool) {
	if _, ok := p.consume(token.LeftParen, "Expect '(' after 'if'."); !ok {
		return nil, false
	}
	cond, ok := p.expression()
	if !ok {
		return nil, false
	}
	if _, ok := p.consume(token.RightParen, "Expect ')' after if condition."); !ok {
		return nil, false
	}
	thenBranch, ok := p.statement()
	if !ok {
		return nil, false
	}
	var elseBranch ast.Stmt
	if p.match(token.Else) {
		elseBranch, ok = p.statement()
		if !ok {
			return nil, false
		}
	}
	return &ast.IfStmt{Condition: cond, ThenBranch: thenBranch, ElseBranch: elseBranch}, true
}

func (p *Parser) whileStmt() (ast.Stmt, bool) {
	if _, ok := p.consume(token.LeftParen, "Expect '(' after 'while'."); !ok {
		return nil, false
	}
	cond, ok := p.expression()
	if !ok {
		return nil, false
	}
	if _, ok := p.consume(token.RightParen, "Expect ')' after while condition."); !ok {
		return nil, false
	}
	body, ok := p.statement()
	if !ok {
		return nil, false
	}
	return &ast.WhileStmt{Condition: cond, Body: body}, true
}

func (p *Parser) forStmt() (ast.Stmt, bool) {
	if _, ok := p.consume(token.LeftParen, "Expect '(' after 'for'."); !ok {
		return nil, false
	}

	var initializer ast.Stmt
	var ok bool
	switch {
	case p.match(token.Semicolon):
		initializer = nil
	case p.match(token.Var):
		initializer, ok = p.varDecl()
		if !ok {
			return nil, false
		}
	default:
		initializer, ok = p.exprStmt()
		if !ok {
			return nil, false
		}
	}

	var condition ast.Expr
	if !p.check(token.Semicolon) {
		condition, ok = p.expression()
		if !ok {
			return nil, false
		}
	}
	if _, ok := p.consume(token.Semicolon, "Expect ';' after loop condition."); !ok {
		return nil, false
	}

	var increment ast.Expr
	if !p.check(token.RightParen) {
		increment, ok = p.expression()
		if !ok {
			return nil, false
		}
	}
	if _, ok := p.consume(token.RightParen, "Expect ')' after for clauses."); !ok {
		return nil, false
	}

	body, ok := p.statement()
	if !ok {
		return nil, false
	}

	return forToWhile(initializer, condition, increment, body), true
}

// forToWhile desugars `for (init; cond; incr) body` into
// `{ init; while (cond) { body; incr; } }`.
func forToWhile(initializer ast.Stmt, condition ast.Expr, increment ast.Expr, body ast.Stmt) ast.Stmt {
	if increment != nil {
		body = &ast.Block{Decls: []ast.Stmt{body, &ast.ExprStmt{Expr: increment}}}
	}
	if condition == nil {
		condition = &ast.Literal{Kind: ast.LiteralBool, Bool: true, Text: "true"}
	}
	var result ast.Stmt = &ast.WhileStmt{Condition: condition, Body: body}
	if initializer != nil {
		result = &ast.Block{Decls: []ast.Stmt{initializer, result}}
	}
	return result
}

func (p *Parser) block() (ast.Stmt, bool) {
	var stmts []ast.Stmt
	for !p.check(token.RightBrace) && !p.atEnd() {
		stmt := p.declarationSync()
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	if _, ok := p.consume(token.RightBrace, "Expect '}' after block."); !ok {
		return nil, false
	}
	return &ast.Block{Decls: stmts}, true
}

func (p *Parser) expression() (ast.Expr, bool) {
	return p.assignment()
}

func (p *Parser) assignment() (ast.Expr, bool) {
	expr, ok := p.logicOr()
	if !ok {
		return nil, false
	}

	if p.match(token.Equal) {
		value, ok := p.assignment()
		if !ok {
			return nil, false
		}

		switch e := expr.(type) {
		case *ast.Variable:
			return &ast.Assignment{Name: e.Name.Lexeme, NameTok: e.Name, Expr: value}, true
		case *ast.Get:
			return &ast.Set{Object: e.Object, Name: e.Name.Lexeme, NameTok: e.Name, Value: value}, true
		default:
			p.errs.ParseError(p.previous(), "Expect assignment to variable or property.")
			return nil, false
		}
	}

	return expr, true
}

func (p *Parser) logicOr() (ast.Expr, bool) {
	expr, ok := p.logicAnd()
	if !ok {
		return nil, false
	}
	for p.match(token.Or) {
		op := p.previous()
		right, ok := p.logicAnd()
		if !ok {
			return nil, false
		}
		expr = &ast.LogicOr{Left: expr, Op: op, Right: right}
	}
	return expr, true
}

func (p *Parser) logicAnd() (ast.Expr, bool) {
	expr, ok := p.equality()
	if !ok {
		return nil, false
	}
	for p.match(token.And) {
		op := p.previous()
		right, ok := p.equality()
		if !ok {
			return nil, false
		}
		expr = &ast.LogicAnd{Left: expr, Op: op, Right: right}
	}
	return expr, true
}

func (p *Parser) equality() (ast.Expr, bool) {
	return p.binaryLeft(p.comparison, token.EqualEqual, token.BangEqual)
}

func (p *Parser) comparison() (ast.Expr, bool) {
	return p.binaryLeft(p.term, token.Less, token.LessEqual, token.Greater, token.GreaterEqual)
}

func (p *Parser) term() (ast.Expr, bool) {
	return p.binaryLeft(p.factor, token.Plus, token.Minus)
}

func (p *Parser) factor() (ast.Expr, bool) {
	return p.binaryLeft(p.unary, token.Star, token.Slash)
}

func (p *Parser) binaryLeft(next func() (ast.Expr, bool), kinds ...token.Kind) (ast.Expr, bool) {
	expr, ok := next()
	if !ok {
		return nil, false
	}
	for p.match(kinds...) {
		op := p.previous()
		right, ok := next()
		if !ok {
			return nil, false
		}
		expr = &ast.Binary{Left: expr, Op: op, Right: right}
	}
	return expr, true
}

func (p *Parser) unary() (ast.Expr, bool) {
	if p.match(token.Bang, token.Minus) {
		op := p.previous()
		right, ok := p.unary()
		if !ok {
			return nil, false
		}
		return &ast.Unary{Op: op, Right: right}, true
	}
	return p.call()
}

func (p *Parser) call() (ast.Expr, bool) {
	expr, ok := p.primary()
	if !ok {
		return nil, false
	}

	for {
		switch {
		case p.match(token.LeftParen):
			expr, ok = p.finishCall(expr)
			if !ok {
				return nil, false
			}
		case p.match(token.Dot):
			name, ok := p.consume(token.Identifier, "Expect property name after '.'.")
			if !ok {
				return nil, false
			}
			expr = &ast.Get{Object: expr, Name: name}
		default:
			return expr, true
		}
	}
}

func (p *Parser) finishCall(callee ast.Expr) (ast.Expr, bool) {
	paren := p.previous()
	var args []ast.Expr
	if !p.check(token.RightParen) {
		for {
			if len(args) >= maxArgs {
				p.errs.ParseError(p.current(), "Cannot have more than 255 arguments.")
			}
			arg, ok := p.expression()
			if !ok {
				return nil, false
			}
			args = append(args, arg)
			if !p.match(token.Comma) {
				break
			}
		}
	}
	if _, ok := p.consume(token.RightParen, "Expect ')' after arguments."); !ok {
		return nil, false
	}
	return &ast.Call{Callee: callee, Paren: paren, Args: args}, true
}

func (p *Parser) primary() (ast.Expr, bool) {
	switch {
	case p.match(token.True):
		return &ast.Literal{Kind: ast.LiteralBool, Bool: true, Text: "true"}, true
	case p.match(token.False):
		return &ast.Literal{Kind: ast.LiteralBool, Bool: false, Text: "false"}, true
	case p.match(token.Nil):
		return &ast.Literal{Kind: ast.LiteralNil, Text: "nil"}, true
	case p.match(token.Number):
		return &ast.Literal{Kind: ast.LiteralNumber, Text: p.previous().Literal}, true
	case p.match(token.String):
		return &ast.Literal{Kind: ast.LiteralString, Text: p.previous().Literal}, true
	case p.match(token.This):
		return &ast.This{Keyword: p.previous()}, true
	case p.match(token.Super):
		keyword := p.previous()
		if _, ok := p.consume(token.Dot, "Expect '.' after 'super'."); !ok {
			return nil, false
		}
		method, ok := p.consume(token.Identifier, "Expect superclass method name.")
		if !ok {
			return nil, false
		}
		return &ast.Super{Keyword: keyword, Method: method}, true
	case p.match(token.LeftParen):
		inner, ok := p.expression()
		if !ok {
			return nil, false
		}
		if _, ok := p.consume(token.RightParen, "Expect ')' after expression."); !ok {
			return nil, false
		}
		return &ast.Group{Inner: inner}, true
	case p.match(token.Identifier):
		return &ast.Variable{Name: p.previous()}, true
	default:
		p.errs.ParseError(p.current(), "Expect expression.")
		return nil, false
	}
}

// --- token-stream helpers ---

func (p *Parser) match(kinds ...token.Kind) bool {
	for _, k := range kinds {
		if p.check(k) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) consume(kind token.Kind, msg string) (token.Token, bool) {
	if p.check(kind) {
		return p.advance(), true
	}
	p.errs.ParseError(p.current(), msg)
	return token.Token{}, false
}

func (p *Parser) check(kind token.Kind) bool {
	return !p.atEnd() && p.current().Kind == kind
}

func (p *Parser) advance() token.Token {
	tok := p.current()
	if !p.atEnd() {
		p.idx++
	}
	return tok
}

func (p *Parser) atEnd() bool {
	return p.current().Kind == token.EOF
}

func (p *Parser) current() token.Token {
	return p.tokens[p.idx]
}

func (p *Parser) previous() token.Token {
	if p.idx > 0 {
		return p.tokens[p.idx-1]
	}
	return p.current()
}
