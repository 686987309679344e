// Package parser implements a recursive-descent parser for Lox with
// panic-mode error recovery, following the grammar in spec.md §4.2
// exactly: one method per production, precedence climbing from
// assignment down to primary.
package parser

import (
	"fmt"

	"github.com/loxlang/golox/internal/ast"
	"github.com/loxlang/golox/internal/loxerr"
	"github.com/loxlang/golox/internal/token"
)

// maxArgs caps call arguments and function parameters. spec.md §4.2 allows
// raising this cap but not lowering it.
const maxArgs = 255

// Parser consumes a token slice produced by the lexer and builds an AST,
// collecting every syntax error it encounters rather than stopping at the
// first one (see synchronize).
type Parser struct {
	tokens  []token.Token
	current int
	errors  []*loxerr.Error
	source  string
	file    string
}

// New creates a Parser over tokens. source and file are used only to
// enrich error rendering (see loxerr.Error.WithSource); file may be empty.
func New(tokens []token.Token, source, file string) *Parser {
	return &Parser{tokens: tokens, source: source, file: file}
}

// Parse runs program → declaration* EOF. It returns the parsed statements
// and the full list of accumulated errors; per spec.md §4.2, the parse is
// only considered successful when the error list is empty, even though a
// (partial, best-effort) statement list is always returned.
func (p *Parser) Parse() ([]ast.Stmt, []*loxerr.Error) {
	var statements []ast.Stmt
	for !p.atEnd() {
		if stmt := p.declaration(); stmt != nil {
			statements = append(statements, stmt)
		}
	}
	return statements, p.errors
}

// ---- declarations ----

func (p *Parser) declaration() ast.Stmt {
	switch {
	case p.match(token.Class):
		return p.classDecl()
	case p.match(token.Fun):
		return p.function("function")
	case p.match(token.Var):
		return p.varDecl()
	default:
		return p.statement()
	}
}

func (p *Parser) classDecl() ast.Stmt {
	name, err := p.consume(token.Identifier, "expect class name")
	if err != nil {
		p.synchronize()
		return nil
	}

	var superclass *ast.Variable
	if p.match(token.Less) {
		superName, err := p.consume(token.Identifier, "expect superclass name")
		if err != nil {
			p.synchronize()
			return nil
		}
		superclass = &ast.Variable{Name: superName}
	}

	if _, err := p.consume(token.LeftBrace, "expect '{' before class body"); err != nil {
		p.synchronize()
		return nil
	}

	var methods []*ast.FunDecl
	for !p.check(token.RightBrace) && !p.atEnd() {
		method := p.function("method")
		if method != nil {
			methods = append(methods, method.(*ast.FunDecl))
		}
	}

	if _, err := p.consume(token.RightBrace, "expect '}' after class body"); err != nil {
		p.synchronize()
		return nil
	}

	return &ast.ClassDecl{Name: name, Superclass: superclass, Methods: methods}
}

// function parses `function → IDENT "(" params? ")" block`. kind is only
// used for error messages ("function"/"method").
func (p *Parser) function(kind string) ast.Stmt {
	name, err := p.consume(token.Identifier, "expect %s name", kind)
	if err != nil {
		p.synchronize()
		return nil
	}

	if _, err := p.consume(token.LeftParen, "expect '(' after %s name", kind); err != nil {
		p.synchronize()
		return nil
	}

	var params []token.Token
	if !p.check(token.RightParen) {
		for {
			if len(params) >= maxArgs {
				p.errorAt(p.peek(), "can't have more than %d parameters", maxArgs)
			}
			param, err := p.consume(token.Identifier, "expect parameter name")
			if err != nil {
				p.synchronize()
				return nil
			}
			params = append(params, param)
			if !p.match(token.Comma) {
				break
			}
		}
	}
	if _, err := p.consume(token.RightParen, "expect ')' after parameters"); err != nil {
		p.synchronize()
		return nil
	}

	if _, err := p.consume(token.LeftBrace, "expect '{' before %s body", kind); err != nil {
		p.synchronize()
		return nil
	}
	body := p.block()

	return &ast.FunDecl{Name: name, Params: params, Body: body}
}

func (p *Parser) varDecl() ast.Stmt {
	name, err := p.consume(token.Identifier, "expect variable name")
	if err != nil {
		p.synchronize()
		return nil
	}

	var initializer ast.Expr
	if p.match(token.Equal) {
		initializer = p.expression()
	}

	if _, err := p.consume(token.Semicolon, "expect ';' after variable declaration"); err != nil {
		p.synchronize()
		return nil
	}
	return &ast.VarDecl{Name: name, Initializer: initializer}
}

// ---- statements ----

func (p *Parser) statement() ast.Stmt {
	switch {
	case p.match(token.Print):
		return p.printStmt()
	case p.match(token.LeftBrace):
		brace := p.previous()
		return &ast.Block{LeftBrace: brace, Statements: p.block()}
	case p.match(token.If):
		return p.ifStmt()
	case p.match(token.While):
		return p.whileStmt()
	case p.match(token.For):
		return p.forStmt()
	case p.match(token.Return):
		return p.returnStmt()
	default:
		return p.exprStmt()
	}
}

func (p *Parser) printStmt() ast.Stmt {
	keyword := p.previous()
	value := p.expression()
	if _, err := p.consume(token.Semicolon, "expect ';' after value"); err != nil {
		p.synchronize()
		return nil
	}
	return &ast.Print{Keyword: keyword, Expression: value}
}

func (p *Parser) exprStmt() ast.Stmt {
	expr := p.expression()
	if _, err := p.consume(token.Semicolon, "expect ';' after expression"); err != nil {
		p.synchronize()
		return nil
	}
	return &ast.Expression{Expression: expr}
}

func (p *Parser) block() []ast.Stmt {
	var statements []ast.Stmt
	for !p.check(token.RightBrace) && !p.atEnd() {
		if stmt := p.declaration(); stmt != nil {
			statements = append(statements, stmt)
		}
	}
	p.consume(token.RightBrace, "expect '}' after block")
	return statements
}

func (p *Parser) ifStmt() ast.Stmt {
	keyword := p.previous()
	if _, err := p.consume(token.LeftParen, "expect '(' after 'if'"); err != nil {
		p.synchronize()
		return nil
	}
	condition := p.expression()
	if _, err := p.consume(token.RightParen, "expect ')' after if condition"); err != nil {
		p.synchronize()
		return nil
	}

	thenBranch := p.statement()
	var elseBranch ast.Stmt
	if p.match(token.Else) {
		elseBranch = p.statement()
	}
	return &ast.If{Keyword: keyword, Condition: condition, Then: thenBranch, Else: elseBranch}
}

func (p *Parser) whileStmt() ast.Stmt {
	keyword := p.previous()
	if _, err := p.consume(token.LeftParen, "expect '(' after 'while'"); err != nil {
		p.synchronize()
		return nil
	}
	condition := p.expression()
	if _, err := p.consume(token.RightParen, "expect ')' after condition"); err != nil {
		p.synchronize()
		return nil
	}
	body := p.statement()
	return &ast.While{Keyword: keyword, Condition: condition, Body: body}
}

// forStmt desugars `for (init; cond; update) body` into the equivalent
// while loop per spec.md §4.2: {init?; while (cond) { body; update; }},
// with the outer block omitted when init is absent and cond defaulting to
// literal `true` when absent.
func (p *Parser) forStmt() ast.Stmt {
	keyword := p.previous()
	if _, err := p.consume(token.LeftParen, "expect '(' after 'for'"); err != nil {
		p.synchronize()
		return nil
	}

	var initializer ast.Stmt
	switch {
	case p.match(token.Semicolon):
		initializer = nil
	case p.match(token.Var):
		initializer = p.varDecl()
	default:
		initializer = p.exprStmt()
	}

	var condition ast.Expr
	if !p.check(token.Semicolon) {
		condition = p.expression()
	}
	if _, err := p.consume(token.Semicolon, "expect ';' after loop condition"); err != nil {
		p.synchronize()
		return nil
	}

	var update ast.Expr
	if !p.check(token.RightParen) {
		update = p.expression()
	}
	if _, err := p.consume(token.RightParen, "expect ')' after for clauses"); err != nil {
		p.synchronize()
		return nil
	}

	body := p.statement()

	if update != nil {
		body = &ast.Block{LeftBrace: keyword, Statements: []ast.Stmt{
			body,
			&ast.Expression{Expression: update},
		}}
	}

	if condition == nil {
		condition = &ast.Literal{Value: true, Token: keyword}
	}
	body = &ast.While{Keyword: keyword, Condition: condition, Body: body}

	if initializer != nil {
		body = &ast.Block{LeftBrace: keyword, Statements: []ast.Stmt{initializer, body}}
	}

	return body
}

func (p *Parser) returnStmt() ast.Stmt {
	keyword := p.previous()
	var value ast.Expr
	if !p.check(token.Semicolon) {
		value = p.expression()
	}
	if _, err := p.consume(token.Semicolon, "expect ';' after return value"); err != nil {
		p.synchronize()
		return nil
	}
	return &ast.Return{Keyword: keyword, Value: value}
}

// ---- expressions ----

func (p *Parser) expression() ast.Expr {
	return p.assignment()
}

// assignment implements `( call "." )? IDENT "=" assignment | logicOr` by
// parsing the left side as any expression and re-examining it once an `=`
// is seen, per spec.md §4.2's "Assignment resolution".
func (p *Parser) assignment() ast.Expr {
	expr := p.or()

	if p.match(token.Equal) {
		equals := p.previous()
		value := p.assignment()

		switch target := expr.(type) {
		case *ast.Variable:
			return &ast.Assignment{Name: target.Name, Value: value}
		case *ast.Get:
			return &ast.Set{Object: target.Object, Name: target.Name, Value: value}
		default:
			p.errorAt(equals, "invalid assignment target")
			return expr
		}
	}

	return expr
}

func (p *Parser) or() ast.Expr {
	expr := p.and()
	for p.match(token.Or) {
		operator := p.previous()
		right := p.and()
		expr = &ast.Logical{Left: expr, Operator: operator, Right: right}
	}
	return expr
}

func (p *Parser) and() ast.Expr {
	expr := p.equality()
	for p.match(token.And) {
		operator := p.previous()
		right := p.equality()
		expr = &ast.Logical{Left: expr, Operator: operator, Right: right}
	}
	return expr
}

func (p *Parser) equality() ast.Expr {
	expr := p.comparison()
	for p.match(token.BangEqual, token.EqualEqual) {
		operator := p.previous()
		right := p.comparison()
		expr = &ast.Binary{Left: expr, Operator: operator, Right: right}
	}
	return expr
}

func (p *Parser) comparison() ast.Expr {
	expr := p.term()
	for p.match(token.Greater, token.GreaterEqual, token.Less, token.LessEqual) {
		operator := p.previous()
		right := p.term()
		expr = &ast.Binary{Left: expr, Operator: operator, Right: right}
	}
	return expr
}

func (p *Parser) term() ast.Expr {
	expr := p.factor()
	for p.match(token.Minus, token.Plus) {
		operator := p.previous()
		right := p.factor()
		expr = &ast.Binary{Left: expr, Operator: operator, Right: right}
	}
	return expr
}

func (p *Parser) factor() ast.Expr {
	expr := p.unary()
	for p.match(token.Slash, token.Star) {
		operator := p.previous()
		right := p.unary()
		expr = &ast.Binary{Left: expr, Operator: operator, Right: right}
	}
	return expr
}

func (p *Parser) unary() ast.Expr {
	if p.match(token.Bang, token.Minus) {
		operator := p.previous()
		right := p.unary()
		return &ast.Unary{Operator: operator, Right: right}
	}
	return p.call()
}

func (p *Parser) call() ast.Expr {
	expr := p.primary()

	for {
		switch {
		case p.match(token.LeftParen):
			expr = p.finishCall(expr)
		case p.match(token.Dot):
			name, err := p.consume(token.Identifier, "expect property name after '.'")
			if err != nil {
				return expr
			}
			expr = &ast.Get{Object: expr, Name: name}
		default:
			return expr
		}
	}
}

func (p *Parser) finishCall(callee ast.Expr) ast.Expr {
	var args []ast.Expr
	if !p.check(token.RightParen) {
		for {
			if len(args) >= maxArgs {
				p.errorAt(p.peek(), "can't have more than %d arguments", maxArgs)
			}
			args = append(args, p.expression())
			if !p.match(token.Comma) {
				break
			}
		}
	}
	paren, err := p.consume(token.RightParen, "expect ')' after arguments")
	if err != nil {
		paren = p.peek()
	}
	return &ast.Call{Callee: callee, Paren: paren, Arguments: args}
}

func (p *Parser) primary() ast.Expr {
	switch {
	case p.match(token.False):
		return &ast.Literal{Value: false, Token: p.previous()}
	case p.match(token.True):
		return &ast.Literal{Value: true, Token: p.previous()}
	case p.match(token.Nil):
		return &ast.Literal{Value: nil, Token: p.previous()}
	case p.match(token.Number, token.String):
		tok := p.previous()
		return &ast.Literal{Value: tok.Literal, Token: tok}
	case p.match(token.Super):
		keyword := p.previous()
		if _, err := p.consume(token.Dot, "expect '.' after 'super'"); err != nil {
			return &ast.Super{Keyword: keyword}
		}
		method, err := p.consume(token.Identifier, "expect superclass method name")
		if err != nil {
			return &ast.Super{Keyword: keyword}
		}
		return &ast.Super{Keyword: keyword, Method: method}
	case p.match(token.This):
		return &ast.This{Keyword: p.previous()}
	case p.match(token.Identifier):
		return &ast.Variable{Name: p.previous()}
	case p.match(token.LeftParen):
		leftParen := p.previous()
		expr := p.expression()
		p.consume(token.RightParen, "expect ')' after expression")
		return &ast.Grouping{Expression: expr, LeftParen: leftParen}
	default:
		p.errorAt(p.peek(), "expect expression")
		return &ast.Literal{Value: nil, Token: p.peek()}
	}
}

// ---- token stream helpers ----

func (p *Parser) match(types ...token.Type) bool {
	for _, t := range types {
		if p.check(t) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) check(t token.Type) bool {
	if p.atEnd() {
		return false
	}
	return p.peek().Type == t
}

func (p *Parser) advance() token.Token {
	if !p.atEnd() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) atEnd() bool { return p.peek().Type == token.EOF }

func (p *Parser) peek() token.Token { return p.tokens[p.current] }

func (p *Parser) previous() token.Token { return p.tokens[p.current-1] }

func (p *Parser) consume(t token.Type, format string, args ...any) (token.Token, error) {
	if p.check(t) {
		return p.advance(), nil
	}
	err := p.errorAt(p.peek(), format, args...)
	return token.Token{}, err
}

// errorAt records a syntax error at tok without halting the parse; callers
// that can keep producing a reasonable partial AST do so (e.g. the
// "invalid assignment target" and argument/parameter-limit cases are
// explicitly non-synchronizing per spec.md §4.2). Callers that cannot
// proceed call synchronize() themselves after this returns.
func (p *Parser) errorAt(tok token.Token, format string, args ...any) *loxerr.Error {
	message := format
	if len(args) > 0 {
		message = fmt.Sprintf(format, args...)
	}
	var err *loxerr.Error
	if tok.Type == token.EOF {
		err = loxerr.New(loxerr.Syntax, tok.Line, "at end: %s", message)
	} else {
		err = loxerr.New(loxerr.Syntax, tok.Line, "at '%s': %s", tok.Lexeme, message)
	}
	err = err.WithSource(p.source, p.file)
	p.errors = append(p.errors, err)
	return err
}

// synchronize implements spec.md §4.2's panic-mode recovery: discard
// tokens until just after a ';', or at the start of the next statement
// (a keyword that can only begin a declaration or statement), or EOF.
func (p *Parser) synchronize() {
	p.advance()
	for !p.atEnd() {
		if p.previous().Type == token.Semicolon {
			return
		}
		switch p.peek().Type {
		case token.Class, token.Fun, token.Var, token.For, token.If, token.While, token.Print, token.Return:
			return
		}
		p.advance()
	}
}
