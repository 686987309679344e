// Package resolver implements the static pre-pass described in spec.md
// §4.3: it walks the AST once before evaluation and, for every variable
// reference, records how many lexical scopes separate the use site from
// its declaration. The evaluator consults that table (keyed by token ID)
// instead of re-deriving scoping at run time, which is what lets closures
// capture the variable that was in scope at declaration rather than
// whatever is bound to that name later.
package resolver

import (
	"github.com/loxlang/golox/internal/ast"
	"github.com/loxlang/golox/internal/loxerr"
	"github.com/loxlang/golox/internal/token"
)

type functionKind int

const (
	fnNone functionKind = iota
	fnFunction
	fnMethod
	fnInitializer
)

type classKind int

const (
	classNone classKind = iota
	classClass
	classSubclass
)

// Depths is the resolver↔evaluator handshake: a plain map from token ID to
// scope-hop distance. It is owned by the evaluator (see internal/interp)
// and mutated in place by Resolve, which keeps the AST itself free of
// mutable back-pointers and lets a REPL accumulate entries across lines.
type Depths map[int]int

// scope maps a name to whether its declaration has finished resolving:
// false while its initializer is being resolved, true once defined.
type scope map[string]bool

// Resolver performs the static analysis pass.
type Resolver struct {
	depths      Depths
	scopes      []scope
	currentFn   functionKind
	currentCls  classKind
	errors      []*loxerr.Error
	source      string
	file        string
}

// New creates a Resolver that writes into depths (the same map the
// evaluator will read from).
func New(depths Depths, source, file string) *Resolver {
	return &Resolver{depths: depths, source: source, file: file}
}

// Resolve walks every statement and returns the accumulated errors. Per
// spec.md §4.3, the resolver records *all* errors and the evaluator must
// not run if the returned slice is non-empty.
func (r *Resolver) Resolve(statements []ast.Stmt) []*loxerr.Error {
	r.resolveStmts(statements)
	return r.errors
}

func (r *Resolver) resolveStmts(statements []ast.Stmt) {
	for _, s := range statements {
		r.resolveStmt(s)
	}
}

func (r *Resolver) resolveStmt(s ast.Stmt) {
	switch n := s.(type) {
	case *ast.Block:
		r.beginScope()
		r.resolveStmts(n.Statements)
		r.endScope()
	case *ast.VarDecl:
		r.declare(n.Name)
		if n.Initializer != nil {
			r.resolveExpr(n.Initializer)
		}
		r.define(n.Name)
	case *ast.FunDecl:
		r.declare(n.Name)
		r.define(n.Name)
		r.resolveFunction(n, fnFunction)
	case *ast.ClassDecl:
		r.resolveClass(n)
	case *ast.Expression:
		r.resolveExpr(n.Expression)
	case *ast.Print:
		r.resolveExpr(n.Expression)
	case *ast.If:
		r.resolveExpr(n.Condition)
		r.resolveStmt(n.Then)
		if n.Else != nil {
			r.resolveStmt(n.Else)
		}
	case *ast.While:
		r.resolveExpr(n.Condition)
		r.resolveStmt(n.Body)
	case *ast.Return:
		if r.currentFn == fnNone {
			r.errorAt(n.Keyword.Line, "can't return from top-level code")
		}
		if n.Value != nil {
			if r.currentFn == fnInitializer {
				r.errorAt(n.Keyword.Line, "can't return a value from an initializer")
			}
			r.resolveExpr(n.Value)
		}
	}
}

func (r *Resolver) resolveClass(n *ast.ClassDecl) {
	enclosingClass := r.currentCls
	r.currentCls = classClass

	r.declare(n.Name)
	r.define(n.Name)

	if n.Superclass != nil {
		if n.Superclass.Name.Lexeme == n.Name.Lexeme {
			r.errorAt(n.Superclass.Name.Line, "a class can't inherit from itself")
		}
		r.currentCls = classSubclass
		r.resolveExpr(n.Superclass)

		r.beginScope()
		r.scopes[len(r.scopes)-1]["super"] = true
	}

	r.beginScope()
	r.scopes[len(r.scopes)-1]["this"] = true

	for _, method := range n.Methods {
		kind := fnMethod
		if method.Name.Lexeme == "init" {
			kind = fnInitializer
		}
		r.resolveFunction(method, kind)
	}

	r.endScope()

	if n.Superclass != nil {
		r.endScope()
	}

	r.currentCls = enclosingClass
}

func (r *Resolver) resolveFunction(fn *ast.FunDecl, kind functionKind) {
	enclosingFn := r.currentFn
	r.currentFn = kind

	r.beginScope()
	for _, param := range fn.Params {
		r.declare(param)
		r.define(param)
	}
	r.resolveStmts(fn.Body)
	r.endScope()

	r.currentFn = enclosingFn
}

func (r *Resolver) resolveExpr(e ast.Expr) {
	switch n := e.(type) {
	case *ast.Variable:
		if len(r.scopes) > 0 {
			if defined, ok := r.scopes[len(r.scopes)-1][n.Name.Lexeme]; ok && !defined {
				r.errorAt(n.Name.Line, "can't read local variable %q in its own initializer", n.Name.Lexeme)
			}
		}
		r.resolveLocal(n.Name)
	case *ast.Assignment:
		r.resolveExpr(n.Value)
		r.resolveLocal(n.Name)
	case *ast.Binary:
		r.resolveExpr(n.Left)
		r.resolveExpr(n.Right)
	case *ast.Logical:
		r.resolveExpr(n.Left)
		r.resolveExpr(n.Right)
	case *ast.Unary:
		r.resolveExpr(n.Right)
	case *ast.Call:
		r.resolveExpr(n.Callee)
		for _, arg := range n.Arguments {
			r.resolveExpr(arg)
		}
	case *ast.Get:
		r.resolveExpr(n.Object)
	case *ast.Set:
		r.resolveExpr(n.Value)
		r.resolveExpr(n.Object)
	case *ast.Grouping:
		r.resolveExpr(n.Expression)
	case *ast.Literal:
		// nothing to resolve
	case *ast.This:
		if r.currentCls == classNone {
			r.errorAt(n.Keyword.Line, "can't use 'this' outside of a class")
			return
		}
		r.resolveLocal(n.Keyword)
	case *ast.Super:
		switch r.currentCls {
		case classNone:
			r.errorAt(n.Keyword.Line, "can't use 'super' outside of a class")
		case classClass:
			r.errorAt(n.Keyword.Line, "can't use 'super' in a class with no superclass")
		default:
			r.resolveLocal(n.Keyword)
		}
	}
}

func (r *Resolver) beginScope() {
	r.scopes = append(r.scopes, scope{})
}

func (r *Resolver) endScope() {
	r.scopes = r.scopes[:len(r.scopes)-1]
}

// declare marks name as present but not yet initialized in the innermost
// scope. Redeclaring a name already present in the same scope is an error;
// the global scope (no enclosing scopes at all) is exempt, matching
// spec.md §4.3 exactly (top-level `var x; var x;` is legal).
func (r *Resolver) declare(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}
	current := r.scopes[len(r.scopes)-1]
	if _, ok := current[name.Lexeme]; ok {
		r.errorAt(name.Line, "variable %q already defined in this scope", name.Lexeme)
	}
	current[name.Lexeme] = false
}

func (r *Resolver) define(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}
	r.scopes[len(r.scopes)-1][name.Lexeme] = true
}

// resolveLocal records tok.ID → distance for the scope (searching from
// innermost outward) that declares tok.Lexeme. A name found in no scope is
// assumed global and gets no entry, matching spec.md §4.3 exactly.
func (r *Resolver) resolveLocal(tok token.Token) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][tok.Lexeme]; ok {
			r.depths[tok.ID] = len(r.scopes) - 1 - i
			return
		}
	}
}

func (r *Resolver) errorAt(line int, format string, args ...any) {
	err := loxerr.New(loxerr.Resolving, line, format, args...).WithSource(r.source, r.file)
	r.errors = append(r.errors, err)
}
