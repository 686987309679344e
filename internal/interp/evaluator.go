// Package interp implements the tree-walking evaluator described in
// spec.md §4.4: it interprets statements against a chain of lexical
// environments, consulting the resolver's token-id→depth table to decide
// whether a name lookup or assignment targets a specific ancestor scope or
// falls through to globals.
package interp

import (
	"github.com/loxlang/golox/internal/ast"
	"github.com/loxlang/golox/internal/loxerr"
	"github.com/loxlang/golox/internal/resolver"
	"github.com/loxlang/golox/internal/token"
)

// signalKind distinguishes normal statement completion from a Return
// non-local exit. Per spec.md §7 and §9, Return is modeled as a distinct
// control-flow signal rather than piggybacked on the error channel, so it
// can never leak to the user as a message.
type signalKind int

const (
	signalNone signalKind = iota
	signalReturn
)

type signal struct {
	kind  signalKind
	value Value
}

var normalSignal = signal{kind: signalNone}

// Evaluator walks statements and expressions against a chain of
// environments rooted at globals.
type Evaluator struct {
	globals     *Environment
	environment *Environment
	sink        Sink
	depths      resolver.Depths
	source      string
	file        string
}

// New creates an Evaluator. depths is the resolver-populated table (see
// internal/resolver); sink receives every `print`ed value. globals
// pre-defines clock, the only native, per spec.md §4.7 / SPEC_FULL.md §4.7.
func New(sink Sink, depths resolver.Depths, source, file string) *Evaluator {
	globals := NewEnvironment()
	defineNatives(globals)
	return &Evaluator{
		globals:     globals,
		environment: globals,
		sink:        sink,
		depths:      depths,
		source:      source,
		file:        file,
	}
}

// Globals exposes the global environment, primarily so a REPL driver can
// reuse it across independently-parsed lines (spec.md §6: "the REPL ...
// shares ... the global environment so that definitions persist").
func (ev *Evaluator) Globals() *Environment { return ev.globals }

// SetSink redirects future `print` output to sink. A REPL driver calls
// this between lines when it wants each line's output isolated (e.g. a
// fresh BufferSink per line) while everything else — globals, the depth
// table — stays shared.
func (ev *Evaluator) SetSink(sink Sink) { ev.sink = sink }

// Interpret executes a top-level statement list. Per spec.md §7, the
// evaluator stops at the first runtime error encountered.
func (ev *Evaluator) Interpret(statements []ast.Stmt) *loxerr.Error {
	for _, stmt := range statements {
		if _, err := ev.execute(stmt); err != nil {
			return asLoxErr(err)
		}
	}
	return nil
}

func asLoxErr(err error) *loxerr.Error {
	if le, ok := err.(*loxerr.Error); ok {
		return le
	}
	return loxerr.New(loxerr.Runtime, 0, "%s", err.Error())
}

// ---- statement execution ----

func (ev *Evaluator) execute(stmt ast.Stmt) (signal, error) {
	switch n := stmt.(type) {
	case *ast.Expression:
		_, err := ev.evaluate(n.Expression)
		return normalSignal, err
	case *ast.Print:
		value, err := ev.evaluate(n.Expression)
		if err != nil {
			return normalSignal, err
		}
		ev.sink.Accept(stringify(value))
		return normalSignal, nil
	case *ast.VarDecl:
		var value Value
		if n.Initializer != nil {
			v, err := ev.evaluate(n.Initializer)
			if err != nil {
				return normalSignal, err
			}
			value = v
		}
		ev.environment.Define(n.Name.Lexeme, value)
		return normalSignal, nil
	case *ast.Block:
		return ev.executeBlock(n.Statements, NewChildEnvironment(ev.environment))
	case *ast.If:
		cond, err := ev.evaluate(n.Condition)
		if err != nil {
			return normalSignal, err
		}
		if truthy(cond) {
			return ev.execute(n.Then)
		} else if n.Else != nil {
			return ev.execute(n.Else)
		}
		return normalSignal, nil
	case *ast.While:
		for {
			cond, err := ev.evaluate(n.Condition)
			if err != nil {
				return normalSignal, err
			}
			if !truthy(cond) {
				return normalSignal, nil
			}
			sig, err := ev.execute(n.Body)
			if err != nil || sig.kind == signalReturn {
				return sig, err
			}
		}
	case *ast.FunDecl:
		fn := NewFunction(n, ev.environment)
		ev.environment.Define(n.Name.Lexeme, fn)
		return normalSignal, nil
	case *ast.Return:
		var value Value
		if n.Value != nil {
			v, err := ev.evaluate(n.Value)
			if err != nil {
				return normalSignal, err
			}
			value = v
		}
		return signal{kind: signalReturn, value: value}, nil
	case *ast.ClassDecl:
		return ev.executeClassDecl(n)
	default:
		return normalSignal, nil
	}
}

// executeBlock runs statements against env, always restoring the caller's
// environment on the way out — including on an error or a Return signal —
// per spec.md §4.4's Block semantics.
func (ev *Evaluator) executeBlock(statements []ast.Stmt, env *Environment) (signal, error) {
	previous := ev.environment
	ev.environment = env
	defer func() { ev.environment = previous }()

	for _, stmt := range statements {
		sig, err := ev.execute(stmt)
		if err != nil || sig.kind == signalReturn {
			return sig, err
		}
	}
	return normalSignal, nil
}

func (ev *Evaluator) executeClassDecl(n *ast.ClassDecl) (signal, error) {
	var superclass *Class
	if n.Superclass != nil {
		v, err := ev.evaluate(n.Superclass)
		if err != nil {
			return normalSignal, err
		}
		sc, ok := v.(*Class)
		if !ok {
			return normalSignal, loxerr.New(loxerr.TypeMismatch, n.Superclass.Name.Line, "superclass must be a class")
		}
		superclass = sc
	}

	classEnv := ev.environment
	if superclass != nil {
		classEnv = NewChildEnvironment(ev.environment)
		classEnv.Define("super", superclass)
	}

	methods := make(map[string]*Function, len(n.Methods))
	for _, m := range n.Methods {
		methods[m.Name.Lexeme] = NewFunction(m, classEnv)
	}

	class := NewClass(n.Name.Lexeme, methods, superclass)
	ev.environment.Define(n.Name.Lexeme, class)
	return normalSignal, nil
}

// ---- expression evaluation ----

func (ev *Evaluator) evaluate(expr ast.Expr) (Value, error) {
	switch n := expr.(type) {
	case *ast.Literal:
		return n.Value, nil
	case *ast.Grouping:
		return ev.evaluate(n.Expression)
	case *ast.Variable:
		return ev.lookUpVariable(n.Name)
	case *ast.Assignment:
		value, err := ev.evaluate(n.Value)
		if err != nil {
			return nil, err
		}
		if distance, ok := ev.depths[n.Name.ID]; ok {
			ev.environment.AssignAt(distance, n.Name.Lexeme, value)
			return value, nil
		}
		if err := ev.globals.Assign(n.Name.Lexeme, value, n.Name.Line); err != nil {
			return nil, err
		}
		return value, nil
	case *ast.Logical:
		return ev.evalLogical(n)
	case *ast.Unary:
		return ev.evalUnary(n)
	case *ast.Binary:
		return ev.evalBinary(n)
	case *ast.Call:
		return ev.evalCall(n)
	case *ast.Get:
		return ev.evalGet(n)
	case *ast.Set:
		return ev.evalSet(n)
	case *ast.This:
		return ev.lookUpVariable(n.Keyword)
	case *ast.Super:
		return ev.evalSuper(n)
	default:
		return nil, loxerr.New(loxerr.Runtime, expr.Line(), "unhandled expression node %T", n)
	}
}

func (ev *Evaluator) lookUpVariable(name token.Token) (Value, error) {
	if distance, ok := ev.depths[name.ID]; ok {
		return ev.environment.GetAt(distance, name.Lexeme), nil
	}
	if v, ok := ev.globals.Get(name.Lexeme); ok {
		return v, nil
	}
	return nil, loxerr.New(loxerr.Name, name.Line, "undefined variable %q", name.Lexeme)
}

func (ev *Evaluator) evalLogical(n *ast.Logical) (Value, error) {
	left, err := ev.evaluate(n.Left)
	if err != nil {
		return nil, err
	}
	if n.Operator.Type == token.Or {
		if truthy(left) {
			return left, nil
		}
	} else {
		if !truthy(left) {
			return left, nil
		}
	}
	return ev.evaluate(n.Right)
}

func (ev *Evaluator) evalUnary(n *ast.Unary) (Value, error) {
	right, err := ev.evaluate(n.Right)
	if err != nil {
		return nil, err
	}
	switch n.Operator.Type {
	case token.Minus:
		num, ok := right.(float64)
		if !ok {
			return nil, loxerr.New(loxerr.TypeMismatch, n.Operator.Line, "operand must be a number")
		}
		return -num, nil
	case token.Bang:
		return !truthy(right), nil
	default:
		return nil, loxerr.New(loxerr.Runtime, n.Operator.Line, "unknown unary operator %q", n.Operator.Lexeme)
	}
}

func (ev *Evaluator) evalBinary(n *ast.Binary) (Value, error) {
	left, err := ev.evaluate(n.Left)
	if err != nil {
		return nil, err
	}
	right, err := ev.evaluate(n.Right)
	if err != nil {
		return nil, err
	}

	switch n.Operator.Type {
	case token.EqualEqual:
		return equal(left, right), nil
	case token.BangEqual:
		return !equal(left, right), nil
	case token.Plus:
		if ln, ok := left.(float64); ok {
			if rn, ok := right.(float64); ok {
				return ln + rn, nil
			}
		}
		if ls, ok := left.(string); ok {
			if rs, ok := right.(string); ok {
				return ls + rs, nil
			}
		}
		return nil, loxerr.New(loxerr.TypeMismatch, n.Operator.Line, "operands must be two numbers or two strings")
	case token.Minus, token.Slash, token.Star, token.Greater, token.GreaterEqual, token.Less, token.LessEqual:
		ln, lok := left.(float64)
		rn, rok := right.(float64)
		if !lok || !rok {
			return nil, loxerr.New(loxerr.TypeMismatch, n.Operator.Line, "operands must be numbers")
		}
		switch n.Operator.Type {
		case token.Minus:
			return ln - rn, nil
		case token.Slash:
			return ln / rn, nil
		case token.Star:
			return ln * rn, nil
		case token.Greater:
			return ln > rn, nil
		case token.GreaterEqual:
			return ln >= rn, nil
		case token.Less:
			return ln < rn, nil
		default: // LessEqual
			return ln <= rn, nil
		}
	default:
		return nil, loxerr.New(loxerr.Runtime, n.Operator.Line, "unknown binary operator %q", n.Operator.Lexeme)
	}
}

func (ev *Evaluator) evalCall(n *ast.Call) (Value, error) {
	callee, err := ev.evaluate(n.Callee)
	if err != nil {
		return nil, err
	}

	args := make([]Value, len(n.Arguments))
	for i, a := range n.Arguments {
		v, err := ev.evaluate(a)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	callable, ok := callee.(Callable)
	if !ok {
		return nil, loxerr.New(loxerr.TypeMismatch, n.Paren.Line, "can only call functions and classes")
	}
	if len(args) != callable.Arity() {
		return nil, loxerr.New(loxerr.TypeMismatch, n.Paren.Line, "expected %d arguments but got %d", callable.Arity(), len(args))
	}
	return callable.Call(ev, args)
}

func (ev *Evaluator) evalGet(n *ast.Get) (Value, error) {
	obj, err := ev.evaluate(n.Object)
	if err != nil {
		return nil, err
	}
	instance, ok := obj.(*Instance)
	if !ok {
		return nil, loxerr.New(loxerr.Attribute, n.Name.Line, "only instances have properties")
	}
	v, lerr := instance.Get(n.Name.Lexeme, n.Name.Line)
	if lerr != nil {
		return nil, lerr
	}
	return v, nil
}

func (ev *Evaluator) evalSet(n *ast.Set) (Value, error) {
	obj, err := ev.evaluate(n.Object)
	if err != nil {
		return nil, err
	}
	instance, ok := obj.(*Instance)
	if !ok {
		return nil, loxerr.New(loxerr.Attribute, n.Name.Line, "only instances have fields")
	}
	value, err := ev.evaluate(n.Value)
	if err != nil {
		return nil, err
	}
	instance.Set(n.Name.Lexeme, value)
	return value, nil
}

func (ev *Evaluator) evalSuper(n *ast.Super) (Value, error) {
	distance, ok := ev.depths[n.Keyword.ID]
	if !ok {
		return nil, loxerr.New(loxerr.Resolving, n.Keyword.Line, "super used outside of a subclass method")
	}
	superclass, _ := ev.environment.GetAt(distance, "super").(*Class)
	instance, _ := ev.environment.GetAt(distance-1, "this").(*Instance)

	method, found := superclass.FindMethod(n.Method.Lexeme)
	if !found {
		return nil, loxerr.New(loxerr.Attribute, n.Method.Line, "undefined property %q", n.Method.Lexeme)
	}
	return method.Bind(instance), nil
}
