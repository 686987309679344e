package interp

import (
	"github.com/loxlang/golox/internal/ast"
)

// Function is a user-defined Lox function or method value: the
// declaration plus the environment it closed over at declaration time.
// spec.md §3's "closure" invariant — a method value obtained from an
// instance is a new Function bound to that instance — is implemented by
// Bind below, never by mutating Closure in place.
type Function struct {
	declaration   *ast.FunDecl
	closure       *Environment
	isInitializer bool
}

// NewFunction builds a Function value from a FunDecl. isInitializer is
// true iff the declared name is literally "init", per spec.md §3.
func NewFunction(decl *ast.FunDecl, closure *Environment) *Function {
	return &Function{
		declaration:   decl,
		closure:       closure,
		isInitializer: decl.Name.Lexeme == "init",
	}
}

// Arity is the function's declared parameter count.
func (f *Function) Arity() int { return len(f.declaration.Params) }

// Bind produces a new Function whose closure is a fresh environment
// defining `this` = instance, parented on f's original closure — method
// binding happens at Get-time (access), not at class-construction time,
// per spec.md §9's "Method binding" note. This means
// `var m = obj.method; m();` behaves correctly without the evaluator
// tracking which instance produced m.
func (f *Function) Bind(instance *Instance) *Function {
	env := NewChildEnvironment(f.closure)
	env.Define("this", instance)
	return &Function{declaration: f.declaration, closure: env, isInitializer: f.isInitializer}
}

// Call executes the function body in a fresh environment parented on its
// closure, per spec.md §4.5.
func (f *Function) Call(ev *Evaluator, args []Value) (Value, error) {
	env := NewChildEnvironment(f.closure)
	for i, param := range f.declaration.Params {
		env.Define(param.Lexeme, args[i])
	}

	result, err := ev.executeBlock(f.declaration.Body, env)
	if err != nil {
		return nil, err
	}

	if f.isInitializer {
		return f.closure.GetAt(0, "this"), nil
	}
	if result.kind == signalReturn {
		return result.value, nil
	}
	return nil, nil
}

// String renders the function the way spec.md §4.4 requires: `<fn NAME>`.
func (f *Function) String() string {
	return "<fn " + f.declaration.Name.Lexeme + ">"
}
