package interp

import "github.com/loxlang/golox/internal/loxerr"

// Environment is a single lexical scope: a name→value map with a pointer
// to its enclosing scope. Environments chain from innermost to outermost
// (the global scope, whose parent is nil), and Go's garbage collector
// retires the reference-counted-handle role spec.md §9 describes —
// closures and bound methods simply hold a *Environment pointer and the
// runtime keeps it alive exactly as long as something reaches it.
type Environment struct {
	values map[string]Value
	parent *Environment
}

// NewEnvironment creates a root environment with no enclosing scope. The
// evaluator uses this once, for globals.
func NewEnvironment() *Environment {
	return &Environment{values: make(map[string]Value)}
}

// NewChildEnvironment creates a new scope enclosed by parent — a block,
// function call, or method-binding scope.
func NewChildEnvironment(parent *Environment) *Environment {
	return &Environment{values: make(map[string]Value), parent: parent}
}

// Define binds name to value in this environment, overwriting any existing
// binding of the same name in this scope (redeclaration is legal; the
// resolver is what rejects same-scope redeclaration where it must).
func (e *Environment) Define(name string, value Value) {
	e.values[name] = value
}

// Get reads name starting from this environment and walking outward.
func (e *Environment) Get(name string) (Value, bool) {
	for env := e; env != nil; env = env.parent {
		if v, ok := env.values[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// GetAt reads name from the environment `distance` hops above e — the
// resolver-computed scope depth. Used for every Variable/This/Super node
// the resolver annotated; see spec.md §3's depth invariant.
func (e *Environment) GetAt(distance int, name string) Value {
	env := e.ancestor(distance)
	v, ok := env.values[name]
	if !ok {
		// The resolver guarantees this name is defined at this depth; a
		// missing entry here means the resolver/evaluator contract was
		// violated, which is a bug in this implementation rather than a
		// user error, so this intentionally is not a recoverable loxerr.
		panic("lox: resolved variable " + name + " missing at its recorded depth")
	}
	return v
}

// AssignAt writes value into the environment `distance` hops above e.
func (e *Environment) AssignAt(distance int, name string, value Value) {
	e.ancestor(distance).values[name] = value
}

func (e *Environment) ancestor(distance int) *Environment {
	env := e
	for i := 0; i < distance; i++ {
		env = env.parent
	}
	return env
}

// Assign writes value to the nearest environment (starting from e) where
// name is already bound. Assigning a name undefined in any scope in the
// chain is a NameError, per spec.md §4.4.
func (e *Environment) Assign(name string, value Value, line int) *loxerr.Error {
	for env := e; env != nil; env = env.parent {
		if _, ok := env.values[name]; ok {
			env.values[name] = value
			return nil
		}
	}
	return loxerr.New(loxerr.Name, line, "undefined variable %q", name)
}
