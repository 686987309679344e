package interp

import (
	"time"

	"github.com/loxlang/golox/internal/loxerr"
)

// NativeFunction wraps a Go closure as a Lox-callable value.
type NativeFunction struct {
	name  string
	arity int
	fn    func(ev *Evaluator, args []Value) (Value, error)
}

// Arity is the native's declared parameter count.
func (n *NativeFunction) Arity() int { return n.arity }

// Call invokes the wrapped Go closure.
func (n *NativeFunction) Call(ev *Evaluator, args []Value) (Value, error) {
	return n.fn(ev, args)
}

// String renders the native the way spec.md §4.4 requires:
// `<native fn NAME>`.
func (n *NativeFunction) String() string {
	return "<native fn " + n.name + ">"
}

// defineNatives populates env with the interpreter's built-in global
// functions. clock is the only native spec.md §4.7 allows — its
// Non-goals explicitly exclude "a standard library beyond a single
// built-in clock function."
func defineNatives(env *Environment) {
	env.Define("clock", &NativeFunction{
		name:  "clock",
		arity: 0,
		fn: func(_ *Evaluator, _ []Value) (Value, error) {
			now := time.Now().Unix()
			if now < 0 {
				return nil, loxerr.New(loxerr.Runtime, 0, "clock: system time is before the Unix epoch")
			}
			return float64(time.Now().UnixNano()) / 1e9, nil
		},
	})
}
