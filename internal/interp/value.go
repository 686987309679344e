package interp

import "strconv"

// Value is a runtime Lox value. The concrete type tags the variant, per
// spec.md §3: float64 for Number, string for String, bool for Boolean,
// nil for Nil, and the *Function/*NativeFunction/*Class/*Instance pointer
// types below for the callable/class/instance variants.
type Value any

// Callable is implemented by anything invocable via a Call expression:
// user-defined functions, native functions, and classes (construction).
type Callable interface {
	Arity() int
	Call(ev *Evaluator, args []Value) (Value, error)
	String() string
}

// truthy implements spec.md §4.4's truthiness rule: only false and nil are
// falsy; everything else, including 0 and "", is truthy.
func truthy(v Value) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	default:
		return true
	}
}

// equal implements spec.md §4.4's `==`: structural equality within a
// variant, false across different variants, nil==nil true.
func equal(a, b Value) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	switch av := a.(type) {
	case float64:
		bv, ok := b.(float64)
		return ok && av == bv
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	default:
		return a == b
	}
}

// stringify renders a value the way `print` does, per spec.md §4.4's
// rendering table. Number formatting is implementation-defined per
// spec.md §9's open question; this uses Go's shortest round-tripping
// float format, which prints whole numbers without a trailing ".0".
func stringify(v Value) string {
	switch val := v.(type) {
	case nil:
		return "nil"
	case bool:
		if val {
			return "true"
		}
		return "false"
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case string:
		return val
	case *Function:
		return val.String()
	case *NativeFunction:
		return val.String()
	case *Class:
		return val.String()
	case *Instance:
		return val.String()
	default:
		return "<unknown value>"
	}
}
