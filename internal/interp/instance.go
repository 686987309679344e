package interp

import "github.com/loxlang/golox/internal/loxerr"

// Instance is a runtime object: a class handle plus a mutable field map.
// Instances are shared by reference (an ordinary Go pointer); mutation via
// Set is visible through every alias, per spec.md §3.
type Instance struct {
	class  *Class
	fields map[string]Value
}

// NewInstance creates an instance of class with no fields set.
func NewInstance(class *Class) *Instance {
	return &Instance{class: class, fields: make(map[string]Value)}
}

// Get reads a property: instance fields first, then the class's method
// chain. A method found this way is bound to the instance before being
// returned, per spec.md §4.4's Get semantics.
func (i *Instance) Get(name string, line int) (Value, *loxerr.Error) {
	if v, ok := i.fields[name]; ok {
		return v, nil
	}
	if method, ok := i.class.FindMethod(name); ok {
		return method.Bind(i), nil
	}
	return nil, loxerr.New(loxerr.Attribute, line, "undefined property %q", name)
}

// Set writes a field, creating it on first assignment.
func (i *Instance) Set(name string, value Value) {
	i.fields[name] = value
}

// String renders the instance the way spec.md §4.4 requires:
// `<NAME instance>`.
func (i *Instance) String() string {
	return "<" + i.class.Name + " instance>"
}
