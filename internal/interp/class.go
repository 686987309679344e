package interp

// Class is a runtime class value: its own method table plus an optional
// superclass handle. Method lookup walks the superclass chain by
// one-level recursive delegation (FindMethod calls superclass.FindMethod),
// matching the original Lox implementation's Class.find_method rather
// than flattening inherited methods into a single table at construction
// time — see SPEC_FULL.md §3.
type Class struct {
	Name       string
	Methods    map[string]*Function
	Superclass *Class
}

// NewClass builds a Class value.
func NewClass(name string, methods map[string]*Function, superclass *Class) *Class {
	return &Class{Name: name, Methods: methods, Superclass: superclass}
}

// FindMethod looks up name in this class's own methods, then recursively
// in its superclass chain.
func (c *Class) FindMethod(name string) (*Function, bool) {
	if m, ok := c.Methods[name]; ok {
		return m, true
	}
	if c.Superclass != nil {
		return c.Superclass.FindMethod(name)
	}
	return nil, false
}

// Arity is the arity of the class's `init` method, or zero if it has none,
// per spec.md §4.6.
func (c *Class) Arity() int {
	if init, ok := c.FindMethod("init"); ok {
		return init.Arity()
	}
	return 0
}

// Call constructs a new instance: if the class (or an ancestor) declares
// `init`, it is bound to the new instance and invoked with args; the
// instance is returned either way, per spec.md §4.6.
func (c *Class) Call(ev *Evaluator, args []Value) (Value, error) {
	instance := NewInstance(c)
	if init, ok := c.FindMethod("init"); ok {
		if _, err := init.Bind(instance).Call(ev, args); err != nil {
			return nil, err
		}
	}
	return instance, nil
}

// String renders the class the way spec.md §4.4 requires: `<class NAME>`.
func (c *Class) String() string {
	return "<class " + c.Name + ">"
}
