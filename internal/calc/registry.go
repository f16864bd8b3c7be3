package calc

import "sort"

// Registrar is the write side of a Registry. Plugin loaders depend on it
// rather than on the concrete type.
type Registrar interface {
	Register(name string, op Operation)
}

// Registry maps case-normalised operation names to implementations.
type Registry struct {
	ops map[string]Operation
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{ops: make(map[string]Operation)}
}

// NewDefaultRegistry creates a registry holding the Builtins.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	for name, op := range Builtins() {
		r.Register(name, op)
	}
	return r
}

// Register inserts op under the normalised name, replacing any existing entry.
func (r *Registry) Register(name string, op Operation) {
	r.ops[NormalizeName(name)] = op
}

// Resolve returns the operation registered under name.
// Returns an UNKNOWN_OPERATION *Error when absent.
func (r *Registry) Resolve(name string) (Operation, error) {
	op, ok := r.ops[NormalizeName(name)]
	if !ok {
		return nil, NewUnknownOperationError(name)
	}
	return op, nil
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.ops[NormalizeName(name)]
	return ok
}

// Names returns all registered keys in lexical order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.ops))
	for name := range r.ops {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered operations.
func (r *Registry) Len() int {
	return len(r.ops)
}
