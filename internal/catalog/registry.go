package catalog

// Registry holds loaded definitions with lookup by ID. Definitions keep
// their file order, which is the display order.
type Registry[T any] struct {
	byID map[string]*T
	all  []T
}

// NewRegistry creates a registry from loaded definitions.
func NewRegistry[T any](defs []T, id func(T) string) *Registry[T] {
	r := &Registry[T]{
		byID: make(map[string]*T, len(defs)),
		all:  defs,
	}
	for i := range defs {
		r.byID[id(defs[i])] = &defs[i]
	}
	return r
}

// ByID returns the definition with the given ID, or nil if not found.
func (r *Registry[T]) ByID(id string) *T {
	return r.byID[id]
}

// All returns all definitions in file order.
func (r *Registry[T]) All() []T {
	return r.all
}

// Count returns the number of definitions.
func (r *Registry[T]) Count() int {
	return len(r.all)
}
