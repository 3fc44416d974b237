package dref

import "fmt"

// Registry is a parent source keyed by identifier.
//
// It is intentionally:
// - read-only from the binding's point of view
// - side effect free
// - synchronous
//
// Expected usage:
//
//	b := dref.MustNew(dref.Config[Account, string]{
//		...
//		Getter: dref.GetterFrom[string, Account](reg),
//	})
type Registry[ID comparable, P any] interface {
	Lookup(id ID) (parent *P, ok bool, err error)
}

// MapRegistry is a simple in-memory registry.
//
// It doubles as the "owning side" in examples and tests: Release drops a
// parent, which a liveness predicate built on Get will then report as
// expired.
type MapRegistry[ID comparable, P any] struct {
	items map[ID]*P
}

// NewMapRegistry returns an empty MapRegistry.
func NewMapRegistry[ID comparable, P any]() *MapRegistry[ID, P] {
	return &MapRegistry[ID, P]{items: map[ID]*P{}}
}

// Provide stores a parent under an identifier and returns the registry for
// chaining.
func (r *MapRegistry[ID, P]) Provide(id ID, parent *P) *MapRegistry[ID, P] {
	r.items[id] = parent
	return r
}

// Release removes the parent stored under id, simulating the owning side
// invalidating it.
func (r *MapRegistry[ID, P]) Release(id ID) {
	delete(r.items, id)
}

// Lookup implements Registry and defensively converts panics into errors.
func (r *MapRegistry[ID, P]) Lookup(id ID) (parent *P, ok bool, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			parent = nil
			ok = false
			err = fmt.Errorf("%w: %v", ErrRegistryPanic, rec)
		}
	}()

	p, ok := r.items[id]
	return p, ok, nil
}

// Get returns the stored parent if present (no panic recovery).
func (r *MapRegistry[ID, P]) Get(id ID) (*P, bool) {
	p, ok := r.items[id]
	return p, ok
}

// Has reports whether a parent is stored under id.
func (r *MapRegistry[ID, P]) Has(id ID) bool {
	_, ok := r.items[id]
	return ok
}

// GetterFrom adapts a Registry into a binding Getter.
//
// Absent identifiers become NotFoundError; registry errors pass through
// unchanged.
func GetterFrom[ID comparable, P any](reg Registry[ID, P]) Getter[P, ID] {
	return func(id ID) (*P, error) {
		p, ok, err := reg.Lookup(id)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, NotFoundError{ID: id}
		}
		return p, nil
	}
}
