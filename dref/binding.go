// Package dref implements a small, generic dual parent-reference helper.
//
// It models a dependent value that holds two cooperating slots — a parent
// object and a parent identifier — and keeps them mutually derivable: either
// one can be supplied at construction and the other is computed on demand.
// The parent slot can optionally be non-owning (weak), in which case a lost
// reference is resurrected from the cached identifier via an external getter.
//
// Design goals:
//   - Lightweight: one Binding per concrete (parent, id) pairing, no
//     reflection, no runtime type registry.
//   - Explicit construction: refs are built through ForParent/ForParentID or
//     a RefBuilder, and validated before they become observable.
//   - Safe defaults: inconsistent (object, id) pairs, missing slots, and
//     unresolvable configurations are detected early with typed errors.
//   - Test-friendly: liveness of the weak slot is an observable state, not
//     something inferred from nil pointers.
package dref

// Getter resolves a parent object from its identifier.
//
// It is supplied by the integrator and treated as an opaque synchronous
// call; failures propagate unchanged to the caller (wrapped in
// ResolutionError), and nothing is retried internally.
type Getter[P any, ID comparable] func(ID) (*P, error)

// Identify extracts the identifier from a parent object.
//
// It is assumed deterministic for a given object and free of side effects.
type Identify[P any, ID comparable] func(*P) (ID, error)

// Alive reports whether a non-owning parent reference is still valid.
//
// The owning side may invalidate the reference at any time outside this
// package's control; Alive is consulted on every read of a weak slot.
type Alive[P any] func(*P) bool

// Identifiable is the default identifier accessor used when Config.Identify
// is not set.
//
// If *P implements Identifiable[ID], the binding derives identifiers by
// calling ID() on the parent pointer.
type Identifiable[ID comparable] interface {
	ID() ID
}

// Config describes one dual-reference binding.
//
// It is supplied once per generated pairing and immutable thereafter; New
// validates it and returns a Binding that refs are built from.
type Config[P any, ID comparable] struct {
	// Ident is the diagnostic name used in every error raised by the
	// binding, e.g. "invoice.account". Required.
	Ident string

	// What is the role name of the parent reference, e.g. "account".
	// It appears in error messages and drives the derived names emitted by
	// cmd/drefgen. Required.
	What string

	// Identify extracts an identifier from a parent object. Optional when
	// *P implements Identifiable[ID]; required otherwise.
	Identify Identify[P, ID]

	// Getter resolves a parent object from an identifier. Optional for
	// strong bindings; required when the binding is weak or when refs are
	// built from identifiers alone.
	Getter Getter[P, ID]

	// Alive reports liveness of a non-owning parent reference. Required
	// for weak bindings, ignored for strong ones.
	Alive Alive[P]

	// Strong disables the default non-owning storage of externally
	// supplied parent objects. The zero value keeps the binding weak.
	Strong bool
}

// Binding is the validated, immutable product of New.
//
// One Binding exists per concrete (parent type, id type) pairing; all refs
// for that pairing are constructed through it.
type Binding[P any, ID comparable] struct {
	ident    string
	what     string
	identify Identify[P, ID]
	getter   Getter[P, ID]
	alive    Alive[P]
	weak     bool
}

// New validates cfg and returns the Binding for it.
//
// All configuration problems surface here, before any ref exists:
//   - empty Ident or What
//   - a weak binding with no Getter (nothing could ever resurrect the slot)
//   - a weak binding with no Alive predicate (nothing could ever observe
//     that the slot expired)
//   - no Identify function when *P does not implement Identifiable[ID]
func New[P any, ID comparable](cfg Config[P, ID]) (*Binding[P, ID], error) {
	if cfg.Ident == "" {
		return nil, ConfigurationError{Ident: cfg.Ident, Reason: "ident must not be empty"}
	}
	if cfg.What == "" {
		return nil, ConfigurationError{Ident: cfg.Ident, Reason: "what must not be empty"}
	}

	weak := !cfg.Strong
	if weak && cfg.Getter == nil {
		return nil, ConfigurationError{Ident: cfg.Ident, Reason: "weak binding requires a getter"}
	}
	if weak && cfg.Alive == nil {
		return nil, ConfigurationError{Ident: cfg.Ident, Reason: "weak binding requires a liveness predicate"}
	}

	identify := cfg.Identify
	if identify == nil {
		// Typed-nil assertion: method-set membership does not need a live
		// instance.
		if _, ok := any((*P)(nil)).(Identifiable[ID]); !ok {
			return nil, ConfigurationError{
				Ident:  cfg.Ident,
				Reason: "no identify function and parent type does not implement Identifiable",
			}
		}
		identify = func(p *P) (ID, error) {
			return any(p).(Identifiable[ID]).ID(), nil
		}
	}

	return &Binding[P, ID]{
		ident:    cfg.Ident,
		what:     cfg.What,
		identify: identify,
		getter:   cfg.Getter,
		alive:    cfg.Alive,
		weak:     weak,
	}, nil
}

// MustNew returns the Binding for cfg or panics.
//
// Intended for package-level binding variables, where a configuration error
// is a programming mistake.
func MustNew[P any, ID comparable](cfg Config[P, ID]) *Binding[P, ID] {
	b, err := New(cfg)
	if err != nil {
		panic(err)
	}
	return b
}

// Ident returns the binding's diagnostic name.
func (b *Binding[P, ID]) Ident() string { return b.ident }

// What returns the role name of the parent reference.
func (b *Binding[P, ID]) What() string { return b.what }

// Weak reports whether externally supplied parent objects are stored
// non-owning.
func (b *Binding[P, ID]) Weak() bool { return b.weak }

// HasGetter reports whether the binding can resolve parents from
// identifiers.
func (b *Binding[P, ID]) HasGetter() bool { return b.getter != nil }
