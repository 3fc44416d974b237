package dref

// Liveness describes the state of a Ref's parent-object slot.
//
// It is a first-class signal so callers (and tests) can tell "nothing was
// ever stored" apart from "something was stored but the owning side has
// since released it" — the resurrection path is only valid in the latter
// case.
type Liveness uint8

const (
	// LivenessUnset means no parent object is currently stored.
	LivenessUnset Liveness = iota

	// LivenessStrong means the slot holds an owning reference.
	LivenessStrong

	// LivenessWeakAlive means the slot holds a non-owning reference that
	// the liveness predicate still reports valid.
	LivenessWeakAlive

	// LivenessWeakExpired means the slot holds a non-owning reference that
	// the owning side has invalidated; the next Parent call resurrects it
	// from the cached identifier.
	LivenessWeakExpired
)

// String implements fmt.Stringer.
func (l Liveness) String() string {
	switch l {
	case LivenessUnset:
		return "unset"
	case LivenessStrong:
		return "strong"
	case LivenessWeakAlive:
		return "weak-alive"
	case LivenessWeakExpired:
		return "weak-expired"
	default:
		return "unknown"
	}
}

// Ref is one dual-reference instance: a parent-object slot plus a
// parent-identifier slot, kept mutually derivable through the binding.
//
// Refs are built through a Binding (ForParent, ForParentID, or NewRef) and
// are validated before they are returned; an invalid pair is never
// observable. A Ref is owned by a single goroutine — wrap it in a SharedRef
// when the weak slot is read from several.
type Ref[P any, ID comparable] struct {
	b *Binding[P, ID]

	parent   *P
	weakHeld bool

	// Computed-once identifier cell. Once set the identifier is treated as
	// an immutable property of the relationship and is never rechecked
	// against a resurrected parent.
	id    ID
	idSet bool
}

// RefBuilder assembles one Ref.
//
// Populate the slots with WithParent / WithParentID, then call Build; all
// invariant checks run in Build, after every constructor-supplied field is
// set.
type RefBuilder[P any, ID comparable] struct {
	b      *Binding[P, ID]
	parent *P
	id     ID
	hasID  bool
}

// NewRef starts building a Ref against the binding.
func (b *Binding[P, ID]) NewRef() *RefBuilder[P, ID] {
	return &RefBuilder[P, ID]{b: b}
}

// WithParent supplies the parent object slot.
func (rb *RefBuilder[P, ID]) WithParent(parent *P) *RefBuilder[P, ID] {
	rb.parent = parent
	return rb
}

// WithParentID supplies the parent identifier slot.
func (rb *RefBuilder[P, ID]) WithParentID(id ID) *RefBuilder[P, ID] {
	rb.id = id
	rb.hasID = true
	return rb
}

// Build validates the populated slots and returns the Ref.
//
// Validation order:
//  1. neither slot supplied -> MissingParentError
//  2. both supplied and the derived identifier differs -> InconsistentParentError
//  3. identifier only, no getter -> UnresolvableIdentifierError
//  4. weak binding with an externally supplied parent: the identifier is
//     derived and cached now, while the reference is certainly still valid,
//     and the slot is marked non-owning from here on.
//
// A parent obtained later through the getter is held as an owning reference
// and never re-weakened: nothing else is assumed to keep it reachable.
func (rb *RefBuilder[P, ID]) Build() (*Ref[P, ID], error) {
	if rb.b == nil {
		return nil, ErrNilBinding
	}
	b := rb.b

	if rb.parent == nil && !rb.hasID {
		return nil, MissingParentError{Ident: b.ident, What: b.what}
	}

	r := &Ref[P, ID]{b: b, parent: rb.parent, id: rb.id, idSet: rb.hasID}

	if rb.parent != nil && rb.hasID {
		derived, err := b.identify(rb.parent)
		if err != nil {
			return nil, ResolutionError{Ident: b.ident, Op: "identify", Err: err}
		}
		if derived != rb.id {
			return nil, InconsistentParentError{
				Ident:    b.ident,
				What:     b.what,
				Supplied: rb.id,
				Derived:  derived,
			}
		}
	}

	if rb.parent == nil && b.getter == nil {
		return nil, UnresolvableIdentifierError{Ident: b.ident, What: b.what}
	}

	if b.weak && rb.parent != nil {
		// Capture the identifier before the reference can possibly expire;
		// after expiry it is the only path back to the parent.
		if !r.idSet {
			id, err := b.identify(rb.parent)
			if err != nil {
				return nil, ResolutionError{Ident: b.ident, Op: "identify", Err: err}
			}
			r.id = id
			r.idSet = true
		}
		r.weakHeld = true
	}

	return r, nil
}

// ForParent builds a Ref from a parent object.
func (b *Binding[P, ID]) ForParent(parent *P) (*Ref[P, ID], error) {
	return b.NewRef().WithParent(parent).Build()
}

// ForParentID builds a Ref from a parent identifier.
//
// It fails with UnresolvableIdentifierError when the binding has no getter;
// prefer generated facades (cmd/drefgen) if you want the identifier
// constructor to not exist at all in that case.
func (b *Binding[P, ID]) ForParentID(id ID) (*Ref[P, ID], error) {
	return b.NewRef().WithParentID(id).Build()
}

// ForParentWithID builds a Ref from a parent object plus its identifier,
// enforcing that the two agree.
func (b *Binding[P, ID]) ForParentWithID(parent *P, id ID) (*Ref[P, ID], error) {
	return b.NewRef().WithParent(parent).WithParentID(id).Build()
}

// Binding returns the binding the Ref was built from.
func (r *Ref[P, ID]) Binding() *Binding[P, ID] { return r.b }

// Liveness reports the current state of the parent-object slot.
func (r *Ref[P, ID]) Liveness() Liveness {
	if r == nil || r.parent == nil {
		return LivenessUnset
	}
	if !r.weakHeld {
		return LivenessStrong
	}
	if r.b.alive(r.parent) {
		return LivenessWeakAlive
	}
	return LivenessWeakExpired
}

// Parent returns the parent object, resolving or resurrecting it as needed.
//
// Strong slots are returned as stored; an empty slot is resolved once via
// the getter and cached. A weak slot is returned while the liveness
// predicate reports it valid; once expired it is replaced by a fresh parent
// from the getter, held as an owning reference from then on.
//
// Getter failures are returned as ResolutionError and leave the slot
// untouched, so a later call observes the same expired state and attempts
// resolution again.
func (r *Ref[P, ID]) Parent() (*P, error) {
	if r == nil || r.b == nil {
		return nil, ErrNilBinding
	}

	if r.parent != nil {
		if !r.weakHeld || r.b.alive(r.parent) {
			return r.parent, nil
		}
		// Expired weak reference: fall through to resurrection.
	}

	if !r.idSet {
		return nil, MissingParentError{Ident: r.b.ident, What: r.b.what}
	}
	if r.b.getter == nil {
		return nil, UnresolvableIdentifierError{Ident: r.b.ident, What: r.b.what}
	}

	parent, err := r.b.getter(r.id)
	if err != nil {
		return nil, ResolutionError{Ident: r.b.ident, Op: "getter", Err: err}
	}

	r.parent = parent
	r.weakHeld = false
	return parent, nil
}

// ParentID returns the parent identifier, deriving and caching it on first
// use.
//
// The cached identifier is an invariant of the relationship: it is never
// recomputed, even after the parent slot is resurrected through the getter.
func (r *Ref[P, ID]) ParentID() (ID, error) {
	var zero ID
	if r == nil || r.b == nil {
		return zero, ErrNilBinding
	}
	if r.idSet {
		return r.id, nil
	}

	parent, err := r.Parent()
	if err != nil {
		return zero, err
	}
	id, err := r.b.identify(parent)
	if err != nil {
		return zero, ResolutionError{Ident: r.b.ident, Op: "identify", Err: err}
	}

	r.id = id
	r.idSet = true
	return id, nil
}
