// Package dref provides dual parent-reference wiring for dependent values.
//
// This package intentionally offers the pattern at two levels:
//
//   - generic: Binding[P, ID] + Ref[P, ID] — one binding per concrete
//     pairing, refs built through ForParent / ForParentID / RefBuilder, with
//     post-build validation and typed errors (missing slots, inconsistent
//     pairs, unresolvable identifiers). Best when generic names like
//     Parent() are acceptable.
//
//   - generated: cmd/drefgen emits a typed facade over a binding with names
//     derived from the configured role (ForAccount, AccountID, ...), and
//     omits the identifier constructor entirely when no getter is
//     configured. Best when the call sites should read like hand-written
//     domain code.
//
// Both levels share the same semantics. A binding is weak by default: an
// externally supplied parent is stored non-owning, its identifier is
// captured eagerly at build time, and once the owning side invalidates the
// reference the next Parent call resurrects it through the getter and holds
// the result strong. Set Config.Strong to opt out.
//
// Quick guidance
//
// Use a weak binding when:
//   - the parent owns (directly or transitively) the dependent value, and a
//     strong back-reference would form a retention cycle
//   - a getter can always re-resolve the parent from its identifier
//
// Use a strong binding when:
//   - no ownership cycle is possible and the parent should simply be kept
//     reachable
//   - no getter exists (object-path construction only)
//
// examples can be found under examples/strong and examples/weak
//
// Import
//
//	"github.com/sghaida/dref/dref"
package dref
