// Package dref provides explicit dual parent-reference helpers for Go.
//
// This repository implements one recurring pattern: a dependent value that
// must always be able to produce both its parent object and that parent's
// identifier, no matter which of the two it was constructed from, optionally
// holding the parent through a non-owning (weak) slot that can be
// resurrected from the cached identifier.
//
// The pattern is offered at two levels:
//
//   - dref: a generic Binding[P, ID] + Ref[P, ID] core — explicit
//     construction, post-build validation, typed errors, and an observable
//     liveness state for the weak slot.
//   - cmd/drefgen: a code generator that wraps the generic core in a typed
//     facade with role-derived names (ForAccount, AccountID, ...), generated
//     from a small *.binding.json / *.binding.yaml spec.
//
// The goal is to keep the object/identifier wiring explicit, avoid
// reflection, and keep the surface area intentionally small.
//
// See subpackages:
//   - dref: the library package used by the examples / generator output
//   - cmd/drefgen: the code generator for typed facades
//   - examples/*: runnable examples for strong and weak bindings
package dref
