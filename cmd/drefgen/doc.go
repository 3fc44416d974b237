// Command drefgen — code-generated typed facades for dual parent-references (Go)
//
// The generic dref core exposes role-agnostic names (ForParent, Parent,
// ParentID). drefgen generates the role-derived surface on top of it:
//
//   - You write a tiny *.binding.json (or *.binding.yaml) spec next to your
//     binding variable.
//   - You add a //go:generate ... directive in the owner Go file.
//   - drefgen generates a facade with:
//       - For<What>(parent) and For<What>WithID(parent, id) constructors
//       - For<What>ID(id) — only when the spec declares a getter
//       - <What>() and <What>ID() accessors
//       - Liveness() and Ref() for introspection
//
// There is no reflection and no runtime registry: the facade is plain code
// delegating to a package-level *dref.Binding the owner defines.
//
// When to use drefgen
//
// Use drefgen when:
//
//   - Call sites should read like hand-written domain code (invoice.Account(),
//     not invoice.parentRef.Parent()).
//   - The identifier constructor must not exist at all for bindings without
//     a getter, instead of failing at runtime.
//   - The same pattern repeats across many parent/dependent pairings.
//
// When NOT to use drefgen
//
// Skip it when one or two pairings exist and generic names are acceptable —
// use dref.Binding directly.
//
// Spec format (*.binding.json / *.binding.yaml)
//
// Minimal example:
//
//	{
//	  "package": "billing",
//	  "ident": "invoice.account",
//	  "what": "account",
//	  "parentType": "Account",
//	  "idType": "uuid.UUID",
//	  "binding": "accountBinding",
//	  "getter": true,
//	  "imports": {
//	    "id": "github.com/google/uuid"
//	  }
//	}
//
// Field notes:
//
//   - wrapper defaults to <What>Ref (AccountRef above).
//   - weak defaults to true, matching dref.Config; weak with getter=false is
//     rejected at generation time, before any file is written.
//   - binding names a package-level *dref.Binding[ParentType, IDType] that
//     the owner package defines with the actual callbacks.
//
// Typical go:generate usage
//
// Put this in the owner Go file (same package directory as the spec):
//
//	//go:generate go run github.com/sghaida/dref/cmd/drefgen -spec ./account.binding.json -out ./account_ref.gen.go
//
// Then:
//
//	go generate ./...
//
// Generated API (summary)
//
// The generated facade typically includes:
//
//   - For<What>(parent *<ParentType>) (<Wrapper>, error)
//   - For<What>WithID(parent *<ParentType>, id <IDType>) (<Wrapper>, error)
//   - For<What>ID(id <IDType>) (<Wrapper>, error)   // only with getter
//   - (<Wrapper>) <What>() (*<ParentType>, error)
//   - (<Wrapper>) <What>ID() (<IDType>, error)
//   - (<Wrapper>) Liveness() dref.Liveness
//   - (<Wrapper>) Ref() *dref.Ref[<ParentType>, <IDType>]
//
// See examples/weak for an end-to-end weak binding wired by hand in the same
// shape the generated code takes.
package main
