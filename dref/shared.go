package dref

import "sync"

// SharedRef guards a Ref for use from multiple goroutines.
//
// A weak read is a check-then-recompute sequence (consult the liveness
// predicate, possibly overwrite the slot with a resurrected parent); when a
// ref is shared that sequence must be atomic. SharedRef serializes the
// accessors with a mutex; refs owned by a single goroutine do not need it.
type SharedRef[P any, ID comparable] struct {
	mu  sync.Mutex
	ref *Ref[P, ID]
}

// Share wraps a Ref for cross-goroutine use.
//
// The caller must stop using the bare Ref afterwards.
func Share[P any, ID comparable](r *Ref[P, ID]) *SharedRef[P, ID] {
	return &SharedRef[P, ID]{ref: r}
}

// Parent calls Ref.Parent under the lock.
func (s *SharedRef[P, ID]) Parent() (*P, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ref.Parent()
}

// ParentID calls Ref.ParentID under the lock.
func (s *SharedRef[P, ID]) ParentID() (ID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ref.ParentID()
}

// Liveness calls Ref.Liveness under the lock.
func (s *SharedRef[P, ID]) Liveness() Liveness {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ref.Liveness()
}
