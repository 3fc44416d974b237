package dref_test

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sghaida/dref/dref"
)

// TestSharedRef_Delegates verifies the guarded accessors return the same
// results as the bare ref.
func TestSharedRef_Delegates(t *testing.T) {
	t.Parallel()

	b := dref.MustNew(strongAccountConfig())
	acct := newAccount("acme")

	r, err := b.ForParent(acct)
	require.NoError(t, err)

	shared := dref.Share(r)

	got, err := shared.Parent()
	require.NoError(t, err)
	assert.Same(t, acct, got)

	id, err := shared.ParentID()
	require.NoError(t, err)
	assert.Equal(t, acct.ID(), id)

	assert.Equal(t, dref.LivenessStrong, shared.Liveness())
}

// TestSharedRef_ConcurrentResurrection verifies concurrent readers all see
// a consistent parent while the weak slot is being resurrected.
func TestSharedRef_ConcurrentResurrection(t *testing.T) {
	t.Parallel()

	acct := newAccount("acme")
	reg := dref.NewMapRegistry[uuid.UUID, account]().Provide(acct.id, acct)

	b := dref.MustNew(weakAccountConfig(reg))

	r, err := b.ForParent(acct)
	require.NoError(t, err)
	shared := dref.Share(r)

	// Owner releases the original and republishes a replacement; readers
	// race the resurrection.
	replacement := &account{id: acct.id, name: "acme"}
	reg.Release(acct.id)
	reg.Provide(acct.id, replacement)

	var wg sync.WaitGroup
	results := make([]*account, 8)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := shared.Parent()
			assert.NoError(t, err)
			results[i] = got
		}()
	}
	wg.Wait()

	for _, got := range results {
		assert.Same(t, replacement, got)
	}
	assert.Equal(t, dref.LivenessStrong, shared.Liveness())
}
