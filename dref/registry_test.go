package dref

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type project struct {
	key string
}

//
// -----------------------------------------------------------------------------
// NewMapRegistry / Provide
// -----------------------------------------------------------------------------

// TestNewMapRegistry_Empty verifies NewMapRegistry initializes a non-nil
// registry with an empty map.
func TestNewMapRegistry_Empty(t *testing.T) {
	t.Parallel()

	r := NewMapRegistry[string, project]()
	require.NotNil(t, r)
	require.NotNil(t, r.items)
	assert.Len(t, r.items, 0)
}

// TestProvide_ChainsAndStores verifies Provide stores parents and returns
// the same registry for chaining.
func TestProvide_ChainsAndStores(t *testing.T) {
	t.Parallel()

	a := &project{key: "a"}
	b := &project{key: "b"}

	r := NewMapRegistry[string, project]()
	ret := r.Provide("a", a).Provide("b", b)
	require.Same(t, r, ret)

	gotA, okA := r.Get("a")
	require.True(t, okA)
	assert.Same(t, a, gotA)

	gotB, okB := r.Get("b")
	require.True(t, okB)
	assert.Same(t, b, gotB)
}

//
// -----------------------------------------------------------------------------
// Get / Has / Release
// -----------------------------------------------------------------------------

// TestGet_Missing verifies Get returns (nil,false) for missing ids.
func TestGet_Missing(t *testing.T) {
	t.Parallel()

	r := NewMapRegistry[string, project]()
	got, ok := r.Get("missing")
	assert.False(t, ok)
	assert.Nil(t, got)
}

// TestRelease_DropsParent verifies Release makes a stored parent
// unavailable to Get/Has/Lookup.
func TestRelease_DropsParent(t *testing.T) {
	t.Parallel()

	p := &project{key: "p"}
	r := NewMapRegistry[string, project]().Provide("p", p)
	require.True(t, r.Has("p"))

	r.Release("p")

	assert.False(t, r.Has("p"))
	_, ok := r.Get("p")
	assert.False(t, ok)
}

//
// -----------------------------------------------------------------------------
// Lookup
// -----------------------------------------------------------------------------

// TestLookup_Present verifies Lookup returns the stored parent and ok=true.
func TestLookup_Present(t *testing.T) {
	t.Parallel()

	p := &project{key: "p"}
	r := NewMapRegistry[string, project]().Provide("p", p)

	got, ok, err := r.Lookup("p")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Same(t, p, got)
}

// TestLookup_Missing verifies Lookup returns (nil,false,nil) for missing
// ids.
func TestLookup_Missing(t *testing.T) {
	t.Parallel()

	r := NewMapRegistry[string, project]()

	got, ok, err := r.Lookup("missing")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)
}

// TestLookup_RecoversFromPanic verifies Lookup converts internal panics
// into errors. A nil receiver panics when accessing r.items.
func TestLookup_RecoversFromPanic(t *testing.T) {
	t.Parallel()

	var r *MapRegistry[string, project]

	got, ok, err := r.Lookup("p")

	require.Error(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)

	assert.True(t, errors.Is(err, ErrRegistryPanic), "expected ErrRegistryPanic wrapping, got: %v", err)
	assert.Contains(t, err.Error(), "panic during registry lookup")
}

//
// -----------------------------------------------------------------------------
// GetterFrom
// -----------------------------------------------------------------------------

// TestGetterFrom_Present verifies the adapted getter returns registered
// parents.
func TestGetterFrom_Present(t *testing.T) {
	t.Parallel()

	p := &project{key: "p"}
	r := NewMapRegistry[string, project]().Provide("p", p)

	getter := GetterFrom[string, project](r)
	got, err := getter("p")
	require.NoError(t, err)
	assert.Same(t, p, got)
}

// TestGetterFrom_Missing verifies absent ids become NotFoundError.
func TestGetterFrom_Missing(t *testing.T) {
	t.Parallel()

	r := NewMapRegistry[string, project]()

	getter := GetterFrom[string, project](r)
	_, err := getter("missing")
	require.Error(t, err)

	var notFound NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "missing", notFound.ID)
}

// TestGetterFrom_ErrorPassthrough verifies registry errors reach the caller
// unchanged.
func TestGetterFrom_ErrorPassthrough(t *testing.T) {
	t.Parallel()

	var r *MapRegistry[string, project] // nil receiver -> ErrRegistryPanic

	getter := GetterFrom[string, project](r)
	_, err := getter("p")
	require.ErrorIs(t, err, ErrRegistryPanic)
}
