package dref

import (
	"errors"

	lru "github.com/hashicorp/golang-lru/v2"
)

// ErrNilGetter is returned when CachedGetter is given a nil getter.
var ErrNilGetter = errors.New("dref: nil getter")

// CachedGetter wraps a getter with an LRU of the given size so repeated
// resolutions of the same identifier hit memory instead of the backing
// source.
//
// Only successful resolutions are cached; a failing getter is consulted
// again on the next call. Note that a cached parent bypasses the backing
// source entirely — pick the cache size with the weak-resurrection pattern
// in mind, since a resurrected parent served from cache may outlive its
// registration on the owning side.
func CachedGetter[P any, ID comparable](size int, getter Getter[P, ID]) (Getter[P, ID], error) {
	if getter == nil {
		return nil, ErrNilGetter
	}

	cache, err := lru.New[ID, *P](size)
	if err != nil {
		return nil, err
	}

	return func(id ID) (*P, error) {
		if parent, ok := cache.Get(id); ok {
			return parent, nil
		}
		parent, err := getter(id)
		if err != nil {
			return nil, err
		}
		cache.Add(id, parent)
		return parent, nil
	}, nil
}
