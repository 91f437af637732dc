package library

import "sync"

// Vault is the identity-keyed canonical cache for one entity kind. It holds
// exactly one instance per id; every holder elsewhere in the system keeps an
// alias to that instance, never a copy, so a single mutation is visible at
// every call site at once.
//
// K is the identity type, T the canonical entity, P the wire payload merged
// into it. The seed function builds a fresh canonical instance from the first
// observed payload; the reconcile function folds later payloads into the
// existing instance in place.
type Vault[K comparable, T, P any] struct {
	mu        sync.RWMutex
	entries   map[K]*T
	seed      func(P) *T
	reconcile func(*T, P)
}

// NewVault creates an empty vault with the given seed and reconcile functions.
func NewVault[K comparable, T, P any](seed func(P) *T, reconcile func(*T, P)) *Vault[K, T, P] {
	return &Vault[K, T, P]{
		entries:   make(map[K]*T),
		seed:      seed,
		reconcile: reconcile,
	}
}

// Get returns the canonical instance for id, or nil when absent. Absence is an
// expected state in a partially loaded cache, not an error.
func (v *Vault[K, T, P]) Get(id K) *T {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.entries[id]
}

// Merge reconciles an incoming payload against the vaulted instance and
// returns the canonical result. The first observation of an id creates the
// instance; subsequent observations update it in place so existing references
// stay valid. Merging the same payload twice yields the same observable
// entity as merging it once.
func (v *Vault[K, T, P]) Merge(id K, incoming P) *T {
	v.mu.Lock()
	defer v.mu.Unlock()

	existing, ok := v.entries[id]
	if !ok {
		existing = v.seed(incoming)
		v.entries[id] = existing
		return existing
	}

	v.reconcile(existing, incoming)
	return existing
}

// Delete removes the canonical instance for id, if any. Holders of the old
// reference keep a detached instance.
func (v *Vault[K, T, P]) Delete(id K) {
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.entries, id)
}

// Len returns the number of vaulted entities.
func (v *Vault[K, T, P]) Len() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.entries)
}
