package library

import "sync"

// ChangeOp names the operation that altered an ordered view.
type ChangeOp string

const (
	OpAdd     ChangeOp = "add"
	OpPrepend ChangeOp = "prepend"
	OpCompact ChangeOp = "compact"
	OpFetch   ChangeOp = "fetch"
)

// Change is a store change notification. The UI subscribes to these
// explicitly instead of relying on ambient reactivity.
type Change struct {
	Kind Kind
	Op   ChangeOp
}

// Store wraps a vault with an ordered view for listing UIs. The view holds
// canonical references only; Add and Prepend perform no de-duplication against
// the view, which is the caller's responsibility.
type Store[K comparable, T, P any] struct {
	kind  Kind
	keyOf func(P) K
	idOf  func(*T) K

	// orphaned decides whether an entity has lost all constituent songs and
	// should be pruned by Compact. Nil for kinds that are never compacted.
	orphaned func(*T) bool

	mu    sync.RWMutex
	vault *Vault[K, T, P]
	view  []*T

	subMu sync.Mutex
	subs  []func(Change)
}

func newStore[K comparable, T, P any](
	kind Kind,
	keyOf func(P) K,
	idOf func(*T) K,
	seed func(P) *T,
	reconcile func(*T, P),
	orphaned func(*T) bool,
) *Store[K, T, P] {
	return &Store[K, T, P]{
		kind:     kind,
		keyOf:    keyOf,
		idOf:     idOf,
		orphaned: orphaned,
		vault:    NewVault[K](seed, reconcile),
	}
}

// Subscribe registers a callback invoked after every view change.
func (s *Store[K, T, P]) Subscribe(fn func(Change)) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	s.subs = append(s.subs, fn)
}

func (s *Store[K, T, P]) notify(op ChangeOp) {
	s.subMu.Lock()
	subs := make([]func(Change), len(s.subs))
	copy(subs, s.subs)
	s.subMu.Unlock()

	for _, fn := range subs {
		fn(Change{Kind: s.kind, Op: op})
	}
}

// ByID returns the canonical instance for id, or nil when not cached.
func (s *Store[K, T, P]) ByID(id K) *T {
	return s.vault.Get(id)
}

// ByIDs returns the canonical instances for the given ids, silently skipping
// ids that are not cached.
func (s *Store[K, T, P]) ByIDs(ids []K) []*T {
	out := make([]*T, 0, len(ids))
	for _, id := range ids {
		if e := s.vault.Get(id); e != nil {
			out = append(out, e)
		}
	}
	return out
}

// All returns a snapshot of the ordered view.
func (s *Store[K, T, P]) All() []*T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*T, len(s.view))
	copy(out, s.view)
	return out
}

// Len returns the length of the ordered view.
func (s *Store[K, T, P]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.view)
}

// Add appends entities to the ordered view.
func (s *Store[K, T, P]) Add(entities ...*T) {
	if len(entities) == 0 {
		return
	}
	s.mu.Lock()
	s.view = append(s.view, entities...)
	s.mu.Unlock()
	s.notify(OpAdd)
}

// Prepend inserts entities at the front of the ordered view.
func (s *Store[K, T, P]) Prepend(entities ...*T) {
	if len(entities) == 0 {
		return
	}
	s.mu.Lock()
	s.view = append(entities, s.view...)
	s.mu.Unlock()
	s.notify(OpPrepend)
}

// SyncWithVault merges each raw payload into the vault and returns the
// canonical references, in payload order. This is the single gateway through
// which server data enters the system.
func (s *Store[K, T, P]) SyncWithVault(payloads []P) []*T {
	out := make([]*T, 0, len(payloads))
	for _, p := range payloads {
		out = append(out, s.vault.Merge(s.keyOf(p), p))
	}
	return out
}

// SyncOne merges a single raw payload and returns the canonical reference.
func (s *Store[K, T, P]) SyncOne(payload P) *T {
	return s.vault.Merge(s.keyOf(payload), payload)
}

// Compact removes, from the view and the vault, every entity whose
// constituent-song set is empty, preserving the relative order of survivors.
// Used after bulk edits that may have emptied an album or artist.
func (s *Store[K, T, P]) Compact() {
	if s.orphaned == nil {
		return
	}

	s.mu.Lock()
	var removed []*T
	survivors := s.view[:0]
	for _, e := range s.view {
		if s.orphaned(e) {
			removed = append(removed, e)
		} else {
			survivors = append(survivors, e)
		}
	}
	s.view = survivors
	s.mu.Unlock()

	if len(removed) == 0 {
		return
	}
	for _, e := range removed {
		s.vault.Delete(s.idOf(e))
	}
	s.notify(OpCompact)
}

// appendFetched appends canonical references produced by a paginated fetch,
// skipping references already present in the view so that refetching a page
// does not duplicate entries.
func (s *Store[K, T, P]) appendFetched(entities []*T) {
	s.mu.Lock()
	seen := make(map[*T]struct{}, len(s.view))
	for _, e := range s.view {
		seen[e] = struct{}{}
	}
	appended := false
	for _, e := range entities {
		if _, ok := seen[e]; ok {
			continue
		}
		seen[e] = struct{}{}
		s.view = append(s.view, e)
		appended = true
	}
	s.mu.Unlock()

	if appended {
		s.notify(OpFetch)
	}
}
