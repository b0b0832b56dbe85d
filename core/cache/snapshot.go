package cache

import "sync/atomic"

// Snapshot exposes one generation of the PathTrie behind an atomically
// published pointer. Readers load the pointer on every lookup and never
// lock; this is safe because the trie is immutable after Publish and no
// generation is ever retired while the process lives.
//
// This is deliberately a write-once snapshot, not a general RCU scheme:
// Publish may be called exactly once. If dynamic reload is ever added the
// publication side needs generation counting and safe retirement.
type Snapshot struct {
	current   atomic.Pointer[PathTrie]
	published atomic.Bool
}

// NewSnapshot creates an unpublished snapshot. Lookups return misses until
// Publish is called.
func NewSnapshot() *Snapshot {
	return &Snapshot{}
}

// Publish release-stores the fully built trie. It must be called exactly
// once, after the build phase and before the listener accepts connections.
func (s *Snapshot) Publish(t *PathTrie) {
	if !s.published.CompareAndSwap(false, true) {
		panic("cache: snapshot published twice")
	}
	s.current.Store(t)
}

// Lookup acquire-loads the current trie and resolves path against it.
// Safe for unbounded concurrent callers.
func (s *Snapshot) Lookup(path string) *Entry {
	t := s.current.Load()
	if t == nil {
		return nil
	}
	return t.Get(path)
}

// Len returns the number of cached entries, zero before publication.
func (s *Snapshot) Len() int {
	t := s.current.Load()
	if t == nil {
		return 0
	}
	return t.Len()
}
