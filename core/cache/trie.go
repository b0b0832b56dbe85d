package cache

import "strings"

// FNV-1a parameters for 32-bit path hashing.
const (
	fnvOffsetBasis uint32 = 2166136261
	fnvPrime       uint32 = 16777619
)

type bucket struct {
	path  string // normalized path, verified on every hash hit
	entry *Entry
}

// PathTrie maps normalized request paths to cache entries through two
// hash tables: exact matches for every discovered file, and an index-alias
// table so directory-style requests resolve to their index.html without a
// second normalization pass or string concatenation.
//
// Insertion is single-threaded and happens only during the build phase,
// strictly before the trie is published to any reader.
type PathTrie struct {
	exact map[uint32]bucket
	index map[uint32]bucket

	bytes int64 // total body bytes, for observability
}

// NewPathTrie creates an empty trie.
func NewPathTrie() *PathTrie {
	return &PathTrie{
		exact: make(map[uint32]bucket),
		index: make(map[uint32]bucket),
	}
}

// normalizePath strips the query string and at most one trailing slash in a
// single pass, folding the remaining bytes through FNV-1a. It reports whether
// the path was directory-style (had a trailing slash).
func normalizePath(path string) (hash uint32, normalized string, dirStyle bool) {
	end := len(path)
	for i := 0; i < len(path); i++ {
		if path[i] == '?' {
			end = i
			break
		}
	}

	if end > 1 && path[end-1] == '/' {
		dirStyle = true
		end--
	}

	hash = fnvOffsetBasis
	for i := 0; i < end; i++ {
		hash ^= uint32(path[i])
		hash *= fnvPrime
	}

	return hash, path[:end], dirStyle
}

// Insert registers an entry under its canonical URL path. Files named
// index.html are additionally registered under their parent directory path
// so directory-style requests resolve in one lookup. On a hash collision
// with a previously inserted path the first entry wins and the prior path
// is returned so the builder can log it.
func (t *PathTrie) Insert(urlPath string, e *Entry) (collision string) {
	hash, normalized, _ := normalizePath(urlPath)

	if prev, ok := t.exact[hash]; ok && prev.path != normalized {
		return prev.path
	}
	t.exact[hash] = bucket{path: normalized, entry: e}
	t.bytes += int64(len(e.Complete) - len(e.HeadersOnly))

	if strings.HasSuffix(urlPath, "/index.html") {
		// Keep the trailing slash so "/" normalizes to itself and
		// "/docs/" normalizes to "/docs", matching lookup behavior.
		dir := urlPath[:len(urlPath)-len("index.html")]
		dirHash, dirNorm, _ := normalizePath(dir)
		if prev, ok := t.index[dirHash]; ok && prev.path != dirNorm {
			return prev.path
		}
		t.index[dirHash] = bucket{path: dirNorm, entry: e}
	}

	return ""
}

// Get resolves a raw request path to an entry, or nil on a miss. The stored
// path is compared on every hash hit so an FNV collision degrades to a miss
// instead of serving the wrong file.
func (t *PathTrie) Get(path string) *Entry {
	hash, normalized, dirStyle := normalizePath(path)

	if b, ok := t.exact[hash]; ok && b.path == normalized {
		return b.entry
	}

	if dirStyle || normalized == "/" {
		if b, ok := t.index[hash]; ok && b.path == normalized {
			return b.entry
		}
	}

	return nil
}

// Len returns the number of exact entries.
func (t *PathTrie) Len() int {
	return len(t.exact)
}

// Bytes returns the total cached body bytes.
func (t *PathTrie) Bytes() int64 {
	return t.bytes
}
