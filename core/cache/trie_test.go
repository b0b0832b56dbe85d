package cache

import (
	"testing"
	"time"
)

func testEntry(body string) *Entry {
	return NewEntry([]byte(body), time.Unix(1700000000, 0), "text/html; charset=utf-8")
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		path       string
		normalized string
		dirStyle   bool
	}{
		{"/", "/", false},
		{"/index.html", "/index.html", false},
		{"/docs/", "/docs", true},
		{"/docs/?v=2", "/docs", true},
		{"/style.css?version=1652", "/style.css", false},
		{"/?q=1", "/", false},
		{"/a/b/c", "/a/b/c", false},
	}

	for _, tt := range tests {
		hash, normalized, dirStyle := normalizePath(tt.path)
		if normalized != tt.normalized || dirStyle != tt.dirStyle {
			t.Errorf("normalizePath(%q) = (%q, %v), want (%q, %v)",
				tt.path, normalized, dirStyle, tt.normalized, tt.dirStyle)
		}
		// Query and trailing slash never affect the hash.
		wantHash, _, _ := normalizePath(tt.normalized)
		if hash != wantHash {
			t.Errorf("normalizePath(%q) hash = %#x, want %#x", tt.path, hash, wantHash)
		}
	}
}

func TestFNV1aKnownValue(t *testing.T) {
	// FNV-1a of the empty input is the offset basis; a single 'a' is the
	// standard published test vector.
	if hash, _, _ := normalizePath(""); hash != 2166136261 {
		t.Errorf("hash(\"\") = %d, want offset basis 2166136261", hash)
	}
	if hash, _, _ := normalizePath("a"); hash != 0xe40c292c {
		t.Errorf("hash(\"a\") = %#x, want 0xe40c292c", hash)
	}
}

func TestTrieExactLookup(t *testing.T) {
	trie := NewPathTrie()
	entry := testEntry("hello")
	trie.Insert("/hello.html", entry)

	if got := trie.Get("/hello.html"); got != entry {
		t.Fatal("exact lookup failed")
	}
	if got := trie.Get("/hello.html?utm=x"); got != entry {
		t.Fatal("query string should not affect lookup")
	}
	if got := trie.Get("/missing.html"); got != nil {
		t.Fatal("expected miss for unknown path")
	}
	// Normalization strips one trailing slash before lookup.
	if got := trie.Get("/hello.html/"); got != entry {
		t.Fatal("trailing slash should be stripped before lookup")
	}
}

func TestTrieIndexAlias(t *testing.T) {
	trie := NewPathTrie()
	rootIndex := testEntry("root")
	docsIndex := testEntry("docs")
	trie.Insert("/index.html", rootIndex)
	trie.Insert("/docs/index.html", docsIndex)

	if got := trie.Get("/"); got != rootIndex {
		t.Fatal("/ should resolve to /index.html")
	}
	if got := trie.Get("/index.html"); got != rootIndex {
		t.Fatal("/index.html should resolve directly")
	}
	if got := trie.Get("/?q=1"); got != rootIndex {
		t.Fatal("/ with query should resolve to /index.html")
	}
	if got := trie.Get("/docs/"); got != docsIndex {
		t.Fatal("/docs/ should resolve to /docs/index.html")
	}
	// Without the trailing slash there is no directory-style fallback.
	if got := trie.Get("/docs"); got != nil {
		t.Fatal("/docs without slash should miss")
	}
}

func TestTrieCollisionVerification(t *testing.T) {
	// These two paths genuinely collide under 32-bit FNV-1a (0x7fe3d01d).
	const pathA = "/pzlvubfcp.html"
	const pathB = "/oqswxsxhc.html"

	hashA, _, _ := normalizePath(pathA)
	hashB, _, _ := normalizePath(pathB)
	if hashA != hashB {
		t.Fatalf("test fixture broken: %q and %q no longer collide", pathA, pathB)
	}

	trie := NewPathTrie()
	entryA := testEntry("a")
	if prior := trie.Insert(pathA, entryA); prior != "" {
		t.Fatalf("unexpected collision on first insert: %q", prior)
	}
	if prior := trie.Insert(pathB, testEntry("b")); prior != pathA {
		t.Fatalf("Insert(%q) collision = %q, want %q", pathB, prior, pathA)
	}

	// First insert wins; the colliding path verifies the stored path and
	// misses instead of serving the wrong file.
	if got := trie.Get(pathA); got != entryA {
		t.Fatal("first-inserted entry should survive the collision")
	}
	if got := trie.Get(pathB); got != nil {
		t.Fatal("colliding path must miss, not serve another file's entry")
	}
}

func TestTrieLenAndBytes(t *testing.T) {
	trie := NewPathTrie()
	trie.Insert("/a.txt", testEntry("12345"))
	trie.Insert("/b.txt", testEntry("1234567890"))

	if trie.Len() != 2 {
		t.Errorf("Len() = %d, want 2", trie.Len())
	}
	if trie.Bytes() != 15 {
		t.Errorf("Bytes() = %d, want 15", trie.Bytes())
	}
}

func BenchmarkTrieGet(b *testing.B) {
	trie := NewPathTrie()
	trie.Insert("/assets/css/style.css", testEntry("body{}"))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		trie.Get("/assets/css/style.css")
	}
}

func BenchmarkTrieGetDirectoryStyle(b *testing.B) {
	trie := NewPathTrie()
	trie.Insert("/docs/index.html", testEntry("<html></html>"))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		trie.Get("/docs/")
	}
}
