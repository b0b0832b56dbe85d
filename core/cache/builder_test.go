package cache

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// writeContentTree creates the scenario tree from the serving contract:
// index.html (37 bytes) and css/style.css (22 bytes).
func writeContentTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	index := []byte("<html><body>Hello world</body></html>") // 37 bytes
	if err := os.WriteFile(filepath.Join(root, "index.html"), index, 0o644); err != nil {
		t.Fatal(err)
	}

	if err := os.Mkdir(filepath.Join(root, "css"), 0o755); err != nil {
		t.Fatal(err)
	}
	css := []byte("body { color: black; }") // 22 bytes
	if err := os.WriteFile(filepath.Join(root, "css", "style.css"), css, 0o644); err != nil {
		t.Fatal(err)
	}

	return root
}

func TestBuildDiscoversTree(t *testing.T) {
	root := writeContentTree(t)
	trie, stats := Build(root, zerolog.Nop())

	if stats.Entries != 2 {
		t.Fatalf("Entries = %d, want 2", stats.Entries)
	}
	if stats.Bytes != 37+22 {
		t.Errorf("Bytes = %d, want 59", stats.Bytes)
	}

	index := trie.Get("/index.html")
	if index == nil {
		t.Fatal("/index.html not cached")
	}
	if trie.Get("/") != index {
		t.Error("/ should alias /index.html")
	}
	if trie.Get("/css/style.css") == nil {
		t.Error("/css/style.css not cached")
	}
	if trie.Get("/missing.js") != nil {
		t.Error("unknown path should miss")
	}
}

func TestBuildEntryBuffers(t *testing.T) {
	root := writeContentTree(t)
	trie, _ := Build(root, zerolog.Nop())

	entry := trie.Get("/css/style.css")
	if entry == nil {
		t.Fatal("/css/style.css not cached")
	}

	info, err := os.Stat(filepath.Join(root, "css", "style.css"))
	if err != nil {
		t.Fatal(err)
	}
	wantETag := fmt.Sprintf(`W/"22-%d"`, info.ModTime().Truncate(time.Second).Unix())
	if entry.ETag != wantETag {
		t.Errorf("ETag = %q, want %q", entry.ETag, wantETag)
	}

	// Complete = HeadersOnly + body, byte for byte.
	if !bytes.HasPrefix(entry.Complete, entry.HeadersOnly) {
		t.Fatal("complete response must start with the headers-only buffer")
	}
	body := entry.Complete[len(entry.HeadersOnly):]
	if string(body) != "body { color: black; }" {
		t.Errorf("body = %q, want on-disk content", body)
	}

	headers := string(entry.HeadersOnly)
	for _, want := range []string{
		"HTTP/1.1 200 OK\r\n",
		"Content-Type: text/css; charset=utf-8\r\n",
		"Content-Length: 22\r\n",
		"ETag: " + wantETag + "\r\n",
		"Cache-Control: public, max-age=3600\r\n",
		"X-Content-Type-Options: nosniff\r\n",
		"Connection: keep-alive\r\n",
	} {
		if !bytes.Contains(entry.HeadersOnly, []byte(want)) {
			t.Errorf("headers missing %q in:\n%s", want, headers)
		}
	}

	notModified := string(entry.NotModified)
	if !bytes.HasPrefix(entry.NotModified, []byte("HTTP/1.1 304 Not Modified\r\n")) {
		t.Errorf("304 buffer = %q", notModified)
	}
	if !bytes.Contains(entry.NotModified, []byte("ETag: "+wantETag+"\r\n")) {
		t.Errorf("304 buffer missing entry ETag: %q", notModified)
	}
	if bytes.Contains(entry.NotModified, []byte("Content-Type")) {
		t.Error("304 buffer must not carry Content-Type")
	}
	if !bytes.HasSuffix(entry.NotModified, []byte("\r\n\r\n")) {
		t.Error("304 buffer must have no body")
	}
}

func TestBuildMissingRootIsEmptyCache(t *testing.T) {
	trie, stats := Build(filepath.Join(t.TempDir(), "does-not-exist"), zerolog.Nop())

	if stats.Entries != 0 {
		t.Fatalf("Entries = %d, want 0", stats.Entries)
	}
	if trie.Get("/index.html") != nil {
		t.Fatal("empty cache must miss")
	}
}

func TestBuildSkipsNonRegularFiles(t *testing.T) {
	root := writeContentTree(t)
	if err := os.Symlink("/nonexistent-target", filepath.Join(root, "dangling")); err != nil {
		t.Skipf("symlink not supported: %v", err)
	}

	_, stats := Build(root, zerolog.Nop())
	if stats.Entries != 2 {
		t.Errorf("Entries = %d, want 2 (symlink skipped)", stats.Entries)
	}
}
