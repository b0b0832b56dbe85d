package cache

import (
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/searchktools/static-server/core/mimetype"
)

// BuildStats summarizes one cache build.
type BuildStats struct {
	Entries int
	Bytes   int64
	Elapsed time.Duration
}

// Build walks the content root once and precomputes a wire-ready entry per
// regular file. Errors on individual files or directories are warnings: the
// entry is skipped and the walk continues. An unreadable root yields an
// empty trie, so every request 404s rather than the process failing.
//
// This is the only phase that mutates the trie; callers must publish the
// result before any reader exists.
func Build(root string, log zerolog.Logger) (*PathTrie, BuildStats) {
	start := time.Now()
	trie := NewPathTrie()

	walkDir(root, "", trie, log)

	stats := BuildStats{
		Entries: trie.Len(),
		Bytes:   trie.Bytes(),
		Elapsed: time.Since(start),
	}
	return trie, stats
}

func walkDir(root, rel string, trie *PathTrie, log zerolog.Logger) {
	dir := root
	if rel != "" {
		dir = root + "/" + rel
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Warn().Err(err).Str("dir", dir).Msg("skipping unreadable directory")
		return
	}

	for _, ent := range entries {
		name := ent.Name()
		childRel := name
		if rel != "" {
			childRel = rel + "/" + name
		}

		if ent.IsDir() {
			walkDir(root, childRel, trie, log)
			continue
		}
		if !ent.Type().IsRegular() {
			continue
		}

		full := filepath.Join(dir, name)
		info, err := ent.Info()
		if err != nil {
			log.Warn().Err(err).Str("file", full).Msg("skipping unreadable file")
			continue
		}
		content, err := os.ReadFile(full)
		if err != nil {
			log.Warn().Err(err).Str("file", full).Msg("skipping unreadable file")
			continue
		}

		entry := NewEntry(content, info.ModTime(), mimetype.TypeByName(name))
		urlPath := "/" + childRel
		if prior := trie.Insert(urlPath, entry); prior != "" {
			log.Warn().
				Str("path", urlPath).
				Str("collides_with", prior).
				Msg("path hash collision, entry not cached")
		}
	}
}
