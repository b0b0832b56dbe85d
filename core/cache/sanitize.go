package cache

import "strings"

// CleanPath resolves "." and ".." segments with a bounded stack and maps any
// path that resolves to a reserved name to "/". Traversal can never climb
// above the content root: ".." at the root is dropped, not propagated.
//
// The common case - an absolute path with no dot segments and no reserved
// name - returns the input string unchanged, with no allocation.
func CleanPath(path string, reserved map[string]struct{}) string {
	if path == "" {
		return "/"
	}
	if path[0] == '/' && !strings.Contains(path, "/.") {
		if hasReservedSegment(path, reserved) {
			return "/"
		}
		return path
	}

	end := len(path)
	if q := strings.IndexByte(path, '?'); q != -1 {
		end = q
	}
	dirStyle := end > 1 && path[end-1] == '/'

	segs := make([]string, 0, 8)
	start := 0
	for i := 0; i <= end; i++ {
		if i < end && path[i] != '/' {
			continue
		}
		seg := path[start:i]
		start = i + 1
		switch seg {
		case "", ".":
		case "..":
			if len(segs) > 0 {
				segs = segs[:len(segs)-1]
			}
		default:
			segs = append(segs, seg)
		}
	}

	if len(segs) == 0 {
		return "/"
	}
	for _, seg := range segs {
		if _, ok := reserved[seg]; ok {
			return "/"
		}
	}

	cleaned := "/" + strings.Join(segs, "/")
	if dirStyle {
		cleaned += "/"
	}
	return cleaned
}

func hasReservedSegment(path string, reserved map[string]struct{}) bool {
	if len(reserved) == 0 {
		return false
	}
	start := 0
	for i := 0; i <= len(path); i++ {
		if i < len(path) && path[i] != '/' && path[i] != '?' {
			continue
		}
		if i > start {
			if _, ok := reserved[path[start:i]]; ok {
				return true
			}
		}
		if i < len(path) && path[i] == '?' {
			return false
		}
		start = i + 1
	}
	return false
}
