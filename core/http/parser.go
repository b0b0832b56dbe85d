package http

import "unsafe"

// unsafeString converts a byte slice to a string without allocation.
// WARNING: the returned string shares memory with the byte slice.
func unsafeString(b []byte) string {
	return *(*string)(unsafe.Pointer(&b))
}

// String exposes unsafeString to the connection handler, which owns the
// backing buffer for exactly one dispatch.
func String(b []byte) string {
	return unsafeString(b)
}

// ParseRequestLine splits a request line on single spaces, discarding empty
// tokens. A valid line has exactly three tokens: method, path, version.
// The returned slices alias the input buffer.
func ParseRequestLine(line []byte) (method, path, version []byte, ok bool) {
	var tokens [3][]byte
	n := 0
	start := -1

	for i := 0; i <= len(line); i++ {
		if i < len(line) && line[i] != ' ' {
			if start == -1 {
				start = i
			}
			continue
		}
		if start == -1 {
			continue
		}
		if n == 3 {
			return nil, nil, nil, false
		}
		tokens[n] = line[start:i]
		n++
		start = -1
	}

	if n != 3 {
		return nil, nil, nil, false
	}
	return tokens[0], tokens[1], tokens[2], true
}

// TrimLine strips leading and trailing whitespace plus the CRLF terminator.
func TrimLine(line []byte) []byte {
	end := len(line)
	for end > 0 {
		switch line[end-1] {
		case '\r', '\n', ' ', '\t':
			end--
		default:
			return trimLeft(line[:end])
		}
	}
	return line[:0]
}

func trimLeft(line []byte) []byte {
	start := 0
	for start < len(line) && (line[start] == ' ' || line[start] == '\t') {
		start++
	}
	return line[start:]
}

// HasPrefixFold reports whether line starts with prefix under ASCII
// case-insensitive comparison. Used to match header names without building
// intermediate strings.
func HasPrefixFold(line, prefix []byte) bool {
	if len(line) < len(prefix) {
		return false
	}
	for i := 0; i < len(prefix); i++ {
		if lowerASCII(line[i]) != lowerASCII(prefix[i]) {
			return false
		}
	}
	return true
}

// ContainsFold reports whether line contains sub, ASCII case-insensitive.
func ContainsFold(line, sub []byte) bool {
	if len(sub) == 0 {
		return true
	}
	if len(line) < len(sub) {
		return false
	}
	first := lowerASCII(sub[0])
	for i := 0; i <= len(line)-len(sub); i++ {
		if lowerASCII(line[i]) != first {
			continue
		}
		j := 1
		for ; j < len(sub); j++ {
			if lowerASCII(line[i+j]) != lowerASCII(sub[j]) {
				break
			}
		}
		if j == len(sub) {
			return true
		}
	}
	return false
}

// HeaderValue returns the value portion of a header line whose name (with
// trailing colon) already matched via HasPrefixFold, with surrounding
// whitespace removed. The slice aliases the input.
func HeaderValue(line, name []byte) []byte {
	if len(line) <= len(name) {
		return nil
	}
	return TrimLine(line[len(name):])
}

func lowerASCII(b byte) byte {
	if 'A' <= b && b <= 'Z' {
		return b + ('a' - 'A')
	}
	return b
}
