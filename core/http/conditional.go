package http

import (
	"bytes"
	nethttp "net/http"
	"time"
)

// Verdict is the outcome of conditional-request evaluation.
type Verdict int

const (
	// Send means the full (or headers-only) response must be sent.
	Send Verdict = iota
	// NotModified means the precomputed 304 response must be sent.
	NotModified
)

var star = []byte("*")

// Evaluate is a pure function of the client's conditional headers and the
// entry's metadata.
//
// If-None-Match, when present, governs exclusively: If-Modified-Since is
// ignored even if both are set. "*" always matches. Otherwise the header is
// split on commas and each candidate is compared for exact equality after
// stripping the weak marker and surrounding quotes from both sides.
//
// If only If-Modified-Since is present it is parsed as an HTTP-date; the
// entry (already second-truncated) not being newer than the client's
// timestamp yields NotModified. An unparseable date conservatively sends.
func Evaluate(ifModifiedSince, ifNoneMatch []byte, lastModified time.Time, etag string) Verdict {
	if len(ifNoneMatch) > 0 {
		if etagListMatches(ifNoneMatch, etag) {
			return NotModified
		}
		return Send
	}

	if len(ifModifiedSince) > 0 {
		clientTime, err := nethttp.ParseTime(string(ifModifiedSince))
		if err != nil {
			return Send
		}
		if !lastModified.After(clientTime) {
			return NotModified
		}
	}

	return Send
}

func etagListMatches(header []byte, etag string) bool {
	if bytes.Equal(TrimLine(header), star) {
		return true
	}

	want := stripETag([]byte(etag))
	rest := header
	for len(rest) > 0 {
		var candidate []byte
		if i := bytes.IndexByte(rest, ','); i >= 0 {
			candidate, rest = rest[:i], rest[i+1:]
		} else {
			candidate, rest = rest, nil
		}
		if bytes.Equal(stripETag(TrimLine(candidate)), want) {
			return true
		}
	}
	return false
}

// stripETag removes a leading weak marker and surrounding quotes, leaving
// the opaque tag for exact comparison.
func stripETag(tag []byte) []byte {
	if len(tag) >= 2 && (tag[0] == 'W' || tag[0] == 'w') && tag[1] == '/' {
		tag = tag[2:]
	}
	if len(tag) >= 2 && tag[0] == '"' && tag[len(tag)-1] == '"' {
		tag = tag[1 : len(tag)-1]
	}
	return tag
}
