package cache

import (
	"net/http"
	"strconv"
	"time"
)

// Entry holds every wire-ready byte buffer for one file. Entries are built
// once at startup and never mutated; all three buffers are generated from a
// single (content, mtime, content type) tuple so they always agree on
// Content-Length, ETag and Last-Modified.
type Entry struct {
	// Hot path buffers, selected by the dispatcher and written in one call.
	Complete    []byte // full 200 response, headers + body
	HeadersOnly []byte // the same headers with no body, for HEAD
	NotModified []byte // precomputed 304 carrying this entry's ETag

	// Conditional request metadata.
	ETag         string    // weak, W/"<size>-<mtime_seconds>"
	LastModified time.Time // truncated to one-second resolution
}

// NewEntry renders the response buffers for one file.
func NewEntry(content []byte, mtime time.Time, contentType string) *Entry {
	lastModified := mtime.Truncate(time.Second)

	etag := make([]byte, 0, 32)
	etag = append(etag, `W/"`...)
	etag = strconv.AppendInt(etag, int64(len(content)), 10)
	etag = append(etag, '-')
	etag = strconv.AppendInt(etag, lastModified.Unix(), 10)
	etag = append(etag, '"')

	e := &Entry{
		ETag:         string(etag),
		LastModified: lastModified,
	}

	headers := make([]byte, 0, 256)
	headers = append(headers, "HTTP/1.1 200 OK\r\nContent-Type: "...)
	headers = append(headers, contentType...)
	headers = append(headers, "\r\nContent-Length: "...)
	headers = strconv.AppendInt(headers, int64(len(content)), 10)
	headers = append(headers, "\r\nLast-Modified: "...)
	headers = append(headers, lastModified.UTC().Format(http.TimeFormat)...)
	headers = append(headers, "\r\nETag: "...)
	headers = append(headers, e.ETag...)
	headers = append(headers, "\r\nCache-Control: public, max-age=3600\r\nX-Content-Type-Options: nosniff\r\nConnection: keep-alive\r\n\r\n"...)

	complete := make([]byte, 0, len(headers)+len(content))
	complete = append(complete, headers...)
	complete = append(complete, content...)

	notModified := make([]byte, 0, 128)
	notModified = append(notModified, "HTTP/1.1 304 Not Modified\r\nETag: "...)
	notModified = append(notModified, e.ETag...)
	notModified = append(notModified, "\r\nCache-Control: public, max-age=3600\r\nConnection: keep-alive\r\n\r\n"...)

	e.Complete = complete
	e.HeadersOnly = headers
	e.NotModified = notModified
	return e
}
