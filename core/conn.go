package core

import (
	"bufio"
	"bytes"
	"errors"
	"net"
	"time"

	"github.com/searchktools/static-server/core/cache"
	"github.com/searchktools/static-server/core/http"
)

var (
	bGET    = []byte("GET")
	bHEAD   = []byte("HEAD")
	bHTTP11 = []byte("HTTP/1.1")

	bConnection      = []byte("connection:")
	bIfModifiedSince = []byte("if-modified-since:")
	bIfNoneMatch     = []byte("if-none-match:")
	bClose           = []byte("close")
	bKeepAlive       = []byte("keep-alive")
)

// conn runs the per-connection state machine:
// read request line -> read headers -> dispatch -> keep-alive or close.
// All of its buffers are connection-local and reused across keep-alive
// iterations; the only shared state it touches is the read-only cache
// snapshot.
type conn struct {
	srv *Server
	rwc net.Conn
	br  *bufio.Reader

	lineBuf []byte // request line, pooled
	hdrBuf  []byte // header lines, pooled
	ims     []byte // If-Modified-Since value, copied out of hdrBuf
	inm     []byte // If-None-Match value, copied out of hdrBuf
}

func (c *conn) serve() {
	defer c.srv.connDone(c)

	// Whole-connection timeout: on expiry write a best-effort 408 and
	// close. Write errors are ignored, the peer is presumed gone.
	timer := time.AfterFunc(c.srv.connTimeout, func() {
		n, _ := c.rwc.Write(c.srv.templates.RequestTimeout)
		c.srv.monitor.Request(408, n)
		c.rwc.Close()
	})
	defer timer.Stop()

	for {
		if c.srv.shuttingDown() {
			return
		}

		c.rwc.SetReadDeadline(time.Now().Add(c.srv.keepAliveTimeout))

		raw, err := c.readLineInto(&c.lineBuf)
		if err != nil {
			if errors.Is(err, ErrLineTooLong) {
				c.write(413, c.srv.templates.RequestTooLarge)
			}
			return
		}

		line := http.TrimLine(raw)
		if len(line) == 0 {
			// Keep-alive probe, wait for the next request.
			continue
		}

		method, path, version, ok := http.ParseRequestLine(line)
		if !ok {
			c.write(400, c.srv.templates.BadRequest)
			return
		}

		isHead := bytes.Equal(method, bHEAD)
		if !isHead && !bytes.Equal(method, bGET) {
			c.write(405, c.srv.templates.MethodNotAllowed)
			return
		}

		keepAlive, err := c.readHeaders(bytes.Equal(version, bHTTP11))
		if err != nil {
			return
		}

		if err := c.dispatch(http.String(path), isHead); err != nil {
			return
		}

		if !keepAlive || c.srv.shuttingDown() {
			return
		}
	}
}

// readHeaders consumes header lines up to the empty terminator, capturing
// the three recognized headers. Connection keep-alive semantics: HTTP/1.1
// defaults to keep-alive unless "close" is present; HTTP/1.0 defaults to
// close unless "keep-alive" is present.
func (c *conn) readHeaders(http11 bool) (keepAlive bool, err error) {
	keepAlive = http11
	c.ims = c.ims[:0]
	c.inm = c.inm[:0]

	for {
		raw, err := c.readLineInto(&c.hdrBuf)
		if err != nil {
			return false, err
		}

		line := http.TrimLine(raw)
		if len(line) == 0 {
			return keepAlive, nil
		}

		switch {
		case http.HasPrefixFold(line, bConnection):
			closeRequested := http.ContainsFold(line, bClose)
			keepAlive = !closeRequested && (http11 || http.ContainsFold(line, bKeepAlive))
		case http.HasPrefixFold(line, bIfModifiedSince):
			// Copied: the header buffer is reused by the next line read.
			c.ims = append(c.ims[:0], http.HeaderValue(line, bIfModifiedSince)...)
		case http.HasPrefixFold(line, bIfNoneMatch):
			c.inm = append(c.inm[:0], http.HeaderValue(line, bIfNoneMatch)...)
		}
	}
}

// dispatch resolves the request to exactly one precomputed buffer and
// writes it in a single call.
func (c *conn) dispatch(rawPath string, isHead bool) error {
	path := cache.CleanPath(rawPath, c.srv.reserved)
	t := c.srv.templates

	switch path {
	case "/health":
		if isHead {
			return c.write(200, t.HealthHeadersOnly)
		}
		return c.write(200, t.HealthComplete)
	case "/ready":
		if isHead {
			return c.write(200, t.ReadyHeadersOnly)
		}
		return c.write(200, t.ReadyComplete)
	}

	entry := c.srv.cache.Lookup(path)
	if entry == nil {
		return c.write(404, t.NotFound)
	}

	if http.Evaluate(c.ims, c.inm, entry.LastModified, entry.ETag) == http.NotModified {
		return c.write(304, entry.NotModified)
	}
	if isHead {
		return c.write(200, entry.HeadersOnly)
	}
	return c.write(200, entry.Complete)
}

// readLineInto reads one \n-terminated line into buf, growing it as needed
// and enforcing the request-line cap (terminator included).
func (c *conn) readLineInto(buf *[]byte) ([]byte, error) {
	b := (*buf)[:0]
	for {
		frag, err := c.br.ReadSlice('\n')
		b = append(b, frag...)
		if len(b) > c.srv.maxRequestLine {
			*buf = b
			return nil, ErrLineTooLong
		}
		if err == nil {
			break
		}
		if err != bufio.ErrBufferFull {
			*buf = b
			return nil, err
		}
	}
	*buf = b
	return b, nil
}

func (c *conn) write(code int, response []byte) error {
	n, err := c.rwc.Write(response)
	c.srv.monitor.Request(code, n)
	return err
}
