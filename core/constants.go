package core

import "errors"

// Serving limits and defaults.
const (
	// DefaultMaxRequestLine caps the request line, CRLF included.
	DefaultMaxRequestLine = 8192

	// DefaultKeepAliveTimeout bounds the wait for the next request line on
	// an idle keep-alive connection.
	DefaultKeepAliveTimeout = 5 // seconds

	// DefaultConnTimeout bounds a whole connection lifetime; on expiry a
	// best-effort 408 is written and the connection closed.
	DefaultConnTimeout = 30 // seconds

	// DefaultMaxConns caps concurrently accepted connections.
	DefaultMaxConns = 100000
)

// Error definitions
var (
	ErrLineTooLong    = errors.New("request line too long")
	ErrInvalidRequest = errors.New("invalid HTTP request")
)
