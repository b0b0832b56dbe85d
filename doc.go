/*
Package staticserver is a single-process HTTP/1.1 static-file server built
for minimal per-request latency: every response a client can receive is
precomputed at startup, and serving a request is one cache lookup plus one
write syscall.

Design

At startup the cache builder walks the content root once and renders, per
file, three wire-ready buffers: the complete 200 response (headers + body),
the same headers with no body for HEAD, and a 304 carrying the file's weak
ETag. Entries are keyed by a 32-bit FNV-1a hash of the normalized request
path in a two-level trie (exact paths plus an index.html alias per
directory), published behind a single atomic pointer before the listener
accepts its first connection, and never mutated afterwards. Readers load
the pointer and look up with no locks.

Each accepted connection runs its own goroutine through a byte-level state
machine: read request line, read headers, dispatch a precomputed buffer,
then loop on keep-alive or close. Conditional requests (If-None-Match,
If-Modified-Since) are evaluated against the entry's precomputed ETag and
second-truncated modification time.

Quick Start

	package main

	import (
	    "github.com/searchktools/static-server/app"
	    "github.com/searchktools/static-server/config"
	)

	func main() {
	    cfg := config.New()
	    application, err := app.New(cfg)
	    if err != nil {
	        panic(err)
	    }
	    application.Run()
	}

Modules

  - app: application lifecycle (build, publish, serve, drain)
  - config: flag + environment configuration
  - core: listener, connection state machine, response templates
  - core/cache: cache builder, path trie, atomic snapshot, path sanitizer
  - core/http: request-line/header parsing and conditional evaluation
  - core/mimetype: extension to content-type table
  - core/pools: tiered line-buffer pooling
  - core/observability: prometheus metrics on an admin listener

The cache is built once and never invalidated; changing content requires a
restart. HTTP/2, request bodies, range requests and content negotiation are
out of scope.
*/
package staticserver
