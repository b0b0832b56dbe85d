package core

import (
	"bufio"
	"context"
	"errors"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/net/netutil"

	"github.com/searchktools/static-server/core/cache"
	"github.com/searchktools/static-server/core/observability"
	"github.com/searchktools/static-server/core/pools"
)

// ServerConfig carries the serving knobs. Zero values fall back to the
// package defaults.
type ServerConfig struct {
	Addr             string
	KeepAliveTimeout time.Duration
	ConnTimeout      time.Duration
	MaxRequestLine   int
	MaxConns         int
	ReservedPaths    []string
}

// Server accepts connections and runs one state-machine goroutine per
// connection. The cache snapshot is the only cross-connection shared
// resource; it is published before Serve and read-only afterwards.
type Server struct {
	addr             string
	keepAliveTimeout time.Duration
	connTimeout      time.Duration
	maxRequestLine   int
	maxConns         int
	reserved         map[string]struct{}

	templates *Templates
	cache     *cache.Snapshot
	monitor   *observability.Monitor
	log       zerolog.Logger

	bufPool *pools.BytePool

	ln         net.Listener
	inShutdown atomic.Bool
	wg         sync.WaitGroup
}

// NewServer wires a server around an already-published cache snapshot.
func NewServer(cfg ServerConfig, snap *cache.Snapshot, templates *Templates, monitor *observability.Monitor, log zerolog.Logger) *Server {
	if cfg.KeepAliveTimeout <= 0 {
		cfg.KeepAliveTimeout = DefaultKeepAliveTimeout * time.Second
	}
	if cfg.ConnTimeout <= 0 {
		cfg.ConnTimeout = DefaultConnTimeout * time.Second
	}
	if cfg.MaxRequestLine <= 0 {
		cfg.MaxRequestLine = DefaultMaxRequestLine
	}
	if cfg.MaxConns <= 0 {
		cfg.MaxConns = DefaultMaxConns
	}
	if monitor == nil {
		monitor = observability.NewMonitor()
	}

	reserved := make(map[string]struct{}, len(cfg.ReservedPaths))
	for _, p := range cfg.ReservedPaths {
		reserved[p] = struct{}{}
	}

	return &Server{
		addr:             cfg.Addr,
		keepAliveTimeout: cfg.KeepAliveTimeout,
		connTimeout:      cfg.ConnTimeout,
		maxRequestLine:   cfg.MaxRequestLine,
		maxConns:         cfg.MaxConns,
		reserved:         reserved,
		templates:        templates,
		cache:            snap,
		monitor:          monitor,
		log:              log,
		bufPool:          pools.NewBytePool(),
	}
}

// Listen binds the TCP listener with SO_REUSEADDR/SO_REUSEPORT applied and
// the concurrent-connection cap installed.
func (s *Server) Listen() error {
	lc := net.ListenConfig{Control: listenControl}
	ln, err := lc.Listen(context.Background(), "tcp", s.addr)
	if err != nil {
		return err
	}
	s.ln = netutil.LimitListener(tuningListener{ln}, s.maxConns)
	return nil
}

// Addr returns the bound address, nil before Listen.
func (s *Server) Addr() net.Addr {
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// Serve accepts connections until the listener is closed by Shutdown.
func (s *Server) Serve() error {
	s.log.Info().
		Str("addr", s.ln.Addr().String()).
		Int("cache_entries", s.cache.Len()).
		Msg("🚀 static server listening")

	for {
		rw, err := s.ln.Accept()
		if err != nil {
			if s.shuttingDown() || errors.Is(err, net.ErrClosed) {
				return nil
			}
			s.log.Error().Err(err).Msg("accept error")
			continue
		}
		if s.shuttingDown() {
			rw.Close()
			return nil
		}

		s.monitor.ConnOpened()
		s.wg.Add(1)
		c := &conn{
			srv:     s,
			rwc:     rw,
			br:      bufio.NewReaderSize(rw, 4096),
			lineBuf: s.bufPool.Get(s.maxRequestLine),
			hdrBuf:  s.bufPool.Get(512),
		}
		go c.serve()
	}
}

// ListenAndServe binds and serves.
func (s *Server) ListenAndServe() error {
	if err := s.Listen(); err != nil {
		return err
	}
	return s.Serve()
}

// Shutdown stops accepting, lets in-flight requests finish, and waits up to
// drainTimeout for all connection goroutines to exit. It returns an error
// when the timeout elapses with connections still active, in which case the
// caller is expected to force-exit.
func (s *Server) Shutdown(drainTimeout time.Duration) error {
	s.inShutdown.Store(true)
	if s.ln != nil {
		s.ln.Close()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(drainTimeout):
		return errors.New("shutdown: drain timeout elapsed with connections still active")
	}
}

func (s *Server) shuttingDown() bool {
	return s.inShutdown.Load()
}

func (s *Server) connDone(c *conn) {
	c.rwc.Close()
	s.bufPool.Put(c.lineBuf)
	s.bufPool.Put(c.hdrBuf)
	s.monitor.ConnClosed()
	s.wg.Done()
}

// tuningListener applies per-socket TCP tuning on accept. It sits inside
// the limit listener so every accepted socket is tuned.
type tuningListener struct {
	net.Listener
}

func (l tuningListener) Accept() (net.Conn, error) {
	c, err := l.Listener.Accept()
	if err != nil {
		return nil, err
	}
	if tc, ok := c.(*net.TCPConn); ok {
		tc.SetNoDelay(true)
		tc.SetKeepAlive(true)
		tc.SetKeepAlivePeriod(30 * time.Second)
	}
	return c, nil
}
