// Package shockwave provides the TCP accept loop and connection
// handling Bolt's App runs its handler over, built directly on this
// module's own http1 wire-format parser/serializer instead of an
// external sibling server package.
package shockwave

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"net"
	"sync"
	"time"

	"github.com/boltframework/bolt/http1"
	"golang.org/x/sync/errgroup"
)

// Handler processes one parsed request/response pair. Bolt's App wires
// its own routing dispatch in here (see core.App.handleShockwaveRequest).
type Handler func(w *ResponseWriter, r *Request)

// Config holds server configuration.
type Config struct {
	Addr string

	Handler Handler

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	MaxHeaderBytes     int
	MaxRequestBodySize int

	DisableStats bool
}

// DefaultConfig returns default server configuration.
func DefaultConfig() *Config {
	return &Config{
		Addr:               ":8080",
		ReadTimeout:        5 * time.Second,
		WriteTimeout:       10 * time.Second,
		IdleTimeout:        120 * time.Second,
		MaxHeaderBytes:     1 << 20,
		MaxRequestBodySize: 10 << 20,
		DisableStats:       true,
	}
}

// Server accepts connections on Config.Addr and drives each one through
// an http1.Parser, invoking Config.Handler once per request and
// re-using the connection for as many pipelined/keep-alive requests as
// the client sends, until EOF, a read or parse error, or a
// Connection: close. Shutdown does not end a connection already being
// served.
type Server struct {
	config   *Config
	listener net.Listener

	mu       sync.Mutex
	closing  bool
	group    *errgroup.Group
	groupCtx context.Context
}

// NewServer constructs a Server. config may be nil to use DefaultConfig.
func NewServer(config *Config) *Server {
	if config == nil {
		config = DefaultConfig()
	}
	return &Server{config: config}
}

// ListenAndServe opens Config.Addr and serves connections until
// Shutdown is called or an unrecoverable accept error occurs.
func (s *Server) ListenAndServe() error {
	ln, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// ListenAndServeTLS is not implemented by this build; TLS termination
// is expected to sit in front of Bolt (a reverse proxy, a sidecar) the
// same way the teacher's deployment docs recommend for Shockwave.
func (s *Server) ListenAndServeTLS(certFile, keyFile string) error {
	return errors.New("shockwave: TLS termination is not implemented; terminate TLS upstream of this server")
}

// Serve runs the accept loop over an already-open listener.
func (s *Server) Serve(ln net.Listener) error {
	s.mu.Lock()
	s.listener = ln
	ctx, cancel := context.WithCancel(context.Background())
	group, groupCtx := errgroup.WithContext(ctx)
	s.group = group
	s.groupCtx = groupCtx
	s.mu.Unlock()
	defer cancel()

	for {
		conn, err := ln.Accept()
		if err != nil {
			s.mu.Lock()
			closing := s.closing
			s.mu.Unlock()
			if closing {
				return s.group.Wait()
			}
			return err
		}
		group.Go(func() error {
			s.serveConn(conn)
			return nil
		})
	}
}

// Shutdown stops accepting new connections and waits for in-flight
// connections to finish, up to ctx's deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closing = true
	ln := s.listener
	group := s.group
	s.mu.Unlock()

	if ln != nil {
		_ = ln.Close()
	}
	if group == nil {
		return nil
	}

	done := make(chan error, 1)
	go func() { done <- group.Wait() }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Server) serveConn(conn net.Conn) {
	defer conn.Close()

	cfg := http1.NewParserConfig()
	if s.config.MaxHeaderBytes > 0 {
		cfg.Headers.MaxHeaderBytes = s.config.MaxHeaderBytes
	}
	bodyLimit := uint64(s.config.MaxRequestBodySize)
	if bodyLimit == 0 {
		bodyLimit = 1 << 30
	}
	cfg.BodyLimit = bodyLimit
	container := http1.NewContainer()
	p := http1.NewParser(cfg, container)
	br := bufio.NewReader(conn)

	for {
		if s.config.ReadTimeout > 0 {
			_ = conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))
		}

		p.StartRequest()
		if err := s.readHeader(p, br); err != nil {
			return
		}

		sink := http1.NewDynamicBufferSink(cfg.BodyLimit)
		p.SetBody(sink)
		if err := s.readBody(p, br); err != nil {
			return
		}

		if s.config.WriteTimeout > 0 {
			_ = conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
		}

		req := &Request{Header: p.Get(), Body: bytes.NewReader(sink.Bytes())}
		res := NewResponseWriter(conn)
		s.config.Handler(res, req)

		if p.Get().ConnectionClose() {
			return
		}
		p.Reset()
	}
}

// readHeader pumps bytes from br into p.Parse until the header is
// complete, growing the prepared buffer each time parse signals it
// needs more input.
func (s *Server) readHeader(p *http1.Parser, br *bufio.Reader) error {
	for {
		err := p.Parse()
		if err == nil {
			return nil
		}
		if !errors.Is(err, http1.ErrNeedMoreInput) {
			return err
		}
		if p.GotHeader() {
			return nil
		}
		if err := fill(p, br); err != nil {
			return err
		}
	}
}

// readBody drives the same incremental Parse loop until the body sink
// reports the message complete.
func (s *Server) readBody(p *http1.Parser, br *bufio.Reader) error {
	for !p.IsComplete() {
		err := p.Parse()
		if err == nil {
			continue
		}
		if !errors.Is(err, http1.ErrNeedMoreInput) {
			return err
		}
		if err := fill(p, br); err != nil {
			return err
		}
	}
	return nil
}

func fill(p *http1.Parser, br *bufio.Reader) error {
	buf, err := p.Prepare(4096)
	if err != nil {
		return err
	}
	n, err := br.Read(buf)
	if n > 0 {
		p.Commit(n)
	}
	if err != nil {
		p.CommitEOF()
		return err
	}
	return nil
}
