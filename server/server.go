package server

import (
	"context"
	"errors"
	"io"
	"log"
	"net"
	"os"
	"sync"
	"time"
)

// ConnHandler serves a single request on an accepted connection
type ConnHandler interface {
	ServeConn(conn io.ReadWriter) error
}

// Server accepts TCP connections and hands each to a pool of workers.
// With one worker connections are served strictly one after another.
type Server struct {
	Handler      ConnHandler
	Workers      int
	ReadTimeout  time.Duration // Deadline for the request line, 0 means none
	WriteTimeout time.Duration // Deadline for the response, 0 means none
	Limiter      *Limiter      // Per client throttling, nil disables
	Logger       *log.Logger
}

// ListenAndServe listens on addr and serves until ctx is cancelled
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled or ln is closed,
// then waits for in-flight connections to finish.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	defer ln.Close()

	stop := context.AfterFunc(ctx, func() { ln.Close() })
	defer stop()

	workers := s.Workers
	if workers < 1 {
		workers = 1
	}
	conns := make(chan net.Conn)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for conn := range conns {
				s.serveConn(conn)
			}
		}()
	}
	defer func() {
		close(conns)
		wg.Wait()
	}()

	var backoff time.Duration
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			// Resource exhaustion and similar accept failures are retried.
			if backoff == 0 {
				backoff = 5 * time.Millisecond
			} else if backoff *= 2; backoff > time.Second {
				backoff = time.Second
			}
			s.Logger.Printf("Accept error: %v; retrying in %v", err, backoff)
			time.Sleep(backoff)
			continue
		}
		backoff = 0

		if s.Limiter != nil && !s.Limiter.Allow(clientIP(conn)) {
			s.Logger.Printf("Rate limited client %s", conn.RemoteAddr())
			conn.Close()
			continue
		}
		conns <- conn
	}
}

func (s *Server) serveConn(conn net.Conn) {
	defer func() {
		if err := recover(); err != nil {
			s.Logger.Printf("panic recovered serving %s: %v", conn.RemoteAddr(), err)
		}
		conn.Close()
	}()

	if s.ReadTimeout > 0 {
		conn.SetReadDeadline(time.Now().Add(s.ReadTimeout))
	}
	dc := &deadlineConn{Conn: conn, writeTimeout: s.WriteTimeout}

	if err := s.Handler.ServeConn(dc); err != nil {
		if errors.Is(err, os.ErrDeadlineExceeded) {
			s.Logger.Printf("Dropped %s: %v", conn.RemoteAddr(), err)
			return
		}
		s.Logger.Printf("Error serving %s: %v", conn.RemoteAddr(), err)
	}
}

// deadlineConn arms the write deadline on the first write, so the read
// timeout and the write timeout are measured separately.
type deadlineConn struct {
	net.Conn
	writeTimeout time.Duration
	armed        bool
}

func (dc *deadlineConn) Write(p []byte) (int, error) {
	if !dc.armed && dc.writeTimeout > 0 {
		dc.Conn.SetWriteDeadline(time.Now().Add(dc.writeTimeout))
		dc.armed = true
	}
	return dc.Conn.Write(p)
}

func clientIP(conn net.Conn) string {
	addr := conn.RemoteAddr().String()
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return host
}
