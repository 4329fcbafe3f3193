package tcp

import (
	"context"
	"fmt"
	"net"
	"sync"

	"github.com/rs/zerolog"
	"github.com/vodachat/voda-server/internal/config"
	"github.com/vodachat/voda-server/internal/core"
)

// Server accepts TCP connections and runs one protocol session per
// connection.
type Server struct {
	addr      string
	hub       *core.Hub
	log       *zerolog.Logger
	queueSize int
	maxConns  int

	mu sync.Mutex
	ln net.Listener
}

// NewServer builds a TCP server from configuration.
func NewServer(hub *core.Hub, cfg *config.Config, logger *zerolog.Logger) *Server {
	return &Server{
		addr:      cfg.TCPAddr,
		hub:       hub,
		log:       logger,
		queueSize: cfg.SendQueueSize,
		maxConns:  cfg.MaxConns,
	}
}

// Listen binds the listener. Exposed separately so callers can learn the
// bound address before serving (tests bind to port 0).
func (s *Server) Listen() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.addr, err)
	}
	s.mu.Lock()
	s.ln = ln
	s.mu.Unlock()
	return nil
}

// Addr returns the bound listener address, or nil before Listen.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// Serve accepts connections until ctx is cancelled. Each accepted
// connection gets its own session goroutine; when maxConns is set, excess
// connections are refused at admission instead of queueing.
func (s *Server) Serve(ctx context.Context) error {
	s.mu.Lock()
	ln := s.ln
	s.mu.Unlock()
	if ln == nil {
		if err := s.Listen(); err != nil {
			return err
		}
		s.mu.Lock()
		ln = s.ln
		s.mu.Unlock()
	}

	stop := context.AfterFunc(ctx, func() {
		ln.Close()
	})
	defer stop()

	var sem chan struct{}
	if s.maxConns > 0 {
		sem = make(chan struct{}, s.maxConns)
	}

	s.log.Info().Str("addr", ln.Addr().String()).Msg("tcp server listening")

	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("accept: %w", err)
		}

		if sem != nil {
			select {
			case sem <- struct{}{}:
			default:
				s.log.Warn().Str("remote", conn.RemoteAddr().String()).Msg("connection limit reached, refusing")
				conn.Close()
				continue
			}
		}

		s.log.Debug().Str("remote", conn.RemoteAddr().String()).Msg("connection accepted")
		wg.Add(1)
		go func(c net.Conn) {
			defer wg.Done()
			if sem != nil {
				defer func() { <-sem }()
			}
			ServeConn(ctx, c, s.hub, s.log, s.queueSize)
		}(conn)
	}
}
