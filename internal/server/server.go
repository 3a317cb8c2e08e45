package server

import (
	"bufio"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"go.leafdb/internal/auth"
	"go.leafdb/internal/config"
	"go.leafdb/internal/engine"
	"go.leafdb/internal/logger"
)

// Server exposes one database over a line protocol. The storage layer is
// single threaded, so every command that touches the database holds mu.
type Server struct {
	cfg  *config.Config
	auth *auth.Authenticator
	db   *engine.Database
	log  *logger.Logger

	mu sync.Mutex

	connMu sync.Mutex
	conns  map[net.Conn]struct{}

	cancel context.CancelCauseFunc
}

func New(cfg *config.Config, db *engine.Database, log *logger.Logger) (*Server, error) {
	store, err := auth.NewFileStore(cfg.UserFile)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.Discard()
	}

	return &Server{
		cfg:   cfg,
		auth:  auth.NewAuthenticator(store),
		db:    db,
		log:   log,
		conns: make(map[net.Conn]struct{}),
	}, nil
}

// Listen opens the configured address and serves until ctx is done
func (s *Server) Listen(ctx context.Context) error {
	var l net.Listener
	var err error

	if s.cfg.EnableTLS {
		cert, cErr := tls.LoadX509KeyPair(s.cfg.TLSCert, s.cfg.TLSKey)
		if cErr != nil {
			return fmt.Errorf("failed to load TLS certificate: %w", cErr)
		}

		tlsCfg := &tls.Config{
			Certificates: []tls.Certificate{cert},
			MinVersion:   tls.VersionTLS12,
		}

		l, err = tls.Listen("tcp", s.cfg.Addr, tlsCfg)
		if err != nil {
			return fmt.Errorf("failed to start TLS listener: %w", err)
		}
		s.log.Infof("TLS enabled")
	} else {
		l, err = net.Listen("tcp", s.cfg.Addr)
		if err != nil {
			return fmt.Errorf("failed to start TCP listener: %w", err)
		}
	}

	return s.Serve(ctx, l)
}

// Serve accepts connections on l until ctx is done or the store fails.
// A store failure is returned as the error.
func (s *Server) Serve(ctx context.Context, l net.Listener) error {
	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)
	s.cancel = cancel

	s.log.Infof("Server listening on %s", l.Addr())

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		<-gctx.Done()
		s.log.Infof("Server shutting down")
		l.Close()
		s.closeConns()
		return nil
	})

	g.Go(func() error {
		var wg sync.WaitGroup
		defer wg.Wait()
		// Shut down the connections if the listener goes away on its own
		defer cancel(nil)

		for {
			conn, err := l.Accept()
			if err != nil {
				if gctx.Err() != nil || errors.Is(err, net.ErrClosed) {
					return nil
				}
				s.log.Warnf("accept: %v", err)
				continue
			}

			if !s.track(gctx, conn) {
				continue
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				s.handleConn(conn)
			}()
		}
	})

	err := g.Wait()
	if cause := context.Cause(ctx); cause != nil && !errors.Is(cause, context.Canceled) {
		return cause
	}
	return err
}

// fail stops the server after an unrecoverable store error
func (s *Server) fail(err error) {
	if s.cancel != nil {
		s.cancel(err)
	}
}

// track registers conn for shutdown. A connection accepted after shutdown
// started is closed instead and track reports false.
func (s *Server) track(ctx context.Context, conn net.Conn) bool {
	s.connMu.Lock()
	defer s.connMu.Unlock()
	if ctx.Err() != nil {
		conn.Close()
		return false
	}
	s.conns[conn] = struct{}{}
	return true
}

func (s *Server) untrack(conn net.Conn) {
	s.connMu.Lock()
	defer s.connMu.Unlock()
	delete(s.conns, conn)
}

func (s *Server) closeConns() {
	s.connMu.Lock()
	defer s.connMu.Unlock()
	for conn := range s.conns {
		conn.Write([]byte("\nServer shutting down...\n"))
		conn.Close()
	}
}

func (s *Server) handleConn(conn net.Conn) {
	defer func() {
		s.untrack(conn)
		conn.Close()
	}()

	sess := newSession()
	s.log.Infof("session %s: connected from %s", sess.ID(), conn.RemoteAddr())
	defer s.log.Infof("session %s: closed", sess.ID())

	reader := bufio.NewScanner(conn)

	conn.Write([]byte(Prompt))

	for reader.Scan() {
		resp := s.exec(sess, reader.Text())

		if resp.Msg != "" {
			if _, err := conn.Write([]byte(resp.Msg + "\n")); err != nil && resp.Fatal == nil {
				return
			}
		}

		if resp.Fatal != nil {
			s.fail(resp.Fatal)
		}

		if resp.Close {
			return
		}

		conn.Write([]byte(Prompt))
	}
}

func (s *Server) exec(sess *Session, line string) Response {
	line = strings.TrimSpace(line)
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return Response{}
	}

	if strings.HasPrefix(line, ".") {
		return s.metaCommand(sess, line)
	}

	switch strings.ToUpper(parts[0]) {
	case "AUTH":
		return s.authCommand(sess, parts)
	case "CREATEUSER":
		return s.createUserCommand(sess, parts)
	case "DELUSER":
		return s.delUserCommand(sess, parts)
	case "EXIT":
		return Response{Msg: Bye, Close: true}
	default:
		return s.statementCommand(sess, line)
	}
}
