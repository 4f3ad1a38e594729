package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"

	"github.com/warpdl/cookiejar/pkg/logger"
)

// WebServer exposes an RPCServer over HTTP at /jsonrpc and over WebSocket at
// /jsonrpc/ws. Both endpoints require the bearer secret.
type WebServer struct {
	addr   string
	log    logger.Logger
	rpc    *RPCServer
	server *http.Server
	mu     sync.Mutex
}

func NewWebServer(addr string, rpc *RPCServer, l logger.Logger) *WebServer {
	if l == nil {
		l = logger.NewNopLogger()
	}
	return &WebServer{addr: addr, log: l, rpc: rpc}
}

func (s *WebServer) handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/jsonrpc", requireToken(s.rpc.secret, s.rpc.bridge))
	mux.Handle("/jsonrpc/ws", requireToken(s.rpc.secret, http.HandlerFunc(s.rpc.serveWS)))
	return mux
}

func (s *WebServer) prepare() *http.Server {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.server = &http.Server{Handler: s.handler()}
	return s.server
}

// Serve accepts connections on l until Shutdown is called.
func (s *WebServer) Serve(l net.Listener) error {
	return s.serve(s.prepare(), l)
}

func (s *WebServer) serve(srv *http.Server, l net.Listener) error {
	s.log.Info("rpc: listening on %s", l.Addr())
	err := srv.Serve(l)
	if errors.Is(err, http.ErrServerClosed) {
		return nil // Expected during shutdown
	}
	return err
}

// Start listens on the configured address and serves until ctx is done.
func (s *WebServer) Start(ctx context.Context) error {
	l, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	srv := s.prepare()

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			s.Shutdown(context.Background())
		case <-stop:
		}
	}()
	return s.serve(srv, l)
}

// Shutdown gracefully stops the web server.
func (s *WebServer) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server == nil {
		return nil
	}
	s.rpc.Close()
	return s.server.Shutdown(ctx)
}
