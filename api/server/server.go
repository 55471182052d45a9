package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/ssvlabs/benor/api"
	"github.com/ssvlabs/benor/api/handlers"
	"github.com/ssvlabs/benor/logging"
	"github.com/ssvlabs/benor/logging/fields"
)

// Server serves the peer and control API of one node.
type Server struct {
	logger *zap.Logger
	addr   string
	node   *handlers.Node

	httpServer *http.Server
}

func New(logger *zap.Logger, addr string, nodeHandler *handlers.Node) *Server {
	s := &Server{
		logger: logger.Named(logging.NameAPIServer),
		addr:   addr,
		node:   nodeHandler,
	}
	s.httpServer = &http.Server{
		Addr:        addr,
		Handler:     otelhttp.NewHandler(s.routes(), "benor-node-api"),
		ReadTimeout: 12 * time.Second,
		// /start blocks until the network is ready.
		WriteTimeout: 0,
	}
	return s
}

func (s *Server) routes() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)

	router.Get("/status", api.Handler(s.node.Status))
	router.Post("/message", api.Handler(s.node.Message))
	router.Get("/start", api.Handler(s.node.Start))
	router.Get("/stop", api.Handler(s.node.Stop))
	router.Get("/getState", api.Handler(s.node.GetState))

	router.NotFound(api.Handler(func(w http.ResponseWriter, r *http.Request) error {
		return api.ErrNotFound
	}))

	return router
}

// Run listens on the configured address and serves until Shutdown.
func (s *Server) Run() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Serve serves on an already bound listener. It returns nil after Shutdown.
func (s *Server) Serve(ln net.Listener) error {
	s.logger.Info("Serving node API", fields.Address(ln.Addr().String()))

	if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
