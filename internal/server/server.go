package server

import (
	"context"
	"net/http"
	"time"

	"github.com/koresolucoes/KoreGastro2-sub002/internal/handlers"
	applog "github.com/koresolucoes/KoreGastro2-sub002/internal/log"
)

// Config captures the runtime configuration for the HTTP server.
type Config struct {
	Addr        string
	ServiceName string
	Ping        func(context.Context) error
	Engine      handlers.StockEngine
	Orders      handlers.OrderClaims
}

// Server wraps an http.Server and exposes helpers for bootstrapping a
// production-ready web service.
type Server struct {
	config     Config
	httpServer *http.Server
}

// New builds a new Server using the provided configuration. Without an engine
// only the infrastructure routes are served.
func New(cfg Config) (*Server, error) {
	applog.Debug(context.Background(), "initializing server",
		"addr", cfg.Addr,
		"stockRoutes", cfg.Engine != nil,
	)

	var stock *handlers.Stock
	if cfg.Engine != nil {
		stock = handlers.NewStock(cfg.Engine, cfg.Orders)
	}

	return &Server{
		config: cfg,
		httpServer: &http.Server{
			Addr:              cfg.Addr,
			Handler:           newRouter(handlers.NewHealth(cfg.ServiceName, cfg.Ping), stock),
			ReadHeaderTimeout: 5 * time.Second,
		},
	}, nil
}

// Start begins serving HTTP traffic using the underlying http.Server.
func (s *Server) Start() error {
	applog.Debug(context.Background(), "server starting listener", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop gracefully shuts down the HTTP server with a timeout.
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	applog.Debug(ctx, "server initiating graceful shutdown")
	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the configured HTTP handler, enabling integration tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}
