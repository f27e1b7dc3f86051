package httpapi

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/corvusdb/skipdb/internal/index"
	"github.com/corvusdb/skipdb/internal/metrics"
	"github.com/corvusdb/skipdb/internal/mvcc"
)

// Config holds the server's listening and timeout configuration.
type Config struct {
	Address      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DefaultConfig returns sane production-ish defaults.
func DefaultConfig() Config {
	return Config{
		Address:      ":8080",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// Server exposes an mvcc.Store over JSON-over-HTTP, plus a Prometheus
// /metrics endpoint, giving the diagnostics counters a real transport
// independent of the CLI.
type Server struct {
	config Config
	store  *mvcc.Store[string, string]
	txns   *txnRegistry
	router *Router
	http   *http.Server
}

// NewServer constructs a Server backed by a fresh MVCC store with the
// given engine configuration.
func NewServer(cfg Config, engineCfg index.Config[string]) (*Server, error) {
	store := mvcc.NewStore[string, string](engineCfg)

	s := &Server{
		config: cfg,
		store:  store,
		txns:   newTxnRegistry(),
		router: NewRouter(),
	}

	reg := prometheus.NewRegistry()
	if err := metrics.RegisterStore(reg, store); err != nil {
		return nil, err
	}

	s.setupRoutes(reg)
	return s, nil
}

func (s *Server) setupRoutes(reg *prometheus.Registry) {
	s.router.POST("/v1/keys/{key}", s.handleInsert)
	s.router.GET("/v1/keys/{key}", s.handleGet)
	s.router.DELETE("/v1/keys/{key}", s.handleDelete)
	s.router.GET("/v1/range", s.handleRange)

	s.router.POST("/v1/txn", s.handleBeginTxn)
	s.router.POST("/v1/txn/{id}/commit", s.handleCommitTxn)
	s.router.POST("/v1/txn/{id}/abort", s.handleAbortTxn)

	s.router.POST("/v1/snapshot/dump", s.handleDumpSnapshot)
	s.router.POST("/v1/snapshot/load", s.handleLoadSnapshot)

	s.router.GET("/v1/stats", s.handleStats)

	handler := promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	s.router.GET("/metrics", func(w http.ResponseWriter, r *http.Request) {
		handler.ServeHTTP(w, r)
	})
}

// Handler returns the server's http.Handler, for use with httptest or a
// caller-managed http.Server.
func (s *Server) Handler() http.Handler { return s.router }

// Store exposes the underlying MVCC store, e.g. for a CLI harness sharing
// process state with an embedded server.
func (s *Server) Store() *mvcc.Store[string, string] { return s.store }

// Start begins serving on the configured address. It returns once the
// listener is bound; serving continues on a background goroutine.
func (s *Server) Start() error {
	s.http = &http.Server{
		Addr:         s.config.Address,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	listener, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return err
	}
	go s.http.Serve(listener)
	return nil
}

// Stop gracefully shuts the server down, waiting for in-flight requests to
// finish or ctx to expire.
func (s *Server) Stop(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}
