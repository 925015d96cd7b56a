// Package server adapts the decision engine to net/http: it snapshots an
// incoming request into a walk context, routes it to a resource, runs the
// decision graph, and serializes the resulting response onto the wire.
package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/getdecider/decider/pkg/flow"
	"github.com/getdecider/decider/pkg/logging"
	"github.com/getdecider/decider/pkg/resource"
	"github.com/getdecider/decider/pkg/route"
	"github.com/getdecider/decider/pkg/walk"
)

// MaxRequestBodySize caps the request entity read into a walk snapshot.
// Oversized bodies are rejected with 413 before any hook runs.
const MaxRequestBodySize = 10 << 20 // 10MB

// HealthPath is answered directly by the adapter, ahead of routing.
const HealthPath = "/__decider/health"

// Server runs the decision engine behind an HTTP listener.
type Server struct {
	addr     string
	router   *route.Router
	engine   *flow.Engine
	log      *slog.Logger
	notFound *resource.Resource
	httpSrv  *http.Server
}

// Option configures a Server.
type Option func(*Server)

// WithAddr sets the listen address, e.g. ":8080".
func WithAddr(addr string) Option {
	return func(s *Server) { s.addr = addr }
}

// WithLogger sets the access/operational logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Server) {
		if log != nil {
			s.log = log
		}
	}
}

// New creates a server for the given route table.
func New(router *route.Router, opts ...Option) *Server {
	s := &Server{
		addr:     ":8080",
		router:   router,
		engine:   flow.New(),
		log:      logging.Nop(),
		notFound: notFoundResource(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// notFoundResource answers every unrouted path. It allows all methods so
// that a miss reports 404, not 405.
func notFoundResource() *resource.Resource {
	r := resource.Default()
	r.ResourceExists = resource.Const(false)
	r.AllowedMethods = r.KnownMethods
	return r
}

// Handler returns the http.Handler the server mounts. Useful for tests
// and for embedding the engine in an existing mux.
func (s *Server) Handler() http.Handler {
	return http.HandlerFunc(s.serveHTTP)
}

func (s *Server) serveHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if r.URL.Path == HealthPath {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
		return
	}

	reqID := uuid.NewString()

	body, err := io.ReadAll(io.LimitReader(r.Body, MaxRequestBodySize+1))
	if err != nil {
		http.Error(w, "failed to read request body", http.StatusBadRequest)
		return
	}
	if len(body) > MaxRequestBodySize {
		http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
		return
	}
	if len(body) == 0 {
		body = nil
	}

	res, params, matched := s.router.Match(r.URL.Path)
	if !matched {
		res = s.notFound
	}

	snapshot := walk.Request{
		ID:         reqID,
		Method:     r.Method,
		Path:       r.URL.Path,
		RawQuery:   r.URL.RawQuery,
		Header:     r.Header,
		Body:       body,
		PathParams: params,
	}

	resp := s.engine.Run(walk.NewContext(snapshot), res)

	if resp.Err != nil {
		s.log.Error("walk failed",
			"request_id", reqID,
			"method", r.Method,
			"path", r.URL.Path,
			"error", resp.Err,
		)
	}

	for name, values := range resp.Header {
		for _, v := range values {
			w.Header().Add(name, v)
		}
	}
	w.WriteHeader(resp.Code)
	if len(resp.Body) > 0 {
		_, _ = w.Write(resp.Body)
	}

	s.log.Info("request",
		"request_id", reqID,
		"method", r.Method,
		"path", r.URL.Path,
		"status", resp.Code,
		"duration", time.Since(start),
	)
}

// Start begins serving and blocks until the listener fails or Stop is
// called.
func (s *Server) Start() error {
	s.httpSrv = &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.log.Info("server listening", "addr", s.addr)
	err := s.httpSrv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Serve serves on an existing listener; mainly for tests that need an
// ephemeral port.
func (s *Server) Serve(l net.Listener) error {
	s.httpSrv = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	err := s.httpSrv.Serve(l)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Stop shuts the server down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}
