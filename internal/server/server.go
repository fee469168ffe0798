// Package server exposes the projection engine and the customer store over HTTP.
package server

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
	"go.uber.org/zap"

	"github.com/vorsorge/depotvergleich/internal/calculation"
	"github.com/vorsorge/depotvergleich/internal/config"
	"github.com/vorsorge/depotvergleich/internal/metrics"
	"github.com/vorsorge/depotvergleich/internal/reference"
	"github.com/vorsorge/depotvergleich/internal/store"
)

const apiPrefix = "/api/v1"

// Server routes API requests to the engine and the store
type Server struct {
	engine  *calculation.ProjectionEngine
	catalog reference.Source
	store   store.Store
	parser  *config.InputParser
	logger  *zap.SugaredLogger
	secret  []byte
	now     func() time.Time
	metrics fasthttp.RequestHandler
}

// Option configures a Server
type Option func(*Server)

// WithLogger sets the request logger
func WithLogger(l *zap.SugaredLogger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithJWTSecret enables bearer authentication on the API routes
func WithJWTSecret(secret string) Option {
	return func(s *Server) { s.secret = []byte(secret) }
}

// New creates a server. catalog supplies tariffs and the default tariff of new scenarios.
func New(engine *calculation.ProjectionEngine, catalog reference.Source, st store.Store, opts ...Option) *Server {
	metrics.Init()
	s := &Server{
		engine:  engine,
		catalog: catalog,
		store:   st,
		parser:  config.NewInputParserWithTariffs(catalog),
		logger:  zap.NewNop().Sugar(),
		now:     time.Now,
		metrics: fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler()),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the root request handler
func (s *Server) Handler() fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		start := time.Now()
		route := s.serve(ctx)
		status := ctx.Response.StatusCode()
		elapsed := time.Since(start)

		metrics.ObserveHTTPRequest(route, status, elapsed)
		s.logger.Infow("request",
			"method", string(ctx.Method()),
			"path", string(ctx.Path()),
			"route", route,
			"status", status,
			"duration", elapsed,
		)
	}
}

// serve dispatches the request and turns a handler panic into a 500
func (s *Server) serve(ctx *fasthttp.RequestCtx) (route string) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Errorw("handler panicked", "path", string(ctx.Path()), "panic", r)
			ctx.Response.Reset()
			writeError(ctx, fasthttp.StatusInternalServerError, "internal error")
			route = "panic"
		}
	}()
	return s.dispatch(ctx)
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &fasthttp.Server{
		Handler:      s.Handler(),
		Name:         "depotvergleich",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Infow("listening", "addr", addr)
		errCh <- srv.ListenAndServe(addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.ShutdownWithContext(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	}
}

// dispatch routes the request and returns the route template for metrics
func (s *Server) dispatch(ctx *fasthttp.RequestCtx) string {
	path := strings.TrimSuffix(string(ctx.Path()), "/")
	method := string(ctx.Method())

	switch path {
	case "/healthz":
		ctx.SetStatusCode(fasthttp.StatusOK)
		ctx.SetContentType("text/plain; charset=utf-8")
		ctx.SetBodyString("ok")
		return "/healthz"
	case "/metrics":
		s.metrics(ctx)
		return "/metrics"
	}

	if !strings.HasPrefix(path, apiPrefix) {
		writeError(ctx, fasthttp.StatusNotFound, "not found")
		return "unmatched"
	}
	if !s.authorize(ctx) {
		return "unauthorized"
	}

	parts := strings.Split(strings.TrimPrefix(path, apiPrefix+"/"), "/")
	switch {
	case len(parts) == 1 && parts[0] == "simulate":
		if method != fasthttp.MethodPost {
			return methodNotAllowed(ctx, "/api/v1/simulate")
		}
		s.handleSimulate(ctx)
		return "/api/v1/simulate"

	case len(parts) == 1 && parts[0] == "tariffs":
		if method != fasthttp.MethodGet {
			return methodNotAllowed(ctx, "/api/v1/tariffs")
		}
		s.handleTariffs(ctx)
		return "/api/v1/tariffs"

	case len(parts) == 1 && parts[0] == "customers":
		switch method {
		case fasthttp.MethodGet:
			s.handleListCustomers(ctx)
		case fasthttp.MethodPost:
			s.handleCreateCustomer(ctx)
		default:
			return methodNotAllowed(ctx, "/api/v1/customers")
		}
		return "/api/v1/customers"

	case len(parts) >= 2 && parts[0] == "customers":
		id, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil || id <= 0 {
			writeError(ctx, fasthttp.StatusBadRequest, "invalid customer id")
			return "/api/v1/customers/{id}"
		}
		return s.dispatchCustomer(ctx, method, id, parts[2:])
	}

	writeError(ctx, fasthttp.StatusNotFound, "not found")
	return "unmatched"
}

func (s *Server) dispatchCustomer(ctx *fasthttp.RequestCtx, method string, id int64, rest []string) string {
	switch {
	case len(rest) == 0:
		if method != fasthttp.MethodGet {
			return methodNotAllowed(ctx, "/api/v1/customers/{id}")
		}
		s.handleGetCustomer(ctx, id)
		return "/api/v1/customers/{id}"

	case len(rest) == 1 && rest[0] == "scenario":
		switch method {
		case fasthttp.MethodGet:
			s.handleGetScenario(ctx, id)
		case fasthttp.MethodPut:
			s.handleUpdateScenario(ctx, id)
		default:
			return methodNotAllowed(ctx, "/api/v1/customers/{id}/scenario")
		}
		return "/api/v1/customers/{id}/scenario"

	case len(rest) == 1 && rest[0] == "simulation":
		if method != fasthttp.MethodGet {
			return methodNotAllowed(ctx, "/api/v1/customers/{id}/simulation")
		}
		s.handleCustomerSimulation(ctx, id)
		return "/api/v1/customers/{id}/simulation"
	}

	writeError(ctx, fasthttp.StatusNotFound, "not found")
	return "unmatched"
}

func (s *Server) authorize(ctx *fasthttp.RequestCtx) bool {
	if len(s.secret) == 0 {
		return true
	}
	token := bearerToken(string(ctx.Request.Header.Peek(fasthttp.HeaderAuthorization)))
	if _, err := ParseJWT(token, s.secret); err != nil {
		s.logger.Debugw("rejected token", "error", err)
		writeError(ctx, fasthttp.StatusUnauthorized, "unauthorized")
		return false
	}
	return true
}

type errorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

func writeError(ctx *fasthttp.RequestCtx, status int, message string) {
	writeJSON(ctx, status, errorResponse{Status: status, Message: message})
}

func writeJSON(ctx *fasthttp.RequestCtx, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		ctx.SetContentType("text/plain; charset=utf-8")
		ctx.SetBodyString("failed to encode response")
		return
	}
	ctx.SetStatusCode(status)
	ctx.SetContentType("application/json")
	ctx.SetBody(body)
}

func methodNotAllowed(ctx *fasthttp.RequestCtx, route string) string {
	writeError(ctx, fasthttp.StatusMethodNotAllowed, "method not allowed")
	return route
}
