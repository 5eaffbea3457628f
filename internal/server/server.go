// Package server provides the HTTP API for company brief requests.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/jonathan/company-brief/internal/config"
	"github.com/jonathan/company-brief/internal/observability"
	"github.com/jonathan/company-brief/internal/pipeline"
	"github.com/jonathan/company-brief/internal/types"
)

// maxBodyBytes caps the request body.
const maxBodyBytes = 64 << 10

// shutdownTimeout bounds graceful shutdown.
const shutdownTimeout = 30 * time.Second

// Runner executes one brief request.
type Runner interface {
	Run(ctx context.Context, req types.BriefRequest, opts pipeline.RunOptions) (*pipeline.Result, error)
}

// Options configures the server.
type Options struct {
	Server  config.ServerConfig
	Logger  *slog.Logger
	Metrics *observability.Metrics
}

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	runner     Runner
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// New creates a new server instance
func New(runner Runner, opts Options) *Server {
	s := &Server{
		runner:  runner,
		logger:  opts.Logger,
		metrics: opts.Metrics,
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", opts.Server.Port),
		Handler:      s.Handler(),
		ReadTimeout:  opts.Server.ReadTimeout,
		WriteTimeout: opts.Server.WriteTimeout,
		IdleTimeout:  opts.Server.IdleTimeout,
	}
	return s
}

// Handler returns the router with all middleware applied.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(withRequestID)
	r.Use(s.withLogging)
	r.Use(withCORS)

	r.Post("/", s.handleBrief)
	r.Post("/brief", s.handleBrief)
	r.Get("/health", s.handleHealth)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}
	return r
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Start serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}

// handleBrief runs the full request: research, brief, packet.
func (s *Server) handleBrief(w http.ResponseWriter, r *http.Request) {
	requestID := RequestID(r.Context())

	req, err := decodeBriefRequest(r.Body)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	result, err := s.runner.Run(r.Context(), req, pipeline.RunOptions{RequestID: requestID})
	if err != nil {
		if HTTPStatus(err) >= http.StatusInternalServerError {
			s.logger.Error("brief request failed", "request_id", requestID, "error", err)
		}
		s.errorResponse(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, result.Response)
}

// decodeBriefRequest reads the JSON body. An empty body decodes to an empty
// request so that validation reports the missing name.
func decodeBriefRequest(body io.Reader) (types.BriefRequest, error) {
	var req types.BriefRequest
	err := json.NewDecoder(io.LimitReader(body, maxBodyBytes)).Decode(&req)
	if err != nil && !errors.Is(err, io.EOF) {
		return types.BriefRequest{}, &ErrBadRequest{Message: "invalid JSON body"}
	}
	return req, nil
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("error encoding JSON response", "error", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, err error) {
	s.jsonResponse(w, HTTPStatus(err), types.ErrorResponse{Error: publicMessage(err)})
}
