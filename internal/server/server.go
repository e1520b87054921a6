// Package server implements the molpic HTTP API.
//
// The server wraps the same pipeline the CLI uses: a form page for
// interactive use, a JSON render endpoint returning image bytes, a health
// probe, and Prometheus metrics.
//
// # Routes
//
//   - GET  /          HTML form page
//   - POST /api/render render one compound, returns image bytes
//   - GET  /healthz   liveness probe
//   - GET  /metrics   Prometheus metrics
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/molpic/molpic/pkg/errors"
	"github.com/molpic/molpic/pkg/pipeline"
	"github.com/molpic/molpic/pkg/render"
)

// Server exposes the rendering pipeline over HTTP.
type Server struct {
	runner  *pipeline.Runner
	logger  *log.Logger
	metrics *metrics
}

// New creates a server around the given runner. A nil logger gets the
// default logger.
func New(runner *pipeline.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		runner:  runner,
		logger:  logger,
		metrics: newMetrics(),
	}
}

// Handler builds the route tree with request-ID, logging, and metrics
// middleware applied.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(s.measureRequests)

	r.Get("/", s.handleIndex)
	r.Post("/api/render", s.handleRender)
	r.Get("/healthz", s.handleHealthz)
	r.Get("/metrics", s.metrics.handler().ServeHTTP)

	return r
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

// renderRequest is the POST /api/render body.
type renderRequest struct {
	Query       string  `json:"query"`
	Label       string  `json:"label,omitempty"`
	Format      string  `json:"format,omitempty"`
	Width       float64 `json:"width,omitempty"`
	Height      float64 `json:"height,omitempty"`
	NoH         bool    `json:"no_h,omitempty"`
	Transparent bool    `json:"transparent,omitempty"`
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.New(errors.ErrCodeInvalidInput, "invalid request body: %v", err))
		return
	}
	if req.Query == "" {
		writeError(w, errors.New(errors.ErrCodeInvalidInput, "query is required"))
		return
	}

	format := render.Format(req.Format)
	if req.Format == "" {
		format = render.FormatSVG
	}

	opts := pipeline.Options{
		Width:         req.Width,
		Height:        req.Height,
		Format:        format,
		HideHydrogens: req.NoH,
		Transparent:   req.Transparent,
		Logger:        s.logger,
	}
	result, err := s.runner.Execute(r.Context(), []pipeline.Request{{Query: req.Query, Label: req.Label}}, opts)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", contentType(format))
	w.WriteHeader(http.StatusOK)
	w.Write(result.Image)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func contentType(f render.Format) string {
	if f == render.FormatPNG {
		return "image/png"
	}
	return "image/svg+xml"
}

// errorResponse is the JSON error body.
type errorResponse struct {
	Error struct {
		Code    errors.Code `json:"code"`
		Message string      `json:"message"`
	} `json:"error"`
}

// writeError maps coded errors onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	var resp errorResponse
	resp.Error.Code = errors.GetCode(err)
	if resp.Error.Code == "" {
		resp.Error.Code = errors.ErrCodeInternal
	}
	resp.Error.Message = errors.UserMessage(err)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusFor(resp.Error.Code))
	json.NewEncoder(w).Encode(resp)
}

func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidSMILES,
		errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidGrid,
		errors.ErrCodeGridTooSmall, errors.ErrCodeEmptyStructure:
		return http.StatusBadRequest
	case errors.ErrCodeCompoundNotFound:
		return http.StatusNotFound
	case errors.ErrCodeAmbiguousName, errors.ErrCodeAllFailed:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case errors.ErrCodeNetwork, errors.ErrCodeTimeout:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
