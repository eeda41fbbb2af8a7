// Package server wires the forecast runtime and HTTP lifecycle.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/jcorreia/practiva/internal/forecast/domain"
	"github.com/jcorreia/practiva/internal/forecast/matrix"
	"github.com/jcorreia/practiva/internal/forecast/storage"
)

const defaultSweepSchedule = "*/5 * * * *"

// Options configures the forecast HTTP server.
type Options struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string
	// SweepSchedule is a cron expression for expired cache entry sweeps.
	// Empty selects every five minutes.
	SweepSchedule string
	// ReadTimeout bounds request reads; zero selects 10s.
	ReadTimeout time.Duration
	// WriteTimeout bounds response writes; zero selects 30s.
	WriteTimeout time.Duration
}

// Server hosts the forecast JSON API and the cache sweep scheduler.
type Server struct {
	listener    net.Listener
	httpServer  *http.Server
	generator   *matrix.Generator
	diagnostics storage.DiagnosticsStore
	sweeper     *cron.Cron
}

// New creates a configured forecast server listening on opts.Addr.
func New(generator *matrix.Generator, diagnostics storage.DiagnosticsStore, opts Options) (*Server, error) {
	if generator == nil {
		return nil, errors.New("matrix generator is required")
	}
	addr := opts.Addr
	if addr == "" {
		addr = ":8080"
	}
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}

	readTimeout := opts.ReadTimeout
	if readTimeout <= 0 {
		readTimeout = 10 * time.Second
	}
	writeTimeout := opts.WriteTimeout
	if writeTimeout <= 0 {
		writeTimeout = 30 * time.Second
	}

	s := &Server{
		listener:    listener,
		generator:   generator,
		diagnostics: diagnostics,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/matrix", s.handleMatrix)
	mux.HandleFunc("POST /v1/cache/clear", s.handleCacheClear)
	mux.HandleFunc("GET /v1/diagnostics", s.handleDiagnostics)
	mux.HandleFunc("GET /healthz", s.handleHealthz)

	s.httpServer = &http.Server{
		Handler:      mux,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	schedule := opts.SweepSchedule
	if schedule == "" {
		schedule = defaultSweepSchedule
	}
	sweeper := cron.New()
	if _, err := sweeper.AddFunc(schedule, func() {
		if n := generator.Cache().Sweep(); n > 0 {
			log.Printf("forecast server: swept %d expired matrix entries", n)
		}
	}); err != nil {
		_ = listener.Close()
		return nil, fmt.Errorf("schedule cache sweep: %w", err)
	}
	s.sweeper = sweeper

	return s, nil
}

// Addr returns the listener address for the server.
func (s *Server) Addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Serve starts the HTTP server and sweep scheduler until context cancellation.
func (s *Server) Serve(ctx context.Context) error {
	if s == nil {
		return errors.New("server is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	defer s.Close()

	s.sweeper.Start()

	log.Printf("forecast server listening at %v", s.listener.Addr())
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.httpServer.Serve(s.listener)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		err := <-serveErr
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	case err := <-serveErr:
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}

// Close releases forecast server resources.
func (s *Server) Close() {
	if s == nil {
		return
	}
	if s.sweeper != nil {
		s.sweeper.Stop()
	}
	if s.httpServer != nil {
		_ = s.httpServer.Close()
	}
	if s.listener != nil {
		_ = s.listener.Close()
	}
}

// matrixRequest carries the generation inputs for one matrix call.
type matrixRequest struct {
	Mode    string         `json:"mode"`
	Filters domain.Filters `json:"filters"`
}

func (s *Server) handleMatrix(w http.ResponseWriter, r *http.Request) {
	var req matrixRequest
	if r.Body != nil {
		decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
		if err := decoder.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("decode request: %v", err))
			return
		}
	}
	mode := domain.Mode(req.Mode)
	if mode == "" {
		mode = domain.ModeDemandOnly
	}
	data := s.generator.Generate(r.Context(), mode, req.Filters)
	writeJSON(w, http.StatusOK, data)
}

func (s *Server) handleCacheClear(w http.ResponseWriter, r *http.Request) {
	s.generator.ClearCache()
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

func (s *Server) handleDiagnostics(w http.ResponseWriter, r *http.Request) {
	if s.diagnostics == nil {
		writeError(w, http.StatusServiceUnavailable, "diagnostics storage is not configured")
		return
	}
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}
	diags, err := s.diagnostics.ListDiagnostics(r.Context(), limit)
	if err != nil {
		log.Printf("forecast server: list diagnostics: %v", err)
		writeError(w, http.StatusInternalServerError, "list diagnostics failed")
		return
	}
	if diags == nil {
		diags = []storage.Diagnostic{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"diagnostics": diags})
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("forecast server: encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
