// Package server exposes reports over a small JSON HTTP API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/jgoulah/fleetdash/internal/logging"
	"github.com/jgoulah/fleetdash/internal/report"
)

// Server answers report requests, reloading both logs on every request
type Server struct {
	src      report.Source
	unitCost float64
	router   *mux.Router
}

// New creates a server reading from src with unitCost as the default diesel price
func New(src report.Source, unitCost float64) *Server {
	s := &Server{src: src, unitCost: unitCost, router: mux.NewRouter()}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Use(requestID)
	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/report", s.handleReport).Methods(http.MethodGet)
	api.HandleFunc("/machines", s.handleMachines).Methods(http.MethodGet)
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Run listens on addr until ctx is cancelled
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server.listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serving: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down: %w", err)
		}
		return nil
	}
}

// requestID tags each request with an id, echoed in X-Request-ID and attached to log lines
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)

		logger := slog.Default().With("request_id", id)
		ctx := logging.WithLogger(r.Context(), logger)

		start := time.Now()
		next.ServeHTTP(w, r.WithContext(ctx))
		logger.Debug("http.request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}

// writeJSON encodes v before writing headers; an unencodable value is answered with a 500.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		logging.FromContext(r.Context()).Error("http.encode_failed", "path", r.URL.Path, "err", err)
		status = http.StatusInternalServerError
		body = []byte(`{"error":"encode_error","message":"could not encode response"}`)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(append(body, '\n')); err != nil {
		logging.FromContext(r.Context()).Debug("http.write_failed", "path", r.URL.Path, "err", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	writeJSON(w, r, status, map[string]any{
		"error":   code,
		"message": message,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]any{"status": "ok"})
}

// parseOptions reads start, end, machine, unit_cost and strict from the query string
func (s *Server) parseOptions(r *http.Request) (report.Options, error) {
	q := r.URL.Query()
	opts := report.Options{
		Machine:  q.Get("machine"),
		UnitCost: s.unitCost,
	}

	for name, dst := range map[string]**time.Time{"start": &opts.Start, "end": &opts.End} {
		v := strings.TrimSpace(q.Get(name))
		if v == "" {
			continue
		}
		t, ok := report.ParseDate(v)
		if !ok {
			return opts, fmt.Errorf("invalid %s date %q", name, v)
		}
		*dst = &t
	}

	if v := strings.TrimSpace(q.Get("unit_cost")); v != "" {
		cost, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return opts, fmt.Errorf("invalid unit_cost %q", v)
		}
		opts.UnitCost = cost
	}

	if v := strings.TrimSpace(q.Get("strict")); v != "" {
		strict, err := strconv.ParseBool(v)
		if err != nil {
			return opts, fmt.Errorf("invalid strict %q", v)
		}
		opts.Strict = strict
	}

	return opts, nil
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	logger := logging.FromContext(r.Context())

	opts, err := s.parseOptions(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	rep, err := report.Generate(r.Context(), s.src, opts)
	switch {
	case errors.Is(err, report.ErrNoData):
		writeJSON(w, r, http.StatusOK, map[string]any{"empty": true, "message": err.Error()})
		return
	case errors.Is(err, report.ErrInvalidUnitCost), errors.Is(err, report.ErrInvalidRows):
		writeError(w, r, http.StatusUnprocessableEntity, "invalid_input", err.Error())
		return
	case err != nil:
		logger.Error("report.failed", "err", err)
		writeError(w, r, http.StatusInternalServerError, "load_error", "could not load logs")
		return
	}

	writeJSON(w, r, http.StatusOK, rep)
}

func (s *Server) handleMachines(w http.ResponseWriter, r *http.Request) {
	cat, err := report.Describe(r.Context(), s.src)
	switch {
	case errors.Is(err, report.ErrNoData):
		writeJSON(w, r, http.StatusOK, report.Catalog{Machines: []string{}})
		return
	case err != nil:
		logging.FromContext(r.Context()).Error("machines.failed", "err", err)
		writeError(w, r, http.StatusInternalServerError, "load_error", "could not load logs")
		return
	}

	writeJSON(w, r, http.StatusOK, cat)
}
