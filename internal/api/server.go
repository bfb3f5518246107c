// Package api exposes the admin HTTP interface: status evaluation plus
// CRUD over the three stored datasets.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/tavolohq/tavolo/internal/service/i18n"
	"github.com/tavolohq/tavolo/internal/service/status"
	"github.com/tavolohq/tavolo/internal/storage"
)

// Server serves the admin API for a single restaurant profile.
type Server struct {
	store      storage.Store
	status     *status.Service
	translator *i18n.Translator
	locale     string
	token      string
	log        *slog.Logger
	now        func() time.Time
}

// NewServer creates a server. An empty token disables authentication,
// which is only sensible for local use.
func NewServer(store storage.Store, statusSvc *status.Service, translator *i18n.Translator, locale, token string, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		store:      store,
		status:     statusSvc,
		translator: translator,
		locale:     locale,
		token:      token,
		log:        log,
		now:        time.Now,
	}
}

// Handler returns an http.Handler with all routes registered.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /api/status", s.handleStatus)
	mux.HandleFunc("GET /api/hours", s.handleGetHours)
	mux.HandleFunc("PUT /api/hours", s.requireToken(s.handlePutHours))
	mux.HandleFunc("GET /api/closings", s.handleGetClosings)
	mux.HandleFunc("POST /api/closings", s.requireToken(s.handlePostClosing))
	mux.HandleFunc("DELETE /api/closings/{id}", s.requireToken(s.handleDeleteClosing))
	mux.HandleFunc("GET /api/messages", s.handleGetMessages)
	mux.HandleFunc("PUT /api/messages", s.requireToken(s.handlePutMessages))
	return s.logMiddleware(mux)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("admin API listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down admin API")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

func (s *Server) requireToken(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.token != "" {
			header := r.Header.Get("Authorization")
			got, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || got != s.token {
				writeError(w, http.StatusUnauthorized, "invalid or missing bearer token")
				return
			}
		}
		next(w, r)
	}
}

func (s *Server) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Debug("request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("writing JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, errorResponse{Error: message})
}

func readJSON(r *http.Request, v any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}
