package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"mdxport/internal/export"
	"mdxport/internal/history"
	"mdxport/internal/logging"
)

// StatusSource exposes the scheduler observation the API publishes.
type StatusSource interface {
	Status() export.Snapshot
}

// Server serves the read-only status and history endpoints.
type Server struct {
	httpServer *http.Server
	listener   net.Listener
	logger     *slog.Logger
	started    time.Time
}

// ServerConfig wires the server's collaborators.
type ServerConfig struct {
	Bind      string
	Version   string
	Scheduler StatusSource
	Store     *history.Store
	Logger    *slog.Logger
}

// NewServer builds an HTTP server bound to cfg.Bind. The listener is opened
// eagerly so bind errors surface before the serve loop starts.
func NewServer(cfg ServerConfig) (*Server, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logging.NewComponentLogger(logger, "api")

	srv := &Server{
		logger:  logger,
		started: time.Now(),
	}
	srv.httpServer = &http.Server{
		Handler:      srv.routes(cfg),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	listener, err := net.Listen("tcp", cfg.Bind)
	if err != nil {
		return nil, err
	}
	srv.listener = listener
	return srv, nil
}

func (s *Server) routes(cfg ServerConfig) *chi.Mux {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware(s.logger))
	r.Use(loggingMiddleware(s.logger))

	r.Get("/health", s.handleHealth(cfg.Version))
	r.Get("/status", s.handleStatus(cfg.Scheduler))
	r.Get("/history", s.handleHistory(cfg.Store))
	return r
}

// Serve blocks until the server is shut down.
func (s *Server) Serve() error {
	s.logger.Info("status API listening", logging.String("addr", s.Addr()))
	err := s.httpServer.Serve(s.listener)
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and closes the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Addr reports the bound listen address, useful with ":0" binds.
func (s *Server) Addr() string {
	return s.listener.Addr().String()
}

func (s *Server) handleHealth(version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, HealthResponse{
			Status:  "ok",
			Version: version,
			UptimeS: int64(time.Since(s.started).Seconds()),
		})
	}
}

func (s *Server) handleStatus(source StatusSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if source == nil {
			writeJSON(w, http.StatusOK, ExportStatus{Status: string(export.StatusIdle), Phase: export.PhaseIdle.String()})
			return
		}
		writeJSON(w, http.StatusOK, FromSnapshot(source.Status()))
	}
}

func (s *Server) handleHistory(store *history.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store == nil {
			writeJSON(w, http.StatusOK, HistoryResponse{Runs: []HistoryRun{}})
			return
		}
		limit := 0
		if raw := r.URL.Query().Get("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 1 {
				writeError(w, http.StatusBadRequest, "limit must be a positive integer", "INVALID_LIMIT")
				return
			}
			limit = parsed
		}
		runs, err := store.RecentRuns(r.Context(), limit)
		if err != nil {
			s.logger.Error("history query failed", logging.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to list runs", "INTERNAL_ERROR")
			return
		}
		resp := HistoryResponse{Runs: make([]HistoryRun, 0, len(runs))}
		for _, run := range runs {
			resp.Runs = append(resp.Runs, FromRun(run))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message, code string) {
	writeJSON(w, status, ErrorResponse{Error: message, Code: code})
}
