// Package server provides the HTTP server for the Drishti face monitoring system.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/ayusman/drishti/internal/app"
	"github.com/ayusman/drishti/internal/store"
)

// Config holds the server configuration.
type Config struct {
	StaticDir string
	Store     *store.Store
	App       *app.App

	// Metrics is the Prometheus scrape handler, served at /metrics.
	Metrics http.Handler
}

// Server represents the HTTP server for the Drishti application.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	if s.config.App != nil {
		s.mux.HandleFunc("/api/summary", s.handleSummary)

		// Live frame results over WebSocket
		s.mux.Handle("/api/live", NewLiveHandler(s.config.App))

		// Camera preview stream
		s.mux.Handle("/api/stream", NewStreamHandler(s.config.App.Camera()))
	}

	if s.config.Store != nil {
		s.mux.HandleFunc("/api/sessions", s.handleSessions)
		s.mux.HandleFunc("/api/sessions/", s.handleSessionByID)
	}

	if s.config.Metrics != nil {
		s.mux.Handle("/metrics", s.config.Metrics)
	}

	// Serve static files if StaticDir is configured
	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(s.start)

	response := map[string]interface{}{
		"status": "ok",
		"uptime": uptime.String(),
	}

	writeJSON(w, response)
}

// handleSummary handles GET requests to /api/summary, returning the
// current session's running statistics and the latest frame result.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	a := s.config.App
	summary := a.Monitor().Summary()

	response := map[string]interface{}{
		"session_id":      a.SessionID(),
		"monitoring":      a.IsEnabled(),
		"runtime_seconds": summary.Runtime.Seconds(),
		"frames":          summary.Frames,
		"blink_count":     a.BlinkCount(),
		"frown_count":     a.FrownCount(),
		"avg_cpu_pct":     summary.AvgCPUPercent,
		"peak_cpu_pct":    summary.PeakCPUPercent,
		"avg_mem_mb":      summary.AvgMemoryMB,
		"peak_mem_mb":     summary.PeakMemoryMB,
		"avg_fps":         summary.AvgFPS,
		"avg_latency_ms":  summary.AvgLatencyMs,
		"peak_latency_ms": summary.PeakLatencyMs,
		"last_frame":      a.LastResult(),
	}

	writeJSON(w, response)
}

// handleSessions handles GET requests to /api/sessions, listing stored
// sessions most recent first.
func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sessions, err := s.config.Store.Sessions().List()
	if err != nil {
		http.Error(w, "Failed to list sessions", http.StatusInternalServerError)
		return
	}

	writeJSON(w, sessions)
}

// handleSessionByID handles requests under /api/sessions/{id}:
// GET returns one session, GET .../events returns its events,
// DELETE removes the session.
func (s *Server) handleSessionByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/sessions/")

	if strings.HasSuffix(id, "/events") {
		id = strings.TrimSuffix(id, "/events")
		s.handleSessionEvents(w, r, id)
		return
	}

	if id == "" || strings.Contains(id, "/") {
		http.Error(w, "Invalid session ID", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		session, err := s.config.Store.Sessions().GetByID(id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				http.Error(w, "Session not found", http.StatusNotFound)
				return
			}
			http.Error(w, "Failed to get session", http.StatusInternalServerError)
			return
		}
		writeJSON(w, session)

	case http.MethodDelete:
		if err := s.config.Store.Sessions().Delete(id); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				http.Error(w, "Session not found", http.StatusNotFound)
				return
			}
			http.Error(w, "Failed to delete session", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleSessionEvents returns all events of one session in time order.
func (s *Server) handleSessionEvents(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	events, err := s.config.Store.Events().ListBySession(id)
	if err != nil {
		http.Error(w, "Failed to list events", http.StatusInternalServerError)
		return
	}

	writeJSON(w, events)
}

// writeJSON encodes v as the JSON response body.
func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}
