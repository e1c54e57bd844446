// Package server provides the HTTP surface for the gesture service.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ayusman/hasta/internal/app"
	"github.com/ayusman/hasta/internal/gesture"
	"github.com/ayusman/hasta/internal/history"
	"github.com/ayusman/hasta/internal/server/api"
	"github.com/ayusman/hasta/internal/store"
)

// Config holds the server configuration.
type Config struct {
	StaticDir  string
	Store      *store.Store
	History    *history.Store
	Classifier *gesture.Classifier
	// App is the live capture pipeline; optional. When set, the
	// sample staging and streaming endpoints become available.
	App *app.App
}

// Server represents the HTTP server for the gesture service.
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

	if s.config.Classifier != nil {
		s.mux.Handle("/api/classify", api.NewClassifyHandler(s.config.Classifier))
	}

	if s.config.Store != nil {
		var stager api.Stager
		if s.config.App != nil {
			stager = s.config.App
		}
		s.mux.Handle("/api/samples", api.NewSamplesHandler(s.config.Store, stager))
	}

	if s.config.History != nil {
		s.mux.Handle("/api/history", api.NewHistoryHandler(s.config.History))
	}

	if s.config.App != nil {
		s.mux.Handle("/api/stream", NewStreamHandler(s.config.App.Camera()))
		s.mux.Handle("/api/observations", NewObservationsHandler(s.config.App))
	}

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

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}
