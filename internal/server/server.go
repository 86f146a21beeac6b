// Package server provides the HTTP control surface for the Naagin game daemon.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ayusman/naagin/internal/capture"
	"github.com/ayusman/naagin/internal/game"
	"github.com/ayusman/naagin/internal/server/api"
	"github.com/ayusman/naagin/internal/store"
)

// Controller is the game session surface the server drives. All methods are
// idempotent.
type Controller interface {
	Snapshot() game.Snapshot
	Restart()
	Pause()
	Resume()
	SetBoost(on bool)
	Quit()
}

// Config holds the server configuration.
type Config struct {
	StaticDir string
	Store     *store.Store
	Game      Controller
	Camera    capture.Camera
}

// Server represents the HTTP server for the Naagin application.
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

	if s.config.Store != nil {
		s.mux.Handle("/api/scores", api.NewScoresHandler(s.config.Store))
	}

	if s.config.Game != nil {
		s.mux.HandleFunc("/api/state", s.handleState)
		s.mux.HandleFunc("/api/control", s.handleControl)
		s.mux.Handle("/api/game", NewGameHandler(s.config.Game))
	}

	// Camera stream with the tracked head marker drawn in
	if s.config.Camera != nil {
		s.mux.Handle("/api/stream", NewStreamHandler(s.config.Camera, s.config.Game))
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

// handleState handles GET requests to /api/state, returning the latest
// per-tick game snapshot.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.config.Game.Snapshot()); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

type controlRequest struct {
	Signal string `json:"signal"`
}

// handleControl handles POST requests to /api/control. Signals are
// idempotent: repeating one is harmless.
func (s *Server) handleControl(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req controlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	switch req.Signal {
	case "restart":
		s.config.Game.Restart()
	case "pause":
		s.config.Game.Pause()
	case "resume":
		s.config.Game.Resume()
	case "boost_on":
		s.config.Game.SetBoost(true)
	case "boost_off":
		s.config.Game.SetBoost(false)
	case "quit":
		// Quit tears the pipeline down; let the response flush first.
		defer func() { go s.config.Game.Quit() }()
	default:
		http.Error(w, "Unknown signal", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}
