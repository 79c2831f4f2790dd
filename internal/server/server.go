// Package server provides the HTTP surface of the Nebula tracking daemon:
// REST endpoints for profiles and recordings, the MJPEG camera preview,
// and the WebSocket state stream that drives the browser renderer.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ayusman/nebula/internal/app"
	"github.com/ayusman/nebula/internal/metrics"
	"github.com/ayusman/nebula/internal/server/api"
	"github.com/ayusman/nebula/internal/store"
)

// Config holds the server configuration.
type Config struct {
	StaticDir string
	Store     *store.Store
	App       *app.App
}

// Server is the HTTP server for the Nebula daemon.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
	state  *StateHandler
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
	s.mux.Handle("/metrics", metrics.Handler())

	var tuner api.Tuner
	var recorder api.FrameRecorder
	if s.config.App != nil {
		tuner = s.config.App
		if r := s.config.App.Recorder(); r != nil {
			recorder = r
		}
	}

	if s.config.Store != nil {
		profileHandler := api.NewProfileHandler(s.config.Store, tuner)
		s.mux.Handle("/api/profiles", profileHandler)
		s.mux.Handle("/api/profiles/", profileHandler)

		recordingHandler := api.NewRecordingHandler(s.config.Store, recorder)
		s.mux.Handle("/api/recordings", recordingHandler)
		s.mux.Handle("/api/recordings/", recordingHandler)
	}

	if tuner != nil {
		s.mux.Handle("/api/tuning", api.NewTuningHandler(tuner))
	}

	if s.config.App != nil {
		s.mux.Handle("/api/stream", NewStreamHandler(s.config.App.Camera()))

		s.state = NewStateHandler(s.config.App)
		s.mux.Handle("/ws/state", s.state)
	}

	// Serve the viewer if StaticDir is configured
	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Close stops the state broadcast loop. Safe to call on a server built
// without an app.
func (s *Server) Close() {
	if s.state != nil {
		s.state.Close()
	}
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]interface{}{
		"status": "ok",
		"uptime": time.Since(s.start).String(),
	}
	if s.config.App != nil {
		response["tracking"] = s.config.App.IsEnabled()
		// Snapshot rather than raw session state so a dead feed reads
		// as idle even when no broadcast tick has noticed it yet.
		state := "idle"
		if s.config.App.Snapshot(time.Now()).Controlling {
			state = "controlling"
		}
		response["state"] = state
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
