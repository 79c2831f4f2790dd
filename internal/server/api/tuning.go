package api

import (
	"encoding/json"
	"net/http"

	"github.com/ayusman/nebula/internal/control"
)

// TuningHandler exposes the live control tuning for the viewer's sliders.
type TuningHandler struct {
	tuner Tuner
}

// NewTuningHandler creates a new TuningHandler.
func NewTuningHandler(tuner Tuner) *TuningHandler {
	return &TuningHandler{tuner: tuner}
}

// ServeHTTP handles GET and PUT on /api/tuning.
func (h *TuningHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, h.tuner.Tuning())

	case http.MethodPut:
		var t control.Tuning
		if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid JSON")
			return
		}
		if t.GrabThreshold <= 0 || t.GrabThreshold >= 1 {
			writeError(w, http.StatusBadRequest, "Grab threshold must be in (0, 1)")
			return
		}
		if t.ZoomSmoothing <= 0 || t.ZoomSmoothing > 1 {
			writeError(w, http.StatusBadRequest, "Zoom smoothing must be in (0, 1]")
			return
		}
		h.tuner.SetTuning(t)
		writeJSON(w, http.StatusOK, h.tuner.Tuning())

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}
