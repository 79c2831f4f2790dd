package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/ayusman/nebula/internal/store"
)

// FrameRecorder is the live recorder the start/stop endpoints drive.
type FrameRecorder interface {
	Start(name string) (string, error)
	Stop() error
	Active() string
}

// RecordingHandler handles HTTP requests for landmark recording resources.
type RecordingHandler struct {
	store    *store.Store
	recorder FrameRecorder
}

// NewRecordingHandler creates a new RecordingHandler. recorder may be nil,
// in which case recordings can only be browsed and deleted.
func NewRecordingHandler(s *store.Store, recorder FrameRecorder) *RecordingHandler {
	return &RecordingHandler{store: s, recorder: recorder}
}

// ServeHTTP implements the http.Handler interface and routes requests to
// the appropriate methods.
func (h *RecordingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Expected paths: /api/recordings, /api/recordings/start,
	// /api/recordings/stop, /api/recordings/{id}, /api/recordings/{id}/frames
	path := strings.TrimPrefix(r.URL.Path, "/api/recordings")
	path = strings.TrimPrefix(path, "/")

	switch {
	case path == "":
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.list(w, r)

	case path == "start":
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.start(w, r)

	case path == "stop":
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.stop(w, r)

	default:
		if id, ok := strings.CutSuffix(path, "/frames"); ok {
			if r.Method != http.MethodGet {
				http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
				return
			}
			h.frames(w, r, id)
			return
		}

		id := path
		switch r.Method {
		case http.MethodGet:
			h.get(w, r, id)
		case http.MethodDelete:
			h.delete(w, r, id)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

// Request and response types

type startRecordingRequest struct {
	Name string `json:"name"`
}

type recordingResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	StartedAt string `json:"started_at"`
	Frames    int    `json:"frames"`
}

type listRecordingsResponse struct {
	Recordings []recordingResponse `json:"recordings"`
	Active     string              `json:"active,omitempty"`
}

type frameResponse struct {
	Seq          int     `json:"seq"`
	TimestampMs  int64   `json:"timestamp_ms"`
	GrabStrength float64 `json:"grabStrength"`
	PalmFacing   bool    `json:"palmFacing"`
	HandScale    float64 `json:"handScale"`
	Valid        bool    `json:"valid"`
	PalmX        float64 `json:"palmX"`
	PalmY        float64 `json:"palmY"`
}

type listFramesResponse struct {
	Frames []frameResponse `json:"frames"`
}

// toRecordingResponse converts a store.Recording to a recordingResponse.
func toRecordingResponse(rec *store.Recording) recordingResponse {
	return recordingResponse{
		ID:        rec.ID,
		Name:      rec.Name,
		StartedAt: rec.StartedAt.Format(time.RFC3339),
		Frames:    rec.Frames,
	}
}

// list handles GET /api/recordings and returns all recordings.
func (h *RecordingHandler) list(w http.ResponseWriter, r *http.Request) {
	recordings, err := h.store.Recordings().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list recordings")
		return
	}

	response := listRecordingsResponse{
		Recordings: make([]recordingResponse, 0, len(recordings)),
	}
	for _, rec := range recordings {
		response.Recordings = append(response.Recordings, toRecordingResponse(rec))
	}
	if h.recorder != nil {
		response.Active = h.recorder.Active()
	}

	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/recordings/{id}.
func (h *RecordingHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	rec, err := h.store.Recordings().Get(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Recording not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get recording")
		return
	}

	writeJSON(w, http.StatusOK, toRecordingResponse(rec))
}

// frames handles GET /api/recordings/{id}/frames and returns the captured
// classifier output in sequence order.
func (h *RecordingHandler) frames(w http.ResponseWriter, r *http.Request, id string) {
	if _, err := h.store.Recordings().Get(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Recording not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get recording")
		return
	}

	frames, err := h.store.Recordings().GetFrames(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get frames")
		return
	}

	response := listFramesResponse{
		Frames: make([]frameResponse, 0, len(frames)),
	}
	for _, f := range frames {
		response.Frames = append(response.Frames, frameResponse{
			Seq:          f.Seq,
			TimestampMs:  f.TimestampMs,
			GrabStrength: f.Output.GrabStrength,
			PalmFacing:   f.Output.PalmFacing,
			HandScale:    f.Output.HandScale,
			Valid:        f.Output.Valid,
			PalmX:        f.PalmX,
			PalmY:        f.PalmY,
		})
	}

	writeJSON(w, http.StatusOK, response)
}

// start handles POST /api/recordings/start and begins a new recording.
func (h *RecordingHandler) start(w http.ResponseWriter, r *http.Request) {
	if h.recorder == nil {
		writeError(w, http.StatusServiceUnavailable, "No live session to record")
		return
	}

	var req startRecordingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Name == "" {
		req.Name = "recording " + time.Now().Format("2006-01-02 15:04:05")
	}

	id, err := h.recorder.Start(req.Name)
	if err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// stop handles POST /api/recordings/stop and ends the active recording.
func (h *RecordingHandler) stop(w http.ResponseWriter, r *http.Request) {
	if h.recorder == nil {
		writeError(w, http.StatusServiceUnavailable, "No live session to record")
		return
	}

	if err := h.recorder.Stop(); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to stop recording")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// delete handles DELETE /api/recordings/{id} and removes a recording with
// its frames.
func (h *RecordingHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	err := h.store.Recordings().Delete(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Recording not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete recording")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
