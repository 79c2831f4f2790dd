// Package api provides HTTP API handlers for the Nebula tracking daemon.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/nebula/internal/control"
	"github.com/ayusman/nebula/internal/store"
)

// Tuner is the live control surface a profile can be applied to.
type Tuner interface {
	SetTuning(control.Tuning)
	Tuning() control.Tuning
}

// ProfileHandler handles HTTP requests for tuning profile resources.
type ProfileHandler struct {
	store *store.Store
	tuner Tuner
}

// NewProfileHandler creates a new ProfileHandler with the given store.
// tuner may be nil, in which case profiles cannot be applied.
func NewProfileHandler(s *store.Store, tuner Tuner) *ProfileHandler {
	return &ProfileHandler{store: s, tuner: tuner}
}

// ServeHTTP implements the http.Handler interface and routes requests to
// the appropriate methods.
func (h *ProfileHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Expected paths: /api/profiles, /api/profiles/{id}, /api/profiles/{id}/apply
	path := strings.TrimPrefix(r.URL.Path, "/api/profiles")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		// Collection endpoint: /api/profiles
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodPost:
			h.create(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	if id, ok := strings.CutSuffix(path, "/apply"); ok {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.apply(w, r, id)
		return
	}

	// Item endpoint: /api/profiles/{id}
	id := path
	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodPut:
		h.update(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Request and response types

type profileRequest struct {
	Name   string          `json:"name"`
	Tuning json.RawMessage `json:"tuning"`
}

type profileResponse struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Tuning    control.Tuning `json:"tuning"`
	CreatedAt string         `json:"created_at"`
	UpdatedAt string         `json:"updated_at"`
}

type listProfilesResponse struct {
	Profiles []profileResponse `json:"profiles"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// toProfileResponse converts a store.Profile to a profileResponse.
func toProfileResponse(p *store.Profile) profileResponse {
	return profileResponse{
		ID:        p.ID,
		Name:      p.Name,
		Tuning:    p.Tuning,
		CreatedAt: p.CreatedAt.Format(time.RFC3339),
		UpdatedAt: p.UpdatedAt.Format(time.RFC3339),
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// list handles GET /api/profiles and returns all profiles.
func (h *ProfileHandler) list(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.store.Profiles().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list profiles")
		return
	}

	response := listProfilesResponse{
		Profiles: make([]profileResponse, 0, len(profiles)),
	}
	for _, p := range profiles {
		response.Profiles = append(response.Profiles, toProfileResponse(p))
	}

	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/profiles/{id} and returns a single profile.
func (h *ProfileHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	profile, err := h.store.Profiles().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Profile not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get profile")
		return
	}

	writeJSON(w, http.StatusOK, toProfileResponse(profile))
}

// create handles POST /api/profiles and creates a new profile. The tuning
// defaults to the built-in values when omitted.
func (h *ProfileHandler) create(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Name is required")
		return
	}

	// Partial tuning objects overlay the built-in defaults.
	tuning := control.DefaultTuning()
	if len(req.Tuning) > 0 {
		if err := json.Unmarshal(req.Tuning, &tuning); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid tuning")
			return
		}
	}
	if tuning.GrabThreshold <= 0 || tuning.GrabThreshold >= 1 {
		writeError(w, http.StatusBadRequest, "Grab threshold must be in (0, 1)")
		return
	}

	profile := &store.Profile{
		ID:     uuid.New().String(),
		Name:   req.Name,
		Tuning: tuning,
	}

	if err := h.store.Profiles().Create(profile); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create profile")
		return
	}

	writeJSON(w, http.StatusCreated, toProfileResponse(profile))
}

// update handles PUT /api/profiles/{id} and updates an existing profile.
func (h *ProfileHandler) update(w http.ResponseWriter, r *http.Request, id string) {
	profile, err := h.store.Profiles().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Profile not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get profile")
		return
	}

	var req profileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Name != "" {
		profile.Name = req.Name
	}
	if len(req.Tuning) > 0 {
		// Overlay on the stored tuning so a partial update keeps the rest.
		if err := json.Unmarshal(req.Tuning, &profile.Tuning); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid tuning")
			return
		}
		if profile.Tuning.GrabThreshold <= 0 || profile.Tuning.GrabThreshold >= 1 {
			writeError(w, http.StatusBadRequest, "Grab threshold must be in (0, 1)")
			return
		}
	}

	if err := h.store.Profiles().Update(profile); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	writeJSON(w, http.StatusOK, toProfileResponse(profile))
}

// delete handles DELETE /api/profiles/{id} and removes a profile.
func (h *ProfileHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	err := h.store.Profiles().Delete(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Profile not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete profile")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// apply handles POST /api/profiles/{id}/apply and pushes the profile's
// tuning to the live session.
func (h *ProfileHandler) apply(w http.ResponseWriter, r *http.Request, id string) {
	if h.tuner == nil {
		writeError(w, http.StatusServiceUnavailable, "No live session to apply to")
		return
	}

	profile, err := h.store.Profiles().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Profile not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get profile")
		return
	}

	h.tuner.SetTuning(profile.Tuning)
	writeJSON(w, http.StatusOK, toProfileResponse(profile))
}
