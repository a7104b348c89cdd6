package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ihanakangas/jako/internal/models"
)

// handleListEvents handles GET /events
func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := s.store.ListEvents(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if events == nil {
		events = []models.Event{}
	}
	writeJSON(w, http.StatusOK, events)
}

// handleCreateEvent handles POST /events
func (s *Server) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "malformed JSON body")
		return
	}
	if strings.TrimSpace(in.Name) == "" {
		writeJSONError(w, http.StatusBadRequest, "invalid_parameter", "event name must not be empty")
		return
	}

	event := &models.Event{Name: strings.TrimSpace(in.Name), Description: in.Description}
	if err := s.store.CreateEvent(r.Context(), event); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, event)
}

// handleDeleteEvent handles DELETE /events/{event}
func (s *Server) handleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "event")
	if err := s.store.DeleteEvent(r.Context(), name); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
