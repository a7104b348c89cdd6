package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ihanakangas/jako/internal/models"
)

// validateNewItem re-checks what the editing layer should already have
// validated. The API does not trust its callers.
func validateNewItem(in models.NewItem) (string, bool) {
	if strings.TrimSpace(in.Label) == "" {
		return "item label must not be empty", false
	}
	if in.Price.IsNegative() {
		return "item price must not be negative", false
	}
	if len(in.Payers) == 0 {
		return "item must have at least one payer", false
	}
	for _, p := range in.Payers {
		if strings.TrimSpace(p) == "" {
			return "payer names must not be empty", false
		}
	}
	return "", true
}

// handleListGoods handles GET /events/{event}/goods
func (s *Server) handleListGoods(w http.ResponseWriter, r *http.Request) {
	event := chi.URLParam(r, "event")
	items, err := s.store.ListItems(r.Context(), event)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if items == nil {
		items = []models.Item{}
	}
	writeJSON(w, http.StatusOK, items)
}

// handleCreateGood handles POST /events/{event}/goods
func (s *Server) handleCreateGood(w http.ResponseWriter, r *http.Request) {
	event := chi.URLParam(r, "event")

	var in models.NewItem
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "malformed JSON body")
		return
	}
	if msg, ok := validateNewItem(in); !ok {
		writeJSONError(w, http.StatusBadRequest, "invalid_parameter", msg)
		return
	}

	item := &models.Item{Label: strings.TrimSpace(in.Label), Price: in.Price, Payers: in.Payers}
	if err := s.store.CreateItem(r.Context(), event, item); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

// handleUpdateGood handles PUT /events/{event}/goods/{id}
func (s *Server) handleUpdateGood(w http.ResponseWriter, r *http.Request) {
	event := chi.URLParam(r, "event")
	id := chi.URLParam(r, "id")

	var in models.NewItem
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "malformed JSON body")
		return
	}
	if msg, ok := validateNewItem(in); !ok {
		writeJSONError(w, http.StatusBadRequest, "invalid_parameter", msg)
		return
	}

	item := &models.Item{ID: id, Label: strings.TrimSpace(in.Label), Price: in.Price, Payers: in.Payers}
	if err := s.store.UpdateItem(r.Context(), event, item); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// handleDeleteGood handles DELETE /events/{event}/goods/{id}
func (s *Server) handleDeleteGood(w http.ResponseWriter, r *http.Request) {
	event := chi.URLParam(r, "event")
	id := chi.URLParam(r, "id")

	if err := s.store.DeleteItem(r.Context(), event, id); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// handleCreateGoodsBatch handles POST /events/{event}/goods/batch.
// The batch goes into storage in a single transaction: the ledger sees
// all of it or none of it.
func (s *Server) handleCreateGoodsBatch(w http.ResponseWriter, r *http.Request) {
	event := chi.URLParam(r, "event")

	var in struct {
		Items []models.NewItem `json:"items"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "malformed JSON body")
		return
	}
	if len(in.Items) == 0 {
		writeJSONError(w, http.StatusBadRequest, "invalid_parameter", "batch must not be empty")
		return
	}

	items := make([]*models.Item, len(in.Items))
	for i, ni := range in.Items {
		if msg, ok := validateNewItem(ni); !ok {
			writeJSONError(w, http.StatusBadRequest, "invalid_parameter", msg)
			return
		}
		items[i] = &models.Item{Label: strings.TrimSpace(ni.Label), Price: ni.Price, Payers: ni.Payers}
	}

	if err := s.store.CreateItems(r.Context(), event, items); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int{"created": len(items)})
}
