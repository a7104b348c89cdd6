// Package api exposes the jako REST surface: shared-password login,
// event and goods CRUD, the all-or-nothing goods batch, and receipt
// processing. All endpoints speak JSON; errors use a {code, message}
// envelope.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ihanakangas/jako/internal/auth"
	"github.com/ihanakangas/jako/internal/middleware"
	"github.com/ihanakangas/jako/internal/receipt"
	"github.com/ihanakangas/jako/internal/storage"
)

// Server holds the handlers' dependencies.
type Server struct {
	store    storage.Store
	gate     *auth.Gate
	jwt      *auth.JWTManager
	receipts *receipt.Service
}

// NewServer wires the API against its collaborators.
func NewServer(store storage.Store, gate *auth.Gate, jwt *auth.JWTManager, receipts *receipt.Service) *Server {
	return &Server{store: store, gate: gate, jwt: jwt, receipts: receipts}
}

// Routes builds the router with logging and metrics on everything and
// token auth on everything except login, health and metrics.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestLogger)
	r.Use(middleware.Metrics)

	r.Get("/auth", s.handleLogin)
	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(s.jwt))

		r.Get("/events", s.handleListEvents)
		r.Post("/events", s.handleCreateEvent)
		r.Delete("/events/{event}", s.handleDeleteEvent)

		r.Get("/events/{event}/goods", s.handleListGoods)
		r.Post("/events/{event}/goods", s.handleCreateGood)
		r.Put("/events/{event}/goods/{id}", s.handleUpdateGood)
		r.Delete("/events/{event}/goods/{id}", s.handleDeleteGood)
		r.Post("/events/{event}/goods/batch", s.handleCreateGoodsBatch)

		r.Post("/receipts/process", s.handleProcessReceipt)
	})

	return r
}

// handleLogin handles GET /auth?password=...
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	password := r.URL.Query().Get("password")
	if err := s.gate.Check(password); err != nil {
		slog.Warn("Login rejected", "remote_addr", r.RemoteAddr)
		writeJSONError(w, http.StatusUnauthorized, "unauthorized", "invalid password")
		return
	}

	token, err := s.jwt.Generate()
	if err != nil {
		slog.Error("Token generation failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "server_error", "failed to issue token")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// pinger is implemented by stores that can report backend liveness.
type pinger interface {
	Ping(ctx context.Context) error
}

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if p, ok := s.store.(pinger); ok {
		if err := p.Ping(r.Context()); err != nil {
			writeJSONError(w, http.StatusServiceUnavailable, "unhealthy", "database unreachable")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]string{"code": code, "message": message})
}

// writeStoreError maps storage sentinels onto status codes.
func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		writeJSONError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, storage.ErrEventExists):
		writeJSONError(w, http.StatusConflict, "conflict", err.Error())
	default:
		slog.Error("Store operation failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "server_error", "storage failure")
	}
}
