package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Handler exposes session HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/session", func(r chi.Router) {
		r.Get("/", h.state)
		r.Post("/setup", h.setup)
		r.Post("/login", h.login)
		r.Post("/logout", h.logout)
	})
}

type sessionResponse struct {
	Identity *Identity `json:"identity"`
	Token    string    `json:"token"`
}

func (h *Handler) state(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, map[string]State{"state": h.service.State()})
}

func (h *Handler) setup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
		PIN  string `json:"pin"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "invalid request payload"})
		return
	}
	identity, token, err := h.service.Setup(r.Context(), req.Name, req.PIN)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusCreated, sessionResponse{Identity: identity, Token: token})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PIN string `json:"pin"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "invalid request payload"})
		return
	}
	identity, token, err := h.service.Login(r.Context(), req.PIN)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, sessionResponse{Identity: identity, Token: token})
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Logout(); err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]string{"status": "logged out"})
}

func respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		respond(w, http.StatusUnauthorized, map[string]string{"error": err.Error()})
	case errors.Is(err, ErrInvalidState):
		respond(w, http.StatusConflict, map[string]string{"error": err.Error()})
	default:
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
