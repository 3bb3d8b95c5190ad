// Package api exposes the vault service over HTTP JSON: a session endpoint
// issuing bearer tokens and CRUD endpoints for profile records. Secret
// fields arrive as client-sealed envelopes and are stored verbatim.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/progitman/progitman/internal/logging"
	"github.com/progitman/progitman/internal/models"
	"github.com/progitman/progitman/internal/server/auth"
	"github.com/progitman/progitman/internal/server/config"
	"github.com/progitman/progitman/internal/server/profiles"
)

// Handler holds the dependencies shared by all endpoints.
type Handler struct {
	repo   profiles.Repository
	cfg    *config.Config
	logger logging.Logger
}

func NewHandler(repo profiles.Repository, cfg *config.Config, logger logging.Logger) *Handler {
	return &Handler{repo: repo, cfg: cfg, logger: logger.With("module", "api")}
}

type sessionRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type sessionResponse struct {
	AccessToken string `json:"access_token"`
}

// Login checks the operator credentials and returns a session token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "malformed request body", http.StatusBadRequest)
		return
	}

	if req.Username != h.cfg.OperatorUser || req.Password != h.cfg.OperatorPassword {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	token, err := auth.GenerateToken(req.Username, []byte(h.cfg.SecretKey), h.cfg.AccessTokenValidityDuration)
	if err != nil {
		h.logger.Error(r.Context(), "token generation failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse{AccessToken: token})
}

// ListProfiles returns every stored profile.
func (h *Handler) ListProfiles(w http.ResponseWriter, r *http.Request) {
	list, err := h.repo.GetAll(r.Context())
	if err != nil {
		h.logger.Error(r.Context(), "list failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []*models.Profile{}
	}
	writeJSON(w, http.StatusOK, list)
}

// CreateProfile stores a new profile and returns it with the assigned id.
func (h *Handler) CreateProfile(w http.ResponseWriter, r *http.Request) {
	var p models.Profile
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, "malformed request body", http.StatusBadRequest)
		return
	}

	stored, err := h.repo.Create(r.Context(), &p)
	if err != nil {
		h.logger.Error(r.Context(), "create failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, stored)
}

// UpdateProfile replaces the profile at {id}.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var p models.Profile
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, "malformed request body", http.StatusBadRequest)
		return
	}
	p.ID = mux.Vars(r)["id"]

	stored, err := h.repo.Update(r.Context(), &p)
	if err != nil {
		if errors.Is(err, profiles.ErrNotFound) {
			http.Error(w, "profile not found", http.StatusNotFound)
			return
		}
		h.logger.Error(r.Context(), "update failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, stored)
}

// DeleteProfile removes the profile at {id}.
func (h *Handler) DeleteProfile(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, profiles.ErrNotFound) {
			http.Error(w, "profile not found", http.StatusNotFound)
			return
		}
		h.logger.Error(r.Context(), "delete failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
