package api

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter wires the API routes. Everything under /api/v1/profiles
// requires a session token; /api/v1/sessions does not.
func NewRouter(h *Handler) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/api/v1/sessions", h.Login).Methods(http.MethodPost)

	p := r.PathPrefix("/api/v1/profiles").Subrouter()
	p.Use(h.authenticate)
	p.HandleFunc("", h.ListProfiles).Methods(http.MethodGet)
	p.HandleFunc("", h.CreateProfile).Methods(http.MethodPost)
	p.HandleFunc("/{id}", h.UpdateProfile).Methods(http.MethodPut)
	p.HandleFunc("/{id}", h.DeleteProfile).Methods(http.MethodDelete)

	return r
}
