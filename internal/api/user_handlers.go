package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/example/furniture-shop/internal/user"
)

// UserHandlers covers the admin user management surface.
type UserHandlers struct {
	users *user.Service
}

func NewUserHandlers(users *user.Service) *UserHandlers {
	return &UserHandlers{users: users}
}

func (h *UserHandlers) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, users)
}

type setAdminRequest struct {
	IsAdmin bool `json:"isAdmin"`
}

func (h *UserHandlers) SetAdmin(w http.ResponseWriter, r *http.Request) {
	var req setAdminRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	u, err := h.users.SetAdmin(r.Context(), mux.Vars(r)["id"], req.IsAdmin)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, u)
}

func (h *UserHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.users.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		respondServiceError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "user deleted")
}
