package web

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.GetAllUsers(r.Context())
	if err != nil {
		serviceError(w, r, err)
		return
	}
	writeJSON(w, users)
}

func (h *Handler) setUserIsAdmin(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	if userID == "" {
		writeError(w, r, "user id is required", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	isAdmin, err := strconv.ParseBool(chi.URLParam(r, "isAdmin"))
	if err != nil {
		writeError(w, r, "isAdmin must be true or false", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	if err := h.users.SetIsAdmin(r.Context(), authFromContext(r.Context()), userID, isAdmin); err != nil {
		serviceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
