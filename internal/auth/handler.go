package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/evcharger-search/evcharger-search/internal/platform/httpx"
	"github.com/evcharger-search/evcharger-search/internal/shared"
)

// Handler exposes the admin credential check.
type Handler struct{}

// NewHandler constructs a Handler instance.
func NewHandler() *Handler {
	return &Handler{}
}

// MountRoutes registers auth routes. They must run behind BasicAuth.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/auth", h.check)
}

type authStatus struct {
	Authenticated bool   `json:"authenticated"`
	Username      string `json:"username"`
	Role          string `json:"role"`
}

func (h *Handler) check(w http.ResponseWriter, r *http.Request) {
	admin := shared.AdminFromContext(r.Context())
	if admin == nil {
		httpx.Fail(w, http.StatusUnauthorized, shared.ErrAuthRequired.Error())
		return
	}
	httpx.Success(w, http.StatusOK, authStatus{Authenticated: true, Username: admin.Username, Role: admin.Role})
}
