package api

import (
	"encoding/json"
	"net/http"

	"github.com/garnizeh/scribe/internal/account"
	"github.com/garnizeh/scribe/internal/auth"
	"github.com/garnizeh/scribe/pkg/models"
)

// UserHandler serves the caller's own profile. Routes are mounted behind RequireAuth.
type UserHandler struct {
	gateway  *auth.Gateway
	accounts *account.Service
	errs     *ErrorWriter
}

func NewUserHandler(gw *auth.Gateway, accounts *account.Service, errs *ErrorWriter) *UserHandler {
	return &UserHandler{gateway: gw, accounts: accounts, errs: errs}
}

type wordpressResponse struct {
	Message   string                      `json:"message"`
	Wordpress *models.WordpressCredential `json:"wordpress"`
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	u, err := h.gateway.ResolveContext(r.Context())
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}

	p, err := h.accounts.Profile(r.Context(), u)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}

	writeJSON(w, p, http.StatusOK)
}

func (h *UserHandler) SaveWordpress(w http.ResponseWriter, r *http.Request) {
	var req account.WordpressInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errs.BadRequest(w, "Invalid request", err)
		return
	}

	u, err := h.gateway.ResolveContext(r.Context())
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}

	cred, err := h.accounts.SaveWordpress(r.Context(), u, req)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}

	writeJSON(w, wordpressResponse{Message: "WordPress credentials saved", Wordpress: cred}, http.StatusOK)
}
