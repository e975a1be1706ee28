package api

import (
	"encoding/json"
	"net/http"

	"github.com/garnizeh/scribe/internal/account"
)

type AuthHandler struct {
	accounts *account.Service
	errs     *ErrorWriter
}

// NewAuthHandler creates a new AuthHandler with required dependencies.
func NewAuthHandler(accounts *account.Service, errs *ErrorWriter) *AuthHandler {
	return &AuthHandler{accounts: accounts, errs: errs}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req account.RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errs.BadRequest(w, "Invalid request", err)
		return
	}

	if _, err := h.accounts.Register(r.Context(), req); err != nil {
		h.errs.Write(w, r, err)
		return
	}

	writeJSON(w, messageResponse{Message: "User registered successfully"}, http.StatusOK)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errs.BadRequest(w, "Invalid request", err)
		return
	}

	res, err := h.accounts.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}

	writeJSON(w, res, http.StatusOK)
}
