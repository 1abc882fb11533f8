package handlers

import (
	"errors"
	"net/http"
	"strings"

	authsvc "github.com/SilverAnton/UserIteractionProj/internal/services/auth"
	"github.com/SilverAnton/UserIteractionProj/internal/transport/http/dto"
	httperrors "github.com/SilverAnton/UserIteractionProj/internal/transport/http/errors"
)

type AuthHandler struct {
	service *authsvc.Service
}

func NewAuthHandler(service *authsvc.Service) *AuthHandler {
	return &AuthHandler{service: service}
}

// Login accepts JSON credentials or a classic urlencoded form with a
// "username" field carrying the email.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "AUTH_SERVICE_UNAVAILABLE", "auth service is unavailable")
		return
	}

	email, password, ok := h.decodeCredentials(w, r)
	if !ok {
		return
	}

	res, err := h.service.Login(r.Context(), email, password)
	if err != nil {
		switch {
		case errors.Is(err, authsvc.ErrInvalidInput):
			writeBadRequest(w, "VALIDATION_ERROR", "email and password are required")
		case errors.Is(err, authsvc.ErrInvalidCredentials):
			writeUnauthorized(w, "INVALID_CREDENTIALS", "invalid email or password")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to log in")
		}
		return
	}

	httperrors.Write(w, http.StatusOK, dto.TokenResponse{
		AccessToken: res.AccessToken,
		TokenType:   "bearer",
	})
}

func (h *AuthHandler) decodeCredentials(w http.ResponseWriter, r *http.Request) (string, string, bool) {
	contentType := r.Header.Get("Content-Type")

	if strings.HasPrefix(contentType, "application/json") {
		var req dto.LoginRequest
		if err := decodeJSON(r, &req); err != nil {
			writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
			return "", "", false
		}
		return req.Email, req.Password, true
	}

	if err := r.ParseForm(); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid form body")
		return "", "", false
	}

	email := r.PostFormValue("username")
	if email == "" {
		email = r.PostFormValue("email")
	}
	return email, r.PostFormValue("password"), true
}
