package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"brightsteps/internal/security"
	"brightsteps/internal/service"
)

// AuthHandler handles kid sign-in and the parent PIN endpoints.
type AuthHandler struct {
	authService *service.AuthService
	csrf        *security.CSRFGenerator
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService *service.AuthService, csrf *security.CSRFGenerator) *AuthHandler {
	return &AuthHandler{authService: authService, csrf: csrf}
}

// KidLogin signs a kid in and sets the session cookie.
func (h *AuthHandler) KidLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidRequestBody, "", err)
		return
	}

	session, kid, err := h.authService.Login(strings.TrimSpace(req.Username), req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			respondJSON(w, http.StatusUnauthorized, errorResponse{Error: ErrUnauthorized})
			return
		}
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Kid login failed", err)
		return
	}

	csrfToken, err := h.csrf.GenerateToken(session.ID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to generate CSRF token", err)
		return
	}

	http.SetCookie(w, security.CreateSessionCookie(r, KidSessionCookieName, session.ID, session.ExpiresAt))
	respondJSON(w, http.StatusOK, loginResponse{Kid: newKidView(kid), CSRFToken: csrfToken})
}

// KidLogout ends the kid session and clears the cookie.
func (h *AuthHandler) KidLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(KidSessionCookieName); err == nil {
		if err := h.authService.Logout(cookie.Value); err != nil {
			respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Kid logout failed", err)
			return
		}
	}

	http.SetCookie(w, security.CreateDeleteCookie(r, KidSessionCookieName))
	w.WriteHeader(http.StatusNoContent)
}

// CreateKid registers a new kid profile. Guarded by the parent token.
func (h *AuthHandler) CreateKid(w http.ResponseWriter, r *http.Request) {
	var req createKidRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidRequestBody, "", err)
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "Name is required"})
		return
	}

	kid, password, err := h.authService.CreateKid(name, req.AvatarColor, strings.TrimSpace(req.ParentEmail))
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to create kid", err)
		return
	}

	respondJSON(w, http.StatusCreated, createKidResponse{Kid: newKidView(kid), Password: password})
}

// SetParentPIN stores the parent PIN. The first call bootstraps the PIN;
// changing an existing PIN requires a valid parent token, which the
// route wiring enforces.
func (h *AuthHandler) SetParentPIN(w http.ResponseWriter, r *http.Request) {
	var req parentPINRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidRequestBody, "", err)
		return
	}

	if len(req.PIN) < 4 {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "PIN must be at least 4 characters"})
		return
	}

	if err := h.authService.SetParentPIN(req.PIN); err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to set parent PIN", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// VerifyParentPIN checks the PIN and returns a short-lived token for
// destructive operations.
func (h *AuthHandler) VerifyParentPIN(w http.ResponseWriter, r *http.Request) {
	var req parentPINRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidRequestBody, "", err)
		return
	}

	token, err := h.authService.VerifyParentPIN(req.PIN)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidParentPIN), errors.Is(err, service.ErrParentPINNotSet):
			respondJSON(w, http.StatusUnauthorized, errorResponse{Error: ErrUnauthorized})
		default:
			respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Parent PIN check failed", err)
		}
		return
	}

	respondJSON(w, http.StatusOK, parentTokenResponse{Token: token})
}
