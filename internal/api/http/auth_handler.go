package http

import (
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"wheelhouse-backend/internal/config"
	"wheelhouse-backend/internal/logger"
	"wheelhouse-backend/internal/security"
)

// AuthHandler issues access tokens for the staff accounts listed in the
// configuration file.
type AuthHandler struct {
	staff  []config.StaffCredential
	tokens security.TokenManager
}

func NewAuthHandler(staff []config.StaffCredential, tokens security.TokenManager) *AuthHandler {
	return &AuthHandler{staff: staff, tokens: tokens}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	Role        string `json:"role"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	for _, cred := range h.staff {
		if cred.Username != req.Username {
			continue
		}
		if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(req.Password)); err != nil {
			break
		}
		token, err := h.tokens.GenerateAccessToken(cred.Username, cred.Role)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, loginResponse{AccessToken: token, Role: cred.Role})
		return
	}

	logger.Warn("failed login attempt", "username", req.Username)
	writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid credentials"})
}
