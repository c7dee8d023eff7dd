package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go-equipment-analytics/internal/auth"
	"go-equipment-analytics/internal/model"
	"go-equipment-analytics/internal/ports"
)

// MeResponse identifies the caller.
type MeResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Login exchanges credentials for an access token
// @Summary Log in
// @Description Exchange a username and password for a bearer access token
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body model.LoginRequest true "Credentials"
// @Success 200 {object} model.TokenResponse
// @Failure 400 {object} ErrorResponse "Invalid request payload"
// @Failure 401 {object} ErrorResponse "Invalid credentials"
// @Router /auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		writeDetail(w, http.StatusBadRequest, "username and password are required")
		return
	}

	user, err := h.users.GetUserByUsername(r.Context(), req.Username)
	if err == nil {
		err = auth.CheckPassword(user.PasswordHash, req.Password)
	}
	if errors.Is(err, ports.ErrNotFound) || errors.Is(err, auth.ErrInvalidCredentials) {
		writeDetail(w, http.StatusUnauthorized, "No active account found with the given credentials")
		return
	}
	if err != nil {
		h.log.Error("Failed to look up user", "username", req.Username, "error", err)
		internalError(w)
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		h.log.Error("Failed to issue token", "user_id", user.ID, "error", err)
		internalError(w)
		return
	}
	writeJSON(w, http.StatusOK, model.TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int(h.tokens.TTL().Seconds()),
	})
}

// Me returns the authenticated user
// @Summary Current user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} MeResponse
// @Failure 401 {object} ErrorResponse
// @Router /me [get]
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())
	user, err := h.users.GetUser(r.Context(), userID)
	if errors.Is(err, ports.ErrNotFound) {
		writeDetail(w, http.StatusUnauthorized, "User not found")
		return
	}
	if err != nil {
		h.log.Error("Failed to load user", "user_id", userID, "error", err)
		internalError(w)
		return
	}
	writeJSON(w, http.StatusOK, MeResponse{ID: user.ID, Username: user.Username})
}
