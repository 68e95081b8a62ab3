package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/render"

	"github.com/mquell/listling/internal/middleware"
	"github.com/mquell/listling/internal/models"
	"github.com/mquell/listling/internal/service"
)

// UserHandler serves onboarding, login and username management.
type UserHandler struct {
	users *service.UserService
}

// NewUserHandler creates a UserHandler backed by the given service.
func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

type usernameRequest struct {
	Username string `json:"username"`
}

type sessionResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// HandleRegister creates a new username.
//
// POST /api/users {"username": "alice"} → 201 {user, token}
func (h *UserHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req usernameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, r)
		return
	}

	user, token, err := h.users.Register(r.Context(), req.Username)
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, sessionResponse{User: user, Token: token})
}

// HandleLogin resolves an existing username into a fresh session.
//
// POST /api/sessions {"username": "alice"} → 200 {user, token}
func (h *UserHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req usernameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, r)
		return
	}

	user, token, err := h.users.Login(r.Context(), req.Username)
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, r, sessionResponse{User: user, Token: token})
}

// HandleMe returns the authenticated user.
//
// GET /api/users/me → 200 user
func (h *UserHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.Get(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, user)
}

// HandleRename changes the authenticated user's username. The old
// token keeps working until expiry but carries the stale name, so a
// fresh token is returned.
//
// PATCH /api/users/me {"username": "alicia"} → 200 {user, token}
func (h *UserHandler) HandleRename(w http.ResponseWriter, r *http.Request) {
	var req usernameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, r)
		return
	}

	user, token, err := h.users.Rename(r.Context(), middleware.GetUserID(r.Context()), req.Username)
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, r, sessionResponse{User: user, Token: token})
}
