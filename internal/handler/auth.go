package handler

import (
	"net/http"

	"github.com/forgo/clanhub/api/internal/model"
	"github.com/forgo/clanhub/api/internal/service"
)

// AuthHandler handles registration, login, and availability checks
type AuthHandler struct {
	users  *service.UserService
	render *service.RenderService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(users *service.UserService, render *service.RenderService) *AuthHandler {
	return &AuthHandler{users: users, render: render}
}

// Register handles POST /v1/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req model.RegisterRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body: "+err.Error()))
		return
	}

	user, err := h.users.Register(ctx, req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	rendered, err := h.render.User(ctx, user, 1)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteJSON(w, http.StatusCreated, rendered)
}

// authorizeRequest carries a user login attempt.
type authorizeRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Authorize handles POST /v1/auth/authorize. Success is a bare 204; any
// failure, whether the account is unknown or the password wrong, is the same
// 404 so accounts cannot be enumerated.
func (h *AuthHandler) Authorize(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req authorizeRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body: "+err.Error()))
		return
	}
	if req.Email == "" || req.Password == "" {
		WriteError(w, model.NewBadRequestError("email and password are required"))
		return
	}

	if _, err := h.users.Authorize(ctx, req.Email, req.Password); err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteNoContent(w)
}

// Check handles GET /v1/auth/check?email=|nickname=. A taken identity
// answers 204, a free one 404, so clients can probe availability without a
// body.
func (h *AuthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	email := r.URL.Query().Get("email")
	nickname := r.URL.Query().Get("nickname")
	if (email == "") == (nickname == "") {
		WriteError(w, model.NewBadRequestError("exactly one of email or nickname is required"))
		return
	}

	var exists bool
	var err error
	if email != "" {
		exists, err = h.users.EmailExists(ctx, email)
	} else {
		exists, err = h.users.NicknameExists(ctx, nickname)
	}
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	if !exists {
		WriteError(w, model.NewNotFoundError("identity"))
		return
	}
	WriteNoContent(w)
}
