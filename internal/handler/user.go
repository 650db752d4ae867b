package handler

import (
	"net/http"

	"github.com/forgo/clanhub/api/internal/model"
	"github.com/forgo/clanhub/api/internal/service"
)

// defaultUserDepth is the render depth user endpoints use when the client
// does not ask for one.
const defaultUserDepth = 1

// UserHandler handles user HTTP requests
type UserHandler struct {
	users  *service.UserService
	render *service.RenderService
}

// NewUserHandler creates a new user handler
func NewUserHandler(users *service.UserService, render *service.RenderService) *UserHandler {
	return &UserHandler{users: users, render: render}
}

// Get handles GET /v1/users/{id}
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := h.users.GetByID(ctx, r.PathValue("id"))
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	depth := service.ClampDepth(queryInt(r, "depth", defaultUserDepth))
	rendered, err := h.render.User(ctx, user, depth)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteJSON(w, http.StatusOK, rendered)
}

// Create handles POST /v1/users
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req model.CreateUserRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body: "+err.Error()))
		return
	}

	user, err := h.users.Create(ctx, req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	rendered, err := h.render.User(ctx, user, defaultUserDepth)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteJSON(w, http.StatusCreated, rendered)
}

// Update handles PATCH /v1/users/{id}
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req model.UpdateUserRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body: "+err.Error()))
		return
	}

	user, err := h.users.Update(ctx, r.PathValue("id"), req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	rendered, err := h.render.User(ctx, user, defaultUserDepth)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteJSON(w, http.StatusOK, rendered)
}

// Delete handles DELETE /v1/users/{id}
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.users.Delete(r.Context(), r.PathValue("id")); err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteNoContent(w)
}

// List handles GET /v1/users?page&limit&q
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	page, err := h.users.List(ctx, model.UserListFilter{
		Page:  queryInt(r, "page", 1),
		Limit: queryInt(r, "limit", 25),
		Query: r.URL.Query().Get("q"),
	})
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	users, _ := page.Items.([]*model.User)
	depth := service.ClampDepth(queryInt(r, "depth", defaultUserDepth))
	rendered, err := h.render.Users(ctx, users, depth)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	page.Items = rendered

	WritePage(w, page)
}

// Search handles POST /v1/users/search
func (h *UserHandler) Search(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req model.SearchUsersRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body: "+err.Error()))
		return
	}

	users, err := h.users.Search(ctx, req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	rendered, err := h.render.Users(ctx, users, defaultUserDepth)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteJSON(w, http.StatusOK, rendered)
}

// Clans handles GET /v1/users/{id}/clans
func (h *UserHandler) Clans(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	clans, err := h.users.Clans(ctx, r.PathValue("id"))
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	depth := service.ClampDepth(queryInt(r, "depth", defaultUserDepth))
	rendered, err := h.render.Clans(ctx, clans, depth)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteJSON(w, http.StatusOK, rendered)
}
