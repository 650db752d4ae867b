package handler

import (
	"net/http"

	"github.com/forgo/clanhub/api/internal/model"
	"github.com/forgo/clanhub/api/internal/service"
)

// defaultClanDepth is the render depth clan endpoints use when the client
// does not ask for one.
const defaultClanDepth = 2

// ClanHandler handles clan HTTP requests
type ClanHandler struct {
	clans  *service.ClanService
	render *service.RenderService
}

// NewClanHandler creates a new clan handler
func NewClanHandler(clans *service.ClanService, render *service.RenderService) *ClanHandler {
	return &ClanHandler{clans: clans, render: render}
}

// Get handles GET /v1/clans/{id}
func (h *ClanHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	clan, err := h.clans.GetByID(ctx, r.PathValue("id"))
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	depth := service.ClampDepth(queryInt(r, "depth", defaultClanDepth))
	rendered, err := h.render.Clan(ctx, clan, depth)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteJSON(w, http.StatusOK, rendered)
}

// Create handles POST /v1/clans
func (h *ClanHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req model.CreateClanRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body: "+err.Error()))
		return
	}

	clan, err := h.clans.Create(ctx, req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	rendered, err := h.render.Clan(ctx, clan, 1)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteJSON(w, http.StatusCreated, rendered)
}

// Update handles PATCH /v1/clans/{id}
func (h *ClanHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req model.UpdateClanRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body: "+err.Error()))
		return
	}

	clan, err := h.clans.Update(ctx, r.PathValue("id"), req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	rendered, err := h.render.Clan(ctx, clan, 1)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteJSON(w, http.StatusOK, rendered)
}

// Delete handles DELETE /v1/clans/{id}
func (h *ClanHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.clans.Delete(r.Context(), r.PathValue("id")); err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteNoContent(w)
}

// List handles GET /v1/clans?page&limit&filter&sort&desc&exact
func (h *ClanHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	page, err := h.clans.List(ctx, model.ClanListFilter{
		Page:   queryInt(r, "page", 1),
		Limit:  queryInt(r, "limit", 25),
		Filter: r.URL.Query().Get("filter"),
		Sort:   r.URL.Query().Get("sort"),
		Desc:   queryBool(r, "desc"),
		Exact:  queryBool(r, "exact"),
	})
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	clans, _ := page.Items.([]*model.Clan)
	depth := service.ClampDepth(queryInt(r, "depth", 1))
	rendered, err := h.render.Clans(ctx, clans, depth)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	page.Items = rendered

	WritePage(w, page)
}

// Check handles GET /v1/clans/check?clanname=|clantag=. A taken name or tag
// answers 204, a free one 404, mirroring the user availability check.
func (h *ClanHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	name := r.URL.Query().Get("clanname")
	tag := r.URL.Query().Get("clantag")
	if (name == "") == (tag == "") {
		WriteError(w, model.NewBadRequestError("exactly one of clanname or clantag is required"))
		return
	}

	var exists bool
	var err error
	if name != "" {
		exists, err = h.clans.NameExists(ctx, name)
	} else {
		exists, err = h.clans.TagExists(ctx, tag)
	}
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	if !exists {
		WriteError(w, model.NewNotFoundError("clan"))
		return
	}
	WriteNoContent(w)
}

// Bulk handles POST /v1/clans/bulk {uuids}
func (h *ClanHandler) Bulk(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req model.BulkRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body: "+err.Error()))
		return
	}
	if len(req.UUIDs) == 0 {
		WriteError(w, model.NewBadRequestError("uuids is required"))
		return
	}

	clans, err := h.clans.GetBulk(ctx, req.UUIDs)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	depth := service.ClampDepth(queryInt(r, "depth", 1))
	rendered, err := h.render.Clans(ctx, clans, depth)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteJSON(w, http.StatusOK, rendered)
}

// Authorize handles POST /v1/clans/authorize {name,secret}. As with user
// logins, an unknown clan and a wrong secret produce the same 404.
func (h *ClanHandler) Authorize(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req model.ClanAuthorizeRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body: "+err.Error()))
		return
	}
	if req.Name == "" || req.Secret == "" {
		WriteError(w, model.NewBadRequestError("name and secret are required"))
		return
	}

	clan, err := h.clans.Authorize(ctx, req.Name, req.Secret)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	rendered, err := h.render.Clan(ctx, clan, 1)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteJSON(w, http.StatusOK, rendered)
}
