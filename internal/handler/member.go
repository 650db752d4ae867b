package handler

import (
	"net/http"

	"github.com/forgo/clanhub/api/internal/model"
	"github.com/forgo/clanhub/api/internal/service"
)

// MemberHandler handles clan membership HTTP requests
type MemberHandler struct {
	memberships *service.MembershipService
	render      *service.RenderService
}

// NewMemberHandler creates a new membership handler
func NewMemberHandler(memberships *service.MembershipService, render *service.RenderService) *MemberHandler {
	return &MemberHandler{memberships: memberships, render: render}
}

// AddMembers handles POST /v1/clans/{id}/users. The body takes a single
// uuid or a list; 204 when at least one user actually joined, 200 when all
// of them were already members.
func (h *MemberHandler) AddMembers(w http.ResponseWriter, r *http.Request) {
	h.addMembers(w, r, false)
}

// AddAdmins handles POST /v1/clans/{id}/admins. Non-members are joined
// directly as admins; existing members get promoted.
func (h *MemberHandler) AddAdmins(w http.ResponseWriter, r *http.Request) {
	h.addMembers(w, r, true)
}

func (h *MemberHandler) addMembers(w http.ResponseWriter, r *http.Request, asAdmin bool) {
	ctx := r.Context()

	var req model.MemberChangeRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body: "+err.Error()))
		return
	}
	if len(req.UUID) == 0 {
		WriteError(w, model.NewBadRequestError("uuid is required"))
		return
	}

	changed, err := h.memberships.AddMembers(ctx, r.PathValue("id"), req.UUID, asAdmin)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	if changed {
		WriteNoContent(w)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "already_member"})
}

// RemoveMember handles DELETE /v1/clans/{id}/users/{user}. Removal is
// strict by default; ?force=true bypasses the last-admin floor for
// owner-initiated removals.
func (h *MemberHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	strict := !queryBool(r, "force")

	err := h.memberships.RemoveMembers(ctx, r.PathValue("id"), []string{r.PathValue("user")}, strict)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteNoContent(w)
}

// RemoveMembers handles DELETE /v1/clans/{id}/users with a body listing the
// users. Removals apply sequentially; on failure the earlier removals stand.
func (h *MemberHandler) RemoveMembers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req model.MemberChangeRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body: "+err.Error()))
		return
	}
	if len(req.UUID) == 0 {
		WriteError(w, model.NewBadRequestError("uuid is required"))
		return
	}

	strict := !queryBool(r, "force")
	if err := h.memberships.RemoveMembers(ctx, r.PathValue("id"), req.UUID, strict); err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteNoContent(w)
}

// RemoveAdmin handles DELETE /v1/clans/{id}/admins/{user}, demoting an
// admin to a regular member. The membership itself survives.
func (h *MemberHandler) RemoveAdmin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	outcome, err := h.memberships.Demote(ctx, r.PathValue("id"), r.PathValue("user"))
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	if outcome == service.OutcomeNotMember {
		WriteError(w, model.NewNotFoundError("admin"))
		return
	}
	WriteNoContent(w)
}

// ListMembers handles GET /v1/clans/{id}/users
func (h *MemberHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	h.listMembers(w, r, false)
}

// ListAdmins handles GET /v1/clans/{id}/admins
func (h *MemberHandler) ListAdmins(w http.ResponseWriter, r *http.Request) {
	h.listMembers(w, r, true)
}

func (h *MemberHandler) listMembers(w http.ResponseWriter, r *http.Request, adminsOnly bool) {
	ctx := r.Context()

	members, err := h.memberships.Members(ctx, r.PathValue("id"), adminsOnly)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	depth := service.ClampDepth(queryInt(r, "depth", 1))
	rendered, err := h.render.Members(ctx, members, depth)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteJSON(w, http.StatusOK, rendered)
}
