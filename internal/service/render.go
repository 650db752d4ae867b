package service

import (
	"context"

	"github.com/forgo/clanhub/api/internal/model"
)

// maxRenderDepth caps client-supplied depth values. The recursion is finite
// for any depth, but each level fans out across every membership edge, so
// unbounded depth would let one request walk the whole graph repeatedly.
const maxRenderDepth = 5

// Graph is the slice of membership storage the renderer needs to walk the
// user<->clan edges.
type Graph interface {
	UsersForClan(ctx context.Context, clanID string, adminsOnly bool) ([]model.ClanMember, error)
	ClansForUser(ctx context.Context, userID string) ([]*model.Clan, error)
}

// RenderService converts users and clans into their transport representation
// with an explicit depth bound.
//
// Depth 0 emits only the identity field, the terminal case that keeps output
// finite through the user<->clan cycle. Depth d > 0 emits all readable
// attributes plus the related aggregates rendered at d-1: clans expose
// "users" and the admin subset "admins", users expose "clans". Secret fields
// (password hash, join hash) never appear at any depth.
type RenderService struct {
	graph Graph
}

// RenderServiceConfig holds configuration for the render service
type RenderServiceConfig struct {
	Graph Graph
}

// NewRenderService creates a new render service
func NewRenderService(cfg RenderServiceConfig) *RenderService {
	return &RenderService{graph: cfg.Graph}
}

// ClampDepth bounds a client-supplied depth to the renderable range.
func ClampDepth(depth int) int {
	if depth < 0 {
		return 0
	}
	if depth > maxRenderDepth {
		return maxRenderDepth
	}
	return depth
}

// User renders a user at the given depth.
func (s *RenderService) User(ctx context.Context, user *model.User, depth int) (map[string]interface{}, error) {
	if depth <= 0 {
		return map[string]interface{}{"id": user.ID}, nil
	}

	out := map[string]interface{}{
		"id":              user.ID,
		"email":           user.Email,
		"nickname":        user.Nickname,
		"status":          user.Status,
		"email_confirmed": user.EmailConfirmed,
		"superadmin":      user.Superadmin,
		"info_mails":      user.InfoMails,
		"registered_on":   user.RegisteredOn,
		"modified_on":     user.ModifiedOn,
	}
	putString(out, "firstname", user.Firstname)
	putString(out, "surname", user.Surname)
	if user.Postcode != nil {
		out["postcode"] = *user.Postcode
	}
	putString(out, "city", user.City)
	putString(out, "street", user.Street)
	putString(out, "country", user.Country)
	putString(out, "phone", user.Phone)
	putString(out, "gender", user.Gender)
	putString(out, "website", user.Website)
	putString(out, "steam_account", user.SteamAccount)
	putString(out, "hardware", user.Hardware)
	putString(out, "statements", user.Statements)
	if user.Birthdate != nil {
		out["birthdate"] = *user.Birthdate
	}

	clans, err := s.graph.ClansForUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	renderedClans := make([]map[string]interface{}, 0, len(clans))
	for _, clan := range clans {
		rendered, err := s.Clan(ctx, clan, depth-1)
		if err != nil {
			return nil, err
		}
		renderedClans = append(renderedClans, rendered)
	}
	out["clans"] = renderedClans

	return out, nil
}

// Clan renders a clan at the given depth.
func (s *RenderService) Clan(ctx context.Context, clan *model.Clan, depth int) (map[string]interface{}, error) {
	if depth <= 0 {
		return map[string]interface{}{"id": clan.ID}, nil
	}

	out := map[string]interface{}{
		"id":          clan.ID,
		"name":        clan.Name,
		"tag":         clan.Tag,
		"created_on":  clan.CreatedOn,
		"modified_on": clan.ModifiedOn,
	}
	putString(out, "description", clan.Description)
	putString(out, "website", clan.Website)

	members, err := s.graph.UsersForClan(ctx, clan.ID, false)
	if err != nil {
		return nil, err
	}

	users := make([]map[string]interface{}, 0, len(members))
	admins := make([]map[string]interface{}, 0)
	for _, member := range members {
		rendered, err := s.User(ctx, member.User, depth-1)
		if err != nil {
			return nil, err
		}
		users = append(users, rendered)
		if member.Admin {
			admins = append(admins, rendered)
		}
	}
	out["users"] = users
	out["admins"] = admins

	return out, nil
}

// Users renders a list of users at a shared depth.
func (s *RenderService) Users(ctx context.Context, users []*model.User, depth int) ([]map[string]interface{}, error) {
	out := make([]map[string]interface{}, 0, len(users))
	for _, user := range users {
		rendered, err := s.User(ctx, user, depth)
		if err != nil {
			return nil, err
		}
		out = append(out, rendered)
	}
	return out, nil
}

// Clans renders a list of clans at a shared depth.
func (s *RenderService) Clans(ctx context.Context, clans []*model.Clan, depth int) ([]map[string]interface{}, error) {
	out := make([]map[string]interface{}, 0, len(clans))
	for _, clan := range clans {
		rendered, err := s.Clan(ctx, clan, depth)
		if err != nil {
			return nil, err
		}
		out = append(out, rendered)
	}
	return out, nil
}

// Members renders clan members at a shared depth.
func (s *RenderService) Members(ctx context.Context, members []model.ClanMember, depth int) ([]map[string]interface{}, error) {
	out := make([]map[string]interface{}, 0, len(members))
	for _, member := range members {
		rendered, err := s.User(ctx, member.User, depth)
		if err != nil {
			return nil, err
		}
		out = append(out, rendered)
	}
	return out, nil
}

func putString(m map[string]interface{}, key string, v *string) {
	if v != nil {
		m[key] = *v
	}
}
