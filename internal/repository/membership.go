package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/forgo/clanhub/api/internal/database"
	"github.com/forgo/clanhub/api/internal/model"
)

// MembershipRepository handles the user<->clan membership link records.
//
// The membership table carries a unique index on (user, clan), so at most one
// record can exist per pair even under concurrent joins.
type MembershipRepository struct {
	db database.Database
}

// NewMembershipRepository creates a new membership repository
func NewMembershipRepository(db database.Database) *MembershipRepository {
	return &MembershipRepository{db: db}
}

// Create links a user to a clan.
func (r *MembershipRepository) Create(ctx context.Context, m *model.Membership) error {
	query := `
		CREATE membership CONTENT {
			user: type::record($user_id),
			clan: type::record($clan_id),
			admin: $admin,
			created_on: time::now()
		}
	`

	vars := map[string]interface{}{
		"user_id": m.UserID,
		"clan_id": m.ClanID,
		"admin":   m.Admin,
	}

	err := r.db.Execute(ctx, query, vars)
	if err != nil && isUniqueConstraintError(err) {
		return fmt.Errorf("%w: user is already a member", database.ErrDuplicate)
	}
	return err
}

// Get returns the membership record for a (user, clan) pair, or (nil, nil)
// when the user is not a member.
func (r *MembershipRepository) Get(ctx context.Context, userID, clanID string) (*model.Membership, error) {
	query := `
		SELECT * FROM membership
		WHERE user = type::record($user_id) AND clan = type::record($clan_id)
		LIMIT 1
	`
	vars := map[string]interface{}{
		"user_id": userID,
		"clan_id": clanID,
	}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	m, err := parseMembershipResult(result)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return m, nil
}

// SetAdmin flips the admin flag on an existing membership.
func (r *MembershipRepository) SetAdmin(ctx context.Context, userID, clanID string, admin bool) error {
	query := `
		UPDATE membership SET admin = $admin
		WHERE user = type::record($user_id) AND clan = type::record($clan_id)
	`
	vars := map[string]interface{}{
		"user_id": userID,
		"clan_id": clanID,
		"admin":   admin,
	}

	return r.db.Execute(ctx, query, vars)
}

// Delete removes the membership record for a (user, clan) pair. Deleting a
// non-existent membership is a no-op.
func (r *MembershipRepository) Delete(ctx context.Context, userID, clanID string) error {
	query := `
		DELETE membership
		WHERE user = type::record($user_id) AND clan = type::record($clan_id)
	`
	vars := map[string]interface{}{
		"user_id": userID,
		"clan_id": clanID,
	}

	return r.db.Execute(ctx, query, vars)
}

// CountAdmins returns the number of admins a clan currently has.
func (r *MembershipRepository) CountAdmins(ctx context.Context, clanID string) (int, error) {
	query := `
		SELECT count() AS count FROM membership
		WHERE clan = type::record($clan_id) AND admin = true
		GROUP ALL
	`
	vars := map[string]interface{}{"clan_id": clanID}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}

	return extractCount(result), nil
}

// UsersForClan returns all members of a clan with their user records. Pass
// adminsOnly to restrict the result to clan administrators.
func (r *MembershipRepository) UsersForClan(ctx context.Context, clanID string, adminsOnly bool) ([]model.ClanMember, error) {
	query := `
		SELECT admin, user.* AS member FROM membership
		WHERE clan = type::record($clan_id)
	`
	if adminsOnly {
		query += ` AND admin = true`
	}
	vars := map[string]interface{}{"clan_id": clanID}

	results, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	records := unwrapRecords(results)
	members := make([]model.ClanMember, 0, len(records))
	for _, record := range records {
		memberData, ok := record["member"].(map[string]interface{})
		if !ok {
			continue
		}
		user, err := parseUserResult(memberData)
		if err != nil {
			return nil, err
		}
		members = append(members, model.ClanMember{
			User:  user,
			Admin: getBool(record, "admin"),
		})
	}
	return members, nil
}

// ClansForUser returns all clans a user belongs to.
func (r *MembershipRepository) ClansForUser(ctx context.Context, userID string) ([]*model.Clan, error) {
	query := `
		SELECT clan.* AS clan FROM membership
		WHERE user = type::record($user_id)
	`
	vars := map[string]interface{}{"user_id": userID}

	results, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	records := unwrapRecords(results)
	clans := make([]*model.Clan, 0, len(records))
	for _, record := range records {
		clanData, ok := record["clan"].(map[string]interface{})
		if !ok {
			continue
		}
		clan, err := parseClanResult(clanData)
		if err != nil {
			return nil, err
		}
		clans = append(clans, clan)
	}
	return clans, nil
}

func parseMembershipResult(result interface{}) (*model.Membership, error) {
	data, err := unwrapRecord(result)
	if err != nil {
		return nil, err
	}

	m := &model.Membership{
		Admin: getBool(data, "admin"),
	}
	if user, ok := data["user"]; ok {
		m.UserID = convertRecordID(user)
	}
	if clan, ok := data["clan"]; ok {
		m.ClanID = convertRecordID(clan)
	}
	return m, nil
}
