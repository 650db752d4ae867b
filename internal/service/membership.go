package service

import (
	"context"
	"errors"

	"github.com/forgo/clanhub/api/internal/database"
	"github.com/forgo/clanhub/api/internal/model"
)

// MembershipOutcome is the result of a membership mutation. Expected
// conditions (already a member, not a member, last admin) are outcomes, not
// errors; only storage failures surface as errors.
type MembershipOutcome int

const (
	OutcomeJoined MembershipOutcome = iota
	OutcomeAlreadyMember
	OutcomeLeft
	OutcomeNotMember
	OutcomeChanged
	OutcomeUnchanged
	OutcomeRemoved
	OutcomeLastAdminProtected
)

// String names outcomes for logging.
func (o MembershipOutcome) String() string {
	switch o {
	case OutcomeJoined:
		return "joined"
	case OutcomeAlreadyMember:
		return "already_member"
	case OutcomeLeft:
		return "left"
	case OutcomeNotMember:
		return "not_member"
	case OutcomeChanged:
		return "changed"
	case OutcomeUnchanged:
		return "unchanged"
	case OutcomeRemoved:
		return "removed"
	case OutcomeLastAdminProtected:
		return "last_admin_protected"
	}
	return "unknown"
}

// MembershipRepository defines the interface for membership storage
type MembershipRepository interface {
	Create(ctx context.Context, m *model.Membership) error
	Get(ctx context.Context, userID, clanID string) (*model.Membership, error)
	SetAdmin(ctx context.Context, userID, clanID string, admin bool) error
	Delete(ctx context.Context, userID, clanID string) error
	CountAdmins(ctx context.Context, clanID string) (int, error)
	UsersForClan(ctx context.Context, clanID string, adminsOnly bool) ([]model.ClanMember, error)
	ClansForUser(ctx context.Context, userID string) ([]*model.Clan, error)
}

// MemberUserRepository is the slice of user storage the membership service
// needs to resolve batch targets.
type MemberUserRepository interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
}

// MemberClanRepository is the slice of clan storage the membership service
// needs for existence checks.
type MemberClanRepository interface {
	GetByID(ctx context.Context, id string) (*model.Clan, error)
}

// MembershipService enforces the membership invariants that no database
// constraint alone can express: one record per (user, clan) pair and the
// last-admin floor under strict removal.
type MembershipService struct {
	repo     MembershipRepository
	userRepo MemberUserRepository
	clanRepo MemberClanRepository
}

// MembershipServiceConfig holds configuration for the membership service
type MembershipServiceConfig struct {
	MembershipRepo MembershipRepository
	UserRepo       MemberUserRepository
	ClanRepo       MemberClanRepository
}

// NewMembershipService creates a new membership service
func NewMembershipService(cfg MembershipServiceConfig) *MembershipService {
	return &MembershipService{
		repo:     cfg.MembershipRepo,
		userRepo: cfg.UserRepo,
		clanRepo: cfg.ClanRepo,
	}
}

// Join adds a user to a clan. Joining twice is a no-op reported as
// AlreadyMember; the storage-level unique index is the backstop for
// concurrent joins racing past the existence check.
func (s *MembershipService) Join(ctx context.Context, clanID, userID string, asAdmin bool) (MembershipOutcome, error) {
	existing, err := s.repo.Get(ctx, userID, clanID)
	if err != nil {
		return OutcomeNotMember, err
	}
	if existing != nil {
		return OutcomeAlreadyMember, nil
	}

	m := &model.Membership{
		UserID: userID,
		ClanID: clanID,
		Admin:  asAdmin,
	}
	if err := s.repo.Create(ctx, m); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return OutcomeAlreadyMember, nil
		}
		return OutcomeNotMember, err
	}
	return OutcomeJoined, nil
}

// Leave removes a user from a clan. Leaving a clan the user is not in
// reports NotMember and changes nothing.
func (s *MembershipService) Leave(ctx context.Context, clanID, userID string) (MembershipOutcome, error) {
	existing, err := s.repo.Get(ctx, userID, clanID)
	if err != nil {
		return OutcomeNotMember, err
	}
	if existing == nil {
		return OutcomeNotMember, nil
	}

	if err := s.repo.Delete(ctx, userID, clanID); err != nil {
		return OutcomeNotMember, err
	}
	return OutcomeLeft, nil
}

// SetAdmin flips the admin flag on an existing membership. A flag already at
// the target value reports Unchanged; a missing membership reports NotMember
// so callers can fall back to a join-as-admin.
func (s *MembershipService) SetAdmin(ctx context.Context, clanID, userID string, admin bool) (MembershipOutcome, error) {
	existing, err := s.repo.Get(ctx, userID, clanID)
	if err != nil {
		return OutcomeNotMember, err
	}
	if existing == nil {
		return OutcomeNotMember, nil
	}
	if existing.Admin == admin {
		return OutcomeUnchanged, nil
	}

	if err := s.repo.SetAdmin(ctx, userID, clanID, admin); err != nil {
		return OutcomeNotMember, err
	}
	return OutcomeChanged, nil
}

// RemoveMemberStrict removes a member. Under strict mode the clan's last
// admin is protected: removing them would leave the clan without any admin,
// so the operation is refused. Non-strict removals bypass the floor.
func (s *MembershipService) RemoveMemberStrict(ctx context.Context, clanID, userID string, strict bool) (MembershipOutcome, error) {
	adminCount := -1
	if strict {
		count, err := s.repo.CountAdmins(ctx, clanID)
		if err != nil {
			return OutcomeNotMember, err
		}
		adminCount = count
	}
	return s.removeOne(ctx, clanID, userID, strict, &adminCount)
}

// removeOne evaluates the admin floor against the running count the caller
// maintains, so batch removals protect the last remaining admin even when
// the batch itself removed the others.
func (s *MembershipService) removeOne(ctx context.Context, clanID, userID string, strict bool, adminCount *int) (MembershipOutcome, error) {
	existing, err := s.repo.Get(ctx, userID, clanID)
	if err != nil {
		return OutcomeNotMember, err
	}
	if existing == nil {
		return OutcomeNotMember, nil
	}

	if strict && existing.Admin && *adminCount <= 1 {
		return OutcomeLastAdminProtected, nil
	}

	if err := s.repo.Delete(ctx, userID, clanID); err != nil {
		return OutcomeNotMember, err
	}
	if existing.Admin {
		*adminCount--
	}
	return OutcomeRemoved, nil
}

// AddMembers joins every listed user to the clan, as admins when asAdmin is
// set. All users must exist; promotion of an existing member flips the flag
// instead of failing. Reports true when at least one new row or flag change
// happened.
func (s *MembershipService) AddMembers(ctx context.Context, clanID string, userIDs []string, asAdmin bool) (bool, error) {
	if _, err := s.clan(ctx, clanID); err != nil {
		return false, err
	}
	users, err := s.resolveUsers(ctx, userIDs)
	if err != nil {
		return false, err
	}

	changed := false
	for _, user := range users {
		outcome, err := s.Join(ctx, clanID, user.ID, asAdmin)
		if err != nil {
			return changed, err
		}
		if outcome == OutcomeAlreadyMember && asAdmin {
			// Promote-or-join: the member exists, so flip the flag.
			outcome, err = s.SetAdmin(ctx, clanID, user.ID, true)
			if err != nil {
				return changed, err
			}
		}
		if outcome == OutcomeJoined || outcome == OutcomeChanged {
			changed = true
		}
	}
	return changed, nil
}

// RemoveMembers removes every listed user from the clan sequentially, in the
// order given. On the first expected failure (not a member, last admin) the
// error is returned and earlier removals stand; callers needing atomicity
// must wrap the batch in a storage transaction.
func (s *MembershipService) RemoveMembers(ctx context.Context, clanID string, userIDs []string, strict bool) error {
	if _, err := s.clan(ctx, clanID); err != nil {
		return err
	}

	adminCount := -1
	if strict {
		count, err := s.repo.CountAdmins(ctx, clanID)
		if err != nil {
			return err
		}
		adminCount = count
	}

	for _, userID := range userIDs {
		outcome, err := s.removeOne(ctx, clanID, userID, strict, &adminCount)
		if err != nil {
			return err
		}
		switch outcome {
		case OutcomeNotMember:
			return ErrNotMember
		case OutcomeLastAdminProtected:
			return ErrLastAdmin
		}
	}
	return nil
}

// Demote clears the admin flag of a clan admin. A user who is not an admin
// (or not a member at all) reports NotMember.
func (s *MembershipService) Demote(ctx context.Context, clanID, userID string) (MembershipOutcome, error) {
	if _, err := s.clan(ctx, clanID); err != nil {
		return OutcomeNotMember, err
	}

	outcome, err := s.SetAdmin(ctx, clanID, userID, false)
	if err != nil {
		return outcome, err
	}
	if outcome == OutcomeUnchanged {
		// Member but not admin: nothing to demote.
		return OutcomeNotMember, nil
	}
	return outcome, nil
}

// Members returns the members of a clan with their admin flags.
func (s *MembershipService) Members(ctx context.Context, clanID string, adminsOnly bool) ([]model.ClanMember, error) {
	if _, err := s.clan(ctx, clanID); err != nil {
		return nil, err
	}
	return s.repo.UsersForClan(ctx, clanID, adminsOnly)
}

func (s *MembershipService) clan(ctx context.Context, clanID string) (*model.Clan, error) {
	clan, err := s.clanRepo.GetByID(ctx, clanID)
	if err != nil {
		return nil, err
	}
	if clan == nil {
		return nil, ErrClanNotFound
	}
	return clan, nil
}

// resolveUsers loads every user in the list; any missing user fails the
// whole resolution.
func (s *MembershipService) resolveUsers(ctx context.Context, userIDs []string) ([]*model.User, error) {
	users := make([]*model.User, 0, len(userIDs))
	for _, id := range userIDs {
		user, err := s.userRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, ErrUsersNotFound
		}
		users = append(users, user)
	}
	return users, nil
}
