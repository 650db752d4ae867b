package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/forgo/clanhub/api/internal/model"
)

// ClanRepository defines the interface for clan storage
type ClanRepository interface {
	Create(ctx context.Context, clan *model.Clan) error
	GetByID(ctx context.Context, id string) (*model.Clan, error)
	GetByName(ctx context.Context, name string) (*model.Clan, error)
	GetByTag(ctx context.Context, tag string) (*model.Clan, error)
	Update(ctx context.Context, clan *model.Clan) error
	UpdateJoinHash(ctx context.Context, clanID, hash string) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter model.ClanListFilter) ([]*model.Clan, int, error)
}

// ClanService handles clan lifecycle and clan credential checks
type ClanService struct {
	repo     ClanRepository
	verifier Verifier
}

// ClanServiceConfig holds configuration for the clan service
type ClanServiceConfig struct {
	ClanRepo ClanRepository
	Verifier Verifier
}

// NewClanService creates a new clan service
func NewClanService(cfg ClanServiceConfig) *ClanService {
	return &ClanService{
		repo:     cfg.ClanRepo,
		verifier: cfg.Verifier,
	}
}

// Create creates a new clan with a hashed join password.
func (s *ClanService) Create(ctx context.Context, req model.CreateClanRequest) (*model.Clan, error) {
	if errs := req.Validate(); len(errs) > 0 {
		return nil, model.NewValidationError(errs)
	}

	name := strings.TrimSpace(req.Name)
	tag := strings.TrimSpace(req.Tag)

	if err := s.checkIdentityFree(ctx, name, tag, ""); err != nil {
		return nil, err
	}

	hash, err := s.verifier.HashSecret(req.Password)
	if err != nil {
		return nil, err
	}

	clan := &model.Clan{
		Name:        name,
		Tag:         tag,
		Description: req.Description,
		Website:     req.Website,
		JoinHash:    &hash,
	}

	if err := s.repo.Create(ctx, clan); err != nil {
		return nil, err
	}
	return clan, nil
}

// GetByID returns a clan or ErrClanNotFound.
func (s *ClanService) GetByID(ctx context.Context, id string) (*model.Clan, error) {
	clan, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if clan == nil {
		return nil, ErrClanNotFound
	}
	return clan, nil
}

// Update applies a partial edit to a clan.
func (s *ClanService) Update(ctx context.Context, id string, req model.UpdateClanRequest) (*model.Clan, error) {
	if errs := req.Validate(); len(errs) > 0 {
		return nil, model.NewValidationError(errs)
	}

	clan, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if !strings.EqualFold(name, clan.Name) {
			if err := s.checkIdentityFree(ctx, name, "", clan.ID); err != nil {
				return nil, err
			}
			clan.Name = name
		}
	}
	if req.Tag != nil {
		tag := strings.TrimSpace(*req.Tag)
		if !strings.EqualFold(tag, clan.Tag) {
			if err := s.checkIdentityFree(ctx, "", tag, clan.ID); err != nil {
				return nil, err
			}
			clan.Tag = tag
		}
	}
	if req.Description != nil {
		clan.Description = req.Description
	}
	if req.Website != nil {
		clan.Website = req.Website
	}

	if err := s.repo.Update(ctx, clan); err != nil {
		return nil, err
	}

	if req.Password != nil {
		hash, err := s.verifier.HashSecret(*req.Password)
		if err != nil {
			return nil, err
		}
		if err := s.repo.UpdateJoinHash(ctx, clan.ID, hash); err != nil {
			return nil, err
		}
		clan.JoinHash = &hash
	}

	return clan, nil
}

// Delete removes a clan and all of its memberships.
func (s *ClanService) Delete(ctx context.Context, id string) error {
	clan, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if clan == nil {
		return ErrClanNotFound
	}
	return s.repo.Delete(ctx, id)
}

// List returns a page of clans.
func (s *ClanService) List(ctx context.Context, filter model.ClanListFilter) (*model.PagedResult, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 25
	}

	clans, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &model.PagedResult{
		Total: total,
		Count: len(clans),
		Items: clans,
	}, nil
}

// GetBulk resolves a list of clan IDs. Unknown IDs are silently skipped so a
// caller holding stale references still gets the live subset.
func (s *ClanService) GetBulk(ctx context.Context, ids []string) ([]*model.Clan, error) {
	clans := make([]*model.Clan, 0, len(ids))
	for _, id := range ids {
		clan, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if clan == nil {
			continue
		}
		clans = append(clans, clan)
	}
	return clans, nil
}

// Authorize verifies a clan's name/join-password pair, upgrading outdated
// hashes on success the same way user logins do.
func (s *ClanService) Authorize(ctx context.Context, name, secret string) (*model.Clan, error) {
	clan, err := s.repo.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if clan == nil || clan.JoinHash == nil {
		return nil, ErrInvalidCredentials
	}

	if !s.verifier.Verify(*clan.JoinHash, secret) {
		return nil, ErrInvalidCredentials
	}

	if s.verifier.NeedsRehash(*clan.JoinHash) {
		hash, err := s.verifier.HashSecret(secret)
		if err == nil {
			err = s.repo.UpdateJoinHash(ctx, clan.ID, hash)
		}
		if err != nil {
			slog.Warn("clan join hash rehash failed", "clan_id", clan.ID, "error", err)
		} else {
			clan.JoinHash = &hash
		}
	}

	return clan, nil
}

// NameExists reports whether a clan with the given name exists.
func (s *ClanService) NameExists(ctx context.Context, name string) (bool, error) {
	clan, err := s.repo.GetByName(ctx, name)
	if err != nil {
		return false, err
	}
	return clan != nil, nil
}

// TagExists reports whether a clan with the given tag exists.
func (s *ClanService) TagExists(ctx context.Context, tag string) (bool, error) {
	clan, err := s.repo.GetByTag(ctx, tag)
	if err != nil {
		return false, err
	}
	return clan != nil, nil
}

// checkIdentityFree ensures name and tag are unused, ignoring the record
// identified by selfID. Empty criteria are skipped.
func (s *ClanService) checkIdentityFree(ctx context.Context, name, tag, selfID string) error {
	if name != "" {
		existing, err := s.repo.GetByName(ctx, name)
		if err != nil {
			return err
		}
		if existing != nil && existing.ID != selfID {
			return ErrClanNameTaken
		}
	}
	if tag != "" {
		existing, err := s.repo.GetByTag(ctx, tag)
		if err != nil {
			return err
		}
		if existing != nil && existing.ID != selfID {
			return ErrClanTagTaken
		}
	}
	return nil
}
