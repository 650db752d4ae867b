package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/forgo/clanhub/api/internal/model"
)

// UserRepository defines the interface for user storage
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByNickname(ctx context.Context, nickname string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
	UpdateHash(ctx context.Context, userID, hash string) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter model.UserListFilter) ([]*model.User, int, error)
	Search(ctx context.Context, req model.SearchUsersRequest) ([]*model.User, error)
}

// UserClanRepository is the slice of membership storage the user service
// needs for listing a user's clans.
type UserClanRepository interface {
	ClansForUser(ctx context.Context, userID string) ([]*model.Clan, error)
}

// UserService handles user accounts and credential checks
type UserService struct {
	repo           UserRepository
	membershipRepo UserClanRepository
	verifier       Verifier
}

// UserServiceConfig holds configuration for the user service
type UserServiceConfig struct {
	UserRepo       UserRepository
	MembershipRepo UserClanRepository
	Verifier       Verifier
}

// NewUserService creates a new user service
func NewUserService(cfg UserServiceConfig) *UserService {
	return &UserService{
		repo:           cfg.UserRepo,
		membershipRepo: cfg.MembershipRepo,
		verifier:       cfg.Verifier,
	}
}

// Register creates a new account from a self-service registration.
func (s *UserService) Register(ctx context.Context, req model.RegisterRequest) (*model.User, error) {
	if errs := req.Validate(); len(errs) > 0 {
		return nil, model.NewValidationError(errs)
	}

	email := strings.TrimSpace(req.Email)
	nickname := strings.TrimSpace(req.Nickname)

	if err := s.checkIdentityFree(ctx, email, nickname, ""); err != nil {
		return nil, err
	}

	hash, err := s.verifier.HashSecret(req.Password)
	if err != nil {
		return nil, err
	}

	// Opt users into info mails unless they explicitly declined.
	infoMails := true
	if req.InfoMails != nil {
		infoMails = *req.InfoMails
	}

	user := &model.User{
		Email:          email,
		Nickname:       nickname,
		Hash:           &hash,
		Status:         model.UserStatusActive,
		EmailConfirmed: false,
		InfoMails:      infoMails,
		Firstname:      req.Firstname,
		Surname:        req.Surname,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Create creates a user through the administrative endpoint. Unlike Register
// it can pre-confirm the email address.
func (s *UserService) Create(ctx context.Context, req model.CreateUserRequest) (*model.User, error) {
	if errs := req.Validate(); len(errs) > 0 {
		return nil, model.NewValidationError(errs)
	}

	email := strings.TrimSpace(req.Email)
	nickname := strings.TrimSpace(req.Nickname)

	if err := s.checkIdentityFree(ctx, email, nickname, ""); err != nil {
		return nil, err
	}

	hash, err := s.verifier.HashSecret(req.Password)
	if err != nil {
		return nil, err
	}

	emailConfirmed := false
	if req.EmailConfirmed != nil {
		emailConfirmed = *req.EmailConfirmed
	}
	infoMails := true
	if req.InfoMails != nil {
		infoMails = *req.InfoMails
	}

	user := &model.User{
		Email:          email,
		Nickname:       nickname,
		Hash:           &hash,
		Status:         model.UserStatusActive,
		EmailConfirmed: emailConfirmed,
		InfoMails:      infoMails,
		Firstname:      req.Firstname,
		Surname:        req.Surname,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetByID returns a user or ErrUserNotFound.
func (s *UserService) GetByID(ctx context.Context, id string) (*model.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// Update applies a partial edit to a user. Changing the email address resets
// the email confirmation flag.
func (s *UserService) Update(ctx context.Context, id string, req model.UpdateUserRequest) (*model.User, error) {
	if errs := req.Validate(); len(errs) > 0 {
		return nil, model.NewValidationError(errs)
	}

	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		if !strings.EqualFold(email, user.Email) {
			if err := s.checkIdentityFree(ctx, email, "", user.ID); err != nil {
				return nil, err
			}
			user.Email = email
			user.EmailConfirmed = false
		}
	}
	if req.Nickname != nil {
		nickname := strings.TrimSpace(*req.Nickname)
		if !strings.EqualFold(nickname, user.Nickname) {
			if err := s.checkIdentityFree(ctx, "", nickname, user.ID); err != nil {
				return nil, err
			}
			user.Nickname = nickname
		}
	}
	if req.Status != nil {
		user.Status = *req.Status
	}
	if req.InfoMails != nil {
		user.InfoMails = *req.InfoMails
	}
	if req.Firstname != nil {
		user.Firstname = req.Firstname
	}
	if req.Surname != nil {
		user.Surname = req.Surname
	}
	if req.Postcode != nil {
		user.Postcode = req.Postcode
	}
	if req.City != nil {
		user.City = req.City
	}
	if req.Street != nil {
		user.Street = req.Street
	}
	if req.Country != nil {
		user.Country = req.Country
	}
	if req.Phone != nil {
		user.Phone = req.Phone
	}
	if req.Gender != nil {
		user.Gender = req.Gender
	}
	if req.Website != nil {
		user.Website = req.Website
	}
	if req.SteamAccount != nil {
		user.SteamAccount = req.SteamAccount
	}
	if req.Hardware != nil {
		user.Hardware = req.Hardware
	}
	if req.Statements != nil {
		user.Statements = req.Statements
	}
	if req.Birthdate != nil {
		user.Birthdate = req.Birthdate
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	if req.Password != nil {
		hash, err := s.verifier.HashSecret(*req.Password)
		if err != nil {
			return nil, err
		}
		if err := s.repo.UpdateHash(ctx, user.ID, hash); err != nil {
			return nil, err
		}
		user.Hash = &hash
	}

	return user, nil
}

// Delete removes a user and all of their memberships.
func (s *UserService) Delete(ctx context.Context, id string) error {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	return s.repo.Delete(ctx, id)
}

// List returns a page of active users.
func (s *UserService) List(ctx context.Context, filter model.UserListFilter) (*model.PagedResult, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 25
	}

	users, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &model.PagedResult{
		Total: total,
		Count: len(users),
		Items: users,
	}, nil
}

// Search returns active users matching the request. UUID criteria are
// resolved individually so unknown IDs are silently skipped; the remaining
// criteria narrow the result.
func (s *UserService) Search(ctx context.Context, req model.SearchUsersRequest) ([]*model.User, error) {
	if req.IsEmpty() {
		return nil, ErrEmptySearch
	}

	if len(req.UUIDs) == 0 {
		return s.repo.Search(ctx, req)
	}

	users := make([]*model.User, 0, len(req.UUIDs))
	for _, id := range req.UUIDs {
		user, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if user == nil || !user.IsActive() {
			continue
		}
		if req.Nickname != nil && !strings.EqualFold(user.Nickname, *req.Nickname) {
			continue
		}
		if req.Superadmin != nil && user.Superadmin != *req.Superadmin {
			continue
		}
		if req.InfoMails != nil && user.InfoMails != *req.InfoMails {
			continue
		}
		users = append(users, user)
	}
	return users, nil
}

// Authorize verifies a user's email/password pair. On success, hashes stored
// with outdated parameters are transparently upgraded. The hash is never
// touched on a failed verify, so a wrong password cannot corrupt credentials.
func (s *UserService) Authorize(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil || user.Hash == nil || !user.IsActive() {
		return nil, ErrInvalidCredentials
	}

	if !s.verifier.Verify(*user.Hash, password) {
		return nil, ErrInvalidCredentials
	}

	if s.verifier.NeedsRehash(*user.Hash) {
		hash, err := s.verifier.HashSecret(password)
		if err == nil {
			err = s.repo.UpdateHash(ctx, user.ID, hash)
		}
		if err != nil {
			// The login itself succeeded; the upgrade retries next time.
			slog.Warn("password rehash failed", "user_id", user.ID, "error", err)
		} else {
			user.Hash = &hash
		}
	}

	return user, nil
}

// EmailExists reports whether an account with the given email exists.
func (s *UserService) EmailExists(ctx context.Context, email string) (bool, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	return user != nil, nil
}

// NicknameExists reports whether an account with the given nickname exists.
func (s *UserService) NicknameExists(ctx context.Context, nickname string) (bool, error) {
	user, err := s.repo.GetByNickname(ctx, nickname)
	if err != nil {
		return false, err
	}
	return user != nil, nil
}

// Clans returns the clans a user belongs to.
func (s *UserService) Clans(ctx context.Context, userID string) ([]*model.Clan, error) {
	if _, err := s.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.membershipRepo.ClansForUser(ctx, userID)
}

// checkIdentityFree ensures email and nickname are unused, ignoring the
// record identified by selfID. Empty criteria are skipped.
func (s *UserService) checkIdentityFree(ctx context.Context, email, nickname, selfID string) error {
	if email != "" {
		existing, err := s.repo.GetByEmail(ctx, email)
		if err != nil {
			return err
		}
		if existing != nil && existing.ID != selfID {
			return ErrEmailTaken
		}
	}
	if nickname != "" {
		existing, err := s.repo.GetByNickname(ctx, nickname)
		if err != nil {
			return err
		}
		if existing != nil && existing.ID != selfID {
			return ErrNicknameTaken
		}
	}
	return nil
}
