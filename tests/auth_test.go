package tests

import (
	"context"
	"testing"

	"github.com/forgo/clanhub/api/internal/model"
	"github.com/forgo/clanhub/api/internal/repository"
	"github.com/forgo/clanhub/api/internal/service"
	"github.com/forgo/clanhub/api/internal/testing/fixtures"
	"github.com/forgo/clanhub/api/internal/testing/testdb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

/*
FEATURE: Account Registration and Authorization
DOMAIN: Auth

ACCEPTANCE CRITERIA:

AC-AUTH-001: Self-Service Registration
  GIVEN a free email and nickname
  WHEN a registration is submitted
  THEN an active account is created
  AND the email is unconfirmed
  AND the password is stored only as a hash

AC-AUTH-002: Duplicate Identity Rejected
  GIVEN an existing account
  WHEN a registration reuses its email or nickname
  THEN the registration fails with a taken-identity error
  AND the comparison is case-insensitive

AC-AUTH-003: Credential Verification
  GIVEN an active account
  WHEN the correct email/password pair is submitted
  THEN the account is returned
  AND a wrong password fails with the same error as an unknown email

AC-AUTH-004: Disabled Accounts Cannot Log In
  GIVEN a disabled account
  WHEN its correct credentials are submitted
  THEN authorization fails

AC-AUTH-005: Hash Upgrade On Login
  GIVEN an account whose hash was produced with a low cost factor
  WHEN a successful login occurs
  THEN the stored hash is upgraded to the current cost
  AND a failed login leaves the hash untouched

AC-AUTH-006: Availability Checks
  GIVEN existing accounts
  WHEN email or nickname availability is queried
  THEN taken identifiers report true and free ones false
*/

func createUserService(t *testing.T, tdb *testdb.TestDB) *service.UserService {
	t.Helper()
	return service.NewUserService(service.UserServiceConfig{
		UserRepo:       repository.NewUserRepository(tdb.DB),
		MembershipRepo: repository.NewMembershipRepository(tdb.DB),
		Verifier:       service.NewBcryptVerifier(),
	})
}

// AC-AUTH-001: Self-Service Registration
func TestAuth_Register(t *testing.T) {
	tdb := testdb.New(t)
	defer tdb.Close()

	svc := createUserService(t, tdb)
	ctx := context.Background()

	user, err := svc.Register(ctx, model.RegisterRequest{
		Email:    "fresh@example.com",
		Password: "secret-password",
		Nickname: "freshuser",
	})
	require.NoError(t, err)
	require.NotNil(t, user)

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "fresh@example.com", user.Email)
	assert.Equal(t, "freshuser", user.Nickname)
	assert.Equal(t, model.UserStatusActive, user.Status)
	assert.False(t, user.EmailConfirmed)
	assert.True(t, user.InfoMails)

	require.NotNil(t, user.Hash)
	assert.NotEqual(t, "secret-password", *user.Hash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(*user.Hash), []byte("secret-password")))
}

// AC-AUTH-001: Self-Service Registration (validation)
func TestAuth_Register_Validation(t *testing.T) {
	tdb := testdb.New(t)
	defer tdb.Close()

	svc := createUserService(t, tdb)
	ctx := context.Background()

	tests := []struct {
		name string
		req  model.RegisterRequest
	}{
		{"missing email", model.RegisterRequest{Password: "secret-password", Nickname: "nick"}},
		{"invalid email", model.RegisterRequest{Email: "not-an-email", Password: "secret-password", Nickname: "nick"}},
		{"missing password", model.RegisterRequest{Email: "a@b.test", Nickname: "nick"}},
		{"short password", model.RegisterRequest{Email: "a@b.test", Password: "abc", Nickname: "nick"}},
		{"missing nickname", model.RegisterRequest{Email: "a@b.test", Password: "secret-password"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.req)
			require.Error(t, err)

			var problem *model.ProblemDetails
			require.ErrorAs(t, err, &problem)
			assert.Equal(t, model.ErrCodeValidation, problem.Code)
		})
	}
}

// AC-AUTH-002: Duplicate Identity Rejected
func TestAuth_Register_DuplicateIdentity(t *testing.T) {
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	svc := createUserService(t, tdb)
	ctx := context.Background()

	existing := f.CreateUser(t, func(o *fixtures.UserOpts) {
		o.Email = "taken@example.com"
		o.Nickname = "takennick"
	})
	require.NotNil(t, existing)

	t.Run("email taken", func(t *testing.T) {
		_, err := svc.Register(ctx, model.RegisterRequest{
			Email:    "taken@example.com",
			Password: "secret-password",
			Nickname: "othernick",
		})
		assert.ErrorIs(t, err, service.ErrEmailTaken)
	})

	t.Run("email taken case-insensitive", func(t *testing.T) {
		_, err := svc.Register(ctx, model.RegisterRequest{
			Email:    "TAKEN@Example.COM",
			Password: "secret-password",
			Nickname: "othernick",
		})
		assert.ErrorIs(t, err, service.ErrEmailTaken)
	})

	t.Run("nickname taken", func(t *testing.T) {
		_, err := svc.Register(ctx, model.RegisterRequest{
			Email:    "other@example.com",
			Password: "secret-password",
			Nickname: "takennick",
		})
		assert.ErrorIs(t, err, service.ErrNicknameTaken)
	})

	t.Run("nickname taken case-insensitive", func(t *testing.T) {
		_, err := svc.Register(ctx, model.RegisterRequest{
			Email:    "other@example.com",
			Password: "secret-password",
			Nickname: "TakenNick",
		})
		assert.ErrorIs(t, err, service.ErrNicknameTaken)
	})
}

// AC-AUTH-003: Credential Verification
func TestAuth_Authorize(t *testing.T) {
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	svc := createUserService(t, tdb)
	ctx := context.Background()

	user := f.CreateUser(t, func(o *fixtures.UserOpts) {
		o.Email = "login@example.com"
		o.Password = "correct-horse"
	})

	t.Run("correct credentials", func(t *testing.T) {
		got, err := svc.Authorize(ctx, "login@example.com", "correct-horse")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, user.ID, got.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Authorize(ctx, "login@example.com", "battery-staple")
		assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	})

	t.Run("unknown email reports the same error", func(t *testing.T) {
		_, err := svc.Authorize(ctx, "nobody@example.com", "correct-horse")
		assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	})
}

// AC-AUTH-004: Disabled Accounts Cannot Log In
func TestAuth_Authorize_DisabledAccount(t *testing.T) {
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	svc := createUserService(t, tdb)
	ctx := context.Background()

	disabled := f.CreateUser(t, func(o *fixtures.UserOpts) {
		o.Email = "disabled@example.com"
		o.Password = "correct-horse"
		o.Status = model.UserStatusDisabled
	})
	require.NotNil(t, disabled)

	_, err := svc.Authorize(ctx, "disabled@example.com", "correct-horse")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

// AC-AUTH-005: Hash Upgrade On Login
func TestAuth_Authorize_RehashOnSuccess(t *testing.T) {
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	svc := createUserService(t, tdb)
	repo := repository.NewUserRepository(tdb.DB)
	ctx := context.Background()

	// Fixtures hash with bcrypt.MinCost, well below the service cost.
	user := f.CreateUser(t, func(o *fixtures.UserOpts) {
		o.Email = "rehash@example.com"
		o.Password = "correct-horse"
	})

	before, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, before)
	require.NotNil(t, before.Hash)

	t.Run("failed login leaves hash untouched", func(t *testing.T) {
		_, err := svc.Authorize(ctx, "rehash@example.com", "wrong")
		require.ErrorIs(t, err, service.ErrInvalidCredentials)

		after, err := repo.GetByID(ctx, user.ID)
		require.NoError(t, err)
		require.NotNil(t, after.Hash)
		assert.Equal(t, *before.Hash, *after.Hash)
	})

	t.Run("successful login upgrades hash", func(t *testing.T) {
		_, err := svc.Authorize(ctx, "rehash@example.com", "correct-horse")
		require.NoError(t, err)

		after, err := repo.GetByID(ctx, user.ID)
		require.NoError(t, err)
		require.NotNil(t, after.Hash)
		assert.NotEqual(t, *before.Hash, *after.Hash)

		cost, err := bcrypt.Cost([]byte(*after.Hash))
		require.NoError(t, err)
		assert.Greater(t, cost, bcrypt.MinCost)

		// The upgraded hash still verifies the same password.
		got, err := svc.Authorize(ctx, "rehash@example.com", "correct-horse")
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
	})
}

// AC-AUTH-006: Availability Checks
func TestAuth_AvailabilityChecks(t *testing.T) {
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	svc := createUserService(t, tdb)
	ctx := context.Background()

	f.CreateUser(t, func(o *fixtures.UserOpts) {
		o.Email = "exists@example.com"
		o.Nickname = "existingnick"
	})

	t.Run("email exists", func(t *testing.T) {
		exists, err := svc.EmailExists(ctx, "exists@example.com")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("email exists case-insensitive", func(t *testing.T) {
		exists, err := svc.EmailExists(ctx, "Exists@Example.com")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("email free", func(t *testing.T) {
		exists, err := svc.EmailExists(ctx, "free@example.com")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("nickname exists", func(t *testing.T) {
		exists, err := svc.NicknameExists(ctx, "existingnick")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("nickname free", func(t *testing.T) {
		exists, err := svc.NicknameExists(ctx, "freenick")
		require.NoError(t, err)
		assert.False(t, exists)
	})
}
