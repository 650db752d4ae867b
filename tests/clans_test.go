package tests

import (
	"context"
	"testing"

	"github.com/forgo/clanhub/api/internal/model"
	"github.com/forgo/clanhub/api/internal/repository"
	"github.com/forgo/clanhub/api/internal/service"
	"github.com/forgo/clanhub/api/internal/testing/fixtures"
	"github.com/forgo/clanhub/api/internal/testing/helpers"
	"github.com/forgo/clanhub/api/internal/testing/testdb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/*
FEATURE: Clan Management
DOMAIN: Clans

ACCEPTANCE CRITERIA:

AC-CLN-001: Creation
  GIVEN a free name and tag
  WHEN a clan is created
  THEN it exists with a hashed join password
  AND name and tag collisions are rejected case-insensitively

AC-CLN-002: Retrieval and Update
  GIVEN an existing clan
  WHEN it is fetched or patched
  THEN only patched fields change
  AND renaming into a taken name is rejected

AC-CLN-003: Deletion
  GIVEN a clan with members
  WHEN the clan is deleted
  THEN the clan and its memberships are gone

AC-CLN-004: Listing
  GIVEN several clans
  WHEN the listing is queried
  THEN results are paginated
  AND the filter matches name or tag as substring
  AND exact mode requires an exact match
  AND sorting honors column and direction

AC-CLN-005: Bulk Resolution
  GIVEN a list of clan IDs
  WHEN they are resolved in bulk
  THEN known clans are returned and unknown IDs are skipped

AC-CLN-006: Clan Authorization
  GIVEN a clan with a join password
  WHEN the name/password pair is verified
  THEN the clan is returned on a match
  AND a wrong password fails with the same error as an unknown name

AC-CLN-007: Availability Checks
  GIVEN existing clans
  WHEN name or tag availability is queried
  THEN taken identifiers report true and free ones false
*/

func createClanService(t *testing.T, tdb *testdb.TestDB) *service.ClanService {
	t.Helper()
	return service.NewClanService(service.ClanServiceConfig{
		ClanRepo: repository.NewClanRepository(tdb.DB),
		Verifier: service.NewBcryptVerifier(),
	})
}

// AC-CLN-001: Creation
func TestClans_Create(t *testing.T) {
	tdb := testdb.New(t)
	defer tdb.Close()

	svc := createClanService(t, tdb)
	ctx := context.Background()

	clan, err := svc.Create(ctx, model.CreateClanRequest{
		Name:     "The Night Watch",
		Tag:      "TNW",
		Password: "winter-is-coming",
	})
	require.NoError(t, err)
	require.NotNil(t, clan)

	assert.NotEmpty(t, clan.ID)
	assert.Equal(t, "The Night Watch", clan.Name)
	assert.Equal(t, "TNW", clan.Tag)
	require.NotNil(t, clan.JoinHash)
	assert.NotEqual(t, "winter-is-coming", *clan.JoinHash)

	t.Run("name collision", func(t *testing.T) {
		_, err := svc.Create(ctx, model.CreateClanRequest{
			Name:     "the night watch",
			Tag:      "XYZ",
			Password: "some-password",
		})
		assert.ErrorIs(t, err, service.ErrClanNameTaken)
	})

	t.Run("tag collision", func(t *testing.T) {
		_, err := svc.Create(ctx, model.CreateClanRequest{
			Name:     "Another Clan",
			Tag:      "tnw",
			Password: "some-password",
		})
		assert.ErrorIs(t, err, service.ErrClanTagTaken)
	})

	t.Run("validation", func(t *testing.T) {
		tests := []struct {
			name string
			req  model.CreateClanRequest
		}{
			{"missing name", model.CreateClanRequest{Tag: "AAA", Password: "some-password"}},
			{"missing tag", model.CreateClanRequest{Name: "Named", Password: "some-password"}},
			{"missing password", model.CreateClanRequest{Name: "Named", Tag: "AAA"}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := svc.Create(ctx, tt.req)
				require.Error(t, err)

				var problem *model.ProblemDetails
				require.ErrorAs(t, err, &problem)
				assert.Equal(t, model.ErrCodeValidation, problem.Code)
			})
		}
	})
}

// AC-CLN-002: Retrieval and Update
func TestClans_Update(t *testing.T) {
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	svc := createClanService(t, tdb)
	ctx := context.Background()

	t.Run("patch description", func(t *testing.T) {
		clan := f.CreateClan(t)

		updated, err := svc.Update(ctx, clan.ID, model.UpdateClanRequest{
			Description: helpers.StringPtr("We play at night."),
		})
		require.NoError(t, err)

		require.NotNil(t, updated.Description)
		assert.Equal(t, "We play at night.", *updated.Description)
		assert.Equal(t, clan.Name, updated.Name)
		assert.Equal(t, clan.Tag, updated.Tag)
	})

	t.Run("rename into taken name rejected", func(t *testing.T) {
		a := f.CreateClan(t)
		b := f.CreateClan(t)

		_, err := svc.Update(ctx, b.ID, model.UpdateClanRequest{
			Name: helpers.StringPtr(a.Name),
		})
		assert.ErrorIs(t, err, service.ErrClanNameTaken)
	})

	t.Run("join password change", func(t *testing.T) {
		clan := f.CreateClan(t, func(o *fixtures.ClanOpts) {
			o.Password = "old-join-pass"
		})

		_, err := svc.Update(ctx, clan.ID, model.UpdateClanRequest{
			Password: helpers.StringPtr("new-join-pass"),
		})
		require.NoError(t, err)

		_, err = svc.Authorize(ctx, clan.Name, "old-join-pass")
		assert.ErrorIs(t, err, service.ErrInvalidCredentials)

		got, err := svc.Authorize(ctx, clan.Name, "new-join-pass")
		require.NoError(t, err)
		assert.Equal(t, clan.ID, got.ID)
	})

	t.Run("unknown clan", func(t *testing.T) {
		_, err := svc.Update(ctx, "clan:doesnotexist", model.UpdateClanRequest{
			Description: helpers.StringPtr("nope"),
		})
		assert.ErrorIs(t, err, service.ErrClanNotFound)
	})
}

// AC-CLN-003: Deletion
func TestClans_Delete(t *testing.T) {
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	svc := createClanService(t, tdb)
	ctx := context.Background()

	clan := f.CreateClan(t)
	user := f.CreateUser(t)
	f.AddAdminToClan(t, user, clan)

	require.NoError(t, svc.Delete(ctx, clan.ID))

	_, err := svc.GetByID(ctx, clan.ID)
	assert.ErrorIs(t, err, service.ErrClanNotFound)

	results := tdb.MustQuery(
		"SELECT * FROM membership WHERE clan = type::record($clan)",
		map[string]interface{}{"clan": clan.ID},
	)
	for _, r := range results {
		if resp, ok := r.(map[string]interface{}); ok {
			if arr, ok := resp["result"].([]interface{}); ok {
				assert.Empty(t, arr)
			}
		}
	}

	t.Run("deleting again reports not found", func(t *testing.T) {
		assert.ErrorIs(t, svc.Delete(ctx, clan.ID), service.ErrClanNotFound)
	})
}

// AC-CLN-004: Listing
func TestClans_List(t *testing.T) {
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	svc := createClanService(t, tdb)
	ctx := context.Background()

	f.CreateClan(t, func(o *fixtures.ClanOpts) {
		o.Name = "Alpha Squad"
		o.Tag = "ALP"
	})
	f.CreateClan(t, func(o *fixtures.ClanOpts) {
		o.Name = "Bravo Company"
		o.Tag = "BRV"
	})
	f.CreateClan(t, func(o *fixtures.ClanOpts) {
		o.Name = "Charlie Unit"
		o.Tag = "CHA"
	})

	t.Run("pagination", func(t *testing.T) {
		page, err := svc.List(ctx, model.ClanListFilter{Page: 1, Limit: 2})
		require.NoError(t, err)
		assert.Equal(t, 3, page.Total)
		assert.Equal(t, 2, page.Count)
	})

	t.Run("substring filter on name", func(t *testing.T) {
		page, err := svc.List(ctx, model.ClanListFilter{Page: 1, Limit: 100, Filter: "bravo"})
		require.NoError(t, err)
		require.Equal(t, 1, page.Count)

		clans, ok := page.Items.([]*model.Clan)
		require.True(t, ok)
		assert.Equal(t, "Bravo Company", clans[0].Name)
	})

	t.Run("substring filter on tag", func(t *testing.T) {
		page, err := svc.List(ctx, model.ClanListFilter{Page: 1, Limit: 100, Filter: "cha"})
		require.NoError(t, err)
		require.Equal(t, 1, page.Count)

		clans, ok := page.Items.([]*model.Clan)
		require.True(t, ok)
		assert.Equal(t, "Charlie Unit", clans[0].Name)
	})

	t.Run("exact match", func(t *testing.T) {
		page, err := svc.List(ctx, model.ClanListFilter{Page: 1, Limit: 100, Filter: "Alpha", Exact: true})
		require.NoError(t, err)
		assert.Equal(t, 0, page.Count)

		page, err = svc.List(ctx, model.ClanListFilter{Page: 1, Limit: 100, Filter: "Alpha Squad", Exact: true})
		require.NoError(t, err)
		assert.Equal(t, 1, page.Count)
	})

	t.Run("sort descending by name", func(t *testing.T) {
		page, err := svc.List(ctx, model.ClanListFilter{Page: 1, Limit: 100, Sort: "name", Desc: true})
		require.NoError(t, err)

		clans, ok := page.Items.([]*model.Clan)
		require.True(t, ok)
		require.Len(t, clans, 3)
		assert.Equal(t, "Charlie Unit", clans[0].Name)
		assert.Equal(t, "Alpha Squad", clans[2].Name)
	})
}

// AC-CLN-005: Bulk Resolution
func TestClans_GetBulk(t *testing.T) {
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	svc := createClanService(t, tdb)
	ctx := context.Background()

	a := f.CreateClan(t)
	b := f.CreateClan(t)

	clans, err := svc.GetBulk(ctx, []string{a.ID, "clan:doesnotexist", b.ID})
	require.NoError(t, err)
	require.Len(t, clans, 2)
	assert.Equal(t, a.ID, clans[0].ID)
	assert.Equal(t, b.ID, clans[1].ID)
}

// AC-CLN-006: Clan Authorization
func TestClans_Authorize(t *testing.T) {
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	svc := createClanService(t, tdb)
	ctx := context.Background()

	clan := f.CreateClan(t, func(o *fixtures.ClanOpts) {
		o.Name = "Gatekeepers"
		o.Password = "open-sesame"
	})

	t.Run("correct join password", func(t *testing.T) {
		got, err := svc.Authorize(ctx, "Gatekeepers", "open-sesame")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, clan.ID, got.ID)
	})

	t.Run("name is case-insensitive", func(t *testing.T) {
		got, err := svc.Authorize(ctx, "gatekeepers", "open-sesame")
		require.NoError(t, err)
		assert.Equal(t, clan.ID, got.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Authorize(ctx, "Gatekeepers", "wrong")
		assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	})

	t.Run("unknown clan reports the same error", func(t *testing.T) {
		_, err := svc.Authorize(ctx, "Nobody Home", "open-sesame")
		assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	})
}

// AC-CLN-007: Availability Checks
func TestClans_AvailabilityChecks(t *testing.T) {
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	svc := createClanService(t, tdb)
	ctx := context.Background()

	f.CreateClan(t, func(o *fixtures.ClanOpts) {
		o.Name = "Taken Name"
		o.Tag = "TKN"
	})

	t.Run("name exists", func(t *testing.T) {
		exists, err := svc.NameExists(ctx, "taken name")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("name free", func(t *testing.T) {
		exists, err := svc.NameExists(ctx, "Free Name")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("tag exists", func(t *testing.T) {
		exists, err := svc.TagExists(ctx, "tkn")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("tag free", func(t *testing.T) {
		exists, err := svc.TagExists(ctx, "FRE")
		require.NoError(t, err)
		assert.False(t, exists)
	})
}
