// Package fixtures provides test data factories for e2e testing.
//
// Each factory method creates entities with sensible defaults while allowing
// customization via option functions. Factories handle database insertion
// and return fully populated models.
//
// Usage:
//
//	f := fixtures.New(tdb.DB)
//	user := f.CreateUser(t)
//	clan := f.CreateClan(t)
//	f.AddUserToClan(t, user, clan)
package fixtures

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/forgo/clanhub/api/internal/database"
	"github.com/forgo/clanhub/api/internal/model"

	"golang.org/x/crypto/bcrypt"
)

// Factory creates test entities in the database
type Factory struct {
	db database.Database
}

// New creates a new fixture factory
func New(db database.Database) *Factory {
	return &Factory{db: db}
}

// randomID generates a random hex ID
func randomID() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// ctx returns a context with timeout
func ctx() context.Context {
	c, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	// Store cancel to prevent leak warning
	_ = cancel
	return c
}

// ============================================================================
// User Fixtures
// ============================================================================

// UserOpts customizes user creation
type UserOpts struct {
	Email          string
	Nickname       string
	Password       string
	Status         int
	EmailConfirmed bool
	Superadmin     bool
	InfoMails      bool
}

// CreateUser creates a user with optional customizations
func (f *Factory) CreateUser(t *testing.T, opts ...func(*UserOpts)) *model.User {
	t.Helper()

	o := &UserOpts{
		Email:          fmt.Sprintf("user_%s@test.local", randomID()),
		Nickname:       fmt.Sprintf("user_%s", randomID()),
		Password:       "testpass123",
		Status:         model.UserStatusActive,
		EmailConfirmed: true,
		InfoMails:      true,
	}
	for _, fn := range opts {
		fn(o)
	}

	// MinCost keeps fixture creation fast
	hash, err := bcrypt.GenerateFromPassword([]byte(o.Password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("fixtures: failed to hash password: %v", err)
	}

	query := `
		CREATE user CONTENT {
			email: $email,
			nickname: $nickname,
			hash: $hash,
			status: $status,
			email_confirmed: $email_confirmed,
			superadmin: $superadmin,
			info_mails: $info_mails,
			registered_on: time::now(),
			modified_on: time::now()
		}
	`
	vars := map[string]interface{}{
		"email":           o.Email,
		"nickname":        o.Nickname,
		"hash":            string(hash),
		"status":          o.Status,
		"email_confirmed": o.EmailConfirmed,
		"superadmin":      o.Superadmin,
		"info_mails":      o.InfoMails,
	}

	results, err := f.db.Query(ctx(), query, vars)
	if err != nil {
		t.Fatalf("fixtures: failed to create user: %v", err)
	}

	data := extractFirstResult(t, results)
	return &model.User{
		ID:             getString(data, "id"),
		Email:          getString(data, "email"),
		Nickname:       getString(data, "nickname"),
		Status:         getInt(data, "status"),
		EmailConfirmed: getBool(data, "email_confirmed"),
		Superadmin:     getBool(data, "superadmin"),
		InfoMails:      getBool(data, "info_mails"),
		RegisteredOn:   getTime(data, "registered_on"),
		ModifiedOn:     getTime(data, "modified_on"),
	}
}

// CreateSuperadmin creates a user with the superadmin flag set
func (f *Factory) CreateSuperadmin(t *testing.T) *model.User {
	return f.CreateUser(t, func(o *UserOpts) {
		o.Superadmin = true
	})
}

// CreateDisabledUser creates a user excluded from listings and logins
func (f *Factory) CreateDisabledUser(t *testing.T) *model.User {
	return f.CreateUser(t, func(o *UserOpts) {
		o.Status = model.UserStatusDisabled
	})
}

// ============================================================================
// Clan Fixtures
// ============================================================================

// ClanOpts customizes clan creation
type ClanOpts struct {
	Name        string
	Tag         string
	Password    string
	Description string
}

// CreateClan creates a clan
func (f *Factory) CreateClan(t *testing.T, opts ...func(*ClanOpts)) *model.Clan {
	t.Helper()

	id := randomID()
	o := &ClanOpts{
		Name:        fmt.Sprintf("Clan %s", id),
		Tag:         fmt.Sprintf("T%s", id[:6]),
		Password:    "clanpass123",
		Description: "Test clan description",
	}
	for _, fn := range opts {
		fn(o)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(o.Password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("fixtures: failed to hash join password: %v", err)
	}

	query := `
		CREATE clan CONTENT {
			name: $name,
			tag: $tag,
			join_hash: $join_hash,
			description: $description,
			created_on: time::now(),
			modified_on: time::now()
		}
	`
	results, err := f.db.Query(ctx(), query, map[string]interface{}{
		"name":        o.Name,
		"tag":         o.Tag,
		"join_hash":   string(hash),
		"description": o.Description,
	})
	if err != nil {
		t.Fatalf("fixtures: failed to create clan: %v", err)
	}

	data := extractFirstResult(t, results)
	desc := getString(data, "description")
	return &model.Clan{
		ID:          getString(data, "id"),
		Name:        getString(data, "name"),
		Tag:         getString(data, "tag"),
		Description: &desc,
		CreatedOn:   getTime(data, "created_on"),
		ModifiedOn:  getTime(data, "modified_on"),
	}
}

// ============================================================================
// Membership Fixtures
// ============================================================================

// AddUserToClan creates a regular membership
func (f *Factory) AddUserToClan(t *testing.T, user *model.User, clan *model.Clan) {
	f.addMembership(t, user, clan, false)
}

// AddAdminToClan creates an admin membership
func (f *Factory) AddAdminToClan(t *testing.T, user *model.User, clan *model.Clan) {
	f.addMembership(t, user, clan, true)
}

func (f *Factory) addMembership(t *testing.T, user *model.User, clan *model.Clan, admin bool) {
	t.Helper()

	query := `
		CREATE membership CONTENT {
			user: type::record($user_id),
			clan: type::record($clan_id),
			admin: $admin,
			created_on: time::now()
		}
	`
	if err := f.db.Execute(ctx(), query, map[string]interface{}{
		"user_id": user.ID,
		"clan_id": clan.ID,
		"admin":   admin,
	}); err != nil {
		t.Fatalf("fixtures: failed to create membership: %v", err)
	}
}

// ============================================================================
// Data Extraction Helpers
// ============================================================================

func extractFirstResult(t *testing.T, results []interface{}) map[string]interface{} {
	t.Helper()
	if len(results) == 0 {
		t.Fatal("fixtures: no results returned")
	}

	// Handle SurrealDB response wrapper
	resp, ok := results[0].(map[string]interface{})
	if !ok {
		t.Fatalf("fixtures: unexpected result type: %T", results[0])
	}

	result, ok := resp["result"]
	if !ok {
		t.Fatal("fixtures: no result in response")
	}

	// Handle array result
	if arr, ok := result.([]interface{}); ok {
		if len(arr) == 0 {
			t.Fatal("fixtures: empty result array")
		}
		data, ok := arr[0].(map[string]interface{})
		if !ok {
			t.Fatalf("fixtures: unexpected array item type: %T", arr[0])
		}
		return data
	}

	// Handle single result
	data, ok := result.(map[string]interface{})
	if !ok {
		t.Fatalf("fixtures: unexpected result type: %T", result)
	}
	return data
}

func getString(data map[string]interface{}, key string) string {
	if v, ok := data[key].(string); ok {
		return v
	}
	// Handle SurrealDB record ID type - could be a struct or map
	if v := data[key]; v != nil {
		if m, ok := v.(map[string]interface{}); ok {
			if tb, ok := m["tb"].(string); ok {
				if id := m["id"]; id != nil {
					return fmt.Sprintf("%s:%v", tb, id)
				}
			}
		}
		// Fallback: use string conversion but fix the format if needed
		s := fmt.Sprintf("%v", v)
		// Convert "{table id}" to "table:id"
		if len(s) > 2 && s[0] == '{' && s[len(s)-1] == '}' {
			inner := s[1 : len(s)-1]
			for i, c := range inner {
				if c == ' ' {
					return inner[:i] + ":" + inner[i+1:]
				}
			}
		}
		return s
	}
	return ""
}

func getBool(data map[string]interface{}, key string) bool {
	if v, ok := data[key].(bool); ok {
		return v
	}
	return false
}

func getInt(data map[string]interface{}, key string) int {
	switch v := data[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case int64:
		return int(v)
	}
	return 0
}

func getTime(data map[string]interface{}, key string) time.Time {
	if v, ok := data[key].(string); ok {
		t, _ := time.Parse(time.RFC3339Nano, v)
		return t
	}
	return time.Time{}
}
