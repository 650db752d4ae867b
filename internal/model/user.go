package model

import "time"

// User statuses follow a semantic, not boolean, convention: positive means
// active/visible, zero or negative means disabled. Only active users show up
// in default listings and case-insensitive lookups.
const (
	UserStatusActive   = 1
	UserStatusDisabled = -1
)

// Gender values accepted on user profiles.
const (
	GenderMale    = "m"
	GenderFemale  = "w"
	GenderDiverse = "d"
)

// Field length constraints for user profiles.
const (
	MinPasswordLength   = 6
	MaxPasswordLength   = 256
	MaxFreeTextLength   = 4096 // hardware, statements
	CountryCodeLength   = 2
	MaxEmailLength      = 254
	MaxNicknameLength   = 64
)

// User represents a registered account.
type User struct {
	ID             string     `json:"id"`
	Email          string     `json:"email"`
	Nickname       string     `json:"nickname"`
	Hash           *string    `json:"-"` // Never expose password hash
	Status         int        `json:"status"`
	EmailConfirmed bool       `json:"email_confirmed"`
	Superadmin     bool       `json:"superadmin"`
	InfoMails      bool       `json:"info_mails"`
	Firstname      *string    `json:"firstname,omitempty"`
	Surname        *string    `json:"surname,omitempty"`
	Postcode       *int       `json:"postcode,omitempty"`
	City           *string    `json:"city,omitempty"`
	Street         *string    `json:"street,omitempty"`
	Country        *string    `json:"country,omitempty"`
	Phone          *string    `json:"phone,omitempty"`
	Gender         *string    `json:"gender,omitempty"`
	Website        *string    `json:"website,omitempty"`
	SteamAccount   *string    `json:"steam_account,omitempty"`
	Hardware       *string    `json:"hardware,omitempty"`
	Statements     *string    `json:"statements,omitempty"`
	Birthdate      *time.Time `json:"birthdate,omitempty"`
	RegisteredOn   time.Time  `json:"registered_on"`
	ModifiedOn     time.Time  `json:"modified_on"`
}

// IsActive returns true if the user participates in active listings.
func (u *User) IsActive() bool {
	return u.Status >= UserStatusActive
}

// RegisterRequest represents a self-service registration.
type RegisterRequest struct {
	Email     string  `json:"email"`
	Password  string  `json:"password"`
	Nickname  string  `json:"nickname"`
	Firstname *string `json:"firstname,omitempty"`
	Surname   *string `json:"surname,omitempty"`
	InfoMails *bool   `json:"info_mails,omitempty"`
}

// CreateUserRequest represents an administrative user creation.
type CreateUserRequest struct {
	Email          string  `json:"email"`
	Password       string  `json:"password"`
	Nickname       string  `json:"nickname"`
	EmailConfirmed *bool   `json:"email_confirmed,omitempty"`
	InfoMails      *bool   `json:"info_mails,omitempty"`
	Firstname      *string `json:"firstname,omitempty"`
	Surname        *string `json:"surname,omitempty"`
}

// UpdateUserRequest represents a partial user edit. Nil fields are left
// untouched. Identity, timestamps, and the superadmin flag are
// server-controlled and have no place here.
type UpdateUserRequest struct {
	Email        *string    `json:"email,omitempty"`
	Password     *string    `json:"password,omitempty"`
	Nickname     *string    `json:"nickname,omitempty"`
	Status       *int       `json:"status,omitempty"`
	InfoMails    *bool      `json:"info_mails,omitempty"`
	Firstname    *string    `json:"firstname,omitempty"`
	Surname      *string    `json:"surname,omitempty"`
	Postcode     *int       `json:"postcode,omitempty"`
	City         *string    `json:"city,omitempty"`
	Street       *string    `json:"street,omitempty"`
	Country      *string    `json:"country,omitempty"`
	Phone        *string    `json:"phone,omitempty"`
	Gender       *string    `json:"gender,omitempty"`
	Website      *string    `json:"website,omitempty"`
	SteamAccount *string    `json:"steam_account,omitempty"`
	Hardware     *string    `json:"hardware,omitempty"`
	Statements   *string    `json:"statements,omitempty"`
	Birthdate    *time.Time `json:"birthdate,omitempty"`
}

// SearchUsersRequest selects users by explicit criteria.
type SearchUsersRequest struct {
	UUIDs      []string `json:"uuids,omitempty"`
	Nickname   *string  `json:"nickname,omitempty"`
	Superadmin *bool    `json:"superadmin,omitempty"`
	InfoMails  *bool    `json:"info_mails,omitempty"`
}

// IsEmpty reports whether no search criterion was supplied.
func (r *SearchUsersRequest) IsEmpty() bool {
	return len(r.UUIDs) == 0 && r.Nickname == nil && r.Superadmin == nil && r.InfoMails == nil
}

// UserListFilter holds the pagination and filter parameters for user listings.
type UserListFilter struct {
	Page  int
	Limit int
	Query string // matches nickname, email, firstname, surname
}
