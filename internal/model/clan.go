package model

import (
	"encoding/json"
	"time"
)

// Field length constraints for clans.
const (
	MaxClanNameLength = 100
	MaxClanTagLength  = 10
	MaxClanDescLength = 2048
)

// Clan represents a group of users. The name doubles as the clan's login
// identity for the join-password authorization flow.
type Clan struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Tag         string    `json:"tag"`
	Description *string   `json:"description,omitempty"`
	Website     *string   `json:"website,omitempty"`
	JoinHash    *string   `json:"-"` // Never expose join password hash
	CreatedOn   time.Time `json:"created_on"`
	ModifiedOn  time.Time `json:"modified_on"`
}

// Membership links one user to one clan. Exactly one record may exist per
// (user, clan) pair; the admin flag marks clan administrators.
type Membership struct {
	UserID string `json:"user_id"`
	ClanID string `json:"clan_id"`
	Admin  bool   `json:"admin"`
}

// ClanMember pairs a clan member with their admin flag.
type ClanMember struct {
	User  *User `json:"user"`
	Admin bool  `json:"admin"`
}

// CreateClanRequest represents a request to create a clan.
type CreateClanRequest struct {
	Name        string  `json:"name"`
	Tag         string  `json:"tag"`
	Password    string  `json:"password"`
	Description *string `json:"description,omitempty"`
	Website     *string `json:"website,omitempty"`
}

// UpdateClanRequest represents a partial clan edit. A non-nil Password is
// hashed before persisting; everything else passes through untransformed.
type UpdateClanRequest struct {
	Name        *string `json:"name,omitempty"`
	Tag         *string `json:"tag,omitempty"`
	Password    *string `json:"password,omitempty"`
	Description *string `json:"description,omitempty"`
	Website     *string `json:"website,omitempty"`
}

// ClanAuthorizeRequest carries clan name + join password for the clan
// authorization flow.
type ClanAuthorizeRequest struct {
	Name   string `json:"name"`
	Secret string `json:"secret"`
}

// BulkRequest carries a list of record UUIDs for bulk fetches.
type BulkRequest struct {
	UUIDs []string `json:"uuids"`
}

// UUIDList accepts either a single JSON string or an array of strings, so
// membership endpoints can take `"user:x"` and `["user:x","user:y"]` alike.
type UUIDList []string

// UnmarshalJSON implements the string-or-array decoding.
func (l *UUIDList) UnmarshalJSON(data []byte) error {
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		*l = UUIDList{one}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*l = UUIDList(many)
	return nil
}

// MemberChangeRequest is the body for add-member/add-admin endpoints.
type MemberChangeRequest struct {
	UUID UUIDList `json:"uuid"`
}

// ClanListFilter holds the pagination, filter, and sort parameters for clan
// listings.
type ClanListFilter struct {
	Page   int
	Limit  int
	Filter string // matches name (and tag)
	Sort   string // whitelisted column, default "name"
	Desc   bool
	Exact  bool // exact match instead of substring
}

// PagedResult is the envelope for paginated listings.
type PagedResult struct {
	Total int         `json:"total"`
	Count int         `json:"count"`
	Items interface{} `json:"items"`
}
