package service

import "errors"

// Centralized service layer errors.
// All errors returned by service methods are defined here for consistency
// and to make error handling in handlers predictable.

// ===== Credential Errors =====
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNoCredentials      = errors.New("no credentials on record")
)

// ===== User Errors =====
var (
	ErrUserNotFound  = errors.New("user not found")
	ErrEmailTaken    = errors.New("email already registered")
	ErrNicknameTaken = errors.New("nickname already taken")
	ErrEmptySearch   = errors.New("at least one search criterion is required")
)

// ===== Clan Errors =====
var (
	ErrClanNotFound  = errors.New("clan not found")
	ErrClanNameTaken = errors.New("a clan with this name already exists")
	ErrClanTagTaken  = errors.New("a clan with this tag already exists")
)

// ===== Membership Errors =====
var (
	ErrNotMember     = errors.New("user is not a member of this clan")
	ErrUsersNotFound = errors.New("not all users were found")
	ErrLastAdmin     = errors.New("cannot remove the last admin of the clan")
)
