// Package model defines domain entities and data structures for the ClanHub API.
//
// The model package contains all struct definitions for domain objects,
// request/response types, and error definitions. Models are used across all
// layers of the application.
//
// # Domain Entities
//
// Core domain entities include:
//
//   - User: Registered account with credentials and profile fields
//   - Clan: Group of users with a join password used for clan authorization
//   - Membership: Join record linking one user to one clan with an admin flag
//
// # JSON Serialization
//
// All models use json struct tags for API serialization:
//
//	type Clan struct {
//	    ID   string `json:"id"`
//	    Name string `json:"name"`
//	    Tag  string `json:"tag"`
//	}
//
// Password hashes carry `json:"-"` and are never emitted.
//
// # Validation
//
// Request types expose Validate() []FieldError; constants such as
// MaxClanNameLength and MinPasswordLength bound field sizes.
//
// # Error Types
//
// RFC 9457 Problem Details errors are defined in errors.go:
//
//	type ProblemDetails struct {
//	    Type    string    `json:"type"`
//	    Title   string    `json:"title"`
//	    Status  int       `json:"status"`
//	    Detail  string    `json:"detail"`
//	}
package model
