// Package service implements the business logic layer for the ClanHub API.
//
// Services sit between HTTP handlers and repositories. They validate input,
// enforce domain invariants, and translate storage results into typed errors
// or outcomes the handlers can map onto the wire.
//
// # Services
//
//   - UserService: accounts, profile edits, listings, search, credential checks
//   - ClanService: clan lifecycle, listings, bulk resolution, join-password checks
//   - MembershipService: join/leave, admin flags, last-admin protection
//   - RenderService: depth-limited serialization of the user<->clan graph
//   - BcryptVerifier: secret hashing shared by user and clan credentials
//
// # Errors and Outcomes
//
// Unexpected failures surface as errors from the centralized set in
// errors.go:
//
//	ErrUserNotFound       = errors.New("user not found")
//	ErrClanNotFound       = errors.New("clan not found")
//	ErrInvalidCredentials = errors.New("invalid credentials")
//
// Membership mutations distinguish expected conditions from failures by
// returning a MembershipOutcome (AlreadyMember, NotMember, LastAdminProtected)
// alongside a nil error, so handlers can pick status codes without string
// matching.
//
// # Construction
//
// Services are constructed with config structs holding their repository
// interfaces:
//
//	svc := NewMembershipService(MembershipServiceConfig{
//	    MembershipRepo: membershipRepository,
//	    UserRepo:       userRepository,
//	    ClanRepo:       clanRepository,
//	})
//
// Repository interfaces are declared here, next to their consumers, and
// implemented by the repository package.
package service
