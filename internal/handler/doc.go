// Package handler provides HTTP request handlers for the ClanHub API.
//
// The handler package contains all HTTP endpoint implementations organized by domain.
// Each handler struct encapsulates the dependencies needed to serve requests for a
// specific feature area (auth, users, clans, memberships).
//
// # Handler Pattern
//
// All handlers follow a consistent pattern:
//
//   - Constructor function (NewXxxHandler) accepts its service dependencies
//   - Methods handle specific HTTP endpoints
//   - Response helpers from response.go standardize output format
//   - Errors are mapped to RFC 9457 Problem Details responses
//
// # Response Format
//
// Handlers use standardized response functions:
//
//   - WriteJSON: Raw JSON response
//   - WritePage: Paginated list with total and count
//   - WriteNoContent: Bare 204 response
//   - WriteError: RFC 9457 Problem Details error response
//
// # Rendering Depth
//
// Endpoints returning users or clans accept a ?depth query parameter that
// bounds how far the membership graph is expanded. Depth 0 reduces an
// entity to its identifier.
//
// # Example Usage
//
//	handler := NewClanHandler(clanService, renderService)
//	mux.HandleFunc("GET /v1/clans", handler.List)
//	mux.HandleFunc("POST /v1/clans", handler.Create)
package handler
