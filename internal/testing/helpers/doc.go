// Package helpers provides test utility functions for the ClanHub API.
//
// The helpers package contains common test utilities for assertions,
// pointer creation, and test data manipulation.
//
// # Pointer Helpers
//
// Create pointers to literal values:
//
//	name := helpers.StringPtr("test")
//	count := helpers.IntPtr(42)
//	flag := helpers.BoolPtr(true)
//
// # Request Helpers
//
// Build JSON requests fluently:
//
//	req := helpers.NewRequest(t, http.MethodPost, "/v1/clans").
//	    WithBody(body).
//	    Build()
//
// # Assertion Helpers
//
// Common test assertions:
//
//	helpers.AssertRecordExists(t, db, "clan", "clan:123")
//	helpers.AssertRecordNotExists(t, db, "clan", "clan:456")
//	helpers.AssertProblemDetails(t, resp, 404, model.ErrCodeNotFound)
package helpers
