// Package repository implements the data access layer for the ClanHub API.
//
// The repository package contains all database operations using SurrealDB.
// Each repository struct handles CRUD operations for a specific domain entity.
//
// # Repository Pattern
//
// All repositories follow a consistent pattern:
//
//   - Constructor function (NewXxxRepository) accepts a database connection
//   - Methods implement specific data operations (Create, GetByID, Update, Delete, etc.)
//   - SurrealQL queries are used for all database interactions
//   - Results are parsed and mapped to model structs
//   - Single-record lookups return (nil, nil) when the record is absent
//
// # Database Connection
//
// Repositories accept a database.Database interface, allowing:
//
//   - Connection pooling and management at a higher level
//   - Transaction support when needed
//   - Easy testing with mock implementations
//
// # Query Patterns
//
// Common query patterns used:
//
//   - Parameterized queries with $variable syntax for security
//   - type::record() for safe ID handling
//   - string::lowercase() comparisons for case-insensitive lookups
//   - time::now() for automatic timestamps
//   - AtomicBatch for cascading deletes (user/clan plus memberships)
//
// # Example Usage
//
//	repo := NewClanRepository(db)
//	clan, err := repo.GetByID(ctx, "clan:abc123")
//	if err != nil {
//	    return err
//	}
//	if clan == nil {
//	    // Handle not found
//	}
package repository
