// Package config manages application configuration for the ClanHub API.
//
// The config package loads and validates configuration from environment
// variables. All configuration is centralized here to provide a single
// source of truth.
//
// # Configuration Loading
//
// Configuration is loaded from environment variables, with a .env file in
// the working directory applied first when present:
//
//	cfg, err := config.Load()
//
// # Configuration Groups
//
// Configuration is organized into logical groups:
//
//   - ServerConfig: HTTP server settings (port, timeouts, CORS origins)
//   - DatabaseConfig: SurrealDB connection settings
//   - APIConfig: Request handling settings (strict decoding, rate limits)
//
// # Environment Variables
//
// Key environment variables:
//
//	SERVER_PORT        - HTTP server port (default: 8080)
//	SERVER_ENV         - development, production, or test
//	DB_HOST            - SurrealDB host (default: localhost)
//	DB_PORT            - SurrealDB port (default: 8000)
//	DB_NAMESPACE       - Database namespace (default: clanhub)
//	DB_DATABASE        - Database name (default: main)
//	API_STRICT_FIELDS  - Reject unknown JSON fields (default: true)
//	API_RATE_LIMIT     - Requests per minute per client, 0 disables
//
// # Default Values
//
// Sensible defaults are provided for development:
//
//	func getEnv(key, defaultValue string) string {
//	    if value := os.Getenv(key); value != "" {
//	        return value
//	    }
//	    return defaultValue
//	}
package config
