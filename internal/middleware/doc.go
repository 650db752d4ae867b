// Package middleware provides HTTP middleware for the ClanHub API.
//
// The middleware package contains reusable middleware components for
// request processing, rate limiting, and cross-cutting HTTP concerns.
//
// # Available Middleware
//
// Core middleware components:
//
//   - RequestID: Unique request identifier propagation
//   - Logger: Structured request logging via slog
//   - Recovery: Panic recovery with a problem-details 500 response
//   - CORS: Cross-origin resource sharing with an origin allowlist
//   - RateLimit: Token bucket rate limiting per client address
//   - Compress: Gzip response compression
//
// # Composition
//
// Middleware is composed with Chain, applied in order:
//
//	handler := middleware.Chain(mux,
//	    middleware.RequestID,
//	    middleware.Logger,
//	    middleware.Recovery,
//	)
//
// # Rate Limiting
//
// Rate limiting protects against abuse:
//
//	limiter := middleware.NewRateLimiter(middleware.RateLimitConfig{Rate: 300})
//	handler = middleware.RateLimit(limiter)(handler)
//
// Buckets refill continuously over the configured window and allow a
// configurable burst above the steady rate.
//
// # Context Values
//
// Middleware sets context values accessible via helper functions:
//
//   - GetRequestID(ctx): Returns the unique request identifier
package middleware
