// Copyright (c) 2026 Kumiko. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants provides centralized, immutable values for the entire platform.

It defines default timeouts, rate limits, and cross-cutting keys that are shared
between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Query Engine: Row ceilings and statement deadlines for composition runs.
  - Rate Limiting: Burst capacities and IP tracking TTLs.
  - Security: JWT issuers and API key framing.

Using this package ensures Magic Strings and Magic Numbers are eliminated
from the business logic.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "kumiko-api"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Query Engine

const (
	// DefaultRowCeiling caps how many rows a composition run reads when its
	// spec declares no limit.
	DefaultRowCeiling = 1000

	// ExecuteTimeout is the deadline for a single composition execution,
	// statement included. Expiry surfaces as DEADLINE_EXCEEDED.
	ExecuteTimeout = 15 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 100.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 150

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Authentication

const (
	// AuthIssuer is the standard 'iss' claim in JWTs.
	AuthIssuer = "kumiko.app"

	// APIKeyHeader carries a workspace API key as an alternative principal.
	APIKeyHeader = "X-API-Key"

	// APIKeyPrefix frames every issued workspace key: kmk_<prefix>_<secret>.
	APIKeyPrefix = "kmk_"
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
)

// # JSON Field Identifiers

const (
	FieldData     = "data"
	FieldMeta     = "meta"
	FieldMetadata = "metadata"
	FieldError    = "error"
	FieldCode     = "code"
	FieldDetails  = "details"
	FieldMessage  = "message"
	FieldStatus   = "status"
	FieldApp      = "app"
	FieldVersion  = "version"
	FieldChecks   = "checks"
)

// # Redis Prefixes (Cache Taxonomy)

const (
	RedisPrefixWorkspace   = "cache:workspace:slug:"
	RedisPrefixComposition = "cache:composition:"
)

// # Cache TTLs

const (
	// LookupCacheTTL bounds staleness of the slug-resolution caches on the
	// execute hot path. Writes invalidate eagerly; the TTL is the backstop.
	LookupCacheTTL = 60 * time.Second
)
