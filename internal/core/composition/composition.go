// Copyright (c) 2026 Kumiko. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package composition manages stored query specifications and runs them.

A composition is a named, workspace-scoped query spec over record
collections. Its payload is an [engine.QuerySpec] persisted as JSONB; this
package owns the CRUD lifecycle around that payload and the two run paths:

  - Execute: The public, slug-addressed hot path. Resolves workspace and
    composition by slug, enforces access level, compiles via the engine, and
    runs the statement.
  - Preview: The editor path. Runs an in-flight spec that is not persisted
    yet and always answers with a success envelope so the builder UI can
    render compile errors inline.

# Error Seam

The engine raises its own typed errors. This package is the single seam
where they are translated into the API taxonomy: build errors become
validation errors, unresolved collections become not-found, deadline expiry
becomes a gateway timeout, and everything else collapses to an internal
error. SQL text, bind values, and driver messages never cross this seam.
*/
package composition

import (
	"time"

	"github.com/taibuivan/kumiko/internal/engine"
)

// # Access Levels

// AccessLevel controls who may execute a composition through the public
// endpoint.
type AccessLevel string

const (
	// AccessPrivate compositions never execute on the public path; they are
	// reachable only through the management preview surface.
	AccessPrivate AccessLevel = "private"

	// AccessInternal compositions require an authenticated principal.
	AccessInternal AccessLevel = "internal"

	// AccessPublic compositions execute for anonymous callers.
	AccessPublic AccessLevel = "public"
)

// Valid reports whether the access level is one of the supported values.
func (l AccessLevel) Valid() bool {
	switch l {
	case AccessPrivate, AccessInternal, AccessPublic:
		return true
	default:
		return false
	}
}

// # Core Entities

// Composition is a stored query specification.
//
// The slug is unique per workspace and is the public address of the
// composition. Config holds the declarative query spec exactly as the engine
// consumes it; versioning is by overwrite.
type Composition struct {
	ID          string           `json:"id"` // UUIDv7
	WorkspaceID string           `json:"workspace_id"`
	Slug        string           `json:"slug"`
	Name        string           `json:"name"`
	Description *string          `json:"description,omitempty"`
	AccessLevel AccessLevel      `json:"access_level"`
	IsActive    bool             `json:"is_active"`
	Config      engine.QuerySpec `json:"config"`
	CreatedBy   *string          `json:"created_by,omitempty"`
	UpdatedBy   *string          `json:"updated_by,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// # Run Results

// ResultMetadata accompanies every successful execution.
type ResultMetadata struct {
	Count         int       `json:"count"`
	CompositionID string    `json:"compositionId,omitempty"`
	ExecutedAt    time.Time `json:"executedAt"`
}

// ResultSet is the outcome of a successful execution: the projected rows in
// order, keyed by the engine's derived aliases.
type ResultSet struct {
	Rows     []engine.Row   `json:"data"`
	Metadata ResultMetadata `json:"metadata"`
}

// PreviewError describes why a previewed spec failed to compile or run.
// Field names the offending identifier when the engine can point at one.
type PreviewError struct {
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// PreviewResult is the always-200 envelope returned by the preview path.
// Exactly one of Data/Error is populated, discriminated by Success.
type PreviewResult struct {
	Success  bool            `json:"success"`
	Data     []engine.Row    `json:"data,omitempty"`
	Metadata *ResultMetadata `json:"metadata,omitempty"`
	Error    *PreviewError   `json:"error,omitempty"`
}

// # Field Identifiers

const (
	FieldName        = "name"
	FieldSlug        = "slug"
	FieldAccessLevel = "access_level"
	FieldConfig      = "config"
	FieldFrom        = "config.from"
)
