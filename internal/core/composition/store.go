// Copyright (c) 2026 Kumiko. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package composition

import "context"

// # Composition Data Access

// Repository defines the data access contract for compositions. Every method
// is scoped by workspace id.
type Repository interface {

	/*
		List returns a paginated slice of a workspace's compositions and the total count.

		Parameters:
		  - context: context.Context
		  - workspaceID: string
		  - limit: int
		  - offset: int

		Returns:
		  - []*Composition: Slice of matching compositions
		  - int: Total record count
		  - error: Database retrieval failures
	*/
	List(context context.Context, workspaceID string, limit, offset int) ([]*Composition, int, error)

	/*
		FindByID retrieves a composition by its UUID.

		Parameters:
		  - context: context.Context
		  - workspaceID: string
		  - id: string (UUIDv7)

		Returns:
		  - *Composition: Hydrated entity including Config
		  - error: ErrNotFound if missing
	*/
	FindByID(context context.Context, workspaceID, id string) (*Composition, error)

	/*
		FindBySlug retrieves a composition by its workspace-unique slug.

		Parameters:
		  - context: context.Context
		  - workspaceID: string
		  - slug: string

		Returns:
		  - *Composition: Hydrated entity including Config
		  - error: ErrNotFound if missing
	*/
	FindBySlug(context context.Context, workspaceID, slug string) (*Composition, error)

	/*
		Create persists a new composition.

		Parameters:
		  - context: context.Context
		  - entity: *Composition

		Returns:
		  - error: Persistence failures (Conflict on duplicate slug)
	*/
	Create(context context.Context, entity *Composition) error

	/*
		Update overwrites a composition's mutable attributes and its config.

		Parameters:
		  - context: context.Context
		  - entity: *Composition

		Returns:
		  - error: Persistence failures
	*/
	Update(context context.Context, entity *Composition) error

	/*
		Delete removes a composition.

		Parameters:
		  - context: context.Context
		  - workspaceID: string
		  - id: string

		Returns:
		  - error: ErrNotFound when no row matched
	*/
	Delete(context context.Context, workspaceID, id string) error
}

// # Hot-Path Lookup Cache

// LookupCache shields the slug-resolution reads on the execute path from the
// database. Implementations must degrade silently: a cache failure is a miss,
// never an error surfaced to the caller.
type LookupCache interface {

	// Get loads the cached value for key into target. It reports false on a
	// miss, a decode failure, or any backend error.
	Get(context context.Context, key string, target any) bool

	// Set stores value under key with the cache's TTL. Best effort.
	Set(context context.Context, key string, value any)

	// Delete drops the given keys. Best effort; used on composition writes.
	Delete(context context.Context, keys ...string)
}
