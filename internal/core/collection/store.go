// Copyright (c) 2026 Kumiko. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package collection

import "context"

// # Collection Data Access

// Repository defines the data access contract for collections and their
// field definitions. Every method is scoped by workspace id; a collection is
// never visible outside its tenant.
type Repository interface {

	/*
		List returns a paginated slice of a workspace's collections and the total count.

		Parameters:
		  - context: context.Context
		  - workspaceID: string
		  - limit: int
		  - offset: int

		Returns:
		  - []*Collection: Slice without field definitions (list views are shallow)
		  - int: Total record count
		  - error: Database retrieval failures
	*/
	List(context context.Context, workspaceID string, limit, offset int) ([]*Collection, int, error)

	/*
		FindByID retrieves a collection with its ordered field definitions.

		Parameters:
		  - context: context.Context
		  - workspaceID: string
		  - id: string (UUIDv7)

		Returns:
		  - *Collection: Hydrated entity including Fields
		  - error: ErrNotFound if missing
	*/
	FindByID(context context.Context, workspaceID, id string) (*Collection, error)

	/*
		FindBySlug retrieves a collection by its identifier-shaped slug.

		Parameters:
		  - context: context.Context
		  - workspaceID: string
		  - slug: string

		Returns:
		  - *Collection: Hydrated entity including Fields
		  - error: ErrNotFound if missing
	*/
	FindBySlug(context context.Context, workspaceID, slug string) (*Collection, error)

	/*
		ResolveSlugs maps collection slugs to ids inside one workspace.

		Description: Used by the composition service to resolve the source and
		joined collections of a query spec in a single round trip. Slugs with no
		matching collection are simply absent from the result map.

		Parameters:
		  - context: context.Context
		  - workspaceID: string
		  - slugs: []string

		Returns:
		  - map[string]string: slug → collection id
		  - error: Database retrieval failures
	*/
	ResolveSlugs(context context.Context, workspaceID string, slugs []string) (map[string]string, error)

	/*
		Create persists a new collection and its field definitions atomically.

		Parameters:
		  - context: context.Context
		  - entity: *Collection (Fields inserted in slice order)

		Returns:
		  - error: Persistence failures (Conflict on duplicate slug)
	*/
	Create(context context.Context, entity *Collection) error

	/*
		Update modifies a collection's name and description.

		Parameters:
		  - context: context.Context
		  - entity: *Collection

		Returns:
		  - error: Persistence failures
	*/
	Update(context context.Context, entity *Collection) error

	/*
		ReplaceFields swaps a collection's field definitions atomically.

		Parameters:
		  - context: context.Context
		  - collectionID: string
		  - fields: []Field (inserted in slice order; Position assigned from index)

		Returns:
		  - error: Persistence failures
	*/
	ReplaceFields(context context.Context, collectionID string, fields []Field) error

	/*
		Delete removes a collection, its fields, and its records.

		Parameters:
		  - context: context.Context
		  - workspaceID: string
		  - id: string

		Returns:
		  - error: Persistence failures
	*/
	Delete(context context.Context, workspaceID, id string) error
}
