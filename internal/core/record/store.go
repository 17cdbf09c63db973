// Copyright (c) 2026 Kumiko. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package record

import "context"

// # Record Data Access

// Repository defines the data access contract for records. Every method is
// scoped by workspace and collection id; a record is never visible outside
// its collection.
type Repository interface {

	/*
		List returns a paginated slice of a collection's records and the total count.

		Parameters:
		  - context: context.Context
		  - workspaceID: string
		  - collectionID: string
		  - limit: int
		  - offset: int

		Returns:
		  - []*Record: Newest records first
		  - int: Total record count
		  - error: Database retrieval failures
	*/
	List(context context.Context, workspaceID, collectionID string, limit, offset int) ([]*Record, int, error)

	/*
		FindByID retrieves a record by its UUID.

		Parameters:
		  - context: context.Context
		  - workspaceID: string
		  - collectionID: string
		  - id: string (UUIDv7)

		Returns:
		  - *Record: Hydrated entity including the document
		  - error: ErrNotFound if missing
	*/
	FindByID(context context.Context, workspaceID, collectionID, id string) (*Record, error)

	/*
		Create persists a new record.

		Parameters:
		  - context: context.Context
		  - entity: *Record

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, entity *Record) error

	/*
		Update overwrites a record's document and stamps the editor.

		Parameters:
		  - context: context.Context
		  - entity: *Record

		Returns:
		  - error: Persistence failures
	*/
	Update(context context.Context, entity *Record) error

	/*
		Delete removes a record.

		Parameters:
		  - context: context.Context
		  - workspaceID: string
		  - collectionID: string
		  - id: string

		Returns:
		  - error: ErrNotFound when no row matched
	*/
	Delete(context context.Context, workspaceID, collectionID, id string) error
}
