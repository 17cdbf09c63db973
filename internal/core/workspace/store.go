// Copyright (c) 2026 Kumiko. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package workspace

import "context"

// # Workspace Data Access

// Repository defines the read-side data access contract for workspaces and
// their API keys. Provisioning writes happen in the control plane, so no
// create or update methods exist here.
type Repository interface {

	/*
		FindBySlug resolves a workspace by its public slug.

		Parameters:
		  - context: context.Context
		  - slug: string

		Returns:
		  - *Workspace: Hydrated entity
		  - error: ErrNotFound if missing
	*/
	FindBySlug(context context.Context, slug string) (*Workspace, error)

	/*
		FindByID retrieves a workspace by its UUID.

		Parameters:
		  - context: context.Context
		  - id: string (UUIDv7)

		Returns:
		  - *Workspace: Hydrated entity
		  - error: ErrNotFound if missing
	*/
	FindByID(context context.Context, id string) (*Workspace, error)

	// # API Key Access

	/*
		FindAPIKeyByPrefix retrieves a key row by its unique lookup prefix.

		Parameters:
		  - context: context.Context
		  - prefix: string (the middle segment of kmk_<prefix>_<secret>)

		Returns:
		  - *APIKey: Hydrated entity including the stored hash
		  - error: ErrNotFound if missing
	*/
	FindAPIKeyByPrefix(context context.Context, prefix string) (*APIKey, error)

	/*
		TouchAPIKey stamps the key's last_used_at marker.

		Parameters:
		  - context: context.Context
		  - id: string (key UUID)

		Returns:
		  - error: Persistence failures
	*/
	TouchAPIKey(context context.Context, id string) error
}
