// Copyright (c) 2026 Kumiko. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package workspace provides the tenant read model for the Kumiko API.

Workspaces are provisioned by the control plane, not by this service; the
query engine only ever needs to resolve them and to authenticate the machine
keys issued against them.

# Core Responsibility

  - Resolution: Maps public workspace slugs to tenant ids on the hot path.
  - Keys: Verifies X-API-Key credentials against stored bcrypt hashes.

Every piece of tenant data in the system hangs off a workspace id, so this
package sits below collections, records, and compositions.
*/
package workspace

import "time"

// # Core Entities

// Workspace represents a single tenant of the platform.
type Workspace struct {
	ID        string    `json:"id"` // UUIDv7
	Slug      string    `json:"slug"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// APIKey represents a machine credential scoped to one workspace.
//
// The full key is framed as kmk_<prefix>_<secret>. Only the prefix and the
// bcrypt hash of the secret are stored; the hash never leaves this package.
type APIKey struct {
	ID          string     `json:"id"` // UUIDv7
	WorkspaceID string     `json:"workspace_id"`
	Name        string     `json:"name"`
	KeyPrefix   string     `json:"key_prefix"`
	KeyHash     string     `json:"-"`
	Role        string     `json:"role"`
	LastUsedAt  *time.Time `json:"last_used_at,omitempty"`
	RevokedAt   *time.Time `json:"revoked_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// IsRevoked reports whether the key has been withdrawn.
func (k *APIKey) IsRevoked() bool {
	return k.RevokedAt != nil
}
