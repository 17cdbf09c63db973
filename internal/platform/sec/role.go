// Copyright (c) 2026 Kumiko. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// # Workspace Roles

// WorkspaceRole represents the authorization level a principal holds inside
// a single workspace.
type WorkspaceRole string

const (
	// Full control including workspace settings and API key management
	RoleOwner WorkspaceRole = "owner"

	// Can manage collections, compositions, and workspace members
	RoleAdmin WorkspaceRole = "admin"

	// Can create and edit records and compositions
	RoleEditor WorkspaceRole = "editor"

	// Read-only access to records and composition results
	RoleViewer WorkspaceRole = "viewer"
)

// # Role Hierarchy

// AtLeast checks if the current role meets or exceeds the required target role.
func (r WorkspaceRole) AtLeast(target WorkspaceRole) bool {
	return r.level() >= target.level()
}

// level maps a role to a numeric hierarchy level for comparison logic.
func (r WorkspaceRole) level() int {

	// Linear scale (10-40) allows for future intermediate roles
	switch r {
	case RoleOwner:
		return 40
	case RoleAdmin:
		return 30
	case RoleEditor:
		return 20
	case RoleViewer:
		return 10
	default:
		return 0
	}
}
