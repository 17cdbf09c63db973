package schema

// WorkspaceTable represents the 'workspaces' table
type WorkspaceTable struct {
	Table     string
	ID        string
	Slug      string
	Name      string
	IsActive  string
	CreatedAt string
	UpdatedAt string
}

// Workspace is the schema definition for workspaces
var Workspace = WorkspaceTable{
	Table:     "workspaces",
	ID:        "id",
	Slug:      "slug",
	Name:      "name",
	IsActive:  "is_active",
	CreatedAt: "created_at",
	UpdatedAt: "updated_at",
}

func (t WorkspaceTable) Columns() []string {
	return []string{t.ID, t.Slug, t.Name, t.IsActive, t.CreatedAt, t.UpdatedAt}
}
