package schema

// CompositionTable represents the 'compositions' table
type CompositionTable struct {
	Table       string
	ID          string
	WorkspaceID string
	Slug        string
	Name        string
	Description string
	AccessLevel string
	IsActive    string
	Config      string
	CreatedBy   string
	UpdatedBy   string
	CreatedAt   string
	UpdatedAt   string
}

// Composition is the schema definition for compositions
var Composition = CompositionTable{
	Table:       "compositions",
	ID:          "id",
	WorkspaceID: "workspace_id",
	Slug:        "slug",
	Name:        "name",
	Description: "description",
	AccessLevel: "access_level",
	IsActive:    "is_active",
	Config:      "config",
	CreatedBy:   "created_by",
	UpdatedBy:   "updated_by",
	CreatedAt:   "created_at",
	UpdatedAt:   "updated_at",
}

func (t CompositionTable) Columns() []string {
	return []string{
		t.ID, t.WorkspaceID, t.Slug, t.Name, t.Description, t.AccessLevel,
		t.IsActive, t.Config, t.CreatedBy, t.UpdatedBy, t.CreatedAt, t.UpdatedAt,
	}
}
