package schema

// CollectionTable represents the 'collections' table
type CollectionTable struct {
	Table       string
	ID          string
	WorkspaceID string
	Slug        string
	Name        string
	Description string
	CreatedAt   string
	UpdatedAt   string
}

// Collection is the schema definition for collections
var Collection = CollectionTable{
	Table:       "collections",
	ID:          "id",
	WorkspaceID: "workspace_id",
	Slug:        "slug",
	Name:        "name",
	Description: "description",
	CreatedAt:   "created_at",
	UpdatedAt:   "updated_at",
}

func (t CollectionTable) Columns() []string {
	return []string{
		t.ID, t.WorkspaceID, t.Slug, t.Name, t.Description, t.CreatedAt, t.UpdatedAt,
	}
}
