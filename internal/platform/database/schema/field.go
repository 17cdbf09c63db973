package schema

// FieldTable represents the 'fields' table
type FieldTable struct {
	Table        string
	ID           string
	CollectionID string
	Slug         string
	Name         string
	FieldType    string
	IsRequired   string
	IsUnique     string
	DefaultValue string
	Options      string
	Position     string
	CreatedAt    string
	UpdatedAt    string
}

// Field is the schema definition for fields
var Field = FieldTable{
	Table:        "fields",
	ID:           "id",
	CollectionID: "collection_id",
	Slug:         "slug",
	Name:         "name",
	FieldType:    "field_type",
	IsRequired:   "is_required",
	IsUnique:     "is_unique",
	DefaultValue: "default_value",
	Options:      "options",
	Position:     "position",
	CreatedAt:    "created_at",
	UpdatedAt:    "updated_at",
}

func (t FieldTable) Columns() []string {
	return []string{
		t.ID, t.CollectionID, t.Slug, t.Name, t.FieldType, t.IsRequired,
		t.IsUnique, t.DefaultValue, t.Options, t.Position, t.CreatedAt, t.UpdatedAt,
	}
}
