package schema

// RecordTable represents the 'records' table.
//
// Every collection's rows live here; the open JSON document sits in the
// 'data' column and is queried through the ->> text-extraction operator.
type RecordTable struct {
	Table        string
	ID           string
	WorkspaceID  string
	CollectionID string
	Data         string
	CreatedBy    string
	UpdatedBy    string
	CreatedAt    string
	UpdatedAt    string
}

// Record is the schema definition for records
var Record = RecordTable{
	Table:        "records",
	ID:           "id",
	WorkspaceID:  "workspace_id",
	CollectionID: "collection_id",
	Data:         "data",
	CreatedBy:    "created_by",
	UpdatedBy:    "updated_by",
	CreatedAt:    "created_at",
	UpdatedAt:    "updated_at",
}

func (t RecordTable) Columns() []string {
	return []string{
		t.ID, t.WorkspaceID, t.CollectionID, t.Data,
		t.CreatedBy, t.UpdatedBy, t.CreatedAt, t.UpdatedAt,
	}
}
