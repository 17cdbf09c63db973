package schema

// APIKeyTable represents the 'api_keys' table
type APIKeyTable struct {
	Table       string
	ID          string
	WorkspaceID string
	Name        string
	KeyPrefix   string
	KeyHash     string
	Role        string
	LastUsedAt  string
	RevokedAt   string
	CreatedAt   string
}

// APIKey is the schema definition for api_keys
var APIKey = APIKeyTable{
	Table:       "api_keys",
	ID:          "id",
	WorkspaceID: "workspace_id",
	Name:        "name",
	KeyPrefix:   "key_prefix",
	KeyHash:     "key_hash",
	Role:        "role",
	LastUsedAt:  "last_used_at",
	RevokedAt:   "revoked_at",
	CreatedAt:   "created_at",
}

func (t APIKeyTable) Columns() []string {
	return []string{
		t.ID, t.WorkspaceID, t.Name, t.KeyPrefix, t.KeyHash, t.Role,
		t.LastUsedAt, t.RevokedAt, t.CreatedAt,
	}
}
