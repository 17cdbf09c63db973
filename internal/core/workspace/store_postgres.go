// Copyright (c) 2026 Kumiko. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package workspace

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/kumiko/internal/platform/database/schema"
	"github.com/taibuivan/kumiko/internal/platform/dberr"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed workspace store.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// # Workspace Retrieval

/*
FindBySlug resolves a workspace by its public slug.

Parameters:
  - context: context.Context
  - slug: string

Returns:
  - *Workspace: Hydrated entity
  - error: Database retrieval failures
*/
func (repository *PostgresRepository) FindBySlug(context context.Context, slug string) (*Workspace, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
	`,
		schema.Workspace.ID, schema.Workspace.Slug, schema.Workspace.Name,
		schema.Workspace.IsActive, schema.Workspace.CreatedAt, schema.Workspace.UpdatedAt,
		schema.Workspace.Table,
		schema.Workspace.Slug,
	)

	entity := &Workspace{}
	err := repository.db.QueryRow(context, query, slug).Scan(
		&entity.ID, &entity.Slug, &entity.Name,
		&entity.IsActive, &entity.CreatedAt, &entity.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "get_workspace_by_slug")
	}
	return entity, nil
}

/*
FindByID retrieves a workspace by its primary key.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *Workspace: Hydrated entity
  - error: Database retrieval failures
*/
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Workspace, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
	`,
		schema.Workspace.ID, schema.Workspace.Slug, schema.Workspace.Name,
		schema.Workspace.IsActive, schema.Workspace.CreatedAt, schema.Workspace.UpdatedAt,
		schema.Workspace.Table,
		schema.Workspace.ID,
	)

	entity := &Workspace{}
	err := repository.db.QueryRow(context, query, id).Scan(
		&entity.ID, &entity.Slug, &entity.Name,
		&entity.IsActive, &entity.CreatedAt, &entity.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "get_workspace_by_id")
	}
	return entity, nil
}

// # API Key Retrieval

/*
FindAPIKeyByPrefix retrieves a key row by its unique lookup prefix.

Parameters:
  - context: context.Context
  - prefix: string

Returns:
  - *APIKey: Hydrated entity including the stored hash
  - error: Database retrieval failures
*/
func (repository *PostgresRepository) FindAPIKeyByPrefix(context context.Context, prefix string) (*APIKey, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
	`,
		schema.APIKey.ID, schema.APIKey.WorkspaceID, schema.APIKey.Name,
		schema.APIKey.KeyPrefix, schema.APIKey.KeyHash, schema.APIKey.Role,
		schema.APIKey.LastUsedAt, schema.APIKey.RevokedAt, schema.APIKey.CreatedAt,
		schema.APIKey.Table,
		schema.APIKey.KeyPrefix,
	)

	key := &APIKey{}
	err := repository.db.QueryRow(context, query, prefix).Scan(
		&key.ID, &key.WorkspaceID, &key.Name,
		&key.KeyPrefix, &key.KeyHash, &key.Role,
		&key.LastUsedAt, &key.RevokedAt, &key.CreatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "get_api_key_by_prefix")
	}
	return key, nil
}

/*
TouchAPIKey stamps the key's last_used_at marker.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - error: Persistence failures
*/
func (repository *PostgresRepository) TouchAPIKey(context context.Context, id string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = NOW() WHERE %s = $1`,
		schema.APIKey.Table, schema.APIKey.LastUsedAt, schema.APIKey.ID)

	_, err := repository.db.Exec(context, query, id)
	return dberr.Wrap(err, "touch_api_key")
}
