// Copyright (c) 2026 Kumiko. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package composition

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/kumiko/internal/platform/database/schema"
	"github.com/taibuivan/kumiko/internal/platform/dberr"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed composition store.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// # Composition Retrieval

/*
List returns a paginated slice of a workspace's compositions.

Description: Uses COUNT(*) OVER() for total metadata. The config payload is
included; compositions are small and list views feed the builder UI.

Parameters:
  - context: context.Context
  - workspaceID: string
  - limit: int
  - offset: int

Returns:
  - []*Composition: Slice of matching compositions
  - int: Total record count
  - error: Database retrieval failures
*/
func (repository *PostgresRepository) List(context context.Context, workspaceID string, limit, offset int) ([]*Composition, int, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, COUNT(*) OVER() AS total
		FROM %s
		WHERE %s = $1
		ORDER BY %s ASC
		LIMIT $2 OFFSET $3
	`,
		schema.Composition.ID, schema.Composition.WorkspaceID, schema.Composition.Slug,
		schema.Composition.Name, schema.Composition.Description, schema.Composition.AccessLevel,
		schema.Composition.IsActive, schema.Composition.Config,
		schema.Composition.CreatedBy, schema.Composition.UpdatedBy,
		schema.Composition.CreatedAt, schema.Composition.UpdatedAt,
		schema.Composition.Table,
		schema.Composition.WorkspaceID,
		schema.Composition.Name,
	)

	rows, err := repository.db.Query(context, query, workspaceID, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_compositions")
	}
	defer rows.Close()

	var compositions []*Composition
	var total int
	for rows.Next() {
		entity := &Composition{}
		var config []byte

		err := rows.Scan(
			&entity.ID, &entity.WorkspaceID, &entity.Slug,
			&entity.Name, &entity.Description, &entity.AccessLevel,
			&entity.IsActive, &config,
			&entity.CreatedBy, &entity.UpdatedBy,
			&entity.CreatedAt, &entity.UpdatedAt, &total,
		)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_composition")
		}

		if err := json.Unmarshal(config, &entity.Config); err != nil {
			return nil, 0, dberr.Wrap(err, "decode_composition_config")
		}

		compositions = append(compositions, entity)
	}

	return compositions, total, nil
}

/*
FindByID retrieves a composition by its primary key.

Parameters:
  - context: context.Context
  - workspaceID: string
  - id: string

Returns:
  - *Composition: Hydrated entity including Config
  - error: Database retrieval failures
*/
func (repository *PostgresRepository) FindByID(context context.Context, workspaceID, id string) (*Composition, error) {
	return repository.findOne(context, schema.Composition.ID, workspaceID, id)
}

/*
FindBySlug retrieves a composition by its workspace-unique slug.

Parameters:
  - context: context.Context
  - workspaceID: string
  - slug: string

Returns:
  - *Composition: Hydrated entity including Config
  - error: Database retrieval failures
*/
func (repository *PostgresRepository) FindBySlug(context context.Context, workspaceID, slug string) (*Composition, error) {
	return repository.findOne(context, schema.Composition.Slug, workspaceID, slug)
}

// findOne loads a composition row by the given key column and decodes its
// stored config.
func (repository *PostgresRepository) findOne(context context.Context, keyColumn, workspaceID, keyValue string) (*Composition, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1 AND %s = $2
	`,
		schema.Composition.ID, schema.Composition.WorkspaceID, schema.Composition.Slug,
		schema.Composition.Name, schema.Composition.Description, schema.Composition.AccessLevel,
		schema.Composition.IsActive, schema.Composition.Config,
		schema.Composition.CreatedBy, schema.Composition.UpdatedBy,
		schema.Composition.CreatedAt, schema.Composition.UpdatedAt,
		schema.Composition.Table,
		schema.Composition.WorkspaceID, keyColumn,
	)

	entity := &Composition{}
	var config []byte

	err := repository.db.QueryRow(context, query, workspaceID, keyValue).Scan(
		&entity.ID, &entity.WorkspaceID, &entity.Slug,
		&entity.Name, &entity.Description, &entity.AccessLevel,
		&entity.IsActive, &config,
		&entity.CreatedBy, &entity.UpdatedBy,
		&entity.CreatedAt, &entity.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "get_composition")
	}

	if err := json.Unmarshal(config, &entity.Config); err != nil {
		return nil, dberr.Wrap(err, "decode_composition_config")
	}

	return entity, nil
}

// # Composition Mutation

/*
Create persists a new composition.

Parameters:
  - context: context.Context
  - entity: *Composition

Returns:
  - error: Persistence failures (Conflict on duplicate slug)
*/
func (repository *PostgresRepository) Create(context context.Context, entity *Composition) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
		RETURNING %s, %s
	`,
		schema.Composition.Table,
		schema.Composition.ID, schema.Composition.WorkspaceID, schema.Composition.Slug,
		schema.Composition.Name, schema.Composition.Description, schema.Composition.AccessLevel,
		schema.Composition.IsActive, schema.Composition.Config,
		schema.Composition.CreatedBy, schema.Composition.UpdatedBy,
		schema.Composition.CreatedAt, schema.Composition.UpdatedAt,
		schema.Composition.CreatedAt, schema.Composition.UpdatedAt,
	)

	config, err := json.Marshal(entity.Config)
	if err != nil {
		return dberr.Wrap(err, "encode_composition_config")
	}

	err = repository.db.QueryRow(context, query,
		entity.ID, entity.WorkspaceID, entity.Slug,
		entity.Name, entity.Description, entity.AccessLevel,
		entity.IsActive, config,
		entity.CreatedBy, entity.UpdatedBy,
	).Scan(&entity.CreatedAt, &entity.UpdatedAt)

	return dberr.Wrap(err, "create_composition")
}

/*
Update overwrites a composition's mutable attributes and its config. The
slug is immutable: it is the composition's public address.

Parameters:
  - context: context.Context
  - entity: *Composition

Returns:
  - error: Persistence failures
*/
func (repository *PostgresRepository) Update(context context.Context, entity *Composition) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = $8, %s = NOW()
		WHERE %s = $1 AND %s = $2
		RETURNING %s, %s
	`,
		schema.Composition.Table,
		schema.Composition.Name, schema.Composition.Description, schema.Composition.AccessLevel,
		schema.Composition.IsActive, schema.Composition.Config, schema.Composition.UpdatedBy,
		schema.Composition.UpdatedAt,
		schema.Composition.WorkspaceID, schema.Composition.ID,
		schema.Composition.Slug, schema.Composition.UpdatedAt,
	)

	config, err := json.Marshal(entity.Config)
	if err != nil {
		return dberr.Wrap(err, "encode_composition_config")
	}

	err = repository.db.QueryRow(context, query,
		entity.WorkspaceID, entity.ID,
		entity.Name, entity.Description, entity.AccessLevel,
		entity.IsActive, config, entity.UpdatedBy,
	).Scan(&entity.Slug, &entity.UpdatedAt)

	return dberr.Wrap(err, "update_composition")
}

/*
Delete removes a composition.

Parameters:
  - context: context.Context
  - workspaceID: string
  - id: string

Returns:
  - error: ErrNotFound when no row matched
*/
func (repository *PostgresRepository) Delete(context context.Context, workspaceID, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`,
		schema.Composition.Table, schema.Composition.WorkspaceID, schema.Composition.ID)

	result, err := repository.db.Exec(context, query, workspaceID, id)
	if err != nil {
		return dberr.Wrap(err, "delete_composition")
	}
	if result.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}

	return nil
}
