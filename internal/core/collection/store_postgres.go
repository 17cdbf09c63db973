// Copyright (c) 2026 Kumiko. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package collection

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/kumiko/internal/platform/database/schema"
	"github.com/taibuivan/kumiko/internal/platform/dberr"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed collection store.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// # Collection Retrieval

/*
List returns a paginated slice of a workspace's collections.

Description: Uses COUNT(*) OVER() for total metadata. Field definitions are
not loaded for list views.

Parameters:
  - context: context.Context
  - workspaceID: string
  - limit: int
  - offset: int

Returns:
  - []*Collection: Slice of matching collections
  - int: Total record count
  - error: Database retrieval failures
*/
func (repository *PostgresRepository) List(context context.Context, workspaceID string, limit, offset int) ([]*Collection, int, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, COUNT(*) OVER() AS total
		FROM %s
		WHERE %s = $1
		ORDER BY %s ASC
		LIMIT $2 OFFSET $3
	`,
		schema.Collection.ID, schema.Collection.WorkspaceID, schema.Collection.Slug,
		schema.Collection.Name, schema.Collection.Description,
		schema.Collection.CreatedAt, schema.Collection.UpdatedAt,
		schema.Collection.Table,
		schema.Collection.WorkspaceID,
		schema.Collection.Name,
	)

	rows, err := repository.db.Query(context, query, workspaceID, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_collections")
	}
	defer rows.Close()

	var collections []*Collection
	var total int
	for rows.Next() {
		entity := &Collection{}
		err := rows.Scan(
			&entity.ID, &entity.WorkspaceID, &entity.Slug,
			&entity.Name, &entity.Description,
			&entity.CreatedAt, &entity.UpdatedAt, &total,
		)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_collection")
		}
		collections = append(collections, entity)
	}

	return collections, total, nil
}

/*
FindByID retrieves a collection with its ordered field definitions.

Parameters:
  - context: context.Context
  - workspaceID: string
  - id: string

Returns:
  - *Collection: Hydrated entity including Fields
  - error: Database retrieval failures
*/
func (repository *PostgresRepository) FindByID(context context.Context, workspaceID, id string) (*Collection, error) {
	return repository.findOne(context, schema.Collection.ID, workspaceID, id)
}

/*
FindBySlug retrieves a collection by its identifier-shaped slug.

Parameters:
  - context: context.Context
  - workspaceID: string
  - slug: string

Returns:
  - *Collection: Hydrated entity including Fields
  - error: Database retrieval failures
*/
func (repository *PostgresRepository) FindBySlug(context context.Context, workspaceID, slug string) (*Collection, error) {
	return repository.findOne(context, schema.Collection.Slug, workspaceID, slug)
}

// findOne loads a collection row by the given key column, then its fields.
func (repository *PostgresRepository) findOne(context context.Context, keyColumn, workspaceID, keyValue string) (*Collection, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1 AND %s = $2
	`,
		schema.Collection.ID, schema.Collection.WorkspaceID, schema.Collection.Slug,
		schema.Collection.Name, schema.Collection.Description,
		schema.Collection.CreatedAt, schema.Collection.UpdatedAt,
		schema.Collection.Table,
		schema.Collection.WorkspaceID, keyColumn,
	)

	entity := &Collection{}
	err := repository.db.QueryRow(context, query, workspaceID, keyValue).Scan(
		&entity.ID, &entity.WorkspaceID, &entity.Slug,
		&entity.Name, &entity.Description,
		&entity.CreatedAt, &entity.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "get_collection")
	}

	fields, err := repository.listFields(context, entity.ID)
	if err != nil {
		return nil, err
	}
	entity.Fields = fields

	return entity, nil
}

// listFields loads a collection's field definitions ordered by position.
func (repository *PostgresRepository) listFields(context context.Context, collectionID string) ([]Field, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
		ORDER BY %s ASC
	`,
		schema.Field.ID, schema.Field.CollectionID, schema.Field.Slug,
		schema.Field.Name, schema.Field.FieldType, schema.Field.IsRequired,
		schema.Field.IsUnique, schema.Field.DefaultValue, schema.Field.Options,
		schema.Field.Position, schema.Field.CreatedAt, schema.Field.UpdatedAt,
		schema.Field.Table,
		schema.Field.CollectionID,
		schema.Field.Position,
	)

	rows, err := repository.db.Query(context, query, collectionID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_fields")
	}
	defer rows.Close()

	var fields []Field
	for rows.Next() {
		field := Field{}
		var defaultValue, options []byte

		err := rows.Scan(
			&field.ID, &field.CollectionID, &field.Slug,
			&field.Name, &field.Type, &field.IsRequired,
			&field.IsUnique, &defaultValue, &options,
			&field.Position, &field.CreatedAt, &field.UpdatedAt,
		)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_field")
		}

		if len(defaultValue) > 0 {
			if err := json.Unmarshal(defaultValue, &field.Default); err != nil {
				return nil, dberr.Wrap(err, "decode_field_default")
			}
		}
		if len(options) > 0 {
			field.Options = &FieldOptions{}
			if err := json.Unmarshal(options, field.Options); err != nil {
				return nil, dberr.Wrap(err, "decode_field_options")
			}
		}

		fields = append(fields, field)
	}

	return fields, nil
}

/*
ResolveSlugs maps collection slugs to ids inside one workspace.

Parameters:
  - context: context.Context
  - workspaceID: string
  - slugs: []string

Returns:
  - map[string]string: slug → collection id (missing slugs absent)
  - error: Database retrieval failures
*/
func (repository *PostgresRepository) ResolveSlugs(context context.Context, workspaceID string, slugs []string) (map[string]string, error) {
	resolved := make(map[string]string, len(slugs))
	if len(slugs) == 0 {
		return resolved, nil
	}

	query := fmt.Sprintf(`
		SELECT %s, %s
		FROM %s
		WHERE %s = $1 AND %s = ANY($2)
	`,
		schema.Collection.Slug, schema.Collection.ID,
		schema.Collection.Table,
		schema.Collection.WorkspaceID, schema.Collection.Slug,
	)

	rows, err := repository.db.Query(context, query, workspaceID, slugs)
	if err != nil {
		return nil, dberr.Wrap(err, "resolve_collection_slugs")
	}
	defer rows.Close()

	for rows.Next() {
		var slug, id string
		if err := rows.Scan(&slug, &id); err != nil {
			return nil, dberr.Wrap(err, "scan_collection_slug")
		}
		resolved[slug] = id
	}

	return resolved, nil
}

// # Collection Mutation

/*
Create persists a new collection and its field definitions atomically.

Parameters:
  - context: context.Context
  - entity: *Collection

Returns:
  - error: Persistence failures (Conflict on duplicate slug)
*/
func (repository *PostgresRepository) Create(context context.Context, entity *Collection) error {

	// Establish Transactional Boundary
	transaction, err := repository.db.Begin(context)
	if err != nil {
		return dberr.Wrap(err, "begin_create_collection_tx")
	}
	defer transaction.Rollback(context)

	insertCollection := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING %s, %s
	`,
		schema.Collection.Table,
		schema.Collection.ID, schema.Collection.WorkspaceID, schema.Collection.Slug,
		schema.Collection.Name, schema.Collection.Description,
		schema.Collection.CreatedAt, schema.Collection.UpdatedAt,
		schema.Collection.CreatedAt, schema.Collection.UpdatedAt,
	)

	err = transaction.QueryRow(context, insertCollection,
		entity.ID, entity.WorkspaceID, entity.Slug, entity.Name, entity.Description,
	).Scan(&entity.CreatedAt, &entity.UpdatedAt)
	if err != nil {
		return dberr.Wrap(err, "create_collection")
	}

	for index := range entity.Fields {
		if err := insertField(context, transaction, &entity.Fields[index]); err != nil {
			return err
		}
	}

	return transaction.Commit(context)
}

/*
Update modifies a collection's name and description.

Parameters:
  - context: context.Context
  - entity: *Collection

Returns:
  - error: Persistence failures
*/
func (repository *PostgresRepository) Update(context context.Context, entity *Collection) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $3, %s = $4, %s = NOW()
		WHERE %s = $1 AND %s = $2
		RETURNING %s
	`,
		schema.Collection.Table,
		schema.Collection.Name, schema.Collection.Description, schema.Collection.UpdatedAt,
		schema.Collection.WorkspaceID, schema.Collection.ID,
		schema.Collection.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query,
		entity.WorkspaceID, entity.ID, entity.Name, entity.Description,
	).Scan(&entity.UpdatedAt)
	return dberr.Wrap(err, "update_collection")
}

/*
ReplaceFields swaps a collection's field definitions atomically.

Description: Deletes the existing definitions and inserts the replacement
set in slice order inside one transaction, so readers never observe a
half-replaced schema.

Parameters:
  - context: context.Context
  - collectionID: string
  - fields: []Field

Returns:
  - error: Persistence failures
*/
func (repository *PostgresRepository) ReplaceFields(context context.Context, collectionID string, fields []Field) error {

	// Establish Transactional Boundary
	transaction, err := repository.db.Begin(context)
	if err != nil {
		return dberr.Wrap(err, "begin_replace_fields_tx")
	}
	defer transaction.Rollback(context)

	deleteQuery := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.Field.Table, schema.Field.CollectionID)

	if _, err := transaction.Exec(context, deleteQuery, collectionID); err != nil {
		return dberr.Wrap(err, "delete_fields")
	}

	for index := range fields {
		if err := insertField(context, transaction, &fields[index]); err != nil {
			return err
		}
	}

	return transaction.Commit(context)
}

/*
Delete removes a collection; fields and records follow via cascade.

Parameters:
  - context: context.Context
  - workspaceID: string
  - id: string

Returns:
  - error: Persistence failures
*/
func (repository *PostgresRepository) Delete(context context.Context, workspaceID, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`,
		schema.Collection.Table, schema.Collection.WorkspaceID, schema.Collection.ID)

	result, err := repository.db.Exec(context, query, workspaceID, id)
	if err != nil {
		return dberr.Wrap(err, "delete_collection")
	}
	if result.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}

	return nil
}

// insertField persists one field definition inside the caller's transaction.
func insertField(context context.Context, transaction pgx.Tx, field *Field) error {
	insertQuery := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
		RETURNING %s, %s
	`,
		schema.Field.Table,
		schema.Field.ID, schema.Field.CollectionID, schema.Field.Slug,
		schema.Field.Name, schema.Field.FieldType, schema.Field.IsRequired,
		schema.Field.IsUnique, schema.Field.DefaultValue, schema.Field.Options,
		schema.Field.Position, schema.Field.CreatedAt, schema.Field.UpdatedAt,
		schema.Field.CreatedAt, schema.Field.UpdatedAt,
	)

	defaultValue, err := encodeJSON(field.Default)
	if err != nil {
		return dberr.Wrap(err, "encode_field_default")
	}
	options, err := encodeJSON(field.Options)
	if err != nil {
		return dberr.Wrap(err, "encode_field_options")
	}

	err = transaction.QueryRow(context, insertQuery,
		field.ID, field.CollectionID, field.Slug,
		field.Name, field.Type, field.IsRequired,
		field.IsUnique, defaultValue, options,
		field.Position,
	).Scan(&field.CreatedAt, &field.UpdatedAt)

	return dberr.Wrap(err, "create_field")
}

// encodeJSON marshals a nilable value for a jsonb parameter; nil stays NULL.
func encodeJSON(value any) ([]byte, error) {
	if value == nil {
		return nil, nil
	}
	if options, ok := value.(*FieldOptions); ok && options == nil {
		return nil, nil
	}
	return json.Marshal(value)
}
