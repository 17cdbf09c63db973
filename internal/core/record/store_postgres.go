// Copyright (c) 2026 Kumiko. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package record

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

// NewPostgresRepository constructs a PostgreSQL backed record store.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// # Record Retrieval

/*
List returns a paginated slice of a collection's records, newest first.

Parameters:
  - context: context.Context
  - workspaceID: string
  - collectionID: string
  - limit: int
  - offset: int

Returns:
  - []*Record: Slice of matching records
  - int: Total record count
  - error: Database retrieval failures
*/
func (repository *PostgresRepository) List(context context.Context, workspaceID, collectionID string, limit, offset int) ([]*Record, int, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s, COUNT(*) OVER() AS total
		FROM %s
		WHERE %s = $1 AND %s = $2
		ORDER BY %s DESC
		LIMIT $3 OFFSET $4
	`,
		schema.Record.ID, schema.Record.WorkspaceID, schema.Record.CollectionID,
		schema.Record.Data, schema.Record.CreatedBy, schema.Record.UpdatedBy,
		schema.Record.CreatedAt, schema.Record.UpdatedAt,
		schema.Record.Table,
		schema.Record.WorkspaceID, schema.Record.CollectionID,
		schema.Record.CreatedAt,
	)

	rows, err := repository.db.Query(context, query, workspaceID, collectionID, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_records")
	}
	defer rows.Close()

	var records []*Record
	var total int
	for rows.Next() {
		entity := &Record{}
		var document []byte

		err := rows.Scan(
			&entity.ID, &entity.WorkspaceID, &entity.CollectionID,
			&document, &entity.CreatedBy, &entity.UpdatedBy,
			&entity.CreatedAt, &entity.UpdatedAt, &total,
		)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_record")
		}

		if err := json.Unmarshal(document, &entity.Data); err != nil {
			return nil, 0, dberr.Wrap(err, "decode_record_data")
		}

		records = append(records, entity)
	}

	return records, total, nil
}

/*
FindByID retrieves a record by its primary key.

Parameters:
  - context: context.Context
  - workspaceID: string
  - collectionID: string
  - id: string

Returns:
  - *Record: Hydrated entity including the document
  - error: Database retrieval failures
*/
func (repository *PostgresRepository) FindByID(context context.Context, workspaceID, collectionID, id string) (*Record, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1 AND %s = $2 AND %s = $3
	`,
		schema.Record.ID, schema.Record.WorkspaceID, schema.Record.CollectionID,
		schema.Record.Data, schema.Record.CreatedBy, schema.Record.UpdatedBy,
		schema.Record.CreatedAt, schema.Record.UpdatedAt,
		schema.Record.Table,
		schema.Record.WorkspaceID, schema.Record.CollectionID, schema.Record.ID,
	)

	entity := &Record{}
	var document []byte

	err := repository.db.QueryRow(context, query, workspaceID, collectionID, id).Scan(
		&entity.ID, &entity.WorkspaceID, &entity.CollectionID,
		&document, &entity.CreatedBy, &entity.UpdatedBy,
		&entity.CreatedAt, &entity.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "get_record")
	}

	if err := json.Unmarshal(document, &entity.Data); err != nil {
		return nil, dberr.Wrap(err, "decode_record_data")
	}

	return entity, nil
}

// # Record Mutation

/*
Create persists a new record with its JSONB document.

Parameters:
  - context: context.Context
  - entity: *Record

Returns:
  - error: Persistence failures
*/
func (repository *PostgresRepository) Create(context context.Context, entity *Record) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING %s, %s
	`,
		schema.Record.Table,
		schema.Record.ID, schema.Record.WorkspaceID, schema.Record.CollectionID,
		schema.Record.Data, schema.Record.CreatedBy, schema.Record.UpdatedBy,
		schema.Record.CreatedAt, schema.Record.UpdatedAt,
		schema.Record.CreatedAt, schema.Record.UpdatedAt,
	)

	document, err := json.Marshal(entity.Data)
	if err != nil {
		return dberr.Wrap(err, "encode_record_data")
	}

	err = repository.db.QueryRow(context, query,
		entity.ID, entity.WorkspaceID, entity.CollectionID,
		document, entity.CreatedBy, entity.UpdatedBy,
	).Scan(&entity.CreatedAt, &entity.UpdatedAt)

	return dberr.Wrap(err, "create_record")
}

/*
Update overwrites a record's document and stamps the editor.

Parameters:
  - context: context.Context
  - entity: *Record

Returns:
  - error: Persistence failures
*/
func (repository *PostgresRepository) Update(context context.Context, entity *Record) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $4, %s = $5, %s = NOW()
		WHERE %s = $1 AND %s = $2 AND %s = $3
		RETURNING %s
	`,
		schema.Record.Table,
		schema.Record.Data, schema.Record.UpdatedBy, schema.Record.UpdatedAt,
		schema.Record.WorkspaceID, schema.Record.CollectionID, schema.Record.ID,
		schema.Record.UpdatedAt,
	)

	document, err := json.Marshal(entity.Data)
	if err != nil {
		return dberr.Wrap(err, "encode_record_data")
	}

	err = repository.db.QueryRow(context, query,
		entity.WorkspaceID, entity.CollectionID, entity.ID,
		document, entity.UpdatedBy,
	).Scan(&entity.UpdatedAt)

	return dberr.Wrap(err, "update_record")
}

/*
Delete removes a record.

Parameters:
  - context: context.Context
  - workspaceID: string
  - collectionID: string
  - id: string

Returns:
  - error: ErrNotFound when no row matched
*/
func (repository *PostgresRepository) Delete(context context.Context, workspaceID, collectionID, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2 AND %s = $3`,
		schema.Record.Table,
		schema.Record.WorkspaceID, schema.Record.CollectionID, schema.Record.ID)

	result, err := repository.db.Exec(context, query, workspaceID, collectionID, id)
	if err != nil {
		return dberr.Wrap(err, "delete_record")
	}
	if result.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}

	return nil
}
