// Copyright (c) 2026 Kumiko. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Row is one result row. Column order is the projection order of the built
// query, and the JSON encoding preserves it, so clients see keys in the same
// sequence the composition projected them.
type Row struct {
	columns []string
	values  []any
}

// NewRow pairs a column-name slice with a value slice of the same length.
func NewRow(columns []string, values []any) Row {
	return Row{columns: columns, values: values}
}

// Columns returns the column names in projection order.
func (r Row) Columns() []string {
	return r.columns
}

// Get returns the value for a column alias. Rows are narrow enough that a
// linear scan beats carrying a per-row map.
func (r Row) Get(column string) (any, bool) {
	for i, name := range r.columns {
		if name == column {
			return r.values[i], true
		}
	}
	return nil, false
}

// MarshalJSON encodes the row as a JSON object with keys in column order.
func (r Row) MarshalJSON() ([]byte, error) {
	var buffer bytes.Buffer
	buffer.WriteByte('{')

	for i, column := range r.columns {
		if i > 0 {
			buffer.WriteByte(',')
		}

		key, err := json.Marshal(column)
		if err != nil {
			return nil, err
		}
		buffer.Write(key)
		buffer.WriteByte(':')

		value, err := json.Marshal(r.values[i])
		if err != nil {
			return nil, err
		}
		buffer.Write(value)
	}

	buffer.WriteByte('}')
	return buffer.Bytes(), nil
}

// RowQuerier executes a parameterized statement and returns its rows. It is
// the engine's only I/O seam; fakes implement it in tests.
type RowQuerier interface {
	// QueryRows runs sql with the given bound values. A positive maxRows
	// caps how many rows are read from the result; zero means no cap.
	QueryRows(context context.Context, sql string, values []any, maxRows int) ([]Row, error)
}

// PgxExecutor implements [RowQuerier] on a pgx connection pool.
//
// # Cancellation
//
// The caller's context deadline propagates into pgx; an expired deadline
// cancels the in-flight statement server-side and surfaces as a context
// error, never as partial rows.
type PgxExecutor struct {
	pool *pgxpool.Pool
}

// NewPgxExecutor constructs a pool-backed executor.
func NewPgxExecutor(pool *pgxpool.Pool) *PgxExecutor {
	return &PgxExecutor{pool: pool}
}

/*
QueryRows executes the statement and scans every row into a [Row].

Parameters:
  - context: context.Context (deadline propagates to the statement)
  - sql: The built statement with $1..$n placeholders
  - values: The bound value vector, positionally matching the placeholders
  - maxRows: Row-read ceiling; 0 disables the ceiling

Returns:
  - []Row: Ordered dictionaries keyed by result-column alias
  - error: Driver errors verbatim; callers classify them
*/
func (executor *PgxExecutor) QueryRows(context context.Context, sql string, values []any, maxRows int) ([]Row, error) {
	rows, err := executor.pool.Query(context, sql, values...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	descriptions := rows.FieldDescriptions()
	columns := make([]string, len(descriptions))
	for i, description := range descriptions {
		columns[i] = description.Name
	}

	result := make([]Row, 0, 16)
	for rows.Next() {
		if maxRows > 0 && len(result) >= maxRows {
			break
		}

		rowValues, err := rows.Values()
		if err != nil {
			return nil, err
		}

		normalized := make([]any, len(rowValues))
		for i, value := range rowValues {
			normalized[i] = normalizeValue(value)
		}

		result = append(result, NewRow(columns, normalized))
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

// normalizeValue converts pgx driver types into JSON-friendly Go values.
// Aggregates come back as pgtype.Numeric and uuid columns as raw bytes;
// everything a composition can project must encode cleanly.
func normalizeValue(value any) any {
	switch v := value.(type) {
	case pgtype.Numeric:
		f, err := v.Float64Value()
		if err != nil || !f.Valid {
			return nil
		}
		return f.Float64
	case [16]byte:
		return uuid.UUID(v).String()
	case time.Time:
		return v
	default:
		return value
	}
}
