// Copyright (c) 2026 Kumiko. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package collection manages record collections and their field definitions.

A collection is the schema holder for a workspace's records: records
themselves are schema-less JSONB documents, and the ordered field definitions
kept here are what the record validator enforces against.

# Core Responsibility

  - Schema: Defines the [Collection] entity and its typed [Field] slots.
  - Resolution: Maps collection slugs to ids for the query engine.
  - Lifecycle: Create, update, and delete collections within a workspace.

Collection slugs are identifier-shaped (snake_case) because composition
queries reference them in join and qualified-field position.
*/
package collection

import "time"

// # Field Types

// FieldType enumerates the supported field kinds.
type FieldType string

const (
	TypeText        FieldType = "text"
	TypeTextarea    FieldType = "textarea"
	TypeNumber      FieldType = "number"
	TypeBoolean     FieldType = "boolean"
	TypeDate        FieldType = "date"
	TypeDatetime    FieldType = "datetime"
	TypeSelect      FieldType = "select"
	TypeMultiSelect FieldType = "multi_select"
	TypeRelation    FieldType = "relation"
	TypeJSON        FieldType = "json"
)

// Valid reports whether the field type is one of the supported kinds.
func (t FieldType) Valid() bool {
	switch t {
	case TypeText, TypeTextarea, TypeNumber, TypeBoolean, TypeDate,
		TypeDatetime, TypeSelect, TypeMultiSelect, TypeRelation, TypeJSON:
		return true
	default:
		return false
	}
}

// # Core Entities

// FieldOptions carries the per-type constraint knobs, persisted as JSONB.
// Keys are camelCase to match the stored composition config convention.
type FieldOptions struct {
	MinLength *int     `json:"minLength,omitempty"`
	MaxLength *int     `json:"maxLength,omitempty"`
	Pattern   *string  `json:"pattern,omitempty"`
	Min       *float64 `json:"min,omitempty"`
	Max       *float64 `json:"max,omitempty"`
	Precision *int     `json:"precision,omitempty"`
	Choices   []string `json:"choices,omitempty"`
	Relation  *string  `json:"relation,omitempty"` // target collection slug
}

// Field defines one typed slot of a collection's document schema.
//
// The slug doubles as the JSON key inside record documents, so it must stay
// identifier-shaped.
type Field struct {
	ID           string        `json:"id"` // UUIDv7
	CollectionID string        `json:"collection_id"`
	Slug         string        `json:"slug"`
	Name         string        `json:"name"`
	Type         FieldType     `json:"field_type"`
	IsRequired   bool          `json:"is_required"`
	IsUnique     bool          `json:"is_unique"`
	Default      any           `json:"default_value,omitempty"`
	Options      *FieldOptions `json:"options,omitempty"`
	Position     int           `json:"position"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// Collection groups schema-less records under a workspace.
type Collection struct {
	ID          string    `json:"id"` // UUIDv7
	WorkspaceID string    `json:"workspace_id"`
	Slug        string    `json:"slug"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Fields      []Field   `json:"fields,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// # Field Identifiers

const (
	FieldName        = "name"
	FieldSlug        = "slug"
	FieldDescription = "description"
	FieldFields      = "fields"
)
