// Copyright (c) 2026 Kumiko. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package record manages the documents stored inside collections.
//
// # Overview
//
// A record is a schemaless JSON document plus ownership metadata. All records
// across all collections share one table; the document lives in a JSONB
// column keyed by field slug, which is what composition queries extract with
// the ->> operator. Shape is enforced at write time by [ValidateDocument]
// against the owning collection's field definitions, never by the storage
// layer.
package record

import "time"

// Record is a single document inside a collection.
type Record struct {
	ID           string         `json:"id"`
	WorkspaceID  string         `json:"workspace_id"`
	CollectionID string         `json:"collection_id"`
	Data         map[string]any `json:"data"`
	CreatedBy    *string        `json:"created_by,omitempty"`
	UpdatedBy    *string        `json:"updated_by,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// # JSON Field Identifiers

const (
	// FieldData is the JSON field name for the record document.
	FieldData = "data"
)
