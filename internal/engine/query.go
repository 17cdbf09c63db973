// Copyright (c) 2026 Kumiko. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package engine

// QuerySpec is a composition's declarative query configuration, exactly as
// persisted in the compositions table. Every part except From is optional.
type QuerySpec struct {
	// From is the source-collection slug.
	From string `json:"from"`
	// Joins are applied in order; each one joins another collection of the
	// same workspace on a pair of JSON fields.
	Joins []Join `json:"joins,omitempty"`
	// Select lists field expressions to project.
	Select []string `json:"select,omitempty"`
	// GroupBy lists field expressions to group by; they are auto-projected.
	GroupBy []string `json:"groupBy,omitempty"`
	// Aggregations each project exactly one aggregate column.
	Aggregations []Aggregation `json:"aggregations,omitempty"`
	// Filters are conjoined with AND after the tenancy predicates.
	Filters []Filter `json:"filters,omitempty"`
	// Sort orders the result set.
	Sort []Sort `json:"sort,omitempty"`
	// Limit caps the row count when positive.
	Limit int `json:"limit,omitempty"`
}

// Join declares one joined collection and its ON condition.
type Join struct {
	// Collection is the joined collection's slug.
	Collection string `json:"collection"`
	// On pairs a source-row field with a joined-row field.
	On JoinOn `json:"on"`
	// Type is one of inner, left, right. Anything else renders as INNER.
	Type string `json:"type,omitempty"`
}

// JoinOn names the two JSON fields compared by a join.
type JoinOn struct {
	Left  string `json:"left"`
	Right string `json:"right"`
}

// Aggregation declares one aggregate column.
type Aggregation struct {
	// Field is a bare field slug, or "*" for count.
	Field string `json:"field"`
	// Function is one of count, sum, avg, min, max.
	Function string `json:"function"`
	// Alias is the caller-chosen result-column name; it must pass the
	// identifier sanitizer since it lands in SQL unquoted.
	Alias string `json:"alias"`
}

// Filter declares one WHERE condition.
//
// Value and Param are mutually exclusive in intent: a filter with Param set
// reads its comparison value from the request's parameter bag, and is
// dropped entirely when the bag has no such key.
type Filter struct {
	Field    string `json:"field"`
	Operator string `json:"operator"`
	Value    any    `json:"value,omitempty"`
	Param    string `json:"param,omitempty"`
}

// Sort declares one ORDER BY entry.
type Sort struct {
	Field string `json:"field"`
	// Direction is asc or desc; anything unrecognized renders as ASC.
	Direction string `json:"direction,omitempty"`
}

// BuildContext carries the per-request resolution a build needs: the tenancy
// ids, the joined-collection id map, and the caller's parameter bag. It is
// assembled by the execution adapter and never persisted.
type BuildContext struct {
	// WorkspaceID scopes every table reference in the built query.
	WorkspaceID string
	// CollectionID is the resolved source collection.
	CollectionID string
	// JoinCollections maps joined-collection slug to collection id.
	JoinCollections map[string]string
	// Params is the caller's parameter bag for param-driven filters.
	Params map[string]any
}

// BuiltQuery is the builder's output: one SQL statement and its bound value
// vector. Placeholders are $1..$n in the order values were appended, and the
// placeholder count always equals len(Values).
//
// Built queries are ephemeral; they live for the scope of one request and
// are never reused across builds.
type BuiltQuery struct {
	SQL    string
	Values []any
}
