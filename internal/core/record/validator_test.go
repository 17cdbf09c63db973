// Copyright (c) 2026 Kumiko. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package record_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/kumiko/internal/core/collection"
	"github.com/taibuivan/kumiko/internal/core/record"
	"github.com/taibuivan/kumiko/pkg/pointer"
)

// orderSchema is a representative schema exercising every field type.
func orderSchema() []collection.Field {
	return []collection.Field{
		{Slug: "title", Type: collection.TypeText, IsRequired: true,
			Options: &collection.FieldOptions{MinLength: pointer.To(2), MaxLength: pointer.To(10)}},
		{Slug: "amount", Type: collection.TypeNumber,
			Options: &collection.FieldOptions{Min: pointer.To(0.0), Max: pointer.To(1000.0), Precision: pointer.To(2)}},
		{Slug: "paid", Type: collection.TypeBoolean, Default: false},
		{Slug: "ordered_on", Type: collection.TypeDate},
		{Slug: "shipped_at", Type: collection.TypeDatetime},
		{Slug: "status", Type: collection.TypeSelect,
			Options: &collection.FieldOptions{Choices: []string{"open", "closed"}}},
		{Slug: "tags", Type: collection.TypeMultiSelect,
			Options: &collection.FieldOptions{Choices: []string{"a", "b", "c"}}},
		{Slug: "customer_id", Type: collection.TypeRelation},
		{Slug: "meta", Type: collection.TypeJSON},
	}
}

/*
TestValidateDocument_Create verifies full-document rules: required presence,
default application, and unknown-key rejection.
*/
func TestValidateDocument_Create(t *testing.T) {
	t.Run("normalizes_full_document", func(t *testing.T) {
		document := map[string]any{
			"title":       "Desk",
			"amount":      "42.50",
			"paid":        "true",
			"ordered_on":  "2026-03-01",
			"shipped_at":  "2026-03-02T10:30:00Z",
			"status":      "open",
			"tags":        []any{"a", "c"},
			"customer_id": "0198c5f2-7d1a-7bb8-a3f0-01b2c3d4e5f6",
			"meta":        map[string]any{"source": "import"},
		}

		normalized, failures := record.ValidateDocument(orderSchema(), document, record.ModeCreate)

		require.Empty(t, failures)
		assert.Equal(t, "Desk", normalized["title"])
		assert.Equal(t, 42.5, normalized["amount"])
		assert.Equal(t, true, normalized["paid"])
		assert.Equal(t, []string{"a", "c"}, normalized["tags"])
		assert.Equal(t, map[string]any{"source": "import"}, normalized["meta"])
	})

	t.Run("applies_defaults_to_absent_keys", func(t *testing.T) {
		normalized, failures := record.ValidateDocument(orderSchema(), map[string]any{
			"title": "Desk",
		}, record.ModeCreate)

		require.Empty(t, failures)
		assert.Equal(t, false, normalized["paid"])
		assert.NotContains(t, normalized, "amount")
	})

	t.Run("accumulates_all_failures", func(t *testing.T) {
		document := map[string]any{
			"amount":  "not-a-number",
			"status":  "archived",
			"surplus": 1,
		}

		normalized, failures := record.ValidateDocument(orderSchema(), document, record.ModeCreate)

		assert.Nil(t, normalized)
		require.Len(t, failures, 4)

		failedFields := make([]string, 0, len(failures))
		for _, failure := range failures {
			failedFields = append(failedFields, failure.Field)
		}
		assert.ElementsMatch(t, []string{"title", "amount", "status", "surplus"}, failedFields)
	})

	t.Run("explicit_null_fails_required", func(t *testing.T) {
		_, failures := record.ValidateDocument(orderSchema(), map[string]any{
			"title": nil,
		}, record.ModeCreate)

		require.Len(t, failures, 1)
		assert.Equal(t, "title", failures[0].Field)
	})
}

/*
TestValidateDocument_Update verifies partial-document rules: absent keys are
untouched, defaults never apply, and unknown keys pass through.
*/
func TestValidateDocument_Update(t *testing.T) {
	t.Run("validates_only_provided_keys", func(t *testing.T) {
		normalized, failures := record.ValidateDocument(orderSchema(), map[string]any{
			"amount": 10.25,
		}, record.ModeUpdate)

		require.Empty(t, failures)
		assert.Equal(t, map[string]any{"amount": 10.25}, normalized)
	})

	t.Run("tolerates_unknown_keys", func(t *testing.T) {
		normalized, failures := record.ValidateDocument(orderSchema(), map[string]any{
			"legacy_field": "kept",
		}, record.ModeUpdate)

		require.Empty(t, failures)
		assert.Equal(t, "kept", normalized["legacy_field"])
	})

	t.Run("explicit_null_clears_optional_field", func(t *testing.T) {
		normalized, failures := record.ValidateDocument(orderSchema(), map[string]any{
			"status": nil,
		}, record.ModeUpdate)

		require.Empty(t, failures)
		require.Contains(t, normalized, "status")
		assert.Nil(t, normalized["status"])
	})

	t.Run("still_checks_provided_values", func(t *testing.T) {
		_, failures := record.ValidateDocument(orderSchema(), map[string]any{
			"ordered_on": "01/03/2026",
		}, record.ModeUpdate)

		require.Len(t, failures, 1)
		assert.Equal(t, "ordered_on", failures[0].Field)
	})
}

/*
TestValidateDocument_Coercion walks every field type through accepted and
rejected values.
*/
func TestValidateDocument_Coercion(t *testing.T) {
	testCases := []struct {
		name     string
		field    collection.Field
		value    any
		expected any
		rejected bool
	}{
		{
			name:     "text_accepts_string",
			field:    collection.Field{Slug: "f", Type: collection.TypeText},
			value:    "hello",
			expected: "hello",
		},
		{
			name:     "text_rejects_number",
			field:    collection.Field{Slug: "f", Type: collection.TypeText},
			value:    7.0,
			rejected: true,
		},
		{
			name: "text_enforces_min_length",
			field: collection.Field{Slug: "f", Type: collection.TypeText,
				Options: &collection.FieldOptions{MinLength: pointer.To(3)}},
			value:    "ab",
			rejected: true,
		},
		{
			name: "text_enforces_pattern",
			field: collection.Field{Slug: "f", Type: collection.TypeText,
				Options: &collection.FieldOptions{Pattern: pointer.To("^[A-Z]{3}-[0-9]+$")}},
			value:    "invoice-1",
			rejected: true,
		},
		{
			name: "text_accepts_pattern_match",
			field: collection.Field{Slug: "f", Type: collection.TypeText,
				Options: &collection.FieldOptions{Pattern: pointer.To("^[A-Z]{3}-[0-9]+$")}},
			value:    "INV-42",
			expected: "INV-42",
		},
		{
			name:     "number_accepts_float",
			field:    collection.Field{Slug: "f", Type: collection.TypeNumber},
			value:    3.5,
			expected: 3.5,
		},
		{
			name:     "number_accepts_numeric_string",
			field:    collection.Field{Slug: "f", Type: collection.TypeNumber},
			value:    " 12.5 ",
			expected: 12.5,
		},
		{
			name:     "number_accepts_json_number",
			field:    collection.Field{Slug: "f", Type: collection.TypeNumber},
			value:    json.Number("99"),
			expected: 99.0,
		},
		{
			name: "number_enforces_max",
			field: collection.Field{Slug: "f", Type: collection.TypeNumber,
				Options: &collection.FieldOptions{Max: pointer.To(10.0)}},
			value:    11.0,
			rejected: true,
		},
		{
			name: "number_enforces_precision",
			field: collection.Field{Slug: "f", Type: collection.TypeNumber,
				Options: &collection.FieldOptions{Precision: pointer.To(2)}},
			value:    1.005,
			rejected: true,
		},
		{
			name:     "boolean_accepts_bool",
			field:    collection.Field{Slug: "f", Type: collection.TypeBoolean},
			value:    true,
			expected: true,
		},
		{
			name:     "boolean_accepts_string_form",
			field:    collection.Field{Slug: "f", Type: collection.TypeBoolean},
			value:    "False",
			expected: false,
		},
		{
			name:     "boolean_rejects_number",
			field:    collection.Field{Slug: "f", Type: collection.TypeBoolean},
			value:    1.0,
			rejected: true,
		},
		{
			name:     "date_accepts_iso_day",
			field:    collection.Field{Slug: "f", Type: collection.TypeDate},
			value:    "2026-12-31",
			expected: "2026-12-31",
		},
		{
			name:     "date_rejects_other_layouts",
			field:    collection.Field{Slug: "f", Type: collection.TypeDate},
			value:    "31.12.2026",
			rejected: true,
		},
		{
			name:     "datetime_accepts_rfc3339",
			field:    collection.Field{Slug: "f", Type: collection.TypeDatetime},
			value:    "2026-12-31T23:59:59+09:00",
			expected: "2026-12-31T23:59:59+09:00",
		},
		{
			name:     "datetime_accepts_bare_date",
			field:    collection.Field{Slug: "f", Type: collection.TypeDatetime},
			value:    "2026-12-31",
			expected: "2026-12-31",
		},
		{
			name:     "datetime_rejects_garbage",
			field:    collection.Field{Slug: "f", Type: collection.TypeDatetime},
			value:    "yesterday",
			rejected: true,
		},
		{
			name: "select_rejects_outside_choices",
			field: collection.Field{Slug: "f", Type: collection.TypeSelect,
				Options: &collection.FieldOptions{Choices: []string{"x", "y"}}},
			value:    "z",
			rejected: true,
		},
		{
			name: "multi_select_accepts_subset",
			field: collection.Field{Slug: "f", Type: collection.TypeMultiSelect,
				Options: &collection.FieldOptions{Choices: []string{"x", "y"}}},
			value:    []any{"y"},
			expected: []string{"y"},
		},
		{
			name: "multi_select_rejects_non_string_element",
			field: collection.Field{Slug: "f", Type: collection.TypeMultiSelect,
				Options: &collection.FieldOptions{Choices: []string{"x", "y"}}},
			value:    []any{"x", 1.0},
			rejected: true,
		},
		{
			name:     "relation_rejects_non_uuid",
			field:    collection.Field{Slug: "f", Type: collection.TypeRelation},
			value:    "record-1",
			rejected: true,
		},
		{
			name:     "json_accepts_nested_structure",
			field:    collection.Field{Slug: "f", Type: collection.TypeJSON},
			value:    []any{map[string]any{"k": "v"}},
			expected: []any{map[string]any{"k": "v"}},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			normalized, failures := record.ValidateDocument(
				[]collection.Field{testCase.field},
				map[string]any{"f": testCase.value},
				record.ModeUpdate,
			)

			if testCase.rejected {
				require.Len(t, failures, 1)
				assert.Equal(t, "f", failures[0].Field)
				return
			}

			require.Empty(t, failures)
			assert.Equal(t, testCase.expected, normalized["f"])
		})
	}
}
