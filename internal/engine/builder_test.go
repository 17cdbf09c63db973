// Copyright (c) 2026 Kumiko. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package engine_test

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/kumiko/internal/engine"
)

// testContext returns the canonical build context used across scenarios.
func testContext() engine.BuildContext {
	return engine.BuildContext{
		WorkspaceID:  "ws-123",
		CollectionID: "col-456",
	}
}

var placeholderPattern = regexp.MustCompile(`\$(\d+)`)

// placeholderIndices extracts every distinct $n index appearing in sql.
func placeholderIndices(t *testing.T, sql string) []int {
	t.Helper()

	seen := make(map[int]bool)
	var indices []int
	for _, match := range placeholderPattern.FindAllStringSubmatch(sql, -1) {
		index, err := strconv.Atoi(match[1])
		require.NoError(t, err)
		if !seen[index] {
			seen[index] = true
			indices = append(indices, index)
		}
	}

	sort.Ints(indices)
	return indices
}

// assertPlaceholderLaw checks that the set of placeholder indices is exactly
// {1..len(values)}.
func assertPlaceholderLaw(t *testing.T, built *engine.BuiltQuery) {
	t.Helper()

	indices := placeholderIndices(t, built.SQL)
	require.Len(t, indices, len(built.Values), "distinct placeholders must match value count")
	for i, index := range indices {
		assert.Equal(t, i+1, index, "placeholder indices must be dense from $1")
	}
}

/*
TestBuild_Minimal covers the smallest valid spec: just a source collection.
The tenancy predicates and the default projection must always appear.
*/
func TestBuild_Minimal(t *testing.T) {
	built, err := engine.Build(engine.QuerySpec{From: "expenses"}, testContext())
	require.NoError(t, err)

	assert.Equal(t, []any{"ws-123", "col-456"}, built.Values)
	assert.Contains(t, built.SQL, "FROM records r")
	assert.Contains(t, built.SQL, "WHERE r.workspace_id = $1")
	assert.Contains(t, built.SQL, "AND r.collection_id = $2")
	assert.Contains(t, built.SQL, "SELECT r.id, r.data, r.created_at, r.updated_at")
	assertPlaceholderLaw(t, built)
}

/*
TestBuild_EqFilter covers a literal equality filter on a JSON field.
*/
func TestBuild_EqFilter(t *testing.T) {
	spec := engine.QuerySpec{
		From:    "expenses",
		Filters: []engine.Filter{{Field: "status", Operator: "eq", Value: "active"}},
	}

	built, err := engine.Build(spec, testContext())
	require.NoError(t, err)

	assert.Equal(t, []any{"ws-123", "col-456", "active"}, built.Values)
	assert.Contains(t, built.SQL, "r.data->>'status' = $3")
	assertPlaceholderLaw(t, built)
}

/*
TestBuild_NumericComparison covers the gt family, which must cast the text
extraction to numeric and keep the literal in the value vector.
*/
func TestBuild_NumericComparison(t *testing.T) {
	spec := engine.QuerySpec{
		From:    "expenses",
		Filters: []engine.Filter{{Field: "amount", Operator: "gt", Value: 100}},
	}

	built, err := engine.Build(spec, testContext())
	require.NoError(t, err)

	assert.Equal(t, []any{"ws-123", "col-456", 100}, built.Values)
	assert.Contains(t, built.SQL, "(r.data->>'amount')::numeric > $3")
	assertPlaceholderLaw(t, built)
}

/*
TestBuild_InFilter covers per-element placeholder expansion for the in
operator.
*/
func TestBuild_InFilter(t *testing.T) {
	spec := engine.QuerySpec{
		From: "expenses",
		Filters: []engine.Filter{{
			Field:    "category",
			Operator: "in",
			Value:    []any{"food", "transport", "utilities"},
		}},
	}

	built, err := engine.Build(spec, testContext())
	require.NoError(t, err)

	assert.Equal(t, []any{"ws-123", "col-456", "food", "transport", "utilities"}, built.Values)
	assert.Contains(t, built.SQL, "r.data->>'category' IN ($3, $4, $5)")
	assertPlaceholderLaw(t, built)
}

/*
TestBuild_JoinWithFilters covers the parameter-ordering contract: join
tenancy parameters bind before the WHERE tenancy parameters.
*/
func TestBuild_JoinWithFilters(t *testing.T) {
	spec := engine.QuerySpec{
		From: "orders",
		Joins: []engine.Join{{
			Collection: "customers",
			On:         engine.JoinOn{Left: "customer_id", Right: "id"},
			Type:       "inner",
		}},
		Filters: []engine.Filter{
			{Field: "status", Operator: "eq", Value: "completed"},
			{Field: "amount", Operator: "gte", Value: 100},
		},
	}
	bctx := testContext()
	bctx.JoinCollections = map[string]string{"customers": "cust-123"}

	built, err := engine.Build(spec, bctx)
	require.NoError(t, err)

	require.Len(t, built.Values, 6)
	assert.Equal(t, []any{"ws-123", "cust-123", "ws-123", "col-456"}, built.Values[:4])
	assert.Contains(t, built.SQL,
		"INNER JOIN records j_customers ON j_customers.workspace_id = $1 AND j_customers.collection_id = $2 AND r.data->>'customer_id' = j_customers.data->>'id'")
	assert.Contains(t, built.SQL, "WHERE r.workspace_id = $3")
	assert.Contains(t, built.SQL, "AND r.collection_id = $4")
	assertPlaceholderLaw(t, built)
}

/*
TestBuild_AggregationGroupSort covers grouped aggregation with alias-based
sorting and a bound limit. The sort entries must resolve to the derived
groupBy alias and the aggregation alias, never to re-parsed expressions.
*/
func TestBuild_AggregationGroupSort(t *testing.T) {
	spec := engine.QuerySpec{
		From:    "expenses",
		Filters: []engine.Filter{{Field: "status", Operator: "eq", Value: "active"}},
		GroupBy: []string{"category", "month(date)"},
		Aggregations: []engine.Aggregation{
			{Field: "amount", Function: "sum", Alias: "total"},
			{Field: "*", Function: "count", Alias: "count"},
		},
		Sort: []engine.Sort{
			{Field: "month(date)", Direction: "desc"},
			{Field: "total", Direction: "desc"},
		},
		Limit: 100,
	}

	built, err := engine.Build(spec, testContext())
	require.NoError(t, err)

	assert.Contains(t, built.SQL, "r.data->>'category' AS category")
	assert.Contains(t, built.SQL, "to_char((data->>'date')::date, 'YYYY-MM') AS month_date")
	assert.Contains(t, built.SQL, "SUM((r.data->>'amount')::numeric) AS total")
	assert.Contains(t, built.SQL, "COUNT(*) AS count")
	assert.Contains(t, built.SQL, "GROUP BY r.data->>'category', to_char((data->>'date')::date, 'YYYY-MM')")
	assert.Contains(t, built.SQL, "ORDER BY month_date DESC, total DESC")
	assert.Contains(t, built.SQL, "LIMIT $4")
	assert.Equal(t, []any{"ws-123", "col-456", "active", 100}, built.Values)
	assertPlaceholderLaw(t, built)
}

/*
TestBuild_OperatorRenderings covers every filter operator's SQL shape and
value coercion in one table.
*/
func TestBuild_OperatorRenderings(t *testing.T) {
	tests := []struct {
		name         string
		filter       engine.Filter
		wantFragment string
		wantValue    any
	}{
		{"eq", engine.Filter{Field: "status", Operator: "eq", Value: "open"}, "r.data->>'status' = $3", "open"},
		{"neq", engine.Filter{Field: "status", Operator: "neq", Value: "open"}, "r.data->>'status' != $3", "open"},
		{"eq_number_stringified", engine.Filter{Field: "code", Operator: "eq", Value: 7}, "r.data->>'code' = $3", "7"},
		{"gt", engine.Filter{Field: "amount", Operator: "gt", Value: 5.5}, "(r.data->>'amount')::numeric > $3", 5.5},
		{"gte", engine.Filter{Field: "amount", Operator: "gte", Value: 10}, "(r.data->>'amount')::numeric >= $3", 10},
		{"lt", engine.Filter{Field: "amount", Operator: "lt", Value: 10}, "(r.data->>'amount')::numeric < $3", 10},
		{"lte", engine.Filter{Field: "amount", Operator: "lte", Value: 10}, "(r.data->>'amount')::numeric <= $3", 10},
		{"numeric_string_parsed", engine.Filter{Field: "amount", Operator: "gt", Value: "100"}, "(r.data->>'amount')::numeric > $3", float64(100)},
		{"contains", engine.Filter{Field: "name", Operator: "contains", Value: "acme"}, "r.data->>'name' ILIKE $3", "%acme%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := engine.QuerySpec{From: "expenses", Filters: []engine.Filter{tt.filter}}

			built, err := engine.Build(spec, testContext())
			require.NoError(t, err)

			assert.Contains(t, built.SQL, tt.wantFragment)
			require.Len(t, built.Values, 3)
			assert.Equal(t, tt.wantValue, built.Values[2])
		})
	}
}

/*
TestBuild_ParamFilters covers the parameter bag: a filter bound to a present
key uses the bag value; an absent key drops the filter without error.
*/
func TestBuild_ParamFilters(t *testing.T) {
	spec := engine.QuerySpec{
		From:    "expenses",
		Filters: []engine.Filter{{Field: "status", Operator: "eq", Param: "status"}},
	}

	t.Run("present_key_binds_bag_value", func(t *testing.T) {
		bctx := testContext()
		bctx.Params = map[string]any{"status": "archived"}

		built, err := engine.Build(spec, bctx)
		require.NoError(t, err)

		assert.Equal(t, []any{"ws-123", "col-456", "archived"}, built.Values)
		assert.Contains(t, built.SQL, "r.data->>'status' = $3")
	})

	t.Run("absent_key_drops_filter", func(t *testing.T) {
		built, err := engine.Build(spec, testContext())
		require.NoError(t, err)

		assert.Equal(t, []any{"ws-123", "col-456"}, built.Values)
		assert.NotContains(t, built.SQL, "status")
	})
}

/*
TestBuild_DroppedFilterEquivalence checks that a param filter whose key is
absent produces byte-identical SQL to a spec without the filter at all, even
when later clauses keep binding parameters.
*/
func TestBuild_DroppedFilterEquivalence(t *testing.T) {
	withFilter := engine.QuerySpec{
		From: "expenses",
		Filters: []engine.Filter{
			{Field: "category", Operator: "eq", Param: "category"},
			{Field: "amount", Operator: "gt", Value: 50},
		},
		Limit: 10,
	}
	withoutFilter := engine.QuerySpec{
		From:    "expenses",
		Filters: []engine.Filter{{Field: "amount", Operator: "gt", Value: 50}},
		Limit:   10,
	}

	builtDropped, err := engine.Build(withFilter, testContext())
	require.NoError(t, err)
	builtOmitted, err := engine.Build(withoutFilter, testContext())
	require.NoError(t, err)

	assert.Equal(t, builtOmitted.SQL, builtDropped.SQL)
	assert.Equal(t, builtOmitted.Values, builtDropped.Values)
}

/*
TestBuild_DroppedFilterSkipsFieldValidation checks that dropping happens
before field sanitation, matching the omitted-filter equivalence exactly.
*/
func TestBuild_DroppedFilterSkipsFieldValidation(t *testing.T) {
	spec := engine.QuerySpec{
		From:    "expenses",
		Filters: []engine.Filter{{Field: "bad field", Operator: "eq", Param: "missing"}},
	}

	built, err := engine.Build(spec, testContext())
	require.NoError(t, err)
	assert.Equal(t, []any{"ws-123", "col-456"}, built.Values)
}

/*
TestBuild_SelectProjection covers explicit projections, qualified fields
through joins, groupBy auto-projection, and alias deduplication.
*/
func TestBuild_SelectProjection(t *testing.T) {
	t.Run("explicit_select", func(t *testing.T) {
		spec := engine.QuerySpec{From: "expenses", Select: []string{"category", "month(date)"}}

		built, err := engine.Build(spec, testContext())
		require.NoError(t, err)

		assert.Contains(t, built.SQL, "SELECT r.data->>'category' AS category, to_char((data->>'date')::date, 'YYYY-MM') AS month_date")
	})

	t.Run("qualified_select_through_join", func(t *testing.T) {
		spec := engine.QuerySpec{
			From:   "orders",
			Joins:  []engine.Join{{Collection: "customers", On: engine.JoinOn{Left: "customer_id", Right: "id"}}},
			Select: []string{"customers.name"},
		}
		bctx := testContext()
		bctx.JoinCollections = map[string]string{"customers": "cust-123"}

		built, err := engine.Build(spec, bctx)
		require.NoError(t, err)

		assert.Contains(t, built.SQL, "j_customers.data->>'name' AS customers_name")
	})

	t.Run("groupby_auto_projected_once", func(t *testing.T) {
		spec := engine.QuerySpec{
			From:    "expenses",
			Select:  []string{"category"},
			GroupBy: []string{"category"},
		}

		built, err := engine.Build(spec, testContext())
		require.NoError(t, err)

		assert.Equal(t, 1, strings.Count(built.SQL, "AS category"))
	})

	t.Run("qualified_select_without_join_fails", func(t *testing.T) {
		spec := engine.QuerySpec{From: "orders", Select: []string{"customers.name"}}

		_, err := engine.Build(spec, testContext())
		var joinNotFound *engine.JoinNotFoundError
		require.True(t, errors.As(err, &joinNotFound))
		assert.Equal(t, "customers", joinNotFound.Collection)
	})
}

/*
TestBuild_Joins covers join-type rendering, multiple joins, and the missing
join-collection failure.
*/
func TestBuild_Joins(t *testing.T) {
	t.Run("left_join_rendered_uppercase", func(t *testing.T) {
		spec := engine.QuerySpec{
			From:  "orders",
			Joins: []engine.Join{{Collection: "customers", On: engine.JoinOn{Left: "customer_id", Right: "id"}, Type: "left"}},
		}
		bctx := testContext()
		bctx.JoinCollections = map[string]string{"customers": "cust-123"}

		built, err := engine.Build(spec, bctx)
		require.NoError(t, err)
		assert.Contains(t, built.SQL, "LEFT JOIN records j_customers")
	})

	t.Run("unrecognized_type_falls_back_to_inner", func(t *testing.T) {
		spec := engine.QuerySpec{
			From:  "orders",
			Joins: []engine.Join{{Collection: "customers", On: engine.JoinOn{Left: "customer_id", Right: "id"}, Type: "full"}},
		}
		bctx := testContext()
		bctx.JoinCollections = map[string]string{"customers": "cust-123"}

		built, err := engine.Build(spec, bctx)
		require.NoError(t, err)
		assert.Contains(t, built.SQL, "INNER JOIN records j_customers")
	})

	t.Run("missing_collection_mapping_fails", func(t *testing.T) {
		spec := engine.QuerySpec{
			From:  "orders",
			Joins: []engine.Join{{Collection: "vendors", On: engine.JoinOn{Left: "vendor_id", Right: "id"}}},
		}

		_, err := engine.Build(spec, testContext())
		var joinNotFound *engine.JoinNotFoundError
		require.True(t, errors.As(err, &joinNotFound))
		assert.Equal(t, "vendors", joinNotFound.Collection)
	})

	t.Run("two_joins_bind_in_order", func(t *testing.T) {
		spec := engine.QuerySpec{
			From: "orders",
			Joins: []engine.Join{
				{Collection: "customers", On: engine.JoinOn{Left: "customer_id", Right: "id"}},
				{Collection: "vendors", On: engine.JoinOn{Left: "vendor_id", Right: "id"}, Type: "left"},
			},
		}
		bctx := testContext()
		bctx.JoinCollections = map[string]string{"customers": "cust-123", "vendors": "vend-789"}

		built, err := engine.Build(spec, bctx)
		require.NoError(t, err)

		assert.Equal(t, []any{"ws-123", "cust-123", "ws-123", "vend-789", "ws-123", "col-456"}, built.Values)
		assertPlaceholderLaw(t, built)
	})
}

/*
TestBuild_Aggregations covers the count special cases and the aggregate
whitelist.
*/
func TestBuild_Aggregations(t *testing.T) {
	t.Run("count_star", func(t *testing.T) {
		spec := engine.QuerySpec{
			From:         "expenses",
			Aggregations: []engine.Aggregation{{Field: "*", Function: "count", Alias: "n"}},
		}

		built, err := engine.Build(spec, testContext())
		require.NoError(t, err)
		assert.Contains(t, built.SQL, "COUNT(*) AS n")
		assert.NotContains(t, built.SQL, "COUNT(r.data")
	})

	t.Run("count_field_counts_text_extraction", func(t *testing.T) {
		spec := engine.QuerySpec{
			From:         "expenses",
			Aggregations: []engine.Aggregation{{Field: "receipt", Function: "count", Alias: "with_receipt"}},
		}

		built, err := engine.Build(spec, testContext())
		require.NoError(t, err)
		assert.Contains(t, built.SQL, "COUNT(r.data->>'receipt') AS with_receipt")
	})

	t.Run("avg_casts_to_numeric", func(t *testing.T) {
		spec := engine.QuerySpec{
			From:         "expenses",
			Aggregations: []engine.Aggregation{{Field: "amount", Function: "avg", Alias: "mean"}},
		}

		built, err := engine.Build(spec, testContext())
		require.NoError(t, err)
		assert.Contains(t, built.SQL, "AVG((r.data->>'amount')::numeric) AS mean")
	})

	t.Run("unknown_aggregate_function_fails", func(t *testing.T) {
		spec := engine.QuerySpec{
			From:         "expenses",
			Aggregations: []engine.Aggregation{{Field: "amount", Function: "median", Alias: "m"}},
		}

		_, err := engine.Build(spec, testContext())
		var unknownFunction *engine.UnknownFunctionError
		require.True(t, errors.As(err, &unknownFunction))
		assert.Equal(t, "median", unknownFunction.Name)
	})

	t.Run("star_outside_count_fails", func(t *testing.T) {
		spec := engine.QuerySpec{
			From:         "expenses",
			Aggregations: []engine.Aggregation{{Field: "*", Function: "sum", Alias: "s"}},
		}

		_, err := engine.Build(spec, testContext())
		var invalidField *engine.InvalidFieldError
		require.True(t, errors.As(err, &invalidField))
		assert.Equal(t, "*", invalidField.Name)
	})
}

/*
TestBuild_Sort covers the three sort-resolution rules and the direction
whitelist.
*/
func TestBuild_Sort(t *testing.T) {
	t.Run("aggregation_alias_roundtrip", func(t *testing.T) {
		spec := engine.QuerySpec{
			From:         "expenses",
			GroupBy:      []string{"category"},
			Aggregations: []engine.Aggregation{{Field: "amount", Function: "sum", Alias: "total"}},
			Sort:         []engine.Sort{{Field: "total", Direction: "desc"}},
		}

		built, err := engine.Build(spec, testContext())
		require.NoError(t, err)

		assert.Contains(t, built.SQL, "ORDER BY total DESC")
		assert.NotContains(t, built.SQL, "r.data->>'total'")
	})

	t.Run("fresh_expression_emitted_raw", func(t *testing.T) {
		spec := engine.QuerySpec{
			From: "expenses",
			Sort: []engine.Sort{{Field: "amount", Direction: "asc"}},
		}

		built, err := engine.Build(spec, testContext())
		require.NoError(t, err)
		assert.Contains(t, built.SQL, "ORDER BY r.data->>'amount' ASC")
	})

	t.Run("unrecognized_direction_defaults_to_asc", func(t *testing.T) {
		spec := engine.QuerySpec{
			From: "expenses",
			Sort: []engine.Sort{{Field: "amount", Direction: "sideways; DROP TABLE records"}},
		}

		built, err := engine.Build(spec, testContext())
		require.NoError(t, err)
		assert.Contains(t, built.SQL, "ORDER BY r.data->>'amount' ASC")
		assert.NotContains(t, built.SQL, "DROP TABLE")
	})

	t.Run("invalid_sort_field_fails", func(t *testing.T) {
		spec := engine.QuerySpec{
			From: "expenses",
			Sort: []engine.Sort{{Field: "amount; DROP TABLE records", Direction: "asc"}},
		}

		_, err := engine.Build(spec, testContext())
		var invalidField *engine.InvalidFieldError
		require.True(t, errors.As(err, &invalidField))
	})
}

/*
TestBuild_InOperatorRejections covers the in-operator's typed failure for
non-list and empty-list values.
*/
func TestBuild_InOperatorRejections(t *testing.T) {
	tests := []struct {
		name  string
		value any
	}{
		{"scalar_string", "food"},
		{"scalar_number", 42},
		{"nil_value", nil},
		{"empty_any_slice", []any{}},
		{"empty_string_slice", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := engine.QuerySpec{
				From:    "expenses",
				Filters: []engine.Filter{{Field: "category", Operator: "in", Value: tt.value}},
			}

			_, err := engine.Build(spec, testContext())
			require.ErrorIs(t, err, engine.ErrInOperatorRequiresArray)
		})
	}
}

/*
TestBuild_UnknownOperator checks the operator whitelist failure.
*/
func TestBuild_UnknownOperator(t *testing.T) {
	spec := engine.QuerySpec{
		From:    "expenses",
		Filters: []engine.Filter{{Field: "status", Operator: "like", Value: "x"}},
	}

	_, err := engine.Build(spec, testContext())
	var unknownOperator *engine.UnknownOperatorError
	require.True(t, errors.As(err, &unknownOperator))
	assert.Equal(t, "like", unknownOperator.Name)
}

/*
TestBuild_InjectionResistance places classic injection payloads into every
identifier position and demands a typed InvalidFieldError with no SQL output
at all.
*/
func TestBuild_InjectionResistance(t *testing.T) {
	payloads := []string{
		"field' OR '1'='1",
		"field--comment",
		"field; DROP TABLE records",
	}

	positions := map[string]func(payload string) engine.QuerySpec{
		"select": func(payload string) engine.QuerySpec {
			return engine.QuerySpec{From: "expenses", Select: []string{payload}}
		},
		"group_by": func(payload string) engine.QuerySpec {
			return engine.QuerySpec{From: "expenses", GroupBy: []string{payload}}
		},
		"filter_field": func(payload string) engine.QuerySpec {
			return engine.QuerySpec{From: "expenses", Filters: []engine.Filter{{Field: payload, Operator: "eq", Value: "x"}}}
		},
		"join_on_left": func(payload string) engine.QuerySpec {
			return engine.QuerySpec{From: "expenses", Joins: []engine.Join{{Collection: "customers", On: engine.JoinOn{Left: payload, Right: "id"}}}}
		},
		"aggregation_field": func(payload string) engine.QuerySpec {
			return engine.QuerySpec{From: "expenses", Aggregations: []engine.Aggregation{{Field: payload, Function: "sum", Alias: "s"}}}
		},
		"aggregation_alias": func(payload string) engine.QuerySpec {
			return engine.QuerySpec{From: "expenses", Aggregations: []engine.Aggregation{{Field: "amount", Function: "sum", Alias: payload}}}
		},
	}

	bctx := testContext()
	bctx.JoinCollections = map[string]string{"customers": "cust-123"}

	for position, build := range positions {
		for _, payload := range payloads {
			t.Run(fmt.Sprintf("%s/%s", position, payload), func(t *testing.T) {
				built, err := engine.Build(build(payload), bctx)

				var invalidField *engine.InvalidFieldError
				require.True(t, errors.As(err, &invalidField), "expected InvalidFieldError, got %v", err)
				assert.Equal(t, payload, invalidField.Name)
				assert.Nil(t, built, "no partially built query may escape")
			})
		}
	}
}

/*
TestBuild_LiteralValuesNeverInSQL checks that SQL metacharacters in literal
filter values travel only through the value vector.
*/
func TestBuild_LiteralValuesNeverInSQL(t *testing.T) {
	malicious := "'; DROP TABLE records; --"
	spec := engine.QuerySpec{
		From:    "expenses",
		Filters: []engine.Filter{{Field: "note", Operator: "eq", Value: malicious}},
	}

	built, err := engine.Build(spec, testContext())
	require.NoError(t, err)

	assert.NotContains(t, built.SQL, malicious)
	assert.Contains(t, built.Values, any(malicious))
}

/*
TestBuild_PlaceholderLaw runs the placeholder/value agreement law over a
corpus of representative specs.
*/
func TestBuild_PlaceholderLaw(t *testing.T) {
	joinContext := testContext()
	joinContext.JoinCollections = map[string]string{"customers": "cust-123", "vendors": "vend-789"}
	joinContext.Params = map[string]any{"status": "open"}

	specs := map[string]engine.QuerySpec{
		"minimal": {From: "expenses"},
		"filters_only": {From: "expenses", Filters: []engine.Filter{
			{Field: "status", Operator: "eq", Value: "active"},
			{Field: "amount", Operator: "lte", Value: 9},
			{Field: "category", Operator: "in", Value: []any{"a", "b"}},
		}},
		"joined_grouped": {
			From:         "orders",
			Joins:        []engine.Join{{Collection: "customers", On: engine.JoinOn{Left: "customer_id", Right: "id"}}},
			GroupBy:      []string{"customers.region"},
			Aggregations: []engine.Aggregation{{Field: "amount", Function: "sum", Alias: "total"}},
			Sort:         []engine.Sort{{Field: "total", Direction: "desc"}},
			Limit:        50,
		},
		"param_dropped_and_kept": {
			From: "expenses",
			Filters: []engine.Filter{
				{Field: "status", Operator: "eq", Param: "status"},
				{Field: "owner", Operator: "eq", Param: "owner"},
			},
			Limit: 5,
		},
		"double_join": {
			From: "orders",
			Joins: []engine.Join{
				{Collection: "customers", On: engine.JoinOn{Left: "customer_id", Right: "id"}},
				{Collection: "vendors", On: engine.JoinOn{Left: "vendor_id", Right: "id"}, Type: "right"},
			},
			Filters: []engine.Filter{{Field: "total", Operator: "gt", Value: 0}},
		},
	}

	for name, spec := range specs {
		t.Run(name, func(t *testing.T) {
			built, err := engine.Build(spec, joinContext)
			require.NoError(t, err)
			assertPlaceholderLaw(t, built)
		})
	}
}

/*
TestBuild_ClauseOrder checks the fixed clause sequence in the final
statement.
*/
func TestBuild_ClauseOrder(t *testing.T) {
	spec := engine.QuerySpec{
		From:         "orders",
		Joins:        []engine.Join{{Collection: "customers", On: engine.JoinOn{Left: "customer_id", Right: "id"}}},
		GroupBy:      []string{"category"},
		Aggregations: []engine.Aggregation{{Field: "amount", Function: "sum", Alias: "total"}},
		Filters:      []engine.Filter{{Field: "status", Operator: "eq", Value: "done"}},
		Sort:         []engine.Sort{{Field: "total", Direction: "desc"}},
		Limit:        10,
	}
	bctx := testContext()
	bctx.JoinCollections = map[string]string{"customers": "cust-123"}

	built, err := engine.Build(spec, bctx)
	require.NoError(t, err)

	order := []string{"SELECT ", "\nFROM ", " JOIN ", "\nWHERE ", "\nGROUP BY ", "\nORDER BY ", "\nLIMIT "}
	position := 0
	for _, marker := range order {
		index := strings.Index(built.SQL[position:], marker)
		require.GreaterOrEqual(t, index, 0, "clause %q missing or out of order", strings.TrimSpace(marker))
		position += index + len(marker)
	}
}
