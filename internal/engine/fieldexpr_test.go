// Copyright (c) 2026 Kumiko. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package engine_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/kumiko/internal/engine"
)

/*
TestParseFieldExpr_Variants checks the three-way resolution: function first,
qualified second, simple last.
*/
func TestParseFieldExpr_Variants(t *testing.T) {
	tests := []struct {
		name           string
		input          string
		wantKind       engine.ExprKind
		wantField      string
		wantFunction   string
		wantCollection string
	}{
		{"simple", "category", engine.ExprSimple, "category", "", ""},
		{"simple_mixed_case", "CreatedAt", engine.ExprSimple, "CreatedAt", "", ""},
		{"function_month", "month(date)", engine.ExprFunction, "date", "month", ""},
		{"function_year", "year(created)", engine.ExprFunction, "created", "year", ""},
		{"function_day", "day(due)", engine.ExprFunction, "due", "day", ""},
		{"function_date", "date(due)", engine.ExprFunction, "due", "date", ""},
		{"function_uppercase", "Month(Date)", engine.ExprFunction, "Date", "month", ""},
		{"qualified", "customers.type", engine.ExprQualified, "type", "", "customers"},
		{"qualified_underscore", "order_items.qty", engine.ExprQualified, "qty", "", "order_items"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr, err := engine.ParseFieldExpr(tt.input)
			require.NoError(t, err)

			assert.Equal(t, tt.wantKind, expr.Kind)
			assert.Equal(t, tt.wantField, expr.Field)
			assert.Equal(t, tt.wantFunction, expr.Function)
			assert.Equal(t, tt.wantCollection, expr.Collection)
			assert.Equal(t, tt.input, expr.Raw)
		})
	}
}

/*
TestParseFieldExpr_Failures checks the typed errors for every malformed
shape: unknown functions, bad inner identifiers, multi-dot paths.
*/
func TestParseFieldExpr_Failures(t *testing.T) {
	tests := []struct {
		name            string
		input           string
		unknownFunction bool
	}{
		{"unknown_function", "quarter(date)", true},
		{"unknown_function_uppercase", "QUARTER(date)", true},
		{"function_empty_argument", "month()", false},
		{"function_dotted_argument", "month(customers.date)", false},
		{"function_injected_argument", "month(date') OR ('1'='1", false},
		{"multi_dot_path", "a.b.c", false},
		{"dot_only", ".", false},
		{"trailing_dot", "customers.", false},
		{"leading_dot", ".type", false},
		{"empty", "", false},
		{"hyphenated", "customer-id", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := engine.ParseFieldExpr(tt.input)
			require.Error(t, err)

			var unknownFunction *engine.UnknownFunctionError
			var invalidField *engine.InvalidFieldError
			if tt.unknownFunction {
				assert.True(t, errors.As(err, &unknownFunction))
			} else {
				assert.True(t, errors.As(err, &invalidField))
			}
		})
	}
}

/*
TestFieldExpr_SQL checks the emitted fragments against each variant,
including the function family's bare data column and the join resolver.
*/
func TestFieldExpr_SQL(t *testing.T) {
	resolve := func(collection string) (string, bool) {
		if collection == "customers" {
			return "j_customers", true
		}
		return "", false
	}

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple", "category", "r.data->>'category'"},
		{"month", "month(date)", "to_char((data->>'date')::date, 'YYYY-MM')"},
		{"year", "year(date)", "to_char((data->>'date')::date, 'YYYY')"},
		{"day", "day(date)", "to_char((data->>'date')::date, 'YYYY-MM-DD')"},
		{"date_cast", "date(due)", "(data->>'due')::date"},
		{"qualified", "customers.type", "j_customers.data->>'type'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr, err := engine.ParseFieldExpr(tt.input)
			require.NoError(t, err)

			sql, err := expr.SQL("r", resolve)
			require.NoError(t, err)
			assert.Equal(t, tt.want, sql)
		})
	}
}

/*
TestFieldExpr_SQL_UnresolvedJoin checks that a qualified expression over a
collection the resolver does not know fails, including the nil-resolver case.
*/
func TestFieldExpr_SQL_UnresolvedJoin(t *testing.T) {
	expr, err := engine.ParseFieldExpr("vendors.name")
	require.NoError(t, err)

	_, err = expr.SQL("r", func(string) (string, bool) { return "", false })
	var joinNotFound *engine.JoinNotFoundError
	require.True(t, errors.As(err, &joinNotFound))
	assert.Equal(t, "vendors", joinNotFound.Collection)

	_, err = expr.SQL("r", nil)
	require.True(t, errors.As(err, &joinNotFound))
}

/*
TestDeriveAlias checks the alias rule: lowercase, fold parens and dots to
underscores, strip trailing underscores.
*/
func TestDeriveAlias(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple", "category", "category"},
		{"function", "month(date)", "month_date"},
		{"function_mixed_case", "Month(Date)", "month_date"},
		{"qualified", "accounts.type", "accounts_type"},
		{"date_function", "date(due)", "date_due"},
		{"uppercase_simple", "Category", "category"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, engine.DeriveAlias(tt.input))
		})
	}
}

/*
TestDeriveAlias_Idempotent checks that re-deriving an already derived alias
is a no-op, which is what lets ORDER BY refer back to projected columns.
*/
func TestDeriveAlias_Idempotent(t *testing.T) {
	inputs := []string{"category", "month(date)", "Month(Date)", "accounts.type", "day(Due)"}

	for _, input := range inputs {
		alias := engine.DeriveAlias(input)
		assert.Equal(t, alias, engine.DeriveAlias(alias), "alias derivation must be idempotent for %q", input)
	}
}
