// Copyright (c) 2026 Kumiko. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package engine_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/kumiko/internal/engine"
)

/*
TestRow_MarshalJSON checks that a row encodes as a JSON object whose keys
keep the projection order, not the alphabetical order a map would give.
*/
func TestRow_MarshalJSON(t *testing.T) {
	row := engine.NewRow(
		[]string{"month_date", "category", "total"},
		[]any{"2026-01", "food", 120.5},
	)

	encoded, err := json.Marshal(row)
	require.NoError(t, err)

	assert.Equal(t, `{"month_date":"2026-01","category":"food","total":120.5}`, string(encoded))
}

/*
TestRow_MarshalJSON_NestedDocument checks that a projected raw data column
(a decoded JSON document) re-encodes in place.
*/
func TestRow_MarshalJSON_NestedDocument(t *testing.T) {
	row := engine.NewRow(
		[]string{"id", "data"},
		[]any{"rec-1", map[string]any{"amount": 10.0}},
	)

	encoded, err := json.Marshal(row)
	require.NoError(t, err)

	assert.JSONEq(t, `{"id":"rec-1","data":{"amount":10}}`, string(encoded))
}

/*
TestRow_Get covers alias lookup and the missing-column case.
*/
func TestRow_Get(t *testing.T) {
	row := engine.NewRow([]string{"category", "total"}, []any{"food", 3.0})

	value, ok := row.Get("total")
	require.True(t, ok)
	assert.Equal(t, 3.0, value)

	_, ok = row.Get("missing")
	assert.False(t, ok)

	assert.Equal(t, []string{"category", "total"}, row.Columns())
}
