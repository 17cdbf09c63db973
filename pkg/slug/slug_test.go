// Copyright (c) 2026 Kumiko. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package slug_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/kumiko/pkg/slug"
)

/*
TestFrom checks URL slug generation across accents, punctuation, and spacing.
*/
func TestFrom(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple", "Monthly Sales", "monthly-sales"},
		{"accents", "Café Déjà Vu", "cafe-deja-vu"},
		{"punctuation", "Q4 — Sales & Revenue!", "q4-sales-revenue"},
		{"collapsed_separators", "a   b---c", "a-b-c"},
		{"trimmed", "  -hello-  ", "hello"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, slug.From(tt.input))
		})
	}
}

/*
TestIdentifier checks the identifier-safe slug form used by collections.
*/
func TestIdentifier(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple", "Customer Orders", "customer_orders"},
		{"accents", "Catégories", "categories"},
		{"punctuation", "Sales & Revenue!", "sales_revenue"},
		{"leading_digit", "2024 Budget", "c_2024_budget"},
		{"collapsed_separators", "a   b___c", "a_b_c"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, slug.Identifier(tt.input))
		})
	}
}
