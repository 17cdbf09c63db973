// Copyright (c) 2026 Kumiko. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package engine

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/taibuivan/kumiko/internal/platform/database/schema"
)

// ExprKind discriminates the three field-expression variants.
type ExprKind int

const (
	// ExprSimple is a bare field on the source collection: "category".
	ExprSimple ExprKind = iota
	// ExprFunction is a date function over a field: "month(date)".
	ExprFunction
	// ExprQualified is a field on a joined collection: "customers.type".
	ExprQualified
)

// dateFunctions maps each supported function to its to_char format.
// An empty format means a bare ::date cast with no to_char wrapper.
var dateFunctions = map[string]string{
	"month": "YYYY-MM",
	"year":  "YYYY",
	"day":   "YYYY-MM-DD",
	"date":  "",
}

// functionPattern matches the fn(argument) shape. The argument is captured
// raw and sanitized separately so failures name the exact inner input.
var functionPattern = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)\((.*)\)$`)

// aliasReplacer folds the punctuation an expression may carry into
// underscores when deriving a result-column alias.
var aliasReplacer = strings.NewReplacer("(", "_", ")", "_", ".", "_")

// FieldExpr is a parsed field expression. It is a closed union over
// [ExprKind]; only the fields relevant to the kind are populated.
//
// Raw preserves the caller's original spelling and drives alias derivation,
// while Field/Function/Collection hold the sanitized, normalized pieces used
// for SQL emission.
type FieldExpr struct {
	Kind       ExprKind
	Field      string
	Function   string
	Collection string
	Raw        string
}

/*
ParseFieldExpr maps a user-authored string onto one of the three variants.

Resolution order is function first, qualified second, simple last:

  - "month(date)" parses as Function before anything else.
  - "customers.type" splits on the first dot; both halves are sanitized.
  - anything else must itself pass the sanitizer.

A recognized fn(argument) shape with a function outside {month, year, day,
date} fails with [UnknownFunctionError]; function-name matching is
case-insensitive. Every inner identifier flows through [SanitizeIdentifier]
and its failure propagates unchanged.
*/
func ParseFieldExpr(raw string) (FieldExpr, error) {
	if match := functionPattern.FindStringSubmatch(raw); match != nil {
		function := strings.ToLower(match[1])
		if _, ok := dateFunctions[function]; !ok {
			return FieldExpr{}, &UnknownFunctionError{Name: match[1]}
		}

		field, err := SanitizeIdentifier(match[2])
		if err != nil {
			return FieldExpr{}, err
		}

		return FieldExpr{Kind: ExprFunction, Function: function, Field: field, Raw: raw}, nil
	}

	if strings.Contains(raw, ".") {
		collectionPart, fieldPart, _ := strings.Cut(raw, ".")

		collection, err := SanitizeIdentifier(collectionPart)
		if err != nil {
			return FieldExpr{}, err
		}

		// A remainder with further dots fails here.
		field, err := SanitizeIdentifier(fieldPart)
		if err != nil {
			return FieldExpr{}, err
		}

		return FieldExpr{Kind: ExprQualified, Collection: collection, Field: field, Raw: raw}, nil
	}

	field, err := SanitizeIdentifier(raw)
	if err != nil {
		return FieldExpr{}, err
	}

	return FieldExpr{Kind: ExprSimple, Field: field, Raw: raw}, nil
}

/*
SQL renders the expression as a PostgreSQL fragment.

Parameters:
  - tableAlias: Alias of the source-collection row (normally "r")
  - resolve: Maps a joined-collection slug to its table alias; may be nil
    when the query has no joins

Returns:
  - string: SQL fragment reading from the JSON document
  - error: *JoinNotFoundError when a qualified expression names a collection
    the resolver does not know

JSON extraction via ->> always yields text; the date family casts explicitly.
The function variants read the bare data column without a table alias, which
restricts them to the source collection.
*/
func (e FieldExpr) SQL(tableAlias string, resolve func(collection string) (string, bool)) (string, error) {
	switch e.Kind {
	case ExprFunction:
		format := dateFunctions[e.Function]
		if format == "" {
			return fmt.Sprintf("(%s->>'%s')::date", schema.Record.Data, e.Field), nil
		}
		return fmt.Sprintf("to_char((%s->>'%s')::date, '%s')", schema.Record.Data, e.Field, format), nil

	case ExprQualified:
		if resolve == nil {
			return "", &JoinNotFoundError{Collection: e.Collection}
		}
		joinAlias, ok := resolve(e.Collection)
		if !ok {
			return "", &JoinNotFoundError{Collection: e.Collection}
		}
		return fmt.Sprintf("%s.%s->>'%s'", joinAlias, schema.Record.Data, e.Field), nil

	default:
		return fmt.Sprintf("%s.%s->>'%s'", tableAlias, schema.Record.Data, e.Field), nil
	}
}

// Alias returns the result-column alias for this expression.
func (e FieldExpr) Alias() string {
	return DeriveAlias(e.Raw)
}

// DeriveAlias turns an arbitrary field-expression string into the alias used
// as its result-row key: lowercase, fold each of ( ) . to an underscore, then
// strip trailing underscores. The rule is total and deterministic, so
// "Month(Date)" and "month(date)" both become "month_date"; callers are
// expected to keep field names lowercase-unique.
func DeriveAlias(raw string) string {
	alias := aliasReplacer.Replace(strings.ToLower(raw))
	return strings.TrimRight(alias, "_")
}
