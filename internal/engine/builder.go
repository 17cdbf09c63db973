// Copyright (c) 2026 Kumiko. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package engine compiles composition query specs into parameterized PostgreSQL.

It is the core of Kumiko: a small compiler whose input is a user-authored
[QuerySpec] over schema-less record collections and whose output is a single
SQL statement plus a bound value vector.

Architecture:

  - Sanitizer: Proves every identifier safe for unquoted SQL position.
  - Field expressions: A closed union (simple | function | qualified) with
    total parsing, total emission, and deterministic alias derivation.
  - Builder: Walks the spec clause by clause, numbering parameters in
    emission order.
  - Executor: Runs the built statement on pgx and returns rows as ordered
    dictionaries keyed by the derived aliases.

The builder is pure: no I/O, no shared state, one stack-owned state struct
per call. All I/O lives in the executor and in the adapters that feed the
build context.
*/
package engine

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/taibuivan/kumiko/internal/platform/database/schema"
)

// sourceAlias is the fixed table alias of the source-collection rows.
const sourceAlias = "r"

// joinAliasPrefix namespaces join table aliases away from the source alias.
const joinAliasPrefix = "j_"

// aggregateFunctions whitelists aggregate names and their SQL rendering.
// The function name is never concatenated from user input.
var aggregateFunctions = map[string]string{
	"count": "COUNT",
	"sum":   "SUM",
	"avg":   "AVG",
	"min":   "MIN",
	"max":   "MAX",
}

// comparisonOperators whitelists the numeric comparison renderings.
var comparisonOperators = map[string]string{
	"gt":  ">",
	"gte": ">=",
	"lt":  "<",
	"lte": "<=",
}

// joinPlan is one validated join, ready to render.
type joinPlan struct {
	alias        string
	collectionID string
	joinType     string
	leftField    string
	rightField   string
}

// builder holds the per-build mutable state: the value vector and the join
// resolution tables. One instance per Build call, never reused.
type builder struct {
	spec        QuerySpec
	bctx        BuildContext
	args        []any
	plans       []joinPlan
	joinAliases map[string]string
}

/*
Build compiles a [QuerySpec] against a [BuildContext] into a [BuiltQuery].

Clauses are emitted in the order SELECT, FROM, JOINS, WHERE, GROUP BY,
ORDER BY, LIMIT, joined by newlines with empty clauses skipped. Bound values
are appended in that same emission order; the i-th append becomes $i. Because
joins bind their workspace/collection ids while rendering, join parameters
precede the WHERE tenancy parameters whenever joins exist — callers and tests
rely on that ordering.

Parameters:
  - spec: The composition's stored query configuration
  - bctx: Per-request ids, join map, and parameter bag

Returns:
  - *BuiltQuery: SQL plus value vector, placeholder count == len(Values)
  - error: One of the typed engine errors; never a partially built query
*/
func Build(spec QuerySpec, bctx BuildContext) (*BuiltQuery, error) {
	b := &builder{
		spec:        spec,
		bctx:        bctx,
		joinAliases: make(map[string]string, len(spec.Joins)),
	}

	// Joins are planned before any clause renders so SELECT can resolve
	// qualified expressions, but their parameters bind at render time.
	if err := b.planJoins(); err != nil {
		return nil, err
	}

	selectClause, err := b.buildSelect()
	if err != nil {
		return nil, err
	}

	fromClause := fmt.Sprintf("FROM %s %s", schema.Record.Table, sourceAlias)

	joinClause := b.buildJoins()

	whereClause, err := b.buildWhere()
	if err != nil {
		return nil, err
	}

	groupByClause, err := b.buildGroupBy()
	if err != nil {
		return nil, err
	}

	orderByClause, err := b.buildOrderBy()
	if err != nil {
		return nil, err
	}

	limitClause := b.buildLimit()

	var clauses []string
	for _, clause := range []string{
		selectClause, fromClause, joinClause, whereClause,
		groupByClause, orderByClause, limitClause,
	} {
		if clause != "" {
			clauses = append(clauses, clause)
		}
	}

	return &BuiltQuery{SQL: strings.Join(clauses, "\n"), Values: b.args}, nil
}

// nextArg appends a bound value and returns its 1-based placeholder index.
func (b *builder) nextArg(value any) int {
	b.args = append(b.args, value)
	return len(b.args)
}

// resolveJoinAlias maps a joined-collection slug to its table alias.
func (b *builder) resolveJoinAlias(collection string) (string, bool) {
	alias, ok := b.joinAliases[collection]
	return alias, ok
}

// # Join planning

// planJoins validates every join entry and records its table alias. Each
// joined collection must resolve to an id through the build context, and the
// slug plus both ON fields must pass the sanitizer.
func (b *builder) planJoins() error {
	for _, join := range b.spec.Joins {
		collectionID, ok := b.bctx.JoinCollections[join.Collection]
		if !ok {
			return &JoinNotFoundError{Collection: join.Collection}
		}

		slugIdentifier, err := SanitizeIdentifier(strings.ToLower(join.Collection))
		if err != nil {
			return err
		}

		leftField, err := SanitizeIdentifier(join.On.Left)
		if err != nil {
			return err
		}

		rightField, err := SanitizeIdentifier(join.On.Right)
		if err != nil {
			return err
		}

		alias := joinAliasPrefix + slugIdentifier
		b.joinAliases[join.Collection] = alias
		b.plans = append(b.plans, joinPlan{
			alias:        alias,
			collectionID: collectionID,
			joinType:     normalizeJoinType(join.Type),
			leftField:    leftField,
			rightField:   rightField,
		})
	}

	return nil
}

// normalizeJoinType renders the join type uppercased against a closed set.
// Unrecognized types fall back to INNER so the builder stays total.
func normalizeJoinType(joinType string) string {
	switch strings.ToLower(joinType) {
	case "left":
		return "LEFT"
	case "right":
		return "RIGHT"
	default:
		return "INNER"
	}
}

// # Clause emission

// buildSelect synthesizes the projection list: explicit select expressions,
// then groupBy expressions (auto-projected), then aggregations, deduplicated
// by derived alias with the first occurrence winning. When all three sets
// are empty the source row's raw columns are projected instead.
func (b *builder) buildSelect() (string, error) {
	var parts []string
	seen := make(map[string]bool)

	project := func(sqlExpr, alias string) {
		if seen[alias] {
			return
		}
		seen[alias] = true
		parts = append(parts, sqlExpr+" AS "+alias)
	}

	for _, raw := range append(append([]string{}, b.spec.Select...), b.spec.GroupBy...) {
		expr, err := ParseFieldExpr(raw)
		if err != nil {
			return "", err
		}

		sqlExpr, err := expr.SQL(sourceAlias, b.resolveJoinAlias)
		if err != nil {
			return "", err
		}

		project(sqlExpr, expr.Alias())
	}

	for _, aggregation := range b.spec.Aggregations {
		sqlExpr, alias, err := b.buildAggregation(aggregation)
		if err != nil {
			return "", err
		}
		project(sqlExpr, alias)
	}

	if len(parts) == 0 {
		return fmt.Sprintf("SELECT %s.%s, %s.%s, %s.%s, %s.%s",
			sourceAlias, schema.Record.ID,
			sourceAlias, schema.Record.Data,
			sourceAlias, schema.Record.CreatedAt,
			sourceAlias, schema.Record.UpdatedAt,
		), nil
	}

	return "SELECT " + strings.Join(parts, ", "), nil
}

// buildAggregation renders one aggregate column and its sanitized alias.
//
// count(*) is the only form without JSON extraction. count(f) counts text
// extractions, so a JSON null stored as the string "null" still counts; the
// numeric aggregates carry the mandatory ::numeric cast because ->> yields
// text.
func (b *builder) buildAggregation(aggregation Aggregation) (string, string, error) {
	function, ok := aggregateFunctions[strings.ToLower(aggregation.Function)]
	if !ok {
		return "", "", &UnknownFunctionError{Name: aggregation.Function}
	}

	alias, err := SanitizeIdentifier(aggregation.Alias)
	if err != nil {
		return "", "", err
	}

	if function == "COUNT" && aggregation.Field == "*" {
		return "COUNT(*)", alias, nil
	}

	field, err := SanitizeIdentifier(aggregation.Field)
	if err != nil {
		return "", "", err
	}

	if function == "COUNT" {
		return fmt.Sprintf("COUNT(%s.%s->>'%s')", sourceAlias, schema.Record.Data, field), alias, nil
	}

	return fmt.Sprintf("%s((%s.%s->>'%s')::numeric)", function, sourceAlias, schema.Record.Data, field), alias, nil
}

// buildJoins renders the planned joins. Every join re-anchors tenancy: the
// joined rows are constrained to the same workspace and to the joined
// collection id before the JSON key comparison applies.
func (b *builder) buildJoins() string {
	var queryBuilder strings.Builder

	for i, plan := range b.plans {
		if i > 0 {
			queryBuilder.WriteString("\n")
		}

		queryBuilder.WriteString(fmt.Sprintf("%s JOIN %s %s ON %s.%s = $%d AND %s.%s = $%d AND %s.%s->>'%s' = %s.%s->>'%s'",
			plan.joinType, schema.Record.Table, plan.alias,
			plan.alias, schema.Record.WorkspaceID, b.nextArg(b.bctx.WorkspaceID),
			plan.alias, schema.Record.CollectionID, b.nextArg(plan.collectionID),
			sourceAlias, schema.Record.Data, plan.leftField,
			plan.alias, schema.Record.Data, plan.rightField,
		))
	}

	return queryBuilder.String()
}

// buildWhere emits the two unconditional tenancy predicates first, then each
// filter conjoined with AND.
func (b *builder) buildWhere() (string, error) {
	var queryBuilder strings.Builder

	queryBuilder.WriteString(fmt.Sprintf("WHERE %s.%s = $%d",
		sourceAlias, schema.Record.WorkspaceID, b.nextArg(b.bctx.WorkspaceID)))
	queryBuilder.WriteString(fmt.Sprintf(" AND %s.%s = $%d",
		sourceAlias, schema.Record.CollectionID, b.nextArg(b.bctx.CollectionID)))

	for _, filter := range b.spec.Filters {
		fragment, ok, err := b.buildFilter(filter)
		if err != nil {
			return "", err
		}
		if !ok {
			continue
		}
		queryBuilder.WriteString(" AND ")
		queryBuilder.WriteString(fragment)
	}

	return queryBuilder.String(), nil
}

/*
buildFilter renders one filter condition.

A filter with Param set resolves its value from the context's parameter bag;
when the bag has no such key the filter is dropped from the query entirely
(ok=false, no error). That makes stored filters optional per request, and it
means absent parameters widen the result set rather than narrowing it — see
the operator table in the package tests for the exact renderings.

The drop check runs before the field sanitizer so a dropped filter behaves
exactly as if it were omitted from the spec.
*/
func (b *builder) buildFilter(filter Filter) (string, bool, error) {
	value := filter.Value
	if filter.Param != "" {
		bagValue, ok := b.bctx.Params[filter.Param]
		if !ok {
			return "", false, nil
		}
		value = bagValue
	}

	field, err := SanitizeIdentifier(filter.Field)
	if err != nil {
		return "", false, err
	}

	column := fmt.Sprintf("%s.%s->>'%s'", sourceAlias, schema.Record.Data, field)
	operator := strings.ToLower(filter.Operator)

	switch operator {
	case "eq":
		return fmt.Sprintf("%s = $%d", column, b.nextArg(coerceString(value))), true, nil

	case "neq":
		return fmt.Sprintf("%s != $%d", column, b.nextArg(coerceString(value))), true, nil

	case "gt", "gte", "lt", "lte":
		return fmt.Sprintf("(%s)::numeric %s $%d",
			column, comparisonOperators[operator], b.nextArg(coerceNumber(value))), true, nil

	case "contains":
		return fmt.Sprintf("%s ILIKE $%d",
			column, b.nextArg("%"+fmt.Sprint(value)+"%")), true, nil

	case "in":
		elements, err := coerceList(value)
		if err != nil {
			return "", false, err
		}
		placeholders := make([]string, len(elements))
		for i, element := range elements {
			placeholders[i] = "$" + strconv.Itoa(b.nextArg(coerceString(element)))
		}
		return fmt.Sprintf("%s IN (%s)", column, strings.Join(placeholders, ", ")), true, nil

	default:
		return "", false, &UnknownOperatorError{Name: filter.Operator}
	}
}

// buildGroupBy emits each groupBy entry as a raw SQL expression in input
// order. Aliases never appear here; Postgres resolves the grouped
// expressions structurally.
func (b *builder) buildGroupBy() (string, error) {
	if len(b.spec.GroupBy) == 0 {
		return "", nil
	}

	parts := make([]string, 0, len(b.spec.GroupBy))
	for _, raw := range b.spec.GroupBy {
		expr, err := ParseFieldExpr(raw)
		if err != nil {
			return "", err
		}

		sqlExpr, err := expr.SQL(sourceAlias, b.resolveJoinAlias)
		if err != nil {
			return "", err
		}

		parts = append(parts, sqlExpr)
	}

	return "GROUP BY " + strings.Join(parts, ", "), nil
}

// buildOrderBy resolves each sort entry and renders it with its direction.
func (b *builder) buildOrderBy() (string, error) {
	if len(b.spec.Sort) == 0 {
		return "", nil
	}

	parts := make([]string, 0, len(b.spec.Sort))
	for _, sort := range b.spec.Sort {
		target, err := b.resolveSortTarget(sort.Field)
		if err != nil {
			return "", err
		}

		parts = append(parts, target+" "+normalizeDirection(sort.Direction))
	}

	return "ORDER BY " + strings.Join(parts, ", "), nil
}

// resolveSortTarget picks the ORDER BY reference for a sort field by the
// first matching rule: a groupBy entry sorts by its derived alias, an
// aggregation alias sorts by that alias verbatim, and anything else is
// parsed as a fresh expression and emitted as raw SQL.
func (b *builder) resolveSortTarget(field string) (string, error) {
	for _, groupBy := range b.spec.GroupBy {
		if groupBy == field {
			return DeriveAlias(field), nil
		}
	}

	// Aggregation aliases were already sanitized during SELECT synthesis.
	for _, aggregation := range b.spec.Aggregations {
		if aggregation.Alias == field {
			return aggregation.Alias, nil
		}
	}

	expr, err := ParseFieldExpr(field)
	if err != nil {
		return "", err
	}

	return expr.SQL(sourceAlias, b.resolveJoinAlias)
}

// normalizeDirection whitelists the sort direction; only desc (any case)
// renders as DESC.
func normalizeDirection(direction string) string {
	if strings.EqualFold(direction, "desc") {
		return "DESC"
	}
	return "ASC"
}

// buildLimit binds the row cap when the spec sets a positive limit.
func (b *builder) buildLimit() string {
	if b.spec.Limit <= 0 {
		return ""
	}
	return fmt.Sprintf("LIMIT $%d", b.nextArg(b.spec.Limit))
}

// # Value coercion

// coerceString renders a filter value the way the text extraction column
// compares: everything becomes its string form except nil, which binds as
// SQL NULL.
func coerceString(value any) any {
	if value == nil {
		return nil
	}
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprint(value)
}

// coerceNumber passes numeric values through unchanged and parses numeric
// strings to float64. Values that cannot be read as numbers travel to the
// binder untouched; Postgres reports the cast failure at execution time.
func coerceNumber(value any) any {
	switch v := value.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return v
	case string:
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			return parsed
		}
		return v
	default:
		return value
	}
}

// coerceList accepts the two list shapes filters arrive in (JSON-decoded
// []any and Go-authored []string). Anything else, including an empty list,
// fails with ErrInOperatorRequiresArray.
func coerceList(value any) ([]any, error) {
	switch v := value.(type) {
	case []any:
		if len(v) == 0 {
			return nil, ErrInOperatorRequiresArray
		}
		return v, nil
	case []string:
		if len(v) == 0 {
			return nil, ErrInOperatorRequiresArray
		}
		elements := make([]any, len(v))
		for i, s := range v {
			elements[i] = s
		}
		return elements, nil
	default:
		return nil, ErrInOperatorRequiresArray
	}
}
