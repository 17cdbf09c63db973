// Copyright (c) 2026 Kumiko. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package record

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/taibuivan/kumiko/internal/core/collection"
	"github.com/taibuivan/kumiko/internal/platform/apperr"
)

// # Validation Modes

// Mode selects which document rules apply during validation.
type Mode string

const (
	// ModeCreate validates a full document: required fields must be present,
	// defaults fill absent keys, and unknown keys are rejected.
	ModeCreate Mode = "create"

	// ModeUpdate validates a partial document: only provided keys are
	// checked, defaults never apply, and unknown keys pass through.
	ModeUpdate Mode = "update"
)

// # Document Validation

/*
ValidateDocument checks a candidate document against a collection's field
definitions and produces the normalized form that gets persisted.

Description: Every field is checked; errors accumulate instead of
short-circuiting so the client can fix a whole document in one round trip.
Uniqueness is declared on fields but enforced by the storage layer, not here.

Parameters:
  - fields: []collection.Field (The owning collection's schema)
  - document: map[string]any (Candidate document keyed by field slug)
  - mode: Mode (ModeCreate or ModeUpdate)

Returns:
  - map[string]any: Normalized document (nil when errors exist)
  - []apperr.FieldError: Per-field failures, empty on success
*/
func ValidateDocument(fields []collection.Field, document map[string]any, mode Mode) (map[string]any, []apperr.FieldError) {
	known := make(map[string]bool, len(fields))
	for _, field := range fields {
		known[field.Slug] = true
	}

	var failures []apperr.FieldError
	normalized := make(map[string]any, len(document))

	// Unknown keys: rejected on create, passed through untouched on update.
	for key := range document {
		if known[key] {
			continue
		}
		if mode == ModeCreate {
			failures = append(failures, apperr.FieldError{
				Field:   key,
				Message: "Unknown field",
			})
			continue
		}
		normalized[key] = document[key]
	}

	for _, field := range fields {
		value, present := document[field.Slug]

		if !present {
			if mode != ModeCreate {
				continue
			}
			if field.Default != nil {
				normalized[field.Slug] = field.Default
				continue
			}
			if field.IsRequired {
				failures = append(failures, apperr.FieldError{
					Field:   field.Slug,
					Message: "This field is required",
				})
			}
			continue
		}

		// Explicit null clears an optional field and fails a required one.
		if value == nil {
			if field.IsRequired {
				failures = append(failures, apperr.FieldError{
					Field:   field.Slug,
					Message: "This field is required",
				})
				continue
			}
			normalized[field.Slug] = nil
			continue
		}

		coerced, message := coerceValue(field, value)
		if message != "" {
			failures = append(failures, apperr.FieldError{
				Field:   field.Slug,
				Message: message,
			})
			continue
		}
		normalized[field.Slug] = coerced
	}

	if len(failures) > 0 {
		return nil, failures
	}
	return normalized, nil
}

// # Per-Type Coercion

// coerceValue validates a present, non-null value against its field
// definition. It returns the normalized value, or a client-facing message
// when the value does not fit.
func coerceValue(field collection.Field, value any) (any, string) {
	switch field.Type {
	case collection.TypeText, collection.TypeTextarea:
		return coerceText(field.Options, value)
	case collection.TypeNumber:
		return coerceNumber(field.Options, value)
	case collection.TypeBoolean:
		return coerceBoolean(value)
	case collection.TypeDate:
		return coerceDate(value)
	case collection.TypeDatetime:
		return coerceDatetime(value)
	case collection.TypeSelect:
		return coerceSelect(field.Options, value)
	case collection.TypeMultiSelect:
		return coerceMultiSelect(field.Options, value)
	case collection.TypeRelation:
		return coerceRelation(value)
	case collection.TypeJSON:
		return value, ""
	}
	return nil, fmt.Sprintf("Unsupported field type %q", field.Type)
}

func coerceText(options *collection.FieldOptions, value any) (any, string) {
	text, ok := value.(string)
	if !ok {
		return nil, "Must be a string"
	}

	if options != nil {
		length := utf8.RuneCountInString(text)
		if options.MinLength != nil && length < *options.MinLength {
			return nil, fmt.Sprintf("Minimum %d characters", *options.MinLength)
		}
		if options.MaxLength != nil && length > *options.MaxLength {
			return nil, fmt.Sprintf("Maximum %d characters", *options.MaxLength)
		}
		if options.Pattern != nil {
			matcher, err := regexp.Compile(*options.Pattern)
			if err != nil {
				return nil, "Field pattern in the schema is not a valid regular expression"
			}
			if !matcher.MatchString(text) {
				return nil, fmt.Sprintf("Must match pattern %s", *options.Pattern)
			}
		}
	}

	return text, ""
}

func coerceNumber(options *collection.FieldOptions, value any) (any, string) {

	// Decoded JSON numbers arrive as float64; json.Number and numeric
	// strings are accepted for callers that preserve precision.
	var parsed float64
	switch typed := value.(type) {
	case float64:
		parsed = typed
	case float32:
		parsed = float64(typed)
	case int:
		parsed = float64(typed)
	case int64:
		parsed = float64(typed)
	case json.Number:
		converted, err := typed.Float64()
		if err != nil {
			return nil, "Must be a number"
		}
		parsed = converted
	case string:
		converted, err := strconv.ParseFloat(strings.TrimSpace(typed), 64)
		if err != nil {
			return nil, "Must be a number"
		}
		parsed = converted
	default:
		return nil, "Must be a number"
	}

	if math.IsNaN(parsed) || math.IsInf(parsed, 0) {
		return nil, "Must be a finite number"
	}

	if options != nil {
		if options.Min != nil && parsed < *options.Min {
			return nil, fmt.Sprintf("Must be at least %v", *options.Min)
		}
		if options.Max != nil && parsed > *options.Max {
			return nil, fmt.Sprintf("Must be at most %v", *options.Max)
		}
		if options.Precision != nil && decimalPlaces(parsed) > *options.Precision {
			return nil, fmt.Sprintf("Maximum %d decimal places", *options.Precision)
		}
	}

	return parsed, ""
}

// decimalPlaces counts the digits after the decimal point in the shortest
// round-trip representation of value.
func decimalPlaces(value float64) int {
	formatted := strconv.FormatFloat(value, 'f', -1, 64)
	_, fraction, found := strings.Cut(formatted, ".")
	if !found {
		return 0
	}
	return len(fraction)
}

func coerceBoolean(value any) (any, string) {
	switch typed := value.(type) {
	case bool:
		return typed, ""
	case string:
		switch strings.ToLower(typed) {
		case "true":
			return true, ""
		case "false":
			return false, ""
		}
	}
	return nil, "Must be a boolean"
}

func coerceDate(value any) (any, string) {
	text, ok := value.(string)
	if !ok {
		return nil, "Must be a date string (YYYY-MM-DD)"
	}
	if _, err := time.Parse(time.DateOnly, text); err != nil {
		return nil, "Must be a date string (YYYY-MM-DD)"
	}
	return text, ""
}

func coerceDatetime(value any) (any, string) {
	text, ok := value.(string)
	if !ok {
		return nil, "Must be an RFC 3339 datetime string"
	}

	// A bare date is accepted and interpreted as midnight UTC downstream.
	if _, err := time.Parse(time.RFC3339, text); err != nil {
		if _, dateErr := time.Parse(time.DateOnly, text); dateErr != nil {
			return nil, "Must be an RFC 3339 datetime string"
		}
	}
	return text, ""
}

func coerceSelect(options *collection.FieldOptions, value any) (any, string) {
	text, ok := value.(string)
	if !ok {
		return nil, "Must be a string"
	}
	if options == nil || !containsChoice(options.Choices, text) {
		return nil, choicesMessage(options)
	}
	return text, ""
}

func coerceMultiSelect(options *collection.FieldOptions, value any) (any, string) {
	items, message := stringSlice(value)
	if message != "" {
		return nil, message
	}
	for _, item := range items {
		if options == nil || !containsChoice(options.Choices, item) {
			return nil, choicesMessage(options)
		}
	}
	return items, ""
}

// stringSlice accepts both a decoded JSON array ([]any) and a typed
// []string from in-process callers.
func stringSlice(value any) ([]string, string) {
	switch typed := value.(type) {
	case []string:
		return typed, ""
	case []any:
		items := make([]string, 0, len(typed))
		for _, element := range typed {
			text, ok := element.(string)
			if !ok {
				return nil, "Must be a list of strings"
			}
			items = append(items, text)
		}
		return items, ""
	}
	return nil, "Must be a list of strings"
}

func containsChoice(choices []string, candidate string) bool {
	for _, choice := range choices {
		if choice == candidate {
			return true
		}
	}
	return false
}

func choicesMessage(options *collection.FieldOptions) string {
	if options == nil || len(options.Choices) == 0 {
		return "Field has no configured choices"
	}
	return fmt.Sprintf("Must be one of: %s", strings.Join(options.Choices, ", "))
}

func coerceRelation(value any) (any, string) {
	text, ok := value.(string)
	if !ok {
		return nil, "Must be a record id"
	}
	if _, err := uuid.Parse(text); err != nil {
		return nil, "Must be a valid UUID"
	}
	return text, ""
}
