// Copyright (c) 2026 Kumiko. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package engine

import (
	"errors"
	"fmt"
)

// ErrInOperatorRequiresArray is returned when an 'in' filter receives a value
// that is not a non-empty list. Empty lists are refused as well: Postgres has
// no valid rendering for IN ().
var ErrInOperatorRequiresArray = errors.New("the 'in' operator requires a non-empty array value")

// InvalidFieldError reports an identifier that failed the sanitizer grammar.
//
// The offending input is carried verbatim in Name so callers can point the
// user at it; it is never interpolated into SQL.
type InvalidFieldError struct {
	Name string
}

func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("invalid field name: %q", e.Name)
}

// UnknownFunctionError reports a function name outside the supported set.
type UnknownFunctionError struct {
	Name string
}

func (e *UnknownFunctionError) Error() string {
	return fmt.Sprintf("unknown function: %q", e.Name)
}

// UnknownOperatorError reports a filter operator outside the supported set.
type UnknownOperatorError struct {
	Name string
}

func (e *UnknownOperatorError) Error() string {
	return fmt.Sprintf("unknown filter operator: %q", e.Name)
}

// JoinNotFoundError reports a joined-collection slug that could not be
// resolved, either because the build context has no id for it or because a
// qualified field expression references a collection that was never joined.
type JoinNotFoundError struct {
	Collection string
}

func (e *JoinNotFoundError) Error() string {
	return fmt.Sprintf("joined collection not found: %q", e.Collection)
}

// FieldName extracts the identifier an engine error complains about, if any.
// It is used by adapters to populate per-field error details.
func FieldName(err error) string {
	var invalidField *InvalidFieldError
	if errors.As(err, &invalidField) {
		return invalidField.Name
	}

	var unknownFunction *UnknownFunctionError
	if errors.As(err, &unknownFunction) {
		return unknownFunction.Name
	}

	var unknownOperator *UnknownOperatorError
	if errors.As(err, &unknownOperator) {
		return unknownOperator.Name
	}

	var joinNotFound *JoinNotFoundError
	if errors.As(err, &joinNotFound) {
		return joinNotFound.Collection
	}

	return ""
}

// IsBuildError reports whether err is one of the typed errors raised while
// parsing or building a query (as opposed to an execution failure).
func IsBuildError(err error) bool {
	var invalidField *InvalidFieldError
	var unknownFunction *UnknownFunctionError
	var unknownOperator *UnknownOperatorError

	return errors.As(err, &invalidField) ||
		errors.As(err, &unknownFunction) ||
		errors.As(err, &unknownOperator) ||
		errors.Is(err, ErrInOperatorRequiresArray)
}
