// Copyright (c) 2026 Kumiko. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package engine

import "regexp"

// identifierPattern is the full grammar for a bare SQL-position identifier:
// one ASCII letter or underscore, then ASCII letters, digits, underscores.
// No Unicode folding, no trimming; the empty string does not match.
var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

/*
SanitizeIdentifier returns name unchanged when it matches the identifier
grammar, or an [InvalidFieldError] naming the offending input.

Every downstream emitter treats the returned string as literal SQL text.
This function is the single point where that is proven safe; identifiers are
never quoted, so nothing outside this grammar may ever reach a query.

Parameters:
  - name: Candidate identifier (field slug, collection slug, alias)

Returns:
  - string: The identifier, byte-for-byte unchanged
  - error: *InvalidFieldError on any mismatch
*/
func SanitizeIdentifier(name string) (string, error) {
	if !identifierPattern.MatchString(name) {
		return "", &InvalidFieldError{Name: name}
	}
	return name, nil
}
