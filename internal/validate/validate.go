// Package validate holds the single grammar shared by keys, values and
// search predicates: one or more lowercase ASCII letters, digits or hyphens.
package validate

import (
	"regexp"

	"github.com/TykTechnologies/kvrouter/internal/errors"
)

var charset = regexp.MustCompile(`^[a-z0-9-]+$`)

// IsValid reports whether s is non-empty and made only of [a-z0-9-].
func IsValid(s string) bool {
	return charset.MatchString(s)
}

// Check returns an *errors.InvalidInputError naming field when s is not
// valid, nil otherwise.
func Check(field, s string) error {
	if IsValid(s) {
		return nil
	}
	return &errors.InvalidInputError{Field: field, Value: s}
}
