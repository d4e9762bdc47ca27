package search

import (
	"net/url"

	"github.com/sirupsen/logrus"

	"github.com/TykTechnologies/kvrouter/internal/errors"
	"github.com/TykTechnologies/kvrouter/internal/validate"
)

const (
	paramPrefix = "prefix"
	paramSuffix = "suffix"
)

// Query holds the usable predicates of a search. A predicate is active
// only when its Has flag is set.
type Query struct {
	Prefix    string
	Suffix    string
	HasPrefix bool
	HasSuffix bool
}

// ParseQuery extracts the prefix and suffix predicates from query
// parameters. A parameter that is present but invalid is dropped and
// reported in warnings. It fails with errors.ErrNoSearchParams when
// neither parameter is present, and with an error wrapping
// errors.ErrNoUsablePredicate when every present parameter was dropped.
// Dropped parameters are logged to log at warn level.
func ParseQuery(values url.Values, log *logrus.Entry) (Query, []string, error) {
	_, prefixSet := values[paramPrefix]
	_, suffixSet := values[paramSuffix]
	if !prefixSet && !suffixSet {
		return Query{}, nil, errors.ErrNoSearchParams
	}

	var (
		q        Query
		warnings []string
	)

	if prefixSet {
		q.Prefix, q.HasPrefix, warnings = predicate(log, values, paramPrefix, warnings)
	}
	if suffixSet {
		q.Suffix, q.HasSuffix, warnings = predicate(log, values, paramSuffix, warnings)
	}

	if !q.HasPrefix && !q.HasSuffix {
		return Query{}, warnings, &errors.PredicateError{Warnings: warnings}
	}
	return q, warnings, nil
}

func predicate(log *logrus.Entry, values url.Values, name string, warnings []string) (string, bool, []string) {
	v := values.Get(name)
	if err := validate.Check(name, v); err != nil {
		log.Warningf("invalid input %q", v)
		return "", false, append(warnings, "invalid "+name)
	}
	return v, true, warnings
}
