// Package matchers provides reusable predicate constructors for expected
// shapes evaluated in matcher func-mode, and the default placeholder
// predicate.
package matchers

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/subsume-dev/subsume/ir"
)

// Present accepts any candidate that exists. It is the default predicate
// for placeholder tokens.
func Present() ir.Predicate {
	return func(candidate *ir.Node, env ir.Env) bool {
		return candidate != nil
	}
}

// TypeIs accepts candidates of the given variant type.
func TypeIs(t ir.Type) ir.Predicate {
	return func(candidate *ir.Node, env ir.Env) bool {
		return candidate != nil && candidate.Type == t
	}
}

// And accepts when every predicate accepts.
func And(ps ...ir.Predicate) ir.Predicate {
	return func(candidate *ir.Node, env ir.Env) bool {
		for _, p := range ps {
			if !p(candidate, env) {
				return false
			}
		}
		return true
	}
}

// Or accepts when any predicate accepts.
func Or(ps ...ir.Predicate) ir.Predicate {
	return func(candidate *ir.Node, env ir.Env) bool {
		for _, p := range ps {
			if p(candidate, env) {
				return true
			}
		}
		return false
	}
}

// Not inverts a predicate.
func Not(p ir.Predicate) ir.Predicate {
	return func(candidate *ir.Node, env ir.Env) bool {
		return !p(candidate, env)
	}
}

// Glob accepts string candidates matching a filepath.Match pattern.
func Glob(pattern string) ir.Predicate {
	return func(candidate *ir.Node, env ir.Env) bool {
		if candidate == nil || candidate.Type != ir.StringType {
			return false
		}
		m, err := filepath.Match(pattern, candidate.String)
		if err != nil {
			return false
		}
		return m
	}
}

// HasPrefix accepts string candidates with the given prefix.
func HasPrefix(prefix string) ir.Predicate {
	return func(candidate *ir.Node, env ir.Env) bool {
		return candidate != nil &&
			candidate.Type == ir.StringType &&
			strings.HasPrefix(candidate.String, prefix)
	}
}

// Contains accepts string candidates containing the given substring.
func Contains(sub string) ir.Predicate {
	return func(candidate *ir.Node, env ir.Env) bool {
		return candidate != nil &&
			candidate.Type == ir.StringType &&
			strings.Contains(candidate.String, sub)
	}
}

// Regex accepts string candidates matching an RE2 pattern.
func Regex(pattern string) (ir.Predicate, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	return func(candidate *ir.Node, env ir.Env) bool {
		return candidate != nil &&
			candidate.Type == ir.StringType &&
			re.MatchString(candidate.String)
	}, nil
}
