package subsume

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/google/go-cmp/cmp"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// AssertionFuncs are the injectable leaf primitives the engine delegates
// final success and failure decisions to. Equal must return a non-nil error
// when actual and expected are not equal; Fail must always return a non-nil
// error carrying msg. Neither may panic or otherwise abort: failures travel
// back to the entry point as results, where the requested mode decides
// between returning an error and returning false.
type AssertionFuncs struct {
	Fail  func(msg string) error
	Equal func(actual, expected any, msg string) error
}

func (f *AssertionFuncs) check() error {
	if f.Fail == nil {
		return fmt.Errorf("%w: nil Fail primitive", ErrConfig)
	}
	if f.Equal == nil {
		return fmt.Errorf("%w: nil Equal primitive", ErrConfig)
	}
	return nil
}

// builtinFuncs is the minimal fallback pair used when no assertion funcs
// have been registered or supplied: strict same-type equality, verbatim
// failure.
func builtinFuncs() *AssertionFuncs {
	return &AssertionFuncs{
		Fail:  builtinFail,
		Equal: builtinEqual,
	}
}

func builtinFail(msg string) error {
	return errors.New(msg)
}

func builtinEqual(actual, expected any, msg string) error {
	if actual == nil && expected == nil {
		return nil
	}
	at, et := reflect.TypeOf(actual), reflect.TypeOf(expected)
	if at != et {
		return fmt.Errorf("%s: type %T != %T", msg, actual, expected)
	}
	if at != nil && at.Kind() == reflect.Func {
		if reflect.ValueOf(actual).Pointer() == reflect.ValueOf(expected).Pointer() {
			return nil
		}
		return fmt.Errorf("%s: distinct funcs", msg)
	}
	if cmp.Equal(actual, expected) {
		return nil
	}
	if detail := equalDetail(actual, expected); detail != "" {
		return fmt.Errorf("%s:\n%s", msg, detail)
	}
	return fmt.Errorf("%s: %v != %v", msg, actual, expected)
}

func equalDetail(actual, expected any) string {
	as, aok := actual.(string)
	es, eok := expected.(string)
	if aok && eok && (strings.Contains(as, "\n") || strings.Contains(es, "\n")) {
		dmp := diffmatchpatch.New()
		diffs := dmp.DiffMain(es, as, false)
		return dmp.DiffPrettyText(diffs)
	}
	switch actual.(type) {
	case map[string]any, []any:
		return cmp.Diff(expected, actual)
	}
	return ""
}

// TestingT is the subset of *testing.T the assertion helpers need.
type TestingT interface {
	Helper()
	Errorf(format string, args ...any)
}

// AssertMatch runs an assert-mode inclusion match and reports any failure
// through t. It returns true when the match succeeded.
func AssertMatch(t TestingT, actual, expected any, opts ...Option) bool {
	t.Helper()
	_, err := Match(actual, expected, append(opts, WithMode(ModeAssert))...)
	if err != nil {
		t.Errorf("%v", err)
		return false
	}
	return true
}

// AssertMatchArray is AssertMatch for array inclusion.
func AssertMatchArray(t TestingT, actual, expected any, opts ...Option) bool {
	t.Helper()
	_, err := MatchArray(actual, expected, append(opts, WithMode(ModeAssert))...)
	if err != nil {
		t.Errorf("%v", err)
		return false
	}
	return true
}
