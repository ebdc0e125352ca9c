package subsume

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetDefaults() {
	defaults.Lock()
	defaults.mode = ModeCheck
	defaults.funcs = nil
	defaults.Unlock()
}

func TestSetDefaultModeValidation(t *testing.T) {
	t.Cleanup(resetDefaults)

	err := SetDefaultMode("bogus", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfig)

	err = SetDefaultMode(ModeAssert, &AssertionFuncs{Fail: builtinFail})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfig)

	err = SetDefaultMode(ModeAssert, &AssertionFuncs{Equal: builtinEqual})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfig)

	require.NoError(t, SetDefaultMode(ModeAssert, nil))
}

func TestDefaultModeApplies(t *testing.T) {
	t.Cleanup(resetDefaults)
	require.NoError(t, SetDefaultMode(ModeAssert, nil))

	_, err := Match(map[string]any{"a": 1}, map[string]any{"a": 2})
	require.Error(t, err, "default assert mode surfaces the mismatch")

	// per-call override wins over the process default
	ok, err := Match(map[string]any{"a": 1}, map[string]any{"a": 2}, WithMode(ModeCheck))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestInvalidPerCallOptions(t *testing.T) {
	_, err := Match(1, 1, WithMode("nope"))
	require.ErrorIs(t, err, ErrConfig)

	_, err = Match(1, 1, WithFuncMode("nope"))
	require.ErrorIs(t, err, ErrConfig)

	_, err = Match(1, 1, WithAssertionFuncs(&AssertionFuncs{Fail: builtinFail}))
	require.ErrorIs(t, err, ErrConfig)
}

func TestConfigErrorsIgnoreCheckMode(t *testing.T) {
	// configuration errors are never swallowed, even in check mode
	_, err := Match(1, 1, WithMode(ModeCheck), WithFuncMode("nope"))
	require.Error(t, err)

	_, err = MatchArray([]any{1}, "not an array", WithMode(ModeCheck))
	require.ErrorIs(t, err, ErrConfig)
}

func TestMatchArrayActualNotArray(t *testing.T) {
	ok, err := MatchArray("scalar", []any{1})
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = MatchArray("scalar", []any{1}, WithMode(ModeAssert))
	require.Error(t, err)
	assert.True(t, IsMismatch(err))
}

func TestInjectedAssertionFuncs(t *testing.T) {
	caseless := &AssertionFuncs{
		Fail: builtinFail,
		Equal: func(actual, expected any, msg string) error {
			as, aok := actual.(string)
			es, eok := expected.(string)
			if aok && eok && strings.EqualFold(as, es) {
				return nil
			}
			return builtinEqual(actual, expected, msg)
		},
	}

	ok, err := Match(map[string]any{"a": "HELLO"}, map[string]any{"a": "hello"},
		WithAssertionFuncs(caseless))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Match(map[string]any{"a": "HELLO"}, map[string]any{"a": "hello"})
	require.NoError(t, err)
	assert.False(t, ok, "builtin equality is strict")
}

func TestArrayExpectedDefersToEqual(t *testing.T) {
	// a non-array actual against an array shape is a leaf comparison and
	// goes through the injected primitive like any other
	var sawExpected any
	funcs := &AssertionFuncs{
		Fail: builtinFail,
		Equal: func(actual, expected any, msg string) error {
			sawExpected = expected
			return nil
		},
	}
	ok, err := Match(map[string]any{"a": "scalar"},
		map[string]any{"a": []any{1}},
		WithAssertionFuncs(funcs))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []any{int64(1)}, sawExpected)

	// builtin equality still rejects the type mismatch
	ok, err = Match(map[string]any{"a": "scalar"}, map[string]any{"a": []any{1}})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFailPrimitiveReceivesPath(t *testing.T) {
	var got []string
	funcs := &AssertionFuncs{
		Fail: func(msg string) error {
			got = append(got, msg)
			return errors.New(msg)
		},
		Equal: builtinEqual,
	}
	_, err := Match(map[string]any{"a": map[string]any{}},
		map[string]any{"a": map[string]any{"b": 1}},
		WithAssertionFuncs(funcs), WithMode(ModeAssert))
	require.Error(t, err)
	require.Len(t, got, 1)
	assert.Contains(t, got[0], "$.a")
}

func TestDefaultFuncsRegistration(t *testing.T) {
	t.Cleanup(resetDefaults)
	calls := 0
	funcs := &AssertionFuncs{
		Fail: builtinFail,
		Equal: func(actual, expected any, msg string) error {
			calls++
			return builtinEqual(actual, expected, msg)
		},
	}
	require.NoError(t, SetDefaultMode(ModeCheck, funcs))

	ok, err := Match(map[string]any{"a": 1}, map[string]any{"a": 1})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, calls, "registered default Equal is the leaf primitive")
}
