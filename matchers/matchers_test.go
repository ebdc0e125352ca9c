package matchers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subsume-dev/subsume/ir"
)

type fakeEnv struct {
	path     string
	resolved map[string]*ir.Node
}

func (e *fakeEnv) Path() string { return e.path }
func (e *fakeEnv) Resolved(token string) (*ir.Node, bool) {
	n, ok := e.resolved[token]
	return n, ok
}

var env = &fakeEnv{path: "$"}

func TestPresent(t *testing.T) {
	p := Present()
	assert.True(t, p(ir.FromString(""), env))
	assert.True(t, p(ir.Null(), env))
	assert.False(t, p(nil, env))
}

func TestTypeIs(t *testing.T) {
	p := TypeIs(ir.NumberType)
	assert.True(t, p(ir.FromInt(1), env))
	assert.True(t, p(ir.FromFloat(1.5), env))
	assert.False(t, p(ir.FromString("1"), env))
	assert.False(t, p(nil, env))
}

func TestCombinators(t *testing.T) {
	str := TypeIs(ir.StringType)
	pre := HasPrefix("ab")

	assert.True(t, And(str, pre)(ir.FromString("abc"), env))
	assert.False(t, And(str, pre)(ir.FromString("xbc"), env))
	assert.True(t, And()(ir.Null(), env))

	assert.True(t, Or(pre, Contains("z"))(ir.FromString("xyz"), env))
	assert.False(t, Or()(ir.Null(), env))

	assert.True(t, Not(pre)(ir.FromString("xyz"), env))
	assert.False(t, Not(pre)(ir.FromString("abz"), env))
}

func TestGlob(t *testing.T) {
	p := Glob("h*o")
	assert.True(t, p(ir.FromString("hello"), env))
	assert.False(t, p(ir.FromString("help"), env))
	assert.False(t, p(ir.FromInt(1), env))

	// invalid patterns reject rather than error
	assert.False(t, Glob("[")(ir.FromString("x"), env))
}

func TestStringPredicates(t *testing.T) {
	assert.True(t, HasPrefix("ab")(ir.FromString("abc"), env))
	assert.False(t, HasPrefix("ab")(ir.FromBool(true), env))
	assert.True(t, Contains("el")(ir.FromString("hello"), env))
	assert.False(t, Contains("el")(nil, env))
}

func TestRegex(t *testing.T) {
	p, err := Regex(`^x-[a-z]+$`)
	require.NoError(t, err)
	assert.True(t, p(ir.FromString("x-foo"), env))
	assert.False(t, p(ir.FromString("y-foo"), env))
	assert.False(t, p(ir.FromInt(3), env))

	_, err = Regex(`(`)
	assert.Error(t, err)
}
