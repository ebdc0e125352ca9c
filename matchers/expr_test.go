package matchers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subsume-dev/subsume/ir"
)

func TestExpr(t *testing.T) {
	p, err := Expr(`value startsWith "abcd"`)
	require.NoError(t, err)
	assert.True(t, p(ir.FromString("abcdefg"), env))
	assert.False(t, p(ir.FromString("defg"), env))

	p, err = Expr(`value > 10`)
	require.NoError(t, err)
	assert.True(t, p(ir.FromInt(42), env))
	assert.False(t, p(ir.FromInt(3), env))
	// runtime type errors reject rather than error
	assert.False(t, p(ir.FromString("nope"), env))
}

func TestExprPathAndResolved(t *testing.T) {
	e := &fakeEnv{
		path:     "$.a[2]",
		resolved: map[string]*ir.Node{"id": ir.FromString("u-7")},
	}

	p, err := Expr(`path == "$.a[2]"`)
	require.NoError(t, err)
	assert.True(t, p(ir.Null(), e))

	p, err = Expr(`value == resolved("id")`)
	require.NoError(t, err)
	assert.True(t, p(ir.FromString("u-7"), e))
	assert.False(t, p(ir.FromString("u-8"), e))

	p, err = Expr(`resolved("missing") == nil`)
	require.NoError(t, err)
	assert.True(t, p(ir.Null(), e))
}

func TestExprCompileError(t *testing.T) {
	_, err := Expr(`value ==`)
	assert.Error(t, err)
}

func TestExprComposite(t *testing.T) {
	node := ir.FromMap(map[string]*ir.Node{
		"name": ir.FromString("svc"),
		"port": ir.FromInt(8080),
	})
	p, err := Expr(`value.name == "svc" and value.port in 8000..9000`)
	require.NoError(t, err)
	assert.True(t, p(node, env))
}
